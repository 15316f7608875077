package services

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/hokuto/construction-finance-api/internal/models"
	"github.com/hokuto/construction-finance-api/internal/repository"
	"github.com/hokuto/construction-finance-api/internal/storage"
	"github.com/hokuto/construction-finance-api/internal/utils"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrInvoiceNotFound       = errors.New("invoice not found")
	ErrInvoiceNumberRequired = errors.New("invoice number is required")
	ErrNegativeAmount        = errors.New("amount must not be negative")
	ErrFileUploadFailed      = errors.New("failed to upload invoice file")
)

const invoiceNamespace = "invoices"

// InvoiceService provides business logic for invoice operations.
//
// Invoice amounts are stored signed: a credit invoice carries a negative
// amount. Callers supply a non-negative magnitude plus a credit flag and
// the service derives the sign.
type InvoiceService struct {
	invoiceRepo    repository.InvoiceRepository
	contractorRepo repository.ContractorRepository
	store          storage.Store
	logger         *zap.Logger
}

// NewInvoiceService creates a new InvoiceService.
func NewInvoiceService(invoiceRepo repository.InvoiceRepository, contractorRepo repository.ContractorRepository, store storage.Store, logger *zap.Logger) *InvoiceService {
	return &InvoiceService{
		invoiceRepo:    invoiceRepo,
		contractorRepo: contractorRepo,
		store:          store,
		logger:         logger,
	}
}

// SignedAmount converts a non-negative magnitude and credit flag into the
// stored signed amount.
func SignedAmount(magnitude float64, isCredit bool) float64 {
	if isCredit {
		return -math.Abs(magnitude)
	}
	return math.Abs(magnitude)
}

// InvoiceFile is an optional file attached to an invoice.
type InvoiceFile struct {
	Filename string
	Reader   io.Reader
}

// CreateInvoiceInput represents parameters to create an invoice.
type CreateInvoiceInput struct {
	ProjectID     uint64
	ContractorID  uint64
	InvoiceNumber string
	Description   string
	Amount        float64
	IsCredit      bool
	Status        models.InvoiceStatus
	DueDate       *time.Time
	File          *InvoiceFile
}

// CreateInvoice creates an invoice for a contractor on a project,
// uploading the attached file first when one is provided. A failed upload
// aborts the save.
func (s *InvoiceService) CreateInvoice(input CreateInvoiceInput) (*models.Invoice, error) {
	if strings.TrimSpace(input.InvoiceNumber) == "" {
		return nil, ErrInvoiceNumberRequired
	}
	if input.Amount < 0 {
		return nil, ErrNegativeAmount
	}

	linked, err := s.contractorRepo.IsLinked(input.ProjectID, input.ContractorID)
	if err != nil {
		return nil, fmt.Errorf("failed to check contractor link: %w", err)
	}
	if !linked {
		return nil, ErrContractorNotOnProject
	}

	status := input.Status
	if status == "" {
		status = models.InvoiceStatusPending
	}

	invoice := &models.Invoice{
		ProjectID:     input.ProjectID,
		ContractorID:  input.ContractorID,
		InvoiceNumber: input.InvoiceNumber,
		Description:   input.Description,
		Amount:        SignedAmount(input.Amount, input.IsCredit),
		Status:        status,
		DueDate:       input.DueDate,
	}

	if input.File != nil {
		url, err := s.uploadFile("new", input.File)
		if err != nil {
			return nil, err
		}
		invoice.FileURL = &url
	}

	if err := s.invoiceRepo.Create(invoice); err != nil {
		return nil, fmt.Errorf("failed to create invoice: %w", err)
	}

	return invoice, nil
}

// UpdateInvoiceInput is the patch applied to an invoice. Amount and
// IsCredit travel together: when either is set the signed amount is
// recomputed from both. ClearDueDate removes the due date and wins over
// DueDate.
type UpdateInvoiceInput struct {
	InvoiceNumber *string
	Description   *string
	Amount        *float64
	IsCredit      *bool
	Status        *models.InvoiceStatus
	DueDate       *time.Time
	ClearDueDate  bool
	File          *InvoiceFile
}

// UpdateInvoice applies the patch and returns the updated invoice.
func (s *InvoiceService) UpdateInvoice(id uint64, input UpdateInvoiceInput) (*models.Invoice, error) {
	invoice, err := s.invoiceRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvoiceNotFound
		}
		return nil, fmt.Errorf("failed to find invoice: %w", err)
	}

	if input.InvoiceNumber != nil {
		if strings.TrimSpace(*input.InvoiceNumber) == "" {
			return nil, ErrInvoiceNumberRequired
		}
		invoice.InvoiceNumber = *input.InvoiceNumber
	}
	if input.Description != nil {
		invoice.Description = *input.Description
	}
	if input.Amount != nil || input.IsCredit != nil {
		magnitude := math.Abs(invoice.Amount)
		isCredit := invoice.IsCredit()
		if input.Amount != nil {
			if *input.Amount < 0 {
				return nil, ErrNegativeAmount
			}
			magnitude = *input.Amount
		}
		if input.IsCredit != nil {
			isCredit = *input.IsCredit
		}
		invoice.Amount = SignedAmount(magnitude, isCredit)
	}
	if input.Status != nil {
		invoice.Status = *input.Status
	}
	if input.ClearDueDate {
		invoice.DueDate = nil
	} else if input.DueDate != nil {
		invoice.DueDate = input.DueDate
	}
	if input.File != nil {
		url, err := s.uploadFile(strconv.FormatUint(invoice.ID, 10), input.File)
		if err != nil {
			return nil, err
		}
		invoice.FileURL = &url
	}

	if err := s.invoiceRepo.Update(invoice); err != nil {
		return nil, fmt.Errorf("failed to update invoice: %w", err)
	}

	return invoice, nil
}

// ListProjectInvoices returns one page of the project's invoices, newest
// first, with the total count for pagination metadata.
func (s *InvoiceService) ListProjectInvoices(projectID uint64, params utils.PaginationParams) ([]models.Invoice, int64, error) {
	invoices, total, err := s.invoiceRepo.ListByProjectIDPaged(projectID, params)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list invoices: %w", err)
	}
	return invoices, total, nil
}

// GetInvoice returns an invoice by ID with its contractor preloaded.
func (s *InvoiceService) GetInvoice(id uint64) (*models.Invoice, error) {
	invoice, err := s.invoiceRepo.FindByID(id, "Contractor")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvoiceNotFound
		}
		return nil, fmt.Errorf("failed to find invoice: %w", err)
	}
	return invoice, nil
}

// DeleteInvoice removes an invoice. The stored file, if any, is left in
// place so historical URLs stay resolvable.
func (s *InvoiceService) DeleteInvoice(id uint64) error {
	if _, err := s.invoiceRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvoiceNotFound
		}
		return fmt.Errorf("failed to find invoice: %w", err)
	}

	if err := s.invoiceRepo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete invoice: %w", err)
	}
	return nil
}

func (s *InvoiceService) uploadFile(entityID string, file *InvoiceFile) (string, error) {
	path := storage.BuildPath(invoiceNamespace, entityID, file.Filename, time.Now())
	url, err := s.store.Put(path, file.Reader)
	if err != nil {
		s.logger.Error("invoice file upload failed",
			zap.String("path", path),
			zap.Error(err))
		return "", ErrFileUploadFailed
	}
	return url, nil
}
