package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/hokuto/construction-finance-api/internal/constants"
	"github.com/hokuto/construction-finance-api/internal/models"
	"github.com/hokuto/construction-finance-api/internal/repository"
	"github.com/hokuto/construction-finance-api/internal/storage"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var ErrExtractionFailed = errors.New("failed to extract invoice data")

const ingestNamespace = "auto"

const autoContractorDescription = "Auto-created from invoice upload"

// IngestService runs the automated invoice upload pipeline: store the
// file, extract its text, extract structured data, find or create the
// issuing contractor, and record the invoice.
type IngestService struct {
	invoiceRepo    repository.InvoiceRepository
	contractorRepo repository.ContractorRepository
	extractor      InvoiceExtractor
	store          storage.Store
	logger         *zap.Logger
}

// NewIngestService creates a new IngestService.
func NewIngestService(invoiceRepo repository.InvoiceRepository, contractorRepo repository.ContractorRepository, extractor InvoiceExtractor, store storage.Store, logger *zap.Logger) *IngestService {
	return &IngestService{
		invoiceRepo:    invoiceRepo,
		contractorRepo: contractorRepo,
		extractor:      extractor,
		store:          store,
		logger:         logger,
	}
}

// IngestResult reports what the pipeline produced.
type IngestResult struct {
	Invoice           *models.Invoice    `json:"invoice"`
	Contractor        *models.Contractor `json:"contractor"`
	ContractorCreated bool               `json:"contractor_created"`
	Extracted         *ExtractedInvoice  `json:"extracted"`
}

// IngestInvoice processes an uploaded invoice document for a project. The
// created invoice is due 30 days out and starts pending. A contractor
// created by the pipeline is removed again if the invoice save fails.
func (s *IngestService) IngestInvoice(ctx context.Context, projectID, userID uint64, filename string, file []byte) (*IngestResult, error) {
	path := storage.BuildPath(ingestNamespace, strconv.FormatUint(projectID, 10), filename, time.Now())
	fileURL, err := s.store.Put(path, bytes.NewReader(file))
	if err != nil {
		s.logger.Error("invoice file upload failed",
			zap.String("path", path),
			zap.Error(err))
		return nil, ErrFileUploadFailed
	}

	text, err := s.extractor.ExtractText(ctx, file)
	if err != nil {
		s.logger.Error("invoice text extraction failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrExtractionFailed, err)
	}

	extracted, err := s.extractor.ExtractInvoiceData(ctx, text)
	if err != nil {
		s.logger.Error("invoice data extraction failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrExtractionFailed, err)
	}
	applyExtractionDefaults(extracted)

	contractor, created, err := s.findOrCreateContractor(projectID, userID, extracted)
	if err != nil {
		return nil, err
	}

	var undo compensations
	if created {
		contractorID := contractor.ID
		undo.add(func() error { return s.contractorRepo.Delete(contractorID) })
	}

	dueDate := time.Now().Add(constants.InvoiceDueInterval)
	invoice := &models.Invoice{
		ProjectID:     projectID,
		ContractorID:  contractor.ID,
		InvoiceNumber: extracted.InvoiceNumber,
		Description:   extracted.Description,
		Amount:        extracted.Amount,
		FileURL:       &fileURL,
		Status:        models.InvoiceStatusPending,
		DueDate:       &dueDate,
	}
	if err := s.invoiceRepo.Create(invoice); err != nil {
		undo.run()
		return nil, fmt.Errorf("failed to create invoice: %w", err)
	}

	s.logger.Info("invoice ingested",
		zap.Uint64("project_id", projectID),
		zap.Uint64("invoice_id", invoice.ID),
		zap.Uint64("contractor_id", contractor.ID),
		zap.Bool("contractor_created", created))

	return &IngestResult{
		Invoice:           invoice,
		Contractor:        contractor,
		ContractorCreated: created,
		Extracted:         extracted,
	}, nil
}

// findOrCreateContractor matches the extracted vendor name against
// contractors the user can see, case-insensitively, creating and linking
// a new contractor when none matches. Other users' contractors are never
// matched even when the name collides.
func (s *IngestService) findOrCreateContractor(projectID, userID uint64, extracted *ExtractedInvoice) (*models.Contractor, bool, error) {
	contractor, err := s.contractorRepo.FindVisibleByName(userID, extracted.ContractorName)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, fmt.Errorf("failed to look up contractor: %w", err)
	}

	if contractor != nil {
		linked, err := s.contractorRepo.IsLinked(projectID, contractor.ID)
		if err != nil {
			return nil, false, fmt.Errorf("failed to check contractor link: %w", err)
		}
		if !linked {
			if err := s.contractorRepo.Link(projectID, contractor.ID); err != nil {
				return nil, false, fmt.Errorf("failed to link contractor: %w", err)
			}
		}
		return contractor, false, nil
	}

	description := autoContractorDescription
	contractor = &models.Contractor{
		Name:          extracted.ContractorName,
		Description:   &description,
		ContractValue: 0,
		UserID:        userID,
	}
	if extracted.ContractorEmail != "" {
		contractor.Email = &extracted.ContractorEmail
	}
	if extracted.ContractorPhone != "" {
		contractor.Phone = &extracted.ContractorPhone
	}
	if err := s.contractorRepo.Create(contractor); err != nil {
		return nil, false, fmt.Errorf("failed to create contractor: %w", err)
	}
	if err := s.contractorRepo.Link(projectID, contractor.ID); err != nil {
		if delErr := s.contractorRepo.Delete(contractor.ID); delErr != nil {
			s.logger.Warn("failed to clean up contractor after link failure",
				zap.Uint64("contractor_id", contractor.ID),
				zap.Error(delErr))
		}
		return nil, false, fmt.Errorf("failed to link contractor: %w", err)
	}

	return contractor, true, nil
}
