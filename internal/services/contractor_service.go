package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hokuto/construction-finance-api/internal/finance"
	"github.com/hokuto/construction-finance-api/internal/models"
	"github.com/hokuto/construction-finance-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrContractorNotFound      = errors.New("contractor not found")
	ErrInvalidContractorName   = errors.New("contractor name cannot be empty")
	ErrContractorEmailTaken    = errors.New("a contractor with this email already exists")
	ErrContractorNotLinked     = errors.New("contractor is not associated with this project")
	ErrContractorAlreadyLinked = errors.New("contractor is already associated with this project")
)

// ContractorService provides business logic for contractor operations.
type ContractorService struct {
	contractorRepo  repository.ContractorRepository
	changeOrderRepo repository.ChangeOrderRepository
	invoiceRepo     repository.InvoiceRepository
}

// NewContractorService creates a new ContractorService.
func NewContractorService(
	contractorRepo repository.ContractorRepository,
	changeOrderRepo repository.ChangeOrderRepository,
	invoiceRepo repository.InvoiceRepository,
) *ContractorService {
	return &ContractorService{
		contractorRepo:  contractorRepo,
		changeOrderRepo: changeOrderRepo,
		invoiceRepo:     invoiceRepo,
	}
}

// CreateContractorInput represents parameters to create a contractor and
// link it to a project.
type CreateContractorInput struct {
	Name          string
	Email         *string
	Phone         *string
	Description   *string
	ContractValue float64
	ProjectID     uint64
	UserID        uint64
}

// CreateForProject creates a contractor and links it to the project. The
// two writes are separate calls; if linking fails the contractor is
// compensating-deleted so no orphan remains.
func (s *ContractorService) CreateForProject(input CreateContractorInput) (*models.Contractor, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, ErrInvalidContractorName
	}

	contractor := &models.Contractor{
		Name:          input.Name,
		Email:         input.Email,
		Phone:         input.Phone,
		Description:   input.Description,
		ContractValue: input.ContractValue,
		UserID:        input.UserID,
	}

	if err := s.contractorRepo.Create(contractor); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrContractorEmailTaken
		}
		return nil, fmt.Errorf("failed to create contractor: %w", err)
	}

	var undo compensations
	undo.add(func() error { return s.contractorRepo.Delete(contractor.ID) })

	if err := s.contractorRepo.Link(input.ProjectID, contractor.ID); err != nil {
		undo.run()
		return nil, fmt.Errorf("failed to link contractor to project: %w", err)
	}

	return contractor, nil
}

// LinkToProject associates an existing contractor with a project.
func (s *ContractorService) LinkToProject(projectID, contractorID uint64) error {
	if _, err := s.contractorRepo.FindByID(contractorID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrContractorNotFound
		}
		return fmt.Errorf("failed to find contractor: %w", err)
	}

	linked, err := s.contractorRepo.IsLinked(projectID, contractorID)
	if err != nil {
		return fmt.Errorf("failed to check contractor link: %w", err)
	}
	if linked {
		return ErrContractorAlreadyLinked
	}

	if err := s.contractorRepo.Link(projectID, contractorID); err != nil {
		return fmt.Errorf("failed to link contractor: %w", err)
	}
	return nil
}

// UnlinkFromProject removes a contractor's association with a project. The
// contractor record itself is kept.
func (s *ContractorService) UnlinkFromProject(projectID, contractorID uint64) error {
	linked, err := s.contractorRepo.IsLinked(projectID, contractorID)
	if err != nil {
		return fmt.Errorf("failed to check contractor link: %w", err)
	}
	if !linked {
		return ErrContractorNotLinked
	}

	if err := s.contractorRepo.Unlink(projectID, contractorID); err != nil {
		return fmt.Errorf("failed to unlink contractor: %w", err)
	}
	return nil
}

// ContractorDetail is a contractor with its global rollup across all of its
// change orders and invoices.
type ContractorDetail struct {
	Contractor   models.Contractor
	ChangeOrders []models.ChangeOrder
	Invoices     []models.Invoice
	Metrics      finance.ContractorMetrics
	Status       finance.BudgetStatus
}

// GetContractorDetail loads the contractor's records and computes metrics.
func (s *ContractorService) GetContractorDetail(contractorID uint64) (*ContractorDetail, error) {
	contractor, err := s.contractorRepo.FindByID(contractorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrContractorNotFound
		}
		return nil, fmt.Errorf("failed to find contractor: %w", err)
	}

	changeOrders, err := s.changeOrderRepo.ListByContractorID(contractorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list change orders: %w", err)
	}

	invoices, err := s.invoiceRepo.ListByContractorID(contractorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}

	metrics := finance.CalculateContractorMetrics(*contractor, changeOrders, invoices)

	return &ContractorDetail{
		Contractor:   *contractor,
		ChangeOrders: changeOrders,
		Invoices:     invoices,
		Metrics:      metrics,
		Status:       finance.Classify(metrics.RemainingBalance),
	}, nil
}

// UpdateContractorInput is the patch applied to a contractor.
type UpdateContractorInput struct {
	Name          *string
	Email         *string
	Phone         *string
	Description   *string
	ContractValue *float64
}

// UpdateContractor applies the patch and returns the updated contractor.
func (s *ContractorService) UpdateContractor(contractorID uint64, input UpdateContractorInput) (*models.Contractor, error) {
	contractor, err := s.contractorRepo.FindByID(contractorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrContractorNotFound
		}
		return nil, fmt.Errorf("failed to find contractor: %w", err)
	}

	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, ErrInvalidContractorName
		}
		contractor.Name = *input.Name
	}
	if input.Email != nil {
		contractor.Email = input.Email
	}
	if input.Phone != nil {
		contractor.Phone = input.Phone
	}
	if input.Description != nil {
		contractor.Description = input.Description
	}
	if input.ContractValue != nil {
		contractor.ContractValue = *input.ContractValue
	}

	if err := s.contractorRepo.Update(contractor); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrContractorEmailTaken
		}
		return nil, fmt.Errorf("failed to update contractor: %w", err)
	}

	return contractor, nil
}

// DeleteContractor removes a contractor and its project links.
func (s *ContractorService) DeleteContractor(contractorID uint64) error {
	if _, err := s.contractorRepo.FindByID(contractorID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrContractorNotFound
		}
		return fmt.Errorf("failed to find contractor: %w", err)
	}

	if err := s.contractorRepo.Delete(contractorID); err != nil {
		return fmt.Errorf("failed to delete contractor: %w", err)
	}
	return nil
}
