package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hokuto/construction-finance-api/internal/models"
	"github.com/hokuto/construction-finance-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrChangeOrderNotFound    = errors.New("change order not found")
	ErrDescriptionRequired    = errors.New("description is required")
	ErrContractorNotOnProject = errors.New("contractor is not associated with this project")
)

// ChangeOrderService provides business logic for change order operations.
type ChangeOrderService struct {
	changeOrderRepo repository.ChangeOrderRepository
	contractorRepo  repository.ContractorRepository
}

// NewChangeOrderService creates a new ChangeOrderService.
func NewChangeOrderService(changeOrderRepo repository.ChangeOrderRepository, contractorRepo repository.ContractorRepository) *ChangeOrderService {
	return &ChangeOrderService{
		changeOrderRepo: changeOrderRepo,
		contractorRepo:  contractorRepo,
	}
}

// CreateChangeOrderInput represents parameters to create a change order.
// ProjectAmount and ContractorAmount are independent: either side may be
// zero while the other carries the adjustment.
type CreateChangeOrderInput struct {
	ProjectID        uint64
	ContractorID     uint64
	Description      string
	ProjectAmount    float64
	ContractorAmount float64
	Status           models.ChangeOrderStatus
}

// CreateChangeOrder creates a change order for a contractor on a project.
func (s *ChangeOrderService) CreateChangeOrder(input CreateChangeOrderInput) (*models.ChangeOrder, error) {
	if strings.TrimSpace(input.Description) == "" {
		return nil, ErrDescriptionRequired
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
		status = models.ChangeOrderStatusPending
	}

	changeOrder := &models.ChangeOrder{
		ProjectID:        input.ProjectID,
		ContractorID:     input.ContractorID,
		Description:      input.Description,
		ProjectAmount:    input.ProjectAmount,
		ContractorAmount: input.ContractorAmount,
		Status:           status,
	}

	if err := s.changeOrderRepo.Create(changeOrder); err != nil {
		return nil, fmt.Errorf("failed to create change order: %w", err)
	}

	return changeOrder, nil
}

// UpdateChangeOrderInput is the patch applied to a change order.
type UpdateChangeOrderInput struct {
	Description      *string
	ProjectAmount    *float64
	ContractorAmount *float64
	Status           *models.ChangeOrderStatus
}

// UpdateChangeOrder applies the patch and returns the updated change order.
func (s *ChangeOrderService) UpdateChangeOrder(id uint64, input UpdateChangeOrderInput) (*models.ChangeOrder, error) {
	changeOrder, err := s.changeOrderRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrChangeOrderNotFound
		}
		return nil, fmt.Errorf("failed to find change order: %w", err)
	}

	if input.Description != nil {
		if strings.TrimSpace(*input.Description) == "" {
			return nil, ErrDescriptionRequired
		}
		changeOrder.Description = *input.Description
	}
	if input.ProjectAmount != nil {
		changeOrder.ProjectAmount = *input.ProjectAmount
	}
	if input.ContractorAmount != nil {
		changeOrder.ContractorAmount = *input.ContractorAmount
	}
	if input.Status != nil {
		changeOrder.Status = *input.Status
	}

	if err := s.changeOrderRepo.Update(changeOrder); err != nil {
		return nil, fmt.Errorf("failed to update change order: %w", err)
	}

	return changeOrder, nil
}

// GetChangeOrder returns a change order by ID.
func (s *ChangeOrderService) GetChangeOrder(id uint64) (*models.ChangeOrder, error) {
	changeOrder, err := s.changeOrderRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrChangeOrderNotFound
		}
		return nil, fmt.Errorf("failed to find change order: %w", err)
	}
	return changeOrder, nil
}

// DeleteChangeOrder removes a change order.
func (s *ChangeOrderService) DeleteChangeOrder(id uint64) error {
	if _, err := s.changeOrderRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrChangeOrderNotFound
		}
		return fmt.Errorf("failed to find change order: %w", err)
	}

	if err := s.changeOrderRepo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete change order: %w", err)
	}
	return nil
}
