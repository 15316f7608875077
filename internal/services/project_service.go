package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hokuto/construction-finance-api/internal/finance"
	"github.com/hokuto/construction-finance-api/internal/models"
	"github.com/hokuto/construction-finance-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrProjectNotFound       = errors.New("project not found")
	ErrInvalidProjectName    = errors.New("project name cannot be empty")
	ErrNegativeContractValue = errors.New("contract value cannot be negative")
	ErrProjectMemberNotFound = errors.New("project member not found")
	ErrCannotRemoveOwner     = errors.New("the project owner cannot be removed")
	ErrCannotRemoveYourself  = errors.New("cannot remove yourself from the project")
)

// ProjectService provides business logic for project operations.
type ProjectService struct {
	projectRepo     repository.ProjectRepository
	contractorRepo  repository.ContractorRepository
	changeOrderRepo repository.ChangeOrderRepository
	invoiceRepo     repository.InvoiceRepository
}

// NewProjectService creates a new ProjectService.
func NewProjectService(
	projectRepo repository.ProjectRepository,
	contractorRepo repository.ContractorRepository,
	changeOrderRepo repository.ChangeOrderRepository,
	invoiceRepo repository.InvoiceRepository,
) *ProjectService {
	return &ProjectService{
		projectRepo:     projectRepo,
		contractorRepo:  contractorRepo,
		changeOrderRepo: changeOrderRepo,
		invoiceRepo:     invoiceRepo,
	}
}

// CreateProjectInput represents parameters to create a new project.
type CreateProjectInput struct {
	Name          string
	Description   *string
	Status        models.ProjectStatus
	ContractValue float64
	OwnerID       uint64
}

// CreateProject creates a project and registers the creator as owner.
func (s *ProjectService) CreateProject(input CreateProjectInput) (*models.Project, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, ErrInvalidProjectName
	}
	if input.ContractValue < 0 {
		return nil, ErrNegativeContractValue
	}

	status := input.Status
	if status == "" {
		status = models.ProjectStatusPending
	}

	project := &models.Project{
		Name:          input.Name,
		Description:   input.Description,
		Status:        status,
		ContractValue: input.ContractValue,
		Archived:      false,
		UserID:        input.OwnerID,
	}

	member := &models.ProjectMember{
		UserID:   input.OwnerID,
		Role:     models.RoleOwner,
		JoinedAt: time.Now(),
	}

	if err := s.projectRepo.CreateWithOwner(project, member); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	return project, nil
}

// ListProjects returns the user's projects filtered by the archived flag.
// Before filtering, every project's archived flag is resynchronized to its
// status: completed projects are archived, everything else is not.
func (s *ProjectService) ListProjects(userID uint64, archived bool) ([]models.Project, error) {
	all, err := s.projectRepo.List(repository.ProjectFilter{MemberUserID: userID})
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}

	for _, project := range all {
		shouldBeArchived := project.Status == models.ProjectStatusCompleted
		if project.Archived != shouldBeArchived {
			if err := s.projectRepo.SetArchived(project.ID, shouldBeArchived); err != nil {
				return nil, fmt.Errorf("failed to update archive flag: %w", err)
			}
		}
	}

	projects, err := s.projectRepo.List(repository.ProjectFilter{
		MemberUserID: userID,
		Archived:     &archived,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, nil
}

// ProjectDetail is the full record graph for a project along with its
// derived metrics, recomputed on every call.
type ProjectDetail struct {
	Project         models.Project
	Contractors     []models.Contractor
	ChangeOrders    []models.ChangeOrder
	Invoices        []models.Invoice
	Metrics         finance.ProjectMetrics
	ContractorViews []finance.ContractorView
	OverBilled      []finance.OverBilledAlert
}

// GetProjectDetail loads the project's related records and computes the
// rollups and the filtered contractor view.
func (s *ProjectService) GetProjectDetail(projectID uint64, query finance.ContractorQuery) (*ProjectDetail, error) {
	project, err := s.projectRepo.FindByID(projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}

	contractors, err := s.contractorRepo.ListByProjectID(projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list contractors: %w", err)
	}

	changeOrders, err := s.changeOrderRepo.ListByProjectID(projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list change orders: %w", err)
	}

	invoices, err := s.invoiceRepo.ListByProjectID(projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}

	return &ProjectDetail{
		Project:         *project,
		Contractors:     contractors,
		ChangeOrders:    changeOrders,
		Invoices:        invoices,
		Metrics:         finance.CalculateProjectMetrics(*project, changeOrders, invoices),
		ContractorViews: finance.FilterContractors(contractors, changeOrders, invoices, query),
		OverBilled:      finance.OverBilledContractors(contractors, changeOrders, invoices),
	}, nil
}

// UpdateProjectInput is the patch applied to a project. Nil fields are left
// unchanged.
type UpdateProjectInput struct {
	Name          *string
	Description   *string
	Status        *models.ProjectStatus
	ContractValue *float64
}

// UpdateProject applies the patch and returns the updated project.
func (s *ProjectService) UpdateProject(projectID uint64, input UpdateProjectInput) (*models.Project, error) {
	project, err := s.projectRepo.FindByID(projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}

	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, ErrInvalidProjectName
		}
		project.Name = *input.Name
	}
	if input.Description != nil {
		project.Description = input.Description
	}
	if input.Status != nil {
		project.Status = *input.Status
	}
	if input.ContractValue != nil {
		if *input.ContractValue < 0 {
			return nil, ErrNegativeContractValue
		}
		project.ContractValue = *input.ContractValue
	}

	if err := s.projectRepo.Update(project); err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}

	return project, nil
}

// DeleteProject removes a project and its dependent records.
func (s *ProjectService) DeleteProject(projectID uint64) error {
	if _, err := s.projectRepo.FindByID(projectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProjectNotFound
		}
		return fmt.Errorf("failed to find project: %w", err)
	}

	if err := s.projectRepo.Delete(projectID); err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}

	return nil
}

// SetArchived sets the archived flag explicitly.
func (s *ProjectService) SetArchived(projectID uint64, archived bool) error {
	if _, err := s.projectRepo.FindByID(projectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProjectNotFound
		}
		return fmt.Errorf("failed to find project: %w", err)
	}

	if err := s.projectRepo.SetArchived(projectID, archived); err != nil {
		return fmt.Errorf("failed to update archive flag: %w", err)
	}
	return nil
}

// ListMembers lists the project's members ordered by role.
func (s *ProjectService) ListMembers(projectID uint64) ([]models.ProjectMember, error) {
	members, err := s.projectRepo.ListMembers(projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	return members, nil
}

// RemoveMember removes a non-owner member from the project.
func (s *ProjectService) RemoveMember(projectID, actorID, targetID uint64) error {
	if targetID == actorID {
		return ErrCannotRemoveYourself
	}

	member, err := s.projectRepo.FindMember(projectID, targetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProjectMemberNotFound
		}
		return fmt.Errorf("failed to find project member: %w", err)
	}

	if member.Role == models.RoleOwner {
		return ErrCannotRemoveOwner
	}

	if err := s.projectRepo.RemoveMember(projectID, targetID); err != nil {
		return fmt.Errorf("failed to remove member: %w", err)
	}

	return nil
}
