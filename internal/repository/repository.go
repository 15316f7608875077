package repository

import (
	"time"

	"github.com/hokuto/construction-finance-api/internal/models"
	"github.com/hokuto/construction-finance-api/internal/utils"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(email string) (*models.User, error)
}

// ProjectFilter holds filtering options for listing projects
type ProjectFilter struct {
	// MemberUserID restricts the listing to projects the user belongs to
	MemberUserID uint64

	// Archived filters by the archived flag when set
	Archived *bool
}

// ProjectRepository defines the interface for project data access
type ProjectRepository interface {
	// CreateWithOwner creates a project and its owner membership in a
	// single transaction
	CreateWithOwner(project *models.Project, member *models.ProjectMember) error

	// FindByID finds a project by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Project, error)

	// List retrieves projects matching the filter
	List(filter ProjectFilter) ([]models.Project, error)

	// Update updates a project
	Update(project *models.Project) error

	// SetArchived sets only the archived flag
	SetArchived(id uint64, archived bool) error

	// Delete removes a project and all dependent records
	Delete(id uint64) error

	// AddMember adds a member to a project
	AddMember(member *models.ProjectMember) error

	// RemoveMember removes a member from a project
	RemoveMember(projectID, userID uint64) error

	// FindMember finds a specific project member
	FindMember(projectID, userID uint64) (*models.ProjectMember, error)

	// ListMembers lists the members of a project ordered by role ascending
	ListMembers(projectID uint64) ([]models.ProjectMember, error)

	// ListMembershipsByUserID lists all projects a user is a member of
	ListMembershipsByUserID(userID uint64) ([]models.ProjectMember, error)
}

// ContractorRepository defines the interface for contractor data access
type ContractorRepository interface {
	// Create creates a new contractor
	Create(contractor *models.Contractor) error

	// FindByID finds a contractor by ID
	FindByID(id uint64) (*models.Contractor, error)

	// FindVisibleByName finds the first contractor whose name matches
	// case-insensitively among those the user can see: contractors the
	// user created, or linked to a project the user belongs to
	FindVisibleByName(userID uint64, name string) (*models.Contractor, error)

	// ListByProjectID lists the contractors linked to a project
	ListByProjectID(projectID uint64) ([]models.Contractor, error)

	// Update updates a contractor
	Update(contractor *models.Contractor) error

	// Delete removes a contractor
	Delete(id uint64) error

	// Link associates a contractor with a project
	Link(projectID, contractorID uint64) error

	// Unlink removes the project association
	Unlink(projectID, contractorID uint64) error

	// IsLinked reports whether the contractor is associated with the project
	IsLinked(projectID, contractorID uint64) (bool, error)
}

// ChangeOrderRepository defines the interface for change order data access
type ChangeOrderRepository interface {
	Create(changeOrder *models.ChangeOrder) error
	FindByID(id uint64) (*models.ChangeOrder, error)
	ListByProjectID(projectID uint64) ([]models.ChangeOrder, error)
	ListByContractorID(contractorID uint64) ([]models.ChangeOrder, error)
	Update(changeOrder *models.ChangeOrder) error
	Delete(id uint64) error
}

// InvoiceRepository defines the interface for invoice data access
type InvoiceRepository interface {
	Create(invoice *models.Invoice) error
	FindByID(id uint64, preload ...string) (*models.Invoice, error)
	ListByProjectID(projectID uint64) ([]models.Invoice, error)

	// ListByProjectIDPaged returns one page of the project's invoices,
	// newest first, along with the total count
	ListByProjectIDPaged(projectID uint64, params utils.PaginationParams) ([]models.Invoice, int64, error)
	ListByContractorID(contractorID uint64) ([]models.Invoice, error)
	Update(invoice *models.Invoice) error
	Delete(id uint64) error
}

// InvitationRepository defines the interface for project invitation data access
type InvitationRepository interface {
	// FindPending finds an unaccepted, unexpired invitation for the
	// (project, email) pair
	FindPending(projectID uint64, email string, now time.Time) (*models.ProjectInvitation, error)

	// FindByToken finds an invitation by its opaque token
	FindByToken(token string) (*models.ProjectInvitation, error)

	// Upsert creates the invitation or replaces the existing row for the
	// same (project, email) pair
	Upsert(invitation *models.ProjectInvitation) error

	// MarkAccepted flips the accepted flag
	MarkAccepted(id uint64) error
}
