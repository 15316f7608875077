package dto

import (
	"math"
	"time"

	"github.com/hokuto/construction-finance-api/internal/finance"
	"github.com/hokuto/construction-finance-api/internal/models"
)

// UserDTO represents a user in API responses
type UserDTO struct {
	ID    uint64 `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// ProjectDTO represents a project in API responses
type ProjectDTO struct {
	ID            uint64               `json:"id"`
	Name          string               `json:"name"`
	Description   *string              `json:"description"`
	Status        models.ProjectStatus `json:"status"`
	ContractValue float64              `json:"contract_value"`
	Archived      bool                 `json:"archived"`
	UserID        uint64               `json:"user_id"`
	CreatedAt     time.Time            `json:"created_at"`
	UpdatedAt     time.Time            `json:"updated_at"`
}

// ContractorDTO represents a contractor in API responses
type ContractorDTO struct {
	ID            uint64    `json:"id"`
	Name          string    `json:"name"`
	Email         *string   `json:"email"`
	Phone         *string   `json:"phone"`
	Description   *string   `json:"description"`
	ContractValue float64   `json:"contract_value"`
	UserID        uint64    `json:"user_id"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ContractorViewDTO pairs a contractor with its computed rollup and badge
type ContractorViewDTO struct {
	ContractorDTO
	Metrics finance.ContractorMetrics `json:"metrics"`
	Status  finance.BudgetStatus      `json:"status"`
}

// ChangeOrderDTO represents a change order in API responses
type ChangeOrderDTO struct {
	ID               uint64                   `json:"id"`
	ProjectID        uint64                   `json:"project_id"`
	ContractorID     uint64                   `json:"contractor_id"`
	Description      string                   `json:"description"`
	ProjectAmount    float64                  `json:"project_amount"`
	ContractorAmount float64                  `json:"contractor_amount"`
	Status           models.ChangeOrderStatus `json:"status"`
	CreatedAt        time.Time                `json:"created_at"`
	UpdatedAt        time.Time                `json:"updated_at"`
}

// InvoiceDTO represents an invoice in API responses. Amount is the stored
// signed value; Magnitude and IsCredit are its decomposition so clients
// can round-trip credit invoices through the edit form.
type InvoiceDTO struct {
	ID            uint64               `json:"id"`
	ProjectID     uint64               `json:"project_id"`
	ContractorID  uint64               `json:"contractor_id"`
	InvoiceNumber string               `json:"invoice_number"`
	Description   string               `json:"description"`
	Amount        float64              `json:"amount"`
	Magnitude     float64              `json:"magnitude"`
	IsCredit      bool                 `json:"is_credit"`
	FileURL       *string              `json:"file_url"`
	Status        models.InvoiceStatus `json:"status"`
	DueDate       *time.Time           `json:"due_date"`
	CreatedAt     time.Time            `json:"created_at"`
	UpdatedAt     time.Time            `json:"updated_at"`
	Contractor    *ContractorDTO       `json:"contractor,omitempty"`
}

// ProjectMemberDTO represents a member in a project
type ProjectMemberDTO struct {
	User     UserDTO            `json:"user"`
	Role     models.ProjectRole `json:"role"`
	JoinedAt time.Time          `json:"joined_at"`
}

// InvitationDTO represents a project invitation in API responses
type InvitationDTO struct {
	ID        uint64             `json:"id"`
	ProjectID uint64             `json:"project_id"`
	Email     string             `json:"email"`
	Role      models.ProjectRole `json:"role"`
	Token     string             `json:"token"`
	Accepted  bool               `json:"accepted"`
	ExpiresAt time.Time          `json:"expires_at"`
}

// OverBilledAlertDTO surfaces a contractor billed past its contract value
type OverBilledAlertDTO struct {
	Contractor    ContractorDTO `json:"contractor"`
	OverageAmount float64       `json:"overage_amount"`
	LatestInvoice *InvoiceDTO   `json:"latest_invoice,omitempty"`
}

// ProjectDetailDTO is the full project view: records plus rollups
type ProjectDetailDTO struct {
	ProjectDTO
	Metrics      finance.ProjectMetrics `json:"metrics"`
	Contractors  []ContractorViewDTO    `json:"contractors"`
	ChangeOrders []ChangeOrderDTO       `json:"change_orders"`
	Invoices     []InvoiceDTO           `json:"invoices"`
	OverBilled   []OverBilledAlertDTO   `json:"over_billed"`
}

// ContractorDetailDTO is the full contractor view across a project
type ContractorDetailDTO struct {
	ContractorDTO
	Metrics      finance.ContractorMetrics `json:"metrics"`
	Status       finance.BudgetStatus      `json:"status"`
	ChangeOrders []ChangeOrderDTO          `json:"change_orders"`
	Invoices     []InvoiceDTO              `json:"invoices"`
}

// Conversion functions

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:    user.ID,
		Email: user.Email,
		Name:  user.Name,
	}
}

// ToProjectDTO converts a Project model to ProjectDTO
func ToProjectDTO(project models.Project) ProjectDTO {
	return ProjectDTO{
		ID:            project.ID,
		Name:          project.Name,
		Description:   project.Description,
		Status:        project.Status,
		ContractValue: project.ContractValue,
		Archived:      project.Archived,
		UserID:        project.UserID,
		CreatedAt:     project.CreatedAt,
		UpdatedAt:     project.UpdatedAt,
	}
}

// ToContractorDTO converts a Contractor model to ContractorDTO
func ToContractorDTO(contractor models.Contractor) ContractorDTO {
	return ContractorDTO{
		ID:            contractor.ID,
		Name:          contractor.Name,
		Email:         contractor.Email,
		Phone:         contractor.Phone,
		Description:   contractor.Description,
		ContractValue: contractor.ContractValue,
		UserID:        contractor.UserID,
		CreatedAt:     contractor.CreatedAt,
		UpdatedAt:     contractor.UpdatedAt,
	}
}

// ToContractorViewDTO converts a finance.ContractorView to DTO
func ToContractorViewDTO(view finance.ContractorView) ContractorViewDTO {
	return ContractorViewDTO{
		ContractorDTO: ToContractorDTO(view.Contractor),
		Metrics:       view.Metrics,
		Status:        view.Status,
	}
}

// ToChangeOrderDTO converts a ChangeOrder model to ChangeOrderDTO
func ToChangeOrderDTO(changeOrder models.ChangeOrder) ChangeOrderDTO {
	return ChangeOrderDTO{
		ID:               changeOrder.ID,
		ProjectID:        changeOrder.ProjectID,
		ContractorID:     changeOrder.ContractorID,
		Description:      changeOrder.Description,
		ProjectAmount:    changeOrder.ProjectAmount,
		ContractorAmount: changeOrder.ContractorAmount,
		Status:           changeOrder.Status,
		CreatedAt:        changeOrder.CreatedAt,
		UpdatedAt:        changeOrder.UpdatedAt,
	}
}

// ToInvoiceDTO converts an Invoice model to InvoiceDTO
func ToInvoiceDTO(invoice models.Invoice) InvoiceDTO {
	dto := InvoiceDTO{
		ID:            invoice.ID,
		ProjectID:     invoice.ProjectID,
		ContractorID:  invoice.ContractorID,
		InvoiceNumber: invoice.InvoiceNumber,
		Description:   invoice.Description,
		Amount:        invoice.Amount,
		Magnitude:     math.Abs(invoice.Amount),
		IsCredit:      invoice.IsCredit(),
		FileURL:       invoice.FileURL,
		Status:        invoice.Status,
		DueDate:       invoice.DueDate,
		CreatedAt:     invoice.CreatedAt,
		UpdatedAt:     invoice.UpdatedAt,
	}

	// Include contractor if preloaded
	if invoice.Contractor.ID != 0 {
		contractor := ToContractorDTO(invoice.Contractor)
		dto.Contractor = &contractor
	}

	return dto
}

// ToProjectMemberDTO converts a member to DTO
func ToProjectMemberDTO(member models.ProjectMember) ProjectMemberDTO {
	return ProjectMemberDTO{
		User:     ToUserDTO(member.User),
		Role:     member.Role,
		JoinedAt: member.JoinedAt,
	}
}

// ToInvitationDTO converts a ProjectInvitation model to InvitationDTO
func ToInvitationDTO(invitation models.ProjectInvitation) InvitationDTO {
	return InvitationDTO{
		ID:        invitation.ID,
		ProjectID: invitation.ProjectID,
		Email:     invitation.Email,
		Role:      invitation.Role,
		Token:     invitation.Token,
		Accepted:  invitation.Accepted,
		ExpiresAt: invitation.ExpiresAt,
	}
}

// ToOverBilledAlertDTO converts a finance.OverBilledAlert to DTO
func ToOverBilledAlertDTO(alert finance.OverBilledAlert) OverBilledAlertDTO {
	dto := OverBilledAlertDTO{
		Contractor:    ToContractorDTO(alert.Contractor),
		OverageAmount: alert.OverageAmount,
	}
	if alert.LatestInvoice != nil {
		invoice := ToInvoiceDTO(*alert.LatestInvoice)
		dto.LatestInvoice = &invoice
	}
	return dto
}
