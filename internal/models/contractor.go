package models

import (
	"time"

	"gorm.io/gorm"
)

type Contractor struct {
	ID            uint64         `gorm:"primarykey" json:"id"`
	Name          string         `gorm:"type:varchar(255);not null" json:"name"`
	Email         *string        `gorm:"type:varchar(255);uniqueIndex" json:"email"`
	Phone         *string        `gorm:"type:varchar(50)" json:"phone"`
	Description   *string        `gorm:"type:text" json:"description"`
	ContractValue float64        `gorm:"not null;default:0" json:"contract_value"`
	UserID        uint64         `gorm:"not null" json:"user_id"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Projects     []ProjectContractor `gorm:"foreignKey:ContractorID" json:"projects,omitempty"`
	ChangeOrders []ChangeOrder       `gorm:"foreignKey:ContractorID" json:"change_orders,omitempty"`
	Invoices     []Invoice           `gorm:"foreignKey:ContractorID" json:"invoices,omitempty"`
}

// ProjectContractor links contractors to projects (many-to-many).
type ProjectContractor struct {
	ProjectID    uint64    `gorm:"primarykey" json:"project_id"`
	ContractorID uint64    `gorm:"primarykey" json:"contractor_id"`
	CreatedAt    time.Time `json:"created_at"`

	// Relations
	Project    Project    `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	Contractor Contractor `gorm:"foreignKey:ContractorID" json:"contractor,omitempty"`
}
