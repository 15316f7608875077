package models

import (
	"time"

	"gorm.io/gorm"
)

type ProjectStatus = string

// Project statuses are an open-ended label set; these are the ones the UI offers.
const (
	ProjectStatusPending   ProjectStatus = "pending"
	ProjectStatusActive    ProjectStatus = "active"
	ProjectStatusCompleted ProjectStatus = "completed"
	ProjectStatusOnHold    ProjectStatus = "on-hold"
)

type Project struct {
	ID            uint64         `gorm:"primarykey" json:"id"`
	Name          string         `gorm:"type:varchar(255);not null" json:"name"`
	Description   *string        `gorm:"type:text" json:"description"`
	Status        ProjectStatus  `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	ContractValue float64        `gorm:"not null;default:0" json:"contract_value"`
	Archived      bool           `gorm:"not null;default:false" json:"archived"`
	UserID        uint64         `gorm:"not null" json:"user_id"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Owner        User                `gorm:"foreignKey:UserID" json:"owner,omitempty"`
	Members      []ProjectMember     `gorm:"foreignKey:ProjectID" json:"members,omitempty"`
	Contractors  []ProjectContractor `gorm:"foreignKey:ProjectID" json:"contractors,omitempty"`
	ChangeOrders []ChangeOrder       `gorm:"foreignKey:ProjectID" json:"change_orders,omitempty"`
	Invoices     []Invoice           `gorm:"foreignKey:ProjectID" json:"invoices,omitempty"`
}
