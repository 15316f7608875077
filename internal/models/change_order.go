package models

import (
	"time"

	"gorm.io/gorm"
)

type ChangeOrderStatus = string

const (
	ChangeOrderStatusPending  ChangeOrderStatus = "pending"
	ChangeOrderStatusApproved ChangeOrderStatus = "approved"
	ChangeOrderStatusRejected ChangeOrderStatus = "rejected"
)

// ChangeOrder adjusts a project's and a contractor's contract value
// independently. The two amounts are separate inputs, never derived from
// each other.
type ChangeOrder struct {
	ID               uint64            `gorm:"primarykey" json:"id"`
	ProjectID        uint64            `gorm:"not null" json:"project_id"`
	ContractorID     uint64            `gorm:"not null" json:"contractor_id"`
	Description      string            `gorm:"type:text;not null" json:"description"`
	ProjectAmount    float64           `gorm:"not null;default:0" json:"project_amount"`
	ContractorAmount float64           `gorm:"not null;default:0" json:"contractor_amount"`
	Status           ChangeOrderStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	CreatedAt        time.Time         `json:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at"`
	DeletedAt        gorm.DeletedAt    `gorm:"index" json:"-"`

	// Relations
	Project    Project    `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	Contractor Contractor `gorm:"foreignKey:ContractorID" json:"contractor,omitempty"`
}
