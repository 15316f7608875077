package models

import (
	"time"

	"gorm.io/gorm"
)

type InvoiceStatus = string

const (
	InvoiceStatusPending InvoiceStatus = "pending"
	InvoiceStatusPaid    InvoiceStatus = "paid"
)

// Invoice records a billed amount against a project and contractor. A
// negative amount denotes a credit; the sign is the sole discriminator.
type Invoice struct {
	ID            uint64         `gorm:"primarykey" json:"id"`
	ProjectID     uint64         `gorm:"not null" json:"project_id"`
	ContractorID  uint64         `gorm:"not null" json:"contractor_id"`
	InvoiceNumber string         `gorm:"type:varchar(255);not null" json:"invoice_number"`
	Description   string         `gorm:"type:text" json:"description"`
	Amount        float64        `gorm:"not null;default:0" json:"amount"`
	FileURL       *string        `gorm:"type:varchar(512)" json:"file_url"`
	Status        InvoiceStatus  `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	DueDate       *time.Time     `json:"due_date"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Project    Project    `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	Contractor Contractor `gorm:"foreignKey:ContractorID" json:"contractor,omitempty"`
}

// IsCredit reports whether the invoice reduces the billed total.
func (i Invoice) IsCredit() bool {
	return i.Amount < 0
}
