package models

import (
	"time"

	"gorm.io/gorm"
)

// ProjectInvitation is keyed on (project, email) so re-inviting the same
// address upserts rather than duplicating. A pending invitation ends either
// accepted (terminal) or unusable once past its expiry.
type ProjectInvitation struct {
	ID        uint64         `gorm:"primarykey" json:"id"`
	ProjectID uint64         `gorm:"not null;uniqueIndex:idx_invitations_project_email" json:"project_id"`
	Email     string         `gorm:"type:varchar(255);not null;uniqueIndex:idx_invitations_project_email" json:"email"`
	Role      ProjectRole    `gorm:"type:varchar(20);not null" json:"role"`
	Token     string         `gorm:"type:varchar(64);uniqueIndex;not null" json:"token"`
	Accepted  bool           `gorm:"not null;default:false" json:"accepted"`
	ExpiresAt time.Time      `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Project Project `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
}

// IsPending reports whether the invitation can still be accepted.
func (i ProjectInvitation) IsPending(now time.Time) bool {
	return !i.Accepted && now.Before(i.ExpiresAt)
}
