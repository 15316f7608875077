package repository

import (
	"time"

	"github.com/hokuto/construction-finance-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormInvitationRepository is a GORM implementation of InvitationRepository
type GormInvitationRepository struct {
	db *gorm.DB
}

// NewInvitationRepository creates a new InvitationRepository
func NewInvitationRepository(db *gorm.DB) InvitationRepository {
	return &GormInvitationRepository{db: db}
}

// FindPending finds an unaccepted, unexpired invitation for the
// (project, email) pair
func (r *GormInvitationRepository) FindPending(projectID uint64, email string, now time.Time) (*models.ProjectInvitation, error) {
	var invitation models.ProjectInvitation
	err := r.db.
		Where("project_id = ? AND email = ? AND accepted = ? AND expires_at > ?", projectID, email, false, now).
		First(&invitation).Error
	if err != nil {
		return nil, err
	}
	return &invitation, nil
}

// FindByToken finds an invitation by its opaque token
func (r *GormInvitationRepository) FindByToken(token string) (*models.ProjectInvitation, error) {
	var invitation models.ProjectInvitation
	if err := r.db.Where("token = ?", token).First(&invitation).Error; err != nil {
		return nil, err
	}
	return &invitation, nil
}

// Upsert creates the invitation or replaces the row for the same
// (project, email) pair with a fresh token, role and expiry
func (r *GormInvitationRepository) Upsert(invitation *models.ProjectInvitation) error {
	return r.db.
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "project_id"}, {Name: "email"}},
			DoUpdates: clause.AssignmentColumns([]string{"role", "token", "accepted", "expires_at"}),
		}).
		Create(invitation).Error
}

// MarkAccepted flips the accepted flag
func (r *GormInvitationRepository) MarkAccepted(id uint64) error {
	return r.db.Model(&models.ProjectInvitation{}).
		Where("id = ?", id).
		Update("accepted", true).Error
}
