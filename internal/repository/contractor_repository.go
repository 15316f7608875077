package repository

import (
	"github.com/hokuto/construction-finance-api/internal/models"
	"gorm.io/gorm"
)

// GormContractorRepository is a GORM implementation of ContractorRepository
type GormContractorRepository struct {
	db *gorm.DB
}

// NewContractorRepository creates a new ContractorRepository
func NewContractorRepository(db *gorm.DB) ContractorRepository {
	return &GormContractorRepository{db: db}
}

// Create creates a new contractor
func (r *GormContractorRepository) Create(contractor *models.Contractor) error {
	return r.db.Create(contractor).Error
}

// FindByID finds a contractor by ID
func (r *GormContractorRepository) FindByID(id uint64) (*models.Contractor, error) {
	var contractor models.Contractor
	if err := r.db.First(&contractor, id).Error; err != nil {
		return nil, err
	}
	return &contractor, nil
}

// FindVisibleByName finds the first contractor whose name matches
// case-insensitively, restricted to contractors the user created or that
// share a project with the user
func (r *GormContractorRepository) FindVisibleByName(userID uint64, name string) (*models.Contractor, error) {
	shared := r.db.Table("project_contractors").
		Select("project_contractors.contractor_id").
		Joins("JOIN project_members ON project_members.project_id = project_contractors.project_id").
		Where("project_members.user_id = ?", userID)

	var contractor models.Contractor
	if err := r.db.Where("LOWER(name) = LOWER(?)", name).
		Where("user_id = ? OR id IN (?)", userID, shared).
		First(&contractor).Error; err != nil {
		return nil, err
	}
	return &contractor, nil
}

// ListByProjectID lists the contractors linked to a project
func (r *GormContractorRepository) ListByProjectID(projectID uint64) ([]models.Contractor, error) {
	var contractors []models.Contractor
	err := r.db.
		Joins("JOIN project_contractors ON project_contractors.contractor_id = contractors.id").
		Where("project_contractors.project_id = ?", projectID).
		Find(&contractors).Error
	if err != nil {
		return nil, err
	}
	return contractors, nil
}

// Update updates a contractor
func (r *GormContractorRepository) Update(contractor *models.Contractor) error {
	return r.db.Save(contractor).Error
}

// Delete removes a contractor along with its project links
func (r *GormContractorRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("contractor_id = ?", id).Delete(&models.ProjectContractor{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.Contractor{}, id).Error
	})
}

// Link associates a contractor with a project
func (r *GormContractorRepository) Link(projectID, contractorID uint64) error {
	return r.db.Create(&models.ProjectContractor{
		ProjectID:    projectID,
		ContractorID: contractorID,
	}).Error
}

// Unlink removes the project association
func (r *GormContractorRepository) Unlink(projectID, contractorID uint64) error {
	return r.db.Where("project_id = ? AND contractor_id = ?", projectID, contractorID).
		Delete(&models.ProjectContractor{}).Error
}

// IsLinked reports whether the contractor is associated with the project
func (r *GormContractorRepository) IsLinked(projectID, contractorID uint64) (bool, error) {
	var count int64
	err := r.db.Model(&models.ProjectContractor{}).
		Where("project_id = ? AND contractor_id = ?", projectID, contractorID).
		Count(&count).Error
	return count > 0, err
}
