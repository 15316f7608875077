package repository

import (
	"github.com/hokuto/construction-finance-api/internal/models"
	"gorm.io/gorm"
)

// GormChangeOrderRepository is a GORM implementation of ChangeOrderRepository
type GormChangeOrderRepository struct {
	db *gorm.DB
}

// NewChangeOrderRepository creates a new ChangeOrderRepository
func NewChangeOrderRepository(db *gorm.DB) ChangeOrderRepository {
	return &GormChangeOrderRepository{db: db}
}

func (r *GormChangeOrderRepository) Create(changeOrder *models.ChangeOrder) error {
	return r.db.Create(changeOrder).Error
}

func (r *GormChangeOrderRepository) FindByID(id uint64) (*models.ChangeOrder, error) {
	var changeOrder models.ChangeOrder
	if err := r.db.First(&changeOrder, id).Error; err != nil {
		return nil, err
	}
	return &changeOrder, nil
}

func (r *GormChangeOrderRepository) ListByProjectID(projectID uint64) ([]models.ChangeOrder, error) {
	var changeOrders []models.ChangeOrder
	if err := r.db.Where("project_id = ?", projectID).
		Order("created_at ASC").
		Find(&changeOrders).Error; err != nil {
		return nil, err
	}
	return changeOrders, nil
}

func (r *GormChangeOrderRepository) ListByContractorID(contractorID uint64) ([]models.ChangeOrder, error) {
	var changeOrders []models.ChangeOrder
	if err := r.db.Where("contractor_id = ?", contractorID).
		Order("created_at ASC").
		Find(&changeOrders).Error; err != nil {
		return nil, err
	}
	return changeOrders, nil
}

func (r *GormChangeOrderRepository) Update(changeOrder *models.ChangeOrder) error {
	return r.db.Save(changeOrder).Error
}

func (r *GormChangeOrderRepository) Delete(id uint64) error {
	return r.db.Delete(&models.ChangeOrder{}, id).Error
}
