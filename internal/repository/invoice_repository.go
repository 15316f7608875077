package repository

import (
	"github.com/hokuto/construction-finance-api/internal/database"
	"github.com/hokuto/construction-finance-api/internal/models"
	"github.com/hokuto/construction-finance-api/internal/utils"
	"gorm.io/gorm"
)

// GormInvoiceRepository is a GORM implementation of InvoiceRepository
type GormInvoiceRepository struct {
	db *gorm.DB
}

// NewInvoiceRepository creates a new InvoiceRepository
func NewInvoiceRepository(db *gorm.DB) InvoiceRepository {
	return &GormInvoiceRepository{db: db}
}

func (r *GormInvoiceRepository) Create(invoice *models.Invoice) error {
	return r.db.Create(invoice).Error
}

func (r *GormInvoiceRepository) FindByID(id uint64, preload ...string) (*models.Invoice, error) {
	var invoice models.Invoice
	query := r.db
	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&invoice, id).Error; err != nil {
		return nil, err
	}
	return &invoice, nil
}

func (r *GormInvoiceRepository) ListByProjectID(projectID uint64) ([]models.Invoice, error) {
	var invoices []models.Invoice
	if err := r.db.Where("project_id = ?", projectID).
		Order("created_at ASC").
		Find(&invoices).Error; err != nil {
		return nil, err
	}
	return invoices, nil
}

func (r *GormInvoiceRepository) ListByProjectIDPaged(projectID uint64, params utils.PaginationParams) ([]models.Invoice, int64, error) {
	var total int64
	if err := r.db.Model(&models.Invoice{}).
		Where("project_id = ?", projectID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var invoices []models.Invoice
	if err := r.db.Preload("Contractor").
		Where("project_id = ?", projectID).
		Scopes(database.NewestFirst, database.Paginate(params)).
		Find(&invoices).Error; err != nil {
		return nil, 0, err
	}
	return invoices, total, nil
}

func (r *GormInvoiceRepository) ListByContractorID(contractorID uint64) ([]models.Invoice, error) {
	var invoices []models.Invoice
	if err := r.db.Preload("Project").
		Where("contractor_id = ?", contractorID).
		Order("created_at ASC").
		Find(&invoices).Error; err != nil {
		return nil, err
	}
	return invoices, nil
}

func (r *GormInvoiceRepository) Update(invoice *models.Invoice) error {
	return r.db.Save(invoice).Error
}

func (r *GormInvoiceRepository) Delete(id uint64) error {
	return r.db.Delete(&models.Invoice{}, id).Error
}
