package database

import (
	"gorm.io/gorm"

	"github.com/hokuto/construction-finance-api/internal/utils"
)

// Paginate applies offset/limit pagination to a GORM query
func Paginate(params utils.PaginationParams) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(params.Offset).Limit(params.Limit)
	}
}

// NewestFirst orders rows by creation time descending, the default order
// for invoice listings
func NewestFirst(db *gorm.DB) *gorm.DB {
	return db.Order("created_at DESC")
}
