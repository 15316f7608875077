package database

import (
	"fmt"

	"gorm.io/gorm"
)

// AddIndexes adds performance-critical indexes to the database
func AddIndexes(db *gorm.DB) error {
	indexes := []struct {
		table   string
		name    string
		columns string
	}{
		// Foreign-key filters used on every detail load
		{"change_orders", "idx_change_orders_project_id", "project_id"},
		{"change_orders", "idx_change_orders_contractor_id", "contractor_id"},
		{"invoices", "idx_invoices_project_id", "project_id"},
		{"invoices", "idx_invoices_contractor_id", "contractor_id"},

		// Project listing filters
		{"projects", "idx_projects_archived", "archived"},
		{"projects", "idx_projects_user_id", "user_id"},

		// Membership lookups
		{"project_members", "idx_project_members_project_id", "project_id"},
		{"project_members", "idx_project_members_user_id", "user_id"},

		// Contractor links
		{"project_contractors", "idx_project_contractors_project_id", "project_id"},
		{"project_contractors", "idx_project_contractors_contractor_id", "contractor_id"},

		// Invitation token lookup on the join page
		{"project_invitations", "idx_project_invitations_token", "token"},
	}

	for _, idx := range indexes {
		if db.Migrator().HasIndex(idx.table, idx.name) {
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}
	}

	return nil
}
