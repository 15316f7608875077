package repository

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{})
	require.NoError(t, err)

	return db, mock
}

func TestGormInvoiceRepository_ListByProjectID(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewInvoiceRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "project_id", "contractor_id", "invoice_number", "amount", "status", "created_at"}).
		AddRow(1, 42, 7, "INV-001", 1200.50, "pending", now).
		AddRow(2, 42, 7, "INV-002", -300.0, "pending", now)

	mock.ExpectQuery("SELECT \\* FROM `invoices` WHERE project_id = \\?").
		WithArgs(42).
		WillReturnRows(rows)

	invoices, err := repo.ListByProjectID(42)
	require.NoError(t, err)
	require.Len(t, invoices, 2)
	require.Equal(t, "INV-001", invoices[0].InvoiceNumber)
	require.True(t, invoices[1].IsCredit())

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGormInvoiceRepository_ListByProjectID_ExcludesSoftDeleted(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewInvoiceRepository(db)

	mock.ExpectQuery("`invoices`.`deleted_at` IS NULL").
		WithArgs(42).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	invoices, err := repo.ListByProjectID(42)
	require.NoError(t, err)
	require.Empty(t, invoices)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGormInvoiceRepository_Delete(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewInvoiceRepository(db)

	// Soft delete updates deleted_at rather than issuing a DELETE
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `invoices` SET `deleted_at`=\\?").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Delete(9))
	require.NoError(t, mock.ExpectationsWereMet())
}
