package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/hokuto/construction-finance-api/internal/models"
	"github.com/hokuto/construction-finance-api/internal/repository"
	"github.com/hokuto/construction-finance-api/internal/storage"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type fakeExtractor struct {
	text      string
	extracted *ExtractedInvoice
	textErr   error
	dataErr   error
}

func (f *fakeExtractor) ExtractText(ctx context.Context, file []byte) (string, error) {
	if f.textErr != nil {
		return "", f.textErr
	}
	return f.text, nil
}

func (f *fakeExtractor) ExtractInvoiceData(ctx context.Context, text string) (*ExtractedInvoice, error) {
	if f.dataErr != nil {
		return nil, f.dataErr
	}
	extracted := *f.extracted
	return &extracted, nil
}

type ingestTestEnv struct {
	db        *gorm.DB
	service   *IngestService
	extractor *fakeExtractor
	owner     *models.User
	project   *models.Project
}

func setupIngestTestEnv(t *testing.T) ingestTestEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Project{},
		&models.ProjectMember{},
		&models.Contractor{},
		&models.ProjectContractor{},
		&models.Invoice{},
	)
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	owner := &models.User{Email: "owner@example.com", Name: "Owner", PasswordHash: "x"}
	require.NoError(t, db.Create(owner).Error)

	project := &models.Project{Name: "Riverside Apartments", UserID: owner.ID, Status: models.ProjectStatusActive}
	require.NoError(t, db.Create(project).Error)
	require.NoError(t, db.Create(&models.ProjectMember{
		ProjectID: project.ID,
		UserID:    owner.ID,
		Role:      models.RoleOwner,
	}).Error)

	extractor := &fakeExtractor{
		text: "invoice text",
		extracted: &ExtractedInvoice{
			InvoiceNumber:  "INV-100",
			Description:    "Framing labor",
			Amount:         1250.50,
			ContractorName: "Mason & Sons",
		},
	}

	store, err := storage.NewLocalStore(t.TempDir(), "/uploads")
	require.NoError(t, err)

	service := NewIngestService(
		repository.NewInvoiceRepository(db),
		repository.NewContractorRepository(db),
		extractor,
		store,
		zap.NewNop(),
	)

	return ingestTestEnv{
		db:        db,
		service:   service,
		extractor: extractor,
		owner:     owner,
		project:   project,
	}
}

func TestIngestService_CreatesContractorAndInvoice(t *testing.T) {
	env := setupIngestTestEnv(t)

	result, err := env.service.IngestInvoice(context.Background(), env.project.ID, env.owner.ID, "invoice.pdf", []byte("pdf bytes"))
	require.NoError(t, err)

	require.True(t, result.ContractorCreated)
	require.Equal(t, "Mason & Sons", result.Contractor.Name)
	require.NotNil(t, result.Contractor.Description)
	require.Equal(t, "Auto-created from invoice upload", *result.Contractor.Description)
	require.Zero(t, result.Contractor.ContractValue)

	require.Equal(t, "INV-100", result.Invoice.InvoiceNumber)
	require.Equal(t, 1250.50, result.Invoice.Amount)
	require.Equal(t, models.InvoiceStatusPending, result.Invoice.Status)
	require.NotNil(t, result.Invoice.FileURL)
	require.Contains(t, *result.Invoice.FileURL, "/uploads/auto/")

	require.NotNil(t, result.Invoice.DueDate)
	expectedDue := time.Now().Add(30 * 24 * time.Hour)
	require.WithinDuration(t, expectedDue, *result.Invoice.DueDate, time.Minute)

	var linkCount int64
	err = env.db.Model(&models.ProjectContractor{}).
		Where("project_id = ? AND contractor_id = ?", env.project.ID, result.Contractor.ID).
		Count(&linkCount).Error
	require.NoError(t, err)
	require.EqualValues(t, 1, linkCount)
}

func TestIngestService_ReusesContractorCaseInsensitive(t *testing.T) {
	env := setupIngestTestEnv(t)

	existing := &models.Contractor{Name: "MASON & SONS", UserID: env.owner.ID}
	require.NoError(t, env.db.Create(existing).Error)
	require.NoError(t, env.db.Create(&models.ProjectContractor{
		ProjectID:    env.project.ID,
		ContractorID: existing.ID,
	}).Error)

	result, err := env.service.IngestInvoice(context.Background(), env.project.ID, env.owner.ID, "invoice.pdf", []byte("pdf bytes"))
	require.NoError(t, err)

	require.False(t, result.ContractorCreated)
	require.Equal(t, existing.ID, result.Contractor.ID)

	var count int64
	require.NoError(t, env.db.Model(&models.Contractor{}).Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestIngestService_LinksExistingUnlinkedContractor(t *testing.T) {
	env := setupIngestTestEnv(t)

	existing := &models.Contractor{Name: "Mason & Sons", UserID: env.owner.ID}
	require.NoError(t, env.db.Create(existing).Error)

	result, err := env.service.IngestInvoice(context.Background(), env.project.ID, env.owner.ID, "invoice.pdf", []byte("pdf bytes"))
	require.NoError(t, err)

	require.False(t, result.ContractorCreated)
	require.Equal(t, existing.ID, result.Contractor.ID)

	var link models.ProjectContractor
	err = env.db.Where("project_id = ? AND contractor_id = ?", env.project.ID, existing.ID).First(&link).Error
	require.NoError(t, err)
}

func TestIngestService_IgnoresOtherUsersContractorWithSameName(t *testing.T) {
	env := setupIngestTestEnv(t)

	stranger := &models.User{Email: "stranger@example.com", Name: "Stranger", PasswordHash: "x"}
	require.NoError(t, env.db.Create(stranger).Error)

	email := "mason@example.com"
	foreign := &models.Contractor{Name: "Mason & Sons", Email: &email, UserID: stranger.ID}
	require.NoError(t, env.db.Create(foreign).Error)

	result, err := env.service.IngestInvoice(context.Background(), env.project.ID, env.owner.ID, "invoice.pdf", []byte("pdf bytes"))
	require.NoError(t, err)

	// The name collision must not pull in the stranger's contractor
	require.True(t, result.ContractorCreated)
	require.NotEqual(t, foreign.ID, result.Contractor.ID)
	require.Equal(t, env.owner.ID, result.Contractor.UserID)
	require.Nil(t, result.Contractor.Email)

	var linkCount int64
	err = env.db.Model(&models.ProjectContractor{}).
		Where("contractor_id = ?", foreign.ID).
		Count(&linkCount).Error
	require.NoError(t, err)
	require.EqualValues(t, 0, linkCount)
}

func TestIngestService_MatchesContractorSharedThroughMembership(t *testing.T) {
	env := setupIngestTestEnv(t)

	colleague := &models.User{Email: "colleague@example.com", Name: "Colleague", PasswordHash: "x"}
	require.NoError(t, env.db.Create(colleague).Error)

	// The colleague's contractor is linked to a project the owner belongs to
	shared := &models.Project{Name: "Harbor Works", UserID: colleague.ID, Status: models.ProjectStatusActive}
	require.NoError(t, env.db.Create(shared).Error)
	require.NoError(t, env.db.Create(&models.ProjectMember{
		ProjectID: shared.ID,
		UserID:    env.owner.ID,
		Role:      models.RoleMember,
	}).Error)

	contractor := &models.Contractor{Name: "Mason & Sons", UserID: colleague.ID}
	require.NoError(t, env.db.Create(contractor).Error)
	require.NoError(t, env.db.Create(&models.ProjectContractor{
		ProjectID:    shared.ID,
		ContractorID: contractor.ID,
	}).Error)

	result, err := env.service.IngestInvoice(context.Background(), env.project.ID, env.owner.ID, "invoice.pdf", []byte("pdf bytes"))
	require.NoError(t, err)

	require.False(t, result.ContractorCreated)
	require.Equal(t, contractor.ID, result.Contractor.ID)
}

func TestIngestService_UnknownVendorFallback(t *testing.T) {
	env := setupIngestTestEnv(t)
	env.extractor.extracted = &ExtractedInvoice{}

	result, err := env.service.IngestInvoice(context.Background(), env.project.ID, env.owner.ID, "invoice.pdf", []byte("pdf bytes"))
	require.NoError(t, err)

	require.Equal(t, "Unknown Vendor", result.Contractor.Name)
	require.Equal(t, "Unknown", result.Invoice.InvoiceNumber)
	require.Equal(t, "No description", result.Invoice.Description)
	require.Zero(t, result.Invoice.Amount)
}

func TestIngestService_ExtractionFailure(t *testing.T) {
	env := setupIngestTestEnv(t)
	env.extractor.dataErr = fmt.Errorf("model unavailable")

	_, err := env.service.IngestInvoice(context.Background(), env.project.ID, env.owner.ID, "invoice.pdf", []byte("pdf bytes"))
	require.ErrorIs(t, err, ErrExtractionFailed)

	var count int64
	require.NoError(t, env.db.Model(&models.Invoice{}).Count(&count).Error)
	require.EqualValues(t, 0, count)
	require.NoError(t, env.db.Model(&models.Contractor{}).Count(&count).Error)
	require.EqualValues(t, 0, count)
}
