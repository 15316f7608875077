package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/hokuto/construction-finance-api/internal/models"
	"github.com/hokuto/construction-finance-api/internal/repository"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type fakeMailer struct {
	sent []string
	err  error
}

func (m *fakeMailer) SendInvitation(to, projectName, inviterName, joinURL string) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, to)
	return nil
}

type invitationTestEnv struct {
	db      *gorm.DB
	service *InvitationService
	mailer  *fakeMailer
	owner   *models.User
	project *models.Project
}

func setupInvitationTestEnv(t *testing.T) invitationTestEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Project{},
		&models.ProjectMember{},
		&models.ProjectInvitation{},
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
		JoinedAt:  time.Now(),
	}).Error)

	mailer := &fakeMailer{}
	service := NewInvitationService(
		repository.NewInvitationRepository(db),
		repository.NewProjectRepository(db),
		repository.NewUserRepository(db),
		mailer,
		"https://finance.example.com",
		zap.NewNop(),
	)

	return invitationTestEnv{
		db:      db,
		service: service,
		mailer:  mailer,
		owner:   owner,
		project: project,
	}
}

func TestInvitationService_Invite_ReusesPendingInvitation(t *testing.T) {
	env := setupInvitationTestEnv(t)

	first, err := env.service.Invite(env.project.ID, env.owner.ID, "sub@example.com", models.RoleMember)
	require.NoError(t, err)
	require.NotEmpty(t, first.Token)

	second, err := env.service.Invite(env.project.ID, env.owner.ID, "sub@example.com", models.RoleMember)
	require.NoError(t, err)
	require.Equal(t, first.Token, second.Token)

	var count int64
	require.NoError(t, env.db.Model(&models.ProjectInvitation{}).Count(&count).Error)
	require.EqualValues(t, 1, count)

	require.Len(t, env.mailer.sent, 2)
}

func TestInvitationService_Invite_ExpiredInvitationGetsFreshToken(t *testing.T) {
	env := setupInvitationTestEnv(t)

	stale := &models.ProjectInvitation{
		ProjectID: env.project.ID,
		Email:     "sub@example.com",
		Role:      models.RoleMember,
		Token:     "stale-token",
		ExpiresAt: time.Now().Add(-time.Hour),
	}
	require.NoError(t, env.db.Create(stale).Error)

	refreshed, err := env.service.Invite(env.project.ID, env.owner.ID, "sub@example.com", models.RoleMember)
	require.NoError(t, err)
	require.NotEqual(t, "stale-token", refreshed.Token)
	require.True(t, refreshed.ExpiresAt.After(time.Now()))

	var count int64
	require.NoError(t, env.db.Model(&models.ProjectInvitation{}).Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestInvitationService_Invite_MailFailureKeepsInvitation(t *testing.T) {
	env := setupInvitationTestEnv(t)
	env.mailer.err = fmt.Errorf("smtp down")

	invitation, err := env.service.Invite(env.project.ID, env.owner.ID, "sub@example.com", models.RoleMember)
	require.NoError(t, err)
	require.NotEmpty(t, invitation.Token)

	var count int64
	require.NoError(t, env.db.Model(&models.ProjectInvitation{}).Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestInvitationService_Invite_RejectsInvalidEmail(t *testing.T) {
	env := setupInvitationTestEnv(t)

	_, err := env.service.Invite(env.project.ID, env.owner.ID, "not-an-email", models.RoleMember)
	require.ErrorIs(t, err, ErrInvalidInviteEmail)
}

func TestInvitationService_Accept(t *testing.T) {
	env := setupInvitationTestEnv(t)

	invitee := &models.User{Email: "sub@example.com", Name: "Sub", PasswordHash: "x"}
	require.NoError(t, env.db.Create(invitee).Error)

	invitation, err := env.service.Invite(env.project.ID, env.owner.ID, "sub@example.com", models.RoleMember)
	require.NoError(t, err)

	accepted, err := env.service.Accept(invitation.Token, invitee.ID)
	require.NoError(t, err)
	require.True(t, accepted.Accepted)

	var member models.ProjectMember
	err = env.db.Where("project_id = ? AND user_id = ?", env.project.ID, invitee.ID).First(&member).Error
	require.NoError(t, err)
	require.Equal(t, models.RoleMember, member.Role)
}

func TestInvitationService_Accept_UnknownToken(t *testing.T) {
	env := setupInvitationTestEnv(t)

	_, err := env.service.Accept("no-such-token", env.owner.ID)
	require.ErrorIs(t, err, ErrInvitationNotFound)
}

func TestInvitationService_Accept_EmailMismatchAddsNoMember(t *testing.T) {
	env := setupInvitationTestEnv(t)

	stranger := &models.User{Email: "other@example.com", Name: "Other", PasswordHash: "x"}
	require.NoError(t, env.db.Create(stranger).Error)

	invitation, err := env.service.Invite(env.project.ID, env.owner.ID, "sub@example.com", models.RoleMember)
	require.NoError(t, err)

	_, err = env.service.Accept(invitation.Token, stranger.ID)
	require.ErrorIs(t, err, ErrInvitationEmailMismatch)
	require.Contains(t, err.Error(), "sub@example.com")

	var count int64
	err = env.db.Model(&models.ProjectMember{}).
		Where("user_id = ?", stranger.ID).
		Count(&count).Error
	require.NoError(t, err)
	require.EqualValues(t, 0, count)
}

func TestInvitationService_Accept_AlreadyAccepted(t *testing.T) {
	env := setupInvitationTestEnv(t)

	invitee := &models.User{Email: "sub@example.com", Name: "Sub", PasswordHash: "x"}
	require.NoError(t, env.db.Create(invitee).Error)

	invitation, err := env.service.Invite(env.project.ID, env.owner.ID, "sub@example.com", models.RoleMember)
	require.NoError(t, err)

	_, err = env.service.Accept(invitation.Token, invitee.ID)
	require.NoError(t, err)

	_, err = env.service.Accept(invitation.Token, invitee.ID)
	require.ErrorIs(t, err, ErrInvitationAlreadyAccepted)
}

func TestInvitationService_Accept_Expired(t *testing.T) {
	env := setupInvitationTestEnv(t)

	invitee := &models.User{Email: "sub@example.com", Name: "Sub", PasswordHash: "x"}
	require.NoError(t, env.db.Create(invitee).Error)

	invitation := &models.ProjectInvitation{
		ProjectID: env.project.ID,
		Email:     "sub@example.com",
		Role:      models.RoleMember,
		Token:     "expired-token",
		ExpiresAt: time.Now().Add(-time.Minute),
	}
	require.NoError(t, env.db.Create(invitation).Error)

	_, err := env.service.Accept("expired-token", invitee.ID)
	require.ErrorIs(t, err, ErrInvitationExpired)
}

func TestInvitationService_Accept_ExistingMember(t *testing.T) {
	env := setupInvitationTestEnv(t)

	invitee := &models.User{Email: "sub@example.com", Name: "Sub", PasswordHash: "x"}
	require.NoError(t, env.db.Create(invitee).Error)
	require.NoError(t, env.db.Create(&models.ProjectMember{
		ProjectID: env.project.ID,
		UserID:    invitee.ID,
		Role:      models.RoleMember,
		JoinedAt:  time.Now(),
	}).Error)

	invitation, err := env.service.Invite(env.project.ID, env.owner.ID, "sub@example.com", models.RoleMember)
	require.NoError(t, err)

	_, err = env.service.Accept(invitation.Token, invitee.ID)
	require.ErrorIs(t, err, ErrAlreadyMember)
}
