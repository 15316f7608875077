package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hokuto/construction-finance-api/internal/constants"
	"github.com/hokuto/construction-finance-api/internal/models"
	"github.com/hokuto/construction-finance-api/internal/repository"
	"github.com/hokuto/construction-finance-api/internal/utils"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrInvitationNotFound        = errors.New("invalid or expired invitation")
	ErrInvitationExpired         = errors.New("this invitation has expired")
	ErrInvitationAlreadyAccepted = errors.New("this invitation has already been accepted")
	ErrInvitationEmailMismatch   = errors.New("invitation email mismatch")
	ErrAlreadyMember             = errors.New("you are already a member of this project")
	ErrInvalidInviteEmail        = errors.New("a valid email address is required")
)

// InvitationService manages project invitations and the join flow.
type InvitationService struct {
	invitationRepo repository.InvitationRepository
	projectRepo    repository.ProjectRepository
	userRepo       repository.UserRepository
	mailer         Mailer
	siteURL        string
	logger         *zap.Logger
}

// NewInvitationService creates a new InvitationService.
func NewInvitationService(invitationRepo repository.InvitationRepository, projectRepo repository.ProjectRepository, userRepo repository.UserRepository, mailer Mailer, siteURL string, logger *zap.Logger) *InvitationService {
	return &InvitationService{
		invitationRepo: invitationRepo,
		projectRepo:    projectRepo,
		userRepo:       userRepo,
		mailer:         mailer,
		siteURL:        siteURL,
		logger:         logger,
	}
}

// Invite creates or refreshes an invitation for email to join the project
// and sends the invitation email. A pending unexpired invitation for the
// same project and email is returned as-is instead of creating a second
// one. Email delivery failure does not roll back the invitation; the
// caller still gets a usable token.
func (s *InvitationService) Invite(projectID uint64, inviterID uint64, email string, role models.ProjectRole) (*models.ProjectInvitation, error) {
	email = strings.TrimSpace(email)
	if email == "" || !strings.Contains(email, "@") {
		return nil, ErrInvalidInviteEmail
	}
	if role == "" {
		role = models.RoleMember
	}

	project, err := s.projectRepo.FindByID(projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}

	inviter, err := s.userRepo.FindByID(inviterID)
	if err != nil {
		return nil, fmt.Errorf("failed to find inviter: %w", err)
	}

	now := time.Now()
	invitation, err := s.invitationRepo.FindPending(projectID, email, now)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to look up invitation: %w", err)
	}

	if invitation == nil {
		invitation = &models.ProjectInvitation{
			ProjectID: projectID,
			Email:     email,
			Role:      role,
			Token:     utils.GenerateInvitationToken(),
			ExpiresAt: now.Add(constants.InvitationTTL),
		}
		if err := s.invitationRepo.Upsert(invitation); err != nil {
			return nil, fmt.Errorf("failed to save invitation: %w", err)
		}
	}

	joinURL := fmt.Sprintf("%s/join-project?token=%s", s.siteURL, invitation.Token)
	if err := s.mailer.SendInvitation(email, project.Name, inviter.Name, joinURL); err != nil {
		// The invitation is already persisted; the link can still be shared.
		s.logger.Warn("invitation email failed",
			zap.String("email", email),
			zap.Uint64("project_id", projectID),
			zap.Error(err))
	}

	return invitation, nil
}

// GetByToken returns the invitation for a token along with its project,
// for showing a join page. Unknown tokens map to ErrInvitationNotFound.
func (s *InvitationService) GetByToken(token string) (*models.ProjectInvitation, error) {
	invitation, err := s.invitationRepo.FindByToken(token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvitationNotFound
		}
		return nil, fmt.Errorf("failed to find invitation: %w", err)
	}
	return invitation, nil
}

// Accept validates the invitation token against the signed-in user and
// adds them to the project. The invitation email must match the user's
// email exactly.
func (s *InvitationService) Accept(token string, userID uint64) (*models.ProjectInvitation, error) {
	invitation, err := s.invitationRepo.FindByToken(token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvitationNotFound
		}
		return nil, fmt.Errorf("failed to find invitation: %w", err)
	}

	if invitation.Accepted {
		return nil, ErrInvitationAlreadyAccepted
	}
	if time.Now().After(invitation.ExpiresAt) {
		return nil, ErrInvitationExpired
	}

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user.Email != invitation.Email {
		return nil, fmt.Errorf("%w: please sign in with %s to accept this invitation", ErrInvitationEmailMismatch, invitation.Email)
	}

	if _, err := s.projectRepo.FindMember(invitation.ProjectID, userID); err == nil {
		return nil, ErrAlreadyMember
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check membership: %w", err)
	}

	member := &models.ProjectMember{
		ProjectID: invitation.ProjectID,
		UserID:    userID,
		Role:      invitation.Role,
		JoinedAt:  time.Now(),
	}
	if err := s.projectRepo.AddMember(member); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadyMember
		}
		return nil, fmt.Errorf("failed to add member: %w", err)
	}

	if err := s.invitationRepo.MarkAccepted(invitation.ID); err != nil {
		return nil, fmt.Errorf("failed to mark invitation accepted: %w", err)
	}
	invitation.Accepted = true

	return invitation, nil
}
