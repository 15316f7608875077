package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hokuto/construction-finance-api/internal/dto"
	apierrors "github.com/hokuto/construction-finance-api/internal/errors"
	"github.com/hokuto/construction-finance-api/internal/middleware"
	"github.com/hokuto/construction-finance-api/internal/models"
	"github.com/hokuto/construction-finance-api/internal/services"
)

// InvitationHandler coordinates the invitation and join flow.
type InvitationHandler struct {
	invitationService *services.InvitationService
}

// NewInvitationHandler creates a new InvitationHandler.
func NewInvitationHandler(invitationService *services.InvitationService) *InvitationHandler {
	return &InvitationHandler{
		invitationService: invitationService,
	}
}

// InviteMember invites an email address to join the project.
func (h *InvitationHandler) InviteMember(c *gin.Context) {
	projectInterface, _ := c.Get("project")
	project := projectInterface.(models.Project)

	inviterID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type InviteRequest struct {
		Email string             `json:"email" binding:"required,email"`
		Role  models.ProjectRole `json:"role" binding:"omitempty,oneof=member contractor"`
	}

	var req InviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	invitation, err := h.invitationService.Invite(project.ID, inviterID, req.Email, req.Role)
	if err != nil {
		respondInvitationError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToInvitationDTO(*invitation))
}

// GetInvitation resolves an invitation token for the join page.
func (h *InvitationHandler) GetInvitation(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		apierrors.BadRequest(c, "Missing invitation token")
		return
	}

	invitation, err := h.invitationService.GetByToken(token)
	if err != nil {
		respondInvitationError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToInvitationDTO(*invitation))
}

// AcceptInvitation adds the signed-in user to the invited project.
func (h *InvitationHandler) AcceptInvitation(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type AcceptRequest struct {
		Token string `json:"token" binding:"required"`
	}

	var req AcceptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	invitation, err := h.invitationService.Accept(req.Token, userID)
	if err != nil {
		respondInvitationError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "Successfully joined project",
		"project_id": invitation.ProjectID,
	})
}

func respondInvitationError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInvitationNotFound),
		errors.Is(err, services.ErrProjectNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrInvitationExpired),
		errors.Is(err, services.ErrInvalidInviteEmail):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrInvitationAlreadyAccepted),
		errors.Is(err, services.ErrAlreadyMember):
		apierrors.Conflict(c, err.Error())
	case errors.Is(err, services.ErrInvitationEmailMismatch):
		apierrors.Forbidden(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
