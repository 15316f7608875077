package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/hokuto/construction-finance-api/internal/dto"
	apierrors "github.com/hokuto/construction-finance-api/internal/errors"
	"github.com/hokuto/construction-finance-api/internal/finance"
	"github.com/hokuto/construction-finance-api/internal/middleware"
	"github.com/hokuto/construction-finance-api/internal/models"
	"github.com/hokuto/construction-finance-api/internal/services"
)

// ProjectHandler coordinates project HTTP handlers.
type ProjectHandler struct {
	projectService *services.ProjectService
}

// NewProjectHandler creates a new ProjectHandler.
func NewProjectHandler(projectService *services.ProjectService) *ProjectHandler {
	return &ProjectHandler{
		projectService: projectService,
	}
}

// CreateProject creates a new project owned by the current user.
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type CreateProjectRequest struct {
		Name          string               `json:"name" binding:"required,max=255"`
		Description   *string              `json:"description"`
		Status        models.ProjectStatus `json:"status" binding:"omitempty,oneof=pending active completed on-hold"`
		ContractValue float64              `json:"contract_value"`
	}

	var req CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	project, err := h.projectService.CreateProject(services.CreateProjectInput{
		Name:          req.Name,
		Description:   req.Description,
		Status:        req.Status,
		ContractValue: req.ContractValue,
		OwnerID:       userID,
	})
	if err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToProjectDTO(*project))
}

// ListProjects returns the user's projects. The archived query parameter
// selects the archived or active listing; it defaults to active.
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	archived, err := strconv.ParseBool(c.DefaultQuery("archived", "false"))
	if err != nil {
		apierrors.BadRequest(c, "Invalid archived parameter")
		return
	}

	projects, err := h.projectService.ListProjects(userID, archived)
	if err != nil {
		respondProjectError(c, err)
		return
	}

	projectDTOs := make([]dto.ProjectDTO, len(projects))
	for i, project := range projects {
		projectDTOs[i] = dto.ToProjectDTO(project)
	}

	c.JSON(http.StatusOK, gin.H{
		"projects": projectDTOs,
	})
}

// GetProject returns the full project view with computed rollups. The
// search, status and sort_by query parameters shape the contractor list.
func (h *ProjectHandler) GetProject(c *gin.Context) {
	projectInterface, _ := c.Get("project")
	project := projectInterface.(models.Project)

	query := finance.ContractorQuery{
		Search: c.Query("search"),
		Status: finance.StatusFilter(c.DefaultQuery("status", string(finance.StatusFilterAll))),
		SortBy: finance.SortKey(c.DefaultQuery("sort_by", string(finance.SortByName))),
	}

	detail, err := h.projectService.GetProjectDetail(project.ID, query)
	if err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusOK, toProjectDetailDTO(detail))
}

// UpdateProject applies a partial update to the project.
func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	projectInterface, _ := c.Get("project")
	project := projectInterface.(models.Project)

	type UpdateProjectRequest struct {
		Name          *string               `json:"name" binding:"omitempty,max=255"`
		Description   *string               `json:"description"`
		Status        *models.ProjectStatus `json:"status" binding:"omitempty,oneof=pending active completed on-hold"`
		ContractValue *float64              `json:"contract_value"`
	}

	var req UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	updated, err := h.projectService.UpdateProject(project.ID, services.UpdateProjectInput{
		Name:          req.Name,
		Description:   req.Description,
		Status:        req.Status,
		ContractValue: req.ContractValue,
	})
	if err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectDTO(*updated))
}

// DeleteProject removes the project and all dependent records.
func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	projectInterface, _ := c.Get("project")
	project := projectInterface.(models.Project)

	if err := h.projectService.DeleteProject(project.ID); err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Project deleted successfully",
	})
}

// ArchiveProject marks the project as archived.
func (h *ProjectHandler) ArchiveProject(c *gin.Context) {
	h.setArchived(c, true)
}

// UnarchiveProject clears the archived flag.
func (h *ProjectHandler) UnarchiveProject(c *gin.Context) {
	h.setArchived(c, false)
}

func (h *ProjectHandler) setArchived(c *gin.Context, archived bool) {
	projectInterface, _ := c.Get("project")
	project := projectInterface.(models.Project)

	if err := h.projectService.SetArchived(project.ID, archived); err != nil {
		respondProjectError(c, err)
		return
	}

	project.Archived = archived
	c.JSON(http.StatusOK, dto.ToProjectDTO(project))
}

// ListMembers returns the project's members ordered by role.
func (h *ProjectHandler) ListMembers(c *gin.Context) {
	projectInterface, _ := c.Get("project")
	project := projectInterface.(models.Project)

	members, err := h.projectService.ListMembers(project.ID)
	if err != nil {
		respondProjectError(c, err)
		return
	}

	memberDTOs := make([]dto.ProjectMemberDTO, len(members))
	for i, member := range members {
		memberDTOs[i] = dto.ToProjectMemberDTO(member)
	}

	c.JSON(http.StatusOK, gin.H{
		"members": memberDTOs,
	})
}

// RemoveMember removes a member from the project.
func (h *ProjectHandler) RemoveMember(c *gin.Context) {
	projectInterface, _ := c.Get("project")
	project := projectInterface.(models.Project)

	actorID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	targetID, err := strconv.ParseUint(c.Param("user_id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid user ID")
		return
	}

	if err := h.projectService.RemoveMember(project.ID, actorID, targetID); err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Member removed successfully",
	})
}

func toProjectDetailDTO(detail *services.ProjectDetail) dto.ProjectDetailDTO {
	views := make([]dto.ContractorViewDTO, len(detail.ContractorViews))
	for i, view := range detail.ContractorViews {
		views[i] = dto.ToContractorViewDTO(view)
	}

	changeOrders := make([]dto.ChangeOrderDTO, len(detail.ChangeOrders))
	for i, co := range detail.ChangeOrders {
		changeOrders[i] = dto.ToChangeOrderDTO(co)
	}

	invoices := make([]dto.InvoiceDTO, len(detail.Invoices))
	for i, invoice := range detail.Invoices {
		invoices[i] = dto.ToInvoiceDTO(invoice)
	}

	overBilled := make([]dto.OverBilledAlertDTO, len(detail.OverBilled))
	for i, alert := range detail.OverBilled {
		overBilled[i] = dto.ToOverBilledAlertDTO(alert)
	}

	return dto.ProjectDetailDTO{
		ProjectDTO:   dto.ToProjectDTO(detail.Project),
		Metrics:      detail.Metrics,
		Contractors:  views,
		ChangeOrders: changeOrders,
		Invoices:     invoices,
		OverBilled:   overBilled,
	}
}

func respondProjectError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrProjectNotFound),
		errors.Is(err, services.ErrProjectMemberNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrInvalidProjectName),
		errors.Is(err, services.ErrNegativeContractValue),
		errors.Is(err, services.ErrCannotRemoveOwner),
		errors.Is(err, services.ErrCannotRemoveYourself):
		apierrors.BadRequest(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
