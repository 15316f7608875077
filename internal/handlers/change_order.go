package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hokuto/construction-finance-api/internal/dto"
	apierrors "github.com/hokuto/construction-finance-api/internal/errors"
	"github.com/hokuto/construction-finance-api/internal/models"
	"github.com/hokuto/construction-finance-api/internal/services"
)

// ChangeOrderHandler coordinates change order HTTP handlers.
type ChangeOrderHandler struct {
	changeOrderService *services.ChangeOrderService
}

// NewChangeOrderHandler creates a new ChangeOrderHandler.
func NewChangeOrderHandler(changeOrderService *services.ChangeOrderService) *ChangeOrderHandler {
	return &ChangeOrderHandler{
		changeOrderService: changeOrderService,
	}
}

// CreateChangeOrder creates a change order on the project.
func (h *ChangeOrderHandler) CreateChangeOrder(c *gin.Context) {
	projectInterface, _ := c.Get("project")
	project := projectInterface.(models.Project)

	type CreateChangeOrderRequest struct {
		ContractorID     uint64                   `json:"contractor_id" binding:"required"`
		Description      string                   `json:"description" binding:"required"`
		ProjectAmount    float64                  `json:"project_amount"`
		ContractorAmount float64                  `json:"contractor_amount"`
		Status           models.ChangeOrderStatus `json:"status" binding:"omitempty,oneof=pending approved rejected"`
	}

	var req CreateChangeOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	changeOrder, err := h.changeOrderService.CreateChangeOrder(services.CreateChangeOrderInput{
		ProjectID:        project.ID,
		ContractorID:     req.ContractorID,
		Description:      req.Description,
		ProjectAmount:    req.ProjectAmount,
		ContractorAmount: req.ContractorAmount,
		Status:           req.Status,
	})
	if err != nil {
		respondChangeOrderError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToChangeOrderDTO(*changeOrder))
}

// UpdateChangeOrder applies a partial update to the change order.
func (h *ChangeOrderHandler) UpdateChangeOrder(c *gin.Context) {
	changeOrderInterface, _ := c.Get("change_order")
	changeOrder := changeOrderInterface.(models.ChangeOrder)

	type UpdateChangeOrderRequest struct {
		Description      *string                   `json:"description"`
		ProjectAmount    *float64                  `json:"project_amount"`
		ContractorAmount *float64                  `json:"contractor_amount"`
		Status           *models.ChangeOrderStatus `json:"status" binding:"omitempty,oneof=pending approved rejected"`
	}

	var req UpdateChangeOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	updated, err := h.changeOrderService.UpdateChangeOrder(changeOrder.ID, services.UpdateChangeOrderInput{
		Description:      req.Description,
		ProjectAmount:    req.ProjectAmount,
		ContractorAmount: req.ContractorAmount,
		Status:           req.Status,
	})
	if err != nil {
		respondChangeOrderError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToChangeOrderDTO(*updated))
}

// DeleteChangeOrder removes the change order.
func (h *ChangeOrderHandler) DeleteChangeOrder(c *gin.Context) {
	changeOrderInterface, _ := c.Get("change_order")
	changeOrder := changeOrderInterface.(models.ChangeOrder)

	if err := h.changeOrderService.DeleteChangeOrder(changeOrder.ID); err != nil {
		respondChangeOrderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Change order deleted successfully",
	})
}

func respondChangeOrderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrChangeOrderNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrDescriptionRequired),
		errors.Is(err, services.ErrContractorNotOnProject):
		apierrors.BadRequest(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
