package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/hokuto/construction-finance-api/internal/dto"
	apierrors "github.com/hokuto/construction-finance-api/internal/errors"
	"github.com/hokuto/construction-finance-api/internal/middleware"
	"github.com/hokuto/construction-finance-api/internal/models"
	"github.com/hokuto/construction-finance-api/internal/services"
)

// ContractorHandler coordinates contractor HTTP handlers.
type ContractorHandler struct {
	contractorService *services.ContractorService
}

// NewContractorHandler creates a new ContractorHandler.
func NewContractorHandler(contractorService *services.ContractorService) *ContractorHandler {
	return &ContractorHandler{
		contractorService: contractorService,
	}
}

// CreateContractor creates a contractor and links it to the project.
func (h *ContractorHandler) CreateContractor(c *gin.Context) {
	projectInterface, _ := c.Get("project")
	project := projectInterface.(models.Project)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type CreateContractorRequest struct {
		Name          string  `json:"name" binding:"required,max=255"`
		Email         *string `json:"email" binding:"omitempty,email"`
		Phone         *string `json:"phone"`
		Description   *string `json:"description"`
		ContractValue float64 `json:"contract_value"`
	}

	var req CreateContractorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	contractor, err := h.contractorService.CreateForProject(services.CreateContractorInput{
		Name:          req.Name,
		Email:         req.Email,
		Phone:         req.Phone,
		Description:   req.Description,
		ContractValue: req.ContractValue,
		ProjectID:     project.ID,
		UserID:        userID,
	})
	if err != nil {
		respondContractorError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToContractorDTO(*contractor))
}

// LinkContractor associates an existing contractor with the project.
func (h *ContractorHandler) LinkContractor(c *gin.Context) {
	projectInterface, _ := c.Get("project")
	project := projectInterface.(models.Project)

	contractorID, err := strconv.ParseUint(c.Param("contractor_id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid contractor ID")
		return
	}

	if err := h.contractorService.LinkToProject(project.ID, contractorID); err != nil {
		respondContractorError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Contractor linked successfully",
	})
}

// UnlinkContractor removes the contractor's project association. The
// contractor record itself survives for other projects.
func (h *ContractorHandler) UnlinkContractor(c *gin.Context) {
	projectInterface, _ := c.Get("project")
	project := projectInterface.(models.Project)

	contractorID, err := strconv.ParseUint(c.Param("contractor_id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid contractor ID")
		return
	}

	if err := h.contractorService.UnlinkFromProject(project.ID, contractorID); err != nil {
		respondContractorError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Contractor unlinked successfully",
	})
}

// GetContractor returns the contractor with its records and rollup.
func (h *ContractorHandler) GetContractor(c *gin.Context) {
	contractorInterface, _ := c.Get("contractor")
	contractor := contractorInterface.(models.Contractor)

	detail, err := h.contractorService.GetContractorDetail(contractor.ID)
	if err != nil {
		respondContractorError(c, err)
		return
	}

	changeOrders := make([]dto.ChangeOrderDTO, len(detail.ChangeOrders))
	for i, co := range detail.ChangeOrders {
		changeOrders[i] = dto.ToChangeOrderDTO(co)
	}

	invoices := make([]dto.InvoiceDTO, len(detail.Invoices))
	for i, invoice := range detail.Invoices {
		invoices[i] = dto.ToInvoiceDTO(invoice)
	}

	c.JSON(http.StatusOK, dto.ContractorDetailDTO{
		ContractorDTO: dto.ToContractorDTO(detail.Contractor),
		Metrics:       detail.Metrics,
		Status:        detail.Status,
		ChangeOrders:  changeOrders,
		Invoices:      invoices,
	})
}

// UpdateContractor applies a partial update to the contractor.
func (h *ContractorHandler) UpdateContractor(c *gin.Context) {
	contractorInterface, _ := c.Get("contractor")
	contractor := contractorInterface.(models.Contractor)

	type UpdateContractorRequest struct {
		Name          *string  `json:"name" binding:"omitempty,max=255"`
		Email         *string  `json:"email" binding:"omitempty,email"`
		Phone         *string  `json:"phone"`
		Description   *string  `json:"description"`
		ContractValue *float64 `json:"contract_value"`
	}

	var req UpdateContractorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	updated, err := h.contractorService.UpdateContractor(contractor.ID, services.UpdateContractorInput{
		Name:          req.Name,
		Email:         req.Email,
		Phone:         req.Phone,
		Description:   req.Description,
		ContractValue: req.ContractValue,
	})
	if err != nil {
		respondContractorError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToContractorDTO(*updated))
}

// DeleteContractor removes the contractor and its project links.
func (h *ContractorHandler) DeleteContractor(c *gin.Context) {
	contractorInterface, _ := c.Get("contractor")
	contractor := contractorInterface.(models.Contractor)

	if err := h.contractorService.DeleteContractor(contractor.ID); err != nil {
		respondContractorError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Contractor deleted successfully",
	})
}

func respondContractorError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrContractorNotFound),
		errors.Is(err, services.ErrContractorNotLinked):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrInvalidContractorName),
		errors.Is(err, services.ErrNegativeContractValue):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrContractorEmailTaken),
		errors.Is(err, services.ErrContractorAlreadyLinked):
		apierrors.Conflict(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
