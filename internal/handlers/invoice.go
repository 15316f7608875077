package handlers

import (
	"errors"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hokuto/construction-finance-api/internal/dto"
	apierrors "github.com/hokuto/construction-finance-api/internal/errors"
	"github.com/hokuto/construction-finance-api/internal/models"
	"github.com/hokuto/construction-finance-api/internal/services"
	"github.com/hokuto/construction-finance-api/internal/utils"
)

// InvoiceHandler coordinates invoice HTTP handlers. Create and update
// accept multipart form data so a document can ride along with the
// fields.
type InvoiceHandler struct {
	invoiceService *services.InvoiceService
}

// NewInvoiceHandler creates a new InvoiceHandler.
func NewInvoiceHandler(invoiceService *services.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{
		invoiceService: invoiceService,
	}
}

// CreateInvoice creates an invoice on the project. The amount field is a
// non-negative magnitude; is_credit flips the stored sign.
func (h *InvoiceHandler) CreateInvoice(c *gin.Context) {
	projectInterface, _ := c.Get("project")
	project := projectInterface.(models.Project)

	type CreateInvoiceRequest struct {
		ContractorID  uint64                `form:"contractor_id" binding:"required"`
		InvoiceNumber string                `form:"invoice_number" binding:"required,max=255"`
		Description   string                `form:"description"`
		Amount        float64               `form:"amount"`
		IsCredit      bool                  `form:"is_credit"`
		Status        models.InvoiceStatus  `form:"status" binding:"omitempty,oneof=pending paid"`
		DueDate       string                `form:"due_date"`
		File          *multipart.FileHeader `form:"file"`
	}

	var req CreateInvoiceRequest
	if err := c.ShouldBind(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	dueDate, ok := parseDueDate(c, req.DueDate)
	if !ok {
		return
	}

	var file *services.InvoiceFile
	if req.File != nil {
		f, err := req.File.Open()
		if err != nil {
			apierrors.BadRequest(c, "Invalid file upload")
			return
		}
		defer f.Close()
		file = &services.InvoiceFile{Filename: req.File.Filename, Reader: f}
	}

	invoice, err := h.invoiceService.CreateInvoice(services.CreateInvoiceInput{
		ProjectID:     project.ID,
		ContractorID:  req.ContractorID,
		InvoiceNumber: req.InvoiceNumber,
		Description:   req.Description,
		Amount:        req.Amount,
		IsCredit:      req.IsCredit,
		Status:        req.Status,
		DueDate:       dueDate,
		File:          file,
	})
	if err != nil {
		respondInvoiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToInvoiceDTO(*invoice))
}

// ListInvoices returns a page of the project's invoices, newest first.
func (h *InvoiceHandler) ListInvoices(c *gin.Context) {
	projectInterface, _ := c.Get("project")
	project := projectInterface.(models.Project)

	params := utils.GetPaginationParams(c)

	invoices, total, err := h.invoiceService.ListProjectInvoices(project.ID, params)
	if err != nil {
		respondInvoiceError(c, err)
		return
	}

	invoiceDTOs := make([]dto.InvoiceDTO, len(invoices))
	for i, invoice := range invoices {
		invoiceDTOs[i] = dto.ToInvoiceDTO(invoice)
	}

	c.JSON(http.StatusOK, gin.H{
		"invoices": invoiceDTOs,
		"pagination": utils.PaginationResponse{
			Page:  params.Page,
			Limit: params.Limit,
			Total: total,
		},
	})
}

// GetInvoice returns the invoice with its contractor.
func (h *InvoiceHandler) GetInvoice(c *gin.Context) {
	invoiceInterface, _ := c.Get("invoice")
	invoice := invoiceInterface.(models.Invoice)

	loaded, err := h.invoiceService.GetInvoice(invoice.ID)
	if err != nil {
		respondInvoiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToInvoiceDTO(*loaded))
}

// UpdateInvoice applies a partial update to the invoice. Form fields that
// are absent leave the stored values untouched.
func (h *InvoiceHandler) UpdateInvoice(c *gin.Context) {
	invoiceInterface, _ := c.Get("invoice")
	invoice := invoiceInterface.(models.Invoice)

	type UpdateInvoiceRequest struct {
		InvoiceNumber *string               `form:"invoice_number" binding:"omitempty,max=255"`
		Description   *string               `form:"description"`
		Amount        *float64              `form:"amount"`
		IsCredit      *bool                 `form:"is_credit"`
		Status        *models.InvoiceStatus `form:"status" binding:"omitempty,oneof=pending paid"`
		File          *multipart.FileHeader `form:"file"`
	}

	var req UpdateInvoiceRequest
	if err := c.ShouldBind(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	// An absent due_date field leaves the stored value untouched; a
	// present empty one clears it
	rawDue, hasDue := c.GetPostForm("due_date")
	var dueDate *time.Time
	clearDue := false
	if hasDue {
		if rawDue == "" {
			clearDue = true
		} else {
			var ok bool
			if dueDate, ok = parseDueDate(c, rawDue); !ok {
				return
			}
		}
	}

	var file *services.InvoiceFile
	if req.File != nil {
		f, err := req.File.Open()
		if err != nil {
			apierrors.BadRequest(c, "Invalid file upload")
			return
		}
		defer f.Close()
		file = &services.InvoiceFile{Filename: req.File.Filename, Reader: f}
	}

	updated, err := h.invoiceService.UpdateInvoice(invoice.ID, services.UpdateInvoiceInput{
		InvoiceNumber: req.InvoiceNumber,
		Description:   req.Description,
		Amount:        req.Amount,
		IsCredit:      req.IsCredit,
		Status:        req.Status,
		DueDate:       dueDate,
		ClearDueDate:  clearDue,
		File:          file,
	})
	if err != nil {
		respondInvoiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToInvoiceDTO(*updated))
}

// DeleteInvoice removes the invoice.
func (h *InvoiceHandler) DeleteInvoice(c *gin.Context) {
	invoiceInterface, _ := c.Get("invoice")
	invoice := invoiceInterface.(models.Invoice)

	if err := h.invoiceService.DeleteInvoice(invoice.ID); err != nil {
		respondInvoiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Invoice deleted successfully",
	})
}

// MarkPaid sets the invoice status to paid.
func (h *InvoiceHandler) MarkPaid(c *gin.Context) {
	invoiceInterface, _ := c.Get("invoice")
	invoice := invoiceInterface.(models.Invoice)

	paid := models.InvoiceStatusPaid
	updated, err := h.invoiceService.UpdateInvoice(invoice.ID, services.UpdateInvoiceInput{
		Status: &paid,
	})
	if err != nil {
		respondInvoiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToInvoiceDTO(*updated))
}

func parseDueDate(c *gin.Context, raw string) (*time.Time, bool) {
	if raw == "" {
		return nil, true
	}
	parsed, err := time.Parse("2006-01-02", raw)
	if err != nil {
		if parsed, err = time.Parse(time.RFC3339, raw); err != nil {
			apierrors.BadRequest(c, "Invalid due date")
			return nil, false
		}
	}
	return &parsed, true
}

func respondInvoiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInvoiceNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrInvoiceNumberRequired),
		errors.Is(err, services.ErrNegativeAmount),
		errors.Is(err, services.ErrContractorNotOnProject):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrFileUploadFailed):
		apierrors.InternalError(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
