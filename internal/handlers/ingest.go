package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hokuto/construction-finance-api/internal/dto"
	apierrors "github.com/hokuto/construction-finance-api/internal/errors"
	"github.com/hokuto/construction-finance-api/internal/middleware"
	"github.com/hokuto/construction-finance-api/internal/models"
	"github.com/hokuto/construction-finance-api/internal/services"
)

// maxIngestFileSize caps AI-processed uploads at 10 MB.
const maxIngestFileSize = 10 << 20

// IngestHandler handles AI-assisted invoice uploads.
type IngestHandler struct {
	ingestService *services.IngestService
}

// NewIngestHandler creates a new IngestHandler.
func NewIngestHandler(ingestService *services.IngestService) *IngestHandler {
	return &IngestHandler{
		ingestService: ingestService,
	}
}

// IngestInvoice runs the automated pipeline on an uploaded document.
func (h *IngestHandler) IngestInvoice(c *gin.Context) {
	projectInterface, _ := c.Get("project")
	project := projectInterface.(models.Project)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	header, err := c.FormFile("file")
	if err != nil {
		apierrors.BadRequest(c, "Missing invoice file")
		return
	}
	if header.Size > maxIngestFileSize {
		apierrors.BadRequest(c, "File too large")
		return
	}

	f, err := header.Open()
	if err != nil {
		apierrors.BadRequest(c, "Invalid file upload")
		return
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxIngestFileSize))
	if err != nil {
		apierrors.InternalError(c, "Failed to read file")
		return
	}

	result, err := h.ingestService.IngestInvoice(c.Request.Context(), project.ID, userID, header.Filename, data)
	if err != nil {
		respondIngestError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"invoice":            dto.ToInvoiceDTO(*result.Invoice),
		"contractor":         dto.ToContractorDTO(*result.Contractor),
		"contractor_created": result.ContractorCreated,
		"extracted":          result.Extracted,
	})
}

func respondIngestError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrExtractionFailed):
		apierrors.ServiceUnavailable(c, err.Error())
	case errors.Is(err, services.ErrFileUploadFailed):
		apierrors.InternalError(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
