package handler

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/bimaplus/bima-api/internal/models"
	"github.com/bimaplus/bima-api/internal/service"
	"github.com/bimaplus/bima-api/pkg/response"
)

// ExportHandler serves register downloads for the dashboard.
type ExportHandler struct {
	exports *service.ExportService
}

// NewExportHandler constructs ExportHandler.
func NewExportHandler(exports *service.ExportService) *ExportHandler {
	return &ExportHandler{exports: exports}
}

func exportFormat(c *gin.Context) service.ExportFormat {
	return service.ExportFormat(strings.ToLower(c.DefaultQuery("format", "csv")))
}

func (h *ExportHandler) send(c *gin.Context, result *service.ExportResult) {
	c.Header("Content-Disposition", `attachment; filename="`+result.Filename+`"`)
	c.Data(200, result.ContentType, result.Data)
}

// Claims godoc
// @Summary Export the claims register
// @Tags Exports
// @Produce text/csv
// @Param format query string false "csv or pdf"
// @Param status query string false "Filter by status"
// @Success 200 {file} binary
// @Security BearerAuth
// @Router /exports/claims [get]
func (h *ExportHandler) Claims(c *gin.Context) {
	var filter models.ClaimFilter
	if status := c.Query("status"); status != "" {
		v := models.ClaimStatus(status)
		filter.Status = &v
	}
	filter.ProductType = c.Query("product_type")

	result, err := h.exports.ExportClaims(c.Request.Context(), filter, exportFormat(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	h.send(c, result)
}

// Quotes godoc
// @Summary Export the quotes register
// @Tags Exports
// @Produce text/csv
// @Param format query string false "csv or pdf"
// @Param status query string false "Filter by status"
// @Success 200 {file} binary
// @Security BearerAuth
// @Router /exports/quotes [get]
func (h *ExportHandler) Quotes(c *gin.Context) {
	var filter models.QuoteFilter
	if status := c.Query("status"); status != "" {
		v := models.QuoteStatus(status)
		filter.Status = &v
	}
	filter.ProductType = c.Query("product_type")

	result, err := h.exports.ExportQuotes(c.Request.Context(), filter, exportFormat(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	h.send(c, result)
}
