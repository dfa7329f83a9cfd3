package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bimaplus/bima-api/internal/models"
	"github.com/bimaplus/bima-api/internal/service"
	appErrors "github.com/bimaplus/bima-api/pkg/errors"
	"github.com/bimaplus/bima-api/pkg/response"
)

// WhistleblowingHandler exposes misconduct report endpoints.
type WhistleblowingHandler struct {
	reports *service.WhistleblowingService
	metrics *service.MetricsService
}

// NewWhistleblowingHandler constructs WhistleblowingHandler.
func NewWhistleblowingHandler(reports *service.WhistleblowingService, metrics *service.MetricsService) *WhistleblowingHandler {
	return &WhistleblowingHandler{reports: reports, metrics: metrics}
}

// Create godoc
// @Summary Submit a whistleblowing report
// @Tags Whistleblowing
// @Accept json
// @Produce json
// @Param payload body service.CreateReportRequest true "Report payload"
// @Success 201 {object} response.Envelope
// @Router /whistleblowing [post]
func (h *WhistleblowingHandler) Create(c *gin.Context) {
	var req service.CreateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	report, err := h.reports.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	if h.metrics != nil {
		h.metrics.CountSubmission("whistleblowing")
	}
	response.Created(c, report)
}

// List godoc
// @Summary List whistleblowing reports
// @Tags Whistleblowing
// @Produce json
// @Param status query string false "Filter by status"
// @Param priority query string false "Filter by priority"
// @Param category query string false "Filter by category"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /whistleblowing [get]
func (h *WhistleblowingHandler) List(c *gin.Context) {
	var filter models.ReportFilter
	if status := c.Query("status"); status != "" {
		v := models.ReportStatus(status)
		filter.Status = &v
	}
	if priority := c.Query("priority"); priority != "" {
		v := models.ReportPriority(priority)
		filter.Priority = &v
	}
	filter.Category = c.Query("category")
	filter.Page, filter.Limit = pageQuery(c)

	reports, pagination, err := h.reports.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, reports, pagination)
}

// Get godoc
// @Summary Get report detail
// @Tags Whistleblowing
// @Produce json
// @Param id path string true "Report ID"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /whistleblowing/{id} [get]
func (h *WhistleblowingHandler) Get(c *gin.Context) {
	report, err := h.reports.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, report)
}

// Update godoc
// @Summary Update a report's triage state
// @Tags Whistleblowing
// @Accept json
// @Produce json
// @Param id path string true "Report ID"
// @Param payload body service.UpdateReportRequest true "Triage payload"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /whistleblowing/{id} [put]
func (h *WhistleblowingHandler) Update(c *gin.Context) {
	var req service.UpdateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	report, err := h.reports.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, report)
}

// Delete godoc
// @Summary Delete a report
// @Tags Whistleblowing
// @Produce json
// @Param id path string true "Report ID"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /whistleblowing/{id} [delete]
func (h *WhistleblowingHandler) Delete(c *gin.Context) {
	if err := h.reports.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"deleted": true})
}
