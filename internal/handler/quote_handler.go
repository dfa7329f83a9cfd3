package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/bimaplus/bima-api/internal/models"
	"github.com/bimaplus/bima-api/internal/service"
	appErrors "github.com/bimaplus/bima-api/pkg/errors"
	"github.com/bimaplus/bima-api/pkg/response"
)

// QuoteHandler exposes quote endpoints.
type QuoteHandler struct {
	quotes  *service.QuoteService
	metrics *service.MetricsService
}

// NewQuoteHandler constructs QuoteHandler.
func NewQuoteHandler(quotes *service.QuoteService, metrics *service.MetricsService) *QuoteHandler {
	return &QuoteHandler{quotes: quotes, metrics: metrics}
}

// Create godoc
// @Summary Request an insurance quote
// @Tags Quotes
// @Accept json
// @Produce json
// @Param payload body service.CreateQuoteRequest true "Quote payload"
// @Success 201 {object} response.Envelope
// @Router /quotes [post]
func (h *QuoteHandler) Create(c *gin.Context) {
	var req service.CreateQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	quote, err := h.quotes.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	if h.metrics != nil {
		h.metrics.CountSubmission("quote")
	}
	response.Created(c, quote)
}

// List godoc
// @Summary List quotes
// @Tags Quotes
// @Produce json
// @Param status query string false "Filter by status"
// @Param product_type query string false "Filter by product"
// @Param search query string false "Search by customer or email"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /quotes [get]
func (h *QuoteHandler) List(c *gin.Context) {
	var filter models.QuoteFilter
	if status := c.Query("status"); status != "" {
		v := models.QuoteStatus(status)
		filter.Status = &v
	}
	filter.ProductType = c.Query("product_type")
	filter.Search = strings.TrimSpace(c.Query("search"))
	filter.Page, filter.Limit = pageQuery(c)

	quotes, pagination, err := h.quotes.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, quotes, pagination)
}

// Get godoc
// @Summary Get quote detail
// @Tags Quotes
// @Produce json
// @Param id path string true "Quote ID"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /quotes/{id} [get]
func (h *QuoteHandler) Get(c *gin.Context) {
	quote, err := h.quotes.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, quote)
}

// Update godoc
// @Summary Update a quote
// @Tags Quotes
// @Accept json
// @Produce json
// @Param id path string true "Quote ID"
// @Param payload body service.UpdateQuoteRequest true "Quote payload"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /quotes/{id} [put]
func (h *QuoteHandler) Update(c *gin.Context) {
	var req service.UpdateQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	quote, err := h.quotes.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, quote)
}

// Delete godoc
// @Summary Delete a quote
// @Tags Quotes
// @Produce json
// @Param id path string true "Quote ID"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /quotes/{id} [delete]
func (h *QuoteHandler) Delete(c *gin.Context) {
	if err := h.quotes.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"deleted": true})
}
