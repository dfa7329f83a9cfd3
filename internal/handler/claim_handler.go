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

// ClaimHandler exposes claim endpoints. Create serves the public claim form;
// everything else sits behind the dashboard gate.
type ClaimHandler struct {
	claims  *service.ClaimService
	metrics *service.MetricsService
}

// NewClaimHandler constructs ClaimHandler.
func NewClaimHandler(claims *service.ClaimService, metrics *service.MetricsService) *ClaimHandler {
	return &ClaimHandler{claims: claims, metrics: metrics}
}

// Create godoc
// @Summary Submit an insurance claim
// @Tags Claims
// @Accept json
// @Produce json
// @Param payload body service.CreateClaimRequest true "Claim payload"
// @Success 201 {object} response.Envelope
// @Router /claims [post]
func (h *ClaimHandler) Create(c *gin.Context) {
	var req service.CreateClaimRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	var createdBy *string
	if user := currentUser(c); user != nil {
		createdBy = &user.ID
	}

	claim, err := h.claims.Create(c.Request.Context(), req, createdBy)
	if err != nil {
		response.Error(c, err)
		return
	}
	if h.metrics != nil {
		h.metrics.CountSubmission("claim")
	}
	response.Created(c, claim)
}

// List godoc
// @Summary List claims
// @Tags Claims
// @Produce json
// @Param status query string false "Filter by status"
// @Param product_type query string false "Filter by product"
// @Param search query string false "Search by claimant or policy number"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /claims [get]
func (h *ClaimHandler) List(c *gin.Context) {
	var filter models.ClaimFilter
	if status := c.Query("status"); status != "" {
		v := models.ClaimStatus(status)
		filter.Status = &v
	}
	filter.ProductType = c.Query("product_type")
	filter.Search = strings.TrimSpace(c.Query("search"))
	filter.Page, filter.Limit = pageQuery(c)

	claims, pagination, err := h.claims.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, claims, pagination)
}

// Get godoc
// @Summary Get claim detail
// @Tags Claims
// @Produce json
// @Param id path string true "Claim ID"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /claims/{id} [get]
func (h *ClaimHandler) Get(c *gin.Context) {
	claim, err := h.claims.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, claim)
}

// Update godoc
// @Summary Update a claim
// @Tags Claims
// @Accept json
// @Produce json
// @Param id path string true "Claim ID"
// @Param payload body service.UpdateClaimRequest true "Claim payload"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /claims/{id} [put]
func (h *ClaimHandler) Update(c *gin.Context) {
	var req service.UpdateClaimRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	claim, err := h.claims.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, claim)
}

// Delete godoc
// @Summary Delete a claim
// @Tags Claims
// @Produce json
// @Param id path string true "Claim ID"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /claims/{id} [delete]
func (h *ClaimHandler) Delete(c *gin.Context) {
	if err := h.claims.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"deleted": true})
}
