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

// BranchHandler exposes branch locator endpoints.
type BranchHandler struct {
	branches *service.BranchService
}

// NewBranchHandler constructs BranchHandler.
func NewBranchHandler(branches *service.BranchService) *BranchHandler {
	return &BranchHandler{branches: branches}
}

func branchFilter(c *gin.Context) models.BranchFilter {
	var filter models.BranchFilter
	filter.Region = c.Query("region")
	filter.Active = boolQuery(c, "active")
	filter.Search = strings.TrimSpace(c.Query("search"))
	filter.Page, filter.Limit = pageQuery(c)
	return filter
}

// PublicList godoc
// @Summary List active branches
// @Tags Branches
// @Produce json
// @Param locale path string true "Locale (en or sw)"
// @Param region query string false "Filter by region"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /{locale}/branches [get]
func (h *BranchHandler) PublicList(c *gin.Context) {
	branches, pagination, err := h.branches.ListActive(c.Request.Context(), branchFilter(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, branches, pagination)
}

// List godoc
// @Summary List branches including inactive
// @Tags Branches
// @Produce json
// @Param region query string false "Filter by region"
// @Param active query bool false "Filter by active state"
// @Param search query string false "Search by name or address"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /branches [get]
func (h *BranchHandler) List(c *gin.Context) {
	branches, pagination, err := h.branches.List(c.Request.Context(), branchFilter(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, branches, pagination)
}

// Get godoc
// @Summary Get branch detail
// @Tags Branches
// @Produce json
// @Param id path string true "Branch ID"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /branches/{id} [get]
func (h *BranchHandler) Get(c *gin.Context) {
	branch, err := h.branches.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, branch)
}

// Create godoc
// @Summary Create a branch
// @Tags Branches
// @Accept json
// @Produce json
// @Param payload body service.CreateBranchRequest true "Branch payload"
// @Success 201 {object} response.Envelope
// @Security BearerAuth
// @Router /branches [post]
func (h *BranchHandler) Create(c *gin.Context) {
	var req service.CreateBranchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	branch, err := h.branches.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, branch)
}

// Update godoc
// @Summary Update a branch
// @Tags Branches
// @Accept json
// @Produce json
// @Param id path string true "Branch ID"
// @Param payload body service.UpdateBranchRequest true "Branch payload"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /branches/{id} [put]
func (h *BranchHandler) Update(c *gin.Context) {
	var req service.UpdateBranchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	branch, err := h.branches.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, branch)
}

// Delete godoc
// @Summary Delete a branch
// @Tags Branches
// @Produce json
// @Param id path string true "Branch ID"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /branches/{id} [delete]
func (h *BranchHandler) Delete(c *gin.Context) {
	if err := h.branches.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"deleted": true})
}
