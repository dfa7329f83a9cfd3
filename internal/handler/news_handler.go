package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/bimaplus/bima-api/internal/models"
	"github.com/bimaplus/bima-api/internal/service"
	appErrors "github.com/bimaplus/bima-api/pkg/errors"
	"github.com/bimaplus/bima-api/pkg/middleware/locale"
	"github.com/bimaplus/bima-api/pkg/response"
)

// NewsHandler exposes news endpoints. The public routes sit under a locale
// path segment and only ever serve published posts.
type NewsHandler struct {
	news *service.NewsService
}

// NewNewsHandler constructs NewsHandler.
func NewNewsHandler(news *service.NewsService) *NewsHandler {
	return &NewsHandler{news: news}
}

// PublicList godoc
// @Summary List published news
// @Tags News
// @Produce json
// @Param locale path string true "Locale (en or sw)"
// @Param category query string false "Filter by category"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /{locale}/news [get]
func (h *NewsHandler) PublicList(c *gin.Context) {
	var filter models.NewsFilter
	filter.Locale = locale.Value(c)
	filter.Category = c.Query("category")
	filter.Page, filter.Limit = pageQuery(c)

	posts, pagination, err := h.news.ListPublished(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, posts, pagination)
}

// PublicGet godoc
// @Summary Get a published post by slug
// @Tags News
// @Produce json
// @Param locale path string true "Locale (en or sw)"
// @Param slug path string true "Post slug"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /{locale}/news/{slug} [get]
func (h *NewsHandler) PublicGet(c *gin.Context) {
	post, err := h.news.GetPublishedBySlug(c.Request.Context(), c.Param("slug"), locale.Value(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, post)
}

// List godoc
// @Summary List news posts including drafts
// @Tags News
// @Produce json
// @Param category query string false "Filter by category"
// @Param locale query string false "Filter by locale"
// @Param published query bool false "Filter by published state"
// @Param search query string false "Search title or body"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /news [get]
func (h *NewsHandler) List(c *gin.Context) {
	var filter models.NewsFilter
	filter.Category = c.Query("category")
	filter.Locale = c.Query("locale")
	filter.Published = boolQuery(c, "published")
	filter.Search = strings.TrimSpace(c.Query("search"))
	filter.Page, filter.Limit = pageQuery(c)

	posts, pagination, err := h.news.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, posts, pagination)
}

// Get godoc
// @Summary Get post detail
// @Tags News
// @Produce json
// @Param id path string true "Post ID"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /news/{id} [get]
func (h *NewsHandler) Get(c *gin.Context) {
	post, err := h.news.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, post)
}

// Create godoc
// @Summary Create a news post
// @Tags News
// @Accept json
// @Produce json
// @Param payload body service.CreateNewsRequest true "Post payload"
// @Success 201 {object} response.Envelope
// @Security BearerAuth
// @Router /news [post]
func (h *NewsHandler) Create(c *gin.Context) {
	var req service.CreateNewsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	var authorID *string
	if user := currentUser(c); user != nil {
		authorID = &user.ID
	}

	post, err := h.news.Create(c.Request.Context(), req, authorID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, post)
}

// Update godoc
// @Summary Update a news post
// @Tags News
// @Accept json
// @Produce json
// @Param id path string true "Post ID"
// @Param payload body service.UpdateNewsRequest true "Post payload"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /news/{id} [put]
func (h *NewsHandler) Update(c *gin.Context) {
	var req service.UpdateNewsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	post, err := h.news.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, post)
}

// Delete godoc
// @Summary Delete a news post
// @Tags News
// @Produce json
// @Param id path string true "Post ID"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /news/{id} [delete]
func (h *NewsHandler) Delete(c *gin.Context) {
	if err := h.news.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"deleted": true})
}
