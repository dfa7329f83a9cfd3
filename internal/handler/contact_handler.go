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

// ContactHandler exposes contact and callback request endpoints.
type ContactHandler struct {
	contacts *service.ContactService
	metrics  *service.MetricsService
}

// NewContactHandler constructs ContactHandler.
func NewContactHandler(contacts *service.ContactService, metrics *service.MetricsService) *ContactHandler {
	return &ContactHandler{contacts: contacts, metrics: metrics}
}

func contactFilter(c *gin.Context) models.ContactFilter {
	var filter models.ContactFilter
	filter.Status = c.Query("status")
	filter.Search = strings.TrimSpace(c.Query("search"))
	filter.Page, filter.Limit = pageQuery(c)
	return filter
}

// CreateContact godoc
// @Summary Submit a contact request
// @Tags Contacts
// @Accept json
// @Produce json
// @Param payload body service.CreateContactRequest true "Contact payload"
// @Success 201 {object} response.Envelope
// @Router /contacts [post]
func (h *ContactHandler) CreateContact(c *gin.Context) {
	var req service.CreateContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	contact, err := h.contacts.CreateContact(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	if h.metrics != nil {
		h.metrics.CountSubmission("contact")
	}
	response.Created(c, contact)
}

// ListContacts godoc
// @Summary List contact requests
// @Tags Contacts
// @Produce json
// @Param status query string false "Filter by status"
// @Param search query string false "Search by name or email"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /contacts [get]
func (h *ContactHandler) ListContacts(c *gin.Context) {
	contacts, pagination, err := h.contacts.ListContacts(c.Request.Context(), contactFilter(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, contacts, pagination)
}

// GetContact godoc
// @Summary Get contact request detail
// @Tags Contacts
// @Produce json
// @Param id path string true "Contact ID"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /contacts/{id} [get]
func (h *ContactHandler) GetContact(c *gin.Context) {
	contact, err := h.contacts.GetContact(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, contact)
}

// UpdateContact godoc
// @Summary Update a contact request
// @Tags Contacts
// @Accept json
// @Produce json
// @Param id path string true "Contact ID"
// @Param payload body service.UpdateContactRequest true "Contact payload"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /contacts/{id} [put]
func (h *ContactHandler) UpdateContact(c *gin.Context) {
	var req service.UpdateContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	contact, err := h.contacts.UpdateContact(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, contact)
}

// DeleteContact godoc
// @Summary Delete a contact request
// @Tags Contacts
// @Produce json
// @Param id path string true "Contact ID"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /contacts/{id} [delete]
func (h *ContactHandler) DeleteContact(c *gin.Context) {
	if err := h.contacts.DeleteContact(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"deleted": true})
}

// CreateCallback godoc
// @Summary Request a callback
// @Tags Callbacks
// @Accept json
// @Produce json
// @Param payload body service.CreateCallbackRequest true "Callback payload"
// @Success 201 {object} response.Envelope
// @Router /callbacks [post]
func (h *ContactHandler) CreateCallback(c *gin.Context) {
	var req service.CreateCallbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	callback, err := h.contacts.CreateCallback(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	if h.metrics != nil {
		h.metrics.CountSubmission("callback")
	}
	response.Created(c, callback)
}

// ListCallbacks godoc
// @Summary List callback requests
// @Tags Callbacks
// @Produce json
// @Param status query string false "Filter by status"
// @Param search query string false "Search by name or phone"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /callbacks [get]
func (h *ContactHandler) ListCallbacks(c *gin.Context) {
	callbacks, pagination, err := h.contacts.ListCallbacks(c.Request.Context(), contactFilter(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, callbacks, pagination)
}

// GetCallback godoc
// @Summary Get callback request detail
// @Tags Callbacks
// @Produce json
// @Param id path string true "Callback ID"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /callbacks/{id} [get]
func (h *ContactHandler) GetCallback(c *gin.Context) {
	callback, err := h.contacts.GetCallback(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, callback)
}

// UpdateCallback godoc
// @Summary Update a callback request
// @Tags Callbacks
// @Accept json
// @Produce json
// @Param id path string true "Callback ID"
// @Param payload body service.UpdateCallbackRequest true "Callback payload"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /callbacks/{id} [put]
func (h *ContactHandler) UpdateCallback(c *gin.Context) {
	var req service.UpdateCallbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	callback, err := h.contacts.UpdateCallback(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, callback)
}

// DeleteCallback godoc
// @Summary Delete a callback request
// @Tags Callbacks
// @Produce json
// @Param id path string true "Callback ID"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /callbacks/{id} [delete]
func (h *ContactHandler) DeleteCallback(c *gin.Context) {
	if err := h.contacts.DeleteCallback(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"deleted": true})
}
