package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/bimaplus/bima-api/internal/models"
	appErrors "github.com/bimaplus/bima-api/pkg/errors"
	"github.com/bimaplus/bima-api/pkg/sanitize"
)

type contactRepository interface {
	ListContacts(ctx context.Context, filter models.ContactFilter) ([]models.ContactRequest, int, error)
	FindContactByID(ctx context.Context, id string) (*models.ContactRequest, error)
	CreateContact(ctx context.Context, contact *models.ContactRequest) error
	UpdateContact(ctx context.Context, contact *models.ContactRequest) error
	DeleteContact(ctx context.Context, id string) error
	ListCallbacks(ctx context.Context, filter models.ContactFilter) ([]models.CallbackRequest, int, error)
	FindCallbackByID(ctx context.Context, id string) (*models.CallbackRequest, error)
	CreateCallback(ctx context.Context, callback *models.CallbackRequest) error
	UpdateCallback(ctx context.Context, callback *models.CallbackRequest) error
	DeleteCallback(ctx context.Context, id string) error
}

// CreateContactRequest is the public contact form payload.
type CreateContactRequest struct {
	Name    string `json:"name" validate:"required,min=2"`
	Email   string `json:"email" validate:"required,email"`
	Subject string `json:"subject" validate:"required"`
	Message string `json:"message" validate:"required,min=5"`
}

// UpdateContactRequest is the staff-side partial update.
type UpdateContactRequest struct {
	Status *models.ContactStatus `json:"status" validate:"omitempty,oneof=new responded closed"`
}

// CreateCallbackRequest is the public "call me back" payload.
type CreateCallbackRequest struct {
	Name          string `json:"name" validate:"required,min=2"`
	Phone         string `json:"phone" validate:"required,min=7"`
	PreferredTime string `json:"preferred_time"`
}

// UpdateCallbackRequest is the staff-side partial update.
type UpdateCallbackRequest struct {
	Status *models.CallbackStatus `json:"status" validate:"omitempty,oneof=pending called closed"`
}

// ContactService handles contact and callback requests; the two share a
// repository and workflow shape.
type ContactService struct {
	repo      contactRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewContactService creates an instance of ContactService.
func NewContactService(repo contactRepository, validate *validator.Validate, logger *zap.Logger) *ContactService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &ContactService{repo: repo, validator: validate, logger: logger}
}

// CreateContact records a new contact request in the new state.
func (s *ContactService) CreateContact(ctx context.Context, req CreateContactRequest) (*models.ContactRequest, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid contact payload: check the email format and required fields")
	}

	contact := &models.ContactRequest{
		Name:    sanitize.Clean(req.Name),
		Email:   sanitize.Clean(req.Email),
		Subject: sanitize.Clean(req.Subject),
		Message: sanitize.Clean(req.Message),
		Status:  models.ContactStatusNew,
	}

	if err := s.repo.CreateContact(ctx, contact); err != nil {
		return nil, storageError(err, "failed to create contact request")
	}

	s.logger.Info("contact request received", zap.String("contact_id", contact.ID))
	return contact, nil
}

// ListContacts returns contact requests with pagination metadata.
func (s *ContactService) ListContacts(ctx context.Context, filter models.ContactFilter) ([]models.ContactRequest, *models.Pagination, error) {
	contacts, total, err := s.repo.ListContacts(ctx, filter)
	if err != nil {
		return nil, nil, storageError(err, "failed to list contact requests")
	}

	limit := models.NormalizeLimit(filter.Limit, 10)
	return contacts, models.NewPagination(filter.Page, limit, total), nil
}

// GetContact returns a contact request by ID.
func (s *ContactService) GetContact(ctx context.Context, id string) (*models.ContactRequest, error) {
	contact, err := s.repo.FindContactByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "contact request not found")
		}
		return nil, storageError(err, "failed to load contact request")
	}
	return contact, nil
}

// UpdateContact applies the present fields to a contact request.
func (s *ContactService) UpdateContact(ctx context.Context, id string, req UpdateContactRequest) (*models.ContactRequest, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid contact update payload")
	}

	contact, err := s.GetContact(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Status != nil {
		contact.Status = *req.Status
	}

	if err := s.repo.UpdateContact(ctx, contact); err != nil {
		return nil, storageError(err, "failed to update contact request")
	}
	return contact, nil
}

// DeleteContact permanently removes a contact request.
func (s *ContactService) DeleteContact(ctx context.Context, id string) error {
	if err := s.repo.DeleteContact(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "contact request not found")
		}
		return storageError(err, "failed to delete contact request")
	}
	return nil
}

// CreateCallback records a new callback request in the pending state.
func (s *ContactService) CreateCallback(ctx context.Context, req CreateCallbackRequest) (*models.CallbackRequest, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid callback payload")
	}

	callback := &models.CallbackRequest{
		Name:          sanitize.Clean(req.Name),
		Phone:         sanitize.Clean(req.Phone),
		PreferredTime: sanitize.Clean(req.PreferredTime),
		Status:        models.CallbackStatusPending,
	}

	if err := s.repo.CreateCallback(ctx, callback); err != nil {
		return nil, storageError(err, "failed to create callback request")
	}

	s.logger.Info("callback request received", zap.String("callback_id", callback.ID))
	return callback, nil
}

// ListCallbacks returns callback requests with pagination metadata.
func (s *ContactService) ListCallbacks(ctx context.Context, filter models.ContactFilter) ([]models.CallbackRequest, *models.Pagination, error) {
	callbacks, total, err := s.repo.ListCallbacks(ctx, filter)
	if err != nil {
		return nil, nil, storageError(err, "failed to list callback requests")
	}

	limit := models.NormalizeLimit(filter.Limit, 10)
	return callbacks, models.NewPagination(filter.Page, limit, total), nil
}

// GetCallback returns a callback request by ID.
func (s *ContactService) GetCallback(ctx context.Context, id string) (*models.CallbackRequest, error) {
	callback, err := s.repo.FindCallbackByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "callback request not found")
		}
		return nil, storageError(err, "failed to load callback request")
	}
	return callback, nil
}

// UpdateCallback applies the present fields to a callback request.
func (s *ContactService) UpdateCallback(ctx context.Context, id string, req UpdateCallbackRequest) (*models.CallbackRequest, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid callback update payload")
	}

	callback, err := s.GetCallback(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Status != nil {
		callback.Status = *req.Status
	}

	if err := s.repo.UpdateCallback(ctx, callback); err != nil {
		return nil, storageError(err, "failed to update callback request")
	}
	return callback, nil
}

// DeleteCallback permanently removes a callback request.
func (s *ContactService) DeleteCallback(ctx context.Context, id string) error {
	if err := s.repo.DeleteCallback(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "callback request not found")
		}
		return storageError(err, "failed to delete callback request")
	}
	return nil
}
