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

type applicationRepository interface {
	List(ctx context.Context, filter models.ApplicationFilter) ([]models.JobApplication, int, error)
	FindByID(ctx context.Context, id string) (*models.JobApplication, error)
	Create(ctx context.Context, application *models.JobApplication) error
	Update(ctx context.Context, application *models.JobApplication) error
	Delete(ctx context.Context, id string) error
}

// CreateApplicationRequest is the public careers form payload.
type CreateApplicationRequest struct {
	FullName    string  `json:"full_name" validate:"required,min=2"`
	Email       string  `json:"email" validate:"required,email"`
	Phone       string  `json:"phone" validate:"required,min=7"`
	Position    string  `json:"position" validate:"required"`
	CoverLetter string  `json:"cover_letter"`
	ResumeURL   *string `json:"resume_url" validate:"omitempty,url"`
}

// UpdateApplicationRequest is the staff-side partial update.
type UpdateApplicationRequest struct {
	Status *models.ApplicationStatus `json:"status" validate:"omitempty,oneof=received shortlisted rejected hired"`
}

// ApplicationService handles job applications from the careers page.
type ApplicationService struct {
	repo      applicationRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewApplicationService creates an instance of ApplicationService.
func NewApplicationService(repo applicationRepository, validate *validator.Validate, logger *zap.Logger) *ApplicationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &ApplicationService{repo: repo, validator: validate, logger: logger}
}

// Create records a new job application in the received state.
func (s *ApplicationService) Create(ctx context.Context, req CreateApplicationRequest) (*models.JobApplication, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid application payload")
	}

	application := &models.JobApplication{
		FullName:    sanitize.Clean(req.FullName),
		Email:       sanitize.Clean(req.Email),
		Phone:       sanitize.Clean(req.Phone),
		Position:    sanitize.Clean(req.Position),
		CoverLetter: sanitize.Clean(req.CoverLetter),
		ResumeURL:   req.ResumeURL,
		Status:      models.ApplicationStatusReceived,
	}

	if err := s.repo.Create(ctx, application); err != nil {
		return nil, storageError(err, "failed to create application")
	}

	s.logger.Info("job application received",
		zap.String("application_id", application.ID),
		zap.String("position", application.Position))

	return application, nil
}

// List returns applications matching the filter with pagination metadata.
func (s *ApplicationService) List(ctx context.Context, filter models.ApplicationFilter) ([]models.JobApplication, *models.Pagination, error) {
	applications, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, storageError(err, "failed to list applications")
	}

	limit := models.NormalizeLimit(filter.Limit, 10)
	return applications, models.NewPagination(filter.Page, limit, total), nil
}

// Get returns an application by ID.
func (s *ApplicationService) Get(ctx context.Context, id string) (*models.JobApplication, error) {
	application, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "application not found")
		}
		return nil, storageError(err, "failed to load application")
	}
	return application, nil
}

// Update applies the present fields to an application.
func (s *ApplicationService) Update(ctx context.Context, id string, req UpdateApplicationRequest) (*models.JobApplication, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid application update payload")
	}

	application, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Status != nil {
		application.Status = *req.Status
	}

	if err := s.repo.Update(ctx, application); err != nil {
		return nil, storageError(err, "failed to update application")
	}
	return application, nil
}

// Delete permanently removes an application.
func (s *ApplicationService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "application not found")
		}
		return storageError(err, "failed to delete application")
	}
	return nil
}
