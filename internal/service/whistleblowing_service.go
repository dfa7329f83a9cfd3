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

type reportRepository interface {
	List(ctx context.Context, filter models.ReportFilter) ([]models.WhistleblowingReport, int, error)
	FindByID(ctx context.Context, id string) (*models.WhistleblowingReport, error)
	Create(ctx context.Context, report *models.WhistleblowingReport) error
	Update(ctx context.Context, report *models.WhistleblowingReport) error
	Delete(ctx context.Context, id string) error
}

// CreateReportRequest is the public whistleblowing form payload. Contact
// fields are optional so reports can be fully anonymous.
type CreateReportRequest struct {
	Category      string  `json:"category" validate:"required"`
	Description   string  `json:"description" validate:"required,min=10"`
	Anonymous     bool    `json:"anonymous"`
	ReporterName  *string `json:"reporter_name"`
	ReporterEmail *string `json:"reporter_email" validate:"omitempty,email"`
}

// UpdateReportRequest is the staff-side triage update.
type UpdateReportRequest struct {
	Status   *models.ReportStatus   `json:"status" validate:"omitempty,oneof=new investigating resolved dismissed"`
	Priority *models.ReportPriority `json:"priority" validate:"omitempty,oneof=low medium high"`
}

// WhistleblowingService handles misconduct reports.
type WhistleblowingService struct {
	repo      reportRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewWhistleblowingService creates an instance of WhistleblowingService.
func NewWhistleblowingService(repo reportRepository, validate *validator.Validate, logger *zap.Logger) *WhistleblowingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &WhistleblowingService{repo: repo, validator: validate, logger: logger}
}

// Create records a new report. Anonymous reports never store reporter contact
// details even when the form submits them.
func (s *WhistleblowingService) Create(ctx context.Context, req CreateReportRequest) (*models.WhistleblowingReport, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid report payload")
	}

	report := &models.WhistleblowingReport{
		Category:    sanitize.Clean(req.Category),
		Description: sanitize.Clean(req.Description),
		Anonymous:   req.Anonymous,
		Status:      models.ReportStatusNew,
		Priority:    models.ReportPriorityMedium,
	}

	if !req.Anonymous {
		report.ReporterName = sanitize.CleanPtr(req.ReporterName)
		report.ReporterEmail = sanitize.CleanPtr(req.ReporterEmail)
	}

	if err := s.repo.Create(ctx, report); err != nil {
		return nil, storageError(err, "failed to create report")
	}

	// Deliberately no reporter fields in the log line.
	s.logger.Info("whistleblowing report received",
		zap.String("report_id", report.ID),
		zap.String("category", report.Category))

	return report, nil
}

// List returns reports matching the filter with pagination metadata.
func (s *WhistleblowingService) List(ctx context.Context, filter models.ReportFilter) ([]models.WhistleblowingReport, *models.Pagination, error) {
	reports, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, storageError(err, "failed to list reports")
	}

	limit := models.NormalizeLimit(filter.Limit, 10)
	return reports, models.NewPagination(filter.Page, limit, total), nil
}

// Get returns a report by ID.
func (s *WhistleblowingService) Get(ctx context.Context, id string) (*models.WhistleblowingReport, error) {
	report, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "report not found")
		}
		return nil, storageError(err, "failed to load report")
	}
	return report, nil
}

// Update applies triage fields to a report.
func (s *WhistleblowingService) Update(ctx context.Context, id string, req UpdateReportRequest) (*models.WhistleblowingReport, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid report update payload")
	}

	report, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Status != nil {
		report.Status = *req.Status
	}
	if req.Priority != nil {
		report.Priority = *req.Priority
	}

	if err := s.repo.Update(ctx, report); err != nil {
		return nil, storageError(err, "failed to update report")
	}
	return report, nil
}

// Delete permanently removes a report.
func (s *WhistleblowingService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "report not found")
		}
		return storageError(err, "failed to delete report")
	}
	return nil
}
