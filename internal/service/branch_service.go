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

type branchRepository interface {
	List(ctx context.Context, filter models.BranchFilter) ([]models.Branch, int, error)
	FindByID(ctx context.Context, id string) (*models.Branch, error)
	Create(ctx context.Context, branch *models.Branch) error
	Update(ctx context.Context, branch *models.Branch) error
	Delete(ctx context.Context, id string) error
}

// CreateBranchRequest is the staff payload for adding an office location.
type CreateBranchRequest struct {
	Name      string   `json:"name" validate:"required,min=2"`
	Region    string   `json:"region" validate:"required"`
	Address   string   `json:"address" validate:"required"`
	Phone     string   `json:"phone" validate:"required,min=7"`
	Email     string   `json:"email" validate:"required,email"`
	Latitude  *float64 `json:"latitude" validate:"omitempty,latitude"`
	Longitude *float64 `json:"longitude" validate:"omitempty,longitude"`
	Active    bool     `json:"active"`
}

// UpdateBranchRequest is the staff-side partial update.
type UpdateBranchRequest struct {
	Name      *string  `json:"name" validate:"omitempty,min=2"`
	Region    *string  `json:"region"`
	Address   *string  `json:"address"`
	Phone     *string  `json:"phone" validate:"omitempty,min=7"`
	Email     *string  `json:"email" validate:"omitempty,email"`
	Latitude  *float64 `json:"latitude" validate:"omitempty,latitude"`
	Longitude *float64 `json:"longitude" validate:"omitempty,longitude"`
	Active    *bool    `json:"active"`
}

// BranchService manages office locations for the public branch locator.
type BranchService struct {
	repo      branchRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewBranchService creates an instance of BranchService.
func NewBranchService(repo branchRepository, validate *validator.Validate, logger *zap.Logger) *BranchService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &BranchService{repo: repo, validator: validate, logger: logger}
}

// Create adds a branch.
func (s *BranchService) Create(ctx context.Context, req CreateBranchRequest) (*models.Branch, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid branch payload")
	}

	branch := &models.Branch{
		Name:      sanitize.Clean(req.Name),
		Region:    sanitize.Clean(req.Region),
		Address:   sanitize.Clean(req.Address),
		Phone:     sanitize.Clean(req.Phone),
		Email:     sanitize.Clean(req.Email),
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
		Active:    req.Active,
	}

	if err := s.repo.Create(ctx, branch); err != nil {
		return nil, storageError(err, "failed to create branch")
	}
	return branch, nil
}

// ListActive returns only active branches for the public locator.
func (s *BranchService) ListActive(ctx context.Context, filter models.BranchFilter) ([]models.Branch, *models.Pagination, error) {
	active := true
	filter.Active = &active
	return s.List(ctx, filter)
}

// List returns branches matching the filter with pagination metadata.
func (s *BranchService) List(ctx context.Context, filter models.BranchFilter) ([]models.Branch, *models.Pagination, error) {
	branches, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, storageError(err, "failed to list branches")
	}

	limit := models.NormalizeLimit(filter.Limit, 50)
	return branches, models.NewPagination(filter.Page, limit, total), nil
}

// Get returns a branch by ID.
func (s *BranchService) Get(ctx context.Context, id string) (*models.Branch, error) {
	branch, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "branch not found")
		}
		return nil, storageError(err, "failed to load branch")
	}
	return branch, nil
}

// Update applies the present fields to a branch.
func (s *BranchService) Update(ctx context.Context, id string, req UpdateBranchRequest) (*models.Branch, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid branch update payload")
	}

	branch, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		branch.Name = sanitize.Clean(*req.Name)
	}
	if req.Region != nil {
		branch.Region = sanitize.Clean(*req.Region)
	}
	if req.Address != nil {
		branch.Address = sanitize.Clean(*req.Address)
	}
	if req.Phone != nil {
		branch.Phone = sanitize.Clean(*req.Phone)
	}
	if req.Email != nil {
		branch.Email = sanitize.Clean(*req.Email)
	}
	if req.Latitude != nil {
		branch.Latitude = req.Latitude
	}
	if req.Longitude != nil {
		branch.Longitude = req.Longitude
	}
	if req.Active != nil {
		branch.Active = *req.Active
	}

	if err := s.repo.Update(ctx, branch); err != nil {
		return nil, storageError(err, "failed to update branch")
	}
	return branch, nil
}

// Delete permanently removes a branch.
func (s *BranchService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "branch not found")
		}
		return storageError(err, "failed to delete branch")
	}
	return nil
}
