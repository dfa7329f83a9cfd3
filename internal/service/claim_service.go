package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/bimaplus/bima-api/internal/models"
	appErrors "github.com/bimaplus/bima-api/pkg/errors"
	"github.com/bimaplus/bima-api/pkg/sanitize"
)

type claimRepository interface {
	List(ctx context.Context, filter models.ClaimFilter) ([]models.Claim, int, error)
	FindByID(ctx context.Context, id string) (*models.Claim, error)
	Create(ctx context.Context, claim *models.Claim) error
	Update(ctx context.Context, claim *models.Claim) error
	Delete(ctx context.Context, id string) error
}

// CreateClaimRequest is the public claim form payload.
type CreateClaimRequest struct {
	ClaimantName string     `json:"claimant_name" validate:"required,min=2"`
	Email        string     `json:"email" validate:"required,email"`
	Phone        string     `json:"phone" validate:"required,min=7"`
	PolicyNumber string     `json:"policy_number" validate:"required"`
	ProductType  string     `json:"product_type" validate:"required"`
	IncidentDate *time.Time `json:"incident_date"`
	Description  string     `json:"description" validate:"required,min=10"`
	DocumentURL  *string    `json:"document_url" validate:"omitempty,url"`
}

// UpdateClaimRequest is the staff-side partial update.
type UpdateClaimRequest struct {
	ClaimantName *string             `json:"claimant_name" validate:"omitempty,min=2"`
	Phone        *string             `json:"phone" validate:"omitempty,min=7"`
	Description  *string             `json:"description" validate:"omitempty,min=10"`
	Status       *models.ClaimStatus `json:"status" validate:"omitempty,oneof=pending approved rejected"`
}

// ClaimService handles insurance claim submissions and their back-office
// workflow.
type ClaimService struct {
	repo      claimRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewClaimService creates an instance of ClaimService.
func NewClaimService(repo claimRepository, validate *validator.Validate, logger *zap.Logger) *ClaimService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &ClaimService{repo: repo, validator: validate, logger: logger}
}

// Create records a new claim. Every submission creates a fresh record in the
// pending state; repeat submissions are not deduplicated.
func (s *ClaimService) Create(ctx context.Context, req CreateClaimRequest, createdBy *string) (*models.Claim, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid claim payload")
	}

	claim := &models.Claim{
		ClaimantName: sanitize.Clean(req.ClaimantName),
		Email:        sanitize.Clean(req.Email),
		Phone:        sanitize.Clean(req.Phone),
		PolicyNumber: sanitize.Clean(req.PolicyNumber),
		ProductType:  sanitize.Clean(req.ProductType),
		IncidentDate: req.IncidentDate,
		Description:  sanitize.Clean(req.Description),
		DocumentURL:  req.DocumentURL,
		Status:       models.ClaimStatusPending,
		CreatedBy:    createdBy,
	}

	if err := s.repo.Create(ctx, claim); err != nil {
		return nil, storageError(err, "failed to create claim")
	}

	s.logger.Info("claim submitted",
		zap.String("claim_id", claim.ID),
		zap.String("product_type", claim.ProductType))

	return claim, nil
}

// List returns claims matching the filter with pagination metadata.
func (s *ClaimService) List(ctx context.Context, filter models.ClaimFilter) ([]models.Claim, *models.Pagination, error) {
	claims, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, storageError(err, "failed to list claims")
	}

	limit := models.NormalizeLimit(filter.Limit, 10)
	return claims, models.NewPagination(filter.Page, limit, total), nil
}

// Get returns a claim by ID.
func (s *ClaimService) Get(ctx context.Context, id string) (*models.Claim, error) {
	claim, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "claim not found")
		}
		return nil, storageError(err, "failed to load claim")
	}
	return claim, nil
}

// Update applies the present fields to a claim.
func (s *ClaimService) Update(ctx context.Context, id string, req UpdateClaimRequest) (*models.Claim, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid claim update payload")
	}

	claim, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.ClaimantName != nil {
		claim.ClaimantName = sanitize.Clean(*req.ClaimantName)
	}
	if req.Phone != nil {
		claim.Phone = sanitize.Clean(*req.Phone)
	}
	if req.Description != nil {
		claim.Description = sanitize.Clean(*req.Description)
	}
	if req.Status != nil {
		claim.Status = *req.Status
	}

	if err := s.repo.Update(ctx, claim); err != nil {
		return nil, storageError(err, "failed to update claim")
	}
	return claim, nil
}

// Delete permanently removes a claim.
func (s *ClaimService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "claim not found")
		}
		return storageError(err, "failed to delete claim")
	}
	return nil
}
