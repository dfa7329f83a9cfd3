package service

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/bimaplus/bima-api/internal/models"
	appErrors "github.com/bimaplus/bima-api/pkg/errors"
	"github.com/bimaplus/bima-api/pkg/sanitize"
)

type quoteRepository interface {
	List(ctx context.Context, filter models.QuoteFilter) ([]models.Quote, int, error)
	FindByID(ctx context.Context, id string) (*models.Quote, error)
	Create(ctx context.Context, quote *models.Quote) error
	Update(ctx context.Context, quote *models.Quote) error
	Delete(ctx context.Context, id string) error
}

// CreateQuoteRequest is the public quote form payload. The cover amount and
// expiry date arrive as strings from the form and are parsed server side so
// the stored values are typed.
type CreateQuoteRequest struct {
	CustomerName string `json:"customer_name" validate:"required,min=2"`
	Email        string `json:"email" validate:"required,email"`
	Phone        string `json:"phone" validate:"required,min=7"`
	ProductType  string `json:"product_type" validate:"required"`
	Amount       string `json:"amount" validate:"required"`
	ExpiryDate   string `json:"expiry_date"`
	Message      string `json:"message"`
}

// UpdateQuoteRequest is the staff-side partial update.
type UpdateQuoteRequest struct {
	CustomerName *string             `json:"customer_name" validate:"omitempty,min=2"`
	Phone        *string             `json:"phone" validate:"omitempty,min=7"`
	Amount       *string             `json:"amount"`
	ExpiryDate   *time.Time          `json:"expiry_date"`
	Message      *string             `json:"message"`
	Status       *models.QuoteStatus `json:"status" validate:"omitempty,oneof=pending contacted converted expired"`
}

// QuoteService handles quote requests and their follow-up workflow.
type QuoteService struct {
	repo      quoteRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewQuoteService creates an instance of QuoteService.
func NewQuoteService(repo quoteRepository, validate *validator.Validate, logger *zap.Logger) *QuoteService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &QuoteService{repo: repo, validator: validate, logger: logger}
}

func parseAmount(raw string) (float64, error) {
	amount, err := strconv.ParseFloat(raw, 64)
	if err != nil || amount < 0 {
		return 0, appErrors.Clone(appErrors.ErrValidation, "amount must be a non-negative number")
	}
	return amount, nil
}

// parseExpiryDate accepts the date-only form the quote form submits, plus the
// full timestamp form for API callers.
func parseExpiryDate(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if ts, err := time.Parse(layout, raw); err == nil {
			return &ts, nil
		}
	}
	return nil, appErrors.Clone(appErrors.ErrValidation, "expiry_date must be a YYYY-MM-DD date")
}

// Create records a new quote request. Each submission creates a fresh record
// in the pending state, even if an identical quote already exists.
func (s *QuoteService) Create(ctx context.Context, req CreateQuoteRequest) (*models.Quote, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid quote payload")
	}

	amount, err := parseAmount(req.Amount)
	if err != nil {
		return nil, err
	}

	expiryDate, err := parseExpiryDate(req.ExpiryDate)
	if err != nil {
		return nil, err
	}

	quote := &models.Quote{
		CustomerName: sanitize.Clean(req.CustomerName),
		Email:        sanitize.Clean(req.Email),
		Phone:        sanitize.Clean(req.Phone),
		ProductType:  sanitize.Clean(req.ProductType),
		Amount:       amount,
		ExpiryDate:   expiryDate,
		Message:      sanitize.Clean(req.Message),
		Status:       models.QuoteStatusPending,
	}

	if err := s.repo.Create(ctx, quote); err != nil {
		return nil, storageError(err, "failed to create quote")
	}

	s.logger.Info("quote requested",
		zap.String("quote_id", quote.ID),
		zap.String("product_type", quote.ProductType))

	return quote, nil
}

// List returns quotes matching the filter with pagination metadata.
func (s *QuoteService) List(ctx context.Context, filter models.QuoteFilter) ([]models.Quote, *models.Pagination, error) {
	quotes, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, storageError(err, "failed to list quotes")
	}

	limit := models.NormalizeLimit(filter.Limit, 10)
	return quotes, models.NewPagination(filter.Page, limit, total), nil
}

// Get returns a quote by ID.
func (s *QuoteService) Get(ctx context.Context, id string) (*models.Quote, error) {
	quote, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "quote not found")
		}
		return nil, storageError(err, "failed to load quote")
	}
	return quote, nil
}

// Update applies the present fields to a quote.
func (s *QuoteService) Update(ctx context.Context, id string, req UpdateQuoteRequest) (*models.Quote, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid quote update payload")
	}

	quote, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.CustomerName != nil {
		quote.CustomerName = sanitize.Clean(*req.CustomerName)
	}
	if req.Phone != nil {
		quote.Phone = sanitize.Clean(*req.Phone)
	}
	if req.Amount != nil {
		amount, err := parseAmount(*req.Amount)
		if err != nil {
			return nil, err
		}
		quote.Amount = amount
	}
	if req.ExpiryDate != nil {
		quote.ExpiryDate = req.ExpiryDate
	}
	if req.Message != nil {
		quote.Message = sanitize.Clean(*req.Message)
	}
	if req.Status != nil {
		quote.Status = *req.Status
	}

	if err := s.repo.Update(ctx, quote); err != nil {
		return nil, storageError(err, "failed to update quote")
	}
	return quote, nil
}

// Delete permanently removes a quote.
func (s *QuoteService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "quote not found")
		}
		return storageError(err, "failed to delete quote")
	}
	return nil
}
