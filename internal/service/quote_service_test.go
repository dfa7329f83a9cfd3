package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bimaplus/bima-api/internal/models"
	appErrors "github.com/bimaplus/bima-api/pkg/errors"
)

type mockQuoteRepo struct {
	quotes    []*models.Quote
	createErr error
}

func (m *mockQuoteRepo) List(ctx context.Context, filter models.QuoteFilter) ([]models.Quote, int, error) {
	var out []models.Quote
	for _, q := range m.quotes {
		out = append(out, *q)
	}
	return out, len(out), nil
}

func (m *mockQuoteRepo) FindByID(ctx context.Context, id string) (*models.Quote, error) {
	for _, q := range m.quotes {
		if q.ID == id {
			copy := *q
			return &copy, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockQuoteRepo) Create(ctx context.Context, quote *models.Quote) error {
	if m.createErr != nil {
		return m.createErr
	}
	if quote.ID == "" {
		quote.ID = "q-" + string(rune('0'+len(m.quotes)))
	}
	copy := *quote
	m.quotes = append(m.quotes, &copy)
	return nil
}

func (m *mockQuoteRepo) Update(ctx context.Context, quote *models.Quote) error {
	for i, q := range m.quotes {
		if q.ID == quote.ID {
			copy := *quote
			m.quotes[i] = &copy
			return nil
		}
	}
	return sql.ErrNoRows
}

func (m *mockQuoteRepo) Delete(ctx context.Context, id string) error {
	for i, q := range m.quotes {
		if q.ID == id {
			m.quotes = append(m.quotes[:i], m.quotes[i+1:]...)
			return nil
		}
	}
	return sql.ErrNoRows
}

func TestQuoteCreateDefaultsAndAmountParsing(t *testing.T) {
	repo := &mockQuoteRepo{}
	svc := NewQuoteService(repo, validator.New(), zap.NewNop())

	quote, err := svc.Create(context.Background(), CreateQuoteRequest{
		CustomerName: "Asha Mwangi",
		Email:        "asha@example.com",
		Phone:        "+255700000001",
		ProductType:  "health",
		Amount:       "100",
	})
	require.NoError(t, err)
	assert.Equal(t, models.QuoteStatusPending, quote.Status)
	assert.Equal(t, float64(100), quote.Amount)
	assert.NotEmpty(t, quote.ID)
}

func TestQuoteCreateRejectsBadAmount(t *testing.T) {
	svc := NewQuoteService(&mockQuoteRepo{}, validator.New(), zap.NewNop())

	for _, amount := range []string{"abc", "-5", ""} {
		_, err := svc.Create(context.Background(), CreateQuoteRequest{
			CustomerName: "Asha Mwangi",
			Email:        "asha@example.com",
			Phone:        "+255700000001",
			ProductType:  "health",
			Amount:       amount,
		})
		require.Error(t, err, "amount %q must be rejected", amount)
		assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	}
}

func TestQuoteCreateSanitizesInput(t *testing.T) {
	repo := &mockQuoteRepo{}
	svc := NewQuoteService(repo, validator.New(), zap.NewNop())

	quote, err := svc.Create(context.Background(), CreateQuoteRequest{
		CustomerName: "  Asha <script>alert(1)</script>Mwangi  ",
		Email:        "asha@example.com",
		Phone:        "+255700000001",
		ProductType:  "health",
		Amount:       "250.50",
	})
	require.NoError(t, err)
	assert.NotContains(t, quote.CustomerName, "<script>")
	assert.Equal(t, 250.50, quote.Amount)
}

func TestQuoteRepeatSubmissionsCreateDistinctRecords(t *testing.T) {
	repo := &mockQuoteRepo{}
	svc := NewQuoteService(repo, validator.New(), zap.NewNop())

	req := CreateQuoteRequest{
		CustomerName: "Asha Mwangi",
		Email:        "asha@example.com",
		Phone:        "+255700000001",
		ProductType:  "health",
		Amount:       "100",
	}

	first, err := svc.Create(context.Background(), req)
	require.NoError(t, err)
	second, err := svc.Create(context.Background(), req)
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
	assert.Len(t, repo.quotes, 2)
}

func TestQuoteUpdateStatus(t *testing.T) {
	repo := &mockQuoteRepo{quotes: []*models.Quote{{ID: "q1", CustomerName: "Asha", Status: models.QuoteStatusPending}}}
	svc := NewQuoteService(repo, validator.New(), zap.NewNop())

	status := models.QuoteStatusContacted
	updated, err := svc.Update(context.Background(), "q1", UpdateQuoteRequest{Status: &status})
	require.NoError(t, err)
	assert.Equal(t, models.QuoteStatusContacted, updated.Status)
}

func TestQuoteCreateKeepsExpiryDate(t *testing.T) {
	repo := &mockQuoteRepo{}
	svc := NewQuoteService(repo, validator.New(), zap.NewNop())

	payload := `{
		"customer_name": "Asha Mwangi",
		"email": "asha@example.com",
		"phone": "+255700000001",
		"product_type": "health",
		"amount": "100",
		"expiry_date": "2026-12-31"
	}`
	var req CreateQuoteRequest
	require.NoError(t, json.Unmarshal([]byte(payload), &req))

	quote, err := svc.Create(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, quote.ExpiryDate)
	assert.Equal(t, time.Date(2026, time.December, 31, 0, 0, 0, 0, time.UTC), quote.ExpiryDate.UTC())
}

func TestQuoteCreateRejectsBadExpiryDate(t *testing.T) {
	svc := NewQuoteService(&mockQuoteRepo{}, validator.New(), zap.NewNop())

	_, err := svc.Create(context.Background(), CreateQuoteRequest{
		CustomerName: "Asha Mwangi",
		Email:        "asha@example.com",
		Phone:        "+255700000001",
		ProductType:  "health",
		Amount:       "100",
		ExpiryDate:   "31/12/2026",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestQuoteGetMissing(t *testing.T) {
	svc := NewQuoteService(&mockQuoteRepo{}, validator.New(), zap.NewNop())

	_, err := svc.Get(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
