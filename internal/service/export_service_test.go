package service

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bimaplus/bima-api/internal/models"
	appErrors "github.com/bimaplus/bima-api/pkg/errors"
)

func exportFixture() *ExportService {
	claimRepo := &mockClaimRepo{claims: []*models.Claim{{
		ID:           "claim-1",
		ClaimantName: "Asha Mwangi",
		Email:        "asha@example.com",
		Phone:        "+255700000001",
		PolicyNumber: "BP-2024-001",
		ProductType:  "health",
		Status:       models.ClaimStatusPending,
		CreatedAt:    time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
	}}}
	quoteRepo := &mockQuoteRepo{quotes: []*models.Quote{{
		ID:           "quote-1",
		CustomerName: "Juma K",
		Email:        "juma@example.com",
		Phone:        "+255700000002",
		ProductType:  "life",
		Amount:       1500,
		Status:       models.QuoteStatusPending,
		CreatedAt:    time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
	}}}

	claims := NewClaimService(claimRepo, nil, nil)
	quotes := NewQuoteService(quoteRepo, nil, nil)
	return NewExportService(claims, quotes, nil)
}

func TestExportClaimsCSV(t *testing.T) {
	svc := exportFixture()

	result, err := svc.ExportClaims(context.Background(), models.ClaimFilter{}, ExportFormatCSV)
	require.NoError(t, err)
	assert.Equal(t, "text/csv", result.ContentType)
	assert.True(t, strings.HasPrefix(result.Filename, "claims-"))
	assert.True(t, strings.HasSuffix(result.Filename, ".csv"))

	body := string(result.Data)
	assert.Contains(t, body, "Claimant")
	assert.Contains(t, body, "Asha Mwangi")
	assert.Contains(t, body, "BP-2024-001")
}

func TestExportQuotesPDF(t *testing.T) {
	svc := exportFixture()

	result, err := svc.ExportQuotes(context.Background(), models.QuoteFilter{}, ExportFormatPDF)
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", result.ContentType)
	assert.True(t, strings.HasSuffix(result.Filename, ".pdf"))
	assert.True(t, bytes.HasPrefix(result.Data, []byte("%PDF")))
}

func TestExportRejectsUnknownFormat(t *testing.T) {
	svc := exportFixture()

	_, err := svc.ExportClaims(context.Background(), models.ClaimFilter{}, ExportFormat("xlsx"))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}
