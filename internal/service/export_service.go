package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/bimaplus/bima-api/internal/models"
	appErrors "github.com/bimaplus/bima-api/pkg/errors"
	"github.com/bimaplus/bima-api/pkg/export"
)

// ExportFormat selects the rendered output type.
type ExportFormat string

const (
	ExportFormatCSV ExportFormat = "csv"
	ExportFormatPDF ExportFormat = "pdf"
)

// ExportResult carries the rendered bytes plus response metadata.
type ExportResult struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ExportService renders claim and quote registers as CSV or PDF downloads for
// the dashboard. Exports pull up to one page of maximum size per request.
type ExportService struct {
	claims *ClaimService
	quotes *QuoteService
	csv    *export.CSVExporter
	pdf    *export.PDFExporter
	logger *zap.Logger
}

// NewExportService creates an instance of ExportService.
func NewExportService(claims *ClaimService, quotes *QuoteService, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		claims: claims,
		quotes: quotes,
		csv:    export.NewCSVExporter(),
		pdf:    export.NewPDFExporter(),
		logger: logger,
	}
}

// ExportClaims renders the claims register.
func (s *ExportService) ExportClaims(ctx context.Context, filter models.ClaimFilter, format ExportFormat) (*ExportResult, error) {
	filter.Page = 1
	filter.Limit = models.MaxPageLimit

	claims, _, err := s.claims.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	dataset := export.Dataset{
		Headers: []string{"ID", "Claimant", "Email", "Phone", "Policy", "Product", "Status", "Submitted"},
	}
	for _, claim := range claims {
		dataset.Rows = append(dataset.Rows, []string{
			claim.ID,
			claim.ClaimantName,
			claim.Email,
			claim.Phone,
			claim.PolicyNumber,
			claim.ProductType,
			string(claim.Status),
			claim.CreatedAt.Format(time.RFC3339),
		})
	}

	return s.render(dataset, "claims", format)
}

// ExportQuotes renders the quotes register.
func (s *ExportService) ExportQuotes(ctx context.Context, filter models.QuoteFilter, format ExportFormat) (*ExportResult, error) {
	filter.Page = 1
	filter.Limit = models.MaxPageLimit

	quotes, _, err := s.quotes.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	dataset := export.Dataset{
		Headers: []string{"ID", "Customer", "Email", "Phone", "Product", "Amount", "Status", "Requested"},
	}
	for _, quote := range quotes {
		dataset.Rows = append(dataset.Rows, []string{
			quote.ID,
			quote.CustomerName,
			quote.Email,
			quote.Phone,
			quote.ProductType,
			strconv.FormatFloat(quote.Amount, 'f', 2, 64),
			string(quote.Status),
			quote.CreatedAt.Format(time.RFC3339),
		})
	}

	return s.render(dataset, "quotes", format)
}

func (s *ExportService) render(dataset export.Dataset, name string, format ExportFormat) (*ExportResult, error) {
	stamp := time.Now().UTC().Format("20060102-150405")

	switch format {
	case ExportFormatCSV:
		data, err := s.csv.Render(dataset)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv export")
		}
		return &ExportResult{
			Filename:    fmt.Sprintf("%s-%s.csv", name, stamp),
			ContentType: "text/csv",
			Data:        data,
		}, nil
	case ExportFormatPDF:
		data, err := s.pdf.Render(dataset, name)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf export")
		}
		return &ExportResult{
			Filename:    fmt.Sprintf("%s-%s.pdf", name, stamp),
			ContentType: "application/pdf",
			Data:        data,
		}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}
}
