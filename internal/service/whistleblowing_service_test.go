package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bimaplus/bima-api/internal/models"
	appErrors "github.com/bimaplus/bima-api/pkg/errors"
)

type mockReportRepo struct {
	reports []*models.WhistleblowingReport
}

func (m *mockReportRepo) List(ctx context.Context, filter models.ReportFilter) ([]models.WhistleblowingReport, int, error) {
	var out []models.WhistleblowingReport
	for _, r := range m.reports {
		out = append(out, *r)
	}
	return out, len(out), nil
}

func (m *mockReportRepo) FindByID(ctx context.Context, id string) (*models.WhistleblowingReport, error) {
	for _, r := range m.reports {
		if r.ID == id {
			copy := *r
			return &copy, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockReportRepo) Create(ctx context.Context, report *models.WhistleblowingReport) error {
	if report.ID == "" {
		report.ID = "r1"
	}
	copy := *report
	m.reports = append(m.reports, &copy)
	return nil
}

func (m *mockReportRepo) Update(ctx context.Context, report *models.WhistleblowingReport) error {
	for i, r := range m.reports {
		if r.ID == report.ID {
			copy := *report
			m.reports[i] = &copy
			return nil
		}
	}
	return sql.ErrNoRows
}

func (m *mockReportRepo) Delete(ctx context.Context, id string) error {
	for i, r := range m.reports {
		if r.ID == id {
			m.reports = append(m.reports[:i], m.reports[i+1:]...)
			return nil
		}
	}
	return sql.ErrNoRows
}

func TestWhistleblowingCreateDefaults(t *testing.T) {
	repo := &mockReportRepo{}
	svc := NewWhistleblowingService(repo, validator.New(), zap.NewNop())

	name := "Juma K"
	email := "juma@example.com"
	report, err := svc.Create(context.Background(), CreateReportRequest{
		Category:      "fraud",
		Description:   "Premiums collected but never remitted to head office.",
		ReporterName:  &name,
		ReporterEmail: &email,
	})
	require.NoError(t, err)
	assert.Equal(t, models.ReportStatusNew, report.Status)
	assert.Equal(t, models.ReportPriorityMedium, report.Priority)
	require.NotNil(t, report.ReporterName)
	assert.Equal(t, "Juma K", *report.ReporterName)
}

func TestWhistleblowingAnonymousDropsReporterFields(t *testing.T) {
	repo := &mockReportRepo{}
	svc := NewWhistleblowingService(repo, validator.New(), zap.NewNop())

	name := "Should Not Persist"
	email := "leak@example.com"
	report, err := svc.Create(context.Background(), CreateReportRequest{
		Category:      "harassment",
		Description:   "Detailed description of the misconduct observed.",
		Anonymous:     true,
		ReporterName:  &name,
		ReporterEmail: &email,
	})
	require.NoError(t, err)
	assert.True(t, report.Anonymous)
	assert.Nil(t, report.ReporterName)
	assert.Nil(t, report.ReporterEmail)
}

func TestWhistleblowingInvalidReporterEmail(t *testing.T) {
	svc := NewWhistleblowingService(&mockReportRepo{}, validator.New(), zap.NewNop())

	bad := "not-an-email"
	_, err := svc.Create(context.Background(), CreateReportRequest{
		Category:      "fraud",
		Description:   "Detailed description of the misconduct observed.",
		ReporterEmail: &bad,
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestWhistleblowingTriageUpdate(t *testing.T) {
	repo := &mockReportRepo{reports: []*models.WhistleblowingReport{{
		ID:       "r1",
		Category: "fraud",
		Status:   models.ReportStatusNew,
		Priority: models.ReportPriorityMedium,
	}}}
	svc := NewWhistleblowingService(repo, validator.New(), zap.NewNop())

	status := models.ReportStatusInvestigating
	priority := models.ReportPriorityHigh
	updated, err := svc.Update(context.Background(), "r1", UpdateReportRequest{Status: &status, Priority: &priority})
	require.NoError(t, err)
	assert.Equal(t, models.ReportStatusInvestigating, updated.Status)
	assert.Equal(t, models.ReportPriorityHigh, updated.Priority)
}
