package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/bimaplus/bima-api/internal/models"
)

// ReportRepository provides database access for whistleblowing reports.
type ReportRepository struct {
	db *sqlx.DB
}

// NewReportRepository creates a new instance of ReportRepository.
func NewReportRepository(db *sqlx.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

const reportColumns = `id, category, description, anonymous, reporter_name, reporter_email, status, priority, created_at, updated_at`

// List returns reports based on filters with total count, newest first.
func (r *ReportRepository) List(ctx context.Context, filter models.ReportFilter) ([]models.WhistleblowingReport, int, error) {
	baseQuery := `FROM whistleblowing_reports WHERE 1=1`
	var conditions []string
	var args []interface{}

	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)+1))
		args = append(args, *filter.Status)
	}
	if filter.Priority != nil {
		conditions = append(conditions, fmt.Sprintf("priority = $%d", len(args)+1))
		args = append(args, *filter.Priority)
	}
	if filter.Category != "" {
		conditions = append(conditions, fmt.Sprintf("category = $%d", len(args)+1))
		args = append(args, filter.Category)
	}

	if len(conditions) > 0 {
		baseQuery += " AND " + strings.Join(conditions, " AND ")
	}

	page := models.NormalizePage(filter.Page)
	limit := models.NormalizeLimit(filter.Limit, 10)
	offset := (page - 1) * limit

	listQuery := fmt.Sprintf("SELECT %s %s ORDER BY created_at DESC LIMIT %d OFFSET %d", reportColumns, baseQuery, limit, offset)

	var reports []models.WhistleblowingReport
	if err := r.db.SelectContext(ctx, &reports, listQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("list whistleblowing reports: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", baseQuery)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count whistleblowing reports: %w", err)
	}

	return reports, total, nil
}

// FindByID returns a report by identifier.
func (r *ReportRepository) FindByID(ctx context.Context, id string) (*models.WhistleblowingReport, error) {
	query := fmt.Sprintf(`SELECT %s FROM whistleblowing_reports WHERE id = $1 LIMIT 1`, reportColumns)
	var report models.WhistleblowingReport
	if err := r.db.GetContext(ctx, &report, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find whistleblowing report by id: %w", err)
	}
	return &report, nil
}

// Create inserts a new report.
func (r *ReportRepository) Create(ctx context.Context, report *models.WhistleblowingReport) error {
	if report.ID == "" {
		report.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if report.CreatedAt.IsZero() {
		report.CreatedAt = now
	}
	report.UpdatedAt = now

	const query = `INSERT INTO whistleblowing_reports (id, category, description, anonymous, reporter_name, reporter_email, status, priority, created_at, updated_at) VALUES (:id, :category, :description, :anonymous, :reporter_name, :reporter_email, :status, :priority, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, report); err != nil {
		return fmt.Errorf("create whistleblowing report: %w", err)
	}
	return nil
}

// Update updates mutable fields of a report.
func (r *ReportRepository) Update(ctx context.Context, report *models.WhistleblowingReport) error {
	report.UpdatedAt = time.Now().UTC()
	const query = `UPDATE whistleblowing_reports SET category = :category, description = :description, status = :status, priority = :priority, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, report); err != nil {
		return fmt.Errorf("update whistleblowing report: %w", err)
	}
	return nil
}

// Delete permanently removes a report row.
func (r *ReportRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM whistleblowing_reports WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete whistleblowing report: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
