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

// ApplicationRepository provides database access for job applications.
type ApplicationRepository struct {
	db *sqlx.DB
}

// NewApplicationRepository creates a new instance of ApplicationRepository.
func NewApplicationRepository(db *sqlx.DB) *ApplicationRepository {
	return &ApplicationRepository{db: db}
}

const applicationColumns = `id, full_name, email, phone, position, cover_letter, resume_url, status, created_at, updated_at`

// List returns applications based on filters with total count, newest first.
func (r *ApplicationRepository) List(ctx context.Context, filter models.ApplicationFilter) ([]models.JobApplication, int, error) {
	baseQuery := `FROM job_applications WHERE 1=1`
	var conditions []string
	var args []interface{}

	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)+1))
		args = append(args, *filter.Status)
	}
	if filter.Position != "" {
		conditions = append(conditions, fmt.Sprintf("position = $%d", len(args)+1))
		args = append(args, filter.Position)
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(LOWER(full_name) LIKE $%d OR LOWER(email) LIKE $%d)", len(args)+1, len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}

	if len(conditions) > 0 {
		baseQuery += " AND " + strings.Join(conditions, " AND ")
	}

	page := models.NormalizePage(filter.Page)
	limit := models.NormalizeLimit(filter.Limit, 10)
	offset := (page - 1) * limit

	listQuery := fmt.Sprintf("SELECT %s %s ORDER BY created_at DESC LIMIT %d OFFSET %d", applicationColumns, baseQuery, limit, offset)

	var applications []models.JobApplication
	if err := r.db.SelectContext(ctx, &applications, listQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("list job applications: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", baseQuery)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count job applications: %w", err)
	}

	return applications, total, nil
}

// FindByID returns an application by identifier.
func (r *ApplicationRepository) FindByID(ctx context.Context, id string) (*models.JobApplication, error) {
	query := fmt.Sprintf(`SELECT %s FROM job_applications WHERE id = $1 LIMIT 1`, applicationColumns)
	var application models.JobApplication
	if err := r.db.GetContext(ctx, &application, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find job application by id: %w", err)
	}
	return &application, nil
}

// Create inserts a new application.
func (r *ApplicationRepository) Create(ctx context.Context, application *models.JobApplication) error {
	if application.ID == "" {
		application.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if application.CreatedAt.IsZero() {
		application.CreatedAt = now
	}
	application.UpdatedAt = now

	const query = `INSERT INTO job_applications (id, full_name, email, phone, position, cover_letter, resume_url, status, created_at, updated_at) VALUES (:id, :full_name, :email, :phone, :position, :cover_letter, :resume_url, :status, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, application); err != nil {
		return fmt.Errorf("create job application: %w", err)
	}
	return nil
}

// Update updates mutable fields of an application.
func (r *ApplicationRepository) Update(ctx context.Context, application *models.JobApplication) error {
	application.UpdatedAt = time.Now().UTC()
	const query = `UPDATE job_applications SET full_name = :full_name, email = :email, phone = :phone, position = :position, cover_letter = :cover_letter, resume_url = :resume_url, status = :status, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, application); err != nil {
		return fmt.Errorf("update job application: %w", err)
	}
	return nil
}

// Delete permanently removes an application row.
func (r *ApplicationRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM job_applications WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete job application: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
