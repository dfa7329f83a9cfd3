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

// ClaimRepository provides database access for the claims register.
type ClaimRepository struct {
	db *sqlx.DB
}

// NewClaimRepository creates a new instance of ClaimRepository.
func NewClaimRepository(db *sqlx.DB) *ClaimRepository {
	return &ClaimRepository{db: db}
}

const claimColumns = `id, claimant_name, email, phone, policy_number, product_type, incident_date, description, document_url, status, created_by, created_at, updated_at`

// List returns claims based on filters with total count, newest first.
func (r *ClaimRepository) List(ctx context.Context, filter models.ClaimFilter) ([]models.Claim, int, error) {
	baseQuery := `FROM claims WHERE 1=1`
	var conditions []string
	var args []interface{}

	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)+1))
		args = append(args, *filter.Status)
	}
	if filter.ProductType != "" {
		conditions = append(conditions, fmt.Sprintf("product_type = $%d", len(args)+1))
		args = append(args, filter.ProductType)
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(LOWER(claimant_name) LIKE $%d OR LOWER(email) LIKE $%d OR LOWER(policy_number) LIKE $%d)", len(args)+1, len(args)+1, len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}

	if len(conditions) > 0 {
		baseQuery += " AND " + strings.Join(conditions, " AND ")
	}

	page := models.NormalizePage(filter.Page)
	limit := models.NormalizeLimit(filter.Limit, 10)
	offset := (page - 1) * limit

	listQuery := fmt.Sprintf("SELECT %s %s ORDER BY created_at DESC LIMIT %d OFFSET %d", claimColumns, baseQuery, limit, offset)

	var claims []models.Claim
	if err := r.db.SelectContext(ctx, &claims, listQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("list claims: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", baseQuery)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count claims: %w", err)
	}

	return claims, total, nil
}

// FindByID returns a claim by identifier.
func (r *ClaimRepository) FindByID(ctx context.Context, id string) (*models.Claim, error) {
	query := fmt.Sprintf(`SELECT %s FROM claims WHERE id = $1 LIMIT 1`, claimColumns)
	var claim models.Claim
	if err := r.db.GetContext(ctx, &claim, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find claim by id: %w", err)
	}
	return &claim, nil
}

// Create inserts a new claim.
func (r *ClaimRepository) Create(ctx context.Context, claim *models.Claim) error {
	if claim.ID == "" {
		claim.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if claim.CreatedAt.IsZero() {
		claim.CreatedAt = now
	}
	claim.UpdatedAt = now

	const query = `INSERT INTO claims (id, claimant_name, email, phone, policy_number, product_type, incident_date, description, document_url, status, created_by, created_at, updated_at) VALUES (:id, :claimant_name, :email, :phone, :policy_number, :product_type, :incident_date, :description, :document_url, :status, :created_by, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, claim); err != nil {
		return fmt.Errorf("create claim: %w", err)
	}
	return nil
}

// Update updates mutable fields of a claim.
func (r *ClaimRepository) Update(ctx context.Context, claim *models.Claim) error {
	claim.UpdatedAt = time.Now().UTC()
	const query = `UPDATE claims SET claimant_name = :claimant_name, email = :email, phone = :phone, policy_number = :policy_number, product_type = :product_type, incident_date = :incident_date, description = :description, document_url = :document_url, status = :status, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, claim); err != nil {
		return fmt.Errorf("update claim: %w", err)
	}
	return nil
}

// Delete permanently removes a claim row.
func (r *ClaimRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM claims WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete claim: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
