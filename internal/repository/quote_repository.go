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

// QuoteRepository provides database access for quote requests.
type QuoteRepository struct {
	db *sqlx.DB
}

// NewQuoteRepository creates a new instance of QuoteRepository.
func NewQuoteRepository(db *sqlx.DB) *QuoteRepository {
	return &QuoteRepository{db: db}
}

const quoteColumns = `id, customer_name, email, phone, product_type, amount, expiry_date, message, status, created_at, updated_at`

// List returns quotes based on filters with total count, newest first.
func (r *QuoteRepository) List(ctx context.Context, filter models.QuoteFilter) ([]models.Quote, int, error) {
	baseQuery := `FROM quotes WHERE 1=1`
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
		conditions = append(conditions, fmt.Sprintf("(LOWER(customer_name) LIKE $%d OR LOWER(email) LIKE $%d)", len(args)+1, len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}

	if len(conditions) > 0 {
		baseQuery += " AND " + strings.Join(conditions, " AND ")
	}

	page := models.NormalizePage(filter.Page)
	limit := models.NormalizeLimit(filter.Limit, 10)
	offset := (page - 1) * limit

	listQuery := fmt.Sprintf("SELECT %s %s ORDER BY created_at DESC LIMIT %d OFFSET %d", quoteColumns, baseQuery, limit, offset)

	var quotes []models.Quote
	if err := r.db.SelectContext(ctx, &quotes, listQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("list quotes: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", baseQuery)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count quotes: %w", err)
	}

	return quotes, total, nil
}

// FindByID returns a quote by identifier.
func (r *QuoteRepository) FindByID(ctx context.Context, id string) (*models.Quote, error) {
	query := fmt.Sprintf(`SELECT %s FROM quotes WHERE id = $1 LIMIT 1`, quoteColumns)
	var quote models.Quote
	if err := r.db.GetContext(ctx, &quote, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find quote by id: %w", err)
	}
	return &quote, nil
}

// Create inserts a new quote.
func (r *QuoteRepository) Create(ctx context.Context, quote *models.Quote) error {
	if quote.ID == "" {
		quote.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if quote.CreatedAt.IsZero() {
		quote.CreatedAt = now
	}
	quote.UpdatedAt = now

	const query = `INSERT INTO quotes (id, customer_name, email, phone, product_type, amount, expiry_date, message, status, created_at, updated_at) VALUES (:id, :customer_name, :email, :phone, :product_type, :amount, :expiry_date, :message, :status, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, quote); err != nil {
		return fmt.Errorf("create quote: %w", err)
	}
	return nil
}

// Update updates mutable fields of a quote.
func (r *QuoteRepository) Update(ctx context.Context, quote *models.Quote) error {
	quote.UpdatedAt = time.Now().UTC()
	const query = `UPDATE quotes SET customer_name = :customer_name, email = :email, phone = :phone, product_type = :product_type, amount = :amount, expiry_date = :expiry_date, message = :message, status = :status, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, quote); err != nil {
		return fmt.Errorf("update quote: %w", err)
	}
	return nil
}

// Delete permanently removes a quote row.
func (r *QuoteRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM quotes WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete quote: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
