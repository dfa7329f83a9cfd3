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

// ContactRepository provides database access for contact and callback
// requests. The two tables share the same list mechanics.
type ContactRepository struct {
	db *sqlx.DB
}

// NewContactRepository creates a new instance of ContactRepository.
func NewContactRepository(db *sqlx.DB) *ContactRepository {
	return &ContactRepository{db: db}
}

const contactColumns = `id, name, email, subject, message, status, created_at, updated_at`

// ListContacts returns contact requests with total count, newest first.
func (r *ContactRepository) ListContacts(ctx context.Context, filter models.ContactFilter) ([]models.ContactRequest, int, error) {
	baseQuery := `FROM contact_requests WHERE 1=1`
	var conditions []string
	var args []interface{}

	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)+1))
		args = append(args, filter.Status)
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(LOWER(name) LIKE $%d OR LOWER(email) LIKE $%d)", len(args)+1, len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}

	if len(conditions) > 0 {
		baseQuery += " AND " + strings.Join(conditions, " AND ")
	}

	page := models.NormalizePage(filter.Page)
	limit := models.NormalizeLimit(filter.Limit, 10)
	offset := (page - 1) * limit

	listQuery := fmt.Sprintf("SELECT %s %s ORDER BY created_at DESC LIMIT %d OFFSET %d", contactColumns, baseQuery, limit, offset)

	var contacts []models.ContactRequest
	if err := r.db.SelectContext(ctx, &contacts, listQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("list contact requests: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", baseQuery)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count contact requests: %w", err)
	}

	return contacts, total, nil
}

// FindContactByID returns a contact request by identifier.
func (r *ContactRepository) FindContactByID(ctx context.Context, id string) (*models.ContactRequest, error) {
	query := fmt.Sprintf(`SELECT %s FROM contact_requests WHERE id = $1 LIMIT 1`, contactColumns)
	var contact models.ContactRequest
	if err := r.db.GetContext(ctx, &contact, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find contact request by id: %w", err)
	}
	return &contact, nil
}

// CreateContact inserts a new contact request.
func (r *ContactRepository) CreateContact(ctx context.Context, contact *models.ContactRequest) error {
	if contact.ID == "" {
		contact.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if contact.CreatedAt.IsZero() {
		contact.CreatedAt = now
	}
	contact.UpdatedAt = now

	const query = `INSERT INTO contact_requests (id, name, email, subject, message, status, created_at, updated_at) VALUES (:id, :name, :email, :subject, :message, :status, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, contact); err != nil {
		return fmt.Errorf("create contact request: %w", err)
	}
	return nil
}

// UpdateContact updates mutable fields of a contact request.
func (r *ContactRepository) UpdateContact(ctx context.Context, contact *models.ContactRequest) error {
	contact.UpdatedAt = time.Now().UTC()
	const query = `UPDATE contact_requests SET name = :name, email = :email, subject = :subject, message = :message, status = :status, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, contact); err != nil {
		return fmt.Errorf("update contact request: %w", err)
	}
	return nil
}

// DeleteContact permanently removes a contact request row.
func (r *ContactRepository) DeleteContact(ctx context.Context, id string) error {
	const query = `DELETE FROM contact_requests WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete contact request: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

const callbackColumns = `id, name, phone, preferred_time, status, created_at, updated_at`

// ListCallbacks returns callback requests with total count, newest first.
func (r *ContactRepository) ListCallbacks(ctx context.Context, filter models.ContactFilter) ([]models.CallbackRequest, int, error) {
	baseQuery := `FROM callback_requests WHERE 1=1`
	var conditions []string
	var args []interface{}

	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)+1))
		args = append(args, filter.Status)
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(LOWER(name) LIKE $%d OR phone LIKE $%d)", len(args)+1, len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}

	if len(conditions) > 0 {
		baseQuery += " AND " + strings.Join(conditions, " AND ")
	}

	page := models.NormalizePage(filter.Page)
	limit := models.NormalizeLimit(filter.Limit, 10)
	offset := (page - 1) * limit

	listQuery := fmt.Sprintf("SELECT %s %s ORDER BY created_at DESC LIMIT %d OFFSET %d", callbackColumns, baseQuery, limit, offset)

	var callbacks []models.CallbackRequest
	if err := r.db.SelectContext(ctx, &callbacks, listQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("list callback requests: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", baseQuery)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count callback requests: %w", err)
	}

	return callbacks, total, nil
}

// FindCallbackByID returns a callback request by identifier.
func (r *ContactRepository) FindCallbackByID(ctx context.Context, id string) (*models.CallbackRequest, error) {
	query := fmt.Sprintf(`SELECT %s FROM callback_requests WHERE id = $1 LIMIT 1`, callbackColumns)
	var callback models.CallbackRequest
	if err := r.db.GetContext(ctx, &callback, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find callback request by id: %w", err)
	}
	return &callback, nil
}

// CreateCallback inserts a new callback request.
func (r *ContactRepository) CreateCallback(ctx context.Context, callback *models.CallbackRequest) error {
	if callback.ID == "" {
		callback.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if callback.CreatedAt.IsZero() {
		callback.CreatedAt = now
	}
	callback.UpdatedAt = now

	const query = `INSERT INTO callback_requests (id, name, phone, preferred_time, status, created_at, updated_at) VALUES (:id, :name, :phone, :preferred_time, :status, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, callback); err != nil {
		return fmt.Errorf("create callback request: %w", err)
	}
	return nil
}

// UpdateCallback updates mutable fields of a callback request.
func (r *ContactRepository) UpdateCallback(ctx context.Context, callback *models.CallbackRequest) error {
	callback.UpdatedAt = time.Now().UTC()
	const query = `UPDATE callback_requests SET name = :name, phone = :phone, preferred_time = :preferred_time, status = :status, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, callback); err != nil {
		return fmt.Errorf("update callback request: %w", err)
	}
	return nil
}

// DeleteCallback permanently removes a callback request row.
func (r *ContactRepository) DeleteCallback(ctx context.Context, id string) error {
	const query = `DELETE FROM callback_requests WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete callback request: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
