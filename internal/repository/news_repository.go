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

// NewsRepository provides database access for news posts.
type NewsRepository struct {
	db *sqlx.DB
}

// NewNewsRepository creates a new instance of NewsRepository.
func NewNewsRepository(db *sqlx.DB) *NewsRepository {
	return &NewsRepository{db: db}
}

const newsColumns = `id, title, slug, body, category, locale, published, published_at, author_id, created_at, updated_at`

// List returns news posts based on filters with total count, newest first.
func (r *NewsRepository) List(ctx context.Context, filter models.NewsFilter) ([]models.NewsPost, int, error) {
	baseQuery := `FROM news_posts WHERE 1=1`
	var conditions []string
	var args []interface{}

	if filter.Category != "" {
		conditions = append(conditions, fmt.Sprintf("category = $%d", len(args)+1))
		args = append(args, filter.Category)
	}
	if filter.Locale != "" {
		conditions = append(conditions, fmt.Sprintf("locale = $%d", len(args)+1))
		args = append(args, filter.Locale)
	}
	if filter.Published != nil {
		conditions = append(conditions, fmt.Sprintf("published = $%d", len(args)+1))
		args = append(args, *filter.Published)
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(LOWER(title) LIKE $%d OR LOWER(body) LIKE $%d)", len(args)+1, len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}

	if len(conditions) > 0 {
		baseQuery += " AND " + strings.Join(conditions, " AND ")
	}

	page := models.NormalizePage(filter.Page)
	limit := models.NormalizeLimit(filter.Limit, 10)
	offset := (page - 1) * limit

	listQuery := fmt.Sprintf("SELECT %s %s ORDER BY created_at DESC LIMIT %d OFFSET %d", newsColumns, baseQuery, limit, offset)

	var posts []models.NewsPost
	if err := r.db.SelectContext(ctx, &posts, listQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("list news posts: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", baseQuery)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count news posts: %w", err)
	}

	return posts, total, nil
}

// FindByID returns a news post by identifier.
func (r *NewsRepository) FindByID(ctx context.Context, id string) (*models.NewsPost, error) {
	query := fmt.Sprintf(`SELECT %s FROM news_posts WHERE id = $1 LIMIT 1`, newsColumns)
	var post models.NewsPost
	if err := r.db.GetContext(ctx, &post, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find news post by id: %w", err)
	}
	return &post, nil
}

// FindBySlug returns a news post by slug and locale.
func (r *NewsRepository) FindBySlug(ctx context.Context, slug, locale string) (*models.NewsPost, error) {
	query := fmt.Sprintf(`SELECT %s FROM news_posts WHERE slug = $1 AND locale = $2 LIMIT 1`, newsColumns)
	var post models.NewsPost
	if err := r.db.GetContext(ctx, &post, query, slug, locale); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find news post by slug: %w", err)
	}
	return &post, nil
}

// Create inserts a new post.
func (r *NewsRepository) Create(ctx context.Context, post *models.NewsPost) error {
	if post.ID == "" {
		post.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if post.CreatedAt.IsZero() {
		post.CreatedAt = now
	}
	post.UpdatedAt = now

	const query = `INSERT INTO news_posts (id, title, slug, body, category, locale, published, published_at, author_id, created_at, updated_at) VALUES (:id, :title, :slug, :body, :category, :locale, :published, :published_at, :author_id, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, post); err != nil {
		return fmt.Errorf("create news post: %w", err)
	}
	return nil
}

// Update updates mutable fields of a post.
func (r *NewsRepository) Update(ctx context.Context, post *models.NewsPost) error {
	post.UpdatedAt = time.Now().UTC()
	const query = `UPDATE news_posts SET title = :title, slug = :slug, body = :body, category = :category, locale = :locale, published = :published, published_at = :published_at, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, post); err != nil {
		return fmt.Errorf("update news post: %w", err)
	}
	return nil
}

// Delete permanently removes a post row.
func (r *NewsRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM news_posts WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete news post: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
