package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/bimaplus/bima-api/internal/models"
	appErrors "github.com/bimaplus/bima-api/pkg/errors"
	"github.com/bimaplus/bima-api/pkg/sanitize"
)

type newsRepository interface {
	List(ctx context.Context, filter models.NewsFilter) ([]models.NewsPost, int, error)
	FindByID(ctx context.Context, id string) (*models.NewsPost, error)
	FindBySlug(ctx context.Context, slug, locale string) (*models.NewsPost, error)
	Create(ctx context.Context, post *models.NewsPost) error
	Update(ctx context.Context, post *models.NewsPost) error
	Delete(ctx context.Context, id string) error
}

// CreateNewsRequest is the staff payload for creating a post.
type CreateNewsRequest struct {
	Title     string `json:"title" validate:"required,min=3"`
	Slug      string `json:"slug"`
	Body      string `json:"body" validate:"required"`
	Category  string `json:"category"`
	Locale    string `json:"locale" validate:"required"`
	Published bool   `json:"published"`
}

// UpdateNewsRequest is the staff-side partial update.
type UpdateNewsRequest struct {
	Title     *string `json:"title" validate:"omitempty,min=3"`
	Slug      *string `json:"slug"`
	Body      *string `json:"body"`
	Category  *string `json:"category"`
	Published *bool   `json:"published"`
}

// NewsService handles news posts. Public reads only ever see published posts
// and are cached briefly in Redis; staff reads bypass the cache.
type NewsService struct {
	repo      newsRepository
	cache     *redis.Client
	cacheTTL  time.Duration
	validator *validator.Validate
	logger    *zap.Logger
}

// NewNewsService creates an instance of NewsService. cache may be nil when
// Redis is not configured.
func NewNewsService(repo newsRepository, cache *redis.Client, cacheTTL time.Duration, validate *validator.Validate, logger *zap.Logger) *NewsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	return &NewsService{repo: repo, cache: cache, cacheTTL: cacheTTL, validator: validate, logger: logger}
}

var slugCleanRe = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify derives a URL slug from a title.
func Slugify(title string) string {
	slug := slugCleanRe.ReplaceAllString(strings.ToLower(title), "-")
	return strings.Trim(slug, "-")
}

// Create adds a news post. The slug defaults to a slugified title.
func (s *NewsService) Create(ctx context.Context, req CreateNewsRequest, authorID *string) (*models.NewsPost, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid news payload")
	}

	slug := strings.TrimSpace(req.Slug)
	if slug == "" {
		slug = Slugify(req.Title)
	}

	if existing, err := s.repo.FindBySlug(ctx, slug, req.Locale); err == nil && existing != nil {
		return nil, appErrors.Clone(appErrors.ErrConflict, "a post with this slug already exists for the locale")
	} else if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, storageError(err, "failed to check slug uniqueness")
	}

	post := &models.NewsPost{
		Title:     sanitize.Clean(req.Title),
		Slug:      slug,
		Body:      sanitize.Clean(req.Body),
		Category:  sanitize.Clean(req.Category),
		Locale:    req.Locale,
		Published: req.Published,
		AuthorID:  authorID,
	}
	if req.Published {
		now := time.Now().UTC()
		post.PublishedAt = &now
	}

	if err := s.repo.Create(ctx, post); err != nil {
		return nil, storageError(err, "failed to create news post")
	}

	s.invalidatePublicCache(ctx, post.Locale)
	return post, nil
}

// ListPublished returns only published posts for the public site, cached per
// locale and page.
func (s *NewsService) ListPublished(ctx context.Context, filter models.NewsFilter) ([]models.NewsPost, *models.Pagination, error) {
	published := true
	filter.Published = &published

	type cachedPage struct {
		Posts      []models.NewsPost  `json:"posts"`
		Pagination *models.Pagination `json:"pagination"`
	}

	key := fmt.Sprintf("news:public:%s:%s:%d:%d", filter.Locale, filter.Category, models.NormalizePage(filter.Page), models.NormalizeLimit(filter.Limit, 10))
	if s.cache != nil && filter.Search == "" {
		if raw, err := s.cache.Get(ctx, key).Bytes(); err == nil {
			var page cachedPage
			if json.Unmarshal(raw, &page) == nil {
				return page.Posts, page.Pagination, nil
			}
		}
	}

	posts, pagination, err := s.List(ctx, filter)
	if err != nil {
		return nil, nil, err
	}

	if s.cache != nil && filter.Search == "" {
		if raw, err := json.Marshal(cachedPage{Posts: posts, Pagination: pagination}); err == nil {
			if err := s.cache.Set(ctx, key, raw, s.cacheTTL).Err(); err != nil {
				s.logger.Warn("failed to cache news page", zap.Error(err))
			}
		}
	}

	return posts, pagination, nil
}

// List returns posts matching the filter with pagination metadata.
func (s *NewsService) List(ctx context.Context, filter models.NewsFilter) ([]models.NewsPost, *models.Pagination, error) {
	posts, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, storageError(err, "failed to list news posts")
	}

	limit := models.NormalizeLimit(filter.Limit, 10)
	return posts, models.NewPagination(filter.Page, limit, total), nil
}

// Get returns a post by ID.
func (s *NewsService) Get(ctx context.Context, id string) (*models.NewsPost, error) {
	post, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "news post not found")
		}
		return nil, storageError(err, "failed to load news post")
	}
	return post, nil
}

// GetPublishedBySlug returns a published post for the public site. Unpublished
// posts look like missing ones to unauthenticated readers.
func (s *NewsService) GetPublishedBySlug(ctx context.Context, slug, locale string) (*models.NewsPost, error) {
	post, err := s.repo.FindBySlug(ctx, slug, locale)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "news post not found")
		}
		return nil, storageError(err, "failed to load news post")
	}
	if !post.Published {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "news post not found")
	}
	return post, nil
}

// Update applies the present fields to a post.
func (s *NewsService) Update(ctx context.Context, id string, req UpdateNewsRequest) (*models.NewsPost, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid news update payload")
	}

	post, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		post.Title = sanitize.Clean(*req.Title)
	}
	if req.Slug != nil && strings.TrimSpace(*req.Slug) != "" {
		post.Slug = strings.TrimSpace(*req.Slug)
	}
	if req.Body != nil {
		post.Body = sanitize.Clean(*req.Body)
	}
	if req.Category != nil {
		post.Category = sanitize.Clean(*req.Category)
	}
	if req.Published != nil {
		if *req.Published && !post.Published {
			now := time.Now().UTC()
			post.PublishedAt = &now
		}
		post.Published = *req.Published
	}

	if err := s.repo.Update(ctx, post); err != nil {
		return nil, storageError(err, "failed to update news post")
	}

	s.invalidatePublicCache(ctx, post.Locale)
	return post, nil
}

// Delete permanently removes a post.
func (s *NewsService) Delete(ctx context.Context, id string) error {
	post, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "news post not found")
		}
		return storageError(err, "failed to delete news post")
	}

	s.invalidatePublicCache(ctx, post.Locale)
	return nil
}

func (s *NewsService) invalidatePublicCache(ctx context.Context, locale string) {
	if s.cache == nil {
		return
	}
	pattern := fmt.Sprintf("news:public:%s:*", locale)
	iter := s.cache.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		if err := s.cache.Del(ctx, iter.Val()).Err(); err != nil {
			s.logger.Warn("failed to invalidate news cache key", zap.Error(err))
		}
	}
	if err := iter.Err(); err != nil {
		s.logger.Warn("failed to scan news cache keys", zap.Error(err))
	}
}
