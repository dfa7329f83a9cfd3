package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bimaplus/bima-api/internal/models"
	appErrors "github.com/bimaplus/bima-api/pkg/errors"
)

type mockNewsRepo struct {
	posts []*models.NewsPost
}

func (m *mockNewsRepo) List(ctx context.Context, filter models.NewsFilter) ([]models.NewsPost, int, error) {
	var out []models.NewsPost
	for _, p := range m.posts {
		if filter.Published != nil && p.Published != *filter.Published {
			continue
		}
		if filter.Locale != "" && p.Locale != filter.Locale {
			continue
		}
		out = append(out, *p)
	}
	return out, len(out), nil
}

func (m *mockNewsRepo) FindByID(ctx context.Context, id string) (*models.NewsPost, error) {
	for _, p := range m.posts {
		if p.ID == id {
			copy := *p
			return &copy, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockNewsRepo) FindBySlug(ctx context.Context, slug, locale string) (*models.NewsPost, error) {
	for _, p := range m.posts {
		if p.Slug == slug && p.Locale == locale {
			copy := *p
			return &copy, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockNewsRepo) Create(ctx context.Context, post *models.NewsPost) error {
	if post.ID == "" {
		post.ID = "post-1"
	}
	copy := *post
	m.posts = append(m.posts, &copy)
	return nil
}

func (m *mockNewsRepo) Update(ctx context.Context, post *models.NewsPost) error {
	for i, p := range m.posts {
		if p.ID == post.ID {
			copy := *post
			m.posts[i] = &copy
			return nil
		}
	}
	return sql.ErrNoRows
}

func (m *mockNewsRepo) Delete(ctx context.Context, id string) error {
	for i, p := range m.posts {
		if p.ID == id {
			m.posts = append(m.posts[:i], m.posts[i+1:]...)
			return nil
		}
	}
	return sql.ErrNoRows
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "habari-za-bima-2026", Slugify("Habari za Bima 2026"))
	assert.Equal(t, "new-health-cover", Slugify("  New Health Cover!  "))
	assert.Equal(t, "a-b-c", Slugify("A/B/C"))
}

func TestNewsCreateDerivesSlugAndPublishedAt(t *testing.T) {
	repo := &mockNewsRepo{}
	svc := NewNewsService(repo, nil, 0, nil, nil)

	post, err := svc.Create(context.Background(), CreateNewsRequest{
		Title:     "New Health Cover",
		Body:      "Details of the new plan.",
		Locale:    "en",
		Published: true,
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, "new-health-cover", post.Slug)
	require.NotNil(t, post.PublishedAt)
}

func TestNewsCreateRejectsDuplicateSlugPerLocale(t *testing.T) {
	repo := &mockNewsRepo{posts: []*models.NewsPost{{ID: "p1", Slug: "launch", Locale: "en"}}}
	svc := NewNewsService(repo, nil, 0, nil, nil)

	_, err := svc.Create(context.Background(), CreateNewsRequest{
		Title:  "Launch",
		Slug:   "launch",
		Body:   "Body",
		Locale: "en",
	}, nil)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)

	// Same slug under another locale is fine.
	_, err = svc.Create(context.Background(), CreateNewsRequest{
		Title:  "Launch",
		Slug:   "launch",
		Body:   "Body",
		Locale: "sw",
	}, nil)
	require.NoError(t, err)
}

func TestNewsPublicReadsHideUnpublished(t *testing.T) {
	repo := &mockNewsRepo{posts: []*models.NewsPost{
		{ID: "p1", Slug: "visible", Locale: "en", Published: true},
		{ID: "p2", Slug: "draft", Locale: "en", Published: false},
	}}
	svc := NewNewsService(repo, nil, 0, nil, nil)

	posts, pagination, err := svc.ListPublished(context.Background(), models.NewsFilter{Locale: "en"})
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "visible", posts[0].Slug)
	assert.Equal(t, 1, pagination.TotalCount)

	_, err = svc.GetPublishedBySlug(context.Background(), "draft", "en")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)

	post, err := svc.GetPublishedBySlug(context.Background(), "visible", "en")
	require.NoError(t, err)
	assert.Equal(t, "p1", post.ID)
}

func TestNewsPublishTransitionSetsTimestamp(t *testing.T) {
	repo := &mockNewsRepo{posts: []*models.NewsPost{{ID: "p1", Slug: "draft", Locale: "en", Published: false}}}
	svc := NewNewsService(repo, nil, 0, nil, nil)

	published := true
	post, err := svc.Update(context.Background(), "p1", UpdateNewsRequest{Published: &published})
	require.NoError(t, err)
	assert.True(t, post.Published)
	require.NotNil(t, post.PublishedAt)
}
