package handler

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bimaplus/bima-api/internal/models"
	"github.com/bimaplus/bima-api/internal/service"
	appErrors "github.com/bimaplus/bima-api/pkg/errors"
	"github.com/bimaplus/bima-api/pkg/response"
)

type fakeClaimRepo struct {
	claims []*models.Claim
}

func (f *fakeClaimRepo) List(ctx context.Context, filter models.ClaimFilter) ([]models.Claim, int, error) {
	var out []models.Claim
	for _, c := range f.claims {
		out = append(out, *c)
	}
	return out, len(out), nil
}

func (f *fakeClaimRepo) FindByID(ctx context.Context, id string) (*models.Claim, error) {
	for _, c := range f.claims {
		if c.ID == id {
			copy := *c
			return &copy, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeClaimRepo) Create(ctx context.Context, claim *models.Claim) error {
	if claim.ID == "" {
		claim.ID = "claim-1"
	}
	copy := *claim
	f.claims = append(f.claims, &copy)
	return nil
}

func (f *fakeClaimRepo) Update(ctx context.Context, claim *models.Claim) error {
	for i, c := range f.claims {
		if c.ID == claim.ID {
			copy := *claim
			f.claims[i] = &copy
			return nil
		}
	}
	return sql.ErrNoRows
}

func (f *fakeClaimRepo) Delete(ctx context.Context, id string) error {
	for i, c := range f.claims {
		if c.ID == id {
			f.claims = append(f.claims[:i], f.claims[i+1:]...)
			return nil
		}
	}
	return sql.ErrNoRows
}

func newClaimRouter(repo *fakeClaimRepo) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := NewClaimHandler(service.NewClaimService(repo, nil, nil), nil)

	router := gin.New()
	router.POST("/claims", handler.Create)
	router.GET("/claims", handler.List)
	router.GET("/claims/:id", handler.Get)
	return router
}

func decodeEnvelope(t *testing.T, recorder *httptest.ResponseRecorder) response.Envelope {
	t.Helper()
	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
	return envelope
}

func TestClaimHandlerCreate(t *testing.T) {
	repo := &fakeClaimRepo{}
	router := newClaimRouter(repo)

	payload := `{
		"claimant_name": "Asha Mwangi",
		"email": "asha@example.com",
		"phone": "+255700000001",
		"policy_number": "BP-2024-001",
		"product_type": "health",
		"description": "Hospitalised after a road accident."
	}`

	recorder := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/claims", bytes.NewBufferString(payload))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusCreated, recorder.Code)
	envelope := decodeEnvelope(t, recorder)
	assert.True(t, envelope.Success)
	require.Len(t, repo.claims, 1)
	assert.Equal(t, models.ClaimStatusPending, repo.claims[0].Status)
	assert.Nil(t, repo.claims[0].CreatedBy)
}

func TestClaimHandlerCreateRejectsInvalidPayload(t *testing.T) {
	router := newClaimRouter(&fakeClaimRepo{})

	recorder := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/claims", bytes.NewBufferString(`{"claimant_name":"A"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	envelope := decodeEnvelope(t, recorder)
	assert.False(t, envelope.Success)
	assert.Equal(t, appErrors.ErrValidation.Code, envelope.Code)
}

func TestClaimHandlerListEnvelope(t *testing.T) {
	repo := &fakeClaimRepo{claims: []*models.Claim{
		{ID: "claim-1", ClaimantName: "Asha", Status: models.ClaimStatusPending},
		{ID: "claim-2", ClaimantName: "Juma", Status: models.ClaimStatusApproved},
	}}
	router := newClaimRouter(repo)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/claims?page=1&limit=10", nil))

	assert.Equal(t, http.StatusOK, recorder.Code)
	envelope := decodeEnvelope(t, recorder)
	assert.True(t, envelope.Success)
	require.NotNil(t, envelope.Pagination)
	assert.Equal(t, 2, envelope.Pagination.TotalCount)
	assert.Equal(t, 1, envelope.Pagination.Page)
}

func TestClaimHandlerGetMissing(t *testing.T) {
	router := newClaimRouter(&fakeClaimRepo{})

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/claims/missing", nil))

	assert.Equal(t, http.StatusNotFound, recorder.Code)
	envelope := decodeEnvelope(t, recorder)
	assert.Equal(t, appErrors.ErrNotFound.Code, envelope.Code)
}
