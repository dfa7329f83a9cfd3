package service

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bimaplus/bima-api/internal/models"
	appErrors "github.com/bimaplus/bima-api/pkg/errors"
)

type mockClaimRepo struct {
	claims []*models.Claim
}

func (m *mockClaimRepo) List(ctx context.Context, filter models.ClaimFilter) ([]models.Claim, int, error) {
	var out []models.Claim
	for _, c := range m.claims {
		out = append(out, *c)
	}
	return out, len(out), nil
}

func (m *mockClaimRepo) FindByID(ctx context.Context, id string) (*models.Claim, error) {
	for _, c := range m.claims {
		if c.ID == id {
			copy := *c
			return &copy, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockClaimRepo) Create(ctx context.Context, claim *models.Claim) error {
	if claim.ID == "" {
		claim.ID = fmt.Sprintf("claim-%d", len(m.claims)+1)
	}
	copy := *claim
	m.claims = append(m.claims, &copy)
	return nil
}

func (m *mockClaimRepo) Update(ctx context.Context, claim *models.Claim) error {
	for i, c := range m.claims {
		if c.ID == claim.ID {
			copy := *claim
			m.claims[i] = &copy
			return nil
		}
	}
	return sql.ErrNoRows
}

func (m *mockClaimRepo) Delete(ctx context.Context, id string) error {
	for i, c := range m.claims {
		if c.ID == id {
			m.claims = append(m.claims[:i], m.claims[i+1:]...)
			return nil
		}
	}
	return sql.ErrNoRows
}

func TestClaimCreateDefaultsToPending(t *testing.T) {
	repo := &mockClaimRepo{}
	svc := NewClaimService(repo, nil, nil)

	staffID := "u1"
	claim, err := svc.Create(context.Background(), CreateClaimRequest{
		ClaimantName: "Asha Mwangi",
		Email:        "asha@example.com",
		Phone:        "+255700000001",
		PolicyNumber: "BP-2024-001",
		ProductType:  "health",
		Description:  "Hospitalised after a road accident.",
	}, &staffID)
	require.NoError(t, err)
	assert.Equal(t, models.ClaimStatusPending, claim.Status)
	require.NotNil(t, claim.CreatedBy)
	assert.Equal(t, "u1", *claim.CreatedBy)
}

func TestClaimCreateSanitizesText(t *testing.T) {
	repo := &mockClaimRepo{}
	svc := NewClaimService(repo, nil, nil)

	claim, err := svc.Create(context.Background(), CreateClaimRequest{
		ClaimantName: "Asha <script>alert(1)</script>",
		Email:        "asha@example.com",
		Phone:        "+255700000001",
		PolicyNumber: "BP-2024-001",
		ProductType:  "health",
		Description:  "Long enough description here.",
	}, nil)
	require.NoError(t, err)
	assert.NotContains(t, claim.ClaimantName, "<script>")
}

func TestClaimUpdateStatus(t *testing.T) {
	repo := &mockClaimRepo{claims: []*models.Claim{{ID: "claim-1", ClaimantName: "Asha", Status: models.ClaimStatusPending}}}
	svc := NewClaimService(repo, nil, nil)

	status := models.ClaimStatusApproved
	updated, err := svc.Update(context.Background(), "claim-1", UpdateClaimRequest{Status: &status})
	require.NoError(t, err)
	assert.Equal(t, models.ClaimStatusApproved, updated.Status)

	bad := models.ClaimStatus("archived")
	_, err = svc.Update(context.Background(), "claim-1", UpdateClaimRequest{Status: &bad})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestClaimDeleteMissing(t *testing.T) {
	svc := NewClaimService(&mockClaimRepo{}, nil, nil)

	err := svc.Delete(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
