package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/bimaplus/bima-api/internal/models"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func claimRows(claims ...models.Claim) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{"id", "claimant_name", "email", "phone", "policy_number", "product_type", "incident_date", "description", "document_url", "status", "created_by", "created_at", "updated_at"})
	for _, c := range claims {
		rows.AddRow(c.ID, c.ClaimantName, c.Email, c.Phone, c.PolicyNumber, c.ProductType, c.IncidentDate, c.Description, c.DocumentURL, c.Status, c.CreatedBy, c.CreatedAt, c.UpdatedAt)
	}
	return rows
}

func TestClaimRepositoryCreateAndGet(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewClaimRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO claims")).
		WillReturnResult(sqlmock.NewResult(1, 1))

	claim := &models.Claim{
		ClaimantName: "Asha Mwangi",
		Email:        "asha@example.com",
		Phone:        "+255700000001",
		PolicyNumber: "BP-2024-001",
		ProductType:  "health",
		Description:  "Hospitalised after a road accident.",
		Status:       models.ClaimStatusPending,
	}
	require.NoError(t, repo.Create(context.Background(), claim))
	require.NotEmpty(t, claim.ID)
	require.False(t, claim.CreatedAt.IsZero())

	claim.CreatedAt = time.Now().UTC()
	claim.UpdatedAt = claim.CreatedAt
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, claimant_name, email, phone")).
		WithArgs(claim.ID).
		WillReturnRows(claimRows(*claim))

	found, err := repo.FindByID(context.Background(), claim.ID)
	require.NoError(t, err)
	require.Equal(t, claim.ID, found.ID)
	require.Equal(t, models.ClaimStatusPending, found.Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestClaimRepositoryListFilters(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewClaimRepository(db)
	status := models.ClaimStatusPending
	now := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, claimant_name, email, phone")).
		WithArgs(status, "health", "%asha%").
		WillReturnRows(claimRows(models.Claim{
			ID:           "claim-1",
			ClaimantName: "Asha Mwangi",
			Email:        "asha@example.com",
			ProductType:  "health",
			Status:       status,
			CreatedAt:    now,
			UpdatedAt:    now,
		}))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM claims")).
		WithArgs(status, "health", "%asha%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	claims, total, err := repo.List(context.Background(), models.ClaimFilter{
		Status:      &status,
		ProductType: "health",
		Search:      "Asha",
	})
	require.NoError(t, err)
	require.Len(t, claims, 1)
	require.Equal(t, 1, total)
	require.Equal(t, "claim-1", claims[0].ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestClaimRepositoryFindMissing(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewClaimRepository(db)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, claimant_name, email, phone")).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByID(context.Background(), "missing")
	require.ErrorIs(t, err, sql.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestClaimRepositoryDeleteMissing(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewClaimRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM claims")).
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), "missing")
	require.ErrorIs(t, err, sql.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}
