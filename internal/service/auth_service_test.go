package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/bimaplus/bima-api/internal/models"
	appErrors "github.com/bimaplus/bima-api/pkg/errors"
)

type mockAuthRepo struct {
	users         map[string]*models.User
	refreshTokens map[string]*models.RefreshToken
	auditLogs     []*models.AuditLog
	linkedOAuth   map[string]string
}

func newMockAuthRepo(users ...*models.User) *mockAuthRepo {
	repo := &mockAuthRepo{
		users:         make(map[string]*models.User),
		refreshTokens: make(map[string]*models.RefreshToken),
		linkedOAuth:   make(map[string]string),
	}
	for _, u := range users {
		repo.users[u.ID] = u
	}
	return repo
}

func (m *mockAuthRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			copy := *u
			return &copy, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockAuthRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	if user, ok := m.users[id]; ok {
		copy := *user
		return &copy, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockAuthRepo) FindByOAuth(ctx context.Context, provider, subject string) (*models.User, error) {
	for _, u := range m.users {
		if u.OAuthProvider != nil && *u.OAuthProvider == provider && u.OAuthSubject != nil && *u.OAuthSubject == subject {
			copy := *u
			return &copy, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockAuthRepo) LinkOAuth(ctx context.Context, id, provider, subject string) error {
	if user, ok := m.users[id]; ok {
		user.OAuthProvider = &provider
		user.OAuthSubject = &subject
		m.linkedOAuth[id] = provider
		return nil
	}
	return sql.ErrNoRows
}

func (m *mockAuthRepo) UpdateLastLogin(ctx context.Context, id string, ts time.Time) error {
	if user, ok := m.users[id]; ok {
		user.LastLogin = &ts
		return nil
	}
	return sql.ErrNoRows
}

func (m *mockAuthRepo) UpdatePassword(ctx context.Context, id, passwordHash string, updatedAt time.Time) error {
	if user, ok := m.users[id]; ok {
		user.PasswordHash = passwordHash
		return nil
	}
	return sql.ErrNoRows
}

func (m *mockAuthRepo) RevokeUserRefreshTokens(ctx context.Context, userID string) error {
	for _, token := range m.refreshTokens {
		if token.UserID == userID {
			token.Revoked = true
		}
	}
	return nil
}

func (m *mockAuthRepo) CreateRefreshToken(ctx context.Context, token *models.RefreshToken) error {
	copy := *token
	m.refreshTokens[token.Token] = &copy
	return nil
}

func (m *mockAuthRepo) FindRefreshToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	if stored, ok := m.refreshTokens[token]; ok {
		copy := *stored
		return &copy, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockAuthRepo) RevokeRefreshToken(ctx context.Context, id string, revokedAt time.Time) error {
	for _, token := range m.refreshTokens {
		if token.ID == id {
			token.Revoked = true
			token.RevokedAt = &revokedAt
			return nil
		}
	}
	return sql.ErrNoRows
}

func (m *mockAuthRepo) CreateAuditLog(ctx context.Context, log *models.AuditLog) error {
	m.auditLogs = append(m.auditLogs, log)
	return nil
}

func testAuthConfig() AuthConfig {
	return AuthConfig{
		AccessTokenSecret:  "test-secret",
		AccessTokenExpiry:  time.Hour,
		RefreshTokenExpiry: 24 * time.Hour,
		Issuer:             "bima-api-test",
	}
}

func hashPassword(t *testing.T, raw string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(raw), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func activeStaff(t *testing.T) *models.User {
	return &models.User{
		ID:           "u1",
		Email:        "staff@example.com",
		PasswordHash: hashPassword(t, "correct-horse"),
		FullName:     "Staff Member",
		Role:         models.RoleUser,
		Active:       true,
	}
}

func TestLoginSucceeds(t *testing.T) {
	repo := newMockAuthRepo(activeStaff(t))
	svc := NewAuthService(repo, validator.New(), zap.NewNop(), testAuthConfig())

	result, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "staff@example.com",
		Password: "correct-horse",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, result.AccessToken)
	assert.NotEmpty(t, result.RefreshToken)
	assert.Equal(t, "u1", result.User.ID)

	claims, err := svc.ValidateToken(result.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, claims.Role)
	assert.True(t, claims.Active)
}

func TestLoginUnknownEmailAndWrongPasswordAreIndistinguishable(t *testing.T) {
	repo := newMockAuthRepo(activeStaff(t))
	svc := NewAuthService(repo, validator.New(), zap.NewNop(), testAuthConfig())

	_, unknownErr := svc.Login(context.Background(), models.LoginRequest{
		Email:    "nobody@example.com",
		Password: "whatever",
	})
	require.Error(t, unknownErr)

	_, wrongErr := svc.Login(context.Background(), models.LoginRequest{
		Email:    "staff@example.com",
		Password: "wrong-password",
	})
	require.Error(t, wrongErr)

	unknown := appErrors.FromError(unknownErr)
	wrong := appErrors.FromError(wrongErr)
	assert.Equal(t, unknown.Code, wrong.Code)
	assert.Equal(t, unknown.Message, wrong.Message)
	assert.Equal(t, unknown.Status, wrong.Status)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, unknown.Code)
}

func TestLoginDeactivatedAccountReportedDistinctly(t *testing.T) {
	user := activeStaff(t)
	user.Active = false
	repo := newMockAuthRepo(user)
	svc := NewAuthService(repo, validator.New(), zap.NewNop(), testAuthConfig())

	_, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "staff@example.com",
		Password: "correct-horse",
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrAccountDisabled.Code, appErr.Code)
	assert.Equal(t, 403, appErr.Status)
}

func TestLoginOAuthOnlyAccountFailsLikeWrongPassword(t *testing.T) {
	provider := "google"
	subject := "goog-123"
	repo := newMockAuthRepo(&models.User{
		ID:            "u2",
		Email:         "oauth@example.com",
		Role:          models.RoleUser,
		Active:        true,
		OAuthProvider: &provider,
		OAuthSubject:  &subject,
	})
	svc := NewAuthService(repo, validator.New(), zap.NewNop(), testAuthConfig())

	_, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "oauth@example.com",
		Password: "anything",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)
}

func TestOAuthSignInLinksPasswordlessAccount(t *testing.T) {
	repo := newMockAuthRepo(&models.User{
		ID:     "u3",
		Email:  "provisioned@example.com",
		Role:   models.RoleUser,
		Active: true,
	})
	svc := NewAuthService(repo, validator.New(), zap.NewNop(), testAuthConfig())

	result, err := svc.OAuthSignIn(context.Background(), models.OAuthSignInRequest{
		Provider: "google",
		Subject:  "goog-456",
		Email:    "provisioned@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "u3", result.User.ID)
	assert.Equal(t, "google", repo.linkedOAuth["u3"])
}

func TestOAuthSignInRefusesUnlinkedIdentity(t *testing.T) {
	repo := newMockAuthRepo(activeStaff(t))
	svc := NewAuthService(repo, validator.New(), zap.NewNop(), testAuthConfig())

	// Same email already has a password account, so auto-linking is refused.
	_, err := svc.OAuthSignIn(context.Background(), models.OAuthSignInRequest{
		Provider: "google",
		Subject:  "goog-789",
		Email:    "staff@example.com",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrOAuthNotLinked.Code, appErrors.FromError(err).Code)

	_, err = svc.OAuthSignIn(context.Background(), models.OAuthSignInRequest{
		Provider: "google",
		Subject:  "goog-789",
		Email:    "stranger@example.com",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrOAuthNotLinked.Code, appErrors.FromError(err).Code)
}

func TestOAuthSignInDeactivatedAccount(t *testing.T) {
	provider := "google"
	subject := "goog-999"
	repo := newMockAuthRepo(&models.User{
		ID:            "u4",
		Email:         "gone@example.com",
		Role:          models.RoleUser,
		Active:        false,
		OAuthProvider: &provider,
		OAuthSubject:  &subject,
	})
	svc := NewAuthService(repo, validator.New(), zap.NewNop(), testAuthConfig())

	_, err := svc.OAuthSignIn(context.Background(), models.OAuthSignInRequest{
		Provider: "google",
		Subject:  "goog-999",
		Email:    "gone@example.com",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrAccountDisabled.Code, appErrors.FromError(err).Code)
}

func TestRefreshTokenRotates(t *testing.T) {
	repo := newMockAuthRepo(activeStaff(t))
	svc := NewAuthService(repo, validator.New(), zap.NewNop(), testAuthConfig())

	login, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "staff@example.com",
		Password: "correct-horse",
	})
	require.NoError(t, err)

	refreshed, err := svc.RefreshToken(context.Background(), models.RefreshTokenRequest{RefreshToken: login.RefreshToken})
	require.NoError(t, err)
	assert.NotEqual(t, login.RefreshToken, refreshed.RefreshToken)

	// The old token was revoked by the rotation.
	_, err = svc.RefreshToken(context.Background(), models.RefreshTokenRequest{RefreshToken: login.RefreshToken})
	require.Error(t, err)
}

func TestRefreshTokenRejectsDeactivatedUser(t *testing.T) {
	repo := newMockAuthRepo(activeStaff(t))
	svc := NewAuthService(repo, validator.New(), zap.NewNop(), testAuthConfig())

	login, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "staff@example.com",
		Password: "correct-horse",
	})
	require.NoError(t, err)

	// Deactivation lands between issue and refresh.
	repo.users["u1"].Active = false

	_, err = svc.RefreshToken(context.Background(), models.RefreshTokenRequest{RefreshToken: login.RefreshToken})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrAccountDisabled.Code, appErrors.FromError(err).Code)
}

func TestChangePasswordRevokesSessions(t *testing.T) {
	repo := newMockAuthRepo(activeStaff(t))
	svc := NewAuthService(repo, validator.New(), zap.NewNop(), testAuthConfig())

	login, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "staff@example.com",
		Password: "correct-horse",
	})
	require.NoError(t, err)

	err = svc.ChangePassword(context.Background(), "u1", models.ChangePasswordRequest{
		OldPassword: "correct-horse",
		NewPassword: "battery-staple",
	})
	require.NoError(t, err)

	_, err = svc.RefreshToken(context.Background(), models.RefreshTokenRequest{RefreshToken: login.RefreshToken})
	require.Error(t, err, "existing refresh tokens must stop working after a password change")

	_, err = svc.Login(context.Background(), models.LoginRequest{
		Email:    "staff@example.com",
		Password: "battery-staple",
	})
	require.NoError(t, err)
}

func TestLoginNormalizesEmailCase(t *testing.T) {
	repo := newMockAuthRepo(activeStaff(t))
	svc := NewAuthService(repo, validator.New(), zap.NewNop(), testAuthConfig())

	result, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "Staff@Example.COM",
		Password: "correct-horse",
	})
	require.NoError(t, err)
	assert.Equal(t, "u1", result.User.ID)
}

func TestLoginFailsWithoutSigningSecret(t *testing.T) {
	cfg := testAuthConfig()
	cfg.AccessTokenSecret = ""
	svc := NewAuthService(newMockAuthRepo(activeStaff(t)), validator.New(), zap.NewNop(), cfg)

	_, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "staff@example.com",
		Password: "correct-horse",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConfiguration.Code, appErrors.FromError(err).Code)
}
