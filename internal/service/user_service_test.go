package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bimaplus/bima-api/internal/models"
	appErrors "github.com/bimaplus/bima-api/pkg/errors"
)

type mockUserRepo struct {
	users       map[string]*models.User
	listUsers   []models.User
	listCount   int
	listErr     error
	findByIDErr error
	revokedFor  []string
	auditLogs   []*models.AuditLog
}

func (m *mockUserRepo) List(ctx context.Context, filter models.UserFilter) ([]models.User, int, error) {
	if m.listErr != nil {
		return nil, 0, m.listErr
	}
	if m.listUsers != nil {
		return m.listUsers, m.listCount, nil
	}
	var users []models.User
	for _, u := range m.users {
		users = append(users, *u)
	}
	return users, len(users), nil
}

func (m *mockUserRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	if m.findByIDErr != nil {
		return nil, m.findByIDErr
	}
	if user, ok := m.users[id]; ok {
		copy := *user
		return &copy, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			copy := *u
			return &copy, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockUserRepo) Create(ctx context.Context, user *models.User) error {
	if m.users == nil {
		m.users = make(map[string]*models.User)
	}
	copy := *user
	m.users[user.ID] = &copy
	return nil
}

func (m *mockUserRepo) Update(ctx context.Context, user *models.User) error {
	if m.users == nil {
		m.users = make(map[string]*models.User)
	}
	copy := *user
	m.users[user.ID] = &copy
	return nil
}

func (m *mockUserRepo) Delete(ctx context.Context, id string) error {
	if _, ok := m.users[id]; ok {
		delete(m.users, id)
		return nil
	}
	return sql.ErrNoRows
}

func (m *mockUserRepo) RevokeUserRefreshTokens(ctx context.Context, userID string) error {
	m.revokedFor = append(m.revokedFor, userID)
	return nil
}

func (m *mockUserRepo) CreateAuditLog(ctx context.Context, log *models.AuditLog) error {
	m.auditLogs = append(m.auditLogs, log)
	return nil
}

func newUserRepoWith(users ...*models.User) *mockUserRepo {
	repo := &mockUserRepo{users: make(map[string]*models.User)}
	for _, u := range users {
		repo.users[u.ID] = u
	}
	return repo
}

var (
	superAdmin = &models.UserInfo{ID: "super-1", Role: models.RoleSuperAdmin}
	admin      = &models.UserInfo{ID: "admin-1", Role: models.RoleAdmin}
)

func TestUserServiceCreateRequiresSuperAdminForAdminRoles(t *testing.T) {
	repo := newUserRepoWith()
	svc := NewUserService(repo, validator.New(), zap.NewNop())

	_, err := svc.Create(context.Background(), CreateUserRequest{
		Email:    "new.admin@example.com",
		FullName: "New Admin",
		Role:     models.RoleAdmin,
		Active:   true,
	}, admin, RequestMeta{})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)

	created, err := svc.Create(context.Background(), CreateUserRequest{
		Email:    "new.admin@example.com",
		FullName: "New Admin",
		Role:     models.RoleAdmin,
		Active:   true,
	}, superAdmin, RequestMeta{})
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, created.Role)
	assert.NotEmpty(t, created.ID)
}

func TestUserServiceCreateRejectsDuplicateEmail(t *testing.T) {
	repo := newUserRepoWith(&models.User{ID: "u1", Email: "taken@example.com", Role: models.RoleUser})
	svc := NewUserService(repo, validator.New(), zap.NewNop())

	_, err := svc.Create(context.Background(), CreateUserRequest{
		Email:    "taken@example.com",
		FullName: "Someone",
		Role:     models.RoleUser,
	}, superAdmin, RequestMeta{})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestUserServiceSelfDeactivationBlocked(t *testing.T) {
	repo := newUserRepoWith(&models.User{ID: "admin-1", Email: "a@example.com", Role: models.RoleAdmin, Active: true})
	svc := NewUserService(repo, validator.New(), zap.NewNop())

	inactive := false
	_, err := svc.Update(context.Background(), "admin-1", UpdateUserRequest{Active: &inactive}, admin, RequestMeta{})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestUserServiceSelfDeleteBlocked(t *testing.T) {
	repo := newUserRepoWith(&models.User{ID: "admin-1", Email: "a@example.com", Role: models.RoleAdmin, Active: true})
	svc := NewUserService(repo, validator.New(), zap.NewNop())

	err := svc.Delete(context.Background(), "admin-1", admin, RequestMeta{})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestUserServiceAdminCannotTouchAdminTier(t *testing.T) {
	repo := newUserRepoWith(
		&models.User{ID: "admin-2", Email: "other@example.com", Role: models.RoleAdmin, Active: true},
		&models.User{ID: "super-2", Email: "boss@example.com", Role: models.RoleSuperAdmin, Active: true},
	)
	svc := NewUserService(repo, validator.New(), zap.NewNop())

	name := "Renamed"
	_, err := svc.Update(context.Background(), "admin-2", UpdateUserRequest{FullName: &name}, admin, RequestMeta{})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)

	err = svc.Delete(context.Background(), "super-2", admin, RequestMeta{})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestUserServiceSuperAdminSucceedsOnAnyTarget(t *testing.T) {
	repo := newUserRepoWith(
		&models.User{ID: "admin-2", Email: "other@example.com", FullName: "Other", Role: models.RoleAdmin, Active: true},
	)
	svc := NewUserService(repo, validator.New(), zap.NewNop())

	name := "Renamed Admin"
	updated, err := svc.Update(context.Background(), "admin-2", UpdateUserRequest{FullName: &name}, superAdmin, RequestMeta{})
	require.NoError(t, err)
	assert.Equal(t, "Renamed Admin", updated.FullName)

	err = svc.Delete(context.Background(), "admin-2", superAdmin, RequestMeta{})
	require.NoError(t, err)
	_, exists := repo.users["admin-2"]
	assert.False(t, exists, "delete must remove the row permanently")
}

func TestUserServiceDeactivationRevokesSessions(t *testing.T) {
	repo := newUserRepoWith(&models.User{ID: "u1", Email: "staff@example.com", Role: models.RoleUser, Active: true})
	svc := NewUserService(repo, validator.New(), zap.NewNop())

	inactive := false
	updated, err := svc.Update(context.Background(), "u1", UpdateUserRequest{Active: &inactive}, superAdmin, RequestMeta{})
	require.NoError(t, err)
	assert.False(t, updated.Active)
	assert.Contains(t, repo.revokedFor, "u1")
}

func TestUserServiceAuditTrail(t *testing.T) {
	repo := newUserRepoWith()
	svc := NewUserService(repo, validator.New(), zap.NewNop())

	created, err := svc.Create(context.Background(), CreateUserRequest{
		Email:    "staff@example.com",
		FullName: "Staff Member",
		Role:     models.RoleUser,
		Active:   true,
	}, superAdmin, RequestMeta{IP: "10.0.0.1"})
	require.NoError(t, err)

	require.Len(t, repo.auditLogs, 1)
	entry := repo.auditLogs[0]
	assert.Equal(t, models.AuditActionUserCreate, entry.Action)
	assert.Equal(t, "users", entry.Resource)
	require.NotNil(t, entry.ResourceID)
	assert.Equal(t, created.ID, *entry.ResourceID)
	assert.Equal(t, "10.0.0.1", entry.IPAddress)
}
