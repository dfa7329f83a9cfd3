package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/bimaplus/bima-api/internal/models"
	appErrors "github.com/bimaplus/bima-api/pkg/errors"
	"github.com/bimaplus/bima-api/pkg/sanitize"
)

type userRepository interface {
	List(ctx context.Context, filter models.UserFilter) ([]models.User, int, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id string) error
	RevokeUserRefreshTokens(ctx context.Context, userID string) error
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
}

// CreateUserRequest represents payload for creating staff accounts.
type CreateUserRequest struct {
	Email    string          `json:"email" validate:"required,email"`
	FullName string          `json:"full_name" validate:"required,min=2"`
	Role     models.UserRole `json:"role" validate:"required,oneof=USER ADMIN SUPER_ADMIN"`
	Active   bool            `json:"active"`
	Password string          `json:"password" validate:"omitempty,min=8"`
}

// UpdateUserRequest carries a partial update; only present fields change.
type UpdateUserRequest struct {
	FullName *string          `json:"full_name" validate:"omitempty,min=2"`
	Role     *models.UserRole `json:"role" validate:"omitempty,oneof=USER ADMIN SUPER_ADMIN"`
	Active   *bool            `json:"active"`
}

// RequestMeta carries caller context for audit entries.
type RequestMeta struct {
	IP        string
	UserAgent string
}

// UserService handles staff account administration. The role-containment and
// self-action rules live here so every route shares one policy:
// a user may never delete or deactivate their own account, and only
// SUPER_ADMIN may act on ADMIN or SUPER_ADMIN accounts.
type UserService struct {
	repo      userRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewUserService creates an instance of UserService.
func NewUserService(repo userRepository, validate *validator.Validate, logger *zap.Logger) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &UserService{repo: repo, validator: validate, logger: logger}
}

// List returns paginated users and pagination metadata.
func (s *UserService) List(ctx context.Context, filter models.UserFilter) ([]models.User, *models.Pagination, error) {
	users, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, storageError(err, "failed to list users")
	}

	limit := models.NormalizeLimit(filter.Limit, 50)
	return users, models.NewPagination(filter.Page, limit, total), nil
}

// Get returns a user by ID.
func (s *UserService) Get(ctx context.Context, id string) (*models.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return nil, storageError(err, "failed to load user")
	}
	return user, nil
}

// Create adds a new staff account. Creating an ADMIN or SUPER_ADMIN account
// requires the SUPER_ADMIN role.
func (s *UserService) Create(ctx context.Context, req CreateUserRequest, actor *models.UserInfo, meta RequestMeta) (*models.User, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid create user payload")
	}

	if req.Role.AtLeast(models.RoleAdmin) && actor.Role != models.RoleSuperAdmin {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only a super administrator may create administrator accounts")
	}

	if _, err := s.repo.FindByEmail(ctx, strings.ToLower(req.Email)); err == nil {
		return nil, appErrors.Clone(appErrors.ErrConflict, "email already exists")
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, storageError(err, "failed to check email uniqueness")
	}

	user := &models.User{
		ID:       uuid.NewString(),
		Email:    strings.ToLower(strings.TrimSpace(req.Email)),
		FullName: sanitize.Clean(req.FullName),
		Role:     req.Role,
		Active:   req.Active,
	}

	// Empty password leaves an OAuth-only account.
	if req.Password != "" {
		passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
		}
		user.PasswordHash = string(passwordHash)
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, storageError(err, "failed to create user")
	}

	newPayload, _ := json.Marshal(map[string]interface{}{"id": user.ID, "email": user.Email, "role": user.Role})
	s.audit(ctx, actor.ID, models.AuditActionUserCreate, user.ID, nil, newPayload, meta)

	return user, nil
}

// Update modifies the present fields of a user. A user cannot change their
// own role or deactivate themselves; only SUPER_ADMIN may modify admin-tier
// accounts.
func (s *UserService) Update(ctx context.Context, id string, req UpdateUserRequest, actor *models.UserInfo, meta RequestMeta) (*models.User, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid update payload")
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return nil, storageError(err, "failed to load user")
	}

	if actor.ID == user.ID {
		if req.Active != nil && !*req.Active {
			return nil, appErrors.Clone(appErrors.ErrForbidden, "you cannot deactivate your own account")
		}
		if req.Role != nil && *req.Role != user.Role {
			return nil, appErrors.Clone(appErrors.ErrForbidden, "you cannot change your own role")
		}
	} else if user.Role.AtLeast(models.RoleAdmin) && actor.Role != models.RoleSuperAdmin {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only a super administrator may modify administrator accounts")
	}

	if req.Role != nil && req.Role.AtLeast(models.RoleAdmin) && actor.Role != models.RoleSuperAdmin {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only a super administrator may grant administrator roles")
	}

	oldPayload, _ := json.Marshal(map[string]interface{}{"full_name": user.FullName, "role": user.Role, "active": user.Active})

	if req.FullName != nil {
		user.FullName = sanitize.Clean(*req.FullName)
	}
	if req.Role != nil {
		user.Role = *req.Role
	}
	deactivated := false
	if req.Active != nil {
		deactivated = user.Active && !*req.Active
		user.Active = *req.Active
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, storageError(err, "failed to update user")
	}

	if deactivated {
		if err := s.repo.RevokeUserRefreshTokens(ctx, user.ID); err != nil {
			s.logger.Warn("failed to revoke refresh tokens for deactivated user", zap.Error(err))
		}
	}

	newPayload, _ := json.Marshal(map[string]interface{}{"full_name": user.FullName, "role": user.Role, "active": user.Active})
	s.audit(ctx, actor.ID, models.AuditActionUserUpdate, user.ID, oldPayload, newPayload, meta)

	return user, nil
}

// Delete permanently removes a user.
func (s *UserService) Delete(ctx context.Context, id string, actor *models.UserInfo, meta RequestMeta) error {
	if actor.ID == id {
		return appErrors.Clone(appErrors.ErrForbidden, "you cannot delete your own account")
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return storageError(err, "failed to load user")
	}

	if user.Role.AtLeast(models.RoleAdmin) && actor.Role != models.RoleSuperAdmin {
		return appErrors.Clone(appErrors.ErrForbidden, "only a super administrator may delete administrator accounts")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return storageError(err, "failed to delete user")
	}

	oldPayload, _ := json.Marshal(map[string]interface{}{"email": user.Email, "role": user.Role})
	s.audit(ctx, actor.ID, models.AuditActionUserDelete, user.ID, oldPayload, nil, meta)

	return nil
}

func (s *UserService) audit(ctx context.Context, actorID string, action models.AuditAction, resourceID string, oldValues, newValues []byte, meta RequestMeta) {
	if err := s.repo.CreateAuditLog(ctx, &models.AuditLog{
		UserID:     &actorID,
		Action:     action,
		Resource:   "users",
		ResourceID: &resourceID,
		OldValues:  oldValues,
		NewValues:  newValues,
		IPAddress:  meta.IP,
		UserAgent:  meta.UserAgent,
		CreatedAt:  time.Now().UTC(),
	}); err != nil {
		s.logger.Warn("failed to record audit log", zap.String("action", string(action)), zap.Error(err))
	}
}
