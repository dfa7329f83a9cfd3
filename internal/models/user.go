package models

import "time"

// UserRole represents the staff roles ordered by privilege.
type UserRole string

const (
	RoleUser       UserRole = "USER"
	RoleAdmin      UserRole = "ADMIN"
	RoleSuperAdmin UserRole = "SUPER_ADMIN"
)

var roleLevels = map[UserRole]int{
	RoleUser:       1,
	RoleAdmin:      2,
	RoleSuperAdmin: 3,
}

// Level returns the ordinal privilege level of the role; unknown roles rank
// below every defined one.
func (r UserRole) Level() int {
	return roleLevels[r]
}

// Valid reports whether the role is one of the defined tiers.
func (r UserRole) Valid() bool {
	_, ok := roleLevels[r]
	return ok
}

// AtLeast is the single ordered-role comparison shared by every endpoint.
// SUPER_ADMIN satisfies any requirement.
func (r UserRole) AtLeast(min UserRole) bool {
	if r == RoleSuperAdmin {
		return true
	}
	return r.Level() >= min.Level()
}

// User represents a staff account stored in the users table. PasswordHash is
// empty for OAuth-only accounts.
type User struct {
	ID            string     `db:"id" json:"id"`
	Email         string     `db:"email" json:"email"`
	PasswordHash  string     `db:"password_hash" json:"-"`
	FullName      string     `db:"full_name" json:"full_name"`
	Role          UserRole   `db:"role" json:"role"`
	Active        bool       `db:"active" json:"active"`
	OAuthProvider *string    `db:"oauth_provider" json:"-"`
	OAuthSubject  *string    `db:"oauth_subject" json:"-"`
	LastLogin     *time.Time `db:"last_login" json:"last_login,omitempty"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at" json:"updated_at"`
}

// UserFilter captures filtering criteria for listing users.
type UserFilter struct {
	Role   *UserRole
	Active *bool
	Search string
	Page   int
	Limit  int
}
