package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// USER DOMAIN TYPES
// =============================================================================

// Role represents the authorization role of an account.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleCustomer || r == RoleAdmin
}

// Account is the stored user record.
// This is distinct from domain.User which is a minimal context type.
type Account struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// ContextUser returns the minimal context representation of the account.
func (a Account) ContextUser() *User {
	return &User{ID: a.ID, Email: a.Email, Role: a.Role}
}

// Session is the result of a successful register or login.
type Session struct {
	Account   Account   `json:"user"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// =============================================================================
// USER DOMAIN ERRORS
// =============================================================================

var (
	ErrUserNotFound       = &Error{Code: ENOTFOUND, Message: "User not found"}
	ErrEmailTaken         = &Error{Code: ECONFLICT, Message: "An account with this email already exists"}
	ErrInvalidCredentials = &Error{Code: EUNAUTHORIZED, Message: "Invalid email or password"}
	ErrInvalidToken       = &Error{Code: EUNAUTHORIZED, Message: "Invalid or expired token"}
	ErrInvalidRole        = &Error{Code: EINVALID, Message: "Role must be customer or admin"}
	ErrOwnRoleChange      = &Error{Code: EFORBIDDEN, Message: "You cannot change your own role"}
)

// UserFilter narrows an account listing. Search matches name or email.
type UserFilter struct {
	Role   Role
	Search string
	Page   int
	Limit  int
}

// UserPage is one page of accounts, newest first.
type UserPage struct {
	Users []Account `json:"users"`
	Total int       `json:"total"`
	Page  int       `json:"page"`
	Limit int       `json:"limit"`
}

// RegisterParams contains the input for creating a customer account.
type RegisterParams struct {
	Name     string
	Email    string
	Password string
}

// UserService provides account registration and authentication.
type UserService interface {
	// Register creates a customer account and issues a token for it.
	Register(ctx context.Context, params RegisterParams) (*Session, error)

	// Login verifies credentials and issues a token.
	Login(ctx context.Context, email, password string) (*Session, error)

	// Get returns an account by ID.
	Get(ctx context.Context, id uuid.UUID) (*Account, error)

	// Authenticate resolves a token into the context user it was issued for.
	Authenticate(ctx context.Context, token string) (*User, error)

	// List returns a page of accounts for the back office.
	List(ctx context.Context, filter UserFilter) (*UserPage, error)

	// SetRole promotes or demotes an account. actor may not change their own role.
	SetRole(ctx context.Context, id uuid.UUID, role Role, actor *User) (*Account, error)
}
