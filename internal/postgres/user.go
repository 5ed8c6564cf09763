package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/dukerupert/vendora/internal/auth"
	"github.com/dukerupert/vendora/internal/domain"
	"github.com/dukerupert/vendora/internal/repository"
	"github.com/dukerupert/vendora/internal/telemetry"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// UserService implements domain.UserService over a repository.Store.
type UserService struct {
	repo     repository.Store
	tokens   *auth.TokenIssuer
	metrics  *telemetry.BusinessMetrics
	validate *validator.Validate
}

// Compile-time check to ensure UserService implements domain.UserService.
var _ domain.UserService = (*UserService)(nil)

// NewUserService creates a new UserService instance. metrics may be nil.
func NewUserService(repo repository.Store, tokens *auth.TokenIssuer, metrics *telemetry.BusinessMetrics) *UserService {
	return &UserService{
		repo:     repo,
		tokens:   tokens,
		metrics:  metrics,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// =============================================================================
// Authentication Operations
// =============================================================================

// Register creates a customer account and signs the user in.
func (s *UserService) Register(ctx context.Context, params domain.RegisterParams) (*domain.Session, error) {
	const op = "user.register"

	name := strings.TrimSpace(params.Name)
	email := normalizeEmail(params.Email)

	var verr error
	if name == "" {
		verr = domain.AddFieldError(verr, "name", "is required")
	}
	if err := s.validate.Var(email, "required,email,max=254"); err != nil {
		verr = domain.AddFieldError(verr, "email", "must be a valid email address")
	}
	if len(params.Password) < auth.MinPasswordLength {
		verr = domain.AddFieldError(verr, "password", auth.ErrPasswordTooShort.Error())
	}
	if verr != nil {
		verr.(*domain.ValidationError).Op = op
		return nil, verr
	}

	if _, err := s.repo.GetUserByEmail(ctx, email); err == nil {
		return nil, domain.WithOp(domain.ErrEmailTaken, op)
	} else if !repository.IsNotFound(err) {
		return nil, domain.Internal(err, op, "failed to check existing user")
	}

	passwordHash, err := auth.HashPassword(params.Password)
	if err != nil {
		return nil, domain.Internal(err, op, "failed to hash password")
	}

	user, err := s.repo.CreateUser(ctx, repository.CreateUserParams{
		ID:           uuid.New(),
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         string(domain.RoleCustomer),
	})
	if err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, domain.WithOp(domain.ErrEmailTaken, op)
		}
		return nil, domain.Internal(err, op, "failed to create user")
	}

	s.metrics.Signup()
	return s.newSession(op, mapRepoUserToDomain(user))
}

// Login verifies email and password and issues a token. Unknown emails and
// wrong passwords are indistinguishable to the caller.
func (s *UserService) Login(ctx context.Context, email, password string) (*domain.Session, error) {
	const op = "user.login"

	user, err := s.repo.GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if repository.IsNotFound(err) {
			s.metrics.Login("", false)
			return nil, domain.WithOp(domain.ErrInvalidCredentials, op)
		}
		return nil, domain.Internal(err, op, "failed to get user")
	}

	if err := auth.VerifyPassword(password, user.PasswordHash); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			s.metrics.Login("", false)
			return nil, domain.WithOp(domain.ErrInvalidCredentials, op)
		}
		return nil, domain.Internal(err, op, "failed to verify password")
	}

	account := mapRepoUserToDomain(user)
	s.metrics.Login(account.Role, true)
	return s.newSession(op, account)
}

// Authenticate resolves a token to the current state of its account, so a
// deleted account or a changed role takes effect immediately.
func (s *UserService) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	const op = "user.authenticate"

	claims, err := s.tokens.Parse(token)
	if err != nil {
		return nil, domain.WithOp(domain.ErrInvalidToken, op)
	}

	user, err := s.repo.GetUserByID(ctx, claims.ID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, domain.WithOp(domain.ErrInvalidToken, op)
		}
		return nil, domain.Internal(err, op, "failed to get user")
	}

	return mapRepoUserToDomain(user).ContextUser(), nil
}

// =============================================================================
// User Retrieval Operations
// =============================================================================

// Get retrieves an account by ID.
func (s *UserService) Get(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	user, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, domain.WithOp(domain.ErrUserNotFound, "user.get")
		}
		return nil, domain.Internal(err, "user.get", "failed to get user")
	}
	return mapRepoUserToDomain(user), nil
}

// =============================================================================
// Back Office Operations
// =============================================================================

// List returns a page of accounts, newest first.
func (s *UserService) List(ctx context.Context, filter domain.UserFilter) (*domain.UserPage, error) {
	const op = "user.list"
	if filter.Role != "" && !filter.Role.Valid() {
		return nil, domain.Invalid(op, "role filter must be customer or admin")
	}

	page, limit, offset := domain.NormalizePage(filter.Page, filter.Limit)
	params := repository.ListUsersParams{
		Role:   string(filter.Role),
		Search: strings.TrimSpace(filter.Search),
		Limit:  int32(limit),
		Offset: int32(offset),
	}

	rows, err := s.repo.ListUsers(ctx, params)
	if err != nil {
		return nil, domain.Internal(err, op, "failed to list users")
	}
	total, err := s.repo.CountUsers(ctx, params)
	if err != nil {
		return nil, domain.Internal(err, op, "failed to count users")
	}

	return &domain.UserPage{
		Users: mapRepoUsersToDomain(rows),
		Total: int(total),
		Page:  page,
		Limit: limit,
	}, nil
}

// SetRole changes the role of account id. The change applies to the
// account's next request, since Authenticate reads the stored role.
func (s *UserService) SetRole(ctx context.Context, id uuid.UUID, role domain.Role, actor *domain.User) (*domain.Account, error) {
	const op = "user.set_role"

	if !role.Valid() {
		return nil, domain.WithOp(domain.ErrInvalidRole, op)
	}
	if actor != nil && actor.ID == id {
		return nil, domain.WithOp(domain.ErrOwnRoleChange, op)
	}

	user, err := s.repo.UpdateUserRole(ctx, repository.UpdateUserRoleParams{ID: id, Role: string(role)})
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, domain.WithOp(domain.ErrUserNotFound, op)
		}
		return nil, domain.Internal(err, op, "failed to update role")
	}
	return mapRepoUserToDomain(user), nil
}

func (s *UserService) newSession(op string, account *domain.Account) (*domain.Session, error) {
	token, expiresAt, err := s.tokens.Issue(account.ContextUser())
	if err != nil {
		return nil, domain.Internal(err, op, "failed to issue token")
	}
	return &domain.Session{Account: *account, Token: token, ExpiresAt: expiresAt}, nil
}
