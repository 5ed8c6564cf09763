package bootstrap

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/dukerupert/vendora/internal/auth"
	"github.com/dukerupert/vendora/internal/domain"
	"github.com/dukerupert/vendora/internal/repository"
	"github.com/dukerupert/vendora/internal/repository/memstore"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureAdmin(t *testing.T) {
	defer auth.SetCost(4)()

	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := memstore.New()
	cfg := &AdminConfig{Email: " Owner@Example.com ", Password: "a-long-admin-password"}

	require.NoError(t, EnsureAdmin(ctx, store, cfg, logger))

	user, err := store.GetUserByEmail(ctx, "owner@example.com")
	require.NoError(t, err)
	assert.Equal(t, string(domain.RoleAdmin), user.Role)
	assert.Equal(t, "Admin", user.Name)
	require.NoError(t, auth.VerifyPassword("a-long-admin-password", user.PasswordHash))

	// Second run is a no-op.
	require.NoError(t, EnsureAdmin(ctx, store, cfg, logger))
	again, err := store.GetUserByEmail(ctx, "owner@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, again.ID)
}

func TestEnsureAdmin_LeavesExistingCustomer(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := memstore.New()

	_, err := store.CreateUser(ctx, repository.CreateUserParams{
		ID:           uuid.New(),
		Name:         "Thandi",
		Email:        "owner@example.com",
		PasswordHash: "x",
		Role:         string(domain.RoleCustomer),
	})
	require.NoError(t, err)

	require.NoError(t, EnsureAdmin(ctx, store, &AdminConfig{Email: "owner@example.com", Password: "a-long-admin-password"}, logger))

	user, err := store.GetUserByEmail(ctx, "owner@example.com")
	require.NoError(t, err)
	assert.Equal(t, string(domain.RoleCustomer), user.Role)
}

func TestEnsureAdmin_Config(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := memstore.New()

	assert.NoError(t, EnsureAdmin(context.Background(), store, nil, logger))
	assert.NoError(t, EnsureAdmin(context.Background(), store, &AdminConfig{Email: "owner@example.com"}, logger))
	assert.Error(t, EnsureAdmin(context.Background(), store, &AdminConfig{Email: "owner@example.com", Password: "short"}, logger))
}
