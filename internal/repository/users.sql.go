package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const userColumns = `id, name, email, password_hash, role, created_at, updated_at`

func scanUser(row pgx.Row) (User, error) {
	var u User
	err := row.Scan(
		&u.ID,
		&u.Name,
		&u.Email,
		&u.PasswordHash,
		&u.Role,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	return u, err
}

type CreateUserParams struct {
	ID           uuid.UUID
	Name         string
	Email        string
	PasswordHash string
	Role         string
}

const createUser = `INSERT INTO users (id, name, email, password_hash, role)
VALUES ($1, $2, lower($3), $4, $5)
RETURNING ` + userColumns

func (q *Queries) CreateUser(ctx context.Context, arg CreateUserParams) (User, error) {
	return scanUser(q.db.QueryRow(ctx, createUser, arg.ID, arg.Name, arg.Email, arg.PasswordHash, arg.Role))
}

const getUserByEmail = `SELECT ` + userColumns + ` FROM users WHERE email = lower($1)`

func (q *Queries) GetUserByEmail(ctx context.Context, email string) (User, error) {
	return scanUser(q.db.QueryRow(ctx, getUserByEmail, email))
}

const getUserByID = `SELECT ` + userColumns + ` FROM users WHERE id = $1`

func (q *Queries) GetUserByID(ctx context.Context, id uuid.UUID) (User, error) {
	return scanUser(q.db.QueryRow(ctx, getUserByID, id))
}

// ListUsersParams filters accounts. Empty strings match everything.
type ListUsersParams struct {
	Role   string
	Search string
	Limit  int32
	Offset int32
}

const userFilter = `
WHERE ($1::text = '' OR role = $1)
  AND ($2::text = '' OR name ILIKE '%' || $2 || '%' OR email ILIKE '%' || $2 || '%')`

const listUsers = `SELECT ` + userColumns + ` FROM users` + userFilter + `
ORDER BY created_at DESC, id
LIMIT $3 OFFSET $4`

func (q *Queries) ListUsers(ctx context.Context, arg ListUsersParams) ([]User, error) {
	rows, err := q.db.Query(ctx, listUsers, arg.Role, arg.Search, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, u)
	}
	return items, rows.Err()
}

const countUsers = `SELECT count(*) FROM users` + userFilter

func (q *Queries) CountUsers(ctx context.Context, arg ListUsersParams) (int64, error) {
	var count int64
	err := q.db.QueryRow(ctx, countUsers, arg.Role, arg.Search).Scan(&count)
	return count, err
}

type UpdateUserRoleParams struct {
	ID   uuid.UUID
	Role string
}

const updateUserRole = `UPDATE users SET role = $2, updated_at = now()
WHERE id = $1
RETURNING ` + userColumns

func (q *Queries) UpdateUserRole(ctx context.Context, arg UpdateUserRoleParams) (User, error) {
	return scanUser(q.db.QueryRow(ctx, updateUserRole, arg.ID, arg.Role))
}
