package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store is a Querier that can run a function inside one transaction.
type Store interface {
	Querier

	// InTx runs fn against a transactional Querier. The transaction commits
	// when fn returns nil and rolls back otherwise.
	InTx(ctx context.Context, fn func(q Querier) error) error
}

// PGStore is the PostgreSQL Store backed by a connection pool.
type PGStore struct {
	*Queries
	pool *pgxpool.Pool
}

var _ Store = (*PGStore)(nil)

// NewStore creates a PGStore over pool.
func NewStore(pool *pgxpool.Pool) *PGStore {
	return &PGStore{
		Queries: New(pool),
		pool:    pool,
	}
}

// InTx runs fn in a read-committed transaction.
func (s *PGStore) InTx(ctx context.Context, fn func(q Querier) error) error {
	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		return fn(s.Queries.WithTx(tx))
	})
}
