// Package memstore is an in-process repository.Store. Transactions run
// under a single lock against a copy of the data that replaces the live
// copy only on commit, so every transaction is serializable and
// all-or-nothing.
package memstore

import (
	"context"
	"sync"
	"time"

	"github.com/dukerupert/vendora/internal/repository"
	"github.com/google/uuid"
)

type state struct {
	products  map[uuid.UUID]repository.Product
	users     map[uuid.UUID]repository.User
	carts     map[uuid.UUID]repository.Cart
	orders    map[uuid.UUID]repository.Order
	sequences map[string]int64
}

func newState() *state {
	return &state{
		products:  map[uuid.UUID]repository.Product{},
		users:     map[uuid.UUID]repository.User{},
		carts:     map[uuid.UUID]repository.Cart{},
		orders:    map[uuid.UUID]repository.Order{},
		sequences: map[string]int64{},
	}
}

// clone copies every map. Row values are copied by value; byte slices are
// never mutated in place so sharing them is safe.
func (s *state) clone() *state {
	c := newState()
	for k, v := range s.products {
		c.products[k] = v
	}
	for k, v := range s.users {
		c.users[k] = v
	}
	for k, v := range s.carts {
		c.carts[k] = v
	}
	for k, v := range s.orders {
		c.orders[k] = v
	}
	for k, v := range s.sequences {
		c.sequences[k] = v
	}
	return c
}

// Store is an in-memory repository.Store.
type Store struct {
	mu  sync.Mutex
	st  *state
	now func() time.Time
}

var _ repository.Store = (*Store)(nil)

// Option configures a Store.
type Option func(*Store)

// WithClock sets the clock used for created_at and updated_at columns.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// New creates an empty Store.
func New(opts ...Option) *Store {
	s := &Store{st: newState(), now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// InTx runs fn against a private copy of the data and publishes the copy
// only if fn succeeds.
func (s *Store) InTx(ctx context.Context, fn func(q repository.Querier) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	work := s.st.clone()
	if err := fn(&querier{st: work, now: s.now}); err != nil {
		return err
	}
	s.st = work
	return nil
}

// run executes a single statement against the live data.
func run[T any](s *Store, fn func(q *querier) (T, error)) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(&querier{st: s.st, now: s.now})
}
