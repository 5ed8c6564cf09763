package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const cartColumns = `user_id, items, coupon_code, created_at, updated_at`

func scanCart(row pgx.Row) (Cart, error) {
	var c Cart
	err := row.Scan(
		&c.UserID,
		&c.Items,
		&c.CouponCode,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	return c, err
}

const getCart = `SELECT ` + cartColumns + ` FROM carts WHERE user_id = $1`

func (q *Queries) GetCart(ctx context.Context, userID uuid.UUID) (Cart, error) {
	return scanCart(q.db.QueryRow(ctx, getCart, userID))
}

const getCartForUpdate = getCart + ` FOR UPDATE`

func (q *Queries) GetCartForUpdate(ctx context.Context, userID uuid.UUID) (Cart, error) {
	return scanCart(q.db.QueryRow(ctx, getCartForUpdate, userID))
}

type UpsertCartParams struct {
	UserID     uuid.UUID
	Items      []byte
	CouponCode pgtype.Text
}

const upsertCart = `INSERT INTO carts (user_id, items, coupon_code)
VALUES ($1, $2, $3)
ON CONFLICT (user_id) DO UPDATE
SET items = EXCLUDED.items, coupon_code = EXCLUDED.coupon_code, updated_at = now()
RETURNING ` + cartColumns

func (q *Queries) UpsertCart(ctx context.Context, arg UpsertCartParams) (Cart, error) {
	return scanCart(q.db.QueryRow(ctx, upsertCart, arg.UserID, arg.Items, arg.CouponCode))
}
