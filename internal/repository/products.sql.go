package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const productColumns = `id, name, description, category, price, stock, track_stock, status, created_at, updated_at`

func scanProduct(row pgx.Row) (Product, error) {
	var p Product
	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Description,
		&p.Category,
		&p.Price,
		&p.Stock,
		&p.TrackStock,
		&p.Status,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	return p, err
}

func collectProducts(rows pgx.Rows) ([]Product, error) {
	defer rows.Close()
	var items []Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	return items, rows.Err()
}

const getProduct = `SELECT ` + productColumns + ` FROM products WHERE id = $1`

func (q *Queries) GetProduct(ctx context.Context, id uuid.UUID) (Product, error) {
	return scanProduct(q.db.QueryRow(ctx, getProduct, id))
}

// Product listing sort keys. Anything else sorts by created_at.
const (
	ProductSortCreated = "created_at"
	ProductSortPrice   = "price"
	ProductSortName    = "name"
)

// ListProductsParams filters products. Empty strings and NULL prices match
// everything. Ties always break on id.
type ListProductsParams struct {
	Category string
	Status   string
	Search   string
	MinPrice decimal.NullDecimal
	MaxPrice decimal.NullDecimal
	SortBy   string
	SortAsc  bool
	Limit    int32
	Offset   int32
}

const productFilter = `
WHERE ($1::text = '' OR category = $1)
  AND ($2::text = '' OR status = $2)
  AND ($3::text = '' OR name ILIKE '%' || $3 || '%' OR description ILIKE '%' || $3 || '%')
  AND ($4::numeric IS NULL OR price >= $4)
  AND ($5::numeric IS NULL OR price <= $5)`

const listProducts = `SELECT ` + productColumns + ` FROM products` + productFilter + `
ORDER BY
    CASE WHEN $6::text = 'price' AND $7::boolean THEN price END ASC,
    CASE WHEN $6::text = 'price' AND NOT $7::boolean THEN price END DESC,
    CASE WHEN $6::text = 'name' AND $7::boolean THEN lower(name) END ASC,
    CASE WHEN $6::text = 'name' AND NOT $7::boolean THEN lower(name) END DESC,
    CASE WHEN $6::text NOT IN ('price', 'name') AND $7::boolean THEN created_at END ASC,
    CASE WHEN $6::text NOT IN ('price', 'name') AND NOT $7::boolean THEN created_at END DESC,
    id
LIMIT $8 OFFSET $9`

func (q *Queries) ListProducts(ctx context.Context, arg ListProductsParams) ([]Product, error) {
	rows, err := q.db.Query(ctx, listProducts,
		arg.Category,
		arg.Status,
		arg.Search,
		arg.MinPrice,
		arg.MaxPrice,
		arg.SortBy,
		arg.SortAsc,
		arg.Limit,
		arg.Offset,
	)
	if err != nil {
		return nil, err
	}
	return collectProducts(rows)
}

const countProducts = `SELECT count(*) FROM products` + productFilter

func (q *Queries) CountProducts(ctx context.Context, arg ListProductsParams) (int64, error) {
	var count int64
	err := q.db.QueryRow(ctx, countProducts, arg.Category, arg.Status, arg.Search, arg.MinPrice, arg.MaxPrice).Scan(&count)
	return count, err
}

const listProductCategories = `SELECT DISTINCT category FROM products
WHERE category <> '' AND ($1::text = '' OR status = $1)
ORDER BY category`

// ListProductCategories returns the distinct non-empty categories of
// products with status, or of all products when status is empty.
func (q *Queries) ListProductCategories(ctx context.Context, status string) ([]string, error) {
	rows, err := q.db.Query(ctx, listProductCategories, status)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[string])
}

const listLowStockProducts = `SELECT ` + productColumns + ` FROM products
WHERE track_stock AND stock < $1
ORDER BY stock, name`

func (q *Queries) ListLowStockProducts(ctx context.Context, threshold int32) ([]Product, error) {
	rows, err := q.db.Query(ctx, listLowStockProducts, threshold)
	if err != nil {
		return nil, err
	}
	return collectProducts(rows)
}

type CreateProductParams struct {
	ID          uuid.UUID
	Name        string
	Description string
	Category    string
	Price       decimal.Decimal
	Stock       int32
	TrackStock  bool
	Status      string
}

const createProduct = `INSERT INTO products (id, name, description, category, price, stock, track_stock, status)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING ` + productColumns

func (q *Queries) CreateProduct(ctx context.Context, arg CreateProductParams) (Product, error) {
	return scanProduct(q.db.QueryRow(ctx, createProduct,
		arg.ID,
		arg.Name,
		arg.Description,
		arg.Category,
		arg.Price,
		arg.Stock,
		arg.TrackStock,
		arg.Status,
	))
}

type UpdateProductParams struct {
	ID          uuid.UUID
	Name        string
	Description string
	Category    string
	Price       decimal.Decimal
	Stock       int32
	TrackStock  bool
	Status      string
}

const updateProduct = `UPDATE products
SET name = $2, description = $3, category = $4, price = $5, stock = $6,
    track_stock = $7, status = $8, updated_at = now()
WHERE id = $1
RETURNING ` + productColumns

func (q *Queries) UpdateProduct(ctx context.Context, arg UpdateProductParams) (Product, error) {
	return scanProduct(q.db.QueryRow(ctx, updateProduct,
		arg.ID,
		arg.Name,
		arg.Description,
		arg.Category,
		arg.Price,
		arg.Stock,
		arg.TrackStock,
		arg.Status,
	))
}

const deleteProduct = `DELETE FROM products WHERE id = $1`

func (q *Queries) DeleteProduct(ctx context.Context, id uuid.UUID) (int64, error) {
	tag, err := q.db.Exec(ctx, deleteProduct, id)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

type StockChangeParams struct {
	ID       uuid.UUID
	Quantity int32
}

const decrementStock = `UPDATE products
SET stock = stock - $2, updated_at = now()
WHERE id = $1 AND stock >= $2`

func (q *Queries) DecrementStock(ctx context.Context, arg StockChangeParams) (int64, error) {
	tag, err := q.db.Exec(ctx, decrementStock, arg.ID, arg.Quantity)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

const incrementStock = `UPDATE products
SET stock = stock + $2, updated_at = now()
WHERE id = $1`

func (q *Queries) IncrementStock(ctx context.Context, arg StockChangeParams) (int64, error) {
	tag, err := q.db.Exec(ctx, incrementStock, arg.ID, arg.Quantity)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
