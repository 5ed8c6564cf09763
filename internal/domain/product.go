package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =============================================================================
// PRODUCT DOMAIN TYPES
// =============================================================================

// ProductStatus represents the lifecycle state of a product.
type ProductStatus string

const (
	ProductStatusDraft    ProductStatus = "draft"
	ProductStatusActive   ProductStatus = "active"
	ProductStatusArchived ProductStatus = "archived"
)

// Valid reports whether s is a known product status.
func (s ProductStatus) Valid() bool {
	switch s {
	case ProductStatusDraft, ProductStatusActive, ProductStatusArchived:
		return true
	}
	return false
}

// LowStockThreshold is the stock level below which tracked products are
// reported on the admin dashboard.
const LowStockThreshold = 10

// Product represents a catalog item.
type Product struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Price       decimal.Decimal `json:"price"`
	Stock       int32           `json:"stock"`
	TrackStock  bool            `json:"trackStock"`
	Status      ProductStatus   `json:"status"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// HasStock reports whether qty units can be sold.
// Untracked products always have stock.
func (p Product) HasStock(qty int32) bool {
	return !p.TrackStock || p.Stock >= qty
}

// ProductInput contains the editable fields of a product.
type ProductInput struct {
	Name        string
	Description string
	Category    string
	Price       decimal.Decimal
	Stock       int32
	TrackStock  bool
	Status      ProductStatus
}

// ProductSort is the field a product listing is ordered by.
type ProductSort string

const (
	SortByCreated ProductSort = "createdAt"
	SortByPrice   ProductSort = "price"
	SortByName    ProductSort = "name"
)

// Valid reports whether s is a known sort field. Empty means SortByCreated.
func (s ProductSort) Valid() bool {
	switch s {
	case "", SortByCreated, SortByPrice, SortByName:
		return true
	}
	return false
}

// ProductFilter narrows a product listing. Prices bound inclusively.
// Listings are descending unless Ascending is set.
type ProductFilter struct {
	Category  string
	Search    string
	Status    ProductStatus
	MinPrice  *decimal.Decimal
	MaxPrice  *decimal.Decimal
	SortBy    ProductSort
	Ascending bool
	Page      int
	Limit     int
}

// ProductPage is one page of a product listing.
type ProductPage struct {
	Products []Product `json:"products"`
	Total    int       `json:"total"`
	Page     int       `json:"page"`
	Limit    int       `json:"limit"`
}

// =============================================================================
// PRODUCT DOMAIN ERRORS
// =============================================================================

var (
	ErrProductNotFound = &Error{Code: ENOTFOUND, Message: "Product not found"}
	ErrNegativeStock   = &Error{Code: EINVALID, Message: "Stock cannot go below zero"}
)

// ProductService provides catalog reads and admin catalog management.
type ProductService interface {
	// List returns a page of products matching the filter.
	List(ctx context.Context, filter ProductFilter) (*ProductPage, error)

	// Get returns a single product.
	Get(ctx context.Context, id uuid.UUID) (*Product, error)

	// Create adds a product to the catalog.
	Create(ctx context.Context, input ProductInput) (*Product, error)

	// Update replaces the editable fields of a product.
	Update(ctx context.Context, id uuid.UUID, input ProductInput) (*Product, error)

	// Delete removes a product. Existing orders keep their item snapshots.
	Delete(ctx context.Context, id uuid.UUID) error

	// AdjustStock atomically adds delta (which may be negative) to the stock count.
	AdjustStock(ctx context.Context, id uuid.UUID, delta int32) (*Product, error)

	// LowStock lists tracked products below LowStockThreshold.
	LowStock(ctx context.Context) ([]Product, error)

	// Categories lists the distinct categories of active products, sorted.
	Categories(ctx context.Context) ([]string, error)
}
