package postgres

import (
	"context"
	"strings"

	"github.com/dukerupert/vendora/internal/domain"
	"github.com/dukerupert/vendora/internal/repository"
	"github.com/google/uuid"
)

// ProductService implements domain.ProductService over a repository.Store.
type ProductService struct {
	repo repository.Store
}

// Compile-time check that ProductService implements domain.ProductService.
var _ domain.ProductService = (*ProductService)(nil)

// NewProductService creates a new store-backed product service.
func NewProductService(repo repository.Store) *ProductService {
	return &ProductService{
		repo: repo,
	}
}

// =============================================================================
// STOREFRONT OPERATIONS
// =============================================================================

// List returns a page of products matching the filter. The default order
// is newest first.
func (s *ProductService) List(ctx context.Context, filter domain.ProductFilter) (*domain.ProductPage, error) {
	const op = "product.list"

	var verr error
	if filter.Status != "" && !filter.Status.Valid() {
		verr = domain.AddFieldError(verr, "status", "must be one of draft, active, archived")
	}
	if !filter.SortBy.Valid() {
		verr = domain.AddFieldError(verr, "sortBy", "must be one of createdAt, price, name")
	}
	if filter.MinPrice != nil && filter.MinPrice.IsNegative() {
		verr = domain.AddFieldError(verr, "minPrice", "must not be negative")
	}
	if filter.MinPrice != nil && filter.MaxPrice != nil && filter.MinPrice.GreaterThan(*filter.MaxPrice) {
		verr = domain.AddFieldError(verr, "maxPrice", "must not be below minPrice")
	}
	if verr != nil {
		verr.(*domain.ValidationError).Op = op
		return nil, verr
	}

	page, limit, offset := domain.NormalizePage(filter.Page, filter.Limit)
	params := repository.ListProductsParams{
		Category: strings.TrimSpace(filter.Category),
		Status:   string(filter.Status),
		Search:   strings.TrimSpace(filter.Search),
		MinPrice: nullDecimal(filter.MinPrice),
		MaxPrice: nullDecimal(filter.MaxPrice),
		SortBy:   sortColumn(filter.SortBy),
		SortAsc:  filter.Ascending,
		Limit:    int32(limit),
		Offset:   int32(offset),
	}

	rows, err := s.repo.ListProducts(ctx, params)
	if err != nil {
		return nil, domain.Internal(err, op, "failed to list products")
	}
	total, err := s.repo.CountProducts(ctx, params)
	if err != nil {
		return nil, domain.Internal(err, op, "failed to count products")
	}

	return &domain.ProductPage{
		Products: mapRepoProductsToDomain(rows),
		Total:    int(total),
		Page:     page,
		Limit:    limit,
	}, nil
}

// Get retrieves a product by ID.
func (s *ProductService) Get(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	row, err := s.repo.GetProduct(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, domain.WithOp(domain.ErrProductNotFound, "product.get")
		}
		return nil, domain.Internal(err, "product.get", "failed to get product")
	}

	product := mapRepoProductToDomain(row)
	return &product, nil
}

// =============================================================================
// ADMIN OPERATIONS
// =============================================================================

// Create adds a product. An empty status defaults to active.
func (s *ProductService) Create(ctx context.Context, input domain.ProductInput) (*domain.Product, error) {
	input, err := validateProductInput("product.create", input)
	if err != nil {
		return nil, err
	}

	row, err := s.repo.CreateProduct(ctx, repository.CreateProductParams{
		ID:          uuid.New(),
		Name:        input.Name,
		Description: input.Description,
		Category:    input.Category,
		Price:       input.Price,
		Stock:       input.Stock,
		TrackStock:  input.TrackStock,
		Status:      string(input.Status),
	})
	if err != nil {
		return nil, domain.Internal(err, "product.create", "failed to create product")
	}

	product := mapRepoProductToDomain(row)
	return &product, nil
}

// Update replaces the editable fields of an existing product.
func (s *ProductService) Update(ctx context.Context, id uuid.UUID, input domain.ProductInput) (*domain.Product, error) {
	input, err := validateProductInput("product.update", input)
	if err != nil {
		return nil, err
	}

	row, err := s.repo.UpdateProduct(ctx, repository.UpdateProductParams{
		ID:          id,
		Name:        input.Name,
		Description: input.Description,
		Category:    input.Category,
		Price:       input.Price,
		Stock:       input.Stock,
		TrackStock:  input.TrackStock,
		Status:      string(input.Status),
	})
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, domain.WithOp(domain.ErrProductNotFound, "product.update")
		}
		return nil, domain.Internal(err, "product.update", "failed to update product")
	}

	product := mapRepoProductToDomain(row)
	return &product, nil
}

// Delete removes a product. Carts that still reference it show the line as
// unavailable; orders keep their snapshots.
func (s *ProductService) Delete(ctx context.Context, id uuid.UUID) error {
	n, err := s.repo.DeleteProduct(ctx, id)
	if err != nil {
		return domain.Internal(err, "product.delete", "failed to delete product")
	}
	if n == 0 {
		return domain.WithOp(domain.ErrProductNotFound, "product.delete")
	}
	return nil
}

// AdjustStock adds delta to the stock count in one statement. A negative
// delta larger than the current stock fails with ErrNegativeStock.
func (s *ProductService) AdjustStock(ctx context.Context, id uuid.UUID, delta int32) (*domain.Product, error) {
	const op = "product.adjust_stock"

	var row repository.Product
	err := s.repo.InTx(ctx, func(q repository.Querier) error {
		var (
			n   int64
			err error
		)
		switch {
		case delta > 0:
			n, err = q.IncrementStock(ctx, repository.StockChangeParams{ID: id, Quantity: delta})
		case delta < 0:
			n, err = q.DecrementStock(ctx, repository.StockChangeParams{ID: id, Quantity: -delta})
		default:
			n = 1
		}
		if err != nil {
			return domain.Internal(err, op, "failed to adjust stock")
		}

		row, err = q.GetProduct(ctx, id)
		if err != nil {
			if repository.IsNotFound(err) {
				return domain.WithOp(domain.ErrProductNotFound, op)
			}
			return domain.Internal(err, op, "failed to get product")
		}
		if n == 0 {
			return domain.WithOp(domain.ErrNegativeStock, op)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	product := mapRepoProductToDomain(row)
	return &product, nil
}

// LowStock lists tracked products whose stock is below domain.LowStockThreshold.
func (s *ProductService) LowStock(ctx context.Context) ([]domain.Product, error) {
	rows, err := s.repo.ListLowStockProducts(ctx, domain.LowStockThreshold)
	if err != nil {
		return nil, domain.Internal(err, "product.low_stock", "failed to list low stock products")
	}
	return mapRepoProductsToDomain(rows), nil
}

// Categories lists the categories shoppers can browse.
func (s *ProductService) Categories(ctx context.Context) ([]string, error) {
	categories, err := s.repo.ListProductCategories(ctx, string(domain.ProductStatusActive))
	if err != nil {
		return nil, domain.Internal(err, "product.categories", "failed to list categories")
	}
	if categories == nil {
		categories = []string{}
	}
	return categories, nil
}

// validateProductInput trims the input and reports every invalid field.
func validateProductInput(op string, input domain.ProductInput) (domain.ProductInput, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Description = strings.TrimSpace(input.Description)
	input.Category = strings.TrimSpace(input.Category)
	if input.Status == "" {
		input.Status = domain.ProductStatusActive
	}

	var verr error
	if input.Name == "" {
		verr = domain.AddFieldError(verr, "name", "is required")
	}
	if input.Price.IsNegative() {
		verr = domain.AddFieldError(verr, "price", "must not be negative")
	}
	if input.Stock < 0 {
		verr = domain.AddFieldError(verr, "stock", "must not be negative")
	}
	if !input.Status.Valid() {
		verr = domain.AddFieldError(verr, "status", "must be one of draft, active, archived")
	}
	if verr != nil {
		verr.(*domain.ValidationError).Op = op
		return input, verr
	}

	input.Price = input.Price.Round(2)
	return input, nil
}
