package postgres

import (
	"strings"

	"github.com/dukerupert/vendora/internal/domain"
	"github.com/dukerupert/vendora/internal/repository"
	"github.com/shopspring/decimal"
)

// mapRepoProductToDomain converts a repository Product to a domain Product.
func mapRepoProductToDomain(p repository.Product) domain.Product {
	return domain.Product{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Category:    p.Category,
		Price:       p.Price,
		Stock:       p.Stock,
		TrackStock:  p.TrackStock,
		Status:      domain.ProductStatus(p.Status),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func mapRepoProductsToDomain(rows []repository.Product) []domain.Product {
	products := make([]domain.Product, len(rows))
	for i, row := range rows {
		products[i] = mapRepoProductToDomain(row)
	}
	return products
}

// mapRepoUserToDomain converts a repository User to a domain Account.
func mapRepoUserToDomain(u repository.User) *domain.Account {
	return &domain.Account{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Role:         domain.Role(u.Role),
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func mapRepoUsersToDomain(rows []repository.User) []domain.Account {
	users := make([]domain.Account, len(rows))
	for i, row := range rows {
		users[i] = *mapRepoUserToDomain(row)
	}
	return users
}

func nullDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *d, Valid: true}
}

// sortColumn maps a listing sort field to its repository key.
func sortColumn(sort domain.ProductSort) string {
	switch sort {
	case domain.SortByPrice:
		return repository.ProductSortPrice
	case domain.SortByName:
		return repository.ProductSortName
	default:
		return repository.ProductSortCreated
	}
}
