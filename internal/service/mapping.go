package service

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dukerupert/vendora/internal/domain"
	"github.com/dukerupert/vendora/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

// Stored JSON documents use their own snake_case shapes so the API types
// can change without rewriting rows.

type variantDoc struct {
	Name   string `json:"name,omitempty"`
	Option string `json:"option,omitempty"`
}

type cartItemDoc struct {
	ProductID uuid.UUID  `json:"product_id"`
	Quantity  int32      `json:"quantity"`
	Variant   variantDoc `json:"variant"`
}

type orderItemDoc struct {
	ProductID uuid.UUID       `json:"product_id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int32           `json:"quantity"`
	Variant   variantDoc      `json:"variant"`
	LineTotal decimal.Decimal `json:"line_total"`
}

type addressDoc struct {
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Email      string `json:"email"`
	Phone      string `json:"phone,omitempty"`
	Street     string `json:"street"`
	City       string `json:"city"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

type noteDoc struct {
	Text      string    `json:"text"`
	Author    string    `json:"author,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// =============================================================================
// PRODUCTS
// =============================================================================

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

// =============================================================================
// CARTS
// =============================================================================

func encodeCartItems(items []domain.CartItem) ([]byte, error) {
	docs := make([]cartItemDoc, len(items))
	for i, item := range items {
		docs[i] = cartItemDoc{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Variant:   variantDoc(item.Variant),
		}
	}
	return json.Marshal(docs)
}

func decodeCartItems(raw []byte) ([]domain.CartItem, error) {
	items := []domain.CartItem{}
	if len(raw) == 0 {
		return items, nil
	}
	var docs []cartItemDoc
	if err := json.Unmarshal(raw, &docs); err != nil {
		return nil, fmt.Errorf("decode cart items: %w", err)
	}
	for _, d := range docs {
		items = append(items, domain.CartItem{
			ProductID: d.ProductID,
			Quantity:  d.Quantity,
			Variant:   domain.Variant(d.Variant),
		})
	}
	return items, nil
}

func mapRepoCartToDomain(row repository.Cart) (*domain.Cart, error) {
	items, err := decodeCartItems(row.Items)
	if err != nil {
		return nil, err
	}
	return &domain.Cart{
		UserID:     row.UserID,
		Items:      items,
		CouponCode: row.CouponCode.String,
		CreatedAt:  row.CreatedAt,
		UpdatedAt:  row.UpdatedAt,
	}, nil
}

func upsertCartParams(cart *domain.Cart) (repository.UpsertCartParams, error) {
	items, err := encodeCartItems(cart.Items)
	if err != nil {
		return repository.UpsertCartParams{}, err
	}
	return repository.UpsertCartParams{
		UserID:     cart.UserID,
		Items:      items,
		CouponCode: text(cart.CouponCode),
	}, nil
}

// =============================================================================
// ORDERS
// =============================================================================

func encodeOrderItems(items []domain.OrderItem) ([]byte, error) {
	docs := make([]orderItemDoc, len(items))
	for i, item := range items {
		docs[i] = orderItemDoc{
			ProductID: item.ProductID,
			Name:      item.Name,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
			Variant:   variantDoc(item.Variant),
			LineTotal: item.LineTotal,
		}
	}
	return json.Marshal(docs)
}

func decodeOrderItems(raw []byte) ([]domain.OrderItem, error) {
	var docs []orderItemDoc
	if err := json.Unmarshal(raw, &docs); err != nil {
		return nil, fmt.Errorf("decode order items: %w", err)
	}
	items := make([]domain.OrderItem, len(docs))
	for i, d := range docs {
		items[i] = domain.OrderItem{
			ProductID: d.ProductID,
			Name:      d.Name,
			UnitPrice: d.UnitPrice,
			Quantity:  d.Quantity,
			Variant:   domain.Variant(d.Variant),
			LineTotal: d.LineTotal,
		}
	}
	return items, nil
}

func encodeAddress(a domain.Address) ([]byte, error) {
	return json.Marshal(addressDoc(a))
}

func decodeAddress(raw []byte) (domain.Address, error) {
	var d addressDoc
	if err := json.Unmarshal(raw, &d); err != nil {
		return domain.Address{}, fmt.Errorf("decode address: %w", err)
	}
	return domain.Address(d), nil
}

func encodeNotes(notes []domain.OrderNote) ([]byte, error) {
	docs := make([]noteDoc, len(notes))
	for i, n := range notes {
		docs[i] = noteDoc(n)
	}
	return json.Marshal(docs)
}

func decodeNotes(raw []byte) ([]domain.OrderNote, error) {
	notes := []domain.OrderNote{}
	if len(raw) == 0 {
		return notes, nil
	}
	var docs []noteDoc
	if err := json.Unmarshal(raw, &docs); err != nil {
		return nil, fmt.Errorf("decode order notes: %w", err)
	}
	for _, d := range docs {
		notes = append(notes, domain.OrderNote(d))
	}
	return notes, nil
}

func mapRepoOrderToDomain(row repository.Order) (*domain.Order, error) {
	items, err := decodeOrderItems(row.Items)
	if err != nil {
		return nil, err
	}
	shippingAddr, err := decodeAddress(row.ShippingAddress)
	if err != nil {
		return nil, err
	}
	billingAddr, err := decodeAddress(row.BillingAddress)
	if err != nil {
		return nil, err
	}
	notes, err := decodeNotes(row.Notes)
	if err != nil {
		return nil, err
	}

	order := &domain.Order{
		ID:          row.ID,
		OrderNumber: row.OrderNumber,
		UserID:      row.UserID,
		Items:       items,
		Totals: domain.Totals{
			ItemsSubtotal:  row.ItemsSubtotal,
			DiscountAmount: row.DiscountAmount,
			Subtotal:       row.Subtotal,
			ShippingCost:   row.ShippingCost,
			TaxAmount:      row.TaxAmount,
			TotalAmount:    row.TotalAmount,
			CouponCode:     row.CouponCode.String,
		},
		ShippingAddress: shippingAddr,
		BillingAddress:  billingAddr,
		PaymentMethod:   domain.PaymentMethod(row.PaymentMethod),
		Status:          domain.FulfillmentStatus(row.Status),
		PaymentStatus:   domain.PaymentStatus(row.PaymentStatus),
		TransactionID:   row.TransactionID.String,
		Notes:           notes,
		PaidAt:          timePtr(row.PaidAt),
		ShippedAt:       timePtr(row.ShippedAt),
		DeliveredAt:     timePtr(row.DeliveredAt),
		CancelledAt:     timePtr(row.CancelledAt),
		CreatedAt:       row.CreatedAt,
		UpdatedAt:       row.UpdatedAt,
	}
	if row.Carrier.Valid || row.TrackingNumber.Valid {
		order.Tracking = &domain.Tracking{
			Carrier:           row.Carrier.String,
			TrackingNumber:    row.TrackingNumber.String,
			EstimatedDelivery: timePtr(row.EstimatedDelivery),
		}
	}
	return order, nil
}

func mapRepoOrdersToDomain(rows []repository.Order) ([]domain.Order, error) {
	orders := make([]domain.Order, 0, len(rows))
	for _, row := range rows {
		order, err := mapRepoOrderToDomain(row)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *order)
	}
	return orders, nil
}

// stateParams copies the mutable columns of row so callers only set what changes.
func stateParams(row repository.Order) repository.UpdateOrderStateParams {
	return repository.UpdateOrderStateParams{
		ID:                row.ID,
		Status:            row.Status,
		PaymentStatus:     row.PaymentStatus,
		TransactionID:     row.TransactionID,
		Carrier:           row.Carrier,
		TrackingNumber:    row.TrackingNumber,
		EstimatedDelivery: row.EstimatedDelivery,
		Notes:             row.Notes,
		PaidAt:            row.PaidAt,
		ShippedAt:         row.ShippedAt,
		DeliveredAt:       row.DeliveredAt,
		CancelledAt:       row.CancelledAt,
	}
}

// =============================================================================
// PGTYPE HELPERS
// =============================================================================

func text(s string) pgtype.Text {
	return pgtype.Text{String: s, Valid: s != ""}
}

func timestamptz(t time.Time) pgtype.Timestamptz {
	return pgtype.Timestamptz{Time: t, Valid: true}
}

func optionalTimestamptz(t *time.Time) pgtype.Timestamptz {
	if t == nil {
		return pgtype.Timestamptz{}
	}
	return timestamptz(*t)
}

func timePtr(ts pgtype.Timestamptz) *time.Time {
	if !ts.Valid {
		return nil
	}
	t := ts.Time
	return &t
}

// compareIDs orders UUIDs by their bytes, matching PostgreSQL uuid ordering.
func compareIDs(a, b uuid.UUID) int {
	return bytes.Compare(a[:], b[:])
}
