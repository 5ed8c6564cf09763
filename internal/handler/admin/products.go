package admin

import (
	"net/http"

	"github.com/dukerupert/vendora/internal/domain"
	"github.com/dukerupert/vendora/internal/handler"
	"github.com/shopspring/decimal"
)

// ProductHandler serves catalog management routes
type ProductHandler struct {
	productService domain.ProductService
}

// NewProductHandler creates a new admin product handler
func NewProductHandler(productService domain.ProductService) *ProductHandler {
	return &ProductHandler{
		productService: productService,
	}
}

type productRequest struct {
	Name        string           `json:"name" validate:"required,max=200"`
	Description string           `json:"description" validate:"max=5000"`
	Category    string           `json:"category" validate:"max=100"`
	Price       *decimal.Decimal `json:"price" validate:"required"`
	Stock       int32            `json:"stock" validate:"gte=0"`
	TrackStock  *bool            `json:"trackStock"`
	Status      string           `json:"status" validate:"omitempty,oneof=draft active archived"`
}

func (req productRequest) toInput() domain.ProductInput {
	track := true
	if req.TrackStock != nil {
		track = *req.TrackStock
	}
	return domain.ProductInput{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Price:       *req.Price,
		Stock:       req.Stock,
		TrackStock:  track,
		Status:      domain.ProductStatus(req.Status),
	}
}

type stockRequest struct {
	Delta *int32 `json:"delta" validate:"required"`
}

// List handles GET /api/admin/products
//
// Unlike the storefront listing, every status is included unless filtered.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	filter, err := handler.ProductFilter(r, "product.list")
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	filter.Status = domain.ProductStatus(r.URL.Query().Get("status"))

	result, err := h.productService.List(r.Context(), filter)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.JSON(w, http.StatusOK, result)
}

// Create handles POST /api/admin/products
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	const op = "product.create"

	var req productRequest
	if err := handler.DecodeJSON(r, op, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	product, err := h.productService.Create(r.Context(), req.toInput())
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.JSON(w, http.StatusCreated, product)
}

// Update handles PUT /api/admin/products/{id}
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	const op = "product.update"

	id, err := handler.PathUUID(r, "id", op)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	var req productRequest
	if err := handler.DecodeJSON(r, op, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	product, err := h.productService.Update(r.Context(), id, req.toInput())
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.JSON(w, http.StatusOK, product)
}

// Delete handles DELETE /api/admin/products/{id}
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	const op = "product.delete"

	id, err := handler.PathUUID(r, "id", op)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	if err := h.productService.Delete(r.Context(), id); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.Message(w, http.StatusOK, "Product deleted successfully")
}

// AdjustStock handles PATCH /api/admin/products/{id}/stock
func (h *ProductHandler) AdjustStock(w http.ResponseWriter, r *http.Request) {
	const op = "product.adjust_stock"

	id, err := handler.PathUUID(r, "id", op)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	var req stockRequest
	if err := handler.DecodeJSON(r, op, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	product, err := h.productService.AdjustStock(r.Context(), id, *req.Delta)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.JSON(w, http.StatusOK, product)
}
