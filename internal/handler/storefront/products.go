package storefront

import (
	"net/http"
	"strconv"

	"github.com/dukerupert/vendora/internal/domain"
	"github.com/dukerupert/vendora/internal/handler"
)

// ProductHandler serves the public catalog
type ProductHandler struct {
	productService domain.ProductService
}

// NewProductHandler creates a new product handler
func NewProductHandler(productService domain.ProductService) *ProductHandler {
	return &ProductHandler{
		productService: productService,
	}
}

// List handles GET /api/products
//
// Query parameters: category, search, minPrice, maxPrice, sortBy (createdAt,
// price, name), sortOrder, page, limit. Only active products are listed.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	filter, err := handler.ProductFilter(r, "product.list")
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	filter.Status = domain.ProductStatusActive

	result, err := h.productService.List(r.Context(), filter)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	handler.JSON(w, http.StatusOK, result)
}

// Categories handles GET /api/products/categories/all
func (h *ProductHandler) Categories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.productService.Categories(r.Context())
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.JSON(w, http.StatusOK, map[string][]string{"categories": categories})
}

// Show handles GET /api/products/{id}
func (h *ProductHandler) Show(w http.ResponseWriter, r *http.Request) {
	const op = "product.get"

	id, err := handler.PathUUID(r, "id", op)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	product, err := h.productService.Get(r.Context(), id)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	// Drafts and archived products are not part of the public catalog.
	if product.Status != domain.ProductStatusActive && !domain.IsAdmin(r.Context()) {
		handler.ErrorResponse(w, r, domain.WithOp(domain.ErrProductNotFound, op))
		return
	}

	handler.JSON(w, http.StatusOK, product)
}

// pagination reads page and limit query parameters. Bad values fall back to
// the defaults applied by domain.NormalizePage.
func pagination(r *http.Request) (int, int) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))
	return page, limit
}
