package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/dukerupert/vendora/internal/domain"
	"github.com/shopspring/decimal"
)

// ProductFilter reads the catalog listing query: category, search, page,
// limit, minPrice, maxPrice, sortBy and sortOrder (asc or desc, default desc).
// Status is left for the caller to set.
func ProductFilter(r *http.Request, op string) (domain.ProductFilter, error) {
	q := r.URL.Query()

	filter := domain.ProductFilter{
		Category: q.Get("category"),
		Search:   q.Get("search"),
		SortBy:   domain.ProductSort(q.Get("sortBy")),
	}
	filter.Page, _ = strconv.Atoi(q.Get("page"))
	filter.Limit, _ = strconv.Atoi(q.Get("limit"))

	var verr error
	filter.MinPrice, verr = queryDecimal(q.Get("minPrice"), "minPrice", verr)
	filter.MaxPrice, verr = queryDecimal(q.Get("maxPrice"), "maxPrice", verr)

	switch strings.ToLower(q.Get("sortOrder")) {
	case "", "desc":
	case "asc":
		filter.Ascending = true
	default:
		verr = domain.AddFieldError(verr, "sortOrder", "sortOrder must be asc or desc")
	}

	if verr != nil {
		if ve, ok := verr.(*domain.ValidationError); ok {
			ve.Op = op
		}
		return filter, verr
	}
	return filter, nil
}

func queryDecimal(v, field string, verr error) (*decimal.Decimal, error) {
	if v == "" {
		return nil, verr
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return nil, domain.AddFieldError(verr, field, field+" must be a number")
	}
	return &d, verr
}
