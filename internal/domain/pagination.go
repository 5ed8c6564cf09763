package domain

// Listing page sizes.
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// NormalizePage clamps a 1-based page number and a page size into range and
// returns them with the row offset of the page.
func NormalizePage(page, limit int) (int, int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	return page, limit, (page - 1) * limit
}
