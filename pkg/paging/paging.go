// Package paging slices listings into fixed-size pages.
package paging

// Page sizes used across the storefront and back office.
const (
	CartPerPage          = 5
	ProductsPerPage      = 6
	AdminOrdersPerPage   = 5
	AdminProductsPerPage = 12
)

// TotalPages is ceil(n/perPage), never less than 1.
func TotalPages(n, perPage int) int {
	if perPage <= 0 || n <= 0 {
		return 1
	}
	return (n + perPage - 1) / perPage
}

// Slice returns the 1-based page of items. Out-of-range pages are clamped.
func Slice[T any](items []T, page, perPage int) []T {
	if perPage <= 0 {
		return items
	}
	page = Clamp(page, len(items), perPage)
	start := (page - 1) * perPage
	if start >= len(items) {
		return []T{}
	}
	end := min(start+perPage, len(items))
	return items[start:end]
}

// Clamp bounds page to [1, TotalPages].
func Clamp(page, n, perPage int) int {
	last := TotalPages(n, perPage)
	if page < 1 {
		return 1
	}
	if page > last {
		return last
	}
	return page
}

type Page[T any] struct {
	Items      []T `json:"items"`
	Page       int `json:"page"`
	PerPage    int `json:"perPage"`
	TotalItems int `json:"totalItems"`
	TotalPages int `json:"totalPages"`
}

func New[T any](items []T, page, perPage int) Page[T] {
	return Page[T]{
		Items:      Slice(items, page, perPage),
		Page:       Clamp(page, len(items), perPage),
		PerPage:    perPage,
		TotalItems: len(items),
		TotalPages: TotalPages(len(items), perPage),
	}
}
