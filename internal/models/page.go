package models

import "math"

const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
	MaxPage          = math.MaxInt32
)

// ListOptions selects a page of results. A zero Limit means every document.
type ListOptions struct {
	Page  int
	Limit int
}

// Paginated reports whether a limit applies.
func (o ListOptions) Paginated() bool { return o.Limit > 0 }

// Offset is the number of documents skipped before the page. It saturates at [math.MaxInt] instead of overflowing.
func (o ListOptions) Offset() int {
	if !o.Paginated() || o.Page <= 1 {
		return 0
	}
	if o.Page-1 > math.MaxInt/o.Limit {
		return math.MaxInt
	}
	return (o.Page - 1) * o.Limit
}

// Page is one page of a listing.
type Page[T any] struct {
	Items []T
	Total int
	Page  int
	Limit int
}

// TotalPages is the number of pages needed for Total items, at least 1.
func (p Page[T]) TotalPages() int {
	if p.Limit <= 0 || p.Total == 0 {
		return 1
	}
	return (p.Total + p.Limit - 1) / p.Limit
}
