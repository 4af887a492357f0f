package listutil

import (
	"net/url"
	"strconv"
	"strings"
)

// Pagination bounds for list endpoints.
const (
	DefaultLimit = 10
	MaxLimit     = 100
)

// PageParams carries pagination parameters parsed from a request.
type PageParams struct {
	Page  int // 1-indexed page number
	Limit int // rows per page
}

// FilterParams carries search and filter parameters.
type FilterParams struct {
	Search  string            // free-text search query
	Filters map[string]string // exact-match filters (e.g. status=ACTIVE)
}

// Get returns the named filter value or "".
func (f FilterParams) Get(key string) string {
	return f.Filters[key]
}

// ListParams combines all list parameters.
type ListParams struct {
	PageParams
	FilterParams
}

// Page is the paginated response envelope.
type Page[T any] struct {
	Data       []T `json:"data"`
	Total      int `json:"total"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"totalPages"`
}

// NewPageParams clamps page and limit into their valid ranges.
// PRE: none
// POST: Page >= 1, 1 <= Limit <= MaxLimit
func NewPageParams(page, limit int) PageParams {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return PageParams{Page: page, Limit: limit}
}

// ParsePageParams extracts page and limit from URL query values.
// PRE: none
// POST: returns valid PageParams with defaults applied
func ParsePageParams(q url.Values) PageParams {
	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))
	return NewPageParams(page, limit)
}

// ParseFilterParams extracts search and named filters from URL query values.
// PRE: filterKeys lists the allowed filter parameter names
// POST: returns FilterParams with only recognised, non-blank keys
func ParseFilterParams(q url.Values, filterKeys []string) FilterParams {
	fp := FilterParams{
		Search:  strings.TrimSpace(q.Get("search")),
		Filters: make(map[string]string),
	}
	for _, key := range filterKeys {
		if v := strings.TrimSpace(q.Get(key)); v != "" {
			fp.Filters[key] = v
		}
	}
	return fp
}

// ParseListParams parses all list parameters from URL query values.
func ParseListParams(q url.Values, filterKeys []string) ListParams {
	return ListParams{
		PageParams:   ParsePageParams(q),
		FilterParams: ParseFilterParams(q, filterKeys),
	}
}

// Offset returns the SQL OFFSET for the current page.
// PRE: PageParams is valid
// POST: Returns (Page-1) * Limit
func (p PageParams) Offset() int {
	return (p.Page - 1) * p.Limit
}

// TotalPages returns ceil(total/limit); zero when there are no rows.
func TotalPages(total, limit int) int {
	if limit < 1 || total <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}

// NewPage wraps one page of rows with its metadata.
// PRE: data holds at most p.Limit rows
// POST: Data is never nil so it encodes as []
func NewPage[T any](data []T, total int, p PageParams) Page[T] {
	if data == nil {
		data = []T{}
	}
	return Page[T]{
		Data:       data,
		Total:      total,
		Page:       p.Page,
		Limit:      p.Limit,
		TotalPages: TotalPages(total, p.Limit),
	}
}

// MapPage converts the rows of a page while keeping its metadata.
func MapPage[T, U any](p Page[T], fn func(T) U) Page[U] {
	out := make([]U, len(p.Data))
	for i, v := range p.Data {
		out[i] = fn(v)
	}
	return Page[U]{Data: out, Total: p.Total, Page: p.Page, Limit: p.Limit, TotalPages: p.TotalPages}
}
