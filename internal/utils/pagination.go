package utils

import (
	"math"
	"net/http"
	"strconv"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// Pagination is the metadata every list endpoint returns next to its page.
type Pagination struct {
	CurrentPage  int   `json:"currentPage"`
	TotalPages   int   `json:"totalPages"`
	TotalItems   int64 `json:"totalItems"`
	ItemsPerPage int   `json:"itemsPerPage"`
	HasNext      bool  `json:"hasNext"`
	HasPrev      bool  `json:"hasPrev"`
}

// ParsePage reads page and limit from the query string. Missing, malformed or
// non-positive values fall back to the defaults; limit is capped at MaxLimit.
func ParsePage(r *http.Request) (page, limit int) {
	q := r.URL.Query()
	page = positiveInt(q.Get("page"), DefaultPage)
	limit = positiveInt(q.Get("limit"), DefaultLimit)
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return page, limit
}

// Offset is the number of rows to skip for page. It saturates at
// math.MaxInt instead of overflowing.
func Offset(page, limit int) int {
	if page <= 1 || limit <= 0 {
		return 0
	}
	if page-1 > math.MaxInt/limit {
		return math.MaxInt
	}
	return (page - 1) * limit
}

// PastEnd reports whether page lies beyond the last page of total rows.
func PastEnd(page, limit int, total int64) bool {
	if limit <= 0 {
		return true
	}
	totalPages := (total + int64(limit) - 1) / int64(limit)
	return int64(page) > totalPages
}

func NewPagination(page, limit int, total int64) Pagination {
	totalPages := 0
	if limit > 0 {
		totalPages = int((total + int64(limit) - 1) / int64(limit))
	}
	return Pagination{
		CurrentPage:  page,
		TotalPages:   totalPages,
		TotalItems:   total,
		ItemsPerPage: limit,
		HasNext:      page < totalPages,
		HasPrev:      page > 1,
	}
}

func positiveInt(s string, def int) int {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return def
	}
	return n
}
