package utils

import (
	"math"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePage(t *testing.T) {
	cases := []struct {
		query       string
		page, limit int
	}{
		{"", 1, 10},
		{"?page=3&limit=25", 3, 25},
		{"?page=0&limit=-5", 1, 10},
		{"?page=abc&limit=xyz", 1, 10},
		{"?limit=1000", 1, MaxLimit},
		{"?page=2305843009213693953&limit=8", 2305843009213693953, 8},
	}
	for _, tc := range cases {
		r := httptest.NewRequest("GET", "/api/users"+tc.query, nil)
		page, limit := ParsePage(r)
		assert.Equal(t, tc.page, page, tc.query)
		assert.Equal(t, tc.limit, limit, tc.query)
	}
}

func TestNewPagination(t *testing.T) {
	p := NewPagination(1, 10, 25)
	assert.Equal(t, 3, p.TotalPages)
	assert.True(t, p.HasNext)
	assert.False(t, p.HasPrev)

	p = NewPagination(3, 10, 25)
	assert.False(t, p.HasNext)
	assert.True(t, p.HasPrev)

	// beyond range: accurate metadata, no next page
	p = NewPagination(7, 10, 25)
	assert.Equal(t, 7, p.CurrentPage)
	assert.Equal(t, 3, p.TotalPages)
	assert.False(t, p.HasNext)
	assert.True(t, p.HasPrev)

	p = NewPagination(1, 10, 0)
	assert.Equal(t, 0, p.TotalPages)
	assert.False(t, p.HasNext)
}

func TestOffset(t *testing.T) {
	assert.Equal(t, 0, Offset(1, 10))
	assert.Equal(t, 20, Offset(3, 10))
	assert.Equal(t, math.MaxInt, Offset(2305843009213693953, 8))
	assert.Equal(t, math.MaxInt, Offset(4611686018427387904, 4))
}

func TestPastEnd(t *testing.T) {
	assert.False(t, PastEnd(1, 10, 25))
	assert.False(t, PastEnd(3, 10, 25))
	assert.True(t, PastEnd(4, 10, 25))
	assert.True(t, PastEnd(1, 10, 0))
	assert.True(t, PastEnd(2305843009213693953, 8, 3))
	assert.True(t, PastEnd(math.MaxInt, 1, 3))
}

func TestLikePattern(t *testing.T) {
	assert.Equal(t, "%mug%", LikePattern("  MUG "))
	assert.Equal(t, `%50\%\_off\\%`, LikePattern(`50%_off\`))
}
