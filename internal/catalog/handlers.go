package catalog

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/EmpoweredVote/EV-Dashboard/internal/apierror"
	"github.com/EmpoweredVote/EV-Dashboard/internal/utils"
)

const (
	defaultLimit = 12
	maxLimit     = 100
)

// queryInt reads a non-negative integer parameter; anything else is def.
func queryInt(r *http.Request, name string, def int) int {
	n, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil || n < 0 {
		return def
	}
	return n
}

func clampLimit(n int) int {
	if n <= 0 {
		return defaultLimit
	}
	if n > maxLimit {
		return maxLimit
	}
	return n
}

type handlers struct {
	client *Client
}

func (h handlers) products(w http.ResponseWriter, r *http.Request) {
	limit := clampLimit(queryInt(r, "limit", defaultLimit))
	skip := queryInt(r, "skip", 0)
	q := strings.TrimSpace(r.URL.Query().Get("q"))

	body, err := h.client.Products(r.Context(), limit, skip, q)
	if err != nil {
		apierror.Write(w, r, apierror.Upstream("Catalog is unavailable", err))
		return
	}
	utils.JSON(w, r, http.StatusOK, body)
}

func (h handlers) categories(w http.ResponseWriter, r *http.Request) {
	body, err := h.client.Categories(r.Context())
	if err != nil {
		apierror.Write(w, r, apierror.Upstream("Catalog is unavailable", err))
		return
	}
	utils.JSON(w, r, http.StatusOK, body)
}

func (h handlers) topRated(w http.ResponseWriter, r *http.Request) {
	limit := clampLimit(queryInt(r, "limit", 5))

	body, err := h.client.TopRated(r.Context(), limit)
	if err != nil {
		apierror.Write(w, r, apierror.Upstream("Catalog is unavailable", err))
		return
	}
	utils.JSON(w, r, http.StatusOK, body)
}
