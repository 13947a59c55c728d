package httpx

import (
	"net/http"
	"strconv"

	"github.com/wiqayah/admin-console/internal/domain/admin"
)

// parseIntQuery returns the integer value of a query param or a default.
func parseIntQuery(r *http.Request, key string, def int) int {
	if v := r.URL.Query().Get(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

// ParsePage reads the page/limit query pair used by backend-backed lists.
func ParsePage(r *http.Request) (page, limit int) {
	return admin.NormalizePage(parseIntQuery(r, "page", 1), parseIntQuery(r, "limit", admin.DefaultPageSize))
}
