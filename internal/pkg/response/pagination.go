package response

import (
	"net/url"
	"strconv"
)

// Pagination reads page and limit from query params.
// Invalid or out of range values fall back to page 1 and defaultLimit.
func Pagination(q url.Values, defaultLimit, maxLimit int) (page, limit int) {
	page, limit = 1, defaultLimit
	if p := q.Get("page"); p != "" {
		if v, err := strconv.Atoi(p); err == nil && v > 0 {
			page = v
		}
	}
	if l := q.Get("limit"); l != "" {
		if v, err := strconv.Atoi(l); err == nil && v > 0 && v <= maxLimit {
			limit = v
		}
	}
	return page, limit
}
