package api

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// maxPageLimit caps the per-page row count regardless of what the caller asks
// for.
const maxPageLimit = 100

// Pagination is the envelope attached to every list response.
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

// pageParams reads page/limit from the query string, falling back to
// defaultLimit and clamping limit to maxPageLimit.
func pageParams(c *gin.Context, defaultLimit int) (page, limit, offset int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}

	limit, _ = strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultLimit)))
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	return page, limit, (page - 1) * limit
}

// newPagination derives totalPages as ceil(total/limit).
func newPagination(page, limit int, total int64) Pagination {
	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return Pagination{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
	}
}

// listResponse is the {data, pagination} list envelope.
type listResponse struct {
	Data       any        `json:"data"`
	Pagination Pagination `json:"pagination"`
}
