package handlers

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// paginationMeta is the pagination block attached to every list response.
type paginationMeta struct {
	CurrentPage int64 `json:"current_page"`
	TotalPages  int64 `json:"total_pages"`
	TotalCount  int64 `json:"total_count"`
	HasNext     bool  `json:"has_next"`
	HasPrev     bool  `json:"has_prev"`
}

// parsePaginationParams returns the 1-indexed page and the page size, with
// the size clamped to [1,100] and defaulted to 20.
func parsePaginationParams(pageStr, limitStr string) (int64, int64, error) {
	page := int64(1)
	limit := int64(defaultPageSize)

	if pageStr != "" {
		p, err := strconv.ParseInt(pageStr, 10, 64)
		if err != nil || p < 1 {
			return 0, 0, fmt.Errorf("invalid page %q", pageStr)
		}
		page = p
	}

	if limitStr != "" {
		l, err := strconv.ParseInt(limitStr, 10, 64)
		if err != nil || l < 1 {
			return 0, 0, fmt.Errorf("invalid limit %q", limitStr)
		}
		if l > maxPageSize {
			l = maxPageSize
		}
		limit = l
	}

	return page, limit, nil
}

// newPaginationMeta derives total pages by ceiling division and the
// has-next/has-prev flags from the current page.
func newPaginationMeta(page, limit, total int64) paginationMeta {
	totalPages := (total + limit - 1) / limit
	return paginationMeta{
		CurrentPage: page,
		TotalPages:  totalPages,
		TotalCount:  total,
		HasNext:     page < totalPages,
		HasPrev:     page > 1,
	}
}

func paginationQuery(c *gin.Context) (int64, int64, error) {
	return parsePaginationParams(c.Query("page"), c.Query("limit"))
}
