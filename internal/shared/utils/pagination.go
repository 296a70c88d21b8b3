package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/tillgate/tillgate/internal/shared/db"
)

// Pagination is a 1-based page request taken from the query string.
type Pagination struct {
	Page     int
	PageSize int
}

// ParsePagination reads page and page_size. Missing or non-numeric values
// fall back to the defaults; page_size is capped at the maximum.
func ParsePagination(c *gin.Context) Pagination {
	page, pageSize := db.NormalizePage(queryInt(c, "page"), queryInt(c, "page_size"))
	return Pagination{Page: page, PageSize: pageSize}
}

func queryInt(c *gin.Context, key string) int {
	n, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return 0
	}
	return n
}

// TotalPages is never less than one so an empty listing still reports a page.
func TotalPages(total int64, pageSize int) int {
	if total <= 0 || pageSize <= 0 {
		return 1
	}
	return int((total + int64(pageSize) - 1) / int64(pageSize))
}
