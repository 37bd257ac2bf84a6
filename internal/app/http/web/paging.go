package web

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

const DefaultPageSize = 15

type Pagination struct {
	Page     int   `json:"current_page"`
	PerPage  int   `json:"per_page"`
	Total    int64 `json:"total"`
	LastPage int   `json:"last_page"`
}

func (p Pagination) Offset() int {
	return (p.Page - 1) * p.PerPage
}

// Paginate reads ?page= (1-based, clamped to 1) for a listing of the given size.
func Paginate(c *gin.Context, perPage int) Pagination {
	page, err := strconv.Atoi(c.Query("page"))
	if err != nil || page < 1 {
		page = 1
	}
	if perPage <= 0 {
		perPage = DefaultPageSize
	}
	return Pagination{Page: page, PerPage: perPage}
}

// WithTotal fills in the total row count and the last page number.
func (p Pagination) WithTotal(total int64) Pagination {
	p.Total = total
	p.LastPage = int((total + int64(p.PerPage) - 1) / int64(p.PerPage))
	if p.LastPage < 1 {
		p.LastPage = 1
	}
	return p
}

// ParseID reads a positive integer path parameter.
func ParseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
