// Package pagination pages transaction listings. Pages are 1-based and
// sized in rows, never in money.
package pagination

import (
	"math"

	"gorm.io/gorm"
)

// Page sizes for transaction listings. A month of daily spending fits on
// one default page.
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// PageRequest is the page selection bound from a listing query string.
type PageRequest struct {
	Page     int `form:"page" binding:"omitempty,min=1"`
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// Normalize replaces missing values with the defaults and caps PageSize
// at MaxPageSize. Callers that build a PageRequest directly get the same
// bounds the query binding enforces.
func (p *PageRequest) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = DefaultPageSize
	}
	if p.PageSize > MaxPageSize {
		p.PageSize = MaxPageSize
	}
}

// Offset converts the 1-based page number into a row offset.
func (p *PageRequest) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// PageResponse is one page of results plus the counts a client needs to
// render pager controls.
type PageResponse[T any] struct {
	Data       []T   `json:"data"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalItems int64 `json:"total_items"`
	TotalPages int   `json:"total_pages"`
}

// NewPageResponse assembles a page. An empty page serializes as a JSON
// array, not null.
func NewPageResponse[T any](data []T, page, pageSize int, totalItems int64) PageResponse[T] {
	if data == nil {
		data = []T{}
	}
	return PageResponse[T]{
		Data:       data,
		Page:       page,
		PageSize:   pageSize,
		TotalItems: totalItems,
		TotalPages: int(math.Ceil(float64(totalItems) / float64(pageSize))),
	}
}

// Paginate is a GORM scope applying the request's offset and limit. The
// request must already be normalized.
func Paginate(req PageRequest) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(req.Offset()).Limit(req.PageSize)
	}
}
