package utils

import (
	"strconv"
	"strings"
)

const (
	DefaultPage     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// PageParams are validated pagination inputs.
type PageParams struct {
	Page     int
	PageSize int
}

// ParsePageParams parses page/pageSize query values with defaults 1/20,
// clamping pageSize to [1,100].
func ParsePageParams(pageStr, pageSizeStr string) PageParams {
	p := PageParams{
		Page:     parseIntDefault(pageStr, DefaultPage),
		PageSize: parseIntDefault(pageSizeStr, DefaultPageSize),
	}
	if p.Page < 1 {
		p.Page = DefaultPage
	}
	if p.PageSize < 1 {
		p.PageSize = DefaultPageSize
	}
	if p.PageSize > MaxPageSize {
		p.PageSize = MaxPageSize
	}
	return p
}

func (p PageParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// PaginatedResponse is the standard list envelope.
type PaginatedResponse struct {
	Items           any   `json:"items"`
	Total           int64 `json:"total"`
	Page            int   `json:"page"`
	PageSize        int   `json:"page_size"`
	TotalPages      int   `json:"total_pages"`
	HasNextPage     bool  `json:"has_next_page"`
	HasPreviousPage bool  `json:"has_previous_page"`
}

func NewPaginatedResponse(items any, total int64, p PageParams) PaginatedResponse {
	totalPages := int((total + int64(p.PageSize) - 1) / int64(p.PageSize))
	return PaginatedResponse{
		Items:           items,
		Total:           total,
		Page:            p.Page,
		PageSize:        p.PageSize,
		TotalPages:      totalPages,
		HasNextPage:     p.Page < totalPages,
		HasPreviousPage: p.Page > 1,
	}
}

func parseIntDefault(s string, def int) int {
	if v, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
		return v
	}
	return def
}
