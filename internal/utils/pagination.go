// internal/utils/pagination.go
package utils

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Pagination mirrors the shape the storefront client expects.
type Pagination struct {
	CurrentPage int   `json:"currentPage"`
	TotalPages  int   `json:"totalPages"`
	TotalItems  int64 `json:"totalItems"`
	HasNext     bool  `json:"hasNext"`
	HasPrev     bool  `json:"hasPrev"`
}

type PaginationParams struct {
	Page     int
	PageSize int
	SortBy   string
	SortDir  string
}

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

func GetPaginationParams(c *gin.Context) PaginationParams {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}

	pageSize, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(DefaultPageSize)))
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}

	sortBy := c.DefaultQuery("sort_by", "created_at")
	sortDir := strings.ToLower(c.DefaultQuery("sort_dir", "desc"))
	if sortDir != "asc" && sortDir != "desc" {
		sortDir = "desc"
	}

	return PaginationParams{
		Page:     page,
		PageSize: pageSize,
		SortBy:   sortBy,
		SortDir:  sortDir,
	}
}

func (p PaginationParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

func ApplyPagination(query *gorm.DB, params PaginationParams) *gorm.DB {
	return query.Offset(params.Offset()).Limit(params.PageSize)
}

// ApplySort orders the query by params.SortBy when the column is in the
// allow list, otherwise falls back to created_at.
func ApplySort(query *gorm.DB, params PaginationParams, allowedFields map[string]bool) *gorm.DB {
	sortBy := params.SortBy
	if !allowedFields[sortBy] {
		sortBy = "created_at"
	}
	return query.Order(sortBy + " " + params.SortDir)
}

func NewPagination(params PaginationParams, totalItems int64) Pagination {
	totalPages := int((totalItems + int64(params.PageSize) - 1) / int64(params.PageSize))
	if totalPages < 1 {
		totalPages = 1
	}
	return Pagination{
		CurrentPage: params.Page,
		TotalPages:  totalPages,
		TotalItems:  totalItems,
		HasNext:     params.Page < totalPages,
		HasPrev:     params.Page > 1,
	}
}
