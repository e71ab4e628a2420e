// Package option provides composable gorm query modifiers.
package option

import (
	"strings"

	"github.com/tiffinlabs/mealgrid/pkg/db/pagination"
	"gorm.io/gorm"
)

// QueryOption mutates a gorm query before execution.
type QueryOption func(*gorm.DB) *gorm.DB

// QuerySortBy restricts sortable columns to an allow list.
type QuerySortBy struct {
	Allow   map[string]bool
	SortBy  string
	OrderBy string
}

// ApplyPagination over-fetches one row past the page size so the caller can
// detect whether more records exist, seeking past the cursor when present.
func ApplyPagination(p pagination.Pagination) QueryOption {
	return func(tx *gorm.DB) *gorm.DB {
		size := p.PageSize
		if size <= 0 {
			size = 50
		}
		cursor, err := pagination.DecodeCursor(p.PageToken)
		if err == nil && cursor.ID != "" {
			tx = tx.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
		}
		return tx.Limit(size + 1)
	}
}

// WithSortBy orders results by an allowed column, newest first by default.
func WithSortBy(sort QuerySortBy) QueryOption {
	return func(tx *gorm.DB) *gorm.DB {
		column := strings.TrimSpace(sort.SortBy)
		if column == "" || !sort.Allow[column] {
			column = "created_at"
		}
		direction := "DESC"
		if strings.EqualFold(strings.TrimSpace(sort.OrderBy), "asc") {
			direction = "ASC"
		}
		return tx.Order(column + " " + direction)
	}
}
