// internal/core/services/types.go
package services

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// TxRunner runs a function inside a single database transaction. The
// db.Database adapter satisfies it.
type TxRunner interface {
	Transaction(ctx context.Context, fn func(pgx.Tx) error) error
}

const (
	defaultPage     = 1
	defaultPageSize = 50
	maxPageSize     = 500
)

func normalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = defaultPage
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return page, pageSize
}

func totalPages(totalCount int64, pageSize int) int {
	if pageSize <= 0 {
		return 0
	}
	pages := int(totalCount) / pageSize
	if int(totalCount)%pageSize > 0 {
		pages++
	}
	return pages
}
