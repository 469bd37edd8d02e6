// internal/core/ports/sales_repository.go
package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/ammerola/pharmapos-be/internal/core/domain"
)

// SalesRepository defines the persistence port for the sales ledger.
// Record writes happen inside caller-owned transactions so the checkout
// service can commit the ledger write and the stock adjustments as one
// unit.
type SalesRepository interface {
	SaveTx(ctx context.Context, tx pgx.Tx, record *domain.SaleRecord) error
	UpdateTx(ctx context.Context, tx pgx.Tx, record *domain.SaleRecord) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.SaleRecord, error)
	FindAll(ctx context.Context, params SaleQueryParams) ([]*domain.SaleRecord, int64, error)

	// DeleteMany bulk-deletes ledger records. Stock is deliberately NOT
	// restored on deletion; deleting history is an audit cleanup, not a
	// return flow.
	DeleteMany(ctx context.Context, ids []uuid.UUID) (int64, error)

	// Aggregation scans used by reporting.
	SumFinalTotalBetween(ctx context.Context, from, until time.Time) (decimal.Decimal, error)
	SumProfitBetween(ctx context.Context, from, until time.Time) (decimal.Decimal, error)
}

// SaleQueryParams holds query parameters for listing sales history
type SaleQueryParams struct {
	From   *time.Time
	Until  *time.Time
	Limit  int
	Offset int
}
