// internal/core/ports/medicine_repository.go
package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/ammerola/pharmapos-be/internal/core/domain"
)

// MedicineRepository defines the persistence port for the inventory
// store. Single-row writes are atomic; multi-row sequences compose into
// transactions via the Tx variants.
type MedicineRepository interface {
	Save(ctx context.Context, medicine *domain.Medicine) error
	// SaveTx is Save inside a caller-owned transaction, used by bulk
	// imports so a mid-batch failure leaves no partial rows behind.
	SaveTx(ctx context.Context, tx pgx.Tx, medicine *domain.Medicine) error
	Update(ctx context.Context, medicine *domain.Medicine) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Medicine, error)
	FindAll(ctx context.Context, params MedicineQueryParams) ([]*domain.Medicine, int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	Count(ctx context.Context) (int64, error)

	// AdjustQuantity applies a relative stock adjustment. A negative
	// delta is rejected with domain.ErrInsufficientStock when it would
	// drive the quantity below zero; the row is left untouched.
	AdjustQuantity(ctx context.Context, id uuid.UUID, delta int) error
	// AdjustQuantityTx is AdjustQuantity inside a caller-owned
	// transaction, used by checkout and quantity correction.
	AdjustQuantityTx(ctx context.Context, tx pgx.Tx, id uuid.UUID, delta int) error

	// Reporting scans. All read-only and idempotent.
	FindLowStock(ctx context.Context, threshold int) ([]*domain.Medicine, error)
	FindExpiringBetween(ctx context.Context, from, until time.Time) ([]*domain.Medicine, error)
	FindExpiredBefore(ctx context.Context, now time.Time) ([]*domain.Medicine, error)
	CountLowStock(ctx context.Context, threshold int) (int64, error)
	CountExpiringBetween(ctx context.Context, from, until time.Time) (int64, error)
	CountExpiredBefore(ctx context.Context, now time.Time) (int64, error)
	StockPurchaseValue(ctx context.Context) (decimal.Decimal, error)
}

// MedicineQueryParams holds query parameters for listing medicines
type MedicineQueryParams struct {
	Search    string
	Category  string
	SortBy    string
	SortOrder string
	Limit     int
	Offset    int
}
