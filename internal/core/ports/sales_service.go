// internal/core/ports/sales_service.go
package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ammerola/pharmapos-be/internal/core/domain"
)

// SalesService defines the application service port for checkout and
// quantity correction. This interface is implemented by the application
// service.
type SalesService interface {
	// Checkout builds a sale record from the cart, persists it and
	// decrements stock for every line, all in one transaction.
	Checkout(ctx context.Context, cart []domain.CartItem, discount, serviceCharge decimal.Decimal) (*domain.SaleRecord, error)

	// CorrectQuantity changes one line's quantity on an existing sale,
	// recomputes the record's totals and applies the signed stock delta
	// to the referenced medicine.
	CorrectQuantity(ctx context.Context, saleID, itemID uuid.UUID, newQuantity int) (*domain.SaleRecord, error)

	GetSale(ctx context.Context, id uuid.UUID) (*domain.SaleRecord, error)
	ListSales(ctx context.Context, params SaleListParams) (*SaleListResult, error)
	DeleteSales(ctx context.Context, ids []uuid.UUID) (int64, error)
}

// SaleListParams holds parameters for listing sales history
type SaleListParams struct {
	From     string
	Until    string
	Page     int
	PageSize int
}

// SaleListResult holds the result of listing sales history
type SaleListResult struct {
	Sales      []*domain.SaleRecord `json:"sales"`
	Page       int                  `json:"page"`
	PageSize   int                  `json:"page_size"`
	TotalCount int64                `json:"total_count"`
	TotalPages int                  `json:"total_pages"`
}
