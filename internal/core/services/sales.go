// internal/core/services/sales.go
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/ammerola/pharmapos-be/internal/core/domain"
	"github.com/ammerola/pharmapos-be/internal/core/ports"
)

// SalesService handles checkout, quantity correction and the sales ledger
type SalesService struct {
	sales     ports.SalesRepository
	medicines ports.MedicineRepository
	tx        TxRunner
	cache     ports.CacheInvalidator
	logger    *slog.Logger
}

// Statically assert that *SalesService implements the SalesService interface.
var _ ports.SalesService = (*SalesService)(nil)

// NewSalesService creates a new sales service
func NewSalesService(sales ports.SalesRepository, medicines ports.MedicineRepository, tx TxRunner, cache ports.CacheInvalidator, logger *slog.Logger) *SalesService {
	return &SalesService{
		sales:     sales,
		medicines: medicines,
		tx:        tx,
		cache:     cache,
		logger:    logger.With(slog.String("service", "sales")),
	}
}

// Checkout prices the cart, persists the sale record and decrements
// stock for every line. The ledger write and all stock adjustments
// commit or roll back as one transaction, so a single out-of-stock line
// aborts the whole sale.
func (s *SalesService) Checkout(ctx context.Context, cart []domain.CartItem, discount, serviceCharge decimal.Decimal) (*domain.SaleRecord, error) {
	record, err := domain.NewSaleFromCart(cart, discount, serviceCharge)
	if err != nil {
		return nil, err
	}

	err = s.tx.Transaction(ctx, func(tx pgx.Tx) error {
		if err := s.sales.SaveTx(ctx, tx, record); err != nil {
			return fmt.Errorf("failed to save sale record: %w", err)
		}

		for _, item := range record.Items {
			if err := s.medicines.AdjustQuantityTx(ctx, tx, item.MedicineID, -item.Quantity); err != nil {
				return fmt.Errorf("stock adjustment for %q: %w", item.Name, err)
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, item := range record.Items {
		s.invalidateMedicine(ctx, item.MedicineID)
	}

	s.logger.InfoContext(ctx, "checkout completed",
		slog.String("sale_id", record.ID.String()),
		slog.Int("items", len(record.Items)),
		slog.String("final_total", record.FinalTotal.String()))

	return record, nil
}

// CorrectQuantity changes one line's quantity on an existing sale,
// reprices the record and applies the signed stock delta to the
// referenced medicine. Raising the quantity consumes more stock and can
// fail with domain.ErrInsufficientStock; lowering it returns stock.
func (s *SalesService) CorrectQuantity(ctx context.Context, saleID, itemID uuid.UUID, newQuantity int) (*domain.SaleRecord, error) {
	record, err := s.sales.FindByID(ctx, saleID)
	if err != nil {
		return nil, fmt.Errorf("failed to load sale: %w", err)
	}
	if record == nil {
		return nil, fmt.Errorf("sale %s: %w", saleID, domain.ErrNotFound)
	}

	delta, medicineID, err := record.CorrectItemQuantity(itemID, newQuantity)
	if err != nil {
		return nil, err
	}

	err = s.tx.Transaction(ctx, func(tx pgx.Tx) error {
		if err := s.sales.UpdateTx(ctx, tx, record); err != nil {
			return fmt.Errorf("failed to update sale record: %w", err)
		}

		if delta != 0 {
			if err := s.medicines.AdjustQuantityTx(ctx, tx, medicineID, -delta); err != nil {
				return fmt.Errorf("stock adjustment: %w", err)
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidateMedicine(ctx, medicineID)

	s.logger.InfoContext(ctx, "corrected sale quantity",
		slog.String("sale_id", saleID.String()),
		slog.String("item_id", itemID.String()),
		slog.Int("new_quantity", newQuantity),
		slog.Int("stock_delta", -delta))

	return record, nil
}

// invalidateMedicine drops cached entries derived from one medicine
// after its stock changed. Best-effort: the sale already committed.
func (s *SalesService) invalidateMedicine(ctx context.Context, id uuid.UUID) {
	if err := s.cache.InvalidateMedicineCache(ctx, id.String()); err != nil {
		s.logger.WarnContext(ctx, "cache invalidation failed",
			slog.String("medicine_id", id.String()),
			slog.Any("error", err))
	}
}

// GetSale retrieves a single sale record
func (s *SalesService) GetSale(ctx context.Context, id uuid.UUID) (*domain.SaleRecord, error) {
	record, err := s.sales.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get sale: %w", err)
	}
	if record == nil {
		return nil, fmt.Errorf("sale %s: %w", id, domain.ErrNotFound)
	}
	return record, nil
}

// ListSales retrieves the sales history with optional date filtering
func (s *SalesService) ListSales(ctx context.Context, params ports.SaleListParams) (*ports.SaleListResult, error) {
	page, pageSize := normalizePage(params.Page, params.PageSize)

	query := ports.SaleQueryParams{
		Limit:  pageSize,
		Offset: (page - 1) * pageSize,
	}

	if params.From != "" {
		from, err := time.Parse(time.DateOnly, params.From)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid from date %q", domain.ErrValidation, params.From)
		}
		query.From = &from
	}
	if params.Until != "" {
		until, err := time.Parse(time.DateOnly, params.Until)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid until date %q", domain.ErrValidation, params.Until)
		}
		// Make the until bound inclusive of the whole day.
		end := until.AddDate(0, 0, 1)
		query.Until = &end
	}

	records, totalCount, err := s.sales.FindAll(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list sales: %w", err)
	}

	return &ports.SaleListResult{
		Sales:      records,
		Page:       page,
		PageSize:   pageSize,
		TotalCount: totalCount,
		TotalPages: totalPages(totalCount, pageSize),
	}, nil
}

// DeleteSales bulk-deletes sale records. Stock is not restored; the
// operation prunes the ledger, it does not reverse the sales.
func (s *SalesService) DeleteSales(ctx context.Context, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, fmt.Errorf("%w: no sale ids provided", domain.ErrValidation)
	}

	deleted, err := s.sales.DeleteMany(ctx, ids)
	if err != nil {
		return 0, fmt.Errorf("failed to delete sales: %w", err)
	}

	if err := s.cache.InvalidateSalesCache(ctx); err != nil {
		s.logger.WarnContext(ctx, "sales cache invalidation failed",
			slog.Any("error", err))
	}

	s.logger.InfoContext(ctx, "deleted sale records",
		slog.Int("requested", len(ids)),
		slog.Int64("deleted", deleted))

	return deleted, nil
}
