// internal/adapters/db/sales_repository.go
package db

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/ammerola/pharmapos-be/internal/core/domain"
	"github.com/ammerola/pharmapos-be/internal/core/ports"
)

// salesRepository implements ports.SalesRepository. A sale record spans
// two tables: the sales header and its sale_items lines.
type salesRepository struct {
	db     *Database
	logger *slog.Logger
}

// NewSalesRepository creates a new sales repository
func NewSalesRepository(db *Database, logger *slog.Logger) ports.SalesRepository {
	return &salesRepository{
		db:     db,
		logger: logger.With(slog.String("repository", "sales")),
	}
}

// SaveTx inserts the sale header and all line rows inside the caller's
// transaction
func (r *salesRepository) SaveTx(ctx context.Context, tx pgx.Tx, record *domain.SaleRecord) error {
	headerQuery := `
		INSERT INTO sales (
			id, discount, service_charge, final_total, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := tx.Exec(ctx, headerQuery,
		record.ID, record.Discount, record.ServiceCharge, record.FinalTotal,
		record.CreatedAt, record.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert sale header: %w", err)
	}

	batch := &pgx.Batch{}
	itemQuery := `
		INSERT INTO sale_items (
			id, sale_id, medicine_id, name, quantity,
			selling_price, purchase_price, total_amount, profit
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	for i := range record.Items {
		item := &record.Items[i]
		batch.Queue(itemQuery,
			item.ID, record.ID, item.MedicineID, item.Name, item.Quantity,
			item.SellingPrice, item.PurchasePrice, item.TotalAmount, item.Profit,
		)
	}

	br := tx.SendBatch(ctx, batch)
	defer br.Close()

	for i := range record.Items {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("failed to insert sale item %d: %w", i, err)
		}
	}

	r.logger.DebugContext(ctx, "sale record saved",
		slog.String("sale_id", record.ID.String()),
		slog.Int("items", len(record.Items)))

	return nil
}

// UpdateTx rewrites the header totals and every line row inside the
// caller's transaction. Lines are updated in place; corrections never
// add or remove lines.
func (r *salesRepository) UpdateTx(ctx context.Context, tx pgx.Tx, record *domain.SaleRecord) error {
	headerQuery := `
		UPDATE sales SET
			discount = $2, service_charge = $3, final_total = $4, updated_at = $5
		WHERE id = $1`

	record.UpdatedAt = time.Now()

	tag, err := tx.Exec(ctx, headerQuery,
		record.ID, record.Discount, record.ServiceCharge, record.FinalTotal, record.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update sale header: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("sale %s: %w", record.ID, domain.ErrNotFound)
	}

	batch := &pgx.Batch{}
	itemQuery := `
		UPDATE sale_items SET
			quantity = $2, total_amount = $3, profit = $4
		WHERE id = $1 AND sale_id = $5`

	for i := range record.Items {
		item := &record.Items[i]
		batch.Queue(itemQuery,
			item.ID, item.Quantity, item.TotalAmount, item.Profit, record.ID,
		)
	}

	br := tx.SendBatch(ctx, batch)
	defer br.Close()

	for i := range record.Items {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("failed to update sale item %d: %w", i, err)
		}
	}

	r.logger.DebugContext(ctx, "sale record updated",
		slog.String("sale_id", record.ID.String()))

	return nil
}

// FindByID retrieves a sale record with all its lines
func (r *salesRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.SaleRecord, error) {
	headerQuery := `
		SELECT id, discount, service_charge, final_total, created_at, updated_at
		FROM sales
		WHERE id = $1`

	record := &domain.SaleRecord{}
	err := r.db.QueryRow(ctx, headerQuery, id).Scan(
		&record.ID, &record.Discount, &record.ServiceCharge, &record.FinalTotal,
		&record.CreatedAt, &record.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find sale: %w", err)
	}

	items, err := r.loadItems(ctx, []uuid.UUID{id})
	if err != nil {
		return nil, err
	}
	record.Items = items[id]

	return record, nil
}

// FindAll retrieves a page of sale records with their lines
func (r *salesRepository) FindAll(ctx context.Context, params ports.SaleQueryParams) ([]*domain.SaleRecord, int64, error) {
	qb := squirrel.Select(
		"id", "discount", "service_charge", "final_total", "created_at", "updated_at",
	).From("sales").
		PlaceholderFormat(squirrel.Dollar)

	countQb := squirrel.Select("COUNT(*)").From("sales").
		PlaceholderFormat(squirrel.Dollar)

	if params.From != nil {
		qb = qb.Where(squirrel.GtOrEq{"created_at": *params.From})
		countQb = countQb.Where(squirrel.GtOrEq{"created_at": *params.From})
	}
	if params.Until != nil {
		qb = qb.Where(squirrel.Lt{"created_at": *params.Until})
		countQb = countQb.Where(squirrel.Lt{"created_at": *params.Until})
	}

	countSQL, countArgs, err := countQb.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count query: %w", err)
	}

	var totalCount int64
	if err := r.db.QueryRow(ctx, countSQL, countArgs...).Scan(&totalCount); err != nil {
		return nil, 0, fmt.Errorf("failed to count sales: %w", err)
	}

	qb = qb.OrderBy("created_at DESC")
	if params.Limit > 0 {
		qb = qb.Limit(uint64(params.Limit))
	}
	if params.Offset > 0 {
		qb = qb.Offset(uint64(params.Offset))
	}

	query, args, err := qb.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query sales: %w", err)
	}
	defer rows.Close()

	var records []*domain.SaleRecord
	var ids []uuid.UUID
	for rows.Next() {
		record := &domain.SaleRecord{}
		err := rows.Scan(
			&record.ID, &record.Discount, &record.ServiceCharge, &record.FinalTotal,
			&record.CreatedAt, &record.UpdatedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan sale: %w", err)
		}
		records = append(records, record)
		ids = append(ids, record.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating rows: %w", err)
	}

	if len(ids) > 0 {
		itemsBySale, err := r.loadItems(ctx, ids)
		if err != nil {
			return nil, 0, err
		}
		for _, record := range records {
			record.Items = itemsBySale[record.ID]
		}
	}

	return records, totalCount, nil
}

// loadItems fetches the line rows for a set of sales in one query
func (r *salesRepository) loadItems(ctx context.Context, saleIDs []uuid.UUID) (map[uuid.UUID][]domain.SaleItem, error) {
	query := `
		SELECT id, sale_id, medicine_id, name, quantity,
			selling_price, purchase_price, total_amount, profit
		FROM sale_items
		WHERE sale_id = ANY($1)
		ORDER BY sale_id, id`

	rows, err := r.db.Query(ctx, query, saleIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query sale items: %w", err)
	}
	defer rows.Close()

	itemsBySale := make(map[uuid.UUID][]domain.SaleItem, len(saleIDs))
	for rows.Next() {
		var item domain.SaleItem
		var saleID uuid.UUID
		err := rows.Scan(
			&item.ID, &saleID, &item.MedicineID, &item.Name, &item.Quantity,
			&item.SellingPrice, &item.PurchasePrice, &item.TotalAmount, &item.Profit,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan sale item: %w", err)
		}
		itemsBySale[saleID] = append(itemsBySale[saleID], item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return itemsBySale, nil
}

// DeleteMany bulk-deletes sale records. Line rows go with the header via
// ON DELETE CASCADE. Stock is deliberately not restored.
func (r *salesRepository) DeleteMany(ctx context.Context, ids []uuid.UUID) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM sales WHERE id = ANY($1)`, ids)
	if err != nil {
		return 0, fmt.Errorf("failed to delete sales: %w", err)
	}

	deleted := tag.RowsAffected()
	r.logger.InfoContext(ctx, "sale records deleted",
		slog.Int64("deleted", deleted))

	return deleted, nil
}

// SumFinalTotalBetween sums final totals for sales created in [from, until)
func (r *salesRepository) SumFinalTotalBetween(ctx context.Context, from, until time.Time) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.QueryRow(ctx,
		`SELECT COALESCE(SUM(final_total), 0) FROM sales WHERE created_at >= $1 AND created_at < $2`,
		from, until).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum sales totals: %w", err)
	}
	return total, nil
}

// SumProfitBetween sums line profits for sales created in [from, until)
func (r *salesRepository) SumProfitBetween(ctx context.Context, from, until time.Time) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(si.profit), 0)
		FROM sale_items si
		JOIN sales s ON s.id = si.sale_id
		WHERE s.created_at >= $1 AND s.created_at < $2`

	var total decimal.Decimal
	err := r.db.QueryRow(ctx, query, from, until).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum sale profits: %w", err)
	}
	return total, nil
}
