// internal/adapters/db/medicine_repository.go
package db

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"

	"github.com/ammerola/pharmapos-be/internal/core/domain"
	"github.com/ammerola/pharmapos-be/internal/core/ports"
)

// querier is satisfied by both *Database and pgx.Tx, so guarded stock
// updates run identically on the pool and inside transactions.
type querier interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

// medicineRepository implements ports.MedicineRepository
type medicineRepository struct {
	db     *Database
	logger *slog.Logger
}

// NewMedicineRepository creates a new medicine repository
func NewMedicineRepository(db *Database, logger *slog.Logger) ports.MedicineRepository {
	return &medicineRepository{
		db:     db,
		logger: logger.With(slog.String("repository", "medicine")),
	}
}

const medicineColumns = `
	id, name, generic, category, quantity,
	purchase_price, selling_price, expiry, created_at, updated_at
	`

func scanMedicine(row pgx.Row) (*domain.Medicine, error) {
	m := &domain.Medicine{}
	err := row.Scan(
		&m.ID, &m.Name, &m.Generic, &m.Category, &m.Quantity,
		&m.PurchasePrice, &m.SellingPrice, &m.Expiry, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// Save creates a new medicine row
func (r *medicineRepository) Save(ctx context.Context, medicine *domain.Medicine) error {
	return r.save(ctx, r.db, medicine)
}

// SaveTx creates a new medicine row inside a caller-owned transaction
func (r *medicineRepository) SaveTx(ctx context.Context, tx pgx.Tx, medicine *domain.Medicine) error {
	return r.save(ctx, tx, medicine)
}

func (r *medicineRepository) save(ctx context.Context, q querier, medicine *domain.Medicine) error {
	query := `
		INSERT INTO medicines (
			id, name, generic, category, quantity,
			purchase_price, selling_price, expiry, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10
		) RETURNING id, created_at, updated_at`

	err := q.QueryRow(ctx, query,
		medicine.ID, medicine.Name, medicine.Generic, medicine.Category, medicine.Quantity,
		medicine.PurchasePrice, medicine.SellingPrice, medicine.Expiry,
		medicine.CreatedAt, medicine.UpdatedAt,
	).Scan(&medicine.ID, &medicine.CreatedAt, &medicine.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to save medicine: %w", err)
	}

	r.logger.DebugContext(ctx, "medicine saved",
		slog.String("medicine_id", medicine.ID.String()),
		slog.String("name", medicine.Name))

	return nil
}

// Update updates an existing medicine
func (r *medicineRepository) Update(ctx context.Context, medicine *domain.Medicine) error {
	query := `
		UPDATE medicines SET
			name = $2, generic = $3, category = $4, quantity = $5,
			purchase_price = $6, selling_price = $7, expiry = $8, updated_at = $9
		WHERE id = $1
		RETURNING updated_at`

	medicine.UpdatedAt = time.Now()

	err := r.db.QueryRow(ctx, query,
		medicine.ID, medicine.Name, medicine.Generic, medicine.Category, medicine.Quantity,
		medicine.PurchasePrice, medicine.SellingPrice, medicine.Expiry, medicine.UpdatedAt,
	).Scan(&medicine.UpdatedAt)

	if err != nil {
		if err == pgx.ErrNoRows {
			return fmt.Errorf("medicine %s: %w", medicine.ID, domain.ErrNotFound)
		}
		return fmt.Errorf("failed to update medicine: %w", err)
	}

	r.logger.DebugContext(ctx, "medicine updated",
		slog.String("medicine_id", medicine.ID.String()))

	return nil
}

// FindByID retrieves a medicine by ID
func (r *medicineRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Medicine, error) {
	query := `SELECT` + medicineColumns + `FROM medicines WHERE id = $1`

	medicine, err := scanMedicine(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find medicine: %w", err)
	}

	return medicine, nil
}

// FindAll retrieves medicines with filtering and pagination
func (r *medicineRepository) FindAll(ctx context.Context, params ports.MedicineQueryParams) ([]*domain.Medicine, int64, error) {
	qb := squirrel.Select(
		"id", "name", "generic", "category", "quantity",
		"purchase_price", "selling_price", "expiry", "created_at", "updated_at",
	).From("medicines").
		PlaceholderFormat(squirrel.Dollar)

	if params.Search != "" {
		qb = qb.Where("(name ILIKE '%' || ? || '%' OR generic ILIKE '%' || ? || '%')",
			params.Search, params.Search)
	}
	if params.Category != "" {
		qb = qb.Where(squirrel.Eq{"category": params.Category})
	}

	// Count total rows before pagination
	countQb := squirrel.Select("COUNT(*)").From("medicines").
		PlaceholderFormat(squirrel.Dollar)
	if params.Search != "" {
		countQb = countQb.Where("(name ILIKE '%' || ? || '%' OR generic ILIKE '%' || ? || '%')",
			params.Search, params.Search)
	}
	if params.Category != "" {
		countQb = countQb.Where(squirrel.Eq{"category": params.Category})
	}

	countSQL, countArgs, err := countQb.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count query: %w", err)
	}

	var totalCount int64
	if err := r.db.QueryRow(ctx, countSQL, countArgs...).Scan(&totalCount); err != nil {
		return nil, 0, fmt.Errorf("failed to count medicines: %w", err)
	}

	orderBy := "name ASC"
	if params.SortBy != "" {
		direction := "ASC"
		if params.SortOrder == "desc" {
			direction = "DESC"
		}

		switch params.SortBy {
		case "quantity":
			orderBy = fmt.Sprintf("quantity %s", direction)
		case "expiry":
			orderBy = fmt.Sprintf("expiry %s", direction)
		case "price":
			orderBy = fmt.Sprintf("selling_price %s", direction)
		case "updated":
			orderBy = fmt.Sprintf("updated_at %s", direction)
		default:
			orderBy = fmt.Sprintf("name %s", direction)
		}
	}
	qb = qb.OrderBy(orderBy)

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
		return nil, 0, fmt.Errorf("failed to query medicines: %w", err)
	}

	medicines, err := ScanMany(rows, func(rows pgx.Rows) (*domain.Medicine, error) {
		return scanMedicine(rows)
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to scan medicines: %w", err)
	}

	return medicines, totalCount, nil
}

// Delete removes a medicine row
func (r *medicineRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM medicines WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete medicine: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("medicine %s: %w", id, domain.ErrNotFound)
	}

	r.logger.InfoContext(ctx, "medicine deleted",
		slog.String("medicine_id", id.String()))

	return nil
}

// Exists checks whether a medicine row exists
func (r *medicineRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM medicines WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check existence: %w", err)
	}
	return exists, nil
}

// Count returns the total number of medicines
func (r *medicineRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM medicines`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count medicines: %w", err)
	}
	return count, nil
}

// AdjustQuantity applies a relative stock adjustment on the pool
func (r *medicineRepository) AdjustQuantity(ctx context.Context, id uuid.UUID, delta int) error {
	return r.adjustQuantity(ctx, r.db, id, delta)
}

// AdjustQuantityTx applies a relative stock adjustment inside a
// caller-owned transaction
func (r *medicineRepository) AdjustQuantityTx(ctx context.Context, tx pgx.Tx, id uuid.UUID, delta int) error {
	return r.adjustQuantity(ctx, tx, id, delta)
}

// adjustQuantity runs a guarded relative update. The WHERE clause
// rejects any decrement that would drive quantity below zero, so the
// row is either updated atomically or left untouched.
func (r *medicineRepository) adjustQuantity(ctx context.Context, q querier, id uuid.UUID, delta int) error {
	query := `
		UPDATE medicines
		SET quantity = quantity + $2, updated_at = NOW()
		WHERE id = $1 AND quantity + $2 >= 0`

	tag, err := q.Exec(ctx, query, id, delta)
	if err != nil {
		return fmt.Errorf("failed to adjust quantity: %w", err)
	}

	if tag.RowsAffected() == 0 {
		exists, exErr := r.existsWith(ctx, q, id)
		if exErr != nil {
			return exErr
		}
		if !exists {
			return fmt.Errorf("medicine %s: %w", id, domain.ErrNotFound)
		}
		return fmt.Errorf("medicine %s: %w", id, domain.ErrInsufficientStock)
	}

	r.logger.DebugContext(ctx, "stock adjusted",
		slog.String("medicine_id", id.String()),
		slog.Int("delta", delta))

	return nil
}

func (r *medicineRepository) existsWith(ctx context.Context, q querier, id uuid.UUID) (bool, error) {
	var exists bool
	err := q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM medicines WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check existence: %w", err)
	}
	return exists, nil
}

// FindLowStock returns medicines at or below the threshold, lowest first
func (r *medicineRepository) FindLowStock(ctx context.Context, threshold int) ([]*domain.Medicine, error) {
	query := `SELECT` + medicineColumns + `
		FROM medicines
		WHERE quantity <= $1
		ORDER BY quantity ASC, name ASC`

	rows, err := r.db.Query(ctx, query, threshold)
	if err != nil {
		return nil, fmt.Errorf("failed to query low stock medicines: %w", err)
	}

	return ScanMany(rows, func(rows pgx.Rows) (*domain.Medicine, error) {
		return scanMedicine(rows)
	})
}

// FindExpiringBetween returns unexpired medicines whose expiry falls in
// [from, until), soonest first
func (r *medicineRepository) FindExpiringBetween(ctx context.Context, from, until time.Time) ([]*domain.Medicine, error) {
	query := `SELECT` + medicineColumns + `
		FROM medicines
		WHERE expiry >= $1 AND expiry < $2
		ORDER BY expiry ASC`

	rows, err := r.db.Query(ctx, query, from, until)
	if err != nil {
		return nil, fmt.Errorf("failed to query expiring medicines: %w", err)
	}

	return ScanMany(rows, func(rows pgx.Rows) (*domain.Medicine, error) {
		return scanMedicine(rows)
	})
}

// FindExpiredBefore returns medicines already past expiry
func (r *medicineRepository) FindExpiredBefore(ctx context.Context, now time.Time) ([]*domain.Medicine, error) {
	query := `SELECT` + medicineColumns + `
		FROM medicines
		WHERE expiry < $1
		ORDER BY expiry ASC`

	rows, err := r.db.Query(ctx, query, now)
	if err != nil {
		return nil, fmt.Errorf("failed to query expired medicines: %w", err)
	}

	return ScanMany(rows, func(rows pgx.Rows) (*domain.Medicine, error) {
		return scanMedicine(rows)
	})
}

// CountLowStock counts medicines at or below the threshold
func (r *medicineRepository) CountLowStock(ctx context.Context, threshold int) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM medicines WHERE quantity <= $1`, threshold).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count low stock medicines: %w", err)
	}
	return count, nil
}

// CountExpiringBetween counts medicines expiring in [from, until)
func (r *medicineRepository) CountExpiringBetween(ctx context.Context, from, until time.Time) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM medicines WHERE expiry >= $1 AND expiry < $2`, from, until).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count expiring medicines: %w", err)
	}
	return count, nil
}

// CountExpiredBefore counts medicines already past expiry
func (r *medicineRepository) CountExpiredBefore(ctx context.Context, now time.Time) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM medicines WHERE expiry < $1`, now).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count expired medicines: %w", err)
	}
	return count, nil
}

// StockPurchaseValue returns the cost basis of all units on hand
func (r *medicineRepository) StockPurchaseValue(ctx context.Context) (decimal.Decimal, error) {
	var value decimal.Decimal
	err := r.db.QueryRow(ctx,
		`SELECT COALESCE(SUM(quantity * purchase_price), 0) FROM medicines`).Scan(&value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to compute stock value: %w", err)
	}
	return value, nil
}
