// internal/core/services/medicine.go
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/ammerola/pharmapos-be/internal/core/domain"
	"github.com/ammerola/pharmapos-be/internal/core/ports"
)

// MedicineService handles inventory business logic
type MedicineService struct {
	repo   ports.MedicineRepository
	tx     TxRunner
	cache  ports.CacheInvalidator
	logger *slog.Logger
}

// Statically assert that *MedicineService implements the MedicineService interface.
var _ ports.MedicineService = (*MedicineService)(nil)

// NewMedicineService creates a new medicine service
func NewMedicineService(repo ports.MedicineRepository, tx TxRunner, cache ports.CacheInvalidator, logger *slog.Logger) *MedicineService {
	return &MedicineService{
		repo:   repo,
		tx:     tx,
		cache:  cache,
		logger: logger.With(slog.String("service", "medicine")),
	}
}

// SaveMedicine saves a single medicine
func (s *MedicineService) SaveMedicine(ctx context.Context, medicine *domain.Medicine) error {
	if err := medicine.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	medicine.PrepareForStorage()

	if err := s.repo.Save(ctx, medicine); err != nil {
		return fmt.Errorf("failed to save medicine: %w", err)
	}

	s.invalidateMedicine(ctx, medicine.ID)

	s.logger.InfoContext(ctx, "saved medicine",
		slog.String("medicine_id", medicine.ID.String()),
		slog.String("name", medicine.Name))

	return nil
}

// SaveMedicines saves multiple medicines, used by the seeder and by
// spreadsheet imports
func (s *MedicineService) SaveMedicines(ctx context.Context, medicines []domain.Medicine) error {
	if len(medicines) == 0 {
		s.logger.InfoContext(ctx, "no medicines to save")
		return nil
	}

	// Validate all rows before touching storage
	for i := range medicines {
		if err := medicines[i].Validate(); err != nil {
			return fmt.Errorf("validation failed for medicine %q: %w", medicines[i].Name, err)
		}
		medicines[i].PrepareForStorage()
	}

	// One transaction for the whole batch, so a failing row never
	// leaves the import half applied.
	err := s.tx.Transaction(ctx, func(tx pgx.Tx) error {
		for i := range medicines {
			if err := s.repo.SaveTx(ctx, tx, &medicines[i]); err != nil {
				return fmt.Errorf("failed to save medicine %q: %w", medicines[i].Name, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.invalidateCatalog(ctx)

	s.logger.InfoContext(ctx, "saved medicines",
		slog.Int("count", len(medicines)))

	return nil
}

// invalidateMedicine drops cached entries derived from one medicine.
// Invalidation is best-effort: a cache outage must not fail the write
// that already committed.
func (s *MedicineService) invalidateMedicine(ctx context.Context, id uuid.UUID) {
	if err := s.cache.InvalidateMedicineCache(ctx, id.String()); err != nil {
		s.logger.WarnContext(ctx, "cache invalidation failed",
			slog.String("medicine_id", id.String()),
			slog.Any("error", err))
	}
}

func (s *MedicineService) invalidateCatalog(ctx context.Context) {
	if err := s.cache.InvalidateCatalogCache(ctx); err != nil {
		s.logger.WarnContext(ctx, "catalog cache invalidation failed",
			slog.Any("error", err))
	}
}

// GetByID retrieves a medicine by ID
func (s *MedicineService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Medicine, error) {
	medicine, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get medicine: %w", err)
	}

	if medicine == nil {
		return nil, fmt.Errorf("medicine %s: %w", id, domain.ErrNotFound)
	}

	return medicine, nil
}

// UpdateMedicine updates an existing medicine
func (s *MedicineService) UpdateMedicine(ctx context.Context, id uuid.UUID, medicine *domain.Medicine) error {
	exists, err := s.repo.Exists(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to check medicine existence: %w", err)
	}
	if !exists {
		return fmt.Errorf("medicine %s: %w", id, domain.ErrNotFound)
	}

	medicine.ID = id
	if err := medicine.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	if err := s.repo.Update(ctx, medicine); err != nil {
		return fmt.Errorf("failed to update medicine: %w", err)
	}

	s.invalidateMedicine(ctx, id)

	s.logger.InfoContext(ctx, "updated medicine",
		slog.String("medicine_id", id.String()))

	return nil
}

// DeleteMedicine removes a medicine from the catalog
func (s *MedicineService) DeleteMedicine(ctx context.Context, id uuid.UUID) error {
	exists, err := s.repo.Exists(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to check medicine existence: %w", err)
	}
	if !exists {
		return fmt.Errorf("medicine %s: %w", id, domain.ErrNotFound)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete medicine: %w", err)
	}

	s.invalidateMedicine(ctx, id)

	s.logger.InfoContext(ctx, "deleted medicine",
		slog.String("medicine_id", id.String()))

	return nil
}

// List retrieves medicines with filtering and pagination
func (s *MedicineService) List(ctx context.Context, params ports.ListParams) (*ports.ListResult, error) {
	page, pageSize := normalizePage(params.Page, params.PageSize)

	medicines, totalCount, err := s.repo.FindAll(ctx, ports.MedicineQueryParams{
		Search:    params.Search,
		Category:  params.Category,
		SortBy:    params.SortBy,
		SortOrder: params.SortOrder,
		Limit:     pageSize,
		Offset:    (page - 1) * pageSize,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list medicines: %w", err)
	}

	return &ports.ListResult{
		Medicines:  medicines,
		Page:       page,
		PageSize:   pageSize,
		TotalCount: totalCount,
		TotalPages: totalPages(totalCount, pageSize),
	}, nil
}

// LowStock returns medicines at or below the given stock threshold
func (s *MedicineService) LowStock(ctx context.Context, threshold int) ([]*domain.Medicine, error) {
	if threshold <= 0 {
		threshold = domain.DefaultLowStockThreshold
	}

	medicines, err := s.repo.FindLowStock(ctx, threshold)
	if err != nil {
		return nil, fmt.Errorf("failed to find low stock medicines: %w", err)
	}

	return medicines, nil
}

// Expiring returns medicines expiring within the given window, plus
// medicines already past their expiry date
func (s *MedicineService) Expiring(ctx context.Context, days int) (*ports.ExpiryReport, error) {
	if days <= 0 {
		days = domain.DefaultExpiryWindowDays
	}

	now := time.Now().UTC()
	until := now.AddDate(0, 0, days)

	expiring, err := s.repo.FindExpiringBetween(ctx, now, until)
	if err != nil {
		return nil, fmt.Errorf("failed to find expiring medicines: %w", err)
	}

	expired, err := s.repo.FindExpiredBefore(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("failed to find expired medicines: %w", err)
	}

	return &ports.ExpiryReport{
		Days:     days,
		Expiring: expiring,
		Expired:  expired,
	}, nil
}
