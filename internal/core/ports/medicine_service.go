// internal/core/ports/medicine_service.go
package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/ammerola/pharmapos-be/internal/core/domain"
)

// MedicineService defines the application service port for inventory
// management. This interface is implemented by the application service.
type MedicineService interface {
	SaveMedicine(ctx context.Context, medicine *domain.Medicine) error
	SaveMedicines(ctx context.Context, medicines []domain.Medicine) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Medicine, error)
	UpdateMedicine(ctx context.Context, id uuid.UUID, medicine *domain.Medicine) error
	DeleteMedicine(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params ListParams) (*ListResult, error)
	LowStock(ctx context.Context, threshold int) ([]*domain.Medicine, error)
	Expiring(ctx context.Context, days int) (*ExpiryReport, error)
}

// ListParams holds parameters for listing medicines
type ListParams struct {
	Search    string
	Category  string
	SortBy    string
	SortOrder string
	Page      int
	PageSize  int
}

// ListResult holds the result of listing medicines
type ListResult struct {
	Medicines  []*domain.Medicine `json:"medicines"`
	Page       int                `json:"page"`
	PageSize   int                `json:"page_size"`
	TotalCount int64              `json:"total_count"`
	TotalPages int                `json:"total_pages"`
}

// ExpiryReport groups medicines by expiry classification
type ExpiryReport struct {
	Days     int                `json:"days"`
	Expiring []*domain.Medicine `json:"expiring"`
	Expired  []*domain.Medicine `json:"expired"`
}
