// internal/handlers/medicines.go
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ammerola/pharmapos-be/internal/core/domain"
	"github.com/ammerola/pharmapos-be/internal/core/ports"
)

// MedicineHandler handles medicine inventory HTTP requests
type MedicineHandler struct {
	service ports.MedicineService
	logger  *slog.Logger
}

// NewMedicineHandler creates a new medicine handler
func NewMedicineHandler(service ports.MedicineService, logger *slog.Logger) *MedicineHandler {
	return &MedicineHandler{
		service: service,
		logger:  logger.With(slog.String("handler", "medicines")),
	}
}

// GetMedicine handles GET /api/v1/medicines/{id}
func (h *MedicineHandler) GetMedicine(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	idStr := r.PathValue("id")

	id, err := uuid.Parse(idStr)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid medicine ID format")
		return
	}

	medicine, err := h.service.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			h.respondError(w, http.StatusNotFound, "Medicine not found")
			return
		}
		h.logger.ErrorContext(ctx, "failed to get medicine",
			slog.String("medicine_id", idStr),
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to retrieve medicine")
		return
	}

	h.respondJSON(w, http.StatusOK, medicine)
}

// ListMedicines handles GET /api/v1/medicines
func (h *MedicineHandler) ListMedicines(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	params := h.parseListParams(r)

	result, err := h.service.List(ctx, params)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list medicines",
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to list medicines")
		return
	}

	h.respondJSON(w, http.StatusOK, result)
}

// CreateMedicine handles POST /api/v1/medicines
func (h *MedicineHandler) CreateMedicine(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req SaveMedicineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := req.Validate(); err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	medicine := req.ToDomain()

	if err := h.service.SaveMedicine(ctx, medicine); err != nil {
		if errors.Is(err, domain.ErrValidation) {
			h.respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.ErrorContext(ctx, "failed to create medicine",
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to create medicine")
		return
	}

	h.logger.InfoContext(ctx, "medicine created",
		slog.String("medicine_id", medicine.ID.String()),
		slog.String("name", medicine.Name))

	h.respondJSON(w, http.StatusCreated, medicine)
}

// UpdateMedicine handles PUT /api/v1/medicines/{id}
func (h *MedicineHandler) UpdateMedicine(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	idStr := r.PathValue("id")

	id, err := uuid.Parse(idStr)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid medicine ID format")
		return
	}

	var req SaveMedicineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := req.Validate(); err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	medicine := req.ToDomain()

	if err := h.service.UpdateMedicine(ctx, id, medicine); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			h.respondError(w, http.StatusNotFound, "Medicine not found")
			return
		}
		if errors.Is(err, domain.ErrValidation) {
			h.respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.ErrorContext(ctx, "failed to update medicine",
			slog.String("medicine_id", idStr),
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to update medicine")
		return
	}

	updated, err := h.service.GetByID(ctx, id)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to retrieve updated medicine",
			slog.String("medicine_id", idStr),
			slog.String("error", err.Error()))
		h.respondJSON(w, http.StatusOK, map[string]string{"message": "Medicine updated successfully"})
		return
	}

	h.logger.InfoContext(ctx, "medicine updated",
		slog.String("medicine_id", idStr))

	h.respondJSON(w, http.StatusOK, updated)
}

// DeleteMedicine handles DELETE /api/v1/medicines/{id}
func (h *MedicineHandler) DeleteMedicine(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	idStr := r.PathValue("id")

	id, err := uuid.Parse(idStr)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid medicine ID format")
		return
	}

	if err := h.service.DeleteMedicine(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			h.respondError(w, http.StatusNotFound, "Medicine not found")
			return
		}
		h.logger.ErrorContext(ctx, "failed to delete medicine",
			slog.String("medicine_id", idStr),
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to delete medicine")
		return
	}

	h.logger.InfoContext(ctx, "medicine deleted",
		slog.String("medicine_id", idStr))

	h.respondJSON(w, http.StatusOK, map[string]string{
		"message":     "Medicine deleted successfully",
		"medicine_id": idStr,
	})
}

// LowStock handles GET /api/v1/medicines/low-stock
func (h *MedicineHandler) LowStock(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	threshold := 0
	if t := r.URL.Query().Get("threshold"); t != "" {
		if v, err := strconv.Atoi(t); err == nil && v > 0 {
			threshold = v
		}
	}

	medicines, err := h.service.LowStock(ctx, threshold)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list low stock medicines",
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to list low stock medicines")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"medicines": medicines,
		"count":     len(medicines),
	})
}

// Expiring handles GET /api/v1/medicines/expiring
func (h *MedicineHandler) Expiring(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	days := 0
	if d := r.URL.Query().Get("days"); d != "" {
		if v, err := strconv.Atoi(d); err == nil && v > 0 {
			days = v
		}
	}

	report, err := h.service.Expiring(ctx, days)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to build expiry report",
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to build expiry report")
		return
	}

	h.respondJSON(w, http.StatusOK, report)
}

// parseListParams parses query parameters for listing medicines
func (h *MedicineHandler) parseListParams(r *http.Request) ports.ListParams {
	params := ports.ListParams{
		Page:      1,
		PageSize:  50,
		SortBy:    "name",
		SortOrder: "asc",
	}

	if page := r.URL.Query().Get("page"); page != "" {
		if p, err := strconv.Atoi(page); err == nil && p > 0 {
			params.Page = p
		}
	}

	if limit := r.URL.Query().Get("limit"); limit != "" {
		if l, err := strconv.Atoi(limit); err == nil && l > 0 {
			params.PageSize = l
		}
	}

	params.Search = r.URL.Query().Get("search")
	params.Category = r.URL.Query().Get("category")

	if sortBy := r.URL.Query().Get("sort"); sortBy != "" {
		params.SortBy = sortBy
	}

	if order := r.URL.Query().Get("order"); order == "asc" || order == "desc" {
		params.SortOrder = order
	}

	return params
}

// Helper methods

func (h *MedicineHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode JSON response",
			slog.String("error", err.Error()))
	}
}

func (h *MedicineHandler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}

// Request/Response DTOs

// SaveMedicineRequest represents the request body for creating or
// replacing a medicine
type SaveMedicineRequest struct {
	Name          string          `json:"name"`
	Generic       string          `json:"generic"`
	Category      string          `json:"category,omitempty"`
	Quantity      int             `json:"quantity"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	SellingPrice  decimal.Decimal `json:"selling_price"`
	Expiry        time.Time       `json:"expiry"`
}

// Validate validates the save medicine request
func (r *SaveMedicineRequest) Validate() error {
	if r.Name == "" {
		return fmt.Errorf("name is required")
	}
	if r.Generic == "" {
		return fmt.Errorf("generic is required")
	}
	if r.Quantity < 0 {
		return fmt.Errorf("quantity cannot be negative")
	}
	if r.PurchasePrice.IsNegative() {
		return fmt.Errorf("purchase_price cannot be negative")
	}
	if r.SellingPrice.IsNegative() {
		return fmt.Errorf("selling_price cannot be negative")
	}
	if r.Expiry.IsZero() {
		return fmt.Errorf("expiry is required")
	}
	return nil
}

// ToDomain converts the request to a domain model
func (r *SaveMedicineRequest) ToDomain() *domain.Medicine {
	return &domain.Medicine{
		Name:          r.Name,
		Generic:       r.Generic,
		Category:      r.Category,
		Quantity:      r.Quantity,
		PurchasePrice: r.PurchasePrice,
		SellingPrice:  r.SellingPrice,
		Expiry:        r.Expiry,
	}
}
