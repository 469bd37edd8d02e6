// internal/handlers/sales.go
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ammerola/pharmapos-be/internal/core/domain"
	"github.com/ammerola/pharmapos-be/internal/core/ports"
)

// SalesHandler handles checkout and sales ledger HTTP requests
type SalesHandler struct {
	service ports.SalesService
	logger  *slog.Logger
}

// NewSalesHandler creates a new sales handler
func NewSalesHandler(service ports.SalesService, logger *slog.Logger) *SalesHandler {
	return &SalesHandler{
		service: service,
		logger:  logger.With(slog.String("handler", "sales")),
	}
}

// Checkout handles POST /api/v1/sales
func (h *SalesHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := req.Validate(); err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	record, err := h.service.Checkout(ctx, req.toCart(), req.Discount, req.ServiceCharge)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrValidation):
			h.respondError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, domain.ErrInsufficientStock):
			h.respondError(w, http.StatusConflict, err.Error())
		case errors.Is(err, domain.ErrNotFound):
			h.respondError(w, http.StatusNotFound, err.Error())
		default:
			h.logger.ErrorContext(ctx, "checkout failed",
				slog.String("error", err.Error()))
			h.respondError(w, http.StatusInternalServerError, "Checkout failed")
		}
		return
	}

	h.logger.InfoContext(ctx, "sale completed",
		slog.String("sale_id", record.ID.String()),
		slog.Int("items", len(record.Items)),
		slog.String("final_total", record.FinalTotal.String()))

	h.respondJSON(w, http.StatusCreated, record)
}

// CorrectQuantity handles PATCH /api/v1/sales/{id}/items/{item_id}
func (h *SalesHandler) CorrectQuantity(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	saleID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid sale ID format")
		return
	}

	itemID, err := uuid.Parse(r.PathValue("item_id"))
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid sale item ID format")
		return
	}

	var req CorrectQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	record, err := h.service.CorrectQuantity(ctx, saleID, itemID, req.Quantity)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			h.respondError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, domain.ErrValidation):
			h.respondError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, domain.ErrInsufficientStock):
			h.respondError(w, http.StatusConflict, err.Error())
		default:
			h.logger.ErrorContext(ctx, "quantity correction failed",
				slog.String("sale_id", saleID.String()),
				slog.String("item_id", itemID.String()),
				slog.String("error", err.Error()))
			h.respondError(w, http.StatusInternalServerError, "Quantity correction failed")
		}
		return
	}

	h.logger.InfoContext(ctx, "sale quantity corrected",
		slog.String("sale_id", saleID.String()),
		slog.String("item_id", itemID.String()),
		slog.Int("quantity", req.Quantity))

	h.respondJSON(w, http.StatusOK, record)
}

// GetSale handles GET /api/v1/sales/{id}
func (h *SalesHandler) GetSale(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	saleID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid sale ID format")
		return
	}

	record, err := h.service.GetSale(ctx, saleID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			h.respondError(w, http.StatusNotFound, "Sale not found")
			return
		}
		h.logger.ErrorContext(ctx, "failed to get sale",
			slog.String("sale_id", saleID.String()),
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to retrieve sale")
		return
	}

	h.respondJSON(w, http.StatusOK, record)
}

// ListSales handles GET /api/v1/sales
func (h *SalesHandler) ListSales(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	params := ports.SaleListParams{
		From:  r.URL.Query().Get("from"),
		Until: r.URL.Query().Get("until"),
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

	result, err := h.service.ListSales(ctx, params)
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			h.respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.ErrorContext(ctx, "failed to list sales",
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to list sales")
		return
	}

	h.respondJSON(w, http.StatusOK, result)
}

// DeleteSales handles DELETE /api/v1/sales
func (h *SalesHandler) DeleteSales(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req DeleteSalesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	deleted, err := h.service.DeleteSales(ctx, req.IDs)
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			h.respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.ErrorContext(ctx, "failed to delete sales",
			slog.Int("requested", len(req.IDs)),
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to delete sales")
		return
	}

	h.logger.InfoContext(ctx, "sales deleted",
		slog.Int("requested", len(req.IDs)),
		slog.Int64("deleted", deleted))

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Sales deleted successfully",
		"deleted": deleted,
	})
}

// Helper methods

func (h *SalesHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode JSON response",
			slog.String("error", err.Error()))
	}
}

func (h *SalesHandler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}

// Request/Response DTOs

// CheckoutItemRequest is one cart line of a checkout request
type CheckoutItemRequest struct {
	MedicineID    uuid.UUID       `json:"medicine_id"`
	Name          string          `json:"name"`
	Quantity      int             `json:"quantity"`
	SellingPrice  decimal.Decimal `json:"selling_price"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
}

// CheckoutRequest represents the request body for completing a sale
type CheckoutRequest struct {
	Items         []CheckoutItemRequest `json:"items"`
	Discount      decimal.Decimal       `json:"discount"`
	ServiceCharge decimal.Decimal       `json:"service_charge"`
}

// Validate validates the checkout request
func (r *CheckoutRequest) Validate() error {
	if len(r.Items) == 0 {
		return fmt.Errorf("items are required")
	}
	if r.Discount.IsNegative() {
		return fmt.Errorf("discount cannot be negative")
	}
	if r.ServiceCharge.IsNegative() {
		return fmt.Errorf("service_charge cannot be negative")
	}
	return nil
}

func (r *CheckoutRequest) toCart() []domain.CartItem {
	cart := make([]domain.CartItem, 0, len(r.Items))
	for _, item := range r.Items {
		cart = append(cart, domain.CartItem{
			MedicineID:    item.MedicineID,
			Name:          item.Name,
			Quantity:      item.Quantity,
			SellingPrice:  item.SellingPrice,
			PurchasePrice: item.PurchasePrice,
		})
	}
	return cart
}

// CorrectQuantityRequest represents the request body for a quantity
// correction
type CorrectQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// DeleteSalesRequest represents the request body for bulk deletion
type DeleteSalesRequest struct {
	IDs []uuid.UUID `json:"ids"`
}
