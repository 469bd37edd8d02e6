// internal/handlers/export.go
package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/tealeg/xlsx/v3"

	redis_a "github.com/ammerola/pharmapos-be/internal/adapters/redis_adapter"
	"github.com/ammerola/pharmapos-be/internal/core/domain"
	"github.com/ammerola/pharmapos-be/internal/core/ports"
)

// exportPageSize is the page size used when walking the full data set
// for an export.
const exportPageSize = 500

const excelContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// MedicineExportResponse is the JSON export envelope for the stock list
type MedicineExportResponse struct {
	Medicines []*domain.Medicine `json:"medicines"`
	Metadata  ExportMetadata     `json:"metadata"`
}

// ExportMetadata contains metadata about the export
type ExportMetadata struct {
	ExportDate time.Time `json:"export_date"`
	TotalItems int       `json:"total_items"`
}

// ExportHandler serves stock and sales exports
type ExportHandler struct {
	medicines ports.MedicineService
	sales     ports.SalesService
	cache     ports.CacheRepository
	logger    *slog.Logger
}

// NewExportHandler creates a new export handler
func NewExportHandler(medicines ports.MedicineService, sales ports.SalesService, cache ports.CacheRepository, logger *slog.Logger) *ExportHandler {
	return &ExportHandler{
		medicines: medicines,
		sales:     sales,
		cache:     cache,
		logger:    logger.With(slog.String("handler", "export")),
	}
}

// ExportMedicinesExcel handles GET /api/v1/export/medicines/excel
func (h *ExportHandler) ExportMedicinesExcel(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	medicines, err := h.collectMedicines(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to collect medicines for export",
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to retrieve data")
		return
	}

	excelData, err := h.buildMedicinesWorkbook(medicines)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to generate Excel file",
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to generate Excel file")
		return
	}

	filename := fmt.Sprintf("medicines_export_%s.xlsx", time.Now().Format("20060102_150405"))
	w.Header().Set("Content-Type", excelContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(excelData)))
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")

	if _, err := w.Write(excelData); err != nil {
		h.logger.ErrorContext(ctx, "failed to write Excel response",
			slog.String("error", err.Error()))
		return
	}

	h.logger.InfoContext(ctx, "medicines export completed",
		slog.Int("total_rows", len(medicines)),
		slog.String("filename", filename))
}

// ExportMedicinesJSON handles GET /api/v1/export/medicines/json
func (h *ExportHandler) ExportMedicinesJSON(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	cacheKey := redis_a.BuildKey(redis_a.PrefixExport, "medicines", "json")
	var cachedData []byte
	if err := h.cache.Get(ctx, cacheKey, &cachedData); err == nil {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("X-Cache", "HIT")
		w.Header().Set("Content-Length", strconv.Itoa(len(cachedData)))

		if _, err := w.Write(cachedData); err != nil {
			h.logger.ErrorContext(ctx, "failed to write cached JSON response",
				slog.String("error", err.Error()))
		}
		return
	}

	medicines, err := h.collectMedicines(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to collect medicines for export",
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to retrieve data")
		return
	}

	response := MedicineExportResponse{
		Medicines: medicines,
		Metadata: ExportMetadata{
			ExportDate: time.Now(),
			TotalItems: len(medicines),
		},
	}

	responseData, err := json.Marshal(response)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to marshal JSON response",
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to generate JSON")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Cache", "MISS")
	w.Header().Set("Content-Length", strconv.Itoa(len(responseData)))

	if _, err := w.Write(responseData); err != nil {
		h.logger.ErrorContext(ctx, "failed to write JSON response",
			slog.String("error", err.Error()))
		return
	}

	// Cache the rendered payload out of band
	go func() {
		cacheCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := h.cache.SetWithTTL(cacheCtx, cacheKey, responseData, 5*time.Minute); err != nil {
			h.logger.WarnContext(cacheCtx, "failed to cache JSON export",
				slog.String("error", err.Error()))
		}
	}()

	h.logger.InfoContext(ctx, "JSON export completed",
		slog.Int("total_rows", len(medicines)))
}

// ExportSalesExcel handles GET /api/v1/export/sales/excel
func (h *ExportHandler) ExportSalesExcel(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	from := r.URL.Query().Get("from")
	until := r.URL.Query().Get("until")

	sales, err := h.collectSales(ctx, from, until)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to collect sales for export",
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to retrieve data")
		return
	}

	excelData, err := h.buildSalesWorkbook(sales)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to generate Excel file",
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to generate Excel file")
		return
	}

	filename := fmt.Sprintf("sales_export_%s.xlsx", time.Now().Format("20060102_150405"))
	w.Header().Set("Content-Type", excelContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(excelData)))
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")

	if _, err := w.Write(excelData); err != nil {
		h.logger.ErrorContext(ctx, "failed to write Excel response",
			slog.String("error", err.Error()))
		return
	}

	h.logger.InfoContext(ctx, "sales export completed",
		slog.Int("total_sales", len(sales)),
		slog.String("filename", filename))
}

// collectMedicines pages through the full stock list
func (h *ExportHandler) collectMedicines(ctx context.Context) ([]*domain.Medicine, error) {
	var medicines []*domain.Medicine

	for page := 1; ; page++ {
		result, err := h.medicines.List(ctx, ports.ListParams{
			SortBy:    "name",
			SortOrder: "asc",
			Page:      page,
			PageSize:  exportPageSize,
		})
		if err != nil {
			return nil, err
		}

		medicines = append(medicines, result.Medicines...)
		if page >= result.TotalPages || len(result.Medicines) == 0 {
			break
		}
	}

	return medicines, nil
}

// collectSales pages through the sales history within the date range
func (h *ExportHandler) collectSales(ctx context.Context, from, until string) ([]*domain.SaleRecord, error) {
	var sales []*domain.SaleRecord

	for page := 1; ; page++ {
		result, err := h.sales.ListSales(ctx, ports.SaleListParams{
			From:     from,
			Until:    until,
			Page:     page,
			PageSize: exportPageSize,
		})
		if err != nil {
			return nil, err
		}

		sales = append(sales, result.Sales...)
		if page >= result.TotalPages || len(result.Sales) == 0 {
			break
		}
	}

	return sales, nil
}

func (h *ExportHandler) buildMedicinesWorkbook(medicines []*domain.Medicine) ([]byte, error) {
	file := xlsx.NewFile()

	sheet, err := file.AddSheet("Medicines")
	if err != nil {
		return nil, fmt.Errorf("failed to add worksheet: %w", err)
	}

	headers := []string{
		"Name", "Generic", "Category", "Quantity",
		"Purchase Price", "Selling Price", "Stock Value", "Expiry",
	}
	headerRow := sheet.AddRow()
	for _, header := range headers {
		cell := headerRow.AddCell()
		cell.Value = header
		cell.GetStyle().Font.Bold = true
		cell.GetStyle().Fill.PatternType = "solid"
		cell.GetStyle().Fill.FgColor = "CCCCCC"
	}

	for _, m := range medicines {
		row := sheet.AddRow()
		for _, value := range []string{
			m.Name,
			m.Generic,
			m.Category,
			strconv.Itoa(m.Quantity),
			m.PurchasePrice.StringFixed(2),
			m.SellingPrice.StringFixed(2),
			m.StockValue().StringFixed(2),
			m.Expiry.Format("2006-01-02"),
		} {
			row.AddCell().Value = value
		}
	}

	for i := 1; i <= len(headers); i++ {
		sheet.SetColWidth(i, i, 15)
	}

	var buffer bytes.Buffer
	if err := file.Write(&buffer); err != nil {
		return nil, fmt.Errorf("failed to write Excel file to buffer: %w", err)
	}

	return buffer.Bytes(), nil
}

// buildSalesWorkbook writes one row per sale line plus the header
// totals, so accountants can pivot on it directly.
func (h *ExportHandler) buildSalesWorkbook(sales []*domain.SaleRecord) ([]byte, error) {
	file := xlsx.NewFile()

	sheet, err := file.AddSheet("Sales")
	if err != nil {
		return nil, fmt.Errorf("failed to add worksheet: %w", err)
	}

	headers := []string{
		"Sale ID", "Date", "Medicine", "Quantity", "Selling Price",
		"Line Total", "Line Profit", "Discount", "Service Charge", "Final Total",
	}
	headerRow := sheet.AddRow()
	for _, header := range headers {
		cell := headerRow.AddCell()
		cell.Value = header
		cell.GetStyle().Font.Bold = true
		cell.GetStyle().Fill.PatternType = "solid"
		cell.GetStyle().Fill.FgColor = "CCCCCC"
	}

	for _, sale := range sales {
		for i, item := range sale.Items {
			row := sheet.AddRow()
			values := []string{
				sale.ID.String(),
				sale.CreatedAt.Format("2006-01-02 15:04:05"),
				item.Name,
				strconv.Itoa(item.Quantity),
				item.SellingPrice.StringFixed(2),
				item.TotalAmount.StringFixed(2),
				item.Profit.StringFixed(2),
			}
			// Header-level amounts only on the first line of each sale
			if i == 0 {
				values = append(values,
					sale.Discount.StringFixed(2),
					sale.ServiceCharge.StringFixed(2),
					sale.FinalTotal.StringFixed(2))
			} else {
				values = append(values, "", "", "")
			}
			for _, value := range values {
				row.AddCell().Value = value
			}
		}
	}

	for i := 1; i <= len(headers); i++ {
		sheet.SetColWidth(i, i, 16)
	}

	var buffer bytes.Buffer
	if err := file.Write(&buffer); err != nil {
		return nil, fmt.Errorf("failed to write Excel file to buffer: %w", err)
	}

	return buffer.Bytes(), nil
}

func (h *ExportHandler) respondError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
