// internal/workers/excel_processor.go
package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/hibiken/asynq"
	"github.com/shopspring/decimal"
	"github.com/tealeg/xlsx/v3"

	"github.com/ammerola/pharmapos-be/internal/core/domain"
	"github.com/ammerola/pharmapos-be/internal/core/ports"
)

// ExcelJobPayload represents the payload for stock sheet imports
type ExcelJobPayload struct {
	JobID    string `json:"job_id"`
	FilePath string `json:"file_path"`
}

// stockSheetColumns maps the expected layout of an uploaded stock
// sheet: name, generic, category, quantity, purchase price, selling
// price, expiry.
const (
	colName = iota
	colGeneric
	colCategory
	colQuantity
	colPurchasePrice
	colSellingPrice
	colExpiry
)

// ExcelProcessor imports medicines from uploaded stock sheets
type ExcelProcessor struct {
	service ports.MedicineService
	db      ports.Database
	logger  *slog.Logger
}

// NewExcelProcessor creates a new Excel processor
func NewExcelProcessor(service ports.MedicineService, db ports.Database, logger *slog.Logger) *ExcelProcessor {
	return &ExcelProcessor{
		service: service,
		db:      db,
		logger:  logger.With(slog.String("processor", "excel")),
	}
}

// ProcessExcel parses a stock sheet and imports its rows as medicines
func (p *ExcelProcessor) ProcessExcel(ctx context.Context, t *asynq.Task) error {
	start := time.Now()

	var payload ExcelJobPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	p.logger.InfoContext(ctx, "processing stock sheet",
		slog.String("job_id", payload.JobID),
		slog.String("file_path", payload.FilePath))

	_ = updateJobStatus(ctx, p.db, payload.JobID, JobStatusProcessing, nil)

	file, err := xlsx.OpenFile(payload.FilePath)
	if err != nil {
		errMsg := fmt.Sprintf("failed to open Excel file: %v", err)
		_ = updateJobStatus(ctx, p.db, payload.JobID, JobStatusFailed, &errMsg)
		return fmt.Errorf("%s", errMsg)
	}

	var medicines []domain.Medicine
	var rowErrors []string

	if len(file.Sheets) > 0 {
		sheet := file.Sheets[0]
		rowIdx := 0

		err = sheet.ForEachRow(func(r *xlsx.Row) error {
			// Skip header row
			if rowIdx == 0 {
				rowIdx++
				return nil
			}
			rowIdx++

			medicine, rowErr := p.parseRow(r)
			if rowErr != nil {
				rowErrors = append(rowErrors, fmt.Sprintf("row %d: %v", rowIdx, rowErr))
				return nil
			}
			if medicine != nil {
				medicines = append(medicines, *medicine)
			}
			return nil
		})

		if err != nil {
			errMsg := fmt.Sprintf("failed to process Excel rows: %v", err)
			_ = updateJobStatus(ctx, p.db, payload.JobID, JobStatusFailed, &errMsg)
			return fmt.Errorf("%s", errMsg)
		}
	}

	var saveErr error
	if len(medicines) > 0 {
		saveErr = p.service.SaveMedicines(ctx, medicines)
	}

	status := JobStatusCompleted
	imported := len(medicines)
	if saveErr != nil {
		status = JobStatusFailed
		imported = 0
		rowErrors = append(rowErrors, saveErr.Error())
	}

	result := ImportJobResult{
		RowsProcessed:  len(medicines) + len(rowErrors),
		RowsImported:   imported,
		Errors:         rowErrors,
		ProcessingTime: time.Since(start).String(),
	}

	resultJSON, _ := json.Marshal(result)
	_ = completeJob(ctx, p.db, payload.JobID, status, resultJSON)

	// Clean up temp file
	if strings.HasPrefix(payload.FilePath, os.TempDir()) {
		_ = os.Remove(payload.FilePath)
	}

	p.logger.InfoContext(ctx, "stock sheet import completed",
		slog.String("job_id", payload.JobID),
		slog.Int("rows_imported", imported),
		slog.Int("row_errors", len(rowErrors)))

	return saveErr
}

func (p *ExcelProcessor) parseRow(r *xlsx.Row) (*domain.Medicine, error) {
	get := func(i int) string {
		c := r.GetCell(i)
		if c == nil {
			return ""
		}
		return strings.TrimSpace(c.String())
	}

	getDecimal := func(i int) decimal.Decimal {
		s := get(i)
		if s == "" {
			return decimal.Zero
		}
		d, _ := decimal.NewFromString(strings.TrimPrefix(s, "$"))
		return d
	}

	name := get(colName)
	if name == "" {
		// Blank rows between sections are common in hand-kept sheets
		return nil, nil
	}

	quantity, err := strconv.Atoi(get(colQuantity))
	if err != nil {
		return nil, fmt.Errorf("invalid quantity %q", get(colQuantity))
	}
	if quantity < 0 {
		return nil, fmt.Errorf("negative quantity %d", quantity)
	}

	expiry, err := p.parseExpiry(get(colExpiry))
	if err != nil {
		return nil, err
	}

	medicine := &domain.Medicine{
		Name:          name,
		Generic:       get(colGeneric),
		Category:      get(colCategory),
		Quantity:      quantity,
		PurchasePrice: getDecimal(colPurchasePrice),
		SellingPrice:  getDecimal(colSellingPrice),
		Expiry:        expiry,
	}
	if medicine.Generic == "" {
		medicine.Generic = name
	}
	if medicine.SellingPrice.IsZero() && !medicine.PurchasePrice.IsZero() {
		medicine.SellingPrice = medicine.PurchasePrice.Mul(defaultMarkup).Round(2)
	}
	medicine.PrepareForStorage()

	if err := medicine.Validate(); err != nil {
		return nil, err
	}

	return medicine, nil
}

// parseExpiry accepts the date formats that show up in real supplier
// sheets. Missing dates default to a year out.
func (p *ExcelProcessor) parseExpiry(val string) (time.Time, error) {
	if val == "" {
		return time.Now().AddDate(1, 0, 0), nil
	}

	formats := []string{
		time.DateOnly,
		"01/02/2006",
		"02-01-2006",
		"2006/01/02",
		"Jan 2, 2006",
		"01-02-06",
	}

	for _, format := range formats {
		if t, err := time.Parse(format, val); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unparseable expiry date %q", val)
}
