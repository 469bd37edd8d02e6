// internal/workers/pdf_processor.go
package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/hibiken/asynq"
	"github.com/ledongthuc/pdf"
	"github.com/shopspring/decimal"

	"github.com/ammerola/pharmapos-be/internal/core/domain"
	"github.com/ammerola/pharmapos-be/internal/core/ports"
)

const (
	TypePDFImport        = "import:pdf"
	TypeExcelImport      = "import:excel"
	TypeExpiryAlert      = "alerts:expiry"
	TypeGenerateReport   = "report:weekly_profit"
	TypeSendEmail        = "email:send"
	TypeCleanupOldData   = "cleanup:old_data"
	TypeCleanupTempFiles = "cleanup:temp_files"
)

// PDFJobPayload represents the payload for supplier invoice imports
type PDFJobPayload struct {
	JobID    string `json:"job_id"`
	FilePath string `json:"file_path"`
	Supplier string `json:"supplier,omitempty"`
}

// ImportJobResult represents the result of an import job
type ImportJobResult struct {
	RowsProcessed  int      `json:"rows_processed"`
	RowsImported   int      `json:"rows_imported"`
	Errors         []string `json:"errors,omitempty"`
	ProcessingTime string   `json:"processing_time"`
}

// defaultMarkup derives a selling price when the supplier invoice only
// carries the unit cost.
var defaultMarkup = decimal.NewFromFloat(1.5)

// PDFProcessor imports medicines from supplier invoice PDFs
type PDFProcessor struct {
	service ports.MedicineService
	db      ports.Database
	logger  *slog.Logger
}

// NewPDFProcessor creates a new PDF processor
func NewPDFProcessor(service ports.MedicineService, db ports.Database, logger *slog.Logger) *PDFProcessor {
	return &PDFProcessor{
		service: service,
		db:      db,
		logger:  logger.With(slog.String("processor", "pdf")),
	}
}

// ProcessPDF extracts medicine lines from a supplier invoice PDF and
// saves them as stock
func (p *PDFProcessor) ProcessPDF(ctx context.Context, t *asynq.Task) error {
	start := time.Now()

	var payload PDFJobPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	p.logger.InfoContext(ctx, "processing supplier invoice PDF",
		slog.String("job_id", payload.JobID),
		slog.String("supplier", payload.Supplier))

	_ = updateJobStatus(ctx, p.db, payload.JobID, JobStatusProcessing, nil)

	medicines, err := p.extractMedicines(ctx, payload.FilePath)
	if err != nil {
		errMsg := fmt.Sprintf("failed to extract medicines: %v", err)
		_ = updateJobStatus(ctx, p.db, payload.JobID, JobStatusFailed, &errMsg)
		return fmt.Errorf("%s", errMsg)
	}

	saveErr := p.service.SaveMedicines(ctx, medicines)

	var errors []string
	status := JobStatusCompleted
	imported := len(medicines)
	if saveErr != nil {
		status = JobStatusFailed
		imported = 0
		errors = append(errors, saveErr.Error())
	}

	result := ImportJobResult{
		RowsProcessed:  len(medicines),
		RowsImported:   imported,
		Errors:         errors,
		ProcessingTime: time.Since(start).String(),
	}

	resultJSON, _ := json.Marshal(result)
	_ = completeJob(ctx, p.db, payload.JobID, status, resultJSON)

	// Clean up temporary file
	if strings.HasPrefix(payload.FilePath, os.TempDir()) {
		_ = os.Remove(payload.FilePath)
	}

	p.logger.InfoContext(ctx, "PDF import completed",
		slog.String("job_id", payload.JobID),
		slog.Int("rows_processed", result.RowsProcessed))

	return saveErr
}

func (p *PDFProcessor) extractMedicines(ctx context.Context, filePath string) ([]domain.Medicine, error) {
	f, r, err := pdf.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer f.Close()

	var textLines []string
	totalPages := r.NumPage()

	for pageNum := 1; pageNum <= totalPages; pageNum++ {
		page := r.Page(pageNum)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			p.logger.WarnContext(ctx, "failed to extract text from page",
				slog.Int("page", pageNum),
				slog.String("error", err.Error()))
			continue
		}

		textLines = append(textLines, strings.Split(text, "\n")...)
	}

	rows := p.parseInvoiceLines(textLines)

	medicines := make([]domain.Medicine, 0, len(rows))
	for _, row := range rows {
		medicines = append(medicines, p.buildMedicine(row))
	}

	p.logger.InfoContext(ctx, "extracted medicines from PDF",
		slog.Int("count", len(medicines)))

	return medicines, nil
}

// rawInvoiceLine is one parsed supplier invoice row: a description
// followed by quantity and unit cost, with an optional expiry date.
type rawInvoiceLine struct {
	description string
	quantity    int
	unitCost    decimal.Decimal
	expiry      time.Time
}

func (p *PDFProcessor) parseInvoiceLines(lines []string) []rawInvoiceLine {
	var items []rawInvoiceLine

	headerRe := regexp.MustCompile(`(?i)(ITEM.*QTY.*PRICE|DESCRIPTION.*QUANTITY.*COST)`)
	footerRe := regexp.MustCompile(`(?i)(SUBTOTAL|TOTAL|Payment due|Amount due)`)
	// Trailing "<qty> <unit cost>" pair, e.g. "... 100 6.50"
	lineRe := regexp.MustCompile(`(\d+)\s+\$?\s*(\d{1,3}(?:,\d{3})*\.\d{2})\s*$`)
	expiryRe := regexp.MustCompile(`\b(\d{4}-\d{2}-\d{2})\b`)

	startIdx := 0
	for i, line := range lines {
		if headerRe.MatchString(line) {
			startIdx = i + 1
			break
		}
	}

	for i := startIdx; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			continue
		}
		if footerRe.MatchString(line) {
			break
		}

		match := lineRe.FindStringSubmatch(line)
		if match == nil {
			continue
		}

		quantity, err := strconv.Atoi(match[1])
		if err != nil || quantity <= 0 {
			continue
		}
		unitCost := p.parseCurrency(match[2])

		description := strings.TrimSpace(lineRe.ReplaceAllString(line, ""))

		var expiry time.Time
		if m := expiryRe.FindStringSubmatch(description); m != nil {
			if t, err := time.Parse(time.DateOnly, m[1]); err == nil {
				expiry = t
			}
			description = strings.TrimSpace(expiryRe.ReplaceAllString(description, ""))
		}

		description = p.cleanDescription(description)
		if description == "" {
			continue
		}

		items = append(items, rawInvoiceLine{
			description: description,
			quantity:    quantity,
			unitCost:    unitCost,
			expiry:      expiry,
		})
	}

	return items
}

func (p *PDFProcessor) cleanDescription(desc string) string {
	// Strip leading line numbers and SKU-looking tokens
	desc = regexp.MustCompile(`^\d+\s+`).ReplaceAllString(desc, "")
	desc = regexp.MustCompile(`\b[A-Z]{2,4}-\d{3,8}\b`).ReplaceAllString(desc, "")
	desc = regexp.MustCompile(`\s+`).ReplaceAllString(desc, " ")

	return strings.TrimSpace(desc)
}

func (p *PDFProcessor) parseCurrency(val string) decimal.Decimal {
	cleaned := strings.ReplaceAll(val, "$", "")
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	cleaned = strings.TrimSpace(cleaned)

	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero
	}
	return d
}

func (p *PDFProcessor) buildMedicine(raw rawInvoiceLine) domain.Medicine {
	expiry := raw.expiry
	if expiry.IsZero() {
		// Invoices without an expiry column default to a year out;
		// pharmacists adjust on shelf intake.
		expiry = time.Now().AddDate(1, 0, 0)
	}

	medicine := domain.Medicine{
		Name:          p.generateName(raw.description),
		Generic:       p.guessGeneric(raw.description),
		Category:      "",
		Quantity:      raw.quantity,
		PurchasePrice: raw.unitCost,
		SellingPrice:  raw.unitCost.Mul(defaultMarkup).Round(2),
		Expiry:        expiry,
	}
	medicine.PrepareForStorage()

	return medicine
}

func (p *PDFProcessor) generateName(description string) string {
	name := description
	if len(name) > 60 {
		name = strings.TrimSpace(name[:60])
	}
	if name == "" {
		return "Unknown Medicine"
	}
	return name
}

// guessGeneric takes the leading word of the description as the generic
// name, stripping dosage suffixes like "500mg".
func (p *PDFProcessor) guessGeneric(description string) string {
	fields := strings.Fields(description)
	dosageRe := regexp.MustCompile(`^\d+(\.\d+)?(mg|mcg|g|ml|iu)$`)

	for _, field := range fields {
		word := strings.Trim(field, ".,()")
		if word == "" || dosageRe.MatchString(strings.ToLower(word)) {
			continue
		}
		return word
	}
	return description
}
