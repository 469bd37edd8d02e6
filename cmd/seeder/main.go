package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/tealeg/xlsx/v3"
)

// SeedMedicine is a single row destined for the medicines table
type SeedMedicine struct {
	ID            uuid.UUID
	Name          string
	Generic       string
	Category      string
	Quantity      int
	PurchasePrice decimal.Decimal
	SellingPrice  decimal.Decimal
	Expiry        time.Time
}

// Stock sheet column layout: name, generic, category, quantity,
// purchase price, selling price, expiry date
const (
	colName = iota
	colGeneric
	colCategory
	colQuantity
	colPurchase
	colSelling
	colExpiry
)

var expiryFormats = []string{
	time.DateOnly,
	"01/02/2006",
	"02-01-2006",
	"2006/01/02",
	"Jan 2, 2006",
	"01-02-06",
}

// StockSheetLoader parses pharmacy stock sheets into seed rows
type StockSheetLoader struct {
	logger *slog.Logger
}

func NewStockSheetLoader(logger *slog.Logger) *StockSheetLoader {
	return &StockSheetLoader{logger: logger}
}

// LoadSheet reads one stock sheet and returns the valid rows plus
// per-row errors for anything that could not be parsed
func (l *StockSheetLoader) LoadSheet(path string) ([]SeedMedicine, []string, error) {
	file, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open stock sheet: %w", err)
	}
	if len(file.Sheets) == 0 {
		return nil, nil, fmt.Errorf("no sheets found in %s", filepath.Base(path))
	}
	sheet := file.Sheets[0]

	var medicines []SeedMedicine
	var rowErrors []string

	rowIdx := 0
	err = sheet.ForEachRow(func(r *xlsx.Row) error {
		// Skip header
		if rowIdx == 0 {
			rowIdx++
			return nil
		}
		rowIdx++

		med, parseErr := l.parseRow(r)
		if parseErr != nil {
			rowErrors = append(rowErrors, fmt.Sprintf("row %d: %v", rowIdx, parseErr))
			return nil
		}
		if med == nil {
			return nil
		}

		medicines = append(medicines, *med)
		return nil
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to iterate rows: %w", err)
	}

	return medicines, rowErrors, nil
}

func (l *StockSheetLoader) parseRow(r *xlsx.Row) (*SeedMedicine, error) {
	get := func(i int) string {
		c := r.GetCell(i)
		if c == nil {
			return ""
		}
		if s, err := c.FormattedValue(); err == nil {
			return strings.TrimSpace(s)
		}
		return strings.TrimSpace(c.String())
	}

	name := get(colName)
	if name == "" {
		// Blank row, skip silently
		return nil, nil
	}

	generic := get(colGeneric)
	if generic == "" {
		generic = name
	}

	quantity, err := strconv.Atoi(get(colQuantity))
	if err != nil {
		return nil, fmt.Errorf("invalid quantity %q", get(colQuantity))
	}
	if quantity < 0 {
		return nil, fmt.Errorf("quantity cannot be negative")
	}

	purchase, err := decimal.NewFromString(get(colPurchase))
	if err != nil {
		return nil, fmt.Errorf("invalid purchase price %q", get(colPurchase))
	}

	selling := decimal.Zero
	if s := get(colSelling); s != "" {
		selling, err = decimal.NewFromString(s)
		if err != nil {
			return nil, fmt.Errorf("invalid selling price %q", s)
		}
	}
	if selling.IsZero() {
		selling = purchase.Mul(decimal.NewFromFloat(1.5)).Round(2)
	}

	expiry := parseExpiry(get(colExpiry))

	return &SeedMedicine{
		ID:            uuid.New(),
		Name:          name,
		Generic:       generic,
		Category:      strings.ToLower(get(colCategory)),
		Quantity:      quantity,
		PurchasePrice: purchase.Round(2),
		SellingPrice:  selling.Round(2),
		Expiry:        expiry,
	}, nil
}

func parseExpiry(val string) time.Time {
	if val == "" {
		return time.Now().AddDate(1, 0, 0)
	}
	for _, layout := range expiryFormats {
		if t, err := time.Parse(layout, val); err == nil {
			return t
		}
	}
	return time.Now().AddDate(1, 0, 0)
}

// SaveMedicines persists seed rows in a single batched transaction
func SaveMedicines(ctx context.Context, db *pgxpool.Pool, medicines []SeedMedicine, logger *slog.Logger) error {
	if len(medicines) == 0 {
		return nil
	}

	tx, err := db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	for _, med := range medicines {
		batch.Queue(`
			INSERT INTO medicines (
				id, name, generic, category, quantity,
				purchase_price, selling_price, expiry
			) VALUES (
				$1, $2, $3, $4, $5, $6, $7, $8
			) ON CONFLICT (id) DO NOTHING`,
			med.ID, med.Name, med.Generic, med.Category, med.Quantity,
			med.PurchasePrice, med.SellingPrice, med.Expiry,
		)
	}

	br := tx.SendBatch(ctx, batch)
	for range medicines {
		if _, err := br.Exec(); err != nil {
			br.Close()
			return fmt.Errorf("failed to insert medicine: %w", err)
		}
	}
	if err := br.Close(); err != nil {
		return fmt.Errorf("failed to close batch results: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	logger.Info("Saved medicines to database", slog.Int("count", len(medicines)))
	return nil
}

// demoCatalog returns a small starter catalog used when no stock
// sheets are supplied, handy for local development
func demoCatalog() []SeedMedicine {
	type row struct {
		name, generic, category        string
		quantity                       int
		purchase, selling, expiryYears float64
	}
	rows := []row{
		{"Panadol 500mg", "Paracetamol", "analgesic", 120, 1.20, 2.00, 2},
		{"Amoxil 250mg", "Amoxicillin", "antibiotic", 60, 3.40, 5.50, 1},
		{"Zyrtec 10mg", "Cetirizine", "antihistamine", 80, 2.10, 3.50, 2},
		{"Ventolin Inhaler", "Salbutamol", "respiratory", 25, 8.90, 13.50, 1},
		{"Glucophage 500mg", "Metformin", "antidiabetic", 90, 2.80, 4.20, 2},
		{"Lipitor 20mg", "Atorvastatin", "cardiovascular", 45, 6.50, 9.90, 1},
		{"Losec 20mg", "Omeprazole", "gastrointestinal", 70, 4.10, 6.50, 2},
		{"Brufen 400mg", "Ibuprofen", "analgesic", 150, 1.60, 2.50, 2},
	}

	medicines := make([]SeedMedicine, 0, len(rows))
	for _, r := range rows {
		medicines = append(medicines, SeedMedicine{
			ID:            uuid.New(),
			Name:          r.name,
			Generic:       r.generic,
			Category:      r.category,
			Quantity:      r.quantity,
			PurchasePrice: decimal.NewFromFloat(r.purchase),
			SellingPrice:  decimal.NewFromFloat(r.selling),
			Expiry:        time.Now().AddDate(int(r.expiryYears), 0, 0),
		})
	}
	return medicines
}

func main() {
	// Parse flags
	var (
		sheetsDir = flag.String("sheets", "./stock_sheets", "Directory containing Excel stock sheets")
		stateFile = flag.String("state", "./.seed_state.json", "State file for tracking progress")
		logLevel  = flag.String("log-level", "info", "Log level (debug, info, warn, error)")
		dryRun    = flag.Bool("dry-run", false, "Preview changes without modifying database")
		force     = flag.Bool("force", false, "Reprocess all stock sheets")
		demo      = flag.Bool("demo", false, "Seed the built-in demo catalog instead of stock sheets")
	)
	flag.Parse()

	// Setup logging
	var slogLevel slog.Level
	switch *logLevel {
	case "debug":
		slogLevel = slog.LevelDebug
	case "warn":
		slogLevel = slog.LevelWarn
	case "error":
		slogLevel = slog.LevelError
	default:
		slogLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level: slogLevel,
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, opts))
	slog.SetDefault(logger)

	// Database connection
	dbURL := fmt.Sprintf("postgresql://%s:%s@%s:%s/%s?sslmode=%s",
		getEnv("DB_USER", "pharmapos"),
		getEnv("DB_PASSWORD", "pharmapos_dev_2026"),
		getEnv("DB_HOST", "localhost"),
		getEnv("DB_PORT", "5432"),
		getEnv("DB_NAME", "pharmapos"),
		getEnv("DB_SSL_MODE", "disable"),
	)

	ctx := context.Background()

	var db *pgxpool.Pool
	var err error

	if !*dryRun {
		db, err = pgxpool.New(ctx, dbURL)
		if err != nil {
			logger.Error("Failed to connect to database", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer db.Close()
	}

	if *demo {
		medicines := demoCatalog()
		if *dryRun {
			fmt.Printf("[DRY RUN] Would seed %d demo medicines\n", len(medicines))
			return
		}
		if err := SaveMedicines(ctx, db, medicines, logger); err != nil {
			logger.Error("Failed to seed demo catalog", slog.String("error", err.Error()))
			os.Exit(1)
		}
		fmt.Printf("SUCCESS: Seeded %d demo medicines\n", len(medicines))
		return
	}

	loader := NewStockSheetLoader(logger)

	// Load state
	type SeederState struct {
		ProcessedSheets []string  `json:"processed_sheets"`
		ProcessedCount  int       `json:"processed_count"`
		LastUpdate      time.Time `json:"last_update"`
	}

	var state SeederState
	if !*force {
		if stateData, err := os.ReadFile(*stateFile); err == nil {
			json.Unmarshal(stateData, &state)
		}
	}

	sheetFiles, err := filepath.Glob(filepath.Join(*sheetsDir, "*.xlsx"))
	if err != nil {
		logger.Error("Failed to find stock sheets", slog.String("error", err.Error()))
		os.Exit(1)
	}

	totalProcessed := 0
	totalMedicines := 0
	failedSheets := []string{}
	successDetails := map[string]int{}

	for i, sheetFile := range sheetFiles {
		sheetName := filepath.Base(sheetFile)

		fmt.Printf("PROGRESS: Processing %d/%d: %s\n", i+1, len(sheetFiles), sheetName)

		// Check if already processed
		if !*force {
			processed := false
			for _, name := range state.ProcessedSheets {
				if name == sheetName {
					processed = true
					break
				}
			}
			if processed {
				logger.Info("Skipping already processed sheet", slog.String("sheet", sheetName))
				continue
			}
		}

		medicines, rowErrors, err := loader.LoadSheet(sheetFile)
		if err != nil {
			logger.Error("Failed to load stock sheet",
				slog.String("sheet", sheetName),
				slog.String("error", err.Error()))
			failedSheets = append(failedSheets, sheetName)
			fmt.Printf("ERROR: Failed to process %s - %v\n", sheetName, err)
			continue
		}

		for _, rowErr := range rowErrors {
			logger.Warn("Skipped row",
				slog.String("sheet", sheetName),
				slog.String("reason", rowErr))
		}

		if len(medicines) == 0 {
			logger.Warn("No medicines extracted", slog.String("sheet", sheetName))
			fmt.Printf("WARNING: No medicines found in %s\n", sheetName)
			failedSheets = append(failedSheets, fmt.Sprintf("%s (0 rows)", sheetName))
			continue
		}

		if !*dryRun {
			if err := SaveMedicines(ctx, db, medicines, logger); err != nil {
				logger.Error("Failed to save medicines",
					slog.String("sheet", sheetName),
					slog.String("error", err.Error()))
				failedSheets = append(failedSheets, sheetName)
				fmt.Printf("ERROR: Failed to save %s - %v\n", sheetName, err)
				continue
			}
		}

		fmt.Printf("SUCCESS: Processed %s - %d medicines\n", sheetName, len(medicines))
		successDetails[sheetName] = len(medicines)

		totalProcessed++
		totalMedicines += len(medicines)

		// Update state
		state.ProcessedSheets = append(state.ProcessedSheets, sheetName)
		state.ProcessedCount = len(state.ProcessedSheets)
		state.LastUpdate = time.Now()

		// Save state periodically
		if !*dryRun && i%10 == 0 {
			stateData, _ := json.MarshalIndent(state, "", "  ")
			os.WriteFile(*stateFile, stateData, 0644)
		}
	}

	// Save final state
	if !*dryRun {
		stateData, _ := json.MarshalIndent(state, "", "  ")
		os.WriteFile(*stateFile, stateData, 0644)
	}

	// Summary
	fmt.Println("\n" + strings.Repeat("=", 60))
	fmt.Println("SEEDING OPERATION SUMMARY")
	fmt.Println(strings.Repeat("=", 60))
	fmt.Printf("Total Sheets Processed: %d\n", totalProcessed)
	fmt.Printf("Total Medicines Loaded: %d\n", totalMedicines)
	if totalProcessed > 0 {
		fmt.Printf("Average Rows per Sheet: %.1f\n", float64(totalMedicines)/float64(totalProcessed))
	}

	if len(successDetails) > 0 {
		fmt.Printf("\nSuccessfully Processed (%d sheets):\n", len(successDetails))
		for sheet, count := range successDetails {
			fmt.Printf("  - %s: %d medicines\n", sheet, count)
		}
	}

	if len(failedSheets) > 0 {
		fmt.Printf("\nFailed/Empty Sheets (%d):\n", len(failedSheets))
		for _, sheet := range failedSheets {
			fmt.Printf("  - %s\n", sheet)
		}
	}

	logger.Info("Seed operation completed",
		slog.Int("sheets_processed", totalProcessed),
		slog.Int("medicines_created", totalMedicines),
		slog.Int("failed_sheets", len(failedSheets)))

	if *dryRun {
		fmt.Println("\n[DRY RUN] No changes were made to the database")
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
