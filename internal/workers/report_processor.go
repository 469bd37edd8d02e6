// internal/workers/report_processor.go
package workers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
	"github.com/tealeg/xlsx/v3"

	"github.com/ammerola/pharmapos-be/internal/adapters/storage"
	"github.com/ammerola/pharmapos-be/internal/core/ports"
)

// ReportJobPayload configures a report generation run
type ReportJobPayload struct {
	ReportType string `json:"report_type"`
}

// ReportProcessor generates profit reports and archives them to object
// storage
type ReportProcessor struct {
	reporting ports.ReportingService
	storage   storage.StorageClient
	logger    *slog.Logger
}

// NewReportProcessor creates a new report processor
func NewReportProcessor(reporting ports.ReportingService, storage storage.StorageClient, logger *slog.Logger) *ReportProcessor {
	return &ReportProcessor{
		reporting: reporting,
		storage:   storage,
		logger:    logger.With(slog.String("processor", "report")),
	}
}

// GenerateReport builds the weekly profit workbook and uploads it
func (p *ReportProcessor) GenerateReport(ctx context.Context, t *asynq.Task) error {
	var payload ReportJobPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	reportType := payload.ReportType
	if reportType == "" {
		reportType = "weekly_profit"
	}

	p.logger.InfoContext(ctx, "generating report",
		slog.String("type", reportType))

	switch reportType {
	case "weekly_profit":
		return p.generateWeeklyProfit(ctx)
	default:
		return fmt.Errorf("unknown report type %q", reportType)
	}
}

func (p *ReportProcessor) generateWeeklyProfit(ctx context.Context) error {
	now := time.Now()

	series, err := p.reporting.WeeklyProfit(ctx, now)
	if err != nil {
		return fmt.Errorf("failed to load weekly profit: %w", err)
	}

	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Weekly Profit")
	if err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}

	header := sheet.AddRow()
	for _, title := range []string{"Date", "Profit"} {
		cell := header.AddCell()
		cell.Value = title
	}

	for _, day := range series {
		row := sheet.AddRow()
		row.AddCell().Value = day.Date
		row.AddCell().Value = day.Profit.StringFixed(2)
	}

	var buf bytes.Buffer
	if err := file.Write(&buf); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}

	key := fmt.Sprintf("reports/weekly-profit-%s.xlsx", now.Format("2006-01-02"))
	location, err := p.storage.Upload(ctx, key, &buf,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err != nil {
		return fmt.Errorf("failed to upload report: %w", err)
	}

	p.logger.InfoContext(ctx, "weekly profit report archived",
		slog.String("key", key),
		slog.String("location", location))

	return nil
}
