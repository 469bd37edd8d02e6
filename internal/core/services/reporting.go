// internal/core/services/reporting.go
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ammerola/pharmapos-be/internal/core/domain"
	"github.com/ammerola/pharmapos-be/internal/core/ports"
)

// ReportingService aggregates inventory and ledger data for the
// dashboard and profit reports
type ReportingService struct {
	medicines         ports.MedicineRepository
	sales             ports.SalesRepository
	lowStockThreshold int
	expiryWindowDays  int
	logger            *slog.Logger
}

// Statically assert that *ReportingService implements the ReportingService interface.
var _ ports.ReportingService = (*ReportingService)(nil)

// NewReportingService creates a new reporting service
func NewReportingService(medicines ports.MedicineRepository, sales ports.SalesRepository, lowStockThreshold, expiryWindowDays int, logger *slog.Logger) *ReportingService {
	if lowStockThreshold <= 0 {
		lowStockThreshold = domain.DefaultLowStockThreshold
	}
	if expiryWindowDays <= 0 {
		expiryWindowDays = domain.DefaultExpiryWindowDays
	}
	return &ReportingService{
		medicines:         medicines,
		sales:             sales,
		lowStockThreshold: lowStockThreshold,
		expiryWindowDays:  expiryWindowDays,
		logger:            logger.With(slog.String("service", "reporting")),
	}
}

// Dashboard builds the aggregated snapshot behind the dashboard view.
// Today's sales figures cover the calendar day containing now, in UTC.
func (s *ReportingService) Dashboard(ctx context.Context, now time.Time) (*ports.DashboardMetrics, error) {
	now = now.UTC()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.AddDate(0, 0, 1)

	total, err := s.medicines.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count medicines: %w", err)
	}

	lowStockCount, err := s.medicines.CountLowStock(ctx, s.lowStockThreshold)
	if err != nil {
		return nil, fmt.Errorf("failed to count low stock: %w", err)
	}

	expiringCount, err := s.medicines.CountExpiringBetween(ctx, now, now.AddDate(0, 0, s.expiryWindowDays))
	if err != nil {
		return nil, fmt.Errorf("failed to count expiring medicines: %w", err)
	}

	expiredCount, err := s.medicines.CountExpiredBefore(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("failed to count expired medicines: %w", err)
	}

	stockValue, err := s.medicines.StockPurchaseValue(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compute stock value: %w", err)
	}

	todaySales, err := s.sales.SumFinalTotalBetween(ctx, dayStart, dayEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to sum today's sales: %w", err)
	}

	todayProfit, err := s.sales.SumProfitBetween(ctx, dayStart, dayEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to sum today's profit: %w", err)
	}

	lowStock, err := s.medicines.FindLowStock(ctx, s.lowStockThreshold)
	if err != nil {
		return nil, fmt.Errorf("failed to find low stock medicines: %w", err)
	}

	return &ports.DashboardMetrics{
		TotalMedicines:  total,
		LowStockCount:   lowStockCount,
		ExpiringCount:   expiringCount,
		ExpiredCount:    expiredCount,
		StockValue:      stockValue,
		TodaySalesTotal: todaySales,
		TodayProfit:     todayProfit,
		LowStock:        lowStock,
		GeneratedAt:     now,
	}, nil
}

// WeeklyProfit returns one bucket per day for the last seven calendar
// days, oldest first, the last bucket being today.
func (s *ReportingService) WeeklyProfit(ctx context.Context, now time.Time) ([]ports.DailyProfit, error) {
	now = now.UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	series := make([]ports.DailyProfit, 0, 7)
	for offset := 6; offset >= 0; offset-- {
		dayStart := today.AddDate(0, 0, -offset)
		dayEnd := dayStart.AddDate(0, 0, 1)

		sales, err := s.sales.SumFinalTotalBetween(ctx, dayStart, dayEnd)
		if err != nil {
			return nil, fmt.Errorf("failed to sum sales for %s: %w", dayStart.Format(time.DateOnly), err)
		}

		profit, err := s.sales.SumProfitBetween(ctx, dayStart, dayEnd)
		if err != nil {
			return nil, fmt.Errorf("failed to sum profit for %s: %w", dayStart.Format(time.DateOnly), err)
		}

		series = append(series, ports.DailyProfit{
			Date:   dayStart.Format(time.DateOnly),
			Sales:  sales,
			Profit: profit,
		})
	}

	return series, nil
}
