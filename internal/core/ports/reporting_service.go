// internal/core/ports/reporting_service.go
package ports

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ammerola/pharmapos-be/internal/core/domain"
)

// ReportingService defines the application service port for dashboard
// metrics and profit reporting.
type ReportingService interface {
	Dashboard(ctx context.Context, now time.Time) (*DashboardMetrics, error)
	WeeklyProfit(ctx context.Context, now time.Time) ([]DailyProfit, error)
}

// DashboardMetrics is the aggregated snapshot behind the dashboard view
type DashboardMetrics struct {
	TotalMedicines  int64              `json:"total_medicines"`
	LowStockCount   int64              `json:"low_stock_count"`
	ExpiringCount   int64              `json:"expiring_count"`
	ExpiredCount    int64              `json:"expired_count"`
	StockValue      decimal.Decimal    `json:"stock_value"`
	TodaySalesTotal decimal.Decimal    `json:"today_sales_total"`
	TodayProfit     decimal.Decimal    `json:"today_profit"`
	LowStock        []*domain.Medicine `json:"low_stock"`
	GeneratedAt     time.Time          `json:"generated_at"`
}

// DailyProfit is one day's bucket in the weekly profit series
type DailyProfit struct {
	Date   string          `json:"date"`
	Sales  decimal.Decimal `json:"sales"`
	Profit decimal.Decimal `json:"profit"`
}
