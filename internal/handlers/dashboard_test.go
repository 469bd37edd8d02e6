// internal/handlers/dashboard_test.go
package handlers_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/ammerola/pharmapos-be/internal/core/domain"
	"github.com/ammerola/pharmapos-be/internal/core/ports"
	"github.com/ammerola/pharmapos-be/internal/handlers"
	"github.com/ammerola/pharmapos-be/test/helpers"
	"github.com/ammerola/pharmapos-be/test/mocks"
)

func TestDashboardHandler_GetDashboard(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockReporting := mocks.NewMockReportingService(ctrl)
	cache := newTestCacheMock()

	handler := handlers.NewDashboardHandler(mockReporting, cache, time.Minute, helpers.TestLogger())

	metrics := &ports.DashboardMetrics{
		TotalMedicines:  42,
		LowStockCount:   3,
		ExpiringCount:   2,
		ExpiredCount:    1,
		StockValue:      decimal.NewFromFloat(1234.56),
		TodaySalesTotal: decimal.NewFromFloat(89.00),
		TodayProfit:     decimal.NewFromFloat(21.40),
		LowStock:        []*domain.Medicine{helpers.CreateTestMedicine()},
		GeneratedAt:     time.Now(),
	}

	// Only one fetch: the second request is served from cache
	mockReporting.EXPECT().
		Dashboard(gomock.Any(), gomock.Any()).
		Return(metrics, nil).
		Times(1)

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest("GET", "/api/v1/dashboard", nil)
		w := httptest.NewRecorder()

		handler.GetDashboard(w, req)

		assert.Equal(t, http.StatusOK, w.Result().StatusCode)

		var response ports.DashboardMetrics
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, int64(42), response.TotalMedicines)
		assert.Equal(t, int64(3), response.LowStockCount)
		assert.True(t, response.StockValue.Equal(metrics.StockValue))
		assert.Len(t, response.LowStock, 1)
	}
}

func TestDashboardHandler_GetDashboard_ServiceError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockReporting := mocks.NewMockReportingService(ctrl)
	cache := newTestCacheMock()

	handler := handlers.NewDashboardHandler(mockReporting, cache, time.Minute, helpers.TestLogger())

	mockReporting.EXPECT().
		Dashboard(gomock.Any(), gomock.Any()).
		Return(nil, errors.New("database error"))

	req := httptest.NewRequest("GET", "/api/v1/dashboard", nil)
	w := httptest.NewRecorder()

	handler.GetDashboard(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Result().StatusCode)
}

func TestDashboardHandler_GetWeeklyProfit(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockReporting := mocks.NewMockReportingService(ctrl)
	cache := newTestCacheMock()

	handler := handlers.NewDashboardHandler(mockReporting, cache, time.Minute, helpers.TestLogger())

	series := make([]ports.DailyProfit, 0, 7)
	for i := 6; i >= 0; i-- {
		series = append(series, ports.DailyProfit{
			Date:   time.Now().AddDate(0, 0, -i).Format("2006-01-02"),
			Profit: decimal.NewFromInt(int64(10 + i)),
		})
	}

	mockReporting.EXPECT().
		WeeklyProfit(gomock.Any(), gomock.Any()).
		Return(series, nil)

	req := httptest.NewRequest("GET", "/api/v1/dashboard/weekly-profit", nil)
	w := httptest.NewRecorder()

	handler.GetWeeklyProfit(w, req)

	assert.Equal(t, http.StatusOK, w.Result().StatusCode)

	var response struct {
		Days []ports.DailyProfit `json:"days"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Len(t, response.Days, 7)
	assert.Equal(t, series[0].Date, response.Days[0].Date)
}
