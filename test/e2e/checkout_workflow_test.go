//go:build e2e
// +build e2e

package e2e_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/ammerola/pharmapos-be/internal/adapters/db"
	redis_a "github.com/ammerola/pharmapos-be/internal/adapters/redis_adapter"
	"github.com/ammerola/pharmapos-be/internal/core/services"
	"github.com/ammerola/pharmapos-be/internal/handlers"
	"github.com/ammerola/pharmapos-be/test/helpers"
)

type CheckoutE2ESuite struct {
	suite.Suite
	server    *httptest.Server
	client    *http.Client
	baseURL   string
	testDB    *helpers.TestDB
	testRedis *helpers.TestRedis
}

func (s *CheckoutE2ESuite) SetupSuite() {
	// Setup test database
	s.testDB = helpers.SetupTestDB(s.T())

	// Setup test Redis
	s.testRedis = helpers.SetupTestRedis(s.T())

	// Start test server
	s.server = s.startTestServer()
	s.client = &http.Client{Timeout: 10 * time.Second}
	s.baseURL = s.server.URL + "/api/v1"
}

func (s *CheckoutE2ESuite) TearDownSuite() {
	s.server.Close()
}

func (s *CheckoutE2ESuite) TestCompleteCheckoutWorkflow() {
	// 1. Stock two medicines
	panadol := s.createMedicine(map[string]interface{}{
		"name":           "Panadol 500mg",
		"generic":        "Paracetamol",
		"category":       "analgesic",
		"quantity":       50,
		"purchase_price": "1.20",
		"selling_price":  "2.00",
		"expiry":         time.Now().AddDate(1, 0, 0).Format(time.RFC3339),
	})
	amoxil := s.createMedicine(map[string]interface{}{
		"name":           "Amoxil 250mg",
		"generic":        "Amoxicillin",
		"category":       "antibiotic",
		"quantity":       30,
		"purchase_price": "3.40",
		"selling_price":  "5.50",
		"expiry":         time.Now().AddDate(1, 0, 0).Format(time.RFC3339),
	})

	// 2. Checkout a cart with a flat discount and service charge
	checkoutReq := map[string]interface{}{
		"items": []map[string]interface{}{
			{
				"medicine_id":    panadol,
				"name":           "Panadol 500mg",
				"quantity":       3,
				"selling_price":  "2.00",
				"purchase_price": "1.20",
			},
			{
				"medicine_id":    amoxil,
				"name":           "Amoxil 250mg",
				"quantity":       2,
				"selling_price":  "5.50",
				"purchase_price": "3.40",
			},
		},
		"discount":       "2.00",
		"service_charge": "1.50",
	}

	resp := s.makeRequest("POST", "/sales/checkout", checkoutReq)
	s.Equal(http.StatusCreated, resp.StatusCode)

	var sale map[string]interface{}
	s.decodeResponse(resp, &sale)

	saleID := sale["id"].(string)
	s.NotEmpty(saleID)
	// gross 17.00 - discount 2.00 + service charge 1.50
	s.Equal("16.5", sale["final_total"])

	items := sale["items"].([]interface{})
	s.Len(items, 2)

	// 3. Stock was decremented by the sold quantities
	var medicine map[string]interface{}
	resp = s.makeRequest("GET", fmt.Sprintf("/medicines/%s", panadol), nil)
	s.Equal(http.StatusOK, resp.StatusCode)
	s.decodeResponse(resp, &medicine)
	s.Equal(float64(47), medicine["quantity"])

	// 4. Retrieve the sale from the ledger
	resp = s.makeRequest("GET", fmt.Sprintf("/sales/%s", saleID), nil)
	s.Equal(http.StatusOK, resp.StatusCode)

	// 5. Correct the Panadol line down from 3 to 2 units
	firstItem := items[0].(map[string]interface{})
	itemID := firstItem["id"].(string)

	resp = s.makeRequest("PATCH",
		fmt.Sprintf("/sales/%s/items/%s", saleID, itemID),
		map[string]interface{}{"quantity": 2})
	s.Equal(http.StatusOK, resp.StatusCode)

	var corrected map[string]interface{}
	s.decodeResponse(resp, &corrected)
	s.NotEqual(sale["final_total"], corrected["final_total"])

	// The returned unit went back on the shelf
	resp = s.makeRequest("GET", fmt.Sprintf("/medicines/%s", panadol), nil)
	s.decodeResponse(resp, &medicine)
	s.Equal(float64(48), medicine["quantity"])

	// 6. Dashboard reflects today's trade
	resp = s.makeRequest("GET", "/dashboard", nil)
	s.Equal(http.StatusOK, resp.StatusCode)

	var dashboard map[string]interface{}
	s.decodeResponse(resp, &dashboard)
	s.Contains(dashboard, "total_medicines")
	s.Contains(dashboard, "today_sales_total")

	// 7. Export the sales ledger
	resp = s.makeRequest("GET", "/export/sales/excel", nil)
	s.Equal(http.StatusOK, resp.StatusCode)
	s.Equal("application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		resp.Header.Get("Content-Type"))

	// 8. Delete the sale
	resp = s.makeRequest("DELETE", "/sales", map[string]interface{}{
		"ids": []string{saleID},
	})
	s.Equal(http.StatusOK, resp.StatusCode)

	resp = s.makeRequest("GET", fmt.Sprintf("/sales/%s", saleID), nil)
	s.Equal(http.StatusNotFound, resp.StatusCode)
}

func (s *CheckoutE2ESuite) TestInsufficientStockRejected() {
	medicineID := s.createMedicine(map[string]interface{}{
		"name":           "Zyrtec 10mg",
		"generic":        "Cetirizine",
		"category":       "antihistamine",
		"quantity":       2,
		"purchase_price": "2.10",
		"selling_price":  "3.50",
		"expiry":         time.Now().AddDate(1, 0, 0).Format(time.RFC3339),
	})

	resp := s.makeRequest("POST", "/sales/checkout", map[string]interface{}{
		"items": []map[string]interface{}{
			{
				"medicine_id":    medicineID,
				"name":           "Zyrtec 10mg",
				"quantity":       5,
				"selling_price":  "3.50",
				"purchase_price": "2.10",
			},
		},
		"discount":       "0",
		"service_charge": "0",
	})
	s.Equal(http.StatusConflict, resp.StatusCode)

	// Stock is untouched after the rejected checkout
	var medicine map[string]interface{}
	resp = s.makeRequest("GET", fmt.Sprintf("/medicines/%s", medicineID), nil)
	s.decodeResponse(resp, &medicine)
	s.Equal(float64(2), medicine["quantity"])
}

func (s *CheckoutE2ESuite) TestLowStockAndExpiring() {
	s.createMedicine(map[string]interface{}{
		"name":           "Ventolin Inhaler",
		"generic":        "Salbutamol",
		"category":       "respiratory",
		"quantity":       1,
		"purchase_price": "8.90",
		"selling_price":  "13.50",
		"expiry":         time.Now().AddDate(0, 0, 10).Format(time.RFC3339),
	})

	resp := s.makeRequest("GET", "/medicines/low-stock?threshold=5", nil)
	s.Equal(http.StatusOK, resp.StatusCode)

	var lowStock map[string]interface{}
	s.decodeResponse(resp, &lowStock)
	s.GreaterOrEqual(lowStock["count"].(float64), float64(1))

	resp = s.makeRequest("GET", "/medicines/expiring?days=30", nil)
	s.Equal(http.StatusOK, resp.StatusCode)

	var report map[string]interface{}
	s.decodeResponse(resp, &report)
	s.Contains(report, "expiring")
	s.Contains(report, "expired")
}

func (s *CheckoutE2ESuite) TestConcurrentCheckouts() {
	medicineID := s.createMedicine(map[string]interface{}{
		"name":           "Brufen 400mg",
		"generic":        "Ibuprofen",
		"category":       "analgesic",
		"quantity":       100,
		"purchase_price": "1.60",
		"selling_price":  "2.50",
		"expiry":         time.Now().AddDate(1, 0, 0).Format(time.RFC3339),
	})

	done := make(chan bool, 10)

	for i := 0; i < 10; i++ {
		go func() {
			defer func() { done <- true }()

			resp := s.makeRequest("POST", "/sales/checkout", map[string]interface{}{
				"items": []map[string]interface{}{
					{
						"medicine_id":    medicineID,
						"name":           "Brufen 400mg",
						"quantity":       1,
						"selling_price":  "2.50",
						"purchase_price": "1.60",
					},
				},
				"discount":       "0",
				"service_charge": "0",
			})
			s.Equal(http.StatusCreated, resp.StatusCode)
		}()
	}

	for i := 0; i < 10; i++ {
		<-done
	}

	// Exactly ten units left the shelf
	var medicine map[string]interface{}
	resp := s.makeRequest("GET", fmt.Sprintf("/medicines/%s", medicineID), nil)
	s.decodeResponse(resp, &medicine)
	s.Equal(float64(90), medicine["quantity"])
}

// Helper methods

func (s *CheckoutE2ESuite) startTestServer() *httptest.Server {
	logger := helpers.TestLogger()

	medicineRepo := db.NewMedicineRepository(s.testDB.Database, logger)
	salesRepo := db.NewSalesRepository(s.testDB.Database, logger)

	cache := redis_a.NewCache(s.testRedis.Client, time.Minute, logger)
	cacheManager := redis_a.NewCacheManager(cache, logger)

	medicineService := services.NewMedicineService(medicineRepo, s.testDB.Database, cacheManager, logger)
	salesService := services.NewSalesService(salesRepo, medicineRepo, s.testDB.Database, cacheManager, logger)
	reportingService := services.NewReportingService(medicineRepo, salesRepo, 10, 30, logger)

	medicineHandler := handlers.NewMedicineHandler(medicineService, logger)
	salesHandler := handlers.NewSalesHandler(salesService, logger)
	dashboardHandler := handlers.NewDashboardHandler(reportingService, cache, time.Second, logger)
	exportHandler := handlers.NewExportHandler(medicineService, salesService, cache, logger)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/medicines", medicineHandler.ListMedicines)
	mux.HandleFunc("POST /api/v1/medicines", medicineHandler.CreateMedicine)
	mux.HandleFunc("GET /api/v1/medicines/low-stock", medicineHandler.LowStock)
	mux.HandleFunc("GET /api/v1/medicines/expiring", medicineHandler.Expiring)
	mux.HandleFunc("GET /api/v1/medicines/{id}", medicineHandler.GetMedicine)
	mux.HandleFunc("PUT /api/v1/medicines/{id}", medicineHandler.UpdateMedicine)
	mux.HandleFunc("DELETE /api/v1/medicines/{id}", medicineHandler.DeleteMedicine)
	mux.HandleFunc("POST /api/v1/sales/checkout", salesHandler.Checkout)
	mux.HandleFunc("GET /api/v1/sales", salesHandler.ListSales)
	mux.HandleFunc("DELETE /api/v1/sales", salesHandler.DeleteSales)
	mux.HandleFunc("GET /api/v1/sales/{id}", salesHandler.GetSale)
	mux.HandleFunc("PATCH /api/v1/sales/{id}/items/{item_id}", salesHandler.CorrectQuantity)
	mux.HandleFunc("GET /api/v1/dashboard", dashboardHandler.GetDashboard)
	mux.HandleFunc("GET /api/v1/dashboard/weekly-profit", dashboardHandler.GetWeeklyProfit)
	mux.HandleFunc("GET /api/v1/export/medicines/excel", exportHandler.ExportMedicinesExcel)
	mux.HandleFunc("GET /api/v1/export/medicines/json", exportHandler.ExportMedicinesJSON)
	mux.HandleFunc("GET /api/v1/export/sales/excel", exportHandler.ExportSalesExcel)

	return httptest.NewServer(mux)
}

func (s *CheckoutE2ESuite) createMedicine(body map[string]interface{}) string {
	resp := s.makeRequest("POST", "/medicines", body)
	s.Require().Equal(http.StatusCreated, resp.StatusCode)

	var created map[string]interface{}
	s.decodeResponse(resp, &created)

	id := created["id"].(string)
	s.Require().NotEmpty(id)
	return id
}

func (s *CheckoutE2ESuite) makeRequest(method, path string, body interface{}) *http.Response {
	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		s.NoError(err)
		reqBody = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequest(method, s.baseURL+path, reqBody)
	s.NoError(err)

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.client.Do(req)
	s.NoError(err)
	return resp
}

func (s *CheckoutE2ESuite) decodeResponse(resp *http.Response, dest interface{}) {
	defer resp.Body.Close()
	err := json.NewDecoder(resp.Body).Decode(dest)
	s.NoError(err)
}

func TestCheckoutE2ESuite(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping E2E tests in short mode")
	}
	suite.Run(t, new(CheckoutE2ESuite))
}
