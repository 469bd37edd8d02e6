// internal/handlers/medicines_test.go
package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
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

func TestMedicineHandler_GetMedicine(t *testing.T) {
	testMedicine := helpers.CreateTestMedicine()

	tests := []struct {
		name           string
		medicineID     string
		setupMocks     func(*mocks.MockMedicineService)
		expectedStatus int
		validateBody   func(*testing.T, []byte)
	}{
		{
			name:       "successfully_retrieves_medicine",
			medicineID: testMedicine.ID.String(),
			setupMocks: func(m *mocks.MockMedicineService) {
				m.EXPECT().
					GetByID(gomock.Any(), testMedicine.ID).
					Return(testMedicine, nil)
			},
			expectedStatus: http.StatusOK,
			validateBody: func(t *testing.T, body []byte) {
				var response domain.Medicine
				err := json.Unmarshal(body, &response)
				require.NoError(t, err)
				assert.Equal(t, testMedicine.ID, response.ID)
				assert.Equal(t, testMedicine.Name, response.Name)
			},
		},
		{
			name:           "invalid_uuid_format",
			medicineID:     "not-a-uuid",
			setupMocks:     func(m *mocks.MockMedicineService) {},
			expectedStatus: http.StatusBadRequest,
			validateBody: func(t *testing.T, body []byte) {
				var response map[string]string
				err := json.Unmarshal(body, &response)
				require.NoError(t, err)
				assert.Equal(t, "Invalid medicine ID format", response["error"])
			},
		},
		{
			name:       "medicine_not_found",
			medicineID: uuid.New().String(),
			setupMocks: func(m *mocks.MockMedicineService) {
				m.EXPECT().
					GetByID(gomock.Any(), gomock.Any()).
					Return(nil, domain.ErrNotFound)
			},
			expectedStatus: http.StatusNotFound,
			validateBody: func(t *testing.T, body []byte) {
				var response map[string]string
				err := json.Unmarshal(body, &response)
				require.NoError(t, err)
				assert.Equal(t, "Medicine not found", response["error"])
			},
		},
		{
			name:       "service_error",
			medicineID: testMedicine.ID.String(),
			setupMocks: func(m *mocks.MockMedicineService) {
				m.EXPECT().
					GetByID(gomock.Any(), testMedicine.ID).
					Return(nil, errors.New("database connection failed"))
			},
			expectedStatus: http.StatusInternalServerError,
			validateBody: func(t *testing.T, body []byte) {
				var response map[string]string
				err := json.Unmarshal(body, &response)
				require.NoError(t, err)
				assert.Equal(t, "Failed to retrieve medicine", response["error"])
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockService := mocks.NewMockMedicineService(ctrl)
			handler := handlers.NewMedicineHandler(mockService, helpers.TestLogger())

			tt.setupMocks(mockService)

			req := httptest.NewRequest("GET", "/api/v1/medicines/"+tt.medicineID, nil)
			req.SetPathValue("id", tt.medicineID)
			w := httptest.NewRecorder()

			handler.GetMedicine(w, req)

			resp := w.Result()
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)

			if tt.validateBody != nil {
				tt.validateBody(t, w.Body.Bytes())
			}
		})
	}
}

func TestMedicineHandler_ListMedicines(t *testing.T) {
	tests := []struct {
		name           string
		queryParams    map[string]string
		setupMocks     func(*mocks.MockMedicineService)
		expectedStatus int
		validateBody   func(*testing.T, []byte)
	}{
		{
			name: "successfully_lists_with_pagination",
			queryParams: map[string]string{
				"page":  "2",
				"limit": "10",
			},
			setupMocks: func(m *mocks.MockMedicineService) {
				m.EXPECT().
					List(gomock.Any(), gomock.Any()).
					DoAndReturn(func(ctx context.Context, params ports.ListParams) (*ports.ListResult, error) {
						assert.Equal(t, 2, params.Page)
						assert.Equal(t, 10, params.PageSize)
						return &ports.ListResult{
							Medicines:  []*domain.Medicine{helpers.CreateTestMedicine()},
							Page:       2,
							PageSize:   10,
							TotalCount: 11,
							TotalPages: 2,
						}, nil
					})
			},
			expectedStatus: http.StatusOK,
			validateBody: func(t *testing.T, body []byte) {
				var response ports.ListResult
				err := json.Unmarshal(body, &response)
				require.NoError(t, err)
				assert.Len(t, response.Medicines, 1)
				assert.Equal(t, int64(11), response.TotalCount)
			},
		},
		{
			name: "filters_by_category",
			queryParams: map[string]string{
				"category": "antibiotic",
			},
			setupMocks: func(m *mocks.MockMedicineService) {
				m.EXPECT().
					List(gomock.Any(), gomock.Any()).
					DoAndReturn(func(ctx context.Context, params ports.ListParams) (*ports.ListResult, error) {
						assert.Equal(t, "antibiotic", params.Category)
						return &ports.ListResult{Medicines: []*domain.Medicine{}, Page: 1, PageSize: 50}, nil
					})
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "searches_brand_and_generic",
			queryParams: map[string]string{
				"search": "paracetamol",
			},
			setupMocks: func(m *mocks.MockMedicineService) {
				m.EXPECT().
					List(gomock.Any(), gomock.Any()).
					DoAndReturn(func(ctx context.Context, params ports.ListParams) (*ports.ListResult, error) {
						assert.Equal(t, "paracetamol", params.Search)
						return &ports.ListResult{Medicines: []*domain.Medicine{}, Page: 1, PageSize: 50}, nil
					})
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "defaults_applied_for_bad_paging",
			queryParams: map[string]string{
				"page":  "0",
				"limit": "-5",
			},
			setupMocks: func(m *mocks.MockMedicineService) {
				m.EXPECT().
					List(gomock.Any(), gomock.Any()).
					DoAndReturn(func(ctx context.Context, params ports.ListParams) (*ports.ListResult, error) {
						assert.Equal(t, 1, params.Page)
						assert.Equal(t, 50, params.PageSize)
						assert.Equal(t, "name", params.SortBy)
						assert.Equal(t, "asc", params.SortOrder)
						return &ports.ListResult{Medicines: []*domain.Medicine{}, Page: 1, PageSize: 50}, nil
					})
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:        "service_error",
			queryParams: map[string]string{},
			setupMocks: func(m *mocks.MockMedicineService) {
				m.EXPECT().
					List(gomock.Any(), gomock.Any()).
					Return(nil, errors.New("database error"))
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockService := mocks.NewMockMedicineService(ctrl)
			handler := handlers.NewMedicineHandler(mockService, helpers.TestLogger())

			tt.setupMocks(mockService)

			req := httptest.NewRequest("GET", "/api/v1/medicines", nil)
			q := req.URL.Query()
			for k, v := range tt.queryParams {
				q.Add(k, v)
			}
			req.URL.RawQuery = q.Encode()

			w := httptest.NewRecorder()
			handler.ListMedicines(w, req)

			resp := w.Result()
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)

			if tt.validateBody != nil {
				tt.validateBody(t, w.Body.Bytes())
			}
		})
	}
}

func TestMedicineHandler_CreateMedicine(t *testing.T) {
	validRequest := handlers.SaveMedicineRequest{
		Name:          "Panadol 500mg",
		Generic:       "Paracetamol",
		Category:      "analgesic",
		Quantity:      100,
		PurchasePrice: decimal.NewFromFloat(2.50),
		SellingPrice:  decimal.NewFromFloat(4.00),
		Expiry:        time.Now().AddDate(1, 0, 0),
	}

	tests := []struct {
		name           string
		requestBody    interface{}
		setupMocks     func(*mocks.MockMedicineService)
		expectedStatus int
		validateBody   func(*testing.T, []byte)
	}{
		{
			name:        "successfully_creates_medicine",
			requestBody: validRequest,
			setupMocks: func(m *mocks.MockMedicineService) {
				m.EXPECT().
					SaveMedicine(gomock.Any(), gomock.Any()).
					DoAndReturn(func(ctx context.Context, medicine *domain.Medicine) error {
						assert.Equal(t, "Panadol 500mg", medicine.Name)
						assert.Equal(t, "Paracetamol", medicine.Generic)
						assert.Equal(t, 100, medicine.Quantity)
						return nil
					})
			},
			expectedStatus: http.StatusCreated,
			validateBody: func(t *testing.T, body []byte) {
				var response domain.Medicine
				err := json.Unmarshal(body, &response)
				require.NoError(t, err)
				assert.Equal(t, "Panadol 500mg", response.Name)
			},
		},
		{
			name:           "invalid_json_body",
			requestBody:    "not json",
			setupMocks:     func(m *mocks.MockMedicineService) {},
			expectedStatus: http.StatusBadRequest,
			validateBody: func(t *testing.T, body []byte) {
				var response map[string]string
				err := json.Unmarshal(body, &response)
				require.NoError(t, err)
				assert.Equal(t, "Invalid request body", response["error"])
			},
		},
		{
			name: "missing_generic_name",
			requestBody: handlers.SaveMedicineRequest{
				Name:         "Panadol 500mg",
				Quantity:     10,
				SellingPrice: decimal.NewFromFloat(4.00),
				Expiry:       time.Now().AddDate(1, 0, 0),
			},
			setupMocks:     func(m *mocks.MockMedicineService) {},
			expectedStatus: http.StatusBadRequest,
			validateBody: func(t *testing.T, body []byte) {
				var response map[string]string
				err := json.Unmarshal(body, &response)
				require.NoError(t, err)
				assert.Equal(t, "generic is required", response["error"])
			},
		},
		{
			name: "negative_quantity",
			requestBody: handlers.SaveMedicineRequest{
				Name:         "Panadol 500mg",
				Generic:      "Paracetamol",
				Quantity:     -5,
				SellingPrice: decimal.NewFromFloat(4.00),
				Expiry:       time.Now().AddDate(1, 0, 0),
			},
			setupMocks:     func(m *mocks.MockMedicineService) {},
			expectedStatus: http.StatusBadRequest,
			validateBody: func(t *testing.T, body []byte) {
				var response map[string]string
				err := json.Unmarshal(body, &response)
				require.NoError(t, err)
				assert.Equal(t, "quantity cannot be negative", response["error"])
			},
		},
		{
			name:        "service_error",
			requestBody: validRequest,
			setupMocks: func(m *mocks.MockMedicineService) {
				m.EXPECT().
					SaveMedicine(gomock.Any(), gomock.Any()).
					Return(errors.New("database error"))
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockService := mocks.NewMockMedicineService(ctrl)
			handler := handlers.NewMedicineHandler(mockService, helpers.TestLogger())

			tt.setupMocks(mockService)

			body, _ := json.Marshal(tt.requestBody)
			req := httptest.NewRequest("POST", "/api/v1/medicines", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			handler.CreateMedicine(w, req)

			resp := w.Result()
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)

			if tt.validateBody != nil {
				tt.validateBody(t, w.Body.Bytes())
			}
		})
	}
}

func TestMedicineHandler_UpdateMedicine(t *testing.T) {
	testID := uuid.New()

	validRequest := handlers.SaveMedicineRequest{
		Name:          "Panadol Extra",
		Generic:       "Paracetamol",
		Quantity:      80,
		PurchasePrice: decimal.NewFromFloat(2.80),
		SellingPrice:  decimal.NewFromFloat(4.50),
		Expiry:        time.Now().AddDate(1, 0, 0),
	}

	tests := []struct {
		name           string
		medicineID     string
		requestBody    interface{}
		setupMocks     func(*mocks.MockMedicineService)
		expectedStatus int
	}{
		{
			name:        "successfully_updates_medicine",
			medicineID:  testID.String(),
			requestBody: validRequest,
			setupMocks: func(m *mocks.MockMedicineService) {
				m.EXPECT().
					UpdateMedicine(gomock.Any(), testID, gomock.Any()).
					Return(nil)
				m.EXPECT().
					GetByID(gomock.Any(), testID).
					Return(helpers.CreateTestMedicine(func(med *domain.Medicine) {
						med.ID = testID
						med.Name = "Panadol Extra"
					}), nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "invalid_uuid",
			medicineID:     "not-a-uuid",
			requestBody:    validRequest,
			setupMocks:     func(m *mocks.MockMedicineService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:       "validation_error",
			medicineID: testID.String(),
			requestBody: handlers.SaveMedicineRequest{
				Generic: "Paracetamol",
			},
			setupMocks:     func(m *mocks.MockMedicineService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:        "medicine_not_found",
			medicineID:  testID.String(),
			requestBody: validRequest,
			setupMocks: func(m *mocks.MockMedicineService) {
				m.EXPECT().
					UpdateMedicine(gomock.Any(), testID, gomock.Any()).
					Return(domain.ErrNotFound)
			},
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockService := mocks.NewMockMedicineService(ctrl)
			handler := handlers.NewMedicineHandler(mockService, helpers.TestLogger())

			tt.setupMocks(mockService)

			body, _ := json.Marshal(tt.requestBody)
			req := httptest.NewRequest("PUT", "/api/v1/medicines/"+tt.medicineID, bytes.NewReader(body))
			req.SetPathValue("id", tt.medicineID)
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			handler.UpdateMedicine(w, req)

			resp := w.Result()
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
		})
	}
}

func TestMedicineHandler_DeleteMedicine(t *testing.T) {
	testID := uuid.New()

	tests := []struct {
		name           string
		medicineID     string
		setupMocks     func(*mocks.MockMedicineService)
		expectedStatus int
	}{
		{
			name:       "successfully_deletes_medicine",
			medicineID: testID.String(),
			setupMocks: func(m *mocks.MockMedicineService) {
				m.EXPECT().
					DeleteMedicine(gomock.Any(), testID).
					Return(nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "invalid_uuid",
			medicineID:     "not-a-uuid",
			setupMocks:     func(m *mocks.MockMedicineService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:       "medicine_not_found",
			medicineID: testID.String(),
			setupMocks: func(m *mocks.MockMedicineService) {
				m.EXPECT().
					DeleteMedicine(gomock.Any(), testID).
					Return(domain.ErrNotFound)
			},
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockService := mocks.NewMockMedicineService(ctrl)
			handler := handlers.NewMedicineHandler(mockService, helpers.TestLogger())

			tt.setupMocks(mockService)

			req := httptest.NewRequest("DELETE", "/api/v1/medicines/"+tt.medicineID, nil)
			req.SetPathValue("id", tt.medicineID)
			w := httptest.NewRecorder()

			handler.DeleteMedicine(w, req)

			resp := w.Result()
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
		})
	}
}

func TestMedicineHandler_LowStock(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := mocks.NewMockMedicineService(ctrl)
	handler := handlers.NewMedicineHandler(mockService, helpers.TestLogger())

	low := helpers.CreateTestMedicine(func(m *domain.Medicine) { m.Quantity = 3 })
	mockService.EXPECT().
		LowStock(gomock.Any(), 5).
		Return([]*domain.Medicine{low}, nil)

	req := httptest.NewRequest("GET", "/api/v1/medicines/low-stock?threshold=5", nil)
	w := httptest.NewRecorder()

	handler.LowStock(w, req)

	assert.Equal(t, http.StatusOK, w.Result().StatusCode)

	var response struct {
		Medicines []*domain.Medicine `json:"medicines"`
		Count     int                `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, 1, response.Count)
	assert.Equal(t, low.ID, response.Medicines[0].ID)
}

func TestMedicineHandler_Expiring(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := mocks.NewMockMedicineService(ctrl)
	handler := handlers.NewMedicineHandler(mockService, helpers.TestLogger())

	expiring := helpers.CreateTestMedicine(func(m *domain.Medicine) {
		m.Expiry = time.Now().AddDate(0, 0, 7)
	})
	mockService.EXPECT().
		Expiring(gomock.Any(), 14).
		Return(&ports.ExpiryReport{
			Days:     14,
			Expiring: []*domain.Medicine{expiring},
			Expired:  []*domain.Medicine{},
		}, nil)

	req := httptest.NewRequest("GET", "/api/v1/medicines/expiring?days=14", nil)
	w := httptest.NewRecorder()

	handler.Expiring(w, req)

	assert.Equal(t, http.StatusOK, w.Result().StatusCode)

	var report ports.ExpiryReport
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
	assert.Equal(t, 14, report.Days)
	assert.Len(t, report.Expiring, 1)
}
