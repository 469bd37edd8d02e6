// internal/core/services/medicine_service_test.go
package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/ammerola/pharmapos-be/internal/core/domain"
	"github.com/ammerola/pharmapos-be/internal/core/ports"
	"github.com/ammerola/pharmapos-be/internal/core/services"
	"github.com/ammerola/pharmapos-be/test/helpers"
	"github.com/ammerola/pharmapos-be/test/mocks"
)

// newMedicineService builds the service with a passthrough transaction
// runner and an invalidator that accepts anything. Tests that assert on
// either dependency construct the service themselves.
func newMedicineService(ctrl *gomock.Controller, repo *mocks.MockMedicineRepository) *services.MedicineService {
	txRunner := mocks.NewMockTxRunner(ctrl)
	passthroughTx(txRunner).AnyTimes()
	return services.NewMedicineService(repo, txRunner, relaxedInvalidator(ctrl), helpers.TestLogger())
}

func TestMedicineService_SaveMedicine(t *testing.T) {
	tests := []struct {
		name          string
		medicine      *domain.Medicine
		setupMocks    func(*mocks.MockMedicineRepository)
		expectedError bool
		errorContains string
	}{
		{
			name:     "successful_save_with_valid_medicine",
			medicine: helpers.CreateTestMedicine(),
			setupMocks: func(m *mocks.MockMedicineRepository) {
				m.EXPECT().
					Save(gomock.Any(), gomock.Any()).
					Return(nil)
			},
		},
		{
			name: "validation_fails_for_missing_name",
			medicine: helpers.CreateTestMedicine(func(m *domain.Medicine) {
				m.Name = ""
			}),
			setupMocks:    func(m *mocks.MockMedicineRepository) {},
			expectedError: true,
			errorContains: "name is required",
		},
		{
			name: "validation_fails_for_negative_quantity",
			medicine: helpers.CreateTestMedicine(func(m *domain.Medicine) {
				m.Quantity = -1
			}),
			setupMocks:    func(m *mocks.MockMedicineRepository) {},
			expectedError: true,
			errorContains: "quantity cannot be negative",
		},
		{
			name: "validation_fails_for_negative_selling_price",
			medicine: helpers.CreateTestMedicine(func(m *domain.Medicine) {
				m.SellingPrice = decimal.NewFromInt(-1)
			}),
			setupMocks:    func(m *mocks.MockMedicineRepository) {},
			expectedError: true,
			errorContains: "selling_price cannot be negative",
		},
		{
			name:     "repository_save_error",
			medicine: helpers.CreateTestMedicine(),
			setupMocks: func(m *mocks.MockMedicineRepository) {
				m.EXPECT().
					Save(gomock.Any(), gomock.Any()).
					Return(errors.New("database connection failed"))
			},
			expectedError: true,
			errorContains: "database connection failed",
		},
		{
			name: "assigns_id_when_missing",
			medicine: helpers.CreateTestMedicine(func(m *domain.Medicine) {
				m.ID = uuid.Nil
			}),
			setupMocks: func(m *mocks.MockMedicineRepository) {
				m.EXPECT().
					Save(gomock.Any(), gomock.Any()).
					DoAndReturn(func(ctx context.Context, medicine *domain.Medicine) error {
						assert.NotEqual(t, uuid.Nil, medicine.ID)
						return nil
					})
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockRepo := mocks.NewMockMedicineRepository(ctrl)
			service := newMedicineService(ctrl, mockRepo)

			tt.setupMocks(mockRepo)

			err := service.SaveMedicine(context.Background(), tt.medicine)

			if tt.expectedError {
				require.Error(t, err)
				if tt.errorContains != "" {
					assert.Contains(t, err.Error(), tt.errorContains)
				}
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestMedicineService_SaveMedicines(t *testing.T) {
	tests := []struct {
		name          string
		medicines     []domain.Medicine
		setupMocks    func(*mocks.MockMedicineRepository)
		expectedError bool
		errorContains string
	}{
		{
			name:      "saves_every_row_in_one_transaction",
			medicines: helpers.CreateTestMedicines(3),
			setupMocks: func(m *mocks.MockMedicineRepository) {
				m.EXPECT().
					SaveTx(gomock.Any(), gomock.Nil(), gomock.Any()).
					Times(3).
					Return(nil)
			},
		},
		{
			name:       "returns_nil_for_empty_slice",
			medicines:  []domain.Medicine{},
			setupMocks: func(m *mocks.MockMedicineRepository) {},
		},
		{
			name: "one_invalid_row_fails_before_any_write",
			medicines: append(helpers.CreateTestMedicines(2), *helpers.CreateTestMedicine(func(m *domain.Medicine) {
				m.Name = ""
			})),
			setupMocks:    func(m *mocks.MockMedicineRepository) {},
			expectedError: true,
			errorContains: "validation failed",
		},
		{
			name:      "mid_batch_failure_aborts_the_import",
			medicines: helpers.CreateTestMedicines(3),
			setupMocks: func(m *mocks.MockMedicineRepository) {
				gomock.InOrder(
					m.EXPECT().SaveTx(gomock.Any(), gomock.Nil(), gomock.Any()).Return(nil),
					m.EXPECT().SaveTx(gomock.Any(), gomock.Nil(), gomock.Any()).
						Return(errors.New("insert failed")),
				)
				// Third row never reaches the repository.
			},
			expectedError: true,
			errorContains: "insert failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockRepo := mocks.NewMockMedicineRepository(ctrl)
			service := newMedicineService(ctrl, mockRepo)

			tt.setupMocks(mockRepo)

			err := service.SaveMedicines(context.Background(), tt.medicines)

			if tt.expectedError {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorContains)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestMedicineService_CacheInvalidation(t *testing.T) {
	t.Run("save_drops_derived_entries", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockRepo := mocks.NewMockMedicineRepository(ctrl)
		txRunner := mocks.NewMockTxRunner(ctrl)
		invalidator := mocks.NewMockCacheInvalidator(ctrl)

		medicine := helpers.CreateTestMedicine()
		mockRepo.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil)
		invalidator.EXPECT().InvalidateMedicineCache(gomock.Any(), medicine.ID.String()).Return(nil)

		service := services.NewMedicineService(mockRepo, txRunner, invalidator, helpers.TestLogger())

		require.NoError(t, service.SaveMedicine(context.Background(), medicine))
	})

	t.Run("update_drops_derived_entries", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockRepo := mocks.NewMockMedicineRepository(ctrl)
		txRunner := mocks.NewMockTxRunner(ctrl)
		invalidator := mocks.NewMockCacheInvalidator(ctrl)

		id := uuid.New()
		mockRepo.EXPECT().Exists(gomock.Any(), id).Return(true, nil)
		mockRepo.EXPECT().Update(gomock.Any(), gomock.Any()).Return(nil)
		invalidator.EXPECT().InvalidateMedicineCache(gomock.Any(), id.String()).Return(nil)

		service := services.NewMedicineService(mockRepo, txRunner, invalidator, helpers.TestLogger())

		require.NoError(t, service.UpdateMedicine(context.Background(), id, helpers.CreateTestMedicine()))
	})

	t.Run("delete_drops_derived_entries", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockRepo := mocks.NewMockMedicineRepository(ctrl)
		txRunner := mocks.NewMockTxRunner(ctrl)
		invalidator := mocks.NewMockCacheInvalidator(ctrl)

		id := uuid.New()
		mockRepo.EXPECT().Exists(gomock.Any(), id).Return(true, nil)
		mockRepo.EXPECT().Delete(gomock.Any(), id).Return(nil)
		invalidator.EXPECT().InvalidateMedicineCache(gomock.Any(), id.String()).Return(nil)

		service := services.NewMedicineService(mockRepo, txRunner, invalidator, helpers.TestLogger())

		require.NoError(t, service.DeleteMedicine(context.Background(), id))
	})

	t.Run("bulk_save_sweeps_the_catalog_once", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockRepo := mocks.NewMockMedicineRepository(ctrl)
		txRunner := mocks.NewMockTxRunner(ctrl)
		invalidator := mocks.NewMockCacheInvalidator(ctrl)

		passthroughTx(txRunner)
		mockRepo.EXPECT().SaveTx(gomock.Any(), gomock.Nil(), gomock.Any()).Times(2).Return(nil)
		invalidator.EXPECT().InvalidateCatalogCache(gomock.Any()).Return(nil)

		service := services.NewMedicineService(mockRepo, txRunner, invalidator, helpers.TestLogger())

		require.NoError(t, service.SaveMedicines(context.Background(), helpers.CreateTestMedicines(2)))
	})

	t.Run("failed_import_leaves_cache_alone", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockRepo := mocks.NewMockMedicineRepository(ctrl)
		txRunner := mocks.NewMockTxRunner(ctrl)
		invalidator := mocks.NewMockCacheInvalidator(ctrl)

		txRunner.EXPECT().
			Transaction(gomock.Any(), gomock.Any()).
			Return(errors.New("deadlock detected"))
		// No invalidation expectations: the batch rolled back.

		service := services.NewMedicineService(mockRepo, txRunner, invalidator, helpers.TestLogger())

		err := service.SaveMedicines(context.Background(), helpers.CreateTestMedicines(2))
		require.Error(t, err)
	})

	t.Run("invalidation_failure_does_not_fail_the_write", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockRepo := mocks.NewMockMedicineRepository(ctrl)
		txRunner := mocks.NewMockTxRunner(ctrl)
		invalidator := mocks.NewMockCacheInvalidator(ctrl)

		medicine := helpers.CreateTestMedicine()
		mockRepo.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil)
		invalidator.EXPECT().InvalidateMedicineCache(gomock.Any(), medicine.ID.String()).
			Return(errors.New("redis down"))

		service := services.NewMedicineService(mockRepo, txRunner, invalidator, helpers.TestLogger())

		require.NoError(t, service.SaveMedicine(context.Background(), medicine))
	})
}

func TestMedicineService_GetByID(t *testing.T) {
	testMedicine := helpers.CreateTestMedicine()

	tests := []struct {
		name          string
		id            uuid.UUID
		setupMocks    func(*mocks.MockMedicineRepository)
		expectedError bool
		errorIs       error
	}{
		{
			name: "successfully_retrieves_medicine",
			id:   testMedicine.ID,
			setupMocks: func(m *mocks.MockMedicineRepository) {
				m.EXPECT().
					FindByID(gomock.Any(), testMedicine.ID).
					Return(testMedicine, nil)
			},
		},
		{
			name: "medicine_not_found",
			id:   uuid.New(),
			setupMocks: func(m *mocks.MockMedicineRepository) {
				m.EXPECT().
					FindByID(gomock.Any(), gomock.Any()).
					Return(nil, nil)
			},
			expectedError: true,
			errorIs:       domain.ErrNotFound,
		},
		{
			name: "repository_error",
			id:   testMedicine.ID,
			setupMocks: func(m *mocks.MockMedicineRepository) {
				m.EXPECT().
					FindByID(gomock.Any(), testMedicine.ID).
					Return(nil, errors.New("database error"))
			},
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockRepo := mocks.NewMockMedicineRepository(ctrl)
			service := newMedicineService(ctrl, mockRepo)

			tt.setupMocks(mockRepo)

			result, err := service.GetByID(context.Background(), tt.id)

			if tt.expectedError {
				require.Error(t, err)
				if tt.errorIs != nil {
					assert.ErrorIs(t, err, tt.errorIs)
				}
			} else {
				require.NoError(t, err)
				require.NotNil(t, result)
				assert.Equal(t, testMedicine.ID, result.ID)
			}
		})
	}
}

func TestMedicineService_UpdateMedicine(t *testing.T) {
	testMedicine := helpers.CreateTestMedicine()

	t.Run("successfully_updates_medicine", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockRepo := mocks.NewMockMedicineRepository(ctrl)
		mockRepo.EXPECT().Exists(gomock.Any(), testMedicine.ID).Return(true, nil)
		mockRepo.EXPECT().Update(gomock.Any(), gomock.Any()).
			DoAndReturn(func(ctx context.Context, m *domain.Medicine) error {
				assert.Equal(t, testMedicine.ID, m.ID)
				return nil
			})

		service := newMedicineService(ctrl, mockRepo)

		update := helpers.CreateTestMedicine(func(m *domain.Medicine) {
			m.ID = uuid.Nil
			m.Quantity = 999
		})
		err := service.UpdateMedicine(context.Background(), testMedicine.ID, update)
		require.NoError(t, err)
	})

	t.Run("medicine_not_found", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockRepo := mocks.NewMockMedicineRepository(ctrl)
		mockRepo.EXPECT().Exists(gomock.Any(), testMedicine.ID).Return(false, nil)

		service := newMedicineService(ctrl, mockRepo)

		err := service.UpdateMedicine(context.Background(), testMedicine.ID, helpers.CreateTestMedicine())
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("validation_failure", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockRepo := mocks.NewMockMedicineRepository(ctrl)
		mockRepo.EXPECT().Exists(gomock.Any(), testMedicine.ID).Return(true, nil)

		service := newMedicineService(ctrl, mockRepo)

		invalid := helpers.CreateTestMedicine(func(m *domain.Medicine) {
			m.Name = ""
		})
		err := service.UpdateMedicine(context.Background(), testMedicine.ID, invalid)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "validation failed")
	})
}

func TestMedicineService_DeleteMedicine(t *testing.T) {
	id := uuid.New()

	tests := []struct {
		name          string
		setupMocks    func(*mocks.MockMedicineRepository)
		expectedError bool
		errorIs       error
	}{
		{
			name: "successfully_deletes_medicine",
			setupMocks: func(m *mocks.MockMedicineRepository) {
				m.EXPECT().Exists(gomock.Any(), id).Return(true, nil)
				m.EXPECT().Delete(gomock.Any(), id).Return(nil)
			},
		},
		{
			name: "medicine_not_found",
			setupMocks: func(m *mocks.MockMedicineRepository) {
				m.EXPECT().Exists(gomock.Any(), id).Return(false, nil)
			},
			expectedError: true,
			errorIs:       domain.ErrNotFound,
		},
		{
			name: "repository_delete_error",
			setupMocks: func(m *mocks.MockMedicineRepository) {
				m.EXPECT().Exists(gomock.Any(), id).Return(true, nil)
				m.EXPECT().Delete(gomock.Any(), id).Return(errors.New("delete failed"))
			},
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockRepo := mocks.NewMockMedicineRepository(ctrl)
			service := newMedicineService(ctrl, mockRepo)

			tt.setupMocks(mockRepo)

			err := service.DeleteMedicine(context.Background(), id)

			if tt.expectedError {
				require.Error(t, err)
				if tt.errorIs != nil {
					assert.ErrorIs(t, err, tt.errorIs)
				}
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestMedicineService_List(t *testing.T) {
	testMedicines := []*domain.Medicine{helpers.CreateTestMedicine()}

	tests := []struct {
		name           string
		inputParams    ports.ListParams
		mockTotal      int64
		mockErr        error
		expectedQuery  ports.MedicineQueryParams
		expectedPages  int
		expectedError  bool
	}{
		{
			name:        "first_page_with_category_filter",
			inputParams: ports.ListParams{Page: 1, PageSize: 10, Category: "Antibiotic"},
			mockTotal:   1,
			expectedQuery: ports.MedicineQueryParams{
				Category: "Antibiotic",
				Limit:    10,
				Offset:   0,
			},
			expectedPages: 1,
		},
		{
			name:        "second_page_offsets_correctly",
			inputParams: ports.ListParams{Page: 2, PageSize: 50},
			mockTotal:   101,
			expectedQuery: ports.MedicineQueryParams{
				Limit:  50,
				Offset: 50,
			},
			expectedPages: 3,
		},
		{
			name:        "normalizes_invalid_page_and_page_size",
			inputParams: ports.ListParams{Page: 0, PageSize: 2000},
			mockTotal:   1,
			expectedQuery: ports.MedicineQueryParams{
				Limit:  500,
				Offset: 0,
			},
			expectedPages: 1,
		},
		{
			name:          "repository_error_surfaces",
			inputParams:   ports.ListParams{Page: 1, PageSize: 10},
			mockErr:       errors.New("query failed"),
			expectedQuery: ports.MedicineQueryParams{Limit: 10, Offset: 0},
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockRepo := mocks.NewMockMedicineRepository(ctrl)
			mockRepo.EXPECT().
				FindAll(gomock.Any(), tt.expectedQuery).
				Return(testMedicines, tt.mockTotal, tt.mockErr)

			service := newMedicineService(ctrl, mockRepo)

			result, err := service.List(context.Background(), tt.inputParams)

			if tt.expectedError {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.mockTotal, result.TotalCount)
				assert.Equal(t, tt.expectedPages, result.TotalPages)
			}
		})
	}
}

func TestMedicineService_LowStock(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	lowStock := []*domain.Medicine{
		helpers.CreateTestMedicine(func(m *domain.Medicine) { m.Quantity = 3 }),
	}

	mockRepo := mocks.NewMockMedicineRepository(ctrl)
	// Zero threshold falls back to the default of 10.
	mockRepo.EXPECT().FindLowStock(gomock.Any(), domain.DefaultLowStockThreshold).Return(lowStock, nil)

	service := newMedicineService(ctrl, mockRepo)

	result, err := service.LowStock(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, result, 1)
}

func TestMedicineService_Expiring(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	expiring := []*domain.Medicine{helpers.CreateTestMedicine()}
	expired := []*domain.Medicine{
		helpers.CreateTestMedicine(func(m *domain.Medicine) {
			m.Expiry = time.Now().UTC().AddDate(0, -1, 0)
		}),
	}

	mockRepo := mocks.NewMockMedicineRepository(ctrl)
	mockRepo.EXPECT().
		FindExpiringBetween(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, from, until time.Time) ([]*domain.Medicine, error) {
			// A 14-day window should end 14 days after its start.
			assert.Equal(t, 14, int(until.Sub(from).Hours()/24))
			return expiring, nil
		})
	mockRepo.EXPECT().
		FindExpiredBefore(gomock.Any(), gomock.Any()).
		Return(expired, nil)

	service := newMedicineService(ctrl, mockRepo)

	report, err := service.Expiring(context.Background(), 14)
	require.NoError(t, err)
	assert.Equal(t, 14, report.Days)
	assert.Len(t, report.Expiring, 1)
	assert.Len(t, report.Expired, 1)
}
