package domain_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ammerola/pharmapos-be/internal/core/domain"
)

func TestMedicine_Validate(t *testing.T) {
	expiry := time.Now().AddDate(1, 0, 0)

	tests := []struct {
		name      string
		medicine  *domain.Medicine
		wantError bool
		errorMsg  string
	}{
		{
			name: "valid_medicine_with_all_fields",
			medicine: &domain.Medicine{
				Name:          "Paracetamol 500mg",
				Generic:       "Paracetamol",
				Category:      "analgesic",
				Quantity:      120,
				PurchasePrice: decimal.NewFromFloat(2.50),
				SellingPrice:  decimal.NewFromFloat(4.00),
				Expiry:        expiry,
			},
			wantError: false,
		},
		{
			name: "missing_name",
			medicine: &domain.Medicine{
				Generic:      "Paracetamol",
				Quantity:     10,
				SellingPrice: decimal.NewFromFloat(4.00),
				Expiry:       expiry,
			},
			wantError: true,
			errorMsg:  "name is required",
		},
		{
			name: "missing_generic",
			medicine: &domain.Medicine{
				Name:         "Paracetamol 500mg",
				Quantity:     10,
				SellingPrice: decimal.NewFromFloat(4.00),
				Expiry:       expiry,
			},
			wantError: true,
			errorMsg:  "generic is required",
		},
		{
			name: "negative_quantity",
			medicine: &domain.Medicine{
				Name:         "Paracetamol 500mg",
				Generic:      "Paracetamol",
				Quantity:     -1,
				SellingPrice: decimal.NewFromFloat(4.00),
				Expiry:       expiry,
			},
			wantError: true,
			errorMsg:  "quantity cannot be negative",
		},
		{
			name: "negative_purchase_price",
			medicine: &domain.Medicine{
				Name:          "Paracetamol 500mg",
				Generic:       "Paracetamol",
				Quantity:      10,
				PurchasePrice: decimal.NewFromFloat(-2.50),
				SellingPrice:  decimal.NewFromFloat(4.00),
				Expiry:        expiry,
			},
			wantError: true,
			errorMsg:  "purchase_price cannot be negative",
		},
		{
			name: "negative_selling_price",
			medicine: &domain.Medicine{
				Name:         "Paracetamol 500mg",
				Generic:      "Paracetamol",
				Quantity:     10,
				SellingPrice: decimal.NewFromFloat(-4.00),
				Expiry:       expiry,
			},
			wantError: true,
			errorMsg:  "selling_price cannot be negative",
		},
		{
			name: "missing_expiry",
			medicine: &domain.Medicine{
				Name:         "Paracetamol 500mg",
				Generic:      "Paracetamol",
				Quantity:     10,
				SellingPrice: decimal.NewFromFloat(4.00),
			},
			wantError: true,
			errorMsg:  "expiry is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.medicine.Validate()

			if tt.wantError {
				require.Error(t, err)
				assert.ErrorIs(t, err, domain.ErrValidation)
				assert.Contains(t, err.Error(), tt.errorMsg)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestMedicine_StockValue(t *testing.T) {
	m := &domain.Medicine{
		Quantity:      12,
		PurchasePrice: decimal.NewFromFloat(2.50),
	}

	assert.True(t, m.StockValue().Equal(decimal.NewFromInt(30)),
		"expected 30, got %s", m.StockValue())
}

func TestMedicine_ExpiryClassification(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name          string
		expiry        time.Time
		expired       bool
		expiresWithin bool
	}{
		{
			name:          "expired_yesterday",
			expiry:        now.AddDate(0, 0, -1),
			expired:       true,
			expiresWithin: false,
		},
		{
			name:          "expires_in_a_week",
			expiry:        now.AddDate(0, 0, 7),
			expired:       false,
			expiresWithin: true,
		},
		{
			name:          "expires_exactly_at_window_edge",
			expiry:        now.AddDate(0, 0, 30),
			expired:       false,
			expiresWithin: true,
		},
		{
			name:          "expires_next_year",
			expiry:        now.AddDate(1, 0, 0),
			expired:       false,
			expiresWithin: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &domain.Medicine{Expiry: tt.expiry}
			assert.Equal(t, tt.expired, m.IsExpired(now))
			assert.Equal(t, tt.expiresWithin, m.ExpiresWithin(now, domain.DefaultExpiryWindowDays))
		})
	}
}

func TestMedicine_Status(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	farExpiry := now.AddDate(1, 0, 0)

	tests := []struct {
		name     string
		medicine *domain.Medicine
		want     domain.StockStatus
	}{
		{
			name:     "healthy_stock_is_green",
			medicine: &domain.Medicine{Quantity: 50, Expiry: farExpiry},
			want:     domain.StockStatusGreen,
		},
		{
			name:     "low_stock_is_amber",
			medicine: &domain.Medicine{Quantity: 10, Expiry: farExpiry},
			want:     domain.StockStatusAmber,
		},
		{
			name:     "expiring_soon_is_amber",
			medicine: &domain.Medicine{Quantity: 50, Expiry: now.AddDate(0, 0, 10)},
			want:     domain.StockStatusAmber,
		},
		{
			name:     "out_of_stock_is_red",
			medicine: &domain.Medicine{Quantity: 0, Expiry: farExpiry},
			want:     domain.StockStatusRed,
		},
		{
			name:     "expired_is_red",
			medicine: &domain.Medicine{Quantity: 50, Expiry: now.AddDate(0, 0, -1)},
			want:     domain.StockStatusRed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.medicine.Status(now, domain.DefaultLowStockThreshold))
		})
	}
}
