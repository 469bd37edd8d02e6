package domain_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ammerola/pharmapos-be/internal/core/domain"
)

func twoItemCart() []domain.CartItem {
	return []domain.CartItem{
		{
			MedicineID:    uuid.New(),
			Name:          "Amoxicillin 250mg",
			Quantity:      2,
			SellingPrice:  decimal.NewFromInt(100),
			PurchasePrice: decimal.NewFromInt(60),
		},
		{
			MedicineID:    uuid.New(),
			Name:          "Cetirizine 10mg",
			Quantity:      1,
			SellingPrice:  decimal.NewFromInt(50),
			PurchasePrice: decimal.NewFromInt(20),
		},
	}
}

func TestNewSaleFromCart_ProportionalDiscount(t *testing.T) {
	// Gross 250, discount 30: line shares are 24 and 6, so line totals
	// are 176 and 44, profits 56 and 24, final total 220.
	record, err := domain.NewSaleFromCart(twoItemCart(), decimal.NewFromInt(30), decimal.Zero)
	require.NoError(t, err)
	require.Len(t, record.Items, 2)

	assert.True(t, record.Items[0].TotalAmount.Equal(decimal.NewFromInt(176)),
		"item 0 total: %s", record.Items[0].TotalAmount)
	assert.True(t, record.Items[0].Profit.Equal(decimal.NewFromInt(56)),
		"item 0 profit: %s", record.Items[0].Profit)
	assert.True(t, record.Items[1].TotalAmount.Equal(decimal.NewFromInt(44)),
		"item 1 total: %s", record.Items[1].TotalAmount)
	assert.True(t, record.Items[1].Profit.Equal(decimal.NewFromInt(24)),
		"item 1 profit: %s", record.Items[1].Profit)
	assert.True(t, record.FinalTotal.Equal(decimal.NewFromInt(220)),
		"final total: %s", record.FinalTotal)

	require.NoError(t, record.CheckInvariants())
}

func TestNewSaleFromCart_DiscountSharesSumExactly(t *testing.T) {
	// Awkward proportions: three lines whose shares do not divide evenly.
	// The allocation remainder goes to the last line, so the shares must
	// sum to the discount exactly and the final total must be exact.
	cart := []domain.CartItem{
		{MedicineID: uuid.New(), Name: "A", Quantity: 3, SellingPrice: decimal.NewFromFloat(33.33), PurchasePrice: decimal.NewFromInt(10)},
		{MedicineID: uuid.New(), Name: "B", Quantity: 7, SellingPrice: decimal.NewFromFloat(14.99), PurchasePrice: decimal.NewFromInt(5)},
		{MedicineID: uuid.New(), Name: "C", Quantity: 1, SellingPrice: decimal.NewFromFloat(89.50), PurchasePrice: decimal.NewFromInt(40)},
	}
	discount := decimal.NewFromFloat(17.25)
	serviceCharge := decimal.NewFromFloat(5.00)

	record, err := domain.NewSaleFromCart(cart, discount, serviceCharge)
	require.NoError(t, err)

	gross := decimal.Zero
	for _, c := range cart {
		gross = gross.Add(c.Gross())
	}

	want := gross.Sub(discount).Add(serviceCharge)
	assert.True(t, record.FinalTotal.Equal(want),
		"final total %s != gross - discount + service charge %s", record.FinalTotal, want)
	require.NoError(t, record.CheckInvariants())
}

func TestNewSaleFromCart_ServiceCharge(t *testing.T) {
	record, err := domain.NewSaleFromCart(twoItemCart(), decimal.Zero, decimal.NewFromInt(15))
	require.NoError(t, err)

	assert.True(t, record.FinalTotal.Equal(decimal.NewFromInt(265)),
		"final total: %s", record.FinalTotal)
}

func TestNewSaleFromCart_ProfitClampedToZero(t *testing.T) {
	// Cost exceeds discounted revenue; the line must never report a loss.
	cart := []domain.CartItem{
		{
			MedicineID:    uuid.New(),
			Name:          "Insulin Glargine",
			Quantity:      1,
			SellingPrice:  decimal.NewFromInt(100),
			PurchasePrice: decimal.NewFromInt(95),
		},
	}

	record, err := domain.NewSaleFromCart(cart, decimal.NewFromInt(10), decimal.Zero)
	require.NoError(t, err)

	assert.True(t, record.Items[0].Profit.IsZero(),
		"profit should be clamped to zero, got %s", record.Items[0].Profit)
	assert.True(t, record.Items[0].TotalAmount.Equal(decimal.NewFromInt(90)))
}

func TestNewSaleFromCart_Validation(t *testing.T) {
	valid := twoItemCart()

	tests := []struct {
		name          string
		cart          []domain.CartItem
		discount      decimal.Decimal
		serviceCharge decimal.Decimal
		errorIs       error
		errorContains string
	}{
		{
			name:          "empty_cart",
			cart:          nil,
			discount:      decimal.Zero,
			serviceCharge: decimal.Zero,
			errorIs:       domain.ErrValidation,
			errorContains: "no items provided",
		},
		{
			name: "zero_quantity_line",
			cart: []domain.CartItem{{
				MedicineID:   uuid.New(),
				Name:         "A",
				Quantity:     0,
				SellingPrice: decimal.NewFromInt(10),
			}},
			discount:      decimal.Zero,
			serviceCharge: decimal.Zero,
			errorIs:       domain.ErrValidation,
			errorContains: "quantity must be at least 1",
		},
		{
			name: "missing_medicine_id",
			cart: []domain.CartItem{{
				Name:         "A",
				Quantity:     1,
				SellingPrice: decimal.NewFromInt(10),
			}},
			discount:      decimal.Zero,
			serviceCharge: decimal.Zero,
			errorIs:       domain.ErrValidation,
			errorContains: "medicine_id is required",
		},
		{
			name:          "negative_discount",
			cart:          valid,
			discount:      decimal.NewFromInt(-5),
			serviceCharge: decimal.Zero,
			errorIs:       domain.ErrValidation,
			errorContains: "discount cannot be negative",
		},
		{
			name:          "negative_service_charge",
			cart:          valid,
			discount:      decimal.Zero,
			serviceCharge: decimal.NewFromInt(-5),
			errorIs:       domain.ErrValidation,
			errorContains: "service_charge cannot be negative",
		},
		{
			name:          "discount_exceeds_gross",
			cart:          valid,
			discount:      decimal.NewFromInt(251),
			serviceCharge: decimal.Zero,
			errorIs:       domain.ErrValidation,
			errorContains: "exceeds gross total",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := domain.NewSaleFromCart(tt.cart, tt.discount, tt.serviceCharge)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.errorIs)
			assert.Contains(t, err.Error(), tt.errorContains)
		})
	}
}

func TestSaleRecord_CorrectItemQuantity_IncreasesQuantity(t *testing.T) {
	record, err := domain.NewSaleFromCart(twoItemCart(), decimal.NewFromInt(30), decimal.Zero)
	require.NoError(t, err)

	delta, medicineID, err := record.CorrectItemQuantity(record.Items[0].ID, 5)
	require.NoError(t, err)

	assert.Equal(t, 3, delta)
	assert.Equal(t, record.Items[0].MedicineID, medicineID)
	assert.Equal(t, 5, record.Items[0].Quantity)

	// New gross 550, discount still 30, so the final total must be 520
	// exactly: the discount is reallocated, not dropped.
	assert.True(t, record.FinalTotal.Equal(decimal.NewFromInt(520)),
		"final total: %s", record.FinalTotal)

	// Line 0 keeps a proportional share of the discount.
	share := decimal.NewFromInt(500).Mul(decimal.NewFromInt(30)).Div(decimal.NewFromInt(550))
	wantTotal := decimal.NewFromInt(500).Sub(share)
	assert.True(t, record.Items[0].TotalAmount.Equal(wantTotal),
		"item 0 total %s != %s", record.Items[0].TotalAmount, wantTotal)

	require.NoError(t, record.CheckInvariants())
}

func TestSaleRecord_CorrectItemQuantity_ReducesToZero(t *testing.T) {
	record, err := domain.NewSaleFromCart(twoItemCart(), decimal.NewFromInt(30), decimal.Zero)
	require.NoError(t, err)

	delta, _, err := record.CorrectItemQuantity(record.Items[0].ID, 0)
	require.NoError(t, err)

	assert.Equal(t, -2, delta)
	assert.True(t, record.Items[0].TotalAmount.IsZero())
	assert.True(t, record.Items[0].Profit.IsZero())

	// Remaining gross is 50; the 30 discount now lands entirely on the
	// surviving line.
	assert.True(t, record.Items[1].TotalAmount.Equal(decimal.NewFromInt(20)),
		"item 1 total: %s", record.Items[1].TotalAmount)
	assert.True(t, record.FinalTotal.Equal(decimal.NewFromInt(20)),
		"final total: %s", record.FinalTotal)

	require.NoError(t, record.CheckInvariants())
}

func TestSaleRecord_CorrectItemQuantity_ClampsDiscountToGross(t *testing.T) {
	cart := []domain.CartItem{{
		MedicineID:    uuid.New(),
		Name:          "Vitamin C",
		Quantity:      5,
		SellingPrice:  decimal.NewFromInt(10),
		PurchasePrice: decimal.NewFromInt(4),
	}}
	record, err := domain.NewSaleFromCart(cart, decimal.NewFromInt(30), decimal.NewFromInt(5))
	require.NoError(t, err)

	// Shrinking the sale below the original discount clamps the
	// effective discount to the new gross; the total never goes negative.
	_, _, err = record.CorrectItemQuantity(record.Items[0].ID, 1)
	require.NoError(t, err)

	assert.True(t, record.Items[0].TotalAmount.IsZero(),
		"item total: %s", record.Items[0].TotalAmount)
	assert.True(t, record.FinalTotal.Equal(decimal.NewFromInt(5)),
		"final total: %s", record.FinalTotal)
	require.NoError(t, record.CheckInvariants())
}

func TestSaleRecord_CorrectItemQuantity_Errors(t *testing.T) {
	record, err := domain.NewSaleFromCart(twoItemCart(), decimal.Zero, decimal.Zero)
	require.NoError(t, err)

	t.Run("negative_quantity", func(t *testing.T) {
		_, _, err := record.CorrectItemQuantity(record.Items[0].ID, -1)
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("item_not_found", func(t *testing.T) {
		_, _, err := record.CorrectItemQuantity(uuid.New(), 3)
		assert.ErrorIs(t, err, domain.ErrNotFound)
		assert.Contains(t, err.Error(), "item not found in sale")
	})

	t.Run("medicine_id_missing", func(t *testing.T) {
		broken := *record
		broken.Items = append([]domain.SaleItem(nil), record.Items...)
		broken.Items[0].MedicineID = uuid.Nil

		_, _, err := broken.CorrectItemQuantity(broken.Items[0].ID, 3)
		assert.ErrorIs(t, err, domain.ErrValidation)
		assert.Contains(t, err.Error(), "medicine id missing")
	})
}
