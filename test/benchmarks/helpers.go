// test/benchmarks/helpers.go
package benchmarks

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ammerola/pharmapos-be/internal/core/domain"
)

// buildBenchmarkCart creates a cart of the given size with varied
// prices so discount allocation has uneven proportions to work with
func buildBenchmarkCart(numItems int) []domain.CartItem {
	cart := make([]domain.CartItem, 0, numItems)
	for i := 0; i < numItems; i++ {
		selling := decimal.NewFromFloat(1.50).Add(decimal.NewFromInt(int64(i % 17)))
		purchase := selling.Mul(decimal.NewFromFloat(0.6)).Round(2)
		cart = append(cart, domain.CartItem{
			MedicineID:    uuid.New(),
			Name:          fmt.Sprintf("Benchmark Medicine %d", i+1),
			Quantity:      1 + i%5,
			SellingPrice:  selling,
			PurchasePrice: purchase,
		})
	}
	return cart
}

// buildBenchmarkMedicines creates catalog rows for repository benchmarks
func buildBenchmarkMedicines(count int) []domain.Medicine {
	categories := []string{"antibiotic", "analgesic", "antihistamine", "antacid", "vitamin"}

	medicines := make([]domain.Medicine, count)
	for i := 0; i < count; i++ {
		purchase := decimal.NewFromFloat(2.00).Add(decimal.NewFromInt(int64(i % 9)))
		medicines[i] = domain.Medicine{
			ID:            uuid.New(),
			Name:          fmt.Sprintf("Benchmark Medicine %d", i+1),
			Generic:       fmt.Sprintf("Generic %d", i+1),
			Category:      categories[i%len(categories)],
			Quantity:      10 + i%200,
			PurchasePrice: purchase,
			SellingPrice:  purchase.Mul(decimal.NewFromFloat(1.5)).Round(2),
			Expiry:        time.Now().AddDate(1, 0, 0),
		}
		medicines[i].PrepareForStorage()
	}
	return medicines
}
