// internal/core/domain/medicine.go
package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StockStatus is a red/amber/green stock-health classification used by
// reporting only. It is derived, never persisted.
type StockStatus string

const (
	StockStatusGreen StockStatus = "green"
	StockStatusAmber StockStatus = "amber"
	StockStatusRed   StockStatus = "red"
)

// DefaultLowStockThreshold is the quantity at or below which a medicine
// counts as low stock.
const DefaultLowStockThreshold = 10

// DefaultExpiryWindowDays is the look-ahead window for the expiring-soon
// classification.
const DefaultExpiryWindowDays = 30

// Medicine represents a stocked item. Quantity is mutated only through
// relative adjustments (checkout decrements, correction deltas, direct
// edits) and is never negative after a committed operation.
type Medicine struct {
	ID            uuid.UUID       `json:"id"`
	Name          string          `json:"name"`
	Generic       string          `json:"generic"`
	Category      string          `json:"category,omitempty"`
	Quantity      int             `json:"quantity"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	SellingPrice  decimal.Decimal `json:"selling_price"`
	Expiry        time.Time       `json:"expiry"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// Validate performs domain validation on the medicine
func (m *Medicine) Validate() error {
	if m.Name == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	if m.Generic == "" {
		return fmt.Errorf("%w: generic is required", ErrValidation)
	}
	if m.Quantity < 0 {
		return fmt.Errorf("%w: quantity cannot be negative", ErrValidation)
	}
	if m.PurchasePrice.IsNegative() {
		return fmt.Errorf("%w: purchase_price cannot be negative", ErrValidation)
	}
	if m.SellingPrice.IsNegative() {
		return fmt.Errorf("%w: selling_price cannot be negative", ErrValidation)
	}
	if m.Expiry.IsZero() {
		return fmt.Errorf("%w: expiry is required", ErrValidation)
	}
	return nil
}

// PrepareForStorage prepares the medicine for database storage
func (m *Medicine) PrepareForStorage() {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}

	now := time.Now()
	if m.CreatedAt.IsZero() {
		m.CreatedAt = now
	}
	m.UpdatedAt = now
}

// StockValue returns quantity x purchase price, the cost basis of the
// units currently on hand.
func (m *Medicine) StockValue() decimal.Decimal {
	return m.PurchasePrice.Mul(decimal.NewFromInt(int64(m.Quantity)))
}

// IsExpired reports whether the medicine has passed its expiry date.
func (m *Medicine) IsExpired(now time.Time) bool {
	return m.Expiry.Before(now)
}

// ExpiresWithin reports whether the medicine expires within the next
// days days (and is not already expired).
func (m *Medicine) ExpiresWithin(now time.Time, days int) bool {
	if m.IsExpired(now) {
		return false
	}
	return !m.Expiry.After(now.AddDate(0, 0, days))
}

// Status classifies stock health against a low-stock threshold: red when
// out of stock or expired, amber when at or below the threshold or
// expiring within the default window.
func (m *Medicine) Status(now time.Time, threshold int) StockStatus {
	if m.Quantity == 0 || m.IsExpired(now) {
		return StockStatusRed
	}
	if m.Quantity <= threshold || m.ExpiresWithin(now, DefaultExpiryWindowDays) {
		return StockStatusAmber
	}
	return StockStatusGreen
}
