// internal/core/domain/sale.go
package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CartItem is one staged line of a not-yet-persisted sale. The prices are
// snapshots taken by the cart-building client at the time the item was
// added; checkout trusts them as the price basis of the sale.
type CartItem struct {
	MedicineID    uuid.UUID       `json:"medicine_id"`
	Name          string          `json:"name"`
	Quantity      int             `json:"quantity"`
	SellingPrice  decimal.Decimal `json:"selling_price"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
}

// Validate performs domain validation on a cart item
func (c *CartItem) Validate() error {
	if c.MedicineID == uuid.Nil {
		return fmt.Errorf("%w: medicine_id is required", ErrValidation)
	}
	if c.Name == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	if c.Quantity < 1 {
		return fmt.Errorf("%w: quantity must be at least 1", ErrValidation)
	}
	if c.SellingPrice.IsNegative() {
		return fmt.Errorf("%w: selling_price cannot be negative", ErrValidation)
	}
	if c.PurchasePrice.IsNegative() {
		return fmt.Errorf("%w: purchase_price cannot be negative", ErrValidation)
	}
	return nil
}

// Gross returns selling price x quantity for this line.
func (c *CartItem) Gross() decimal.Decimal {
	return c.SellingPrice.Mul(decimal.NewFromInt(int64(c.Quantity)))
}

// SaleItem is one medicine sold within a sale record. Name, SellingPrice
// and PurchasePrice are snapshots taken at sale time; they do not track
// later edits of the medicine. Profit therefore always reflects the cost
// basis at sale time, even across quantity corrections.
type SaleItem struct {
	ID            uuid.UUID       `json:"id"`
	MedicineID    uuid.UUID       `json:"medicine_id"`
	Name          string          `json:"name"`
	Quantity      int             `json:"quantity"`
	SellingPrice  decimal.Decimal `json:"selling_price"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	Profit        decimal.Decimal `json:"profit"`
}

// Gross returns selling price x quantity for this line, before discount.
func (i *SaleItem) Gross() decimal.Decimal {
	return i.SellingPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// SaleRecord is an immutable-by-default snapshot of one completed sale.
// The single controlled mutation path is CorrectItemQuantity.
type SaleRecord struct {
	ID            uuid.UUID       `json:"id"`
	Items         []SaleItem      `json:"items"`
	Discount      decimal.Decimal `json:"discount"`
	ServiceCharge decimal.Decimal `json:"service_charge"`
	FinalTotal    decimal.Decimal `json:"final_total"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// NewSaleFromCart builds a sale record from a cart, allocating the
// discount proportionally across lines and computing per-line profit.
// It validates everything up front and performs no I/O; persistence and
// stock decrements belong to the checkout service.
func NewSaleFromCart(cart []CartItem, discount, serviceCharge decimal.Decimal) (*SaleRecord, error) {
	if len(cart) == 0 {
		return nil, fmt.Errorf("%w: no items provided", ErrValidation)
	}
	if discount.IsNegative() {
		return nil, fmt.Errorf("%w: discount cannot be negative", ErrValidation)
	}
	if serviceCharge.IsNegative() {
		return nil, fmt.Errorf("%w: service_charge cannot be negative", ErrValidation)
	}

	gross := decimal.Zero
	for i := range cart {
		if err := cart[i].Validate(); err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		gross = gross.Add(cart[i].Gross())
	}
	if discount.GreaterThan(gross) {
		return nil, fmt.Errorf("%w: discount %s exceeds gross total %s", ErrValidation, discount, gross)
	}

	now := time.Now()
	record := &SaleRecord{
		ID:            uuid.New(),
		Items:         make([]SaleItem, 0, len(cart)),
		Discount:      discount,
		ServiceCharge: serviceCharge,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	for _, c := range cart {
		record.Items = append(record.Items, SaleItem{
			ID:            uuid.New(),
			MedicineID:    c.MedicineID,
			Name:          c.Name,
			Quantity:      c.Quantity,
			SellingPrice:  c.SellingPrice,
			PurchasePrice: c.PurchasePrice,
		})
	}
	record.reprice()

	return record, nil
}

// GrossTotal returns the sum of selling price x quantity over all lines,
// before discount.
func (r *SaleRecord) GrossTotal() decimal.Decimal {
	gross := decimal.Zero
	for i := range r.Items {
		gross = gross.Add(r.Items[i].Gross())
	}
	return gross
}

// CorrectItemQuantity changes one line's quantity and recomputes the
// record's totals. The discount is reallocated proportionally over the
// new gross (clamped to it if the correction shrank the sale below the
// original discount), so corrected records keep the same total semantics
// as freshly created ones. The returned delta (new - old) is the amount
// the checkout service must subtract from the medicine's stock.
func (r *SaleRecord) CorrectItemQuantity(itemID uuid.UUID, newQuantity int) (delta int, medicineID uuid.UUID, err error) {
	if newQuantity < 0 {
		return 0, uuid.Nil, fmt.Errorf("%w: quantity cannot be negative", ErrValidation)
	}

	idx := -1
	for i := range r.Items {
		if r.Items[i].ID == itemID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return 0, uuid.Nil, fmt.Errorf("%w: item not found in sale", ErrNotFound)
	}
	if r.Items[idx].MedicineID == uuid.Nil {
		return 0, uuid.Nil, fmt.Errorf("%w: medicine id missing in sale item", ErrValidation)
	}

	delta = newQuantity - r.Items[idx].Quantity
	r.Items[idx].Quantity = newQuantity
	r.reprice()
	r.UpdatedAt = time.Now()

	return delta, r.Items[idx].MedicineID, nil
}

// CheckInvariants verifies the record's monetary invariants: the final
// total equals the sum of line totals plus the service charge, and the
// effective discount never exceeds the gross total.
func (r *SaleRecord) CheckInvariants() error {
	sum := decimal.Zero
	for i := range r.Items {
		if r.Items[i].Profit.IsNegative() {
			return fmt.Errorf("item %s: negative profit %s", r.Items[i].ID, r.Items[i].Profit)
		}
		sum = sum.Add(r.Items[i].TotalAmount)
	}
	if want := sum.Add(r.ServiceCharge); !r.FinalTotal.Equal(want) {
		return fmt.Errorf("final total %s != item totals + service charge %s", r.FinalTotal, want)
	}
	if r.Discount.IsNegative() {
		return fmt.Errorf("negative discount %s", r.Discount)
	}
	return nil
}

// effectiveDiscount is the discount actually allocated: the stored
// discount, clamped to the current gross total.
func (r *SaleRecord) effectiveDiscount() decimal.Decimal {
	gross := r.GrossTotal()
	if r.Discount.GreaterThan(gross) {
		return gross
	}
	return r.Discount
}

// reprice recomputes every line's discount share, total and profit, then
// the record's final total. Shares are proportional to each line's part
// of the gross total; the last non-zero line absorbs the allocation
// remainder so the shares always sum to the discount exactly.
func (r *SaleRecord) reprice() {
	gross := r.GrossTotal()
	discount := r.effectiveDiscount()

	last := -1
	if gross.IsPositive() {
		for i := range r.Items {
			if r.Items[i].Gross().IsPositive() {
				last = i
			}
		}
	}

	allocated := decimal.Zero
	for i := range r.Items {
		lineGross := r.Items[i].Gross()

		var share decimal.Decimal
		switch {
		case last == -1 || !lineGross.IsPositive():
			share = decimal.Zero
		case i == last:
			share = discount.Sub(allocated)
		default:
			share = lineGross.Mul(discount).Div(gross)
			allocated = allocated.Add(share)
		}

		r.Items[i].TotalAmount = lineGross.Sub(share)

		cost := r.Items[i].PurchasePrice.Mul(decimal.NewFromInt(int64(r.Items[i].Quantity)))
		profit := r.Items[i].TotalAmount.Sub(cost)
		if profit.IsNegative() {
			profit = decimal.Zero
		}
		r.Items[i].Profit = profit
	}

	total := decimal.Zero
	for i := range r.Items {
		total = total.Add(r.Items[i].TotalAmount)
	}
	r.FinalTotal = total.Add(r.ServiceCharge)
}
