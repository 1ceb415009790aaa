package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Frequency is the purchaseFrequency tag stored on a purchase.  New writes
// only ever produce FrequencyOnce or FrequencyRecurring.  The granular
// weekly/bi-weekly/monthly values come from an earlier projection design;
// old records keep them forever and every reader must treat them as
// recurring.
type Frequency string

const (
	FrequencyOnce      Frequency = "once"
	FrequencyRecurring Frequency = "recurring"

	// legacy values, read-only
	FrequencyWeekly   Frequency = "weekly"
	FrequencyBiWeekly Frequency = "bi-weekly"
	FrequencyMonthly  Frequency = "monthly"
)

// IsOnce reports whether the purchase is a one-time expense.
func (f Frequency) IsOnce() bool {
	return strings.EqualFold(strings.TrimSpace(string(f)), string(FrequencyOnce))
}

// IsRecurring reports whether f is any recurring marker: every value that
// is neither empty nor "once".
func (f Frequency) IsRecurring() bool {
	s := strings.TrimSpace(string(f))
	return s != "" && !f.IsOnce()
}

// ParseFrequency normalizes a frequency supplied on a write.  Empty input
// means a one-time purchase; legacy granular values collapse into
// FrequencyRecurring.
func ParseFrequency(s string) (Frequency, error) {
	switch Frequency(strings.ToLower(strings.TrimSpace(s))) {
	case "", FrequencyOnce:
		return FrequencyOnce, nil
	case FrequencyRecurring, FrequencyWeekly, FrequencyBiWeekly, FrequencyMonthly:
		return FrequencyRecurring, nil
	}
	return "", fmt.Errorf("unknown purchase frequency %q", s)
}

// DefaultCategory is applied when a purchase is logged without a category.
const DefaultCategory = "Meal Plan"

// Purchase is one logged expenditure, or one line of a bulk-imported
// receipt.  Cost is the total for the record, not a unit price.
//
// Fields:
//  ItemName              – free text; grouped case-insensitively via ItemKey.
//  Cost                  – total cost of the record (> 0).
//  Quantity              – units bought (> 0).
//  PurchaseDate          – calendar dates are stored at local noon.
//  IsActiveForProjection – excludes the item from future projections when false.
//  IsStockItem           – shows the item to members as currently stocked.
type Purchase struct {
	ID                    string    `json:"id"`                    // purchases.id
	ItemName              string    `json:"itemName"`              // purchases.item_name
	Cost                  float64   `json:"cost"`                  // purchases.cost
	Quantity              int       `json:"quantity"`              // purchases.quantity
	Category              string    `json:"category"`              // purchases.category
	PurchaseDate          time.Time `json:"purchaseDate"`          // purchases.purchase_date
	PurchaseFrequency     Frequency `json:"purchaseFrequency"`     // purchases.purchase_frequency
	IsActiveForProjection bool      `json:"isActiveForProjection"` // purchases.is_active_for_projection
	IsStockItem           bool      `json:"isStockItem"`           // purchases.is_stock_item
	CreatedAt             time.Time `json:"createdAt"`             // purchases.created_at
}

// ItemKey is the normalized identity of an item name: trimmed and
// lower-cased.  "Milk" and " milk" share a key.
func ItemKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Validate checks the fields every stored purchase must satisfy.
func (p *Purchase) Validate() error {
	switch {
	case strings.TrimSpace(p.ItemName) == "":
		return errors.New("itemName is required")
	case !(p.Cost > 0):
		return errors.New("cost must be greater than 0")
	case p.Quantity <= 0:
		return errors.New("quantity must be greater than 0")
	case p.PurchaseDate.IsZero():
		return errors.New("purchaseDate is required")
	}
	return nil
}
