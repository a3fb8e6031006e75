package cart

import (
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	freeShippingThreshold = decimal.NewFromInt(500)
	standardShippingFee   = decimal.NewFromInt(50)
)

// LineItem is one product entry in the cart. Names are unique within a cart.
type LineItem struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Quantity  int             `json:"quantity"`
}

// LineTotal is unitPrice × quantity.
func (l LineItem) LineTotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

type Totals struct {
	Subtotal    decimal.Decimal `json:"subtotal"`
	ShippingFee decimal.Decimal `json:"shippingFee"`
	Total       decimal.Decimal `json:"total"`
}

// ComputeTotals derives cart totals. Shipping is free strictly above 500.
func ComputeTotals(items []LineItem) Totals {
	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.LineTotal())
	}
	shipping := standardShippingFee
	if subtotal.GreaterThan(freeShippingThreshold) {
		shipping = decimal.Zero
	}
	return Totals{
		Subtotal:    subtotal,
		ShippingFee: shipping,
		Total:       subtotal.Add(shipping),
	}
}

// ItemCount sums quantities for the cart badge.
func ItemCount(items []LineItem) int {
	count := 0
	for _, item := range items {
		count += item.Quantity
	}
	return count
}

// validateItems rejects persisted carts that break the line item invariants.
func validateItems(items []LineItem) error {
	seenIDs := make(map[string]struct{}, len(items))
	seenNames := make(map[string]struct{}, len(items))
	for _, item := range items {
		if item.ID == "" || item.Name == "" {
			return fmt.Errorf("line item missing id or name")
		}
		if item.Quantity < 1 {
			return fmt.Errorf("line item %s has quantity %d", item.ID, item.Quantity)
		}
		if item.UnitPrice.IsNegative() {
			return fmt.Errorf("line item %s has a negative price", item.ID)
		}
		if _, dup := seenIDs[item.ID]; dup {
			return fmt.Errorf("duplicate line item id %s", item.ID)
		}
		if _, dup := seenNames[item.Name]; dup {
			return fmt.Errorf("duplicate line item name %q", item.Name)
		}
		seenIDs[item.ID] = struct{}{}
		seenNames[item.Name] = struct{}{}
	}
	return nil
}

func cloneItems(items []LineItem) []LineItem {
	out := make([]LineItem, len(items))
	copy(out, items)
	return out
}

func indexOf(items []LineItem, id string) int {
	for i, item := range items {
		if item.ID == id {
			return i
		}
	}
	return -1
}
