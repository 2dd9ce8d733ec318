package invoice

import (
	"pharmacy/internal/core/types"
)

// Total returns Σ quantity × price over items.
func Total(items []Item) types.Money {
	total := types.Zero()
	for _, it := range items {
		total = total.Add(types.LineAmount(it.Quantity, it.Price))
	}
	return total
}

// RecalculateTotal derives TotalAmount from the current items.
func (inv *Invoice) RecalculateTotal() {
	inv.TotalAmount = Total(inv.Items)
}
