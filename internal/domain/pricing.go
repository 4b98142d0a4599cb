package domain

import "github.com/shopspring/decimal"

// NormalizeQuantity coerces non-positive quantities to one. Lines always
// represent at least one unit.
func NormalizeQuantity(quantity int) int {
	if quantity <= 0 {
		return 1
	}
	return quantity
}

// LineNetPrice computes unitPrice * quantity - discount. The result is never
// clamped: a discount larger than the gross amount yields a negative net
// price.
func LineNetPrice(unitPrice decimal.Decimal, quantity int, discount decimal.Decimal) decimal.Decimal {
	qty := decimal.NewFromInt(int64(NormalizeQuantity(quantity)))
	return unitPrice.Mul(qty).Sub(discount)
}

// OrderTotal sums the stored net prices of the given lines.
func OrderTotal(lines []OrderLine) decimal.Decimal {
	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(line.NetPrice)
	}
	return total
}
