package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	ErrNonPositiveQuantity = errors.New("part quantity must be a positive integer")
	ErrNegativePrice       = errors.New("price cannot be negative")
	ErrNegativeAdvance     = errors.New("advance payment cannot be negative")
)

// ComputeTotal returns the cost of a work order: the sum of each part
// line's quantity times unit price, plus the sum of labor prices.
// Rounding is a display concern; no intermediate rounding happens here.
func ComputeTotal(parts []OrderPartLine, labor []LaborLine) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, line := range parts {
		if line.Quantity < 1 {
			return decimal.Zero, fmt.Errorf("part %q: %w (got %d)", line.PartID, ErrNonPositiveQuantity, line.Quantity)
		}
		if line.UnitPrice.IsNegative() {
			return decimal.Zero, fmt.Errorf("part %q: %w", line.PartID, ErrNegativePrice)
		}
		total = total.Add(line.Subtotal())
	}
	for _, svc := range labor {
		if svc.Price.IsNegative() {
			return decimal.Zero, fmt.Errorf("labor %q: %w", svc.ID, ErrNegativePrice)
		}
		total = total.Add(svc.Price)
	}
	return total, nil
}

// ComputeBalance returns total minus advance. A negative result means
// overpayment; clamping is left to the caller.
func ComputeBalance(total, advance decimal.Decimal) decimal.Decimal {
	return total.Sub(advance)
}
