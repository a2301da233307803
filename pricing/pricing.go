// Package pricing derives the payable total of a cart: discount first, then
// loyalty redemption, then tax.
package pricing

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"salonpos/models"
)

var hundred = decimal.NewFromInt(100)

// ErrInvalidLine is returned by Validate for lines that cannot be priced.
var ErrInvalidLine = errors.New("invalid cart line")

type Input struct {
	Lines           []models.CartLine
	DiscountPercent float64
	RequestedPoints int
	AvailablePoints int
	TaxRate         float64
}

type Quote struct {
	Subtotal          float64 `json:"subtotal"`
	DiscountPercent   float64 `json:"discountPercent"`
	DiscountAmount    float64 `json:"discountAmount"`
	BillAfterDiscount float64 `json:"billAfterDiscount"`
	RequestedPoints   int     `json:"requestedPoints"`
	RedeemedPoints    int     `json:"redeemedPoints"`
	RedemptionClamped bool    `json:"redemptionClamped"`
	TaxableAmount     float64 `json:"taxableAmount"`
	TaxRate           float64 `json:"taxRate"`
	Tax               float64 `json:"tax"`
	Total             float64 `json:"total"`
}

// Validate rejects negative prices and non-positive quantities.
func Validate(lines []models.CartLine) error {
	for i, l := range lines {
		if l.Quantity < 1 {
			return fmt.Errorf("%w: line %d quantity must be at least 1", ErrInvalidLine, i)
		}
		if l.UnitPrice < 0 {
			return fmt.Errorf("%w: line %d has negative price", ErrInvalidLine, i)
		}
		if !l.ItemType.Valid() {
			return fmt.Errorf("%w: line %d has unknown item type %q", ErrInvalidLine, i, l.ItemType)
		}
	}
	return nil
}

// Subtotal sums unit price times quantity over all lines.
func Subtotal(lines []models.CartLine) decimal.Decimal {
	sum := decimal.Zero
	for _, l := range lines {
		sum = sum.Add(decimal.NewFromFloat(l.UnitPrice).Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	return sum
}

// MaxRedeemable is the largest whole number of points usable against a bill.
func MaxRedeemable(billAfterDiscount float64, available int) int {
	if available <= 0 || billAfterDiscount <= 0 {
		return 0
	}
	limit := int(decimal.NewFromFloat(billAfterDiscount).Floor().IntPart())
	if available < limit {
		return available
	}
	return limit
}

// Calculate prices the cart. Redemption is always re-clamped against the
// current cart and discount, so a stale request can never overdraw.
func Calculate(in Input) Quote {
	discountPct := clamp(in.DiscountPercent, 0, 100)
	taxRate := in.TaxRate
	if taxRate < 0 {
		taxRate = 0
	}

	subtotal := Subtotal(in.Lines)
	discountAmount := subtotal.Mul(decimal.NewFromFloat(discountPct)).Div(hundred)
	afterDiscount := decimal.Max(decimal.Zero, subtotal.Sub(discountAmount))

	requested := in.RequestedPoints
	if requested < 0 {
		requested = 0
	}
	redeemed := requested
	maxPoints := MaxRedeemable(afterDiscount.InexactFloat64(), in.AvailablePoints)
	if redeemed > maxPoints {
		redeemed = maxPoints
	}

	taxable := decimal.Max(decimal.Zero, afterDiscount.Sub(decimal.NewFromInt(int64(redeemed))))
	tax := taxable.Mul(decimal.NewFromFloat(taxRate)).Div(hundred).Round(2)
	total := taxable.Round(2).Add(tax)

	return Quote{
		Subtotal:          money(subtotal),
		DiscountPercent:   discountPct,
		DiscountAmount:    money(discountAmount),
		BillAfterDiscount: money(afterDiscount),
		RequestedPoints:   requested,
		RedeemedPoints:    redeemed,
		RedemptionClamped: redeemed != requested,
		TaxableAmount:     money(taxable),
		TaxRate:           taxRate,
		Tax:               money(tax),
		Total:             money(total),
	}
}

func money(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
