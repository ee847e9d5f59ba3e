package services

import "github.com/shopspring/decimal"

// Pricing holds the checkout adjustments applied on top of the line subtotal.
type Pricing struct {
	ShippingFee decimal.Decimal
	Discount    decimal.Decimal
}

func NewPricing(shippingFee, discount float64) Pricing {
	return Pricing{
		ShippingFee: decimal.NewFromFloat(shippingFee),
		Discount:    decimal.NewFromFloat(discount),
	}
}

// PricedLine is a product quantity at a resolved unit price.
type PricedLine struct {
	ProductID uint
	Quantity  int
	UnitPrice float64
}

// Quote is the result of pricing a selection of lines.
type Quote struct {
	Subtotal    decimal.Decimal
	ShippingFee decimal.Decimal
	Discount    decimal.Decimal
	Total       decimal.Decimal
}

// LineSubtotal is price × quantity.
func LineSubtotal(price float64, quantity int) decimal.Decimal {
	return decimal.NewFromFloat(price).Mul(decimal.NewFromInt(int64(quantity)))
}

// Quote computes subtotal + shipping − discount, never below zero.
func (p Pricing) Quote(lines []PricedLine) Quote {
	subtotal := decimal.Zero
	for _, l := range lines {
		subtotal = subtotal.Add(LineSubtotal(l.UnitPrice, l.Quantity))
	}
	total := subtotal.Add(p.ShippingFee).Sub(p.Discount)
	if total.IsNegative() {
		total = decimal.Zero
	}
	return Quote{
		Subtotal:    subtotal,
		ShippingFee: p.ShippingFee,
		Discount:    p.Discount,
		Total:       total,
	}
}

func toFloat(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}
