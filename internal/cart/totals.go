// Package cart holds the retail and wholesale cart engines and their pricing.
package cart

import (
	"autopartes/internal/model"

	"github.com/shopspring/decimal"
)

const (
	// LoteMinimo is the wholesale lot size. Quantities are kept multiples of it.
	LoteMinimo = 5
	// WholesaleDiscountRate is applied to the wholesale subtotal before tax.
	WholesaleDiscountRate = 0.15
	// IVARate is the Chilean VAT.
	IVARate = 0.19
)

// CalculateTotal prices a wholesale cart: discount first, then IVA on the
// discounted amount. Nothing is rounded here.
func CalculateTotal(items []model.WholesaleItem) model.Totals {
	var subtotal float64
	for _, it := range items {
		subtotal += it.Precio * float64(it.Cantidad)
	}
	descuento := subtotal * WholesaleDiscountRate
	taxable := subtotal - descuento
	iva := taxable * IVARate
	return model.Totals{
		Subtotal:  subtotal,
		Descuento: descuento,
		IVA:       iva,
		Total:     taxable + iva,
	}
}

// RetailTotals prices a retail cart: no discount, IVA added on top.
func RetailTotals(items []model.CartItem) model.Totals {
	var subtotal float64
	for _, it := range items {
		subtotal += it.Precio * float64(it.Cantidad)
	}
	iva := subtotal * IVARate
	return model.Totals{
		Subtotal: subtotal,
		IVA:      iva,
		Total:    subtotal + iva,
	}
}

// Rounded returns t rounded to whole pesos for display.
func Rounded(t model.Totals) model.Totals {
	return model.Totals{
		Subtotal:  round(t.Subtotal),
		Descuento: round(t.Descuento),
		IVA:       round(t.IVA),
		Total:     round(t.Total),
	}
}

// Amount converts a total to the integer peso amount charged by the gateway.
func Amount(total float64) int64 {
	return decimal.NewFromFloat(total).Round(0).IntPart()
}

func round(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(0).Float64()
	return f
}

// RoundUpToLot returns the smallest multiple of lot that is >= q.
func RoundUpToLot(q, lot int) int {
	if lot <= 0 {
		lot = LoteMinimo
	}
	return (q + lot - 1) / lot * lot
}
