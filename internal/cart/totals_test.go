package cart

import (
	"testing"

	"autopartes/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestCalculateTotal(t *testing.T) {
	tests := []struct {
		name     string
		items    []model.WholesaleItem
		expected model.Totals
	}{
		{
			name:     "Empty cart",
			items:    nil,
			expected: model.Totals{},
		},
		{
			name: "Subtotal 100000",
			items: []model.WholesaleItem{
				{ID: "P001", Precio: 20000, Cantidad: 5},
			},
			expected: model.Totals{Subtotal: 100000, Descuento: 15000, IVA: 16150, Total: 101150},
		},
		{
			name: "Several lines",
			items: []model.WholesaleItem{
				{ID: "P001", Precio: 10000, Cantidad: 5},
				{ID: "P002", Precio: 2000, Cantidad: 25},
			},
			expected: model.Totals{Subtotal: 100000, Descuento: 15000, IVA: 16150, Total: 101150},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateTotal(tt.items)
			assert.InDelta(t, tt.expected.Subtotal, got.Subtotal, 1e-9)
			assert.InDelta(t, tt.expected.Descuento, got.Descuento, 1e-9)
			assert.InDelta(t, tt.expected.IVA, got.IVA, 1e-9)
			assert.InDelta(t, tt.expected.Total, got.Total, 1e-9)
		})
	}
}

func TestCalculateTotal_MatchesClosedForm(t *testing.T) {
	for _, s := range []float64{1, 999, 12345, 100000, 7654321} {
		got := CalculateTotal([]model.WholesaleItem{{Precio: s, Cantidad: 1}})
		assert.InDelta(t, (s*0.85)*1.19, got.Total, 1e-6, "subtotal %v", s)
	}
}

func TestCalculateTotal_DoesNotRound(t *testing.T) {
	got := CalculateTotal([]model.WholesaleItem{{Precio: 1001, Cantidad: 1}})

	// 1001 * 0.85 * 1.19 = 1012.5115
	assert.InDelta(t, 1012.5115, got.Total, 1e-9)
	assert.Equal(t, 1013.0, Rounded(got).Total)
	assert.Equal(t, int64(1013), Amount(got.Total))
}

func TestRetailTotals(t *testing.T) {
	got := RetailTotals([]model.CartItem{
		{ProductID: "P001", Precio: 10000, Cantidad: 2},
		{ProductID: "P002", Precio: 5000, Cantidad: 1},
	})

	assert.InDelta(t, 25000, got.Subtotal, 1e-9)
	assert.Zero(t, got.Descuento)
	assert.InDelta(t, 4750, got.IVA, 1e-9)
	assert.InDelta(t, 29750, got.Total, 1e-9)
}

func TestAmountAndRounding(t *testing.T) {
	tests := []struct {
		in       float64
		expected int64
	}{
		{in: 0, expected: 0},
		{in: 101150, expected: 101150},
		{in: 100.49, expected: 100},
		{in: 100.5, expected: 101},
		{in: 2499.999, expected: 2500},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, Amount(tt.in), "amount of %v", tt.in)
	}
}

func TestRoundUpToLot(t *testing.T) {
	tests := []struct {
		q, lot, expected int
	}{
		{q: 1, lot: 5, expected: 5},
		{q: 5, lot: 5, expected: 5},
		{q: 6, lot: 5, expected: 10},
		{q: 12, lot: 5, expected: 15},
		{q: 7, lot: 3, expected: 9},
		{q: 7, lot: 0, expected: 10},
	}

	for _, tt := range tests {
		got := RoundUpToLot(tt.q, tt.lot)
		assert.Equal(t, tt.expected, got, "q=%d lot=%d", tt.q, tt.lot)
		lot := tt.lot
		if lot <= 0 {
			lot = LoteMinimo
		}
		assert.Zero(t, got%lot)
		assert.GreaterOrEqual(t, got, tt.q)
	}
}
