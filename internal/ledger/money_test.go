package ledger

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestComputeTotalsSinDescuento(t *testing.T) {
	// 2 x 100 + 1 x 50
	subtotal := LineSubtotal(2, decimal.NewFromInt(100)).
		Add(LineSubtotal(1, decimal.NewFromInt(50)))

	totals, err := ComputeTotals(subtotal, decimal.Zero)
	if err != nil {
		t.Fatalf("ComputeTotals: %v", err)
	}

	if !totals.Subtotal.Equal(decimal.NewFromInt(250)) {
		t.Errorf("subtotal = %s, esperado 250", totals.Subtotal)
	}
	if !totals.Impuesto.Equal(decimal.NewFromFloat(40.00)) {
		t.Errorf("impuesto = %s, esperado 40.00", totals.Impuesto)
	}
	if !totals.Total.Equal(decimal.NewFromFloat(290.00)) {
		t.Errorf("total = %s, esperado 290.00", totals.Total)
	}
}

func TestComputeTotalsConDescuento(t *testing.T) {
	// impuesto sobre la base ya descontada
	totals, err := ComputeTotals(decimal.NewFromInt(100), decimal.NewFromInt(20))
	if err != nil {
		t.Fatalf("ComputeTotals: %v", err)
	}
	if !totals.Impuesto.Equal(decimal.NewFromFloat(12.80)) {
		t.Errorf("impuesto = %s, esperado 12.80", totals.Impuesto)
	}
	if !totals.Total.Equal(decimal.NewFromFloat(92.80)) {
		t.Errorf("total = %s, esperado 92.80", totals.Total)
	}
}

func TestComputeTotalsRedondeo(t *testing.T) {
	// 3 x 33.33 = 99.99; impuesto 15.9984 -> 16.00
	subtotal := LineSubtotal(3, decimal.NewFromFloat(33.33))
	totals, err := ComputeTotals(subtotal, decimal.Zero)
	if err != nil {
		t.Fatalf("ComputeTotals: %v", err)
	}
	if !totals.Impuesto.Equal(decimal.NewFromFloat(16.00)) {
		t.Errorf("impuesto = %s, esperado 16.00", totals.Impuesto)
	}
	if !totals.Total.Equal(decimal.NewFromFloat(115.99)) {
		t.Errorf("total = %s, esperado 115.99", totals.Total)
	}
}

func TestComputeTotalsDescuentoInvalido(t *testing.T) {
	casos := []struct {
		nombre    string
		subtotal  decimal.Decimal
		descuento decimal.Decimal
	}{
		{"descuento negativo", decimal.NewFromInt(100), decimal.NewFromInt(-1)},
		{"descuento mayor al subtotal", decimal.NewFromInt(100), decimal.NewFromInt(101)},
	}
	for _, c := range casos {
		t.Run(c.nombre, func(t *testing.T) {
			_, err := ComputeTotals(c.subtotal, c.descuento)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("esperaba ValidationError, obtuve %v", err)
			}
		})
	}
}
