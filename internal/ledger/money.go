package ledger

import "github.com/shopspring/decimal"

// IVA fijo del 16%.
var TaxRate = decimal.NewFromFloat(0.16)

type Totals struct {
	Subtotal  decimal.Decimal
	Descuento decimal.Decimal
	Impuesto  decimal.Decimal
	Total     decimal.Decimal
}

// ComputeTotals aplica la regla de totales de ventas y presupuestos:
//
//	impuesto = round((subtotal - descuento) * 0.16, 2)
//	total    = round((subtotal - descuento) + impuesto, 2)
//
// El descuento no puede ser negativo ni mayor al subtotal.
func ComputeTotals(subtotal, descuento decimal.Decimal) (Totals, error) {
	if subtotal.IsNegative() {
		return Totals{}, &ValidationError{Msg: "el subtotal no puede ser negativo"}
	}
	if descuento.IsNegative() {
		return Totals{}, &ValidationError{Msg: "el descuento no puede ser negativo"}
	}
	if descuento.GreaterThan(subtotal) {
		return Totals{}, &ValidationError{Msg: "el descuento no puede ser mayor al subtotal"}
	}

	base := subtotal.Sub(descuento)
	impuesto := base.Mul(TaxRate).Round(2)
	total := base.Add(impuesto).Round(2)

	return Totals{
		Subtotal:  subtotal.Round(2),
		Descuento: descuento.Round(2),
		Impuesto:  impuesto,
		Total:     total,
	}, nil
}

// LineSubtotal: importe de una partida (cantidad * precio unitario).
func LineSubtotal(cantidad int, unitPrice decimal.Decimal) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(int64(cantidad)))
}
