package budgets

import (
	"testing"

	"taller-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestBuildItemsTotales(t *testing.T) {
	reqs := []BudgetItemRequest{
		{Tipo: models.BudgetItemLabor, Descripcion: "Cambio de balatas", Cantidad: 1, UnitPrice: dec("350.00")},
		{Tipo: models.BudgetItemPart, Descripcion: "Juego de balatas", Cantidad: 2, UnitPrice: dec("225.00")},
	}

	items, totals, err := buildItems(reqs, decimal.Zero)
	if err != nil {
		t.Fatalf("buildItems: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("partidas = %d, esperadas 2", len(items))
	}
	// 350 + 450 = 800; IVA 16% = 128
	if !totals.Subtotal.Equal(dec("800.00")) {
		t.Errorf("subtotal = %s, esperado 800.00", totals.Subtotal)
	}
	if !totals.Impuesto.Equal(dec("128.00")) {
		t.Errorf("impuesto = %s, esperado 128.00", totals.Impuesto)
	}
	if !totals.Total.Equal(dec("928.00")) {
		t.Errorf("total = %s, esperado 928.00", totals.Total)
	}
}

func TestBuildItemsConDescuento(t *testing.T) {
	reqs := []BudgetItemRequest{
		{Tipo: models.BudgetItemPart, Descripcion: "Filtro de aceite", Cantidad: 1, UnitPrice: dec("100.00")},
	}

	_, totals, err := buildItems(reqs, dec("20.00"))
	if err != nil {
		t.Fatalf("buildItems: %v", err)
	}
	// base descontada 80, impuesto 12.80, total 92.80
	if !totals.Impuesto.Equal(dec("12.80")) {
		t.Errorf("impuesto = %s, esperado 12.80", totals.Impuesto)
	}
	if !totals.Total.Equal(dec("92.80")) {
		t.Errorf("total = %s, esperado 92.80", totals.Total)
	}
}

func TestBuildItemsRechazos(t *testing.T) {
	cases := []struct {
		name      string
		reqs      []BudgetItemRequest
		descuento decimal.Decimal
	}{
		{
			name: "tipo inválido",
			reqs: []BudgetItemRequest{
				{Tipo: "refaccion", Descripcion: "x", Cantidad: 1, UnitPrice: dec("10")},
			},
			descuento: decimal.Zero,
		},
		{
			name: "precio negativo",
			reqs: []BudgetItemRequest{
				{Tipo: models.BudgetItemPart, Descripcion: "x", Cantidad: 1, UnitPrice: dec("-5")},
			},
			descuento: decimal.Zero,
		},
		{
			name: "descuento mayor al subtotal",
			reqs: []BudgetItemRequest{
				{Tipo: models.BudgetItemPart, Descripcion: "x", Cantidad: 1, UnitPrice: dec("50")},
			},
			descuento: dec("60"),
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := buildItems(tc.reqs, tc.descuento)
			if err == nil {
				t.Fatal("esperaba error de validación")
			}
			ferr, ok := err.(*fiber.Error)
			if !ok || ferr.Code != fiber.StatusBadRequest {
				t.Fatalf("esperaba fiber 400, obtuve %v", err)
			}
		})
	}
}
