package ledger

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"

	"taller-backend/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Las pruebas de concurrencia y atomicidad necesitan Postgres real
// (bloqueo de filas con FOR UPDATE). Se saltan si no hay DSN de prueba.
func setupTestDB(t *testing.T) (*gorm.DB, uint) {
	t.Helper()

	dsn := os.Getenv("TALLER_TEST_DSN")
	if dsn == "" {
		t.Skip("define TALLER_TEST_DSN para correr las pruebas de ledger contra Postgres")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("no se pudo conectar a la base de prueba: %v", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Client{},
		&models.Vehicle{},
		&models.Product{},
		&models.InventoryMovement{},
		&models.Sale{},
		&models.SaleItem{},
	); err != nil {
		t.Fatalf("AutoMigrate: %v", err)
	}

	if err := db.Exec("TRUNCATE inventory_movements, sale_items, sales, vehicles, clients, products, users RESTART IDENTITY CASCADE").Error; err != nil {
		t.Fatalf("no se pudieron limpiar las tablas: %v", err)
	}

	cajero := models.User{
		Nombre:       "Cajero de prueba",
		Email:        "cajero@test.local",
		PasswordHash: "x",
		Rol:          models.RoleCashier,
	}
	if err := db.Create(&cajero).Error; err != nil {
		t.Fatalf("no se pudo crear el usuario de prueba: %v", err)
	}

	return db, cajero.ID
}

func createProduct(t *testing.T, db *gorm.DB, nombre string, cantidad int) *models.Product {
	t.Helper()
	p := models.Product{
		Nombre:      nombre,
		Cantidad:    cantidad,
		PrecioVenta: decimal.NewFromInt(100),
	}
	if err := db.Create(&p).Error; err != nil {
		t.Fatalf("no se pudo crear el producto %s: %v", nombre, err)
	}
	return &p
}

func stockOf(t *testing.T, db *gorm.DB, id uint) int {
	t.Helper()
	var p models.Product
	if err := db.First(&p, "id = ?", id).Error; err != nil {
		t.Fatalf("producto %d: %v", id, err)
	}
	return p.Cantidad
}

func countMovements(t *testing.T, db *gorm.DB, productID uint) int64 {
	t.Helper()
	var n int64
	if err := db.Model(&models.InventoryMovement{}).
		Where("product_id = ?", productID).Count(&n).Error; err != nil {
		t.Fatalf("contar movimientos: %v", err)
	}
	return n
}

// La validación de entrada ocurre antes de tocar la base.
func TestRecordMovementRejectsInvalidInput(t *testing.T) {
	led := New(nil)
	ctx := context.Background()

	casos := []struct {
		nombre   string
		product  uint
		tipo     models.MovementKind
		cantidad int
	}{
		{"tipo desconocido", 1, "retiro", 3},
		{"cantidad cero", 1, models.MovementInflow, 0},
		{"cantidad negativa", 1, models.MovementOutflow, -4},
		{"sin producto", 0, models.MovementInflow, 3},
	}
	for _, c := range casos {
		t.Run(c.nombre, func(t *testing.T) {
			_, _, err := led.RecordMovement(ctx, c.product, c.tipo, c.cantidad, "")
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("esperaba ValidationError, obtuve %v", err)
			}
		})
	}
}

func TestRecordSaleRejectsInvalidInput(t *testing.T) {
	led := New(nil)
	ctx := context.Background()

	_, err := led.RecordSale(ctx, SaleInput{MetodoPago: models.PaymentCash})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("carrito vacío: esperaba ValidationError, obtuve %v", err)
	}

	_, err = led.RecordSale(ctx, SaleInput{
		Items:      []SaleLine{{ProductID: 1, Cantidad: 1, UnitPrice: decimal.NewFromInt(10)}},
		MetodoPago: "cheque",
	})
	if !errors.As(err, &verr) {
		t.Fatalf("método de pago inválido: esperaba ValidationError, obtuve %v", err)
	}
}

// Escenario de ajuste manual: ingreso suma, salida que excede falla
// sin efectos, ajuste también suma.
func TestRecordMovementScenario(t *testing.T) {
	db, _ := setupTestDB(t)
	led := New(db)
	ctx := context.Background()

	p := createProduct(t, db, "Filtro de aceite", 10)

	mov, prod, err := led.RecordMovement(ctx, p.ID, models.MovementInflow, 4, "compra proveedor")
	if err != nil {
		t.Fatalf("ingreso: %v", err)
	}
	if prod.Cantidad != 14 {
		t.Errorf("stock tras ingreso = %d, esperado 14", prod.Cantidad)
	}
	if mov.Tipo != models.MovementInflow || mov.Cantidad != 4 {
		t.Errorf("movimiento inesperado: %+v", mov)
	}

	_, _, err = led.RecordMovement(ctx, p.ID, models.MovementOutflow, 20, "")
	var ins *InsufficientStockError
	if !errors.As(err, &ins) {
		t.Fatalf("salida de 20: esperaba InsufficientStockError, obtuve %v", err)
	}
	if ins.ProductID != p.ID || ins.Disponible != 14 {
		t.Errorf("error con datos incorrectos: %+v", ins)
	}
	if got := stockOf(t, db, p.ID); got != 14 {
		t.Errorf("stock tras salida rechazada = %d, esperado 14 (sin cambios)", got)
	}
	if n := countMovements(t, db, p.ID); n != 1 {
		t.Errorf("movimientos = %d, esperado 1 (la salida rechazada no deja fila)", n)
	}

	_, prod, err = led.RecordMovement(ctx, p.ID, models.MovementAdjustment, 5, "recuento físico")
	if err != nil {
		t.Fatalf("ajuste: %v", err)
	}
	if prod.Cantidad != 19 {
		t.Errorf("stock tras ajuste = %d, esperado 19 (ajuste suma)", prod.Cantidad)
	}
}

func TestRecordMovementUnknownProduct(t *testing.T) {
	db, _ := setupTestDB(t)
	led := New(db)

	_, _, err := led.RecordMovement(context.Background(), 9999, models.MovementInflow, 1, "")
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("esperaba NotFoundError, obtuve %v", err)
	}
}

// Conservación: vender q de un stock Q deja Q-q y exactamente un
// movimiento de salida de q con motivo "Venta #id".
func TestRecordSaleConservation(t *testing.T) {
	db, cajeroID := setupTestDB(t)
	led := New(db)
	ctx := context.Background()

	p := createProduct(t, db, "Bujía NGK", 10)

	sale, err := led.RecordSale(ctx, SaleInput{
		Items:       []SaleLine{{ProductID: p.ID, Cantidad: 3, UnitPrice: decimal.NewFromInt(80)}},
		Descuento:   decimal.Zero,
		MetodoPago:  models.PaymentCash,
		CreatedByID: cajeroID,
	})
	if err != nil {
		t.Fatalf("RecordSale: %v", err)
	}
	if sale.ID == 0 || sale.Folio == "" {
		t.Errorf("venta sin id o folio: %+v", sale)
	}
	if !sale.Subtotal.Equal(decimal.NewFromInt(240)) {
		t.Errorf("subtotal = %s, esperado 240", sale.Subtotal)
	}
	if !sale.Total.Equal(decimal.NewFromFloat(278.40)) {
		t.Errorf("total = %s, esperado 278.40", sale.Total)
	}

	if got := stockOf(t, db, p.ID); got != 7 {
		t.Errorf("stock tras venta = %d, esperado 7", got)
	}

	var movs []models.InventoryMovement
	if err := db.Where("product_id = ?", p.ID).Find(&movs).Error; err != nil {
		t.Fatalf("leer movimientos: %v", err)
	}
	if len(movs) != 1 {
		t.Fatalf("movimientos = %d, esperado 1", len(movs))
	}
	if movs[0].Tipo != models.MovementOutflow || movs[0].Cantidad != 3 {
		t.Errorf("movimiento inesperado: %+v", movs[0])
	}
	if want := fmt.Sprintf("Venta #%d", sale.ID); movs[0].Motivo != want {
		t.Errorf("motivo = %q, esperado %q", movs[0].Motivo, want)
	}

	var items []models.SaleItem
	if err := db.Where("sale_id = ?", sale.ID).Find(&items).Error; err != nil {
		t.Fatalf("leer partidas: %v", err)
	}
	if len(items) != 1 || items[0].Descripcion != "Bujía NGK" {
		t.Errorf("partidas sin snapshot del producto: %+v", items)
	}
}

// Todo o nada: si la segunda partida no tiene stock, ningún producto
// cambia y no queda rastro de la venta.
func TestRecordSaleAllOrNothing(t *testing.T) {
	db, cajeroID := setupTestDB(t)
	led := New(db)
	ctx := context.Background()

	p1 := createProduct(t, db, "Balata delantera", 10)
	p2 := createProduct(t, db, "Amortiguador", 1)

	_, err := led.RecordSale(ctx, SaleInput{
		Items: []SaleLine{
			{ProductID: p1.ID, Cantidad: 2, UnitPrice: decimal.NewFromInt(350)},
			{ProductID: p2.ID, Cantidad: 5, UnitPrice: decimal.NewFromInt(900)},
		},
		MetodoPago:  models.PaymentCard,
		CreatedByID: cajeroID,
	})
	var ins *InsufficientStockError
	if !errors.As(err, &ins) {
		t.Fatalf("esperaba InsufficientStockError, obtuve %v", err)
	}
	if ins.ProductID != p2.ID || ins.Nombre != "Amortiguador" {
		t.Errorf("el error no identifica al producto ofensor: %+v", ins)
	}

	// Ambos productos intactos, no solo el que falló
	if got := stockOf(t, db, p1.ID); got != 10 {
		t.Errorf("stock de p1 = %d, esperado 10", got)
	}
	if got := stockOf(t, db, p2.ID); got != 1 {
		t.Errorf("stock de p2 = %d, esperado 1", got)
	}
	if n := countMovements(t, db, p1.ID) + countMovements(t, db, p2.ID); n != 0 {
		t.Errorf("movimientos = %d, esperado 0", n)
	}
	var sales int64
	db.Model(&models.Sale{}).Count(&sales)
	if sales != 0 {
		t.Errorf("ventas persistidas = %d, esperado 0", sales)
	}
}

// Dos partidas del mismo producto se validan contra el stock acumulado.
func TestRecordSaleRepeatedProduct(t *testing.T) {
	db, cajeroID := setupTestDB(t)
	led := New(db)
	ctx := context.Background()

	p := createProduct(t, db, "Anticongelante", 5)

	_, err := led.RecordSale(ctx, SaleInput{
		Items: []SaleLine{
			{ProductID: p.ID, Cantidad: 3, UnitPrice: decimal.NewFromInt(120)},
			{ProductID: p.ID, Cantidad: 3, UnitPrice: decimal.NewFromInt(120)},
		},
		MetodoPago:  models.PaymentCash,
		CreatedByID: cajeroID,
	})
	var ins *InsufficientStockError
	if !errors.As(err, &ins) {
		t.Fatalf("esperaba InsufficientStockError, obtuve %v", err)
	}
	if got := stockOf(t, db, p.ID); got != 5 {
		t.Errorf("stock = %d, esperado 5 (sin cambios)", got)
	}
}

func TestRecordSaleUnknownProduct(t *testing.T) {
	db, cajeroID := setupTestDB(t)
	led := New(db)

	_, err := led.RecordSale(context.Background(), SaleInput{
		Items:       []SaleLine{{ProductID: 4242, Cantidad: 1, UnitPrice: decimal.NewFromInt(10)}},
		MetodoPago:  models.PaymentCash,
		CreatedByID: cajeroID,
	})
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("esperaba NotFoundError, obtuve %v", err)
	}
}

// Carrera clásica de lost update: dos salidas de 3 contra stock 5 deben
// terminar en exactamente un éxito, un rechazo y stock final 2.
func TestConcurrentOutflows(t *testing.T) {
	db, _ := setupTestDB(t)
	led := New(db)
	ctx := context.Background()

	p := createProduct(t, db, "Aceite 5W30", 5)

	var wg sync.WaitGroup
	results := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _, results[i] = led.RecordMovement(ctx, p.ID, models.MovementOutflow, 3, "venta mostrador")
		}(i)
	}
	wg.Wait()

	exitos, rechazos := 0, 0
	for _, err := range results {
		var ins *InsufficientStockError
		switch {
		case err == nil:
			exitos++
		case errors.As(err, &ins):
			rechazos++
		default:
			t.Fatalf("error inesperado: %v", err)
		}
	}
	if exitos != 1 || rechazos != 1 {
		t.Fatalf("exitos=%d rechazos=%d, esperado 1 y 1", exitos, rechazos)
	}
	if got := stockOf(t, db, p.ID); got != 2 {
		t.Errorf("stock final = %d, esperado 2", got)
	}
	if n := countMovements(t, db, p.ID); n != 1 {
		t.Errorf("movimientos = %d, esperado 1", n)
	}
}
