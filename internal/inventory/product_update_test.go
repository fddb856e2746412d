package inventory

import (
	"context"
	"os"
	"testing"

	"taller-backend/internal/ledger"
	"taller-backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := os.Getenv("TALLER_TEST_DSN")
	if dsn == "" {
		t.Skip("define TALLER_TEST_DSN para correr las pruebas de inventario contra Postgres")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("no se pudo conectar a la base de prueba: %v", err)
	}

	if err := db.AutoMigrate(&models.Product{}, &models.InventoryMovement{}); err != nil {
		t.Fatalf("AutoMigrate: %v", err)
	}
	if err := db.Exec("TRUNCATE inventory_movements, products RESTART IDENTITY CASCADE").Error; err != nil {
		t.Fatalf("no se pudieron limpiar las tablas: %v", err)
	}

	return db
}

// Editar un producto no puede escribir existencias: si entre la lectura
// del handler y su escritura el ledger confirma una venta, el stock
// nuevo debe sobrevivir al guardado de la edición.
func TestSaveProductEditsNoPisaStock(t *testing.T) {
	db := setupTestDB(t)
	led := ledger.New(db)

	product := models.Product{Nombre: "Bujía NGK", Cantidad: 10, MinStockAlert: 5}
	if err := db.Create(&product).Error; err != nil {
		t.Fatalf("no se pudo crear el producto: %v", err)
	}

	// Lectura del handler, con stock 10 en memoria
	var edited models.Product
	if err := db.First(&edited, "id = ?", product.ID).Error; err != nil {
		t.Fatalf("First: %v", err)
	}

	// Venta confirmada por el ledger entre la lectura y el guardado
	if _, _, err := led.RecordMovement(context.Background(), product.ID, models.MovementOutflow, 3, "venta concurrente"); err != nil {
		t.Fatalf("RecordMovement: %v", err)
	}

	edited.Nombre = "Bujía NGK Iridium"
	if err := saveProductEdits(db, &edited); err != nil {
		t.Fatalf("saveProductEdits: %v", err)
	}

	var after models.Product
	if err := db.First(&after, "id = ?", product.ID).Error; err != nil {
		t.Fatalf("relectura: %v", err)
	}
	if after.Cantidad != 7 {
		t.Errorf("cantidad = %d tras la edición, esperaba 7 (la venta no debe pisarse)", after.Cantidad)
	}
	if after.Nombre != "Bujía NGK Iridium" {
		t.Errorf("nombre = %q, la edición sí debe persistirse", after.Nombre)
	}
}

// Un minStockAlert de 0 ("nunca alertar") debe guardarse tal cual y no
// ser reemplazado por ningún default.
func TestMinStockAlertCeroSePersiste(t *testing.T) {
	db := setupTestDB(t)

	product := models.Product{Nombre: "Aceite a granel", Cantidad: 50, MinStockAlert: 0}
	if err := db.Create(&product).Error; err != nil {
		t.Fatalf("no se pudo crear el producto: %v", err)
	}

	var after models.Product
	if err := db.First(&after, "id = ?", product.ID).Error; err != nil {
		t.Fatalf("relectura: %v", err)
	}
	if after.MinStockAlert != 0 {
		t.Errorf("minStockAlert = %d, esperaba 0", after.MinStockAlert)
	}
}
