// Package ledger es la única autoridad sobre Product.Cantidad.
//
// Todo cambio de existencias (movimiento manual o venta) pasa por aquí:
// una transacción corta con bloqueo exclusivo de las filas de producto,
// que valida antes de mutar y confirma producto + movimientos + venta
// como una sola unidad atómica. Nadie más escribe la cantidad.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"taller-backend/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Ledger struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Ledger {
	return &Ledger{db: db}
}

// RecordMovement registra un movimiento manual de inventario.
// ingreso y ajuste suman; salida resta y falla con InsufficientStockError
// si dejaría las existencias en negativo. El producto y el movimiento se
// confirman juntos o ninguno.
func (l *Ledger) RecordMovement(ctx context.Context, productID uint, tipo models.MovementKind, cantidad int, motivo string) (*models.InventoryMovement, *models.Product, error) {
	switch tipo {
	case models.MovementInflow, models.MovementOutflow, models.MovementAdjustment:
	default:
		return nil, nil, &ValidationError{Msg: "tipo de movimiento inválido (ingreso|salida|ajuste)"}
	}
	if productID == 0 {
		return nil, nil, &ValidationError{Msg: "productId es obligatorio"}
	}
	if cantidad <= 0 {
		return nil, nil, &ValidationError{Msg: "la cantidad debe ser mayor a 0"}
	}

	var movement models.InventoryMovement
	var product models.Product

	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&product, "id = ?", productID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{ProductID: productID}
			}
			return err
		}

		nuevo := product.Cantidad
		switch tipo {
		case models.MovementOutflow:
			nuevo -= cantidad
			if nuevo < 0 {
				return &InsufficientStockError{
					ProductID:  product.ID,
					Nombre:     product.Nombre,
					Solicitado: cantidad,
					Disponible: product.Cantidad,
				}
			}
		default:
			// ingreso y ajuste: ambos incrementan
			nuevo += cantidad
		}

		if err := tx.Model(&product).Update("cantidad", nuevo).Error; err != nil {
			return err
		}
		product.Cantidad = nuevo

		movement = models.InventoryMovement{
			ProductID: product.ID,
			Tipo:      tipo,
			Cantidad:  cantidad,
			Motivo:    motivo,
		}
		return tx.Omit("Product").Create(&movement).Error
	})
	if err != nil {
		return nil, nil, err
	}
	return &movement, &product, nil
}

type SaleLine struct {
	ProductID uint
	Cantidad  int
	UnitPrice decimal.Decimal
}

type SaleInput struct {
	ClientID    *uint
	VehicleID   *uint
	Items       []SaleLine
	Descuento   decimal.Decimal
	MetodoPago  models.PaymentMethod
	CreatedByID uint
}

// RecordSale registra una nota de venta: valida el stock de todas las
// partidas con las filas de producto bloqueadas, y solo entonces crea la
// venta, descuenta existencias y deja un movimiento de salida por partida
// con motivo "Venta #<id>". Si cualquier partida falla no se persiste nada.
func (l *Ledger) RecordSale(ctx context.Context, in SaleInput) (*models.Sale, error) {
	if len(in.Items) == 0 {
		return nil, &ValidationError{Msg: "carrito vacío"}
	}
	for _, it := range in.Items {
		if it.ProductID == 0 {
			return nil, &ValidationError{Msg: "toda partida necesita productId"}
		}
		if it.Cantidad <= 0 {
			return nil, &ValidationError{Msg: "la cantidad de cada partida debe ser mayor a 0"}
		}
		if it.UnitPrice.IsNegative() {
			return nil, &ValidationError{Msg: "el precio unitario no puede ser negativo"}
		}
	}
	switch in.MetodoPago {
	case models.PaymentCash, models.PaymentCard, models.PaymentTransfer:
	default:
		return nil, &ValidationError{Msg: "método de pago inválido (efectivo|tarjeta|transferencia)"}
	}

	ids := make([]uint, 0, len(in.Items))
	for _, it := range in.Items {
		ids = append(ids, it.ProductID)
	}

	var sale models.Sale

	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Bloquea todas las filas de producto de la venta de una vez
		var products []models.Product
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id IN ?", ids).Find(&products).Error; err != nil {
			return err
		}
		byID := make(map[uint]*models.Product, len(products))
		for i := range products {
			byID[products[i].ID] = &products[i]
		}

		// Fase de validación: ninguna partida muta nada hasta que todas pasen.
		// El descuento en memoria maneja varias partidas del mismo producto.
		subtotal := decimal.Zero
		for _, it := range in.Items {
			p, ok := byID[it.ProductID]
			if !ok {
				return &NotFoundError{ProductID: it.ProductID}
			}
			if it.Cantidad > p.Cantidad {
				return &InsufficientStockError{
					ProductID:  p.ID,
					Nombre:     p.Nombre,
					Solicitado: it.Cantidad,
					Disponible: p.Cantidad,
				}
			}
			p.Cantidad -= it.Cantidad
			subtotal = subtotal.Add(LineSubtotal(it.Cantidad, it.UnitPrice))
		}

		totals, err := ComputeTotals(subtotal, in.Descuento)
		if err != nil {
			return err
		}

		sale = models.Sale{
			Folio:       uuid.NewString(),
			Fecha:       time.Now(),
			ClientID:    in.ClientID,
			VehicleID:   in.VehicleID,
			CreatedByID: in.CreatedByID,
			Subtotal:    totals.Subtotal,
			Impuesto:    totals.Impuesto,
			Descuento:   totals.Descuento,
			Total:       totals.Total,
			MetodoPago:  in.MetodoPago,
		}
		for _, it := range in.Items {
			p := byID[it.ProductID]
			sale.Items = append(sale.Items, models.SaleItem{
				ProductID:   p.ID,
				Descripcion: p.Nombre, // snapshot para el historial
				Cantidad:    it.Cantidad,
				UnitPrice:   it.UnitPrice,
			})
		}
		if err := tx.Omit("Client", "Vehicle", "CreatedBy").Create(&sale).Error; err != nil {
			return err
		}

		// Fase de commit: descuenta existencias y deja la traza
		motivo := fmt.Sprintf("Venta #%d", sale.ID)
		for _, it := range in.Items {
			p := byID[it.ProductID]
			if err := tx.Model(&models.Product{}).Where("id = ?", p.ID).
				Update("cantidad", p.Cantidad).Error; err != nil {
				return err
			}
			mov := models.InventoryMovement{
				ProductID: p.ID,
				Tipo:      models.MovementOutflow,
				Cantidad:  it.Cantidad,
				Motivo:    motivo,
			}
			if err := tx.Omit("Product").Create(&mov).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &sale, nil
}
