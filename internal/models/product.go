package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product: refacción/artículo vendible del taller.
// Cantidad nunca se modifica directamente: solo a través del ledger
// de inventario (movimientos y ventas).
type Product struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	Nombre        string          `gorm:"size:150;not null" json:"nombreProducto"`
	Descripcion   string          `gorm:"type:text" json:"descripcion"`
	Cantidad      int             `gorm:"not null;default:0" json:"cantidad"` // existencias, nunca negativa
	PrecioCosto   decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"precioCosto"`
	PrecioVenta   decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"precioVenta"`
	SKU           string          `gorm:"size:50;index" json:"sku"`
	// Sin default en la columna: un 0 explícito ("nunca alertar") debe
	// persistirse tal cual. El valor inicial de 5 lo ponen los handlers.
	MinStockAlert int             `gorm:"not null" json:"minStockAlert"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}
