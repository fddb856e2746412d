package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentMethod string

const (
	PaymentCash     PaymentMethod = "efectivo"
	PaymentCard     PaymentMethod = "tarjeta"
	PaymentTransfer PaymentMethod = "transferencia"
)

// Sale: nota de venta del punto de venta. Se crea únicamente a través
// del ledger, junto con el descuento de stock y un movimiento de salida
// por cada partida, todo en una sola transacción.
type Sale struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Folio       string    `gorm:"size:36;uniqueIndex;not null" json:"folio"`
	Fecha       time.Time `gorm:"index;not null" json:"fecha"`
	ClientID    *uint     `json:"clientId"`
	Client      *Client   `json:"cliente,omitempty"`
	VehicleID   *uint     `json:"vehicleId"`
	Vehicle     *Vehicle  `json:"vehiculo,omitempty"`
	CreatedByID uint      `gorm:"index;not null" json:"createdById"`
	CreatedBy   User      `json:"-"`
	Items       []SaleItem      `gorm:"constraint:OnDelete:CASCADE" json:"items"`
	Subtotal    decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"subtotal"`
	Impuesto    decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"impuesto"`
	Descuento   decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"descuento"`
	Total       decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"total"`
	MetodoPago  PaymentMethod   `gorm:"size:20;not null;default:efectivo" json:"metodoPago"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// SaleItem: partida con precio y descripción congelados al momento de
// la venta. ProductID no lleva foreign key a propósito: el historial
// debe sobrevivir aunque el producto se renombre o se elimine.
type SaleItem struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	SaleID      uint            `gorm:"index;not null" json:"saleId"`
	ProductID   uint            `gorm:"index;not null" json:"productId"`
	Descripcion string          `gorm:"size:255" json:"descripcion"`
	Cantidad    int             `gorm:"not null" json:"cantidad"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"unitPrice"`
}
