package models

import "time"

type MovementKind string

const (
	MovementInflow     MovementKind = "ingreso"
	MovementOutflow    MovementKind = "salida"
	MovementAdjustment MovementKind = "ajuste" // suma igual que ingreso
)

// InventoryMovement: registro inmutable de un cambio de existencias.
// Nunca se actualiza ni se borra en operación normal; solo se agregan filas.
type InventoryMovement struct {
	ID        uint         `gorm:"primaryKey" json:"id"`
	ProductID uint         `gorm:"index;not null" json:"productId"`
	Product   Product      `gorm:"constraint:OnDelete:CASCADE" json:"producto,omitempty"`
	Tipo      MovementKind `gorm:"size:20;not null" json:"tipo"`
	Cantidad  int          `gorm:"not null" json:"cantidad"` // magnitud, siempre positiva
	Motivo    string       `gorm:"size:255" json:"motivo"`   // ej. "Venta #42"
	CreatedAt time.Time    `gorm:"index" json:"createdAt"`
}
