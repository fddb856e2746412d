package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderPending    OrderStatus = "pendiente"
	OrderInProgress OrderStatus = "en_proceso"
	OrderCompleted  OrderStatus = "completada"
)

// ServiceOrder: trabajo mecánico en curso. El consumo de refacciones
// durante el servicio se documenta en las actividades, no en el inventario.
type ServiceOrder struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	BudgetID    *uint           `json:"budgetId"`
	Budget      *Budget         `json:"presupuesto,omitempty"`
	Descripcion string          `gorm:"type:text" json:"descripcion"`
	Notas       string          `gorm:"type:text" json:"notas"`
	Estatus     OrderStatus     `gorm:"size:20;not null;default:pendiente" json:"estatus"`
	Activities  []OrderActivity `gorm:"constraint:OnDelete:CASCADE" json:"actividades"`
	Mechanics   []User          `gorm:"many2many:service_order_mechanics" json:"mecanicos,omitempty"`
	Subtotal    decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"subtotal"`
	Impuesto    decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"impuesto"`
	Total       decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"total"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

type OrderActivity struct {
	ID             uint   `gorm:"primaryKey" json:"id"`
	ServiceOrderID uint   `gorm:"index;not null" json:"serviceOrderId"`
	Descripcion    string `gorm:"size:255" json:"descripcion"`
	MechanicID     *uint  `json:"mechanicId"`
	Minutos        int    `json:"minutos"`
}
