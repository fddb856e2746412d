package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type BudgetStatus string

const (
	BudgetPending  BudgetStatus = "pendiente"
	BudgetApproved BudgetStatus = "aprobado"
	BudgetRejected BudgetStatus = "rechazado"
)

type BudgetItemType string

const (
	BudgetItemLabor BudgetItemType = "mano_obra"
	BudgetItemPart  BudgetItemType = "pieza"
)

// Budget: presupuesto de refacciones y mano de obra.
// Aprobarlo genera una orden de servicio; no toca el inventario.
type Budget struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	ClientID    *uint           `json:"clientId"`
	Client      *Client         `json:"cliente,omitempty"`
	VehicleID   *uint           `json:"vehicleId"`
	Vehicle     *Vehicle        `json:"vehiculo,omitempty"`
	Descripcion string          `gorm:"type:text" json:"descripcion"`
	Items       []BudgetItem    `gorm:"constraint:OnDelete:CASCADE" json:"items"`
	Subtotal    decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"subtotal"`
	Impuesto    decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"impuesto"`
	Descuento   decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"descuento"`
	Total       decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"total"`
	Estatus     BudgetStatus    `gorm:"size:20;not null;default:pendiente" json:"estatus"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

type BudgetItem struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	BudgetID    uint            `gorm:"index;not null" json:"budgetId"`
	Tipo        BudgetItemType  `gorm:"size:20;not null" json:"tipo"`
	Descripcion string          `gorm:"size:255" json:"descripcion"`
	Cantidad    int             `gorm:"not null" json:"cantidad"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"unitPrice"`
}
