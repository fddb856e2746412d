package models

import "time"

type Client struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	Nombre    string `gorm:"size:100;not null" json:"nombre"`
	Telefono  string `gorm:"size:30" json:"telefono"`
	Correo    string `gorm:"size:100" json:"correo"`
	Direccion string `gorm:"size:255" json:"direccion"`
	// Los vehículos se eliminan junto con el cliente
	Vehicles  []Vehicle `gorm:"constraint:OnDelete:CASCADE" json:"vehiculos,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
