package models

import "time"

type Vehicle struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ClientID  uint      `gorm:"index;not null" json:"clientId"`
	Client    *Client   `json:"cliente,omitempty"`
	Placas    string    `gorm:"size:20" json:"placas"`
	Marca     string    `gorm:"size:50" json:"marca"`
	Modelo    string    `gorm:"size:50" json:"modelo"`
	Anio      int       `json:"anio"`
	VIN       string    `gorm:"size:30" json:"vin"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
