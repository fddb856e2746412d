package models

import "time"

// Staff: información del personal del taller (independiente de los
// usuarios con acceso al sistema).
type Staff struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Nombre       string    `gorm:"size:100;not null" json:"nombre"`
	Especialidad string    `gorm:"size:100" json:"especialidad"`
	Horario      string    `gorm:"size:100" json:"horario"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
