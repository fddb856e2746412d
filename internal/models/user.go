package models

import "time"

type UserRole string

const (
	RoleAdmin    UserRole = "Administrador"
	RoleMechanic UserRole = "Mecánico"
	RoleCashier  UserRole = "Cajero"
)

type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Nombre       string    `gorm:"size:100;not null" json:"nombre"`
	Email        string    `gorm:"size:100;uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	Rol          UserRole  `gorm:"size:20;not null" json:"rol"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
