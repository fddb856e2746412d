package audit

import (
	"encoding/json"
	"fmt"

	"taller-backend/internal/database"
	"taller-backend/internal/models"
)

type LogOptions struct {
	UserID      uint
	UserName    string
	EntityType  string
	EntityID    uint
	Action      models.AuditAction
	Description string
	Data        any
}

// WriteLog deja una entrada en la bitácora. Es append-only: aquí no hay
// actualización ni borrado de entradas.
func WriteLog(opts LogOptions) error {
	// jsonb no acepta cadena vacía, usa "null"
	dataStr := "null"
	if opts.Data != nil {
		if b, err := json.Marshal(opts.Data); err == nil {
			dataStr = string(b)
		}
	}

	entry := models.AuditLog{
		UserID:      opts.UserID,
		UserName:    opts.UserName,
		EntityType:  opts.EntityType,
		EntityID:    opts.EntityID,
		Action:      opts.Action,
		Description: opts.Description,
		Data:        dataStr,
	}

	if err := database.DB.Create(&entry).Error; err != nil {
		return fmt.Errorf("no se pudo guardar la bitácora: %w", err)
	}
	return nil
}
