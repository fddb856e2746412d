package clients

import (
	"fmt"

	"taller-backend/internal/audit"
	"taller-backend/internal/auth"
	"taller-backend/internal/config"
	"taller-backend/internal/database"
	"taller-backend/internal/models"
	"taller-backend/internal/validation"

	"github.com/gofiber/fiber/v2"
)

type CreateClientRequest struct {
	Nombre    string `json:"nombre" validate:"required"`
	Telefono  string `json:"telefono"`
	Correo    string `json:"correo" validate:"omitempty,email"`
	Direccion string `json:"direccion"`
}

type UpdateClientRequest struct {
	Nombre    *string `json:"nombre"`
	Telefono  *string `json:"telefono"`
	Correo    *string `json:"correo"`
	Direccion *string `json:"direccion"`
}

// POST /api/clients (Admin, Cajero)
func CreateClientHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateClientRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Cuerpo de la petición inválido")
		}
		if err := validation.Struct(body); err != nil {
			return err
		}

		client := models.Client{
			Nombre:    body.Nombre,
			Telefono:  body.Telefono,
			Correo:    body.Correo,
			Direccion: body.Direccion,
		}
		if err := database.DB.Create(&client).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudo crear el cliente")
		}
		return c.Status(fiber.StatusCreated).JSON(client)
	}
}

// GET /api/clients
func ListClientsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var clients []models.Client
		if err := database.DB.Preload("Vehicles").Order("nombre").Find(&clients).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudieron obtener los clientes")
		}
		return c.JSON(clients)
	}
}

// GET /api/clients/:id
func GetClientHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var client models.Client
		if err := database.DB.Preload("Vehicles").First(&client, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Cliente no encontrado")
		}
		return c.JSON(client)
	}
}

// PUT /api/clients/:id (Admin, Cajero)
func UpdateClientHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var client models.Client
		if err := database.DB.First(&client, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Cliente no encontrado")
		}

		var body UpdateClientRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Cuerpo de la petición inválido")
		}

		if body.Nombre != nil {
			if *body.Nombre == "" {
				return fiber.NewError(fiber.StatusBadRequest, "El nombre no puede quedar vacío")
			}
			client.Nombre = *body.Nombre
		}
		if body.Telefono != nil {
			client.Telefono = *body.Telefono
		}
		if body.Correo != nil {
			client.Correo = *body.Correo
		}
		if body.Direccion != nil {
			client.Direccion = *body.Direccion
		}

		if err := database.DB.Save(&client).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudo actualizar el cliente")
		}
		return c.JSON(client)
	}
}

// DELETE /api/clients/:id (solo admin). Los vehículos se van en cascada.
func DeleteClientHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var client models.Client
		if err := database.DB.First(&client, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Cliente no encontrado")
		}

		if err := database.DB.Select("Vehicles").Delete(&client).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudo eliminar el cliente")
		}

		if userID, ok := c.Locals(auth.CtxUserIDKey).(uint); ok {
			var user models.User
			if err := database.DB.First(&user, "id = ?", userID).Error; err == nil {
				if err := audit.WriteLog(audit.LogOptions{
					UserID:      userID,
					UserName:    user.Nombre,
					EntityType:  "client",
					EntityID:    client.ID,
					Action:      models.AuditActionDelete,
					Description: fmt.Sprintf("Cliente eliminado: %s", client.Nombre),
					Data:        client,
				}); err != nil {
					config.LogError(config.GetLogger(), "clients", "DeleteClientHandler", client.ID, err)
				}
			}
		}

		return c.JSON(fiber.Map{"message": "Cliente eliminado"})
	}
}
