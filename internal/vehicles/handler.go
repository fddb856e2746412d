package vehicles

import (
	"taller-backend/internal/database"
	"taller-backend/internal/models"
	"taller-backend/internal/validation"

	"github.com/gofiber/fiber/v2"
)

type CreateVehicleRequest struct {
	ClientID uint   `json:"clientId" validate:"required"`
	Placas   string `json:"placas"`
	Marca    string `json:"marca"`
	Modelo   string `json:"modelo"`
	Anio     int    `json:"anio"`
	VIN      string `json:"vin"`
}

type UpdateVehicleRequest struct {
	Placas *string `json:"placas"`
	Marca  *string `json:"marca"`
	Modelo *string `json:"modelo"`
	Anio   *int    `json:"anio"`
	VIN    *string `json:"vin"`
}

// POST /api/vehicles (Admin, Cajero)
func CreateVehicleHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateVehicleRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Cuerpo de la petición inválido")
		}
		if err := validation.Struct(body); err != nil {
			return err
		}

		var client models.Client
		if err := database.DB.First(&client, "id = ?", body.ClientID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Cliente no encontrado")
		}

		vehicle := models.Vehicle{
			ClientID: body.ClientID,
			Placas:   body.Placas,
			Marca:    body.Marca,
			Modelo:   body.Modelo,
			Anio:     body.Anio,
			VIN:      body.VIN,
		}
		if err := database.DB.Create(&vehicle).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudo crear el vehículo")
		}
		return c.Status(fiber.StatusCreated).JSON(vehicle)
	}
}

// GET /api/vehicles
func ListVehiclesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var vehicles []models.Vehicle
		if err := database.DB.Preload("Client").Order("id").Find(&vehicles).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudieron obtener los vehículos")
		}
		return c.JSON(vehicles)
	}
}

// GET /api/vehicles/:id
func GetVehicleHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var vehicle models.Vehicle
		if err := database.DB.Preload("Client").First(&vehicle, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Vehículo no encontrado")
		}
		return c.JSON(vehicle)
	}
}

// PUT /api/vehicles/:id (Admin, Cajero)
func UpdateVehicleHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var vehicle models.Vehicle
		if err := database.DB.First(&vehicle, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Vehículo no encontrado")
		}

		var body UpdateVehicleRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Cuerpo de la petición inválido")
		}

		if body.Placas != nil {
			vehicle.Placas = *body.Placas
		}
		if body.Marca != nil {
			vehicle.Marca = *body.Marca
		}
		if body.Modelo != nil {
			vehicle.Modelo = *body.Modelo
		}
		if body.Anio != nil {
			vehicle.Anio = *body.Anio
		}
		if body.VIN != nil {
			vehicle.VIN = *body.VIN
		}

		if err := database.DB.Save(&vehicle).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudo actualizar el vehículo")
		}
		return c.JSON(vehicle)
	}
}

// DELETE /api/vehicles/:id (solo admin)
func DeleteVehicleHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var vehicle models.Vehicle
		if err := database.DB.First(&vehicle, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Vehículo no encontrado")
		}
		if err := database.DB.Delete(&vehicle).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudo eliminar el vehículo")
		}
		return c.JSON(fiber.Map{"message": "Vehículo eliminado"})
	}
}
