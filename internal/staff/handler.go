package staff

import (
	"taller-backend/internal/database"
	"taller-backend/internal/models"
	"taller-backend/internal/validation"

	"github.com/gofiber/fiber/v2"
)

type CreateStaffRequest struct {
	Nombre       string `json:"nombre" validate:"required"`
	Especialidad string `json:"especialidad"`
	Horario      string `json:"horario"`
}

type UpdateStaffRequest struct {
	Nombre       *string `json:"nombre"`
	Especialidad *string `json:"especialidad"`
	Horario      *string `json:"horario"`
}

// POST /api/staff (solo admin)
func CreateStaffHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateStaffRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Cuerpo de la petición inválido")
		}
		if err := validation.Struct(body); err != nil {
			return err
		}

		member := models.Staff{
			Nombre:       body.Nombre,
			Especialidad: body.Especialidad,
			Horario:      body.Horario,
		}
		if err := database.DB.Create(&member).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudo registrar al personal")
		}
		return c.Status(fiber.StatusCreated).JSON(member)
	}
}

// GET /api/staff
func ListStaffHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var members []models.Staff
		if err := database.DB.Order("nombre ASC").Find(&members).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudo obtener el personal")
		}
		return c.JSON(members)
	}
}

// GET /api/staff/:id
func GetStaffHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var member models.Staff
		if err := database.DB.First(&member, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Personal no encontrado")
		}
		return c.JSON(member)
	}
}

// PUT /api/staff/:id (solo admin)
func UpdateStaffHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var member models.Staff
		if err := database.DB.First(&member, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Personal no encontrado")
		}

		var body UpdateStaffRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Cuerpo de la petición inválido")
		}

		if body.Nombre != nil {
			member.Nombre = *body.Nombre
		}
		if body.Especialidad != nil {
			member.Especialidad = *body.Especialidad
		}
		if body.Horario != nil {
			member.Horario = *body.Horario
		}

		if err := database.DB.Save(&member).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudo actualizar al personal")
		}
		return c.JSON(member)
	}
}

// DELETE /api/staff/:id (solo admin)
func DeleteStaffHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var member models.Staff
		if err := database.DB.First(&member, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Personal no encontrado")
		}
		if err := database.DB.Delete(&member).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudo eliminar al personal")
		}
		return c.JSON(fiber.Map{"message": "Personal eliminado"})
	}
}
