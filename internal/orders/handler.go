package orders

import (
	"taller-backend/internal/database"
	"taller-backend/internal/models"
	"taller-backend/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type ActivityRequest struct {
	Descripcion string `json:"descripcion" validate:"required"`
	MechanicID  *uint  `json:"mechanicId"`
	Minutos     int    `json:"minutos" validate:"gte=0"`
}

type CreateOrderRequest struct {
	BudgetID            *uint             `json:"budgetId"`
	Descripcion         string            `json:"descripcion"`
	Actividades         []ActivityRequest `json:"actividades" validate:"dive"`
	AssignedMechanicIDs []uint            `json:"assignedMechanicIds"`
	Notas               string            `json:"notas"`
}

type UpdateOrderRequest struct {
	Descripcion *string           `json:"descripcion"`
	Actividades []ActivityRequest `json:"actividades" validate:"dive"`
	Notas       *string           `json:"notas"`
	Subtotal    *decimal.Decimal  `json:"subtotal"`
	Impuesto    *decimal.Decimal  `json:"impuesto"`
	Total       *decimal.Decimal  `json:"total"`
}

type UpdateOrderStatusRequest struct {
	Estatus models.OrderStatus `json:"estatus" validate:"required"`
}

type AssignMechanicsRequest struct {
	MechanicIDs []uint `json:"mechanicIds"`
}

func buildActivities(reqs []ActivityRequest) []models.OrderActivity {
	acts := make([]models.OrderActivity, 0, len(reqs))
	for _, a := range reqs {
		acts = append(acts, models.OrderActivity{
			Descripcion: a.Descripcion,
			MechanicID:  a.MechanicID,
			Minutos:     a.Minutos,
		})
	}
	return acts
}

// Resuelve los usuarios asignables; todos deben existir.
func resolveMechanics(ids []uint) ([]models.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var users []models.User
	if err := database.DB.Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "No se pudieron obtener los mecánicos")
	}
	if len(users) != len(ids) {
		return nil, fiber.NewError(fiber.StatusNotFound, "Alguno de los mecánicos no existe")
	}
	return users, nil
}

// POST /api/service-orders (Admin, Mecánico, Cajero)
func CreateOrderHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateOrderRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Cuerpo de la petición inválido")
		}
		if err := validation.Struct(body); err != nil {
			return err
		}

		if body.BudgetID != nil {
			var budget models.Budget
			if err := database.DB.First(&budget, "id = ?", *body.BudgetID).Error; err != nil {
				return fiber.NewError(fiber.StatusNotFound, "Presupuesto no encontrado")
			}
		}

		mechanics, err := resolveMechanics(body.AssignedMechanicIDs)
		if err != nil {
			return err
		}

		order := models.ServiceOrder{
			BudgetID:    body.BudgetID,
			Descripcion: body.Descripcion,
			Notas:       body.Notas,
			Estatus:     models.OrderPending,
			Activities:  buildActivities(body.Actividades),
			Mechanics:   mechanics,
		}
		if err := database.DB.Create(&order).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudo crear la orden")
		}
		return c.Status(fiber.StatusCreated).JSON(order)
	}
}

// GET /api/service-orders
func ListOrdersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		q := database.DB.Preload("Budget").Preload("Activities").Preload("Mechanics").
			Order("id DESC")
		if estatus := c.Query("estatus"); estatus != "" {
			q = q.Where("estatus = ?", estatus)
		}

		var orders []models.ServiceOrder
		if err := q.Find(&orders).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudieron obtener las órdenes")
		}
		return c.JSON(orders)
	}
}

// GET /api/service-orders/:id
func GetOrderHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var order models.ServiceOrder
		if err := database.DB.Preload("Budget").Preload("Activities").Preload("Mechanics").
			First(&order, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Orden no encontrada")
		}
		return c.JSON(order)
	}
}

// PUT /api/service-orders/:id (Admin, Mecánico)
func UpdateOrderHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var order models.ServiceOrder
		if err := database.DB.First(&order, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Orden no encontrada")
		}

		var body UpdateOrderRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Cuerpo de la petición inválido")
		}
		if err := validation.Struct(body); err != nil {
			return err
		}

		if body.Descripcion != nil {
			order.Descripcion = *body.Descripcion
		}
		if body.Notas != nil {
			order.Notas = *body.Notas
		}
		if body.Subtotal != nil {
			order.Subtotal = *body.Subtotal
		}
		if body.Impuesto != nil {
			order.Impuesto = *body.Impuesto
		}
		if body.Total != nil {
			order.Total = *body.Total
		}

		tx := database.DB.Begin()
		if tx.Error != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudo iniciar la transacción")
		}
		if body.Actividades != nil {
			if err := tx.Where("service_order_id = ?", order.ID).Delete(&models.OrderActivity{}).Error; err != nil {
				tx.Rollback()
				return fiber.NewError(fiber.StatusInternalServerError, "No se pudieron reemplazar las actividades")
			}
			order.Activities = buildActivities(body.Actividades)
		}
		if err := tx.Save(&order).Error; err != nil {
			tx.Rollback()
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudo actualizar la orden")
		}
		if err := tx.Commit().Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudo completar la operación")
		}

		return c.JSON(order)
	}
}

// PUT /api/service-orders/:id/status (Admin, Mecánico)
func UpdateOrderStatusHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body UpdateOrderStatusRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Cuerpo de la petición inválido")
		}
		switch body.Estatus {
		case models.OrderPending, models.OrderInProgress, models.OrderCompleted:
		default:
			return fiber.NewError(fiber.StatusBadRequest, "Estatus inválido (pendiente|en_proceso|completada)")
		}

		var order models.ServiceOrder
		if err := database.DB.First(&order, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Orden no encontrada")
		}

		order.Estatus = body.Estatus
		if err := database.DB.Save(&order).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudo actualizar la orden")
		}
		return c.JSON(order)
	}
}

// POST /api/service-orders/:id/assign (solo admin)
func AssignMechanicsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body AssignMechanicsRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Cuerpo de la petición inválido")
		}

		var order models.ServiceOrder
		if err := database.DB.First(&order, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Orden no encontrada")
		}

		mechanics, err := resolveMechanics(body.MechanicIDs)
		if err != nil {
			return err
		}

		if err := database.DB.Model(&order).Association("Mechanics").Replace(mechanics); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudieron asignar los mecánicos")
		}
		return c.JSON(fiber.Map{"message": "Mecánicos asignados"})
	}
}

// DELETE /api/service-orders/:id (solo admin)
func DeleteOrderHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var order models.ServiceOrder
		if err := database.DB.First(&order, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Orden no encontrada")
		}
		if err := database.DB.Select("Activities").Delete(&order).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudo eliminar la orden")
		}
		return c.JSON(fiber.Map{"message": "Orden eliminada"})
	}
}
