package budgets

import (
	"errors"
	"fmt"

	"taller-backend/internal/database"
	"taller-backend/internal/ledger"
	"taller-backend/internal/models"
	"taller-backend/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type BudgetItemRequest struct {
	Tipo        models.BudgetItemType `json:"tipo" validate:"required"`
	Descripcion string                `json:"descripcion" validate:"required"`
	Cantidad    int                   `json:"cantidad" validate:"required,gt=0"`
	UnitPrice   decimal.Decimal       `json:"unitPrice"`
}

type CreateBudgetRequest struct {
	ClientID    *uint               `json:"clientId"`
	VehicleID   *uint               `json:"vehicleId"`
	Descripcion string              `json:"descripcion"`
	Items       []BudgetItemRequest `json:"items" validate:"required,min=1,dive"`
	Descuento   decimal.Decimal     `json:"descuento"`
}

type UpdateBudgetRequest struct {
	Descripcion *string             `json:"descripcion"`
	Items       []BudgetItemRequest `json:"items"`
	Descuento   *decimal.Decimal    `json:"descuento"`
}

type UpdateBudgetStatusRequest struct {
	Estatus models.BudgetStatus `json:"estatus" validate:"required"`
}

// Valida las partidas y calcula los totales con la misma regla que las
// ventas (impuesto sobre la base descontada).
func buildItems(reqs []BudgetItemRequest, descuento decimal.Decimal) ([]models.BudgetItem, ledger.Totals, error) {
	items := make([]models.BudgetItem, 0, len(reqs))
	subtotal := decimal.Zero

	for _, it := range reqs {
		if it.Tipo != models.BudgetItemLabor && it.Tipo != models.BudgetItemPart {
			return nil, ledger.Totals{}, fiber.NewError(fiber.StatusBadRequest, "Tipo de partida inválido (mano_obra|pieza)")
		}
		if it.UnitPrice.IsNegative() {
			return nil, ledger.Totals{}, fiber.NewError(fiber.StatusBadRequest, "El precio unitario no puede ser negativo")
		}
		subtotal = subtotal.Add(ledger.LineSubtotal(it.Cantidad, it.UnitPrice))
		items = append(items, models.BudgetItem{
			Tipo:        it.Tipo,
			Descripcion: it.Descripcion,
			Cantidad:    it.Cantidad,
			UnitPrice:   it.UnitPrice,
		})
	}

	totals, err := ledger.ComputeTotals(subtotal, descuento)
	if err != nil {
		var verr *ledger.ValidationError
		if errors.As(err, &verr) {
			return nil, ledger.Totals{}, fiber.NewError(fiber.StatusBadRequest, verr.Msg)
		}
		return nil, ledger.Totals{}, fiber.NewError(fiber.StatusInternalServerError, "No se pudieron calcular los totales")
	}
	return items, totals, nil
}

// POST /api/budgets (Admin, Cajero)
func CreateBudgetHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateBudgetRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Cuerpo de la petición inválido")
		}
		if err := validation.Struct(body); err != nil {
			return err
		}

		if body.ClientID != nil {
			var client models.Client
			if err := database.DB.First(&client, "id = ?", *body.ClientID).Error; err != nil {
				return fiber.NewError(fiber.StatusNotFound, "Cliente no encontrado")
			}
		}
		if body.VehicleID != nil {
			var vehicle models.Vehicle
			if err := database.DB.First(&vehicle, "id = ?", *body.VehicleID).Error; err != nil {
				return fiber.NewError(fiber.StatusNotFound, "Vehículo no encontrado")
			}
		}

		items, totals, err := buildItems(body.Items, body.Descuento)
		if err != nil {
			return err
		}

		budget := models.Budget{
			ClientID:    body.ClientID,
			VehicleID:   body.VehicleID,
			Descripcion: body.Descripcion,
			Items:       items,
			Subtotal:    totals.Subtotal,
			Impuesto:    totals.Impuesto,
			Descuento:   totals.Descuento,
			Total:       totals.Total,
			Estatus:     models.BudgetPending,
		}
		if err := database.DB.Create(&budget).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudo crear el presupuesto")
		}
		return c.Status(fiber.StatusCreated).JSON(budget)
	}
}

// GET /api/budgets
func ListBudgetsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var budgets []models.Budget
		if err := database.DB.Preload("Client").Preload("Vehicle").Preload("Items").
			Order("id DESC").Find(&budgets).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudieron obtener los presupuestos")
		}
		return c.JSON(budgets)
	}
}

// GET /api/budgets/:id
func GetBudgetHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var budget models.Budget
		if err := database.DB.Preload("Client").Preload("Vehicle").Preload("Items").
			First(&budget, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Presupuesto no encontrado")
		}
		return c.JSON(budget)
	}
}

// PUT /api/budgets/:id (Admin, Cajero)
func UpdateBudgetHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var budget models.Budget
		if err := database.DB.First(&budget, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Presupuesto no encontrado")
		}
		if budget.Estatus != models.BudgetPending {
			return fiber.NewError(fiber.StatusBadRequest, "Solo se pueden editar presupuestos pendientes")
		}

		var body UpdateBudgetRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Cuerpo de la petición inválido")
		}

		if body.Descripcion != nil {
			budget.Descripcion = *body.Descripcion
		}

		if body.Items != nil {
			descuento := budget.Descuento
			if body.Descuento != nil {
				descuento = *body.Descuento
			}
			items, totals, err := buildItems(body.Items, descuento)
			if err != nil {
				return err
			}

			// Reemplaza partidas y totales de forma atómica
			tx := database.DB.Begin()
			if tx.Error != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "No se pudo iniciar la transacción")
			}
			if err := tx.Where("budget_id = ?", budget.ID).Delete(&models.BudgetItem{}).Error; err != nil {
				tx.Rollback()
				return fiber.NewError(fiber.StatusInternalServerError, "No se pudieron reemplazar las partidas")
			}
			budget.Items = items
			budget.Subtotal = totals.Subtotal
			budget.Impuesto = totals.Impuesto
			budget.Descuento = totals.Descuento
			budget.Total = totals.Total
			if err := tx.Save(&budget).Error; err != nil {
				tx.Rollback()
				return fiber.NewError(fiber.StatusInternalServerError, "No se pudo actualizar el presupuesto")
			}
			if err := tx.Commit().Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "No se pudo completar la operación")
			}
		} else if err := database.DB.Save(&budget).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudo actualizar el presupuesto")
		}

		return c.JSON(budget)
	}
}

// DELETE /api/budgets/:id (solo admin)
func DeleteBudgetHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var budget models.Budget
		if err := database.DB.First(&budget, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Presupuesto no encontrado")
		}
		if err := database.DB.Select("Items").Delete(&budget).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudo eliminar el presupuesto")
		}
		return c.JSON(fiber.Map{"message": "Presupuesto eliminado"})
	}
}

// PUT /api/budgets/:id/status (Admin, Cajero)
// Aprobar crea la orden de servicio con los totales del presupuesto.
// Importante: aprobar NO descuenta inventario; las refacciones se
// documentan en la orden y el stock solo se mueve al vender.
func UpdateBudgetStatusHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body UpdateBudgetStatusRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Cuerpo de la petición inválido")
		}
		if body.Estatus != models.BudgetApproved && body.Estatus != models.BudgetRejected {
			return fiber.NewError(fiber.StatusBadRequest, "Estatus inválido (aprobado|rechazado)")
		}

		var budget models.Budget
		if err := database.DB.First(&budget, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Presupuesto no encontrado")
		}
		if budget.Estatus != models.BudgetPending {
			return fiber.NewError(fiber.StatusBadRequest, "El presupuesto ya fue resuelto")
		}

		if body.Estatus == models.BudgetRejected {
			budget.Estatus = models.BudgetRejected
			if err := database.DB.Save(&budget).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "No se pudo actualizar el estatus")
			}
			return c.JSON(budget)
		}

		// Aprobación: estatus + orden derivada en una sola transacción
		var order models.ServiceOrder
		tx := database.DB.Begin()
		if tx.Error != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudo iniciar la transacción")
		}

		budget.Estatus = models.BudgetApproved
		if err := tx.Save(&budget).Error; err != nil {
			tx.Rollback()
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudo actualizar el estatus")
		}

		order = models.ServiceOrder{
			BudgetID:    &budget.ID,
			Descripcion: fmt.Sprintf("Orden desde presupuesto %d", budget.ID),
			Estatus:     models.OrderPending,
			Subtotal:    budget.Subtotal,
			Impuesto:    budget.Impuesto,
			Total:       budget.Total,
		}
		if err := tx.Create(&order).Error; err != nil {
			tx.Rollback()
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudo crear la orden de servicio")
		}

		if err := tx.Commit().Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudo completar la aprobación")
		}

		return c.JSON(fiber.Map{
			"budget":       budget,
			"createdOrder": order,
		})
	}
}
