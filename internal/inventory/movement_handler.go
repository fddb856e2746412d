package inventory

import (
	"errors"
	"fmt"
	"time"

	"taller-backend/internal/config"
	"taller-backend/internal/database"
	"taller-backend/internal/ledger"
	"taller-backend/internal/models"
	"taller-backend/internal/validation"

	"github.com/gofiber/fiber/v2"
)

type CreateMovementRequest struct {
	ProductID uint                `json:"productId" validate:"required"`
	Tipo      models.MovementKind `json:"tipo" validate:"required"`
	Cantidad  int                 `json:"cantidad" validate:"required"`
	Motivo    string              `json:"motivo"`
}

type MovementResponse struct {
	ID        uint                `json:"id"`
	ProductID uint                `json:"productId"`
	Producto  string              `json:"producto,omitempty"`
	Tipo      models.MovementKind `json:"tipo"`
	Cantidad  int                 `json:"cantidad"`
	Motivo    string              `json:"motivo"`
	CreatedAt time.Time           `json:"createdAt"`
}

// Traduce los errores tipados del ledger a errores HTTP con mensaje
// que el cajero pueda mostrar tal cual.
func mapLedgerError(c *fiber.Ctx, err error) error {
	var verr *ledger.ValidationError
	if errors.As(err, &verr) {
		return fiber.NewError(fiber.StatusBadRequest, verr.Msg)
	}
	var nf *ledger.NotFoundError
	if errors.As(err, &nf) {
		return fiber.NewError(fiber.StatusNotFound, fmt.Sprintf("Producto %d no encontrado", nf.ProductID))
	}
	var ins *ledger.InsufficientStockError
	if errors.As(err, &ins) {
		return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("Stock insuficiente para %s", ins.Nombre))
	}
	config.LogError(config.GetLogger(), "inventory", "ledger", c.OriginalURL(), err)
	return fiber.NewError(fiber.StatusInternalServerError, "Error al registrar el movimiento")
}

// POST /api/inventory/move (Admin, Cajero)
func CreateMovementHandler(led *ledger.Ledger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateMovementRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Cuerpo de la petición inválido")
		}
		if err := validation.Struct(body); err != nil {
			return err
		}

		mov, product, err := led.RecordMovement(c.UserContext(), body.ProductID, body.Tipo, body.Cantidad, body.Motivo)
		if err != nil {
			return mapLedgerError(c, err)
		}

		return c.JSON(fiber.Map{
			"message": "Movimiento registrado",
			"movimiento": MovementResponse{
				ID:        mov.ID,
				ProductID: mov.ProductID,
				Tipo:      mov.Tipo,
				Cantidad:  mov.Cantidad,
				Motivo:    mov.Motivo,
				CreatedAt: mov.CreatedAt,
			},
			"product": toProductResponse(product),
		})
	}
}

// GET /api/inventory/movements?product_id=&startDate=&endDate= (solo admin)
// El reporteo filtra por producto y por rango de fechas.
func ListMovementsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		q := database.DB.Model(&models.InventoryMovement{}).
			Preload("Product").
			Order("created_at DESC")

		if pid := c.Query("product_id"); pid != "" {
			q = q.Where("product_id = ?", pid)
		}
		if start := c.Query("startDate"); start != "" {
			d, err := time.Parse("2006-01-02", start)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "startDate debe tener formato 'YYYY-MM-DD'")
			}
			q = q.Where("created_at >= ?", d)
		}
		if end := c.Query("endDate"); end != "" {
			d, err := time.Parse("2006-01-02", end)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "endDate debe tener formato 'YYYY-MM-DD'")
			}
			q = q.Where("created_at < ?", d.AddDate(0, 0, 1))
		}

		var movs []models.InventoryMovement
		if err := q.Find(&movs).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudieron obtener los movimientos")
		}

		out := make([]MovementResponse, 0, len(movs))
		for _, m := range movs {
			out = append(out, MovementResponse{
				ID:        m.ID,
				ProductID: m.ProductID,
				Producto:  m.Product.Nombre,
				Tipo:      m.Tipo,
				Cantidad:  m.Cantidad,
				Motivo:    m.Motivo,
				CreatedAt: m.CreatedAt,
			})
		}
		return c.JSON(out)
	}
}
