package sales

import (
	"errors"
	"fmt"
	"time"

	"taller-backend/internal/audit"
	"taller-backend/internal/auth"
	"taller-backend/internal/config"
	"taller-backend/internal/database"
	"taller-backend/internal/ledger"
	"taller-backend/internal/models"
	"taller-backend/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type SaleItemRequest struct {
	ProductID uint            `json:"productId" validate:"required"`
	Cantidad  int             `json:"cantidad" validate:"required,gt=0"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
}

type CreateSaleRequest struct {
	ClientID   *uint                `json:"clientId"`
	VehicleID  *uint                `json:"vehicleId"`
	Items      []SaleItemRequest    `json:"items" validate:"required,min=1,dive"`
	Descuento  decimal.Decimal      `json:"descuento"`
	MetodoPago models.PaymentMethod `json:"metodoPago" validate:"required"`
}

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
		return fiber.NewError(fiber.StatusBadRequest,
			fmt.Sprintf("Stock insuficiente para %s (solicitado %d, disponible %d)", ins.Nombre, ins.Solicitado, ins.Disponible))
	}
	config.LogError(config.GetLogger(), "sales", "ledger", c.OriginalURL(), err)
	return fiber.NewError(fiber.StatusInternalServerError, "Error al registrar la venta")
}

// POST /api/sales (Admin, Cajero). La venta completa — nota, partidas,
// descuento de stock y movimientos de salida — la persiste el ledger en
// una sola transacción.
func CreateSaleHandler(led *ledger.Ledger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateSaleRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Cuerpo de la petición inválido")
		}
		if err := validation.Struct(body); err != nil {
			return err
		}

		userID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}

		items := make([]ledger.SaleLine, 0, len(body.Items))
		for _, it := range body.Items {
			items = append(items, ledger.SaleLine{
				ProductID: it.ProductID,
				Cantidad:  it.Cantidad,
				UnitPrice: it.UnitPrice,
			})
		}

		sale, err := led.RecordSale(c.UserContext(), ledger.SaleInput{
			ClientID:    body.ClientID,
			VehicleID:   body.VehicleID,
			Items:       items,
			Descuento:   body.Descuento,
			MetodoPago:  body.MetodoPago,
			CreatedByID: userID,
		})
		if err != nil {
			return mapLedgerError(c, err)
		}

		var user models.User
		userName := ""
		if err := database.DB.First(&user, "id = ?", userID).Error; err == nil {
			userName = user.Nombre
		}
		if err := audit.WriteLog(audit.LogOptions{
			UserID:      userID,
			UserName:    userName,
			EntityType:  "sale",
			EntityID:    sale.ID,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("Venta %s por %s", sale.Folio, sale.Total.StringFixed(2)),
			Data:        sale,
		}); err != nil {
			config.LogError(config.GetLogger(), "sales", "CreateSaleHandler", sale.ID, err)
		}

		return c.Status(fiber.StatusCreated).JSON(sale)
	}
}

// GET /api/sales?startDate=&endDate= — historial con total acumulado
// del rango, para el corte de caja.
func ListSalesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		q := database.DB.Preload("Items").Preload("Client").Preload("Vehicle").
			Order("fecha DESC")

		if start := c.Query("startDate"); start != "" {
			d, err := time.Parse("2006-01-02", start)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "startDate debe tener formato 'YYYY-MM-DD'")
			}
			q = q.Where("fecha >= ?", d)
		}
		if end := c.Query("endDate"); end != "" {
			d, err := time.Parse("2006-01-02", end)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "endDate debe tener formato 'YYYY-MM-DD'")
			}
			q = q.Where("fecha < ?", d.AddDate(0, 0, 1))
		}
		if metodo := c.Query("metodoPago"); metodo != "" {
			q = q.Where("metodo_pago = ?", metodo)
		}

		var sales []models.Sale
		if err := q.Find(&sales).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudieron obtener las ventas")
		}

		total := decimal.Zero
		for _, s := range sales {
			total = total.Add(s.Total)
		}
		return c.JSON(fiber.Map{
			"sales": sales,
			"total": total,
		})
	}
}

// GET /api/sales/:id
func GetSaleHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var sale models.Sale
		if err := database.DB.Preload("Items").Preload("Client").Preload("Vehicle").
			First(&sale, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Venta no encontrada")
		}
		return c.JSON(sale)
	}
}
