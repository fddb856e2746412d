package inventory

import (
	"fmt"
	"time"

	"taller-backend/internal/audit"
	"taller-backend/internal/auth"
	"taller-backend/internal/config"
	"taller-backend/internal/database"
	"taller-backend/internal/models"
	"taller-backend/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CreateProductRequest struct {
	Nombre        string          `json:"nombreProducto" validate:"required"`
	Descripcion   string          `json:"descripcion"`
	Cantidad      int             `json:"cantidad" validate:"gte=0"` // existencias iniciales
	PrecioCosto   decimal.Decimal `json:"precioCosto"`
	PrecioVenta   decimal.Decimal `json:"precioVenta"`
	SKU           string          `json:"sku"`
	MinStockAlert *int            `json:"minStockAlert"`
}

// La cantidad está deliberadamente ausente: las existencias solo cambian
// vía movimientos de inventario o ventas.
type UpdateProductRequest struct {
	Nombre        *string          `json:"nombreProducto"`
	Descripcion   *string          `json:"descripcion"`
	PrecioCosto   *decimal.Decimal `json:"precioCosto"`
	PrecioVenta   *decimal.Decimal `json:"precioVenta"`
	SKU           *string          `json:"sku"`
	MinStockAlert *int             `json:"minStockAlert"`
}

type ProductResponse struct {
	ID            uint            `json:"id"`
	Nombre        string          `json:"nombreProducto"`
	Descripcion   string          `json:"descripcion"`
	Cantidad      int             `json:"cantidad"`
	PrecioCosto   decimal.Decimal `json:"precioCosto"`
	PrecioVenta   decimal.Decimal `json:"precioVenta"`
	SKU           string          `json:"sku"`
	MinStockAlert int             `json:"minStockAlert"`
	CreatedAt     time.Time       `json:"createdAt"`
}

func toProductResponse(p *models.Product) ProductResponse {
	return ProductResponse{
		ID:            p.ID,
		Nombre:        p.Nombre,
		Descripcion:   p.Descripcion,
		Cantidad:      p.Cantidad,
		PrecioCosto:   p.PrecioCosto,
		PrecioVenta:   p.PrecioVenta,
		SKU:           p.SKU,
		MinStockAlert: p.MinStockAlert,
		CreatedAt:     p.CreatedAt,
	}
}

// saveProductEdits persiste solo las columnas editables del producto.
// La cantidad queda fuera de la lista a propósito: un Save completo
// escribiría existencias leídas antes de que el ledger confirmara una
// venta o un movimiento, pisando el valor real.
func saveProductEdits(db *gorm.DB, product *models.Product) error {
	return db.Model(product).
		Select("nombre", "descripcion", "precio_costo", "precio_venta", "sku", "min_stock_alert").
		Updates(*product).Error
}

// Ayudante: id y nombre del usuario autenticado (para la bitácora)
func getUserInfo(c *fiber.Ctx) (uint, string, error) {
	userID, err := auth.CurrentUserID(c)
	if err != nil {
		return 0, "", err
	}
	var user models.User
	if err := database.DB.First(&user, "id = ?", userID).Error; err != nil {
		return 0, "", fiber.NewError(fiber.StatusInternalServerError, "Usuario no encontrado")
	}
	return userID, user.Nombre, nil
}

// POST /api/products (solo admin)
func CreateProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateProductRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Cuerpo de la petición inválido")
		}
		if err := validation.Struct(body); err != nil {
			return err
		}
		if body.PrecioCosto.IsNegative() || body.PrecioVenta.IsNegative() {
			return fiber.NewError(fiber.StatusBadRequest, "Los precios no pueden ser negativos")
		}

		minAlert := 5
		if body.MinStockAlert != nil {
			if *body.MinStockAlert < 0 {
				return fiber.NewError(fiber.StatusBadRequest, "minStockAlert no puede ser negativo")
			}
			minAlert = *body.MinStockAlert
		}

		product := models.Product{
			Nombre:        body.Nombre,
			Descripcion:   body.Descripcion,
			Cantidad:      body.Cantidad,
			PrecioCosto:   body.PrecioCosto,
			PrecioVenta:   body.PrecioVenta,
			SKU:           body.SKU,
			MinStockAlert: minAlert,
		}
		if err := database.DB.Create(&product).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudo crear el producto")
		}

		if userID, userName, err := getUserInfo(c); err == nil {
			if err := audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "product",
				EntityID:    product.ID,
				Action:      models.AuditActionCreate,
				Description: fmt.Sprintf("Producto creado: %s", product.Nombre),
				Data:        toProductResponse(&product),
			}); err != nil {
				config.LogError(config.GetLogger(), "inventory", "CreateProductHandler", product.ID, err)
			}
		}

		return c.Status(fiber.StatusCreated).JSON(toProductResponse(&product))
	}
}

// GET /api/products?q=
func ListProductsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		q := database.DB.Model(&models.Product{}).Order("nombre")
		if search := c.Query("q"); search != "" {
			q = q.Where("nombre ILIKE ?", "%"+search+"%")
		}

		var products []models.Product
		if err := q.Find(&products).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudieron obtener los productos")
		}

		out := make([]ProductResponse, 0, len(products))
		for i := range products {
			out = append(out, toProductResponse(&products[i]))
		}
		return c.JSON(out)
	}
}

// GET /api/products/:id
func GetProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var product models.Product
		if err := database.DB.First(&product, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Producto no encontrado")
		}
		return c.JSON(toProductResponse(&product))
	}
}

// PUT /api/products/:id (solo admin)
func UpdateProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var product models.Product
		if err := database.DB.First(&product, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Producto no encontrado")
		}

		var body UpdateProductRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Cuerpo de la petición inválido")
		}

		if body.Nombre != nil {
			if *body.Nombre == "" {
				return fiber.NewError(fiber.StatusBadRequest, "nombreProducto no puede quedar vacío")
			}
			product.Nombre = *body.Nombre
		}
		if body.Descripcion != nil {
			product.Descripcion = *body.Descripcion
		}
		if body.PrecioCosto != nil {
			if body.PrecioCosto.IsNegative() {
				return fiber.NewError(fiber.StatusBadRequest, "precioCosto no puede ser negativo")
			}
			product.PrecioCosto = *body.PrecioCosto
		}
		if body.PrecioVenta != nil {
			if body.PrecioVenta.IsNegative() {
				return fiber.NewError(fiber.StatusBadRequest, "precioVenta no puede ser negativo")
			}
			product.PrecioVenta = *body.PrecioVenta
		}
		if body.SKU != nil {
			product.SKU = *body.SKU
		}
		if body.MinStockAlert != nil {
			if *body.MinStockAlert < 0 {
				return fiber.NewError(fiber.StatusBadRequest, "minStockAlert no puede ser negativo")
			}
			product.MinStockAlert = *body.MinStockAlert
		}

		if err := saveProductEdits(database.DB, &product); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudo actualizar el producto")
		}
		return c.JSON(toProductResponse(&product))
	}
}

// DELETE /api/products/:id (solo admin). Se permite borrar con stock
// positivo; la confirmación es responsabilidad del cliente.
func DeleteProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var product models.Product
		if err := database.DB.First(&product, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Producto no encontrado")
		}

		snapshot := toProductResponse(&product)
		if err := database.DB.Delete(&product).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudo eliminar el producto")
		}

		if userID, userName, err := getUserInfo(c); err == nil {
			if err := audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "product",
				EntityID:    snapshot.ID,
				Action:      models.AuditActionDelete,
				Description: fmt.Sprintf("Producto eliminado: %s (stock %d)", snapshot.Nombre, snapshot.Cantidad),
				Data:        snapshot,
			}); err != nil {
				config.LogError(config.GetLogger(), "inventory", "DeleteProductHandler", snapshot.ID, err)
			}
		}

		return c.JSON(fiber.Map{"message": "Producto eliminado"})
	}
}
