package inventory

import (
	"fmt"
	"strconv"
	"strings"

	"taller-backend/internal/database"
	"taller-backend/internal/ledger"
	"taller-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// POST /api/products/import (solo admin)
// Carga masiva de refacciones desde un .xlsx con columnas:
// NOMBRE | SKU | CANTIDAD | PRECIO COSTO | PRECIO VENTA
// Las existencias iniciales entran como movimiento de ingreso, para que
// el historial arranque con traza.
func ImportProductsHandler(led *ledger.Ledger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fileHeader, err := c.FormFile("file")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "No se pudo subir el archivo: "+err.Error())
		}

		if !strings.HasSuffix(strings.ToLower(fileHeader.Filename), ".xlsx") {
			return fiber.NewError(fiber.StatusBadRequest, "Solo se aceptan archivos .xlsx")
		}

		file, err := fileHeader.Open()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudo abrir el archivo: "+err.Error())
		}
		defer file.Close()

		excelFile, err := excelize.OpenReader(file)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "No se pudo leer el Excel: "+err.Error())
		}
		defer excelFile.Close()

		sheetList := excelFile.GetSheetList()
		if len(sheetList) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "El Excel no tiene hojas")
		}

		rows, err := excelFile.GetRows(sheetList[0])
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "No se pudo leer la hoja: "+err.Error())
		}
		if len(rows) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "El Excel está vacío")
		}

		// Detecta si la primera fila es encabezado
		startIndex := 0
		if len(rows[0]) > 0 {
			firstCell := strings.ToUpper(strings.TrimSpace(rows[0][0]))
			if strings.Contains(firstCell, "NOMBRE") || strings.Contains(firstCell, "PRODUCTO") ||
				strings.Contains(firstCell, "PRODUCT") {
				startIndex = 1
			}
		}

		created := 0
		skipped := 0
		var problems []string

		cell := func(row []string, i int) string {
			if i < len(row) {
				return strings.TrimSpace(row[i])
			}
			return ""
		}

		for i := startIndex; i < len(rows); i++ {
			row := rows[i]
			nombre := cell(row, 0)
			if nombre == "" {
				continue
			}

			// No duplicar productos ya registrados (por nombre o SKU)
			sku := cell(row, 1)
			var count int64
			q := database.DB.Model(&models.Product{}).Where("nombre = ?", nombre)
			if sku != "" {
				q = q.Or("sku = ?", sku)
			}
			q.Count(&count)
			if count > 0 {
				skipped++
				continue
			}

			cantidad := 0
			if v := cell(row, 2); v != "" {
				cantidad, err = strconv.Atoi(v)
				if err != nil || cantidad < 0 {
					problems = append(problems, fmt.Sprintf("fila %d: cantidad inválida '%s'", i+1, v))
					continue
				}
			}

			precioCosto := decimal.Zero
			if v := cell(row, 3); v != "" {
				precioCosto, err = decimal.NewFromString(v)
				if err != nil || precioCosto.IsNegative() {
					problems = append(problems, fmt.Sprintf("fila %d: precio costo inválido '%s'", i+1, v))
					continue
				}
			}

			precioVenta := decimal.Zero
			if v := cell(row, 4); v != "" {
				precioVenta, err = decimal.NewFromString(v)
				if err != nil || precioVenta.IsNegative() {
					problems = append(problems, fmt.Sprintf("fila %d: precio venta inválido '%s'", i+1, v))
					continue
				}
			}

			product := models.Product{
				Nombre:        nombre,
				SKU:           sku,
				PrecioCosto:   precioCosto,
				PrecioVenta:   precioVenta,
				MinStockAlert: 5,
			}
			if err := database.DB.Create(&product).Error; err != nil {
				problems = append(problems, fmt.Sprintf("fila %d: no se pudo crear '%s'", i+1, nombre))
				continue
			}

			if cantidad > 0 {
				if _, _, err := led.RecordMovement(c.UserContext(), product.ID, models.MovementInflow, cantidad, "Carga inicial (importación)"); err != nil {
					problems = append(problems, fmt.Sprintf("fila %d: producto creado pero sin stock inicial: %v", i+1, err))
					continue
				}
			}
			created++
		}

		return c.JSON(fiber.Map{
			"message":  "Importación completada",
			"creados":  created,
			"omitidos": skipped,
			"errores":  problems,
		})
	}
}
