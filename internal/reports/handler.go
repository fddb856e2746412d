package reports

import (
	"fmt"
	"strconv"
	"time"

	"taller-backend/internal/database"
	"taller-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

type DailySummary struct {
	Fecha    string          `json:"fecha"`
	Ventas   int             `json:"ventas"`
	Subtotal decimal.Decimal `json:"subtotal"`
	Impuesto decimal.Decimal `json:"impuesto"`
	Total    decimal.Decimal `json:"total"`
}

type MechanicProductivity struct {
	MechanicID       uint   `json:"mechanicId"`
	Nombre           string `json:"nombre"`
	OrdenesAsignadas int    `json:"ordenesAsignadas"`
	Completadas      int    `json:"completadas"`
}

// GET /api/reports/inventory-low?threshold= (solo admin)
// Sin threshold compara contra el mínimo configurado en cada producto.
func InventoryLowHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		q := database.DB.Order("cantidad ASC")
		if raw := c.Query("threshold"); raw != "" {
			threshold, err := strconv.Atoi(raw)
			if err != nil || threshold < 0 {
				return fiber.NewError(fiber.StatusBadRequest, "threshold debe ser un entero no negativo")
			}
			q = q.Where("cantidad <= ?", threshold)
		} else {
			q = q.Where("cantidad <= min_stock_alert")
		}

		var products []models.Product
		if err := q.Find(&products).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudo generar el reporte")
		}
		return c.JSON(products)
	}
}

func salesInRange(c *fiber.Ctx) ([]models.Sale, error) {
	q := database.DB.Order("fecha ASC")
	if start := c.Query("startDate"); start != "" {
		d, err := time.Parse("2006-01-02", start)
		if err != nil {
			return nil, fiber.NewError(fiber.StatusBadRequest, "startDate debe tener formato 'YYYY-MM-DD'")
		}
		q = q.Where("fecha >= ?", d)
	}
	if end := c.Query("endDate"); end != "" {
		d, err := time.Parse("2006-01-02", end)
		if err != nil {
			return nil, fiber.NewError(fiber.StatusBadRequest, "endDate debe tener formato 'YYYY-MM-DD'")
		}
		q = q.Where("fecha < ?", d.AddDate(0, 0, 1))
	}

	var sales []models.Sale
	if err := q.Find(&sales).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "No se pudieron obtener las ventas")
	}
	return sales, nil
}

func summarizeByDay(sales []models.Sale) []DailySummary {
	byDay := make(map[string]*DailySummary)
	order := make([]string, 0)
	for _, s := range sales {
		day := s.Fecha.Format("2006-01-02")
		sum, ok := byDay[day]
		if !ok {
			sum = &DailySummary{Fecha: day}
			byDay[day] = sum
			order = append(order, day)
		}
		sum.Ventas++
		sum.Subtotal = sum.Subtotal.Add(s.Subtotal)
		sum.Impuesto = sum.Impuesto.Add(s.Impuesto)
		sum.Total = sum.Total.Add(s.Total)
	}

	out := make([]DailySummary, 0, len(order))
	for _, day := range order {
		out = append(out, *byDay[day])
	}
	return out
}

// GET /api/reports/sales-summary?startDate=&endDate= (solo admin)
func SalesSummaryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		sales, err := salesInRange(c)
		if err != nil {
			return err
		}

		summary := summarizeByDay(sales)
		granTotal := decimal.Zero
		for _, d := range summary {
			granTotal = granTotal.Add(d.Total)
		}
		return c.JSON(fiber.Map{
			"dias":      summary,
			"granTotal": granTotal,
		})
	}
}

// GET /api/reports/sales-summary/export?startDate=&endDate= (solo admin)
// Descarga el resumen diario como hoja de cálculo.
func SalesSummaryExportHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		sales, err := salesInRange(c)
		if err != nil {
			return err
		}
		summary := summarizeByDay(sales)

		f := excelize.NewFile()
		defer f.Close()

		f.SetCellValue("Sheet1", "A1", "Fecha")
		f.SetCellValue("Sheet1", "B1", "Ventas")
		f.SetCellValue("Sheet1", "C1", "Subtotal")
		f.SetCellValue("Sheet1", "D1", "Impuesto")
		f.SetCellValue("Sheet1", "E1", "Total")

		for i, d := range summary {
			row := fmt.Sprint(i + 2)
			f.SetCellValue("Sheet1", "A"+row, d.Fecha)
			f.SetCellValue("Sheet1", "B"+row, d.Ventas)
			f.SetCellValue("Sheet1", "C"+row, d.Subtotal.InexactFloat64())
			f.SetCellValue("Sheet1", "D"+row, d.Impuesto.InexactFloat64())
			f.SetCellValue("Sheet1", "E"+row, d.Total.InexactFloat64())
		}

		buf, err := f.WriteToBuffer()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudo generar el archivo")
		}

		c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Set(fiber.HeaderContentDisposition, `attachment; filename="resumen_ventas.xlsx"`)
		return c.Send(buf.Bytes())
	}
}

// GET /api/reports/productivity (solo admin)
// Órdenes asignadas y completadas por mecánico.
func ProductivityHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var orders []models.ServiceOrder
		if err := database.DB.Preload("Mechanics").Find(&orders).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudo generar el reporte")
		}

		byMechanic := make(map[uint]*MechanicProductivity)
		order := make([]uint, 0)
		for _, o := range orders {
			for _, m := range o.Mechanics {
				entry, ok := byMechanic[m.ID]
				if !ok {
					entry = &MechanicProductivity{MechanicID: m.ID, Nombre: m.Nombre}
					byMechanic[m.ID] = entry
					order = append(order, m.ID)
				}
				entry.OrdenesAsignadas++
				if o.Estatus == models.OrderCompleted {
					entry.Completadas++
				}
			}
		}

		out := make([]MechanicProductivity, 0, len(order))
		for _, id := range order {
			out = append(out, *byMechanic[id])
		}
		return c.JSON(out)
	}
}
