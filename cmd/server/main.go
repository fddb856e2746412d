package main

import (
	"strings"

	"taller-backend/internal/audit"
	"taller-backend/internal/auth"
	"taller-backend/internal/budgets"
	"taller-backend/internal/clients"
	"taller-backend/internal/config"
	"taller-backend/internal/database"
	"taller-backend/internal/inventory"
	"taller-backend/internal/ledger"
	"taller-backend/internal/models"
	"taller-backend/internal/orders"
	"taller-backend/internal/reports"
	"taller-backend/internal/sales"
	"taller-backend/internal/staff"
	"taller-backend/internal/vehicles"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
)

func main() {
	// En desarrollo las variables vienen de .env; en producción del entorno
	_ = godotenv.Load()

	logg := config.GetLogger()
	cfg := config.Load()
	database.Init(cfg)

	led := ledger.New(database.DB)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{
					"error": e.Message,
				})
			}
			logg.WithError(err).Error("error no manejado")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Error interno del servidor",
			})
		},
	})

	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	api := app.Group("/api")

	// Público
	api.Post("/login", auth.LoginHandler(cfg))

	// Todo lo demás requiere token
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg))

	protected.Get("/me", auth.MeHandler())

	adminOnly := auth.RequireRole(models.RoleAdmin)
	adminCajero := auth.RequireRole(models.RoleAdmin, models.RoleCashier)
	adminMecanico := auth.RequireRole(models.RoleAdmin, models.RoleMechanic)

	// Usuarios del sistema (solo admin)
	protected.Post("/register", adminOnly, auth.RegisterHandler())
	protected.Get("/users", adminOnly, auth.ListUsersHandler())

	// Clientes
	protected.Post("/clients", adminCajero, clients.CreateClientHandler())
	protected.Get("/clients", clients.ListClientsHandler())
	protected.Get("/clients/:id", clients.GetClientHandler())
	protected.Put("/clients/:id", adminCajero, clients.UpdateClientHandler())
	protected.Delete("/clients/:id", adminOnly, clients.DeleteClientHandler())

	// Vehículos
	protected.Post("/vehicles", adminCajero, vehicles.CreateVehicleHandler())
	protected.Get("/vehicles", vehicles.ListVehiclesHandler())
	protected.Get("/vehicles/:id", vehicles.GetVehicleHandler())
	protected.Put("/vehicles/:id", adminCajero, vehicles.UpdateVehicleHandler())
	protected.Delete("/vehicles/:id", adminOnly, vehicles.DeleteVehicleHandler())

	// Productos e inventario
	protected.Post("/products", adminOnly, inventory.CreateProductHandler())
	protected.Get("/products", inventory.ListProductsHandler())
	protected.Get("/products/:id", inventory.GetProductHandler())
	protected.Put("/products/:id", adminOnly, inventory.UpdateProductHandler())
	protected.Delete("/products/:id", adminOnly, inventory.DeleteProductHandler())
	protected.Post("/products/import", adminOnly, inventory.ImportProductsHandler(led))

	// Movimientos de stock: toda mutación pasa por el ledger
	protected.Post("/inventory/move", adminCajero, inventory.CreateMovementHandler(led))
	protected.Get("/inventory/movements", adminOnly, inventory.ListMovementsHandler())

	// Presupuestos
	protected.Post("/budgets", adminCajero, budgets.CreateBudgetHandler())
	protected.Get("/budgets", budgets.ListBudgetsHandler())
	protected.Get("/budgets/:id", budgets.GetBudgetHandler())
	protected.Put("/budgets/:id", adminCajero, budgets.UpdateBudgetHandler())
	protected.Put("/budgets/:id/status", adminCajero, budgets.UpdateBudgetStatusHandler())
	protected.Delete("/budgets/:id", adminOnly, budgets.DeleteBudgetHandler())

	// Órdenes de servicio
	protected.Post("/service-orders", orders.CreateOrderHandler())
	protected.Get("/service-orders", orders.ListOrdersHandler())
	protected.Get("/service-orders/:id", orders.GetOrderHandler())
	protected.Put("/service-orders/:id", adminMecanico, orders.UpdateOrderHandler())
	protected.Put("/service-orders/:id/status", adminMecanico, orders.UpdateOrderStatusHandler())
	protected.Post("/service-orders/:id/assign", adminOnly, orders.AssignMechanicsHandler())
	protected.Delete("/service-orders/:id", adminOnly, orders.DeleteOrderHandler())

	// Personal
	protected.Post("/staff", adminOnly, staff.CreateStaffHandler())
	protected.Get("/staff", staff.ListStaffHandler())
	protected.Get("/staff/:id", staff.GetStaffHandler())
	protected.Put("/staff/:id", adminOnly, staff.UpdateStaffHandler())
	protected.Delete("/staff/:id", adminOnly, staff.DeleteStaffHandler())

	// Punto de venta
	protected.Post("/sales", adminCajero, sales.CreateSaleHandler(led))
	protected.Get("/sales", adminCajero, sales.ListSalesHandler())
	protected.Get("/sales/:id", adminCajero, sales.GetSaleHandler())

	// Reportes (solo admin)
	protected.Get("/reports/inventory-low", adminOnly, reports.InventoryLowHandler())
	protected.Get("/reports/sales-summary", adminOnly, reports.SalesSummaryHandler())
	protected.Get("/reports/sales-summary/export", adminOnly, reports.SalesSummaryExportHandler())
	protected.Get("/reports/productivity", adminOnly, reports.ProductivityHandler())

	// Bitácora (solo admin)
	protected.Get("/audit-logs", adminOnly, audit.ListAuditLogsHandler())

	logg.Infof("Servidor escuchando en el puerto %s", cfg.HTTPPort)
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		logg.Fatal(err)
	}
}
