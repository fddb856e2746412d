package database

import (
	"taller-backend/internal/config"
	"taller-backend/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init(cfg *config.Config) {
	log := config.GetLogger()

	var err error
	DB, err = gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("No se pudo conectar a la base de datos: %v", err)
	}

	err = DB.AutoMigrate(
		&models.User{},
		&models.Client{},
		&models.Vehicle{},
		&models.Product{},
		&models.InventoryMovement{},
		&models.Budget{},
		&models.BudgetItem{},
		&models.ServiceOrder{},
		&models.OrderActivity{},
		&models.Staff{},
		&models.Sale{},
		&models.SaleItem{},
		&models.AuditLog{},
	)
	if err != nil {
		log.Fatalf("Error en AutoMigrate: %v", err)
	}

	seedDefaultAdmin(cfg)

	log.Info("Conexión a base de datos lista, migración completada")
}

// seedDefaultAdmin crea el administrador inicial si no existe ninguno.
// Sin un admin nadie puede registrar usuarios (el registro es solo admin).
func seedDefaultAdmin(cfg *config.Config) {
	log := config.GetLogger()

	var count int64
	DB.Model(&models.User{}).
		Where("rol = ?", models.RoleAdmin).
		Count(&count)
	if count > 0 {
		return
	}

	if cfg.SeedAdminPassword == "" {
		log.Warn("No existe ningún administrador y SEED_ADMIN_PASSWORD está vacío; no se creará el admin inicial")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.SeedAdminPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("No se pudo hashear la contraseña del admin inicial: %v", err)
	}

	admin := models.User{
		Nombre:       "Administrador",
		Email:        cfg.SeedAdminEmail,
		PasswordHash: string(hash),
		Rol:          models.RoleAdmin,
	}
	if err := DB.Create(&admin).Error; err != nil {
		log.Fatalf("No se pudo crear el admin inicial: %v", err)
	}
	log.Infof("Administrador inicial creado: %s", admin.Email)
}
