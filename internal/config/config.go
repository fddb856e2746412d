package config

import "os"

type Config struct {
	HTTPPort    string
	DatabaseDSN string
	JWTSecret   string
	CORSOrigins string
	// Credenciales del administrador inicial (solo se usa si no existe ninguno)
	SeedAdminEmail    string
	SeedAdminPassword string
}

func Load() *Config {
	cfg := &Config{
		HTTPPort:          getEnv("HTTP_PORT", "3000"),
		DatabaseDSN:       getEnv("DATABASE_DSN", "host=localhost user=postgres password=postgres dbname=taller port=5432 sslmode=disable"),
		JWTSecret:         getEnv("JWT_SECRET", ""),
		CORSOrigins:       getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:8100"),
		SeedAdminEmail:    getEnv("SEED_ADMIN_EMAIL", "admin@taller.com"),
		SeedAdminPassword: getEnv("SEED_ADMIN_PASSWORD", ""),
	}

	// Controles de seguridad para producción
	if cfg.JWTSecret == "" {
		GetLogger().Fatal("JWT_SECRET no está definido; es obligatorio")
	}
	if len(cfg.JWTSecret) < 32 {
		GetLogger().Fatal("JWT_SECRET debe tener al menos 32 caracteres")
	}
	if cfg.DatabaseDSN == "host=localhost user=postgres password=postgres dbname=taller port=5432 sslmode=disable" {
		GetLogger().Warn("DATABASE_DSN usa el valor por defecto; configura tu propia conexión para producción")
	}
	if cfg.CORSOrigins == "http://localhost:8100" {
		GetLogger().Warn("CORS_ALLOWED_ORIGINS usa el valor por defecto; configura tu dominio para producción")
	}

	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
