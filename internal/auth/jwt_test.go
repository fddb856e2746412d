package auth

import (
	"testing"

	"taller-backend/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

func TestGenerateTokenRoundTrip(t *testing.T) {
	secret := "clave-de-prueba-suficientemente-larga-123456"
	user := &models.User{
		ID:    7,
		Email: "cajero@taller.com",
		Rol:   models.RoleCashier,
	}

	signed, err := GenerateToken(secret, user)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	claims := &JWTCustomClaims{}
	token, err := jwt.ParseWithClaims(signed, claims, func(t *jwt.Token) (any, error) {
		return []byte(secret), nil
	})
	if err != nil {
		t.Fatalf("ParseWithClaims: %v", err)
	}
	if !token.Valid {
		t.Fatal("el token generado no es válido")
	}
	if claims.UserID != user.ID {
		t.Errorf("UserID = %d, esperado %d", claims.UserID, user.ID)
	}
	if claims.Email != user.Email {
		t.Errorf("Email = %q, esperado %q", claims.Email, user.Email)
	}
	if claims.Rol != models.RoleCashier {
		t.Errorf("Rol = %q, esperado %q", claims.Rol, models.RoleCashier)
	}
	if claims.ExpiresAt == nil || claims.IssuedAt == nil {
		t.Fatal("el token debe llevar fechas de emisión y expiración")
	}
	if !claims.ExpiresAt.After(claims.IssuedAt.Time) {
		t.Error("la expiración debe ser posterior a la emisión")
	}
}

func TestGenerateTokenRejectsWrongSecret(t *testing.T) {
	user := &models.User{ID: 1, Email: "admin@taller.com", Rol: models.RoleAdmin}
	signed, err := GenerateToken("secreto-correcto-para-firmar-tokens-abc", user)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	_, err = jwt.ParseWithClaims(signed, &JWTCustomClaims{}, func(t *jwt.Token) (any, error) {
		return []byte("otro-secreto-distinto-que-no-firma-nada"), nil
	})
	if err == nil {
		t.Fatal("un secreto distinto debe invalidar el token")
	}
}
