package validation

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// Struct valida un request con las etiquetas `validate` y devuelve un
// error fiber 400 listo para regresar al cliente.
func Struct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		f := verrs[0]
		return fiber.NewError(fiber.StatusBadRequest,
			fmt.Sprintf("Campo '%s' inválido (regla: %s)", f.Field(), f.Tag()))
	}
	return fiber.NewError(fiber.StatusBadRequest, "Datos inválidos")
}
