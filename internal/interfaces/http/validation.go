package http

import (
	"errors"
	"strings"

	"github.com/go-playground/validator"
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/inventory-reconciliation/internal/application/dto"
)

var validate = validator.New()

// validateStruct aplica las etiquetas `validate` del DTO; si falla escribe 400 y devuelve false.
func validateStruct(c *fiber.Ctx, in interface{}) (bool, error) {
	err := validate.Struct(in)
	if err == nil {
		return true, nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return false, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fe.Field()+" ("+fe.Tag()+")")
	}
	return false, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
		Code:    "VALIDATION",
		Message: "campos inválidos: " + strings.Join(fields, ", "),
	})
}
