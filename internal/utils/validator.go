// internal/utils/validator.go
package utils

import (
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/javajoker/storefront-backend/internal/models"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterValidation("provider", validateProvider)
	validate.RegisterValidation("product_id", validateProductID)
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

func validateProvider(fl validator.FieldLevel) bool {
	return models.Provider(fl.Field().String()).Valid()
}

func validateProductID(fl validator.FieldLevel) bool {
	_, _, err := models.SplitProductID(fl.Field().String())
	return err == nil
}

type ValidationError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

func GetValidationErrors(err error) []ValidationError {
	var validationErrors []ValidationError

	if validationErrs, ok := err.(validator.ValidationErrors); ok {
		for _, e := range validationErrs {
			validationErrors = append(validationErrors, ValidationError{
				Field:   strings.ToLower(e.Field()),
				Tag:     e.Tag(),
				Message: getValidationMessage(e),
			})
		}
	}

	return validationErrors
}

func getValidationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return e.Field() + " is required"
	case "min":
		return e.Field() + " must be at least " + e.Param()
	case "max":
		return e.Field() + " must be at most " + e.Param()
	case "provider":
		return e.Field() + " must be a supported provider"
	case "product_id":
		return e.Field() + " must be a provider-prefixed product id"
	default:
		return e.Field() + " is invalid"
	}
}
