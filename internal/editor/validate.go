package editor

import (
	"strings"

	"github.com/go-playground/validator/v10"

	"shop-admin/internal/domain"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// The slug must stay URL-safe: no whitespace of any kind.
	v.RegisterValidation("nospace", func(fl validator.FieldLevel) bool {
		return !strings.ContainsAny(fl.Field().String(), " \t\n\r")
	})
	return v
}

// ValidateDraft checks the whole draft against its field rules.
func ValidateDraft(d domain.DraftProduct) error {
	return validate.Struct(d)
}

func validateField(d domain.DraftProduct, structField string) error {
	return validate.StructPartial(d, structField)
}
