package validator

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/campy/campy-api/internal/domain/pricing"
	"github.com/campy/campy-api/internal/pkg/currency"
)

// Validator instance
var validate *validator.Validate

func init() {
	validate = validator.New()

	// Use JSON tag names in error messages
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	registerCustomValidations()
}

func oneOf(values ...string) validator.Func {
	return func(fl validator.FieldLevel) bool {
		v := fl.Field().String()
		for _, allowed := range values {
			if v == allowed {
				return true
			}
		}
		return false
	}
}

func registerCustomValidations() {
	validate.RegisterValidation("booking_role", oneOf("guest", "host"))
	validate.RegisterValidation("payment_method", oneOf("promptpay", "bank_transfer", "card"))

	validate.RegisterValidation("accommodation_type", func(fl validator.FieldLevel) bool {
		return pricing.AccommodationType(fl.Field().String()).IsValid()
	})

	// empty is allowed so optional fields can use the tag without omitempty
	validate.RegisterValidation("currency", func(fl validator.FieldLevel) bool {
		v := fl.Field().String()
		return v == "" || currency.IsSupported(v)
	})
}

// Validate validates a struct and returns a map of field errors
func Validate(s interface{}) map[string]string {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return map[string]string{"_": err.Error()}
	}

	errors := make(map[string]string)
	for _, err := range verrs {
		field := err.Field()
		switch err.Tag() {
		case "required":
			errors[field] = "This field is required"
		case "email":
			errors[field] = "Invalid email format"
		case "min":
			errors[field] = "Value is too short (min: " + err.Param() + ")"
		case "max":
			errors[field] = "Value is too long (max: " + err.Param() + ")"
		case "gte":
			errors[field] = "Value must be at least " + err.Param()
		case "lte":
			errors[field] = "Value must be at most " + err.Param()
		case "gt":
			errors[field] = "Value must be greater than " + err.Param()
		case "booking_role":
			errors[field] = "Invalid role. Must be: guest or host"
		case "payment_method":
			errors[field] = "Invalid payment method. Must be: promptpay, bank_transfer, or card"
		case "accommodation_type":
			errors[field] = "Invalid accommodation type. Must be: tent, dome, or cabin"
		case "currency":
			errors[field] = "Unsupported currency"
		default:
			errors[field] = "Invalid value"
		}
	}

	return errors
}
