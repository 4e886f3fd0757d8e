// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var numericPinRegex = regexp.MustCompile(`^[0-9]{4,6}$`)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("transaction_type", validateTransactionType)
		_ = v.RegisterValidation("payment_mode", validatePaymentMode)
		_ = v.RegisterValidation("numeric_pin", validateNumericPin)
	}
}

func validateTransactionType(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "income", "expense":
		return true
	}
	return false
}

func validatePaymentMode(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "cash", "bank":
		return true
	}
	return false
}

// validateNumericPin accepts 4-6 digit PINs, matching the client's input mask.
func validateNumericPin(fl validator.FieldLevel) bool {
	return numericPinRegex.MatchString(fl.Field().String())
}
