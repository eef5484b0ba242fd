// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"bizledger/internal/models"
	"bizledger/internal/money"
	"bizledger/internal/uuid"
)

var once sync.Once

// Register registers all custom validators with the Gin binding engine.
// It is safe to call more than once.
func Register() {
	once.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			RegisterOn(v)
		}
	})
}

// RegisterOn adds the custom tags to v and reports fields by their json or
// form name.
func RegisterOn(v *validator.Validate) {
	v.RegisterTagNameFunc(fieldName)
	_ = v.RegisterValidation("transaction_type", validateTransactionType)
	_ = v.RegisterValidation("transaction_status", validateTransactionStatus)
	_ = v.RegisterValidation("currency_code", validateCurrencyCode)
	_ = v.RegisterValidation("decimal_string", validateDecimalString)
	_ = v.RegisterValidation("user_role", validateUserRole)
	_ = v.RegisterValidation("optional_uuid", validateOptionalUUID)
}

func fieldName(fld reflect.StructField) string {
	for _, key := range []string{"json", "form"} {
		name, _, _ := strings.Cut(fld.Tag.Get(key), ",")
		if name != "" && name != "-" {
			return name
		}
	}
	return ""
}

func validateTransactionType(fl validator.FieldLevel) bool {
	return models.TransactionType(fl.Field().String()).Valid()
}

func validateTransactionStatus(fl validator.FieldLevel) bool {
	return models.TransactionStatus(fl.Field().String()).Valid()
}

func validateCurrencyCode(fl validator.FieldLevel) bool {
	return money.Currency(fl.Field().String()).Valid()
}

// validateDecimalString accepts strings that parse as a decimal. The optional
// parameter caps the number of fractional digits, e.g. decimal_string=2.
func validateDecimalString(fl validator.FieldLevel) bool {
	places := int32(money.RatePlaces)
	switch fl.Param() {
	case "":
	case "2":
		places = money.AmountPlaces
	case "4":
		places = money.RatePlaces
	default:
		return false
	}
	_, err := money.ParseAmount(fl.Field().String(), places)
	return err == nil
}

func validateUserRole(fl validator.FieldLevel) bool {
	return models.Role(fl.Field().String()).Valid()
}

// validateOptionalUUID accepts an empty string, which clears an optional
// reference, or a valid UUID.
func validateOptionalUUID(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	return s == "" || uuid.IsValid(s)
}
