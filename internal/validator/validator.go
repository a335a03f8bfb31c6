// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	hexColorRegex = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)
	currencyRegex = regexp.MustCompile(`^[A-Z]{3}$`)
)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("currency_code", validateCurrencyCode)
		_ = v.RegisterValidation("hex_color", validateHexColor)
		_ = v.RegisterValidation("transaction_type", validateTransactionType)
		_ = v.RegisterValidation("category_type", validateCategoryType)
		_ = v.RegisterValidation("group_by", validateGroupBy)
	}
}

func validateCurrencyCode(fl validator.FieldLevel) bool {
	return currencyRegex.MatchString(fl.Field().String())
}

func validateHexColor(fl validator.FieldLevel) bool {
	return hexColorRegex.MatchString(fl.Field().String())
}

// Only INCOME and EXPENSE are accepted at the boundary; TRANSFER is
// reserved and no operation produces it.
func validateTransactionType(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "INCOME", "EXPENSE":
		return true
	}
	return false
}

func validateCategoryType(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "income", "expense":
		return true
	}
	return false
}

func validateGroupBy(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "category", "account", "month":
		return true
	}
	return false
}
