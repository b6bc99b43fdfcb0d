package middleware

import (
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/paydesk/backend/internal/domain/billing"
	"github.com/paydesk/backend/internal/domain/expense"
)

// SetupValidator configures the binding validator with custom tags
func SetupValidator() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}

	// Use JSON tag names for field names in errors
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation("payment_method", func(fl validator.FieldLevel) bool {
		return billing.PaymentMethod(fl.Field().String()).IsValid()
	})
	_ = v.RegisterValidation("expense_category", func(fl validator.FieldLevel) bool {
		return expense.Category(fl.Field().String()).IsValid()
	})
}
