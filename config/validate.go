package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/randalmurphal/ctxkit/history"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// validate is the shared validator instance used across the package.
var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())

	if err := validate.RegisterValidation("strategy", validateStrategy); err != nil {
		panic(fmt.Sprintf("failed to register strategy validator: %v", err))
	}
	validate.RegisterStructValidation(validateAllocation, Config{})
}

// validateStrategy accepts any name present in the history registry, so
// strategies registered by callers are valid too.
func validateStrategy(fl validator.FieldLevel) bool {
	return history.IsRegistered(fl.Field().String())
}

// validateAllocation rejects a budget split whose weights are all zero.
func validateAllocation(sl validator.StructLevel) {
	c := sl.Current().Interface().(Config)
	if c.SystemPercent+c.ContextPercent+c.HistoryPercent+c.ReservedPercent == 0 {
		sl.ReportError(c.HistoryPercent, "HistoryPercent", "history_percent", "allocation", "")
	}
}

// Validate checks field constraints and the budget split.
func (c Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, describe(fe))
	}
	return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(msgs, "; "))
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "strategy":
		return fmt.Sprintf("%s %q is not registered (available: %s)",
			fe.Field(), fe.Value(), strings.Join(history.Available(), ", "))
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s], got %v", fe.Field(), fe.Param(), fe.Value())
	case "allocation":
		return "budget weights must not all be zero"
	default:
		return fmt.Sprintf("%s failed %s=%s (got %v)", fe.Field(), fe.Tag(), fe.Param(), fe.Value())
	}
}
