// Package validation holds custom validator rules shared by request binding and seed loading.
package validation

import (
	"reflect"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/polkiloo/storepickup/internal/domain/model"
)

// TagHHMM validates a 24h "HH:MM" clock string.
const TagHHMM = "hhmm"

// HHMM implements the hhmm rule.
func HHMM(fl validator.FieldLevel) bool {
	if fl.Field().Kind() != reflect.String {
		return false
	}
	_, err := model.ParseClock(fl.Field().String())
	return err == nil
}

// New returns a validator with the custom rules registered.
func New() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation(TagHHMM, HHMM)
	return v
}

// RegisterBinding adds the custom rules to gin's default binding validator.
func RegisterBinding() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	return v.RegisterValidation(TagHHMM, HHMM)
}
