package common

import (
	"fmt"
	"net/http"
	"sync"

	"github.com/go-playground/validator"
	"github.com/labstack/echo/v4"
)

var (
	sharedValidator     *validator.Validate
	sharedValidatorOnce sync.Once
)

func defaultValidator() *validator.Validate {
	sharedValidatorOnce.Do(func() {
		sharedValidator = validator.New()
	})
	return sharedValidator
}

// Validate checks struct tags with a process-wide validator instance.
func Validate(i interface{}) error {
	return defaultValidator().Struct(i)
}

// GenericEchoValidator adapts a validator to echo. A nil Validator falls back to
// the process-wide instance; the struct itself is never modified, so one value may
// serve concurrent requests.
type GenericEchoValidator struct {
	Validator *validator.Validate
}

func (gv *GenericEchoValidator) Validate(i interface{}) error {
	v := gv.Validator
	if v == nil {
		v = defaultValidator()
	}
	if err := v.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("received invalid request body: %v", err))
	}
	return nil
}
