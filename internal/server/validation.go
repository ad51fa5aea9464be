package server

import (
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/smallbiznis/gstbilling/internal/reference"
)

var registerValidatorsOnce sync.Once

// registerValidators adds the gstin and pan tags to gin's validator and
// reports fields by their json names.
func registerValidators() {
	registerValidatorsOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}

		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})
		_ = v.RegisterValidation("gstin", func(fl validator.FieldLevel) bool {
			return reference.ValidGSTIN(fl.Field().String())
		})
		_ = v.RegisterValidation("pan", func(fl validator.FieldLevel) bool {
			return reference.ValidPAN(fl.Field().String())
		})
	})
}
