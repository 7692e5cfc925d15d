package router

import (
	"reflect"
	"strings"

	"github.com/labstack/gommon/log"
	"gopkg.in/go-playground/validator.v9"

	"github.com/ngunnawal/heritage/form"
)

// NewValidator func
func NewValidator() *Validator {
	v := validator.New()
	// report errors by html field name rather than struct field name
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	if err := form.RegisterRules(v); err != nil {
		log.Fatal(err)
	}
	return &Validator{
		validator: v,
	}
}

// Validator struct
type Validator struct {
	validator *validator.Validate
}

// Validate func
func (v *Validator) Validate(i interface{}) error {
	return v.validator.Struct(i)
}
