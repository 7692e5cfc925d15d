// Package form holds the HTML forms of the site. Each form binds from the
// request body through its form tags and is checked with validator rules.
package form

import (
	"errors"
	"fmt"
	"strconv"

	"gopkg.in/go-playground/validator.v9"
)

type Registration struct {
	Name     string `form:"name" validate:"required,max=100"`
	Email    string `form:"email" validate:"required,email,max=254"`
	Password string `form:"password" validate:"required,min=6,maxbytes=72"`
	Confirm  string `form:"confirm" validate:"required,eqfield=Password"`
}

type Login struct {
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"required"`
	Next     string `form:"next"`
}

type Contact struct {
	Name    string `form:"name" validate:"required,max=100"`
	Email   string `form:"email" validate:"required,email,max=254"`
	Message string `form:"message" validate:"required,max=2000"`
}

type Todo struct {
	Text string `form:"text" validate:"required,max=200"`
	Done bool   `form:"done"`
}

type Photo struct {
	Title string `form:"title" validate:"required,max=100"`
}

type Profile struct {
	Name  string `form:"name" validate:"required,max=100"`
	Email string `form:"email" validate:"required,email,max=254"`
}

type PasswordReset struct {
	Password string `form:"password" validate:"required,min=6,maxbytes=72"`
	Confirm  string `form:"confirm" validate:"required,eqfield=Password"`
}

// RegisterRules adds the rules the forms use beyond the validator built-ins.
// maxbytes limits the UTF-8 length, which is what bcrypt counts.
func RegisterRules(v *validator.Validate) error {
	return v.RegisterValidation("maxbytes", maxBytes)
}

func maxBytes(fl validator.FieldLevel) bool {
	limit, err := strconv.Atoi(fl.Param())
	if err != nil {
		return false
	}
	return len(fl.Field().String()) <= limit
}

// Errors maps a validation error to one message per form field. Any other
// error is reported under the empty key.
func Errors(err error) map[string]string {
	errs := map[string]string{}
	if err == nil {
		return errs
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		errs[""] = err.Error()
		return errs
	}

	for _, fe := range verrs {
		if _, ok := errs[fe.Field()]; ok {
			continue
		}
		errs[fe.Field()] = message(fe)
	}
	return errs
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Enter a valid email address."
	case "eqfield":
		return "Passwords must match."
	case "min":
		return fmt.Sprintf("Must be at least %s characters.", fe.Param())
	case "max":
		return fmt.Sprintf("Must be at most %s characters.", fe.Param())
	case "maxbytes":
		return fmt.Sprintf("Too long, must be at most %s bytes.", fe.Param())
	default:
		return "Invalid value."
	}
}
