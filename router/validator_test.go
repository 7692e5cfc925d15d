package router

import (
	"strings"
	"testing"

	"github.com/ngunnawal/heritage/form"
)

func TestValidatorFieldNames(t *testing.T) {
	v := NewValidator()

	err := v.Validate(&form.Contact{Name: "Ali"})
	if err == nil {
		t.Fatal("Expected validation to fail")
	}

	errs := form.Errors(err)
	if _, ok := errs["email"]; !ok {
		t.Errorf("Expected an error keyed by the email field, got %v", errs)
	}
	if _, ok := errs["message"]; !ok {
		t.Errorf("Expected an error keyed by the message field, got %v", errs)
	}
	if _, ok := errs["name"]; ok {
		t.Errorf("Expected no error for the filled name field, got %v", errs)
	}
}

func TestValidatorRegistration(t *testing.T) {
	v := NewValidator()

	testCases := []struct {
		name    string
		form    form.Registration
		invalid string
	}{
		{"valid", form.Registration{Name: "Ali", Email: "ali@example.com", Password: "secret1", Confirm: "secret1"}, ""},
		{"bad email", form.Registration{Name: "Ali", Email: "ali@", Password: "secret1", Confirm: "secret1"}, "email"},
		{"mismatch", form.Registration{Name: "Ali", Email: "ali@example.com", Password: "secret1", Confirm: "secret2"}, "confirm"},
		{"short password", form.Registration{Name: "Ali", Email: "ali@example.com", Password: "abc", Confirm: "abc"}, "password"},
		{"password over 72 bytes", form.Registration{Name: "Ali", Email: "ali@example.com", Password: strings.Repeat("é", 40), Confirm: strings.Repeat("é", 40)}, "password"},
		{"missing name", form.Registration{Email: "ali@example.com", Password: "secret1", Confirm: "secret1"}, "name"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			errs := form.Errors(v.Validate(&tc.form))
			if tc.invalid == "" {
				if len(errs) != 0 {
					t.Errorf("Expected no errors, got %v", errs)
				}
				return
			}
			if _, ok := errs[tc.invalid]; !ok {
				t.Errorf("Expected %s to be flagged, got %v", tc.invalid, errs)
			}
		})
	}
}
