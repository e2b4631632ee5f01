package users

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/leapstack-labs/shading/pkg/core"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return v
}

var fieldLabels = map[string]string{
	"personalNumber": "Personal number",
	"fullName":       "Name",
	"email":          "Email",
	"role":           "Role",
	"title":          "Title",
	"department":     "Department",
}

// validateInput returns a message per invalid field, or nil.
func validateInput(in core.UserInput) map[string]string {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return map[string]string{"": err.Error()}
	}
	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		if _, seen := out[fe.Field()]; seen {
			continue
		}
		label := fieldLabels[fe.Field()]
		if label == "" {
			label = fe.Field()
		}
		switch fe.Tag() {
		case "required":
			out[fe.Field()] = label + " is required"
		case "email":
			out[fe.Field()] = "Enter a valid email address"
		case "max":
			out[fe.Field()] = label + " must be at most " + fe.Param() + " characters"
		case "oneof":
			out[fe.Field()] = "Choose a valid role"
		default:
			out[fe.Field()] = label + " is invalid"
		}
	}
	return out
}
