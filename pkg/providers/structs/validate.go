package structs

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/go-playground/validator/v10"

	"github.com/goliatone/go-formbuilder/internal/reflectx"
	"github.com/goliatone/go-formbuilder/pkg/model"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := reflectx.TagName(field)
		if name == "" {
			return "-"
		}
		return name
	})
	return v
}

// Validate runs the struct's validate tags and replaces Errors with the
// failures, keyed by attribute. Nested failures are keyed by their leaf
// attribute, which is where nested builders look them up. The returned
// error is non-nil only when validation could not run.
func (o *Object) Validate() (model.Errors, error) {
	err := validate.Struct(o.source)
	o.Errors = make(model.Errors)
	if err == nil {
		return o.Errors, nil
	}
	var failures validator.ValidationErrors
	if !errors.As(err, &failures) {
		return nil, fmt.Errorf("structs: validate %s: %w", o.model.typ.Name(), err)
	}

	for _, failure := range failures {
		o.Errors.Add(failure.Field(), Message(failure))
	}
	return o.Errors, nil
}

// Message renders a validator failure the way form errors read:
// "can't be blank", "is too short (minimum is 3 characters)".
func Message(failure validator.FieldError) string {
	param := failure.Param()
	sized := false
	switch failure.Kind() {
	case reflect.String, reflect.Slice, reflect.Array, reflect.Map:
		sized = true
	}
	switch failure.Tag() {
	case "required", "required_if", "required_unless", "required_with", "required_without":
		return "can't be blank"
	case "oneof":
		return "is not included in the list"
	case "len":
		if sized {
			return fmt.Sprintf("is the wrong length (should be %s characters)", param)
		}
		return "must be equal to " + param
	case "min", "gte":
		if sized {
			return fmt.Sprintf("is too short (minimum is %s characters)", param)
		}
		return "must be greater than or equal to " + param
	case "max", "lte":
		if sized {
			return fmt.Sprintf("is too long (maximum is %s characters)", param)
		}
		return "must be less than or equal to " + param
	case "gt":
		return "must be greater than " + param
	case "lt":
		return "must be less than " + param
	default:
		return "is invalid"
	}
}
