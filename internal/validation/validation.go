// Package validation runs the field rules for request payloads in one pass.
//
// Create payloads are checked with struct tags (`validate:"..."`). Partial
// updates are checked field by field with Rules, because a rule must only
// run for fields the caller actually sent.
//
// Every failure comes back as an apperror validation error whose Details map
// json field name -> message.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/sakif/shopping-list/internal/apperror"
	"github.com/sakif/shopping-list/internal/model"
)

type Validator struct {
	validate *validator.Validate
}

func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report json names ("shopping_list_id") instead of Go names ("ShoppingListID").
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" || tag == "-" {
			return f.Name
		}
		return tag
	})
	return &Validator{validate: v}
}

// Struct validates a create payload against its struct tags.
func (v *Validator) Struct(s any) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperror.ValidationFailed("body", err.Error())
	}
	details := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		details[fe.Field()] = message(fe)
	}
	return apperror.Invalid(details)
}

// Rule describes one field of a partial update.
type Rule struct {
	Field    string
	Present  bool
	Null     bool
	Nullable bool
	Value    any
	Tag      string // validator tag, e.g. "min=1,max=255"; empty means no check
}

// Optional builds the Rule for an Optional field.
func Optional[T any](field string, o model.Optional[T], nullable bool, tag string) Rule {
	return Rule{
		Field:    field,
		Present:  o.Set,
		Null:     o.Null,
		Nullable: nullable,
		Value:    o.Value,
		Tag:      tag,
	}
}

// Rules checks only the present fields. An explicit null is accepted for
// nullable fields and rejected for the rest.
func (v *Validator) Rules(rules ...Rule) error {
	details := map[string]string{}
	for _, r := range rules {
		if !r.Present {
			continue
		}
		if r.Null {
			if !r.Nullable {
				details[r.Field] = "must not be null"
			}
			continue
		}
		if r.Tag == "" {
			continue
		}
		if err := v.validate.Var(r.Value, r.Tag); err != nil {
			var verrs validator.ValidationErrors
			if errors.As(err, &verrs) && len(verrs) > 0 {
				details[r.Field] = message(verrs[0])
			} else {
				details[r.Field] = "is invalid"
			}
		}
	}
	if len(details) == 0 {
		return nil
	}
	return apperror.Invalid(details)
}

func message(fe validator.FieldError) string {
	unit := ""
	if fe.Kind() == reflect.String {
		unit = " characters"
	}
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s%s", fe.Param(), unit)
	case "max":
		return fmt.Sprintf("must be at most %s%s", fe.Param(), unit)
	case "gte":
		return fmt.Sprintf("must be greater than or equal to %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be less than or equal to %s", fe.Param())
	}
	return "is invalid"
}
