// Package validation collects field violations for form handlers.
// Struct tags are checked with go-playground/validator; the result is always
// flattened into Violations keyed by the field's json name.
package validation

import (
	"errors"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

type Violations map[string]string

func (v Violations) Empty() bool { return len(v) == 0 }

// Fields returns the violated field names in sorted order.
func (v Violations) Fields() []string {
	out := make([]string, 0, len(v))
	for f := range v {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// Basic validators
func Required(field, value string, v Violations) {
	if strings.TrimSpace(value) == "" {
		v[field] = "required"
	}
}

func MinItems(field string, n, minItems int, v Violations) {
	if n < minItems {
		v[field] = "required"
	}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	vd := validator.New(validator.WithRequiredStructEnabled())
	vd.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	return vd
}

// Register adds a custom tag. It must be called before any concurrent use of
// Struct, typically from a package init.
func Register(tag string, fn validator.Func) {
	if err := validate.RegisterValidation(tag, fn); err != nil {
		panic("validation: register " + tag + ": " + err.Error())
	}
}

// Struct validates s against its `validate` tags. The first failing rule per
// field wins; slice element failures are reported on the slice field.
func Struct(s any) Violations {
	v := make(Violations)
	err := validate.Struct(s)
	if err == nil {
		return v
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		v["_"] = "invalid"
		return v
	}
	for _, fe := range fieldErrs {
		field, _, _ := strings.Cut(fe.Field(), "[")
		if _, seen := v[field]; !seen {
			v[field] = fe.Tag()
		}
	}
	return v
}
