package validation

import (
	"reflect"
	"testing"

	"github.com/go-playground/validator/v10"
)

type sample struct {
	Name   string   `json:"name" validate:"required"`
	Email  string   `json:"email" validate:"required,email"`
	Age    string   `json:"age" validate:"omitempty,numeric"`
	Colors []string `json:"colors" validate:"min=1,dive,color_name"`
}

func init() {
	Register("color_name", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return s == "red" || s == "blue"
	})
}

func TestRequired(t *testing.T) {
	v := make(Violations)
	Required("name", "  ", v)
	Required("city", "Paris", v)
	if v["name"] != "required" {
		t.Fatalf("expected name required, got %v", v)
	}
	if _, ok := v["city"]; ok {
		t.Fatalf("city should be valid")
	}
}

func TestMinItems(t *testing.T) {
	v := make(Violations)
	MinItems("subjects", 0, 1, v)
	if v["subjects"] != "required" {
		t.Fatalf("expected subjects required, got %v", v)
	}
}

func TestStruct(t *testing.T) {
	tests := []struct {
		name string
		in   sample
		want []string
	}{
		{"valid", sample{Name: "Ana", Email: "a@x.com", Colors: []string{"red"}}, []string{}},
		{"missing name", sample{Email: "a@x.com", Colors: []string{"red"}}, []string{"name"}},
		{"bad email and age", sample{Name: "Ana", Email: "nope", Age: "ten", Colors: []string{"blue"}}, []string{"age", "email"}},
		{"no colors", sample{Name: "Ana", Email: "a@x.com"}, []string{"colors"}},
		{"unknown color", sample{Name: "Ana", Email: "a@x.com", Colors: []string{"red", "green"}}, []string{"colors"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Struct(tt.in).Fields()
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Struct() fields = %v, want %v", got, tt.want)
			}
		})
	}
}
