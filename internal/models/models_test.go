package models

import (
	"reflect"
	"testing"
)

func TestUserRole_TableName(t *testing.T) {
	if got := (UserRole{}).TableName(); got != "user_roles" {
		t.Errorf("TableName() = %q, want user_roles", got)
	}
}

func TestSharedSubjects(t *testing.T) {
	tests := []struct {
		name string
		a, b []string
		want []string
	}{
		{"overlap keeps order of a", []string{"Art", "Physics", "Music"}, []string{"Music", "Art"}, []string{"Art", "Music"}},
		{"no overlap", []string{"Art"}, []string{"Physics"}, nil},
		{"empty", nil, []string{"Physics"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SharedSubjects(tt.a, tt.b); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SharedSubjects() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTutorProfile_Serves(t *testing.T) {
	p := &TutorProfile{Location: "North London"}
	tests := []struct {
		q    string
		want bool
	}{
		{"", true},
		{"london", true},
		{"  North ", true},
		{"Leeds", false},
	}
	for _, tt := range tests {
		if got := p.Serves(tt.q); got != tt.want {
			t.Errorf("Serves(%q) = %v, want %v", tt.q, got, tt.want)
		}
	}
	if p.Teaches(nil) {
		t.Errorf("Teaches(nil) = true, want false")
	}
}
