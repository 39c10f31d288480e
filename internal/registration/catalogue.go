package registration

import (
	"slices"
	"strconv"

	"github.com/go-playground/validator/v10"

	"github.com/diewo77/tutorconnect/validation"
)

var subjectCatalogue = []string{
	"Mathematics", "Physics", "Chemistry", "Biology", "English",
	"History", "Geography", "Computer Science", "Music", "Art",
}

var gradeLevels = func() []string {
	out := make([]string, 0, 14)
	for i := 1; i <= 12; i++ {
		out = append(out, "Grade "+strconv.Itoa(i))
	}
	return append(out, "University", "Adult Learner")
}()

// Subjects returns the subject catalogue shared by both profile forms.
func Subjects() []string { return append([]string(nil), subjectCatalogue...) }

// Grades returns the selectable grade levels for students.
func Grades() []string { return append([]string(nil), gradeLevels...) }

func IsSubject(s string) bool { return slices.Contains(subjectCatalogue, s) }

func IsGrade(s string) bool { return slices.Contains(gradeLevels, s) }

func init() {
	validation.Register("subject", func(fl validator.FieldLevel) bool { return IsSubject(fl.Field().String()) })
	validation.Register("grade", func(fl validator.FieldLevel) bool { return IsGrade(fl.Field().String()) })
}
