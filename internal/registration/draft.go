package registration

import (
	"errors"
	"fmt"
	"slices"

	"github.com/diewo77/tutorconnect/validation"
)

// ErrUnknownField is returned when an edit names a field the draft lacks.
var ErrUnknownField = errors.New("unknown field")

// Field names a draft field as it appears in forms and JSON.
type Field string

const (
	FieldName                Field = "name"
	FieldAge                 Field = "age"
	FieldGrade               Field = "grade"
	FieldSubjects            Field = "subjects"
	FieldAvailability        Field = "availability"
	FieldBudget              Field = "budget"
	FieldLocation            Field = "location"
	FieldSpecialRequirements Field = "specialRequirements"
	FieldEmail               Field = "email"
	FieldPhone               Field = "phone"
	FieldEducation           Field = "education"
	FieldExperience          Field = "experience"
	FieldBio                 Field = "bio"
	FieldHourlyRate          Field = "hourlyRate"
	FieldTravelRadius        Field = "travelRadius"
)

// Edit is one user change to a draft: either setting a text field or
// toggling a subject (Field == FieldSubjects, Value is the subject).
type Edit struct {
	Field Field
	Value string
}

func SetField(f Field, value string) Edit { return Edit{Field: f, Value: value} }

func ToggleSubject(subject string) Edit { return Edit{Field: FieldSubjects, Value: subject} }

// Draft is an immutable profile draft; Apply returns the edited copy.
type Draft[D any] interface {
	Role() Role
	Apply(e Edit) (D, error)
	Validate() validation.Violations
}

// Reduce folds edits into d in order. On error the last good draft is returned.
func Reduce[D Draft[D]](d D, edits ...Edit) (D, error) {
	for _, e := range edits {
		next, err := d.Apply(e)
		if err != nil {
			return d, err
		}
		d = next
	}
	return d, nil
}

// toggle returns a new slice with s removed if present, appended otherwise.
// An emptied set is nil so a double toggle restores the zero draft.
func toggle(set []string, s string) []string {
	out := make([]string, 0, len(set)+1)
	found := false
	for _, v := range set {
		if v == s {
			found = true
			continue
		}
		out = append(out, v)
	}
	if !found {
		out = append(out, s)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func hasSubject(set []string, s string) bool { return slices.Contains(set, s) }

// Length limits on the drafts match the profile table columns; Bio and
// SpecialRequirements are TEXT.

// StudentDraft is the student profile being edited.
type StudentDraft struct {
	Name                string   `json:"name" validate:"max=255"`
	Age                 string   `json:"age" validate:"omitempty,number,max=3"`
	Grade               string   `json:"grade" validate:"omitempty,grade"`
	Subjects            []string `json:"subjects" validate:"unique,dive,subject"`
	Availability        string   `json:"availability" validate:"max=255"`
	Budget              string   `json:"budget" validate:"max=100"`
	Location            string   `json:"location" validate:"max=255"`
	SpecialRequirements string   `json:"specialRequirements"`
}

func (StudentDraft) Role() Role { return RoleStudent }

func (d StudentDraft) HasSubject(s string) bool { return hasSubject(d.Subjects, s) }

func (d StudentDraft) Apply(e Edit) (StudentDraft, error) {
	switch e.Field {
	case FieldName:
		d.Name = e.Value
	case FieldAge:
		d.Age = e.Value
	case FieldGrade:
		d.Grade = e.Value
	case FieldSubjects:
		d.Subjects = toggle(d.Subjects, e.Value)
	case FieldAvailability:
		d.Availability = e.Value
	case FieldBudget:
		d.Budget = e.Value
	case FieldLocation:
		d.Location = e.Value
	case FieldSpecialRequirements:
		d.SpecialRequirements = e.Value
	default:
		return d, fmt.Errorf("%w: %s", ErrUnknownField, e.Field)
	}
	return d, nil
}

// Validate checks every required field and every format rule in one pass.
func (d StudentDraft) Validate() validation.Violations {
	v := validation.Struct(d)
	validation.Required(string(FieldName), d.Name, v)
	validation.Required(string(FieldAge), d.Age, v)
	validation.Required(string(FieldGrade), d.Grade, v)
	validation.MinItems(string(FieldSubjects), len(d.Subjects), 1, v)
	return v
}

// TutorDraft is the tutor profile being edited.
type TutorDraft struct {
	Name         string   `json:"name" validate:"max=255"`
	Email        string   `json:"email" validate:"omitempty,email,max=255"`
	Phone        string   `json:"phone" validate:"max=50"`
	Subjects     []string `json:"subjects" validate:"unique,dive,subject"`
	Education    string   `json:"education" validate:"max=255"`
	Experience   string   `json:"experience" validate:"max=255"`
	Bio          string   `json:"bio"`
	Availability string   `json:"availability" validate:"max=255"`
	HourlyRate   string   `json:"hourlyRate" validate:"max=50"`
	Location     string   `json:"location" validate:"max=255"`
	TravelRadius string   `json:"travelRadius" validate:"max=50"`
}

func (TutorDraft) Role() Role { return RoleTutor }

func (d TutorDraft) HasSubject(s string) bool { return hasSubject(d.Subjects, s) }

func (d TutorDraft) Apply(e Edit) (TutorDraft, error) {
	switch e.Field {
	case FieldName:
		d.Name = e.Value
	case FieldEmail:
		d.Email = e.Value
	case FieldPhone:
		d.Phone = e.Value
	case FieldSubjects:
		d.Subjects = toggle(d.Subjects, e.Value)
	case FieldEducation:
		d.Education = e.Value
	case FieldExperience:
		d.Experience = e.Value
	case FieldBio:
		d.Bio = e.Value
	case FieldAvailability:
		d.Availability = e.Value
	case FieldHourlyRate:
		d.HourlyRate = e.Value
	case FieldLocation:
		d.Location = e.Value
	case FieldTravelRadius:
		d.TravelRadius = e.Value
	default:
		return d, fmt.Errorf("%w: %s", ErrUnknownField, e.Field)
	}
	return d, nil
}

func (d TutorDraft) Validate() validation.Violations {
	v := validation.Struct(d)
	validation.Required(string(FieldName), d.Name, v)
	validation.Required(string(FieldEmail), d.Email, v)
	validation.MinItems(string(FieldSubjects), len(d.Subjects), 1, v)
	validation.Required(string(FieldHourlyRate), d.HourlyRate, v)
	return v
}

// StudentFields and TutorFields list the text fields of each draft in form order.
var (
	StudentFields = []Field{FieldName, FieldAge, FieldGrade, FieldAvailability, FieldBudget, FieldLocation, FieldSpecialRequirements}
	TutorFields   = []Field{FieldName, FieldEmail, FieldPhone, FieldEducation, FieldExperience, FieldBio, FieldAvailability, FieldHourlyRate, FieldLocation, FieldTravelRadius}
)
