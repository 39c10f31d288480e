package models

import (
	"strings"
	"time"
)

// StudentProfile is what a student filled in on the profile form.
// One row per user; re-submitting the form updates it.
type StudentProfile struct {
	ID                  uint      `gorm:"primaryKey" json:"id"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
	UserID              uint      `gorm:"uniqueIndex;not null" json:"user_id"`
	User                User      `gorm:"foreignKey:UserID" json:"-"`
	Name                string    `gorm:"size:255;not null" json:"name"`
	Age                 string    `gorm:"size:10;not null" json:"age"`
	Grade               string    `gorm:"size:50;not null" json:"grade"`
	Subjects            []string  `gorm:"serializer:json;type:text" json:"subjects"`
	Availability        string    `gorm:"size:255" json:"availability,omitempty"`
	Budget              string    `gorm:"size:100" json:"budget,omitempty"`
	Location            string    `gorm:"size:255" json:"location,omitempty"`
	SpecialRequirements string    `gorm:"type:text" json:"special_requirements,omitempty"`
}

// TutorProfile is what a tutor filled in on the profile form.
type TutorProfile struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	UserID       uint      `gorm:"uniqueIndex;not null" json:"user_id"`
	User         User      `gorm:"foreignKey:UserID" json:"-"`
	Name         string    `gorm:"size:255;not null" json:"name"`
	Email        string    `gorm:"size:255;not null" json:"email"`
	Phone        string    `gorm:"size:50" json:"phone,omitempty"`
	Subjects     []string  `gorm:"serializer:json;type:text" json:"subjects"`
	Education    string    `gorm:"size:255" json:"education,omitempty"`
	Experience   string    `gorm:"size:255" json:"experience,omitempty"`
	Bio          string    `gorm:"type:text" json:"bio,omitempty"`
	Availability string    `gorm:"size:255" json:"availability,omitempty"`
	HourlyRate   string    `gorm:"size:50;not null" json:"hourly_rate"`
	Location     string    `gorm:"size:255" json:"location,omitempty"`
	TravelRadius string    `gorm:"size:50" json:"travel_radius,omitempty"`
}

// SharedSubjects returns the subjects in a that also appear in b, in a's order.
func SharedSubjects(a, b []string) []string {
	var out []string
	for _, s := range a {
		for _, t := range b {
			if s == t {
				out = append(out, s)
				break
			}
		}
	}
	return out
}

// Teaches reports whether the tutor lists any of subjects.
func (p *TutorProfile) Teaches(subjects []string) bool {
	return len(SharedSubjects(p.Subjects, subjects)) > 0
}

// Serves reports whether the tutor's location contains q, ignoring case. An
// empty q matches every tutor.
func (p *TutorProfile) Serves(q string) bool {
	q = strings.TrimSpace(q)
	return q == "" || strings.Contains(strings.ToLower(p.Location), strings.ToLower(q))
}
