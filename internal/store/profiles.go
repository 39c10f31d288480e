package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/diewo77/tutorconnect/internal/models"
	"github.com/diewo77/tutorconnect/internal/registration"
)

// Profiles stores student and tutor profiles, one of each per user at most.
type Profiles struct {
	db *gorm.DB
}

func NewProfiles(db *gorm.DB) *Profiles { return &Profiles{db: db} }

var (
	studentUpdateColumns = []string{
		"updated_at", "name", "age", "grade", "subjects",
		"availability", "budget", "location", "special_requirements",
	}
	tutorUpdateColumns = []string{
		"updated_at", "name", "email", "phone", "subjects", "education", "experience",
		"bio", "availability", "hourly_rate", "location", "travel_radius",
	}
)

func trimAll(s []string) []string {
	out := make([]string, len(s))
	for i, v := range s {
		out[i] = strings.TrimSpace(v)
	}
	return out
}

// SaveStudent creates or replaces the user's student profile.
func (s *Profiles) SaveStudent(ctx context.Context, userID uint, d registration.StudentDraft) error {
	const op = "store.Profiles.SaveStudent"

	row := models.StudentProfile{
		UserID:              userID,
		Name:                strings.TrimSpace(d.Name),
		Age:                 strings.TrimSpace(d.Age),
		Grade:               d.Grade,
		Subjects:            trimAll(d.Subjects),
		Availability:        d.Availability,
		Budget:              d.Budget,
		Location:            strings.TrimSpace(d.Location),
		SpecialRequirements: d.SpecialRequirements,
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns(studentUpdateColumns),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// SaveTutor creates or replaces the user's tutor profile.
func (s *Profiles) SaveTutor(ctx context.Context, userID uint, d registration.TutorDraft) error {
	const op = "store.Profiles.SaveTutor"

	row := models.TutorProfile{
		UserID:       userID,
		Name:         strings.TrimSpace(d.Name),
		Email:        strings.TrimSpace(d.Email),
		Phone:        d.Phone,
		Subjects:     trimAll(d.Subjects),
		Education:    d.Education,
		Experience:   d.Experience,
		Bio:          d.Bio,
		Availability: d.Availability,
		HourlyRate:   strings.TrimSpace(d.HourlyRate),
		Location:     strings.TrimSpace(d.Location),
		TravelRadius: d.TravelRadius,
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns(tutorUpdateColumns),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// StudentPersister adapts SaveStudent to the profile form controller.
func (s *Profiles) StudentPersister() registration.Persister[registration.StudentDraft] {
	return registration.PersistFunc[registration.StudentDraft](func(ctx context.Context, sess registration.Session, d registration.StudentDraft) error {
		return s.SaveStudent(ctx, sess.UserID, d)
	})
}

// TutorPersister adapts SaveTutor to the profile form controller.
func (s *Profiles) TutorPersister() registration.Persister[registration.TutorDraft] {
	return registration.PersistFunc[registration.TutorDraft](func(ctx context.Context, sess registration.Session, d registration.TutorDraft) error {
		return s.SaveTutor(ctx, sess.UserID, d)
	})
}

func (s *Profiles) Student(ctx context.Context, userID uint) (*models.StudentProfile, error) {
	const op = "store.Profiles.Student"

	var p models.StudentProfile
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &p, nil
}

func (s *Profiles) Tutor(ctx context.Context, userID uint) (*models.TutorProfile, error) {
	const op = "store.Profiles.Tutor"

	var p models.TutorProfile
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &p, nil
}

// MatchTutors returns tutors teaching any of subjects whose location contains
// location (ignoring case; empty matches all), ordered by the number of shared
// subjects and then by name. Subjects are stored as JSON, so the overlap is
// computed here rather than in SQL.
func (s *Profiles) MatchTutors(ctx context.Context, subjects []string, location string) ([]models.TutorProfile, error) {
	const op = "store.Profiles.MatchTutors"

	var all []models.TutorProfile
	if err := s.db.WithContext(ctx).Order("name").Find(&all).Error; err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	var out []models.TutorProfile
	for i := range all {
		if all[i].Teaches(subjects) && all[i].Serves(location) {
			out = append(out, all[i])
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return len(models.SharedSubjects(out[i].Subjects, subjects)) > len(models.SharedSubjects(out[j].Subjects, subjects))
	})
	return out, nil
}

// MatchStudents returns students needing any of subjects, excluding
// excludeUserID, ordered by name.
func (s *Profiles) MatchStudents(ctx context.Context, subjects []string, excludeUserID uint) ([]models.StudentProfile, error) {
	const op = "store.Profiles.MatchStudents"

	var all []models.StudentProfile
	if err := s.db.WithContext(ctx).Where("user_id <> ?", excludeUserID).Order("name").Find(&all).Error; err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	var out []models.StudentProfile
	for _, p := range all {
		if len(models.SharedSubjects(p.Subjects, subjects)) > 0 {
			out = append(out, p)
		}
	}
	return out, nil
}
