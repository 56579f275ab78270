package testutil

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/lifelessons-backend/internal/domain"
	domainLesson "github.com/yungbote/lifelessons-backend/internal/domain/lesson"
	domainUser "github.com/yungbote/lifelessons-backend/internal/domain/user"
)

func SeedUser(tb testing.TB, db *gorm.DB, email string) *types.User {
	tb.Helper()
	u := &types.User{
		Email:        email,
		Name:         "Test " + email,
		ImageURL:     "https://img.example.com/" + email,
		Role:         domainUser.RoleUser,
		LastLoggedIn: time.Now().UTC(),
	}
	if err := db.Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedAdmin(tb testing.TB, db *gorm.DB, email string) *types.User {
	tb.Helper()
	u := SeedUser(tb, db, email)
	if err := db.Model(u).Update("role", domainUser.RoleAdmin).Error; err != nil {
		tb.Fatalf("seed admin: %v", err)
	}
	u.Role = domainUser.RoleAdmin
	return u
}

type LessonOpt func(*types.Lesson)

func WithVisibility(v string) LessonOpt { return func(l *types.Lesson) { l.Visibility = v } }
func WithCategory(c string) LessonOpt   { return func(l *types.Lesson) { l.Category = c } }
func WithTone(t string) LessonOpt       { return func(l *types.Lesson) { l.EmotionalTone = t } }
func WithTitle(t string) LessonOpt      { return func(l *types.Lesson) { l.Title = t } }
func WithCreatedAt(at time.Time) LessonOpt {
	return func(l *types.Lesson) { l.CreatedAt = at }
}
func Featured() LessonOpt { return func(l *types.Lesson) { l.IsFeatured = true } }

// SeedLesson inserts a lesson owned by creator, including the user_lessons
// row. Counters on the creator are left untouched.
func SeedLesson(tb testing.TB, db *gorm.DB, creator *types.User, opts ...LessonOpt) *types.Lesson {
	tb.Helper()
	l := &types.Lesson{
		ID: uuid.New(),
		Creator: types.LessonCreator{
			Name:  creator.Name,
			Email: creator.Email,
			Image: creator.ImageURL,
		},
		Title:         "Lesson " + uuid.NewString()[:6],
		Description:   "Something learned the hard way.",
		Category:      "Career",
		EmotionalTone: "Motivational",
		Visibility:    domainLesson.VisibilityPublic,
		AccessLevel:   domainLesson.AccessFree,
	}
	for _, opt := range opts {
		opt(l)
	}
	if err := db.Create(l).Error; err != nil {
		tb.Fatalf("seed lesson: %v", err)
	}
	if err := db.Create(&types.OwnedLesson{Email: creator.Email, LessonID: l.ID}).Error; err != nil {
		tb.Fatalf("seed owned lesson: %v", err)
	}
	return l
}

func SeedReport(tb testing.TB, db *gorm.DB, lessonID uuid.UUID, reporter string, at time.Time) *types.Report {
	tb.Helper()
	r := &types.Report{
		LessonID:      lessonID,
		ReporterEmail: reporter,
		Reason:        "Spam",
		ReportedAt:    at,
	}
	if err := db.Create(r).Error; err != nil {
		tb.Fatalf("seed report: %v", err)
	}
	return r
}

// ReloadUser reads the user row fresh, bypassing any caller state.
func ReloadUser(tb testing.TB, db *gorm.DB, email string) *types.User {
	tb.Helper()
	var u types.User
	if err := db.Where("email = ?", email).First(&u).Error; err != nil {
		tb.Fatalf("reload user %s: %v", email, err)
	}
	return &u
}

func ReloadLesson(tb testing.TB, db *gorm.DB, id uuid.UUID) *types.Lesson {
	tb.Helper()
	var l types.Lesson
	if err := db.Where("id = ?", id).First(&l).Error; err != nil {
		tb.Fatalf("reload lesson %s: %v", id, err)
	}
	return &l
}
