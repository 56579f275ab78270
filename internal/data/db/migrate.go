package db

import (
	"fmt"

	"gorm.io/gorm"

	types "github.com/yungbote/lifelessons-backend/internal/domain"
)

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(
		// =========================
		// Users
		// =========================
		&types.User{},
		&types.OwnedLesson{},

		// =========================
		// Lessons + engagement
		// =========================
		&types.Lesson{},
		&types.LessonLike{},
		&types.LessonFavorite{},
		&types.LessonComment{},
		&types.LessonReportSnapshot{},

		// =========================
		// Moderation
		// =========================
		&types.Report{},

		// =========================
		// Payments
		// =========================
		&types.Payment{},
	)
}

// EnsureLessonIndexes adds indexes gorm tags cannot express. The statements are
// valid on both Postgres and SQLite.
func EnsureLessonIndexes(db *gorm.DB) error {
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_lessons_public_recent
		ON lessons (created_at DESC)
		WHERE visibility = 'Public';
	`).Error; err != nil {
		return fmt.Errorf("create idx_lessons_public_recent: %w", err)
	}
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_reports_lesson_reported
		ON reports (lesson_id, reported_at);
	`).Error; err != nil {
		return fmt.Errorf("create idx_reports_lesson_reported: %w", err)
	}
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_lesson_comments_lesson_seq
		ON lesson_comments (lesson_id, id);
	`).Error; err != nil {
		return fmt.Errorf("create idx_lesson_comments_lesson_seq: %w", err)
	}
	return nil
}

// AutoMigrate creates tables and the extra lesson indexes.
func AutoMigrate(db *gorm.DB) error {
	if err := AutoMigrateAll(db); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return EnsureLessonIndexes(db)
}
