package lesson

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Like is one member of a lesson's like set.
type Like struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	LessonID  uuid.UUID `gorm:"type:uuid;column:lesson_id;not null;uniqueIndex:idx_lesson_likes_member,priority:1" json:"lessonId"`
	Email     string    `gorm:"column:email;not null;uniqueIndex:idx_lesson_likes_member,priority:2;index" json:"email"`
	CreatedAt time.Time `gorm:"column:created_at;not null" json:"createdAt"`
}

func (Like) TableName() string { return "lesson_likes" }

// Favorite is both the user's saved-lesson entry and the lesson's mirrored
// favorite entry.
type Favorite struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	LessonID  uuid.UUID `gorm:"type:uuid;column:lesson_id;not null;uniqueIndex:idx_lesson_favorites_member,priority:1" json:"lessonId"`
	Email     string    `gorm:"column:email;not null;uniqueIndex:idx_lesson_favorites_member,priority:2;index" json:"email"`
	CreatedAt time.Time `gorm:"column:created_at;not null" json:"createdAt"`
}

func (Favorite) TableName() string { return "lesson_favorites" }

// Comment rows are append-only; ID order is insertion order.
type Comment struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	LessonID  uuid.UUID `gorm:"type:uuid;column:lesson_id;not null;index" json:"-"`
	Email     string    `gorm:"column:email;not null" json:"email"`
	Comment   string    `gorm:"column:comment;type:text;not null" json:"comment"`
	CreatedAt time.Time `gorm:"column:created_at;not null" json:"createdAt"`
}

func (Comment) TableName() string { return "lesson_comments" }

// ReportSnapshot is the copy of a report kept with the lesson for admin
// display. Ignoring reports leaves these rows in place.
type ReportSnapshot struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"_id"`
	LessonID      uuid.UUID `gorm:"type:uuid;column:lesson_id;not null;index" json:"-"`
	ReporterEmail string    `gorm:"column:reporter_email;not null" json:"reporterEmail"`
	Reason        string    `gorm:"column:reason;not null" json:"reason"`
	Details       string    `gorm:"column:details;type:text" json:"details"`
	ReportedAt    time.Time `gorm:"column:reported_at;not null" json:"reportedAt"`
}

func (ReportSnapshot) TableName() string { return "lesson_report_snapshots" }

func (r *ReportSnapshot) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
