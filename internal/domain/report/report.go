package report

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Report is the standalone record of a user flagging a lesson. LessonID is a
// plain reference; reports outlive a regular lesson delete.
type Report struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"_id"`
	LessonID      uuid.UUID `gorm:"type:uuid;column:lesson_id;not null;index" json:"lessonId"`
	ReporterEmail string    `gorm:"column:reporter_email;not null" json:"reporterEmail"`
	Reason        string    `gorm:"column:reason;not null" json:"reason"`
	Details       string    `gorm:"column:details;type:text" json:"details"`
	ReportedAt    time.Time `gorm:"column:reported_at;not null;index" json:"reportedAt"`
}

func (Report) TableName() string { return "reports" }

func (r *Report) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// FlaggedLesson is one row of the admin reported-lessons view.
type FlaggedLesson struct {
	LessonID         uuid.UUID `json:"_id"`
	Title            string    `json:"title"`
	Image            string    `json:"image"`
	ReportCount      int       `json:"reportCount"`
	LatestReportDate time.Time `json:"latestReportDate"`
}
