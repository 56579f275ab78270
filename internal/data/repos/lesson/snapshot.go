package lesson

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/lifelessons-backend/internal/domain"
	"github.com/yungbote/lifelessons-backend/internal/platform/dbctx"
	"github.com/yungbote/lifelessons-backend/internal/platform/logger"
)

// ReportSnapshotRepo holds the per-lesson copies of filed reports.
type ReportSnapshotRepo interface {
	Append(dbc dbctx.Context, snapshot *types.LessonReportSnapshot) error
	ListByLesson(dbc dbctx.Context, lessonID uuid.UUID) ([]*types.LessonReportSnapshot, error)
	Count(dbc dbctx.Context, lessonID uuid.UUID) (int64, error)
}

type reportSnapshotRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewReportSnapshotRepo(db *gorm.DB, baseLog *logger.Logger) ReportSnapshotRepo {
	return &reportSnapshotRepo{db: db, log: baseLog.With("repo", "ReportSnapshotRepo")}
}

func (r *reportSnapshotRepo) Append(dbc dbctx.Context, snapshot *types.LessonReportSnapshot) error {
	if snapshot == nil {
		return errors.New("nil report snapshot")
	}
	if snapshot.ReportedAt.IsZero() {
		snapshot.ReportedAt = time.Now().UTC()
	}
	return dbc.DB(r.db).Create(snapshot).Error
}

func (r *reportSnapshotRepo) ListByLesson(dbc dbctx.Context, lessonID uuid.UUID) ([]*types.LessonReportSnapshot, error) {
	var out []*types.LessonReportSnapshot
	if err := dbc.DB(r.db).
		Where("lesson_id = ?", lessonID).
		Order("reported_at ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *reportSnapshotRepo) Count(dbc dbctx.Context, lessonID uuid.UUID) (int64, error) {
	var count int64
	err := dbc.DB(r.db).
		Model(&types.LessonReportSnapshot{}).
		Where("lesson_id = ?", lessonID).
		Count(&count).Error
	return count, err
}
