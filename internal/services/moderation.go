package services

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/lifelessons-backend/internal/data/repos"
	types "github.com/yungbote/lifelessons-backend/internal/domain"
	domainLesson "github.com/yungbote/lifelessons-backend/internal/domain/lesson"
	"github.com/yungbote/lifelessons-backend/internal/platform/apierr"
	"github.com/yungbote/lifelessons-backend/internal/platform/dbctx"
	"github.com/yungbote/lifelessons-backend/internal/platform/logger"
)

type AdminLessonQuery struct {
	Category   string
	Visibility string
	Status     string
}

type AdminDeleteResult struct {
	Message        string `json:"message"`
	LessonDeleted  bool   `json:"lessonDeleted,omitempty"`
	ReportsDeleted int64  `json:"reportsDeleted,omitempty"`
}

type IgnoreResult struct {
	Message        string `json:"message"`
	ReportsDeleted int64  `json:"reportsDeleted"`
}

type ModerationService interface {
	ListLessons(ctx context.Context, q AdminLessonQuery) ([]*types.Lesson, error)
	SetFeatured(ctx context.Context, lessonID uuid.UUID, featured bool) (*UpdateAck, error)
	SetReviewed(ctx context.Context, lessonID uuid.UUID, reviewed bool) (*UpdateAck, error)
	Stats(ctx context.Context) (*repos.LessonStats, error)
	ListFlagged(ctx context.Context) ([]*types.FlaggedLesson, error)
	ReportsForLesson(ctx context.Context, lessonID uuid.UUID) ([]*types.Report, error)
	DeleteLesson(ctx context.Context, lessonID uuid.UUID) (*AdminDeleteResult, error)
	IgnoreReports(ctx context.Context, lessonID uuid.UUID) (*IgnoreResult, error)
}

type moderationService struct {
	db      *gorm.DB
	log     *logger.Logger
	lessons repos.LessonRepo
	reports repos.ReportRepo
}

func NewModerationService(db *gorm.DB, log *logger.Logger, lessons repos.LessonRepo, reports repos.ReportRepo) ModerationService {
	serviceLog := log.With("service", "ModerationService")
	return &moderationService{db: db, log: serviceLog, lessons: lessons, reports: reports}
}

func (s *moderationService) ListLessons(ctx context.Context, q AdminLessonQuery) ([]*types.Lesson, error) {
	dbc := dbctx.Context{Ctx: ctx}
	out, err := s.lessons.ListAdmin(dbc, repos.LessonAdminFilter{
		Category:   q.Category,
		Visibility: q.Visibility,
		Status:     q.Status,
	})
	if err != nil {
		return nil, wrapStoreErr("admin list lessons", err)
	}
	if out == nil {
		out = []*types.Lesson{}
	}
	if err := s.lessons.Hydrate(dbc, out); err != nil {
		return nil, wrapStoreErr("admin list lessons", err)
	}
	return out, nil
}

func (s *moderationService) setFlag(ctx context.Context, lessonID uuid.UUID, column string, value bool, current func(*types.Lesson) bool) (*UpdateAck, error) {
	var ack *UpdateAck
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		inner := dbctx.Context{Ctx: ctx, Tx: tx}
		lesson, err := s.lessons.GetByID(inner, lessonID)
		if err != nil {
			return err
		}
		if lesson == nil {
			return apierr.NotFound("Lesson not found.")
		}
		if current(lesson) == value {
			ack = newUpdateAck(1, 0)
			return nil
		}
		n, err := s.lessons.UpdateFields(inner, lessonID, map[string]interface{}{column: value})
		if err != nil {
			return err
		}
		ack = newUpdateAck(1, n)
		return nil
	})
	if err != nil {
		return nil, wrapStoreErr("set "+column, err)
	}
	s.log.Info("lesson flag set", "lesson_id", lessonID, "column", column, "value", value)
	return ack, nil
}

func (s *moderationService) SetFeatured(ctx context.Context, lessonID uuid.UUID, featured bool) (*UpdateAck, error) {
	return s.setFlag(ctx, lessonID, "is_featured", featured, func(l *types.Lesson) bool { return l.IsFeatured })
}

func (s *moderationService) SetReviewed(ctx context.Context, lessonID uuid.UUID, reviewed bool) (*UpdateAck, error) {
	return s.setFlag(ctx, lessonID, "is_reviewed", reviewed, func(l *types.Lesson) bool { return l.IsReviewed })
}

func (s *moderationService) Stats(ctx context.Context) (*repos.LessonStats, error) {
	st, err := s.lessons.Stats(dbctx.Context{Ctx: ctx})
	if err != nil {
		return nil, wrapStoreErr("lesson stats", err)
	}
	return &st, nil
}

func (s *moderationService) ListFlagged(ctx context.Context) ([]*types.FlaggedLesson, error) {
	out, err := s.reports.ListFlagged(dbctx.Context{Ctx: ctx})
	if err != nil {
		return nil, wrapStoreErr("list flagged", err)
	}
	if out == nil {
		out = []*types.FlaggedLesson{}
	}
	return out, nil
}

func (s *moderationService) ReportsForLesson(ctx context.Context, lessonID uuid.UUID) ([]*types.Report, error) {
	out, err := s.reports.ListByLesson(dbctx.Context{Ctx: ctx}, lessonID)
	if err != nil {
		return nil, wrapStoreErr("reports for lesson", err)
	}
	if out == nil {
		out = []*types.Report{}
	}
	return out, nil
}

// DeleteLesson removes the lesson and its standalone reports together. Reports
// are cleared even when the lesson row is already gone.
func (s *moderationService) DeleteLesson(ctx context.Context, lessonID uuid.UUID) (*AdminDeleteResult, error) {
	var lessonRows, reportRows int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		inner := dbctx.Context{Ctx: ctx, Tx: tx}
		var err error
		if lessonRows, err = s.lessons.Delete(inner, lessonID); err != nil {
			return err
		}
		reportRows, err = s.reports.DeleteByLesson(inner, lessonID)
		return err
	})
	if err != nil {
		return nil, wrapStoreErr("admin delete lesson", err)
	}
	if lessonRows == 0 {
		return &AdminDeleteResult{Message: "Lesson not found."}, nil
	}
	s.log.Info("lesson removed by admin", "lesson_id", lessonID, "reports_deleted", reportRows)
	return &AdminDeleteResult{
		Message:        "Lesson and associated reports deleted successfully.",
		LessonDeleted:  true,
		ReportsDeleted: reportRows,
	}, nil
}

// IgnoreReports clears standalone reports and the lesson's report_count.
// Report snapshots on the lesson stay.
func (s *moderationService) IgnoreReports(ctx context.Context, lessonID uuid.UUID) (*IgnoreResult, error) {
	var deleted int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		inner := dbctx.Context{Ctx: ctx, Tx: tx}
		var err error
		if deleted, err = s.reports.DeleteByLesson(inner, lessonID); err != nil {
			return err
		}
		_, err = s.lessons.ResetCounter(inner, lessonID, domainLesson.ColReportCount)
		return err
	})
	if err != nil {
		return nil, wrapStoreErr("ignore reports", err)
	}
	if deleted == 0 {
		return &IgnoreResult{Message: "No active reports were found for this lesson, or reports already cleared."}, nil
	}
	s.log.Info("reports ignored", "lesson_id", lessonID, "reports_deleted", deleted)
	return &IgnoreResult{
		Message:        "All associated reports successfully ignored. Lesson cleared from flagged list.",
		ReportsDeleted: deleted,
	}, nil
}
