package report

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/lifelessons-backend/internal/domain"
	"github.com/yungbote/lifelessons-backend/internal/platform/dbctx"
	"github.com/yungbote/lifelessons-backend/internal/platform/logger"
)

type ReportRepo interface {
	Create(dbc dbctx.Context, report *types.Report) error
	ListByLesson(dbc dbctx.Context, lessonID uuid.UUID) ([]*types.Report, error)
	CountByLesson(dbc dbctx.Context, lessonID uuid.UUID) (int64, error)
	DeleteByLesson(dbc dbctx.Context, lessonID uuid.UUID) (int64, error)
	ListFlagged(dbc dbctx.Context) ([]*types.FlaggedLesson, error)
}

type reportRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewReportRepo(db *gorm.DB, baseLog *logger.Logger) ReportRepo {
	repoLog := baseLog.With("repo", "ReportRepo")
	return &reportRepo{db: db, log: repoLog}
}

func (r *reportRepo) Create(dbc dbctx.Context, report *types.Report) error {
	if report.ReportedAt.IsZero() {
		report.ReportedAt = time.Now().UTC()
	}
	return dbc.DB(r.db).Create(report).Error
}

func (r *reportRepo) ListByLesson(dbc dbctx.Context, lessonID uuid.UUID) ([]*types.Report, error) {
	var results []*types.Report
	if err := dbc.DB(r.db).
		Where("lesson_id = ?", lessonID).
		Order("reported_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *reportRepo) CountByLesson(dbc dbctx.Context, lessonID uuid.UUID) (int64, error) {
	var n int64
	err := dbc.DB(r.db).Model(&types.Report{}).Where("lesson_id = ?", lessonID).Count(&n).Error
	return n, err
}

func (r *reportRepo) DeleteByLesson(dbc dbctx.Context, lessonID uuid.UUID) (int64, error) {
	res := dbc.DB(r.db).Where("lesson_id = ?", lessonID).Delete(&types.Report{})
	return res.RowsAffected, res.Error
}

type flaggedRow struct {
	LessonID   uuid.UUID
	Title      string
	Image      string
	ReportedAt time.Time
}

// ListFlagged groups standalone reports by lesson, newest report first.
// Reports whose lesson no longer exists are skipped.
func (r *reportRepo) ListFlagged(dbc dbctx.Context) ([]*types.FlaggedLesson, error) {
	var rows []flaggedRow
	if err := dbc.DB(r.db).
		Table("reports").
		Select("reports.lesson_id AS lesson_id, lessons.title AS title, lessons.image AS image, reports.reported_at AS reported_at").
		Joins("JOIN lessons ON lessons.id = reports.lesson_id").
		Order("reports.lesson_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	byLesson := make(map[uuid.UUID]*types.FlaggedLesson)
	out := make([]*types.FlaggedLesson, 0)
	for _, row := range rows {
		f, ok := byLesson[row.LessonID]
		if !ok {
			f = &types.FlaggedLesson{
				LessonID: row.LessonID,
				Title:    row.Title,
				Image:    row.Image,
			}
			byLesson[row.LessonID] = f
			out = append(out, f)
		}
		f.ReportCount++
		if row.ReportedAt.After(f.LatestReportDate) {
			f.LatestReportDate = row.ReportedAt
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].LatestReportDate.Equal(out[j].LatestReportDate) {
			return out[i].LessonID.String() < out[j].LessonID.String()
		}
		return out[i].LatestReportDate.After(out[j].LatestReportDate)
	})
	return out, nil
}
