package repos

import (
	"gorm.io/gorm"

	"github.com/yungbote/lifelessons-backend/internal/data/repos/lesson"
	"github.com/yungbote/lifelessons-backend/internal/data/repos/payment"
	"github.com/yungbote/lifelessons-backend/internal/data/repos/report"
	"github.com/yungbote/lifelessons-backend/internal/data/repos/user"
	"github.com/yungbote/lifelessons-backend/internal/platform/logger"
)

type UserRepo = user.UserRepo

type LessonRepo = lesson.LessonRepo
type LessonPublicFilter = lesson.PublicFilter
type LessonAdminFilter = lesson.AdminFilter
type LessonStats = lesson.Stats

const (
	LessonStatusFlagged    = lesson.StatusFlagged
	LessonStatusReviewed   = lesson.StatusReviewed
	LessonStatusUnreviewed = lesson.StatusUnreviewed
	LessonStatusFeatured   = lesson.StatusFeatured
)

type MembershipRepo = lesson.MembershipRepo
type CommentRepo = lesson.CommentRepo
type ReportSnapshotRepo = lesson.ReportSnapshotRepo

type ReportRepo = report.ReportRepo

type PaymentRepo = payment.PaymentRepo

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo { return user.NewUserRepo(db, baseLog) }

func NewLessonRepo(db *gorm.DB, baseLog *logger.Logger) LessonRepo {
	return lesson.NewLessonRepo(db, baseLog)
}
func NewLikeRepo(db *gorm.DB, baseLog *logger.Logger) MembershipRepo {
	return lesson.NewLikeRepo(db, baseLog)
}
func NewFavoriteRepo(db *gorm.DB, baseLog *logger.Logger) MembershipRepo {
	return lesson.NewFavoriteRepo(db, baseLog)
}
func NewCommentRepo(db *gorm.DB, baseLog *logger.Logger) CommentRepo {
	return lesson.NewCommentRepo(db, baseLog)
}
func NewReportSnapshotRepo(db *gorm.DB, baseLog *logger.Logger) ReportSnapshotRepo {
	return lesson.NewReportSnapshotRepo(db, baseLog)
}

func NewReportRepo(db *gorm.DB, baseLog *logger.Logger) ReportRepo {
	return report.NewReportRepo(db, baseLog)
}

func NewPaymentRepo(db *gorm.DB, baseLog *logger.Logger) PaymentRepo {
	return payment.NewPaymentRepo(db, baseLog)
}
