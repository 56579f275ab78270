package domain

import (
	"github.com/yungbote/lifelessons-backend/internal/domain/lesson"
	"github.com/yungbote/lifelessons-backend/internal/domain/payment"
	"github.com/yungbote/lifelessons-backend/internal/domain/report"
	"github.com/yungbote/lifelessons-backend/internal/domain/user"
)

type Lesson = lesson.Lesson
type LessonCreator = lesson.Creator
type LessonLike = lesson.Like
type LessonFavorite = lesson.Favorite
type LessonComment = lesson.Comment
type LessonReportSnapshot = lesson.ReportSnapshot

type User = user.User
type WeeklyStats = user.WeeklyStats
type OwnedLesson = user.OwnedLesson

type Report = report.Report
type FlaggedLesson = report.FlaggedLesson

type Payment = payment.Payment
