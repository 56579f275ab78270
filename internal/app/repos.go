package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/lifelessons-backend/internal/data/repos"
	"github.com/yungbote/lifelessons-backend/internal/platform/logger"
)

type Repos struct {
	User           repos.UserRepo
	Lesson         repos.LessonRepo
	Like           repos.MembershipRepo
	Favorite       repos.MembershipRepo
	Comment        repos.CommentRepo
	ReportSnapshot repos.ReportSnapshotRepo
	Report         repos.ReportRepo
	Payment        repos.PaymentRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:           repos.NewUserRepo(db, log),
		Lesson:         repos.NewLessonRepo(db, log),
		Like:           repos.NewLikeRepo(db, log),
		Favorite:       repos.NewFavoriteRepo(db, log),
		Comment:        repos.NewCommentRepo(db, log),
		ReportSnapshot: repos.NewReportSnapshotRepo(db, log),
		Report:         repos.NewReportRepo(db, log),
		Payment:        repos.NewPaymentRepo(db, log),
	}
}
