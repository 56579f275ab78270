package services

import (
	"testing"

	"gorm.io/gorm"

	"github.com/yungbote/lifelessons-backend/internal/data/repos"
	"github.com/yungbote/lifelessons-backend/internal/data/repos/testutil"
	"github.com/yungbote/lifelessons-backend/internal/platform/apierr"
	"github.com/yungbote/lifelessons-backend/internal/platform/logger"
)

// testRepos builds every repo on one DB. Services open their own
// transactions, so tests hand them the root DB rather than testutil.Tx.
type testRepos struct {
	db        *gorm.DB
	log       *logger.Logger
	lessons   repos.LessonRepo
	users     repos.UserRepo
	likes     repos.MembershipRepo
	favorites repos.MembershipRepo
	comments  repos.CommentRepo
	snapshots repos.ReportSnapshotRepo
	reports   repos.ReportRepo
	payments  repos.PaymentRepo
}

func newTestRepos(t *testing.T) *testRepos {
	t.Helper()
	db := testutil.DB(t)
	log := testutil.Logger(t)
	return &testRepos{
		db:        db,
		log:       log,
		lessons:   repos.NewLessonRepo(db, log),
		users:     repos.NewUserRepo(db, log),
		likes:     repos.NewLikeRepo(db, log),
		favorites: repos.NewFavoriteRepo(db, log),
		comments:  repos.NewCommentRepo(db, log),
		snapshots: repos.NewReportSnapshotRepo(db, log),
		reports:   repos.NewReportRepo(db, log),
		payments:  repos.NewPaymentRepo(db, log),
	}
}

func (r *testRepos) engagement() EngagementService {
	return NewEngagementService(r.db, r.log, r.lessons, r.users, r.likes, r.favorites, r.comments, r.snapshots, r.reports)
}

func wantStatus(t *testing.T, err error, status int) {
	t.Helper()
	if err == nil {
		t.Fatalf("want error with status %d, got nil", status)
	}
	if got := apierr.StatusOf(err); got != status {
		t.Fatalf("status: want=%d got=%d (%v)", status, got, err)
	}
}

func (r *testRepos) lessonService() LessonService {
	return NewLessonService(r.db, r.log, r.lessons, r.users)
}

func strPtr(s string) *string { return &s }

func (r *testRepos) moderation() ModerationService {
	return NewModerationService(r.db, r.log, r.lessons, r.reports)
}

func (r *testRepos) userService() UserService {
	return NewUserService(r.db, r.log, r.users, r.lessons)
}
