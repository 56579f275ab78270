package report

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/lifelessons-backend/internal/data/repos/testutil"
	types "github.com/yungbote/lifelessons-backend/internal/domain"
	"github.com/yungbote/lifelessons-backend/internal/platform/dbctx"
)

func TestReportRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	repo := NewReportRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}

	creator := testutil.SeedUser(t, tx, "creator@example.com")
	l := testutil.SeedLesson(t, tx, creator)

	first := &types.Report{LessonID: l.ID, ReporterEmail: "r1@example.com", Reason: "Spam", ReportedAt: time.Now().UTC().Add(-time.Minute)}
	if err := repo.Create(dbc, first); err != nil {
		t.Fatalf("Create: %v", err)
	}
	second := &types.Report{LessonID: l.ID, ReporterEmail: "r2@example.com", Reason: "Offensive"}
	if err := repo.Create(dbc, second); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if second.ReportedAt.IsZero() || second.ID == uuid.Nil {
		t.Fatalf("Create: expected id and reported_at to be set: %+v", second)
	}

	list, err := repo.ListByLesson(dbc, l.ID)
	if err != nil || len(list) != 2 || list[0].ID != first.ID {
		t.Fatalf("ListByLesson: %+v err=%v", list, err)
	}
	if n, err := repo.CountByLesson(dbc, l.ID); err != nil || n != 2 {
		t.Fatalf("CountByLesson: n=%d err=%v", n, err)
	}

	n, err := repo.DeleteByLesson(dbc, l.ID)
	if err != nil || n != 2 {
		t.Fatalf("DeleteByLesson: n=%d err=%v", n, err)
	}
	if n, err := repo.CountByLesson(dbc, l.ID); err != nil || n != 0 {
		t.Fatalf("CountByLesson after delete: n=%d err=%v", n, err)
	}
}

func TestReportRepoListFlagged(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	repo := NewReportRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}

	creator := testutil.SeedUser(t, tx, "creator@example.com")
	older := testutil.SeedLesson(t, tx, creator, testutil.WithTitle("Older"))
	newer := testutil.SeedLesson(t, tx, creator, testutil.WithTitle("Newer"))
	base := time.Now().UTC().Add(-time.Hour).Truncate(time.Second)

	testutil.SeedReport(t, tx, older.ID, "a@example.com", base)
	testutil.SeedReport(t, tx, older.ID, "b@example.com", base.Add(10*time.Minute))
	testutil.SeedReport(t, tx, newer.ID, "c@example.com", base.Add(20*time.Minute))
	// Report on a lesson that no longer exists.
	testutil.SeedReport(t, tx, uuid.New(), "d@example.com", base.Add(30*time.Minute))

	flagged, err := repo.ListFlagged(dbc)
	if err != nil {
		t.Fatalf("ListFlagged: %v", err)
	}
	if len(flagged) != 2 {
		t.Fatalf("ListFlagged: expected 2 lessons, got %d", len(flagged))
	}
	if flagged[0].LessonID != newer.ID || flagged[0].ReportCount != 1 {
		t.Fatalf("ListFlagged[0]: %+v", flagged[0])
	}
	if flagged[1].LessonID != older.ID || flagged[1].ReportCount != 2 || flagged[1].Title != "Older" {
		t.Fatalf("ListFlagged[1]: %+v", flagged[1])
	}
	if !flagged[1].LatestReportDate.Equal(base.Add(10 * time.Minute)) {
		t.Fatalf("ListFlagged[1]: latest=%v", flagged[1].LatestReportDate)
	}
}
