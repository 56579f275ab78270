package user

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/lifelessons-backend/internal/data/repos/testutil"
	types "github.com/yungbote/lifelessons-backend/internal/domain"
	domainUser "github.com/yungbote/lifelessons-backend/internal/domain/user"
	"github.com/yungbote/lifelessons-backend/internal/platform/dbctx"
)

func TestUserRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	repo := NewUserRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}

	u := &types.User{Email: "userrepo@example.com", Name: "A", ImageURL: "https://img/a"}
	if err := repo.Create(dbc, u); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if u.ID == uuid.Nil {
		t.Fatalf("Create: expected id to be assigned")
	}

	got, err := repo.GetByEmail(dbc, u.Email)
	if err != nil {
		t.Fatalf("GetByEmail: %v", err)
	}
	if got == nil || got.ID != u.ID || got.Role != domainUser.RoleUser {
		t.Fatalf("GetByEmail: unexpected result: %+v", got)
	}

	missing, err := repo.GetByEmail(dbc, "does-not-exist@example.com")
	if err != nil {
		t.Fatalf("GetByEmail (missing): %v", err)
	}
	if missing != nil {
		t.Fatalf("GetByEmail (missing): expected nil, got %+v", missing)
	}

	gotByEmails, err := repo.GetByEmails(dbc, []string{u.Email, "nobody@example.com"})
	if err != nil {
		t.Fatalf("GetByEmails: %v", err)
	}
	if len(gotByEmails) != 1 {
		t.Fatalf("GetByEmails: expected 1 user, got %d", len(gotByEmails))
	}

	if err := repo.Create(dbc, &types.User{Email: "other@example.com"}); err != nil {
		t.Fatalf("Create other: %v", err)
	}
	others, err := repo.ListExcept(dbc, u.Email)
	if err != nil {
		t.Fatalf("ListExcept: %v", err)
	}
	if len(others) != 1 || others[0].Email != "other@example.com" {
		t.Fatalf("ListExcept: unexpected result: %+v", others)
	}

	at := time.Now().UTC().Add(-time.Hour).Truncate(time.Second)
	if n, err := repo.TouchLastLoggedIn(dbc, u.Email, at); err != nil || n != 1 {
		t.Fatalf("TouchLastLoggedIn: n=%d err=%v", n, err)
	}
	if n, err := repo.UpdateProfile(dbc, u.Email, map[string]interface{}{"name": "Renamed"}); err != nil || n != 1 {
		t.Fatalf("UpdateProfile: n=%d err=%v", n, err)
	}
	got, _ = repo.GetByEmail(dbc, u.Email)
	if got.Name != "Renamed" || !got.LastLoggedIn.Equal(at) {
		t.Fatalf("profile not updated: %+v", got)
	}
}

func TestUserRepoSetPremium(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	repo := NewUserRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}

	testutil.SeedUser(t, tx, "premium@example.com")

	matched, modified, err := repo.SetPremium(dbc, "premium@example.com", true)
	if err != nil || matched != 1 || modified != 1 {
		t.Fatalf("SetPremium: matched=%d modified=%d err=%v", matched, modified, err)
	}
	matched, modified, err = repo.SetPremium(dbc, "premium@example.com", true)
	if err != nil || matched != 1 || modified != 0 {
		t.Fatalf("SetPremium (again): matched=%d modified=%d err=%v", matched, modified, err)
	}
	matched, _, err = repo.SetPremium(dbc, "ghost@example.com", true)
	if err != nil || matched != 0 {
		t.Fatalf("SetPremium (missing): matched=%d err=%v", matched, err)
	}
}

func TestUserRepoAdjustStats(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	repo := NewUserRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}

	testutil.SeedUser(t, tx, "stats@example.com")

	n, err := repo.AdjustStats(dbc, "stats@example.com", map[string]int{
		domainUser.ColTotalLessons:    1,
		domainUser.StatLessonsCreated: 1,
		domainUser.StatScore:          5,
	})
	if err != nil || n != 1 {
		t.Fatalf("AdjustStats: n=%d err=%v", n, err)
	}
	if _, err := repo.AdjustStats(dbc, "stats@example.com", map[string]int{domainUser.StatScore: -2}); err != nil {
		t.Fatalf("AdjustStats (negative): %v", err)
	}

	got := testutil.ReloadUser(t, tx, "stats@example.com")
	if got.TotalLessons != 1 || got.WeeklyStats.LessonsCreated != 1 || got.WeeklyStats.Score != 3 {
		t.Fatalf("unexpected stats: %+v", got.WeeklyStats)
	}
	if got.WeeklyStats.LastUpdated == nil {
		t.Fatalf("expected weekly last_updated to be set")
	}

	if _, err := repo.AdjustStats(dbc, "stats@example.com", map[string]int{"role": 1}); err == nil {
		t.Fatalf("AdjustStats: expected error for unknown column")
	}
	if n, err := repo.AdjustStats(dbc, "ghost@example.com", map[string]int{domainUser.StatScore: 1}); err != nil || n != 0 {
		t.Fatalf("AdjustStats (missing): n=%d err=%v", n, err)
	}
}

func TestUserRepoOwnedLessonsAndHydrate(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	repo := NewUserRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}

	u := testutil.SeedUser(t, tx, "owner@example.com")
	lessonID := uuid.New()

	added, err := repo.AddOwnedLesson(dbc, u.Email, lessonID)
	if err != nil || !added {
		t.Fatalf("AddOwnedLesson: added=%v err=%v", added, err)
	}
	added, err = repo.AddOwnedLesson(dbc, u.Email, lessonID)
	if err != nil || added {
		t.Fatalf("AddOwnedLesson (dup): added=%v err=%v", added, err)
	}

	owner, err := repo.FindOwnerOfLesson(dbc, lessonID)
	if err != nil || owner != u.Email {
		t.Fatalf("FindOwnerOfLesson: owner=%q err=%v", owner, err)
	}
	owner, err = repo.FindOwnerOfLesson(dbc, uuid.New())
	if err != nil || owner != "" {
		t.Fatalf("FindOwnerOfLesson (missing): owner=%q err=%v", owner, err)
	}

	fav := &types.LessonFavorite{LessonID: uuid.New(), Email: u.Email}
	if err := tx.Create(fav).Error; err != nil {
		t.Fatalf("seed favorite: %v", err)
	}

	users := []*types.User{u}
	if err := repo.Hydrate(dbc, users); err != nil {
		t.Fatalf("Hydrate: %v", err)
	}
	if len(u.MyLesson) != 1 || u.MyLesson[0] != lessonID {
		t.Fatalf("Hydrate myLesson: %+v", u.MyLesson)
	}
	if len(u.Favorites) != 1 || u.Favorites[0] != fav.LessonID {
		t.Fatalf("Hydrate favorites: %+v", u.Favorites)
	}

	removed, err := repo.RemoveOwnedLesson(dbc, u.Email, lessonID)
	if err != nil || !removed {
		t.Fatalf("RemoveOwnedLesson: removed=%v err=%v", removed, err)
	}
	ids, err := repo.OwnedLessonIDs(dbc, u.Email)
	if err != nil || len(ids) != 0 {
		t.Fatalf("OwnedLessonIDs: ids=%v err=%v", ids, err)
	}
}

func TestUserRepoTopByScore(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	repo := NewUserRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}

	for email, score := range map[string]int{"b@example.com": 4, "a@example.com": 4, "c@example.com": 9, "d@example.com": 1} {
		testutil.SeedUser(t, tx, email)
		if _, err := repo.AdjustStats(dbc, email, map[string]int{domainUser.StatScore: score}); err != nil {
			t.Fatalf("AdjustStats: %v", err)
		}
	}

	top, err := repo.TopByScore(dbc, 3)
	if err != nil {
		t.Fatalf("TopByScore: %v", err)
	}
	want := []string{"c@example.com", "a@example.com", "b@example.com"}
	if len(top) != len(want) {
		t.Fatalf("TopByScore: expected %d users, got %d", len(want), len(top))
	}
	for i, w := range want {
		if top[i].Email != w {
			t.Fatalf("TopByScore[%d]: expected %s, got %s", i, w, top[i].Email)
		}
	}
}
