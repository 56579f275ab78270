package services

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/lifelessons-backend/internal/data/repos/testutil"
	domainLesson "github.com/yungbote/lifelessons-backend/internal/domain/lesson"
	"github.com/yungbote/lifelessons-backend/internal/platform/dbctx"
)

func TestLessonCreateThenDeleteRestoresStats(t *testing.T) {
	r := newTestRepos(t)
	svc := r.lessonService()
	ctx := context.Background()

	user := testutil.SeedUser(t, r.db, "author@example.com")
	before := testutil.ReloadUser(t, r.db, user.Email)

	lesson, err := svc.Create(ctx, user.Email, LessonInput{Title: "Patience", Category: "Personal Growth"})
	require.NoError(t, err)
	require.Equal(t, user.Email, lesson.Creator.Email)
	require.Equal(t, user.Name, lesson.Creator.Name, "name falls back to the user record")
	require.Equal(t, user.ImageURL, lesson.Creator.Image)
	require.Equal(t, domainLesson.VisibilityPublic, lesson.Visibility)
	require.Equal(t, domainLesson.AccessFree, lesson.AccessLevel)

	mid := testutil.ReloadUser(t, r.db, user.Email)
	require.Equal(t, before.TotalLessons+1, mid.TotalLessons)
	require.Equal(t, before.WeeklyStats.LessonsCreated+1, mid.WeeklyStats.LessonsCreated)
	require.Equal(t, before.WeeklyStats.Score+5, mid.WeeklyStats.Score)

	owned, err := r.users.OwnedLessonIDs(dbctx.Context{Ctx: ctx}, user.Email)
	require.NoError(t, err)
	require.Equal(t, []uuid.UUID{lesson.ID}, owned)

	res, err := svc.Delete(ctx, lesson.ID)
	require.NoError(t, err)
	require.True(t, res.OwnerUpdated)
	require.Equal(t, "Lesson deleted & creator stats updated", res.Message)

	after := testutil.ReloadUser(t, r.db, user.Email)
	require.Equal(t, before.TotalLessons, after.TotalLessons)
	require.Equal(t, before.WeeklyStats.LessonsCreated, after.WeeklyStats.LessonsCreated)
	require.Equal(t, before.WeeklyStats.Score, after.WeeklyStats.Score)

	_, err = svc.Delete(ctx, lesson.ID)
	wantStatus(t, err, http.StatusNotFound)
}

func TestLessonCreatePayloadWinsAndMissingUserTolerated(t *testing.T) {
	r := newTestRepos(t)
	svc := r.lessonService()

	lesson, err := svc.Create(context.Background(), "nobody@example.com", LessonInput{
		Title:        "Ghost",
		CreatorName:  "Anon",
		CreatorImage: "https://img/anon",
		Visibility:   domainLesson.VisibilityPrivate,
		AccessLevel:  domainLesson.AccessPremium,
	})
	require.NoError(t, err)
	require.Equal(t, "Anon", lesson.Creator.Name)
	require.Equal(t, "https://img/anon", lesson.Creator.Image)

	res, err := svc.Delete(context.Background(), lesson.ID)
	require.NoError(t, err)
	require.False(t, res.OwnerUpdated)
	require.Equal(t, "Lesson deleted successfully (No user stats changed)", res.Message)
}

func TestLessonCreateValidation(t *testing.T) {
	r := newTestRepos(t)
	svc := r.lessonService()

	_, err := svc.Create(context.Background(), "a@example.com", LessonInput{})
	wantStatus(t, err, http.StatusBadRequest)

	_, err = svc.Create(context.Background(), "a@example.com", LessonInput{Title: "x", Visibility: "Friends"})
	wantStatus(t, err, http.StatusBadRequest)
}

func TestLessonUpdateOwnership(t *testing.T) {
	r := newTestRepos(t)
	svc := r.lessonService()
	ctx := context.Background()

	owner := testutil.SeedUser(t, r.db, "owner@example.com")
	testutil.SeedUser(t, r.db, "other@example.com")
	lesson := testutil.SeedLesson(t, r.db, owner, testutil.WithTitle("Before"))

	_, err := svc.Update(ctx, lesson.ID, "other@example.com", LessonPatch{Title: strPtr("Hijacked")})
	wantStatus(t, err, http.StatusForbidden)
	require.Equal(t, "Before", testutil.ReloadLesson(t, r.db, lesson.ID).Title)

	res, err := svc.Update(ctx, lesson.ID, owner.Email, LessonPatch{Title: strPtr("After")})
	require.NoError(t, err)
	require.EqualValues(t, 1, res.Modified)
	require.Equal(t, "Lesson updated successfully.", res.Message)
	require.Equal(t, "After", testutil.ReloadLesson(t, r.db, lesson.ID).Title)

	res, err = svc.Update(ctx, lesson.ID, owner.Email, LessonPatch{Title: strPtr("After")})
	require.NoError(t, err)
	require.EqualValues(t, 0, res.Modified)
	require.Equal(t, "Lesson found, but no changes were applied.", res.Message)

	_, err = svc.Update(ctx, uuid.New(), owner.Email, LessonPatch{Title: strPtr("x")})
	wantStatus(t, err, http.StatusNotFound)

	_, err = svc.Update(ctx, lesson.ID, owner.Email, LessonPatch{Visibility: strPtr("Hidden")})
	wantStatus(t, err, http.StatusBadRequest)
}

func TestLessonListPublicFilters(t *testing.T) {
	r := newTestRepos(t)
	svc := r.lessonService()
	ctx := context.Background()

	u := testutil.SeedUser(t, r.db, "u@example.com")
	base := time.Now().UTC().Add(-time.Hour)
	want := testutil.SeedLesson(t, r.db, u, testutil.WithCategory("Career"), testutil.WithCreatedAt(base))
	testutil.SeedLesson(t, r.db, u, testutil.WithCategory("Career"), testutil.WithVisibility(domainLesson.VisibilityPrivate))
	testutil.SeedLesson(t, r.db, u, testutil.WithCategory("Relationships"))

	page, err := svc.ListPublic(ctx, PublicQuery{Category: "Career"})
	require.NoError(t, err)
	require.EqualValues(t, 1, page.TotalLessonsCount)
	require.Equal(t, 1, page.CurrentPage)
	require.Equal(t, 1, page.TotalPages)
	require.Len(t, page.Lessons, 1)
	require.Equal(t, want.ID, page.Lessons[0].ID)
	require.NotNil(t, page.Lessons[0].Likes, "lists are hydrated")

	for i := 0; i < 6; i++ {
		testutil.SeedLesson(t, r.db, u, testutil.WithCategory("Mindset"))
	}
	page, err = svc.ListPublic(ctx, PublicQuery{Page: 2, Limit: 4})
	require.NoError(t, err)
	require.EqualValues(t, 8, page.TotalLessonsCount)
	require.Equal(t, 2, page.TotalPages)
	require.Len(t, page.Lessons, 4)

	page, err = svc.ListPublic(ctx, PublicQuery{})
	require.NoError(t, err)
	require.Len(t, page.Lessons, defaultPageLimit)
}

func TestLessonSimilarAndShelves(t *testing.T) {
	r := newTestRepos(t)
	svc := r.lessonService()
	ctx := context.Background()

	u := testutil.SeedUser(t, r.db, "u@example.com")
	a := testutil.SeedLesson(t, r.db, u, testutil.WithCategory("Career"), testutil.WithTone("Sad"))
	b := testutil.SeedLesson(t, r.db, u, testutil.WithCategory("Career"), testutil.WithTone("Gratitude"), testutil.Featured())
	testutil.SeedLesson(t, r.db, u, testutil.WithCategory("Health"), testutil.WithTone("Gratitude"))

	similar, err := svc.Similar(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, similar, 1)
	require.Equal(t, b.ID, similar[0].ID)

	_, err = svc.Similar(ctx, uuid.New())
	wantStatus(t, err, http.StatusNotFound)

	featured, err := svc.Featured(ctx)
	require.NoError(t, err)
	require.Len(t, featured, 1)
	require.Equal(t, b.ID, featured[0].ID)

	got, err := svc.Get(ctx, a.ID)
	require.NoError(t, err)
	require.Equal(t, a.ID, got.ID)
	require.Empty(t, got.Comments)

	_, err = svc.Get(ctx, uuid.New())
	wantStatus(t, err, http.StatusNotFound)

	mine, err := svc.ListByCreator(ctx, u.Email)
	require.NoError(t, err)
	require.Len(t, mine, 3)
}

func TestLessonFavoritesAndMostSaved(t *testing.T) {
	r := newTestRepos(t)
	svc := r.lessonService()
	eng := r.engagement()
	ctx := context.Background()

	u := testutil.SeedUser(t, r.db, "u@example.com")
	fan := testutil.SeedUser(t, r.db, "fan@example.com")
	other := testutil.SeedUser(t, r.db, "other@example.com")
	a := testutil.SeedLesson(t, r.db, u)
	b := testutil.SeedLesson(t, r.db, u)

	for _, email := range []string{fan.Email, other.Email} {
		_, err := eng.ToggleFavorite(ctx, b.ID, email)
		require.NoError(t, err)
	}
	_, err := eng.ToggleFavorite(ctx, a.ID, fan.Email)
	require.NoError(t, err)

	favs, err := svc.Favorites(ctx, fan.Email)
	require.NoError(t, err)
	require.Len(t, favs, 2)

	_, err = svc.Favorites(ctx, "ghost@example.com")
	wantStatus(t, err, http.StatusNotFound)

	top, err := svc.MostSaved(ctx)
	require.NoError(t, err)
	require.Len(t, top, 2)
	require.Equal(t, b.ID, top[0].ID)
	require.ElementsMatch(t, []string{fan.Email, other.Email}, top[0].Favorites)
}
