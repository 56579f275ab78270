package services

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/lifelessons-backend/internal/data/repos/testutil"
	domainUser "github.com/yungbote/lifelessons-backend/internal/domain/user"
	"github.com/yungbote/lifelessons-backend/internal/platform/dbctx"
)

func TestUserUpsertOnLogin(t *testing.T) {
	r := newTestRepos(t)
	svc := r.userService()
	ctx := context.Background()

	res, err := svc.UpsertOnLogin(ctx, UserInput{Name: "Ada", Email: "ada@example.com", ImageURL: "https://img/ada"})
	require.NoError(t, err)
	require.NotNil(t, res.Created)
	require.Nil(t, res.Updated)
	require.NotEqual(t, uuid.Nil, res.Created.InsertedID)

	u := testutil.ReloadUser(t, r.db, "ada@example.com")
	require.Equal(t, domainUser.RoleUser, u.Role)
	require.False(t, u.IsPremium)
	require.Zero(t, u.WeeklyStats.Score)

	res, err = svc.UpsertOnLogin(ctx, UserInput{Email: "ada@example.com"})
	require.NoError(t, err)
	require.Nil(t, res.Created)
	require.EqualValues(t, 1, res.Updated.MatchedCount)
	require.EqualValues(t, 1, res.Updated.ModifiedCount)
	require.Equal(t, "Ada", testutil.ReloadUser(t, r.db, "ada@example.com").Name, "login does not overwrite the profile")

	_, err = svc.UpsertOnLogin(ctx, UserInput{Name: "x"})
	wantStatus(t, err, http.StatusBadRequest)
}

func TestUserLookups(t *testing.T) {
	r := newTestRepos(t)
	svc := r.userService()
	ctx := context.Background()

	admin := testutil.SeedAdmin(t, r.db, "admin@example.com")
	user := testutil.SeedUser(t, r.db, "user@example.com")
	lesson := testutil.SeedLesson(t, r.db, user)
	_, _, err := r.users.SetPremium(dbctx.Context{Ctx: ctx}, user.Email, true)
	require.NoError(t, err)

	role, err := svc.Role(ctx, admin.Email)
	require.NoError(t, err)
	require.Equal(t, domainUser.RoleAdmin, role)

	role, err = svc.Role(ctx, "ghost@example.com")
	require.NoError(t, err)
	require.Empty(t, role)

	premium, err := svc.IsPremium(ctx, user.Email)
	require.NoError(t, err)
	require.True(t, premium)

	plan, err := svc.Plan(ctx, user.Email)
	require.NoError(t, err)
	require.Equal(t, user.ID, plan.ID)
	require.True(t, plan.IsPremium)

	plan, err = svc.Plan(ctx, "ghost@example.com")
	require.NoError(t, err)
	require.Nil(t, plan)

	got, err := svc.Get(ctx, user.Email)
	require.NoError(t, err)
	require.Equal(t, []uuid.UUID{lesson.ID}, got.MyLesson)
	require.NotNil(t, got.Favorites)

	got, err = svc.Get(ctx, "ghost@example.com")
	require.NoError(t, err)
	require.Nil(t, got)

	others, err := svc.AllUsers(ctx, admin.Email)
	require.NoError(t, err)
	require.Len(t, others, 1)
	require.Equal(t, user.Email, others[0].Email)

	creator, err := svc.LessonCreator(ctx, lesson.ID)
	require.NoError(t, err)
	require.Equal(t, user.Email, creator.Email)

	_, err = svc.LessonCreator(ctx, uuid.New())
	wantStatus(t, err, http.StatusNotFound)
}

func TestUserUpdateProfile(t *testing.T) {
	r := newTestRepos(t)
	svc := r.userService()
	ctx := context.Background()

	u := testutil.SeedUser(t, r.db, "u@example.com")
	name := "Renamed"
	cover := "https://img/cover"
	ack, err := svc.UpdateProfile(ctx, u.Email, ProfilePatch{Name: &name, CoverPhoto: &cover})
	require.NoError(t, err)
	require.EqualValues(t, 1, ack.MatchedCount)
	require.EqualValues(t, 1, ack.ModifiedCount)

	got := testutil.ReloadUser(t, r.db, u.Email)
	require.Equal(t, "Renamed", got.Name)
	require.Equal(t, cover, got.CoverPhoto)
	require.Equal(t, u.ImageURL, got.ImageURL, "fields not provided are kept")

	ack, err = svc.UpdateProfile(ctx, "ghost@example.com", ProfilePatch{Name: &name})
	require.NoError(t, err)
	require.Zero(t, ack.MatchedCount)
}

func TestUserTopContributors(t *testing.T) {
	r := newTestRepos(t)
	svc := r.userService()
	ctx := context.Background()

	for i := 0; i < 8; i++ {
		email := fmt.Sprintf("u%d@example.com", i)
		testutil.SeedUser(t, r.db, email)
		_, err := r.users.AdjustStats(dbctx.Context{Ctx: ctx}, email, map[string]int{domainUser.StatScore: i})
		require.NoError(t, err)
	}

	top, err := svc.TopContributors(ctx)
	require.NoError(t, err)
	require.Len(t, top, topContributorsLimit)
	require.Equal(t, "u7@example.com", top[0].Email)
	require.Equal(t, 7, top[0].WeeklyStats.Score)
	for i := 1; i < len(top); i++ {
		require.GreaterOrEqual(t, top[i-1].WeeklyStats.Score, top[i].WeeklyStats.Score)
	}
}

func TestUserDashboardSummary(t *testing.T) {
	r := newTestRepos(t)
	svc := r.userService()
	lessons := r.lessonService()
	ctx := context.Background()

	u := testutil.SeedUser(t, r.db, "u@example.com")
	for i := 0; i < 5; i++ {
		_, err := lessons.Create(ctx, u.Email, LessonInput{Title: fmt.Sprintf("L%d", i)})
		require.NoError(t, err)
		time.Sleep(2 * time.Millisecond)
	}

	sum, err := svc.DashboardSummary(ctx, u.Email)
	require.NoError(t, err)
	require.Equal(t, u.Email, sum.Email)
	require.Equal(t, 5, sum.TotalLessonsCreated)
	require.Equal(t, 25, sum.WeeklyStats.Score)
	require.Len(t, sum.RecentlyAddedLessons, dashboardRecentLimit)
	require.Equal(t, "L4", sum.RecentlyAddedLessons[0].Title)

	_, err = svc.DashboardSummary(ctx, "ghost@example.com")
	wantStatus(t, err, http.StatusNotFound)
}
