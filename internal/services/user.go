package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/yungbote/lifelessons-backend/internal/data/repos"
	types "github.com/yungbote/lifelessons-backend/internal/domain"
	domainUser "github.com/yungbote/lifelessons-backend/internal/domain/user"
	"github.com/yungbote/lifelessons-backend/internal/platform/apierr"
	"github.com/yungbote/lifelessons-backend/internal/platform/dbctx"
	"github.com/yungbote/lifelessons-backend/internal/platform/logger"
)

const (
	topContributorsLimit = 6
	dashboardRecentLimit = 4
)

type UserInput struct {
	Name     string
	Email    string
	ImageURL string
}

type InsertAck struct {
	Acknowledged bool      `json:"acknowledged"`
	InsertedID   uuid.UUID `json:"insertedId"`
}

// LoginResult carries exactly one of Created or Updated.
type LoginResult struct {
	Created *InsertAck
	Updated *UpdateAck
}

type ProfilePatch struct {
	Name       *string
	Image      *string
	CoverPhoto *string
	UpdatedAt  *time.Time
}

type PlanView struct {
	ID        uuid.UUID `json:"_id"`
	IsPremium bool      `json:"isPremium"`
}

type ContributorView struct {
	ID          uuid.UUID              `json:"_id"`
	Name        string                 `json:"name"`
	Email       string                 `json:"email"`
	ImageURL    string                 `json:"imageURL"`
	WeeklyStats domainUser.WeeklyStats `json:"weeklyStats"`
}

type RecentLesson struct {
	ID            uuid.UUID `json:"_id"`
	Title         string    `json:"title"`
	Image         string    `json:"image"`
	CreatedAt     time.Time `json:"createdAt"`
	EmotionalTone string    `json:"emotionalTone"`
}

type DashboardSummary struct {
	Name                 string                 `json:"name"`
	Email                string                 `json:"email"`
	IsPremium            bool                   `json:"isPremium"`
	ImageURL             string                 `json:"imageURL"`
	TotalLessonsCreated  int                    `json:"totalLessonsCreated"`
	TotalSavedLessons    int                    `json:"totalSavedLessons"`
	WeeklyStats          domainUser.WeeklyStats `json:"weeklyStats"`
	RecentlyAddedLessons []RecentLesson         `json:"recentlyAddedLessons"`
}

type UserService interface {
	UpsertOnLogin(ctx context.Context, in UserInput) (*LoginResult, error)
	Get(ctx context.Context, email string) (*types.User, error)
	Role(ctx context.Context, email string) (string, error)
	IsPremium(ctx context.Context, email string) (bool, error)
	Plan(ctx context.Context, email string) (*PlanView, error)
	UpdateProfile(ctx context.Context, email string, patch ProfilePatch) (*UpdateAck, error)
	TopContributors(ctx context.Context) ([]*ContributorView, error)
	DashboardSummary(ctx context.Context, email string) (*DashboardSummary, error)
	AllUsers(ctx context.Context, callerEmail string) ([]*types.User, error)
	LessonCreator(ctx context.Context, lessonID uuid.UUID) (*types.User, error)
}

type userService struct {
	db      *gorm.DB
	log     *logger.Logger
	users   repos.UserRepo
	lessons repos.LessonRepo
}

func NewUserService(db *gorm.DB, log *logger.Logger, users repos.UserRepo, lessons repos.LessonRepo) UserService {
	serviceLog := log.With("service", "UserService")
	return &userService{db: db, log: serviceLog, users: users, lessons: lessons}
}

func (us *userService) UpsertOnLogin(ctx context.Context, in UserInput) (*LoginResult, error) {
	email := strings.TrimSpace(in.Email)
	if email == "" {
		return nil, apierr.BadRequest("Email is required")
	}
	dbc := dbctx.Context{Ctx: ctx}
	now := time.Now().UTC()

	touch := func() (*LoginResult, error) {
		n, err := us.users.TouchLastLoggedIn(dbc, email, now)
		if err != nil {
			return nil, wrapStoreErr("touch last login", err)
		}
		return &LoginResult{Updated: newUpdateAck(n, n)}, nil
	}

	existing, err := us.users.GetByEmail(dbc, email)
	if err != nil {
		return nil, wrapStoreErr("get user", err)
	}
	if existing != nil {
		return touch()
	}

	user := &types.User{
		Email:        email,
		Name:         in.Name,
		ImageURL:     in.ImageURL,
		Role:         domainUser.RoleUser,
		LastLoggedIn: now,
	}
	if err := us.users.Create(dbc, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Lost a race with a concurrent first login.
			return touch()
		}
		return nil, wrapStoreErr("create user", err)
	}
	us.log.Info("user registered", "email", email)
	return &LoginResult{Created: &InsertAck{Acknowledged: true, InsertedID: user.ID}}, nil
}

func (us *userService) Get(ctx context.Context, email string) (*types.User, error) {
	dbc := dbctx.Context{Ctx: ctx}
	user, err := us.users.GetByEmail(dbc, email)
	if err != nil {
		return nil, wrapStoreErr("get user", err)
	}
	if user == nil {
		return nil, nil
	}
	if err := us.users.Hydrate(dbc, []*types.User{user}); err != nil {
		return nil, wrapStoreErr("hydrate user", err)
	}
	return user, nil
}

func (us *userService) Role(ctx context.Context, email string) (string, error) {
	user, err := us.users.GetByEmail(dbctx.Context{Ctx: ctx}, email)
	if err != nil {
		return "", wrapStoreErr("user role", err)
	}
	if user == nil {
		return "", nil
	}
	return user.Role, nil
}

func (us *userService) IsPremium(ctx context.Context, email string) (bool, error) {
	user, err := us.users.GetByEmail(dbctx.Context{Ctx: ctx}, email)
	if err != nil {
		return false, wrapStoreErr("user premium", err)
	}
	return user != nil && user.IsPremium, nil
}

func (us *userService) Plan(ctx context.Context, email string) (*PlanView, error) {
	user, err := us.users.GetByEmail(dbctx.Context{Ctx: ctx}, email)
	if err != nil {
		return nil, wrapStoreErr("user plan", err)
	}
	if user == nil {
		return nil, nil
	}
	return &PlanView{ID: user.ID, IsPremium: user.IsPremium}, nil
}

func (us *userService) UpdateProfile(ctx context.Context, email string, patch ProfilePatch) (*UpdateAck, error) {
	updates := map[string]interface{}{}
	if patch.Name != nil {
		updates["name"] = *patch.Name
	}
	if patch.Image != nil {
		updates["image"] = *patch.Image
	}
	if patch.CoverPhoto != nil {
		updates["cover_photo"] = *patch.CoverPhoto
	}
	if patch.UpdatedAt != nil {
		updates["updated_at"] = patch.UpdatedAt.UTC()
	}

	dbc := dbctx.Context{Ctx: ctx}
	user, err := us.users.GetByEmail(dbc, email)
	if err != nil {
		return nil, wrapStoreErr("update profile", err)
	}
	if user == nil {
		return newUpdateAck(0, 0), nil
	}
	n, err := us.users.UpdateProfile(dbc, email, updates)
	if err != nil {
		return nil, wrapStoreErr("update profile", err)
	}
	return newUpdateAck(1, n), nil
}

func (us *userService) TopContributors(ctx context.Context) ([]*ContributorView, error) {
	top, err := us.users.TopByScore(dbctx.Context{Ctx: ctx}, topContributorsLimit)
	if err != nil {
		return nil, wrapStoreErr("top contributors", err)
	}
	out := make([]*ContributorView, 0, len(top))
	for _, u := range top {
		out = append(out, &ContributorView{
			ID:          u.ID,
			Name:        u.Name,
			Email:       u.Email,
			ImageURL:    u.ImageURL,
			WeeklyStats: u.WeeklyStats,
		})
	}
	return out, nil
}

func (us *userService) DashboardSummary(ctx context.Context, email string) (*DashboardSummary, error) {
	var (
		user   *types.User
		recent []*types.Lesson
		owned  []uuid.UUID
	)
	g, gctx := errgroup.WithContext(ctx)
	dbc := dbctx.Context{Ctx: gctx}
	g.Go(func() error {
		var err error
		user, err = us.users.GetByEmail(dbc, email)
		return err
	})
	g.Go(func() error {
		var err error
		recent, err = us.lessons.ListRecentOwnedBy(dbc, email, dashboardRecentLimit)
		return err
	})
	g.Go(func() error {
		var err error
		owned, err = us.users.OwnedLessonIDs(dbc, email)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, wrapStoreErr("dashboard summary", err)
	}
	if user == nil {
		return nil, apierr.NotFound("User data not found.")
	}

	summary := &DashboardSummary{
		Name:                 user.Name,
		Email:                user.Email,
		IsPremium:            user.IsPremium,
		ImageURL:             user.ImageURL,
		TotalLessonsCreated:  len(owned),
		TotalSavedLessons:    user.FavoritesCount,
		WeeklyStats:          user.WeeklyStats,
		RecentlyAddedLessons: make([]RecentLesson, 0, len(recent)),
	}
	for _, l := range recent {
		summary.RecentlyAddedLessons = append(summary.RecentlyAddedLessons, RecentLesson{
			ID:            l.ID,
			Title:         l.Title,
			Image:         l.Image,
			CreatedAt:     l.CreatedAt,
			EmotionalTone: l.EmotionalTone,
		})
	}
	return summary, nil
}

func (us *userService) AllUsers(ctx context.Context, callerEmail string) ([]*types.User, error) {
	dbc := dbctx.Context{Ctx: ctx}
	out, err := us.users.ListExcept(dbc, callerEmail)
	if err != nil {
		return nil, wrapStoreErr("all users", err)
	}
	if out == nil {
		out = []*types.User{}
	}
	if err := us.users.Hydrate(dbc, out); err != nil {
		return nil, wrapStoreErr("all users", err)
	}
	return out, nil
}

func (us *userService) LessonCreator(ctx context.Context, lessonID uuid.UUID) (*types.User, error) {
	dbc := dbctx.Context{Ctx: ctx}
	lesson, err := us.lessons.GetByID(dbc, lessonID)
	if err != nil {
		return nil, wrapStoreErr("lesson creator", err)
	}
	if lesson == nil {
		return nil, apierr.NotFound("Lesson not found")
	}
	if lesson.Creator.Email == "" {
		return nil, apierr.BadRequest("Creator email missing")
	}
	creator, err := us.Get(ctx, lesson.Creator.Email)
	if err != nil {
		return nil, err
	}
	if creator == nil {
		return nil, apierr.NotFound("Creator not found")
	}
	return creator, nil
}
