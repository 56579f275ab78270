package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/lifelessons-backend/internal/data/repos"
	types "github.com/yungbote/lifelessons-backend/internal/domain"
	domainLesson "github.com/yungbote/lifelessons-backend/internal/domain/lesson"
	domainUser "github.com/yungbote/lifelessons-backend/internal/domain/user"
	"github.com/yungbote/lifelessons-backend/internal/platform/apierr"
	"github.com/yungbote/lifelessons-backend/internal/platform/dbctx"
	"github.com/yungbote/lifelessons-backend/internal/platform/logger"
)

const (
	defaultPageLimit = 6
	shelfLimit       = 6
)

// LessonInput is a new lesson as submitted. Creator email always comes from
// the caller; name and image fall back to the user record when empty.
type LessonInput struct {
	Title         string
	Description   string
	Category      string
	EmotionalTone string
	Image         string
	Visibility    string
	AccessLevel   string
	CreatorName   string
	CreatorImage  string
}

// LessonPatch holds the editable fields. Nil means leave as is.
type LessonPatch struct {
	Title         *string
	Description   *string
	Category      *string
	EmotionalTone *string
	Image         *string
	Visibility    *string
	AccessLevel   *string
}

type UpdateResult struct {
	Modified int64
	Message  string
}

type DeleteResult struct {
	OwnerUpdated bool
	Message      string
}

type PublicQuery struct {
	Category string
	Tone     string
	Search   string
	Page     int
	Limit    int
}

type PublicPage struct {
	Lessons           []*types.Lesson `json:"lessons"`
	TotalLessonsCount int64           `json:"totalLessonsCount"`
	CurrentPage       int             `json:"currentPage"`
	TotalPages        int             `json:"totalPages"`
}

type LessonService interface {
	Create(ctx context.Context, creatorEmail string, in LessonInput) (*types.Lesson, error)
	Update(ctx context.Context, lessonID uuid.UUID, requesterEmail string, patch LessonPatch) (*UpdateResult, error)
	Delete(ctx context.Context, lessonID uuid.UUID) (*DeleteResult, error)

	Get(ctx context.Context, lessonID uuid.UUID) (*types.Lesson, error)
	ListByCreator(ctx context.Context, email string) ([]*types.Lesson, error)
	ListPublic(ctx context.Context, q PublicQuery) (*PublicPage, error)
	Featured(ctx context.Context) ([]*types.Lesson, error)
	Favorites(ctx context.Context, email string) ([]*types.Lesson, error)
	Similar(ctx context.Context, lessonID uuid.UUID) ([]*types.Lesson, error)
	MostSaved(ctx context.Context) ([]*types.Lesson, error)
}

type lessonService struct {
	db      *gorm.DB
	log     *logger.Logger
	lessons repos.LessonRepo
	users   repos.UserRepo
}

func NewLessonService(db *gorm.DB, log *logger.Logger, lessons repos.LessonRepo, users repos.UserRepo) LessonService {
	serviceLog := log.With("service", "LessonService")
	return &lessonService{db: db, log: serviceLog, lessons: lessons, users: users}
}

var (
	creationDeltas = map[string]int{
		domainUser.ColTotalLessons:    1,
		domainUser.StatLessonsCreated: 1,
		domainUser.StatScore:          5,
	}
	deletionDeltas = scaleDeltas(creationDeltas, -1)
)

func validVisibility(v string) bool {
	return v == domainLesson.VisibilityPublic || v == domainLesson.VisibilityPrivate
}

func validAccessLevel(v string) bool {
	return v == domainLesson.AccessFree || v == domainLesson.AccessPremium
}

func (s *lessonService) Create(ctx context.Context, creatorEmail string, in LessonInput) (*types.Lesson, error) {
	if strings.TrimSpace(creatorEmail) == "" {
		return nil, apierr.Unauthorized("Unauthorized Access!")
	}
	if strings.TrimSpace(in.Title) == "" {
		return nil, apierr.BadRequest("Title is required")
	}
	if in.Visibility == "" {
		in.Visibility = domainLesson.VisibilityPublic
	}
	if in.AccessLevel == "" {
		in.AccessLevel = domainLesson.AccessFree
	}
	if !validVisibility(in.Visibility) {
		return nil, apierr.BadRequest("Invalid visibility")
	}
	if !validAccessLevel(in.AccessLevel) {
		return nil, apierr.BadRequest("Invalid access level")
	}

	lesson := &types.Lesson{
		ID: uuid.New(),
		Creator: types.LessonCreator{
			Name:  in.CreatorName,
			Email: creatorEmail,
			Image: in.CreatorImage,
		},
		Title:         in.Title,
		Description:   in.Description,
		Category:      in.Category,
		EmotionalTone: in.EmotionalTone,
		Image:         in.Image,
		Visibility:    in.Visibility,
		AccessLevel:   in.AccessLevel,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		inner := dbctx.Context{Ctx: ctx, Tx: tx}
		user, err := s.users.GetByEmail(inner, creatorEmail)
		if err != nil {
			return err
		}
		if user != nil {
			if lesson.Creator.Name == "" {
				lesson.Creator.Name = user.Name
			}
			if lesson.Creator.Image == "" {
				lesson.Creator.Image = user.ImageURL
			}
		}
		if err := s.lessons.Create(inner, lesson); err != nil {
			return err
		}
		if user == nil {
			return nil
		}
		if _, err := s.users.AddOwnedLesson(inner, creatorEmail, lesson.ID); err != nil {
			return err
		}
		_, err = s.users.AdjustStats(inner, creatorEmail, creationDeltas)
		return err
	})
	if err != nil {
		return nil, wrapStoreErr("create lesson", err)
	}
	s.log.Info("lesson created", "lesson_id", lesson.ID, "creator", creatorEmail)
	return lesson, nil
}

// patchUpdates returns only the fields whose value differs from current.
func patchUpdates(current *types.Lesson, p LessonPatch) map[string]interface{} {
	updates := map[string]interface{}{}
	set := func(col string, next *string, cur string) {
		if next != nil && *next != cur {
			updates[col] = *next
		}
	}
	set("title", p.Title, current.Title)
	set("description", p.Description, current.Description)
	set("category", p.Category, current.Category)
	set("emotional_tone", p.EmotionalTone, current.EmotionalTone)
	set("image", p.Image, current.Image)
	set("visibility", p.Visibility, current.Visibility)
	set("access_level", p.AccessLevel, current.AccessLevel)
	return updates
}

func (s *lessonService) Update(ctx context.Context, lessonID uuid.UUID, requesterEmail string, patch LessonPatch) (*UpdateResult, error) {
	if patch.Visibility != nil && !validVisibility(*patch.Visibility) {
		return nil, apierr.BadRequest("Invalid visibility")
	}
	if patch.AccessLevel != nil && !validAccessLevel(*patch.AccessLevel) {
		return nil, apierr.BadRequest("Invalid access level")
	}

	res := &UpdateResult{}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		inner := dbctx.Context{Ctx: ctx, Tx: tx}
		current, err := s.lessons.GetByID(inner, lessonID)
		if err != nil {
			return err
		}
		if current == nil {
			return apierr.NotFound("Lesson not found or already deleted.")
		}
		if current.Creator.Email != requesterEmail {
			return apierr.Forbidden("Forbidden: You are not authorized to update this lesson.")
		}
		updates := patchUpdates(current, patch)
		if len(updates) == 0 {
			res.Message = "Lesson found, but no changes were applied."
			return nil
		}
		n, err := s.lessons.UpdateFields(inner, lessonID, updates)
		if err != nil {
			return err
		}
		res.Modified = n
		res.Message = "Lesson updated successfully."
		return nil
	})
	if err != nil {
		return nil, wrapStoreErr("update lesson", err)
	}
	return res, nil
}

func (s *lessonService) Delete(ctx context.Context, lessonID uuid.UUID) (*DeleteResult, error) {
	res := &DeleteResult{}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		inner := dbctx.Context{Ctx: ctx, Tx: tx}
		n, err := s.lessons.Delete(inner, lessonID)
		if err != nil {
			return err
		}
		if n == 0 {
			return apierr.NotFound("Lesson not found")
		}
		owner, err := s.users.FindOwnerOfLesson(inner, lessonID)
		if err != nil {
			return err
		}
		if owner == "" {
			return nil
		}
		if _, err := s.users.RemoveOwnedLesson(inner, owner, lessonID); err != nil {
			return err
		}
		if _, err := s.users.AdjustStats(inner, owner, deletionDeltas); err != nil {
			return err
		}
		res.OwnerUpdated = true
		return nil
	})
	if err != nil {
		return nil, wrapStoreErr("delete lesson", err)
	}
	if res.OwnerUpdated {
		res.Message = "Lesson deleted & creator stats updated"
	} else {
		res.Message = "Lesson deleted successfully (No user stats changed)"
	}
	s.log.Info("lesson deleted", "lesson_id", lessonID, "owner_updated", res.OwnerUpdated)
	return res, nil
}

func (s *lessonService) hydrated(dbc dbctx.Context, op string, lessons []*types.Lesson) ([]*types.Lesson, error) {
	if lessons == nil {
		lessons = []*types.Lesson{}
	}
	if err := s.lessons.Hydrate(dbc, lessons); err != nil {
		return nil, wrapStoreErr(op, err)
	}
	return lessons, nil
}

func (s *lessonService) Get(ctx context.Context, lessonID uuid.UUID) (*types.Lesson, error) {
	dbc := dbctx.Context{Ctx: ctx}
	lesson, err := s.lessons.GetByID(dbc, lessonID)
	if err != nil {
		return nil, wrapStoreErr("get lesson", err)
	}
	if lesson == nil {
		return nil, apierr.NotFound("Lesson not found")
	}
	if _, err := s.hydrated(dbc, "get lesson", []*types.Lesson{lesson}); err != nil {
		return nil, err
	}
	return lesson, nil
}

func (s *lessonService) ListByCreator(ctx context.Context, email string) ([]*types.Lesson, error) {
	dbc := dbctx.Context{Ctx: ctx}
	out, err := s.lessons.ListByCreator(dbc, email)
	if err != nil {
		return nil, wrapStoreErr("list by creator", err)
	}
	return s.hydrated(dbc, "list by creator", out)
}

func (s *lessonService) ListPublic(ctx context.Context, q PublicQuery) (*PublicPage, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = defaultPageLimit
	}
	dbc := dbctx.Context{Ctx: ctx}
	out, total, err := s.lessons.ListPublic(dbc, repos.LessonPublicFilter{
		Category: q.Category,
		Tone:     q.Tone,
		Search:   q.Search,
		Offset:   (q.Page - 1) * q.Limit,
		Limit:    q.Limit,
	})
	if err != nil {
		return nil, wrapStoreErr("list public", err)
	}
	out, err = s.hydrated(dbc, "list public", out)
	if err != nil {
		return nil, err
	}
	return &PublicPage{
		Lessons:           out,
		TotalLessonsCount: total,
		CurrentPage:       q.Page,
		TotalPages:        int((total + int64(q.Limit) - 1) / int64(q.Limit)),
	}, nil
}

func (s *lessonService) Featured(ctx context.Context) ([]*types.Lesson, error) {
	dbc := dbctx.Context{Ctx: ctx}
	out, err := s.lessons.ListFeatured(dbc, shelfLimit)
	if err != nil {
		return nil, wrapStoreErr("featured", err)
	}
	return s.hydrated(dbc, "featured", out)
}

func (s *lessonService) Favorites(ctx context.Context, email string) ([]*types.Lesson, error) {
	dbc := dbctx.Context{Ctx: ctx}
	user, err := s.users.GetByEmail(dbc, email)
	if err != nil {
		return nil, wrapStoreErr("favorites", err)
	}
	if user == nil {
		return nil, apierr.NotFound("User not found")
	}
	out, err := s.lessons.ListFavoritedBy(dbc, email)
	if err != nil {
		return nil, wrapStoreErr("favorites", err)
	}
	return s.hydrated(dbc, "favorites", out)
}

func (s *lessonService) Similar(ctx context.Context, lessonID uuid.UUID) ([]*types.Lesson, error) {
	dbc := dbctx.Context{Ctx: ctx}
	lesson, err := s.lessons.GetByID(dbc, lessonID)
	if err != nil {
		return nil, wrapStoreErr("similar", err)
	}
	if lesson == nil {
		return nil, apierr.NotFound("Lesson not found")
	}
	out, err := s.lessons.ListSimilar(dbc, lesson, shelfLimit)
	if err != nil {
		return nil, wrapStoreErr("similar", err)
	}
	return s.hydrated(dbc, "similar", out)
}

func (s *lessonService) MostSaved(ctx context.Context) ([]*types.Lesson, error) {
	dbc := dbctx.Context{Ctx: ctx}
	out, err := s.lessons.ListMostSaved(dbc, shelfLimit)
	if err != nil {
		return nil, wrapStoreErr("most saved", err)
	}
	return s.hydrated(dbc, "most saved", out)
}
