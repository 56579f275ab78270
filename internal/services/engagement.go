package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/yungbote/lifelessons-backend/internal/data/repos"
	types "github.com/yungbote/lifelessons-backend/internal/domain"
	domainLesson "github.com/yungbote/lifelessons-backend/internal/domain/lesson"
	domainUser "github.com/yungbote/lifelessons-backend/internal/domain/user"
	"github.com/yungbote/lifelessons-backend/internal/observability"
	"github.com/yungbote/lifelessons-backend/internal/platform/apierr"
	"github.com/yungbote/lifelessons-backend/internal/platform/dbctx"
	"github.com/yungbote/lifelessons-backend/internal/platform/logger"
)

type LikeResult struct {
	Liked      bool
	LikesCount int
}

type FavoriteResult struct {
	Saved bool
}

type CommentInput struct {
	LessonID uuid.UUID
	Email    string
	Comment  string
	// CreatedAt is client supplied; zero means now.
	CreatedAt time.Time
}

type ReportInput struct {
	LessonID      uuid.UUID
	ReporterEmail string
	Reason        string
	Details       string
}

type EngagementService interface {
	ToggleLike(ctx context.Context, lessonID uuid.UUID, actorEmail string) (*LikeResult, error)
	ToggleFavorite(ctx context.Context, lessonID uuid.UUID, actorEmail string) (*FavoriteResult, error)
	AddComment(ctx context.Context, in CommentInput) error
	FileReport(ctx context.Context, in ReportInput) (uuid.UUID, error)
}

type engagementService struct {
	db        *gorm.DB
	log       *logger.Logger
	lessons   repos.LessonRepo
	users     repos.UserRepo
	comments  repos.CommentRepo
	snapshots repos.ReportSnapshotRepo
	reports   repos.ReportRepo
	toggler   toggler

	like     toggleSpec
	favorite toggleSpec
}

func NewEngagementService(
	db *gorm.DB,
	log *logger.Logger,
	lessons repos.LessonRepo,
	users repos.UserRepo,
	likes repos.MembershipRepo,
	favorites repos.MembershipRepo,
	comments repos.CommentRepo,
	snapshots repos.ReportSnapshotRepo,
	reports repos.ReportRepo,
) EngagementService {
	serviceLog := log.With("service", "EngagementService")
	return &engagementService{
		db:        db,
		log:       serviceLog,
		lessons:   lessons,
		users:     users,
		comments:  comments,
		snapshots: snapshots,
		reports:   reports,
		toggler:   toggler{lessons: lessons, users: users},
		like: toggleSpec{
			name:          "like",
			members:       likes,
			lessonCounter: domainLesson.ColLikesCount,
			actorDeltas: map[string]int{
				domainUser.StatLikesGiven: 1,
				domainUser.StatScore:      1,
			},
			creatorDeltas: map[string]int{
				domainUser.StatLikesReceived: 1,
				domainUser.StatScore:         2,
			},
		},
		favorite: toggleSpec{
			name:          "favorite",
			members:       favorites,
			lessonCounter: domainLesson.ColFavoritedCount,
			actorDeltas: map[string]int{
				domainUser.ColFavoritesCount:  1,
				domainUser.StatFavoritesGiven: 1,
				domainUser.StatScore:          1,
			},
			creatorDeltas: map[string]int{
				domainUser.StatFavoritesReceived: 1,
				domainUser.StatScore:             2,
			},
		},
	}
}

func (s *engagementService) startSpan(ctx context.Context, op string, lessonID uuid.UUID) (context.Context, trace.Span) {
	return observability.Tracer().Start(ctx, "engagement."+op,
		trace.WithAttributes(attribute.String("lesson.id", lessonID.String())),
	)
}

func (s *engagementService) finish(span trace.Span, action, outcome string, err error) {
	if err != nil {
		outcome = "error"
		if apierr.StatusOf(err) >= 500 {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
	}
	span.SetAttributes(attribute.String("engagement.outcome", outcome))
	span.End()
	observability.Current().IncEngagement(action, outcome)
}

func (s *engagementService) ToggleLike(ctx context.Context, lessonID uuid.UUID, actorEmail string) (res *LikeResult, err error) {
	ctx, span := s.startSpan(ctx, "like", lessonID)
	outcome := toggleNoop
	defer func() { s.finish(span, "like", outcome.String(), err) }()

	res = &LikeResult{}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		inner := dbctx.Context{Ctx: ctx, Tx: tx}
		lesson, err := s.lessons.GetByID(inner, lessonID)
		if err != nil {
			return err
		}
		if lesson == nil {
			return apierr.NotFound("Lesson not found.")
		}
		outcome, err = s.toggler.toggle(inner, s.like, lesson, actorEmail)
		if err != nil {
			return err
		}
		res.Liked = outcome == toggleAdded
		res.LikesCount = lesson.LikesCount + outcome.sign()
		return nil
	})
	if err != nil {
		return nil, wrapStoreErr("toggle like", err)
	}
	s.log.Debug("like toggled", "lesson_id", lessonID, "actor", actorEmail, "outcome", outcome.String())
	return res, nil
}

func (s *engagementService) ToggleFavorite(ctx context.Context, lessonID uuid.UUID, actorEmail string) (res *FavoriteResult, err error) {
	ctx, span := s.startSpan(ctx, "favorite", lessonID)
	outcome := toggleNoop
	defer func() { s.finish(span, "favorite", outcome.String(), err) }()

	res = &FavoriteResult{}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		inner := dbctx.Context{Ctx: ctx, Tx: tx}
		user, err := s.users.GetByEmail(inner, actorEmail)
		if err != nil {
			return err
		}
		if user == nil {
			return apierr.NotFound("User not found")
		}
		lesson, err := s.lessons.GetByID(inner, lessonID)
		if err != nil {
			return err
		}
		if lesson == nil {
			return apierr.NotFound("Lesson not found")
		}
		outcome, err = s.toggler.toggle(inner, s.favorite, lesson, actorEmail)
		if err != nil {
			return err
		}
		res.Saved = outcome == toggleAdded
		return nil
	})
	if err != nil {
		return nil, wrapStoreErr("toggle favorite", err)
	}
	s.log.Debug("favorite toggled", "lesson_id", lessonID, "actor", actorEmail, "outcome", outcome.String())
	return res, nil
}

func (s *engagementService) AddComment(ctx context.Context, in CommentInput) (err error) {
	ctx, span := s.startSpan(ctx, "comment", in.LessonID)
	defer func() { s.finish(span, "comment", "added", err) }()

	text := strings.TrimSpace(in.Comment)
	if in.LessonID == uuid.Nil || text == "" {
		return apierr.BadRequest("Lesson ID & comment required")
	}
	createdAt := in.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		inner := dbctx.Context{Ctx: ctx, Tx: tx}
		lesson, err := s.lessons.GetByID(inner, in.LessonID)
		if err != nil {
			return err
		}
		if lesson == nil {
			return apierr.NotFound("Lesson not found")
		}
		if err := s.comments.Append(inner, &types.LessonComment{
			LessonID:  lesson.ID,
			Email:     in.Email,
			Comment:   in.Comment,
			CreatedAt: createdAt,
		}); err != nil {
			return err
		}
		if err := s.lessons.AdjustCounter(inner, lesson.ID, domainLesson.ColCommentsCount, 1); err != nil {
			return err
		}
		if _, err := s.users.AdjustStats(inner, in.Email, map[string]int{
			domainUser.StatCommentsGiven: 1,
			domainUser.StatScore:         1,
		}); err != nil {
			return err
		}
		if creator := lesson.Creator.Email; creator != "" {
			if _, err := s.users.AdjustStats(inner, creator, map[string]int{
				domainUser.StatCommentsReceived: 1,
				domainUser.StatScore:            2,
			}); err != nil {
				return err
			}
		}
		return nil
	})
	return wrapStoreErr("add comment", err)
}

func (s *engagementService) FileReport(ctx context.Context, in ReportInput) (id uuid.UUID, err error) {
	ctx, span := s.startSpan(ctx, "report", in.LessonID)
	defer func() { s.finish(span, "report", "added", err) }()

	if in.LessonID == uuid.Nil || strings.TrimSpace(in.ReporterEmail) == "" || strings.TrimSpace(in.Reason) == "" {
		return uuid.Nil, apierr.BadRequest("Missing fields")
	}

	report := &types.Report{
		ID:            uuid.New(),
		LessonID:      in.LessonID,
		ReporterEmail: in.ReporterEmail,
		Reason:        in.Reason,
		Details:       in.Details,
		ReportedAt:    time.Now().UTC(),
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		inner := dbctx.Context{Ctx: ctx, Tx: tx}
		lesson, err := s.lessons.GetByID(inner, in.LessonID)
		if err != nil {
			return err
		}
		if lesson == nil {
			return apierr.NotFound("Lesson not found")
		}
		if err := s.reports.Create(inner, report); err != nil {
			return err
		}
		if err := s.snapshots.Append(inner, &types.LessonReportSnapshot{
			ID:            report.ID,
			LessonID:      report.LessonID,
			ReporterEmail: report.ReporterEmail,
			Reason:        report.Reason,
			Details:       report.Details,
			ReportedAt:    report.ReportedAt,
		}); err != nil {
			return err
		}
		return s.lessons.AdjustCounter(inner, lesson.ID, domainLesson.ColReportCount, 1)
	})
	if err != nil {
		return uuid.Nil, wrapStoreErr("file report", err)
	}
	s.log.Info("lesson reported", "lesson_id", in.LessonID, "report_id", report.ID, "reason", in.Reason)
	return report.ID, nil
}
