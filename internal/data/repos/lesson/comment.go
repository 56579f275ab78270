package lesson

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/lifelessons-backend/internal/domain"
	"github.com/yungbote/lifelessons-backend/internal/platform/dbctx"
	"github.com/yungbote/lifelessons-backend/internal/platform/logger"
)

type CommentRepo interface {
	Append(dbc dbctx.Context, comment *types.LessonComment) error
	ListByLesson(dbc dbctx.Context, lessonID uuid.UUID) ([]*types.LessonComment, error)
	Count(dbc dbctx.Context, lessonID uuid.UUID) (int64, error)
}

type commentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCommentRepo(db *gorm.DB, baseLog *logger.Logger) CommentRepo {
	return &commentRepo{db: db, log: baseLog.With("repo", "CommentRepo")}
}

func (r *commentRepo) Append(dbc dbctx.Context, comment *types.LessonComment) error {
	if comment == nil {
		return errors.New("nil comment")
	}
	return dbc.DB(r.db).Create(comment).Error
}

func (r *commentRepo) ListByLesson(dbc dbctx.Context, lessonID uuid.UUID) ([]*types.LessonComment, error) {
	var out []*types.LessonComment
	if err := dbc.DB(r.db).
		Where("lesson_id = ?", lessonID).
		Order("id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *commentRepo) Count(dbc dbctx.Context, lessonID uuid.UUID) (int64, error) {
	var count int64
	err := dbc.DB(r.db).
		Model(&types.LessonComment{}).
		Where("lesson_id = ?", lessonID).
		Count(&count).Error
	return count, err
}
