package lesson

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/lifelessons-backend/internal/domain"
	"github.com/yungbote/lifelessons-backend/internal/platform/dbctx"
	"github.com/yungbote/lifelessons-backend/internal/platform/logger"
)

// MembershipRepo manages a (lesson, email) set backed by a unique index.
// Add and Remove report whether they changed the set, which is what callers
// pair their counter deltas with.
type MembershipRepo interface {
	Add(dbc dbctx.Context, lessonID uuid.UUID, email string) (bool, error)
	Remove(dbc dbctx.Context, lessonID uuid.UUID, email string) (bool, error)
	Exists(dbc dbctx.Context, lessonID uuid.UUID, email string) (bool, error)
	Count(dbc dbctx.Context, lessonID uuid.UUID) (int64, error)
	CountByEmail(dbc dbctx.Context, email string) (int64, error)
	LessonIDsByEmail(dbc dbctx.Context, email string) ([]uuid.UUID, error)
}

type membershipRepo struct {
	db     *gorm.DB
	log    *logger.Logger
	model  interface{}
	newRow func(lessonID uuid.UUID, email string) interface{}
}

func NewLikeRepo(db *gorm.DB, baseLog *logger.Logger) MembershipRepo {
	return &membershipRepo{
		db:    db,
		log:   baseLog.With("repo", "LikeRepo"),
		model: &types.LessonLike{},
		newRow: func(lessonID uuid.UUID, email string) interface{} {
			return &types.LessonLike{LessonID: lessonID, Email: email}
		},
	}
}

func NewFavoriteRepo(db *gorm.DB, baseLog *logger.Logger) MembershipRepo {
	return &membershipRepo{
		db:    db,
		log:   baseLog.With("repo", "FavoriteRepo"),
		model: &types.LessonFavorite{},
		newRow: func(lessonID uuid.UUID, email string) interface{} {
			return &types.LessonFavorite{LessonID: lessonID, Email: email}
		},
	}
}

func (r *membershipRepo) Add(dbc dbctx.Context, lessonID uuid.UUID, email string) (bool, error) {
	res := dbc.DB(r.db).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(r.newRow(lessonID, email))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *membershipRepo) Remove(dbc dbctx.Context, lessonID uuid.UUID, email string) (bool, error) {
	res := dbc.DB(r.db).
		Where("lesson_id = ? AND email = ?", lessonID, email).
		Delete(r.model)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *membershipRepo) Exists(dbc dbctx.Context, lessonID uuid.UUID, email string) (bool, error) {
	var count int64
	if err := dbc.DB(r.db).
		Model(r.model).
		Where("lesson_id = ? AND email = ?", lessonID, email).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *membershipRepo) Count(dbc dbctx.Context, lessonID uuid.UUID) (int64, error) {
	var count int64
	err := dbc.DB(r.db).
		Model(r.model).
		Where("lesson_id = ?", lessonID).
		Count(&count).Error
	return count, err
}

func (r *membershipRepo) CountByEmail(dbc dbctx.Context, email string) (int64, error) {
	var count int64
	err := dbc.DB(r.db).
		Model(r.model).
		Where("email = ?", email).
		Count(&count).Error
	return count, err
}

func (r *membershipRepo) LessonIDsByEmail(dbc dbctx.Context, email string) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if err := dbc.DB(r.db).
		Model(r.model).
		Where("email = ?", email).
		Order("id ASC").
		Pluck("lesson_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}
