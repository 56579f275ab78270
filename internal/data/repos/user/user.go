package user

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/lifelessons-backend/internal/domain"
	domainUser "github.com/yungbote/lifelessons-backend/internal/domain/user"
	"github.com/yungbote/lifelessons-backend/internal/platform/dbctx"
	"github.com/yungbote/lifelessons-backend/internal/platform/logger"
)

type UserRepo interface {
	Create(dbc dbctx.Context, user *types.User) error
	GetByEmail(dbc dbctx.Context, email string) (*types.User, error)
	GetByEmails(dbc dbctx.Context, emails []string) ([]*types.User, error)
	ListExcept(dbc dbctx.Context, email string) ([]*types.User, error)
	TopByScore(dbc dbctx.Context, limit int) ([]*types.User, error)

	TouchLastLoggedIn(dbc dbctx.Context, email string, at time.Time) (int64, error)
	UpdateProfile(dbc dbctx.Context, email string, updates map[string]interface{}) (int64, error)
	SetPremium(dbc dbctx.Context, email string, premium bool) (matched int64, modified int64, err error)
	AdjustStats(dbc dbctx.Context, email string, deltas map[string]int) (int64, error)

	AddOwnedLesson(dbc dbctx.Context, email string, lessonID uuid.UUID) (bool, error)
	RemoveOwnedLesson(dbc dbctx.Context, email string, lessonID uuid.UUID) (bool, error)
	FindOwnerOfLesson(dbc dbctx.Context, lessonID uuid.UUID) (string, error)
	OwnedLessonIDs(dbc dbctx.Context, email string) ([]uuid.UUID, error)

	Hydrate(dbc dbctx.Context, users []*types.User) error
}

type userRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo {
	repoLog := baseLog.With("repo", "UserRepo")
	return &userRepo{db: db, log: repoLog}
}

var statColumns = map[string]bool{
	domainUser.ColTotalLessons:          true,
	domainUser.ColFavoritesCount:        true,
	domainUser.StatLessonsCreated:       true,
	domainUser.StatLikesReceived:        true,
	domainUser.StatLikesGiven:           true,
	domainUser.StatFavoritesReceived:    true,
	domainUser.StatFavoritesGiven:       true,
	domainUser.StatCommentsReceived:     true,
	domainUser.StatCommentsGiven:        true,
	domainUser.StatScore:                true,
}

func (ur *userRepo) Create(dbc dbctx.Context, user *types.User) error {
	if user == nil {
		return errors.New("nil user")
	}
	return dbc.DB(ur.db).Create(user).Error
}

func (ur *userRepo) GetByEmail(dbc dbctx.Context, email string) (*types.User, error) {
	if strings.TrimSpace(email) == "" {
		return nil, nil
	}
	var out types.User
	if err := dbc.DB(ur.db).
		Where("email = ?", email).
		Limit(1).
		Find(&out).Error; err != nil {
		return nil, err
	}
	if out.ID == uuid.Nil {
		return nil, nil
	}
	return &out, nil
}

func (ur *userRepo) GetByEmails(dbc dbctx.Context, emails []string) ([]*types.User, error) {
	var results []*types.User
	if len(emails) == 0 {
		return results, nil
	}
	if err := dbc.DB(ur.db).
		Where("email IN ?", emails).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (ur *userRepo) ListExcept(dbc dbctx.Context, email string) ([]*types.User, error) {
	var results []*types.User
	if err := dbc.DB(ur.db).
		Where("email <> ?", email).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (ur *userRepo) TopByScore(dbc dbctx.Context, limit int) ([]*types.User, error) {
	var results []*types.User
	if err := dbc.DB(ur.db).
		Order(domainUser.StatScore + " DESC").
		Order("email ASC").
		Limit(limit).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (ur *userRepo) TouchLastLoggedIn(dbc dbctx.Context, email string, at time.Time) (int64, error) {
	res := dbc.DB(ur.db).
		Model(&types.User{}).
		Where("email = ?", email).
		Update("last_logged_in", at)
	return res.RowsAffected, res.Error
}

func (ur *userRepo) UpdateProfile(dbc dbctx.Context, email string, updates map[string]interface{}) (int64, error) {
	if len(updates) == 0 {
		return 0, nil
	}
	res := dbc.DB(ur.db).
		Model(&types.User{}).
		Where("email = ?", email).
		Updates(updates)
	return res.RowsAffected, res.Error
}

// SetPremium reports how many users matched and how many actually flipped.
func (ur *userRepo) SetPremium(dbc dbctx.Context, email string, premium bool) (int64, int64, error) {
	db := dbc.DB(ur.db)
	var matched int64
	if err := db.Model(&types.User{}).Where("email = ?", email).Count(&matched).Error; err != nil {
		return 0, 0, err
	}
	if matched == 0 {
		return 0, 0, nil
	}
	res := db.Model(&types.User{}).
		Where("email = ? AND is_premium <> ?", email, premium).
		Update("is_premium", premium)
	return matched, res.RowsAffected, res.Error
}

// AdjustStats applies signed increments to counter columns in one UPDATE.
// A missing user is not an error; the returned count is 0.
func (ur *userRepo) AdjustStats(dbc dbctx.Context, email string, deltas map[string]int) (int64, error) {
	updates := make(map[string]interface{}, len(deltas)+1)
	touchesWeekly := false
	for col, delta := range deltas {
		if !statColumns[col] {
			return 0, errors.New("unknown user stat: " + col)
		}
		if delta == 0 {
			continue
		}
		updates[col] = gorm.Expr(col+" + ?", delta)
		if strings.HasPrefix(col, "weekly_") {
			touchesWeekly = true
		}
	}
	if len(updates) == 0 {
		return 0, nil
	}
	if touchesWeekly {
		updates[domainUser.StatLastUpdated] = time.Now().UTC()
	}
	res := dbc.DB(ur.db).
		Model(&types.User{}).
		Where("email = ?", email).
		UpdateColumns(updates)
	return res.RowsAffected, res.Error
}

func (ur *userRepo) AddOwnedLesson(dbc dbctx.Context, email string, lessonID uuid.UUID) (bool, error) {
	res := dbc.DB(ur.db).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&types.OwnedLesson{Email: email, LessonID: lessonID})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (ur *userRepo) RemoveOwnedLesson(dbc dbctx.Context, email string, lessonID uuid.UUID) (bool, error) {
	res := dbc.DB(ur.db).
		Where("email = ? AND lesson_id = ?", email, lessonID).
		Delete(&types.OwnedLesson{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (ur *userRepo) FindOwnerOfLesson(dbc dbctx.Context, lessonID uuid.UUID) (string, error) {
	var row types.OwnedLesson
	if err := dbc.DB(ur.db).
		Where("lesson_id = ?", lessonID).
		Limit(1).
		Find(&row).Error; err != nil {
		return "", err
	}
	return row.Email, nil
}

func (ur *userRepo) OwnedLessonIDs(dbc dbctx.Context, email string) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if err := dbc.DB(ur.db).
		Model(&types.OwnedLesson{}).
		Where("email = ?", email).
		Order("id ASC").
		Pluck("lesson_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// Hydrate fills MyLesson and Favorites for each user.
func (ur *userRepo) Hydrate(dbc dbctx.Context, users []*types.User) error {
	if len(users) == 0 {
		return nil
	}
	emails := make([]string, 0, len(users))
	byEmail := make(map[string]*types.User, len(users))
	for _, u := range users {
		if u == nil {
			continue
		}
		u.MyLesson = []uuid.UUID{}
		u.Favorites = []uuid.UUID{}
		emails = append(emails, u.Email)
		byEmail[u.Email] = u
	}
	db := dbc.DB(ur.db)

	var owned []types.OwnedLesson
	if err := db.Where("email IN ?", emails).Order("id ASC").Find(&owned).Error; err != nil {
		return err
	}
	for _, row := range owned {
		if u := byEmail[row.Email]; u != nil {
			u.MyLesson = append(u.MyLesson, row.LessonID)
		}
	}

	var favorites []types.LessonFavorite
	if err := db.Where("email IN ?", emails).Order("id ASC").Find(&favorites).Error; err != nil {
		return err
	}
	for _, row := range favorites {
		if u := byEmail[row.Email]; u != nil {
			u.Favorites = append(u.Favorites, row.LessonID)
		}
	}
	return nil
}
