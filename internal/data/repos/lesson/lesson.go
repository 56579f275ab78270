package lesson

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/lifelessons-backend/internal/domain"
	domainLesson "github.com/yungbote/lifelessons-backend/internal/domain/lesson"
	"github.com/yungbote/lifelessons-backend/internal/platform/dbctx"
	"github.com/yungbote/lifelessons-backend/internal/platform/logger"
)

// PublicFilter drives the public lesson browser. Zero-value fields are ignored.
type PublicFilter struct {
	Category string
	Tone     string
	Search   string
	Offset   int
	Limit    int
}

const (
	StatusFlagged    = "flagged"
	StatusReviewed   = "reviewed"
	StatusUnreviewed = "unreviewed"
	StatusFeatured   = "featured"
)

type AdminFilter struct {
	Category   string
	Visibility string
	Status     string
}

type Stats struct {
	PublicCount  int64 `json:"publicCount"`
	PrivateCount int64 `json:"privateCount"`
	ReportCount  int64 `json:"reportCount"`
}

type LessonRepo interface {
	Create(dbc dbctx.Context, lesson *types.Lesson) error
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Lesson, error)
	GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Lesson, error)
	UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) (int64, error)
	Delete(dbc dbctx.Context, id uuid.UUID) (int64, error)

	AdjustCounter(dbc dbctx.Context, id uuid.UUID, column string, delta int) error
	ResetCounter(dbc dbctx.Context, id uuid.UUID, column string) (int64, error)

	ListByCreator(dbc dbctx.Context, email string) ([]*types.Lesson, error)
	ListPublic(dbc dbctx.Context, filter PublicFilter) ([]*types.Lesson, int64, error)
	ListFeatured(dbc dbctx.Context, limit int) ([]*types.Lesson, error)
	ListMostSaved(dbc dbctx.Context, limit int) ([]*types.Lesson, error)
	ListSimilar(dbc dbctx.Context, lesson *types.Lesson, limit int) ([]*types.Lesson, error)
	ListFavoritedBy(dbc dbctx.Context, email string) ([]*types.Lesson, error)
	ListRecentOwnedBy(dbc dbctx.Context, email string, limit int) ([]*types.Lesson, error)
	ListAdmin(dbc dbctx.Context, filter AdminFilter) ([]*types.Lesson, error)
	Stats(dbc dbctx.Context) (Stats, error)

	Hydrate(dbc dbctx.Context, lessons []*types.Lesson) error
}

type lessonRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLessonRepo(db *gorm.DB, baseLog *logger.Logger) LessonRepo {
	return &lessonRepo{db: db, log: baseLog.With("repo", "LessonRepo")}
}

var counterColumns = map[string]bool{
	domainLesson.ColLikesCount:     true,
	domainLesson.ColFavoritedCount: true,
	domainLesson.ColCommentsCount:  true,
	domainLesson.ColReportCount:    true,
}

func (r *lessonRepo) Create(dbc dbctx.Context, lesson *types.Lesson) error {
	if lesson == nil {
		return errors.New("nil lesson")
	}
	return dbc.DB(r.db).Create(lesson).Error
}

func (r *lessonRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Lesson, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	var out types.Lesson
	err := dbc.DB(r.db).Where("id = ?", id).Limit(1).Find(&out).Error
	if err != nil {
		return nil, err
	}
	if out.ID == uuid.Nil {
		return nil, nil
	}
	return &out, nil
}

func (r *lessonRepo) GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Lesson, error) {
	var out []*types.Lesson
	if len(ids) == 0 {
		return out, nil
	}
	if err := dbc.DB(r.db).
		Where("id IN ?", ids).
		Order("created_at DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *lessonRepo) UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) (int64, error) {
	if id == uuid.Nil || len(updates) == 0 {
		return 0, nil
	}
	res := dbc.DB(r.db).
		Model(&types.Lesson{}).
		Where("id = ?", id).
		Updates(updates)
	return res.RowsAffected, res.Error
}

func (r *lessonRepo) Delete(dbc dbctx.Context, id uuid.UUID) (int64, error) {
	if id == uuid.Nil {
		return 0, nil
	}
	res := dbc.DB(r.db).Where("id = ?", id).Delete(&types.Lesson{})
	return res.RowsAffected, res.Error
}

// AdjustCounter applies an in-place increment so concurrent writers never
// lose an update.
func (r *lessonRepo) AdjustCounter(dbc dbctx.Context, id uuid.UUID, column string, delta int) error {
	if !counterColumns[column] {
		return errors.New("unknown lesson counter: " + column)
	}
	if delta == 0 {
		return nil
	}
	return dbc.DB(r.db).
		Model(&types.Lesson{}).
		Where("id = ?", id).
		UpdateColumn(column, gorm.Expr(column+" + ?", delta)).Error
}

func (r *lessonRepo) ResetCounter(dbc dbctx.Context, id uuid.UUID, column string) (int64, error) {
	if !counterColumns[column] {
		return 0, errors.New("unknown lesson counter: " + column)
	}
	res := dbc.DB(r.db).
		Model(&types.Lesson{}).
		Where("id = ?", id).
		UpdateColumn(column, 0)
	return res.RowsAffected, res.Error
}

func (r *lessonRepo) ListByCreator(dbc dbctx.Context, email string) ([]*types.Lesson, error) {
	var out []*types.Lesson
	if err := dbc.DB(r.db).
		Where("creator_email = ?", email).
		Order("created_at DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *lessonRepo) ListPublic(dbc dbctx.Context, filter PublicFilter) ([]*types.Lesson, int64, error) {
	base := func() *gorm.DB {
		q := dbc.DB(r.db).
			Model(&types.Lesson{}).
			Where("visibility = ?", domainLesson.VisibilityPublic)
		if filter.Category != "" {
			q = q.Where("category = ?", filter.Category)
		}
		if filter.Tone != "" {
			q = q.Where("emotional_tone = ?", filter.Tone)
		}
		if s := strings.TrimSpace(filter.Search); s != "" {
			pattern := "%" + escapeLike(strings.ToLower(s)) + "%"
			q = q.Where(`(LOWER(title) LIKE ? ESCAPE '\' OR LOWER(description) LIKE ? ESCAPE '\')`, pattern, pattern)
		}
		return q
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var out []*types.Lesson
	q := base().Order("created_at DESC").Offset(filter.Offset)
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}
	if err := q.Find(&out).Error; err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *lessonRepo) ListFeatured(dbc dbctx.Context, limit int) ([]*types.Lesson, error) {
	var out []*types.Lesson
	if err := dbc.DB(r.db).
		Where("is_featured = ?", true).
		Order("created_at DESC").
		Limit(limit).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *lessonRepo) ListMostSaved(dbc dbctx.Context, limit int) ([]*types.Lesson, error) {
	var out []*types.Lesson
	if err := dbc.DB(r.db).
		Order("favorited_count DESC").
		Order("created_at DESC").
		Limit(limit).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *lessonRepo) ListSimilar(dbc dbctx.Context, lesson *types.Lesson, limit int) ([]*types.Lesson, error) {
	var out []*types.Lesson
	if lesson == nil {
		return out, nil
	}
	if err := dbc.DB(r.db).
		Where("id <> ?", lesson.ID).
		Where("(category = ? OR emotional_tone = ?)", lesson.Category, lesson.EmotionalTone).
		Order("created_at DESC").
		Limit(limit).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *lessonRepo) ListFavoritedBy(dbc dbctx.Context, email string) ([]*types.Lesson, error) {
	var out []*types.Lesson
	if err := dbc.DB(r.db).
		Joins("JOIN lesson_favorites ON lesson_favorites.lesson_id = lessons.id").
		Where("lesson_favorites.email = ?", email).
		Order("lessons.created_at DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *lessonRepo) ListRecentOwnedBy(dbc dbctx.Context, email string, limit int) ([]*types.Lesson, error) {
	var out []*types.Lesson
	if err := dbc.DB(r.db).
		Joins("JOIN user_lessons ON user_lessons.lesson_id = lessons.id").
		Where("user_lessons.email = ?", email).
		Order("lessons.created_at DESC").
		Limit(limit).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *lessonRepo) ListAdmin(dbc dbctx.Context, filter AdminFilter) ([]*types.Lesson, error) {
	q := dbc.DB(r.db).Model(&types.Lesson{})
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	if filter.Visibility != "" {
		q = q.Where("visibility = ?", filter.Visibility)
	}
	switch filter.Status {
	case StatusFlagged:
		q = q.Where("is_flagged = ?", true)
	case StatusReviewed:
		q = q.Where("is_reviewed = ?", true)
	case StatusUnreviewed:
		q = q.Where("is_reviewed = ?", false)
	case StatusFeatured:
		q = q.Where("is_featured = ?", true)
	}
	var out []*types.Lesson
	if err := q.Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// Stats scans every lesson once. Fine at current volume; revisit with a
// maintained summary row if the table grows large.
func (r *lessonRepo) Stats(dbc dbctx.Context) (Stats, error) {
	var out Stats
	err := dbc.DB(r.db).
		Model(&types.Lesson{}).
		Select(`
			COALESCE(SUM(CASE WHEN visibility = ? THEN 1 ELSE 0 END), 0) AS public_count,
			COALESCE(SUM(CASE WHEN visibility = ? THEN 1 ELSE 0 END), 0) AS private_count,
			COALESCE(SUM(CASE WHEN report_count > 0 THEN 1 ELSE 0 END), 0) AS report_count`,
			domainLesson.VisibilityPublic, domainLesson.VisibilityPrivate,
		).
		Scan(&out).Error
	return out, err
}

// Hydrate loads the engagement sets for each lesson with one query per
// relation. Slices are always non-nil so they render as [].
func (r *lessonRepo) Hydrate(dbc dbctx.Context, lessons []*types.Lesson) error {
	if len(lessons) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, 0, len(lessons))
	byID := make(map[uuid.UUID][]*types.Lesson, len(lessons))
	for _, l := range lessons {
		if l == nil {
			continue
		}
		l.Likes = []string{}
		l.Favorites = []string{}
		l.Comments = []types.LessonComment{}
		l.Reports = []types.LessonReportSnapshot{}
		if _, seen := byID[l.ID]; !seen {
			ids = append(ids, l.ID)
		}
		byID[l.ID] = append(byID[l.ID], l)
	}
	db := dbc.DB(r.db)

	var likes []types.LessonLike
	if err := db.Where("lesson_id IN ?", ids).Order("id ASC").Find(&likes).Error; err != nil {
		return err
	}
	for _, row := range likes {
		for _, l := range byID[row.LessonID] {
			l.Likes = append(l.Likes, row.Email)
		}
	}

	var favorites []types.LessonFavorite
	if err := db.Where("lesson_id IN ?", ids).Order("id ASC").Find(&favorites).Error; err != nil {
		return err
	}
	for _, row := range favorites {
		for _, l := range byID[row.LessonID] {
			l.Favorites = append(l.Favorites, row.Email)
		}
	}

	var comments []types.LessonComment
	if err := db.Where("lesson_id IN ?", ids).Order("id ASC").Find(&comments).Error; err != nil {
		return err
	}
	for _, row := range comments {
		for _, l := range byID[row.LessonID] {
			l.Comments = append(l.Comments, row)
		}
	}

	var snapshots []types.LessonReportSnapshot
	if err := db.Where("lesson_id IN ?", ids).Order("reported_at ASC").Find(&snapshots).Error; err != nil {
		return err
	}
	for _, row := range snapshots {
		for _, l := range byID[row.LessonID] {
			l.Reports = append(l.Reports, row)
		}
	}
	return nil
}

func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}
