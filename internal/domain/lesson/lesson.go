package lesson

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	VisibilityPublic  = "Public"
	VisibilityPrivate = "Private"

	AccessFree    = "free"
	AccessPremium = "premium"
)

// Counter columns on lessons.
const (
	ColLikesCount     = "likes_count"
	ColFavoritedCount = "favorited_count"
	ColCommentsCount  = "comments_count"
	ColReportCount    = "report_count"
)

// Creator is a snapshot of the author taken at creation time. It is not
// refreshed when the author's profile changes.
type Creator struct {
	Name  string `gorm:"column:name" json:"name"`
	Email string `gorm:"column:email;not null;index" json:"email"`
	Image string `gorm:"column:image" json:"image,omitempty"`
}

type Lesson struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey" json:"_id"`
	Creator Creator   `gorm:"embedded;embeddedPrefix:creator_" json:"creator"`

	Title         string `gorm:"column:title;not null" json:"title"`
	Description   string `gorm:"column:description;type:text" json:"description"`
	Category      string `gorm:"column:category;index" json:"category"`
	EmotionalTone string `gorm:"column:emotional_tone;index" json:"emotionalTone"`
	Image         string `gorm:"column:image" json:"image"`
	Visibility    string `gorm:"column:visibility;not null;default:Public;index" json:"visibility"`
	AccessLevel   string `gorm:"column:access_level;not null;default:free" json:"accessLevel"`

	LikesCount     int `gorm:"column:likes_count;not null;default:0" json:"likesCount"`
	FavoritedCount int `gorm:"column:favorited_count;not null;default:0;index" json:"favoritedCount"`
	CommentsCount  int `gorm:"column:comments_count;not null;default:0" json:"commentsCount"`
	ReportCount    int `gorm:"column:report_count;not null;default:0" json:"reportCount"`

	IsFeatured bool `gorm:"column:is_featured;not null;default:false;index" json:"isFeatured"`
	IsReviewed bool `gorm:"column:is_reviewed;not null;default:false" json:"isReviewed"`
	IsFlagged  bool `gorm:"column:is_flagged;not null;default:false" json:"isFlagged"`

	CreatedAt time.Time `gorm:"column:created_at;not null;index" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null" json:"updatedAt"`

	// Hydrated engagement state.
	Likes     []string         `gorm:"-" json:"likes"`
	Favorites []string         `gorm:"-" json:"favorites"`
	Comments  []Comment        `gorm:"-" json:"comments"`
	Reports   []ReportSnapshot `gorm:"-" json:"reports"`
}

func (Lesson) TableName() string { return "lessons" }

func (l *Lesson) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}
