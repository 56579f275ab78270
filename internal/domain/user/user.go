package user

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleUser   = "user"
	RoleAdmin  = "admin"
	RoleSeller = "seller"
)

// Counter columns touched by engagement and lifecycle deltas.
const (
	ColTotalLessons   = "total_lessons"
	ColFavoritesCount = "favorites_count"

	StatLessonsCreated    = "weekly_lessons_created"
	StatLikesReceived     = "weekly_likes_received"
	StatLikesGiven        = "weekly_likes_given"
	StatFavoritesReceived = "weekly_favorites_received"
	StatFavoritesGiven    = "weekly_favorites_given"
	StatCommentsReceived  = "weekly_comments_received"
	StatCommentsGiven     = "weekly_comments_given"
	StatScore             = "weekly_score"
	StatLastUpdated       = "weekly_last_updated"
)

// WeeklyStats feeds the contributor leaderboard. Score is adjusted together
// with the counter that earned it and never recomputed.
type WeeklyStats struct {
	LessonsCreated    int        `gorm:"column:lessons_created;not null;default:0" json:"lessonsCreated"`
	LikesReceived     int        `gorm:"column:likes_received;not null;default:0" json:"likesReceived"`
	LikesGiven        int        `gorm:"column:likes_given;not null;default:0" json:"likesGiven"`
	FavoritesReceived int        `gorm:"column:favorites_received;not null;default:0" json:"favoritesReceived"`
	FavoritesGiven    int        `gorm:"column:favorites_given;not null;default:0" json:"favoritesGiven"`
	CommentsReceived  int        `gorm:"column:comments_received;not null;default:0" json:"commentsReceived"`
	CommentsGiven     int        `gorm:"column:comments_given;not null;default:0" json:"commentsGiven"`
	Score             int        `gorm:"column:score;not null;default:0;index" json:"score"`
	LastUpdated       *time.Time `gorm:"column:last_updated" json:"lastUpdated,omitempty"`
}

type User struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"_id"`
	Email      string    `gorm:"uniqueIndex;not null;column:email" json:"email"`
	Name       string    `gorm:"column:name" json:"name"`
	ImageURL   string    `gorm:"column:image_url" json:"imageURL"`
	Image      string    `gorm:"column:image" json:"image,omitempty"`
	CoverPhoto string    `gorm:"column:cover_photo" json:"coverPhoto,omitempty"`

	Role      string `gorm:"column:role;not null;default:user" json:"role"`
	IsPremium bool   `gorm:"column:is_premium;not null;default:false" json:"isPremium"`

	TotalLessons   int         `gorm:"column:total_lessons;not null;default:0" json:"totalLessons"`
	FavoritesCount int         `gorm:"column:favorites_count;not null;default:0" json:"favoritesCount"`
	WeeklyStats    WeeklyStats `gorm:"embedded;embeddedPrefix:weekly_" json:"weeklyStats"`

	LastLoggedIn time.Time `gorm:"column:last_logged_in" json:"lastLoggedIn"`
	CreatedAt    time.Time `gorm:"column:created_at;not null" json:"createdAt"`
	UpdatedAt    time.Time `gorm:"column:updated_at;not null" json:"updatedAt"`

	// Hydrated from user_lessons and lesson_favorites.
	MyLesson  []uuid.UUID `gorm:"-" json:"myLesson"`
	Favorites []uuid.UUID `gorm:"-" json:"favorites"`
}

func (User) TableName() string { return "users" }

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// OwnedLesson is the myLesson set: one row per lesson a user authored.
type OwnedLesson struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	Email     string    `gorm:"column:email;not null;uniqueIndex:idx_user_lessons_member,priority:1" json:"email"`
	LessonID  uuid.UUID `gorm:"type:uuid;column:lesson_id;not null;uniqueIndex:idx_user_lessons_member,priority:2;index" json:"lessonId"`
	CreatedAt time.Time `gorm:"column:created_at;not null" json:"createdAt"`
}

func (OwnedLesson) TableName() string { return "user_lessons" }
