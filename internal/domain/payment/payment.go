package payment

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
)

// Payment is the local ledger entry for one checkout session.
type Payment struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	SessionID   string         `gorm:"column:session_id;not null;uniqueIndex" json:"sessionId"`
	Email       string         `gorm:"column:email;not null;index" json:"email"`
	AmountCents int64          `gorm:"column:amount_cents;not null;default:0" json:"amountCents"`
	Currency    string         `gorm:"column:currency;not null;default:usd" json:"currency"`
	Status      string         `gorm:"column:status;not null;default:pending" json:"status"`
	EventID     *string        `gorm:"column:event_id;uniqueIndex" json:"eventId,omitempty"`
	Raw         datatypes.JSON `gorm:"column:raw" json:"-"`
	CreatedAt   time.Time      `gorm:"column:created_at;not null" json:"createdAt"`
	UpdatedAt   time.Time      `gorm:"column:updated_at;not null" json:"updatedAt"`
}

func (Payment) TableName() string { return "payments" }

func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
