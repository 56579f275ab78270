package payment

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/lifelessons-backend/internal/domain"
	"github.com/yungbote/lifelessons-backend/internal/platform/dbctx"
	"github.com/yungbote/lifelessons-backend/internal/platform/logger"
)

type PaymentRepo interface {
	Create(dbc dbctx.Context, payment *types.Payment) error
	GetBySessionID(dbc dbctx.Context, sessionID string) (*types.Payment, error)
	// Upsert inserts the payment or, on a session_id conflict, overwrites
	// status, event, amount and raw payload.
	Upsert(dbc dbctx.Context, payment *types.Payment) error
	EventSeen(dbc dbctx.Context, eventID string) (bool, error)
}

type paymentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPaymentRepo(db *gorm.DB, baseLog *logger.Logger) PaymentRepo {
	repoLog := baseLog.With("repo", "PaymentRepo")
	return &paymentRepo{db: db, log: repoLog}
}

func (r *paymentRepo) Create(dbc dbctx.Context, payment *types.Payment) error {
	return dbc.DB(r.db).Create(payment).Error
}

func (r *paymentRepo) GetBySessionID(dbc dbctx.Context, sessionID string) (*types.Payment, error) {
	var out []*types.Payment
	if err := dbc.DB(r.db).
		Where("session_id = ?", sessionID).
		Limit(1).
		Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *paymentRepo) Upsert(dbc dbctx.Context, payment *types.Payment) error {
	payment.UpdatedAt = time.Now().UTC()
	cols := []string{"status", "amount_cents", "currency", "raw", "updated_at"}
	if payment.EventID != nil {
		cols = append(cols, "event_id")
	}
	return dbc.DB(r.db).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "session_id"}},
			DoUpdates: clause.AssignmentColumns(cols),
		}).
		Create(payment).Error
}

func (r *paymentRepo) EventSeen(dbc dbctx.Context, eventID string) (bool, error) {
	if eventID == "" {
		return false, nil
	}
	var n int64
	if err := dbc.DB(r.db).
		Model(&types.Payment{}).
		Where("event_id = ?", eventID).
		Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}
