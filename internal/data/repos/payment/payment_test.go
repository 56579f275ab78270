package payment

import (
	"context"
	"testing"

	"gorm.io/datatypes"

	"github.com/yungbote/lifelessons-backend/internal/data/repos/testutil"
	types "github.com/yungbote/lifelessons-backend/internal/domain"
	domainPayment "github.com/yungbote/lifelessons-backend/internal/domain/payment"
	"github.com/yungbote/lifelessons-backend/internal/platform/dbctx"
)

func TestPaymentRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	repo := NewPaymentRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}

	p := &types.Payment{SessionID: "cs_test_1", Email: "buyer@example.com", AmountCents: 1500, Currency: "usd", Status: domainPayment.StatusPending}
	if err := repo.Create(dbc, p); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := repo.GetBySessionID(dbc, "cs_test_1")
	if err != nil || got == nil || got.AmountCents != 1500 {
		t.Fatalf("GetBySessionID: %+v err=%v", got, err)
	}
	missing, err := repo.GetBySessionID(dbc, "cs_missing")
	if err != nil || missing != nil {
		t.Fatalf("GetBySessionID (missing): %+v err=%v", missing, err)
	}

	eventID := "evt_1"
	if err := repo.Upsert(dbc, &types.Payment{
		SessionID:   "cs_test_1",
		Email:       "buyer@example.com",
		AmountCents: 1500,
		Currency:    "usd",
		Status:      domainPayment.StatusCompleted,
		EventID:     &eventID,
		Raw:         datatypes.JSON(`{"id":"evt_1"}`),
	}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	got, _ = repo.GetBySessionID(dbc, "cs_test_1")
	if got.Status != domainPayment.StatusCompleted || got.EventID == nil || *got.EventID != eventID {
		t.Fatalf("Upsert did not update row: %+v", got)
	}
	if got.ID != p.ID {
		t.Fatalf("Upsert replaced row id: %s != %s", got.ID, p.ID)
	}

	seen, err := repo.EventSeen(dbc, eventID)
	if err != nil || !seen {
		t.Fatalf("EventSeen: %v err=%v", seen, err)
	}
	seen, err = repo.EventSeen(dbc, "evt_other")
	if err != nil || seen {
		t.Fatalf("EventSeen (other): %v err=%v", seen, err)
	}
}
