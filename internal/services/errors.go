package services

import (
	"errors"
	"fmt"

	"github.com/yungbote/lifelessons-backend/internal/platform/apierr"
)

// wrapStoreErr passes *apierr.Error through and turns anything else into an
// internal error with op context for logs.
func wrapStoreErr(op string, err error) error {
	if err == nil {
		return nil
	}
	var ae *apierr.Error
	if errors.As(err, &ae) {
		return err
	}
	return apierr.Internal(fmt.Errorf("%s: %w", op, err))
}

// UpdateAck mirrors the acknowledgement shape clients already consume for
// single-document updates.
type UpdateAck struct {
	Acknowledged  bool        `json:"acknowledged"`
	MatchedCount  int64       `json:"matchedCount"`
	ModifiedCount int64       `json:"modifiedCount"`
	UpsertedCount int64       `json:"upsertedCount"`
	UpsertedID    interface{} `json:"upsertedId"`
}

func newUpdateAck(matched, modified int64) *UpdateAck {
	return &UpdateAck{Acknowledged: true, MatchedCount: matched, ModifiedCount: modified}
}
