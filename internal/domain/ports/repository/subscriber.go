package repository

import (
	"context"

	"telegram-content-gate/internal/domain/model"
)

// SubscriberRepository is the port for the membership audit ledger.
type SubscriberRepository interface {
	// Save upserts the last observed membership result for a user.
	Save(ctx context.Context, rec *model.SubscriberRecord) error
	// FindByUserID returns domain.ErrNotFound for users never seen.
	FindByUserID(ctx context.Context, userID int64) (*model.SubscriberRecord, error)
}
