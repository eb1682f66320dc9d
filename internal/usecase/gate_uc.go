package usecase

import (
	"context"

	"telegram-content-gate/internal/domain/model"
	"telegram-content-gate/internal/domain/ports/adapter"
	"telegram-content-gate/internal/domain/ports/repository"

	"github.com/rs/zerolog"
)

// Compile-time check
var _ MembershipGate = (*gateUC)(nil)

// MembershipGate answers "may this user receive content right now".
type MembershipGate interface {
	// CheckAndRecord queries the live channel membership, persists the
	// result in the subscriber ledger and returns it. Fail-closed: any
	// query error counts as not subscribed. No retries.
	CheckAndRecord(ctx context.Context, userID int64) bool
}

// Statuses that count as subscribed.
var memberStatuses = map[string]struct{}{
	"creator":       {},
	"administrator": {},
	"member":        {},
}

type gateUC struct {
	api  adapter.TelegramAPI
	subs repository.SubscriberRepository
	log  *zerolog.Logger
}

func NewMembershipGate(api adapter.TelegramAPI, subs repository.SubscriberRepository, logger *zerolog.Logger) *gateUC {
	return &gateUC{api: api, subs: subs, log: logger}
}

func (g *gateUC) CheckAndRecord(ctx context.Context, userID int64) bool {
	subscribed := false
	status, err := g.api.ChatMemberStatus(ctx, userID)
	if err != nil {
		g.log.Error().Err(err).Int64("user_id", userID).Msg("membership check failed")
	} else {
		_, subscribed = memberStatuses[status]
	}

	// Ledger write is an audit trail; a failure here never blocks the user.
	rec := &model.SubscriberRecord{UserID: userID, IsSubscribed: subscribed}
	if err := g.subs.Save(ctx, rec); err != nil {
		g.log.Error().Err(err).Int64("user_id", userID).Msg("subscriber ledger write failed")
	}
	return subscribed
}
