package telegram

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"telegram-content-gate/internal/domain"
	"telegram-content-gate/internal/infra/metrics"
)

const (
	msgCodeNotFound   = "Unknown code. Please check it and try again. 🚫"
	msgDeliveryFailed = "Failed to send the item. Please try again. 🚫"
)

// handleCodeMessage treats any non-command text as a content code. The gate
// runs first; no lookup happens for unsubscribed users.
func (r *Router) handleCodeMessage(ctx context.Context, msg *tgbotapi.Message) error {
	if !r.gate.CheckAndRecord(ctx, msg.From.ID) {
		metrics.IncGateCheck("blocked")
		return r.api.SendMessage(ctx, msg.Chat.ID, msgSubscribeFirst, r.subscribeButtons())
	}
	metrics.IncGateCheck("subscribed")

	code := strings.TrimSpace(msg.Text)
	item, err := r.content.Lookup(ctx, code)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			metrics.IncDelivery("not_found")
			return r.api.SendMessage(ctx, msg.Chat.ID, msgCodeNotFound, nil)
		}
		return err
	}

	// Delivery first, increment only after it succeeded.
	if err := r.api.ForwardFromChannel(ctx, msg.Chat.ID, item.MessageID); err != nil {
		metrics.IncDelivery("failed")
		r.log.Error().Err(err).Str("code", code).Msg("content delivery failed")
		return r.api.SendMessage(ctx, msg.Chat.ID, msgDeliveryFailed, nil)
	}
	metrics.IncDelivery("sent")

	if err := r.content.RecordDelivery(ctx, code); err != nil {
		// The user already has the item; losing one count is the lesser harm.
		r.log.Error().Err(err).Str("code", code).Msg("access count increment failed")
	}
	return r.api.SendMessage(ctx, msg.Chat.ID, fmt.Sprintf("Sent the item for code %s. 🎥", code), nil)
}
