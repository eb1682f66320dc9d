package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"telegram-content-gate/internal/infra/metrics"
)

const (
	msgRecheckOK   = "Subscription confirmed! 🎉 Now send a content code (for example, 15)."
	msgRecheckFail = "You are not subscribed to the channel yet. Please join and try again."
)

func (r *Router) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) error {
	if err := r.api.AnswerCallbackQuery(ctx, cb.ID); err != nil {
		r.log.Warn().Err(err).Msg("answer callback failed")
	}
	if cb.Data != recheckCallback || cb.Message == nil {
		return nil
	}

	chatID := cb.Message.Chat.ID
	if r.gate.CheckAndRecord(ctx, cb.From.ID) {
		metrics.IncGateCheck("subscribed")
		return r.api.EditMessageText(ctx, chatID, cb.Message.MessageID, msgRecheckOK, nil)
	}
	metrics.IncGateCheck("blocked")
	// Idempotent: the retry prompt re-offers the same two options.
	return r.api.EditMessageText(ctx, chatID, cb.Message.MessageID, msgRecheckFail, r.subscribeButtons())
}
