package telegram

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"telegram-content-gate/internal/config"
	"telegram-content-gate/internal/domain/ports/adapter"
	"telegram-content-gate/internal/infra/logging"
	"telegram-content-gate/internal/infra/metrics"
	"telegram-content-gate/internal/usecase"
)

const recheckCallback = "check_subscription"

// Router dispatches one inbound update to a handler. Each update is handled
// independently; the only cross-update state lives in the repositories.
// Concurrent invocations for different users are safe.
type Router struct {
	cfg     *config.BotConfig
	api     adapter.TelegramAPI
	content usecase.ContentUseCase
	gate    usecase.MembershipGate
	log     *zerolog.Logger

	channelLink string
}

func NewRouter(cfg *config.BotConfig, api adapter.TelegramAPI, content usecase.ContentUseCase, gate usecase.MembershipGate, logger *zerolog.Logger) *Router {
	r := &Router{
		cfg:     cfg,
		api:     api,
		content: content,
		gate:    gate,
		log:     logger,
	}
	if name, ok := channelUsername(cfg.ChannelID); ok {
		r.channelLink = "https://t.me/" + name
	}
	return r
}

// HandleUpdate is the router boundary: no failure propagates past it. Errors
// are logged, the admin is notified and the affected user gets a generic
// retry message.
func (r *Router) HandleUpdate(ctx context.Context, up tgbotapi.Update) {
	log := logging.With(ctx, r.log)

	defer func() {
		if rec := recover(); rec != nil {
			r.reportFailure(ctx, up, fmt.Errorf("panic: %v", rec))
		}
	}()

	var err error
	switch {
	case up.CallbackQuery != nil:
		metrics.IncUpdate("callback")
		err = r.handleCallback(ctx, up.CallbackQuery)
	case up.Message != nil && up.Message.From != nil && up.Message.IsCommand():
		metrics.IncUpdate("command")
		err = r.handleCommand(ctx, up.Message)
	case up.Message != nil && up.Message.From != nil && up.Message.Text != "":
		metrics.IncUpdate("text")
		err = r.handleCodeMessage(ctx, up.Message)
	default:
		metrics.IncUpdate("other")
		log.Debug().Msg("ignoring update without message or callback")
		return
	}
	if err != nil {
		r.reportFailure(ctx, up, err)
	}
}

func (r *Router) reportFailure(ctx context.Context, up tgbotapi.Update, err error) {
	metrics.IncHandlerError()
	logging.With(ctx, r.log).Error().Err(err).Msg("update handler failed")

	if nerr := r.api.SendMessage(ctx, r.cfg.AdminID, "Bot error: "+err.Error(), nil); nerr != nil {
		r.log.Error().Err(nerr).Msg("admin notification failed")
	}
	if up.Message != nil && up.Message.From != nil {
		_ = r.api.SendMessage(ctx, up.Message.Chat.ID, msgInternalError, nil)
	}
}

func (r *Router) isAdmin(userID int64) bool { return userID == r.cfg.AdminID }

// subscribeButtons are re-offered identically on every gate refusal.
func (r *Router) subscribeButtons() [][]adapter.Button {
	var rows [][]adapter.Button
	if r.channelLink != "" {
		rows = append(rows, []adapter.Button{{Label: "Open the channel", URL: r.channelLink}})
	}
	rows = append(rows, []adapter.Button{{Label: "I subscribed", Data: recheckCallback}})
	return rows
}

func channelUsername(channelID string) (string, bool) {
	if len(channelID) > 1 && channelID[0] == '@' {
		return channelID[1:], true
	}
	return "", false
}
