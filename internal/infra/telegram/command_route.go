package telegram

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"telegram-content-gate/internal/domain"
	"telegram-content-gate/internal/infra/metrics"
)

const (
	msgWelcome = "Hi! You are subscribed to the channel. 🎉 " +
		"Send a content code (for example, 15) and I will forward the item to you."
	msgSubscribeFirst = "Please subscribe to the channel first, then press 'I subscribed'."
	msgAdminOnly      = "This command is for the admin only. 🚫"
	msgAddUsage       = "Usage: /add <code> <message_id>. Example: /add 15 12345"
	msgAddBadRef      = "The message ID must be a number. 🚫"
	msgNoStats        = "No statistics yet."
	msgInternalError  = "Something went wrong, please try again. 🚫"
)

func (r *Router) handleCommand(ctx context.Context, msg *tgbotapi.Message) error {
	switch msg.Command() {
	case "start":
		return r.handleStart(ctx, msg)
	case "add":
		return r.handleAdd(ctx, msg)
	case "stats":
		return r.handleStats(ctx, msg)
	default:
		return r.api.SendMessage(ctx, msg.Chat.ID, "Unknown command. Send /start to begin.", nil)
	}
}

func (r *Router) handleStart(ctx context.Context, msg *tgbotapi.Message) error {
	if r.gate.CheckAndRecord(ctx, msg.From.ID) {
		metrics.IncGateCheck("subscribed")
		return r.api.SendMessage(ctx, msg.Chat.ID, msgWelcome, nil)
	}
	metrics.IncGateCheck("blocked")
	return r.api.SendMessage(ctx, msg.Chat.ID, msgSubscribeFirst, r.subscribeButtons())
}

func (r *Router) handleAdd(ctx context.Context, msg *tgbotapi.Message) error {
	if !r.isAdmin(msg.From.ID) {
		return r.api.SendMessage(ctx, msg.Chat.ID, msgAdminOnly, nil)
	}

	args := strings.Fields(msg.CommandArguments())
	if len(args) != 2 {
		return r.api.SendMessage(ctx, msg.Chat.ID, msgAddUsage, nil)
	}
	code := args[0]
	messageID, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		return r.api.SendMessage(ctx, msg.Chat.ID, msgAddBadRef, nil)
	}

	if err := r.content.Register(ctx, code, messageID); err != nil {
		if errors.Is(err, domain.ErrInvalidArgument) {
			return r.api.SendMessage(ctx, msg.Chat.ID, msgAddUsage, nil)
		}
		return err
	}
	return r.api.SendMessage(ctx, msg.Chat.ID, fmt.Sprintf("Content registered under code %s. ✅", code), nil)
}

func (r *Router) handleStats(ctx context.Context, msg *tgbotapi.Message) error {
	if !r.isAdmin(msg.From.ID) {
		return r.api.SendMessage(ctx, msg.Chat.ID, msgAdminOnly, nil)
	}

	stats, err := r.content.Stats(ctx)
	if err != nil {
		return err
	}
	if len(stats) == 0 {
		return r.api.SendMessage(ctx, msg.Chat.ID, msgNoStats, nil)
	}

	var b strings.Builder
	b.WriteString("📊 Content statistics:\n\n")
	for _, s := range stats {
		fmt.Fprintf(&b, "Code: %s, deliveries: %d\n", s.Code, s.AccessCount)
	}
	return r.api.SendMessage(ctx, msg.Chat.ID, b.String(), nil)
}
