package telegram

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"telegram-content-gate/internal/config"
	"telegram-content-gate/internal/domain/ports/adapter"
)

var _ adapter.TelegramAPI = (*RealTelegramBotAdapter)(nil)

// RealTelegramBotAdapter implements adapter.TelegramAPI on top of tgbotapi.
// The channel may be configured as "@username" or as a numeric chat ID.
type RealTelegramBotAdapter struct {
	bot         *tgbotapi.BotAPI
	channelID   int64
	channelName string // without the leading @, empty when numeric
	log         *zerolog.Logger
}

func NewRealTelegramBotAdapter(cfg *config.BotConfig, logger *zerolog.Logger) (*RealTelegramBotAdapter, error) {
	if cfg == nil {
		return nil, errors.New("bot config is nil")
	}
	bot, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("telegram: connect: %w", err)
	}

	a := &RealTelegramBotAdapter{bot: bot, log: logger}
	if name, ok := strings.CutPrefix(cfg.ChannelID, "@"); ok {
		a.channelName = name
	} else {
		id, err := strconv.ParseInt(cfg.ChannelID, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("telegram: channel_id %q is neither @username nor numeric", cfg.ChannelID)
		}
		a.channelID = id
	}
	return a, nil
}

// ChannelName reports the channel username when one is configured. The
// router uses it to build the join link.
func (a *RealTelegramBotAdapter) ChannelName() string { return a.channelName }

func (a *RealTelegramBotAdapter) ChatMemberStatus(ctx context.Context, userID int64) (string, error) {
	member, err := a.bot.GetChatMember(tgbotapi.GetChatMemberConfig{
		ChatConfigWithUser: tgbotapi.ChatConfigWithUser{
			ChatID:             a.channelID,
			SuperGroupUsername: a.usernameRef(),
			UserID:             userID,
		},
	})
	if err != nil {
		return "", fmt.Errorf("telegram: get chat member: %w", err)
	}
	return member.Status, nil
}

func (a *RealTelegramBotAdapter) SendMessage(ctx context.Context, chatID int64, text string, buttons [][]adapter.Button) error {
	msg := tgbotapi.NewMessage(chatID, text)
	if markup := buildMarkup(buttons); markup != nil {
		msg.ReplyMarkup = *markup
	}
	if _, err := a.bot.Send(msg); err != nil {
		return fmt.Errorf("telegram: send message: %w", err)
	}
	return nil
}

func (a *RealTelegramBotAdapter) EditMessageText(ctx context.Context, chatID int64, messageID int, text string, buttons [][]adapter.Button) error {
	var edit tgbotapi.EditMessageTextConfig
	if markup := buildMarkup(buttons); markup != nil {
		edit = tgbotapi.NewEditMessageTextAndMarkup(chatID, messageID, text, *markup)
	} else {
		edit = tgbotapi.NewEditMessageText(chatID, messageID, text)
	}
	if _, err := a.bot.Send(edit); err != nil {
		return fmt.Errorf("telegram: edit message: %w", err)
	}
	return nil
}

func (a *RealTelegramBotAdapter) ForwardFromChannel(ctx context.Context, chatID int64, messageID int64) error {
	fwd := tgbotapi.ForwardConfig{
		BaseChat:            tgbotapi.BaseChat{ChatID: chatID},
		FromChatID:          a.channelID,
		FromChannelUsername: a.usernameRef(),
		MessageID:           int(messageID),
	}
	if _, err := a.bot.Send(fwd); err != nil {
		return fmt.Errorf("telegram: forward message %d: %w", messageID, err)
	}
	return nil
}

func (a *RealTelegramBotAdapter) AnswerCallbackQuery(ctx context.Context, callbackID string) error {
	if _, err := a.bot.Request(tgbotapi.NewCallback(callbackID, "")); err != nil {
		return fmt.Errorf("telegram: answer callback: %w", err)
	}
	return nil
}

func (a *RealTelegramBotAdapter) SetWebhook(ctx context.Context, url string) error {
	wh, err := tgbotapi.NewWebhook(url)
	if err != nil {
		return fmt.Errorf("telegram: webhook config: %w", err)
	}
	if _, err := a.bot.Request(wh); err != nil {
		return fmt.Errorf("telegram: set webhook: %w", err)
	}
	return nil
}

// DeleteWebhook clears any registered webhook. Required before polling.
func (a *RealTelegramBotAdapter) DeleteWebhook(ctx context.Context) error {
	_, err := a.bot.Request(tgbotapi.DeleteWebhookConfig{})
	return err
}

// StartPolling long-polls updates and fans them out to workers, each of
// which hands its update to handle. Dev fallback for running without a
// public URL; the webhook path is the primary ingestion route.
// Runs until ctx is canceled.
func (a *RealTelegramBotAdapter) StartPolling(ctx context.Context, workers int, handle func(ctx context.Context, up tgbotapi.Update)) error {
	if workers <= 0 {
		workers = 4
	}
	a.log.Info().Int("workers", workers).Msg("starting update polling")
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := a.bot.GetUpdatesChan(u)

	var wg sync.WaitGroup
	updateChan := make(chan tgbotapi.Update, 100)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case up, ok := <-updateChan:
					if !ok {
						return
					}
					handle(ctx, up)
				}
			}
		}()
	}

	for {
		select {
		case <-ctx.Done():
			a.bot.StopReceivingUpdates()
			close(updateChan)
			wg.Wait()
			return ctx.Err()
		case up := <-updates:
			updateChan <- up
		}
	}
}

func (a *RealTelegramBotAdapter) usernameRef() string {
	if a.channelName == "" {
		return ""
	}
	return "@" + a.channelName
}

func buildMarkup(rows [][]adapter.Button) *tgbotapi.InlineKeyboardMarkup {
	if len(rows) == 0 {
		return nil
	}
	kbRows := make([][]tgbotapi.InlineKeyboardButton, 0, len(rows))
	for _, row := range rows {
		r := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
		for _, btn := range row {
			var kb tgbotapi.InlineKeyboardButton
			if btn.URL != "" {
				kb = tgbotapi.NewInlineKeyboardButtonURL(btn.Label, btn.URL)
			} else {
				kb = tgbotapi.NewInlineKeyboardButtonData(btn.Label, btn.Data)
			}
			r = append(r, kb)
		}
		kbRows = append(kbRows, r)
	}
	markup := tgbotapi.NewInlineKeyboardMarkup(kbRows...)
	return &markup
}
