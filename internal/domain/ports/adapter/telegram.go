package adapter

import "context"

// Button is a single inline keyboard button. Exactly one of URL or Data
// should be set.
type Button struct {
	Label string
	URL   string
	Data  string
}

// TelegramAPI is the outbound port to the messaging platform. Every call
// crosses the process boundary once, with no retries; the platform client's
// own timeout bounds each call.
type TelegramAPI interface {
	// ChatMemberStatus returns the raw membership status string of userID in
	// the configured channel ("creator", "administrator", "member", ...).
	ChatMemberStatus(ctx context.Context, userID int64) (string, error)
	// SendMessage sends text to a chat, optionally with inline buttons.
	SendMessage(ctx context.Context, chatID int64, text string, buttons [][]Button) error
	// EditMessageText rewrites a previously sent message in place.
	EditMessageText(ctx context.Context, chatID int64, messageID int, text string, buttons [][]Button) error
	// ForwardFromChannel re-delivers a channel post to chatID by message ID.
	ForwardFromChannel(ctx context.Context, chatID int64, messageID int64) error
	// AnswerCallbackQuery acknowledges an inline button press.
	AnswerCallbackQuery(ctx context.Context, callbackID string) error
	// SetWebhook registers the externally reachable webhook URL.
	SetWebhook(ctx context.Context, url string) error
}
