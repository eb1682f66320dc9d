//go:build !integration

package telegram_test

import (
	"context"
	"sort"
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"telegram-content-gate/internal/domain"
	"telegram-content-gate/internal/domain/model"
	"telegram-content-gate/internal/domain/ports/adapter"
)

func newTestLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

// --- Update builders ---

func commandUpdate(userID int64, text string) tgbotapi.Update {
	cmdLen := len(text)
	if i := strings.Index(text, " "); i >= 0 {
		cmdLen = i
	}
	return tgbotapi.Update{Message: &tgbotapi.Message{
		MessageID: 1,
		From:      &tgbotapi.User{ID: userID},
		Chat:      &tgbotapi.Chat{ID: userID},
		Text:      text,
		Entities:  []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: cmdLen}},
	}}
}

func textUpdate(userID int64, text string) tgbotapi.Update {
	return tgbotapi.Update{Message: &tgbotapi.Message{
		MessageID: 2,
		From:      &tgbotapi.User{ID: userID},
		Chat:      &tgbotapi.Chat{ID: userID},
		Text:      text,
	}}
}

func callbackUpdate(userID int64, data string) tgbotapi.Update {
	return tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{
		ID:   "cb-1",
		From: &tgbotapi.User{ID: userID},
		Data: data,
		Message: &tgbotapi.Message{
			MessageID: 3,
			Chat:      &tgbotapi.Chat{ID: userID},
		},
	}}
}

// --- Recording Telegram API mock ---

type sentMsg struct {
	ChatID  int64
	Text    string
	Buttons [][]adapter.Button
}

type editMsg struct {
	ChatID    int64
	MessageID int
	Text      string
	Buttons   [][]adapter.Button
}

type forwardCall struct {
	ChatID    int64
	MessageID int64
}

type mockTelegramAPI struct {
	mu        sync.Mutex
	Sent      []sentMsg
	Edits     []editMsg
	Forwards  []forwardCall
	Callbacks []string

	StatusFunc func(ctx context.Context, userID int64) (string, error)
	ForwardErr error
}

func (m *mockTelegramAPI) ChatMemberStatus(ctx context.Context, userID int64) (string, error) {
	if m.StatusFunc != nil {
		return m.StatusFunc(ctx, userID)
	}
	return "member", nil
}

func (m *mockTelegramAPI) SendMessage(ctx context.Context, chatID int64, text string, buttons [][]adapter.Button) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sent = append(m.Sent, sentMsg{ChatID: chatID, Text: text, Buttons: buttons})
	return nil
}

func (m *mockTelegramAPI) EditMessageText(ctx context.Context, chatID int64, messageID int, text string, buttons [][]adapter.Button) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Edits = append(m.Edits, editMsg{ChatID: chatID, MessageID: messageID, Text: text, Buttons: buttons})
	return nil
}

func (m *mockTelegramAPI) ForwardFromChannel(ctx context.Context, chatID int64, messageID int64) error {
	if m.ForwardErr != nil {
		return m.ForwardErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Forwards = append(m.Forwards, forwardCall{ChatID: chatID, MessageID: messageID})
	return nil
}

func (m *mockTelegramAPI) AnswerCallbackQuery(ctx context.Context, callbackID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Callbacks = append(m.Callbacks, callbackID)
	return nil
}

func (m *mockTelegramAPI) SetWebhook(ctx context.Context, url string) error { return nil }

func (m *mockTelegramAPI) lastSent() *sentMsg {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Sent) == 0 {
		return nil
	}
	return &m.Sent[len(m.Sent)-1]
}

// --- In-memory repositories (same contract as the Postgres ones) ---

type mockContentRepo struct {
	mu    sync.Mutex
	items map[string]*model.ContentItem
	order []string

	FindByCodeFunc func(ctx context.Context, code string) (*model.ContentItem, error)
	ListStatsFunc  func(ctx context.Context) ([]*model.ContentStat, error)
	UpsertFunc     func(ctx context.Context, item *model.ContentItem) error
}

func newMockContentRepo() *mockContentRepo {
	return &mockContentRepo{items: map[string]*model.ContentItem{}}
}

func (m *mockContentRepo) Upsert(ctx context.Context, item *model.ContentItem) error {
	if m.UpsertFunc != nil {
		return m.UpsertFunc(ctx, item)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[item.Code]; !ok {
		m.order = append(m.order, item.Code)
	}
	m.items[item.Code] = &model.ContentItem{Code: item.Code, MessageID: item.MessageID}
	return nil
}

func (m *mockContentRepo) FindByCode(ctx context.Context, code string) (*model.ContentItem, error) {
	if m.FindByCodeFunc != nil {
		return m.FindByCodeFunc(ctx, code)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	item, ok := m.items[code]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *item
	return &cp, nil
}

func (m *mockContentRepo) IncrementAccessCount(ctx context.Context, code string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	item, ok := m.items[code]
	if !ok {
		return domain.ErrNotFound
	}
	item.AccessCount++
	return nil
}

func (m *mockContentRepo) ListStats(ctx context.Context) ([]*model.ContentStat, error) {
	if m.ListStatsFunc != nil {
		return m.ListStatsFunc(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*model.ContentStat, 0, len(m.order))
	for _, code := range m.order {
		item := m.items[code]
		out = append(out, &model.ContentStat{Code: item.Code, AccessCount: item.AccessCount})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].AccessCount > out[j].AccessCount })
	return out, nil
}

func (m *mockContentRepo) count(code string) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	if item, ok := m.items[code]; ok {
		return item.AccessCount
	}
	return -1
}

type mockSubscriberRepo struct {
	mu   sync.Mutex
	recs map[int64]*model.SubscriberRecord
}

func newMockSubscriberRepo() *mockSubscriberRepo {
	return &mockSubscriberRepo{recs: map[int64]*model.SubscriberRecord{}}
}

func (m *mockSubscriberRepo) Save(ctx context.Context, rec *model.SubscriberRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *rec
	m.recs[rec.UserID] = &cp
	return nil
}

func (m *mockSubscriberRepo) FindByUserID(ctx context.Context, userID int64) (*model.SubscriberRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.recs[userID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *rec
	return &cp, nil
}
