//go:build !integration

package usecase_test

import (
	"context"
	"sort"
	"sync"

	"telegram-content-gate/internal/domain"
	"telegram-content-gate/internal/domain/model"
	"telegram-content-gate/internal/domain/ports/adapter"

	"github.com/rs/zerolog"
)

func newTestLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

// --- Mock content repository ---
//
// The default behavior mirrors the SQL contract: upsert resets the counter,
// increment is atomic under the mutex, stats order by count desc with
// first-registration order as tie-break.

type MockContentRepo struct {
	mu    sync.Mutex
	items map[string]*model.ContentItem
	order []string // first-registration order

	UpsertFunc     func(ctx context.Context, item *model.ContentItem) error
	FindByCodeFunc func(ctx context.Context, code string) (*model.ContentItem, error)
	IncrementFunc  func(ctx context.Context, code string) error
	ListStatsFunc  func(ctx context.Context) ([]*model.ContentStat, error)
}

func NewMockContentRepo() *MockContentRepo {
	return &MockContentRepo{items: map[string]*model.ContentItem{}}
}

func (m *MockContentRepo) Upsert(ctx context.Context, item *model.ContentItem) error {
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

func (m *MockContentRepo) FindByCode(ctx context.Context, code string) (*model.ContentItem, error) {
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

func (m *MockContentRepo) IncrementAccessCount(ctx context.Context, code string) error {
	if m.IncrementFunc != nil {
		return m.IncrementFunc(ctx, code)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	item, ok := m.items[code]
	if !ok {
		return domain.ErrNotFound
	}
	item.AccessCount++
	return nil
}

func (m *MockContentRepo) ListStats(ctx context.Context) ([]*model.ContentStat, error) {
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

// --- Mock subscriber ledger ---

type MockSubscriberRepo struct {
	mu   sync.Mutex
	recs map[int64]*model.SubscriberRecord

	SaveFunc func(ctx context.Context, rec *model.SubscriberRecord) error

	saveCalls int
}

func NewMockSubscriberRepo() *MockSubscriberRepo {
	return &MockSubscriberRepo{recs: map[int64]*model.SubscriberRecord{}}
}

func (m *MockSubscriberRepo) Save(ctx context.Context, rec *model.SubscriberRecord) error {
	m.mu.Lock()
	m.saveCalls++
	m.mu.Unlock()
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, rec)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *rec
	m.recs[rec.UserID] = &cp
	return nil
}

func (m *MockSubscriberRepo) FindByUserID(ctx context.Context, userID int64) (*model.SubscriberRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.recs[userID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *rec
	return &cp, nil
}

func (m *MockSubscriberRepo) SaveCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saveCalls
}

// --- Mock Telegram API ---

type MockTelegramAPI struct {
	StatusFunc func(ctx context.Context, userID int64) (string, error)
}

func (m *MockTelegramAPI) ChatMemberStatus(ctx context.Context, userID int64) (string, error) {
	if m.StatusFunc != nil {
		return m.StatusFunc(ctx, userID)
	}
	return "member", nil
}

func (m *MockTelegramAPI) SendMessage(ctx context.Context, chatID int64, text string, buttons [][]adapter.Button) error {
	return nil
}

func (m *MockTelegramAPI) EditMessageText(ctx context.Context, chatID int64, messageID int, text string, buttons [][]adapter.Button) error {
	return nil
}

func (m *MockTelegramAPI) ForwardFromChannel(ctx context.Context, chatID int64, messageID int64) error {
	return nil
}

func (m *MockTelegramAPI) AnswerCallbackQuery(ctx context.Context, callbackID string) error {
	return nil
}

func (m *MockTelegramAPI) SetWebhook(ctx context.Context, url string) error { return nil }
