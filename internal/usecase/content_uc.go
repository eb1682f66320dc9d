package usecase

import (
	"context"
	"fmt"
	"strings"

	"telegram-content-gate/internal/domain"
	"telegram-content-gate/internal/domain/model"
	"telegram-content-gate/internal/domain/ports/repository"

	"github.com/rs/zerolog"
)

// Compile-time check
var _ ContentUseCase = (*contentUC)(nil)

// ContentUseCase owns the code -> content mapping and its access counters.
type ContentUseCase interface {
	// Register adds or replaces a mapping. Replacing resets the counter.
	Register(ctx context.Context, code string, messageID int64) error
	// Lookup returns domain.ErrNotFound for unknown codes; that is a normal
	// outcome, not a failure.
	Lookup(ctx context.Context, code string) (*model.ContentItem, error)
	// RecordDelivery bumps the counter by one. Call only after the forward
	// to the user actually succeeded.
	RecordDelivery(ctx context.Context, code string) error
	// Stats lists (code, accessCount) sorted by count descending.
	Stats(ctx context.Context) ([]*model.ContentStat, error)
}

type contentUC struct {
	repo repository.ContentRepository
	log  *zerolog.Logger
}

func NewContentUseCase(repo repository.ContentRepository, logger *zerolog.Logger) *contentUC {
	return &contentUC{repo: repo, log: logger}
}

func (c *contentUC) Register(ctx context.Context, code string, messageID int64) error {
	code = strings.TrimSpace(code)
	if code == "" || messageID <= 0 {
		return domain.ErrInvalidArgument
	}
	item := &model.ContentItem{Code: code, MessageID: messageID}
	if err := c.repo.Upsert(ctx, item); err != nil {
		return fmt.Errorf("register content %q: %w", code, err)
	}
	c.log.Info().Str("code", code).Int64("message_id", messageID).Msg("content registered")
	return nil
}

func (c *contentUC) Lookup(ctx context.Context, code string) (*model.ContentItem, error) {
	return c.repo.FindByCode(ctx, strings.TrimSpace(code))
}

func (c *contentUC) RecordDelivery(ctx context.Context, code string) error {
	if err := c.repo.IncrementAccessCount(ctx, code); err != nil {
		return fmt.Errorf("record delivery for %q: %w", code, err)
	}
	return nil
}

func (c *contentUC) Stats(ctx context.Context) ([]*model.ContentStat, error) {
	return c.repo.ListStats(ctx)
}
