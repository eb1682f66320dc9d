package repository

import (
	"context"

	"telegram-content-gate/internal/domain/model"
)

// ContentRepository is the port for the code -> content mapping.
type ContentRepository interface {
	// Upsert creates or replaces the item for item.Code. On replace the
	// access counter is reset to zero (overwrite, not merge).
	Upsert(ctx context.Context, item *model.ContentItem) error
	// FindByCode returns domain.ErrNotFound for unknown codes.
	FindByCode(ctx context.Context, code string) (*model.ContentItem, error)
	// IncrementAccessCount adds exactly 1 to the counter as a single atomic
	// statement. Callers invoke it only after a confirmed delivery.
	IncrementAccessCount(ctx context.Context, code string) error
	// ListStats returns (code, accessCount) ordered by count descending,
	// ties broken by first-registration order.
	ListStats(ctx context.Context) ([]*model.ContentStat, error)
}
