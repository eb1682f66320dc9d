package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"telegram-content-gate/internal/domain"
	"telegram-content-gate/internal/domain/model"
	"telegram-content-gate/internal/domain/ports/repository"
)

var _ repository.ContentRepository = (*ContentRepo)(nil)

type ContentRepo struct {
	pool *pgxpool.Pool
}

func NewContentRepo(pool *pgxpool.Pool) *ContentRepo {
	return &ContentRepo{pool: pool}
}

// Upsert replaces the mapping for item.Code and resets the counter.
// The position column keeps its first-registration value on conflict, which
// preserves insertion order for the stats tie-break.
func (r *ContentRepo) Upsert(ctx context.Context, item *model.ContentItem) error {
	const q = `
INSERT INTO content_items (code, message_id, access_count)
VALUES ($1, $2, 0)
ON CONFLICT (code) DO UPDATE
  SET message_id   = EXCLUDED.message_id,
      access_count = 0;
`
	if _, err := r.pool.Exec(ctx, q, item.Code, item.MessageID); err != nil {
		return fmt.Errorf("postgres: upsert content item: %w", err)
	}
	return nil
}

func (r *ContentRepo) FindByCode(ctx context.Context, code string) (*model.ContentItem, error) {
	const q = `
SELECT code, message_id, access_count
  FROM content_items WHERE code = $1;
`
	var item model.ContentItem
	row := r.pool.QueryRow(ctx, q, code)
	if err := row.Scan(&item.Code, &item.MessageID, &item.AccessCount); err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("postgres: query content item: %w", err)
	}
	return &item, nil
}

// IncrementAccessCount is a single read-modify-write statement; concurrent
// deliveries of the same code never lose an increment.
func (r *ContentRepo) IncrementAccessCount(ctx context.Context, code string) error {
	const q = `
UPDATE content_items SET access_count = access_count + 1 WHERE code = $1;
`
	tag, err := r.pool.Exec(ctx, q, code)
	if err != nil {
		return fmt.Errorf("postgres: increment access count: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ContentRepo) ListStats(ctx context.Context) ([]*model.ContentStat, error) {
	const q = `
SELECT code, access_count
  FROM content_items
 ORDER BY access_count DESC, position ASC;
`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("postgres: list stats: %w", err)
	}
	defer rows.Close()

	var out []*model.ContentStat
	for rows.Next() {
		var s model.ContentStat
		if err := rows.Scan(&s.Code, &s.AccessCount); err != nil {
			return nil, fmt.Errorf("postgres: scan stat row: %w", err)
		}
		out = append(out, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: iterate stats: %w", err)
	}
	return out, nil
}
