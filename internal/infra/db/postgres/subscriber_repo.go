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

var _ repository.SubscriberRepository = (*SubscriberRepo)(nil)

type SubscriberRepo struct {
	pool *pgxpool.Pool
}

func NewSubscriberRepo(pool *pgxpool.Pool) *SubscriberRepo {
	return &SubscriberRepo{pool: pool}
}

func (r *SubscriberRepo) Save(ctx context.Context, rec *model.SubscriberRecord) error {
	const q = `
INSERT INTO subscribers (user_id, is_subscribed)
VALUES ($1, $2)
ON CONFLICT (user_id) DO UPDATE SET is_subscribed = EXCLUDED.is_subscribed;
`
	if _, err := r.pool.Exec(ctx, q, rec.UserID, rec.IsSubscribed); err != nil {
		return fmt.Errorf("postgres: save subscriber: %w", err)
	}
	return nil
}

func (r *SubscriberRepo) FindByUserID(ctx context.Context, userID int64) (*model.SubscriberRecord, error) {
	const q = `
SELECT user_id, is_subscribed FROM subscribers WHERE user_id = $1;
`
	var rec model.SubscriberRecord
	row := r.pool.QueryRow(ctx, q, userID)
	if err := row.Scan(&rec.UserID, &rec.IsSubscribed); err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("postgres: query subscriber: %w", err)
	}
	return &rec, nil
}
