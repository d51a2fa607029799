package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"moments-backend/internal/domains/expiry/model"
	momentModel "moments-backend/internal/domains/moment/model"
	momentRepository "moments-backend/internal/domains/moment/repository"
	notificationModel "moments-backend/internal/domains/notification/model"
	notificationRepository "moments-backend/internal/domains/notification/repository"
	"moments-backend/pkg/database"
)

type ExpiryRepository interface {
	// ExpireDue expires every active moment with expires_at < now, cancels
	// their pending applications and stores one notice per moment, all in
	// one transaction.
	ExpireDue(ctx context.Context, now time.Time) (*model.Outcome, error)
}

type postgresExpiryRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresExpiryRepository(pool *pgxpool.Pool) ExpiryRepository {
	return &postgresExpiryRepository{pool: pool}
}

func (r *postgresExpiryRepository) ExpireDue(ctx context.Context, now time.Time) (*model.Outcome, error) {
	return database.WithTransactionResult(ctx, r.pool, func(tx pgx.Tx) (*model.Outcome, error) {
		out := &model.Outcome{}

		rows, err := tx.Query(ctx, `
			UPDATE moments SET status = $1, updated_at = $2
			WHERE status = $3 AND expires_at < $2
			RETURNING id, creator_id, title`,
			momentModel.StatusExpired, now, momentModel.StatusActive)
		if err != nil {
			return nil, fmt.Errorf("failed to expire moments: %w", err)
		}
		out.Moments, err = pgx.CollectRows(rows, pgx.RowToStructByPos[model.ExpiredMoment])
		if err != nil {
			return nil, fmt.Errorf("failed to scan expired moments: %w", err)
		}
		if len(out.Moments) == 0 {
			return out, nil
		}

		ids := make([]uuid.UUID, len(out.Moments))
		for i, m := range out.Moments {
			ids[i] = m.ID
		}
		out.CancelledApplications, err = momentRepository.CancelPendingApplications(ctx, tx, ids)
		if err != nil {
			return nil, err
		}

		out.Notifications = make([]notificationModel.Notification, 0, len(out.Moments))
		for _, m := range out.Moments {
			n, err := model.Notice(m).ToNotification(now)
			if err != nil {
				return nil, fmt.Errorf("failed to build notification: %w", err)
			}
			if err := notificationRepository.Insert(ctx, tx, n); err != nil {
				return nil, fmt.Errorf("failed to insert notification: %w", err)
			}
			out.Notifications = append(out.Notifications, *n)
		}

		return out, nil
	})
}
