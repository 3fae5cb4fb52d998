// Package subscriptions stores subscriber to channel edges. A channel is
// simply a user.
package subscriptions

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/vidstream/internal/common"
	"github.com/dmitrijs2005/vidstream/internal/dbx"
	"github.com/dmitrijs2005/vidstream/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Add(ctx context.Context, subscriberID, channelID string) (bool, error) {
	query := `INSERT INTO subscriptions (subscriber_id, channel_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`
	n, err := dbx.ExecAffected(ctx, r.db, query, subscriberID, channelID)
	if err != nil {
		return false, fmt.Errorf("db error: %w", common.StorageError(err))
	}
	return n == 1, nil
}

func (r *PostgresRepository) Remove(ctx context.Context, subscriberID, channelID string) (bool, error) {
	query := `DELETE FROM subscriptions WHERE subscriber_id = $1 AND channel_id = $2`
	n, err := dbx.ExecAffected(ctx, r.db, query, subscriberID, channelID)
	if err != nil {
		return false, fmt.Errorf("db error: %w", common.StorageError(err))
	}
	return n == 1, nil
}

func (r *PostgresRepository) Subscribers(ctx context.Context, channelID string) ([]models.UserSummary, error) {
	query := `SELECT u.id, u.username, u.full_name, u.avatar_url
		FROM subscriptions s
		JOIN users u ON u.id = s.subscriber_id
		WHERE s.channel_id = $1
		ORDER BY s.created_at DESC`
	return r.summaries(ctx, query, channelID)
}

func (r *PostgresRepository) Channels(ctx context.Context, subscriberID string) ([]models.UserSummary, error) {
	query := `SELECT u.id, u.username, u.full_name, u.avatar_url
		FROM subscriptions s
		JOIN users u ON u.id = s.channel_id
		WHERE s.subscriber_id = $1
		ORDER BY s.created_at DESC`
	return r.summaries(ctx, query, subscriberID)
}

func (r *PostgresRepository) summaries(ctx context.Context, query, id string) ([]models.UserSummary, error) {
	rows, err := r.db.QueryContext(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", common.StorageError(err))
	}
	defer rows.Close()

	out := []models.UserSummary{}
	for rows.Next() {
		var u models.UserSummary
		if err := rows.Scan(&u.ID, &u.UserName, &u.FullName, &u.AvatarURL); err != nil {
			return nil, fmt.Errorf("db error: %w", common.StorageError(err))
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", common.StorageError(err))
	}
	return out, nil
}
