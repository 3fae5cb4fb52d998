// Package channels reads aggregate numbers for a user's channel.
package channels

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

// Stats counts every video the channel owns, published or not.
func (r *PostgresRepository) Stats(ctx context.Context, channelID string) (*models.ChannelStats, error) {
	query :=
		`SELECT
			(SELECT COUNT(*) FROM videos WHERE owner_id = $1),
			(SELECT COALESCE(SUM(views), 0) FROM videos WHERE owner_id = $1),
			(SELECT COUNT(*) FROM subscriptions WHERE channel_id = $1),
			(SELECT COUNT(*) FROM video_likes l JOIN videos v ON v.id = l.video_id WHERE v.owner_id = $1)`

	s := &models.ChannelStats{}
	err := r.db.QueryRowContext(ctx, query, channelID).Scan(&s.TotalVideos, &s.TotalViews, &s.TotalSubscribers, &s.TotalLikes)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", common.StorageError(err))
	}
	return s, nil
}
