// Package likes stores which users liked which videos.
package likes

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/vidstream/internal/common"
	"github.com/dmitrijs2005/vidstream/internal/dbx"
	"github.com/dmitrijs2005/vidstream/internal/server/models"
	"github.com/dmitrijs2005/vidstream/internal/server/repositories/videos"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Add(ctx context.Context, videoID, userID string) (bool, error) {
	query := `INSERT INTO video_likes (video_id, user_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`
	n, err := dbx.ExecAffected(ctx, r.db, query, videoID, userID)
	if err != nil {
		return false, fmt.Errorf("db error: %w", common.StorageError(err))
	}
	return n == 1, nil
}

func (r *PostgresRepository) Remove(ctx context.Context, videoID, userID string) (bool, error) {
	query := `DELETE FROM video_likes WHERE video_id = $1 AND user_id = $2`
	n, err := dbx.ExecAffected(ctx, r.db, query, videoID, userID)
	if err != nil {
		return false, fmt.Errorf("db error: %w", common.StorageError(err))
	}
	return n == 1, nil
}

func (r *PostgresRepository) LikedVideos(ctx context.Context, userID string, limit, offset int) ([]*models.Video, error) {
	query := `SELECT ` + videos.OwnerColumns + `
		FROM video_likes l
		JOIN videos v ON v.id = l.video_id
		JOIN users u ON u.id = v.owner_id
		WHERE l.user_id = $1 AND v.is_published
		ORDER BY l.created_at DESC
		LIMIT $2 OFFSET $3`

	rows, err := r.db.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", common.StorageError(err))
	}
	defer rows.Close()

	var out []*models.Video
	for rows.Next() {
		v, err := videos.ScanWithOwner(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", common.StorageError(err))
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", common.StorageError(err))
	}
	return out, nil
}
