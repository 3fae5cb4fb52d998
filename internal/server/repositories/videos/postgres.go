// Package videos provides a PostgreSQL-backed repository for uploaded videos.
package videos

import (
	"context"
	"database/sql"
	"errors"
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

func (r *PostgresRepository) Create(ctx context.Context, v *models.Video) (*models.Video, error) {
	query :=
		`INSERT INTO videos (id, owner_id, title, description, video_url, video_key,
			thumbnail_url, thumbnail_key, duration_seconds, is_published)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 RETURNING views, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		v.ID, v.OwnerID, v.Title, v.Description, v.VideoURL, v.VideoKey,
		v.ThumbnailURL, v.ThumbnailKey, v.DurationSeconds, v.IsPublished,
	).Scan(&v.Views, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", common.StorageError(err))
	}
	return v, nil
}

// FindByID returns common.ErrorNotFound when no row matches.
func (r *PostgresRepository) FindByID(ctx context.Context, id string) (*models.Video, error) {
	query :=
		`SELECT id, owner_id, title, description, video_url, video_key,
			thumbnail_url, thumbnail_key, duration_seconds, views, is_published,
			created_at, updated_at
		 FROM videos
		 WHERE id = $1`

	v := &models.Video{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&v.ID, &v.OwnerID, &v.Title, &v.Description, &v.VideoURL, &v.VideoKey,
		&v.ThumbnailURL, &v.ThumbnailKey, &v.DurationSeconds, &v.Views, &v.IsPublished,
		&v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", common.StorageError(err))
	}
	return v, nil
}

// Update writes the editable fields: title, description and thumbnail.
func (r *PostgresRepository) Update(ctx context.Context, v *models.Video) (*models.Video, error) {
	query :=
		`UPDATE videos
		 SET title = $2, description = $3, thumbnail_url = $4, thumbnail_key = $5, updated_at = now()
		 WHERE id = $1
		 RETURNING updated_at`

	err := r.db.QueryRowContext(ctx, query,
		v.ID, v.Title, v.Description, v.ThumbnailURL, v.ThumbnailKey,
	).Scan(&v.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", common.StorageError(err))
	}
	return v, nil
}

func (r *PostgresRepository) SetPublished(ctx context.Context, id string, published bool) error {
	query := `UPDATE videos SET is_published = $2, updated_at = now() WHERE id = $1`
	return r.affectOne(ctx, query, id, published)
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	return r.affectOne(ctx, `DELETE FROM videos WHERE id = $1`, id)
}

func (r *PostgresRepository) affectOne(ctx context.Context, query string, args ...any) error {
	n, err := dbx.ExecAffected(ctx, r.db, query, args...)
	if err != nil {
		return fmt.Errorf("db error: %w", common.StorageError(err))
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
