// Package playlists provides a PostgreSQL-backed repository for user
// playlists and their ordered video lists.
package playlists

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/vidstream/internal/common"
	"github.com/dmitrijs2005/vidstream/internal/dbx"
	"github.com/dmitrijs2005/vidstream/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, p *models.Playlist) (*models.Playlist, error) {
	query :=
		`INSERT INTO playlists (id, owner_id, name, description)
		 VALUES ($1, $2, $3, $4)
		 RETURNING created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query, p.ID, p.OwnerID, p.Name, p.Description).Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", common.StorageError(err))
	}
	if p.VideoIDs == nil {
		p.VideoIDs = []string{}
	}
	return p, nil
}

func (r *PostgresRepository) FindByID(ctx context.Context, id string) (*models.Playlist, error) {
	query :=
		`SELECT id, owner_id, name, description, created_at, updated_at
		 FROM playlists
		 WHERE id = $1`

	p := &models.Playlist{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&p.ID, &p.OwnerID, &p.Name, &p.Description, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", common.StorageError(err))
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT video_id FROM playlist_videos WHERE playlist_id = $1 ORDER BY added_at`, id)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", common.StorageError(err))
	}
	defer rows.Close()

	p.VideoIDs = []string{}
	for rows.Next() {
		var videoID string
		if err := rows.Scan(&videoID); err != nil {
			return nil, fmt.Errorf("db error: %w", common.StorageError(err))
		}
		p.VideoIDs = append(p.VideoIDs, videoID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", common.StorageError(err))
	}
	return p, nil
}

// ListByOwner returns the owner's playlists newest first, each with its
// videos in insertion order.
func (r *PostgresRepository) ListByOwner(ctx context.Context, ownerID string) ([]*models.Playlist, error) {
	query :=
		`SELECT p.id, p.owner_id, p.name, p.description, p.created_at, p.updated_at, pv.video_id
		 FROM playlists p
		 LEFT JOIN playlist_videos pv ON pv.playlist_id = p.id
		 WHERE p.owner_id = $1
		 ORDER BY p.created_at DESC, p.id, pv.added_at`

	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", common.StorageError(err))
	}
	defer rows.Close()

	out := []*models.Playlist{}
	var cur *models.Playlist
	for rows.Next() {
		var (
			p       models.Playlist
			videoID sql.NullString
		)
		if err := rows.Scan(&p.ID, &p.OwnerID, &p.Name, &p.Description, &p.CreatedAt, &p.UpdatedAt, &videoID); err != nil {
			return nil, fmt.Errorf("db error: %w", common.StorageError(err))
		}
		if cur == nil || cur.ID != p.ID {
			p.VideoIDs = []string{}
			cur = &p
			out = append(out, cur)
		}
		if videoID.Valid {
			cur.VideoIDs = append(cur.VideoIDs, videoID.String)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", common.StorageError(err))
	}
	return out, nil
}

func (r *PostgresRepository) Update(ctx context.Context, p *models.Playlist) (*models.Playlist, error) {
	query :=
		`UPDATE playlists
		 SET name = $2, description = $3, updated_at = now()
		 WHERE id = $1
		 RETURNING updated_at`

	err := r.db.QueryRowContext(ctx, query, p.ID, p.Name, p.Description).Scan(&p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", common.StorageError(err))
	}
	return p, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	n, err := dbx.ExecAffected(ctx, r.db, `DELETE FROM playlists WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", common.StorageError(err))
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *PostgresRepository) AddVideo(ctx context.Context, playlistID, videoID string) error {
	query := `INSERT INTO playlist_videos (playlist_id, video_id) VALUES ($1, $2)`
	_, err := r.db.ExecContext(ctx, query, playlistID, videoID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case uniqueViolation:
				return common.ErrAlreadyExists
			case foreignKeyViolation:
				return common.ErrorNotFound
			}
		}
		return fmt.Errorf("db error: %w", common.StorageError(err))
	}
	return nil
}

func (r *PostgresRepository) RemoveVideo(ctx context.Context, playlistID, videoID string) error {
	query := `DELETE FROM playlist_videos WHERE playlist_id = $1 AND video_id = $2`
	n, err := dbx.ExecAffected(ctx, r.db, query, playlistID, videoID)
	if err != nil {
		return fmt.Errorf("db error: %w", common.StorageError(err))
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
