// Package tweets provides a PostgreSQL-backed repository for short text posts.
package tweets

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

func (r *PostgresRepository) Create(ctx context.Context, t *models.Tweet) (*models.Tweet, error) {
	query :=
		`INSERT INTO tweets (id, owner_id, content)
		 VALUES ($1, $2, $3)
		 RETURNING created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query, t.ID, t.OwnerID, t.Content).Scan(&t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", common.StorageError(err))
	}
	return t, nil
}

func (r *PostgresRepository) FindByID(ctx context.Context, id string) (*models.Tweet, error) {
	query := `SELECT id, owner_id, content, created_at, updated_at FROM tweets WHERE id = $1`

	t := &models.Tweet{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&t.ID, &t.OwnerID, &t.Content, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", common.StorageError(err))
	}
	return t, nil
}

func (r *PostgresRepository) ListByOwner(ctx context.Context, ownerID string) ([]*models.Tweet, error) {
	query :=
		`SELECT t.id, t.owner_id, t.content, t.created_at, t.updated_at,
			u.username, u.full_name, u.avatar_url
		 FROM tweets t
		 JOIN users u ON u.id = t.owner_id
		 WHERE t.owner_id = $1
		 ORDER BY t.created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", common.StorageError(err))
	}
	defer rows.Close()

	out := []*models.Tweet{}
	for rows.Next() {
		t := &models.Tweet{Owner: &models.UserSummary{}}
		if err := rows.Scan(&t.ID, &t.OwnerID, &t.Content, &t.CreatedAt, &t.UpdatedAt,
			&t.Owner.UserName, &t.Owner.FullName, &t.Owner.AvatarURL); err != nil {
			return nil, fmt.Errorf("db error: %w", common.StorageError(err))
		}
		t.Owner.ID = t.OwnerID
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", common.StorageError(err))
	}
	return out, nil
}

func (r *PostgresRepository) UpdateContent(ctx context.Context, id, content string) (*models.Tweet, error) {
	query :=
		`UPDATE tweets SET content = $2, updated_at = now()
		 WHERE id = $1
		 RETURNING id, owner_id, content, created_at, updated_at`

	t := &models.Tweet{}
	err := r.db.QueryRowContext(ctx, query, id, content).Scan(&t.ID, &t.OwnerID, &t.Content, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", common.StorageError(err))
	}
	return t, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	n, err := dbx.ExecAffected(ctx, r.db, `DELETE FROM tweets WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", common.StorageError(err))
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
