package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/vidstream/internal/common"
	"github.com/dmitrijs2005/vidstream/internal/dbx"
	"github.com/dmitrijs2005/vidstream/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

const selectUser = `SELECT id, username, email, full_name, avatar_url, avatar_key,
		cover_image_url, cover_image_key, password_hash, COALESCE(refresh_token, ''),
		created_at, updated_at
	FROM users`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	query :=
		`INSERT INTO users (id, username, email, full_name, avatar_url, avatar_key,
			cover_image_url, cover_image_key, password_hash)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		user.ID, strings.ToLower(user.UserName), user.Email, user.FullName,
		user.AvatarURL, user.AvatarKey, user.CoverImageURL, user.CoverImageKey, user.PasswordHash,
	).Scan(&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return nil, mapWriteError(err)
	}

	user.UserName = strings.ToLower(user.UserName)
	return user, nil
}

func (r *PostgresRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	return r.findOne(ctx, selectUser+` WHERE id = $1`, id)
}

func (r *PostgresRepository) FindByIdentifier(ctx context.Context, identifier string) (*models.User, error) {
	return r.findOne(ctx, selectUser+` WHERE username = lower($1) OR email = $1 LIMIT 1`, identifier)
}

func (r *PostgresRepository) findOne(ctx context.Context, query string, arg string) (*models.User, error) {
	u := &models.User{}
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&u.ID, &u.UserName, &u.Email, &u.FullName, &u.AvatarURL, &u.AvatarKey,
		&u.CoverImageURL, &u.CoverImageKey, &u.PasswordHash, &u.RefreshToken,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", common.StorageError(err))
	}
	return u, nil
}

// UpdatePassword writes only password_hash.
func (r *PostgresRepository) UpdatePassword(ctx context.Context, id string, hash []byte) error {
	return r.updateOne(ctx,
		`UPDATE users SET password_hash = $2, updated_at = now() WHERE id = $1`, id, hash)
}

func (r *PostgresRepository) UpdateAccount(ctx context.Context, id, fullName, email string) (*models.User, error) {
	query :=
		`UPDATE users SET full_name = $2, email = $3, updated_at = now()
		 WHERE id = $1`
	if err := r.updateOne(ctx, query, id, fullName, email); err != nil {
		return nil, err
	}
	return r.FindByID(ctx, id)
}

func (r *PostgresRepository) UpdateAvatar(ctx context.Context, id, url, key string) error {
	return r.updateOne(ctx,
		`UPDATE users SET avatar_url = $2, avatar_key = $3, updated_at = now() WHERE id = $1`, id, url, key)
}

func (r *PostgresRepository) UpdateCoverImage(ctx context.Context, id, url, key string) error {
	return r.updateOne(ctx,
		`UPDATE users SET cover_image_url = $2, cover_image_key = $3, updated_at = now() WHERE id = $1`, id, url, key)
}

func (r *PostgresRepository) updateOne(ctx context.Context, query string, args ...any) error {
	n, err := dbx.ExecAffected(ctx, r.db, query, args...)
	if err != nil {
		return mapWriteError(err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func mapWriteError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return common.ErrAlreadyExists
	}
	return fmt.Errorf("db error: %w", common.StorageError(err))
}
