// Package refreshtokens stores the current refresh token of each user in the
// users table and rotates it with a conditional update.
package refreshtokens

import (
	"context"
	"database/sql"
	"errors"

	"github.com/dmitrijs2005/vidstream/internal/common"
	"github.com/dmitrijs2005/vidstream/internal/dbx"
)

// PostgresRepository implements Repository over dbx.DBTX
// (satisfied by *sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Set overwrites the stored token. Returns common.ErrorNotFound for an unknown user.
func (r *PostgresRepository) Set(ctx context.Context, userID string, token string) error {
	query := `UPDATE users SET refresh_token = NULLIF($2, ''), updated_at = now() WHERE id = $1`
	n, err := dbx.ExecAffected(ctx, r.db, query, userID, token)
	if err != nil {
		return common.StorageError(err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *PostgresRepository) Get(ctx context.Context, userID string) (string, error) {
	query := `SELECT COALESCE(refresh_token, '') FROM users WHERE id = $1`
	var token string
	if err := r.db.QueryRowContext(ctx, query, userID).Scan(&token); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", common.ErrorNotFound
		}
		return "", common.StorageError(err)
	}
	return token, nil
}

// Clear drops the stored token. Clearing an already empty session is not an error.
func (r *PostgresRepository) Clear(ctx context.Context, userID string) error {
	query := `UPDATE users SET refresh_token = NULL, updated_at = now() WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, userID); err != nil {
		return common.StorageError(err)
	}
	return nil
}

// CompareAndSwap never matches an empty expected value.
func (r *PostgresRepository) CompareAndSwap(ctx context.Context, userID string, expected string, next string) (bool, error) {
	if expected == "" {
		return false, nil
	}
	query :=
		`UPDATE users SET refresh_token = NULLIF($3, ''), updated_at = now()
		 WHERE id = $1 AND refresh_token = $2`
	n, err := dbx.ExecAffected(ctx, r.db, query, userID, expected, next)
	if err != nil {
		return false, common.StorageError(err)
	}
	return n == 1, nil
}
