// Package services contains the server's business logic: session lifecycle,
// accounts and videos.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/vidstream/internal/common"
	"github.com/dmitrijs2005/vidstream/internal/dbx"
	"github.com/dmitrijs2005/vidstream/internal/logging"
	"github.com/dmitrijs2005/vidstream/internal/server/auth"
	"github.com/dmitrijs2005/vidstream/internal/server/models"
	"github.com/dmitrijs2005/vidstream/internal/server/repositories/repomanager"
)

// SessionManager owns login, refresh rotation, logout and password change.
// The user's stored refresh token is the only session state and is changed
// only here.
type SessionManager struct {
	db                     *sql.DB
	repomanager            repomanager.RepositoryManager
	codec                  *auth.Codec
	verifier               CredentialVerifier
	revokeOnPasswordChange bool
	logger                 logging.Logger
}

type SessionOption func(*SessionManager)

// WithRevokeOnPasswordChange makes ChangePassword clear the stored refresh
// token in the same transaction as the hash update.
func WithRevokeOnPasswordChange(revoke bool) SessionOption {
	return func(s *SessionManager) { s.revokeOnPasswordChange = revoke }
}

func WithSessionLogger(l logging.Logger) SessionOption {
	return func(s *SessionManager) { s.logger = l.With("module", "sessions") }
}

func NewSessionManager(db *sql.DB, m repomanager.RepositoryManager, codec *auth.Codec, opts ...SessionOption) *SessionManager {
	s := &SessionManager{
		db:          db,
		repomanager: m,
		codec:       codec,
		logger:      logging.Nop(),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Login verifies credentials, issues a token pair and stores the refresh
// token, replacing any previous session of the user. Unknown identifiers
// and wrong passwords both yield common.ErrAuthenticationFailed.
func (s *SessionManager) Login(ctx context.Context, identifier, password string) (*models.Session, error) {
	user, err := s.verifier.Verify(ctx, s.repomanager.Users(s.db), identifier, password)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) || errors.Is(err, common.ErrInvalidCredentials) {
			return nil, common.ErrAuthenticationFailed
		}
		return nil, err
	}

	pair, err := s.issuePair(user.ID)
	if err != nil {
		return nil, err
	}

	if err := s.repomanager.RefreshTokens(s.db).Set(ctx, user.ID, pair.RefreshToken); err != nil {
		// the user was deleted between verification and the write
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrAuthenticationFailed
		}
		return nil, storageErr(err)
	}

	s.logger.Info(ctx, "user logged in", "user_id", user.ID)
	return &models.Session{TokenPair: *pair, User: user.Public()}, nil
}

// Refresh rotates a refresh token. The presented token must still be the
// stored one; the swap to the new token is a single conditional update so
// that concurrent refreshes with the same token have at most one winner.
func (s *SessionManager) Refresh(ctx context.Context, presented string) (*models.Session, error) {
	if presented == "" {
		return nil, common.ErrorUnauthorized
	}

	claims, err := s.codec.Verify(presented, auth.RefreshToken)
	if err != nil {
		return nil, err
	}

	user, err := s.repomanager.Users(s.db).FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, storageErr(err)
	}

	pair, err := s.issuePair(user.ID)
	if err != nil {
		return nil, err
	}

	swapped, err := s.repomanager.RefreshTokens(s.db).CompareAndSwap(ctx, user.ID, presented, pair.RefreshToken)
	if err != nil {
		return nil, storageErr(err)
	}
	if !swapped {
		s.logger.Warn(ctx, "stale refresh token presented", "user_id", user.ID)
		return nil, common.ErrRefreshTokenStale
	}

	s.logger.Info(ctx, "session rotated", "user_id", user.ID)
	return &models.Session{TokenPair: *pair, User: user.Public()}, nil
}

// Logout clears the stored refresh token of an already authenticated user.
// It is idempotent.
func (s *SessionManager) Logout(ctx context.Context, userID string) error {
	if userID == "" {
		return common.ErrorUnauthorized
	}
	if err := s.repomanager.RefreshTokens(s.db).Clear(ctx, userID); err != nil {
		return storageErr(err)
	}
	s.logger.Info(ctx, "user logged out", "user_id", userID)
	return nil
}

// ChangePassword replaces the password hash after checking the old
// password. Sessions survive unless revocation on password change is on.
func (s *SessionManager) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	if userID == "" {
		return common.ErrorUnauthorized
	}
	if oldPassword == "" || newPassword == "" {
		return common.ErrInvalidInput
	}
	if err := validatePassword(newPassword); err != nil {
		return err
	}

	user, err := s.repomanager.Users(s.db).FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorUnauthorized
		}
		return storageErr(err)
	}

	if err := auth.ComparePassword(user.PasswordHash, oldPassword); err != nil {
		return common.ErrInvalidCredentials
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", errors.Join(common.ErrorInternal, err))
	}

	if !s.revokeOnPasswordChange {
		if err := s.repomanager.Users(s.db).UpdatePassword(ctx, userID, hash); err != nil {
			return storageErr(err)
		}
		s.logger.Info(ctx, "password changed", "user_id", userID)
		return nil
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.Users(tx).UpdatePassword(ctx, userID, hash); err != nil {
			return err
		}
		return s.repomanager.RefreshTokens(tx).Clear(ctx, userID)
	})
	if err != nil {
		return storageErr(err)
	}
	s.logger.Info(ctx, "password changed, sessions revoked", "user_id", userID)
	return nil
}

// Authenticate verifies an access token and returns the user id it carries.
func (s *SessionManager) Authenticate(ctx context.Context, accessToken string) (string, error) {
	if accessToken == "" {
		return "", common.ErrorUnauthorized
	}
	claims, err := s.codec.Verify(accessToken, auth.AccessToken)
	if err != nil {
		return "", err
	}
	return claims.UserID, nil
}

func (s *SessionManager) issuePair(userID string) (*models.TokenPair, error) {
	access, err := s.codec.IssueAccessToken(userID)
	if err != nil {
		return nil, fmt.Errorf("issue access token: %w", errors.Join(common.ErrorInternal, err))
	}
	refresh, err := s.codec.IssueRefreshToken(userID)
	if err != nil {
		return nil, fmt.Errorf("issue refresh token: %w", errors.Join(common.ErrorInternal, err))
	}
	return &models.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
