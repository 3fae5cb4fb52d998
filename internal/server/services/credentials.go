package services

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/dmitrijs2005/vidstream/internal/common"
	"github.com/dmitrijs2005/vidstream/internal/server/auth"
	"github.com/dmitrijs2005/vidstream/internal/server/models"
	usersrepo "github.com/dmitrijs2005/vidstream/internal/server/repositories/users"
)

const (
	minPasswordLength = 8
	// bcrypt ignores everything past 72 bytes.
	maxPasswordBytes = 72
)

// CredentialVerifier checks an identifier and password against the stored hash.
type CredentialVerifier struct{}

// Verify looks up exactly one user by username (case-insensitive) or email
// and compares the password with the stored bcrypt hash. It returns
// common.ErrorNotFound for an unknown identifier and
// common.ErrInvalidCredentials for a wrong password. It has no side effects.
func (CredentialVerifier) Verify(ctx context.Context, users usersrepo.Repository, identifier, password string) (*models.User, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || password == "" {
		return nil, common.ErrInvalidInput
	}

	user, err := users.FindByIdentifier(ctx, identifier)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, storageErr(err)
	}

	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, common.ErrInvalidCredentials
	}
	return user, nil
}

func validatePassword(password string) error {
	if utf8.RuneCountInString(password) < minPasswordLength || len(password) > maxPasswordBytes {
		return common.ErrInvalidInput
	}
	return nil
}

// storageErr marks a repository failure as common.ErrStorageFailure unless
// it already is one.
func storageErr(err error) error {
	if err == nil || errors.Is(err, common.ErrStorageFailure) {
		return err
	}
	return common.StorageError(err)
}
