// Package common defines shared constants and sentinel errors used across
// the vidstream server layers. Callers should use errors.Is to match these
// values; Kind reports the stable name a transport exposes to clients.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound    = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")

	// Service-level errors.
	ErrorInternal     = errors.New("internal error")
	ErrInvalidInput   = errors.New("invalid input")
	ErrForbidden      = errors.New("forbidden")
	ErrStorageFailure = errors.New("storage failure")

	// Credential errors. Login never surfaces ErrInvalidCredentials or
	// ErrorNotFound directly, only ErrAuthenticationFailed.
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrorUnauthorized       = errors.New("unauthorized")

	// Token lifecycle errors.
	ErrTokenExpired      = errors.New("token expired")
	ErrTokenInvalid      = errors.New("invalid token")
	ErrRefreshTokenStale = errors.New("refresh token stale")
)

var kinds = []struct {
	err  error
	name string
}{
	{ErrInvalidInput, "InvalidInput"},
	{ErrAuthenticationFailed, "AuthenticationFailed"},
	{ErrInvalidCredentials, "InvalidCredentials"},
	{ErrorUnauthorized, "Unauthorized"},
	{ErrTokenExpired, "TokenExpired"},
	{ErrTokenInvalid, "TokenInvalid"},
	{ErrRefreshTokenStale, "RefreshTokenStale"},
	{ErrStorageFailure, "StorageFailure"},
	{ErrForbidden, "Forbidden"},
	{ErrorNotFound, "NotFound"},
	{ErrAlreadyExists, "AlreadyExists"},
}

// Kind returns the stable error kind name for err, or "Internal" when err
// does not wrap any of the known sentinels. Nil yields an empty string.
func Kind(err error) string {
	if err == nil {
		return ""
	}
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.name
		}
	}
	return "Internal"
}

// StorageError marks err as a document-store failure while keeping the
// original cause reachable through errors.Is / errors.As.
func StorageError(err error) error {
	if err == nil {
		return nil
	}
	return errors.Join(ErrStorageFailure, err)
}
