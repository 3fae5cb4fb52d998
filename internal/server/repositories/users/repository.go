// Package users declares the user-document repository contract.
package users

import (
	"context"

	"github.com/dmitrijs2005/vidstream/internal/server/models"
)

type Repository interface {
	// Create inserts a new user. Duplicate username or email yields common.ErrAlreadyExists.
	Create(ctx context.Context, user *models.User) (*models.User, error)
	// FindByID returns common.ErrorNotFound when there is no such user.
	FindByID(ctx context.Context, id string) (*models.User, error)
	// FindByIdentifier matches the lower-cased username or the exact email.
	FindByIdentifier(ctx context.Context, identifier string) (*models.User, error)
	UpdatePassword(ctx context.Context, id string, hash []byte) error
	UpdateAccount(ctx context.Context, id, fullName, email string) (*models.User, error)
	UpdateAvatar(ctx context.Context, id, url, key string) error
	UpdateCoverImage(ctx context.Context, id, url, key string) error
}
