package tweets

import (
	"context"

	"github.com/dmitrijs2005/vidstream/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, t *models.Tweet) (*models.Tweet, error)
	// FindByID returns common.ErrorNotFound when no row matches.
	FindByID(ctx context.Context, id string) (*models.Tweet, error)
	// ListByOwner returns the owner's tweets newest first with the owner summary filled in.
	ListByOwner(ctx context.Context, ownerID string) ([]*models.Tweet, error)
	UpdateContent(ctx context.Context, id, content string) (*models.Tweet, error)
	Delete(ctx context.Context, id string) error
}
