package videos

import (
	"context"

	"github.com/dmitrijs2005/vidstream/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, video *models.Video) (*models.Video, error)
	FindByID(ctx context.Context, id string) (*models.Video, error)
	Update(ctx context.Context, video *models.Video) (*models.Video, error)
	SetPublished(ctx context.Context, id string, published bool) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, q ListQuery) ([]*models.Video, int64, error)
}
