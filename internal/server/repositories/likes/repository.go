package likes

import (
	"context"

	"github.com/dmitrijs2005/vidstream/internal/server/models"
)

type Repository interface {
	// Add records a like and reports whether it was new.
	Add(ctx context.Context, videoID, userID string) (bool, error)
	// Remove deletes a like and reports whether one existed.
	Remove(ctx context.Context, videoID, userID string) (bool, error)
	// LikedVideos lists published videos liked by userID, most recent like first.
	LikedVideos(ctx context.Context, userID string, limit, offset int) ([]*models.Video, error)
}
