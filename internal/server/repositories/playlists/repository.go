package playlists

import (
	"context"

	"github.com/dmitrijs2005/vidstream/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, p *models.Playlist) (*models.Playlist, error)
	// FindByID returns common.ErrorNotFound when no row matches.
	FindByID(ctx context.Context, id string) (*models.Playlist, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*models.Playlist, error)
	// Update writes name and description.
	Update(ctx context.Context, p *models.Playlist) (*models.Playlist, error)
	Delete(ctx context.Context, id string) error
	// AddVideo returns common.ErrAlreadyExists for a duplicate and
	// common.ErrorNotFound when the playlist or video is gone.
	AddVideo(ctx context.Context, playlistID, videoID string) error
	// RemoveVideo returns common.ErrorNotFound when the video is not listed.
	RemoveVideo(ctx context.Context, playlistID, videoID string) error
}
