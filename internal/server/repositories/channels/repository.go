package channels

import (
	"context"

	"github.com/dmitrijs2005/vidstream/internal/server/models"
)

type Repository interface {
	Stats(ctx context.Context, channelID string) (*models.ChannelStats, error)
}
