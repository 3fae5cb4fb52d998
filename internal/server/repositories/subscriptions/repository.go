package subscriptions

import (
	"context"

	"github.com/dmitrijs2005/vidstream/internal/server/models"
)

type Repository interface {
	// Add subscribes and reports whether the subscription was new.
	Add(ctx context.Context, subscriberID, channelID string) (bool, error)
	// Remove unsubscribes and reports whether a subscription existed.
	Remove(ctx context.Context, subscriberID, channelID string) (bool, error)
	// Subscribers lists users subscribed to channelID, newest first.
	Subscribers(ctx context.Context, channelID string) ([]models.UserSummary, error)
	// Channels lists channels subscriberID follows, newest first.
	Channels(ctx context.Context, subscriberID string) ([]models.UserSummary, error)
}
