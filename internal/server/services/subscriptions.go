package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/vidstream/internal/common"
	"github.com/dmitrijs2005/vidstream/internal/logging"
	"github.com/dmitrijs2005/vidstream/internal/server/models"
	"github.com/dmitrijs2005/vidstream/internal/server/repositories/repomanager"
)

// SubscriptionService manages subscriber to channel edges. Every user
// owns exactly one channel, identified by the user id.
type SubscriptionService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	logger      logging.Logger
}

func NewSubscriptionService(db *sql.DB, m repomanager.RepositoryManager, logger logging.Logger) *SubscriptionService {
	return &SubscriptionService{db: db, repomanager: m, logger: logger.With("module", "subscriptions")}
}

// Toggle subscribes or unsubscribes and reports whether the subscriber
// follows the channel afterwards.
func (s *SubscriptionService) Toggle(ctx context.Context, subscriberID, channelID string) (bool, error) {
	if err := s.channelExists(ctx, channelID); err != nil {
		return false, err
	}
	if subscriberID == channelID {
		return false, fmt.Errorf("%w: cannot subscribe to your own channel", common.ErrInvalidInput)
	}

	repo := s.repomanager.Subscriptions(s.db)
	removed, err := repo.Remove(ctx, subscriberID, channelID)
	if err != nil {
		return false, storageErr(err)
	}
	if removed {
		s.logger.Info(ctx, "unsubscribed", "user_id", subscriberID, "channel_id", channelID)
		return false, nil
	}
	if _, err := repo.Add(ctx, subscriberID, channelID); err != nil {
		return false, storageErr(err)
	}
	s.logger.Info(ctx, "subscribed", "user_id", subscriberID, "channel_id", channelID)
	return true, nil
}

func (s *SubscriptionService) Subscribers(ctx context.Context, channelID string) ([]models.UserSummary, error) {
	if err := s.channelExists(ctx, channelID); err != nil {
		return nil, err
	}
	list, err := s.repomanager.Subscriptions(s.db).Subscribers(ctx, channelID)
	if err != nil {
		return nil, storageErr(err)
	}
	return list, nil
}

// Channels lists the channels subscriberID follows.
func (s *SubscriptionService) Channels(ctx context.Context, subscriberID string) ([]models.UserSummary, error) {
	if err := validID(subscriberID, "subscriber"); err != nil {
		return nil, err
	}
	list, err := s.repomanager.Subscriptions(s.db).Channels(ctx, subscriberID)
	if err != nil {
		return nil, storageErr(err)
	}
	return list, nil
}

func (s *SubscriptionService) channelExists(ctx context.Context, channelID string) error {
	if err := validID(channelID, "channel"); err != nil {
		return err
	}
	if _, err := s.repomanager.Users(s.db).FindByID(ctx, channelID); err != nil {
		return notFoundOrStorage(err)
	}
	return nil
}
