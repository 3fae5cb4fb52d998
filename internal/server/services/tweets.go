package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/vidstream/internal/common"
	"github.com/dmitrijs2005/vidstream/internal/logging"
	"github.com/dmitrijs2005/vidstream/internal/server/models"
	"github.com/dmitrijs2005/vidstream/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

type TweetService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	logger      logging.Logger
}

func NewTweetService(db *sql.DB, m repomanager.RepositoryManager, logger logging.Logger) *TweetService {
	return &TweetService{db: db, repomanager: m, logger: logger.With("module", "tweets")}
}

func (s *TweetService) Create(ctx context.Context, ownerID, content string) (*models.Tweet, error) {
	content, err := tweetContent(content)
	if err != nil {
		return nil, err
	}
	t, err := s.repomanager.Tweets(s.db).Create(ctx, &models.Tweet{ID: uuid.NewString(), OwnerID: ownerID, Content: content})
	if err != nil {
		return nil, storageErr(err)
	}
	return t, nil
}

// UserTweets lists a user's tweets newest first.
func (s *TweetService) UserTweets(ctx context.Context, userID string) ([]*models.Tweet, error) {
	if err := validID(userID, "user"); err != nil {
		return nil, err
	}
	list, err := s.repomanager.Tweets(s.db).ListByOwner(ctx, userID)
	if err != nil {
		return nil, storageErr(err)
	}
	return list, nil
}

func (s *TweetService) Update(ctx context.Context, ownerID, tweetID, content string) (*models.Tweet, error) {
	content, err := tweetContent(content)
	if err != nil {
		return nil, err
	}
	if err := s.owned(ctx, ownerID, tweetID); err != nil {
		return nil, err
	}
	t, err := s.repomanager.Tweets(s.db).UpdateContent(ctx, tweetID, content)
	if err != nil {
		return nil, notFoundOrStorage(err)
	}
	return t, nil
}

func (s *TweetService) Delete(ctx context.Context, ownerID, tweetID string) error {
	if err := s.owned(ctx, ownerID, tweetID); err != nil {
		return err
	}
	if err := s.repomanager.Tweets(s.db).Delete(ctx, tweetID); err != nil {
		return notFoundOrStorage(err)
	}
	return nil
}

func (s *TweetService) owned(ctx context.Context, ownerID, tweetID string) error {
	if err := validID(tweetID, "tweet"); err != nil {
		return err
	}
	t, err := s.repomanager.Tweets(s.db).FindByID(ctx, tweetID)
	if err != nil {
		return notFoundOrStorage(err)
	}
	if t.OwnerID != ownerID {
		return common.ErrForbidden
	}
	return nil
}

func tweetContent(content string) (string, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return "", fmt.Errorf("%w: tweet content is required", common.ErrInvalidInput)
	}
	return content, nil
}
