package services

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/vidstream/internal/logging"
	"github.com/dmitrijs2005/vidstream/internal/server/models"
	"github.com/dmitrijs2005/vidstream/internal/server/repositories/repomanager"
)

type LikeService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	logger      logging.Logger
}

func NewLikeService(db *sql.DB, m repomanager.RepositoryManager, logger logging.Logger) *LikeService {
	return &LikeService{db: db, repomanager: m, logger: logger.With("module", "likes")}
}

// ToggleVideoLike likes the video, or unlikes it when the user already
// did, and reports whether the video is liked afterwards.
func (s *LikeService) ToggleVideoLike(ctx context.Context, userID, videoID string) (bool, error) {
	if _, err := visibleVideo(ctx, s.repomanager.Videos(s.db), userID, videoID); err != nil {
		return false, err
	}

	repo := s.repomanager.Likes(s.db)
	removed, err := repo.Remove(ctx, videoID, userID)
	if err != nil {
		return false, storageErr(err)
	}
	if removed {
		return false, nil
	}
	if _, err := repo.Add(ctx, videoID, userID); err != nil {
		return false, storageErr(err)
	}
	s.logger.Debug(ctx, "video liked", "user_id", userID, "video_id", videoID)
	return true, nil
}

// LikedVideos lists the published videos userID liked, most recent first.
func (s *LikeService) LikedVideos(ctx context.Context, userID string, page, limit int) ([]*models.Video, error) {
	_, limit, offset := pageBounds(page, limit)
	list, err := s.repomanager.Likes(s.db).LikedVideos(ctx, userID, limit, offset)
	if err != nil {
		return nil, storageErr(err)
	}
	if list == nil {
		list = []*models.Video{}
	}
	return list, nil
}
