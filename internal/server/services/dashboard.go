package services

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/vidstream/internal/server/models"
	"github.com/dmitrijs2005/vidstream/internal/server/repositories/repomanager"
)

// DashboardService reports on the caller's own channel.
type DashboardService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	videos      *VideoService
}

func NewDashboardService(db *sql.DB, m repomanager.RepositoryManager, videos *VideoService) *DashboardService {
	return &DashboardService{db: db, repomanager: m, videos: videos}
}

func (s *DashboardService) Stats(ctx context.Context, channelID string) (*models.ChannelStats, error) {
	stats, err := s.repomanager.Channels(s.db).Stats(ctx, channelID)
	if err != nil {
		return nil, storageErr(err)
	}
	return stats, nil
}

// Videos pages through the channel's uploads, drafts included.
func (s *DashboardService) Videos(ctx context.Context, channelID string, in ListInput) (*models.VideoPage, error) {
	return s.videos.ChannelVideos(ctx, channelID, in)
}
