package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/vidstream/internal/common"
	"github.com/dmitrijs2005/vidstream/internal/logging"
	"github.com/dmitrijs2005/vidstream/internal/server/models"
	"github.com/dmitrijs2005/vidstream/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// PlaylistInput names a playlist. Name is required, Description is not.
type PlaylistInput struct {
	Name        string
	Description string
}

// PlaylistService lets users curate ordered video lists. Anyone signed in
// may read a playlist; only its owner may change it.
type PlaylistService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	logger      logging.Logger
}

func NewPlaylistService(db *sql.DB, m repomanager.RepositoryManager, logger logging.Logger) *PlaylistService {
	return &PlaylistService{db: db, repomanager: m, logger: logger.With("module", "playlists")}
}

func (s *PlaylistService) Create(ctx context.Context, ownerID string, in PlaylistInput) (*models.Playlist, error) {
	in, err := cleanPlaylistInput(in)
	if err != nil {
		return nil, err
	}
	p, err := s.repomanager.Playlists(s.db).Create(ctx, &models.Playlist{
		ID:          uuid.NewString(),
		OwnerID:     ownerID,
		Name:        in.Name,
		Description: in.Description,
	})
	if err != nil {
		return nil, storageErr(err)
	}
	s.logger.Info(ctx, "playlist created", "user_id", ownerID, "playlist_id", p.ID)
	return p, nil
}

func (s *PlaylistService) Get(ctx context.Context, playlistID string) (*models.Playlist, error) {
	if err := validID(playlistID, "playlist"); err != nil {
		return nil, err
	}
	p, err := s.repomanager.Playlists(s.db).FindByID(ctx, playlistID)
	if err != nil {
		return nil, notFoundOrStorage(err)
	}
	return p, nil
}

func (s *PlaylistService) UserPlaylists(ctx context.Context, userID string) ([]*models.Playlist, error) {
	if err := validID(userID, "user"); err != nil {
		return nil, err
	}
	list, err := s.repomanager.Playlists(s.db).ListByOwner(ctx, userID)
	if err != nil {
		return nil, storageErr(err)
	}
	return list, nil
}

func (s *PlaylistService) Update(ctx context.Context, ownerID, playlistID string, in PlaylistInput) (*models.Playlist, error) {
	in, err := cleanPlaylistInput(in)
	if err != nil {
		return nil, err
	}
	p, err := s.owned(ctx, ownerID, playlistID)
	if err != nil {
		return nil, err
	}
	p.Name, p.Description = in.Name, in.Description
	updated, err := s.repomanager.Playlists(s.db).Update(ctx, p)
	if err != nil {
		return nil, notFoundOrStorage(err)
	}
	return updated, nil
}

func (s *PlaylistService) Delete(ctx context.Context, ownerID, playlistID string) error {
	p, err := s.owned(ctx, ownerID, playlistID)
	if err != nil {
		return err
	}
	if err := s.repomanager.Playlists(s.db).Delete(ctx, p.ID); err != nil {
		return notFoundOrStorage(err)
	}
	s.logger.Info(ctx, "playlist deleted", "user_id", ownerID, "playlist_id", p.ID)
	return nil
}

// AddVideo appends a video the owner can see. Adding it twice yields
// common.ErrAlreadyExists.
func (s *PlaylistService) AddVideo(ctx context.Context, ownerID, playlistID, videoID string) (*models.Playlist, error) {
	if _, err := s.owned(ctx, ownerID, playlistID); err != nil {
		return nil, err
	}
	if _, err := visibleVideo(ctx, s.repomanager.Videos(s.db), ownerID, videoID); err != nil {
		return nil, err
	}
	if err := s.repomanager.Playlists(s.db).AddVideo(ctx, playlistID, videoID); err != nil {
		if errors.Is(err, common.ErrAlreadyExists) {
			return nil, fmt.Errorf("%w: video is already in the playlist", common.ErrAlreadyExists)
		}
		return nil, notFoundOrStorage(err)
	}
	return s.Get(ctx, playlistID)
}

func (s *PlaylistService) RemoveVideo(ctx context.Context, ownerID, playlistID, videoID string) (*models.Playlist, error) {
	if err := validID(videoID, "video"); err != nil {
		return nil, err
	}
	if _, err := s.owned(ctx, ownerID, playlistID); err != nil {
		return nil, err
	}
	if err := s.repomanager.Playlists(s.db).RemoveVideo(ctx, playlistID, videoID); err != nil {
		return nil, notFoundOrStorage(err)
	}
	return s.Get(ctx, playlistID)
}

func (s *PlaylistService) owned(ctx context.Context, ownerID, playlistID string) (*models.Playlist, error) {
	p, err := s.Get(ctx, playlistID)
	if err != nil {
		return nil, err
	}
	if p.OwnerID != ownerID {
		return nil, common.ErrForbidden
	}
	return p, nil
}

func cleanPlaylistInput(in PlaylistInput) (PlaylistInput, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	if in.Name == "" {
		return in, fmt.Errorf("%w: playlist name is required", common.ErrInvalidInput)
	}
	return in, nil
}
