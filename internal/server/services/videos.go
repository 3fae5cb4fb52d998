package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/dmitrijs2005/vidstream/internal/common"
	"github.com/dmitrijs2005/vidstream/internal/logging"
	"github.com/dmitrijs2005/vidstream/internal/server/media"
	"github.com/dmitrijs2005/vidstream/internal/server/models"
	"github.com/dmitrijs2005/vidstream/internal/server/repositories/repomanager"
	videosrepo "github.com/dmitrijs2005/vidstream/internal/server/repositories/videos"
	"github.com/google/uuid"
)

// StreamURLValidity bounds the presigned download link handed out with a video.
const StreamURLValidity = time.Hour

type PublishInput struct {
	Title           string
	Description     string
	DurationSeconds float64
	VideoPath       string
	ThumbnailPath   string
}

// ListInput selects a page of published videos. SortBy is one of
// createdAt, views, duration or title; SortType is asc or desc.
type ListInput struct {
	Query    string
	SortBy   string
	SortType string
	Page     int
	Limit    int
}

// UpdateInput changes a video's text and, when ThumbnailPath is set, its thumbnail.
type UpdateInput struct {
	Title         string
	Description   string
	ThumbnailPath string
}

type VideoService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	storage     media.Storage
	logger      logging.Logger
}

func NewVideoService(db *sql.DB, m repomanager.RepositoryManager, storage media.Storage, logger logging.Logger) *VideoService {
	return &VideoService{
		db:          db,
		repomanager: m,
		storage:     storage,
		logger:      logger.With("module", "videos"),
	}
}

func (s *VideoService) Publish(ctx context.Context, ownerID string, in PublishInput) (*models.Video, error) {
	staged := []string{in.VideoPath, in.ThumbnailPath}

	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	if in.Title == "" || in.Description == "" || in.VideoPath == "" || in.ThumbnailPath == "" {
		discard(staged...)
		return nil, fmt.Errorf("%w: title, description, video file and thumbnail are required", common.ErrInvalidInput)
	}
	if d := in.DurationSeconds; math.IsNaN(d) || math.IsInf(d, 0) || d < 0 {
		discard(staged...)
		return nil, fmt.Errorf("%w: duration must be a finite non-negative number", common.ErrInvalidInput)
	}
	if err := media.FitImage(in.ThumbnailPath, media.ThumbnailMaxWidth, media.ThumbnailMaxHeight); err != nil {
		discard(staged...)
		return nil, fmt.Errorf("%w: thumbnail: %v", common.ErrInvalidInput, err)
	}

	video, err := s.storage.Upload(ctx, in.VideoPath, media.FolderVideos)
	if err != nil {
		discard(in.ThumbnailPath)
		return nil, fmt.Errorf("upload video: %w", err)
	}
	thumb, err := s.storage.Upload(ctx, in.ThumbnailPath, media.FolderThumbnails)
	if err != nil {
		s.deleteObjects(ctx, video.Key)
		return nil, fmt.Errorf("upload thumbnail: %w", err)
	}

	v, err := s.repomanager.Videos(s.db).Create(ctx, &models.Video{
		ID:              uuid.NewString(),
		OwnerID:         ownerID,
		Title:           in.Title,
		Description:     in.Description,
		VideoURL:        video.URL,
		VideoKey:        video.Key,
		ThumbnailURL:    thumb.URL,
		ThumbnailKey:    thumb.Key,
		DurationSeconds: in.DurationSeconds,
		IsPublished:     true,
	})
	if err != nil {
		s.deleteObjects(ctx, video.Key, thumb.Key)
		return nil, storageErr(err)
	}

	s.logger.Info(ctx, "video published", "user_id", ownerID, "video_id", v.ID)
	return v, nil
}

// Get returns a video. Unpublished videos are reported as missing to
// everyone but their owner; viewerID may be empty for anonymous callers.
func (s *VideoService) Get(ctx context.Context, viewerID, videoID string) (*models.Video, error) {
	v, err := visibleVideo(ctx, s.repomanager.Videos(s.db), viewerID, videoID)
	if err != nil {
		return nil, err
	}

	url, err := s.storage.PresignGet(ctx, v.VideoKey, StreamURLValidity)
	if err != nil {
		s.logger.Warn(ctx, "presign failed", "video_id", v.ID, "error", err)
	} else {
		v.StreamURL = url
	}
	return v, nil
}

// List pages through published videos, optionally filtered by a
// case-insensitive match on title or description.
func (s *VideoService) List(ctx context.Context, in ListInput) (*models.VideoPage, error) {
	q, err := listQuery(in)
	if err != nil {
		return nil, err
	}
	q.PublishedOnly = true
	return s.page(ctx, q, in)
}

// ChannelVideos lists every video ownerID uploaded, drafts included.
func (s *VideoService) ChannelVideos(ctx context.Context, ownerID string, in ListInput) (*models.VideoPage, error) {
	q, err := listQuery(in)
	if err != nil {
		return nil, err
	}
	q.OwnerID = ownerID
	return s.page(ctx, q, in)
}

func (s *VideoService) page(ctx context.Context, q videosrepo.ListQuery, in ListInput) (*models.VideoPage, error) {
	page, limit, offset := pageBounds(in.Page, in.Limit)
	q.Limit, q.Offset = limit, offset

	list, total, err := s.repomanager.Videos(s.db).List(ctx, q)
	if err != nil {
		return nil, storageErr(err)
	}
	if list == nil {
		list = []*models.Video{}
	}
	return &models.VideoPage{Videos: list, Page: page, Limit: limit, Total: total}, nil
}

func listQuery(in ListInput) (videosrepo.ListQuery, error) {
	q := videosrepo.ListQuery{Search: strings.TrimSpace(in.Query), Sort: videosrepo.SortCreatedAt}
	if in.SortBy != "" {
		q.Sort = videosrepo.SortField(in.SortBy)
		if !videosrepo.ValidSort(q.Sort) {
			return q, fmt.Errorf("%w: unsupported sortBy %q", common.ErrInvalidInput, in.SortBy)
		}
	}
	switch strings.ToLower(in.SortType) {
	case "", "desc":
	case "asc":
		q.Ascending = true
	default:
		return q, fmt.Errorf("%w: sortType must be asc or desc", common.ErrInvalidInput)
	}
	return q, nil
}

func (s *VideoService) Update(ctx context.Context, ownerID, videoID string, in UpdateInput) (*models.Video, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	if in.Title == "" || in.Description == "" {
		discard(in.ThumbnailPath)
		return nil, fmt.Errorf("%w: title and description are required", common.ErrInvalidInput)
	}

	v, err := s.owned(ctx, ownerID, videoID)
	if err != nil {
		discard(in.ThumbnailPath)
		return nil, err
	}

	oldThumb, newThumb := "", ""
	if in.ThumbnailPath != "" {
		if err := media.FitImage(in.ThumbnailPath, media.ThumbnailMaxWidth, media.ThumbnailMaxHeight); err != nil {
			discard(in.ThumbnailPath)
			return nil, fmt.Errorf("%w: thumbnail: %v", common.ErrInvalidInput, err)
		}
		thumb, err := s.storage.Upload(ctx, in.ThumbnailPath, media.FolderThumbnails)
		if err != nil {
			return nil, fmt.Errorf("upload thumbnail: %w", err)
		}
		oldThumb, newThumb = v.ThumbnailKey, thumb.Key
		v.ThumbnailURL, v.ThumbnailKey = thumb.URL, thumb.Key
	}
	v.Title, v.Description = in.Title, in.Description

	updated, err := s.repomanager.Videos(s.db).Update(ctx, v)
	if err != nil {
		s.deleteObjects(ctx, newThumb)
		if errors.Is(err, common.ErrorNotFound) {
			return nil, err
		}
		return nil, storageErr(err)
	}
	s.deleteObjects(ctx, oldThumb)
	return updated, nil
}

// Delete removes the row first and the media objects afterwards.
func (s *VideoService) Delete(ctx context.Context, ownerID, videoID string) error {
	v, err := s.owned(ctx, ownerID, videoID)
	if err != nil {
		return err
	}
	if err := s.repomanager.Videos(s.db).Delete(ctx, v.ID); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return err
		}
		return storageErr(err)
	}
	s.deleteObjects(ctx, v.VideoKey, v.ThumbnailKey)
	s.logger.Info(ctx, "video deleted", "user_id", ownerID, "video_id", v.ID)
	return nil
}

func (s *VideoService) TogglePublish(ctx context.Context, ownerID, videoID string) (*models.Video, error) {
	v, err := s.owned(ctx, ownerID, videoID)
	if err != nil {
		return nil, err
	}
	if err := s.repomanager.Videos(s.db).SetPublished(ctx, v.ID, !v.IsPublished); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, err
		}
		return nil, storageErr(err)
	}
	v.IsPublished = !v.IsPublished
	return v, nil
}

func (s *VideoService) find(ctx context.Context, videoID string) (*models.Video, error) {
	if err := validID(videoID, "video"); err != nil {
		return nil, err
	}
	v, err := s.repomanager.Videos(s.db).FindByID(ctx, videoID)
	if err != nil {
		return nil, notFoundOrStorage(err)
	}
	return v, nil
}

func (s *VideoService) owned(ctx context.Context, ownerID, videoID string) (*models.Video, error) {
	v, err := s.find(ctx, videoID)
	if err != nil {
		return nil, err
	}
	if v.OwnerID != ownerID {
		return nil, common.ErrForbidden
	}
	return v, nil
}

func (s *VideoService) deleteObjects(ctx context.Context, keys ...string) {
	for _, k := range keys {
		if err := s.storage.Delete(ctx, k); err != nil {
			s.logger.Warn(ctx, "failed to delete media object", "key", k, "error", err)
		}
	}
}
