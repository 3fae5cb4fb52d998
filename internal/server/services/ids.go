package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/vidstream/internal/common"
	"github.com/dmitrijs2005/vidstream/internal/server/models"
	videosrepo "github.com/dmitrijs2005/vidstream/internal/server/repositories/videos"
	"github.com/google/uuid"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// validID rejects blank and non-UUID identifiers before they reach the
// database, where a malformed uuid would surface as a storage failure.
func validID(id, what string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%w: %s id is required", common.ErrInvalidInput, what)
	}
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: invalid %s id", common.ErrInvalidInput, what)
	}
	return nil
}

// pageBounds clamps a 1-based page and its size and returns limit and offset.
func pageBounds(page, limit int) (int, int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	return page, limit, (page - 1) * limit
}

// visibleVideo loads a video the viewer may see: published ones, or any of
// the viewer's own. Others are reported as missing.
func visibleVideo(ctx context.Context, repo videosrepo.Repository, viewerID, videoID string) (*models.Video, error) {
	if err := validID(videoID, "video"); err != nil {
		return nil, err
	}
	v, err := repo.FindByID(ctx, videoID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, err
		}
		return nil, storageErr(err)
	}
	if !v.IsPublished && v.OwnerID != viewerID {
		return nil, common.ErrorNotFound
	}
	return v, nil
}

// notFoundOrStorage passes common.ErrorNotFound through and marks anything
// else as a storage failure.
func notFoundOrStorage(err error) error {
	if errors.Is(err, common.ErrorNotFound) {
		return err
	}
	return storageErr(err)
}
