package httpapi

import (
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/vidstream/internal/common"
	"github.com/dmitrijs2005/vidstream/internal/server/services"
	"github.com/gin-gonic/gin"
)

func (h *Handler) publishVideo(c *gin.Context) {
	files, err := h.stageFiles(c, "videoFile", "thumbnail")
	if err != nil {
		h.writeError(c, err)
		return
	}

	var duration float64
	if raw := strings.TrimSpace(c.PostForm("duration")); raw != "" {
		duration, err = strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(duration) || math.IsInf(duration, 0) {
			removeStaged(files)
			h.writeError(c, fmt.Errorf("%w: duration must be a finite number", common.ErrInvalidInput))
			return
		}
	}

	video, err := h.videos.Publish(c.Request.Context(), currentUserID(c), services.PublishInput{
		Title:           c.PostForm("title"),
		Description:     c.PostForm("description"),
		DurationSeconds: duration,
		VideoPath:       files["videoFile"],
		ThumbnailPath:   files["thumbnail"],
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	ok(c, http.StatusCreated, video, "Video published successfully")
}

// listVideos serves GET /videos?query=&sortBy=&sortType=&page=&limit=.
func (h *Handler) listVideos(c *gin.Context) {
	page, limit, err := pageParams(c)
	if err != nil {
		h.writeError(c, err)
		return
	}
	result, err := h.videos.List(c.Request.Context(), services.ListInput{
		Query:    c.Query("query"),
		SortBy:   c.Query("sortBy"),
		SortType: c.Query("sortType"),
		Page:     page,
		Limit:    limit,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	ok(c, http.StatusOK, result, "Videos fetched successfully")
}

// pageParams reads the optional page and limit query parameters. Zero
// leaves the choice to the service.
func pageParams(c *gin.Context) (int, int, error) {
	var out [2]int
	for i, name := range []string{"page", "limit"} {
		raw := strings.TrimSpace(c.Query(name))
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return 0, 0, fmt.Errorf("%w: %s must be a positive integer", common.ErrInvalidInput, name)
		}
		out[i] = n
	}
	return out[0], out[1], nil
}

func (h *Handler) getVideo(c *gin.Context) {
	video, err := h.videos.Get(c.Request.Context(), currentUserID(c), c.Param("videoId"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	ok(c, http.StatusOK, video, "Video fetched successfully")
}

func (h *Handler) updateVideo(c *gin.Context) {
	files, err := h.stageFiles(c, "thumbnail")
	if err != nil {
		h.writeError(c, err)
		return
	}

	video, err := h.videos.Update(c.Request.Context(), currentUserID(c), c.Param("videoId"), services.UpdateInput{
		Title:         c.PostForm("title"),
		Description:   c.PostForm("description"),
		ThumbnailPath: files["thumbnail"],
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	ok(c, http.StatusOK, video, "Video updated successfully")
}

func (h *Handler) deleteVideo(c *gin.Context) {
	if err := h.videos.Delete(c.Request.Context(), currentUserID(c), c.Param("videoId")); err != nil {
		h.writeError(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{}, "Video deleted successfully")
}

func (h *Handler) togglePublish(c *gin.Context) {
	video, err := h.videos.TogglePublish(c.Request.Context(), currentUserID(c), c.Param("videoId"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"isPublished": video.IsPublished}, "Publish status toggled")
}
