package httpapi

import (
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/vidstream/internal/common"
	"github.com/dmitrijs2005/vidstream/internal/server/services"
	"github.com/gin-gonic/gin"
)

type playlistRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (h *Handler) createPlaylist(c *gin.Context) {
	var req playlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeError(c, fmt.Errorf("%w: %v", common.ErrInvalidInput, err))
		return
	}
	p, err := h.playlists.Create(c.Request.Context(), currentUserID(c), services.PlaylistInput(req))
	if err != nil {
		h.writeError(c, err)
		return
	}
	ok(c, http.StatusCreated, p, "Playlist created successfully")
}

func (h *Handler) getPlaylist(c *gin.Context) {
	p, err := h.playlists.Get(c.Request.Context(), c.Param("playlistId"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	ok(c, http.StatusOK, p, "Playlist fetched successfully")
}

func (h *Handler) userPlaylists(c *gin.Context) {
	list, err := h.playlists.UserPlaylists(c.Request.Context(), c.Param("userId"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	ok(c, http.StatusOK, list, "Playlists fetched successfully")
}

func (h *Handler) updatePlaylist(c *gin.Context) {
	var req playlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeError(c, fmt.Errorf("%w: %v", common.ErrInvalidInput, err))
		return
	}
	p, err := h.playlists.Update(c.Request.Context(), currentUserID(c), c.Param("playlistId"), services.PlaylistInput(req))
	if err != nil {
		h.writeError(c, err)
		return
	}
	ok(c, http.StatusOK, p, "Playlist updated successfully")
}

func (h *Handler) deletePlaylist(c *gin.Context) {
	if err := h.playlists.Delete(c.Request.Context(), currentUserID(c), c.Param("playlistId")); err != nil {
		h.writeError(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{}, "Playlist deleted successfully")
}

func (h *Handler) addVideoToPlaylist(c *gin.Context) {
	p, err := h.playlists.AddVideo(c.Request.Context(), currentUserID(c), c.Param("playlistId"), c.Param("videoId"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	ok(c, http.StatusOK, p, "Video added to playlist")
}

func (h *Handler) removeVideoFromPlaylist(c *gin.Context) {
	p, err := h.playlists.RemoveVideo(c.Request.Context(), currentUserID(c), c.Param("playlistId"), c.Param("videoId"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	ok(c, http.StatusOK, p, "Video removed from playlist")
}
