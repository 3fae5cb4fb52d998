package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/vidstream/internal/server/services"
	"github.com/gin-gonic/gin"
)

func (h *Handler) toggleVideoLike(c *gin.Context) {
	liked, err := h.likes.ToggleVideoLike(c.Request.Context(), currentUserID(c), c.Param("videoId"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	msg := "Like removed successfully"
	if liked {
		msg = "Like added successfully"
	}
	ok(c, http.StatusOK, gin.H{"isLiked": liked}, msg)
}

func (h *Handler) likedVideos(c *gin.Context) {
	page, limit, err := pageParams(c)
	if err != nil {
		h.writeError(c, err)
		return
	}
	list, err := h.likes.LikedVideos(c.Request.Context(), currentUserID(c), page, limit)
	if err != nil {
		h.writeError(c, err)
		return
	}
	ok(c, http.StatusOK, list, "Liked videos fetched successfully")
}

func (h *Handler) toggleSubscription(c *gin.Context) {
	subscribed, err := h.subscriptions.Toggle(c.Request.Context(), currentUserID(c), c.Param("channelId"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	msg := "Unsubscribed successfully"
	if subscribed {
		msg = "Subscribed successfully"
	}
	ok(c, http.StatusOK, gin.H{"isSubscribed": subscribed}, msg)
}

func (h *Handler) channelSubscribers(c *gin.Context) {
	list, err := h.subscriptions.Subscribers(c.Request.Context(), c.Param("channelId"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	ok(c, http.StatusOK, list, "Subscribers fetched successfully")
}

func (h *Handler) subscribedChannels(c *gin.Context) {
	list, err := h.subscriptions.Channels(c.Request.Context(), c.Param("subscriberId"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	ok(c, http.StatusOK, list, "Subscribed channels fetched successfully")
}

func (h *Handler) channelStats(c *gin.Context) {
	stats, err := h.dashboard.Stats(c.Request.Context(), currentUserID(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	ok(c, http.StatusOK, stats, "Channel stats fetched successfully")
}

func (h *Handler) channelVideos(c *gin.Context) {
	page, limit, err := pageParams(c)
	if err != nil {
		h.writeError(c, err)
		return
	}
	result, err := h.dashboard.Videos(c.Request.Context(), currentUserID(c), services.ListInput{
		SortBy:   c.Query("sortBy"),
		SortType: c.Query("sortType"),
		Page:     page,
		Limit:    limit,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	ok(c, http.StatusOK, result, "Channel videos fetched successfully")
}
