package httpapi

import (
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/vidstream/internal/common"
	"github.com/gin-gonic/gin"
)

type tweetRequest struct {
	Content string `json:"content"`
}

func (h *Handler) createTweet(c *gin.Context) {
	var req tweetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeError(c, fmt.Errorf("%w: %v", common.ErrInvalidInput, err))
		return
	}
	t, err := h.tweets.Create(c.Request.Context(), currentUserID(c), req.Content)
	if err != nil {
		h.writeError(c, err)
		return
	}
	ok(c, http.StatusCreated, t, "Tweet created successfully")
}

func (h *Handler) userTweets(c *gin.Context) {
	list, err := h.tweets.UserTweets(c.Request.Context(), c.Param("userId"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	ok(c, http.StatusOK, list, "User tweets fetched successfully")
}

func (h *Handler) updateTweet(c *gin.Context) {
	var req tweetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeError(c, fmt.Errorf("%w: %v", common.ErrInvalidInput, err))
		return
	}
	t, err := h.tweets.Update(c.Request.Context(), currentUserID(c), c.Param("tweetId"), req.Content)
	if err != nil {
		h.writeError(c, err)
		return
	}
	ok(c, http.StatusOK, t, "Tweet updated successfully")
}

func (h *Handler) deleteTweet(c *gin.Context) {
	if err := h.tweets.Delete(c.Request.Context(), currentUserID(c), c.Param("tweetId")); err != nil {
		h.writeError(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{}, "Tweet deleted successfully")
}
