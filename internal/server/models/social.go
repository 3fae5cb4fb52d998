package models

import "time"

// UserSummary is the public face of a user inside lists: owners of videos
// and tweets, subscribers and channels.
type UserSummary struct {
	ID        string `json:"id"`
	UserName  string `json:"username"`
	FullName  string `json:"fullName"`
	AvatarURL string `json:"avatar"`
}

type Playlist struct {
	ID          string `json:"id"`
	OwnerID     string `json:"owner"`
	Name        string `json:"name"`
	Description string `json:"description"`
	// VideoIDs keeps insertion order.
	VideoIDs  []string  `json:"videos"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Tweet struct {
	ID        string       `json:"id"`
	OwnerID   string       `json:"owner"`
	Content   string       `json:"content"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
	Owner     *UserSummary `json:"user,omitempty"`
}

// ChannelStats aggregates a channel's videos, audience and likes received.
type ChannelStats struct {
	TotalVideos      int64 `json:"totalVideos"`
	TotalViews       int64 `json:"totalViews"`
	TotalSubscribers int64 `json:"totalSubscribers"`
	TotalLikes       int64 `json:"totalLikes"`
}
