package models

import "time"

type Video struct {
	ID              string       `json:"id"`
	OwnerID         string       `json:"owner"`
	Title           string       `json:"title"`
	Description     string       `json:"description"`
	VideoURL        string       `json:"videoFile"`
	VideoKey        string       `json:"-"`
	ThumbnailURL    string       `json:"thumbnail"`
	ThumbnailKey    string       `json:"-"`
	DurationSeconds float64      `json:"duration"`
	Views           int64        `json:"views"`
	IsPublished     bool         `json:"isPublished"`
	// StreamURL is a short-lived presigned link, filled on reads only.
	StreamURL       string       `json:"streamUrl,omitempty"`
	CreatedAt       time.Time    `json:"createdAt"`
	UpdatedAt       time.Time    `json:"updatedAt"`
	Owner           *UserSummary `json:"createdBy,omitempty"`
}

// VideoPage is one page of a video listing. Total counts every match.
type VideoPage struct {
	Videos []*Video `json:"videos"`
	Page   int      `json:"page"`
	Limit  int      `json:"limit"`
	Total  int64    `json:"total"`
}
