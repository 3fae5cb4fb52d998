// Package models defines server-side data models persisted in the database.
package models

import "time"

// User is the stored account record. PasswordHash and RefreshToken never
// leave the server; use Public for anything sent to a client.
type User struct {
	ID            string
	UserName      string
	Email         string
	FullName      string
	AvatarURL     string
	AvatarKey     string
	CoverImageURL string
	CoverImageKey string
	PasswordHash  []byte
	// RefreshToken is the single live refresh token; empty means no session.
	RefreshToken string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// PublicUser is the sanitized projection of User.
type PublicUser struct {
	ID            string    `json:"id"`
	UserName      string    `json:"username"`
	Email         string    `json:"email"`
	FullName      string    `json:"fullName"`
	AvatarURL     string    `json:"avatar"`
	CoverImageURL string    `json:"coverImage"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// Public strips credential and session fields.
func (u *User) Public() *PublicUser {
	return &PublicUser{
		ID:            u.ID,
		UserName:      u.UserName,
		Email:         u.Email,
		FullName:      u.FullName,
		AvatarURL:     u.AvatarURL,
		CoverImageURL: u.CoverImageURL,
		CreatedAt:     u.CreatedAt,
		UpdatedAt:     u.UpdatedAt,
	}
}
