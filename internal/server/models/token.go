package models

// TokenPair bundles a short-lived access token and a long-lived refresh token.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// Session is what a successful login returns to the transport layer.
type Session struct {
	TokenPair
	User *PublicUser `json:"user"`
}
