package common

// AccessTokenHeaderName is the gRPC metadata key carrying the access token
// on inbound requests.
const AccessTokenHeaderName = "access_token"

// Cookie names used by the HTTP binding.
const (
	AccessTokenCookieName  = "accessToken"
	RefreshTokenCookieName = "refreshToken"
)
