package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/dmitrijs2005/vidstream/internal/timex"
	"github.com/joho/godotenv"
)

// DotEnvFile is loaded into the process environment, without overriding
// variables that are already set, before environment values are read.
var DotEnvFile = ".env"

// parseEnv overlays values from environment variables:
//
//	APP_ENV, HTTP_ADDR, GRPC_ADDR, DATABASE_DSN,
//	ACCESS_TOKEN_SECRET, ACCESS_TOKEN_EXPIRY, REFRESH_TOKEN_SECRET, REFRESH_TOKEN_EXPIRY,
//	REVOKE_SESSIONS_ON_PASSWORD_CHANGE, COOKIE_SECURE, CORS_ORIGIN, UPLOAD_DIR,
//	S3_ROOT_USER, S3_ROOT_PASSWORD, S3_BUCKET, S3_REGION, S3_BASE_ENDPOINT, S3_PUBLIC_URL,
//	SENTRY_DSN
//
// Lifetimes use timex.ParseDuration syntax ("15m", "10d"). A malformed
// duration or boolean panics.
func parseEnv(config *Config) {
	if DotEnvFile != "" {
		// a missing .env file is the normal case outside local development
		_ = godotenv.Load(DotEnvFile)
	}

	envString(&config.Environment, "APP_ENV")
	envString(&config.EndpointAddrHTTP, "HTTP_ADDR")
	envString(&config.EndpointAddrGRPC, "GRPC_ADDR")
	envString(&config.DatabaseDSN, "DATABASE_DSN")
	envString(&config.AccessTokenSecret, "ACCESS_TOKEN_SECRET")
	envString(&config.RefreshTokenSecret, "REFRESH_TOKEN_SECRET")
	envDuration(&config.AccessTokenValidityDuration, "ACCESS_TOKEN_EXPIRY")
	envDuration(&config.RefreshTokenValidityDuration, "REFRESH_TOKEN_EXPIRY")
	envBool(&config.RevokeSessionsOnPasswordChange, "REVOKE_SESSIONS_ON_PASSWORD_CHANGE")
	envBool(&config.CookieSecure, "COOKIE_SECURE")
	envString(&config.CORSOrigin, "CORS_ORIGIN")
	envString(&config.UploadDir, "UPLOAD_DIR")
	envString(&config.S3RootUser, "S3_ROOT_USER")
	envString(&config.S3RootPassword, "S3_ROOT_PASSWORD")
	envString(&config.S3Bucket, "S3_BUCKET")
	envString(&config.S3Region, "S3_REGION")
	envString(&config.S3BaseEndpoint, "S3_BASE_ENDPOINT")
	envString(&config.S3PublicURL, "S3_PUBLIC_URL")
	envString(&config.SentryDSN, "SENTRY_DSN")
}

func envString(dst *string, name string) {
	if v, ok := os.LookupEnv(name); ok && v != "" {
		*dst = v
	}
}

func envDuration(dst *time.Duration, name string) {
	v, ok := os.LookupEnv(name)
	if !ok || v == "" {
		return
	}
	d, err := timex.ParseDuration(v)
	if err != nil {
		panic(fmt.Errorf("%s: %w", name, err))
	}
	*dst = d
}

func envBool(dst *bool, name string) {
	v, ok := os.LookupEnv(name)
	if !ok || v == "" {
		return
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		panic(fmt.Errorf("%s: %w", name, err))
	}
	*dst = b
}
