package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/vidstream/internal/flagx"
	"github.com/dmitrijs2005/vidstream/internal/timex"
)

// JsonConfig is the on-disk shape of the configuration file. Pointer and
// zero-valued fields are left untouched on the target Config, so a file may
// carry only the settings it wants to override.
type JsonConfig struct {
	Environment                    string          `json:"environment"`
	EndpointAddrHTTP               string          `json:"endpoint_addr_http"`
	EndpointAddrGRPC               string          `json:"endpoint_addr_grpc"`
	DatabaseDSN                    string          `json:"database_dsn"`
	AccessTokenSecret              string          `json:"access_token_secret"`
	RefreshTokenSecret             string          `json:"refresh_token_secret"`
	AccessTokenValidityDuration    *timex.Duration `json:"access_token_validity_duration"`
	RefreshTokenValidityDuration   *timex.Duration `json:"refresh_token_validity_duration"`
	RevokeSessionsOnPasswordChange *bool           `json:"revoke_sessions_on_password_change"`
	CookieSecure                   *bool           `json:"cookie_secure"`
	CORSOrigin                     string          `json:"cors_origin"`
	UploadDir                      string          `json:"upload_dir"`
	S3RootUser                     string          `json:"s3_root_user"`
	S3RootPassword                 string          `json:"s3_root_password"`
	S3Bucket                       string          `json:"s3_bucket"`
	S3Region                       string          `json:"s3_region"`
	S3BaseEndpoint                 string          `json:"s3_base_endpoint"`
	S3PublicURL                    string          `json:"s3_public_url"`
	SentryDSN                      string          `json:"sentry_dsn"`
}

// parseJson overlays values from the JSON file named by -c/-config (or the
// CONFIG environment variable). No path means nothing to load. An unreadable
// file or invalid JSON panics.
func parseJson(config *Config) {
	path := flagx.ConfigPath()
	if path == "" {
		return
	}

	file, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	setString(&config.Environment, c.Environment)
	setString(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setString(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.AccessTokenSecret, c.AccessTokenSecret)
	setString(&config.RefreshTokenSecret, c.RefreshTokenSecret)
	if c.AccessTokenValidityDuration != nil {
		config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	}
	if c.RefreshTokenValidityDuration != nil {
		config.RefreshTokenValidityDuration = c.RefreshTokenValidityDuration.Duration
	}
	if c.RevokeSessionsOnPasswordChange != nil {
		config.RevokeSessionsOnPasswordChange = *c.RevokeSessionsOnPasswordChange
	}
	if c.CookieSecure != nil {
		config.CookieSecure = *c.CookieSecure
	}
	setString(&config.CORSOrigin, c.CORSOrigin)
	setString(&config.UploadDir, c.UploadDir)
	setString(&config.S3RootUser, c.S3RootUser)
	setString(&config.S3RootPassword, c.S3RootPassword)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	setString(&config.S3PublicURL, c.S3PublicURL)
	setString(&config.SentryDSN, c.SentryDSN)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
