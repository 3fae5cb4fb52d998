package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/vidstream/internal/flagx"
	"github.com/dmitrijs2005/vidstream/internal/timex"
)

var ownFlags = []string{
	"-a", "-grpc", "-d", "-as", "-rs", "-t", "-r", "-revoke-on-password-change",
	"-cookie-secure", "-cors", "-upload-dir", "-u", "-p", "-b", "-g", "-e", "-public-url",
}

// parseFlags populates Config fields from command-line flags.
//
//	-a string        HTTP bind address (e.g. ":8000")
//	-grpc string     gRPC bind address (e.g. ":50051")
//	-d string        PostgreSQL DSN
//	-as string       access token secret
//	-rs string       refresh token secret
//	-t duration      access token lifetime ("15m")
//	-r duration      refresh token lifetime ("10d")
//	-revoke-on-password-change bool
//	-cookie-secure bool
//	-cors string     comma-separated allowed CORS origins (empty disables CORS)
//	-upload-dir string  staging directory for multipart uploads
//	-u, -p, -b, -g, -e  S3 user, password, bucket, region, endpoint
//	-public-url string  base URL for durable media links
//
// Only the flags above are taken from os.Args (see flagx.FilterArgs).
// Durations accept timex.ParseDuration syntax. Invalid values panic.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], ownFlags)

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "address and port to run the HTTP server")
	fs.StringVar(&config.EndpointAddrGRPC, "grpc", config.EndpointAddrGRPC, "address and port to run the gRPC server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.AccessTokenSecret, "as", config.AccessTokenSecret, "access token secret")
	fs.StringVar(&config.RefreshTokenSecret, "rs", config.RefreshTokenSecret, "refresh token secret")
	fs.Func("t", "access token lifetime", durationFlag(&config.AccessTokenValidityDuration))
	fs.Func("r", "refresh token lifetime", durationFlag(&config.RefreshTokenValidityDuration))
	fs.BoolVar(&config.RevokeSessionsOnPasswordChange, "revoke-on-password-change", config.RevokeSessionsOnPasswordChange, "clear refresh token on password change")
	fs.BoolVar(&config.CookieSecure, "cookie-secure", config.CookieSecure, "mark token cookies Secure")
	fs.StringVar(&config.CORSOrigin, "cors", config.CORSOrigin, "comma-separated allowed CORS origins")
	fs.StringVar(&config.UploadDir, "upload-dir", config.UploadDir, "staging directory for uploads")
	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "p", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")
	fs.StringVar(&config.S3PublicURL, "public-url", config.S3PublicURL, "public base URL for media")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}

func durationFlag(dst *time.Duration) func(string) error {
	return func(s string) error {
		d, err := timex.ParseDuration(s)
		if err != nil {
			return err
		}
		*dst = d
		return nil
	}
}
