// Package server wires configuration, storage, services and transports
// together and runs the HTTP and gRPC listeners until shutdown.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrijs2005/vidstream/internal/logging"
	"github.com/dmitrijs2005/vidstream/internal/server/auth"
	"github.com/dmitrijs2005/vidstream/internal/server/config"
	"github.com/dmitrijs2005/vidstream/internal/server/httpapi"
	"github.com/dmitrijs2005/vidstream/internal/server/media"
	"github.com/dmitrijs2005/vidstream/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/vidstream/internal/server/services"
	"github.com/getsentry/sentry-go"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/sethvargo/go-retry"

	gs "github.com/dmitrijs2005/vidstream/internal/server/grpc"
)

const (
	dbPingAttempts  = 5
	dbPingBackoff   = 500 * time.Millisecond
	shutdownTimeout = 10 * time.Second
)

type App struct {
	config     *config.Config
	logger     logging.Logger
	db         *sql.DB
	httpServer *http.Server
	grpcServer *gs.GRPCServer
}

// NewApp connects to the database, applies migrations and builds every
// service. It fails fast on invalid configuration.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	logger := logging.New(os.Stdout, cfg.Environment)

	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{Dsn: cfg.SentryDSN, Environment: cfg.Environment}); err != nil {
			return nil, fmt.Errorf("sentry init error: %w", err)
		}
	}

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}
	if err := waitForDB(ctx, db, dbPingAttempts, dbPingBackoff); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	codec, err := auth.NewCodec(cfg.AccessTokenSecret, cfg.AccessTokenValidityDuration,
		cfg.RefreshTokenSecret, cfg.RefreshTokenValidityDuration)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	storage, err := media.NewS3Storage(ctx, media.Settings{
		Region:       cfg.S3Region,
		AccessKey:    cfg.S3RootUser,
		SecretKey:    cfg.S3RootPassword,
		BaseEndpoint: cfg.S3BaseEndpoint,
		Bucket:       cfg.S3Bucket,
		PublicURL:    cfg.MediaBaseURL(),
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("media storage init error: %w", err)
	}

	sessions := services.NewSessionManager(db, rm, codec,
		services.WithRevokeOnPasswordChange(cfg.RevokeSessionsOnPasswordChange),
		services.WithSessionLogger(logger))
	accounts := services.NewAccountService(db, rm, storage, logger)
	videos := services.NewVideoService(db, rm, storage, logger)

	handler := httpapi.NewHandler(httpapi.Services{
		Sessions:      sessions,
		Accounts:      accounts,
		Videos:        videos,
		Likes:         services.NewLikeService(db, rm, logger),
		Subscriptions: services.NewSubscriptionService(db, rm, logger),
		Playlists:     services.NewPlaylistService(db, rm, logger),
		Tweets:        services.NewTweetService(db, rm, logger),
		Dashboard:     services.NewDashboardService(db, rm, videos),
	}, httpapi.Options{
		UploadDir:       cfg.UploadDir,
		CookieSecure:    cfg.CookieSecure,
		AccessTokenTTL:  cfg.AccessTokenValidityDuration,
		RefreshTokenTTL: cfg.RefreshTokenValidityDuration,
		CORSOrigin:      cfg.CORSOrigin,
	}, logger)

	return &App{
		config: cfg,
		logger: logger,
		db:     db,
		httpServer: &http.Server{
			Addr:              cfg.EndpointAddrHTTP,
			Handler:           handler.Router(),
			ReadHeaderTimeout: 10 * time.Second,
		},
		grpcServer: gs.NewGRPCServer(cfg.EndpointAddrGRPC, logger, sessions),
	}, nil
}

// waitForDB pings db with exponential backoff; the database container is
// often still starting when the server comes up.
func waitForDB(ctx context.Context, db *sql.DB, attempts uint64, base time.Duration) error {
	backoff := retry.WithMaxRetries(attempts-1, retry.NewExponential(base))
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		if err := db.PingContext(ctx); err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	go func() {
		<-ctx.Done()
		app.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := app.httpServer.Shutdown(shutdownCtx); err != nil {
			app.logger.Error(ctx, "http shutdown", "error", err)
		}
	}()

	app.logger.Info(ctx, "Starting HTTP server", "address", app.httpServer.Addr)
	if err := app.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	if err := app.grpcServer.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run serves until a termination signal arrives or a listener fails, then
// stops both servers and releases the database.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close", "error", err)
	}
	sentry.Flush(2 * time.Second)
	app.logger.Info(ctx, "App stopped")
}
