// Package httpapi exposes the account, session, video and social
// operations over HTTP with gin. Session tokens travel in HttpOnly cookies.
package httpapi

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/vidstream/internal/logging"
	"github.com/dmitrijs2005/vidstream/internal/server/models"
	"github.com/dmitrijs2005/vidstream/internal/server/services"
	"github.com/gin-gonic/gin"
)

type Sessions interface {
	Login(ctx context.Context, identifier, password string) (*models.Session, error)
	Refresh(ctx context.Context, presented string) (*models.Session, error)
	Logout(ctx context.Context, userID string) error
	ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error
	Authenticate(ctx context.Context, accessToken string) (string, error)
}

type Accounts interface {
	Register(ctx context.Context, in services.RegisterInput) (*models.PublicUser, error)
	CurrentUser(ctx context.Context, userID string) (*models.PublicUser, error)
	UpdateAccount(ctx context.Context, userID, fullName, email string) (*models.PublicUser, error)
	UpdateAvatar(ctx context.Context, userID, path string) (*models.PublicUser, error)
	UpdateCoverImage(ctx context.Context, userID, path string) (*models.PublicUser, error)
}

type Videos interface {
	Publish(ctx context.Context, ownerID string, in services.PublishInput) (*models.Video, error)
	Get(ctx context.Context, viewerID, videoID string) (*models.Video, error)
	Update(ctx context.Context, ownerID, videoID string, in services.UpdateInput) (*models.Video, error)
	Delete(ctx context.Context, ownerID, videoID string) error
	TogglePublish(ctx context.Context, ownerID, videoID string) (*models.Video, error)
	List(ctx context.Context, in services.ListInput) (*models.VideoPage, error)
}

type Likes interface {
	ToggleVideoLike(ctx context.Context, userID, videoID string) (bool, error)
	LikedVideos(ctx context.Context, userID string, page, limit int) ([]*models.Video, error)
}

type Subscriptions interface {
	Toggle(ctx context.Context, subscriberID, channelID string) (bool, error)
	Subscribers(ctx context.Context, channelID string) ([]models.UserSummary, error)
	Channels(ctx context.Context, subscriberID string) ([]models.UserSummary, error)
}

type Playlists interface {
	Create(ctx context.Context, ownerID string, in services.PlaylistInput) (*models.Playlist, error)
	Get(ctx context.Context, playlistID string) (*models.Playlist, error)
	UserPlaylists(ctx context.Context, userID string) ([]*models.Playlist, error)
	Update(ctx context.Context, ownerID, playlistID string, in services.PlaylistInput) (*models.Playlist, error)
	Delete(ctx context.Context, ownerID, playlistID string) error
	AddVideo(ctx context.Context, ownerID, playlistID, videoID string) (*models.Playlist, error)
	RemoveVideo(ctx context.Context, ownerID, playlistID, videoID string) (*models.Playlist, error)
}

type Tweets interface {
	Create(ctx context.Context, ownerID, content string) (*models.Tweet, error)
	UserTweets(ctx context.Context, userID string) ([]*models.Tweet, error)
	Update(ctx context.Context, ownerID, tweetID, content string) (*models.Tweet, error)
	Delete(ctx context.Context, ownerID, tweetID string) error
}

type Dashboard interface {
	Stats(ctx context.Context, channelID string) (*models.ChannelStats, error)
	Videos(ctx context.Context, channelID string, in services.ListInput) (*models.VideoPage, error)
}

// Services groups the business operations the routes call into.
type Services struct {
	Sessions      Sessions
	Accounts      Accounts
	Videos        Videos
	Likes         Likes
	Subscriptions Subscriptions
	Playlists     Playlists
	Tweets        Tweets
	Dashboard     Dashboard
}

type Options struct {
	UploadDir       string
	CookieSecure    bool
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	// CORSOrigin is a comma-separated allow-list. Listed origins are
	// echoed with credentials; "*" allows any origin without credentials;
	// empty disables CORS headers.
	CORSOrigin string
	// MaxUploadBytes caps multipart request bodies. Zero means 512 MiB.
	MaxUploadBytes int64
}

type Handler struct {
	sessions      Sessions
	accounts      Accounts
	videos        Videos
	likes         Likes
	subscriptions Subscriptions
	playlists     Playlists
	tweets        Tweets
	dashboard     Dashboard
	opts          Options
	origins       map[string]bool
	logger        logging.Logger
}

func NewHandler(svc Services, opts Options, logger logging.Logger) *Handler {
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = 512 << 20
	}
	origins := map[string]bool{}
	for _, o := range strings.Split(opts.CORSOrigin, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins[o] = true
		}
	}
	return &Handler{
		sessions:      svc.Sessions,
		accounts:      svc.Accounts,
		videos:        svc.Videos,
		likes:         svc.Likes,
		subscriptions: svc.Subscriptions,
		playlists:     svc.Playlists,
		tweets:        svc.Tweets,
		dashboard:     svc.Dashboard,
		opts:          opts,
		origins:       origins,
		logger:        logger.With("module", "http"),
	}
}

// Router builds the gin engine with all routes registered.
func (h *Handler) Router() *gin.Engine {
	r := gin.New()
	r.Use(h.recovery(), h.requestLogger(), h.cors())

	r.GET("/healthz", func(c *gin.Context) {
		ok(c, http.StatusOK, gin.H{"status": "ok"}, "healthy")
	})

	v1 := r.Group("/api/v1")

	users := v1.Group("/users")
	users.POST("/register", h.register)
	users.POST("/login", h.login)
	users.POST("/refresh-token", h.refreshToken)

	secured := users.Group("", h.requireAuth())
	secured.POST("/logout", h.logout)
	secured.POST("/change-password", h.changePassword)
	secured.GET("/current-user", h.currentUser)
	secured.PATCH("/update-account", h.updateAccount)
	secured.PATCH("/avatar", h.updateAvatar)
	secured.PATCH("/cover-image", h.updateCoverImage)

	videos := v1.Group("/videos")
	videos.GET("", h.optionalAuth(), h.listVideos)
	videos.GET("/:videoId", h.optionalAuth(), h.getVideo)
	videos.POST("", h.requireAuth(), h.publishVideo)
	videos.PATCH("/:videoId", h.requireAuth(), h.updateVideo)
	videos.DELETE("/:videoId", h.requireAuth(), h.deleteVideo)
	videos.PATCH("/toggle/publish/:videoId", h.requireAuth(), h.togglePublish)

	likes := v1.Group("/likes", h.requireAuth())
	likes.POST("/toggle/v/:videoId", h.toggleVideoLike)
	likes.GET("/videos", h.likedVideos)

	subs := v1.Group("/subscriptions", h.requireAuth())
	subs.POST("/c/:channelId", h.toggleSubscription)
	subs.GET("/c/:channelId", h.channelSubscribers)
	subs.GET("/u/:subscriberId", h.subscribedChannels)

	playlists := v1.Group("/playlist", h.requireAuth())
	playlists.POST("", h.createPlaylist)
	playlists.GET("/user/:userId", h.userPlaylists)
	playlists.GET("/:playlistId", h.getPlaylist)
	playlists.PATCH("/:playlistId", h.updatePlaylist)
	playlists.DELETE("/:playlistId", h.deletePlaylist)
	playlists.PATCH("/add/:videoId/:playlistId", h.addVideoToPlaylist)
	playlists.PATCH("/remove/:videoId/:playlistId", h.removeVideoFromPlaylist)

	tweets := v1.Group("/tweets", h.requireAuth())
	tweets.POST("", h.createTweet)
	tweets.GET("/user/:userId", h.userTweets)
	tweets.PATCH("/:tweetId", h.updateTweet)
	tweets.DELETE("/:tweetId", h.deleteTweet)

	dashboard := v1.Group("/dashboard", h.requireAuth())
	dashboard.GET("/stats", h.channelStats)
	dashboard.GET("/videos", h.channelVideos)

	return r
}
