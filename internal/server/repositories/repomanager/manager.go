package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/vidstream/internal/dbx"
	"github.com/dmitrijs2005/vidstream/internal/server/repositories/channels"
	"github.com/dmitrijs2005/vidstream/internal/server/repositories/likes"
	"github.com/dmitrijs2005/vidstream/internal/server/repositories/playlists"
	"github.com/dmitrijs2005/vidstream/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/vidstream/internal/server/repositories/subscriptions"
	"github.com/dmitrijs2005/vidstream/internal/server/repositories/tweets"
	"github.com/dmitrijs2005/vidstream/internal/server/repositories/users"
	"github.com/dmitrijs2005/vidstream/internal/server/repositories/videos"
)

// RepositoryManager vends repositories bound to a *sql.DB or a *sql.Tx.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
	Videos(db dbx.DBTX) videos.Repository
	Likes(db dbx.DBTX) likes.Repository
	Subscriptions(db dbx.DBTX) subscriptions.Repository
	Playlists(db dbx.DBTX) playlists.Repository
	Tweets(db dbx.DBTX) tweets.Repository
	Channels(db dbx.DBTX) channels.Repository
}
