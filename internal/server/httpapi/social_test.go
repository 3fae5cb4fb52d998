package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dmitrijs2005/vidstream/internal/common"
	"github.com/dmitrijs2005/vidstream/internal/server/models"
	"github.com/dmitrijs2005/vidstream/internal/server/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSocial records the last call's arguments for the like, subscription,
// playlist, tweet and dashboard routes.
type fakeSocial struct {
	err    error
	toggle bool
	calls  []string
	page   [2]int
	input  any
}

func (f *fakeSocial) record(args ...string) error {
	f.calls = args
	return f.err
}

func (f *fakeSocial) ToggleVideoLike(ctx context.Context, userID, videoID string) (bool, error) {
	return f.toggle, f.record("like", userID, videoID)
}

func (f *fakeSocial) LikedVideos(ctx context.Context, userID string, page, limit int) ([]*models.Video, error) {
	f.page = [2]int{page, limit}
	return []*models.Video{{ID: "v-1"}}, f.record("liked", userID)
}

func (f *fakeSocial) Stats(ctx context.Context, channelID string) (*models.ChannelStats, error) {
	return &models.ChannelStats{TotalVideos: 3, TotalViews: 9}, f.record("stats", channelID)
}

func (f *fakeSocial) Videos(ctx context.Context, channelID string, in services.ListInput) (*models.VideoPage, error) {
	f.input = in
	return &models.VideoPage{Videos: []*models.Video{}}, f.record("channel-videos", channelID)
}

type fakeSubscriptions struct{ f *fakeSocial }

func (s fakeSubscriptions) Toggle(ctx context.Context, subscriberID, channelID string) (bool, error) {
	return s.f.toggle, s.f.record("subscribe", subscriberID, channelID)
}

func (s fakeSubscriptions) Subscribers(ctx context.Context, channelID string) ([]models.UserSummary, error) {
	return []models.UserSummary{{ID: "u-2", UserName: "bob"}}, s.f.record("subscribers", channelID)
}

func (s fakeSubscriptions) Channels(ctx context.Context, subscriberID string) ([]models.UserSummary, error) {
	return []models.UserSummary{}, s.f.record("channels", subscriberID)
}

type fakePlaylists struct{ f *fakeSocial }

func (p fakePlaylists) Create(ctx context.Context, ownerID string, in services.PlaylistInput) (*models.Playlist, error) {
	p.f.input = in
	return &models.Playlist{ID: "p-1", OwnerID: ownerID, Name: in.Name}, p.f.record("create-playlist", ownerID)
}

func (p fakePlaylists) Get(ctx context.Context, playlistID string) (*models.Playlist, error) {
	return &models.Playlist{ID: playlistID}, p.f.record("get-playlist", playlistID)
}

func (p fakePlaylists) UserPlaylists(ctx context.Context, userID string) ([]*models.Playlist, error) {
	return []*models.Playlist{}, p.f.record("user-playlists", userID)
}

func (p fakePlaylists) Update(ctx context.Context, ownerID, playlistID string, in services.PlaylistInput) (*models.Playlist, error) {
	p.f.input = in
	return &models.Playlist{ID: playlistID, Name: in.Name}, p.f.record("update-playlist", ownerID, playlistID)
}

func (p fakePlaylists) Delete(ctx context.Context, ownerID, playlistID string) error {
	return p.f.record("delete-playlist", ownerID, playlistID)
}

func (p fakePlaylists) AddVideo(ctx context.Context, ownerID, playlistID, videoID string) (*models.Playlist, error) {
	return &models.Playlist{ID: playlistID, VideoIDs: []string{videoID}}, p.f.record("add", ownerID, playlistID, videoID)
}

func (p fakePlaylists) RemoveVideo(ctx context.Context, ownerID, playlistID, videoID string) (*models.Playlist, error) {
	return &models.Playlist{ID: playlistID, VideoIDs: []string{}}, p.f.record("remove", ownerID, playlistID, videoID)
}

type fakeTweets struct{ f *fakeSocial }

func (t fakeTweets) Create(ctx context.Context, ownerID, content string) (*models.Tweet, error) {
	return &models.Tweet{ID: "t-1", Content: content}, t.f.record("tweet", ownerID, content)
}

func (t fakeTweets) UserTweets(ctx context.Context, userID string) ([]*models.Tweet, error) {
	return []*models.Tweet{}, t.f.record("user-tweets", userID)
}

func (t fakeTweets) Update(ctx context.Context, ownerID, tweetID, content string) (*models.Tweet, error) {
	return &models.Tweet{ID: tweetID, Content: content}, t.f.record("update-tweet", ownerID, tweetID, content)
}

func (t fakeTweets) Delete(ctx context.Context, ownerID, tweetID string) error {
	return t.f.record("delete-tweet", ownerID, tweetID)
}

func wrapConflict(msg string) error {
	return fmt.Errorf("%w: %s", common.ErrAlreadyExists, msg)
}

func TestListVideos_QueryParams(t *testing.T) {
	e := newEnv(t)

	rec := e.do(httptest.NewRequest(http.MethodGet, "/api/v1/videos?query=go&sortBy=views&sortType=asc&page=2&limit=5", nil))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, services.ListInput{Query: "go", SortBy: "views", SortType: "asc", Page: 2, Limit: 5}, e.videos.listed)

	var page models.VideoPage
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &page))
	assert.Equal(t, int64(1), page.Total)
	require.Len(t, page.Videos, 1)

	rec = e.do(httptest.NewRequest(http.MethodGet, "/api/v1/videos?page=0", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = e.do(httptest.NewRequest(http.MethodGet, "/api/v1/videos?limit=ten", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	e.videos.err = common.ErrInvalidInput
	rec = e.do(httptest.NewRequest(http.MethodGet, "/api/v1/videos?sortBy=password", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLikeRoutes(t *testing.T) {
	e := newEnv(t)
	e.social.toggle = true

	rec := e.do(withBearer(httptest.NewRequest(http.MethodPost, "/api/v1/likes/toggle/v/v-9", nil), "good-token"))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, []string{"like", "u-1", "v-9"}, e.social.calls)
	assert.JSONEq(t, `{"isLiked":true}`, string(decode(t, rec).Data))
	assert.Equal(t, "Like added successfully", decode(t, rec).Message)

	rec = e.do(withBearer(httptest.NewRequest(http.MethodGet, "/api/v1/likes/videos?page=3", nil), "good-token"))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, [2]int{3, 0}, e.social.page)

	rec = e.do(httptest.NewRequest(http.MethodPost, "/api/v1/likes/toggle/v/v-9", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	e.social.err = common.ErrorNotFound
	rec = e.do(withBearer(httptest.NewRequest(http.MethodPost, "/api/v1/likes/toggle/v/v-9", nil), "good-token"))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSubscriptionRoutes(t *testing.T) {
	e := newEnv(t)

	rec := e.do(withBearer(httptest.NewRequest(http.MethodPost, "/api/v1/subscriptions/c/u-2", nil), "good-token"))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, []string{"subscribe", "u-1", "u-2"}, e.social.calls)
	assert.Equal(t, "Unsubscribed successfully", decode(t, rec).Message)

	rec = e.do(withBearer(httptest.NewRequest(http.MethodGet, "/api/v1/subscriptions/c/u-2", nil), "good-token"))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"subscribers", "u-2"}, e.social.calls)

	rec = e.do(withBearer(httptest.NewRequest(http.MethodGet, "/api/v1/subscriptions/u/u-3", nil), "good-token"))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"channels", "u-3"}, e.social.calls)
	assert.JSONEq(t, `[]`, string(decode(t, rec).Data))

	e.social.err = common.ErrInvalidInput
	rec = e.do(withBearer(httptest.NewRequest(http.MethodPost, "/api/v1/subscriptions/c/u-1", nil), "good-token"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPlaylistRoutes(t *testing.T) {
	e := newEnv(t)
	auth := func(r *http.Request) *http.Request { return withBearer(r, "good-token") }

	rec := e.do(auth(jsonRequest(http.MethodPost, "/api/v1/playlist", map[string]string{"name": "Mix", "description": "d"})))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, services.PlaylistInput{Name: "Mix", Description: "d"}, e.social.input)

	rec = e.do(auth(httptest.NewRequest(http.MethodGet, "/api/v1/playlist/p-1", nil)))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"get-playlist", "p-1"}, e.social.calls)

	rec = e.do(auth(httptest.NewRequest(http.MethodGet, "/api/v1/playlist/user/u-7", nil)))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"user-playlists", "u-7"}, e.social.calls)

	rec = e.do(auth(jsonRequest(http.MethodPatch, "/api/v1/playlist/p-1", map[string]string{"name": "Renamed"})))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"update-playlist", "u-1", "p-1"}, e.social.calls)

	rec = e.do(auth(httptest.NewRequest(http.MethodPatch, "/api/v1/playlist/add/v-5/p-1", nil)))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"add", "u-1", "p-1", "v-5"}, e.social.calls)

	rec = e.do(auth(httptest.NewRequest(http.MethodPatch, "/api/v1/playlist/remove/v-5/p-1", nil)))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"remove", "u-1", "p-1", "v-5"}, e.social.calls)

	rec = e.do(auth(httptest.NewRequest(http.MethodDelete, "/api/v1/playlist/p-1", nil)))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"delete-playlist", "u-1", "p-1"}, e.social.calls)

	rec = e.do(auth(jsonRequest(http.MethodPost, "/api/v1/playlist", nil)))
	assert.Equal(t, http.StatusBadRequest, rec.Code, "empty body")
}

func TestPlaylistConflictKeepsMessage(t *testing.T) {
	e := newEnv(t)
	e.social.err = common.ErrAlreadyExists

	rec := e.do(withBearer(httptest.NewRequest(http.MethodPatch, "/api/v1/playlist/add/v-5/p-1", nil), "good-token"))
	assert.Equal(t, http.StatusConflict, rec.Code)

	e.social.err = wrapConflict("video is already in the playlist")
	rec = e.do(withBearer(httptest.NewRequest(http.MethodPatch, "/api/v1/playlist/add/v-5/p-1", nil), "good-token"))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, decode(t, rec).Message, "already in the playlist")

	e.social.err = common.ErrForbidden
	rec = e.do(withBearer(httptest.NewRequest(http.MethodDelete, "/api/v1/playlist/p-1", nil), "good-token"))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestTweetRoutes(t *testing.T) {
	e := newEnv(t)
	auth := func(r *http.Request) *http.Request { return withBearer(r, "good-token") }

	rec := e.do(auth(jsonRequest(http.MethodPost, "/api/v1/tweets", map[string]string{"content": "hi"})))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, []string{"tweet", "u-1", "hi"}, e.social.calls)

	rec = e.do(auth(httptest.NewRequest(http.MethodGet, "/api/v1/tweets/user/u-2", nil)))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"user-tweets", "u-2"}, e.social.calls)

	rec = e.do(auth(jsonRequest(http.MethodPatch, "/api/v1/tweets/t-1", map[string]string{"content": "edited"})))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"update-tweet", "u-1", "t-1", "edited"}, e.social.calls)

	rec = e.do(auth(httptest.NewRequest(http.MethodDelete, "/api/v1/tweets/t-1", nil)))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"delete-tweet", "u-1", "t-1"}, e.social.calls)
}

func TestDashboardRoutes(t *testing.T) {
	e := newEnv(t)

	rec := e.do(withBearer(httptest.NewRequest(http.MethodGet, "/api/v1/dashboard/stats", nil), "good-token"))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, []string{"stats", "u-1"}, e.social.calls)
	var stats models.ChannelStats
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &stats))
	assert.Equal(t, int64(3), stats.TotalVideos)

	rec = e.do(withBearer(httptest.NewRequest(http.MethodGet, "/api/v1/dashboard/videos?sortBy=title&limit=4", nil), "good-token"))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, services.ListInput{SortBy: "title", Limit: 4}, e.social.input)

	rec = e.do(httptest.NewRequest(http.MethodGet, "/api/v1/dashboard/stats", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
