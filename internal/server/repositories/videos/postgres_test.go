package videos

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/vidstream/internal/common"
	"github.com/dmitrijs2005/vidstream/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var videoCols = []string{"id", "owner_id", "title", "description", "video_url", "video_key",
	"thumbnail_url", "thumbnail_key", "duration_seconds", "views", "is_published", "created_at", "updated_at"}

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(`(?s)^INSERT\s+INTO\s+videos\b.*RETURNING\s+views,\s*created_at,\s*updated_at$`).
		WithArgs("v1", "u1", "Intro", "desc", "http://v", "videos/v", "http://t", "thumbs/t", 12.5, false).
		WillReturnRows(sqlmock.NewRows([]string{"views", "created_at", "updated_at"}).AddRow(int64(0), now, now))

	v := &models.Video{
		ID: "v1", OwnerID: "u1", Title: "Intro", Description: "desc",
		VideoURL: "http://v", VideoKey: "videos/v", ThumbnailURL: "http://t", ThumbnailKey: "thumbs/t",
		DurationSeconds: 12.5,
	}
	got, err := repo.Create(context.Background(), v)
	require.NoError(t, err)
	assert.Equal(t, now, got.CreatedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)^INSERT\s+INTO\s+videos`).WillReturnError(errors.New("fk violation"))

	_, err := repo.Create(context.Background(), &models.Video{ID: "v1"})
	assert.ErrorIs(t, err, common.ErrStorageFailure)
}

func TestFindByID(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(`(?s)^SELECT\s+id,\s*owner_id,.*FROM\s+videos\s+WHERE\s+id\s*=\s*\$1$`).
		WithArgs("v1").
		WillReturnRows(sqlmock.NewRows(videoCols).
			AddRow("v1", "u1", "Intro", "", "http://v", "videos/v", "", "", 3.0, int64(7), true, now, now))

	got, err := repo.FindByID(context.Background(), "v1")
	require.NoError(t, err)
	assert.Equal(t, "u1", got.OwnerID)
	assert.Equal(t, int64(7), got.Views)
	assert.True(t, got.IsPublished)
}

func TestFindByID_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)^SELECT.*FROM\s+videos`).WithArgs("nope").WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByID(context.Background(), "nope")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestUpdate(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(`(?s)^UPDATE\s+videos\s+SET\s+title\s*=\s*\$2,.*RETURNING\s+updated_at$`).
		WithArgs("v1", "New", "d", "http://t2", "thumbs/t2").
		WillReturnRows(sqlmock.NewRows([]string{"updated_at"}).AddRow(now))

	got, err := repo.Update(context.Background(), &models.Video{
		ID: "v1", Title: "New", Description: "d", ThumbnailURL: "http://t2", ThumbnailKey: "thumbs/t2",
	})
	require.NoError(t, err)
	assert.Equal(t, now, got.UpdatedAt)
}

func TestUpdate_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)^UPDATE\s+videos`).WillReturnError(sql.ErrNoRows)

	_, err := repo.Update(context.Background(), &models.Video{ID: "v1"})
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestSetPublishedAndDelete(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`^UPDATE\s+videos\s+SET\s+is_published\s*=\s*\$2`).
		WithArgs("v1", true).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`^DELETE\s+FROM\s+videos\s+WHERE\s+id\s*=\s*\$1$`).
		WithArgs("v1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`^DELETE\s+FROM\s+videos`).
		WithArgs("v1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.SetPublished(context.Background(), "v1", true))
	require.NoError(t, repo.Delete(context.Background(), "v1"))
	assert.ErrorIs(t, repo.Delete(context.Background(), "v1"), common.ErrorNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}
