package refreshtokens

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/vidstream/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func TestSet(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`^UPDATE\s+users\s+SET\s+refresh_token\s*=\s*NULLIF\(\$2,\s*''\)`).
		WithArgs("u1", "tok").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Set(context.Background(), "u1", "tok"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSet_UnknownUser(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`^UPDATE\s+users`).WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, repo.Set(context.Background(), "ghost", "tok"), common.ErrorNotFound)
}

func TestSet_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`^UPDATE\s+users`).WillReturnError(errors.New("conn reset"))

	err := repo.Set(context.Background(), "u1", "tok")
	assert.ErrorIs(t, err, common.ErrStorageFailure)
}

func TestGet(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(sqlmock.Sqlmock)
		want    string
		wantErr error
	}{
		{
			name: "present",
			setup: func(m sqlmock.Sqlmock) {
				m.ExpectQuery(`^SELECT\s+COALESCE\(refresh_token,\s*''\)\s+FROM\s+users\s+WHERE\s+id\s*=\s*\$1$`).
					WithArgs("u1").
					WillReturnRows(sqlmock.NewRows([]string{"refresh_token"}).AddRow("tok"))
			},
			want: "tok",
		},
		{
			name: "empty session",
			setup: func(m sqlmock.Sqlmock) {
				m.ExpectQuery(`^SELECT`).
					WithArgs("u1").
					WillReturnRows(sqlmock.NewRows([]string{"refresh_token"}).AddRow(""))
			},
			want: "",
		},
		{
			name: "unknown user",
			setup: func(m sqlmock.Sqlmock) {
				m.ExpectQuery(`^SELECT`).WithArgs("u1").WillReturnError(sql.ErrNoRows)
			},
			wantErr: common.ErrorNotFound,
		},
		{
			name: "db error",
			setup: func(m sqlmock.Sqlmock) {
				m.ExpectQuery(`^SELECT`).WithArgs("u1").WillReturnError(errors.New("boom"))
			},
			wantErr: common.ErrStorageFailure,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, db := newRepoWithMock(t)
			defer db.Close()
			tt.setup(mock)

			got, err := repo.Get(context.Background(), "u1")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClear_Idempotent(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`^UPDATE\s+users\s+SET\s+refresh_token\s*=\s*NULL,`).
		WithArgs("u1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`^UPDATE\s+users\s+SET\s+refresh_token\s*=\s*NULL,`).
		WithArgs("u1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.Clear(context.Background(), "u1"))
	require.NoError(t, repo.Clear(context.Background(), "u1"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCompareAndSwap(t *testing.T) {
	const q = `(?s)^UPDATE\s+users\s+SET\s+refresh_token\s*=\s*NULLIF\(\$3,\s*''\).*WHERE\s+id\s*=\s*\$1\s+AND\s+refresh_token\s*=\s*\$2$`

	t.Run("swapped", func(t *testing.T) {
		repo, mock, db := newRepoWithMock(t)
		defer db.Close()
		mock.ExpectExec(q).WithArgs("u1", "old", "new").WillReturnResult(sqlmock.NewResult(0, 1))

		ok, err := repo.CompareAndSwap(context.Background(), "u1", "old", "new")
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("stale", func(t *testing.T) {
		repo, mock, db := newRepoWithMock(t)
		defer db.Close()
		mock.ExpectExec(q).WithArgs("u1", "old", "new").WillReturnResult(sqlmock.NewResult(0, 0))

		ok, err := repo.CompareAndSwap(context.Background(), "u1", "old", "new")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("empty expected never matches", func(t *testing.T) {
		repo, mock, db := newRepoWithMock(t)
		defer db.Close()

		ok, err := repo.CompareAndSwap(context.Background(), "u1", "", "new")
		require.NoError(t, err)
		assert.False(t, ok)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("db error", func(t *testing.T) {
		repo, mock, db := newRepoWithMock(t)
		defer db.Close()
		mock.ExpectExec(q).WillReturnError(errors.New("boom"))

		_, err := repo.CompareAndSwap(context.Background(), "u1", "old", "new")
		assert.ErrorIs(t, err, common.ErrStorageFailure)
	})
}
