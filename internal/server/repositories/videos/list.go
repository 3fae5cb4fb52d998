package videos

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/vidstream/internal/common"
	"github.com/dmitrijs2005/vidstream/internal/server/models"
)

type SortField string

const (
	SortCreatedAt SortField = "createdAt"
	SortViews     SortField = "views"
	SortDuration  SortField = "duration"
	SortTitle     SortField = "title"
)

var sortColumns = map[SortField]string{
	SortCreatedAt: "v.created_at",
	SortViews:     "v.views",
	SortDuration:  "v.duration_seconds",
	SortTitle:     "v.title",
}

// ValidSort reports whether f names a sortable column.
func ValidSort(f SortField) bool {
	_, ok := sortColumns[f]
	return ok
}

// ListQuery filters and orders a listing. Search matches title or
// description case-insensitively. An unknown Sort falls back to creation time.
type ListQuery struct {
	Search        string
	OwnerID       string
	PublishedOnly bool
	Sort          SortField
	Ascending     bool
	Limit         int
	Offset        int
}

// OwnerColumns selects a video joined with its owner (aliases v and u) in
// the order ScanWithOwner expects.
const OwnerColumns = `v.id, v.owner_id, v.title, v.description, v.video_url, v.video_key,
		v.thumbnail_url, v.thumbnail_key, v.duration_seconds, v.views, v.is_published,
		v.created_at, v.updated_at, u.username, u.full_name, u.avatar_url`

type rowScanner interface {
	Scan(dest ...any) error
}

// ScanWithOwner reads one OwnerColumns row; extra receives any trailing columns.
func ScanWithOwner(row rowScanner, extra ...any) (*models.Video, error) {
	v := &models.Video{Owner: &models.UserSummary{}}
	dest := []any{
		&v.ID, &v.OwnerID, &v.Title, &v.Description, &v.VideoURL, &v.VideoKey,
		&v.ThumbnailURL, &v.ThumbnailKey, &v.DurationSeconds, &v.Views, &v.IsPublished,
		&v.CreatedAt, &v.UpdatedAt, &v.Owner.UserName, &v.Owner.FullName, &v.Owner.AvatarURL,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	v.Owner.ID = v.OwnerID
	return v, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// List returns one page of matching videos and the number of all matches.
// A page past the end yields no rows and a zero total.
func (r *PostgresRepository) List(ctx context.Context, q ListQuery) ([]*models.Video, int64, error) {
	var (
		where []string
		args  []any
	)
	if q.PublishedOnly {
		where = append(where, "v.is_published")
	}
	if q.OwnerID != "" {
		args = append(args, q.OwnerID)
		where = append(where, fmt.Sprintf("v.owner_id = $%d", len(args)))
	}
	if q.Search != "" {
		args = append(args, "%"+likeEscaper.Replace(q.Search)+"%")
		where = append(where, fmt.Sprintf("(v.title ILIKE $%[1]d OR v.description ILIKE $%[1]d)", len(args)))
	}

	column, ok := sortColumns[q.Sort]
	if !ok {
		column = sortColumns[SortCreatedAt]
	}
	direction := "DESC"
	if q.Ascending {
		direction = "ASC"
	}

	var b strings.Builder
	b.WriteString("SELECT " + OwnerColumns + ", COUNT(*) OVER()\n\t\tFROM videos v JOIN users u ON u.id = v.owner_id")
	if len(where) > 0 {
		b.WriteString("\n\t\tWHERE " + strings.Join(where, " AND "))
	}
	args = append(args, q.Limit, q.Offset)
	fmt.Fprintf(&b, "\n\t\tORDER BY %s %s, v.id %s\n\t\tLIMIT $%d OFFSET $%d", column, direction, direction, len(args)-1, len(args))

	rows, err := r.db.QueryContext(ctx, b.String(), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("db error: %w", common.StorageError(err))
	}
	defer rows.Close()

	var (
		out   []*models.Video
		total int64
	)
	for rows.Next() {
		v, err := ScanWithOwner(rows, &total)
		if err != nil {
			return nil, 0, fmt.Errorf("db error: %w", common.StorageError(err))
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("db error: %w", common.StorageError(err))
	}
	return out, total, nil
}
