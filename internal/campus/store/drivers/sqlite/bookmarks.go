package sqlite

import (
	"context"
	"time"

	"github.com/campushub/campushub/internal/campus/domain"
)

type bookmarksRepo struct {
	q dbtx
}

func (r *bookmarksRepo) CreateBookmark(ctx context.Context, b domain.Bookmark) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO bookmarks (id, account_id, event_id, created_at)
		VALUES (?, ?, ?, ?)`,
		b.ID, b.AccountID, b.EventID, time.Now().UTC(),
	)
	return mapConstraint(err)
}

func (r *bookmarksRepo) DeleteBookmark(ctx context.Context, accountID, eventID string) error {
	res, err := r.q.ExecContext(ctx,
		`DELETE FROM bookmarks WHERE account_id = ? AND event_id = ?`,
		accountID, eventID,
	)
	if err != nil {
		return err
	}
	return requireRowsAffected(res)
}

func (r *bookmarksRepo) HasBookmark(ctx context.Context, accountID, eventID string) (bool, error) {
	var n int
	err := r.q.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM bookmarks WHERE account_id = ? AND event_id = ?`,
		accountID, eventID,
	).Scan(&n)
	return n > 0, err
}

func (r *bookmarksRepo) ListBookmarkedEvents(ctx context.Context, accountID string) ([]domain.Event, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT e.id, e.title, e.description, e.category, e.venue, e.society_id, e.organizer_id, e.status,
			e.start_at, e.end_at, e.registration_open, e.registration_start_at, e.registration_end_at,
			e.team_event, e.min_team_size, e.max_team_size, e.max_teams, e.form_fields, e.created_at, e.updated_at
		FROM bookmarks b
		JOIN events e ON e.id = b.event_id
		WHERE b.account_id = ?
		ORDER BY b.created_at DESC`,
		accountID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
