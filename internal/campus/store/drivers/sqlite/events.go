package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/campushub/campushub/internal/campus/domain"
	"github.com/campushub/campushub/internal/campus/store"
)

type eventsRepo struct {
	q dbtx
}

const eventColumns = `id, title, description, category, venue, society_id, organizer_id, status,
	start_at, end_at, registration_open, registration_start_at, registration_end_at,
	team_event, min_team_size, max_team_size, max_teams, form_fields, created_at, updated_at`

func (r *eventsRepo) CreateEvent(ctx context.Context, e domain.Event) error {
	fields, err := json.Marshal(e.Fields)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	_, err = r.q.ExecContext(ctx, `
		INSERT INTO events (id, title, description, category, venue, society_id, organizer_id, status,
			start_at, end_at, registration_open, registration_start_at, registration_end_at,
			team_event, min_team_size, max_team_size, max_teams, form_fields, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Title, e.Description, e.Category, e.Venue, mapStringNull(e.SocietyID),
		e.OrganizerID, string(e.Status), e.StartAt, e.EndAt,
		e.RegistrationOpen, e.RegistrationStartAt, e.RegistrationEndAt,
		e.TeamEvent, e.MinTeamSize, e.MaxTeamSize, e.MaxTeams, string(fields), now, now,
	)
	return mapConstraint(err)
}

func (r *eventsRepo) GetEventByID(ctx context.Context, id string) (domain.Event, error) {
	row := r.q.QueryRowContext(ctx, `SELECT `+eventColumns+` FROM events WHERE id = ?`, id)
	return scanEvent(row)
}

func (r *eventsRepo) ListEvents(ctx context.Context, f store.EventFilter) ([]domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE 1=1`
	var args []any

	if f.Status != "" {
		query += ` AND status = ?`
		args = append(args, string(f.Status))
	}
	if f.Category != "" {
		query += ` AND category = ?`
		args = append(args, f.Category)
	}
	if f.SocietyID != "" {
		query += ` AND society_id = ?`
		args = append(args, f.SocietyID)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.q.QueryContext(ctx, query, args...)
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

func (r *eventsRepo) UpdateEvent(ctx context.Context, e domain.Event) error {
	fields, err := json.Marshal(e.Fields)
	if err != nil {
		return err
	}

	_, err = r.q.ExecContext(ctx, `
		UPDATE events
		SET title = ?, description = ?, category = ?, venue = ?, society_id = ?, organizer_id = ?,
			start_at = ?, end_at = ?, registration_open = ?, registration_start_at = ?, registration_end_at = ?,
			team_event = ?, min_team_size = ?, max_team_size = ?, max_teams = ?, form_fields = ?, updated_at = ?
		WHERE id = ?`,
		e.Title, e.Description, e.Category, e.Venue, mapStringNull(e.SocietyID), e.OrganizerID,
		e.StartAt, e.EndAt, e.RegistrationOpen, e.RegistrationStartAt, e.RegistrationEndAt,
		e.TeamEvent, e.MinTeamSize, e.MaxTeamSize, e.MaxTeams, string(fields), time.Now().UTC(), e.ID,
	)
	return err
}

func (r *eventsRepo) UpdateEventStatus(ctx context.Context, eventID string, status domain.EventStatus) error {
	_, err := r.q.ExecContext(ctx, `
		UPDATE events SET status = ?, updated_at = ? WHERE id = ?`,
		string(status), time.Now().UTC(), eventID,
	)
	return err
}

func (r *eventsRepo) ListEventsDue(ctx context.Context, status domain.EventStatus, now time.Time) ([]domain.Event, error) {
	// published events are due once their start has passed; ongoing
	// events once their end has passed.
	cutoff := `start_at`
	if status == domain.EventOngoing {
		cutoff = `end_at`
	}

	rows, err := r.q.QueryContext(ctx,
		`SELECT `+eventColumns+` FROM events WHERE status = ? AND `+cutoff+` <= ?`,
		string(status), now,
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

func scanEvent(row rowScanner) (domain.Event, error) {
	var (
		e       domain.Event
		society sql.NullString
		status  string
		fields  string
	)
	err := row.Scan(
		&e.ID, &e.Title, &e.Description, &e.Category, &e.Venue, &society,
		&e.OrganizerID, &status, &e.StartAt, &e.EndAt,
		&e.RegistrationOpen, &e.RegistrationStartAt, &e.RegistrationEndAt,
		&e.TeamEvent, &e.MinTeamSize, &e.MaxTeamSize, &e.MaxTeams,
		&fields, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return domain.Event{}, mapNotFound(err)
	}

	e.SocietyID = mapNullString(society)
	e.Status = domain.EventStatus(status)

	if err := json.Unmarshal([]byte(fields), &e.Fields); err != nil {
		return domain.Event{}, err
	}
	return e, nil
}
