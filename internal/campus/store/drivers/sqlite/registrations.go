package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/campushub/campushub/internal/campus/domain"
	"github.com/campushub/campushub/internal/campus/store"
)

type registrationsRepo struct {
	q dbtx
}

const registrationColumns = `id, event_id, leader_id, team_event, team_name, status, created_at, updated_at`

func (r *registrationsRepo) CreateRegistration(ctx context.Context, reg domain.Registration) error {
	now := time.Now().UTC()
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO registrations (id, event_id, leader_id, team_event, team_name, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		reg.ID, reg.EventID, reg.LeaderID, reg.TeamEvent, reg.TeamName, string(reg.Status), now, now,
	)
	if err != nil {
		return mapConstraint(err)
	}

	for _, m := range reg.Members {
		if err := r.insertMember(ctx, reg.ID, m); err != nil {
			return err
		}
	}
	for _, a := range reg.Answers {
		if err := r.insertAnswer(ctx, reg.ID, a); err != nil {
			return err
		}
	}
	return nil
}

func (r *registrationsRepo) insertMember(ctx context.Context, registrationID string, m domain.Member) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO registration_members (id, registration_id, account_id, email, name, member_role,
			invite_status, position, invited_at, responded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID, registrationID, mapStringNull(m.Ref.AccountID), m.Ref.Email, m.Ref.Name,
		string(m.Role), string(m.InviteStatus), m.Position, m.InvitedAt, mapOptionalTime(m.RespondedAt),
	)
	return err
}

func (r *registrationsRepo) insertAnswer(ctx context.Context, registrationID string, a domain.Answer) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO registration_answers (registration_id, field_id, label, kind,
			text_value, number_value, date_value, position)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		registrationID, a.FieldID, a.Label, string(a.Kind),
		mapStringNull(a.Text), mapOptionalFloat(a.Number), mapOptionalTime(a.Date), a.Position,
	)
	return err
}

func (r *registrationsRepo) GetRegistrationByID(ctx context.Context, id string) (domain.Registration, error) {
	row := r.q.QueryRowContext(ctx, `SELECT `+registrationColumns+` FROM registrations WHERE id = ?`, id)
	reg, err := scanRegistration(row)
	if err != nil {
		return domain.Registration{}, err
	}
	return r.loadSubRecords(ctx, reg)
}

func (r *registrationsRepo) GetRegistrationByEventAndLeader(ctx context.Context, eventID, leaderID string) (domain.Registration, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT `+registrationColumns+` FROM registrations WHERE event_id = ? AND leader_id = ?`,
		eventID, leaderID,
	)
	reg, err := scanRegistration(row)
	if err != nil {
		return domain.Registration{}, err
	}
	return r.loadSubRecords(ctx, reg)
}

func (r *registrationsRepo) CountActiveByEvent(ctx context.Context, eventID string) (int, error) {
	var n int
	err := r.q.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM registrations
		WHERE event_id = ? AND status IN ('pending', 'confirmed')`,
		eventID,
	).Scan(&n)
	return n, err
}

func (r *registrationsRepo) ListRegistrations(ctx context.Context, f store.RegistrationFilter) ([]domain.Registration, error) {
	query := `SELECT ` + registrationColumns + ` FROM registrations WHERE 1=1`
	var args []any

	if f.EventID != "" {
		query += ` AND event_id = ?`
		args = append(args, f.EventID)
	}
	if f.Status != "" {
		query += ` AND status = ?`
		args = append(args, string(f.Status))
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Registration
	for rows.Next() {
		reg, err := scanRegistration(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, reg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Sub-records are loaded after the parent cursor is fully drained;
	// interleaving queries on one cursor trips up the driver.
	for i := range out {
		out[i], err = r.loadSubRecords(ctx, out[i])
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (r *registrationsRepo) UpdateRegistrationStatus(ctx context.Context, registrationID string, status domain.RegistrationStatus) error {
	_, err := r.q.ExecContext(ctx, `
		UPDATE registrations SET status = ?, updated_at = ? WHERE id = ?`,
		string(status), time.Now().UTC(), registrationID,
	)
	return err
}

func (r *registrationsRepo) AddMember(ctx context.Context, registrationID string, m domain.Member) error {
	return r.insertMember(ctx, registrationID, m)
}

func (r *registrationsRepo) UpdateMemberInviteStatus(ctx context.Context, memberID string, status domain.InviteStatus, respondedAt time.Time) error {
	res, err := r.q.ExecContext(ctx, `
		UPDATE registration_members SET invite_status = ?, responded_at = ? WHERE id = ?`,
		string(status), respondedAt, memberID,
	)
	if err != nil {
		return err
	}
	return requireRowsAffected(res)
}

func (r *registrationsRepo) RemoveMember(ctx context.Context, memberID string) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM registration_members WHERE id = ?`, memberID)
	if err != nil {
		return err
	}
	return requireRowsAffected(res)
}

func requireRowsAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *registrationsRepo) loadSubRecords(ctx context.Context, reg domain.Registration) (domain.Registration, error) {
	members, err := r.listMembers(ctx, reg.ID)
	if err != nil {
		return domain.Registration{}, err
	}
	reg.Members = members

	answers, err := r.listAnswers(ctx, reg.ID)
	if err != nil {
		return domain.Registration{}, err
	}
	reg.Answers = answers

	return reg, nil
}

func (r *registrationsRepo) listMembers(ctx context.Context, registrationID string) ([]domain.Member, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT id, account_id, email, name, member_role, invite_status, position, invited_at, responded_at
		FROM registration_members
		WHERE registration_id = ?
		ORDER BY position`,
		registrationID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Member
	for rows.Next() {
		var (
			m         domain.Member
			accountID sql.NullString
			role      string
			status    string
			responded sql.NullTime
		)
		err := rows.Scan(
			&m.ID, &accountID, &m.Ref.Email, &m.Ref.Name,
			&role, &status, &m.Position, &m.InvitedAt, &responded,
		)
		if err != nil {
			return nil, err
		}
		m.Ref.AccountID = mapNullString(accountID)
		m.Role = domain.MemberRole(role)
		m.InviteStatus = domain.InviteStatus(status)
		m.RespondedAt = mapNullTimePtr(responded)
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *registrationsRepo) listAnswers(ctx context.Context, registrationID string) ([]domain.Answer, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT field_id, label, kind, text_value, number_value, date_value, position
		FROM registration_answers
		WHERE registration_id = ?
		ORDER BY position`,
		registrationID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Answer
	for rows.Next() {
		var (
			a      domain.Answer
			kind   string
			text   sql.NullString
			number sql.NullFloat64
			date   sql.NullTime
		)
		err := rows.Scan(&a.FieldID, &a.Label, &kind, &text, &number, &date, &a.Position)
		if err != nil {
			return nil, err
		}
		a.Kind = domain.FieldKind(kind)
		a.Text = mapNullString(text)
		a.Number = mapNullFloatPtr(number)
		a.Date = mapNullTimePtr(date)
		out = append(out, a)
	}
	return out, rows.Err()
}

func scanRegistration(row rowScanner) (domain.Registration, error) {
	var (
		reg    domain.Registration
		status string
	)
	err := row.Scan(
		&reg.ID, &reg.EventID, &reg.LeaderID, &reg.TeamEvent,
		&reg.TeamName, &status, &reg.CreatedAt, &reg.UpdatedAt,
	)
	if err != nil {
		return domain.Registration{}, mapNotFound(err)
	}
	reg.Status = domain.RegistrationStatus(status)
	return reg, nil
}
