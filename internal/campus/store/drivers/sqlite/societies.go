package sqlite

import (
	"context"
	"time"

	"github.com/campushub/campushub/internal/campus/domain"
)

type societiesRepo struct {
	q dbtx
}

const societyColumns = `id, name, head_id, contact_email, description, active, created_at, updated_at`

func (r *societiesRepo) CreateSociety(ctx context.Context, s domain.Society) error {
	now := time.Now().UTC()
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO societies (id, name, head_id, contact_email, description, active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		s.ID, s.Name, s.HeadID, s.ContactEmail, s.Description, s.Active, now, now,
	)
	return mapConstraint(err)
}

func (r *societiesRepo) GetSocietyByID(ctx context.Context, id string) (domain.Society, error) {
	row := r.q.QueryRowContext(ctx, `SELECT `+societyColumns+` FROM societies WHERE id = ?`, id)
	return scanSociety(row)
}

func (r *societiesRepo) ListSocieties(ctx context.Context) ([]domain.Society, error) {
	rows, err := r.q.QueryContext(ctx, `SELECT `+societyColumns+` FROM societies ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Society
	for rows.Next() {
		s, err := scanSociety(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *societiesRepo) UpdateSociety(ctx context.Context, s domain.Society) error {
	_, err := r.q.ExecContext(ctx, `
		UPDATE societies
		SET contact_email = ?, description = ?, active = ?, updated_at = ?
		WHERE id = ?`,
		s.ContactEmail, s.Description, s.Active, time.Now().UTC(), s.ID,
	)
	return err
}

func scanSociety(row rowScanner) (domain.Society, error) {
	var s domain.Society
	err := row.Scan(
		&s.ID, &s.Name, &s.HeadID, &s.ContactEmail, &s.Description,
		&s.Active, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return domain.Society{}, mapNotFound(err)
	}
	return s, nil
}
