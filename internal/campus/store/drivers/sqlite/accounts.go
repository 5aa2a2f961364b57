package sqlite

import (
	"context"
	"time"

	"github.com/campushub/campushub/internal/campus/domain"
)

type accountsRepo struct {
	q dbtx
}

const accountColumns = `id, name, email, password_hash, role, phone, department, year, created_at, updated_at`

func (r *accountsRepo) CreateAccount(ctx context.Context, a domain.Account) error {
	now := time.Now().UTC()
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO accounts (id, name, email, password_hash, role, phone, department, year, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.Name, a.Email, a.PasswordHash, string(a.Role), a.Phone, a.Department, a.Year, now, now,
	)
	return mapConstraint(err)
}

func (r *accountsRepo) GetAccountByID(ctx context.Context, id string) (domain.Account, error) {
	row := r.q.QueryRowContext(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = ?`, id)
	return scanAccount(row)
}

func (r *accountsRepo) GetAccountByEmail(ctx context.Context, email string) (domain.Account, error) {
	row := r.q.QueryRowContext(ctx, `SELECT `+accountColumns+` FROM accounts WHERE email = ?`, email)
	return scanAccount(row)
}

func (r *accountsRepo) UpdateProfile(ctx context.Context, a domain.Account) error {
	_, err := r.q.ExecContext(ctx, `
		UPDATE accounts
		SET name = ?, email = ?, phone = ?, department = ?, year = ?, updated_at = ?
		WHERE id = ?`,
		a.Name, a.Email, a.Phone, a.Department, a.Year, time.Now().UTC(), a.ID,
	)
	return mapConstraint(err)
}

func (r *accountsRepo) UpdateRole(ctx context.Context, accountID string, role domain.Role) error {
	_, err := r.q.ExecContext(ctx, `
		UPDATE accounts SET role = ?, updated_at = ? WHERE id = ?`,
		string(role), time.Now().UTC(), accountID,
	)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner) (domain.Account, error) {
	var a domain.Account
	var role string
	err := row.Scan(
		&a.ID, &a.Name, &a.Email, &a.PasswordHash, &role,
		&a.Phone, &a.Department, &a.Year, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return domain.Account{}, mapNotFound(err)
	}
	a.Role = domain.Role(role)
	return a, nil
}
