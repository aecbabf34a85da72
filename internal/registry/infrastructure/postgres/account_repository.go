package postgres

import (
	"context"
	"database/sql"
	"errors"

	registry "transit-registry/internal/registry/domain"
)

// AccountRepository is a Postgres implementation for accounts.
type AccountRepository struct {
	db DBTX
}

// NewAccountRepository constructs a repository.
func NewAccountRepository(db DBTX) *AccountRepository {
	return &AccountRepository{db: db}
}

// Create inserts an account.
func (r *AccountRepository) Create(ctx context.Context, account *registry.Account) error {
	if r == nil || r.db == nil {
		return errors.New("account repo: nil db")
	}
	if account == nil {
		return errors.New("account repo: nil account")
	}
	if err := account.Validate(); err != nil {
		return err
	}
	_, err := r.db.ExecContext(ctx, `
INSERT INTO accounts (id, name, email, password, role)
VALUES ($1, $2, $3, $4, $5)`,
		account.ID, account.Name, account.Email, account.PasswordHash, account.Role.Int())
	return err
}

// ByID loads an account by id, nil when absent.
func (r *AccountRepository) ByID(ctx context.Context, id string) (*registry.Account, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("account repo: nil db")
	}
	return r.scanOne(r.db.QueryRowContext(ctx, `
SELECT id, name, email, password, role
FROM accounts
WHERE id = $1
LIMIT 1`, id))
}

// ByName loads an account by display name, nil when absent.
func (r *AccountRepository) ByName(ctx context.Context, name string) (*registry.Account, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("account repo: nil db")
	}
	return r.scanOne(r.db.QueryRowContext(ctx, `
SELECT id, name, email, password, role
FROM accounts
WHERE name = $1
LIMIT 1`, name))
}

func (r *AccountRepository) scanOne(row *sql.Row) (*registry.Account, error) {
	var account registry.Account
	var role int
	if err := row.Scan(&account.ID, &account.Name, &account.Email, &account.PasswordHash, &role); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	account.Role = registry.RoleFrom(role)
	return &account, nil
}

// Exists reports whether an account with the display name is registered.
func (r *AccountRepository) Exists(ctx context.Context, name string) (bool, error) {
	if r == nil || r.db == nil {
		return false, errors.New("account repo: nil db")
	}
	var one int
	err := r.db.QueryRowContext(ctx, `SELECT 1 FROM accounts WHERE name = $1 LIMIT 1`, name).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Empty reports whether the accounts table holds no rows.
func (r *AccountRepository) Empty(ctx context.Context) (bool, error) {
	if r == nil || r.db == nil {
		return false, errors.New("account repo: nil db")
	}
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM accounts`).Scan(&count); err != nil {
		return false, err
	}
	return count == 0, nil
}

// Update replaces the mutable account fields.
func (r *AccountRepository) Update(ctx context.Context, account *registry.Account) error {
	if r == nil || r.db == nil {
		return errors.New("account repo: nil db")
	}
	if account == nil {
		return errors.New("account repo: nil account")
	}
	if err := account.Validate(); err != nil {
		return err
	}
	_, err := r.db.ExecContext(ctx, `
UPDATE accounts
SET name = $1, email = $2, password = $3, role = $4
WHERE id = $5`,
		account.Name, account.Email, account.PasswordHash, account.Role.Int(), account.ID)
	return err
}

// Delete removes an account by id.
func (r *AccountRepository) Delete(ctx context.Context, id string) error {
	if r == nil || r.db == nil {
		return errors.New("account repo: nil db")
	}
	_, err := r.db.ExecContext(ctx, `DELETE FROM accounts WHERE id = $1`, id)
	return err
}

// List returns all accounts. Password hashes are not loaded.
func (r *AccountRepository) List(ctx context.Context) ([]registry.Account, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("account repo: nil db")
	}
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, email, role FROM accounts ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []registry.Account
	for rows.Next() {
		var account registry.Account
		var role int
		if err := rows.Scan(&account.ID, &account.Name, &account.Email, &role); err != nil {
			return nil, err
		}
		account.Role = registry.RoleFrom(role)
		accounts = append(accounts, account)
	}
	return accounts, rows.Err()
}
