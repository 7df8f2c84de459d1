package storage

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/lfmartins/cltcalc/libs/db"
)

type Account struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
}

type AccountRepository struct {
	pool *db.Pool
}

func NewAccountRepository(pool *db.Pool) *AccountRepository {
	return &AccountRepository{pool: pool}
}

func (r *AccountRepository) Create(ctx context.Context, account Account) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO accounts (id, email, name, password_hash)
		VALUES ($1, $2, $3, $4)
	`, account.ID, account.Email, account.Name, account.PasswordHash)
	return err
}

func (r *AccountRepository) GetByEmail(ctx context.Context, email string) (Account, error) {
	var account Account
	err := r.pool.QueryRow(ctx, `
		SELECT id::text, email, name, password_hash
		FROM accounts
		WHERE email = $1
	`, email).Scan(&account.ID, &account.Email, &account.Name, &account.PasswordHash)
	if err != nil {
		return Account{}, err
	}
	return account, nil
}

func (r *AccountRepository) GetByID(ctx context.Context, id string) (Account, error) {
	var account Account
	err := r.pool.QueryRow(ctx, `
		SELECT id::text, email, name, password_hash
		FROM accounts
		WHERE id = $1
	`, id).Scan(&account.ID, &account.Email, &account.Name, &account.PasswordHash)
	if err != nil {
		return Account{}, err
	}
	return account, nil
}

func IsNotFound(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
