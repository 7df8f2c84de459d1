package storage

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/lfmartins/cltcalc/libs/db"
	"github.com/lfmartins/cltcalc/services/calc-service/internal/entitlement"
)

// ProfileRepository owns the usage_profiles table, the only shared mutable
// state of the entitlement gate. The billing service flips is_pro on the same
// table; this repository never writes that column.
type ProfileRepository struct {
	pool *db.Pool
}

func NewProfileRepository(pool *db.Pool) *ProfileRepository {
	return &ProfileRepository{pool: pool}
}

func (r *ProfileRepository) Ensure(ctx context.Context, accountID string) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO usage_profiles (account_id)
		VALUES ($1)
		ON CONFLICT (account_id) DO NOTHING
	`, accountID)
	return err
}

func (r *ProfileRepository) Get(ctx context.Context, accountID string) (entitlement.Profile, bool, error) {
	var p entitlement.Profile
	var proSince *time.Time
	err := r.pool.QueryRow(ctx, `
		SELECT account_id::text, is_pro, calc_count, assistant_count, pro_since, updated_at
		FROM usage_profiles
		WHERE account_id = $1
	`, accountID).Scan(&p.AccountID, &p.IsPro, &p.CalcCount, &p.AssistantCount, &proSince, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return entitlement.Profile{}, false, nil
		}
		return entitlement.Profile{}, false, err
	}
	p.ProSince = proSince
	return p, true, nil
}

// IncrementCalc is the single atomic consumption primitive: the increment
// applies only while the account is not PRO and under the limit, so two
// concurrent consumers can never both observe the same count and overwrite
// each other.
func (r *ProfileRepository) IncrementCalc(ctx context.Context, accountID string, limit int) (int, bool, error) {
	return r.conditionalIncrement(ctx, accountID, limit, `
		UPDATE usage_profiles
		SET calc_count = calc_count + 1, updated_at = now()
		WHERE account_id = $1 AND NOT is_pro AND calc_count < $2
		RETURNING calc_count
	`)
}

func (r *ProfileRepository) IncrementAssistant(ctx context.Context, accountID string, limit int) (int, bool, error) {
	return r.conditionalIncrement(ctx, accountID, limit, `
		UPDATE usage_profiles
		SET assistant_count = assistant_count + 1, updated_at = now()
		WHERE account_id = $1 AND NOT is_pro AND assistant_count < $2
		RETURNING assistant_count
	`)
}

func (r *ProfileRepository) conditionalIncrement(ctx context.Context, accountID string, limit int, query string) (int, bool, error) {
	var newCount int
	err := r.pool.QueryRow(ctx, query, accountID, limit).Scan(&newCount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, err
	}
	return newCount, true, nil
}

var _ entitlement.ProfileStore = (*ProfileRepository)(nil)
