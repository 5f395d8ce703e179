package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/JGonCor/lottery-platform-sub001/domain/entities"
	"github.com/JGonCor/lottery-platform-sub001/domain/interfaces"
	"github.com/JGonCor/lottery-platform-sub001/domain/services"

	"github.com/jackc/pgx/v5/pgconn"
)

// ReferralRepository implements referral bookkeeping. One referrer per
// account, enforced by the primary key.
type ReferralRepository struct {
	q Queryable
}

func newReferralRepository(tx Queryable) interfaces.ReferralRepository {
	return &ReferralRepository{q: tx}
}

// NewReferralRepository creates a referral repository over the given connection
func NewReferralRepository(q Queryable) interfaces.ReferralRepository {
	return &ReferralRepository{q: q}
}

// Create registers a referral; ErrReferralExists if the account already has
// a referrer
func (r *ReferralRepository) Create(ctx context.Context, referral *entities.Referral) error {
	err := r.q.QueryRow(ctx, `
		INSERT INTO referrals (account, referrer)
		VALUES ($1, $2)
		RETURNING created_at`,
		referral.Account, referral.Referrer).Scan(&referral.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return services.ErrReferralExists
		}
		return fmt.Errorf("failed to create referral for %s: %w", referral.Account, err)
	}
	return nil
}

// GetByAccount returns an account's referral record, nil if none
func (r *ReferralRepository) GetByAccount(ctx context.Context, account string) (*entities.Referral, error) {
	var referral entities.Referral
	err := r.q.QueryRow(ctx, `
		SELECT account, referrer, created_at
		FROM referrals
		WHERE account = $1`, account).Scan(
		&referral.Account,
		&referral.Referrer,
		&referral.CreatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get referral for %s: %w", account, err)
	}
	return &referral, nil
}
