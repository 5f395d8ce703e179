package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/JGonCor/lottery-platform-sub001/domain/interfaces"
	"github.com/JGonCor/lottery-platform-sub001/domain/services"
	"github.com/JGonCor/lottery-platform-sub001/infrastructure/observability"
)

// ReserveAccount is the system account holding pooled stakes and backing
// prize payouts.
const ReserveAccount = "reserve"

// TreasuryRepository implements the funds transfer gateway as a balance
// ledger. Debits are guarded so a balance can never go negative; a transfer
// that cannot be covered fails and aborts the enclosing transaction.
type TreasuryRepository struct {
	q Queryable
}

func newTreasuryRepository(tx Queryable) interfaces.TreasuryRepository {
	return &TreasuryRepository{q: tx}
}

// NewTreasuryRepository creates a treasury repository over the given connection
func NewTreasuryRepository(q Queryable) interfaces.TreasuryRepository {
	return &TreasuryRepository{q: q}
}

// debit subtracts from an account, failing if the balance cannot cover it
func (r *TreasuryRepository) debit(ctx context.Context, account string, amount int64) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE treasury_accounts SET balance = balance - $2, updated_at = NOW()
		WHERE account = $1 AND balance >= $2`,
		account, amount)
	if err != nil {
		return fmt.Errorf("failed to debit account %s: %w", account, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: account %s cannot cover %d", services.ErrInsufficientFunds, account, amount)
	}
	return nil
}

// credit adds to an account, creating it on first use
func (r *TreasuryRepository) credit(ctx context.Context, account string, amount int64) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO treasury_accounts (account, balance)
		VALUES ($1, $2)
		ON CONFLICT (account) DO UPDATE
		SET balance = treasury_accounts.balance + $2, updated_at = NOW()`,
		account, amount)
	if err != nil {
		return fmt.Errorf("failed to credit account %s: %w", account, err)
	}
	return nil
}

// TransferIn moves stake from a player account into the reserve
func (r *TreasuryRepository) TransferIn(ctx context.Context, from string, amount int64) error {
	defer observability.GetMetrics().MeasureDatabaseQuery("treasury", "TransferIn")()

	if amount < 0 {
		return fmt.Errorf("transfer amount must not be negative: %d", amount)
	}
	if err := r.debit(ctx, from, amount); err != nil {
		return err
	}
	return r.credit(ctx, ReserveAccount, amount)
}

// TransferOut pays from the reserve to a player account
func (r *TreasuryRepository) TransferOut(ctx context.Context, to string, amount int64) error {
	defer observability.GetMetrics().MeasureDatabaseQuery("treasury", "TransferOut")()

	if amount < 0 {
		return fmt.Errorf("transfer amount must not be negative: %d", amount)
	}
	if err := r.debit(ctx, ReserveAccount, amount); err != nil {
		if errors.Is(err, services.ErrInsufficientFunds) {
			return fmt.Errorf("%w: reserve cannot cover payout of %d", services.ErrInsufficientReserves, amount)
		}
		return err
	}
	return r.credit(ctx, to, amount)
}

// ReserveBalance returns the reserve's current balance
func (r *TreasuryRepository) ReserveBalance(ctx context.Context) (int64, error) {
	return r.BalanceOf(ctx, ReserveAccount)
}

// BalanceOf returns an account's balance, zero for unknown accounts
func (r *TreasuryRepository) BalanceOf(ctx context.Context, account string) (int64, error) {
	var balance int64
	err := r.q.QueryRow(ctx,
		"SELECT balance FROM treasury_accounts WHERE account = $1", account).Scan(&balance)
	if err != nil {
		if isNoRows(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to get balance of %s: %w", account, err)
	}
	return balance, nil
}

// Deposit credits an account from outside the system
func (r *TreasuryRepository) Deposit(ctx context.Context, account string, amount int64) error {
	if amount <= 0 {
		return fmt.Errorf("deposit amount must be positive: %d", amount)
	}
	return r.credit(ctx, account, amount)
}
