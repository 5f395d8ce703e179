package repository

import (
	"context"
	"fmt"

	"github.com/JGonCor/lottery-platform-sub001/application"
	"github.com/JGonCor/lottery-platform-sub001/database"
	"github.com/JGonCor/lottery-platform-sub001/domain/interfaces"

	"github.com/jackc/pgx/v5"
)

// unitOfWork implements the application.UnitOfWork interface over one pgx
// transaction
type unitOfWork struct {
	db                     *database.DB
	tx                     pgx.Tx
	ctx                    context.Context
	transactionalPublisher interfaces.TransactionalEventPublisher

	ticketRepo      interfaces.TicketRepository
	drawRepo        interfaces.DrawRepository
	tierResultRepo  interfaces.TierResultRepository
	winnerRepo      interfaces.WinnerRepository
	adminActionRepo interfaces.AdminActionRepository
	stateRepo       interfaces.LotteryStateRepository
	referralRepo    interfaces.ReferralRepository
	treasuryRepo    interfaces.TreasuryRepository
}

type unitOfWorkFactory struct {
	db *database.DB
}

// NewUnitOfWorkFactory creates a new UnitOfWork factory
func NewUnitOfWorkFactory(db *database.DB) *unitOfWorkFactory {
	return &unitOfWorkFactory{
		db: db,
	}
}

// CreateWithPublisher creates a new UnitOfWork with a specific transactional publisher
func (f *unitOfWorkFactory) CreateWithPublisher(transactionalPublisher interfaces.TransactionalEventPublisher) application.UnitOfWork {
	return &unitOfWork{
		db:                     f.db,
		transactionalPublisher: transactionalPublisher,
	}
}

// Begin starts a new transaction
func (u *unitOfWork) Begin(ctx context.Context) error {
	if u.tx != nil {
		return fmt.Errorf("transaction already started")
	}

	tx, err := u.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	u.tx = tx
	u.ctx = ctx

	u.ticketRepo = newTicketRepository(tx)
	u.drawRepo = newDrawRepository(tx)
	u.tierResultRepo = newTierResultRepository(tx)
	u.winnerRepo = newWinnerRepository(tx)
	u.adminActionRepo = newAdminActionRepository(tx)
	u.stateRepo = newLotteryStateRepository(tx)
	u.referralRepo = newReferralRepository(tx)
	u.treasuryRepo = newTreasuryRepository(tx)

	return nil
}

// Commit commits the transaction and flushes buffered events
func (u *unitOfWork) Commit() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to commit")
	}

	if err := u.tx.Commit(u.ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	u.tx = nil

	// Events are best-effort after the commit has already succeeded.
	if u.transactionalPublisher != nil {
		_ = u.transactionalPublisher.Flush(u.ctx)
	}

	return nil
}

// Rollback rolls back the transaction and discards buffered events
func (u *unitOfWork) Rollback() error {
	if u.tx == nil {
		return nil
	}

	err := u.tx.Rollback(u.ctx)
	if err != nil && err != pgx.ErrTxClosed {
		return fmt.Errorf("failed to rollback transaction: %w", err)
	}

	u.tx = nil

	if u.transactionalPublisher != nil {
		u.transactionalPublisher.Discard()
	}

	return nil
}

// TicketRepository returns the ticket repository for this unit of work
func (u *unitOfWork) TicketRepository() interfaces.TicketRepository {
	if u.ticketRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.ticketRepo
}

// DrawRepository returns the draw repository for this unit of work
func (u *unitOfWork) DrawRepository() interfaces.DrawRepository {
	if u.drawRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.drawRepo
}

// TierResultRepository returns the tier result repository for this unit of work
func (u *unitOfWork) TierResultRepository() interfaces.TierResultRepository {
	if u.tierResultRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.tierResultRepo
}

// WinnerRepository returns the winner repository for this unit of work
func (u *unitOfWork) WinnerRepository() interfaces.WinnerRepository {
	if u.winnerRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.winnerRepo
}

// AdminActionRepository returns the admin action repository for this unit of work
func (u *unitOfWork) AdminActionRepository() interfaces.AdminActionRepository {
	if u.adminActionRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.adminActionRepo
}

// LotteryStateRepository returns the lottery state repository for this unit of work
func (u *unitOfWork) LotteryStateRepository() interfaces.LotteryStateRepository {
	if u.stateRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.stateRepo
}

// ReferralRepository returns the referral repository for this unit of work
func (u *unitOfWork) ReferralRepository() interfaces.ReferralRepository {
	if u.referralRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.referralRepo
}

// TreasuryRepository returns the treasury repository for this unit of work
func (u *unitOfWork) TreasuryRepository() interfaces.TreasuryRepository {
	if u.treasuryRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.treasuryRepo
}

// EventBus returns the transactional event publisher
func (u *unitOfWork) EventBus() interfaces.EventPublisher {
	if u.transactionalPublisher == nil {
		panic("transactional publisher not configured")
	}
	return u.transactionalPublisher
}
