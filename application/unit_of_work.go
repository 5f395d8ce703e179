package application

import (
	"context"

	"github.com/JGonCor/lottery-platform-sub001/domain/interfaces"
)

// UnitOfWork defines the interface for transactional repository operations.
// Every state-changing operation of the lottery runs inside one unit of
// work; its events flush only after the commit succeeds.
type UnitOfWork interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) error

	// Commit commits the transaction
	Commit() error

	// Rollback rolls back the transaction
	Rollback() error

	// Repository getters
	TicketRepository() interfaces.TicketRepository
	DrawRepository() interfaces.DrawRepository
	TierResultRepository() interfaces.TierResultRepository
	WinnerRepository() interfaces.WinnerRepository
	AdminActionRepository() interfaces.AdminActionRepository
	LotteryStateRepository() interfaces.LotteryStateRepository
	ReferralRepository() interfaces.ReferralRepository
	TreasuryRepository() interfaces.TreasuryRepository
	EventBus() interfaces.EventPublisher
}

// UnitOfWorkFactory defines the interface for creating UnitOfWork instances
type UnitOfWorkFactory interface {
	// Create creates a new UnitOfWork instance
	Create() UnitOfWork
}
