package testutil

import (
	"time"

	"github.com/JGonCor/lottery-platform-sub001/domain/entities"
)

// CreateTestTicket creates a ticket for the given epoch with default numbers
func CreateTestTicket(epochID int64, owner string) *entities.Ticket {
	return &entities.Ticket{
		EpochID:     epochID,
		Owner:       owner,
		Numbers:     []int{1, 2, 3, 4, 5, 6},
		PricePaid:   5_000_000,
		PurchasedAt: time.Now().UTC(),
	}
}

// CreateTestTicketWithNumbers creates a ticket with specific numbers
func CreateTestTicketWithNumbers(epochID int64, owner string, numbers []int) *entities.Ticket {
	ticket := CreateTestTicket(epochID, owner)
	ticket.Numbers = numbers
	return ticket
}

// CreateTestDraw creates an open draw for the given epoch
func CreateTestDraw(epochID int64) *entities.Draw {
	return &entities.Draw{
		EpochID:  epochID,
		State:    entities.DrawStateOpen,
		OpenedAt: time.Now().UTC(),
	}
}

// CreateTestTierResult creates a tier result with the given pot split evenly
func CreateTestTierResult(epochID int64, matchCount int, winnerCount, potAmount int64) *entities.TierResult {
	perWinner := int64(0)
	if winnerCount > 0 {
		perWinner = potAmount / winnerCount
	}
	return &entities.TierResult{
		EpochID:         epochID,
		MatchCount:      matchCount,
		WinnerCount:     winnerCount,
		PotAmount:       potAmount,
		PerWinnerAmount: perWinner,
	}
}
