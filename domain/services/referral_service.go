package services

import (
	"context"
	"fmt"

	"github.com/JGonCor/lottery-platform-sub001/config"
	"github.com/JGonCor/lottery-platform-sub001/domain/entities"
	"github.com/JGonCor/lottery-platform-sub001/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

// referralService manages the one-shot referrer binding that grants a
// purchase discount. A binding is permanent once set.
type referralService struct {
	referralRepo interfaces.ReferralRepository
	cfg          *config.Config
}

// NewReferralService creates a new referral service
func NewReferralService(referralRepo interfaces.ReferralRepository, cfg *config.Config) interfaces.ReferralService {
	return &referralService{
		referralRepo: referralRepo,
		cfg:          cfg,
	}
}

// RegisterReferral binds account to referrer. The binding is write-once and
// self-referral is rejected.
func (s *referralService) RegisterReferral(ctx context.Context, account, referrer string) (*entities.Referral, error) {
	if account == referrer {
		return nil, ErrSelfReferral
	}

	existing, err := s.referralRepo.GetByAccount(ctx, account)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing referral: %w", err)
	}
	if existing != nil {
		return nil, ErrReferralExists
	}

	referral := &entities.Referral{
		Account:  account,
		Referrer: referrer,
	}
	if err := s.referralRepo.Create(ctx, referral); err != nil {
		return nil, fmt.Errorf("failed to create referral: %w", err)
	}

	log.WithFields(log.Fields{
		"account":  account,
		"referrer": referrer,
	}).Info("Referral registered")
	return referral, nil
}

// DiscountFor returns the basis-point discount a purchase of quantity tickets
// by account would receive.
func (s *referralService) DiscountFor(ctx context.Context, account string, quantity int) (int, error) {
	referral, err := s.referralRepo.GetByAccount(ctx, account)
	if err != nil {
		return 0, fmt.Errorf("failed to look up referral: %w", err)
	}
	return discountBpsFor(referral != nil, quantity, s.cfg), nil
}

// discountBpsFor combines the referral and bulk discounts. The two do not
// stack; the buyer gets whichever is larger, bounded by the global cap.
func discountBpsFor(hasReferrer bool, quantity int, cfg *config.Config) int {
	best := 0
	if hasReferrer {
		best = cfg.ReferralDiscountBps
	}
	for _, tier := range cfg.BulkDiscountTiers {
		if quantity >= tier.MinQuantity && tier.DiscountBps > best {
			best = tier.DiscountBps
		}
	}
	if best > cfg.MaxDiscountBps {
		best = cfg.MaxDiscountBps
	}
	return best
}
