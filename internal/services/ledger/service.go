package ledger

import (
	"context"
	"errors"
	"log"
	"time"

	domainErrors "vendhub/internal/errors"
	"vendhub/internal/models"
	"vendhub/internal/repositories"
	"vendhub/internal/validation"
)

// DefaultRedemptionPoints is the flat award for an approved proof-of-purchase
// submission.
const DefaultRedemptionPoints = 10

type service struct {
	discounts        repositories.DiscountRepository
	loyalty          repositories.LoyaltyRepository
	polls            repositories.PollRepository
	redemptionPoints int
}

// NewService creates a new ledger service. redemptionPoints <= 0 falls back
// to DefaultRedemptionPoints.
func NewService(
	discounts repositories.DiscountRepository,
	loyalty repositories.LoyaltyRepository,
	polls repositories.PollRepository,
	redemptionPoints int,
) Service {
	if discounts == nil {
		panic("discount repository is required")
	}
	if loyalty == nil {
		panic("loyalty repository is required")
	}
	if polls == nil {
		panic("poll repository is required")
	}
	if redemptionPoints <= 0 {
		redemptionPoints = DefaultRedemptionPoints
	}
	return &service{
		discounts:        discounts,
		loyalty:          loyalty,
		polls:            polls,
		redemptionPoints: redemptionPoints,
	}
}

func (s *service) Redeem(ctx context.Context, code string, customerID, machineID uint) (*models.DiscountCode, *models.DiscountRedemption, error) {
	discount, err := s.discounts.GetByCode(ctx, validation.NormalizeCode(code))
	if err != nil {
		if errors.Is(err, repositories.ErrDiscountNotFound) {
			return nil, nil, domainErrors.ErrDiscountNotFound
		}
		return nil, nil, err
	}

	if err := s.checkRedeemable(ctx, discount, customerID, machineID); err != nil {
		return nil, nil, err
	}

	redemption := &models.DiscountRedemption{
		DiscountCodeID: discount.ID,
		CustomerID:     customerID,
		MachineID:      machineID,
		Status:         models.RedemptionStatusApproved,
		RedeemedAt:     time.Now(),
	}

	if err := s.discounts.CreateRedemption(ctx, redemption); err != nil {
		// Storage is the source of truth: a concurrent duplicate or a
		// concurrent claim of the last use slips past the precondition reads
		// and lands here.
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, nil, domainErrors.ErrAlreadyRedeemed
		}
		if errors.Is(err, repositories.ErrUsageLimitReached) {
			return nil, nil, domainErrors.ErrDiscountLimitReached
		}
		return nil, nil, err
	}

	discount.CurrentUses++
	return discount, redemption, nil
}

func (s *service) SubmitProofRedemption(ctx context.Context, discountID, customerID, machineID uint, proofImageURL string) (*RedemptionResult, error) {
	discount, err := s.discounts.GetByID(ctx, discountID)
	if err != nil {
		if errors.Is(err, repositories.ErrDiscountNotFound) {
			return nil, domainErrors.ErrDiscountNotFound
		}
		return nil, err
	}

	if err := s.checkRedeemable(ctx, discount, customerID, machineID); err != nil {
		return nil, err
	}

	redemption := &models.DiscountRedemption{
		DiscountCodeID: discount.ID,
		CustomerID:     customerID,
		MachineID:      machineID,
		ProofImageURL:  proofImageURL,
		Status:         models.RedemptionStatusApproved,
		PointsAwarded:  s.redemptionPoints,
		RedeemedAt:     time.Now(),
	}

	if err := s.discounts.CreateRedemption(ctx, redemption); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, domainErrors.ErrAlreadyRedeemed
		}
		if errors.Is(err, repositories.ErrUsageLimitReached) {
			return nil, domainErrors.ErrDiscountLimitReached
		}
		return nil, err
	}

	loyalty, err := s.loyalty.AddPoints(ctx, customerID, machineID, s.redemptionPoints)
	if err != nil {
		// The redemption row is booked; surface the award failure rather than
		// unwinding it so a retry of the whole request stays rejected.
		log.Printf("points award failed for customer %d machine %d: %v", customerID, machineID, err)
		return nil, err
	}

	return &RedemptionResult{
		RedemptionID:   redemption.ID,
		PointsAwarded:  s.redemptionPoints,
		PointsBalance:  loyalty.PointsBalance,
		LifetimePoints: loyalty.LifetimePoints,
	}, nil
}

// checkRedeemable runs the precondition reads of the redeem protocol. These
// produce friendly errors on the common path; the unique index remains the
// final arbiter under races.
func (s *service) checkRedeemable(ctx context.Context, discount *models.DiscountCode, customerID, machineID uint) error {
	if discount.MachineID != machineID {
		return domainErrors.ErrWrongMachine
	}
	if !discount.IsActive {
		return domainErrors.ErrDiscountInactive
	}

	now := time.Now()
	if discount.ValidFrom != nil && now.Before(*discount.ValidFrom) {
		return domainErrors.ErrDiscountNotYetValid
	}
	if discount.ValidUntil != nil && now.After(*discount.ValidUntil) {
		return domainErrors.ErrDiscountExpired
	}
	if discount.MaxUses != nil && discount.CurrentUses >= *discount.MaxUses {
		return domainErrors.ErrDiscountLimitReached
	}

	redeemed, err := s.discounts.HasRedemption(ctx, discount.ID, customerID)
	if err != nil {
		return err
	}
	if redeemed {
		return domainErrors.ErrAlreadyRedeemed
	}
	return nil
}

func (s *service) GetPoints(ctx context.Context, customerID, machineID uint) (*models.LoyaltyPoints, error) {
	loyalty, err := s.loyalty.Get(ctx, customerID, machineID)
	if err != nil {
		if errors.Is(err, repositories.ErrLoyaltyNotFound) {
			return &models.LoyaltyPoints{CustomerID: customerID, MachineID: machineID}, nil
		}
		return nil, err
	}
	return loyalty, nil
}

func (s *service) ListPoints(ctx context.Context, customerID uint) ([]models.LoyaltyPoints, error) {
	return s.loyalty.ListByCustomer(ctx, customerID)
}
