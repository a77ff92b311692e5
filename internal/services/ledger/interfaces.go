package ledger

import (
	"context"

	"vendhub/internal/models"
)

// Service defines the interface for the redemption and engagement ledger. All
// operations enforce exactly-once semantics backed by storage uniqueness
// constraints.
type Service interface {
	// Redeem consumes a discount code for a customer at a machine. Under
	// concurrent duplicate requests exactly one call succeeds; the rest fail
	// with ErrAlreadyRedeemed.
	Redeem(ctx context.Context, code string, customerID, machineID uint) (*models.DiscountCode, *models.DiscountRedemption, error)

	// SubmitProofRedemption records a proof-of-purchase redemption, approves
	// it and awards loyalty points through a race-safe upsert.
	SubmitProofRedemption(ctx context.Context, discountID, customerID, machineID uint, proofImageURL string) (*RedemptionResult, error)

	// Vote books one vote per option per voter identity.
	Vote(ctx context.Context, pollID, optionID uint, voter VoterIdentity, voteType string) error

	Results(ctx context.Context, pollID uint) ([]OptionResult, error)

	GetPoints(ctx context.Context, customerID, machineID uint) (*models.LoyaltyPoints, error)
	ListPoints(ctx context.Context, customerID uint) ([]models.LoyaltyPoints, error)
}
