package ledger

import (
	"context"
	"testing"
	"time"

	domainErrors "vendhub/internal/errors"
	"vendhub/internal/models"
	"vendhub/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockDiscountRepo struct {
	mock.Mock
}

func (m *MockDiscountRepo) Create(code *models.DiscountCode) error {
	args := m.Called(code)
	return args.Error(0)
}

func (m *MockDiscountRepo) GetByCode(ctx context.Context, code string) (*models.DiscountCode, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DiscountCode), args.Error(1)
}

func (m *MockDiscountRepo) GetByID(ctx context.Context, id uint) (*models.DiscountCode, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DiscountCode), args.Error(1)
}

func (m *MockDiscountRepo) ListByVendor(vendorID uint) ([]models.DiscountCode, error) {
	args := m.Called(vendorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.DiscountCode), args.Error(1)
}

func (m *MockDiscountRepo) Update(code *models.DiscountCode) error {
	args := m.Called(code)
	return args.Error(0)
}

func (m *MockDiscountRepo) HasRedemption(ctx context.Context, codeID, customerID uint) (bool, error) {
	args := m.Called(ctx, codeID, customerID)
	return args.Bool(0), args.Error(1)
}

func (m *MockDiscountRepo) CreateRedemption(ctx context.Context, redemption *models.DiscountRedemption) error {
	args := m.Called(ctx, redemption)
	return args.Error(0)
}

type MockLoyaltyRepo struct {
	mock.Mock
}

func (m *MockLoyaltyRepo) AddPoints(ctx context.Context, customerID, machineID uint, points int) (*models.LoyaltyPoints, error) {
	args := m.Called(ctx, customerID, machineID, points)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.LoyaltyPoints), args.Error(1)
}

func (m *MockLoyaltyRepo) Get(ctx context.Context, customerID, machineID uint) (*models.LoyaltyPoints, error) {
	args := m.Called(ctx, customerID, machineID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.LoyaltyPoints), args.Error(1)
}

func (m *MockLoyaltyRepo) ListByCustomer(ctx context.Context, customerID uint) ([]models.LoyaltyPoints, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.LoyaltyPoints), args.Error(1)
}

type MockPollRepo struct {
	mock.Mock
}

func (m *MockPollRepo) CreatePoll(poll *models.Poll) error {
	args := m.Called(poll)
	return args.Error(0)
}

func (m *MockPollRepo) GetPoll(ctx context.Context, id uint) (*models.Poll, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Poll), args.Error(1)
}

func (m *MockPollRepo) ListByMachine(machineID uint) ([]models.Poll, error) {
	args := m.Called(machineID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Poll), args.Error(1)
}

func (m *MockPollRepo) UpdatePoll(poll *models.Poll) error {
	args := m.Called(poll)
	return args.Error(0)
}

func (m *MockPollRepo) GetOption(ctx context.Context, id uint) (*models.PollOption, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PollOption), args.Error(1)
}

func (m *MockPollRepo) CreateVote(ctx context.Context, vote *models.PollVote) error {
	args := m.Called(ctx, vote)
	return args.Error(0)
}

func (m *MockPollRepo) CountVotes(ctx context.Context, pollID uint) ([]repositories.VoteCount, error) {
	args := m.Called(ctx, pollID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repositories.VoteCount), args.Error(1)
}

func newTestService(discounts *MockDiscountRepo, loyalty *MockLoyaltyRepo, polls *MockPollRepo) Service {
	return NewService(discounts, loyalty, polls, DefaultRedemptionPoints)
}

func activeDiscount() *models.DiscountCode {
	d := &models.DiscountCode{
		VendorID:      1,
		MachineID:     42,
		Code:          "SAVE10",
		DiscountType:  models.DiscountTypePercentage,
		DiscountValue: 10,
		IsActive:      true,
	}
	d.ID = 100
	return d
}

func TestService_Redeem(t *testing.T) {
	const (
		customerID = uint(7)
		machineID  = uint(42)
	)

	t.Run("happy path", func(t *testing.T) {
		discounts := new(MockDiscountRepo)
		discounts.On("GetByCode", mock.Anything, "SAVE10").Return(activeDiscount(), nil)
		discounts.On("HasRedemption", mock.Anything, uint(100), customerID).Return(false, nil)
		discounts.On("CreateRedemption", mock.Anything, mock.MatchedBy(func(r *models.DiscountRedemption) bool {
			return r.DiscountCodeID == 100 &&
				r.CustomerID == customerID &&
				r.MachineID == machineID &&
				r.Status == models.RedemptionStatusApproved
		})).Return(nil)

		svc := newTestService(discounts, new(MockLoyaltyRepo), new(MockPollRepo))
		discount, redemption, err := svc.Redeem(context.Background(), "save10", customerID, machineID)

		require.NoError(t, err)
		assert.Equal(t, 1, discount.CurrentUses)
		assert.Equal(t, uint(100), redemption.DiscountCodeID)
		discounts.AssertExpectations(t)
	})

	t.Run("code is normalized before lookup", func(t *testing.T) {
		discounts := new(MockDiscountRepo)
		discounts.On("GetByCode", mock.Anything, "SAVE10").Return(nil, repositories.ErrDiscountNotFound)

		svc := newTestService(discounts, new(MockLoyaltyRepo), new(MockPollRepo))
		_, _, err := svc.Redeem(context.Background(), "  save10  ", customerID, machineID)
		assert.ErrorIs(t, err, domainErrors.ErrDiscountNotFound)
		discounts.AssertExpectations(t)
	})

	t.Run("precondition failures", func(t *testing.T) {
		past := time.Now().Add(-time.Hour)
		future := time.Now().Add(time.Hour)
		one := 1

		tests := []struct {
			name    string
			mutate  func(d *models.DiscountCode)
			wantErr error
		}{
			{
				"wrong machine",
				func(d *models.DiscountCode) { d.MachineID = 99 },
				domainErrors.ErrWrongMachine,
			},
			{
				"inactive",
				func(d *models.DiscountCode) { d.IsActive = false },
				domainErrors.ErrDiscountInactive,
			},
			{
				"not yet valid",
				func(d *models.DiscountCode) { d.ValidFrom = &future },
				domainErrors.ErrDiscountNotYetValid,
			},
			{
				"expired",
				func(d *models.DiscountCode) { d.ValidUntil = &past },
				domainErrors.ErrDiscountExpired,
			},
			{
				"limit reached",
				func(d *models.DiscountCode) {
					d.MaxUses = &one
					d.CurrentUses = 1
				},
				domainErrors.ErrDiscountLimitReached,
			},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				discount := activeDiscount()
				tt.mutate(discount)

				discounts := new(MockDiscountRepo)
				discounts.On("GetByCode", mock.Anything, "SAVE10").Return(discount, nil)
				discounts.On("HasRedemption", mock.Anything, mock.Anything, mock.Anything).Return(false, nil).Maybe()

				svc := newTestService(discounts, new(MockLoyaltyRepo), new(MockPollRepo))
				_, _, err := svc.Redeem(context.Background(), "SAVE10", customerID, machineID)
				assert.ErrorIs(t, err, tt.wantErr)
				discounts.AssertNotCalled(t, "CreateRedemption", mock.Anything, mock.Anything)
			})
		}
	})

	t.Run("already redeemed via precondition read", func(t *testing.T) {
		discounts := new(MockDiscountRepo)
		discounts.On("GetByCode", mock.Anything, "SAVE10").Return(activeDiscount(), nil)
		discounts.On("HasRedemption", mock.Anything, uint(100), customerID).Return(true, nil)

		svc := newTestService(discounts, new(MockLoyaltyRepo), new(MockPollRepo))
		_, _, err := svc.Redeem(context.Background(), "SAVE10", customerID, machineID)
		assert.ErrorIs(t, err, domainErrors.ErrAlreadyRedeemed)
		discounts.AssertNotCalled(t, "CreateRedemption", mock.Anything, mock.Anything)
	})

	t.Run("already redeemed via unique index under race", func(t *testing.T) {
		discounts := new(MockDiscountRepo)
		discounts.On("GetByCode", mock.Anything, "SAVE10").Return(activeDiscount(), nil)
		discounts.On("HasRedemption", mock.Anything, uint(100), customerID).Return(false, nil)
		discounts.On("CreateRedemption", mock.Anything, mock.Anything).Return(repositories.ErrDuplicateKey)

		svc := newTestService(discounts, new(MockLoyaltyRepo), new(MockPollRepo))
		_, _, err := svc.Redeem(context.Background(), "SAVE10", customerID, machineID)
		assert.ErrorIs(t, err, domainErrors.ErrAlreadyRedeemed)
	})

	t.Run("limit reached via guarded increment under race", func(t *testing.T) {
		// Two distinct customers racing on the last use both pass the
		// precondition read; the capacity-guarded counter update rejects the
		// loser inside the transaction.
		one := 1
		discount := activeDiscount()
		discount.MaxUses = &one

		discounts := new(MockDiscountRepo)
		discounts.On("GetByCode", mock.Anything, "SAVE10").Return(discount, nil)
		discounts.On("HasRedemption", mock.Anything, uint(100), customerID).Return(false, nil)
		discounts.On("CreateRedemption", mock.Anything, mock.Anything).Return(repositories.ErrUsageLimitReached)

		svc := newTestService(discounts, new(MockLoyaltyRepo), new(MockPollRepo))
		_, _, err := svc.Redeem(context.Background(), "SAVE10", customerID, machineID)
		assert.ErrorIs(t, err, domainErrors.ErrDiscountLimitReached)
	})
}

func TestService_SubmitProofRedemption(t *testing.T) {
	const (
		customerID = uint(7)
		machineID  = uint(42)
	)

	t.Run("awards flat points through upsert", func(t *testing.T) {
		discounts := new(MockDiscountRepo)
		loyalty := new(MockLoyaltyRepo)

		discounts.On("GetByID", mock.Anything, uint(100)).Return(activeDiscount(), nil)
		discounts.On("HasRedemption", mock.Anything, uint(100), customerID).Return(false, nil)
		discounts.On("CreateRedemption", mock.Anything, mock.MatchedBy(func(r *models.DiscountRedemption) bool {
			return r.ProofImageURL == "/uploads/proof.png" && r.PointsAwarded == DefaultRedemptionPoints
		})).Return(nil)
		loyalty.On("AddPoints", mock.Anything, customerID, machineID, DefaultRedemptionPoints).
			Return(&models.LoyaltyPoints{
				CustomerID:     customerID,
				MachineID:      machineID,
				PointsBalance:  30,
				LifetimePoints: 50,
			}, nil)

		svc := newTestService(discounts, loyalty, new(MockPollRepo))
		result, err := svc.SubmitProofRedemption(context.Background(), 100, customerID, machineID, "/uploads/proof.png")

		require.NoError(t, err)
		assert.Equal(t, DefaultRedemptionPoints, result.PointsAwarded)
		assert.Equal(t, 30, result.PointsBalance)
		assert.Equal(t, 50, result.LifetimePoints)
		loyalty.AssertExpectations(t)
	})

	t.Run("unknown discount", func(t *testing.T) {
		discounts := new(MockDiscountRepo)
		discounts.On("GetByID", mock.Anything, uint(999)).Return(nil, repositories.ErrDiscountNotFound)

		svc := newTestService(discounts, new(MockLoyaltyRepo), new(MockPollRepo))
		_, err := svc.SubmitProofRedemption(context.Background(), 999, customerID, machineID, "")
		assert.ErrorIs(t, err, domainErrors.ErrDiscountNotFound)
	})

	t.Run("duplicate submission awards nothing", func(t *testing.T) {
		discounts := new(MockDiscountRepo)
		loyalty := new(MockLoyaltyRepo)

		discounts.On("GetByID", mock.Anything, uint(100)).Return(activeDiscount(), nil)
		discounts.On("HasRedemption", mock.Anything, uint(100), customerID).Return(false, nil)
		discounts.On("CreateRedemption", mock.Anything, mock.Anything).Return(repositories.ErrDuplicateKey)

		svc := newTestService(discounts, loyalty, new(MockPollRepo))
		_, err := svc.SubmitProofRedemption(context.Background(), 100, customerID, machineID, "")
		assert.ErrorIs(t, err, domainErrors.ErrAlreadyRedeemed)
		loyalty.AssertNotCalled(t, "AddPoints", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("full code awards nothing", func(t *testing.T) {
		discounts := new(MockDiscountRepo)
		loyalty := new(MockLoyaltyRepo)

		discounts.On("GetByID", mock.Anything, uint(100)).Return(activeDiscount(), nil)
		discounts.On("HasRedemption", mock.Anything, uint(100), customerID).Return(false, nil)
		discounts.On("CreateRedemption", mock.Anything, mock.Anything).Return(repositories.ErrUsageLimitReached)

		svc := newTestService(discounts, loyalty, new(MockPollRepo))
		_, err := svc.SubmitProofRedemption(context.Background(), 100, customerID, machineID, "")
		assert.ErrorIs(t, err, domainErrors.ErrDiscountLimitReached)
		loyalty.AssertNotCalled(t, "AddPoints", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestService_GetPoints(t *testing.T) {
	t.Run("existing balance", func(t *testing.T) {
		loyalty := new(MockLoyaltyRepo)
		loyalty.On("Get", mock.Anything, uint(7), uint(42)).
			Return(&models.LoyaltyPoints{CustomerID: 7, MachineID: 42, PointsBalance: 30, LifetimePoints: 50}, nil)

		svc := newTestService(new(MockDiscountRepo), loyalty, new(MockPollRepo))
		points, err := svc.GetPoints(context.Background(), 7, 42)
		require.NoError(t, err)
		assert.Equal(t, 30, points.PointsBalance)
	})

	t.Run("no row yet reads as zero balance", func(t *testing.T) {
		loyalty := new(MockLoyaltyRepo)
		loyalty.On("Get", mock.Anything, uint(7), uint(42)).Return(nil, repositories.ErrLoyaltyNotFound)

		svc := newTestService(new(MockDiscountRepo), loyalty, new(MockPollRepo))
		points, err := svc.GetPoints(context.Background(), 7, 42)
		require.NoError(t, err)
		assert.Equal(t, 0, points.PointsBalance)
		assert.Equal(t, 0, points.LifetimePoints)
		assert.Equal(t, uint(7), points.CustomerID)
	})
}
