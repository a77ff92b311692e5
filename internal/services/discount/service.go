package discount

import (
	"context"
	"errors"

	domainErrors "vendhub/internal/errors"
	"vendhub/internal/models"
	"vendhub/internal/repositories"
	"vendhub/internal/utils"
	"vendhub/internal/validation"
)

var (
	ErrNotOwner      = errors.New("discount does not belong to this vendor")
	ErrInvalidCode   = errors.New("invalid discount code format")
	ErrDuplicateCode = errors.New("discount code already exists")
	ErrInvalidType   = errors.New("invalid discount type")
)

// Service manages vendor-side discount code administration. Customer-side
// redemption lives in the ledger service.
type Service interface {
	Create(ctx context.Context, code *models.DiscountCode) (*models.DiscountCode, error)
	List(ctx context.Context, vendorID uint) ([]models.DiscountCode, error)
	Deactivate(ctx context.Context, vendorID, discountID uint) error
	Update(ctx context.Context, vendorID uint, code *models.DiscountCode) error
}

type service struct {
	repo repositories.DiscountRepository
}

// NewService creates a new discount service
func NewService(repo repositories.DiscountRepository) Service {
	if repo == nil {
		panic("discount repository is required")
	}
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, code *models.DiscountCode) (*models.DiscountCode, error) {
	if code.DiscountType != models.DiscountTypePercentage && code.DiscountType != models.DiscountTypeFixed {
		return nil, ErrInvalidType
	}

	if code.Code == "" {
		code.Code = utils.MustGenerateDiscountCode()
	}
	code.Code = validation.NormalizeCode(code.Code)
	if !validation.ValidCode(code.Code) {
		return nil, ErrInvalidCode
	}
	code.CurrentUses = 0
	code.IsActive = true

	if err := s.repo.Create(code); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, ErrDuplicateCode
		}
		return nil, err
	}
	return code, nil
}

func (s *service) List(ctx context.Context, vendorID uint) ([]models.DiscountCode, error) {
	return s.repo.ListByVendor(vendorID)
}

func (s *service) Deactivate(ctx context.Context, vendorID, discountID uint) error {
	existing, err := s.owned(ctx, vendorID, discountID)
	if err != nil {
		return err
	}
	existing.IsActive = false
	return s.repo.Update(existing)
}

func (s *service) Update(ctx context.Context, vendorID uint, code *models.DiscountCode) error {
	existing, err := s.owned(ctx, vendorID, code.ID)
	if err != nil {
		return err
	}
	// The code string and usage counter are immutable after creation.
	existing.DiscountType = code.DiscountType
	existing.DiscountValue = code.DiscountValue
	existing.MaxUses = code.MaxUses
	existing.ValidFrom = code.ValidFrom
	existing.ValidUntil = code.ValidUntil
	existing.IsActive = code.IsActive
	return s.repo.Update(existing)
}

func (s *service) owned(ctx context.Context, vendorID, discountID uint) (*models.DiscountCode, error) {
	existing, err := s.repo.GetByID(ctx, discountID)
	if err != nil {
		if errors.Is(err, repositories.ErrDiscountNotFound) {
			return nil, domainErrors.ErrDiscountNotFound
		}
		return nil, err
	}
	if existing.VendorID != vendorID {
		return nil, ErrNotOwner
	}
	return existing, nil
}
