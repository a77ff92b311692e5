package repositories

import (
	"context"
	"errors"

	"vendhub/internal/models"

	"gorm.io/gorm"
)

// DiscountRepository defines data access for discount codes and their
// redemptions.
type DiscountRepository interface {
	Create(code *models.DiscountCode) error
	GetByCode(ctx context.Context, code string) (*models.DiscountCode, error)
	GetByID(ctx context.Context, id uint) (*models.DiscountCode, error)
	ListByVendor(vendorID uint) ([]models.DiscountCode, error)
	Update(code *models.DiscountCode) error
	HasRedemption(ctx context.Context, codeID, customerID uint) (bool, error)
	// CreateRedemption inserts the redemption row and increments the code's
	// current_uses counter in one transaction. A duplicate (code, customer)
	// pair fails the whole transaction with ErrDuplicateKey; an increment past
	// max_uses fails it with ErrUsageLimitReached. Either way the counter is
	// left untouched.
	CreateRedemption(ctx context.Context, redemption *models.DiscountRedemption) error
}

type discountRepository struct {
	db *gorm.DB
}

// NewDiscountRepository creates a new instance of DiscountRepository
func NewDiscountRepository(db *gorm.DB) DiscountRepository {
	return &discountRepository{db: db}
}

func (r *discountRepository) Create(code *models.DiscountCode) error {
	if err := r.db.Create(code).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateKey
		}
		return ErrDatabaseOperation
	}
	return nil
}

func (r *discountRepository) GetByCode(ctx context.Context, code string) (*models.DiscountCode, error) {
	var discount models.DiscountCode
	if err := r.db.WithContext(ctx).Where("code = ?", code).First(&discount).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDiscountNotFound
		}
		return nil, err
	}
	return &discount, nil
}

func (r *discountRepository) GetByID(ctx context.Context, id uint) (*models.DiscountCode, error) {
	var discount models.DiscountCode
	if err := r.db.WithContext(ctx).First(&discount, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDiscountNotFound
		}
		return nil, err
	}
	return &discount, nil
}

func (r *discountRepository) ListByVendor(vendorID uint) ([]models.DiscountCode, error) {
	var discounts []models.DiscountCode
	if err := r.db.Where("vendor_id = ?", vendorID).Order("id DESC").Find(&discounts).Error; err != nil {
		return nil, ErrDatabaseOperation
	}
	return discounts, nil
}

func (r *discountRepository) Update(code *models.DiscountCode) error {
	if err := r.db.Save(code).Error; err != nil {
		return ErrDatabaseOperation
	}
	return nil
}

func (r *discountRepository) HasRedemption(ctx context.Context, codeID, customerID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.DiscountRedemption{}).
		Where("discount_code_id = ? AND customer_id = ?", codeID, customerID).
		Count(&count).Error
	if err != nil {
		return false, ErrDatabaseOperation
	}
	return count > 0, nil
}

func (r *discountRepository) CreateRedemption(ctx context.Context, redemption *models.DiscountRedemption) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(redemption).Error; err != nil {
			return err
		}
		// Atomic, capacity-guarded increment; never read-modify-write the
		// counter in memory. Zero rows means the code is at max_uses, which
		// rolls back the redemption row too.
		res := tx.Model(&models.DiscountCode{}).
			Where("id = ? AND (max_uses IS NULL OR current_uses < max_uses)", redemption.DiscountCodeID).
			UpdateColumn("current_uses", gorm.Expr("current_uses + 1"))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrUsageLimitReached
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateKey
		}
		return err
	}
	return nil
}
