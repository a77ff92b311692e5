package repositories

import (
	"context"
	"errors"

	"vendhub/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LoyaltyRepository defines data access for per-customer-per-machine loyalty
// balances.
type LoyaltyRepository interface {
	// AddPoints upserts the (customer, machine) row, adding points to both the
	// balance and the lifetime counter atomically. Safe against concurrent
	// awards for the same pair.
	AddPoints(ctx context.Context, customerID, machineID uint, points int) (*models.LoyaltyPoints, error)
	Get(ctx context.Context, customerID, machineID uint) (*models.LoyaltyPoints, error)
	ListByCustomer(ctx context.Context, customerID uint) ([]models.LoyaltyPoints, error)
}

type loyaltyRepository struct {
	db *gorm.DB
}

// NewLoyaltyRepository creates a new instance of LoyaltyRepository
func NewLoyaltyRepository(db *gorm.DB) LoyaltyRepository {
	return &loyaltyRepository{db: db}
}

func (r *loyaltyRepository) AddPoints(ctx context.Context, customerID, machineID uint, points int) (*models.LoyaltyPoints, error) {
	row := models.LoyaltyPoints{
		CustomerID:     customerID,
		MachineID:      machineID,
		PointsBalance:  points,
		LifetimePoints: points,
	}

	// Storage-level upsert so concurrent awards for the same pair converge by
	// pure addition regardless of arrival order.
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "customer_id"}, {Name: "machine_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"points_balance":  gorm.Expr("loyalty_points.points_balance + ?", points),
			"lifetime_points": gorm.Expr("loyalty_points.lifetime_points + ?", points),
		}),
	}).Create(&row).Error
	if err != nil {
		return nil, ErrDatabaseOperation
	}

	return r.Get(ctx, customerID, machineID)
}

func (r *loyaltyRepository) Get(ctx context.Context, customerID, machineID uint) (*models.LoyaltyPoints, error) {
	var loyalty models.LoyaltyPoints
	err := r.db.WithContext(ctx).
		Where("customer_id = ? AND machine_id = ?", customerID, machineID).
		First(&loyalty).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLoyaltyNotFound
		}
		return nil, err
	}
	return &loyalty, nil
}

func (r *loyaltyRepository) ListByCustomer(ctx context.Context, customerID uint) ([]models.LoyaltyPoints, error) {
	var rows []models.LoyaltyPoints
	err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("machine_id").
		Find(&rows).Error
	if err != nil {
		return nil, ErrDatabaseOperation
	}
	return rows, nil
}
