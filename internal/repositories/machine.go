package repositories

import (
	"context"
	"errors"
	"log"

	"vendhub/internal/models"
	"vendhub/internal/repositories/cache"

	"gorm.io/gorm"
)

// MachineRepository defines data access for vending machines and their
// products.
type MachineRepository interface {
	Create(machine *models.Machine) error
	GetByID(ctx context.Context, id uint) (*models.Machine, error)
	ListByVendor(vendorID uint) ([]models.Machine, error)
	Update(machine *models.Machine) error
	SetQRCodeData(ctx context.Context, machineID uint, data string) error
	CreateProduct(product *models.Product) error
	ListProducts(machineID uint) ([]models.Product, error)
}

type machineRepository struct {
	db    *gorm.DB
	cache *cache.CacheService
}

// NewMachineRepository creates a new instance of MachineRepository
func NewMachineRepository(db *gorm.DB, cache *cache.CacheService) MachineRepository {
	return &machineRepository{db: db, cache: cache}
}

func (r *machineRepository) Create(machine *models.Machine) error {
	if err := r.db.Create(machine).Error; err != nil {
		return ErrDatabaseOperation
	}
	return nil
}

func (r *machineRepository) GetByID(ctx context.Context, id uint) (*models.Machine, error) {
	// Try cache first
	if r.cache != nil {
		if machine, err := r.cache.GetMachine(ctx, id); err == nil {
			return machine, nil
		}
	}

	var machine models.Machine
	if err := r.db.WithContext(ctx).First(&machine, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMachineNotFound
		}
		return nil, err
	}

	if r.cache != nil {
		if err := r.cache.CacheMachine(ctx, &machine); err != nil {
			log.Printf("failed to cache machine %d: %v", id, err)
		}
	}
	return &machine, nil
}

func (r *machineRepository) ListByVendor(vendorID uint) ([]models.Machine, error) {
	var machines []models.Machine
	if err := r.db.Where("vendor_id = ?", vendorID).Order("id").Find(&machines).Error; err != nil {
		return nil, ErrDatabaseOperation
	}
	return machines, nil
}

func (r *machineRepository) Update(machine *models.Machine) error {
	if err := r.db.Save(machine).Error; err != nil {
		return ErrDatabaseOperation
	}
	if r.cache != nil {
		r.cache.InvalidateMachine(context.Background(), machine.ID)
	}
	return nil
}

func (r *machineRepository) SetQRCodeData(ctx context.Context, machineID uint, data string) error {
	res := r.db.WithContext(ctx).Model(&models.Machine{}).
		Where("id = ?", machineID).
		Update("qr_code_data", data)
	if res.Error != nil {
		return ErrDatabaseOperation
	}
	if res.RowsAffected == 0 {
		return ErrMachineNotFound
	}
	if r.cache != nil {
		r.cache.InvalidateMachine(ctx, machineID)
	}
	return nil
}

func (r *machineRepository) CreateProduct(product *models.Product) error {
	if err := r.db.Create(product).Error; err != nil {
		return ErrDatabaseOperation
	}
	return nil
}

func (r *machineRepository) ListProducts(machineID uint) ([]models.Product, error) {
	var products []models.Product
	if err := r.db.Where("machine_id = ?", machineID).Order("slot_code").Find(&products).Error; err != nil {
		return nil, ErrDatabaseOperation
	}
	return products, nil
}
