package repositories

import (
	"context"
	"errors"
	"log"
	"time"

	"vendhub/internal/models"
	"vendhub/internal/repositories/cache"

	"gorm.io/gorm"
)

// SessionRepository defines data access for customer sessions.
type SessionRepository interface {
	Create(ctx context.Context, session *models.CustomerSession) error
	GetByToken(ctx context.Context, token string) (*models.CustomerSession, error)
	// SetCustomer links the session to a customer. The write is conditional
	// on the session being unlinked (or already linked to the same customer);
	// losing a concurrent link to a different customer returns
	// ErrSessionLinked.
	SetCustomer(ctx context.Context, sessionID uint, customerID uint) error
	DeleteExpired(ctx context.Context) (int64, error)
	ListActiveByMachine(ctx context.Context, machineID uint) ([]models.CustomerSession, error)
	CountByCustomer(ctx context.Context, customerID uint) (int64, error)
}

type sessionRepository struct {
	db    *gorm.DB
	cache *cache.CacheService
}

// NewSessionRepository creates a new instance of SessionRepository
func NewSessionRepository(db *gorm.DB, cache *cache.CacheService) SessionRepository {
	return &sessionRepository{db: db, cache: cache}
}

func (r *sessionRepository) Create(ctx context.Context, session *models.CustomerSession) error {
	if err := r.db.WithContext(ctx).Create(session).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateKey
		}
		return ErrDatabaseOperation
	}
	if r.cache != nil {
		if err := r.cache.CacheSession(ctx, session); err != nil {
			log.Printf("failed to cache session: %v", err)
		}
	}
	return nil
}

func (r *sessionRepository) GetByToken(ctx context.Context, token string) (*models.CustomerSession, error) {
	// Try cache first. Linked sessions are only served from the database so
	// the joined customer fields stay fresh.
	if r.cache != nil {
		if session, err := r.cache.GetSession(ctx, token); err == nil && session.CustomerID == nil {
			return session, nil
		}
	}

	var session models.CustomerSession
	err := r.db.WithContext(ctx).
		Preload("Customer").
		Where("session_token = ?", token).
		First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return &session, nil
}

func (r *sessionRepository) SetCustomer(ctx context.Context, sessionID uint, customerID uint) error {
	var session models.CustomerSession
	if err := r.db.WithContext(ctx).First(&session, sessionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSessionNotFound
		}
		return err
	}

	// Guard the write itself: a concurrent link to a different customer that
	// committed after our read makes this update a no-op instead of an
	// overwrite.
	res := r.db.WithContext(ctx).
		Model(&models.CustomerSession{}).
		Where("id = ? AND (customer_id IS NULL OR customer_id = ?)", sessionID, customerID).
		Update("customer_id", customerID)
	if res.Error != nil {
		return ErrDatabaseOperation
	}
	if res.RowsAffected == 0 {
		return ErrSessionLinked
	}
	if r.cache != nil {
		r.cache.InvalidateSession(ctx, session.SessionToken)
	}
	return nil
}

func (r *sessionRepository) DeleteExpired(ctx context.Context) (int64, error) {
	res := r.db.WithContext(ctx).
		Unscoped().
		Where("expires_at < ?", time.Now()).
		Delete(&models.CustomerSession{})
	if res.Error != nil {
		return 0, ErrDatabaseOperation
	}
	return res.RowsAffected, nil
}

func (r *sessionRepository) ListActiveByMachine(ctx context.Context, machineID uint) ([]models.CustomerSession, error) {
	var sessions []models.CustomerSession
	err := r.db.WithContext(ctx).
		Where("machine_id = ? AND expires_at > ?", machineID, time.Now()).
		Order("created_at DESC").
		Find(&sessions).Error
	if err != nil {
		return nil, ErrDatabaseOperation
	}
	return sessions, nil
}

func (r *sessionRepository) CountByCustomer(ctx context.Context, customerID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.CustomerSession{}).
		Where("customer_id = ?", customerID).
		Count(&count).Error
	if err != nil {
		return 0, ErrDatabaseOperation
	}
	return count, nil
}
