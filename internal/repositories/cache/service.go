package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"vendhub/internal/models"

	"github.com/redis/go-redis/v9"
)

type CacheService struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCacheService(client *redis.Client, defaultTTL time.Duration) *CacheService {
	return &CacheService{
		client: client,
		ttl:    defaultTTL,
	}
}

// Base operations
func (s *CacheService) Set(ctx context.Context, key string, value interface{}) error {
	return s.SetWithTTL(ctx, key, value, s.ttl)
}

func (s *CacheService) SetWithTTL(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal cache value: %w", err)
	}
	return s.client.Set(ctx, key, data, ttl).Err()
}

func (s *CacheService) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return false, nil
		}
		return false, fmt.Errorf("failed to get cache value: %w", err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("failed to unmarshal cache value: %w", err)
	}
	return true, nil
}

func (s *CacheService) Delete(ctx context.Context, keys ...string) error {
	return s.client.Del(ctx, keys...).Err()
}

func (s *CacheService) FlushAll(ctx context.Context) error {
	return s.client.FlushAll(ctx).Err()
}

func (s *CacheService) Close() error {
	return s.client.Close()
}

// Session caching. Sessions are cached until their own expiry so a stale cache
// entry can never outlive the row it mirrors.
func sessionKey(token string) string {
	return "session:token:" + token
}

func (s *CacheService) CacheSession(ctx context.Context, session *models.CustomerSession) error {
	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		return nil
	}
	return s.SetWithTTL(ctx, sessionKey(session.SessionToken), session, ttl)
}

func (s *CacheService) GetSession(ctx context.Context, token string) (*models.CustomerSession, error) {
	var session models.CustomerSession
	found, err := s.Get(ctx, sessionKey(token), &session)
	if err != nil || !found {
		return nil, fmt.Errorf("session cache miss")
	}
	return &session, nil
}

func (s *CacheService) InvalidateSession(ctx context.Context, token string) error {
	return s.Delete(ctx, sessionKey(token))
}

// Machine caching.
func machineKey(id uint) string {
	return fmt.Sprintf("machine:id:%d", id)
}

func (s *CacheService) CacheMachine(ctx context.Context, machine *models.Machine) error {
	return s.Set(ctx, machineKey(machine.ID), machine)
}

func (s *CacheService) GetMachine(ctx context.Context, id uint) (*models.Machine, error) {
	var machine models.Machine
	found, err := s.Get(ctx, machineKey(id), &machine)
	if err != nil || !found {
		return nil, fmt.Errorf("machine cache miss")
	}
	return &machine, nil
}

func (s *CacheService) InvalidateMachine(ctx context.Context, id uint) error {
	return s.Delete(ctx, machineKey(id))
}
