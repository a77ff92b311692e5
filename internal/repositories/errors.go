package repositories

import "errors"

// Sentinel errors returned by the repository layer. Services translate these
// into domain errors at their own boundary.
var (
	ErrUserNotFound      = errors.New("user not found")
	ErrMachineNotFound   = errors.New("machine not found")
	ErrSessionNotFound   = errors.New("session not found")
	ErrDiscountNotFound  = errors.New("discount code not found")
	ErrPollNotFound      = errors.New("poll not found")
	ErrOptionNotFound    = errors.New("poll option not found")
	ErrLoyaltyNotFound   = errors.New("loyalty account not found")
	ErrDuplicateKey      = errors.New("duplicate key")
	ErrUsageLimitReached = errors.New("usage limit reached")
	ErrSessionLinked     = errors.New("session already linked")
	ErrDatabaseOperation = errors.New("database operation failed")
)
