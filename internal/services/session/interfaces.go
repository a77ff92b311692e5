package session

import (
	"context"

	"vendhub/internal/models"
)

// CreateParams carries everything recorded about a scan.
type CreateParams struct {
	CustomerID   *uint
	MachineID    uint
	ScannedToken string
	IPAddress    string
	UserAgent    string
}

// Service defines the interface for customer session lifecycle operations.
type Service interface {
	// QRLogin exchanges a scanned QR token for a fresh anonymous session
	// scoped to the machine the token identifies.
	QRLogin(ctx context.Context, scannedToken, ipAddress, userAgent string) (*models.CustomerSession, *models.Machine, error)

	Create(ctx context.Context, params CreateParams) (*models.CustomerSession, error)
	// FindByToken looks a session up regardless of expiry; callers decide the
	// freshness policy. A missing session returns (nil, nil).
	FindByToken(ctx context.Context, token string) (*models.CustomerSession, error)
	IsValid(ctx context.Context, token string) (bool, error)
	// LinkToCustomer promotes an anonymous session to an identified one.
	// Linking to the same customer again is a no-op; linking to a different
	// customer is rejected.
	LinkToCustomer(ctx context.Context, token string, customerID uint) (*models.CustomerSession, error)
	DeleteExpired(ctx context.Context) (int64, error)
	GetActiveSessions(ctx context.Context, machineID uint) ([]models.CustomerSession, error)
	GetCustomerSessionCount(ctx context.Context, customerID uint) (int64, error)
}

// MachineLookup is the slice of the machine repository the session service
// needs at scan time.
type MachineLookup interface {
	GetByID(ctx context.Context, id uint) (*models.Machine, error)
}
