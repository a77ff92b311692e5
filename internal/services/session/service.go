package session

import (
	"context"
	"errors"
	"log"
	"time"

	domainErrors "vendhub/internal/errors"
	"vendhub/internal/models"
	"vendhub/internal/repositories"
	"vendhub/internal/services/qr"

	"github.com/google/uuid"
)

// DefaultExpiry is how long a session stays usable after the scan that
// created it.
const DefaultExpiry = 24 * time.Hour

type service struct {
	repo     repositories.SessionRepository
	machines MachineLookup
	qrSvc    qr.Service
	expiry   time.Duration
}

// NewService creates a new session service. expiry <= 0 falls back to
// DefaultExpiry.
func NewService(repo repositories.SessionRepository, machines MachineLookup, qrSvc qr.Service, expiry time.Duration) Service {
	if repo == nil {
		panic("session repository is required")
	}
	if machines == nil {
		panic("machine lookup is required")
	}
	if qrSvc == nil {
		panic("qr service is required")
	}
	if expiry <= 0 {
		expiry = DefaultExpiry
	}
	return &service{
		repo:     repo,
		machines: machines,
		qrSvc:    qrSvc,
		expiry:   expiry,
	}
}

func (s *service) QRLogin(ctx context.Context, scannedToken, ipAddress, userAgent string) (*models.CustomerSession, *models.Machine, error) {
	payload, err := s.qrSvc.Validate(scannedToken)
	if err != nil {
		return nil, nil, err
	}

	machine, err := s.machines.GetByID(ctx, payload.MachineID)
	if err != nil {
		if errors.Is(err, repositories.ErrMachineNotFound) {
			return nil, nil, domainErrors.ErrMachineNotFound
		}
		return nil, nil, err
	}
	if !machine.IsActive {
		return nil, nil, domainErrors.ErrMachineInactive
	}

	session, err := s.Create(ctx, CreateParams{
		MachineID:    machine.ID,
		ScannedToken: scannedToken,
		IPAddress:    ipAddress,
		UserAgent:    userAgent,
	})
	if err != nil {
		return nil, nil, err
	}
	return session, machine, nil
}

func (s *service) Create(ctx context.Context, params CreateParams) (*models.CustomerSession, error) {
	session := &models.CustomerSession{
		CustomerID:    params.CustomerID,
		MachineID:     params.MachineID,
		SessionToken:  uuid.NewString(),
		QRCodeScanned: params.ScannedToken,
		IPAddress:     params.IPAddress,
		UserAgent:     params.UserAgent,
		ExpiresAt:     time.Now().Add(s.expiry),
	}

	if err := s.repo.Create(ctx, session); err != nil {
		log.Printf("failed to create session for machine %d: %v", params.MachineID, err)
		return nil, err
	}
	return session, nil
}

func (s *service) FindByToken(ctx context.Context, token string) (*models.CustomerSession, error) {
	// Reject malformed tokens before touching storage.
	if _, err := uuid.Parse(token); err != nil {
		return nil, nil
	}

	session, err := s.repo.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, repositories.ErrSessionNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return session, nil
}

func (s *service) IsValid(ctx context.Context, token string) (bool, error) {
	session, err := s.FindByToken(ctx, token)
	if err != nil {
		return false, err
	}
	return session != nil && !session.Expired(), nil
}

func (s *service) LinkToCustomer(ctx context.Context, token string, customerID uint) (*models.CustomerSession, error) {
	session, err := s.FindByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, domainErrors.ErrSessionNotFound
	}
	if session.Expired() {
		return nil, domainErrors.ErrSessionExpired
	}

	if session.CustomerID != nil {
		if *session.CustomerID == customerID {
			return session, nil
		}
		return nil, domainErrors.ErrSessionAlreadyLinked
	}

	if err := s.repo.SetCustomer(ctx, session.ID, customerID); err != nil {
		if errors.Is(err, repositories.ErrSessionLinked) {
			return nil, domainErrors.ErrSessionAlreadyLinked
		}
		return nil, err
	}
	session.CustomerID = &customerID
	return session, nil
}

func (s *service) DeleteExpired(ctx context.Context) (int64, error) {
	return s.repo.DeleteExpired(ctx)
}

func (s *service) GetActiveSessions(ctx context.Context, machineID uint) ([]models.CustomerSession, error) {
	return s.repo.ListActiveByMachine(ctx, machineID)
}

func (s *service) GetCustomerSessionCount(ctx context.Context, customerID uint) (int64, error) {
	return s.repo.CountByCustomer(ctx, customerID)
}
