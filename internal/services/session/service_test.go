package session

import (
	"context"
	"testing"
	"time"

	domainErrors "vendhub/internal/errors"
	"vendhub/internal/models"
	"vendhub/internal/repositories"
	"vendhub/internal/services/qr"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockSessionRepo struct {
	mock.Mock
}

func (m *MockSessionRepo) Create(ctx context.Context, session *models.CustomerSession) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockSessionRepo) GetByToken(ctx context.Context, token string) (*models.CustomerSession, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CustomerSession), args.Error(1)
}

func (m *MockSessionRepo) SetCustomer(ctx context.Context, sessionID uint, customerID uint) error {
	args := m.Called(ctx, sessionID, customerID)
	return args.Error(0)
}

func (m *MockSessionRepo) DeleteExpired(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSessionRepo) ListActiveByMachine(ctx context.Context, machineID uint) ([]models.CustomerSession, error) {
	args := m.Called(ctx, machineID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.CustomerSession), args.Error(1)
}

func (m *MockSessionRepo) CountByCustomer(ctx context.Context, customerID uint) (int64, error) {
	args := m.Called(ctx, customerID)
	return args.Get(0).(int64), args.Error(1)
}

type MockMachines struct {
	mock.Mock
}

func (m *MockMachines) GetByID(ctx context.Context, id uint) (*models.Machine, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Machine), args.Error(1)
}

type MockQR struct {
	mock.Mock
}

func (m *MockQR) Generate(machineID uint) (*qr.GeneratedQR, error) {
	args := m.Called(machineID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*qr.GeneratedQR), args.Error(1)
}

func (m *MockQR) Validate(token string) (*qr.MachinePayload, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*qr.MachinePayload), args.Error(1)
}

func (m *MockQR) RenderImage(token, path string) error {
	args := m.Called(token, path)
	return args.Error(0)
}

func (m *MockQR) RenderDataURL(token string) (string, error) {
	args := m.Called(token)
	return args.String(0), args.Error(1)
}

func newTestService(repo *MockSessionRepo, machines *MockMachines, qrSvc *MockQR) Service {
	return NewService(repo, machines, qrSvc, 24*time.Hour)
}

func TestService_Create(t *testing.T) {
	repo := new(MockSessionRepo)
	machines := new(MockMachines)
	qrSvc := new(MockQR)

	repo.On("Create", mock.Anything, mock.MatchedBy(func(s *models.CustomerSession) bool {
		_, err := uuid.Parse(s.SessionToken)
		return err == nil && s.MachineID == 42 && s.CustomerID == nil
	})).Return(nil)

	svc := newTestService(repo, machines, qrSvc)
	sess, err := svc.Create(context.Background(), CreateParams{
		MachineID:    42,
		ScannedToken: "abc:def",
		IPAddress:    "10.0.0.1",
		UserAgent:    "scanner",
	})

	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), sess.ExpiresAt, time.Minute)
	repo.AssertExpectations(t)
}

func TestService_QRLogin(t *testing.T) {
	t.Run("happy path", func(t *testing.T) {
		repo := new(MockSessionRepo)
		machines := new(MockMachines)
		qrSvc := new(MockQR)

		qrSvc.On("Validate", "scanned-token").Return(&qr.MachinePayload{MachineID: 42, Timestamp: 1, UniqueID: "u"}, nil)
		machine := &models.Machine{VendorID: 1, Name: "Lobby", IsActive: true}
		machine.ID = 42
		machines.On("GetByID", mock.Anything, uint(42)).Return(machine, nil)
		repo.On("Create", mock.Anything, mock.Anything).Return(nil)

		svc := newTestService(repo, machines, qrSvc)
		sess, m, err := svc.QRLogin(context.Background(), "scanned-token", "10.0.0.1", "scanner")

		require.NoError(t, err)
		assert.Equal(t, uint(42), sess.MachineID)
		assert.Equal(t, "Lobby", m.Name)
	})

	t.Run("inactive machine", func(t *testing.T) {
		repo := new(MockSessionRepo)
		machines := new(MockMachines)
		qrSvc := new(MockQR)

		qrSvc.On("Validate", "scanned-token").Return(&qr.MachinePayload{MachineID: 42, Timestamp: 1, UniqueID: "u"}, nil)
		machine := &models.Machine{IsActive: false}
		machine.ID = 42
		machines.On("GetByID", mock.Anything, uint(42)).Return(machine, nil)

		svc := newTestService(repo, machines, qrSvc)
		_, _, err := svc.QRLogin(context.Background(), "scanned-token", "", "")
		assert.ErrorIs(t, err, domainErrors.ErrMachineInactive)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("unknown machine", func(t *testing.T) {
		repo := new(MockSessionRepo)
		machines := new(MockMachines)
		qrSvc := new(MockQR)

		qrSvc.On("Validate", "scanned-token").Return(&qr.MachinePayload{MachineID: 9, Timestamp: 1, UniqueID: "u"}, nil)
		machines.On("GetByID", mock.Anything, uint(9)).Return(nil, repositories.ErrMachineNotFound)

		svc := newTestService(repo, machines, qrSvc)
		_, _, err := svc.QRLogin(context.Background(), "scanned-token", "", "")
		assert.ErrorIs(t, err, domainErrors.ErrMachineNotFound)
	})

	t.Run("invalid payload", func(t *testing.T) {
		repo := new(MockSessionRepo)
		machines := new(MockMachines)
		qrSvc := new(MockQR)

		qrSvc.On("Validate", "bad").Return(nil, domainErrors.ErrInvalidQRPayload)

		svc := newTestService(repo, machines, qrSvc)
		_, _, err := svc.QRLogin(context.Background(), "bad", "", "")
		assert.ErrorIs(t, err, domainErrors.ErrInvalidQRPayload)
		machines.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	})
}

func TestService_FindByToken(t *testing.T) {
	t.Run("malformed token skips storage", func(t *testing.T) {
		repo := new(MockSessionRepo)
		svc := newTestService(repo, new(MockMachines), new(MockQR))

		sess, err := svc.FindByToken(context.Background(), "not-a-uuid")
		require.NoError(t, err)
		assert.Nil(t, sess)
		repo.AssertNotCalled(t, "GetByToken", mock.Anything, mock.Anything)
	})

	t.Run("missing session returns nil without error", func(t *testing.T) {
		repo := new(MockSessionRepo)
		token := uuid.NewString()
		repo.On("GetByToken", mock.Anything, token).Return(nil, repositories.ErrSessionNotFound)

		svc := newTestService(repo, new(MockMachines), new(MockQR))
		sess, err := svc.FindByToken(context.Background(), token)
		require.NoError(t, err)
		assert.Nil(t, sess)
	})
}

func TestService_IsValid(t *testing.T) {
	token := uuid.NewString()

	tests := []struct {
		name      string
		expiresAt time.Time
		want      bool
	}{
		{"live session", time.Now().Add(time.Hour), true},
		{"expired session", time.Now().Add(-time.Hour), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockSessionRepo)
			repo.On("GetByToken", mock.Anything, token).
				Return(&models.CustomerSession{SessionToken: token, ExpiresAt: tt.expiresAt}, nil)

			svc := newTestService(repo, new(MockMachines), new(MockQR))
			valid, err := svc.IsValid(context.Background(), token)
			require.NoError(t, err)
			assert.Equal(t, tt.want, valid)
		})
	}
}

func TestService_LinkToCustomer(t *testing.T) {
	token := uuid.NewString()
	customerID := uint(7)
	otherID := uint(8)

	newSession := func(linkedTo *uint) *models.CustomerSession {
		s := &models.CustomerSession{
			CustomerID:   linkedTo,
			MachineID:    42,
			SessionToken: token,
			ExpiresAt:    time.Now().Add(time.Hour),
		}
		s.ID = 5
		return s
	}

	t.Run("links anonymous session", func(t *testing.T) {
		repo := new(MockSessionRepo)
		repo.On("GetByToken", mock.Anything, token).Return(newSession(nil), nil)
		repo.On("SetCustomer", mock.Anything, uint(5), customerID).Return(nil)

		svc := newTestService(repo, new(MockMachines), new(MockQR))
		sess, err := svc.LinkToCustomer(context.Background(), token, customerID)
		require.NoError(t, err)
		require.NotNil(t, sess.CustomerID)
		assert.Equal(t, customerID, *sess.CustomerID)
		assert.Equal(t, uint(42), sess.MachineID)
		repo.AssertExpectations(t)
	})

	t.Run("same customer is a no-op", func(t *testing.T) {
		repo := new(MockSessionRepo)
		repo.On("GetByToken", mock.Anything, token).Return(newSession(&customerID), nil)

		svc := newTestService(repo, new(MockMachines), new(MockQR))
		sess, err := svc.LinkToCustomer(context.Background(), token, customerID)
		require.NoError(t, err)
		assert.Equal(t, customerID, *sess.CustomerID)
		assert.Equal(t, uint(42), sess.MachineID)
		repo.AssertNotCalled(t, "SetCustomer", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("different customer is rejected", func(t *testing.T) {
		repo := new(MockSessionRepo)
		repo.On("GetByToken", mock.Anything, token).Return(newSession(&customerID), nil)

		svc := newTestService(repo, new(MockMachines), new(MockQR))
		_, err := svc.LinkToCustomer(context.Background(), token, otherID)
		assert.ErrorIs(t, err, domainErrors.ErrSessionAlreadyLinked)
		repo.AssertNotCalled(t, "SetCustomer", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("losing a concurrent link is rejected", func(t *testing.T) {
		// The session reads as unlinked, but another link to a different
		// customer commits first; the conditional write surfaces the conflict.
		repo := new(MockSessionRepo)
		repo.On("GetByToken", mock.Anything, token).Return(newSession(nil), nil)
		repo.On("SetCustomer", mock.Anything, uint(5), customerID).Return(repositories.ErrSessionLinked)

		svc := newTestService(repo, new(MockMachines), new(MockQR))
		_, err := svc.LinkToCustomer(context.Background(), token, customerID)
		assert.ErrorIs(t, err, domainErrors.ErrSessionAlreadyLinked)
	})

	t.Run("expired session is rejected", func(t *testing.T) {
		repo := new(MockSessionRepo)
		expired := newSession(nil)
		expired.ExpiresAt = time.Now().Add(-time.Minute)
		repo.On("GetByToken", mock.Anything, token).Return(expired, nil)

		svc := newTestService(repo, new(MockMachines), new(MockQR))
		_, err := svc.LinkToCustomer(context.Background(), token, customerID)
		assert.ErrorIs(t, err, domainErrors.ErrSessionExpired)
	})

	t.Run("missing session", func(t *testing.T) {
		repo := new(MockSessionRepo)
		repo.On("GetByToken", mock.Anything, token).Return(nil, repositories.ErrSessionNotFound)

		svc := newTestService(repo, new(MockMachines), new(MockQR))
		_, err := svc.LinkToCustomer(context.Background(), token, customerID)
		assert.ErrorIs(t, err, domainErrors.ErrSessionNotFound)
	})
}

func TestService_DeleteExpired(t *testing.T) {
	repo := new(MockSessionRepo)
	repo.On("DeleteExpired", mock.Anything).Return(int64(3), nil)

	svc := newTestService(repo, new(MockMachines), new(MockQR))
	count, err := svc.DeleteExpired(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}

func TestService_GetActiveSessions(t *testing.T) {
	repo := new(MockSessionRepo)
	repo.On("ListActiveByMachine", mock.Anything, uint(42)).
		Return([]models.CustomerSession{
			{MachineID: 42, SessionToken: uuid.NewString(), ExpiresAt: time.Now().Add(time.Hour)},
			{MachineID: 42, SessionToken: uuid.NewString(), ExpiresAt: time.Now().Add(2 * time.Hour)},
		}, nil)

	svc := newTestService(repo, new(MockMachines), new(MockQR))
	sessions, err := svc.GetActiveSessions(context.Background(), 42)
	require.NoError(t, err)
	assert.Len(t, sessions, 2)
}

func TestService_GetCustomerSessionCount(t *testing.T) {
	repo := new(MockSessionRepo)
	repo.On("CountByCustomer", mock.Anything, uint(7)).Return(int64(5), nil)

	svc := newTestService(repo, new(MockMachines), new(MockQR))
	count, err := svc.GetCustomerSessionCount(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, int64(5), count)
}
