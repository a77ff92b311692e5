package poll

import (
	"context"
	"errors"
	"time"

	domainErrors "vendhub/internal/errors"
	"vendhub/internal/models"
	"vendhub/internal/repositories"
)

var ErrNotOwner = errors.New("poll does not belong to this vendor")

// CreateParams describes a new poll and its ordered options.
type CreateParams struct {
	MachineID uint
	Question  string
	Options   []string
	ExpiresAt *time.Time
}

// Service manages vendor-side poll administration. Voting and results live in
// the ledger service.
type Service interface {
	Create(ctx context.Context, vendorID uint, params CreateParams) (*models.Poll, error)
	ListByMachine(ctx context.Context, vendorID, machineID uint) ([]models.Poll, error)
	Close(ctx context.Context, vendorID, pollID uint) error
}

type service struct {
	repo     repositories.PollRepository
	machines repositories.MachineRepository
}

// NewService creates a new poll service
func NewService(repo repositories.PollRepository, machines repositories.MachineRepository) Service {
	if repo == nil {
		panic("poll repository is required")
	}
	if machines == nil {
		panic("machine repository is required")
	}
	return &service{repo: repo, machines: machines}
}

func (s *service) Create(ctx context.Context, vendorID uint, params CreateParams) (*models.Poll, error) {
	if err := s.checkOwnership(ctx, vendorID, params.MachineID); err != nil {
		return nil, err
	}
	if params.Question == "" || len(params.Options) < 1 {
		return nil, errors.New("a poll needs a question and at least one option")
	}

	poll := &models.Poll{
		MachineID: params.MachineID,
		VendorID:  vendorID,
		Question:  params.Question,
		IsActive:  true,
		ExpiresAt: params.ExpiresAt,
	}
	for i, label := range params.Options {
		poll.Options = append(poll.Options, models.PollOption{Label: label, Position: i})
	}

	if err := s.repo.CreatePoll(poll); err != nil {
		return nil, err
	}
	return poll, nil
}

func (s *service) ListByMachine(ctx context.Context, vendorID, machineID uint) ([]models.Poll, error) {
	if err := s.checkOwnership(ctx, vendorID, machineID); err != nil {
		return nil, err
	}
	return s.repo.ListByMachine(machineID)
}

func (s *service) Close(ctx context.Context, vendorID, pollID uint) error {
	poll, err := s.repo.GetPoll(ctx, pollID)
	if err != nil {
		if errors.Is(err, repositories.ErrPollNotFound) {
			return domainErrors.ErrPollNotFound
		}
		return err
	}
	if poll.VendorID != vendorID {
		return ErrNotOwner
	}
	poll.IsActive = false
	return s.repo.UpdatePoll(poll)
}

func (s *service) checkOwnership(ctx context.Context, vendorID, machineID uint) error {
	machine, err := s.machines.GetByID(ctx, machineID)
	if err != nil {
		if errors.Is(err, repositories.ErrMachineNotFound) {
			return domainErrors.ErrMachineNotFound
		}
		return err
	}
	if machine.VendorID != vendorID {
		return ErrNotOwner
	}
	return nil
}
