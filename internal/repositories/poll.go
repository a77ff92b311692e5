package repositories

import (
	"context"
	"errors"

	"vendhub/internal/models"

	"gorm.io/gorm"
)

// VoteCount is one row of the per-option vote aggregation.
type VoteCount struct {
	PollOptionID uint
	VoteType     string
	Count        int64
}

// PollRepository defines data access for polls, options and votes.
type PollRepository interface {
	CreatePoll(poll *models.Poll) error
	GetPoll(ctx context.Context, id uint) (*models.Poll, error)
	ListByMachine(machineID uint) ([]models.Poll, error)
	UpdatePoll(poll *models.Poll) error
	GetOption(ctx context.Context, id uint) (*models.PollOption, error)
	// CreateVote inserts the vote row. A duplicate (option, voter) pair on
	// either identity axis fails with ErrDuplicateKey.
	CreateVote(ctx context.Context, vote *models.PollVote) error
	CountVotes(ctx context.Context, pollID uint) ([]VoteCount, error)
}

type pollRepository struct {
	db *gorm.DB
}

// NewPollRepository creates a new instance of PollRepository
func NewPollRepository(db *gorm.DB) PollRepository {
	return &pollRepository{db: db}
}

func (r *pollRepository) CreatePoll(poll *models.Poll) error {
	if err := r.db.Create(poll).Error; err != nil {
		return ErrDatabaseOperation
	}
	return nil
}

func (r *pollRepository) GetPoll(ctx context.Context, id uint) (*models.Poll, error) {
	var poll models.Poll
	err := r.db.WithContext(ctx).
		Preload("Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("poll_options.position, poll_options.id")
		}).
		First(&poll, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPollNotFound
		}
		return nil, err
	}
	return &poll, nil
}

func (r *pollRepository) ListByMachine(machineID uint) ([]models.Poll, error) {
	var polls []models.Poll
	err := r.db.
		Preload("Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("poll_options.position, poll_options.id")
		}).
		Where("machine_id = ?", machineID).
		Order("id DESC").
		Find(&polls).Error
	if err != nil {
		return nil, ErrDatabaseOperation
	}
	return polls, nil
}

func (r *pollRepository) UpdatePoll(poll *models.Poll) error {
	if err := r.db.Omit("Options").Save(poll).Error; err != nil {
		return ErrDatabaseOperation
	}
	return nil
}

func (r *pollRepository) GetOption(ctx context.Context, id uint) (*models.PollOption, error) {
	var option models.PollOption
	if err := r.db.WithContext(ctx).First(&option, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOptionNotFound
		}
		return nil, err
	}
	return &option, nil
}

func (r *pollRepository) CreateVote(ctx context.Context, vote *models.PollVote) error {
	if err := r.db.WithContext(ctx).Create(vote).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateKey
		}
		return ErrDatabaseOperation
	}
	return nil
}

func (r *pollRepository) CountVotes(ctx context.Context, pollID uint) ([]VoteCount, error) {
	var counts []VoteCount
	err := r.db.WithContext(ctx).
		Model(&models.PollVote{}).
		Select("poll_votes.poll_option_id, poll_votes.vote_type, count(*) as count").
		Joins("JOIN poll_options ON poll_options.id = poll_votes.poll_option_id").
		Where("poll_options.poll_id = ?", pollID).
		Group("poll_votes.poll_option_id, poll_votes.vote_type").
		Scan(&counts).Error
	if err != nil {
		return nil, ErrDatabaseOperation
	}
	return counts, nil
}
