package ledger

import (
	"context"
	"errors"
	"math"
	"time"

	domainErrors "vendhub/internal/errors"
	"vendhub/internal/models"
	"vendhub/internal/repositories"
)

func (s *service) Vote(ctx context.Context, pollID, optionID uint, voter VoterIdentity, voteType string) error {
	if !voter.valid() {
		return domainErrors.ErrUnauthorized
	}
	if voteType != models.VoteTypeLike && voteType != models.VoteTypeDislike {
		voteType = models.VoteTypeLike
	}

	poll, err := s.polls.GetPoll(ctx, pollID)
	if err != nil {
		if errors.Is(err, repositories.ErrPollNotFound) {
			return domainErrors.ErrPollNotFound
		}
		return err
	}
	if !poll.IsActive {
		return domainErrors.ErrPollInactive
	}
	if poll.ExpiresAt != nil && time.Now().After(*poll.ExpiresAt) {
		return domainErrors.ErrPollExpired
	}

	option, err := s.polls.GetOption(ctx, optionID)
	if err != nil {
		if errors.Is(err, repositories.ErrOptionNotFound) {
			return domainErrors.ErrInvalidOption
		}
		return err
	}
	if option.PollID != poll.ID {
		return domainErrors.ErrInvalidOption
	}

	vote := &models.PollVote{
		PollOptionID: option.ID,
		CustomerID:   voter.CustomerID,
		SessionID:    voter.SessionID,
		VoteType:     voteType,
	}
	if err := s.polls.CreateVote(ctx, vote); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return domainErrors.ErrAlreadyVoted
		}
		return err
	}
	return nil
}

func (s *service) Results(ctx context.Context, pollID uint) ([]OptionResult, error) {
	poll, err := s.polls.GetPoll(ctx, pollID)
	if err != nil {
		if errors.Is(err, repositories.ErrPollNotFound) {
			return nil, domainErrors.ErrPollNotFound
		}
		return nil, err
	}

	counts, err := s.polls.CountVotes(ctx, pollID)
	if err != nil {
		return nil, err
	}

	likes := make(map[uint]int64)
	dislikes := make(map[uint]int64)
	for _, c := range counts {
		switch c.VoteType {
		case models.VoteTypeDislike:
			dislikes[c.PollOptionID] += c.Count
		default:
			likes[c.PollOptionID] += c.Count
		}
	}

	results := make([]OptionResult, 0, len(poll.Options))
	for _, opt := range poll.Options {
		r := OptionResult{
			OptionID: opt.ID,
			Label:    opt.Label,
			Likes:    likes[opt.ID],
			Dislikes: dislikes[opt.ID],
		}
		r.TotalVotes = r.Likes + r.Dislikes
		r.ApprovePercent = approvePercent(r.Likes, r.TotalVotes)
		results = append(results, r)
	}
	return results, nil
}

// approvePercent is likes/total*100 rounded to one decimal, 0 when there are
// no votes.
func approvePercent(likes, total int64) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(likes)/float64(total)*1000) / 10
}
