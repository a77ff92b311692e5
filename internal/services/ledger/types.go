package ledger

// VoterIdentity is the tagged identity a poll vote is keyed by: registered
// customers by their user id, anonymous scanners by their session id. Exactly
// one side is set.
type VoterIdentity struct {
	CustomerID *uint
	SessionID  *uint
}

// RegisteredVoter keys votes by customer id.
func RegisteredVoter(customerID uint) VoterIdentity {
	return VoterIdentity{CustomerID: &customerID}
}

// AnonymousVoter keys votes by session id.
func AnonymousVoter(sessionID uint) VoterIdentity {
	return VoterIdentity{SessionID: &sessionID}
}

func (v VoterIdentity) valid() bool {
	return (v.CustomerID != nil) != (v.SessionID != nil)
}

// RedemptionResult is returned after a proof-of-purchase submission.
type RedemptionResult struct {
	RedemptionID   uint
	PointsAwarded  int
	PointsBalance  int
	LifetimePoints int
}

// OptionResult is the aggregated outcome for one poll option.
type OptionResult struct {
	OptionID       uint    `json:"option_id"`
	Label          string  `json:"label"`
	Likes          int64   `json:"likes"`
	Dislikes       int64   `json:"dislikes"`
	TotalVotes     int64   `json:"total_votes"`
	ApprovePercent float64 `json:"approve_percent"`
}
