package errors

var (
	ErrPollNotFound = &DomainError{
		Code:    "POLL_NOT_FOUND",
		Message: "poll not found",
	}
	ErrPollInactive = &DomainError{
		Code:    "POLL_INACTIVE",
		Message: "poll is not active",
	}
	ErrPollExpired = &DomainError{
		Code:    "POLL_EXPIRED",
		Message: "poll has expired",
	}
	ErrInvalidOption = &DomainError{
		Code:    "INVALID_OPTION",
		Message: "option does not belong to this poll",
	}
	ErrAlreadyVoted = &DomainError{
		Code:    "ALREADY_VOTED",
		Message: "already voted on this option",
	}
)
