package errors

var (
	ErrSessionNotFound = &DomainError{
		Code:    "SESSION_NOT_FOUND",
		Message: "session not found",
	}
	ErrSessionExpired = &DomainError{
		Code:    "SESSION_EXPIRED",
		Message: "session has expired",
	}
	ErrSessionAlreadyLinked = &DomainError{
		Code:    "SESSION_ALREADY_LINKED",
		Message: "session is already linked to another customer",
	}
)
