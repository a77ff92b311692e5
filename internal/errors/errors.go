// Package errors defines the domain error values returned by services and
// translated to HTTP responses at the handler boundary.
package errors

// DomainError carries a stable machine-readable code alongside the
// human-readable message shown to clients.
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

var ErrUnauthorized = &DomainError{
	Code:    "UNAUTHORIZED",
	Message: "unauthorized",
}
