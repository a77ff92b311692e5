package errors

var (
	ErrInvalidQRPayload = &DomainError{
		Code:    "INVALID_QR_PAYLOAD",
		Message: "QR code payload is invalid",
	}
	ErrQRPayloadExpired = &DomainError{
		Code:    "QR_PAYLOAD_EXPIRED",
		Message: "QR code payload has expired",
	}
	ErrMachineNotFound = &DomainError{
		Code:    "MACHINE_NOT_FOUND",
		Message: "machine not found",
	}
	ErrMachineInactive = &DomainError{
		Code:    "MACHINE_INACTIVE",
		Message: "machine is not active",
	}
)
