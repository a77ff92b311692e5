package errors

var (
	ErrDiscountNotFound = &DomainError{
		Code:    "DISCOUNT_NOT_FOUND",
		Message: "discount code not found",
	}
	ErrWrongMachine = &DomainError{
		Code:    "WRONG_MACHINE",
		Message: "discount code is not valid for this machine",
	}
	ErrDiscountInactive = &DomainError{
		Code:    "DISCOUNT_INACTIVE",
		Message: "discount code is not active",
	}
	ErrDiscountNotYetValid = &DomainError{
		Code:    "DISCOUNT_NOT_YET_VALID",
		Message: "discount code is not valid yet",
	}
	ErrDiscountExpired = &DomainError{
		Code:    "DISCOUNT_EXPIRED",
		Message: "discount code has expired",
	}
	ErrDiscountLimitReached = &DomainError{
		Code:    "DISCOUNT_LIMIT_REACHED",
		Message: "discount code usage limit reached",
	}
	ErrAlreadyRedeemed = &DomainError{
		Code:    "ALREADY_REDEEMED",
		Message: "discount code already redeemed",
	}
)
