package impl

import "errors"

var (
	ErrEmptyPassword  = errors.New("empty password")
	ErrBadOtpLength   = errors.New("otp length must be positive")
	ErrNoUpdateFields = errors.New("at least one field must be provided for update")
	ErrInvalidStatus  = errors.New("invalid todo status")
)
