package domain

import "errors"

var (
	ErrDuplicateEmail    = errors.New("email already registered")
	ErrDuplicateUsername = errors.New("username already taken")
	ErrDuplicateMobile   = errors.New("mobile number already registered")
	ErrInvalidPhone      = errors.New("invalid phone number")

	ErrOtpDeliveryFailed   = errors.New("could not deliver verification code")
	ErrInvalidOrExpiredOtp = errors.New("invalid or expired otp")
	ErrTooManyOtpRequests  = errors.New("too many otp requests")
	ErrAlreadyVerified     = errors.New("phone already verified")
	ErrVerificationFailed  = errors.New("could not persist verification")

	// ErrInvalidCredentials covers both unknown email and wrong password so
	// login failures do not reveal which accounts exist.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrPhoneNotVerified   = errors.New("phone not verified")

	ErrExpiredToken        = errors.New("token expired")
	ErrInvalidToken        = errors.New("invalid token")
	ErrUnknownRefreshToken = errors.New("unknown refresh token")
	ErrDeviceMismatch      = errors.New("device uuid mismatch")

	ErrUserNotFound = errors.New("user not found")
	ErrTodoNotFound = errors.New("todo not found")
)
