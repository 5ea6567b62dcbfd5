package service

type PasswordService interface {
	Hash(password string) (string, error)
	// Verify reports whether the password matches the stored digest; a wrong
	// password is false, never an error.
	Verify(password, digest string) bool
}
