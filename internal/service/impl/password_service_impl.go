package impl

import (
	"golang.org/x/crypto/bcrypt"
)

// PasswordServiceImpl hashes passwords with bcrypt after appending a
// server-wide pepper. The pepper lives in deployment config, never in the
// database, so a dumped users table alone is not enough to start cracking.
// Per-hash salt and cost ride inside the bcrypt digest itself.
type PasswordServiceImpl struct {
	pepper string
	cost   int
}

func NewPasswordServiceBcrypt(pepper string) *PasswordServiceImpl {
	return &PasswordServiceImpl{pepper: pepper, cost: bcrypt.DefaultCost}
}

func (p *PasswordServiceImpl) Hash(password string) (string, error) {
	if password == "" {
		return "", ErrEmptyPassword
	}
	digest, err := bcrypt.GenerateFromPassword([]byte(password+p.pepper), p.cost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

func (p *PasswordServiceImpl) Verify(password, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(password+p.pepper)) == nil
}
