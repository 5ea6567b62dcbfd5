package phone

import (
	"taskhub/internal/domain"

	"github.com/nyaruka/phonenumbers"
)

// Validator parses and normalizes mobile numbers to E.164. Numbers without a
// country prefix are interpreted against the configured default region.
type Validator struct {
	defaultRegion string
}

func NewValidator(defaultRegion string) *Validator {
	return &Validator{defaultRegion: defaultRegion}
}

func (v *Validator) Validate(number string) (string, error) {
	parsed, err := phonenumbers.Parse(number, v.defaultRegion)
	if err != nil {
		return "", domain.ErrInvalidPhone
	}
	if !phonenumbers.IsValidNumber(parsed) {
		return "", domain.ErrInvalidPhone
	}
	return phonenumbers.Format(parsed, phonenumbers.E164), nil
}
