package service

// PhoneValidator checks a mobile number and returns its canonical E.164 form.
// A rejected number is domain.ErrInvalidPhone.
type PhoneValidator interface {
	Validate(number string) (normalized string, err error)
}
