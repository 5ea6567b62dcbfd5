package phone

import (
	"errors"
	"testing"

	"taskhub/internal/domain"
)

func TestValidateNormalizesToE164(t *testing.T) {
	v := NewValidator("IN")

	cases := []struct {
		in   string
		want string
	}{
		{"9876543210", "+919876543210"},
		{"+919876543210", "+919876543210"},
		{"+14155552671", "+14155552671"}, // explicit prefix overrides the region
	}
	for _, tc := range cases {
		got, err := v.Validate(tc.in)
		if err != nil {
			t.Fatalf("Validate(%q): %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("Validate(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestValidateRejectsGarbage(t *testing.T) {
	v := NewValidator("IN")

	for _, in := range []string{"", "not a number", "123", "+91123"} {
		if _, err := v.Validate(in); !errors.Is(err, domain.ErrInvalidPhone) {
			t.Fatalf("Validate(%q): expected ErrInvalidPhone, got %v", in, err)
		}
	}
}
