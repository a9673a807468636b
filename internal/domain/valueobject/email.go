package valueobject

import (
	"net/mail"
	"strings"

	"github.com/bibbank/amortization/internal/domain"
)

// Email is a normalized (trimmed, lower-cased) email address.
type Email struct {
	value string
}

// NewEmail validates and normalizes raw.
func NewEmail(raw string) (Email, error) {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	if normalized == "" {
		return Email{}, domain.ErrValidation("email is required")
	}
	addr, err := mail.ParseAddress(normalized)
	if err != nil || addr.Address != normalized {
		return Email{}, domain.ErrValidation("invalid email address %q", raw)
	}
	return Email{value: normalized}, nil
}

func (e Email) String() string { return e.value }
func (e Email) IsZero() bool   { return e.value == "" }
