package valueobject

import "fmt"

// ---------------------------------------------------------------------------
// AccessDecision – immutable value object
// ---------------------------------------------------------------------------

// AccessDecision is the outcome of checking a user against a loan.
type AccessDecision struct {
	value string
}

const (
	accessAllowed = "ALLOWED"
	accessDenied  = "DENIED"
)

var (
	AccessAllowed = AccessDecision{value: accessAllowed}
	AccessDenied  = AccessDecision{value: accessDenied}
)

// NewAccessDecision parses a raw decision string.
func NewAccessDecision(s string) (AccessDecision, error) {
	switch s {
	case accessAllowed:
		return AccessAllowed, nil
	case accessDenied:
		return AccessDenied, nil
	default:
		return AccessDecision{}, fmt.Errorf("invalid access decision: %q", s)
	}
}

func (d AccessDecision) String() string { return d.value }

// IsAllowed reports whether the decision grants read access.
func (d AccessDecision) IsAllowed() bool { return d.value == accessAllowed }
