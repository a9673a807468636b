package valueobject_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/amortization/internal/domain"
	"github.com/bibbank/amortization/internal/domain/valueobject"
)

func TestNewAccessDecision(t *testing.T) {
	allowed, err := valueobject.NewAccessDecision("ALLOWED")
	require.NoError(t, err)
	assert.True(t, allowed.IsAllowed())
	assert.Equal(t, valueobject.AccessAllowed, allowed)

	denied, err := valueobject.NewAccessDecision("DENIED")
	require.NoError(t, err)
	assert.False(t, denied.IsAllowed())
	assert.Equal(t, "DENIED", denied.String())

	_, err = valueobject.NewAccessDecision("MAYBE")
	assert.Error(t, err)
}

func TestNewEmail(t *testing.T) {
	t.Run("normalizes case and whitespace", func(t *testing.T) {
		e, err := valueobject.NewEmail("  Alice@Example.COM ")
		require.NoError(t, err)
		assert.Equal(t, "alice@example.com", e.String())
	})

	for _, raw := range []string{"", "   ", "not-an-email", "Alice <alice@example.com>"} {
		t.Run("rejects "+raw, func(t *testing.T) {
			_, err := valueobject.NewEmail(raw)
			var verr *domain.ValidationError
			assert.True(t, errors.As(err, &verr))
		})
	}
}

func TestAPIKey(t *testing.T) {
	a, err := valueobject.GenerateAPIKey()
	require.NoError(t, err)
	b, err := valueobject.GenerateAPIKey()
	require.NoError(t, err)

	assert.Len(t, a.String(), 32)
	assert.NotEqual(t, a.String(), b.String())
	assert.Len(t, a.Hash(), 64)
	assert.Equal(t, a.Hash(), valueobject.ParseAPIKey(a.String()).Hash())
	assert.NotEqual(t, a.Hash(), b.Hash())
	assert.True(t, valueobject.ParseAPIKey("").IsZero())
}
