package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---------------------------------------------------------------------------
// Currency and Money
// ---------------------------------------------------------------------------

func TestNewCurrency(t *testing.T) {
	for _, code := range []string{"USD", "EUR", "JPY"} {
		c, err := NewCurrency(code)
		require.NoError(t, err, code)
		assert.Equal(t, code, c.Code())
	}
	for _, code := range []string{"", "usd", "US", "USDD", "US1"} {
		_, err := NewCurrency(code)
		assert.Error(t, err, "code %q", code)
	}
}

func TestMustCurrency_Panics(t *testing.T) {
	assert.Panics(t, func() { MustCurrency("bad") })
}

func TestMoney(t *testing.T) {
	m := New(decimal.RequireFromString("1200.5"), USD)
	assert.Equal(t, "1200.50 USD", m.String())
	assert.True(t, m.Equal(New(decimal.RequireFromString("1200.50"), USD)))
	assert.False(t, m.Equal(New(decimal.RequireFromString("1200.50"), MustCurrency("EUR"))))
}

// ---------------------------------------------------------------------------
// Rounding helpers
// ---------------------------------------------------------------------------

func TestDivRound(t *testing.T) {
	tests := []struct {
		num, den string
		want     string
	}{
		{"144", "12", "12.00"},
		{"1000", "3", "333.33"},
		{"2", "3", "0.67"},
		{"0.05", "4", "0.01"},  // 0.0125
		{"0.03", "4", "0.01"},  // 0.0075
		{"0.01", "4", "0.00"},  // 0.0025
		{"1000", "10", "100.00"},
		{"2.675", "1", "2.68"},
		{"1.005", "1", "1.01"},
	}
	for _, tt := range tests {
		got := DivRound(decimal.RequireFromString(tt.num), decimal.RequireFromString(tt.den))
		if Format(got) != tt.want {
			t.Errorf("DivRound(%s, %s) = %s, want %s", tt.num, tt.den, Format(got), tt.want)
		}
	}
}

func TestPowInt(t *testing.T) {
	tests := []struct {
		base string
		n    int
		want string
	}{
		{"2", 0, "1"},
		{"2", 10, "1024"},
		{"1.01", 2, "1.0201"},
		{"12.12", 3, "1780.360128"},
	}
	for _, tt := range tests {
		got := PowInt(decimal.RequireFromString(tt.base), tt.n)
		if !got.Equal(decimal.RequireFromString(tt.want)) {
			t.Errorf("PowInt(%s, %d) = %s, want %s", tt.base, tt.n, got, tt.want)
		}
	}
}

func TestHasCentPrecision(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"100", true},
		{"100.5", true},
		{"100.55", true},
		{"100.555", false},
		{"0.001", false},
	}
	for _, tt := range tests {
		if got := HasCentPrecision(decimal.RequireFromString(tt.in)); got != tt.want {
			t.Errorf("HasCentPrecision(%s) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
