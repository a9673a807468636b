package model_test

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/amortization/internal/domain"
	"github.com/bibbank/amortization/internal/domain/event"
	"github.com/bibbank/amortization/internal/domain/model"
	"github.com/bibbank/amortization/internal/domain/valueobject"
	"github.com/bibbank/amortization/pkg/money"
)

var now = time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)

func newLoan(t *testing.T, owner string) model.Loan {
	t.Helper()
	loan, err := model.NewLoan(owner, d("1200.00"), d("0.12"), 12, "USD", now)
	require.NoError(t, err)
	return loan
}

func TestNewLoan(t *testing.T) {
	loan := newLoan(t, "user-a")

	assert.NotEmpty(t, loan.ID())
	assert.Equal(t, "user-a", loan.OwnerID())
	assert.Equal(t, "1200.00 USD", loan.Principal().String())
	assert.True(t, loan.AnnualRate().Equal(d("0.12")))
	assert.Equal(t, 12, loan.TermMonths())
	assert.Equal(t, now, loan.CreatedAt())
	assert.Empty(t, loan.SharedWith())

	require.Len(t, loan.DomainEvents(), 1)
	created, ok := loan.DomainEvents()[0].(event.LoanCreated)
	require.True(t, ok)
	assert.Equal(t, event.TypeLoanCreated, created.EventType())
	assert.Equal(t, loan.ID(), created.AggregateID())
	assert.Equal(t, "user-a", created.OwnerID)

	assert.Empty(t, loan.ClearEvents().DomainEvents())
}

func TestNewLoan_DefaultsCurrency(t *testing.T) {
	loan, err := model.NewLoan("user-a", d("10"), d("0"), 1, "", now)
	require.NoError(t, err)
	assert.Equal(t, money.USD.Code(), loan.Currency())
}

func TestNewLoan_ValidationErrors(t *testing.T) {
	tests := []struct {
		name     string
		owner    string
		currency string
		months   int
	}{
		{"missing owner", "", "USD", 12},
		{"bad currency", "user-a", "usd", 12},
		{"bad term", "user-a", "USD", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := model.NewLoan(tt.owner, d("100"), d("0.05"), tt.months, tt.currency, now)
			var verr *domain.ValidationError
			assert.True(t, errors.As(err, &verr), "got %v", err)
		})
	}
}

func TestLoan_UniqueIDs(t *testing.T) {
	a := newLoan(t, "user-a")
	b := newLoan(t, "user-a")
	assert.NotEqual(t, a.ID(), b.ID())
}

func TestLoan_AccessFor(t *testing.T) {
	loan := newLoan(t, "user-a")
	shared, err := loan.ShareWith("user-a", "user-b", now)
	require.NoError(t, err)

	assert.Equal(t, valueobject.AccessAllowed, shared.AccessFor("user-a"), "owner")
	assert.Equal(t, valueobject.AccessAllowed, shared.AccessFor("user-b"), "grantee")
	assert.Equal(t, valueobject.AccessDenied, shared.AccessFor("user-c"), "stranger")
	assert.Equal(t, valueobject.AccessDenied, shared.AccessFor(""), "anonymous")

	// The original value is untouched.
	assert.Equal(t, valueobject.AccessDenied, loan.AccessFor("user-b"))
}

func TestLoan_ShareWith(t *testing.T) {
	t.Run("owner grants access and records event", func(t *testing.T) {
		loan := newLoan(t, "user-a").ClearEvents()

		shared, err := loan.ShareWith("user-a", "user-b", now)
		require.NoError(t, err)
		assert.Equal(t, []string{"user-b"}, shared.SharedWith())

		require.Len(t, shared.DomainEvents(), 1)
		evt, ok := shared.DomainEvents()[0].(event.LoanShared)
		require.True(t, ok)
		assert.Equal(t, "user-b", evt.SharedWith)
	})

	t.Run("sharing twice is idempotent", func(t *testing.T) {
		loan := newLoan(t, "user-a").ClearEvents()

		once, err := loan.ShareWith("user-a", "user-b", now)
		require.NoError(t, err)
		twice, err := once.ClearEvents().ShareWith("user-a", "user-b", now)
		require.NoError(t, err)

		assert.Equal(t, []string{"user-b"}, twice.SharedWith())
		assert.Empty(t, twice.DomainEvents())
	})

	t.Run("non-owner cannot share", func(t *testing.T) {
		loan := newLoan(t, "user-a")
		shared, err := loan.ShareWith("user-a", "user-b", now)
		require.NoError(t, err)

		_, err = shared.ShareWith("user-b", "user-c", now)
		var notOwner *domain.NotOwnerError
		assert.True(t, errors.As(err, &notOwner), "got %v", err)
	})

	t.Run("owner cannot share with self", func(t *testing.T) {
		loan := newLoan(t, "user-a")
		_, err := loan.ShareWith("user-a", "user-a", now)
		var verr *domain.ValidationError
		assert.True(t, errors.As(err, &verr), "got %v", err)
	})

	t.Run("shared set is not aliased", func(t *testing.T) {
		loan := newLoan(t, "user-a")
		one, err := loan.ShareWith("user-a", "user-b", now)
		require.NoError(t, err)
		two, err := one.ShareWith("user-a", "user-c", now)
		require.NoError(t, err)

		list := two.SharedWith()
		list[0] = "mutated"
		assert.Equal(t, []string{"user-b"}, one.SharedWith())
		assert.Equal(t, []string{"user-b", "user-c"}, two.SharedWith())
	})
}

func TestLoan_ConcurrentAccessChecks(t *testing.T) {
	loan := newLoan(t, "user-a")
	shared, err := loan.ShareWith("user-a", "user-b", now)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.True(t, shared.AccessFor("user-b").IsAllowed())
			_, err := model.GenerateSchedule(shared.Terms())
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
}

func TestReconstructLoan(t *testing.T) {
	principal := money.New(d("5000.00"), money.MustCurrency("EUR"))
	loan := model.ReconstructLoan("loan-1", "user-a", principal, d("0.05"), 24, []string{"user-b"}, now)

	assert.Equal(t, "loan-1", loan.ID())
	assert.Equal(t, "EUR", loan.Currency())
	assert.Equal(t, valueobject.AccessAllowed, loan.AccessFor("user-b"))
	assert.Empty(t, loan.DomainEvents())
	assert.Equal(t, 24, loan.Terms().TermMonths)
	assert.True(t, loan.Terms().Principal.Equal(d("5000")))
}

func TestNewUser(t *testing.T) {
	email, err := valueobject.NewEmail("Alice@Example.com")
	require.NoError(t, err)

	user, key, err := model.NewUser(email, "  Alice ", now)
	require.NoError(t, err)

	assert.NotEmpty(t, user.ID())
	assert.Equal(t, "alice@example.com", user.Email().String())
	assert.Equal(t, "Alice", user.Name())
	assert.False(t, key.IsZero())
	assert.Equal(t, key.Hash(), user.APIKeyHash())
	assert.NotEqual(t, key.String(), user.APIKeyHash())

	require.Len(t, user.DomainEvents(), 1)
	assert.Equal(t, event.TypeUserRegistered, user.DomainEvents()[0].EventType())
}
