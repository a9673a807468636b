package cli

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/bibbank/amortization/internal/application/dto"
	grpcapi "github.com/bibbank/amortization/internal/presentation/grpc"
)

type fakeLoanService struct {
	apiKey      string
	created     *grpcapi.CreateLoanRequest
	sharedEmail string
	summaryArgs struct {
		loanID string
		month  int32
	}
}

func (f *fakeLoanService) CreateLoan(_ context.Context, req *grpcapi.CreateLoanRequest) (*grpcapi.CreateLoanResponse, error) {
	f.created = req
	return &grpcapi.CreateLoanResponse{Loan: dto.LoanResponse{ID: "loan-1", MonthlyPayment: "106.62", Currency: "USD"}}, nil
}

func (f *fakeLoanService) ListLoans(context.Context) (*grpcapi.ListLoansResponse, error) {
	return &grpcapi.ListLoansResponse{Loans: []dto.LoanResponse{
		{ID: "loan-1", OwnerID: "user-1", Principal: "1200.00", Currency: "USD", AnnualRate: "0.12", TermMonths: 12, MonthlyPayment: "106.62"},
	}}, nil
}

func (f *fakeLoanService) GetSchedule(_ context.Context, loanID string) (*grpcapi.GetScheduleResponse, error) {
	if loanID != "loan-1" {
		return nil, status.Error(codes.NotFound, "loan not found")
	}
	return &grpcapi.GetScheduleResponse{Schedule: dto.ScheduleResponse{
		LoanID: loanID,
		Entries: []dto.ScheduleEntryResponse{
			{Month: 1, Payment: "106.62", Interest: "12.00", PrincipalPortion: "94.62", RemainingBalance: "1105.38"},
		},
	}}, nil
}

func (f *fakeLoanService) GetMonthSummary(_ context.Context, loanID string, month int32) (*grpcapi.GetMonthSummaryResponse, error) {
	f.summaryArgs.loanID, f.summaryArgs.month = loanID, month
	return &grpcapi.GetMonthSummaryResponse{Summary: dto.MonthSummaryResponse{LoanID: loanID, Month: int(month), TotalPrincipalPaid: "1200.00"}}, nil
}

func (f *fakeLoanService) ShareLoan(_ context.Context, loanID, email string) (*grpcapi.ShareLoanResponse, error) {
	f.sharedEmail = email
	return &grpcapi.ShareLoanResponse{Loan: dto.LoanResponse{ID: loanID, SharedWith: []string{"user-2"}}}, nil
}

func useFakeLoanService(t *testing.T) *fakeLoanService {
	t.Helper()
	fake := &fakeLoanService{}
	orig := connectLoanService
	connectLoanService = func(_, _, apiKey string) (loanService, func() error, error) {
		fake.apiKey = apiKey
		return fake, func() error { return nil }, nil
	}
	t.Cleanup(func() { connectLoanService = orig })
	return fake
}

func TestLoansCreate(t *testing.T) {
	fake := useFakeLoanService(t)

	out, err := runCmd(t, "loans", "create", "--api-key", "k1", "--principal", "1200.00", "--rate", "0.12", "--term", "12")
	require.NoError(t, err)
	assert.Contains(t, out, "Created loan loan-1")
	assert.Equal(t, "k1", fake.apiKey)
	require.NotNil(t, fake.created)
	assert.Equal(t, "1200.00", fake.created.Principal)
	assert.Equal(t, int32(12), fake.created.TermMonths)
}

func TestLoansCreate_RejectsBadTermsLocally(t *testing.T) {
	fake := useFakeLoanService(t)

	_, err := runCmd(t, "loans", "create", "--api-key", "k1", "--principal", "abc", "--rate", "0.12", "--term", "12")
	require.Error(t, err)
	assert.Nil(t, fake.created)
}

func TestLoansList_JSON(t *testing.T) {
	useFakeLoanService(t)

	out, err := runCmd(t, "loans", "list", "--api-key", "k1", "-o", "json")
	require.NoError(t, err)
	var loans []dto.LoanResponse
	require.NoError(t, json.Unmarshal([]byte(out), &loans))
	require.Len(t, loans, 1)
	assert.Equal(t, "loan-1", loans[0].ID)
}

func TestLoansSchedule(t *testing.T) {
	useFakeLoanService(t)

	out, err := runCmd(t, "loans", "schedule", "loan-1", "--api-key", "k1")
	require.NoError(t, err)
	assert.Contains(t, out, "1105.38")

	_, err = runCmd(t, "loans", "schedule", "missing", "--api-key", "k1")
	assert.Equal(t, codes.NotFound, status.Code(err))
}

func TestLoansSummaryAndShare(t *testing.T) {
	fake := useFakeLoanService(t)

	_, err := runCmd(t, "loans", "summary", "loan-1", "--month", "12", "--api-key", "k1")
	require.NoError(t, err)
	assert.Equal(t, "loan-1", fake.summaryArgs.loanID)
	assert.Equal(t, int32(12), fake.summaryArgs.month)

	out, err := runCmd(t, "loans", "share", "loan-1", "--email", "friend@example.com", "--api-key", "k1")
	require.NoError(t, err)
	assert.Equal(t, "friend@example.com", fake.sharedEmail)
	assert.Contains(t, out, "shared with 1 user(s)")
}

func TestLoans_RequiresAPIKey(t *testing.T) {
	useFakeLoanService(t)
	t.Setenv("AMORTIZATION_API_KEY", "")

	_, err := runCmd(t, "loans", "list")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key is required")
}
