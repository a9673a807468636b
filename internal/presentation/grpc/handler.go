package grpc

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/bibbank/amortization/internal/application/dto"
	"github.com/bibbank/amortization/internal/application/usecase"
	"github.com/bibbank/amortization/internal/domain"
	"github.com/bibbank/amortization/pkg/auth"
)

// ---------------------------------------------------------------------------
// LoanHandler exposes loan operations over gRPC.
// ---------------------------------------------------------------------------

// LoanHandler is the gRPC handler for loan operations. Callers are resolved
// by the auth interceptor before any method runs.
type LoanHandler struct {
	UnimplementedLoanServiceServer

	create   *usecase.CreateLoanUseCase
	list     *usecase.ListLoansUseCase
	schedule *usecase.GetScheduleUseCase
	summary  *usecase.GetMonthSummaryUseCase
	share    *usecase.ShareLoanUseCase
}

// NewLoanHandler creates a new handler with all use-case dependencies.
func NewLoanHandler(
	create *usecase.CreateLoanUseCase,
	list *usecase.ListLoansUseCase,
	schedule *usecase.GetScheduleUseCase,
	summary *usecase.GetMonthSummaryUseCase,
	share *usecase.ShareLoanUseCase,
) *LoanHandler {
	return &LoanHandler{
		create:   create,
		list:     list,
		schedule: schedule,
		summary:  summary,
		share:    share,
	}
}

func requesterID(ctx context.Context) (string, error) {
	p, ok := auth.PrincipalFromContext(ctx)
	if !ok || p.UserID == "" {
		return "", status.Error(codes.Unauthenticated, "no authenticated caller")
	}
	return p.UserID, nil
}

// CreateLoan creates a loan owned by the caller.
func (h *LoanHandler) CreateLoan(ctx context.Context, req *CreateLoanRequest) (*CreateLoanResponse, error) {
	userID, err := requesterID(ctx)
	if err != nil {
		return nil, err
	}

	principal, err := decimal.NewFromString(req.Principal)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid principal %q", req.Principal)
	}
	rate, err := decimal.NewFromString(req.AnnualRate)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid annual_rate %q", req.AnnualRate)
	}

	loan, err := h.create.Execute(ctx, dto.CreateLoanRequest{
		RequesterID: userID,
		Principal:   principal,
		AnnualRate:  rate,
		TermMonths:  int(req.TermMonths),
		Currency:    req.Currency,
	})
	if err != nil {
		return nil, toStatus(err)
	}
	return &CreateLoanResponse{Loan: loan}, nil
}

// ListLoans returns loans the caller owns or was granted.
func (h *LoanHandler) ListLoans(ctx context.Context, _ *ListLoansRequest) (*ListLoansResponse, error) {
	userID, err := requesterID(ctx)
	if err != nil {
		return nil, err
	}

	loans, err := h.list.Execute(ctx, dto.ListLoansRequest{RequesterID: userID})
	if err != nil {
		return nil, toStatus(err)
	}
	return &ListLoansResponse{Loans: loans}, nil
}

// GetSchedule returns the full amortization schedule.
func (h *LoanHandler) GetSchedule(ctx context.Context, req *GetScheduleRequest) (*GetScheduleResponse, error) {
	userID, err := requesterID(ctx)
	if err != nil {
		return nil, err
	}

	schedule, err := h.schedule.Execute(ctx, dto.GetScheduleRequest{RequesterID: userID, LoanID: req.LoanID})
	if err != nil {
		return nil, toStatus(err)
	}
	return &GetScheduleResponse{Schedule: schedule}, nil
}

// GetMonthSummary returns one month with cumulative totals.
func (h *LoanHandler) GetMonthSummary(ctx context.Context, req *GetMonthSummaryRequest) (*GetMonthSummaryResponse, error) {
	userID, err := requesterID(ctx)
	if err != nil {
		return nil, err
	}

	summary, err := h.summary.Execute(ctx, dto.GetMonthSummaryRequest{
		RequesterID: userID,
		LoanID:      req.LoanID,
		Month:       int(req.Month),
	})
	if err != nil {
		return nil, toStatus(err)
	}
	return &GetMonthSummaryResponse{Summary: summary}, nil
}

// ShareLoan grants the user registered under req.Email read access.
func (h *LoanHandler) ShareLoan(ctx context.Context, req *ShareLoanRequest) (*ShareLoanResponse, error) {
	userID, err := requesterID(ctx)
	if err != nil {
		return nil, err
	}

	loan, err := h.share.Execute(ctx, dto.ShareLoanRequest{
		RequesterID: userID,
		LoanID:      req.LoanID,
		Email:       req.Email,
	})
	if err != nil {
		return nil, toStatus(err)
	}
	return &ShareLoanResponse{Loan: loan}, nil
}

// toStatus maps domain errors to gRPC status codes. AccessDenied reads as
// NotFound, matching the HTTP API.
func toStatus(err error) error {
	var (
		validation *domain.ValidationError
		outOfRange *domain.OutOfRangeError
		notFound   *domain.NotFoundError
		denied     *domain.AccessDeniedError
		notOwner   *domain.NotOwnerError
		conflict   *domain.ConflictError
		unauth     *domain.UnauthenticatedError
	)

	switch {
	case errors.As(err, &validation):
		return status.Error(codes.InvalidArgument, validation.Message)
	case errors.As(err, &outOfRange):
		return status.Error(codes.OutOfRange, outOfRange.Message)
	case errors.As(err, &notFound):
		return status.Error(codes.NotFound, notFound.Message)
	case errors.As(err, &denied):
		return status.Error(codes.NotFound, "loan not found")
	case errors.As(err, &notOwner):
		return status.Error(codes.PermissionDenied, notOwner.Message)
	case errors.As(err, &conflict):
		return status.Error(codes.AlreadyExists, conflict.Message)
	case errors.As(err, &unauth):
		return status.Error(codes.Unauthenticated, unauth.Message)
	default:
		return status.Error(codes.Internal, "internal error")
	}
}
