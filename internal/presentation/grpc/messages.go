package grpc

import "github.com/bibbank/amortization/internal/application/dto"

// Messages of amortization.v1.LoanService. Amounts travel as decimal strings.

type CreateLoanRequest struct {
	Principal  string `json:"principal"`
	AnnualRate string `json:"annual_rate"`
	TermMonths int32  `json:"term_months"`
	Currency   string `json:"currency,omitempty"`
}

type CreateLoanResponse struct {
	Loan dto.LoanResponse `json:"loan"`
}

type ListLoansRequest struct{}

type ListLoansResponse struct {
	Loans []dto.LoanResponse `json:"loans"`
}

type GetScheduleRequest struct {
	LoanID string `json:"loan_id"`
}

type GetScheduleResponse struct {
	Schedule dto.ScheduleResponse `json:"schedule"`
}

type GetMonthSummaryRequest struct {
	LoanID string `json:"loan_id"`
	Month  int32  `json:"month"`
}

type GetMonthSummaryResponse struct {
	Summary dto.MonthSummaryResponse `json:"summary"`
}

type ShareLoanRequest struct {
	LoanID string `json:"loan_id"`
	Email  string `json:"email"`
}

type ShareLoanResponse struct {
	Loan dto.LoanResponse `json:"loan"`
}
