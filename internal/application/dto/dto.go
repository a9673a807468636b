package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// Amounts in responses are strings with exactly two fractional digits so
// that clients never see binary floating point.

// ---------------------------------------------------------------------------
// Request DTOs
// ---------------------------------------------------------------------------

// RegisterUserRequest carries the data needed to create an API user.
type RegisterUserRequest struct {
	Email string `json:"email" validate:"required,email,max=254"`
	Name  string `json:"name" validate:"max=200"`
}

// AuthenticateRequest carries the API key presented by a client.
type AuthenticateRequest struct {
	APIKey string `json:"-"`
}

// CreateLoanRequest carries the terms of a new loan. AnnualRate is a fraction
// (0.12 = 12%/yr).
type CreateLoanRequest struct {
	RequesterID string          `json:"-"`
	Principal   decimal.Decimal `json:"principal"`
	AnnualRate  decimal.Decimal `json:"annual_rate"`
	TermMonths  int             `json:"term_months" validate:"required,min=1,max=600"`
	Currency    string          `json:"currency" validate:"omitempty,len=3,uppercase"`
}

// ListLoansRequest identifies the caller whose visible loans are listed.
type ListLoansRequest struct {
	RequesterID string `json:"-"`
}

// GetScheduleRequest identifies a loan whose full schedule is requested.
type GetScheduleRequest struct {
	RequesterID string `json:"-"`
	LoanID      string `json:"loan_id"`
}

// GetMonthSummaryRequest identifies a loan and a 1-based month.
type GetMonthSummaryRequest struct {
	RequesterID string `json:"-"`
	LoanID      string `json:"loan_id"`
	Month       int    `json:"month"`
}

// ShareLoanRequest grants the user registered under Email read access.
type ShareLoanRequest struct {
	RequesterID string `json:"-"`
	LoanID      string `json:"-"`
	Email       string `json:"email" validate:"required,email"`
}

// ---------------------------------------------------------------------------
// Response DTOs
// ---------------------------------------------------------------------------

// UserResponse is the external representation of a user.
type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// RegisteredUserResponse is returned once, at registration, with the raw key.
type RegisteredUserResponse struct {
	UserResponse
	APIKey string `json:"api_key"`
}

// LoanResponse is the external representation of a loan.
type LoanResponse struct {
	ID             string    `json:"id"`
	OwnerID        string    `json:"owner_id"`
	Principal      string    `json:"principal"`
	AnnualRate     string    `json:"annual_rate"`
	TermMonths     int       `json:"term_months"`
	Currency       string    `json:"currency"`
	MonthlyPayment string    `json:"monthly_payment"`
	SharedWith     []string  `json:"shared_with"`
	CreatedAt      time.Time `json:"created_at"`
}

// ScheduleEntryResponse represents a single month of a schedule.
type ScheduleEntryResponse struct {
	Month            int    `json:"month"`
	Payment          string `json:"payment"`
	Interest         string `json:"interest"`
	PrincipalPortion string `json:"principal_portion"`
	RemainingBalance string `json:"remaining_balance"`
}

// ScheduleResponse is the full amortization schedule of a loan.
type ScheduleResponse struct {
	LoanID         string                  `json:"loan_id"`
	Currency       string                  `json:"currency"`
	MonthlyPayment string                  `json:"monthly_payment"`
	Entries        []ScheduleEntryResponse `json:"entries"`
}

// MonthSummaryResponse describes one month and the totals paid through it.
type MonthSummaryResponse struct {
	LoanID             string `json:"loan_id"`
	Currency           string `json:"currency"`
	Month              int    `json:"month"`
	Payment            string `json:"payment"`
	Interest           string `json:"interest"`
	PrincipalPortion   string `json:"principal_portion"`
	PrincipalBalance   string `json:"principal_balance"`
	TotalPrincipalPaid string `json:"total_principal_paid"`
	TotalInterestPaid  string `json:"total_interest_paid"`
}
