package rest

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/bibbank/amortization/internal/application/dto"
	"github.com/bibbank/amortization/internal/application/usecase"
	"github.com/bibbank/amortization/pkg/auth"
)

// LoanHandler serves loan creation, listing, schedules and sharing. Every
// route requires an authenticated principal.
type LoanHandler struct {
	create   *usecase.CreateLoanUseCase
	list     *usecase.ListLoansUseCase
	schedule *usecase.GetScheduleUseCase
	summary  *usecase.GetMonthSummaryUseCase
	share    *usecase.ShareLoanUseCase
	logger   *slog.Logger
}

// NewLoanHandler wires the loan use cases.
func NewLoanHandler(
	create *usecase.CreateLoanUseCase,
	list *usecase.ListLoansUseCase,
	schedule *usecase.GetScheduleUseCase,
	summary *usecase.GetMonthSummaryUseCase,
	share *usecase.ShareLoanUseCase,
	logger *slog.Logger,
) *LoanHandler {
	return &LoanHandler{
		create:   create,
		list:     list,
		schedule: schedule,
		summary:  summary,
		share:    share,
		logger:   logger,
	}
}

func requesterID(r *http.Request) string {
	p, _ := auth.PrincipalFromContext(r.Context())
	return p.UserID
}

// HandleCreate handles POST /loans.
func (h *LoanHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateLoanRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	req.RequesterID = requesterID(r)

	resp, err := h.create.Execute(r.Context(), req)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

// HandleList handles GET /loans.
func (h *LoanHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	resp, err := h.list.Execute(r.Context(), dto.ListLoansRequest{RequesterID: requesterID(r)})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// HandleSchedule handles GET /loans/{id}/schedule.
func (h *LoanHandler) HandleSchedule(w http.ResponseWriter, r *http.Request) {
	resp, err := h.schedule.Execute(r.Context(), dto.GetScheduleRequest{
		RequesterID: requesterID(r),
		LoanID:      chi.URLParam(r, "id"),
	})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// HandleSummary handles GET /loans/{id}/summary?month=N.
func (h *LoanHandler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("month")
	if raw == "" {
		writeProblem(w, http.StatusBadRequest, "bad_request", "month query parameter is required", nil)
		return
	}
	month, err := strconv.Atoi(raw)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "bad_request", "month must be an integer", nil)
		return
	}

	resp, err := h.summary.Execute(r.Context(), dto.GetMonthSummaryRequest{
		RequesterID: requesterID(r),
		LoanID:      chi.URLParam(r, "id"),
		Month:       month,
	})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// HandleShare handles POST /loans/{id}/share.
func (h *LoanHandler) HandleShare(w http.ResponseWriter, r *http.Request) {
	var req dto.ShareLoanRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	req.RequesterID = requesterID(r)
	req.LoanID = chi.URLParam(r, "id")

	resp, err := h.share.Execute(r.Context(), req)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
