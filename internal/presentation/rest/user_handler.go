package rest

import (
	"log/slog"
	"net/http"

	"github.com/bibbank/amortization/internal/application/dto"
	"github.com/bibbank/amortization/internal/application/usecase"
)

// UserHandler serves user registration and listing.
type UserHandler struct {
	register *usecase.RegisterUserUseCase
	list     *usecase.ListUsersUseCase
	logger   *slog.Logger
}

// NewUserHandler wires the user use cases.
func NewUserHandler(register *usecase.RegisterUserUseCase, list *usecase.ListUsersUseCase, logger *slog.Logger) *UserHandler {
	return &UserHandler{register: register, list: list, logger: logger}
}

// HandleRegister handles POST /users.
func (h *UserHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterUserRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	resp, err := h.register.Execute(r.Context(), req)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

// HandleList handles GET /users.
func (h *UserHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	resp, err := h.list.Execute(r.Context())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
