package handler

import (
	"encoding/json"
	"net/http"

	"pocket-ledger/internal/errors"
	"pocket-ledger/internal/service"
)

type UserHandler struct {
	registrationService *service.RegistrationService
}

func NewUserHandler(registrationService *service.RegistrationService) *UserHandler {
	return &UserHandler{
		registrationService: registrationService,
	}
}

type RegisterRequest struct {
	Username string `json:"username"`
}

type RegisterResponse struct {
	UserID    int64  `json:"user_id"`
	Username  string `json:"username"`
	AccountID int64  `json:"account_id"`
}

func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.NewAppError(errors.InvalidInput, "invalid request body"))
		return
	}

	user, account, err := h.registrationService.Register(req.Username)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response := RegisterResponse{
		UserID:    user.ID,
		Username:  user.Username,
		AccountID: account.ID,
	}

	writeJSON(w, http.StatusCreated, response)
}
