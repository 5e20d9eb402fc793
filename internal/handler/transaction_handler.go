package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"pocket-ledger/internal/domain"
	"pocket-ledger/internal/errors"
	"pocket-ledger/internal/service"
)

// TransactionHandler exposes the balance-mutating operations. Authorization
// lives here, at the boundary: only the account's manager may move money or
// compress history. The services below perform no access control.
type TransactionHandler struct {
	accountService *service.AccountService
}

func NewTransactionHandler(accountService *service.AccountService) *TransactionHandler {
	return &TransactionHandler{
		accountService: accountService,
	}
}

type MoneyRequest struct {
	Amount      string `json:"amount"`
	Description string `json:"description,omitempty"`
	ManagerID   int64  `json:"manager_id"`
}

type CompressRequest struct {
	CutoffDate string `json:"cutoff_date,omitempty"`
	ManagerID  int64  `json:"manager_id"`
}

func (h *TransactionHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	accountID, amount, req, ok := h.decodeMoneyRequest(w, r)
	if !ok {
		return
	}

	transaction, err := h.accountService.Deposit(accountID, amount, req.Description)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeTransaction(w, transaction)
}

func (h *TransactionHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	accountID, amount, req, ok := h.decodeMoneyRequest(w, r)
	if !ok {
		return
	}

	transaction, err := h.accountService.Withdraw(accountID, amount, req.Description)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeTransaction(w, transaction)
}

func (h *TransactionHandler) Compress(w http.ResponseWriter, r *http.Request) {
	accountID, appErr := accountIDFromRequest(r)
	if appErr != nil {
		writeError(w, appErr)
		return
	}

	var req CompressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.NewAppError(errors.InvalidInput, "invalid request body"))
		return
	}

	if !h.requireManager(w, accountID, req.ManagerID) {
		return
	}

	var cutoff time.Time
	if req.CutoffDate != "" {
		parsed, err := time.Parse(time.RFC3339, req.CutoffDate)
		if err != nil {
			writeError(w, errors.NewAppError(errors.InvalidInput, "invalid cutoff_date, want RFC 3339"))
			return
		}
		cutoff = parsed
	}

	summary, err := h.accountService.CompressTransactions(accountID, cutoff)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeTransaction(w, summary)
}

// decodeMoneyRequest parses the path and body of a deposit or withdrawal and
// enforces the manager capability check.
func (h *TransactionHandler) decodeMoneyRequest(w http.ResponseWriter, r *http.Request) (int64, decimal.Decimal, *MoneyRequest, bool) {
	accountID, appErr := accountIDFromRequest(r)
	if appErr != nil {
		writeError(w, appErr)
		return 0, decimal.Zero, nil, false
	}

	var req MoneyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.NewAppError(errors.InvalidInput, "invalid request body"))
		return 0, decimal.Zero, nil, false
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		writeError(w, errors.NewAppError(errors.InvalidAmount, "invalid amount format"))
		return 0, decimal.Zero, nil, false
	}

	if !h.requireManager(w, accountID, req.ManagerID) {
		return 0, decimal.Zero, nil, false
	}

	return accountID, amount, &req, true
}

func (h *TransactionHandler) requireManager(w http.ResponseWriter, accountID, managerID int64) bool {
	account, err := h.accountService.GetAccount(accountID)
	if err != nil {
		writeServiceError(w, err)
		return false
	}

	if account.ManagerID != managerID {
		writeError(w, errors.ErrNotManager)
		return false
	}

	return true
}

func writeTransaction(w http.ResponseWriter, tx *domain.Transaction) {
	response := TransactionResponse{
		ID:          tx.ID.String(),
		AccountID:   tx.AccountID,
		Amount:      tx.Amount.String(),
		Description: tx.Description,
		CreatedAt:   tx.CreatedAt,
	}
	writeJSON(w, http.StatusCreated, response)
}
