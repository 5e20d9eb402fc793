package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"pocket-ledger/internal/errors"
	"pocket-ledger/internal/service"
)

type AccountHandler struct {
	accountService *service.AccountService
}

func NewAccountHandler(accountService *service.AccountService) *AccountHandler {
	return &AccountHandler{
		accountService: accountService,
	}
}

type CreateAccountRequest struct {
	Name      string `json:"name"`
	Salary    string `json:"salary"`
	ManagerID int64  `json:"manager_id"`
	ClientID  int64  `json:"client_id"`
}

type AccountResponse struct {
	AccountID         int64      `json:"account_id"`
	Name              string     `json:"name"`
	Salary            string     `json:"salary"`
	ManagerID         int64      `json:"manager_id"`
	ClientID          int64      `json:"client_id"`
	Balance           string     `json:"balance"`
	LastSalaryPayment *time.Time `json:"last_salary_payment,omitempty"`
}

func (h *AccountHandler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	var req CreateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.NewAppError(errors.InvalidInput, "invalid request body"))
		return
	}

	salary := decimal.Zero
	if req.Salary != "" {
		parsed, err := decimal.NewFromString(req.Salary)
		if err != nil {
			writeError(w, errors.NewAppError(errors.InvalidAmount, "invalid salary format"))
			return
		}
		salary = parsed
	}

	account, err := h.accountService.CreateAccount(req.Name, salary, req.ManagerID, req.ClientID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response := AccountResponse{
		AccountID: account.ID,
		Name:      account.Name,
		Salary:    account.Salary.String(),
		ManagerID: account.ManagerID,
		ClientID:  account.ClientID,
		Balance:   decimal.Zero.String(),
	}

	writeJSON(w, http.StatusCreated, response)
}

func (h *AccountHandler) GetAccount(w http.ResponseWriter, r *http.Request) {
	accountID, appErr := accountIDFromRequest(r)
	if appErr != nil {
		writeError(w, appErr)
		return
	}

	account, err := h.accountService.GetAccount(accountID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	balance, err := h.accountService.Balance(accountID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response := AccountResponse{
		AccountID:         account.ID,
		Name:              account.Name,
		Salary:            account.Salary.String(),
		ManagerID:         account.ManagerID,
		ClientID:          account.ClientID,
		Balance:           balance.String(),
		LastSalaryPayment: account.LastSalaryPayment,
	}

	writeJSON(w, http.StatusOK, response)
}

func (h *AccountHandler) ListManagedAccounts(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	managerID, err := strconv.ParseInt(vars["user_id"], 10, 64)
	if err != nil || managerID <= 0 {
		writeError(w, errors.NewAppError(errors.InvalidInput, "invalid user id"))
		return
	}

	accounts, err := h.accountService.ListManagedAccounts(managerID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response := make([]AccountResponse, 0, len(accounts))
	for _, account := range accounts {
		balance, err := h.accountService.Balance(account.ID)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		response = append(response, AccountResponse{
			AccountID:         account.ID,
			Name:              account.Name,
			Salary:            account.Salary.String(),
			ManagerID:         account.ManagerID,
			ClientID:          account.ClientID,
			Balance:           balance.String(),
			LastSalaryPayment: account.LastSalaryPayment,
		})
	}

	writeJSON(w, http.StatusOK, response)
}

type TransactionResponse struct {
	ID          string    `json:"id"`
	AccountID   int64     `json:"account_id"`
	Amount      string    `json:"amount"`
	Description string    `json:"description,omitempty"`
	Label       string    `json:"label,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func (h *AccountHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	accountID, appErr := accountIDFromRequest(r)
	if appErr != nil {
		writeError(w, appErr)
		return
	}

	account, err := h.accountService.GetAccount(accountID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	transactions, err := h.accountService.ListTransactions(accountID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response := make([]TransactionResponse, 0, len(transactions))
	for _, tx := range transactions {
		response = append(response, TransactionResponse{
			ID:          tx.ID.String(),
			AccountID:   tx.AccountID,
			Amount:      tx.Amount.String(),
			Description: tx.Description,
			Label:       tx.Label(account.Name),
			CreatedAt:   tx.CreatedAt,
		})
	}

	writeJSON(w, http.StatusOK, response)
}
