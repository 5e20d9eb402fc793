package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pocket-ledger/internal/repository/memory"
	"pocket-ledger/internal/service"
)

// newTestRouter wires the handlers over the in-memory store, mirroring the
// server's route table.
func newTestRouter() *mux.Router {
	store := memory.NewStore()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	accountService := service.NewAccountService(store, logger)
	registrationService := service.NewRegistrationService(store, logger)
	payrollService := service.NewPayrollService(store, accountService, logger)

	accountHandler := NewAccountHandler(accountService)
	transactionHandler := NewTransactionHandler(accountService)
	userHandler := NewUserHandler(registrationService)
	payrollHandler := NewPayrollHandler(payrollService)

	router := mux.NewRouter()
	router.HandleFunc("/users", userHandler.Register).Methods("POST")
	router.HandleFunc("/users/{user_id}/accounts", accountHandler.ListManagedAccounts).Methods("GET")
	router.HandleFunc("/accounts", accountHandler.CreateAccount).Methods("POST")
	router.HandleFunc("/accounts/{account_id}", accountHandler.GetAccount).Methods("GET")
	router.HandleFunc("/accounts/{account_id}/transactions", accountHandler.ListTransactions).Methods("GET")
	router.HandleFunc("/accounts/{account_id}/deposits", transactionHandler.Deposit).Methods("POST")
	router.HandleFunc("/accounts/{account_id}/withdrawals", transactionHandler.Withdraw).Methods("POST")
	router.HandleFunc("/accounts/{account_id}/compressions", transactionHandler.Compress).Methods("POST")
	router.HandleFunc("/payroll/run", payrollHandler.Run).Methods("POST")
	return router
}

func doJSON(t *testing.T, router *mux.Router, method, path string, body interface{}) (*httptest.ResponseRecorder, map[string]json.RawMessage) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	}

	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var envelope map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	return rec, envelope
}

func register(t *testing.T, router *mux.Router, username string) (userID, accountID int64) {
	t.Helper()

	rec, envelope := doJSON(t, router, "POST", "/users", RegisterRequest{Username: username})
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp RegisterResponse
	require.NoError(t, json.Unmarshal(envelope["data"], &resp))
	return resp.UserID, resp.AccountID
}

func TestRegisterAndGetAccount(t *testing.T) {
	router := newTestRouter()

	userID, accountID := register(t, router, "alice")

	rec, envelope := doJSON(t, router, "GET", fmt.Sprintf("/accounts/%d", accountID), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var account AccountResponse
	require.NoError(t, json.Unmarshal(envelope["data"], &account))
	assert.Equal(t, "alice", account.Name)
	assert.Equal(t, userID, account.ManagerID)
	assert.Equal(t, userID, account.ClientID)
	assert.Equal(t, "0", account.Balance)
}

func TestDepositRequiresManager(t *testing.T) {
	router := newTestRouter()

	_, accountID := register(t, router, "alice")
	otherID, _ := register(t, router, "mallory")

	rec, envelope := doJSON(t, router, "POST", fmt.Sprintf("/accounts/%d/deposits", accountID),
		MoneyRequest{Amount: "10", ManagerID: otherID})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	var herr Error
	require.NoError(t, json.Unmarshal(envelope["error"], &herr))
	assert.Equal(t, "forbidden", herr.Code)

	// Nothing was written
	rec, envelope = doJSON(t, router, "GET", fmt.Sprintf("/accounts/%d", accountID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var account AccountResponse
	require.NoError(t, json.Unmarshal(envelope["data"], &account))
	assert.Equal(t, "0", account.Balance)
}

func TestDepositAndWithdrawFlow(t *testing.T) {
	router := newTestRouter()

	userID, accountID := register(t, router, "alice")

	rec, _ := doJSON(t, router, "POST", fmt.Sprintf("/accounts/%d/deposits", accountID),
		MoneyRequest{Amount: "50", Description: "allowance", ManagerID: userID})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, envelope := doJSON(t, router, "POST", fmt.Sprintf("/accounts/%d/withdrawals", accountID),
		MoneyRequest{Amount: "100", ManagerID: userID})
	assert.Equal(t, http.StatusConflict, rec.Code)

	var herr Error
	require.NoError(t, json.Unmarshal(envelope["error"], &herr))
	assert.Equal(t, "insufficient_funds", herr.Code)

	rec, _ = doJSON(t, router, "POST", fmt.Sprintf("/accounts/%d/withdrawals", accountID),
		MoneyRequest{Amount: "20", ManagerID: userID})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, envelope = doJSON(t, router, "GET", fmt.Sprintf("/accounts/%d", accountID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var account AccountResponse
	require.NoError(t, json.Unmarshal(envelope["data"], &account))
	assert.Equal(t, "30", account.Balance)
}

func TestDepositInvalidAmountFormat(t *testing.T) {
	router := newTestRouter()

	userID, accountID := register(t, router, "alice")

	rec, envelope := doJSON(t, router, "POST", fmt.Sprintf("/accounts/%d/deposits", accountID),
		MoneyRequest{Amount: "not-a-number", ManagerID: userID})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var herr Error
	require.NoError(t, json.Unmarshal(envelope["error"], &herr))
	assert.Equal(t, "invalid_amount", herr.Code)
}

func TestDepositNegativeAmount(t *testing.T) {
	router := newTestRouter()

	userID, accountID := register(t, router, "alice")

	rec, envelope := doJSON(t, router, "POST", fmt.Sprintf("/accounts/%d/deposits", accountID),
		MoneyRequest{Amount: "-1", ManagerID: userID})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var herr Error
	require.NoError(t, json.Unmarshal(envelope["error"], &herr))
	assert.Equal(t, "invalid_amount", herr.Code)
	assert.Equal(t, "amount cannot be negative", herr.Message)
}

func TestCompressEndpoint(t *testing.T) {
	router := newTestRouter()

	userID, accountID := register(t, router, "alice")

	for _, amount := range []string{"100", "25"} {
		rec, _ := doJSON(t, router, "POST", fmt.Sprintf("/accounts/%d/deposits", accountID),
			MoneyRequest{Amount: amount, ManagerID: userID})
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec, envelope := doJSON(t, router, "POST", fmt.Sprintf("/accounts/%d/compressions", accountID),
		CompressRequest{ManagerID: userID})
	require.Equal(t, http.StatusCreated, rec.Code)

	var summary TransactionResponse
	require.NoError(t, json.Unmarshal(envelope["data"], &summary))
	assert.Equal(t, "125", summary.Amount)

	rec, envelope = doJSON(t, router, "GET", fmt.Sprintf("/accounts/%d/transactions", accountID), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var transactions []TransactionResponse
	require.NoError(t, json.Unmarshal(envelope["data"], &transactions))
	require.Len(t, transactions, 1)
	assert.Equal(t, "alice - 125", transactions[0].Label)
}

func TestListManagedAccounts(t *testing.T) {
	router := newTestRouter()

	userID, ownAccountID := register(t, router, "parent")
	clientID, _ := register(t, router, "kid")

	rec, envelope := doJSON(t, router, "POST", "/accounts",
		CreateAccountRequest{Name: "kid", Salary: "5", ManagerID: userID, ClientID: clientID})
	require.Equal(t, http.StatusCreated, rec.Code)
	var created AccountResponse
	require.NoError(t, json.Unmarshal(envelope["data"], &created))

	rec, envelope = doJSON(t, router, "GET", fmt.Sprintf("/users/%d/accounts", userID), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var accounts []AccountResponse
	require.NoError(t, json.Unmarshal(envelope["data"], &accounts))
	require.Len(t, accounts, 2)
	assert.Equal(t, ownAccountID, accounts[0].AccountID)
	assert.Equal(t, created.AccountID, accounts[1].AccountID)
}

func TestGetAccountNotFound(t *testing.T) {
	router := newTestRouter()

	rec, envelope := doJSON(t, router, "GET", "/accounts/42", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	var herr Error
	require.NoError(t, json.Unmarshal(envelope["error"], &herr))
	assert.Equal(t, "account_not_found", herr.Code)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	router := newTestRouter()

	register(t, router, "alice")

	rec, envelope := doJSON(t, router, "POST", "/users", RegisterRequest{Username: "alice"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	var herr Error
	require.NoError(t, json.Unmarshal(envelope["error"], &herr))
	assert.Equal(t, "duplicate_user", herr.Code)
}

func TestPayrollEndpoint(t *testing.T) {
	router := newTestRouter()

	_, accountID := register(t, router, "alice")

	// The registered account has salary 0; a due zero-salary account still
	// counts as paid and gets its timestamp stamped.
	rec, envelope := doJSON(t, router, "POST", "/payroll/run", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var result service.PayrollResult
	require.NoError(t, json.Unmarshal(envelope["data"], &result))
	assert.Equal(t, 1, result.Checked)
	assert.Equal(t, 1, result.Paid)

	// Last payment stamped
	rec, envelope = doJSON(t, router, "GET", fmt.Sprintf("/accounts/%d", accountID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var account AccountResponse
	require.NoError(t, json.Unmarshal(envelope["data"], &account))
	assert.NotNil(t, account.LastSalaryPayment)
}
