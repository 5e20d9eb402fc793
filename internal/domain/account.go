package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// MaxAccountNameLength bounds the display label of an account.
const MaxAccountNameLength = 24

// Account is a pocket-money ledger owned by a manager on behalf of a client.
// Its balance is never stored: it is always the sum of the account's
// transactions, computed by the repository.
type Account struct {
	ID                int64           `json:"account_id"`
	Name              string          `json:"name"`
	Salary            decimal.Decimal `json:"salary"`
	ManagerID         int64           `json:"manager_id"`
	ClientID          int64           `json:"client_id"`
	LastSalaryPayment *time.Time      `json:"last_salary_payment,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// SalaryDue reports whether the weekly salary should be paid at the given
// instant: either no salary has ever been paid, or at least seven full days
// have elapsed since the last payment.
func (a *Account) SalaryDue(now time.Time) bool {
	if a.LastSalaryPayment == nil {
		return true
	}
	return now.Sub(*a.LastSalaryPayment) >= 7*24*time.Hour
}

type AccountRepository interface {
	CreateAccount(account *Account) error
	GetAccount(id int64) (*Account, error)
	ListAccounts() ([]*Account, error)
	ListAccountsByManager(managerID int64) ([]*Account, error)
	UpdateLastSalaryPayment(id int64, paidAt time.Time) error
}
