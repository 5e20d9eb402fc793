package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Transaction is an immutable signed ledger entry. A positive amount is a
// credit, a negative amount a debit. Rows are only ever created through an
// account operation and only ever deleted by history compression.
type Transaction struct {
	ID          uuid.UUID       `json:"id"`
	AccountID   int64           `json:"account_id"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// Label renders the entry the way the admin screens list it.
func (t *Transaction) Label(accountName string) string {
	return fmt.Sprintf("%s - %s", accountName, t.Amount.String())
}

type TransactionRepository interface {
	CreateTransaction(tx *Transaction) error
	ListByAccount(accountID int64) ([]*Transaction, error)
	// SumByAccount returns the account balance: the sum of all its
	// transaction amounts, zero when none exist.
	SumByAccount(accountID int64) (decimal.Decimal, error)
	// SumByAccountUpTo sums transactions with created_at <= cutoff.
	SumByAccountUpTo(accountID int64, cutoff time.Time) (decimal.Decimal, error)
	// DeleteByAccountUpTo removes transactions with created_at <= cutoff and
	// returns how many rows were deleted.
	DeleteByAccountUpTo(accountID int64, cutoff time.Time) (int64, error)
}
