package service

import (
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"pocket-ledger/internal/domain"
	"pocket-ledger/internal/errors"
)

// WeeklySalaryDescription is attached to every automatic salary credit.
const WeeklySalaryDescription = "weekly salary payment"

// AccountService implements the ledger operations. Every mutating operation
// validates before it writes and runs its writes inside one store
// transaction. The current time always comes from the clock field so tests
// can run against a fixed instant.
type AccountService struct {
	store  domain.Store
	logger *slog.Logger
	clock  func() time.Time
}

func NewAccountService(store domain.Store, logger *slog.Logger) *AccountService {
	return &AccountService{
		store:  store,
		logger: logger,
		clock:  time.Now,
	}
}

func (s *AccountService) CreateAccount(name string, salary decimal.Decimal, managerID, clientID int64) (*domain.Account, error) {
	s.logger.Info("Creating account", "name", name, "manager_id", managerID, "client_id", clientID)

	if name == "" {
		return nil, errors.NewAppError(errors.InvalidInput, "account name is required")
	}
	if len([]rune(name)) > domain.MaxAccountNameLength {
		return nil, errors.NewAppErrorf(errors.InvalidInput, "account name must be at most %d characters", domain.MaxAccountNameLength)
	}
	if salary.IsNegative() {
		return nil, errors.NewAppError(errors.InvalidAmount, "salary cannot be negative")
	}

	account := &domain.Account{
		Name:      name,
		Salary:    salary,
		ManagerID: managerID,
		ClientID:  clientID,
	}

	if err := s.store.Accounts().CreateAccount(account); err != nil {
		return nil, err
	}

	return account, nil
}

func (s *AccountService) GetAccount(accountID int64) (*domain.Account, error) {
	return s.store.Accounts().GetAccount(accountID)
}

// Balance returns the sum of the account's transaction amounts, zero when
// none exist. The balance is computed on every call, never cached.
func (s *AccountService) Balance(accountID int64) (decimal.Decimal, error) {
	if _, err := s.store.Accounts().GetAccount(accountID); err != nil {
		return decimal.Zero, err
	}
	return s.store.Transactions().SumByAccount(accountID)
}

// ListManagedAccounts returns the accounts a user manages, the way the admin
// screen lists them.
func (s *AccountService) ListManagedAccounts(managerID int64) ([]*domain.Account, error) {
	if _, err := s.store.Users().GetUser(managerID); err != nil {
		return nil, err
	}
	return s.store.Accounts().ListAccountsByManager(managerID)
}

func (s *AccountService) ListTransactions(accountID int64) ([]*domain.Transaction, error) {
	if _, err := s.store.Accounts().GetAccount(accountID); err != nil {
		return nil, err
	}
	return s.store.Transactions().ListByAccount(accountID)
}

// Deposit credits the account. A negative amount is rejected before any
// write; there is no upper bound.
func (s *AccountService) Deposit(accountID int64, amount decimal.Decimal, description string) (*domain.Transaction, error) {
	if amount.IsNegative() {
		return nil, errors.ErrInvalidAmount
	}

	transaction := &domain.Transaction{
		AccountID:   accountID,
		Amount:      amount,
		Description: description,
		CreatedAt:   s.clock(),
	}

	err := s.store.WithTransaction(func(store domain.Store) error {
		if _, err := store.Accounts().GetAccount(accountID); err != nil {
			return err
		}
		return store.Transactions().CreateTransaction(transaction)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Deposit recorded", "account_id", accountID, "amount", amount)
	return transaction, nil
}

// Withdraw debits the account. Checks run in order: a negative amount fails
// with InvalidAmount, an amount above the current balance fails with
// InsufficientFunds. The balance is read before the debit row exists.
func (s *AccountService) Withdraw(accountID int64, amount decimal.Decimal, description string) (*domain.Transaction, error) {
	if amount.IsNegative() {
		return nil, errors.ErrInvalidAmount
	}

	transaction := &domain.Transaction{
		AccountID:   accountID,
		Amount:      amount.Neg(),
		Description: description,
		CreatedAt:   s.clock(),
	}

	err := s.store.WithTransaction(func(store domain.Store) error {
		if _, err := store.Accounts().GetAccount(accountID); err != nil {
			return err
		}

		total, err := store.Transactions().SumByAccount(accountID)
		if err != nil {
			return err
		}
		if amount.GreaterThan(total) {
			return errors.ErrInsufficientFunds
		}

		return store.Transactions().CreateTransaction(transaction)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Withdrawal recorded", "account_id", accountID, "amount", amount)
	return transaction, nil
}

// CompressTransactions collapses the account's history up to the cutoff into
// a single summary row dated at the cutoff, carrying the sum of the removed
// rows. A zero cutoff means now. The balance is unchanged; afterwards exactly
// one row exists at or before the cutoff, even when the range was empty.
func (s *AccountService) CompressTransactions(accountID int64, cutoff time.Time) (*domain.Transaction, error) {
	if cutoff.IsZero() {
		cutoff = s.clock()
	}

	summary := &domain.Transaction{
		AccountID:   accountID,
		Description: "Situation au " + cutoff.Format("02/01/2006"),
		CreatedAt:   cutoff,
	}

	err := s.store.WithTransaction(func(store domain.Store) error {
		if _, err := store.Accounts().GetAccount(accountID); err != nil {
			return err
		}

		total, err := store.Transactions().SumByAccountUpTo(accountID, cutoff)
		if err != nil {
			return err
		}

		deleted, err := store.Transactions().DeleteByAccountUpTo(accountID, cutoff)
		if err != nil {
			return err
		}

		summary.Amount = total
		if err := store.Transactions().CreateTransaction(summary); err != nil {
			return err
		}

		s.logger.Info("Transactions compressed",
			"account_id", accountID, "cutoff", cutoff, "deleted", deleted, "summary_amount", total)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return summary, nil
}

// PaySalaryIfDue deposits the account's salary when no payment was ever made
// or the last one is at least seven full days old, and stamps the payment
// time. Otherwise it does nothing. Reports whether a payment happened.
func (s *AccountService) PaySalaryIfDue(accountID int64) (bool, error) {
	now := s.clock()
	paid := false

	err := s.store.WithTransaction(func(store domain.Store) error {
		account, err := store.Accounts().GetAccount(accountID)
		if err != nil {
			return err
		}

		if !account.SalaryDue(now) {
			return nil
		}

		transaction := &domain.Transaction{
			AccountID:   accountID,
			Amount:      account.Salary,
			Description: WeeklySalaryDescription,
			CreatedAt:   now,
		}
		if err := store.Transactions().CreateTransaction(transaction); err != nil {
			return err
		}

		if err := store.Accounts().UpdateLastSalaryPayment(accountID, now); err != nil {
			return err
		}

		paid = true
		return nil
	})
	if err != nil {
		return false, err
	}

	if paid {
		s.logger.Info("Salary paid", "account_id", accountID, "paid_at", now)
	}
	return paid, nil
}
