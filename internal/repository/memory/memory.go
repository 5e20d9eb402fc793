// Package memory implements domain.Store on plain maps. It backs the unit
// tests so service and handler logic can run without a database. It does not
// roll back on error: callers validate before they write, matching how the
// services use the store.
package memory

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"pocket-ledger/internal/domain"
	"pocket-ledger/internal/errors"
)

type Store struct {
	mu            sync.Mutex
	users         map[int64]*domain.User
	accounts      map[int64]*domain.Account
	transactions  map[uuid.UUID]*domain.Transaction
	nextUserID    int64
	nextAccountID int64
}

var _ domain.Store = (*Store)(nil)

func NewStore() *Store {
	return &Store{
		users:        make(map[int64]*domain.User),
		accounts:     make(map[int64]*domain.Account),
		transactions: make(map[uuid.UUID]*domain.Transaction),
	}
}

func (s *Store) Accounts() domain.AccountRepository         { return &accountRepo{s} }
func (s *Store) Transactions() domain.TransactionRepository { return &transactionRepo{s} }
func (s *Store) Users() domain.UserRepository               { return &userRepo{s} }

// WithTransaction runs fn against the same store. There is nothing to commit
// or roll back in memory; the individual operations are mutex-serialized.
func (s *Store) WithTransaction(fn func(domain.Store) error) error {
	return fn(s)
}

type accountRepo struct{ s *Store }

func (r *accountRepo) CreateAccount(account *domain.Account) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[account.ManagerID]; !ok {
		return errors.ErrUserNotFound
	}
	if _, ok := r.s.users[account.ClientID]; !ok {
		return errors.ErrUserNotFound
	}

	r.s.nextAccountID++
	account.ID = r.s.nextAccountID
	now := time.Now()
	account.CreatedAt = now
	account.UpdatedAt = now

	cp := *account
	r.s.accounts[account.ID] = &cp
	return nil
}

func (r *accountRepo) GetAccount(id int64) (*domain.Account, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	account, ok := r.s.accounts[id]
	if !ok {
		return nil, errors.ErrAccountNotFound
	}
	cp := *account
	return &cp, nil
}

func (r *accountRepo) ListAccounts() ([]*domain.Account, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	accounts := make([]*domain.Account, 0, len(r.s.accounts))
	for _, account := range r.s.accounts {
		cp := *account
		accounts = append(accounts, &cp)
	}
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].ID < accounts[j].ID })
	return accounts, nil
}

func (r *accountRepo) ListAccountsByManager(managerID int64) ([]*domain.Account, error) {
	all, err := r.ListAccounts()
	if err != nil {
		return nil, err
	}
	var accounts []*domain.Account
	for _, account := range all {
		if account.ManagerID == managerID {
			accounts = append(accounts, account)
		}
	}
	return accounts, nil
}

func (r *accountRepo) UpdateLastSalaryPayment(id int64, paidAt time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	account, ok := r.s.accounts[id]
	if !ok {
		return errors.ErrAccountNotFound
	}
	t := paidAt
	account.LastSalaryPayment = &t
	account.UpdatedAt = time.Now()
	return nil
}

type transactionRepo struct{ s *Store }

func (r *transactionRepo) CreateTransaction(tx *domain.Transaction) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.accounts[tx.AccountID]; !ok {
		return errors.ErrAccountNotFound
	}

	if tx.ID == uuid.Nil {
		tx.ID = uuid.New()
	}
	if tx.CreatedAt.IsZero() {
		tx.CreatedAt = time.Now()
	}

	cp := *tx
	r.s.transactions[tx.ID] = &cp
	return nil
}

func (r *transactionRepo) ListByAccount(accountID int64) ([]*domain.Transaction, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var transactions []*domain.Transaction
	for _, tx := range r.s.transactions {
		if tx.AccountID == accountID {
			cp := *tx
			transactions = append(transactions, &cp)
		}
	}
	sort.Slice(transactions, func(i, j int) bool {
		return transactions[i].CreatedAt.After(transactions[j].CreatedAt)
	})
	return transactions, nil
}

func (r *transactionRepo) SumByAccount(accountID int64) (decimal.Decimal, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	sum := decimal.Zero
	for _, tx := range r.s.transactions {
		if tx.AccountID == accountID {
			sum = sum.Add(tx.Amount)
		}
	}
	return sum, nil
}

func (r *transactionRepo) SumByAccountUpTo(accountID int64, cutoff time.Time) (decimal.Decimal, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	sum := decimal.Zero
	for _, tx := range r.s.transactions {
		if tx.AccountID == accountID && !tx.CreatedAt.After(cutoff) {
			sum = sum.Add(tx.Amount)
		}
	}
	return sum, nil
}

func (r *transactionRepo) DeleteByAccountUpTo(accountID int64, cutoff time.Time) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var deleted int64
	for id, tx := range r.s.transactions {
		if tx.AccountID == accountID && !tx.CreatedAt.After(cutoff) {
			delete(r.s.transactions, id)
			deleted++
		}
	}
	return deleted, nil
}

type userRepo struct{ s *Store }

func (r *userRepo) CreateUser(user *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.users {
		if existing.Username == user.Username {
			return errors.ErrDuplicateUser
		}
	}

	r.s.nextUserID++
	user.ID = r.s.nextUserID
	user.CreatedAt = time.Now()

	cp := *user
	r.s.users[user.ID] = &cp
	return nil
}

func (r *userRepo) GetUser(id int64) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	user, ok := r.s.users[id]
	if !ok {
		return nil, errors.ErrUserNotFound
	}
	cp := *user
	return &cp, nil
}

func (r *userRepo) GetUserByUsername(username string) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, user := range r.s.users {
		if user.Username == username {
			cp := *user
			return &cp, nil
		}
	}
	return nil, errors.ErrUserNotFound
}
