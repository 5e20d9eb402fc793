package domain

// Store groups the repositories behind a single unit of work. WithTransaction
// runs fn against a Store whose repositories share one database transaction:
// every create/delete/update inside fn commits together or not at all.
type Store interface {
	Accounts() AccountRepository
	Transactions() TransactionRepository
	Users() UserRepository
	WithTransaction(fn func(Store) error) error
}
