package repository

import (
	"database/sql"
	"log/slog"
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"pocket-ledger/internal/domain"
	"pocket-ledger/internal/errors"
)

type accountRepository struct {
	db     SQLExecutor
	logger *slog.Logger
}

func NewAccountRepository(db SQLExecutor, logger *slog.Logger) domain.AccountRepository {
	return &accountRepository{
		db:     db,
		logger: logger,
	}
}

func (r *accountRepository) CreateAccount(account *domain.Account) error {
	query := `
		INSERT INTO accounts (name, salary, manager_id, client_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	now := time.Now()
	err := r.db.QueryRow(
		query,
		account.Name,
		account.Salary.String(),
		account.ManagerID,
		account.ClientID,
		now,
		now,
	).Scan(&account.ID)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Code == "23503" { // foreign_key_violation
				r.logger.Warn("Account references unknown user",
					"manager_id", account.ManagerID, "client_id", account.ClientID)
				return errors.ErrUserNotFound
			}
		}
		r.logger.Error("Failed to create account", "name", account.Name, "error", err)
		return errors.NewAppError(errors.InternalError, "failed to create account").WithDetails(err.Error())
	}

	account.CreatedAt = now
	account.UpdatedAt = now
	r.logger.Info("Account created successfully", "account_id", account.ID)
	return nil
}

func (r *accountRepository) GetAccount(id int64) (*domain.Account, error) {
	query := `
		SELECT id, name, salary, manager_id, client_id, last_salary_payment, created_at, updated_at
		FROM accounts WHERE id = $1
	`

	var account domain.Account
	var salaryStr string
	var lastPayment sql.NullTime

	err := r.db.QueryRow(query, id).Scan(
		&account.ID,
		&account.Name,
		&salaryStr,
		&account.ManagerID,
		&account.ClientID,
		&lastPayment,
		&account.CreatedAt,
		&account.UpdatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			r.logger.Warn("Account not found", "account_id", id)
			return nil, errors.ErrAccountNotFound
		}
		r.logger.Error("Failed to get account", "account_id", id, "error", err)
		return nil, errors.NewAppError(errors.InternalError, "failed to get account").WithDetails(err.Error())
	}

	salary, err := decimal.NewFromString(salaryStr)
	if err != nil {
		r.logger.Error("Failed to parse salary", "account_id", id, "salary_str", salaryStr, "error", err)
		return nil, errors.NewAppError(errors.InternalError, "failed to parse salary").WithDetails(err.Error())
	}
	account.Salary = salary

	if lastPayment.Valid {
		t := lastPayment.Time
		account.LastSalaryPayment = &t
	}

	return &account, nil
}

func (r *accountRepository) ListAccounts() ([]*domain.Account, error) {
	query := `
		SELECT id, name, salary, manager_id, client_id, last_salary_payment, created_at, updated_at
		FROM accounts ORDER BY id
	`

	return r.queryAccounts(query)
}

func (r *accountRepository) ListAccountsByManager(managerID int64) ([]*domain.Account, error) {
	query := `
		SELECT id, name, salary, manager_id, client_id, last_salary_payment, created_at, updated_at
		FROM accounts WHERE manager_id = $1 ORDER BY id
	`

	return r.queryAccounts(query, managerID)
}

func (r *accountRepository) queryAccounts(query string, args ...interface{}) ([]*domain.Account, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		r.logger.Error("Failed to list accounts", "error", err)
		return nil, errors.NewAppError(errors.InternalError, "failed to list accounts").WithDetails(err.Error())
	}
	defer rows.Close()

	var accounts []*domain.Account
	for rows.Next() {
		var account domain.Account
		var salaryStr string
		var lastPayment sql.NullTime

		if err := rows.Scan(
			&account.ID,
			&account.Name,
			&salaryStr,
			&account.ManagerID,
			&account.ClientID,
			&lastPayment,
			&account.CreatedAt,
			&account.UpdatedAt,
		); err != nil {
			return nil, errors.NewAppError(errors.InternalError, "failed to scan account").WithDetails(err.Error())
		}

		salary, err := decimal.NewFromString(salaryStr)
		if err != nil {
			return nil, errors.NewAppError(errors.InternalError, "failed to parse salary").WithDetails(err.Error())
		}
		account.Salary = salary

		if lastPayment.Valid {
			t := lastPayment.Time
			account.LastSalaryPayment = &t
		}

		accounts = append(accounts, &account)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.NewAppError(errors.InternalError, "failed to list accounts").WithDetails(err.Error())
	}

	return accounts, nil
}

func (r *accountRepository) UpdateLastSalaryPayment(id int64, paidAt time.Time) error {
	query := `
		UPDATE accounts
		SET last_salary_payment = $1, updated_at = $2
		WHERE id = $3
	`

	result, err := r.db.Exec(query, paidAt, time.Now(), id)
	if err != nil {
		r.logger.Error("Failed to update last salary payment", "account_id", id, "error", err)
		return errors.NewAppError(errors.InternalError, "failed to update last salary payment").WithDetails(err.Error())
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return errors.NewAppError(errors.InternalError, "failed to get rows affected").WithDetails(err.Error())
	}

	if rowsAffected == 0 {
		r.logger.Warn("No account found to update", "account_id", id)
		return errors.ErrAccountNotFound
	}

	return nil
}
