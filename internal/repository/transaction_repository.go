package repository

import (
	"database/sql"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"pocket-ledger/internal/domain"
	"pocket-ledger/internal/errors"
)

type transactionRepository struct {
	db     SQLExecutor
	logger *slog.Logger
}

func NewTransactionRepository(db SQLExecutor, logger *slog.Logger) domain.TransactionRepository {
	return &transactionRepository{
		db:     db,
		logger: logger,
	}
}

func (r *transactionRepository) CreateTransaction(tx *domain.Transaction) error {
	query := `
		INSERT INTO transactions (id, account_id, amount, description, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	if tx.ID == uuid.Nil {
		tx.ID = uuid.New()
	}
	// Compression backdates the summary row to the cutoff; every other caller
	// leaves CreatedAt zero and gets the current time.
	if tx.CreatedAt.IsZero() {
		tx.CreatedAt = time.Now()
	}

	var description interface{}
	if tx.Description != "" {
		description = tx.Description
	}

	_, err := r.db.Exec(
		query,
		tx.ID,
		tx.AccountID,
		tx.Amount.String(),
		description,
		tx.CreatedAt,
	)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Code == "23503" { // foreign_key_violation
				r.logger.Warn("Transaction references unknown account", "account_id", tx.AccountID)
				return errors.ErrAccountNotFound
			}
		}
		r.logger.Error("Failed to create transaction",
			"account_id", tx.AccountID,
			"amount", tx.Amount,
			"error", err)
		return errors.NewAppError(errors.InternalError, "failed to create transaction").WithDetails(err.Error())
	}

	r.logger.Info("Transaction created successfully",
		"transaction_id", tx.ID, "account_id", tx.AccountID, "amount", tx.Amount)
	return nil
}

func (r *transactionRepository) ListByAccount(accountID int64) ([]*domain.Transaction, error) {
	query := `
		SELECT id, account_id, amount, description, created_at
		FROM transactions WHERE account_id = $1
		ORDER BY created_at DESC, id
	`

	rows, err := r.db.Query(query, accountID)
	if err != nil {
		r.logger.Error("Failed to list transactions", "account_id", accountID, "error", err)
		return nil, errors.NewAppError(errors.InternalError, "failed to list transactions").WithDetails(err.Error())
	}
	defer rows.Close()

	var transactions []*domain.Transaction
	for rows.Next() {
		var transaction domain.Transaction
		var amountStr string
		var description sql.NullString

		if err := rows.Scan(
			&transaction.ID,
			&transaction.AccountID,
			&amountStr,
			&description,
			&transaction.CreatedAt,
		); err != nil {
			return nil, errors.NewAppError(errors.InternalError, "failed to scan transaction").WithDetails(err.Error())
		}

		amount, err := decimal.NewFromString(amountStr)
		if err != nil {
			return nil, errors.NewAppError(errors.InternalError, "failed to parse amount").WithDetails(err.Error())
		}
		transaction.Amount = amount
		transaction.Description = description.String

		transactions = append(transactions, &transaction)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.NewAppError(errors.InternalError, "failed to list transactions").WithDetails(err.Error())
	}

	return transactions, nil
}

func (r *transactionRepository) SumByAccount(accountID int64) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM transactions WHERE account_id = $1
	`

	return r.scanSum(query, accountID)
}

func (r *transactionRepository) SumByAccountUpTo(accountID int64, cutoff time.Time) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM transactions WHERE account_id = $1 AND created_at <= $2
	`

	return r.scanSum(query, accountID, cutoff)
}

func (r *transactionRepository) scanSum(query string, args ...interface{}) (decimal.Decimal, error) {
	var sumStr string
	if err := r.db.QueryRow(query, args...).Scan(&sumStr); err != nil {
		r.logger.Error("Failed to sum transactions", "error", err)
		return decimal.Zero, errors.NewAppError(errors.InternalError, "failed to sum transactions").WithDetails(err.Error())
	}

	sum, err := decimal.NewFromString(sumStr)
	if err != nil {
		return decimal.Zero, errors.NewAppError(errors.InternalError, "failed to parse transaction sum").WithDetails(err.Error())
	}

	return sum, nil
}

func (r *transactionRepository) DeleteByAccountUpTo(accountID int64, cutoff time.Time) (int64, error) {
	query := `
		DELETE FROM transactions WHERE account_id = $1 AND created_at <= $2
	`

	result, err := r.db.Exec(query, accountID, cutoff)
	if err != nil {
		r.logger.Error("Failed to delete transactions", "account_id", accountID, "error", err)
		return 0, errors.NewAppError(errors.InternalError, "failed to delete transactions").WithDetails(err.Error())
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, errors.NewAppError(errors.InternalError, "failed to get rows affected").WithDetails(err.Error())
	}

	return rowsAffected, nil
}
