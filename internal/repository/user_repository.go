package repository

import (
	"database/sql"
	"log/slog"
	"time"

	"github.com/lib/pq"

	"pocket-ledger/internal/domain"
	"pocket-ledger/internal/errors"
)

type userRepository struct {
	db     SQLExecutor
	logger *slog.Logger
}

func NewUserRepository(db SQLExecutor, logger *slog.Logger) domain.UserRepository {
	return &userRepository{
		db:     db,
		logger: logger,
	}
}

func (r *userRepository) CreateUser(user *domain.User) error {
	query := `
		INSERT INTO users (username, created_at)
		VALUES ($1, $2)
		RETURNING id
	`

	now := time.Now()
	err := r.db.QueryRow(query, user.Username, now).Scan(&user.ID)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Code == "23505" { // unique_violation
				r.logger.Warn("Duplicate username", "username", user.Username)
				return errors.ErrDuplicateUser
			}
		}
		r.logger.Error("Failed to create user", "username", user.Username, "error", err)
		return errors.NewAppError(errors.InternalError, "failed to create user").WithDetails(err.Error())
	}

	user.CreatedAt = now
	r.logger.Info("User created successfully", "user_id", user.ID, "username", user.Username)
	return nil
}

func (r *userRepository) GetUser(id int64) (*domain.User, error) {
	query := `
		SELECT id, username, created_at
		FROM users WHERE id = $1
	`

	return r.scanUser(query, id)
}

func (r *userRepository) GetUserByUsername(username string) (*domain.User, error) {
	query := `
		SELECT id, username, created_at
		FROM users WHERE username = $1
	`

	return r.scanUser(query, username)
}

func (r *userRepository) scanUser(query string, arg interface{}) (*domain.User, error) {
	var user domain.User

	err := r.db.QueryRow(query, arg).Scan(
		&user.ID,
		&user.Username,
		&user.CreatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.ErrUserNotFound
		}
		r.logger.Error("Failed to get user", "arg", arg, "error", err)
		return nil, errors.NewAppError(errors.InternalError, "failed to get user").WithDetails(err.Error())
	}

	return &user, nil
}
