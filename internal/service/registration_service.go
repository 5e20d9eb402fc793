package service

import (
	"log/slog"

	"github.com/shopspring/decimal"

	"pocket-ledger/internal/domain"
	"pocket-ledger/internal/errors"
)

const maxUsernameLength = 150

// RegistrationService creates a user together with their own pocket-money
// account: the new user is both manager and client, with a zero salary.
type RegistrationService struct {
	store  domain.Store
	logger *slog.Logger
}

func NewRegistrationService(store domain.Store, logger *slog.Logger) *RegistrationService {
	return &RegistrationService{
		store:  store,
		logger: logger,
	}
}

func (s *RegistrationService) Register(username string) (*domain.User, *domain.Account, error) {
	s.logger.Info("Registering user", "username", username)

	if username == "" {
		return nil, nil, errors.NewAppError(errors.InvalidInput, "username is required")
	}
	if len([]rune(username)) > maxUsernameLength {
		return nil, nil, errors.NewAppErrorf(errors.InvalidInput, "username must be at most %d characters", maxUsernameLength)
	}

	user := &domain.User{Username: username}
	account := &domain.Account{
		Name:   accountNameFor(username),
		Salary: decimal.Zero,
	}

	err := s.store.WithTransaction(func(store domain.Store) error {
		if err := store.Users().CreateUser(user); err != nil {
			return err
		}

		account.ManagerID = user.ID
		account.ClientID = user.ID
		return store.Accounts().CreateAccount(account)
	})
	if err != nil {
		return nil, nil, err
	}

	s.logger.Info("User registered", "user_id", user.ID, "account_id", account.ID)
	return user, account, nil
}

// accountNameFor trims a username down to the account-name limit.
func accountNameFor(username string) string {
	runes := []rune(username)
	if len(runes) > domain.MaxAccountNameLength {
		runes = runes[:domain.MaxAccountNameLength]
	}
	return string(runes)
}
