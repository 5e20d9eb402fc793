package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pocket-ledger/internal/errors"
	"pocket-ledger/internal/repository/memory"
)

func TestRegisterCreatesUserAndOwnAccount(t *testing.T) {
	store := memory.NewStore()
	svc := NewRegistrationService(store, discardLogger())

	user, account, err := svc.Register("alice")
	require.NoError(t, err)

	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, "alice", account.Name)
	assert.Equal(t, user.ID, account.ManagerID)
	assert.Equal(t, user.ID, account.ClientID)
	assert.True(t, account.Salary.IsZero())
	assert.Nil(t, account.LastSalaryPayment)

	// Persisted, not just returned
	stored, err := store.Accounts().GetAccount(account.ID)
	require.NoError(t, err)
	assert.Equal(t, user.ID, stored.ManagerID)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	store := memory.NewStore()
	svc := NewRegistrationService(store, discardLogger())

	_, _, err := svc.Register("alice")
	require.NoError(t, err)

	_, _, err = svc.Register("alice")
	assert.ErrorIs(t, err, errors.ErrDuplicateUser)
}

func TestRegisterValidation(t *testing.T) {
	store := memory.NewStore()
	svc := NewRegistrationService(store, discardLogger())

	_, _, err := svc.Register("")
	assert.Error(t, err)

	_, _, err = svc.Register(strings.Repeat("a", 151))
	assert.Error(t, err)
}

func TestRegisterTruncatesLongUsernameForAccountName(t *testing.T) {
	store := memory.NewStore()
	svc := NewRegistrationService(store, discardLogger())

	username := strings.Repeat("b", 40)
	_, account, err := svc.Register(username)
	require.NoError(t, err)

	assert.Len(t, account.Name, 24)
	assert.True(t, strings.HasPrefix(username, account.Name))
}
