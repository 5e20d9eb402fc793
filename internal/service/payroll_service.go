package service

import (
	"log/slog"

	"pocket-ledger/internal/domain"
)

// PayrollService sweeps every account and pays the salaries that are due. It
// is driven from outside, typically by a daily cron run of cmd/payroll.
type PayrollService struct {
	store    domain.Store
	accounts *AccountService
	logger   *slog.Logger
}

func NewPayrollService(store domain.Store, accounts *AccountService, logger *slog.Logger) *PayrollService {
	return &PayrollService{
		store:    store,
		accounts: accounts,
		logger:   logger,
	}
}

// PayrollResult reports one sweep.
type PayrollResult struct {
	Checked int `json:"checked"`
	Paid    int `json:"paid"`
	Failed  int `json:"failed"`
}

// RunDue applies PaySalaryIfDue to every account. A failing account is logged
// and counted; it does not abort the sweep.
func (s *PayrollService) RunDue() (*PayrollResult, error) {
	accounts, err := s.store.Accounts().ListAccounts()
	if err != nil {
		return nil, err
	}

	result := &PayrollResult{Checked: len(accounts)}
	for _, account := range accounts {
		paid, err := s.accounts.PaySalaryIfDue(account.ID)
		if err != nil {
			s.logger.Error("Salary payment failed", "account_id", account.ID, "error", err)
			result.Failed++
			continue
		}
		if paid {
			result.Paid++
		}
	}

	s.logger.Info("Payroll sweep completed",
		"checked", result.Checked, "paid", result.Paid, "failed", result.Failed)
	return result, nil
}
