// Command payroll runs one salary sweep and exits. It is meant to be invoked
// by cron (e.g. daily); accounts whose last payment is at least a week old
// get their weekly salary deposited.
package main

import (
	"database/sql"
	"log/slog"
	"os"

	"pocket-ledger/internal/config"
	"pocket-ledger/internal/repository"
	"pocket-ledger/internal/service"

	_ "github.com/lib/pq"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg := config.Load()

	db, err := sql.Open("postgres", cfg.GetDBConnectionString())
	if err != nil {
		slog.Error("Failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}

	store := repository.NewStore(db, logger)
	accountService := service.NewAccountService(store, logger)
	payrollService := service.NewPayrollService(store, accountService, logger)

	result, err := payrollService.RunDue()
	if err != nil {
		slog.Error("Payroll sweep failed", "error", err)
		os.Exit(1)
	}

	slog.Info("Payroll done", "checked", result.Checked, "paid", result.Paid, "failed", result.Failed)
	if result.Failed > 0 {
		os.Exit(1)
	}
}
