package main

import (
	"context"
	"time"

	"fintrack/internal/cli"
	"fintrack/internal/config"
	applog "fintrack/internal/log"
	"fintrack/internal/services"
)

// fintrack runs one load pass: recurrence catch-up against the
// configured store, then a summary of the current month. The UI layer
// invokes the same Tracker entry points; this binary is the headless
// equivalent of opening the page once.
func main() {
	cli.LoadEnvFile()

	cfg := config.Load()
	logger := cli.SetupLogger(cfg.LogLevel)
	cfg = cli.LoadAndValidateConfig(logger)

	store := cli.OpenStore(logger, cfg)
	defer store.Close()

	tracker := services.NewTracker(store)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	state, err := tracker.LoadAll(ctx)
	if err != nil {
		logger.Error("Load failed", applog.FieldError, err)
		return
	}
	logger.Info("Collections loaded",
		"transactions", len(state.Transactions),
		"schedules", len(state.Schedules),
		"plans", len(state.Plans),
		"goals", len(state.Goals),
		"materialized", state.Materialized)

	monthKey := time.Now().Format("2006-01")
	summary, err := tracker.MonthSummary(ctx, monthKey)
	if err != nil {
		logger.Error("Month summary failed", applog.FieldError, err, applog.FieldMonth, monthKey)
		return
	}

	logger.Info("Month summary",
		applog.FieldMonth, summary.Month,
		"expenses", summary.TotalExpense.Dollars(),
		"income", summary.TotalIncome.Dollars())
	for _, c := range summary.ByCategory {
		logger.Info("Category spending",
			applog.FieldMonth, summary.Month,
			applog.FieldCategory, c.Name,
			"amount", c.Amount.Dollars())
	}
}
