package storage

import (
	"context"

	"fintrack/internal/core"
)

// Store persists the four record collections. Each load returns the
// whole collection and each save replaces it outright; there is no
// partial-field persistence anywhere.
type Store interface {
	LoadTransactions(ctx context.Context) ([]core.Transaction, error)
	SaveTransactions(ctx context.Context, txs []core.Transaction) error

	LoadSchedules(ctx context.Context) ([]core.RecurringSchedule, error)
	SaveSchedules(ctx context.Context, schedules []core.RecurringSchedule) error

	LoadBudgetPlans(ctx context.Context) ([]core.BudgetPlan, error)
	SaveBudgetPlans(ctx context.Context, plans []core.BudgetPlan) error

	LoadGoals(ctx context.Context) ([]core.SavingsGoal, error)
	SaveGoals(ctx context.Context, goals []core.SavingsGoal) error

	Close() error
}
