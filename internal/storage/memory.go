package storage

import (
	"context"
	"sync"

	"fintrack/internal/core"
)

// MemoryStore is an in-memory Store used by tests and by the memory
// backend. Loads hand out copies so callers cannot alias internal state.
type MemoryStore struct {
	mu        sync.Mutex
	txs       []core.Transaction
	schedules []core.RecurringSchedule
	plans     []core.BudgetPlan
	goals     []core.SavingsGoal
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) LoadTransactions(_ context.Context) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Transaction(nil), s.txs...), nil
}

func (s *MemoryStore) SaveTransactions(_ context.Context, txs []core.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.txs = append([]core.Transaction(nil), txs...)
	return nil
}

func (s *MemoryStore) LoadSchedules(_ context.Context) ([]core.RecurringSchedule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.RecurringSchedule(nil), s.schedules...), nil
}

func (s *MemoryStore) SaveSchedules(_ context.Context, schedules []core.RecurringSchedule) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.schedules = append([]core.RecurringSchedule(nil), schedules...)
	return nil
}

func (s *MemoryStore) LoadBudgetPlans(_ context.Context) ([]core.BudgetPlan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.BudgetPlan(nil), s.plans...), nil
}

func (s *MemoryStore) SaveBudgetPlans(_ context.Context, plans []core.BudgetPlan) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.plans = append([]core.BudgetPlan(nil), plans...)
	return nil
}

func (s *MemoryStore) LoadGoals(_ context.Context) ([]core.SavingsGoal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.SavingsGoal(nil), s.goals...), nil
}

func (s *MemoryStore) SaveGoals(_ context.Context, goals []core.SavingsGoal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.goals = append([]core.SavingsGoal(nil), goals...)
	return nil
}

func (s *MemoryStore) Close() error {
	return nil
}
