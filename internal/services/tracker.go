package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"fintrack/internal/cache"
	"fintrack/internal/core"
	applog "fintrack/internal/log"
	"fintrack/internal/storage"
)

var (
	ErrGoalNotFound        = errors.New("savings goal not found")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrPlanNotFound        = errors.New("budget plan not found")
)

// Tracker is the explicit state holder the UI layer talks to. It owns
// the store handle, the id generator and the summary cache; every
// operation loads what it needs, mutates, and persists before returning.
type Tracker struct {
	store     storage.Store
	plans     *PlanResolver
	summaries *cache.LRU[core.MonthSummary]
	ids       idGenerator
	now       func() time.Time
}

// State is everything LoadAll hands to the UI: the four collections
// after recurrence catch-up, plus how many occurrences were created.
type State struct {
	Transactions []core.Transaction
	Schedules    []core.RecurringSchedule
	Plans        []core.BudgetPlan
	Goals        []core.SavingsGoal
	Materialized int
}

// TransactionInput is a user submission. RecurringEvery marks an income
// transaction as the first occurrence of a new schedule; Contribution
// diverts part of an income transaction into a savings goal.
type TransactionInput struct {
	Date           core.Date
	Kind           core.TransactionKind
	Amount         core.Money
	Description    string
	Category       string
	RecurringEvery core.Frequency
	Contribution   *core.ContributionRule
}

// ParseTransactionInput converts the raw string fields of a submission
// form into a TransactionInput, validating each at this boundary: a
// malformed date maps to ErrInvalidDate, an unknown kind to
// ErrInvalidKind, a non-numeric amount to ErrInvalidAmount. Recurring
// and contribution options are set by the caller afterwards.
func ParseTransactionInput(date, kind, amount, description, category string) (TransactionInput, error) {
	d, err := core.ParseDate(date)
	if err != nil {
		return TransactionInput{}, core.ErrInvalidDate
	}
	k := core.TransactionKind(kind)
	if err := k.Validate(); err != nil {
		return TransactionInput{}, err
	}
	m, err := core.ParseMoney(amount)
	if err != nil {
		return TransactionInput{}, err
	}
	return TransactionInput{
		Date:        d,
		Kind:        k,
		Amount:      m,
		Description: strings.TrimSpace(description),
		Category:    strings.TrimSpace(category),
	}, nil
}

// PlanInput is a budget plan submission for one month.
type PlanInput struct {
	Month       string
	TotalBudget core.Money
	Categories  []core.BudgetCategory
}

// GoalInput is a new savings goal submission.
type GoalInput struct {
	Name   string
	Target core.Money
	Icon   string
}

func NewTracker(store storage.Store) *Tracker {
	return &Tracker{
		store:     store,
		plans:     NewPlanResolver(store),
		summaries: cache.NewLRU[core.MonthSummary](12, 5*time.Minute),
		now:       time.Now,
	}
}

func (t *Tracker) today() core.Date {
	y, m, d := t.now().Date()
	return core.NewDate(y, int(m), d)
}

// LoadAll reads the four collections, runs recurrence catch-up through
// today and returns the resulting state. Newly materialized transactions
// and advanced schedules are persisted before LoadAll returns.
func (t *Tracker) LoadAll(ctx context.Context) (State, error) {
	created, err := CatchUp(ctx, t.store, t.today(), t.ids.next)
	if err != nil {
		return State{}, fmt.Errorf("recurrence catch-up: %w", err)
	}
	if created > 0 {
		t.summaries.Clear()
	}

	var state State
	state.Materialized = created
	if state.Transactions, err = t.store.LoadTransactions(ctx); err != nil {
		return State{}, fmt.Errorf("load transactions: %w", err)
	}
	if state.Schedules, err = t.store.LoadSchedules(ctx); err != nil {
		return State{}, fmt.Errorf("load schedules: %w", err)
	}
	if state.Plans, err = t.store.LoadBudgetPlans(ctx); err != nil {
		return State{}, fmt.Errorf("load budget plans: %w", err)
	}
	if state.Goals, err = t.store.LoadGoals(ctx); err != nil {
		return State{}, fmt.Errorf("load goals: %w", err)
	}
	return state, nil
}

// AddTransaction validates and persists a user submission. Validation
// failures abort before anything is written. For income submissions it
// optionally applies a contribution rule and registers a recurring
// schedule whose next occurrence is one period after the submission.
func (t *Tracker) AddTransaction(ctx context.Context, in TransactionInput) (core.Transaction, error) {
	tx := core.Transaction{
		ID:          t.ids.next(),
		Date:        in.Date,
		Kind:        in.Kind,
		Amount:      in.Amount,
		Description: in.Description,
		Category:    in.Category,
	}
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, err
	}

	if in.Contribution != nil && tx.Kind == core.Income {
		goals, err := t.store.LoadGoals(ctx)
		if err != nil {
			return core.Transaction{}, fmt.Errorf("load goals: %w", err)
		}
		credited, applied := ApplyContribution(&tx, *in.Contribution, goals)
		if applied {
			if err := t.store.SaveGoals(ctx, goals); err != nil {
				return core.Transaction{}, fmt.Errorf("save goals: %w", err)
			}
			slog.InfoContext(ctx, "Credited savings goal",
				applog.FieldGoalID, in.Contribution.GoalID,
				"credited_cents", credited.Cents,
				"rule", in.Contribution.Type)
		}
	}

	if in.RecurringEvery != "" && tx.Kind == core.Income {
		schedule := core.RecurringSchedule{
			ID:             t.ids.next(),
			Frequency:      in.RecurringEvery,
			NextOccurrence: Advance(tx.Date, in.RecurringEvery),
			Template: core.ScheduleTemplate{
				Kind:        tx.Kind,
				Amount:      tx.Amount,
				Description: tx.Description,
				Category:    tx.Category,
			},
		}
		if err := schedule.Validate(); err != nil {
			return core.Transaction{}, err
		}
		schedules, err := t.store.LoadSchedules(ctx)
		if err != nil {
			return core.Transaction{}, fmt.Errorf("load schedules: %w", err)
		}
		if err := t.store.SaveSchedules(ctx, append(schedules, schedule)); err != nil {
			return core.Transaction{}, fmt.Errorf("save schedules: %w", err)
		}
		tx.RecurringScheduleID = schedule.ID
	}

	txs, err := t.store.LoadTransactions(ctx)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("load transactions: %w", err)
	}
	if err := t.store.SaveTransactions(ctx, append(txs, tx)); err != nil {
		return core.Transaction{}, fmt.Errorf("save transactions: %w", err)
	}

	t.summaries.Clear()
	slog.InfoContext(ctx, "Transaction saved",
		applog.FieldTransactionID, tx.ID,
		"kind", tx.Kind,
		applog.FieldAmountCents, tx.Amount.Cents,
		"date", tx.Date.String())
	return tx, nil
}

// UpdateTransaction replaces the whole stored record matching the
// given transaction's id. Edits never touch schedules or goals; a
// contribution already credited stays credited.
func (t *Tracker) UpdateTransaction(ctx context.Context, tx core.Transaction) (core.Transaction, error) {
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, err
	}
	txs, err := t.store.LoadTransactions(ctx)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("load transactions: %w", err)
	}
	for i := range txs {
		if txs[i].ID != tx.ID {
			continue
		}
		txs[i] = tx
		if err := t.store.SaveTransactions(ctx, txs); err != nil {
			return core.Transaction{}, fmt.Errorf("save transactions: %w", err)
		}
		t.summaries.Clear()
		return tx, nil
	}
	return core.Transaction{}, ErrTransactionNotFound
}

// DeleteTransaction removes a transaction by id. Goal contributions the
// transaction made are kept; only the record itself disappears.
func (t *Tracker) DeleteTransaction(ctx context.Context, id int64) error {
	txs, err := t.store.LoadTransactions(ctx)
	if err != nil {
		return fmt.Errorf("load transactions: %w", err)
	}
	kept := txs[:0]
	for _, tx := range txs {
		if tx.ID != id {
			kept = append(kept, tx)
		}
	}
	if len(kept) == len(txs) {
		return ErrTransactionNotFound
	}
	if err := t.store.SaveTransactions(ctx, kept); err != nil {
		return fmt.Errorf("save transactions: %w", err)
	}
	t.summaries.Clear()
	return nil
}

// ListTransactions returns all transactions newest first, ties broken
// by id, the order the activity view renders.
func (t *Tracker) ListTransactions(ctx context.Context) ([]core.Transaction, error) {
	txs, err := t.store.LoadTransactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("load transactions: %w", err)
	}
	sort.SliceStable(txs, func(i, j int) bool {
		if !txs[i].Date.Equal(txs[j].Date.Time) {
			return txs[i].Date.After(txs[j].Date)
		}
		return txs[i].ID > txs[j].ID
	})
	return txs, nil
}

// SavePlan validates and upserts the plan for its month. Each month
// holds at most one plan: saving over an existing month replaces that
// plan wholesale, keeping its id.
func (t *Tracker) SavePlan(ctx context.Context, in PlanInput) (core.BudgetPlan, error) {
	plan := core.BudgetPlan{
		ID:          t.ids.next(),
		Month:       in.Month,
		TotalBudget: in.TotalBudget,
		Categories:  in.Categories,
	}
	if err := plan.Validate(); err != nil {
		return core.BudgetPlan{}, err
	}

	plans, err := t.store.LoadBudgetPlans(ctx)
	if err != nil {
		return core.BudgetPlan{}, fmt.Errorf("load budget plans: %w", err)
	}

	replaced := false
	for i := range plans {
		if plans[i].Month == plan.Month {
			plan.ID = plans[i].ID
			plans[i] = plan
			replaced = true
			break
		}
	}
	if !replaced {
		plans = append(plans, plan)
	}

	if err := t.store.SaveBudgetPlans(ctx, plans); err != nil {
		return core.BudgetPlan{}, fmt.Errorf("save budget plans: %w", err)
	}

	t.summaries.Clear()
	slog.InfoContext(ctx, "Budget plan saved",
		applog.FieldMonth, plan.Month,
		"total_cents", plan.TotalBudget.Cents,
		"categories", len(plan.Categories),
		"replaced", replaced)
	return plan, nil
}

// DeletePlan removes the plan for a month; the month falls back to the
// default categories afterwards.
func (t *Tracker) DeletePlan(ctx context.Context, monthKey string) error {
	plans, err := t.store.LoadBudgetPlans(ctx)
	if err != nil {
		return fmt.Errorf("load budget plans: %w", err)
	}
	kept := plans[:0]
	for _, p := range plans {
		if p.Month != monthKey {
			kept = append(kept, p)
		}
	}
	if len(kept) == len(plans) {
		return ErrPlanNotFound
	}
	if err := t.store.SaveBudgetPlans(ctx, kept); err != nil {
		return fmt.Errorf("save budget plans: %w", err)
	}
	t.summaries.Clear()
	return nil
}

// CategoriesForMonth resolves the active category list for a month.
func (t *Tracker) CategoriesForMonth(ctx context.Context, monthKey string) ([]string, error) {
	return t.plans.CategoriesForMonth(ctx, monthKey)
}

// AddGoal creates a new savings goal with zero progress.
func (t *Tracker) AddGoal(ctx context.Context, in GoalInput) (core.SavingsGoal, error) {
	goal := core.SavingsGoal{
		ID:     t.ids.next(),
		Name:   in.Name,
		Target: in.Target,
		Icon:   in.Icon,
	}
	if err := goal.Validate(); err != nil {
		return core.SavingsGoal{}, err
	}
	goals, err := t.store.LoadGoals(ctx)
	if err != nil {
		return core.SavingsGoal{}, fmt.Errorf("load goals: %w", err)
	}
	if err := t.store.SaveGoals(ctx, append(goals, goal)); err != nil {
		return core.SavingsGoal{}, fmt.Errorf("save goals: %w", err)
	}
	return goal, nil
}

// UpdateGoalProgress overwrites a goal's accumulated amount directly,
// clamped at zero. Contribution history is left as is.
func (t *Tracker) UpdateGoalProgress(ctx context.Context, goalID int64, amount core.Money) error {
	goals, err := t.store.LoadGoals(ctx)
	if err != nil {
		return fmt.Errorf("load goals: %w", err)
	}
	for i := range goals {
		if goals[i].ID != goalID {
			continue
		}
		if amount.Cents < 0 {
			amount = core.Money{}
		}
		goals[i].Accumulated = amount
		if err := t.store.SaveGoals(ctx, goals); err != nil {
			return fmt.Errorf("save goals: %w", err)
		}
		return nil
	}
	return ErrGoalNotFound
}

// DeleteGoal removes a goal. Transactions that contributed to it keep
// their stored goal id; readers must degrade gracefully on the dangling
// reference.
func (t *Tracker) DeleteGoal(ctx context.Context, goalID int64) error {
	goals, err := t.store.LoadGoals(ctx)
	if err != nil {
		return fmt.Errorf("load goals: %w", err)
	}
	kept := goals[:0]
	for _, g := range goals {
		if g.ID != goalID {
			kept = append(kept, g)
		}
	}
	if len(kept) == len(goals) {
		return ErrGoalNotFound
	}
	if err := t.store.SaveGoals(ctx, kept); err != nil {
		return fmt.Errorf("save goals: %w", err)
	}
	return nil
}

// MonthSummary derives totals and the budget-vs-actual breakdown for a
// month, memoized until the next write.
func (t *Tracker) MonthSummary(ctx context.Context, monthKey string) (core.MonthSummary, error) {
	if s, ok := t.summaries.Get(monthKey); ok {
		return s, nil
	}

	categories, err := t.plans.CategoriesForMonth(ctx, monthKey)
	if err != nil {
		return core.MonthSummary{}, err
	}
	txs, err := t.store.LoadTransactions(ctx)
	if err != nil {
		return core.MonthSummary{}, fmt.Errorf("load transactions: %w", err)
	}

	s := core.SummarizeMonth(txs, monthKey, categories)
	t.summaries.Set(monthKey, s)
	return s, nil
}

// SpendingByInterval buckets recent spending into count intervals of
// widthDays anchored at today, oldest bucket first.
func (t *Tracker) SpendingByInterval(ctx context.Context, widthDays, count int) ([]core.Money, error) {
	txs, err := t.store.LoadTransactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("load transactions: %w", err)
	}
	return core.SpendingByInterval(txs, widthDays, count, t.today()), nil
}

// idGenerator issues unix-millisecond ids, bumping by one whenever the
// clock has not advanced past the previous id so that a tight
// materialization loop still gets distinct ids.
type idGenerator struct {
	last int64
	now  func() time.Time
}

func (g *idGenerator) next() int64 {
	clock := g.now
	if clock == nil {
		clock = time.Now
	}
	id := clock().UnixMilli()
	if id <= g.last {
		id = g.last + 1
	}
	g.last = id
	return id
}
