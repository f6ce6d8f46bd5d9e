package core

import (
	"errors"
	"strings"
)

const (
	Expense TransactionKind = "expense"
	Income  TransactionKind = "income"
)

const (
	Daily    Frequency = "daily"
	Weekly   Frequency = "weekly"
	Biweekly Frequency = "biweekly"
	Monthly  Frequency = "monthly"
)

const (
	RuleFixed   ContributionRuleType = "fixed"
	RulePercent ContributionRuleType = "percent"
	RuleAll     ContributionRuleType = "all"
)

type (
	TransactionKind      string
	Frequency            string
	ContributionRuleType string

	// Transaction is one recorded income or expense. IDs are creation
	// timestamps in unix milliseconds, issued by Tracker's generator.
	Transaction struct {
		ID          int64           `json:"id"`
		Date        Date            `json:"date"`
		Kind        TransactionKind `json:"kind"`
		Amount      Money           `json:"amount"`
		Description string          `json:"description"`
		Category    string          `json:"category,omitempty"`
		// Set on transactions materialized from a recurring schedule.
		RecurringScheduleID int64 `json:"recurringScheduleId,omitempty"`
		// Set when part of the amount was directed at a savings goal.
		// The goal may have been deleted since; the reference stays.
		Contribution *Contribution `json:"contribution,omitempty"`
	}

	// Contribution records the savings-goal credit attached to a transaction.
	Contribution struct {
		GoalID int64 `json:"goalId"`
		Amount Money `json:"amountCredited"`
	}

	// ScheduleTemplate is the transaction blueprint a recurring schedule
	// stamps out, sans id and date.
	ScheduleTemplate struct {
		Kind        TransactionKind `json:"kind"`
		Amount      Money           `json:"amount"`
		Description string          `json:"description"`
		Category    string          `json:"category,omitempty"`
	}

	// RecurringSchedule repeats an income transaction at a fixed frequency.
	// NextOccurrence always points at the next unmaterialized occurrence
	// and only ever moves forward.
	RecurringSchedule struct {
		ID             int64            `json:"id"`
		Frequency      Frequency        `json:"frequency"`
		NextOccurrence Date             `json:"nextOccurrenceDate"`
		Template       ScheduleTemplate `json:"template"`
	}

	// BudgetCategory is one allocation line of a budget plan.
	BudgetCategory struct {
		Name      string `json:"name"`
		Allocated Money  `json:"allocatedAmount"`
	}

	// BudgetPlan allocates a month's budget across categories.
	// At most one plan exists per month key.
	BudgetPlan struct {
		ID          int64            `json:"id"`
		Month       string           `json:"month"`
		TotalBudget Money            `json:"totalBudget"`
		Categories  []BudgetCategory `json:"categories"`
	}

	// GoalContribution is one credit applied to a savings goal.
	GoalContribution struct {
		Date                Date  `json:"date"`
		Amount              Money `json:"amount"`
		SourceTransactionID int64 `json:"sourceTransactionId"`
	}

	// SavingsGoal tracks progress toward a savings target. Accumulated may
	// exceed Target; display layers clamp the percentage, not the amount.
	SavingsGoal struct {
		ID            int64              `json:"id"`
		Name          string             `json:"name"`
		Target        Money              `json:"targetAmount"`
		Icon          string             `json:"icon,omitempty"`
		Accumulated   Money              `json:"accumulatedAmount"`
		Contributions []GoalContribution `json:"contributions,omitempty"`
	}

	// ContributionRule is the user's policy for diverting part of an
	// income transaction into a savings goal.
	ContributionRule struct {
		GoalID  int64                `json:"goalId"`
		Type    ContributionRuleType `json:"type"`
		Amount  Money                `json:"amount"`  // used when Type == RuleFixed
		Percent float64              `json:"percent"` // used when Type == RulePercent, 10 = 10%
	}
)

var (
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrInvalidDate       = errors.New("invalid date")
	ErrInvalidKind       = errors.New("invalid transaction kind")
	ErrInvalidFrequency  = errors.New("invalid frequency")
	ErrInvalidMonthKey   = errors.New("invalid month key")
	ErrEmptyCategory     = errors.New("empty category")
	ErrEmptyCategoryName = errors.New("empty category name")
	ErrNoCategories      = errors.New("plan has no categories")
	ErrEmptyGoalName     = errors.New("empty goal name")
	ErrBudgetMismatch    = errors.New("category allocations do not sum to total budget")
)

func (k TransactionKind) Validate() error {
	switch k {
	case Expense, Income:
		return nil
	default:
		return ErrInvalidKind
	}
}

func (t Transaction) Validate() error {
	if err := t.Date.Validate(); err != nil {
		return ErrInvalidDate
	}
	if err := t.Kind.Validate(); err != nil {
		return err
	}
	if err := t.Amount.Validate(); err != nil {
		return err
	}
	// Description is free text, no length constraint.
	// Income ignores category by convention; expenses need one.
	if t.Kind == Expense && strings.TrimSpace(t.Category) == "" {
		return ErrEmptyCategory
	}
	return nil
}

func (s RecurringSchedule) Validate() error {
	if err := s.NextOccurrence.Validate(); err != nil {
		return ErrInvalidDate
	}
	switch s.Frequency {
	case Daily, Weekly, Biweekly, Monthly:
	default:
		return ErrInvalidFrequency
	}
	if err := s.Template.Kind.Validate(); err != nil {
		return err
	}
	return s.Template.Amount.Validate()
}

// Validate enforces the plan invariant: a well-formed month key, at least
// one named category, and allocations summing to the total budget within
// one cent. Violations block the save, they are never silently corrected.
func (p BudgetPlan) Validate() error {
	if !ValidMonthKey(p.Month) {
		return ErrInvalidMonthKey
	}
	if len(p.Categories) == 0 {
		return ErrNoCategories
	}
	var sum int64
	for _, c := range p.Categories {
		if strings.TrimSpace(c.Name) == "" {
			return ErrEmptyCategoryName
		}
		if err := c.Allocated.Validate(); err != nil {
			return err
		}
		sum += c.Allocated.Cents
	}
	diff := sum - p.TotalBudget.Cents
	if diff < -1 || diff > 1 {
		return ErrBudgetMismatch
	}
	return nil
}

func (g SavingsGoal) Validate() error {
	if strings.TrimSpace(g.Name) == "" {
		return ErrEmptyGoalName
	}
	if err := g.Target.Validate(); err != nil {
		return err
	}
	return g.Accumulated.Validate()
}

// Credit computes the amount this rule diverts from an income of the
// given size. Unknown rule types credit nothing.
func (r ContributionRule) Credit(amount Money) Money {
	switch r.Type {
	case RuleFixed:
		return r.Amount
	case RulePercent:
		return amount.Percent(r.Percent)
	case RuleAll:
		return amount
	default:
		return Money{}
	}
}
