package services

import (
	"context"
	"fmt"
	"strings"

	"fintrack/internal/core"
	"fintrack/internal/storage"
)

// DefaultCategories is the fixed fallback category set used for any
// month without a budget plan, in display order.
var DefaultCategories = []string{
	"Housing",
	"Groceries",
	"Transportation",
	"Utilities",
	"Dining",
	"Entertainment",
	"Health",
	"Savings",
}

// PlanResolver answers which budget categories apply to a month.
type PlanResolver struct {
	store storage.Store
}

func NewPlanResolver(store storage.Store) *PlanResolver {
	return &PlanResolver{store: store}
}

// CategoriesForMonth returns the active category names for monthKey. A
// plan for the month with at least one named category fully overrides
// the defaults; there is no partial merge between the two.
func (r *PlanResolver) CategoriesForMonth(ctx context.Context, monthKey string) ([]string, error) {
	plans, err := r.store.LoadBudgetPlans(ctx)
	if err != nil {
		return nil, fmt.Errorf("load budget plans: %w", err)
	}

	if plan, ok := FindPlan(plans, monthKey); ok {
		if names := planCategoryNames(plan); len(names) > 0 {
			return names, nil
		}
	}
	return append([]string(nil), DefaultCategories...), nil
}

// FindPlan returns the plan for monthKey. Saves keep at most one plan
// per month, but older stored data may still hold duplicates; the last
// one wins, matching how such data behaved before deduplication.
func FindPlan(plans []core.BudgetPlan, monthKey string) (core.BudgetPlan, bool) {
	var found core.BudgetPlan
	ok := false
	for _, p := range plans {
		if p.Month == monthKey {
			found = p
			ok = true
		}
	}
	return found, ok
}

func planCategoryNames(plan core.BudgetPlan) []string {
	var names []string
	for _, c := range plan.Categories {
		if strings.TrimSpace(c.Name) == "" {
			continue
		}
		names = append(names, c.Name)
	}
	return names
}
