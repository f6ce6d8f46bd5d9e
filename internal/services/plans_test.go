package services

import (
	"context"
	"testing"

	"fintrack/internal/core"
	"fintrack/internal/storage"
)

func TestCategoriesForMonthDefaults(t *testing.T) {
	store := storage.NewMemoryStore()
	resolver := NewPlanResolver(store)

	got, err := resolver.CategoriesForMonth(context.Background(), "2024-03")
	if err != nil {
		t.Fatalf("CategoriesForMonth: %v", err)
	}
	if len(got) != 8 {
		t.Fatalf("got %d defaults, want 8", len(got))
	}
	for i, name := range DefaultCategories {
		if got[i] != name {
			t.Errorf("default %d = %q, want %q", i, got[i], name)
		}
	}
}

func TestCategoriesForMonthPlanOverridesDefaults(t *testing.T) {
	store := storage.NewMemoryStore()
	ctx := context.Background()
	err := store.SaveBudgetPlans(ctx, []core.BudgetPlan{
		{
			ID:    1,
			Month: "2024-03",
			Categories: []core.BudgetCategory{
				{Name: "Rent", Allocated: core.Money{Cents: 90000}},
				{Name: "Fun", Allocated: core.Money{Cents: 10000}},
			},
		},
	})
	if err != nil {
		t.Fatalf("SaveBudgetPlans: %v", err)
	}

	resolver := NewPlanResolver(store)
	got, err := resolver.CategoriesForMonth(ctx, "2024-03")
	if err != nil {
		t.Fatalf("CategoriesForMonth: %v", err)
	}
	// No merge with the defaults: exactly the plan's names, in plan order
	if len(got) != 2 || got[0] != "Rent" || got[1] != "Fun" {
		t.Fatalf("got %v, want [Rent Fun]", got)
	}

	// A different month still falls back to the defaults
	other, err := resolver.CategoriesForMonth(ctx, "2024-04")
	if err != nil {
		t.Fatalf("CategoriesForMonth: %v", err)
	}
	if len(other) != len(DefaultCategories) {
		t.Fatalf("other month got %v, want the defaults", other)
	}
}

func TestCategoriesForMonthIgnoresPlanWithOnlyBlankNames(t *testing.T) {
	store := storage.NewMemoryStore()
	ctx := context.Background()
	if err := store.SaveBudgetPlans(ctx, []core.BudgetPlan{
		{ID: 1, Month: "2024-03", Categories: []core.BudgetCategory{{Name: "   "}}},
	}); err != nil {
		t.Fatalf("SaveBudgetPlans: %v", err)
	}

	resolver := NewPlanResolver(store)
	got, err := resolver.CategoriesForMonth(ctx, "2024-03")
	if err != nil {
		t.Fatalf("CategoriesForMonth: %v", err)
	}
	if len(got) != len(DefaultCategories) {
		t.Fatalf("plan without a named category should fall back to defaults, got %v", got)
	}
}

func TestFindPlanLastOneWins(t *testing.T) {
	plans := []core.BudgetPlan{
		{ID: 1, Month: "2024-03"},
		{ID: 2, Month: "2024-03"},
		{ID: 3, Month: "2024-04"},
	}
	got, ok := FindPlan(plans, "2024-03")
	if !ok || got.ID != 2 {
		t.Fatalf("FindPlan = %+v, %v; want plan 2", got, ok)
	}
	if _, ok := FindPlan(plans, "2024-05"); ok {
		t.Fatal("expected no plan for 2024-05")
	}
}
