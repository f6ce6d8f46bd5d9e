package core

import "testing"

func expenseOn(date Date, cents int64, category string) Transaction {
	return Transaction{
		Date:     date,
		Kind:     Expense,
		Amount:   Money{Cents: cents},
		Category: category,
	}
}

func TestSpendingByInterval(t *testing.T) {
	anchor := NewDate(2024, 4, 20)
	txs := []Transaction{
		expenseOn(NewDate(2024, 4, 20), 1000, "Dining"),  // day 0, newest bucket
		expenseOn(NewDate(2024, 4, 14), 2000, "Dining"),  // day 6, newest bucket
		expenseOn(NewDate(2024, 4, 13), 3000, "Dining"),  // day 7, second bucket
		expenseOn(NewDate(2024, 3, 24), 4000, "Dining"),  // day 27, oldest bucket
		expenseOn(NewDate(2024, 3, 23), 99999, "Dining"), // day 28, out of range
		expenseOn(NewDate(2024, 4, 21), 99999, "Dining"), // after anchor, dropped
		{Date: NewDate(2024, 4, 18), Kind: Income, Amount: Money{Cents: 99999}},
	}

	got := SpendingByInterval(txs, 7, 4, anchor)
	want := []int64{4000, 0, 3000, 3000}
	if len(got) != len(want) {
		t.Fatalf("got %d buckets, want %d", len(got), len(want))
	}
	for i, cents := range want {
		if got[i].Cents != cents {
			t.Errorf("bucket %d = %d cents, want %d", i, got[i].Cents, cents)
		}
	}
}

func TestSpendingByIntervalDegenerate(t *testing.T) {
	txs := []Transaction{expenseOn(NewDate(2024, 4, 1), 100, "Misc")}
	if got := SpendingByInterval(txs, 0, 4, NewDate(2024, 4, 20)); len(got) != 4 {
		t.Fatalf("zero width: got %d buckets", len(got))
	}
	if got := SpendingByInterval(txs, 7, 0, NewDate(2024, 4, 20)); len(got) != 0 {
		t.Fatalf("zero count: got %d buckets", len(got))
	}
}

func TestSpendingByCategory(t *testing.T) {
	txs := []Transaction{
		expenseOn(NewDate(2024, 3, 5), 1500, "Groceries"),
		expenseOn(NewDate(2024, 3, 9), 500, "  groceries "), // matches after normalization
		expenseOn(NewDate(2024, 3, 12), 2000, "Dining"),
		expenseOn(NewDate(2024, 3, 15), 700, "Vacation"), // not a plan category
		expenseOn(NewDate(2024, 2, 28), 9999, "Groceries"),
		{Date: NewDate(2024, 3, 20), Kind: Income, Amount: Money{Cents: 9999}, Category: "Groceries"},
	}

	got := SpendingByCategory(txs, "2024-03", []string{"Groceries", "Dining", "Housing"})
	if got["Groceries"].Cents != 2000 {
		t.Errorf("Groceries = %d, want 2000", got["Groceries"].Cents)
	}
	if got["Dining"].Cents != 2000 {
		t.Errorf("Dining = %d, want 2000", got["Dining"].Cents)
	}
	if got["Housing"].Cents != 0 {
		t.Errorf("Housing = %d, want 0", got["Housing"].Cents)
	}
	if _, ok := got["Vacation"]; ok {
		t.Error("Vacation is not a plan category and should not appear")
	}
}

func TestSummarizeMonth(t *testing.T) {
	txs := []Transaction{
		expenseOn(NewDate(2024, 3, 5), 1500, "Groceries"),
		expenseOn(NewDate(2024, 3, 12), 2000, "Dining"),
		{Date: NewDate(2024, 3, 1), Kind: Income, Amount: Money{Cents: 250000}},
		expenseOn(NewDate(2024, 4, 2), 9999, "Groceries"),
	}

	s := SummarizeMonth(txs, "2024-03", []string{"Groceries", "Dining"})
	if s.TotalExpense.Cents != 3500 {
		t.Errorf("TotalExpense = %d, want 3500", s.TotalExpense.Cents)
	}
	if s.TotalIncome.Cents != 250000 {
		t.Errorf("TotalIncome = %d, want 250000", s.TotalIncome.Cents)
	}
	if len(s.ByCategory) != 2 || s.ByCategory[0].Name != "Groceries" || s.ByCategory[1].Name != "Dining" {
		t.Fatalf("ByCategory order wrong: %+v", s.ByCategory)
	}
}
