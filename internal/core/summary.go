package core

import "strings"

// CategoryAmount represents an amount aggregated by category name.
type CategoryAmount struct {
	Name   string
	Amount Money
}

// MonthSummary is a compact spending overview for one month key.
type MonthSummary struct {
	Month        string
	TotalExpense Money
	TotalIncome  Money
	ByCategory   []CategoryAmount
}

// SpendingByInterval partitions expense transactions into count buckets of
// widthDays each, counted backward from anchor. Bucket 0 is the oldest.
// A transaction lands in bucket floor((anchor-date)/widthDays) from the
// anchor end; anything outside the window is dropped silently.
func SpendingByInterval(txs []Transaction, widthDays, count int, anchor Date) []Money {
	out := make([]Money, count)
	if widthDays <= 0 || count <= 0 || anchor.IsZero() {
		return out
	}
	for _, t := range txs {
		if t.Kind != Expense || t.Date.IsZero() {
			continue
		}
		days := int(anchor.Sub(t.Date.Time).Hours() / 24)
		if days < 0 {
			continue
		}
		idx := days / widthDays
		if idx >= count {
			continue
		}
		out[count-1-idx].Cents += t.Amount.Cents
	}
	return out
}

// SpendingByCategory sums expense amounts within monthKey per plan
// category, for budget-vs-actual comparisons. Category names match
// case- and whitespace-insensitively; the result is keyed by the plan's
// spelling and always contains every plan category.
func SpendingByCategory(txs []Transaction, monthKey string, categories []string) map[string]Money {
	canonical := make(map[string]string, len(categories))
	out := make(map[string]Money, len(categories))
	for _, name := range categories {
		canonical[normalizeCategory(name)] = name
		out[name] = Money{}
	}
	for _, t := range txs {
		if t.Kind != Expense || t.Date.MonthKey() != monthKey {
			continue
		}
		name, ok := canonical[normalizeCategory(t.Category)]
		if !ok {
			continue
		}
		out[name] = out[name].Add(t.Amount)
	}
	return out
}

// SummarizeMonth derives totals and the per-category breakdown for one
// month, keeping categories in plan order.
func SummarizeMonth(txs []Transaction, monthKey string, categories []string) MonthSummary {
	s := MonthSummary{Month: monthKey}
	for _, t := range txs {
		if t.Date.MonthKey() != monthKey {
			continue
		}
		switch t.Kind {
		case Expense:
			s.TotalExpense = s.TotalExpense.Add(t.Amount)
		case Income:
			s.TotalIncome = s.TotalIncome.Add(t.Amount)
		}
	}
	byCat := SpendingByCategory(txs, monthKey, categories)
	for _, name := range categories {
		s.ByCategory = append(s.ByCategory, CategoryAmount{Name: name, Amount: byCat[name]})
	}
	return s
}

func normalizeCategory(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
