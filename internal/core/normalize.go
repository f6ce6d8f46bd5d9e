// This file migrates legacy budget-plan category encodings to the
// canonical shape. The stored categories field has existed in three
// forms over the life of the data: a comma-separated string, a list of
// bare name strings, and the canonical list of {name, allocatedAmount}
// objects. Everything in memory uses the canonical form; the conversion
// runs once at the storage boundary on load.
package core

import (
	"encoding/json"
	"fmt"
	"strings"
)

// DecodeCategories interprets a stored categories field in any of its
// historical encodings and returns the canonical category list. The
// changed result reports whether the input was in a legacy shape and
// needs to be persisted back. Decoding canonical input is a no-op:
// re-encoding the result yields the same document.
func DecodeCategories(raw json.RawMessage) (cats []BudgetCategory, changed bool, err error) {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return nil, false, nil
	}

	// Canonical: list of {name, allocatedAmount} objects.
	if err := json.Unmarshal(raw, &cats); err == nil {
		return cats, false, nil
	}
	cats = nil

	// Legacy: list of bare name strings, no allocations.
	var names []string
	if err := json.Unmarshal(raw, &names); err == nil {
		return categoriesFromNames(names), true, nil
	}

	// Legacy: single comma-separated string.
	var joined string
	if err := json.Unmarshal(raw, &joined); err == nil {
		return categoriesFromNames(strings.Split(joined, ",")), true, nil
	}

	return nil, false, fmt.Errorf("unrecognized categories encoding: %s", trimmed)
}

func categoriesFromNames(names []string) []BudgetCategory {
	cats := make([]BudgetCategory, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		cats = append(cats, BudgetCategory{Name: name})
	}
	return cats
}
