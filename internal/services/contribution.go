package services

import (
	"log/slog"

	"fintrack/internal/core"
	applog "fintrack/internal/log"
)

// ApplyContribution computes the rule's credit for tx and applies it to
// the matching goal in goals: one contribution record appended, the
// accumulated amount increased. There is no clamp at the goal's target.
//
// The transaction always keeps the contribution intent, even when the
// referenced goal has been deleted; in that case no goal is mutated and
// applied is false. Missing goals are never an error.
func ApplyContribution(tx *core.Transaction, rule core.ContributionRule, goals []core.SavingsGoal) (credited core.Money, applied bool) {
	credited = rule.Credit(tx.Amount)
	tx.Contribution = &core.Contribution{GoalID: rule.GoalID, Amount: credited}

	for i := range goals {
		if goals[i].ID != rule.GoalID {
			continue
		}
		goals[i].Contributions = append(goals[i].Contributions, core.GoalContribution{
			Date:                tx.Date,
			Amount:              credited,
			SourceTransactionID: tx.ID,
		})
		goals[i].Accumulated = goals[i].Accumulated.Add(credited)
		return credited, true
	}

	slog.Warn("Contribution references a missing goal, skipping credit",
		applog.FieldGoalID, rule.GoalID,
		applog.FieldTransactionID, tx.ID)
	return credited, false
}
