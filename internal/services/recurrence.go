// Package services holds the business logic layered on top of storage:
// recurrence catch-up, plan resolution, savings contributions and the
// tracker facade that the UI layer calls.
package services

import (
	"context"
	"log/slog"

	"fintrack/internal/core"
	applog "fintrack/internal/log"
)

// Advance returns the occurrence date following d for the given
// frequency. Monthly advancement preserves the day of month with
// calendar rollover semantics (Jan 31 + 1 month lands in early March,
// not on Feb 28). Unknown frequencies fall back to monthly. The result
// is always strictly after d, which bounds the catch-up loop below.
func Advance(d core.Date, frequency core.Frequency) core.Date {
	switch frequency {
	case core.Daily:
		return core.Date{Time: d.AddDate(0, 0, 1)}
	case core.Weekly:
		return core.Date{Time: d.AddDate(0, 0, 7)}
	case core.Biweekly:
		return core.Date{Time: d.AddDate(0, 0, 14)}
	case core.Monthly:
		return core.Date{Time: d.AddDate(0, 1, 0)}
	default:
		return core.Date{Time: d.AddDate(0, 1, 0)}
	}
}

// MaterializeDue replays every schedule forward to today, emitting one
// transaction per elapsed occurrence. If the tracker has not run for N
// periods, all N missed occurrences come out in a single pass, dated by
// the schedule's own advancing sequence. Emission is chronological per
// schedule and follows schedule insertion order across schedules; the
// result is not re-sorted globally.
//
// The returned schedules carry the advanced next-occurrence dates. A
// schedule missing its next occurrence date is returned untouched and
// never blocks the others. nextID supplies fresh transaction ids.
func MaterializeDue(schedules []core.RecurringSchedule, today core.Date, nextID func() int64) ([]core.Transaction, []core.RecurringSchedule) {
	var emitted []core.Transaction
	advanced := make([]core.RecurringSchedule, len(schedules))

	for i, s := range schedules {
		advanced[i] = s
		if s.NextOccurrence.IsZero() {
			slog.Warn("Skipping recurring schedule without next occurrence date",
				applog.FieldScheduleID, s.ID,
				applog.FieldFrequency, s.Frequency)
			continue
		}

		next := s.NextOccurrence
		for !next.After(today) {
			emitted = append(emitted, core.Transaction{
				ID:                  nextID(),
				Date:                next,
				Kind:                s.Template.Kind,
				Amount:              s.Template.Amount,
				Description:         s.Template.Description,
				Category:            s.Template.Category,
				RecurringScheduleID: s.ID,
			})
			next = Advance(next, s.Frequency)
		}
		advanced[i].NextOccurrence = next
	}

	return emitted, advanced
}

// CatchUp runs MaterializeDue against the store: it loads schedules,
// materializes everything due through today and persists new
// transactions followed by the advanced schedules. Transactions are
// written first; a crash between the two writes leaves the schedule
// dates behind, so the next run repeats those occurrences.
func CatchUp(ctx context.Context, store scheduleStore, today core.Date, nextID func() int64) (int, error) {
	schedules, err := store.LoadSchedules(ctx)
	if err != nil {
		return 0, err
	}
	if len(schedules) == 0 {
		return 0, nil
	}

	emitted, advanced := MaterializeDue(schedules, today, nextID)
	if len(emitted) == 0 {
		return 0, nil
	}

	txs, err := store.LoadTransactions(ctx)
	if err != nil {
		return 0, err
	}
	if err := store.SaveTransactions(ctx, append(txs, emitted...)); err != nil {
		return 0, err
	}
	if err := store.SaveSchedules(ctx, advanced); err != nil {
		return 0, err
	}

	slog.InfoContext(ctx, "Materialized recurring occurrences",
		"created", len(emitted),
		"schedules", len(schedules),
		"through", today.String())

	return len(emitted), nil
}

// scheduleStore is the slice of storage.Store that CatchUp needs.
type scheduleStore interface {
	LoadTransactions(ctx context.Context) ([]core.Transaction, error)
	SaveTransactions(ctx context.Context, txs []core.Transaction) error
	LoadSchedules(ctx context.Context) ([]core.RecurringSchedule, error)
	SaveSchedules(ctx context.Context, schedules []core.RecurringSchedule) error
}
