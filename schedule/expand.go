/*
expand.go - Expansion of recurrence rules into virtual occurrences

PURPOSE:
  The Occurrence Expander is the pure core of the scheduler: it maps
  (rules, breaks, date range) to the ordered list of occurrences the
  rules imply. It performs no I/O and never errors; callers fetch rules
  and breaks first.

DETERMINISM:
  Re-running Expand with the same inputs always yields the same list in
  the same order (ascending date, then ascending start time). Idempotent
  materialization and test reproducibility both lean on this.

SEE ALSO:
  - aggregate.go: merges the expansion with persisted sessions
  - change.go:    uses the expansion to freeze a rule before a cutover
*/
package schedule

import "sort"

// Expand generates the virtual occurrences for a classroom over
// [from, to], both ends inclusive.
//
// For each date in the range: the date is skipped entirely when any break
// covers it; otherwise every non-deleted rule whose day matches and whose
// effective window contains the date emits one occurrence. Rules are not
// required to be non-overlapping - two rules matching the same day both
// emit, and avoiding that is the rule author's responsibility.
func Expand(classroomID ClassroomID, rules []RecurrenceRule, breaks []BreakInterval, from, to Date) []VirtualOccurrence {
	var occurrences []VirtualOccurrence

	for date := from; date.BeforeOrEqual(to); date = date.AddDays(1) {
		if InBreak(date, breaks) {
			continue
		}

		start := len(occurrences)
		weekday := date.Weekday()
		for _, rule := range rules {
			if rule.Deleted() || !rule.Day.Matches(weekday) || !rule.EffectiveOn(date) {
				continue
			}
			occurrences = append(occurrences, VirtualOccurrence{
				ID:          VirtualID(classroomID, date, rule.StartTime),
				ClassroomID: classroomID,
				Date:        date,
				StartTime:   rule.StartTime,
				EndTime:     rule.EndTime,
			})
		}

		// Dates are visited in order; only the occurrences within one day
		// need sorting by start time.
		day := occurrences[start:]
		sort.SliceStable(day, func(i, j int) bool {
			return day[i].StartTime.Before(day[j].StartTime)
		})
	}

	return occurrences
}
