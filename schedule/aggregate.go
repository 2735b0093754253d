/*
aggregate.go - Unified virtual + persisted view of a date range

PURPOSE:
  Callers (calendar pages, the check-in flow) want "the sessions of this
  classroom between these dates", not "the rows that happen to exist".
  The Aggregator expands the classroom's rules over the range, drops every
  occurrence whose slot is already occupied by a live persisted row, and
  returns both populations as one list.

AVAILABILITY OVER COMPLETENESS:
  When the rule or break lookup fails, the Aggregator returns only the
  persisted sessions instead of failing the whole request. A calendar
  missing its projected entries is degraded; a calendar that 500s is
  broken. The degradation is logged, not silent.

SNAPSHOT SEMANTICS:
  The merge works off the caller-supplied snapshot of persisted sessions.
  A concurrent writer may materialize an occurrence after that snapshot
  was taken, so two concurrent readers can briefly disagree; the next
  read converges. This is tolerated, not prevented.
*/
package schedule

import (
	"context"
	"log"
	"sort"
)

// Aggregator merges persisted sessions with not-yet-materialized virtual
// occurrences for a date range.
type Aggregator struct {
	Rules  RuleStore
	Breaks BreakStore
}

func NewAggregator(rules RuleStore, breaks BreakStore) *Aggregator {
	return &Aggregator{Rules: rules, Breaks: breaks}
}

// SessionsForRange returns the unified session list for a classroom over
// [from, to]. persisted is the caller's snapshot of stored sessions for
// the same range; deleted rows in it are ignored. The result is ordered
// by (date, start time).
func (a *Aggregator) SessionsForRange(ctx context.Context, classroomID ClassroomID, from, to Date, persisted []Session) []SessionView {
	live := make([]SessionView, 0, len(persisted))
	occupied := make(map[OccurrenceKey]bool, len(persisted))
	for _, s := range persisted {
		if s.Deleted() {
			continue
		}
		live = append(live, ViewOfSession(s))
		occupied[s.Key()] = true
	}

	rules, err := a.Rules.Rules(ctx, classroomID)
	if err != nil {
		log.Printf("[Aggregator] Rule lookup failed for classroom %s, degrading to persisted sessions: %v", classroomID, err)
		return sortViews(live)
	}
	breaks, err := a.Breaks.Breaks(ctx, classroomID)
	if err != nil {
		// Expanding without breaks would project sessions into vacation
		// dates, so break failure degrades the same way rule failure does.
		log.Printf("[Aggregator] Break lookup failed for classroom %s, degrading to persisted sessions: %v", classroomID, err)
		return sortViews(live)
	}

	views := live
	for _, occ := range Expand(classroomID, rules, breaks, from, to) {
		if occupied[occ.Key()] {
			continue
		}
		views = append(views, ViewOfOccurrence(occ))
	}

	return sortViews(views)
}

func sortViews(views []SessionView) []SessionView {
	sort.SliceStable(views, func(i, j int) bool {
		if !views[i].Date.Equal(views[j].Date) {
			return views[i].Date.Before(views[j].Date)
		}
		return views[i].StartTime.Before(views[j].StartTime)
	})
	return views
}
