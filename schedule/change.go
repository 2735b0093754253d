/*
change.go - Schedule change strategies

PURPOSE:
  Changing a recurrence rule must never retroactively alter what past
  dates meant. Rules are therefore closed and replaced, never edited in
  place: the old rule's effective window is capped the day before the
  cutover and a new open-ended rule starts at the cutover. The Coordinator
  owns that dance, in one of three caller-selected strategies.

STRATEGIES:
  future_only          - cutover is today
  from_date            - cutover is caller-supplied
  materialize_existing - freeze the old rule's occurrences for the next
                         six months as real rows, then cut over from
                         today. The old cadence survives as concrete
                         sessions; the new rule effectively governs
                         nothing until the frozen horizon passes. Callers
                         choose this deliberately.

FAILURE SEMANTICS:
  Any storage failure aborts the remaining steps and surfaces to the
  caller. Completed steps are NOT rolled back: if the bulk freeze
  succeeds and the cutover then fails, the frozen rows remain. Every
  underlying write is idempotent, so retrying the whole change is safe.
*/
package schedule

import (
	"context"
	"log"
	"time"
)

// UpdateStrategy selects how a schedule change treats existing occurrences.
type UpdateStrategy string

const (
	UpdateFutureOnly          UpdateStrategy = "future_only"
	UpdateFromDate            UpdateStrategy = "from_date"
	UpdateMaterializeExisting UpdateStrategy = "materialize_existing"
)

// FreezeHorizonMonths is how far ahead materialize_existing freezes the
// old rule's occurrences.
const FreezeHorizonMonths = 6

// FreezeNote is the provenance note stamped on frozen sessions.
const FreezeNote = "Auto-created from schedule change (preserving old schedule)"

// RuleEdit carries the changed slot values. Nil fields keep the old
// rule's values.
type RuleEdit struct {
	Day       *DayOfWeek
	StartTime *ClockTime
	EndTime   *ClockTime
}

// ChangeResult reports what a schedule change did.
type ChangeResult struct {
	OldRule           RecurrenceRule
	NewRule           RecurrenceRule
	MaterializedCount int
}

// Coordinator applies schedule changes.
type Coordinator struct {
	Rules        RuleStore
	Breaks       BreakStore
	Materializer *Materializer

	// Now is injectable for tests; defaults to time.Now.
	Now func() time.Time
}

func NewCoordinator(rules RuleStore, breaks BreakStore, materializer *Materializer) *Coordinator {
	return &Coordinator{
		Rules:        rules,
		Breaks:       breaks,
		Materializer: materializer,
		Now:          time.Now,
	}
}

// RequiresUpdateModal reports whether an edit changes the slot itself
// (day, start, or end). A slot-preserving edit (renames and the like)
// never needs a strategy and never calls the Coordinator.
func RequiresUpdateModal(old RecurrenceRule, edit RuleEdit) bool {
	if edit.Day != nil && *edit.Day != old.Day {
		return true
	}
	if edit.StartTime != nil && !edit.StartTime.Equal(old.StartTime) {
		return true
	}
	if edit.EndTime != nil && !edit.EndTime.Equal(old.EndTime) {
		return true
	}
	return false
}

// ApplyScheduleChange applies an edit to a rule under the given strategy.
// effectiveDate is required for from_date and ignored otherwise.
func (c *Coordinator) ApplyScheduleChange(ctx context.Context, ruleID RuleID, edit RuleEdit, strategy UpdateStrategy, effectiveDate *Date) (*ChangeResult, error) {
	switch strategy {
	case UpdateFutureOnly:
		return c.cutover(ctx, ruleID, edit, c.today(), 0)

	case UpdateFromDate:
		if effectiveDate == nil {
			return nil, ErrMissingEffectiveDate
		}
		return c.cutover(ctx, ruleID, edit, *effectiveDate, 0)

	case UpdateMaterializeExisting:
		return c.materializeAndCutover(ctx, ruleID, edit)

	default:
		return nil, ErrUnknownStrategy
	}
}

// cutover closes the old rule the day before the cutover date and opens a
// new rule, with the edit applied, from the cutover date onward.
func (c *Coordinator) cutover(ctx context.Context, ruleID RuleID, edit RuleEdit, cutover Date, materialized int) (*ChangeResult, error) {
	old, err := c.Rules.Rule(ctx, ruleID)
	if err != nil {
		return nil, err
	}

	if err := c.Rules.CloseRule(ctx, old.ID, cutover.AddDays(-1)); err != nil {
		return nil, persistence("close rule", err)
	}

	replacement := RecurrenceRule{
		ClassroomID:   old.ClassroomID,
		Day:           old.Day,
		StartTime:     old.StartTime,
		EndTime:       old.EndTime,
		EffectiveFrom: cutover,
	}
	if edit.Day != nil {
		replacement.Day = *edit.Day
	}
	if edit.StartTime != nil {
		replacement.StartTime = *edit.StartTime
	}
	if edit.EndTime != nil {
		replacement.EndTime = *edit.EndTime
	}

	created, err := c.Rules.CreateRule(ctx, replacement)
	if err != nil {
		return nil, persistence("create rule", err)
	}

	log.Printf("[ScheduleChange] Rule %s cut over at %s -> rule %s (%s %s-%s)",
		old.ID, cutover, created.ID, created.Day, created.StartTime, created.EndTime)

	return &ChangeResult{OldRule: *old, NewRule: *created, MaterializedCount: materialized}, nil
}

// materializeAndCutover freezes the old rule's occurrences from today
// through the horizon as real rows, then performs the future_only cutover.
// The freeze and the cutover are separate steps on purpose: a failure in
// between leaves the frozen rows in place, and re-running the change is
// safe because the bulk insert skips rows that already exist.
func (c *Coordinator) materializeAndCutover(ctx context.Context, ruleID RuleID, edit RuleEdit) (*ChangeResult, error) {
	old, err := c.Rules.Rule(ctx, ruleID)
	if err != nil {
		return nil, err
	}

	breaks, err := c.Breaks.Breaks(ctx, old.ClassroomID)
	if err != nil {
		return nil, persistence("load breaks", err)
	}

	today := c.today()
	horizon := today.AddMonths(FreezeHorizonMonths)
	occurrences := Expand(old.ClassroomID, []RecurrenceRule{*old}, breaks, today, horizon)

	frozen, err := c.Materializer.MaterializeAll(ctx, occurrences, FreezeNote)
	if err != nil {
		return nil, err
	}
	log.Printf("[ScheduleChange] Froze %d of %d occurrences of rule %s through %s",
		frozen, len(occurrences), old.ID, horizon)

	return c.cutover(ctx, ruleID, edit, today, frozen)
}

func (c *Coordinator) today() Date {
	if c.Now != nil {
		return DateOf(c.Now())
	}
	return DateOf(time.Now())
}
