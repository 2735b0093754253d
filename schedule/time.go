package schedule

import (
	"fmt"
	"strings"
	"time"
)

// =============================================================================
// DATE - Naive calendar day (this IS a wall-clock scheduling system)
// =============================================================================

// Date is a calendar day with no timezone semantics. All scheduling math in
// this engine is naive local wall-clock arithmetic; the Date type makes it
// impossible to accidentally compare instants across zones.
type Date struct {
	t time.Time
}

// Constructors
func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates a time.Time to its calendar day.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return DateOf(t), nil
}

// MustParseDate is for tests and literals known to be valid.
func MustParseDate(s string) Date {
	d, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Comparison
func (d Date) Before(other Date) bool        { return d.t.Before(other.t) }
func (d Date) After(other Date) bool         { return d.t.After(other.t) }
func (d Date) Equal(other Date) bool         { return d.t.Equal(other.t) }
func (d Date) BeforeOrEqual(other Date) bool { return !d.After(other) }
func (d Date) AfterOrEqual(other Date) bool  { return !d.Before(other) }

// Arithmetic
func (d Date) AddDays(n int) Date   { return Date{t: d.t.AddDate(0, 0, n)} }
func (d Date) AddMonths(n int) Date { return Date{t: d.t.AddDate(0, n, 0)} }

// Properties
func (d Date) Year() int             { return d.t.Year() }
func (d Date) Month() time.Month     { return d.t.Month() }
func (d Date) Day() int              { return d.t.Day() }
func (d Date) Weekday() time.Weekday { return d.t.Weekday() }
func (d Date) IsZero() bool          { return d.t.IsZero() }

func (d Date) String() string { return d.t.Format("2006-01-02") }

// =============================================================================
// CLOCK TIME - Naive HH:MM within a day
// =============================================================================

// ClockTime is a wall-clock time of day with minute precision. Stored session
// times sometimes carry seconds; parsing normalizes them away so that slot
// comparison is always done in the same HH:MM space.
type ClockTime struct {
	minutes int // since midnight
}

func NewClockTime(hour, minute int) ClockTime {
	return ClockTime{minutes: hour*60 + minute}
}

// ClockTimeOf extracts the time-of-day from a time.Time.
func ClockTimeOf(t time.Time) ClockTime {
	return NewClockTime(t.Hour(), t.Minute())
}

// ParseClockTime parses "HH:MM". A trailing ":SS" is accepted and dropped.
func ParseClockTime(s string) (ClockTime, error) {
	if len(s) > 5 {
		s = s[:5]
	}
	t, err := time.Parse("15:04", s)
	if err != nil {
		return ClockTime{}, fmt.Errorf("invalid time %q: %w", s, err)
	}
	return ClockTimeOf(t), nil
}

// MustParseClockTime is for tests and literals known to be valid.
func MustParseClockTime(s string) ClockTime {
	c, err := ParseClockTime(s)
	if err != nil {
		panic(err)
	}
	return c
}

func (c ClockTime) Hour() int   { return c.minutes / 60 }
func (c ClockTime) Minute() int { return c.minutes % 60 }

func (c ClockTime) Before(other ClockTime) bool { return c.minutes < other.minutes }
func (c ClockTime) After(other ClockTime) bool  { return c.minutes > other.minutes }
func (c ClockTime) Equal(other ClockTime) bool  { return c.minutes == other.minutes }

func (c ClockTime) String() string { return fmt.Sprintf("%02d:%02d", c.Hour(), c.Minute()) }

// =============================================================================
// DAY OF WEEK - Numeric with name normalization
// =============================================================================

// DayOfWeek is a weekday in the 0-6 space, Sunday = 0. Callers sometimes
// supply weekday names instead of numbers; ParseDayOfWeek and UnmarshalJSON
// normalize both forms. An unrecognized name normalizes to NoDay, which
// matches no calendar date - a bad day value silently generates nothing
// rather than generating on the wrong day.
type DayOfWeek int

const (
	Sunday    DayOfWeek = 0
	Monday    DayOfWeek = 1
	Tuesday   DayOfWeek = 2
	Wednesday DayOfWeek = 3
	Thursday  DayOfWeek = 4
	Friday    DayOfWeek = 5
	Saturday  DayOfWeek = 6

	// NoDay is the fail-closed sentinel for unrecognized day values.
	NoDay DayOfWeek = -1
)

var dayNames = map[string]DayOfWeek{
	"sunday":    Sunday,
	"monday":    Monday,
	"tuesday":   Tuesday,
	"wednesday": Wednesday,
	"thursday":  Thursday,
	"friday":    Friday,
	"saturday":  Saturday,
}

// ParseDayOfWeek normalizes a weekday name or a numeric string ("0"-"6")
// to the numeric space. Returns (NoDay, ErrUnknownDay) for anything it
// does not recognize.
func ParseDayOfWeek(name string) (DayOfWeek, error) {
	s := strings.TrimSpace(name)
	if d, err := parseDayNumber(s); err == nil {
		return d, nil
	}
	if d, ok := dayNames[strings.ToLower(s)]; ok {
		return d, nil
	}
	return NoDay, fmt.Errorf("%w: %q", ErrUnknownDay, name)
}

// Matches reports whether the day matches a weekday. NoDay matches nothing.
func (d DayOfWeek) Matches(wd time.Weekday) bool {
	return d >= Sunday && d <= Saturday && int(d) == int(wd)
}

func (d DayOfWeek) Valid() bool { return d >= Sunday && d <= Saturday }

func (d DayOfWeek) String() string {
	if !d.Valid() {
		return "none"
	}
	return time.Weekday(d).String()
}

// UnmarshalJSON accepts either a number (0-6) or a weekday name. Unknown
// names decode to NoDay instead of erroring; the sentinel fails closed at
// expansion time.
func (d *DayOfWeek) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	parsed, err := ParseDayOfWeek(s)
	if err != nil {
		*d = NoDay
		return nil
	}
	*d = parsed
	return nil
}

func parseDayNumber(s string) (DayOfWeek, error) {
	if len(s) != 1 || s[0] < '0' || s[0] > '6' {
		return NoDay, fmt.Errorf("%w: %q", ErrUnknownDay, s)
	}
	return DayOfWeek(s[0] - '0'), nil
}
