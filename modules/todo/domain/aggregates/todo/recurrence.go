package todo

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"golang.org/x/text/cases"
)

type RecurrenceUnit string

const (
	UnitDay   RecurrenceUnit = "day"
	UnitWeek  RecurrenceUnit = "week"
	UnitMonth RecurrenceUnit = "month"
	UnitYear  RecurrenceUnit = "year"
)

func (u RecurrenceUnit) IsValid() bool {
	switch u {
	case UnitDay, UnitWeek, UnitMonth, UnitYear:
		return true
	}
	return false
}

// Recurrence describes how a routine repeats. Dates are generated inside a
// rolling window that depends on the unit.
type Recurrence struct {
	Interval    int
	Unit        RecurrenceUnit
	Count       int
	PerInterval int
	DaysOfWeek  []time.Weekday
}

func (r Recurrence) IsZero() bool {
	return r.Interval == 0 && r.Unit == "" && r.Count == 0 && r.PerInterval == 0 && len(r.DaysOfWeek) == 0
}

func (r Recurrence) Validate() error {
	switch {
	case !r.Unit.IsValid():
		return ErrInvalidRecurrence.WithMessage("unit must be one of day, week, month, year")
	case r.Interval < 1:
		return ErrInvalidRecurrence.WithMessage("interval must be at least 1")
	case r.Count < 0:
		return ErrInvalidRecurrence.WithMessage("count must not be negative")
	case r.PerInterval < 0:
		return ErrInvalidRecurrence.WithMessage("occurrences per interval must not be negative")
	case len(r.DaysOfWeek) > 0 && r.Unit != UnitWeek:
		return ErrInvalidRecurrence.WithMessage("days of week only apply to weekly routines")
	}
	for _, d := range r.DaysOfWeek {
		if d < time.Sunday || d > time.Saturday {
			return ErrInvalidRecurrence.WithMessage("invalid day of week %d", d)
		}
	}
	return nil
}

// Occurrences is the number of instances per user per generated date.
func (r Recurrence) Occurrences() int {
	if r.PerInterval < 1 {
		return 1
	}
	return r.PerInterval
}

// Equal compares two definitions ignoring the order of days of week.
func (r Recurrence) Equal(o Recurrence) bool {
	if r.Interval != o.Interval || r.Unit != o.Unit || r.Count != o.Count || r.PerInterval != o.PerInterval {
		return false
	}
	a, b := sortedDays(r.DaysOfWeek), sortedDays(o.DaysOfWeek)
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func sortedDays(days []time.Weekday) []time.Weekday {
	out := append([]time.Weekday(nil), days...)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Window returns the half-open generation window starting at start.
func (r Recurrence) Window(start time.Time) (time.Time, time.Time) {
	from := dateOf(start)
	switch r.Unit {
	case UnitWeek:
		return from, from.AddDate(0, 0, 28)
	case UnitMonth:
		return from, addMonths(from, 1)
	case UnitYear:
		return from, addMonths(from, 12)
	}
	return from, from.AddDate(0, 0, 30)
}

// Expand lists the dates the routine falls on inside its window.
func (r Recurrence) Expand(start time.Time) []time.Time {
	if r.Validate() != nil {
		return nil
	}
	from, to := r.Window(start)
	var out []time.Time
	add := func(d time.Time) bool {
		if r.Count > 0 && len(out) >= r.Count {
			return false
		}
		out = append(out, d)
		return true
	}

	switch r.Unit {
	case UnitDay:
		for d := from; d.Before(to); d = d.AddDate(0, 0, r.Interval) {
			if !add(d) {
				break
			}
		}
	case UnitWeek:
		days := r.DaysOfWeek
		if len(days) == 0 {
			days = []time.Weekday{from.Weekday()}
		}
		wanted := map[time.Weekday]bool{}
		for _, d := range days {
			wanted[d] = true
		}
		for d, i := from, 0; d.Before(to); d, i = d.AddDate(0, 0, 1), i+1 {
			if (i/7)%r.Interval != 0 || !wanted[d.Weekday()] {
				continue
			}
			if !add(d) {
				break
			}
		}
	case UnitMonth, UnitYear:
		step := r.Interval
		if r.Unit == UnitYear {
			step *= 12
		}
		for n := 0; ; n += step {
			d := addMonths(from, n)
			if !d.Before(to) || !add(d) {
				break
			}
		}
	}
	return out
}

func (r Recurrence) String() string {
	s := fmt.Sprintf("every %d %s", r.Interval, r.Unit)
	if r.Count > 0 {
		s += fmt.Sprintf(" x%d", r.Count)
	}
	return s
}

func dateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// addMonths moves n months forward, clamping to the last day of the month.
func addMonths(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m+time.Month(n), 1, 0, 0, 0, 0, t.Location())
	last := first.AddDate(0, 1, -1).Day()
	if d > last {
		d = last
	}
	return time.Date(first.Year(), first.Month(), d, 0, 0, 0, 0, t.Location())
}

// NormalizeTitle trims, collapses inner whitespace and case-folds a title.
func NormalizeTitle(title string) string {
	return cases.Fold().String(strings.Join(strings.Fields(title), " "))
}

// ParseClock parses an "HH:MM" time of day into minutes since midnight.
func ParseClock(s string) (int, error) {
	t, err := time.Parse("15:04", strings.TrimSpace(s))
	if err != nil {
		return 0, ErrInvalidRecurrence.WithMessage("invalid time of day %q", s)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// At returns day at the given minutes since midnight.
func At(day time.Time, minutes int) time.Time {
	y, m, d := day.Date()
	return time.Date(y, m, d, minutes/60, minutes%60, 0, 0, day.Location())
}
