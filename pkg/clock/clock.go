package clock

import "time"

// Clock yields wall-clock time in the business timezone.
type Clock interface {
	Now() time.Time
	Location() *time.Location
}

type System struct {
	loc *time.Location
}

func New(loc *time.Location) *System {
	if loc == nil {
		loc = time.UTC
	}
	return &System{loc: loc}
}

func (s *System) Now() time.Time {
	return time.Now().In(s.loc)
}

func (s *System) Location() *time.Location {
	return s.loc
}

// Fixed always returns the same instant. Used in tests and dry runs.
type Fixed struct {
	At time.Time
}

func (f Fixed) Now() time.Time {
	return f.At
}

func (f Fixed) Location() *time.Location {
	return f.At.Location()
}

// StartOfDay truncates t to midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
