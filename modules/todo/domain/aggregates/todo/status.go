package todo

type Status string

const (
	StatusNotStarted Status = "not_started"
	StatusInProgress Status = "in_progress"
	StatusHold       Status = "hold"
	StatusChecking   Status = "checking"
	StatusEvaluating Status = "evaluating"
	StatusCompleted  Status = "completed"
)

func ValidStatuses() []Status {
	return []Status{
		StatusNotStarted,
		StatusInProgress,
		StatusHold,
		StatusChecking,
		StatusEvaluating,
		StatusCompleted,
	}
}

func (s Status) IsValid() bool {
	for _, v := range ValidStatuses() {
		if s == v {
			return true
		}
	}
	return false
}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

func (p Priority) IsValid() bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}

type DurationUnit string

const (
	UnitMinutes DurationUnit = "minutes"
	UnitHours   DurationUnit = "hours"
	UnitDays    DurationUnit = "days"
)

// Minutes converts value in unit to minutes. A day counts as 24 hours.
func (u DurationUnit) Minutes(value int) (int, bool) {
	switch u {
	case UnitMinutes:
		return value, true
	case UnitHours:
		return value * 60, true
	case UnitDays:
		return value * 1440, true
	}
	return 0, false
}
