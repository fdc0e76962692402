package todo

import "time"

// TransitionedEvent is published after a status change commits.
type TransitionedEvent struct {
	Operation Operation
	From      Status
	Result    Todo
	ActorID   int64
	At        time.Time
}

type WarningIssuedEvent struct {
	Result Warning
}

type DeletedEvent struct {
	Result  Todo
	ActorID int64
	// Retired lists evidence paths after the deleted marker was applied.
	Retired []string
}

type RoutineExpandedEvent struct {
	Title   string
	Created int
	Skipped int
	ActorID int64
}
