package request

import "time"

// TransitionedEvent is published after a request decision or maintenance
// step commits.
type TransitionedEvent struct {
	Operation Operation
	From      Status
	Result    Request
	ActorID   int64
	At        time.Time
}

type DeletedEvent struct {
	Result  Request
	ActorID int64
}
