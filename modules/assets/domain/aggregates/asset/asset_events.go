package asset

import (
	"time"

	"github.com/jacksonlee411/office-ops/modules/assets/domain/aggregates/request"
)

type CreatedEvent struct {
	Result  Asset
	ActorID int64
}

// UpdatedEvent carries the asset before and after an admin edit of its details.
type UpdatedEvent struct {
	Before  Asset
	Result  Asset
	ActorID int64
}

// StatusChangedEvent is published after a status update commits. Cascaded
// is the status the parent request took, if any.
type StatusChangedEvent struct {
	From     Status
	Result   Asset
	Cascaded request.Status
	ActorID  int64
	At       time.Time
}

// MaintenanceChangedEvent reports one maintenance step across a request and
// its assets.
type MaintenanceChangedEvent struct {
	Operation request.Operation
	Request   request.Request
	Assets    []Asset
	ActorID   int64
	At        time.Time
}

type OrphansRemovedEvent struct {
	Removed []Asset
	ActorID int64
}
