package todo

import (
	"fmt"
	"strings"

	"github.com/jacksonlee411/office-ops/pkg/serrors"
)

type Operation string

const (
	OpStart              Operation = "start"
	OpHold               Operation = "hold"
	OpComplete           Operation = "complete"
	OpSubmitForChecking  Operation = "submit_for_checking"
	OpApprove            Operation = "approve"
	OpRework             Operation = "rework"
	OpSubmitImprovement  Operation = "submit_improvement"
	OpApproveImprovement Operation = "approve_improvement"
)

type transition struct {
	from []Status
	to   Status
}

var transitions = map[Operation]transition{
	OpStart:              {from: []Status{StatusNotStarted, StatusHold}, to: StatusInProgress},
	OpHold:               {from: []Status{StatusInProgress}, to: StatusHold},
	OpComplete:           {from: []Status{StatusInProgress}, to: StatusCompleted},
	OpSubmitForChecking:  {from: []Status{StatusInProgress}, to: StatusChecking},
	OpApprove:            {from: []Status{StatusChecking}, to: StatusCompleted},
	OpRework:             {from: []Status{StatusChecking}, to: StatusEvaluating},
	OpSubmitImprovement:  {from: []Status{StatusEvaluating}, to: StatusChecking},
	OpApproveImprovement: {from: []Status{StatusEvaluating}, to: StatusCompleted},
}

func Operations() []Operation {
	return []Operation{
		OpStart, OpHold, OpComplete, OpSubmitForChecking,
		OpApprove, OpRework, OpSubmitImprovement, OpApproveImprovement,
	}
}

// TransitionError reports an operation invoked in a status outside its
// precondition set.
type TransitionError struct {
	Op      Operation
	Current Status
	Allowed []Status
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot %s todo in status %s", e.Op, e.Current)
}

func (e *TransitionError) Unwrap() error {
	allowed := make([]string, 0, len(e.Allowed))
	for _, s := range e.Allowed {
		allowed = append(allowed, string(s))
	}
	return ErrInvalidTransition.WithMessage("%s", e.Error()).WithMeta(map[string]string{
		"operation": string(e.Op),
		"status":    string(e.Current),
		"allowed":   strings.Join(allowed, ","),
	})
}

// Next returns the status op leads to from current, or a *TransitionError.
func Next(current Status, op Operation) (Status, error) {
	t, ok := transitions[op]
	if !ok {
		return current, serrors.NewError(serrors.KindValidation, "TODO_UNKNOWN_OPERATION", fmt.Sprintf("unknown operation %q", op))
	}
	for _, s := range t.from {
		if s == current {
			return t.to, nil
		}
	}
	return current, &TransitionError{Op: op, Current: current, Allowed: t.from}
}
