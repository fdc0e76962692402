package handlers

import (
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/jacksonlee411/office-ops/modules/todo/domain/aggregates/todo"
	"github.com/jacksonlee411/office-ops/pkg/application"
	"github.com/jacksonlee411/office-ops/pkg/metrics"
)

// TodoEventsHandler records committed todo events in metrics and the audit log.
type TodoEventsHandler struct {
	logger *logrus.Logger
}

func NewTodoEventsHandler(logger *logrus.Logger) *TodoEventsHandler {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &TodoEventsHandler{logger: logger}
}

func RegisterTodoEventHandlers(app application.Application) *TodoEventsHandler {
	h := NewTodoEventsHandler(app.Logger())
	bus := app.EventPublisher()
	bus.Subscribe(h.onTransitioned)
	bus.Subscribe(h.onWarningIssued)
	bus.Subscribe(h.onDeleted)
	bus.Subscribe(h.onRoutineExpanded)
	return h
}

func (h *TodoEventsHandler) onTransitioned(event todo.TransitionedEvent) {
	metrics.TodoTransitions.WithLabelValues(string(event.Operation), string(event.Result.Status)).Inc()
	fields := logrus.Fields{
		"audit":     "todo",
		"todo_id":   event.Result.ID,
		"operation": event.Operation,
		"from":      event.From,
		"to":        event.Result.Status,
		"actor_id":  event.ActorID,
	}
	if event.Result.Rating != nil && event.Result.Status == todo.StatusCompleted {
		metrics.TodoRatings.Observe(float64(*event.Result.Rating))
		fields["rating"] = *event.Result.Rating
	}
	h.logger.WithFields(fields).Info("todo transitioned")
}

func (h *TodoEventsHandler) onWarningIssued(event todo.WarningIssuedEvent) {
	w := event.Result
	metrics.TodoWarningPoints.WithLabelValues(string(w.Level)).Add(float64(w.Points))
	h.logger.WithFields(logrus.Fields{
		"audit":        "todo_warning",
		"todo_id":      w.TodoID,
		"user_id":      w.UserID,
		"evaluator_id": w.EvaluatorID,
		"points":       w.Points,
		"level":        w.Level,
	}).Warn("warning issued")
}

func (h *TodoEventsHandler) onDeleted(event todo.DeletedEvent) {
	h.logger.WithFields(logrus.Fields{
		"audit":    "todo",
		"todo_id":  event.Result.ID,
		"actor_id": event.ActorID,
		"retired":  strconv.Itoa(len(event.Retired)),
	}).Info("todo deleted")
}

func (h *TodoEventsHandler) onRoutineExpanded(event todo.RoutineExpandedEvent) {
	h.logger.WithFields(logrus.Fields{
		"audit":    "routine",
		"title":    event.Title,
		"created":  event.Created,
		"skipped":  event.Skipped,
		"actor_id": event.ActorID,
	}).Info("routine expanded")
}
