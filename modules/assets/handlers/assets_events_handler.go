package handlers

import (
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/wI2L/jsondiff"

	"github.com/jacksonlee411/office-ops/modules/assets/domain/aggregates/asset"
	"github.com/jacksonlee411/office-ops/modules/assets/domain/aggregates/procurement"
	"github.com/jacksonlee411/office-ops/modules/assets/domain/aggregates/request"
	"github.com/jacksonlee411/office-ops/pkg/application"
	"github.com/jacksonlee411/office-ops/pkg/metrics"
)

// AssetsEventsHandler records committed request and asset events in metrics
// and the audit log.
type AssetsEventsHandler struct {
	logger *logrus.Logger
}

func NewAssetsEventsHandler(logger *logrus.Logger) *AssetsEventsHandler {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &AssetsEventsHandler{logger: logger}
}

func RegisterAssetsEventHandlers(app application.Application) *AssetsEventsHandler {
	h := NewAssetsEventsHandler(app.Logger())
	bus := app.EventPublisher()
	bus.Subscribe(h.onRequestTransitioned)
	bus.Subscribe(h.onRequestDeleted)
	bus.Subscribe(h.onAssetCreated)
	bus.Subscribe(h.onAssetUpdated)
	bus.Subscribe(h.onStatusChanged)
	bus.Subscribe(h.onMaintenanceChanged)
	bus.Subscribe(h.onOrphansRemoved)
	bus.Subscribe(h.onPurchased)
	return h
}

func (h *AssetsEventsHandler) onRequestTransitioned(event request.TransitionedEvent) {
	metrics.RequestTransitions.WithLabelValues(string(event.Operation), string(event.Result.Status)).Inc()
	h.logger.WithFields(logrus.Fields{
		"audit":      "request",
		"request_id": event.Result.ID,
		"operation":  event.Operation,
		"from":       event.From,
		"to":         event.Result.Status,
		"actor_id":   event.ActorID,
	}).Info("request transitioned")
}

func (h *AssetsEventsHandler) onRequestDeleted(event request.DeletedEvent) {
	h.logger.WithFields(logrus.Fields{
		"audit":      "request",
		"request_id": event.Result.ID,
		"status":     event.Result.Status,
		"actor_id":   event.ActorID,
	}).Info("request deleted")
}

func (h *AssetsEventsHandler) onAssetCreated(event asset.CreatedEvent) {
	prefix, _, _ := strings.Cut(event.Result.Code, "-")
	metrics.AssetCodesAllocated.WithLabelValues(prefix).Inc()
	h.logger.WithFields(logrus.Fields{
		"audit":       "asset",
		"asset_id":    event.Result.ID,
		"code":        event.Result.Code,
		"acquisition": event.Result.Acquisition,
		"actor_id":    event.ActorID,
	}).Info("asset created")
}

// onAssetUpdated logs the edit as a JSON patch from the previous details.
func (h *AssetsEventsHandler) onAssetUpdated(event asset.UpdatedEvent) {
	entry := h.logger.WithFields(logrus.Fields{
		"audit":    "asset",
		"asset_id": event.Result.ID,
		"code":     event.Result.Code,
		"actor_id": event.ActorID,
	})
	patch, err := jsondiff.Compare(event.Before, event.Result, jsondiff.Ignores("/UpdatedAt"))
	if err != nil {
		entry.WithError(err).Warn("asset updated; diff unavailable")
		return
	}
	if len(patch) == 0 {
		return
	}
	entry.WithField("changes", patch.String()).Info("asset updated")
}

func (h *AssetsEventsHandler) onStatusChanged(event asset.StatusChangedEvent) {
	metrics.AssetStatusChanges.WithLabelValues(string(event.Result.Status)).Inc()
	fields := logrus.Fields{
		"audit":    "asset",
		"asset_id": event.Result.ID,
		"from":     event.From,
		"to":       event.Result.Status,
		"actor_id": event.ActorID,
	}
	if event.Cascaded != "" {
		fields["request_status"] = event.Cascaded
	}
	h.logger.WithFields(fields).Info("asset status changed")
}

func (h *AssetsEventsHandler) onMaintenanceChanged(event asset.MaintenanceChangedEvent) {
	for _, a := range event.Assets {
		metrics.AssetStatusChanges.WithLabelValues(string(a.Status)).Inc()
	}
	h.logger.WithFields(logrus.Fields{
		"audit":       "maintenance",
		"request_id":  event.Request.ID,
		"operation":   event.Operation,
		"maintenance": event.Request.Maintenance.Status,
		"assets":      len(event.Assets),
		"actor_id":    event.ActorID,
	}).Info("maintenance changed")
}

func (h *AssetsEventsHandler) onOrphansRemoved(event asset.OrphansRemovedEvent) {
	codes := make([]string, 0, len(event.Removed))
	for _, a := range event.Removed {
		codes = append(codes, a.Code)
	}
	h.logger.WithFields(logrus.Fields{
		"audit":    "asset",
		"removed":  strings.Join(codes, ","),
		"actor_id": event.ActorID,
	}).Warn("orphan assets removed")
}

func (h *AssetsEventsHandler) onPurchased(event procurement.CreatedEvent) {
	h.logger.WithFields(logrus.Fields{
		"audit":          "procurement",
		"procurement_id": event.Result.ID,
		"request_id":     event.Result.RequestID,
		"amount":         event.Result.Amount.String(),
		"supplier":       event.Result.Supplier,
		"actor_id":       event.ActorID,
	}).Info("purchase recorded")
}
