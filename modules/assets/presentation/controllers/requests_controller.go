package controllers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/jacksonlee411/office-ops/modules/assets/domain/aggregates/asset"
	"github.com/jacksonlee411/office-ops/modules/assets/domain/aggregates/request"
	"github.com/jacksonlee411/office-ops/modules/assets/presentation/controllers/dtos"
	"github.com/jacksonlee411/office-ops/modules/assets/services"
	"github.com/jacksonlee411/office-ops/pkg/application"
	"github.com/jacksonlee411/office-ops/pkg/composables"
	"github.com/jacksonlee411/office-ops/pkg/httpapi"
	"github.com/jacksonlee411/office-ops/pkg/middleware"
	"github.com/jacksonlee411/office-ops/pkg/serrors"
)

type RequestsController struct {
	requests     *services.RequestService
	procurements *services.ProcurementService
	opts         ControllerOptions
	basePath     string
}

func NewRequestsController(app application.Application, opts ControllerOptions) application.Controller {
	return &RequestsController{
		requests:     app.Service(services.RequestService{}).(*services.RequestService),
		procurements: app.Service(services.ProcurementService{}).(*services.ProcurementService),
		opts:         opts,
		basePath:     "/api/requests",
	}
}

func (c *RequestsController) Key() string {
	return c.basePath
}

func (c *RequestsController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()
	router.Use(middleware.RequireCaller())
	router.HandleFunc("", c.List).Methods(http.MethodGet)
	router.HandleFunc("", c.Create).Methods(http.MethodPost)
	router.HandleFunc("/{id:[0-9]+}", c.Get).Methods(http.MethodGet)
	router.HandleFunc("/{id:[0-9]+}", c.Update).Methods(http.MethodPut)
	router.HandleFunc("/{id:[0-9]+}", c.Delete).Methods(http.MethodDelete)
	router.HandleFunc("/{id:[0-9]+}/approve", c.Approve).Methods(http.MethodPost)
	router.HandleFunc("/{id:[0-9]+}/reject", c.Reject).Methods(http.MethodPost)
	router.HandleFunc("/{id:[0-9]+}/maintenance", c.RequestMaintenance).Methods(http.MethodPost)
	router.HandleFunc("/{id:[0-9]+}/maintenance/start", c.StartMaintenance).Methods(http.MethodPost)
	router.HandleFunc("/{id:[0-9]+}/maintenance/complete", c.CompleteMaintenance).Methods(http.MethodPost)
	router.HandleFunc("/{id:[0-9]+}/procurements", c.Procurements).Methods(http.MethodGet)
}

func (c *RequestsController) respond(w http.ResponseWriter, status int, rq *request.Request) {
	_ = httpapi.WriteJSON(w, status, httpapi.DataEnvelope{Data: dtos.ToRequestResponse(rq, c.opts.Currency)})
}

func (c *RequestsController) List(w http.ResponseWriter, r *http.Request) {
	q, err := composables.UseQuery(&listQuery{}, r)
	if err != nil {
		httpapi.WriteServiceError(r.Context(), w, serrors.ErrValidation.Wrap(err))
		return
	}
	ids, err := httpapi.QueryInt64s(r, "ids")
	if err != nil {
		httpapi.WriteServiceError(r.Context(), w, err)
		return
	}
	params := &request.FindParams{
		IDs:      ids,
		UserID:   q.UserID,
		Statuses: splitStatuses[request.Status](q.Status),
		Category: q.Category,
		Search:   q.Search,
	}
	params.Limit, params.Offset = httpapi.Page(r, c.opts.PageSize, c.opts.MaxPageSize)
	requests, total, err := c.requests.GetPaginatedWithTotal(r.Context(), params)
	if err != nil {
		httpapi.WriteServiceError(r.Context(), w, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, httpapi.ListEnvelope{
		Data:  dtos.ToRequestResponses(requests, c.opts.Currency),
		Total: int(total),
	})
}

func (c *RequestsController) Get(w http.ResponseWriter, r *http.Request) {
	id, err := httpapi.PathID(r, "id")
	if err != nil {
		httpapi.WriteServiceError(r.Context(), w, err)
		return
	}
	rq, err := c.requests.GetByID(r.Context(), id)
	if err != nil {
		httpapi.WriteServiceError(r.Context(), w, err)
		return
	}
	c.respond(w, http.StatusOK, rq)
}

func (c *RequestsController) Create(w http.ResponseWriter, r *http.Request) {
	var dto request.CreateDTO
	if err := httpapi.DecodeJSON(r, &dto); err != nil {
		httpapi.WriteServiceError(r.Context(), w, err)
		return
	}
	rq, err := c.requests.Create(r.Context(), &dto)
	if err != nil {
		httpapi.WriteServiceError(r.Context(), w, err)
		return
	}
	c.respond(w, http.StatusCreated, rq)
}

func (c *RequestsController) Update(w http.ResponseWriter, r *http.Request) {
	id, err := httpapi.PathID(r, "id")
	if err != nil {
		httpapi.WriteServiceError(r.Context(), w, err)
		return
	}
	var dto request.UpdateDTO
	if err := httpapi.DecodeJSON(r, &dto); err != nil {
		httpapi.WriteServiceError(r.Context(), w, err)
		return
	}
	rq, err := c.requests.Update(r.Context(), id, &dto)
	if err != nil {
		httpapi.WriteServiceError(r.Context(), w, err)
		return
	}
	c.respond(w, http.StatusOK, rq)
}

func (c *RequestsController) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := httpapi.PathID(r, "id")
	if err != nil {
		httpapi.WriteServiceError(r.Context(), w, err)
		return
	}
	rq, err := c.requests.Delete(r.Context(), id)
	if err != nil {
		httpapi.WriteServiceError(r.Context(), w, err)
		return
	}
	c.respond(w, http.StatusOK, rq)
}

// decision decodes an optional note; an empty body means no note.
func decision(r *http.Request) (*request.DecisionDTO, error) {
	dto := &request.DecisionDTO{}
	if r.ContentLength == 0 {
		return dto, nil
	}
	return dto, httpapi.DecodeJSON(r, dto)
}

func (c *RequestsController) Approve(w http.ResponseWriter, r *http.Request) {
	id, err := httpapi.PathID(r, "id")
	if err != nil {
		httpapi.WriteServiceError(r.Context(), w, err)
		return
	}
	dto, err := decision(r)
	if err != nil {
		httpapi.WriteServiceError(r.Context(), w, err)
		return
	}
	rq, a, err := c.requests.Approve(r.Context(), id, dto)
	if err != nil {
		httpapi.WriteServiceError(r.Context(), w, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, httpapi.DataEnvelope{Data: dtos.ApproveResponse{
		Request: dtos.ToRequestResponse(rq, c.opts.Currency),
		Asset:   dtos.ToAssetResponse(a, c.opts.Currency),
	}})
}

func (c *RequestsController) Reject(w http.ResponseWriter, r *http.Request) {
	id, err := httpapi.PathID(r, "id")
	if err != nil {
		httpapi.WriteServiceError(r.Context(), w, err)
		return
	}
	dto, err := decision(r)
	if err != nil {
		httpapi.WriteServiceError(r.Context(), w, err)
		return
	}
	rq, err := c.requests.Reject(r.Context(), id, dto)
	if err != nil {
		httpapi.WriteServiceError(r.Context(), w, err)
		return
	}
	c.respond(w, http.StatusOK, rq)
}

func (c *RequestsController) RequestMaintenance(w http.ResponseWriter, r *http.Request) {
	id, err := httpapi.PathID(r, "id")
	if err != nil {
		httpapi.WriteServiceError(r.Context(), w, err)
		return
	}
	var dto request.MaintenanceDTO
	if err := httpapi.DecodeJSON(r, &dto); err != nil {
		httpapi.WriteServiceError(r.Context(), w, err)
		return
	}
	rq, assets, err := c.requests.RequestMaintenance(r.Context(), id, &dto)
	c.maintenanceResult(w, r, rq, assets, err)
}

func (c *RequestsController) StartMaintenance(w http.ResponseWriter, r *http.Request) {
	id, err := httpapi.PathID(r, "id")
	if err != nil {
		httpapi.WriteServiceError(r.Context(), w, err)
		return
	}
	rq, assets, err := c.requests.StartMaintenance(r.Context(), id)
	c.maintenanceResult(w, r, rq, assets, err)
}

func (c *RequestsController) CompleteMaintenance(w http.ResponseWriter, r *http.Request) {
	id, err := httpapi.PathID(r, "id")
	if err != nil {
		httpapi.WriteServiceError(r.Context(), w, err)
		return
	}
	dto := &request.CompleteMaintenanceDTO{}
	if r.ContentLength != 0 {
		if err := httpapi.DecodeJSON(r, dto); err != nil {
			httpapi.WriteServiceError(r.Context(), w, err)
			return
		}
	}
	rq, assets, err := c.requests.CompleteMaintenance(r.Context(), id, dto)
	c.maintenanceResult(w, r, rq, assets, err)
}

func (c *RequestsController) maintenanceResult(w http.ResponseWriter, r *http.Request, rq *request.Request, assets []*asset.Asset, err error) {
	if err != nil {
		httpapi.WriteServiceError(r.Context(), w, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, httpapi.DataEnvelope{Data: dtos.MaintenanceChangeResponse{
		Request: dtos.ToRequestResponse(rq, c.opts.Currency),
		Assets:  dtos.ToAssetResponses(assets, c.opts.Currency),
	}})
}

func (c *RequestsController) Procurements(w http.ResponseWriter, r *http.Request) {
	id, err := httpapi.PathID(r, "id")
	if err != nil {
		httpapi.WriteServiceError(r.Context(), w, err)
		return
	}
	list, err := c.procurements.ListByRequest(r.Context(), id)
	if err != nil {
		httpapi.WriteServiceError(r.Context(), w, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, httpapi.ListEnvelope{
		Data:  dtos.ToProcurementResponses(list, c.opts.Currency),
		Total: len(list),
	})
}
