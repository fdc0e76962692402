package controllers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/jacksonlee411/office-ops/modules/assets/domain/aggregates/procurement"
	"github.com/jacksonlee411/office-ops/modules/assets/presentation/controllers/dtos"
	"github.com/jacksonlee411/office-ops/modules/assets/services"
	"github.com/jacksonlee411/office-ops/pkg/application"
	"github.com/jacksonlee411/office-ops/pkg/httpapi"
	"github.com/jacksonlee411/office-ops/pkg/middleware"
)

type ProcurementsController struct {
	procurements *services.ProcurementService
	opts         ControllerOptions
	basePath     string
}

func NewProcurementsController(app application.Application, opts ControllerOptions) application.Controller {
	return &ProcurementsController{
		procurements: app.Service(services.ProcurementService{}).(*services.ProcurementService),
		opts:         opts,
		basePath:     "/api/procurements",
	}
}

func (c *ProcurementsController) Key() string {
	return c.basePath
}

func (c *ProcurementsController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()
	router.Use(middleware.RequireCaller())
	router.HandleFunc("", c.Store).Methods(http.MethodPost)
}

func (c *ProcurementsController) Store(w http.ResponseWriter, r *http.Request) {
	var dto procurement.CreateDTO
	if err := httpapi.DecodeJSON(r, &dto); err != nil {
		httpapi.WriteServiceError(r.Context(), w, err)
		return
	}
	p, err := c.procurements.Store(r.Context(), &dto)
	if err != nil {
		httpapi.WriteServiceError(r.Context(), w, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusCreated, httpapi.DataEnvelope{Data: dtos.ToProcurementResponse(p, c.opts.Currency)})
}
