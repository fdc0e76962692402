package controllers

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/jacksonlee411/office-ops/modules/assets/domain/aggregates/asset"
	"github.com/jacksonlee411/office-ops/modules/assets/presentation/controllers/dtos"
	"github.com/jacksonlee411/office-ops/modules/assets/services"
	"github.com/jacksonlee411/office-ops/pkg/application"
	"github.com/jacksonlee411/office-ops/pkg/composables"
	"github.com/jacksonlee411/office-ops/pkg/httpapi"
	"github.com/jacksonlee411/office-ops/pkg/middleware"
	"github.com/jacksonlee411/office-ops/pkg/serrors"
)

type AssetsController struct {
	assets   *services.AssetService
	opts     ControllerOptions
	basePath string
}

func NewAssetsController(app application.Application, opts ControllerOptions) application.Controller {
	return &AssetsController{
		assets:   app.Service(services.AssetService{}).(*services.AssetService),
		opts:     opts,
		basePath: "/api/assets",
	}
}

func (c *AssetsController) Key() string {
	return c.basePath
}

func (c *AssetsController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()
	router.Use(middleware.RequireCaller())
	router.HandleFunc("", c.List).Methods(http.MethodGet)
	router.HandleFunc("", c.Create).Methods(http.MethodPost)
	router.HandleFunc("/next-code", c.NextCode).Methods(http.MethodGet)
	router.HandleFunc("/orphans", c.CleanupOrphans).Methods(http.MethodDelete)
	router.HandleFunc("/{id:[0-9]+}", c.Get).Methods(http.MethodGet)
	router.HandleFunc("/{id:[0-9]+}", c.Update).Methods(http.MethodPut)
	router.HandleFunc("/{id:[0-9]+}/status", c.UpdateStatus).Methods(http.MethodPost)
}

func (c *AssetsController) respond(w http.ResponseWriter, status int, a *asset.Asset) {
	_ = httpapi.WriteJSON(w, status, httpapi.DataEnvelope{Data: dtos.ToAssetResponse(a, c.opts.Currency)})
}

func (c *AssetsController) List(w http.ResponseWriter, r *http.Request) {
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
	params := &asset.FindParams{
		IDs:       ids,
		RequestID: q.RequestID,
		OwnerID:   q.UserID,
		Statuses:  splitStatuses[asset.Status](q.Status),
		Category:  q.Category,
		Search:    q.Search,
	}
	params.Limit, params.Offset = httpapi.Page(r, c.opts.PageSize, c.opts.MaxPageSize)
	assets, total, err := c.assets.GetPaginatedWithTotal(r.Context(), params)
	if err != nil {
		httpapi.WriteServiceError(r.Context(), w, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, httpapi.ListEnvelope{
		Data:  dtos.ToAssetResponses(assets, c.opts.Currency),
		Total: int(total),
	})
}

func (c *AssetsController) Get(w http.ResponseWriter, r *http.Request) {
	id, err := httpapi.PathID(r, "id")
	if err != nil {
		httpapi.WriteServiceError(r.Context(), w, err)
		return
	}
	a, err := c.assets.GetByID(r.Context(), id)
	if err != nil {
		httpapi.WriteServiceError(r.Context(), w, err)
		return
	}
	c.respond(w, http.StatusOK, a)
}

func (c *AssetsController) Create(w http.ResponseWriter, r *http.Request) {
	var dto asset.CreateDTO
	if err := httpapi.DecodeJSON(r, &dto); err != nil {
		httpapi.WriteServiceError(r.Context(), w, err)
		return
	}
	a, err := c.assets.Create(r.Context(), &dto)
	if err != nil {
		httpapi.WriteServiceError(r.Context(), w, err)
		return
	}
	c.respond(w, http.StatusCreated, a)
}

func (c *AssetsController) Update(w http.ResponseWriter, r *http.Request) {
	id, err := httpapi.PathID(r, "id")
	if err != nil {
		httpapi.WriteServiceError(r.Context(), w, err)
		return
	}
	var dto asset.DetailsDTO
	if err := httpapi.DecodeJSON(r, &dto); err != nil {
		httpapi.WriteServiceError(r.Context(), w, err)
		return
	}
	a, err := c.assets.Update(r.Context(), id, &dto)
	if err != nil {
		httpapi.WriteServiceError(r.Context(), w, err)
		return
	}
	c.respond(w, http.StatusOK, a)
}

func (c *AssetsController) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := httpapi.PathID(r, "id")
	if err != nil {
		httpapi.WriteServiceError(r.Context(), w, err)
		return
	}
	dto, files, cleanup, err := statusRequest(w, r, c.opts.Uploads)
	if err != nil {
		httpapi.WriteServiceError(r.Context(), w, err)
		return
	}
	defer cleanup()
	a, err := c.assets.UpdateStatus(r.Context(), id, dto, files)
	if err != nil {
		httpapi.WriteServiceError(r.Context(), w, err)
		return
	}
	c.respond(w, http.StatusOK, a)
}

func (c *AssetsController) NextCode(w http.ResponseWriter, r *http.Request) {
	category := strings.TrimSpace(r.URL.Query().Get("category"))
	if category == "" {
		httpapi.WriteServiceError(r.Context(), w, serrors.ValidationErrors{"category": "required"}.AsError())
		return
	}
	code, err := c.assets.PreviewCode(r.Context(), category)
	if err != nil {
		httpapi.WriteServiceError(r.Context(), w, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, httpapi.DataEnvelope{Data: dtos.NextCodeResponse{Category: category, Code: code}})
}

func (c *AssetsController) CleanupOrphans(w http.ResponseWriter, r *http.Request) {
	removed, err := c.assets.CleanupOrphans(r.Context())
	if err != nil {
		httpapi.WriteServiceError(r.Context(), w, err)
		return
	}
	out := dtos.OrphansResponse{Removed: make([]string, 0, len(removed))}
	for _, a := range removed {
		out.Removed = append(out.Removed, a.Code)
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, httpapi.DataEnvelope{Data: out})
}
