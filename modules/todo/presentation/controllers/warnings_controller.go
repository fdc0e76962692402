package controllers

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/jacksonlee411/office-ops/modules/todo/domain/aggregates/todo"
	"github.com/jacksonlee411/office-ops/modules/todo/presentation/controllers/dtos"
	"github.com/jacksonlee411/office-ops/modules/todo/services"
	"github.com/jacksonlee411/office-ops/pkg/application"
	"github.com/jacksonlee411/office-ops/pkg/composables"
	"github.com/jacksonlee411/office-ops/pkg/httpapi"
	"github.com/jacksonlee411/office-ops/pkg/middleware"
	"github.com/jacksonlee411/office-ops/pkg/serrors"
)

type warningQuery struct {
	UserID int64     `form:"user_id"`
	From   time.Time `form:"from"`
	To     time.Time `form:"to"`
	Month  string    `form:"month"`
}

type WarningsController struct {
	warnings *services.WarningService
	opts     TodosControllerOptions
	basePath string
}

func NewWarningsController(app application.Application, opts TodosControllerOptions) application.Controller {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	return &WarningsController{
		warnings: app.Service(services.WarningService{}).(*services.WarningService),
		opts:     opts,
		basePath: "/api/warnings",
	}
}

func (c *WarningsController) Key() string {
	return c.basePath
}

func (c *WarningsController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()
	router.Use(middleware.RequireCaller())
	router.HandleFunc("", c.List).Methods(http.MethodGet)
	router.HandleFunc("/summary", c.Summary).Methods(http.MethodGet)
}

// day re-anchors a decoded calendar date to the business timezone.
func (c *WarningsController) day(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, c.opts.Location)
	return &d
}

func (c *WarningsController) List(w http.ResponseWriter, r *http.Request) {
	q, err := composables.UseQuery(&warningQuery{}, r)
	if err != nil {
		httpapi.WriteServiceError(r.Context(), w, serrors.ErrValidation.Wrap(err))
		return
	}
	params := &todo.WarningFindParams{UserID: q.UserID, From: c.day(q.From)}
	if to := c.day(q.To); to != nil {
		end := to.AddDate(0, 0, 1)
		params.To = &end
	}
	params.Limit, params.Offset = httpapi.Page(r, c.opts.PageSize, c.opts.MaxPageSize)
	warnings, total, err := c.warnings.GetPaginatedWithTotal(r.Context(), params)
	if err != nil {
		httpapi.WriteServiceError(r.Context(), w, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, httpapi.ListEnvelope{Data: dtos.ToWarningResponses(warnings), Total: int(total)})
}

func (c *WarningsController) Summary(w http.ResponseWriter, r *http.Request) {
	q, err := composables.UseQuery(&warningQuery{}, r)
	if err != nil {
		httpapi.WriteServiceError(r.Context(), w, serrors.ErrValidation.Wrap(err))
		return
	}
	var month time.Time
	if q.Month != "" {
		month, err = time.ParseInLocation("2006-01", q.Month, c.opts.Location)
		if err != nil {
			httpapi.WriteServiceError(r.Context(), w, serrors.ValidationErrors{"month": "must be a YYYY-MM month"}.AsError())
			return
		}
	}
	summary, err := c.warnings.Summary(r.Context(), q.UserID, month)
	if err != nil {
		httpapi.WriteServiceError(r.Context(), w, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, httpapi.DataEnvelope{Data: dtos.ToSummaryResponse(summary)})
}
