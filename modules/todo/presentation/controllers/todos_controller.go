package controllers

import (
	"context"
	"net/http"
	"strconv"
	"strings"
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
	"github.com/jacksonlee411/office-ops/pkg/upload"
)

type TodosControllerOptions struct {
	Location    *time.Location
	PageSize    int
	MaxPageSize int
	Uploads     UploadLimits
}

type TodosController struct {
	todos    *services.TodoService
	routines *services.RoutineService
	opts     TodosControllerOptions
	basePath string
}

func NewTodosController(app application.Application, opts TodosControllerOptions) application.Controller {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	return &TodosController{
		todos:    app.Service(services.TodoService{}).(*services.TodoService),
		routines: app.Service(services.RoutineService{}).(*services.RoutineService),
		opts:     opts,
		basePath: "/api/todos",
	}
}

func (c *TodosController) Key() string {
	return c.basePath
}

func (c *TodosController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()
	router.Use(middleware.RequireCaller())
	router.HandleFunc("", c.List).Methods(http.MethodGet)
	router.HandleFunc("", c.Create).Methods(http.MethodPost)
	router.HandleFunc("/routines", c.CreateRoutine).Methods(http.MethodPost)
	router.HandleFunc("/routines", c.DeleteRoutine).Methods(http.MethodDelete)
	router.HandleFunc("/{id:[0-9]+}", c.Get).Methods(http.MethodGet)
	router.HandleFunc("/{id:[0-9]+}", c.Update).Methods(http.MethodPut)
	router.HandleFunc("/{id:[0-9]+}", c.Delete).Methods(http.MethodDelete)
	router.HandleFunc("/{id:[0-9]+}/start", c.Start).Methods(http.MethodPost)
	router.HandleFunc("/{id:[0-9]+}/hold", c.Hold).Methods(http.MethodPost)
	router.HandleFunc("/{id:[0-9]+}/complete", c.withFiles(c.todos.Complete)).Methods(http.MethodPost)
	router.HandleFunc("/{id:[0-9]+}/submit", c.withFiles(c.todos.SubmitForChecking)).Methods(http.MethodPost)
	router.HandleFunc("/{id:[0-9]+}/improve", c.withFiles(c.todos.SubmitImprovement)).Methods(http.MethodPost)
	router.HandleFunc("/{id:[0-9]+}/evaluate", c.Evaluate).Methods(http.MethodPost)
	router.HandleFunc("/{id:[0-9]+}/approve-improvement", c.ApproveImprovement).Methods(http.MethodPost)
}

func (c *TodosController) parseDay(q, name string) (*time.Time, error) {
	if q == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation("2006-01-02", q, c.opts.Location)
	if err != nil {
		return nil, serrors.ValidationErrors{name: "must be a YYYY-MM-DD date"}.AsError()
	}
	return &t, nil
}

func (c *TodosController) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	params := &todo.FindParams{Search: q.Get("q")}
	for _, raw := range strings.Split(q.Get("status"), ",") {
		if raw = strings.TrimSpace(raw); raw != "" {
			params.Statuses = append(params.Statuses, todo.Status(raw))
		}
	}
	if raw := q.Get("user_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			httpapi.WriteServiceError(r.Context(), w, httpapi.ErrInvalidID.WithMeta(map[string]string{"user_id": raw}))
			return
		}
		params.UserID = id
	}
	var err error
	if params.From, err = c.parseDay(q.Get("from"), "from"); err != nil {
		httpapi.WriteServiceError(r.Context(), w, err)
		return
	}
	if params.To, err = c.parseDay(q.Get("to"), "to"); err != nil {
		httpapi.WriteServiceError(r.Context(), w, err)
		return
	}
	params.Limit, params.Offset = httpapi.Page(r, c.opts.PageSize, c.opts.MaxPageSize)

	todos, total, err := c.todos.GetPaginatedWithTotal(r.Context(), params)
	if err != nil {
		httpapi.WriteServiceError(r.Context(), w, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, httpapi.ListEnvelope{Data: dtos.ToTodoResponses(todos), Total: int(total)})
}

func (c *TodosController) Get(w http.ResponseWriter, r *http.Request) {
	id, err := httpapi.PathID(r, "id")
	if err != nil {
		httpapi.WriteServiceError(r.Context(), w, err)
		return
	}
	t, err := c.todos.GetByID(r.Context(), id)
	if err != nil {
		httpapi.WriteServiceError(r.Context(), w, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, httpapi.DataEnvelope{Data: dtos.ToTodoResponse(t)})
}

func (c *TodosController) Create(w http.ResponseWriter, r *http.Request) {
	var dto todo.CreateDTO
	if err := httpapi.DecodeJSON(r, &dto); err != nil {
		httpapi.WriteServiceError(r.Context(), w, err)
		return
	}
	t, err := c.todos.Create(r.Context(), &dto)
	if err != nil {
		httpapi.WriteServiceError(r.Context(), w, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusCreated, httpapi.DataEnvelope{Data: dtos.ToTodoResponse(t)})
}

func (c *TodosController) Update(w http.ResponseWriter, r *http.Request) {
	id, err := httpapi.PathID(r, "id")
	if err != nil {
		httpapi.WriteServiceError(r.Context(), w, err)
		return
	}
	var dto todo.UpdateDTO
	if err := httpapi.DecodeJSON(r, &dto); err != nil {
		httpapi.WriteServiceError(r.Context(), w, err)
		return
	}
	t, err := c.todos.Update(r.Context(), id, &dto)
	if err != nil {
		httpapi.WriteServiceError(r.Context(), w, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, httpapi.DataEnvelope{Data: dtos.ToTodoResponse(t)})
}

func (c *TodosController) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := httpapi.PathID(r, "id")
	if err != nil {
		httpapi.WriteServiceError(r.Context(), w, err)
		return
	}
	t, err := c.todos.Delete(r.Context(), id)
	if err != nil {
		httpapi.WriteServiceError(r.Context(), w, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, httpapi.DataEnvelope{Data: dtos.ToTodoResponse(t)})
}

func (c *TodosController) Start(w http.ResponseWriter, r *http.Request) {
	id, err := httpapi.PathID(r, "id")
	if err != nil {
		httpapi.WriteServiceError(r.Context(), w, err)
		return
	}
	t, err := c.todos.Start(r.Context(), id)
	if err != nil {
		httpapi.WriteServiceError(r.Context(), w, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, httpapi.DataEnvelope{Data: dtos.ToTodoResponse(t)})
}

func (c *TodosController) Hold(w http.ResponseWriter, r *http.Request) {
	id, err := httpapi.PathID(r, "id")
	if err != nil {
		httpapi.WriteServiceError(r.Context(), w, err)
		return
	}
	var dto todo.HoldDTO
	if err := httpapi.DecodeJSON(r, &dto); err != nil {
		httpapi.WriteServiceError(r.Context(), w, err)
		return
	}
	t, err := c.todos.Hold(r.Context(), id, &dto)
	if err != nil {
		httpapi.WriteServiceError(r.Context(), w, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, httpapi.DataEnvelope{Data: dtos.ToTodoResponse(t)})
}

type fileTransition func(ctx context.Context, id int64, files []upload.File) (*todo.Todo, error)

func (c *TodosController) withFiles(fn fileTransition) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := httpapi.PathID(r, "id")
		if err != nil {
			httpapi.WriteServiceError(r.Context(), w, err)
			return
		}
		files, cleanup, err := evidenceFiles(w, r, c.opts.Uploads)
		if err != nil {
			httpapi.WriteServiceError(r.Context(), w, err)
			return
		}
		defer cleanup()
		t, err := fn(r.Context(), id, files)
		if err != nil {
			httpapi.WriteServiceError(r.Context(), w, err)
			return
		}
		_ = httpapi.WriteJSON(w, http.StatusOK, httpapi.DataEnvelope{Data: dtos.ToTodoResponse(t)})
	}
}

func (c *TodosController) Evaluate(w http.ResponseWriter, r *http.Request) {
	id, err := httpapi.PathID(r, "id")
	if err != nil {
		httpapi.WriteServiceError(r.Context(), w, err)
		return
	}
	var dto todo.EvaluateDTO
	if err := httpapi.DecodeJSON(r, &dto); err != nil {
		httpapi.WriteServiceError(r.Context(), w, err)
		return
	}
	t, warning, err := c.todos.Evaluate(r.Context(), id, &dto)
	if err != nil {
		httpapi.WriteServiceError(r.Context(), w, err)
		return
	}
	out := dtos.EvaluateResponse{Todo: dtos.ToTodoResponse(t)}
	if warning != nil {
		resp := dtos.ToWarningResponse(warning)
		out.Warning = &resp
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, httpapi.DataEnvelope{Data: out})
}

func (c *TodosController) ApproveImprovement(w http.ResponseWriter, r *http.Request) {
	id, err := httpapi.PathID(r, "id")
	if err != nil {
		httpapi.WriteServiceError(r.Context(), w, err)
		return
	}
	var dto todo.ReviewDTO
	if r.ContentLength != 0 {
		if err := httpapi.DecodeJSON(r, &dto); err != nil {
			httpapi.WriteServiceError(r.Context(), w, err)
			return
		}
	}
	t, err := c.todos.ApproveImprovement(r.Context(), id, &dto)
	if err != nil {
		httpapi.WriteServiceError(r.Context(), w, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, httpapi.DataEnvelope{Data: dtos.ToTodoResponse(t)})
}

func (c *TodosController) CreateRoutine(w http.ResponseWriter, r *http.Request) {
	var dto todo.RoutineDTO
	if err := httpapi.DecodeJSON(r, &dto); err != nil {
		httpapi.WriteServiceError(r.Context(), w, err)
		return
	}
	res, err := c.routines.Create(r.Context(), &dto)
	if err != nil {
		httpapi.WriteServiceError(r.Context(), w, err)
		return
	}
	out := dtos.RoutineResponse{
		Dates:   make([]string, 0, len(res.Dates)),
		Users:   res.Users,
		Created: dtos.ToTodoResponses(res.Created),
		Skipped: res.Skipped,
	}
	for _, d := range res.Dates {
		out.Dates = append(out.Dates, d.Format("2006-01-02"))
	}
	_ = httpapi.WriteJSON(w, http.StatusCreated, httpapi.DataEnvelope{Data: out})
}

// DeleteRoutine removes every instance of a routine group. Filters come from
// the query string.
func (c *TodosController) DeleteRoutine(w http.ResponseWriter, r *http.Request) {
	dto, err := composables.UseQuery(&todo.RoutineGroupDTO{}, r)
	if err != nil {
		httpapi.WriteServiceError(r.Context(), w, serrors.ErrValidation.Wrap(err))
		return
	}
	removed, err := c.routines.DeleteGroup(r.Context(), dto)
	if err != nil {
		httpapi.WriteServiceError(r.Context(), w, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, httpapi.ListEnvelope{Data: dtos.ToTodoResponses(removed), Total: len(removed)})
}
