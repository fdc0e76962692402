package controllers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/jacksonlee411/office-ops/modules/core/domain/aggregates/user"
	"github.com/jacksonlee411/office-ops/modules/core/services"
	"github.com/jacksonlee411/office-ops/pkg/application"
	"github.com/jacksonlee411/office-ops/pkg/httpapi"
	"github.com/jacksonlee411/office-ops/pkg/middleware"
)

type UserResponse struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	Category string `json:"category"`
}

func toUserResponse(u *user.User) UserResponse {
	return UserResponse{
		ID:       u.ID,
		Name:     u.Name,
		Email:    u.Email,
		Role:     string(u.Role),
		Category: u.Category,
	}
}

type UsersController struct {
	users    *services.UserService
	basePath string
}

func NewUsersController(app application.Application) application.Controller {
	return &UsersController{
		users:    app.Service(services.UserService{}).(*services.UserService),
		basePath: "/api/users",
	}
}

func (c *UsersController) Key() string {
	return c.basePath
}

func (c *UsersController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()
	router.Use(middleware.RequireCaller())
	router.HandleFunc("", c.List).Methods(http.MethodGet)
	router.HandleFunc("/{id:[0-9]+}", c.Get).Methods(http.MethodGet)
}

func (c *UsersController) List(w http.ResponseWriter, r *http.Request) {
	ids, err := httpapi.QueryInt64s(r, "ids")
	if err != nil {
		httpapi.WriteServiceError(r.Context(), w, err)
		return
	}
	limit, offset := httpapi.Page(r, 50, 500)
	q := r.URL.Query()
	users, total, err := c.users.GetPaginatedWithTotal(r.Context(), &user.FindParams{
		IDs:      ids,
		Role:     user.Role(q.Get("role")),
		Category: q.Get("category"),
		Search:   q.Get("q"),
		Limit:    limit,
		Offset:   offset,
	})
	if err != nil {
		httpapi.WriteServiceError(r.Context(), w, err)
		return
	}
	out := make([]UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResponse(u))
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, httpapi.ListEnvelope{Data: out, Total: int(total)})
}

func (c *UsersController) Get(w http.ResponseWriter, r *http.Request) {
	id, err := httpapi.PathID(r, "id")
	if err != nil {
		httpapi.WriteServiceError(r.Context(), w, err)
		return
	}
	u, err := c.users.GetByID(r.Context(), id)
	if err != nil {
		httpapi.WriteServiceError(r.Context(), w, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, httpapi.DataEnvelope{Data: toUserResponse(u)})
}
