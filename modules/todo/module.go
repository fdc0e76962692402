package todo

import (
	coreservices "github.com/jacksonlee411/office-ops/modules/core/services"
	"github.com/jacksonlee411/office-ops/modules/todo/handlers"
	"github.com/jacksonlee411/office-ops/modules/todo/infrastructure/persistence"
	"github.com/jacksonlee411/office-ops/modules/todo/presentation/controllers"
	"github.com/jacksonlee411/office-ops/modules/todo/services"
	"github.com/jacksonlee411/office-ops/pkg/application"
	"github.com/jacksonlee411/office-ops/pkg/clock"
	"github.com/jacksonlee411/office-ops/pkg/configuration"
	"github.com/jacksonlee411/office-ops/pkg/storage"
)

type ModuleOptions struct {
	// Evidence files land here; defaults to local storage under UPLOADS_PATH.
	Store storage.Store
}

func NewModule(opts *ModuleOptions) application.Module {
	if opts == nil {
		opts = &ModuleOptions{}
	}
	return &Module{options: opts}
}

type Module struct {
	options *ModuleOptions
}

// Register needs the core module registered first for user resolution.
func (m *Module) Register(app application.Application) error {
	conf := configuration.Use()
	store := m.options.Store
	if store == nil {
		store = storage.NewLocal(conf.Uploads.Path)
	}
	clk := clock.New(conf.Location())
	users := app.Service(coreservices.UserService{}).(*coreservices.UserService)
	repo := persistence.NewTodoRepository()

	app.RegisterServices(
		services.NewTodoService(repo, persistence.NewWarningRepository(), store, clk, app.EventPublisher(), conf.Uploads.MaxEvidenceFiles),
		services.NewRoutineService(repo, users, store, clk, app.EventPublisher()),
		services.NewWarningService(persistence.NewWarningRepository(), clk),
	)
	opts := controllers.TodosControllerOptions{
		Location:    conf.Location(),
		PageSize:    conf.PageSize,
		MaxPageSize: conf.MaxPageSize,
		Uploads: controllers.UploadLimits{
			MaxSize:   conf.Uploads.MaxUploadSize,
			MaxMemory: conf.Uploads.MaxUploadMemory,
		},
	}
	app.RegisterControllers(
		controllers.NewTodosController(app, opts),
		controllers.NewWarningsController(app, opts),
	)
	handlers.RegisterTodoEventHandlers(app)
	return nil
}

func (m *Module) Name() string {
	return "todo"
}
