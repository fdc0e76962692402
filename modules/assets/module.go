package assets

import (
	"github.com/jacksonlee411/office-ops/modules/assets/handlers"
	"github.com/jacksonlee411/office-ops/modules/assets/infrastructure/persistence"
	"github.com/jacksonlee411/office-ops/modules/assets/presentation/controllers"
	"github.com/jacksonlee411/office-ops/modules/assets/services"
	"github.com/jacksonlee411/office-ops/pkg/application"
	"github.com/jacksonlee411/office-ops/pkg/clock"
	"github.com/jacksonlee411/office-ops/pkg/configuration"
	"github.com/jacksonlee411/office-ops/pkg/storage"
)

type ModuleOptions struct {
	// Status proofs land here; defaults to local storage under UPLOADS_PATH.
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

func (m *Module) Register(app application.Application) error {
	conf := configuration.Use()
	store := m.options.Store
	if store == nil {
		store = storage.NewLocal(conf.Uploads.Path)
	}
	clk := clock.New(conf.Location())
	requests := persistence.NewRequestRepository()
	assets := persistence.NewAssetRepository()
	codes := services.NewCodeAllocator(assets, clk)

	app.RegisterServices(
		services.NewRequestService(requests, assets, codes, clk, app.EventPublisher()),
		services.NewProcurementService(persistence.NewProcurementRepository(), requests, assets, clk, app.EventPublisher()),
		services.NewAssetService(assets, requests, codes, store, clk, app.EventPublisher()),
	)
	opts := controllers.ControllerOptions{
		Currency:    conf.Currency,
		PageSize:    conf.PageSize,
		MaxPageSize: conf.MaxPageSize,
		Uploads: controllers.UploadLimits{
			MaxSize:   conf.Uploads.MaxUploadSize,
			MaxMemory: conf.Uploads.MaxUploadMemory,
		},
	}
	app.RegisterControllers(
		controllers.NewRequestsController(app, opts),
		controllers.NewProcurementsController(app, opts),
		controllers.NewAssetsController(app, opts),
	)
	handlers.RegisterAssetsEventHandlers(app)
	return nil
}

func (m *Module) Name() string {
	return "assets"
}
