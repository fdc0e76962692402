package core

import (
	"github.com/jacksonlee411/office-ops/modules/core/infrastructure/persistence"
	"github.com/jacksonlee411/office-ops/modules/core/presentation/controllers"
	"github.com/jacksonlee411/office-ops/modules/core/services"
	"github.com/jacksonlee411/office-ops/pkg/application"
)

func NewModule() application.Module {
	return &Module{}
}

type Module struct{}

func (m *Module) Register(app application.Application) error {
	app.RegisterServices(
		services.NewUserService(persistence.NewUserRepository()),
	)
	app.RegisterControllers(
		controllers.NewUsersController(app),
	)
	return nil
}

func (m *Module) Name() string {
	return "core"
}
