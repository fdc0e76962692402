package modules

import (
	"github.com/jacksonlee411/office-ops/modules/assets"
	"github.com/jacksonlee411/office-ops/modules/core"
	"github.com/jacksonlee411/office-ops/modules/todo"
	"github.com/jacksonlee411/office-ops/pkg/application"
)

// BuiltInModules is ordered: todo and assets resolve users through core.
var BuiltInModules = []application.Module{
	core.NewModule(),
	todo.NewModule(nil),
	assets.NewModule(nil),
}

func Load(app application.Application, externalModules ...application.Module) error {
	for _, module := range externalModules {
		if err := module.Register(app); err != nil {
			return err
		}
	}
	return nil
}
