package authz

import _ "embed"

//go:embed model.conf
var defaultModel string

//go:embed policy.csv
var defaultPolicy string

// Objects guarded by the role policy.
const (
	ObjectUsers        = "core.users"
	ObjectTodos        = "todo.todos"
	ObjectRoutines     = "todo.routines"
	ObjectWarnings     = "todo.warnings"
	ObjectRequests     = "assets.requests"
	ObjectProcurements = "assets.procurements"
	ObjectAssets       = "assets.assets"
)
