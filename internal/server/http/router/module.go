package router

import "go.uber.org/fx"

// Module registers the gin engine constructor in the fx graph.
var Module = fx.Provide(Setup)
