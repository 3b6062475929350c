package metrics

import "go.uber.org/fx"

// Module registers metrics construction for fx runtime.
var Module = fx.Provide(New)
