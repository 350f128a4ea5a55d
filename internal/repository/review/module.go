package review

import "go.uber.org/fx"

// Module provides the review repository to Fx.
var Module = fx.Provide(NewRepository)
