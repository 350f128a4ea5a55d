package http

import (
	"go.uber.org/fx"

	calendartransport "github.com/Vawe4321/vendor-core/internal/transport/http/calendar"
	ordertransport "github.com/Vawe4321/vendor-core/internal/transport/http/order"
	reporttransport "github.com/Vawe4321/vendor-core/internal/transport/http/report"
)

// Module aggregates all HTTP transport handlers.
var Module = fx.Options(
	ordertransport.Module,
	reporttransport.Module,
	calendartransport.Module,
)
