package app

import (
	"go.uber.org/fx"

	"github.com/Vawe4321/vendor-core/internal/cache"
	"github.com/Vawe4321/vendor-core/internal/clock"
	"github.com/Vawe4321/vendor-core/internal/config"
	"github.com/Vawe4321/vendor-core/internal/database"
	"github.com/Vawe4321/vendor-core/internal/logger"
	"github.com/Vawe4321/vendor-core/internal/messaging"
	"github.com/Vawe4321/vendor-core/internal/observability"
	repositoryorder "github.com/Vawe4321/vendor-core/internal/repository/order"
	repositoryreview "github.com/Vawe4321/vendor-core/internal/repository/review"
	grpcserver "github.com/Vawe4321/vendor-core/internal/server/grpc"
	httpserver "github.com/Vawe4321/vendor-core/internal/server/http"
	serviceorder "github.com/Vawe4321/vendor-core/internal/service/order"
	servicereport "github.com/Vawe4321/vendor-core/internal/service/report"
	transporthttp "github.com/Vawe4321/vendor-core/internal/transport/http"
	"github.com/Vawe4321/vendor-core/internal/worker"
	workerorder "github.com/Vawe4321/vendor-core/internal/worker/order"
)

// Core provides the foundational modules shared across executables.
var Core = fx.Options(
	config.Module,
	cache.Module,
	clock.Module,
	database.Module,
	logger.Module,
	messaging.Module,
	observability.Module,
	repositoryorder.Module,
	repositoryreview.Module,
	serviceorder.Module,
	servicereport.Module,
)

// HTTP wires the HTTP and gRPC serving surfaces on top of the core
// modules.
var HTTP = fx.Options(
	Core,
	httpserver.Module,
	grpcserver.Module,
	transporthttp.Module,
)

// Worker exposes background worker processing.
var Worker = fx.Options(
	Core,
	worker.Module,
	workerorder.Module,
)

// Module is the default application wiring (serving surfaces only).
var Module = HTTP
