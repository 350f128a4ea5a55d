// Package report assembles dashboard metrics over order populations. The
// comparison baseline is always the equal-length window immediately
// preceding the requested one, matching the percentage-change displays.
package report

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/Vawe4321/vendor-core/internal/analytics"
	"github.com/Vawe4321/vendor-core/internal/cache"
	"github.com/Vawe4321/vendor-core/internal/config"
	"github.com/Vawe4321/vendor-core/internal/entity"
	repo "github.com/Vawe4321/vendor-core/internal/repository/order"
	"github.com/Vawe4321/vendor-core/pkg/errorbank"
)

var serviceTracer = otel.Tracer("github.com/Vawe4321/vendor-core/service/report")

// OrderSource supplies order snapshots for aggregation; satisfied by the
// order repository.
type OrderSource interface {
	List(ctx context.Context, from, to time.Time) ([]entity.Order, error)
}

// Service computes cached report aggregates.
type Service struct {
	orders   OrderSource
	cache    cache.Store
	cacheTTL time.Duration
	logger   *zap.Logger
}

// Params defines dependencies for constructing Service.
type Params struct {
	fx.In

	Repository *repo.Repository
	Cache      cache.Store
	Config     config.Config
	Logger     *zap.Logger
}

// NewService wires a new report Service.
func NewService(p Params) *Service {
	return &Service{
		orders:   p.Repository,
		cache:    p.Cache,
		cacheTTL: p.Config.Cache.DefaultTTL,
		logger:   p.Logger,
	}
}

// Module provides the report service to Fx.
var Module = fx.Provide(NewService)

// Summary aggregates the requested window against the preceding window of
// equal length.
func (s *Service) Summary(ctx context.Context, from, to time.Time) (analytics.Summary, error) {
	ctx, span := serviceTracer.Start(ctx, "ReportService.Summary")
	defer span.End()

	if from.After(to) {
		return analytics.Summary{}, errorbank.BadRequest("report window start is after its end")
	}

	key := fmt.Sprintf("reports:summary:%d:%d", from.Unix(), to.Unix())
	if cached, err := s.fromCache(ctx, key); err == nil {
		return *cached, nil
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		if s.logger != nil {
			s.logger.Warn("report cache read failed", zap.Error(err))
		}
	}

	current, err := s.orders.List(ctx, from, to)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return analytics.Summary{}, errorbank.Internal("failed to load orders", errorbank.WithCause(err))
	}

	prevFrom, prevTo := previousWindow(from, to)
	previous, err := s.orders.List(ctx, prevFrom, prevTo)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return analytics.Summary{}, errorbank.Internal("failed to load comparison orders", errorbank.WithCause(err))
	}

	summary := analytics.Summarize(current, previous)
	s.toCache(ctx, key, summary)
	return summary, nil
}

// Funnel derives milestone conversion for the requested window.
func (s *Service) Funnel(ctx context.Context, from, to time.Time) ([]analytics.FunnelResult, error) {
	ctx, span := serviceTracer.Start(ctx, "ReportService.Funnel")
	defer span.End()

	if from.After(to) {
		return nil, errorbank.BadRequest("report window start is after its end")
	}

	orders, err := s.orders.List(ctx, from, to)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return nil, errorbank.Internal("failed to load orders", errorbank.WithCause(err))
	}

	return analytics.LifecycleFunnel(orders), nil
}

// previousWindow returns the equal-length window ending just before from.
func previousWindow(from, to time.Time) (time.Time, time.Time) {
	length := to.Sub(from)
	prevTo := from.Add(-time.Nanosecond)
	return prevTo.Add(-length), prevTo
}

func (s *Service) fromCache(ctx context.Context, key string) (*analytics.Summary, error) {
	if s.cache == nil {
		return nil, cache.ErrCacheMiss
	}
	bytes, err := s.cache.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	var summary analytics.Summary
	if err := json.Unmarshal(bytes, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

func (s *Service) toCache(ctx context.Context, key string, summary analytics.Summary) {
	if s.cache == nil {
		return
	}
	bytes, err := json.Marshal(summary)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, bytes, s.cacheTTL); err != nil {
		if s.logger != nil {
			s.logger.Warn("report cache write failed", zap.Error(err))
		}
	}
}
