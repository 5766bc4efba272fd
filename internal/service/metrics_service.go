package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/helpdesk-kit/sla-service/internal/domain"
	"github.com/helpdesk-kit/sla-service/internal/events"
	"github.com/helpdesk-kit/sla-service/internal/repository"
)

const (
	dashboardCacheKey = "sla:dashboard:metrics"
	dashboardCacheTTL = 30 * time.Second
)

// MetricsService serves the dashboard projection. The aggregate query is
// read-heavy and tolerant of short staleness, so results are cached in Redis
// and invalidated on every ticket write.
type MetricsService struct {
	reports repository.ReportRepository
	cache   *redis.Client
	logger  *zap.Logger
	now     func() time.Time
}

// NewMetricsService constructs the service. cache may be nil.
func NewMetricsService(reports repository.ReportRepository, cache *redis.Client, logger *zap.Logger) *MetricsService {
	return &MetricsService{reports: reports, cache: cache, logger: logger, now: time.Now}
}

// Dashboard returns the aggregate ticket counts.
func (s *MetricsService) Dashboard(ctx context.Context) (*domain.DashboardMetrics, error) {
	if s.cache != nil {
		raw, err := s.cache.Get(ctx, dashboardCacheKey).Bytes()
		if err == nil {
			var cached domain.DashboardMetrics
			if jsonErr := json.Unmarshal(raw, &cached); jsonErr == nil {
				return &cached, nil
			}
		}
	}

	metrics, err := s.reports.DashboardMetrics(ctx, s.now())
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if raw, err := json.Marshal(metrics); err == nil {
			if err := s.cache.Set(ctx, dashboardCacheKey, raw, dashboardCacheTTL).Err(); err != nil {
				s.logger.Warn("failed to cache dashboard metrics", zap.Error(err))
			}
		}
	}
	return metrics, nil
}

// RegisterInvalidation subscribes to ticket write events and drops the cached
// dashboard so the next read recomputes.
func (s *MetricsService) RegisterInvalidation(dispatcher events.Dispatcher) {
	if dispatcher == nil || s.cache == nil {
		return
	}
	invalidate := func(ctx context.Context, _ events.Event) error {
		if err := s.cache.Del(ctx, dashboardCacheKey).Err(); err != nil {
			s.logger.Warn("failed to invalidate dashboard cache", zap.Error(err))
		}
		return nil
	}
	dispatcher.Subscribe(events.EventTicketCreated, invalidate)
	dispatcher.Subscribe(events.EventTicketUpdated, invalidate)
	dispatcher.Subscribe(events.EventTicketClosed, invalidate)
}
