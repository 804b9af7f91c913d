// Package analytics serves platform-wide aggregate figures, cached so the
// public endpoint never hammers the aggregate queries.
package analytics

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Sieceres/party-panther-bash-jakarta-sub001/internal/cache"
	"github.com/Sieceres/party-panther-bash-jakarta-sub001/internal/models"
)

const summaryCacheKey = "analytics:summary"

// Service computes and caches the analytics summary.
type Service struct {
	repo     models.AnalyticsRepository
	cache    *cache.TTLCache
	interval time.Duration
	logger   *slog.Logger
}

// NewService creates an analytics service. The cache TTL doubles as the
// refresh interval for the background loop.
func NewService(repo models.AnalyticsRepository, ttl time.Duration, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		cache:    cache.New(ttl),
		interval: ttl,
		logger:   logger,
	}
}

// Summary returns the cached summary, computing it on a miss.
func (s *Service) Summary(ctx context.Context) (*models.AnalyticsSummary, error) {
	value, err := s.cache.GetOrLoad(ctx, summaryCacheKey, s.load)
	if err != nil {
		return nil, err
	}
	summary, ok := value.(*models.AnalyticsSummary)
	if !ok {
		return nil, fmt.Errorf("unexpected cache entry type %T", value)
	}
	return summary, nil
}

// Invalidate drops the cached summary so the next read recomputes it. Write
// paths call this after mutating listings.
func (s *Service) Invalidate() {
	s.cache.InvalidateKey(summaryCacheKey)
}

// Run refreshes the summary on a fixed interval until the context is
// cancelled. Refresh failures keep the previous figures.
func (s *Service) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("analytics refresh loop stopped")
			return
		case <-ticker.C:
			if _, err := s.cache.Refresh(ctx, summaryCacheKey, s.load); err != nil {
				s.logger.Warn("analytics refresh failed", "error", err)
			}
		}
	}
}

func (s *Service) load(ctx context.Context) (interface{}, error) {
	start := time.Now()
	summary, err := s.repo.Summary(ctx)
	if err != nil {
		return nil, fmt.Errorf("computing analytics summary: %w", err)
	}
	s.logger.Debug("analytics summary computed",
		"duration_ms", time.Since(start).Milliseconds(),
		"total_events", summary.TotalEvents,
		"total_promotions", summary.TotalPromotions)
	return summary, nil
}
