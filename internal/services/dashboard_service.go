package services

import (
	"context"
	"fmt"

	"clubhouse/internal/common"
	"clubhouse/internal/constants"
	"clubhouse/internal/db/repositories"
	"clubhouse/internal/metrics"
	"clubhouse/internal/models/dtos/responses"

	"golang.org/x/sync/errgroup"
)

const homeListLimit = 5

// DashboardService computes the admin counters and the member home page
type DashboardService struct {
	stats    *repositories.StatsRepository
	cache    common.CacheInterface
	content  *ContentService
	notifier *NotificationService
	metrics  *metrics.MetricsRegistry
}

func NewDashboardService(
	stats *repositories.StatsRepository,
	cache common.CacheInterface,
	content *ContentService,
	notifier *NotificationService,
	metricsReg *metrics.MetricsRegistry,
) *DashboardService {
	return &DashboardService{
		stats:    stats,
		cache:    cache,
		content:  content,
		notifier: notifier,
		metrics:  metricsReg,
	}
}

// AdminStats returns the dashboard counters, cached briefly
func (svc *DashboardService) AdminStats(ctx context.Context) (*responses.DashboardStats, error) {
	key := string(constants.CachePrefixDashboard)

	if cached, found := svc.cache.Get(key); found {
		if stats, ok := cached.(*responses.DashboardStats); ok {
			svc.metrics.CacheHit(key)
			return stats, nil
		}
	}
	svc.metrics.CacheMiss(key)

	stats, err := svc.loadStats(ctx)
	if err != nil {
		return nil, err
	}

	svc.cache.Set(key, stats, constants.DashboardCacheTTL)
	return stats, nil
}

// Invalidate drops the cached counters after a mutation
func (svc *DashboardService) Invalidate() {
	svc.cache.Delete(string(constants.CachePrefixDashboard))
}

func (svc *DashboardService) loadStats(ctx context.Context) (*responses.DashboardStats, error) {
	var stats responses.DashboardStats
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		stats.Members, err = svc.stats.CountMembers(gctx, constants.RoleUser)
		return err
	})
	g.Go(func() (err error) {
		stats.Admins, err = svc.stats.CountMembers(gctx, constants.RoleAdmin)
		return err
	})
	g.Go(func() (err error) {
		stats.PendingMembers, err = svc.stats.CountPendingMembers(gctx)
		return err
	})
	g.Go(func() error {
		totals, err := svc.stats.EquipmentTotals(gctx)
		if err != nil {
			return err
		}
		stats.EquipmentItems = totals.Items
		stats.EquipmentUnits = totals.Units
		stats.UnitsAvailable = totals.Available
		return nil
	})
	g.Go(func() (err error) {
		stats.PendingRequests, err = svc.stats.CountRequests(gctx, constants.RequestPending)
		return err
	})
	g.Go(func() (err error) {
		stats.ApprovedRequests, err = svc.stats.CountRequests(gctx, constants.RequestApproved)
		return err
	})
	g.Go(func() (err error) {
		stats.UpcomingEvents, err = svc.stats.CountUpcomingEvents(gctx, today())
		return err
	})
	g.Go(func() (err error) {
		stats.Announcements, err = svc.stats.CountAnnouncements(gctx)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load dashboard stats: %w", err)
	}
	return &stats, nil
}

// Home gathers the member landing page
func (svc *DashboardService) Home(ctx context.Context, username string) (*responses.HomeView, error) {
	var view responses.HomeView
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		view.Announcements, err = svc.content.ListAnnouncements(gctx, homeListLimit)
		return err
	})
	g.Go(func() (err error) {
		view.Events, err = svc.content.UpcomingEvents(gctx, homeListLimit)
		return err
	})
	g.Go(func() (err error) {
		view.Unread, err = svc.notifier.UnreadCount(gctx, username)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &view, nil
}
