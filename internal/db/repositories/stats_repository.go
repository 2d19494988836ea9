package repositories

import (
	"context"
	"fmt"
	"time"

	"clubhouse/internal/constants"

	"github.com/jmoiron/sqlx"
)

// EquipmentTotals is the inventory summary shown on the admin dashboard
type EquipmentTotals struct {
	Items     int64 `db:"items"`
	Units     int64 `db:"units"`
	Available int64 `db:"available"`
}

// StatsRepository runs read-only counters with raw SQL
type StatsRepository struct {
	db *sqlx.DB
}

func NewStatsRepository(db *sqlx.DB) *StatsRepository {
	return &StatsRepository{db}
}

func (r *StatsRepository) count(ctx context.Context, query string, args ...interface{}) (int64, error) {
	var n int64
	if err := r.db.QueryRowxContext(ctx, r.db.Rebind(query), args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (r *StatsRepository) CountMembers(ctx context.Context, role constants.Role) (int64, error) {
	n, err := r.count(ctx, constants.CountMembers, string(role))
	if err != nil {
		return 0, fmt.Errorf("failed to count members: %w", err)
	}
	return n, nil
}

func (r *StatsRepository) CountPendingMembers(ctx context.Context) (int64, error) {
	n, err := r.count(ctx, constants.CountPendingMembers)
	if err != nil {
		return 0, fmt.Errorf("failed to count pending members: %w", err)
	}
	return n, nil
}

func (r *StatsRepository) CountRequests(ctx context.Context, status constants.RequestStatus) (int64, error) {
	n, err := r.count(ctx, constants.CountRequestsByStatus, string(status))
	if err != nil {
		return 0, fmt.Errorf("failed to count %s requests: %w", status, err)
	}
	return n, nil
}

func (r *StatsRepository) CountUpcomingEvents(ctx context.Context, from time.Time) (int64, error) {
	n, err := r.count(ctx, constants.CountUpcomingEvents, from)
	if err != nil {
		return 0, fmt.Errorf("failed to count upcoming events: %w", err)
	}
	return n, nil
}

func (r *StatsRepository) CountAnnouncements(ctx context.Context) (int64, error) {
	n, err := r.count(ctx, constants.CountAnnouncements)
	if err != nil {
		return 0, fmt.Errorf("failed to count announcements: %w", err)
	}
	return n, nil
}

func (r *StatsRepository) EquipmentTotals(ctx context.Context) (*EquipmentTotals, error) {
	var totals EquipmentTotals

	err := r.db.QueryRowxContext(ctx, constants.CountEquipmentUnits).
		Scan(&totals.Items, &totals.Units, &totals.Available)
	if err != nil {
		return nil, fmt.Errorf("failed to sum equipment: %w", err)
	}
	return &totals, nil
}

// Ping checks the connection for the health endpoint
func (r *StatsRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
