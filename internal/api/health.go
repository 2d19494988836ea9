package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"clubhouse/internal/db/repositories"
	"clubhouse/internal/logging"
	"clubhouse/internal/models/entities"

	"github.com/redis/go-redis/v9"
)

// HealthCheckHandler handles GET /healthCheck. Redis is only probed when the
// session store uses it.
func HealthCheckHandler(stats *repositories.StatsRepository, redisClient *redis.Client, upSince time.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		report := entities.HealthReport{
			Status:  entities.HealthOK,
			UpSince: upSince,
			Uptime:  time.Since(upSince).Round(time.Second).String(),
		}

		start := time.Now()
		err := stats.Ping(ctx)
		report.Add("database", time.Since(start), err, "Database connected", "Database unreachable")
		if err != nil {
			logging.Warn("Health check: database down", "error", err.Error())
		}

		if redisClient != nil {
			start = time.Now()
			err = redisClient.Ping(ctx).Err()
			report.Add("redis", time.Since(start), err, "Redis connected", "Redis unreachable")
			if err != nil {
				logging.Warn("Health check: redis down", "error", err.Error())
			}
		}

		code := http.StatusOK
		if !report.Healthy() {
			code = http.StatusServiceUnavailable
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		_ = json.NewEncoder(w).Encode(report)
	}
}
