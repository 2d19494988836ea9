package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"clubhouse/internal/api"
	"clubhouse/internal/common"
	"clubhouse/internal/config"
	"clubhouse/internal/db"
	"clubhouse/internal/jobs"
	"clubhouse/internal/logging"
	"clubhouse/internal/metrics"
	"clubhouse/internal/routes"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

func main() {
	log.SetOutput(os.Stdout)
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	cfg := config.Load()

	// Initialize structured logging
	if err := logging.Init(cfg.AppEnv); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logging.Close()

	logging.Info("Clubhouse starting up",
		"environment", cfg.AppEnv,
		"driver", cfg.Database.Driver,
		"timestamp", time.Now().Format(time.RFC3339),
	)

	orm, err := db.OpenORM(cfg.Database)
	if err != nil {
		logging.Fatal("Failed to connect to database (GORM)", "error", err.Error())
	}
	if err := db.Migrate(orm); err != nil {
		logging.Fatal("Failed to migrate database", "error", err.Error())
	}

	sqlxDB, err := openSQLX(cfg.Database, orm)
	if err != nil {
		logging.Fatal("Failed to connect to database (sqlx)", "error", err.Error())
	}
	defer sqlxDB.Close()

	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient = common.NewRedisClient(cfg.Redis)
		defer redisClient.Close()
	} else {
		logging.Warn("Redis disabled; sessions are kept in process memory")
	}

	metricsReg := metrics.NewMetricsRegistry()
	deps := api.InitDependencies(cfg, orm, sqlxDB, redisClient, metricsReg)

	upSince := time.Now()
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           routes.RegisterRoutes(cfg, deps, upSince),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	jobs.InitializeJobs(gctx, deps.Services.Notifications, cfg.NotificationRetention, metricsReg)

	g.Go(func() error {
		logging.Info("Server starting", "addr", cfg.HTTPAddr, "environment", cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logging.Info("Shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logging.Error("Server stopped with error", "error", err.Error())
		os.Exit(1)
	}
	logging.Info("Server stopped")
}

// openSQLX returns the raw-SQL handle for stats and health checks. Postgres
// gets its own pool; sqlite shares GORM's single connection.
func openSQLX(cfg config.DatabaseConfig, orm *gorm.DB) (*sqlx.DB, error) {
	if cfg.Driver == db.DriverSQLite {
		return db.SQLXFromORM(orm, "sqlite3")
	}
	return db.ConnectSQLX(cfg.DSN())
}
