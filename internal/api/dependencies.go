package api

import (
	"time"

	"clubhouse/internal/common"
	"clubhouse/internal/config"
	"clubhouse/internal/constants"
	"clubhouse/internal/db/repositories"
	"clubhouse/internal/metrics"
	"clubhouse/internal/services"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Repositories struct {
	Stats *repositories.StatsRepository
	Users *repositories.UserRepositoryGORM
}

type Services struct {
	Cache         common.CacheInterface
	Session       *common.SessionService
	CSRF          *common.CSRFSigner
	Auth          *services.AuthService
	Members       *services.MemberService
	Equipment     *services.EquipmentService
	Content       *services.ContentService
	Notifications *services.NotificationService
	Dashboard     *services.DashboardService
	Export        *services.ExportService
}

type Dependencies struct {
	Repo     *Repositories
	Services *Services
	Metrics  *metrics.MetricsRegistry
	Redis    *redis.Client
}

// InitDependencies wires repositories and services. redisClient may be nil,
// in which case sessions live in process memory.
func InitDependencies(
	cfg *config.Config,
	orm *gorm.DB,
	sqlxDB *sqlx.DB,
	redisClient *redis.Client,
	metricsReg *metrics.MetricsRegistry,
) *Dependencies {
	repos := &Repositories{
		Stats: repositories.NewStatsRepository(sqlxDB),
		Users: repositories.NewUserRepositoryGORM(orm),
	}

	var store common.SessionStore
	if redisClient != nil {
		store = common.NewRedisSessionStore(redisClient)
	} else {
		store = common.NewMemorySessionStore()
	}

	cacheSvc := common.NewCacheService(constants.DashboardCacheTTL, 10*time.Minute)
	sessionSvc := common.NewSessionService(store, cfg.Session.TTL)
	csrf := common.NewCSRFSigner([]byte(cfg.Session.Secret), constants.CSRFTokenTTL)

	validator := services.NewFormValidator()
	notifier := services.NewNotificationService(orm, metricsReg)
	equipment := services.NewEquipmentService(orm, notifier, validator, metricsReg)
	content := services.NewContentService(orm, notifier, validator)

	svcs := &Services{
		Cache:         cacheSvc,
		Session:       sessionSvc,
		CSRF:          csrf,
		Auth:          services.NewAuthService(orm, sessionSvc, validator, metricsReg),
		Members:       services.NewMemberService(orm, notifier, validator, metricsReg),
		Equipment:     equipment,
		Content:       content,
		Notifications: notifier,
		Dashboard:     services.NewDashboardService(repos.Stats, cacheSvc, content, notifier, metricsReg),
		Export:        services.NewExportService(equipment),
	}

	return &Dependencies{
		Repo:     repos,
		Services: svcs,
		Metrics:  metricsReg,
		Redis:    redisClient,
	}
}
