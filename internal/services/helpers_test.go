package services

import (
	"context"
	"testing"
	"time"

	"clubhouse/internal/common"
	"clubhouse/internal/constants"
	"clubhouse/internal/db/repositories"
	"clubhouse/internal/db/testdb"
	"clubhouse/internal/metrics"
	gormModels "clubhouse/internal/models/gorm"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type testEnv struct {
	db        *gorm.DB
	metrics   *metrics.MetricsRegistry
	notifier  *NotificationService
	equipment *EquipmentService
	members   *MemberService
	content   *ContentService
	auth      *AuthService
	dashboard *DashboardService
	export    *ExportService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testdb.New(t)
	reg := metrics.NewMetricsRegistry()
	validator := NewFormValidator()
	notifier := NewNotificationService(db, reg)
	equipment := NewEquipmentService(db, notifier, validator, reg)
	content := NewContentService(db, notifier, validator)
	sessions := common.NewSessionService(common.NewMemorySessionStore(), time.Hour)
	stats := repositories.NewStatsRepository(testdb.NewSQLX(t, db))

	return &testEnv{
		db:        db,
		metrics:   reg,
		notifier:  notifier,
		equipment: equipment,
		members:   NewMemberService(db, notifier, validator, reg),
		content:   content,
		auth:      NewAuthService(db, sessions, validator, reg),
		dashboard: NewDashboardService(stats, common.NewCacheService(time.Minute, time.Minute), content, notifier, reg),
		export:    NewExportService(equipment),
	}
}

// seedUser inserts an account with a cheap hash
func (e *testEnv) seedUser(t *testing.T, username string, role constants.Role) *gormModels.User {
	t.Helper()
	user := &gormModels.User{
		Username:     username,
		PasswordHash: "x",
		Role:         role,
		Name:         username,
		Email:        username + "@example.com",
	}
	require.NoError(t, e.db.Create(user).Error)
	return user
}

func (e *testEnv) seedEquipment(t *testing.T, name string, qty int) *gormModels.Equipment {
	t.Helper()
	item := &gormModels.Equipment{
		Name:              name,
		Brand:             "Acme",
		Model:             "X1",
		Quantity:          qty,
		AvailableQuantity: qty,
	}
	require.NoError(t, e.db.Create(item).Error)
	return item
}

func (e *testEnv) reloadEquipment(t *testing.T, id uint) gormModels.Equipment {
	t.Helper()
	var item gormModels.Equipment
	require.NoError(t, e.db.First(&item, id).Error)
	return item
}

func (e *testEnv) notificationsFor(t *testing.T, username string) []gormModels.Notification {
	t.Helper()
	var items []gormModels.Notification
	require.NoError(t, e.db.Where("username = ?", username).Order("id").Find(&items).Error)
	return items
}

func (e *testEnv) count(t *testing.T, model interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, e.db.Model(model).Count(&n).Error)
	return n
}

// claimBeforeInsert runs claim right before the next insert into table, in
// the same transaction, so it lands between the uniqueness check and the write.
func (e *testEnv) claimBeforeInsert(t *testing.T, table string, claim func(tx *gorm.DB) error) {
	t.Helper()
	fired := false
	name := "test:claim_" + table
	require.NoError(t, e.db.Callback().Create().Before("gorm:create").Register(name, func(db *gorm.DB) {
		if fired || db.Statement.Table != table {
			return
		}
		fired = true
		if err := claim(db.Session(&gorm.Session{NewDB: true})); err != nil {
			_ = db.AddError(err)
		}
	}))
	t.Cleanup(func() { _ = e.db.Callback().Create().Remove(name) })
}

var bg = context.Background()
