package services

import (
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/stackcare/stackcare-backend/internal/data/repos"
	"github.com/stackcare/stackcare-backend/internal/data/repos/testutil"
)

// testEnv wires the full service stack over a rolled-back transaction. The
// clock is pinned so streak and weekly windows are deterministic.
type testEnv struct {
	tx *gorm.DB

	userRepo           repos.UserRepo
	userStatsRepo      repos.UserStatsRepo
	supplementRepo     repos.SupplementRepo
	userSupplementRepo repos.UserSupplementRepo
	scheduleRepo       repos.ScheduleRepo
	doseLogRepo        repos.DoseLogRepo

	dose      DoseService
	stats     *statsService
	dashboard *dashboardService
	schedule  ScheduleService
	catalog   CatalogService
	resolver  EntityResolver
}

// testNow is a Saturday; the week window ending here runs Sunday through
// Saturday.
var testNow = time.Date(2026, 3, 14, 15, 0, 0, 0, time.UTC)

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	tx := testutil.Tx(t, testutil.DB(t))
	log := testutil.Logger(t)

	env := &testEnv{
		tx:                 tx,
		userRepo:           repos.NewUserRepo(tx, log),
		userStatsRepo:      repos.NewUserStatsRepo(tx, log),
		supplementRepo:     repos.NewSupplementRepo(tx, log),
		userSupplementRepo: repos.NewUserSupplementRepo(tx, log),
		scheduleRepo:       repos.NewScheduleRepo(tx, log),
		doseLogRepo:        repos.NewDoseLogRepo(tx, log),
	}

	env.dose = NewDoseService(tx, log, env.scheduleRepo, env.doseLogRepo)
	env.stats = NewStatsService(tx, log, env.scheduleRepo, env.doseLogRepo, env.userStatsRepo, env.dose).(*statsService)
	env.stats.nowFn = func() time.Time { return testNow }
	env.dashboard = NewDashboardService(tx, log, env.doseLogRepo, env.userSupplementRepo, env.userStatsRepo, env.dose, env.stats, nil).(*dashboardService)
	env.dashboard.nowFn = func() time.Time { return testNow }
	env.schedule = NewScheduleService(tx, log, env.scheduleRepo, env.userSupplementRepo, nil)
	env.resolver = NewEntityResolver(log, env.supplementRepo, env.userSupplementRepo, ResolverStrategyExact)
	env.catalog = NewCatalogService(tx, log, env.supplementRepo, env.userSupplementRepo, env.scheduleRepo, env.doseLogRepo, env.resolver, nil)
	return env
}
