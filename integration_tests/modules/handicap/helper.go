package handicapintegrationtests

import (
	"context"
	"testing"

	handicapservice "github.com/Black-And-White-Club/fairway-bot/app/modules/handicap/application"
	handicapdb "github.com/Black-And-White-Club/fairway-bot/app/modules/handicap/infrastructure/repositories"
	handicapmetrics "github.com/Black-And-White-Club/fairway-bot/app/observability/metrics/handicap"
	"github.com/Black-And-White-Club/fairway-bot/integration_tests/testutils"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/trace/noop"
)

type TestDeps struct {
	Ctx       context.Context
	Env       *testutils.TestEnvironment
	Repo      handicapdb.Repository
	BunDB     *bun.DB
	Service   *handicapservice.HandicapService
	Generator *testutils.TestDataGenerator
}

// SetupTestHandicapService builds a service over the shared containers with clean tables.
func SetupTestHandicapService(t *testing.T) TestDeps {
	t.Helper()

	env := testutils.GetOrCreateTestEnv(t)
	if err := env.Reset(env.Ctx); err != nil {
		t.Fatalf("Failed to reset test environment: %v", err)
	}

	repo := handicapdb.NewRepository(env.DB)
	service := handicapservice.NewHandicapService(
		repo,
		env.EventBus,
		nil,
		env.Logger,
		&handicapmetrics.NoOpMetrics{},
		noop.NewTracerProvider().Tracer("test_handicap_service"),
		env.DB,
		env.Config.Handicap,
	)

	return TestDeps{
		Ctx:       env.Ctx,
		Env:       env,
		Repo:      repo,
		BunDB:     env.DB,
		Service:   service,
		Generator: testutils.NewTestDataGenerator(42),
	}
}

// createCourse stores a generated course through the service.
func createCourse(t *testing.T, deps TestDeps) handicapservice.UpsertCourseRequest {
	t.Helper()
	req := deps.Generator.GenerateCourse()
	if _, err := deps.Service.UpsertCourse(deps.Ctx, req); err != nil {
		t.Fatalf("UpsertCourse failed: %v", err)
	}
	return req
}
