package usecase

import (
	"context"
	"io"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"jrcts-claim-tracker/internal/domain/entity"
	domainRepo "jrcts-claim-tracker/internal/domain/repository"
	"jrcts-claim-tracker/internal/infrastructure/claimapi"
	"jrcts-claim-tracker/internal/infrastructure/database"
	"jrcts-claim-tracker/internal/repository"
	"jrcts-claim-tracker/internal/service"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var testToday = time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)

type fakeClaimClient struct {
	mu sync.Mutex

	vehicle      claimapi.VehicleResult
	vehicleCalls int

	claimResp  *claimapi.ClaimResponse
	claimErr   error
	claimCalls int

	monitorResp  *claimapi.ClaimResponse
	monitorErr   error
	monitorCalls int

	lastClaimNumber  string
	lastAccidentDate time.Time
}

func (f *fakeClaimClient) VehicleLookup(ctx context.Context, plate string) claimapi.VehicleResult {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.vehicleCalls++
	return f.vehicle
}

func (f *fakeClaimClient) ClaimLookup(ctx context.Context, claimNumber string, accidentDate time.Time) (*claimapi.ClaimResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.claimCalls++
	f.lastClaimNumber = claimNumber
	f.lastAccidentDate = accidentDate
	if f.claimErr != nil {
		return nil, f.claimErr
	}
	if f.claimResp == nil {
		return &claimapi.ClaimResponse{}, nil
	}
	return f.claimResp, nil
}

func (f *fakeClaimClient) MonitorLookup(ctx context.Context, claimNumber string, accidentDate time.Time) (*claimapi.ClaimResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.monitorCalls++
	f.lastClaimNumber = claimNumber
	f.lastAccidentDate = accidentDate
	if f.monitorErr != nil {
		return nil, f.monitorErr
	}
	if f.monitorResp == nil {
		return &claimapi.ClaimResponse{}, nil
	}
	return f.monitorResp, nil
}

type testEnv struct {
	db          *gorm.DB
	log         *logrus.Logger
	claimRepo   domainRepo.ClaimRepository
	historyRepo domainRepo.ClaimHistoryRepository
	client      *fakeClaimClient

	registration RegistrationUsecase
	steps        ClaimStepUsecase
	tracking     TrackingUsecase
	admin        AdminUsecase
	dashboard    DashboardUsecase
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := database.NewSQLiteConnection(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func newTestLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// steppingClock returns start, start+step, start+2*step, ... on each call.
func steppingClock(start time.Time, step time.Duration) func() time.Time {
	var mu sync.Mutex
	next := start
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		now := next
		next = next.Add(step)
		return now
	}
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := newTestDB(t)
	log := newTestLogger()
	claimRepo := repository.NewClaimRepository()
	historyRepo := repository.NewClaimHistoryRepository()
	client := &fakeClaimClient{}

	resiService := service.NewResiService(nil, claimRepo, log, "JR-CTS").
		WithClock(func() time.Time { return testToday })
	historyService := service.NewHistoryServiceWithClock(log, historyRepo, steppingClock(testToday, time.Minute))

	steps := NewClaimStepUsecase(db, log, claimRepo, historyService, client)
	steps.(*claimStepUsecase).now = func() time.Time { return testToday }

	return &testEnv{
		db:           db,
		log:          log,
		claimRepo:    claimRepo,
		historyRepo:  historyRepo,
		client:       client,
		registration: NewRegistrationUsecase(db, log, claimRepo, resiService, historyService),
		steps:        steps,
		tracking:     NewTrackingUsecase(db, log, claimRepo, historyRepo, client),
		admin:        NewAdminUsecase(db, log, claimRepo, historyRepo),
		dashboard:    NewDashboardUsecase(db, log, claimRepo, historyRepo),
	}
}

func (e *testEnv) mustClaim(t *testing.T, trackingCode string) *entity.Claim {
	t.Helper()
	claim, err := e.claimRepo.FindByTrackingCode(e.db, trackingCode)
	require.NoError(t, err)
	require.NotNil(t, claim)
	return claim
}

func (e *testEnv) histories(t *testing.T, trackingCode string) []entity.ClaimHistory {
	t.Helper()
	claim := e.mustClaim(t, trackingCode)
	histories, err := e.historyRepo.FindByClaimID(e.db, claim.ID)
	require.NoError(t, err)
	return histories
}

func historySteps(histories []entity.ClaimHistory) []int {
	steps := make([]int, len(histories))
	for i, h := range histories {
		steps[i] = h.Step
	}
	return steps
}

func historyDescriptions(histories []entity.ClaimHistory) []string {
	descs := make([]string, len(histories))
	for i, h := range histories {
		descs[i] = h.Description
	}
	return descs
}
