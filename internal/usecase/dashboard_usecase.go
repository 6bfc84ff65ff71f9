package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"jrcts-claim-tracker/internal/converter"
	"jrcts-claim-tracker/internal/delivery/dto"
	"jrcts-claim-tracker/internal/domain/entity"
	"jrcts-claim-tracker/internal/domain/repository"
	"jrcts-claim-tracker/pkg/dateutil"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

const (
	VehicleBucketPaid    = "LUNAS"
	VehicleBucketNotPaid = "BELUM LUNAS"
	VehicleBucketError   = "ERROR"
)

type DashboardUsecase interface {
	GetDashboard(ctx context.Context) (*dto.DashboardResponse, error)
}

type dashboardUsecase struct {
	db          *gorm.DB
	log         *logrus.Logger
	claimRepo   repository.ClaimRepository
	historyRepo repository.ClaimHistoryRepository
	now         func() time.Time
}

func NewDashboardUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	claimRepo repository.ClaimRepository,
	historyRepo repository.ClaimHistoryRepository,
) DashboardUsecase {
	return &dashboardUsecase{
		db:          db,
		log:         log,
		claimRepo:   claimRepo,
		historyRepo: historyRepo,
		now:         time.Now,
	}
}

// GetDashboard runs the four read-only scans concurrently.
func (u *dashboardUsecase) GetDashboard(ctx context.Context) (*dto.DashboardResponse, error) {
	var (
		total    int64
		counts   []entity.StepCount
		statuses []string
		timeline []entity.HistoryTimestamp
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		n, err := u.claimRepo.CountWithTrackingCode(u.db.WithContext(gctx))
		if err != nil {
			return fmt.Errorf("count tracking codes: %w", err)
		}
		total = n
		return nil
	})

	g.Go(func() error {
		c, err := u.historyRepo.CountByCurrentStep(u.db.WithContext(gctx))
		if err != nil {
			return fmt.Errorf("count claims per step: %w", err)
		}
		counts = c
		return nil
	})

	g.Go(func() error {
		s, err := u.claimRepo.FindVehicleStatuses(u.db.WithContext(gctx))
		if err != nil {
			return fmt.Errorf("load vehicle statuses: %w", err)
		}
		statuses = s
		return nil
	})

	g.Go(func() error {
		t, err := u.historyRepo.FindTimeline(u.db.WithContext(gctx))
		if err != nil {
			return fmt.Errorf("load history timeline: %w", err)
		}
		timeline = t
		return nil
	})

	if err := g.Wait(); err != nil {
		u.log.Warnf("Failed to build dashboard: %+v", err)
		return nil, err
	}

	return &dto.DashboardResponse{
		TotalClaims:   total,
		StepCounts:    converter.StepCountsToResponses(counts),
		VehicleStatus: countVehicleBuckets(statuses),
		StepDurations: averageStepDurations(timeline),
		GeneratedAt:   u.now(),
	}, nil
}

// bucketVehicleStatus maps the free-text vehicle status onto one of three
// buckets. ERROR wins over everything; LUNAS only counts without BELUM.
func bucketVehicleStatus(status string) string {
	s := strings.ToUpper(strings.TrimSpace(status))
	switch {
	case s == "":
		return VehicleBucketNotPaid
	case strings.Contains(s, "ERROR"):
		return VehicleBucketError
	case strings.Contains(s, "LUNAS") && !strings.Contains(s, "BELUM"):
		return VehicleBucketPaid
	default:
		return VehicleBucketNotPaid
	}
}

func countVehicleBuckets(statuses []string) dto.VehicleStatusBuckets {
	var buckets dto.VehicleStatusBuckets
	for _, status := range statuses {
		switch bucketVehicleStatus(status) {
		case VehicleBucketPaid:
			buckets.Paid++
		case VehicleBucketError:
			buckets.Error++
		default:
			buckets.NotPaid++
		}
	}
	return buckets
}

// averageStepDurations expects rows ordered by claim, step and time. A
// pair counts when a step directly follows the previous one for the same
// claim and time did not go backwards. Rows with unreadable timestamps are
// ignored entirely.
func averageStepDurations(rows []entity.HistoryTimestamp) []dto.StepDurationResponse {
	type seen struct {
		step int
		at   time.Time
	}

	last := make(map[uuid.UUID]seen)
	sums := make(map[int]float64)
	counts := make(map[int]int)

	for _, row := range rows {
		at, ok := dateutil.ParseFlexible(row.CreatedAt)
		if !ok {
			continue
		}

		if prev, found := last[row.ClaimID]; found && row.Step == prev.step+1 {
			if delta := at.Sub(prev.at); delta >= 0 {
				sums[row.Step] += delta.Hours()
				counts[row.Step]++
			}
		}
		last[row.ClaimID] = seen{step: row.Step, at: at}
	}

	steps := make([]int, 0, len(sums))
	for step := range sums {
		steps = append(steps, step)
	}
	sort.Ints(steps)

	durations := make([]dto.StepDurationResponse, len(steps))
	for i, step := range steps {
		durations[i] = dto.StepDurationResponse{
			Step:         step,
			Label:        fmt.Sprintf("Step %d", step),
			AverageHours: sums[step] / float64(counts[step]),
		}
	}
	return durations
}
