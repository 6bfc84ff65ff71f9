package service

import (
	"context"
	"time"

	"jrcts-claim-tracker/internal/domain/entity"
	"jrcts-claim-tracker/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// HistoryService appends entries to a claim's step log.
type HistoryService interface {
	Record(ctx context.Context, tx *gorm.DB, claimID uuid.UUID, step int, description string) error
}

type historyService struct {
	log         *logrus.Logger
	historyRepo repository.ClaimHistoryRepository
	now         func() time.Time
}

func NewHistoryService(log *logrus.Logger, historyRepo repository.ClaimHistoryRepository) HistoryService {
	return NewHistoryServiceWithClock(log, historyRepo, time.Now)
}

// NewHistoryServiceWithClock is NewHistoryService with a custom time source.
func NewHistoryServiceWithClock(log *logrus.Logger, historyRepo repository.ClaimHistoryRepository, now func() time.Time) HistoryService {
	return &historyService{
		log:         log,
		historyRepo: historyRepo,
		now:         now,
	}
}

// Record writes one history entry inside tx.
func (s *historyService) Record(ctx context.Context, tx *gorm.DB, claimID uuid.UUID, step int, description string) error {
	history := &entity.ClaimHistory{
		ClaimID:     claimID,
		Step:        step,
		Description: description,
		CreatedAt:   s.now(),
	}

	if err := s.historyRepo.Create(tx.WithContext(ctx), history); err != nil {
		s.log.Warnf("Failed to record history step %d for claim %s: %+v", step, claimID, err)
		return err
	}

	return nil
}
