package repository

import (
	"jrcts-claim-tracker/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ClaimHistoryRepository interface {
	Create(db *gorm.DB, history *entity.ClaimHistory) error
	FindByClaimID(db *gorm.DB, claimID uuid.UUID) ([]entity.ClaimHistory, error)
	CurrentStep(db *gorm.DB, claimID uuid.UUID) (int, error)
	CurrentSteps(db *gorm.DB) (map[uuid.UUID]int, error)
	CountByCurrentStep(db *gorm.DB) ([]entity.StepCount, error)
	FindTimeline(db *gorm.DB) ([]entity.HistoryTimestamp, error)
	DeleteByClaimID(db *gorm.DB, claimID uuid.UUID) (int64, error)
}
