package repository

import (
	"jrcts-claim-tracker/internal/domain/entity"
	domainRepo "jrcts-claim-tracker/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type claimHistoryRepository struct{}

func NewClaimHistoryRepository() domainRepo.ClaimHistoryRepository {
	return &claimHistoryRepository{}
}

func (r *claimHistoryRepository) Create(db *gorm.DB, history *entity.ClaimHistory) error {
	return db.Create(history).Error
}

// FindByClaimID returns the log in display order: step, then time.
func (r *claimHistoryRepository) FindByClaimID(db *gorm.DB, claimID uuid.UUID) ([]entity.ClaimHistory, error) {
	var histories []entity.ClaimHistory
	err := db.Where("claim_id = ?", claimID).
		Order("step ASC, created_at ASC, id ASC").
		Find(&histories).Error
	if err != nil {
		return nil, err
	}
	return histories, nil
}

// CurrentStep is the highest step logged for the claim, 0 when none.
func (r *claimHistoryRepository) CurrentStep(db *gorm.DB, claimID uuid.UUID) (int, error) {
	var step int
	err := db.Model(&entity.ClaimHistory{}).
		Select("COALESCE(MAX(step), 0)").
		Where("claim_id = ?", claimID).
		Scan(&step).Error
	return step, err
}

func (r *claimHistoryRepository) CurrentSteps(db *gorm.DB) (map[uuid.UUID]int, error) {
	var rows []struct {
		ClaimID     uuid.UUID
		CurrentStep int
	}
	err := db.Model(&entity.ClaimHistory{}).
		Select("claim_id, MAX(step) AS current_step").
		Group("claim_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	steps := make(map[uuid.UUID]int, len(rows))
	for _, row := range rows {
		steps[row.ClaimID] = row.CurrentStep
	}
	return steps, nil
}

// CountByCurrentStep buckets claims that have at least one history entry
// by their current step.
func (r *claimHistoryRepository) CountByCurrentStep(db *gorm.DB) ([]entity.StepCount, error) {
	current := db.Session(&gorm.Session{NewDB: true}).
		Model(&entity.ClaimHistory{}).
		Select("claim_id, MAX(step) AS current_step").
		Group("claim_id")

	var counts []entity.StepCount
	err := db.Table("(?) AS s", current).
		Select("s.current_step AS step, COUNT(*) AS count").
		Group("s.current_step").
		Order("s.current_step ASC").
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}
	return counts, nil
}

func (r *claimHistoryRepository) FindTimeline(db *gorm.DB) ([]entity.HistoryTimestamp, error) {
	var rows []entity.HistoryTimestamp
	err := db.Model(&entity.ClaimHistory{}).
		Select("claim_id, step, created_at").
		Order("claim_id ASC, step ASC, created_at ASC, id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *claimHistoryRepository) DeleteByClaimID(db *gorm.DB, claimID uuid.UUID) (int64, error) {
	result := db.Where("claim_id = ?", claimID).Delete(&entity.ClaimHistory{})
	return result.RowsAffected, result.Error
}
