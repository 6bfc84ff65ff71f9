package repository

import (
	"database/sql"
	"errors"
	"strconv"
	"strings"
	"time"

	"jrcts-claim-tracker/internal/domain/entity"
	domainRepo "jrcts-claim-tracker/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type claimRepository struct{}

func NewClaimRepository() domainRepo.ClaimRepository {
	return &claimRepository{}
}

func (r *claimRepository) Create(db *gorm.DB, claim *entity.Claim) error {
	return db.Create(claim).Error
}

func (r *claimRepository) FindByTrackingCode(db *gorm.DB, trackingCode string) (*entity.Claim, error) {
	var claim entity.Claim
	err := db.Where("tracking_code = ?", trackingCode).First(&claim).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &claim, nil
}

// FindByIdentity looks a claim up by the (name, accident date, treatment)
// tuple that must stay unique.
func (r *claimRepository) FindByIdentity(db *gorm.DB, fullName string, accidentDate time.Time, treatmentType string) (*entity.Claim, error) {
	var claim entity.Claim
	err := db.Where("full_name = ? AND accident_date = ? AND treatment_type = ?", fullName, accidentDate, treatmentType).
		First(&claim).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &claim, nil
}

func (r *claimRepository) FindAll(db *gorm.DB) ([]entity.Claim, error) {
	var claims []entity.Claim
	err := db.Order("created_at DESC").Find(&claims).Error
	if err != nil {
		return nil, err
	}
	return claims, nil
}

// MaxTrackingSequence returns the highest numeric suffix among codes of the
// form <prefix>-<n>, or 0 when there are none. Gaps left by deleted claims
// do not lower it.
func (r *claimRepository) MaxTrackingSequence(db *gorm.DB, prefix string) (int64, error) {
	var codes []string
	err := db.Model(&entity.Claim{}).
		Where("tracking_code LIKE ?", prefix+"-%").
		Pluck("tracking_code", &codes).Error
	if err != nil {
		return 0, err
	}

	var highest int64
	for _, code := range codes {
		n, err := strconv.ParseInt(strings.TrimPrefix(code, prefix+"-"), 10, 64)
		if err != nil {
			continue
		}
		if n > highest {
			highest = n
		}
	}
	return highest, nil
}

func (r *claimRepository) CountWithTrackingCode(db *gorm.DB) (int64, error) {
	var count int64
	err := db.Model(&entity.Claim{}).
		Where("tracking_code IS NOT NULL AND tracking_code <> ''").
		Count(&count).Error
	return count, err
}

func (r *claimRepository) FindVehicleStatuses(db *gorm.DB) ([]string, error) {
	var raw []sql.NullString
	if err := db.Model(&entity.Claim{}).Pluck("vehicle_status", &raw).Error; err != nil {
		return nil, err
	}

	statuses := make([]string, len(raw))
	for i, s := range raw {
		statuses[i] = s.String
	}
	return statuses, nil
}

func (r *claimRepository) UpdateFields(db *gorm.DB, id uuid.UUID, fields map[string]interface{}) error {
	return db.Model(&entity.Claim{}).Where("id = ?", id).Updates(fields).Error
}

func (r *claimRepository) Delete(db *gorm.DB, id uuid.UUID) (int64, error) {
	result := db.Where("id = ?", id).Delete(&entity.Claim{})
	return result.RowsAffected, result.Error
}
