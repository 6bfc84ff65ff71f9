package repository

import (
	"time"

	"jrcts-claim-tracker/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ClaimRepository interface {
	Create(db *gorm.DB, claim *entity.Claim) error
	FindByTrackingCode(db *gorm.DB, trackingCode string) (*entity.Claim, error)
	FindByIdentity(db *gorm.DB, fullName string, accidentDate time.Time, treatmentType string) (*entity.Claim, error)
	FindAll(db *gorm.DB) ([]entity.Claim, error)
	MaxTrackingSequence(db *gorm.DB, prefix string) (int64, error)
	CountWithTrackingCode(db *gorm.DB) (int64, error)
	FindVehicleStatuses(db *gorm.DB) ([]string, error)
	UpdateFields(db *gorm.DB, id uuid.UUID, fields map[string]interface{}) error
	Delete(db *gorm.DB, id uuid.UUID) (int64, error)
}
