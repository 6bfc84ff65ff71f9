package entity

import (
	"time"

	"github.com/google/uuid"
)

// ClaimHistory is one append-only entry of a claim's step log.
type ClaimHistory struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	ClaimID     uuid.UUID `gorm:"type:uuid;not null;index" json:"claim_id"`
	Step        int       `gorm:"not null;index" json:"step"`
	Description string    `gorm:"type:text;not null" json:"description"`
	CreatedAt   time.Time `gorm:"not null;index" json:"created_at"`

	// Relationships
	Claim *Claim `gorm:"foreignKey:ClaimID;constraint:OnDelete:CASCADE" json:"-"`
}

func (ClaimHistory) TableName() string {
	return "claim_histories"
}
