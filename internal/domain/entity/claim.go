package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Billing status labels written by the workflow. Step 3 may also store the
// free-text status reported by the guarantee service.
const (
	BillingStatusAwaitingMonitorData = "CEK_DATA_MONITOR_GL"
	BillingStatusBilled              = "DITAGIHKAN"
	BillingStatusPaid                = "DIBAYAR"
	BillingStatusGuaranteeFailed     = "GAGAL JAMINAN"
)

// Claim is one accident victim case tracked from registration to payment.
type Claim struct {
	ID                 uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	TrackingCode       string        `gorm:"type:varchar(50);uniqueIndex:idx_claims_tracking_code;not null" json:"tracking_code"`
	FullName           string        `gorm:"type:varchar(255);not null;uniqueIndex:idx_claims_identity,priority:1" json:"full_name"`
	Age                int           `gorm:"not null" json:"age"`
	PhoneNumber        string        `gorm:"type:varchar(20);not null" json:"phone_number"`
	NIK                string        `gorm:"type:varchar(20);not null" json:"nik"`
	AddressCoordinates string        `gorm:"type:text" json:"address_coordinates,omitempty"`
	AccidentDate       time.Time     `gorm:"type:date;not null;uniqueIndex:idx_claims_identity,priority:2" json:"accident_date"`
	VehiclePlate       string        `gorm:"type:varchar(20)" json:"vehicle_plate,omitempty"`
	VehicleStatus      string        `gorm:"type:varchar(100)" json:"vehicle_status,omitempty"`
	Hospital           string        `gorm:"type:varchar(255)" json:"hospital,omitempty"`
	TreatmentType      string        `gorm:"type:varchar(50);not null;uniqueIndex:idx_claims_identity,priority:3" json:"treatment_type"`
	PoliceReportNumber string        `gorm:"type:varchar(100)" json:"police_report_number,omitempty"`
	ClaimNumber        string        `gorm:"type:varchar(100)" json:"claim_number,omitempty"`
	AdmissionDate      *time.Time    `gorm:"type:date" json:"admission_date,omitempty"`
	DischargeDate      *time.Time    `gorm:"type:date" json:"discharge_date,omitempty"`
	BillingStatus      string        `gorm:"type:varchar(100)" json:"billing_status,omitempty"`
	RequestedAmount    int64         `gorm:"not null;default:0" json:"requested_amount"`
	UsedAmount         int64         `gorm:"not null;default:0" json:"used_amount"`
	LastUpdate         *time.Time    `gorm:"type:date" json:"last_update,omitempty"`
	WorkflowState      WorkflowState `gorm:"type:varchar(32);not null;default:'NEW';index" json:"workflow_state"`
	CreatedAt          time.Time     `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt          time.Time     `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Claim) TableName() string {
	return "claims"
}

// BeforeCreate assigns the id and initial state of a new claim.
func (c *Claim) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.WorkflowState == "" {
		c.WorkflowState = StateNew
	}
	return nil
}

// AllowedSteps lists the steps an operator may submit next. A claim that
// was billed before its claim number was known still accepts step 3.
func (c *Claim) AllowedSteps() []int {
	steps := c.WorkflowState.AllowedSteps()
	if c.WorkflowState == StateBilled && strings.TrimSpace(c.ClaimNumber) == "" {
		steps = append([]int{StepClaimNumber}, steps...)
	}
	return steps
}

// Allows reports whether step may be submitted for this claim now.
func (c *Claim) Allows(step int) bool {
	for _, allowed := range c.AllowedSteps() {
		if allowed == step {
			return true
		}
	}
	return false
}

// ClaimWithStep pairs a claim with its derived current step.
type ClaimWithStep struct {
	Claim       Claim
	CurrentStep int
}
