package converter

import (
	"jrcts-claim-tracker/internal/delivery/dto"
	"jrcts-claim-tracker/internal/domain/entity"
	"jrcts-claim-tracker/pkg/dateutil"
	"jrcts-claim-tracker/pkg/rupiah"

	"github.com/google/uuid"
)

// ClaimToResponse converts a Claim entity and its derived step to a
// ClaimResponse DTO
func ClaimToResponse(claim *entity.Claim, currentStep int) *dto.ClaimResponse {
	if claim == nil {
		return nil
	}

	return &dto.ClaimResponse{
		ID:                    claim.ID.String(),
		TrackingCode:          claim.TrackingCode,
		NIK:                   claim.NIK,
		FullName:              claim.FullName,
		Age:                   claim.Age,
		PhoneNumber:           claim.PhoneNumber,
		AddressCoordinates:    claim.AddressCoordinates,
		AccidentDate:          dateutil.FormatDisplay(&claim.AccidentDate),
		VehiclePlate:          claim.VehiclePlate,
		VehicleStatus:         claim.VehicleStatus,
		Hospital:              claim.Hospital,
		TreatmentType:         claim.TreatmentType,
		PoliceReportNumber:    claim.PoliceReportNumber,
		ClaimNumber:           claim.ClaimNumber,
		AdmissionDate:         dateutil.FormatDisplay(claim.AdmissionDate),
		DischargeDate:         dateutil.FormatDisplay(claim.DischargeDate),
		BillingStatus:         claim.BillingStatus,
		RequestedAmount:       claim.RequestedAmount,
		RequestedAmountRupiah: rupiah.Format(claim.RequestedAmount),
		UsedAmount:            claim.UsedAmount,
		UsedAmountRupiah:      rupiah.Format(claim.UsedAmount),
		LastUpdate:            dateutil.FormatDisplay(claim.LastUpdate),
		WorkflowState:         string(claim.WorkflowState),
		CurrentStep:           currentStep,
		CreatedAt:             claim.CreatedAt,
	}
}

// ClaimsToResponses converts claims using the step map from
// ClaimHistoryRepository.CurrentSteps. Claims missing from the map are at
// step 0.
func ClaimsToResponses(claims []entity.Claim, steps map[uuid.UUID]int) []dto.ClaimResponse {
	responses := make([]dto.ClaimResponse, len(claims))
	for i := range claims {
		responses[i] = *ClaimToResponse(&claims[i], steps[claims[i].ID])
	}
	return responses
}

func HistoryToResponse(history *entity.ClaimHistory) dto.HistoryResponse {
	return dto.HistoryResponse{
		Step:        history.Step,
		Description: history.Description,
		CreatedAt:   history.CreatedAt,
	}
}

func HistoriesToResponses(histories []entity.ClaimHistory) []dto.HistoryResponse {
	responses := make([]dto.HistoryResponse, len(histories))
	for i := range histories {
		responses[i] = HistoryToResponse(&histories[i])
	}
	return responses
}

// CurrentStep is the highest step among histories, 0 when there are none.
func CurrentStep(histories []entity.ClaimHistory) int {
	step := 0
	for _, h := range histories {
		if h.Step > step {
			step = h.Step
		}
	}
	return step
}

func StepCountsToResponses(counts []entity.StepCount) []dto.StepCountResponse {
	responses := make([]dto.StepCountResponse, len(counts))
	for i, c := range counts {
		responses[i] = dto.StepCountResponse{Step: c.Step, Count: c.Count}
	}
	return responses
}
