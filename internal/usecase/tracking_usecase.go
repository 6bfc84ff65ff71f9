package usecase

import (
	"context"
	"strings"

	"jrcts-claim-tracker/internal/converter"
	"jrcts-claim-tracker/internal/delivery/dto"
	"jrcts-claim-tracker/internal/domain/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type TrackingUsecase interface {
	Track(ctx context.Context, trackingCode string) (*dto.TrackingResponse, error)
}

type trackingUsecase struct {
	db          *gorm.DB
	log         *logrus.Logger
	claimRepo   repository.ClaimRepository
	historyRepo repository.ClaimHistoryRepository
	claimClient ClaimLookupClient
}

func NewTrackingUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	claimRepo repository.ClaimRepository,
	historyRepo repository.ClaimHistoryRepository,
	claimClient ClaimLookupClient,
) TrackingUsecase {
	return &trackingUsecase{
		db:          db,
		log:         log,
		claimRepo:   claimRepo,
		historyRepo: historyRepo,
		claimClient: claimClient,
	}
}

// Track returns a claim with its history. The vehicle status is looked up
// once, on the first visit, and stored; later visits reuse it and carry no
// transaction end date.
func (u *trackingUsecase) Track(ctx context.Context, trackingCode string) (*dto.TrackingResponse, error) {
	trackingCode = strings.TrimSpace(trackingCode)
	if trackingCode == "" {
		return &dto.TrackingResponse{History: []dto.HistoryResponse{}}, nil
	}

	claim, err := u.claimRepo.FindByTrackingCode(u.db.WithContext(ctx), trackingCode)
	if err != nil {
		u.log.Warnf("Failed to find claim %s: %+v", trackingCode, err)
		return nil, err
	}
	if claim == nil {
		return nil, ErrClaimNotFound
	}

	histories, err := u.historyRepo.FindByClaimID(u.db.WithContext(ctx), claim.ID)
	if err != nil {
		u.log.Warnf("Failed to find history for claim %s: %+v", trackingCode, err)
		return nil, err
	}

	var latestEnd string
	if claim.VehicleStatus == "" && claim.VehiclePlate != "" {
		result := u.claimClient.VehicleLookup(ctx, claim.VehiclePlate)
		claim.VehicleStatus = result.Status
		latestEnd = result.LatestTransactionEnd()

		fields := map[string]interface{}{"vehicle_status": result.Status}
		if err := u.claimRepo.UpdateFields(u.db.WithContext(ctx), claim.ID, fields); err != nil {
			// The looked-up status is still shown; the next visit retries.
			u.log.Warnf("Failed to store vehicle status for claim %s: %+v", trackingCode, err)
		}
	}

	return &dto.TrackingResponse{
		TrackingCode:         trackingCode,
		Claim:                converter.ClaimToResponse(claim, converter.CurrentStep(histories)),
		History:              converter.HistoriesToResponses(histories),
		VehiclePlate:         claim.VehiclePlate,
		VehicleStatus:        claim.VehicleStatus,
		LatestTransactionEnd: latestEnd,
	}, nil
}
