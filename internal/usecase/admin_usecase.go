package usecase

import (
	"context"

	"jrcts-claim-tracker/internal/converter"
	"jrcts-claim-tracker/internal/delivery/dto"
	"jrcts-claim-tracker/internal/domain/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type AdminUsecase interface {
	ListClaims(ctx context.Context) (*dto.ClaimListResponse, error)
	GetClaimDetail(ctx context.Context, trackingCode string) (*dto.ClaimDetailResponse, error)
	DeleteClaim(ctx context.Context, trackingCode string) error
}

type adminUsecase struct {
	db          *gorm.DB
	log         *logrus.Logger
	claimRepo   repository.ClaimRepository
	historyRepo repository.ClaimHistoryRepository
}

func NewAdminUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	claimRepo repository.ClaimRepository,
	historyRepo repository.ClaimHistoryRepository,
) AdminUsecase {
	return &adminUsecase{
		db:          db,
		log:         log,
		claimRepo:   claimRepo,
		historyRepo: historyRepo,
	}
}

// ListClaims returns every claim, newest first, with its current step
func (u *adminUsecase) ListClaims(ctx context.Context) (*dto.ClaimListResponse, error) {
	claims, err := u.claimRepo.FindAll(u.db.WithContext(ctx))
	if err != nil {
		u.log.Warnf("Failed to list claims: %+v", err)
		return nil, err
	}

	steps, err := u.historyRepo.CurrentSteps(u.db.WithContext(ctx))
	if err != nil {
		u.log.Warnf("Failed to load current steps: %+v", err)
		return nil, err
	}

	return &dto.ClaimListResponse{
		Claims: converter.ClaimsToResponses(claims, steps),
		Total:  len(claims),
	}, nil
}

// GetClaimDetail returns one claim with its ordered history and the steps
// an operator may submit next
func (u *adminUsecase) GetClaimDetail(ctx context.Context, trackingCode string) (*dto.ClaimDetailResponse, error) {
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

	return &dto.ClaimDetailResponse{
		Claim:        *converter.ClaimToResponse(claim, converter.CurrentStep(histories)),
		History:      converter.HistoriesToResponses(histories),
		AllowedSteps: claim.AllowedSteps(),
	}, nil
}

// DeleteClaim hard-deletes a claim and its history in one transaction
func (u *adminUsecase) DeleteClaim(ctx context.Context, trackingCode string) error {
	claim, err := u.claimRepo.FindByTrackingCode(u.db.WithContext(ctx), trackingCode)
	if err != nil {
		u.log.Warnf("Failed to find claim %s: %+v", trackingCode, err)
		return err
	}
	if claim == nil {
		return ErrClaimNotFound
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	removed, err := u.historyRepo.DeleteByClaimID(tx, claim.ID)
	if err != nil {
		u.log.Warnf("Failed to delete history of claim %s: %+v", trackingCode, err)
		return err
	}

	if _, err := u.claimRepo.Delete(tx, claim.ID); err != nil {
		u.log.Warnf("Failed to delete claim %s: %+v", trackingCode, err)
		return err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed to commit delete of claim %s: %+v", trackingCode, err)
		return err
	}

	u.log.Infof("Claim deleted: resi=%s, history_rows=%d", trackingCode, removed)
	return nil
}
