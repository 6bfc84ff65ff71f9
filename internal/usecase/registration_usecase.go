package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"jrcts-claim-tracker/internal/delivery/dto"
	"jrcts-claim-tracker/internal/domain/entity"
	"jrcts-claim-tracker/internal/domain/repository"
	"jrcts-claim-tracker/internal/service"
	"jrcts-claim-tracker/pkg/dateutil"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// maxResiAttempts bounds the retries after a tracking-code collision.
const maxResiAttempts = 3

var (
	ErrInvalidDate          = errors.New("invalid date, expected YYYY-MM-DD")
	ErrTrackingCodeConflict = errors.New("could not allocate a unique tracking code")
)

type RegistrationUsecase interface {
	Register(ctx context.Context, req *dto.RegisterClaimRequest) (*dto.RegistrationResponse, error)
}

type registrationUsecase struct {
	db             *gorm.DB
	log            *logrus.Logger
	claimRepo      repository.ClaimRepository
	resiService    *service.ResiService
	historyService service.HistoryService
}

func NewRegistrationUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	claimRepo repository.ClaimRepository,
	resiService *service.ResiService,
	historyService service.HistoryService,
) RegistrationUsecase {
	return &registrationUsecase{
		db:             db,
		log:            log,
		claimRepo:      claimRepo,
		resiService:    resiService,
		historyService: historyService,
	}
}

// Register creates a claim with a fresh tracking code and logs step 1.
//
// Flow:
//  1. Parse the accident date
//  2. Return the existing code if (name, accident date, treatment) is taken
//  3. Reserve a tracking code and insert the claim with its step 1 entry
//  4. On a unique violation, re-check the identity (a concurrent
//     registration may have won) and otherwise retry with the next code
func (u *registrationUsecase) Register(ctx context.Context, req *dto.RegisterClaimRequest) (*dto.RegistrationResponse, error) {
	accidentDate, err := dateutil.ParseISO(req.AccidentDate)
	if err != nil {
		return nil, fmt.Errorf("%w: tgl_kecelakaan %q", ErrInvalidDate, req.AccidentDate)
	}

	fullName := strings.TrimSpace(req.FullName)
	treatmentType := strings.TrimSpace(req.TreatmentType)

	existing, err := u.claimRepo.FindByIdentity(u.db.WithContext(ctx), fullName, accidentDate, treatmentType)
	if err != nil {
		u.log.Warnf("Failed to check duplicate registration for %s: %+v", fullName, err)
		return nil, err
	}
	if existing != nil {
		u.log.Infof("Duplicate registration for %s, returning %s", fullName, existing.TrackingCode)
		return &dto.RegistrationResponse{ExistingResi: existing.TrackingCode}, nil
	}

	for attempt := 0; attempt < maxResiAttempts; attempt++ {
		trackingCode, err := u.resiService.Next(ctx, u.db.WithContext(ctx), attempt)
		if err != nil {
			return nil, err
		}

		claim := &entity.Claim{
			TrackingCode:       trackingCode,
			NIK:                strings.TrimSpace(req.NIK),
			FullName:           fullName,
			Age:                req.Age,
			PhoneNumber:        strings.TrimSpace(req.PhoneNumber),
			AddressCoordinates: strings.TrimSpace(req.AddressCoordinates),
			AccidentDate:       accidentDate,
			VehiclePlate:       strings.TrimSpace(req.VehiclePlate),
			Hospital:           strings.TrimSpace(req.Hospital),
			TreatmentType:      treatmentType,
		}

		err = u.insertClaim(ctx, claim)
		if err == nil {
			u.log.Infof("Claim registered: id=%s, resi=%s", claim.ID, trackingCode)
			return &dto.RegistrationResponse{TrackingCode: trackingCode}, nil
		}
		if !isDuplicateKeyError(err, "") {
			return nil, err
		}

		existing, findErr := u.claimRepo.FindByIdentity(u.db.WithContext(ctx), fullName, accidentDate, treatmentType)
		if findErr != nil {
			u.log.Warnf("Failed to re-check registration for %s: %+v", fullName, findErr)
			return nil, findErr
		}
		if existing != nil {
			return &dto.RegistrationResponse{ExistingResi: existing.TrackingCode}, nil
		}

		u.log.Warnf("Tracking code %s already taken (attempt %d), retrying", trackingCode, attempt+1)
	}

	return nil, ErrTrackingCodeConflict
}

func (u *registrationUsecase) insertClaim(ctx context.Context, claim *entity.Claim) error {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	if err := u.claimRepo.Create(tx, claim); err != nil {
		if !isDuplicateKeyError(err, "") {
			u.log.Warnf("Failed to create claim %s: %+v", claim.TrackingCode, err)
		}
		return err
	}

	desc := fmt.Sprintf("Step 1: Resi dibuat (%s)", claim.TrackingCode)
	if err := u.historyService.Record(ctx, tx, claim.ID, entity.StepRegistered, desc); err != nil {
		return err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed to commit claim %s: %+v", claim.TrackingCode, err)
		return err
	}

	return nil
}

// isDuplicateKeyError checks if the error is a unique violation whose
// constraint name contains constraintName. An empty name matches any
// unique constraint. SQLite reports the violation only in the message.
func isDuplicateKeyError(err error, constraintName string) bool {
	if err == nil {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// PostgreSQL error code 23505 = unique_violation
		return pgErr.Code == "23505" && strings.Contains(strings.ToLower(pgErr.ConstraintName), strings.ToLower(constraintName))
	}

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") && strings.Contains(strings.ToLower(msg), strings.ToLower(constraintName))
}
