package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"jrcts-claim-tracker/internal/delivery/dto"
	"jrcts-claim-tracker/internal/domain/entity"
	domainRepo "jrcts-claim-tracker/internal/domain/repository"
	"jrcts-claim-tracker/internal/service"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func registerRequest(name, treatment string) *dto.RegisterClaimRequest {
	return &dto.RegisterClaimRequest{
		NIK:                "5171010101010001",
		FullName:           name,
		Age:                34,
		PhoneNumber:        "081234567890",
		AddressCoordinates: "-8.65,115.21",
		AccidentDate:       "2024-01-01",
		VehiclePlate:       "DK-1234-AB",
		Hospital:           "RSUP Sanglah",
		TreatmentType:      treatment,
	}
}

func TestRegister_CreatesClaimWithStepOne(t *testing.T) {
	env := newTestEnv(t)

	resp, err := env.registration.Register(context.Background(), registerRequest("Made Wirawan", "rawat jalan"))
	require.NoError(t, err)
	assert.Equal(t, "JR-CTS-20240110-1", resp.TrackingCode)
	assert.Empty(t, resp.ExistingResi)

	claim := env.mustClaim(t, resp.TrackingCode)
	assert.Equal(t, entity.StateNew, claim.WorkflowState)
	assert.Equal(t, "Made Wirawan", claim.FullName)
	assert.True(t, claim.AccidentDate.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))

	histories := env.histories(t, resp.TrackingCode)
	require.Len(t, histories, 1)
	assert.Equal(t, entity.StepRegistered, histories[0].Step)
	assert.Equal(t, "Step 1: Resi dibuat (JR-CTS-20240110-1)", histories[0].Description)
}

func TestRegister_DuplicateReturnsExistingCode(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	first, err := env.registration.Register(ctx, registerRequest("Made Wirawan", "rawat jalan"))
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		again, err := env.registration.Register(ctx, registerRequest("  Made Wirawan ", "rawat jalan"))
		require.NoError(t, err)
		assert.Empty(t, again.TrackingCode)
		assert.Equal(t, first.TrackingCode, again.ExistingResi)
	}

	var count int64
	require.NoError(t, env.db.Model(&entity.Claim{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestRegister_SequentialCodesAreUnique(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	seen := map[string]bool{}
	for i := 1; i <= 5; i++ {
		resp, err := env.registration.Register(ctx, registerRequest(fmt.Sprintf("Korban %d", i), "rawat inap"))
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("JR-CTS-20240110-%d", i), resp.TrackingCode)
		assert.False(t, seen[resp.TrackingCode])
		seen[resp.TrackingCode] = true
	}
}

func TestRegister_SameNameDifferentTreatmentIsNewClaim(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	first, err := env.registration.Register(ctx, registerRequest("Made Wirawan", "rawat jalan"))
	require.NoError(t, err)
	second, err := env.registration.Register(ctx, registerRequest("Made Wirawan", "rawat inap"))
	require.NoError(t, err)

	assert.NotEqual(t, first.TrackingCode, second.TrackingCode)
	assert.Empty(t, second.ExistingResi)
}

// staleSequenceRepo reports no codes for today, like a registration that
// read the sequence before a concurrent one committed.
type staleSequenceRepo struct {
	domainRepo.ClaimRepository
}

func (staleSequenceRepo) MaxTrackingSequence(db *gorm.DB, prefix string) (int64, error) {
	return 0, nil
}

func newStaleRegistration(env *testEnv) RegistrationUsecase {
	resiService := service.NewResiService(nil, staleSequenceRepo{env.claimRepo}, env.log, "JR-CTS").
		WithClock(func() time.Time { return testToday })
	return NewRegistrationUsecase(env.db, env.log, env.claimRepo, resiService, service.NewHistoryService(env.log, env.historyRepo))
}

func seedTrackingCode(t *testing.T, env *testEnv, code string) {
	t.Helper()
	require.NoError(t, env.claimRepo.Create(env.db, &entity.Claim{
		TrackingCode:  code,
		FullName:      "Someone Else " + code,
		PhoneNumber:   "0800",
		NIK:           "1",
		AccidentDate:  time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC),
		TreatmentType: "rawat inap",
	}))
}

func TestRegister_RetriesOnTrackingCodeCollision(t *testing.T) {
	env := newTestEnv(t)
	seedTrackingCode(t, env, "JR-CTS-20240110-1")

	resp, err := newStaleRegistration(env).Register(context.Background(), registerRequest("Made Wirawan", "rawat jalan"))
	require.NoError(t, err)
	assert.Equal(t, "JR-CTS-20240110-2", resp.TrackingCode)

	// The failed attempt left no history behind.
	var count int64
	require.NoError(t, env.db.Model(&entity.ClaimHistory{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestRegister_GivesUpAfterRepeatedCollisions(t *testing.T) {
	env := newTestEnv(t)
	for i := 1; i <= maxResiAttempts; i++ {
		seedTrackingCode(t, env, fmt.Sprintf("JR-CTS-20240110-%d", i))
	}

	_, err := newStaleRegistration(env).Register(context.Background(), registerRequest("Made Wirawan", "rawat jalan"))
	assert.ErrorIs(t, err, ErrTrackingCodeConflict)
}

func TestRegister_AfterDeletingEarlyCodes(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	for i := 1; i <= 6; i++ {
		resp, err := env.registration.Register(ctx, registerRequest(fmt.Sprintf("Korban %d", i), "rawat inap"))
		require.NoError(t, err)
		require.Equal(t, fmt.Sprintf("JR-CTS-20240110-%d", i), resp.TrackingCode)
	}
	for i := 1; i <= 3; i++ {
		require.NoError(t, env.admin.DeleteClaim(ctx, fmt.Sprintf("JR-CTS-20240110-%d", i)))
	}

	resp, err := env.registration.Register(ctx, registerRequest("Korban 7", "rawat inap"))
	require.NoError(t, err)
	assert.Equal(t, "JR-CTS-20240110-7", resp.TrackingCode)
}

func TestRegister_InvalidAccidentDate(t *testing.T) {
	env := newTestEnv(t)

	req := registerRequest("Made Wirawan", "rawat jalan")
	req.AccidentDate = "01/01/2024"

	_, err := env.registration.Register(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestIsDuplicateKeyError(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23505", ConstraintName: "idx_claims_tracking_code"}

	assert.True(t, isDuplicateKeyError(pgErr, ""))
	assert.True(t, isDuplicateKeyError(fmt.Errorf("insert: %w", pgErr), "tracking_code"))
	assert.False(t, isDuplicateKeyError(pgErr, "identity"))
	assert.False(t, isDuplicateKeyError(&pgconn.PgError{Code: "23503"}, ""))

	sqliteErr := errors.New("constraint failed: UNIQUE constraint failed: claims.tracking_code (2067)")
	assert.True(t, isDuplicateKeyError(sqliteErr, ""))
	assert.True(t, isDuplicateKeyError(sqliteErr, "tracking_code"))
	assert.False(t, isDuplicateKeyError(sqliteErr, "full_name"))

	assert.False(t, isDuplicateKeyError(nil, ""))
	assert.False(t, isDuplicateKeyError(errors.New("connection refused"), ""))
}
