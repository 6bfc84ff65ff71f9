package usecase

import (
	"context"
	"testing"

	"jrcts-claim-tracker/internal/delivery/dto"
	"jrcts-claim-tracker/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Register, record the police report, then discharge the patient.
func TestWorkflow_RegisterPoliceReportDischarge(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	req := registerRequest("Ni Made Dewi", "rawat jalan")
	req.AccidentDate = "2024-01-01"

	reg, err := env.registration.Register(ctx, req)
	require.NoError(t, err)
	require.Equal(t, "JR-CTS-"+testToday.Format("20060102")+"-1", reg.TrackingCode)
	code := reg.TrackingCode

	require.NoError(t, env.steps.AdvanceStep(ctx, code, &dto.AdvanceStepRequest{Step: 2, PoliceReportNumber: "LP/123"}))
	assert.Contains(t, historyDescriptions(env.histories(t, code)), "Step 2: Nomor LP diinput (LP/123)")

	before := len(env.histories(t, code))
	require.NoError(t, env.steps.AdvanceStep(ctx, code, &dto.AdvanceStepRequest{Step: 4, DischargeDate: "2024-01-05"}))

	claim := env.mustClaim(t, code)
	assert.Equal(t, "DITAGIHKAN", claim.BillingStatus)
	assert.Equal(t, entity.StateBilled, claim.WorkflowState)

	histories := env.histories(t, code)
	assert.Len(t, histories, before+2)
	assert.Equal(t, []int{1, 2, 4, 5}, historySteps(histories))

	tracked, err := env.tracking.Track(ctx, code)
	require.NoError(t, err)
	assert.Equal(t, 5, tracked.Claim.CurrentStep)
	assert.Equal(t, "05/01/2024", tracked.Claim.DischargeDate)

	require.NoError(t, env.admin.DeleteClaim(ctx, code))
	again, err := env.registration.Register(ctx, req)
	require.NoError(t, err)
	assert.Empty(t, again.ExistingResi)
}
