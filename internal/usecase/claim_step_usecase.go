package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"jrcts-claim-tracker/internal/delivery/dto"
	"jrcts-claim-tracker/internal/domain/entity"
	"jrcts-claim-tracker/internal/domain/repository"
	"jrcts-claim-tracker/internal/infrastructure/claimapi"
	"jrcts-claim-tracker/internal/service"
	"jrcts-claim-tracker/pkg/dateutil"
	"jrcts-claim-tracker/pkg/rupiah"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// statusPaid is what the monitor endpoint reports once the hospital bill
// has been settled.
const statusPaid = "SUDAH DIBAYAR"

var (
	ErrClaimNotFound        = errors.New("claim not found")
	ErrInvalidStep          = errors.New("invalid step")
	ErrTransitionNotAllowed = errors.New("step not allowed in the current state")
	ErrClaimNumberRequired  = errors.New("claim number is required")
	ErrPoliceReportRequired = errors.New("police report number is required")
	ErrInvalidExternalData  = errors.New("invalid data from guarantee service")
	ErrExternalLookup       = errors.New("guarantee service lookup failed")
)

// ClaimLookupClient is the subset of the external client the workflow
// needs. *claimapi.Client satisfies it.
type ClaimLookupClient interface {
	VehicleLookup(ctx context.Context, plate string) claimapi.VehicleResult
	ClaimLookup(ctx context.Context, claimNumber string, accidentDate time.Time) (*claimapi.ClaimResponse, error)
	MonitorLookup(ctx context.Context, claimNumber string, accidentDate time.Time) (*claimapi.ClaimResponse, error)
}

type ClaimStepUsecase interface {
	AdvanceStep(ctx context.Context, trackingCode string, req *dto.AdvanceStepRequest) error
	MarkGuaranteeFailed(ctx context.Context, trackingCode string) error
}

type claimStepUsecase struct {
	db             *gorm.DB
	log            *logrus.Logger
	claimRepo      repository.ClaimRepository
	historyService service.HistoryService
	claimClient    ClaimLookupClient
	now            func() time.Time
}

func NewClaimStepUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	claimRepo repository.ClaimRepository,
	historyService service.HistoryService,
	claimClient ClaimLookupClient,
) ClaimStepUsecase {
	return &claimStepUsecase{
		db:             db,
		log:            log,
		claimRepo:      claimRepo,
		historyService: historyService,
		claimClient:    claimClient,
		now:            time.Now,
	}
}

// historyLine is one entry a transition appends.
type historyLine struct {
	step        int
	description string
}

// transitionPlan holds every write of one transition. It is built before
// the store transaction opens and applied as a whole.
type transitionPlan struct {
	fields  map[string]interface{}
	state   entity.WorkflowState
	entries []historyLine
}

func newPlan(state entity.WorkflowState) *transitionPlan {
	return &transitionPlan{fields: map[string]interface{}{}, state: state}
}

func (p *transitionPlan) set(column string, value interface{}) *transitionPlan {
	p.fields[column] = value
	return p
}

func (p *transitionPlan) record(step int, format string, args ...interface{}) *transitionPlan {
	p.entries = append(p.entries, historyLine{step: step, description: fmt.Sprintf(format, args...)})
	return p
}

// AdvanceStep runs operator step req.Step against the claim.
//
// Steps 3 and 6 call the guarantee service first. A failed call or a
// malformed answer aborts the step with nothing written.
func (u *claimStepUsecase) AdvanceStep(ctx context.Context, trackingCode string, req *dto.AdvanceStepRequest) error {
	if !entity.IsOperatorStep(req.Step) {
		return fmt.Errorf("%w: %d", ErrInvalidStep, req.Step)
	}

	claim, err := u.findClaim(ctx, trackingCode)
	if err != nil {
		return err
	}

	if claim.WorkflowState.IsTerminal() {
		return fmt.Errorf("%w: claim is closed (%s)", ErrTransitionNotAllowed, claim.WorkflowState)
	}
	if !claim.Allows(req.Step) {
		return fmt.Errorf("%w: step %d from %s", ErrTransitionNotAllowed, req.Step, claim.WorkflowState)
	}

	var plan *transitionPlan
	switch req.Step {
	case entity.StepPoliceReport:
		plan, err = u.policeReportPlan(req.PoliceReportNumber)
	case entity.StepClaimNumber:
		plan, err = u.claimNumberPlan(ctx, claim, req.ClaimNumber)
	case entity.StepDischarged:
		plan, err = u.dischargePlan(req.DischargeDate)
	case entity.StepPaymentCheck:
		plan, err = u.paymentCheckPlan(ctx, claim)
	}
	if err != nil {
		return err
	}

	return u.apply(ctx, claim, plan)
}

// MarkGuaranteeFailed flags the claim as not covered. It is a no-op for a
// claim that already failed and is refused once the claim is paid.
func (u *claimStepUsecase) MarkGuaranteeFailed(ctx context.Context, trackingCode string) error {
	claim, err := u.findClaim(ctx, trackingCode)
	if err != nil {
		return err
	}

	if claim.WorkflowState == entity.StateGuaranteeFailed {
		return nil
	}
	if !claim.WorkflowState.CanMarkGuaranteeFailed() {
		return fmt.Errorf("%w: guarantee failure from %s", ErrTransitionNotAllowed, claim.WorkflowState)
	}

	plan := newPlan(entity.StateGuaranteeFailed).
		set("billing_status", entity.BillingStatusGuaranteeFailed).
		record(entity.StepClaimNumber, "Step 3: Gagal jaminan, nomor resi anda akan terhapus")

	return u.apply(ctx, claim, plan)
}

func (u *claimStepUsecase) policeReportPlan(number string) (*transitionPlan, error) {
	number = strings.TrimSpace(number)
	if number == "" {
		return nil, ErrPoliceReportRequired
	}

	return newPlan(entity.StateLPRecorded).
		set("police_report_number", number).
		record(entity.StepPoliceReport, "Step 2: Nomor LP diinput (%s)", number), nil
}

func (u *claimStepUsecase) claimNumberPlan(ctx context.Context, claim *entity.Claim, claimNumber string) (*transitionPlan, error) {
	claimNumber = strings.TrimSpace(claimNumber)
	if claimNumber == "" {
		return newPlan(entity.StateGuaranteeFailed).
			set("claim_number", "").
			record(entity.StepClaimNumber, "Step 3: Kasus tidak terjamin — berhenti"), nil
	}

	if claim.AccidentDate.IsZero() {
		return nil, fmt.Errorf("%w: claim %s has no accident date", ErrInvalidDate, claim.TrackingCode)
	}

	resp, err := u.claimClient.ClaimLookup(ctx, claimNumber, claim.AccidentDate)
	if err != nil {
		u.log.Warnf("Claim lookup for %s (%s) failed: %+v", claim.TrackingCode, claimNumber, err)
		return nil, fmt.Errorf("%w: %w", ErrExternalLookup, err)
	}

	if len(resp.Claims) == 0 {
		return u.awaitingMonitorPlan(claim, claimNumber), nil
	}

	item := resp.Claims[0]
	requested, err := rupiah.ParseAmount(string(item.RequestedAmount))
	if err != nil {
		return nil, fmt.Errorf("%w: jml_pengajuan: %w", ErrInvalidExternalData, err)
	}

	plan := newPlan(entity.StateClaimSubmitted).
		set("claim_number", claimNumber).
		set("requested_amount", requested).
		set("last_update", u.today())

	// A billed claim keeps its state and billing label; only the guarantee
	// data is filled in.
	if claim.WorkflowState == entity.StateBilled {
		plan.state = entity.StateBilled
	} else {
		plan.set("billing_status", item.Status)
	}

	if admission := strings.TrimSpace(item.AdmissionDate); admission != "" {
		admitted, err := time.Parse(dateutil.DisplayLayout, admission)
		if err != nil {
			return nil, fmt.Errorf("%w: tgl_masuk %q", ErrInvalidExternalData, admission)
		}
		plan.set("admission_date", admitted)
	}

	return plan.record(entity.StepClaimNumber, "Step 3: Nomor jaminan diinput (%s), saldo sebelumnya (%s)",
		claimNumber, rupiah.Format(requested)), nil
}

func (u *claimStepUsecase) dischargePlan(dischargeDate string) (*transitionPlan, error) {
	discharged, err := dateutil.ParseISO(dischargeDate)
	if err != nil {
		return nil, fmt.Errorf("%w: tgl_keluar %q", ErrInvalidDate, dischargeDate)
	}

	return newPlan(entity.StateBilled).
		set("discharge_date", discharged).
		set("billing_status", entity.BillingStatusBilled).
		record(entity.StepDischarged, "Step 4: Pasien pulang (%s)", discharged.Format(dateutil.ISOLayout)).
		record(entity.StepBilled, "Step 5: Berkas sudah ditagihkan oleh JCARE"), nil
}

func (u *claimStepUsecase) paymentCheckPlan(ctx context.Context, claim *entity.Claim) (*transitionPlan, error) {
	if strings.TrimSpace(claim.ClaimNumber) == "" {
		return nil, ErrClaimNumberRequired
	}
	if claim.AccidentDate.IsZero() {
		return nil, fmt.Errorf("%w: claim %s has no accident date", ErrInvalidDate, claim.TrackingCode)
	}

	resp, err := u.claimClient.MonitorLookup(ctx, claim.ClaimNumber, claim.AccidentDate)
	if err != nil {
		u.log.Warnf("Monitor lookup for %s (%s) failed: %+v", claim.TrackingCode, claim.ClaimNumber, err)
		return nil, fmt.Errorf("%w: %w", ErrExternalLookup, err)
	}

	if len(resp.Claims) == 0 {
		return u.awaitingMonitorPlan(claim, claim.ClaimNumber), nil
	}

	item := resp.Claims[0]
	if item.Status != statusPaid {
		// State is unchanged while the payer has not settled.
		return newPlan("").record(entity.StepPaymentCheck, "Step 6: Menunggu pembayaran"), nil
	}

	requested, err := rupiah.ParseAmount(string(item.RequestedAmount))
	if err != nil {
		return nil, fmt.Errorf("%w: jml_pengajuan: %w", ErrInvalidExternalData, err)
	}
	used, err := rupiah.ParseAmount(string(item.UsedAmount))
	if err != nil {
		return nil, fmt.Errorf("%w: jml_digunakan: %w", ErrInvalidExternalData, err)
	}

	return newPlan(entity.StatePaid).
		set("billing_status", entity.BillingStatusPaid).
		set("requested_amount", requested).
		set("used_amount", used).
		set("last_update", u.today()).
		record(entity.StepPaymentCheck, "Step 6: Berkas dibayarkan (%s dari %s)", rupiah.Format(used), rupiah.Format(requested)).
		record(entity.StepRemaining, "Step 7: Sisa jaminan %s", rupiah.Format(requested-used)).
		record(entity.StepDone, "Step 8: Selesai"), nil
}

// awaitingMonitorPlan is used when the guarantee service knows nothing
// about the claim number yet. Amounts are reset and the claim waits. A
// billed claim stays billed so discharge cannot be recorded twice.
func (u *claimStepUsecase) awaitingMonitorPlan(claim *entity.Claim, claimNumber string) *transitionPlan {
	if claim.WorkflowState == entity.StateBilled {
		return newPlan(entity.StateBilled).
			set("claim_number", claimNumber).
			set("last_update", u.today()).
			record(entity.StepPaymentCheck, "Step 6: Tidak ada klaim, menunggu pembayaran")
	}

	return newPlan(entity.StateAwaitingMonitorData).
		set("claim_number", claimNumber).
		set("billing_status", entity.BillingStatusAwaitingMonitorData).
		set("requested_amount", int64(0)).
		set("used_amount", int64(0)).
		set("last_update", u.today()).
		record(entity.StepPaymentCheck, "Step 6: Tidak ada klaim, menunggu pembayaran")
}

func (u *claimStepUsecase) apply(ctx context.Context, claim *entity.Claim, plan *transitionPlan) error {
	if plan.state != "" {
		plan.fields["workflow_state"] = plan.state
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	if len(plan.fields) > 0 {
		if err := u.claimRepo.UpdateFields(tx, claim.ID, plan.fields); err != nil {
			u.log.Warnf("Failed to update claim %s: %+v", claim.TrackingCode, err)
			return err
		}
	}

	for _, entry := range plan.entries {
		if err := u.historyService.Record(ctx, tx, claim.ID, entry.step, entry.description); err != nil {
			return err
		}
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed to commit step for claim %s: %+v", claim.TrackingCode, err)
		return err
	}

	if plan.state != "" && plan.state != claim.WorkflowState {
		u.log.Infof("Claim %s moved from %s to %s", claim.TrackingCode, claim.WorkflowState, plan.state)
	}
	return nil
}

func (u *claimStepUsecase) findClaim(ctx context.Context, trackingCode string) (*entity.Claim, error) {
	claim, err := u.claimRepo.FindByTrackingCode(u.db.WithContext(ctx), trackingCode)
	if err != nil {
		u.log.Warnf("Failed to find claim %s: %+v", trackingCode, err)
		return nil, err
	}
	if claim == nil {
		return nil, ErrClaimNotFound
	}
	return claim, nil
}

func (u *claimStepUsecase) today() time.Time {
	return dateutil.DateOf(u.now())
}
