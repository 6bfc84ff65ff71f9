package entity

// WorkflowState is the explicit position of a claim in the guarantee
// workflow. BillingStatus stays a free-text label; this is what the step
// engine reasons over.
type WorkflowState string

const (
	StateNew                 WorkflowState = "NEW"
	StateLPRecorded          WorkflowState = "LP_RECORDED"
	StateClaimSubmitted      WorkflowState = "CLAIM_SUBMITTED"
	StateAwaitingMonitorData WorkflowState = "AWAITING_MONITOR_DATA"
	StateBilled              WorkflowState = "BILLED"
	StatePaid                WorkflowState = "PAID"
	StateGuaranteeFailed     WorkflowState = "GUARANTEE_FAILED"
)

// Operator-driven steps. Steps 1, 5, 7 and 8 are only ever written as a
// side effect of another step.
const (
	StepRegistered   = 1
	StepPoliceReport = 2
	StepClaimNumber  = 3
	StepDischarged   = 4
	StepBilled       = 5
	StepPaymentCheck = 6
	StepRemaining    = 7
	StepDone         = 8
)

var allowedSteps = map[WorkflowState][]int{
	StateNew:                 {StepPoliceReport, StepClaimNumber},
	StateLPRecorded:          {StepPoliceReport, StepClaimNumber, StepDischarged},
	StateClaimSubmitted:      {StepClaimNumber, StepDischarged, StepPaymentCheck},
	StateAwaitingMonitorData: {StepClaimNumber, StepDischarged, StepPaymentCheck},
	StateBilled:              {StepPaymentCheck},
	StatePaid:                nil,
	StateGuaranteeFailed:     nil,
}

// IsOperatorStep reports whether an operator may submit step directly.
func IsOperatorStep(step int) bool {
	switch step {
	case StepPoliceReport, StepClaimNumber, StepDischarged, StepPaymentCheck:
		return true
	}
	return false
}

// AllowedSteps lists the steps an operator may submit next from s alone.
// Unknown states allow nothing.
// Claim.AllowedSteps adds the exceptions that depend on claim fields.
func (s WorkflowState) AllowedSteps() []int {
	steps := allowedSteps[s]
	out := make([]int, len(steps))
	copy(out, steps)
	return out
}

// IsTerminal reports whether no further operator step is possible.
func (s WorkflowState) IsTerminal() bool {
	return s == StatePaid || s == StateGuaranteeFailed
}

// CanMarkGuaranteeFailed reports whether the failure side channel applies.
func (s WorkflowState) CanMarkGuaranteeFailed() bool {
	return s != StatePaid && s != StateGuaranteeFailed
}
