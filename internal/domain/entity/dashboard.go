package entity

import "github.com/google/uuid"

// StepCount is the number of claims whose current step is Step.
type StepCount struct {
	Step  int
	Count int64
}

// HistoryTimestamp is the projection of a history row used to measure
// step latency. CreatedAt is kept raw so that rows written by older
// tooling in other layouts can still be parsed.
type HistoryTimestamp struct {
	ClaimID   uuid.UUID
	Step      int
	CreatedAt string
}
