package dto

import "time"

type StepCountResponse struct {
	Step  int   `json:"step"`
	Count int64 `json:"count"`
}

// VehicleStatusBuckets counts claims by vehicle tax status.
type VehicleStatusBuckets struct {
	Paid    int `json:"LUNAS"`
	NotPaid int `json:"BELUM LUNAS"`
	Error   int `json:"ERROR"`
}

// StepDurationResponse is the mean time taken to reach Step from the
// step before it.
type StepDurationResponse struct {
	Step         int     `json:"step"`
	Label        string  `json:"label"`
	AverageHours float64 `json:"average_hours"`
}

type DashboardResponse struct {
	TotalClaims   int64                  `json:"total_resi"`
	StepCounts    []StepCountResponse    `json:"pasien_per_step"`
	VehicleStatus VehicleStatusBuckets   `json:"status_kendaraan"`
	StepDurations []StepDurationResponse `json:"durasi_antar_step"`
	GeneratedAt   time.Time              `json:"generated_at"`
}
