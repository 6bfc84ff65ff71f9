package dto

import (
	"time"
)

// Request DTOs

// RegisterClaimRequest is the public registration form.
type RegisterClaimRequest struct {
	NIK                string `schema:"nik" json:"nik" validate:"required,max=20"`
	FullName           string `schema:"nama_lengkap" json:"nama_lengkap" validate:"required,max=255"`
	Age                int    `schema:"usia" json:"usia" validate:"gte=0,lte=150"`
	PhoneNumber        string `schema:"nomor_telepon" json:"nomor_telepon" validate:"required,max=20"`
	AddressCoordinates string `schema:"alamat_koordinat" json:"alamat_koordinat"`
	AccidentDate       string `schema:"tgl_kecelakaan" json:"tgl_kecelakaan" validate:"required,datetime=2006-01-02"`
	VehiclePlate       string `schema:"nopol_kendaraan" json:"nopol_kendaraan" validate:"max=20"`
	Hospital           string `schema:"rs_tempat_dirawat" json:"rs_tempat_dirawat" validate:"max=255"`
	TreatmentType      string `schema:"jenis_rawatan" json:"jenis_rawatan" validate:"required,max=50"`
}

// AdvanceStepRequest is the admin form that moves a claim forward.
type AdvanceStepRequest struct {
	Step               int    `schema:"step" json:"step" validate:"required"`
	PoliceReportNumber string `schema:"nomor_lp" json:"nomor_lp" validate:"required_if=Step 2,max=100"`
	ClaimNumber        string `schema:"nomor_jaminan" json:"nomor_jaminan" validate:"max=100"`
	DischargeDate      string `schema:"tgl_keluar" json:"tgl_keluar" validate:"required_if=Step 4"`
}

// Response DTOs

type RegistrationResponse struct {
	TrackingCode string `json:"nomor_resi,omitempty"`
	ExistingResi string `json:"existing_resi,omitempty"`
}

// RegistrationFormResponse describes the registration form fields.
type RegistrationFormResponse struct {
	Fields []FormField `json:"fields"`
}

type FormField struct {
	Name     string `json:"name"`
	Label    string `json:"label"`
	Type     string `json:"type"`
	Required bool   `json:"required"`
}

// ClaimResponse mirrors a claim with dates rendered as dd/mm/yyyy and
// amounts both raw and formatted.
type ClaimResponse struct {
	ID                    string    `json:"id"`
	TrackingCode          string    `json:"nomor_resi"`
	NIK                   string    `json:"nik"`
	FullName              string    `json:"nama_lengkap"`
	Age                   int       `json:"usia"`
	PhoneNumber           string    `json:"nomor_telepon"`
	AddressCoordinates    string    `json:"alamat_koordinat"`
	AccidentDate          string    `json:"tgl_kecelakaan"`
	VehiclePlate          string    `json:"nopol_kendaraan"`
	VehicleStatus         string    `json:"status_kendaraan"`
	Hospital              string    `json:"rs_tempat_dirawat"`
	TreatmentType         string    `json:"jenis_rawatan"`
	PoliceReportNumber    string    `json:"nomor_lp"`
	ClaimNumber           string    `json:"nomor_jaminan"`
	AdmissionDate         string    `json:"tgl_masuk"`
	DischargeDate         string    `json:"tgl_keluar"`
	BillingStatus         string    `json:"status_tagihan"`
	RequestedAmount       int64     `json:"jml_pengajuan"`
	RequestedAmountRupiah string    `json:"jml_pengajuan_rp"`
	UsedAmount            int64     `json:"jml_digunakan"`
	UsedAmountRupiah      string    `json:"jml_digunakan_rp"`
	LastUpdate            string    `json:"tgl_update"`
	WorkflowState         string    `json:"workflow_state"`
	CurrentStep           int       `json:"step"`
	CreatedAt             time.Time `json:"created_at"`
}

type HistoryResponse struct {
	Step        int       `json:"step"`
	Description string    `json:"deskripsi"`
	CreatedAt   time.Time `json:"created_at"`
}

// TrackingResponse is the public view of one claim. Claim is nil when no
// tracking code was given.
type TrackingResponse struct {
	TrackingCode         string            `json:"nomor_resi"`
	Claim                *ClaimResponse    `json:"korban,omitempty"`
	History              []HistoryResponse `json:"riwayat"`
	VehiclePlate         string            `json:"nopol,omitempty"`
	VehicleStatus        string            `json:"status_kendaraan,omitempty"`
	LatestTransactionEnd string            `json:"akhir_transaksi,omitempty"`
}

type ClaimListResponse struct {
	Claims []ClaimResponse `json:"claims"`
	Total  int             `json:"total"`
}

type ClaimDetailResponse struct {
	Claim        ClaimResponse     `json:"korban"`
	History      []HistoryResponse `json:"riwayat"`
	AllowedSteps []int             `json:"allowed_steps"`
}
