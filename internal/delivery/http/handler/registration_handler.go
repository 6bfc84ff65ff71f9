package handler

import (
	"net/http"

	"jrcts-claim-tracker/internal/delivery/dto"
	"jrcts-claim-tracker/internal/usecase"
	"jrcts-claim-tracker/pkg/response"
	"jrcts-claim-tracker/pkg/validator"
)

var registrationFields = []dto.FormField{
	{Name: "nik", Label: "NIK", Type: "text", Required: true},
	{Name: "nama_lengkap", Label: "Nama Lengkap", Type: "text", Required: true},
	{Name: "usia", Label: "Usia", Type: "number", Required: false},
	{Name: "nomor_telepon", Label: "Nomor Telepon", Type: "text", Required: true},
	{Name: "alamat_koordinat", Label: "Alamat / Koordinat", Type: "text", Required: false},
	{Name: "tgl_kecelakaan", Label: "Tanggal Kecelakaan", Type: "date", Required: true},
	{Name: "nopol_kendaraan", Label: "Nopol Kendaraan", Type: "text", Required: false},
	{Name: "rs_tempat_dirawat", Label: "RS Tempat Dirawat", Type: "text", Required: false},
	{Name: "jenis_rawatan", Label: "Jenis Rawatan", Type: "text", Required: true},
}

type RegistrationHandler struct {
	registrationUsecase usecase.RegistrationUsecase
	validator           *validator.CustomValidator
}

func NewRegistrationHandler(registrationUsecase usecase.RegistrationUsecase, validator *validator.CustomValidator) *RegistrationHandler {
	return &RegistrationHandler{
		registrationUsecase: registrationUsecase,
		validator:           validator,
	}
}

func (h *RegistrationHandler) Form(w http.ResponseWriter, r *http.Request) {
	response.Success(w, http.StatusOK, "Registration form", dto.RegistrationFormResponse{Fields: registrationFields})
}

func (h *RegistrationHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterClaimRequest
	if err := decodeForm(r, &req); err != nil {
		response.ValidationError(w, formErrors(err))
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	result, err := h.registrationUsecase.Register(r.Context(), &req)
	if err != nil {
		writeClaimError(w, r, err, "Failed to register claim")
		return
	}

	if result.ExistingResi != "" {
		response.Success(w, http.StatusOK, "Data sudah terdaftar", result)
		return
	}

	response.Success(w, http.StatusCreated, "Registrasi berhasil", result)
}
