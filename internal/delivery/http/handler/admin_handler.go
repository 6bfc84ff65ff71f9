package handler

import (
	"net/http"
	"net/url"
	"strings"

	"jrcts-claim-tracker/internal/delivery/dto"
	"jrcts-claim-tracker/internal/usecase"
	"jrcts-claim-tracker/pkg/response"
	"jrcts-claim-tracker/pkg/validator"

	"github.com/gorilla/mux"
)

type AdminHandler struct {
	adminUsecase     usecase.AdminUsecase
	claimStepUsecase usecase.ClaimStepUsecase
	validator        *validator.CustomValidator
}

func NewAdminHandler(adminUsecase usecase.AdminUsecase, claimStepUsecase usecase.ClaimStepUsecase, validator *validator.CustomValidator) *AdminHandler {
	return &AdminHandler{
		adminUsecase:     adminUsecase,
		claimStepUsecase: claimStepUsecase,
		validator:        validator,
	}
}

func (h *AdminHandler) ListClaims(w http.ResponseWriter, r *http.Request) {
	claims, err := h.adminUsecase.ListClaims(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to get claims")
		return
	}

	response.Success(w, http.StatusOK, "Claims retrieved successfully", claims)
}

// GetClaim shows one claim. A non-empty gagal query flag first marks the
// guarantee as failed.
func (h *AdminHandler) GetClaim(w http.ResponseWriter, r *http.Request) {
	trackingCode := mux.Vars(r)["nomor_resi"]

	if strings.TrimSpace(r.URL.Query().Get("gagal")) != "" {
		if err := h.claimStepUsecase.MarkGuaranteeFailed(r.Context(), trackingCode); err != nil {
			writeClaimError(w, r, err, "Failed to mark guarantee as failed")
			return
		}
	}

	detail, err := h.adminUsecase.GetClaimDetail(r.Context(), trackingCode)
	if err != nil {
		writeClaimError(w, r, err, "Failed to get claim")
		return
	}

	response.Success(w, http.StatusOK, "Claim retrieved successfully", detail)
}

func (h *AdminHandler) AdvanceStep(w http.ResponseWriter, r *http.Request) {
	trackingCode := mux.Vars(r)["nomor_resi"]

	var req dto.AdvanceStepRequest
	if err := decodeForm(r, &req); err != nil {
		response.ValidationError(w, formErrors(err))
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	if err := h.claimStepUsecase.AdvanceStep(r.Context(), trackingCode, &req); err != nil {
		writeClaimError(w, r, err, "Failed to advance claim")
		return
	}

	http.Redirect(w, r, "/admin/"+url.PathEscape(trackingCode), http.StatusSeeOther)
}

func (h *AdminHandler) DeleteClaim(w http.ResponseWriter, r *http.Request) {
	trackingCode := strings.TrimSpace(r.URL.Query().Get("nomor_resi"))
	if trackingCode == "" {
		response.Error(w, http.StatusBadRequest, "nomor_resi is required", nil)
		return
	}

	if err := h.adminUsecase.DeleteClaim(r.Context(), trackingCode); err != nil {
		writeClaimError(w, r, err, "Failed to delete claim")
		return
	}

	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

// ResetClaim deletes the claim so the victim can register again.
func (h *AdminHandler) ResetClaim(w http.ResponseWriter, r *http.Request) {
	trackingCode := mux.Vars(r)["nomor_resi"]

	if err := h.adminUsecase.DeleteClaim(r.Context(), trackingCode); err != nil {
		writeClaimError(w, r, err, "Failed to reset claim")
		return
	}

	http.Redirect(w, r, "/registrasi", http.StatusSeeOther)
}
