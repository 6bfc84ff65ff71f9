package handler

import (
	"net/http"

	"jrcts-claim-tracker/internal/usecase"
	"jrcts-claim-tracker/pkg/response"
)

type TrackingHandler struct {
	trackingUsecase usecase.TrackingUsecase
}

func NewTrackingHandler(trackingUsecase usecase.TrackingUsecase) *TrackingHandler {
	return &TrackingHandler{
		trackingUsecase: trackingUsecase,
	}
}

func (h *TrackingHandler) Track(w http.ResponseWriter, r *http.Request) {
	result, err := h.trackingUsecase.Track(r.Context(), r.URL.Query().Get("nomor_resi"))
	if err != nil {
		writeClaimError(w, r, err, "Failed to track claim")
		return
	}

	response.Success(w, http.StatusOK, "Claim retrieved successfully", result)
}
