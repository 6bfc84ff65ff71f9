package handler

import (
	"errors"
	"net/http"

	"jrcts-claim-tracker/internal/delivery/http/middleware"
	"jrcts-claim-tracker/internal/infrastructure/claimapi"
	"jrcts-claim-tracker/internal/usecase"
	"jrcts-claim-tracker/pkg/response"

	"github.com/sirupsen/logrus"
)

// writeClaimError maps workflow errors onto HTTP statuses. Unexpected
// errors are logged with the request id so they can be matched to the
// access log line.
func writeClaimError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	var lookupErr *claimapi.LookupError

	switch {
	case errors.Is(err, usecase.ErrClaimNotFound):
		response.NotFound(w, "Nomor resi tidak ditemukan.")
	case errors.Is(err, usecase.ErrInvalidStep),
		errors.Is(err, usecase.ErrInvalidDate),
		errors.Is(err, usecase.ErrPoliceReportRequired):
		response.Error(w, http.StatusBadRequest, err.Error(), nil)
	case errors.Is(err, usecase.ErrTransitionNotAllowed),
		errors.Is(err, usecase.ErrTrackingCodeConflict):
		response.Conflict(w, err.Error())
	case errors.Is(err, usecase.ErrClaimNumberRequired):
		response.Error(w, http.StatusUnprocessableEntity, err.Error(), nil)
	case errors.Is(err, usecase.ErrInvalidExternalData),
		errors.Is(err, usecase.ErrExternalLookup),
		errors.As(err, &lookupErr):
		response.BadGateway(w, err.Error())
	default:
		requestID, _ := middleware.GetRequestIDFromContext(r.Context())
		logrus.WithFields(logrus.Fields{
			"request_id": requestID,
			"path":       r.URL.Path,
		}).Errorf("%s: %+v", fallback, err)
		response.InternalServerError(w, fallback)
	}
}
