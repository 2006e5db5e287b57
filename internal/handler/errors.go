package handler

import (
	"context"
	"errors"
	"net/http"

	"cropclassify/internal/apperr"
	"cropclassify/internal/httputil"
	"cropclassify/internal/logger"
)

// statusFor maps an error kind to its HTTP status.
func statusFor(kind apperr.Kind) int {
	switch kind {
	case apperr.KindValidation:
		return http.StatusBadRequest
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindConflict:
		return http.StatusConflict
	case apperr.KindModel:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// writeError logs err in full and sends the client only its safe message.
func writeError(w http.ResponseWriter, logger *logger.Logger, err error) {
	if errors.Is(err, context.Canceled) {
		logger.Warning("Request cancelled: %v", err)
		return
	}

	kind := apperr.KindOf(err)
	status := statusFor(kind)
	if status >= http.StatusInternalServerError {
		logger.Error("Request failed (%s): %v", kind, err)
	} else {
		logger.Warning("Request rejected (%s): %v", kind, err)
	}
	httputil.WriteJSONError(w, status, kind.String(), apperr.Message(err))
}
