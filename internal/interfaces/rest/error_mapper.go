package rest

import (
	"log/slog"
	"net/http"

	"github.com/DanielPopoola/notes-checkout/internal/application"
)

type ValidationResponse struct {
	Errors []application.FieldError `json:"errors"`
}

type ResultResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// WriteError maps application errors to HTTP responses. Client faults get JSON
// bodies; server faults get a generic plain-text message and are never detailed.
func WriteError(w http.ResponseWriter, err error, logger *slog.Logger) {
	svcErr, ok := application.IsServiceError(err)
	if !ok {
		svcErr = application.NewInternalError(err)
	}

	switch svcErr.Code {
	case application.ErrCodeValidation:
		WriteJSON(w, svcErr.HTTPStatus, ValidationResponse{Errors: svcErr.Fields})
		return
	case application.ErrCodeSignatureMismatch:
		WriteJSON(w, svcErr.HTTPStatus, ResultResponse{Success: false, Message: svcErr.Message})
		return
	}

	if svcErr.HTTPStatus >= http.StatusInternalServerError {
		logger.Error("request failed",
			"code", svcErr.Code,
			"error_code", application.ToErrorCode(svcErr.Err),
			"error", err)
	}

	WriteText(w, svcErr.HTTPStatus, svcErr.Message)
}
