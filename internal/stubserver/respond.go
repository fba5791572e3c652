package stubserver

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/appfoundry/apikit/internal/apperrors"
	"github.com/appfoundry/apikit/internal/logger"
)

// ErrorResponse is the JSON body sent on every API error.
type ErrorResponse struct {
	ErrorCode apperrors.ErrorCode `json:"error_code"`
	Message   string              `json:"message"`
}

func RespondWithError(w http.ResponseWriter, r *http.Request, statusCode int, errorCode apperrors.ErrorCode, message string) {
	reqLogger := logger.ContextRequestLogger(r.Context())

	attrs := []any{
		slog.Int("status", statusCode),
		slog.String("error_code", string(errorCode)),
		slog.String("error_message", message),
	}

	switch {
	case statusCode >= 500:
		reqLogger.Error("request failed", attrs...)
	case statusCode >= 400:
		reqLogger.Warn("request failed", attrs...)
	default:
		reqLogger.Info("request failed", attrs...)
	}

	data, err := json.Marshal(ErrorResponse{ErrorCode: errorCode, Message: message})
	if err != nil {
		reqLogger.Error("error marshaling error response", slog.Any("error", err))
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error_code":"internal_error","message":"Internal Server Error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)
	_, _ = w.Write(data)
}

func RespondWithJSON(w http.ResponseWriter, status int, payload any) {
	if status == http.StatusNoContent {
		w.WriteHeader(status)
		return
	}

	data, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error_code":"internal_error","message":"Internal Server Error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}
