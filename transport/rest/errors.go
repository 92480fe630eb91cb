package rest

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/rocketscienceinc/impoztor-backend/internal/apperror"
)

var errBadRequest = errors.New("malformed request body")

type errorResponse struct {
	Error string `json:"error"`
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, errBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, apperror.ErrSessionNotFound),
		errors.Is(err, apperror.ErrUnknownCategory):
		return http.StatusNotFound
	case errors.Is(err, apperror.ErrIllegalPhaseTransition),
		errors.Is(err, apperror.ErrOutOfTurnVote):
		return http.StatusConflict
	case errors.Is(err, apperror.ErrInsufficientPlayers),
		errors.Is(err, apperror.ErrTooManyPlayers),
		errors.Is(err, apperror.ErrInvalidImpostorCount),
		errors.Is(err, apperror.ErrInvalidTarget),
		errors.Is(err, apperror.ErrEmptyInput):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func writeError(logger *slog.Logger, w http.ResponseWriter, err error) {
	status := statusOf(err)

	message := err.Error()
	if status == http.StatusInternalServerError {
		logger.Error("request failed", "error", err)
		message = http.StatusText(status)
	}

	writeJSON(logger, w, status, errorResponse{Error: message})
}

func writeJSON(logger *slog.Logger, w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error("failed to write response", "error", err)
	}
}
