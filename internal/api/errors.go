package api

import (
	"errors"
	"net/http"

	"github.com/AxM133/memoryloop/internal/domain"
	"github.com/AxM133/memoryloop/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Not found errors
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	// Caller errors
	case errors.Is(err, domain.ErrEmptyMemoText),
		errors.Is(err, domain.ErrEmptyAnswer),
		errors.Is(err, domain.ErrNegativeStageIndex):
		return http.StatusBadRequest

	// Configuration errors surfaced through the settings endpoint
	case errors.Is(err, domain.ErrEmptySchedule),
		errors.Is(err, domain.ErrInvalidStage),
		errors.Is(err, domain.ErrInvalidMatchMode),
		errors.Is(err, domain.ErrInvalidThreshold):
		return http.StatusBadRequest

	default:
		return http.StatusInternalServerError
	}
}

// ErrorMessageForStatus returns the client-safe message for the status code
// produced by MapErrorToStatusCode. Internal details stay in the logs.
func ErrorMessageForStatus(status int, err error) string {
	switch status {
	case http.StatusNotFound:
		return "memory item not found"
	case http.StatusBadRequest:
		return err.Error()
	default:
		return "internal server error"
	}
}
