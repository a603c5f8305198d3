package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/iudanet/habitsync/internal/server/arbiter"
	"github.com/iudanet/habitsync/internal/server/storage"
	"github.com/iudanet/habitsync/internal/validation"
	"github.com/iudanet/habitsync/pkg/api"
)

// maxBodyBytes ограничение размера тела запроса
const maxBodyBytes = 8 << 20

// writeJSON кодирует ответ в JSON с заданным статусом
func writeJSON(w http.ResponseWriter, logger *slog.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Failed to encode response", "error", err)
	}
}

// writeError отправляет api.ErrorResponse
func writeError(w http.ResponseWriter, logger *slog.Logger, status int, msg, detail string) {
	writeJSON(w, logger, status, api.ErrorResponse{Error: msg, Message: detail})
}

// decodeJSON читает тело запроса и проверяет DTO валидатором
func decodeJSON(w http.ResponseWriter, r *http.Request, validate *validator.Validate, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("%w: invalid request body: %w", arbiter.ErrInvalidRequest, err)
	}
	if err := validate.Struct(dst); err != nil {
		return fmt.Errorf("%w: %s", arbiter.ErrInvalidRequest, validation.Describe(err))
	}
	return nil
}

// statusFor сопоставляет ошибку арбитра или хранилища с HTTP статусом
func statusFor(err error) int {
	switch {
	case errors.Is(err, arbiter.ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, storage.ErrTrackerNotFound),
		errors.Is(err, storage.ErrEntryNotFound),
		errors.Is(err, storage.ErrClientNotFound),
		errors.Is(err, storage.ErrConflictNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// fail логирует ошибку и отвечает клиенту.
// Для 500 детали ошибки клиенту не передаются.
func fail(w http.ResponseWriter, logger *slog.Logger, op string, err error) {
	status := statusFor(err)
	switch status {
	case http.StatusInternalServerError:
		logger.Error("Request failed", "op", op, "error", err)
		writeError(w, logger, status, "internal server error", "")
	case http.StatusNotFound:
		logger.Warn("Resource not found", "op", op, "error", err)
		writeError(w, logger, status, "not found", err.Error())
	default:
		logger.Warn("Invalid request", "op", op, "error", err)
		writeError(w, logger, status, "invalid request", err.Error())
	}
}
