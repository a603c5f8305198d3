package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/iudanet/habitsync/internal/server/arbiter"
	"github.com/iudanet/habitsync/internal/validation"
	"github.com/iudanet/habitsync/pkg/api"
)

//go:generate moq -out sync_mock.go . SyncService

// SyncService операции арбитра, доступные через HTTP
type SyncService interface {
	RegisterClient(ctx context.Context, req *api.RegisterRequest) (*api.RegisterResponse, error)
	FullSnapshot(ctx context.Context) (*api.FullSyncResponse, error)
	Delta(ctx context.Context, since, clientID string) (*api.DeltaSyncResponse, error)
	Submit(ctx context.Context, req *api.SyncRequest) (*api.SyncResponse, error)
	ForceResolve(ctx context.Context, req *api.ResolveConflictRequest) (*api.ResolveConflictResponse, error)
	ListConflicts(ctx context.Context, clientID string) (*api.ConflictsResponse, error)
	Status(ctx context.Context) (*api.StatusResponse, error)
}

var _ SyncService = (*arbiter.Arbiter)(nil)

// SyncHandler handles synchronization requests
type SyncHandler struct {
	service  SyncService
	validate *validator.Validate
	logger   *slog.Logger
}

// NewSyncHandler creates a new sync handler
func NewSyncHandler(logger *slog.Logger, service SyncService) *SyncHandler {
	return &SyncHandler{
		service:  service,
		validate: validation.New(),
		logger:   logger,
	}
}

// Register обрабатывает POST /api/sync/register
func (h *SyncHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req api.RegisterRequest
	if err := decodeJSON(w, r, h.validate, &req); err != nil {
		fail(w, h.logger, "register", err)
		return
	}

	resp, err := h.service.RegisterClient(r.Context(), &req)
	if err != nil {
		fail(w, h.logger, "register", err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, resp)
}

// Full обрабатывает GET /api/sync/full
// Возвращает все живые трекеры и отметки окна
func (h *SyncHandler) Full(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.FullSnapshot(r.Context())
	if err != nil {
		fail(w, h.logger, "full", err)
		return
	}

	h.logger.Info("Full sync served",
		"trackers", len(resp.Config),
		"entries", resp.Days.Len(),
		"server_time", resp.ServerTime)

	writeJSON(w, h.logger, http.StatusOK, resp)
}

// Delta обрабатывает GET /api/sync/delta?since=...&client_id=...
// Возвращает изменения других клиентов после since
func (h *SyncHandler) Delta(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	since := q.Get("since")
	clientID := q.Get("client_id")

	if since == "" {
		fail(w, h.logger, "delta", fmt.Errorf("%w: since parameter is required", arbiter.ErrInvalidRequest))
		return
	}

	resp, err := h.service.Delta(r.Context(), since, clientID)
	if err != nil {
		fail(w, h.logger, "delta", err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, resp)
}

// Update обрабатывает POST /api/sync/update
// Версии проверяются по каждой записи: часть пакета может вернуться конфликтами
func (h *SyncHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req api.SyncRequest
	if err := decodeJSON(w, r, h.validate, &req); err != nil {
		fail(w, h.logger, "update", err)
		return
	}

	resp, err := h.service.Submit(r.Context(), &req)
	if err != nil {
		fail(w, h.logger, "update", err)
		return
	}

	h.logger.Info("Sync update processed",
		"client_id", req.ClientID,
		"received_trackers", len(req.Config),
		"received_entries", req.Days.Len(),
		"applied_trackers", len(resp.AppliedConfig),
		"applied_entries", resp.AppliedDays.Len(),
		"conflicts", len(resp.Conflicts))

	writeJSON(w, h.logger, http.StatusOK, resp)
}

// ResolveConflict обрабатывает POST /api/sync/resolve-conflict
func (h *SyncHandler) ResolveConflict(w http.ResponseWriter, r *http.Request) {
	var req api.ResolveConflictRequest
	if err := decodeJSON(w, r, h.validate, &req); err != nil {
		fail(w, h.logger, "resolve-conflict", err)
		return
	}

	resp, err := h.service.ForceResolve(r.Context(), &req)
	if err != nil {
		fail(w, h.logger, "resolve-conflict", err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, resp)
}

// Conflicts обрабатывает GET /api/sync/conflicts?client_id=...
func (h *SyncHandler) Conflicts(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.ListConflicts(r.Context(), r.URL.Query().Get("client_id"))
	if err != nil {
		fail(w, h.logger, "conflicts", err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, resp)
}

// Status обрабатывает GET /api/sync/status
func (h *SyncHandler) Status(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.Status(r.Context())
	if err != nil {
		fail(w, h.logger, "status", err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, resp)
}
