// Package arbiter реализует серверного арбитра версий.
//
// Каждая запись (трекер или отметка) проверяется и записывается отдельно:
// под мьютексом своего ключа и в своей транзакции. Пакет из десяти записей
// может быть принят частично: семь записей приняты, три отклонены как конфликты.
package arbiter

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/iudanet/habitsync/internal/server/clock"
	"github.com/iudanet/habitsync/internal/server/storage"
	"github.com/iudanet/habitsync/internal/validation"
	"github.com/iudanet/habitsync/pkg/api"
)

// DefaultWindowDays глубина окна отметок, отдаваемых клиентам
const DefaultWindowDays = 7

//go:generate moq -out interfaces_mock.go . Notifier

// Notifier рассылает уведомления о принятых изменениях
type Notifier interface {
	Broadcast(n api.Notification)
}

// Options дополнительные параметры арбитра
type Options struct {
	Notifier   Notifier
	Clock      *clock.Clock
	Now        func() time.Time // источник даты для окна отметок
	WindowDays int
}

// Arbiter единственный источник истины о версиях записей
type Arbiter struct {
	store    storage.Storage
	clock    *clock.Clock
	marks    *watermark
	locks    *keyedMutex
	notifier Notifier
	logger   *slog.Logger
	now      func() time.Time
	window   int
}

// New создает арбитра и продвигает часы до последней метки, сохраненной в БД
func New(ctx context.Context, store storage.Storage, logger *slog.Logger, opts Options) (*Arbiter, error) {
	c := opts.Clock
	if c == nil {
		c = clock.New()
	}

	latest, err := store.LatestTimestamp(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to restore clock: %w", err)
	}
	if err := c.Observe(latest); err != nil {
		return nil, fmt.Errorf("failed to restore clock: %w", err)
	}

	now := opts.Now
	if now == nil {
		now = time.Now
	}
	window := opts.WindowDays
	if window <= 0 {
		window = DefaultWindowDays
	}

	return &Arbiter{
		store:    store,
		clock:    c,
		marks:    newWatermark(c),
		locks:    newKeyedMutex(),
		notifier: opts.Notifier,
		logger:   logger,
		now:      now,
		window:   window,
	}, nil
}

// RegisterClient регистрирует клиента или обновляет его имя
func (a *Arbiter) RegisterClient(ctx context.Context, req *api.RegisterRequest) (*api.RegisterResponse, error) {
	if err := validation.ValidateID("client", req.ClientID); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}

	name := req.ClientName
	if name == "" {
		name = defaultClientName(req.ClientID)
	}

	stamp := a.clock.Tick()
	err := a.store.RegisterClient(ctx, &storage.Client{
		ID:           req.ClientID,
		Name:         name,
		RegisteredAt: stamp,
		LastSeenAt:   stamp,
	})
	if err != nil {
		return nil, err
	}

	a.logger.Info("Client registered", "client_id", req.ClientID, "name", name)

	return &api.RegisterResponse{Status: "ok", ClientID: req.ClientID}, nil
}

// FullSnapshot возвращает все живые трекеры и отметки окна.
// serverTime берется до чтения, поэтому изменения, закоммиченные во время чтения,
// попадут в следующую delta (возможно повторно, что безопасно).
func (a *Arbiter) FullSnapshot(ctx context.Context) (*api.FullSyncResponse, error) {
	serverTime := a.marks.safe()

	trackers, err := a.store.ListTrackers(ctx, false)
	if err != nil {
		return nil, err
	}
	entries, err := a.store.ListEntries(ctx, a.windowStart())
	if err != nil {
		return nil, err
	}

	resp := &api.FullSyncResponse{
		Config:     make([]api.Tracker, 0, len(trackers)),
		Days:       api.Days{},
		ServerTime: serverTime,
	}
	for _, t := range trackers {
		resp.Config = append(resp.Config, trackerToAPI(t))
	}
	for _, e := range entries {
		resp.Days.Put(e.Date, e.TrackerID, entryToAPI(e))
	}

	return resp, nil
}

// Delta возвращает изменения других клиентов после since.
// Удаленные трекеры перечисляются в DeletedTrackers, а не в Config.
func (a *Arbiter) Delta(ctx context.Context, since, clientID string) (*api.DeltaSyncResponse, error) {
	if err := validation.ValidateID("client", clientID); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	normalized, err := clock.Normalize(since)
	if err != nil {
		return nil, fmt.Errorf("%w: since: %w", ErrInvalidRequest, err)
	}

	serverTime := a.marks.safe()

	trackers, err := a.store.TrackersChangedSince(ctx, normalized, clientID)
	if err != nil {
		return nil, err
	}
	entries, err := a.store.EntriesChangedSince(ctx, normalized, clientID, a.windowStart())
	if err != nil {
		return nil, err
	}

	resp := &api.DeltaSyncResponse{
		Config:          make([]api.Tracker, 0, len(trackers)),
		Days:            api.Days{},
		DeletedTrackers: []string{},
		ServerTime:      serverTime,
	}
	for _, t := range trackers {
		if t.Deleted {
			resp.DeletedTrackers = append(resp.DeletedTrackers, t.ID)
			continue
		}
		resp.Config = append(resp.Config, trackerToAPI(t))
	}
	for _, e := range entries {
		resp.Days.Put(e.Date, e.TrackerID, entryToAPI(e))
	}

	a.logger.Debug("Delta computed",
		"client_id", clientID,
		"since", normalized,
		"trackers", len(resp.Config),
		"deleted", len(resp.DeletedTrackers),
		"entries", resp.Days.Len())

	return resp, nil
}

// ListConflicts возвращает открытые конфликты клиента из журнала
func (a *Arbiter) ListConflicts(ctx context.Context, clientID string) (*api.ConflictsResponse, error) {
	if err := validation.ValidateID("client", clientID); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}

	rows, err := a.store.ListOpenConflicts(ctx, clientID)
	if err != nil {
		return nil, err
	}

	resp := &api.ConflictsResponse{Conflicts: make([]api.ConflictRecord, 0, len(rows))}
	for _, c := range rows {
		resp.Conflicts = append(resp.Conflicts, conflictToAPI(c))
	}

	return resp, nil
}

// Status возвращает время последней принятой записи
func (a *Arbiter) Status(ctx context.Context) (*api.StatusResponse, error) {
	last, err := a.store.LastModified(ctx)
	if err != nil {
		return nil, err
	}
	return &api.StatusResponse{LastModified: last}, nil
}

// windowStart возвращает первую дату окна отметок
func (a *Arbiter) windowStart() string {
	return a.now().UTC().AddDate(0, 0, -a.window).Format(validation.DateLayout)
}

func (a *Arbiter) notify(clientID, serverTime string) {
	if a.notifier == nil || serverTime == "" {
		return
	}
	a.notifier.Broadcast(api.Notification{
		Type:       api.NotificationChanged,
		ClientID:   clientID,
		ServerTime: serverTime,
	})
}

func defaultClientName(clientID string) string {
	short := clientID
	if len(short) > 8 {
		short = short[:8]
	}
	return "Client-" + short
}
