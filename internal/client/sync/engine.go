// Package sync реализует клиентскую синхронизацию: получение удалённых изменений,
// обнаружение конфликтов, автослияние, загрузку локальных изменений и
// разрешение конфликтов пользователем.
//
// Движок владеет состоянием клиента целиком. Одновременно выполняется не более
// одной попытки синхронизации или разрешения конфликта; мутации записей
// (UpsertTracker, DeleteTracker, UpsertEntry) работают без сети и могут
// вызываться в любой момент.
package sync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/iudanet/habitsync/internal/client/persist"
	"github.com/iudanet/habitsync/internal/client/state"
	"github.com/iudanet/habitsync/internal/client/storage"
	"github.com/iudanet/habitsync/internal/conflict"
	"github.com/iudanet/habitsync/internal/models"
	"github.com/iudanet/habitsync/pkg/api"
)

// DefaultRetentionDays размер окна хранения отметок в днях
const DefaultRetentionDays = 7

// Options параметры движка
type Options struct {
	Notifier      Notifier         // источник уведомлений для Watch; nil означает только периодическую синхронизацию
	Now           func() time.Time // источник времени, по умолчанию time.Now
	ClientName    string           // имя клиента, передаваемое при регистрации
	RetentionDays int              // окно хранения отметок, по умолчанию DefaultRetentionDays
}

// Engine клиентский движок синхронизации
type Engine struct {
	api      ClientAPI
	conn     Connectivity
	notifier Notifier
	kv       storage.KV
	store    *state.Store
	writer   *persist.Writer
	detector *conflict.Detector
	logger   *slog.Logger
	now      func() time.Time
	flight   chan struct{}
	name     string
	window   int
	opened   bool
}

// NewEngine создает движок. Перед использованием нужно вызвать Open.
func NewEngine(apiClient ClientAPI, conn Connectivity, kv storage.KV, logger *slog.Logger, opts Options) *Engine {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.RetentionDays <= 0 {
		opts.RetentionDays = DefaultRetentionDays
	}
	return &Engine{
		api:      apiClient,
		conn:     conn,
		notifier: opts.Notifier,
		kv:       kv,
		store:    state.New(),
		writer:   persist.New(kv, logger),
		detector: conflict.NewDetector(opts.Now),
		logger:   logger,
		now:      opts.Now,
		flight:   make(chan struct{}, 1),
		name:     opts.ClientName,
		window:   opts.RetentionDays,
	}
}

// Open загружает состояние из хранилища. При первом запуске создаёт идентификатор клиента.
func (e *Engine) Open(ctx context.Context) error {
	config, err := e.load(ctx, storage.KeyConfig)
	if err != nil {
		return err
	}
	days, err := e.load(ctx, storage.KeyDays)
	if err != nil {
		return err
	}
	meta, err := e.load(ctx, storage.KeyMetadata)
	if err != nil {
		return err
	}

	if err := e.store.Load(config, days, meta); err != nil {
		return fmt.Errorf("failed to restore state: %w", err)
	}

	if e.store.Metadata().ClientID == "" {
		clientID := uuid.NewString()
		err := e.store.Update(func(tx *state.Tx) error {
			m := tx.Metadata()
			m.ClientID = clientID
			m.ClientName = e.name
			tx.SetMetadata(m)
			return nil
		})
		if err != nil {
			return err
		}
		e.persistMetaFirst()
		e.logger.Info("Generated new client id", "client_id", clientID)
	}

	trackers, entries := e.store.DirtyCounts()
	e.logger.Debug("Engine opened",
		"client_id", e.store.Metadata().ClientID,
		"trackers", len(e.store.Trackers()),
		"dirty_trackers", trackers,
		"dirty_entries", entries)

	e.opened = true
	return nil
}

// Close дожидается записи состояния в хранилище
func (e *Engine) Close(ctx context.Context) error {
	if err := e.writer.Close(ctx); err != nil {
		return fmt.Errorf("failed to flush state: %w", err)
	}
	return nil
}

// Flush дожидается записи всех запланированных изменений
func (e *Engine) Flush(ctx context.Context) error {
	return e.writer.Flush(ctx)
}

// ClientID возвращает идентификатор клиента
func (e *Engine) ClientID() string {
	return e.store.Metadata().ClientID
}

// Status возвращает текущий статус синхронизации
func (e *Engine) Status() state.Status {
	return e.store.Status()
}

// LastError возвращает ошибку последней неудачной попытки синхронизации
func (e *Engine) LastError() string {
	return e.store.LastError()
}

// LastSyncTime возвращает серверное время последней успешной синхронизации
func (e *Engine) LastSyncTime() string {
	return e.store.Metadata().LastSyncTime
}

// PendingConflicts возвращает конфликты, ожидающие решения пользователя
func (e *Engine) PendingConflicts() []*models.Conflict {
	return e.store.Conflicts()
}

// DirtyCounts возвращает количество несинхронизированных трекеров и отметок
func (e *Engine) DirtyCounts() (trackers, entries int) {
	return e.store.DirtyCounts()
}

// Trackers возвращает видимые пользователю трекеры
func (e *Engine) Trackers() []*models.Tracker {
	all := e.store.Trackers()
	live := all[:0]
	for _, t := range all {
		if t.State.IsLive() {
			live = append(live, t)
		}
	}
	return live
}

// Tracker возвращает трекер по id, включая ожидающие удаления
func (e *Engine) Tracker(id string) (*models.Tracker, bool) {
	return e.store.Tracker(id)
}

// Entries возвращает отметки локального журнала
func (e *Engine) Entries() []*models.Entry {
	return e.store.Entries()
}

// Entry возвращает отметку по ключу
func (e *Engine) Entry(key models.EntryKey) (*models.Entry, bool) {
	return e.store.Entry(key)
}

// Subscribe подписывает на изменения состояния
func (e *Engine) Subscribe(buffer int) (<-chan state.Change, func()) {
	return e.store.Subscribe(buffer)
}

func (e *Engine) load(ctx context.Context, key string) ([]byte, error) {
	data, err := e.kv.Get(ctx, key)
	if errors.Is(err, storage.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", key, err)
	}
	return data, nil
}

// persistMetaFirst сохраняет состояние после локальной мутации: сначала dirty-набор,
// затем данные. Если запись прервётся между ключами, dirty-пометка без данных безвредна.
func (e *Engine) persistMetaFirst() {
	e.schedule(storage.KeyMetadata, e.store.EncodeMetadata)
	e.schedule(storage.KeyConfig, e.store.EncodeConfig)
	e.schedule(storage.KeyDays, e.store.EncodeDays)
}

// persistDataFirst сохраняет состояние после синхронизации: сначала данные,
// затем метаданные. Время синхронизации не опережает сохранённые данные.
func (e *Engine) persistDataFirst() {
	e.schedule(storage.KeyConfig, e.store.EncodeConfig)
	e.schedule(storage.KeyDays, e.store.EncodeDays)
	e.schedule(storage.KeyMetadata, e.store.EncodeMetadata)
}

func (e *Engine) schedule(key string, encode func() ([]byte, error)) {
	data, err := encode()
	if err != nil {
		e.logger.Error("Failed to encode state", "key", key, "error", err)
		return
	}
	e.writer.Schedule(key, data)
}

// acquire захватывает право на единственную попытку синхронизации
func (e *Engine) acquire() bool {
	select {
	case e.flight <- struct{}{}:
		return true
	default:
		return false
	}
}

func (e *Engine) release() {
	<-e.flight
}

func (e *Engine) timestamp() string {
	return e.now().UTC().Format(time.RFC3339)
}

// RemoteConflicts возвращает неразрешённые записи журнала конфликтов сервера для этого клиента
func (e *Engine) RemoteConflicts(ctx context.Context) ([]api.ConflictRecord, error) {
	if !e.conn.Online(ctx) {
		return nil, ErrOffline
	}
	resp, err := e.api.ListConflicts(ctx, e.ClientID())
	if err != nil {
		return nil, &TransportError{Op: "list conflicts", Err: err}
	}
	return resp.Conflicts, nil
}
