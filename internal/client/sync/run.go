package sync

import (
	"context"
	"errors"

	"github.com/iudanet/habitsync/internal/client/dirty"
	"github.com/iudanet/habitsync/internal/client/state"
	"github.com/iudanet/habitsync/internal/client/storage"
	"github.com/iudanet/habitsync/internal/conflict"
	"github.com/iudanet/habitsync/internal/models"
	"github.com/iudanet/habitsync/pkg/api"
)

// Mode вид получения удалённых изменений
type Mode string

const (
	ModeFull  Mode = "full"
	ModeDelta Mode = "delta"
)

// Result итог одной попытки синхронизации
type Result struct {
	Mode       Mode
	Status     state.Status
	ServerTime string
	Pulled     int // получено удалённых записей
	Adopted    int // принято без конфликта
	AutoMerged int // слито автоматически
	Conflicts  int // ожидают решения пользователя
	Uploaded   int // отправлено на сервер
	Accepted   int // принято сервером
	Rejected   int // отклонено сервером как конфликт
	Failed     int // не сохранено сервером, остаётся dirty до следующей попытки
	Purged     int // удалено политикой хранения
}

// upload снимок отправляемых записей и их поколений в dirty-наборе
type upload struct {
	trackers map[string]*models.Tracker
	entries  map[models.EntryKey]*models.Entry
	marks    dirty.Marks
	request  api.SyncRequest
}

func (u *upload) size() int {
	return len(u.trackers) + len(u.entries)
}

// TriggerSync выполняет одну попытку синхронизации.
// Если синхронизация уже идёт, возвращает ErrSyncInProgress, ничего не меняя.
// Конфликты версий не являются ошибкой: они попадают в PendingConflicts,
// а Result.Status становится has-conflicts.
func (e *Engine) TriggerSync(ctx context.Context) (*Result, error) {
	if !e.acquire() {
		return nil, ErrSyncInProgress
	}
	defer e.release()

	return e.sync(ctx)
}

// sync выполняет попытку синхронизации; вызывающий держит e.flight
func (e *Engine) sync(ctx context.Context) (*Result, error) {
	if !e.opened {
		return nil, ErrNotOpen
	}

	// Шаг 1: без связи ничего не трогаем
	if !e.conn.Online(ctx) {
		e.logger.Info("Sync skipped: server is unreachable")
		return nil, ErrOffline
	}

	e.setSyncing(true)
	result, err := e.attempt(ctx)
	e.finish(err)
	if err != nil {
		e.logger.Warn("Sync failed", "error", err)
		return nil, err
	}

	result.Status = e.store.Status()
	e.logger.Info("Sync finished",
		"mode", result.Mode,
		"status", result.Status,
		"pulled", result.Pulled,
		"adopted", result.Adopted,
		"auto_merged", result.AutoMerged,
		"uploaded", result.Uploaded,
		"accepted", result.Accepted,
		"rejected", result.Rejected,
		"failed", result.Failed,
		"conflicts", result.Conflicts,
		"purged", result.Purged)
	return result, nil
}

func (e *Engine) attempt(ctx context.Context) (*Result, error) {
	if err := e.ensureRegistered(ctx); err != nil {
		return nil, err
	}

	// Шаг 2: полный снимок или дельта
	result := &Result{}
	cs, serverTime, err := e.fetch(ctx, result)
	if err != nil {
		return nil, err
	}
	result.ServerTime = serverTime

	// Шаги 3-6: классификация и применение одним пакетом
	up, err := e.reconcile(cs, serverTime, result)
	if err != nil {
		return nil, err
	}
	if up == nil {
		return result, nil
	}

	// Шаг 7: загрузка dirty-набора и разбор вердиктов
	if up.size() > 0 {
		result.Uploaded = up.size()
		resp, err := e.api.Submit(ctx, up.request)
		if err != nil {
			return nil, &TransportError{Op: "upload", Err: err}
		}
		if err := e.applyVerdicts(up, resp, result); err != nil {
			return nil, err
		}
	}

	e.retain(result)
	return result, nil
}

func (e *Engine) ensureRegistered(ctx context.Context) error {
	meta := e.store.Metadata()
	if meta.Registered {
		return nil
	}

	_, err := e.api.Register(ctx, api.RegisterRequest{ClientID: meta.ClientID, ClientName: meta.ClientName})
	if err != nil {
		return &TransportError{Op: "register", Err: err}
	}

	err = e.store.Update(func(tx *state.Tx) error {
		m := tx.Metadata()
		m.Registered = true
		tx.SetMetadata(m)
		return nil
	})
	if err != nil {
		return err
	}
	e.schedule(storage.KeyMetadata, e.store.EncodeMetadata)
	e.logger.Info("Client registered", "client_id", meta.ClientID)
	return nil
}

func (e *Engine) fetch(ctx context.Context, result *Result) (conflict.ChangeSet, string, error) {
	meta := e.store.Metadata()

	if meta.LastSyncTime == "" {
		result.Mode = ModeFull
		resp, err := e.api.FullSync(ctx)
		if err != nil {
			return conflict.ChangeSet{}, "", &TransportError{Op: "fetch", Err: err}
		}
		cs := e.changeSetFromAPI(resp.Config, resp.Days, nil)
		result.Pulled = len(cs.Trackers) + len(cs.Entries)
		return cs, resp.ServerTime, nil
	}

	result.Mode = ModeDelta
	resp, err := e.api.DeltaSync(ctx, meta.LastSyncTime, meta.ClientID)
	if err != nil {
		return conflict.ChangeSet{}, "", &TransportError{Op: "fetch", Err: err}
	}
	cs := e.changeSetFromAPI(resp.Config, resp.Days, resp.DeletedTrackers)
	result.Pulled = len(cs.Trackers) + len(cs.Entries) + len(cs.DeletedTrackers)
	return cs, resp.ServerTime, nil
}

// reconcile применяет удалённые изменения. Возвращает nil, если есть ожидающие
// конфликты и загрузка откладывается до их разрешения.
func (e *Engine) reconcile(cs conflict.ChangeSet, serverTime string, result *Result) (*upload, error) {
	var up *upload

	err := e.store.Update(func(tx *state.Tx) error {
		report := e.detector.Detect(cs, tx)

		// Шаг 4: автослияние применяется сразу
		for _, c := range report.AutoResolvable() {
			e.applyMerged(tx, c)
			result.AutoMerged++
		}

		// Шаг 5: остальные конфликты ждут пользователя
		for _, c := range report.NeedsUser() {
			if tx.AddConflict(c) {
				e.logger.Info("Conflict detected", "type", c.Type, "id", c.ID)
			}
		}

		if tx.PendingConflicts() > 0 {
			result.Conflicts = tx.PendingConflicts()
			return nil
		}

		// Шаг 6: принимаем безконфликтные изменения и сдвигаем время синхронизации
		result.Adopted = e.adopt(tx, report)

		m := tx.Metadata()
		m.LastSyncTime = serverTime
		tx.SetMetadata(m)

		up = e.collect(tx)
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.persistDataFirst()
	return up, nil
}

// applyMerged записывает результат автослияния. Отметка остаётся dirty с базой,
// равной серверной версии, и будет загружена в этой же или следующей попытке.
func (e *Engine) applyMerged(tx *state.Tx, c *models.Conflict) {
	merged := c.Merged.Clone()
	merged.LastModifiedAt = e.timestamp()
	merged.LastModifiedBy = tx.Metadata().ClientID
	merged.SetBase(c.ServerEntry.Version)
	tx.PutEntry(merged)
	tx.MarkEntryDirty(merged.Key)
	tx.RemoveConflict(c.Key())

	e.logger.Debug("Entry auto-merged", "key", c.ID, "server_version", c.ServerEntry.Version)
}

func (e *Engine) adopt(tx *state.Tx, report *conflict.Report) int {
	adopted := 0

	for _, d := range report.Trackers {
		if d.Verdict != conflict.Adopt {
			continue
		}
		// Версия записи никогда не уменьшается
		if d.Local != nil && d.Local.Version > d.Remote.Version {
			continue
		}
		tx.PutTracker(d.Remote)
		adopted++
	}

	for _, d := range report.Entries {
		if d.Verdict != conflict.Adopt {
			continue
		}
		if d.Local != nil && d.Local.Version > d.Remote.Version {
			continue
		}
		tx.PutEntry(d.Remote)
		adopted++
	}

	for _, d := range report.Deletions {
		if d.Verdict != conflict.Adopt {
			continue
		}
		t, ok := tx.Tracker(d.ID)
		if !ok || t.State == models.StatePurged {
			continue
		}
		purged := t.Clone()
		purged.State = models.StatePurged
		tx.PutTracker(purged)
		adopted++
	}

	return adopted
}

// collect снимает копию всего dirty-набора для загрузки
func (e *Engine) collect(tx *state.Tx) *upload {
	up := &upload{
		trackers: make(map[string]*models.Tracker),
		entries:  make(map[models.EntryKey]*models.Entry),
		marks:    tx.DirtyMarks(),
		request: api.SyncRequest{
			ClientID:     tx.Metadata().ClientID,
			LastSyncTime: tx.Metadata().LastSyncTime,
			Config:       []api.Tracker{},
			Days:         api.Days{},
		},
	}

	for _, id := range tx.DirtyTrackers() {
		t, ok := tx.Tracker(id)
		if !ok {
			// Трекер удалён до первой синхронизации, отправлять нечего
			tx.ForgetTracker(id)
			continue
		}
		up.trackers[id] = t.Clone()
		up.request.Config = append(up.request.Config, trackerToAPI(t))
	}

	for _, key := range tx.DirtyEntries() {
		en, ok := tx.Entry(key)
		if !ok {
			tx.ForgetEntry(key)
			continue
		}
		// Отметки удалённого трекера не отправляются; после подтверждения
		// удаления они больше не нужны и локально
		t, ok := tx.Tracker(key.TrackerID)
		if !ok || t.State == models.StatePurged {
			tx.RemoveEntry(key)
			tx.ForgetEntry(key)
			continue
		}
		if !t.State.IsLive() {
			continue
		}
		up.entries[key] = en.Clone()
		up.request.Days.Put(key.Date, key.TrackerID, entryToAPI(en))
	}

	return up
}

// applyVerdicts разбирает ответ сервера: принятые записи получают новую версию и
// перестают быть dirty, отклонённые превращаются в конфликты.
func (e *Engine) applyVerdicts(up *upload, resp *api.SyncResponse, result *Result) error {
	err := e.store.Update(func(tx *state.Tx) error {
		var trackerIDs []string
		var entryKeys []models.EntryKey

		for _, applied := range resp.AppliedConfig {
			sent, ok := up.trackers[applied.ID]
			if !ok {
				continue
			}
			if t, ok := tx.Tracker(applied.ID); ok {
				updated := t.Clone()
				updated.Version = applied.Version
				updated.BaseVersion = applied.Version
				updated.LastModifiedAt = applied.LastModifiedAt
				updated.LastModifiedBy = applied.LastModifiedBy
				if sent.State.Deleted() && updated.State == models.StatePendingDelete {
					updated.State = models.StatePurged
				}
				tx.PutTracker(updated)
			}
			trackerIDs = append(trackerIDs, applied.ID)
		}

		for date, trackers := range resp.AppliedDays {
			for trackerID, applied := range trackers {
				key := models.EntryKey{Date: date, TrackerID: trackerID}
				sent, ok := up.entries[key]
				if !ok {
					continue
				}
				if en, ok := tx.Entry(key); ok {
					updated := en.Clone()
					// База равна отправленному снимку: правка во время загрузки останется dirty
					base := sent.Clone()
					base.SetBase(applied.Version)
					updated.Version = applied.Version
					updated.BaseVersion = applied.Version
					updated.BaseValue = base.BaseValue
					updated.BaseCompleted = base.BaseCompleted
					updated.HasBase = true
					updated.LastModifiedAt = applied.LastModifiedAt
					updated.LastModifiedBy = applied.LastModifiedBy
					tx.PutEntry(updated)
				}
				entryKeys = append(entryKeys, key)
			}
		}

		result.Accepted = tx.ClearApplied(trackerIDs, entryKeys, up.marks)

		for _, info := range resp.Conflicts {
			result.Rejected++
			e.applyServerConflict(tx, info, result)
		}
		result.Conflicts = tx.PendingConflicts()

		// Несохранённые записи не приняты и не отклонены: они остаются dirty
		for _, f := range resp.Failed {
			result.Failed++
			e.logger.Warn("Server failed to store record", "type", f.EntityType, "id", f.EntityID, "error", f.Error)
		}

		return nil
	})
	if err != nil {
		return err
	}

	e.persistDataFirst()
	return nil
}

// applyServerConflict классифицирует запись, отклонённую сервером
func (e *Engine) applyServerConflict(tx *state.Tx, info api.ConflictInfo, result *Result) {
	serverTracker, serverEntry, err := serverSnapshot(info)
	if err != nil {
		e.logger.Warn("Ignoring malformed server conflict", "entity_id", info.EntityID, "error", err)
		return
	}

	var c *models.Conflict
	switch {
	case serverTracker != nil:
		local, ok := tx.Tracker(serverTracker.ID)
		if !ok {
			return
		}
		c = e.detector.TrackerConflict(local, serverTracker, models.SourceServer)
	case serverEntry != nil:
		local, ok := tx.Entry(serverEntry.Key)
		if !ok {
			return
		}
		c = e.detector.EntryConflict(local, serverEntry, models.SourceServer)
	}

	if c.AutoResolvable {
		e.applyMerged(tx, c)
		result.AutoMerged++
		return
	}

	if tx.AddConflict(c) {
		e.logger.Info("Server rejected stale write", "type", c.Type, "id", c.ID,
			"server_version", info.ServerVersion, "base_version", info.ClientBaseVersion)
	}
}

func (e *Engine) setSyncing(v bool) {
	_ = e.store.Update(func(tx *state.Tx) error {
		tx.SetSyncing(v)
		return nil
	})
}

func (e *Engine) finish(err error) {
	_ = e.store.Update(func(tx *state.Tx) error {
		tx.SetSyncing(false)
		if err != nil {
			tx.SetLastError(err.Error())
		} else {
			tx.SetLastError("")
		}
		return nil
	})
}

// IsTransport сообщает, что err сетевая или серверная ошибка синхронизации
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}
