package arbiter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/iudanet/habitsync/internal/models"
	"github.com/iudanet/habitsync/internal/server/storage"
	"github.com/iudanet/habitsync/internal/validation"
	"github.com/iudanet/habitsync/pkg/api"
)

// Submit применяет пакет изменений клиента.
// Для каждой записи сравнивается baseVersion клиента с версией на сервере:
// если сервер ушел вперед, запись отклоняется и попадает в Conflicts и журнал,
// иначе версия увеличивается на 1. Остальные записи пакета обрабатываются независимо.
func (a *Arbiter) Submit(ctx context.Context, req *api.SyncRequest) (*api.SyncResponse, error) {
	if err := validateBatch(req); err != nil {
		return nil, err
	}

	if err := a.store.TouchClient(ctx, req.ClientID, defaultClientName(req.ClientID), a.clock.Tick()); err != nil {
		return nil, err
	}

	resp := &api.SyncResponse{
		AppliedConfig: []api.AppliedTracker{},
		AppliedDays:   api.Days{},
		Conflicts:     []api.ConflictInfo{},
	}

	for _, t := range req.Config {
		applied, conflict, err := a.submitTracker(ctx, req.ClientID, t)
		if err != nil {
			resp.Failed = append(resp.Failed, a.failRecord(req.ClientID, api.EntityTracker, t.ID, err))
			continue
		}
		if conflict != nil {
			resp.Conflicts = append(resp.Conflicts, *conflict)
			continue
		}
		resp.AppliedConfig = append(resp.AppliedConfig, *applied)
		resp.LastModified = max(resp.LastModified, applied.LastModifiedAt)
	}

	for _, key := range sortedKeys(req.Days) {
		applied, conflict, err := a.submitEntry(ctx, req.ClientID, key, req.Days[key.Date][key.TrackerID])
		if err != nil {
			resp.Failed = append(resp.Failed, a.failRecord(req.ClientID, api.EntityEntry, key.String(), err))
			continue
		}
		if conflict != nil {
			resp.Conflicts = append(resp.Conflicts, *conflict)
			continue
		}
		resp.AppliedDays.Put(key.Date, key.TrackerID, *applied)
		resp.LastModified = max(resp.LastModified, applied.LastModifiedAt)
	}

	resp.Success = len(resp.Conflicts) == 0 && len(resp.Failed) == 0
	a.notify(req.ClientID, resp.LastModified)

	a.logger.Info("Submit processed",
		"client_id", req.ClientID,
		"applied_trackers", len(resp.AppliedConfig),
		"applied_entries", resp.AppliedDays.Len(),
		"conflicts", len(resp.Conflicts),
		"failed", len(resp.Failed))

	return resp, nil
}

// failRecord описывает запись, транзакция которой не удалась. Принятые ранее
// записи пакета уже закоммичены, поэтому пакет целиком не отклоняется.
func (a *Arbiter) failRecord(clientID, entityType, entityID string, err error) api.FailedRecord {
	a.logger.Error("Failed to store record",
		"client_id", clientID,
		"entity_type", entityType,
		"entity_id", entityID,
		"error", err)
	return api.FailedRecord{EntityType: entityType, EntityID: entityID, Error: "failed to store record"}
}

// submitTracker проверяет и записывает один трекер под его мьютексом
func (a *Arbiter) submitTracker(ctx context.Context, clientID string, t api.Tracker) (*api.AppliedTracker, *api.ConflictInfo, error) {
	unlock := a.locks.Lock(trackerKey(t.ID))
	defer unlock()

	stamp := a.marks.begin()
	defer a.marks.done(stamp)

	var (
		applied  *api.AppliedTracker
		conflict *api.ConflictInfo
	)
	err := a.store.WithinTx(ctx, func(tx storage.RecordTx) error {
		current, err := tx.GetTracker(ctx, t.ID)
		if err != nil && !errors.Is(err, storage.ErrTrackerNotFound) {
			return err
		}

		if current != nil && current.Version > t.BaseVersion {
			conflict, err = a.rejectTracker(ctx, tx, clientID, t, current, stamp)
			return err
		}

		var next *storage.Tracker
		switch {
		case t.Deleted && current != nil:
			// удаление сохраняет последние описательные поля трекера
			next = current
			next.Deleted = true
			next.Version = current.Version + 1
			next.LastModifiedBy = clientID
			next.LastModifiedAt = stamp
		case current != nil:
			next = trackerFromAPI(t, current.Version+1, clientID, stamp)
		default:
			next = trackerFromAPI(t, 1, clientID, stamp)
		}

		if err := tx.PutTracker(ctx, next); err != nil {
			return err
		}
		if _, err := tx.CloseConflicts(ctx, api.EntityTracker, t.ID, clientID, storage.ResolutionSuperseded, stamp); err != nil {
			return err
		}
		if err := tx.SetLastModified(ctx, stamp); err != nil {
			return err
		}

		applied = &api.AppliedTracker{
			ID:             next.ID,
			Version:        next.Version,
			LastModifiedBy: clientID,
			LastModifiedAt: stamp,
			Deleted:        next.Deleted,
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	if conflict != nil {
		a.logger.Debug("Tracker write rejected",
			"client_id", clientID,
			"tracker_id", t.ID,
			"base_version", t.BaseVersion,
			"server_version", conflict.ServerVersion)
	}

	return applied, conflict, nil
}

func (a *Arbiter) rejectTracker(ctx context.Context, tx storage.RecordTx, clientID string, t api.Tracker, current *storage.Tracker, stamp string) (*api.ConflictInfo, error) {
	serverData, err := json.Marshal(trackerToAPI(current))
	if err != nil {
		return nil, fmt.Errorf("failed to encode server data: %w", err)
	}
	clientData, err := json.Marshal(t)
	if err != nil {
		return nil, fmt.Errorf("failed to encode client data: %w", err)
	}

	_, err = tx.LogConflict(ctx, &storage.Conflict{
		EntityType:        api.EntityTracker,
		EntityID:          t.ID,
		ClientID:          clientID,
		ClientData:        clientData,
		ServerData:        serverData,
		ServerVersion:     current.Version,
		ClientBaseVersion: t.BaseVersion,
		CreatedAt:         stamp,
	})
	if err != nil {
		return nil, err
	}

	return &api.ConflictInfo{
		EntityType:        api.EntityTracker,
		EntityID:          t.ID,
		ServerData:        serverData,
		ServerVersion:     current.Version,
		ClientBaseVersion: t.BaseVersion,
	}, nil
}

// submitEntry проверяет и записывает одну отметку под ее мьютексом
func (a *Arbiter) submitEntry(ctx context.Context, clientID string, key models.EntryKey, e api.Entry) (*api.Entry, *api.ConflictInfo, error) {
	unlock := a.locks.Lock(entryKey(key.Date, key.TrackerID))
	defer unlock()

	stamp := a.marks.begin()
	defer a.marks.done(stamp)

	var (
		applied  *api.Entry
		conflict *api.ConflictInfo
	)
	err := a.store.WithinTx(ctx, func(tx storage.RecordTx) error {
		current, err := tx.GetEntry(ctx, key.Date, key.TrackerID)
		if err != nil && !errors.Is(err, storage.ErrEntryNotFound) {
			return err
		}

		if current != nil && current.Version > e.BaseVersion {
			conflict, err = a.rejectEntry(ctx, tx, clientID, key, e, current, stamp)
			return err
		}

		version := int64(1)
		if current != nil {
			version = current.Version + 1
		}
		next := entryFromAPI(key, e, version, clientID, stamp)

		if err := tx.PutEntry(ctx, next); err != nil {
			return err
		}
		if _, err := tx.CloseConflicts(ctx, api.EntityEntry, key.String(), clientID, storage.ResolutionSuperseded, stamp); err != nil {
			return err
		}
		if err := tx.SetLastModified(ctx, stamp); err != nil {
			return err
		}

		out := entryToAPI(next)
		applied = &out
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	if conflict != nil {
		a.logger.Debug("Entry write rejected",
			"client_id", clientID,
			"key", key.String(),
			"base_version", e.BaseVersion,
			"server_version", conflict.ServerVersion)
	}

	return applied, conflict, nil
}

func (a *Arbiter) rejectEntry(ctx context.Context, tx storage.RecordTx, clientID string, key models.EntryKey, e api.Entry, current *storage.Entry, stamp string) (*api.ConflictInfo, error) {
	serverData, err := json.Marshal(entryToAPI(current))
	if err != nil {
		return nil, fmt.Errorf("failed to encode server data: %w", err)
	}
	clientData, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("failed to encode client data: %w", err)
	}

	_, err = tx.LogConflict(ctx, &storage.Conflict{
		EntityType:        api.EntityEntry,
		EntityID:          key.String(),
		ClientID:          clientID,
		ClientData:        clientData,
		ServerData:        serverData,
		ServerVersion:     current.Version,
		ClientBaseVersion: e.BaseVersion,
		CreatedAt:         stamp,
	})
	if err != nil {
		return nil, err
	}

	return &api.ConflictInfo{
		EntityType:        api.EntityEntry,
		EntityID:          key.String(),
		ServerData:        serverData,
		ServerVersion:     current.Version,
		ClientBaseVersion: e.BaseVersion,
	}, nil
}

// validateBatch проверяет идентификаторы и даты всего пакета до первой записи
func validateBatch(req *api.SyncRequest) error {
	if err := validation.ValidateID("client", req.ClientID); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}

	seen := make(map[string]struct{}, len(req.Config))
	for _, t := range req.Config {
		if err := validation.ValidateID("tracker", t.ID); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidRequest, err)
		}
		if _, err := models.ParseTrackerKind(t.Type); err != nil {
			return fmt.Errorf("%w: tracker %s: %w", ErrInvalidRequest, t.ID, err)
		}
		if t.BaseVersion < 0 {
			return fmt.Errorf("%w: tracker %s: negative base version", ErrInvalidRequest, t.ID)
		}
		if _, dup := seen[t.ID]; dup {
			return fmt.Errorf("%w: tracker %s submitted twice", ErrInvalidRequest, t.ID)
		}
		seen[t.ID] = struct{}{}
	}

	for date, trackers := range req.Days {
		if err := validation.ValidateDate(date); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidRequest, err)
		}
		for trackerID, e := range trackers {
			if err := validation.ValidateID("tracker", trackerID); err != nil {
				return fmt.Errorf("%w: entry %s: %w", ErrInvalidRequest, date, err)
			}
			if e.BaseVersion < 0 {
				return fmt.Errorf("%w: entry %s|%s: negative base version", ErrInvalidRequest, date, trackerID)
			}
		}
	}

	return nil
}

// sortedKeys возвращает ключи отметок в детерминированном порядке
func sortedKeys(days api.Days) []models.EntryKey {
	keys := make([]models.EntryKey, 0, days.Len())
	for date, trackers := range days {
		for trackerID := range trackers {
			keys = append(keys, models.EntryKey{Date: date, TrackerID: trackerID})
		}
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Date != keys[j].Date {
			return keys[i].Date < keys[j].Date
		}
		return keys[i].TrackerID < keys[j].TrackerID
	})
	return keys
}
