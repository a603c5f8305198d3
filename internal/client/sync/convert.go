package sync

import (
	"encoding/json"
	"fmt"

	"github.com/iudanet/habitsync/internal/conflict"
	"github.com/iudanet/habitsync/internal/models"
	"github.com/iudanet/habitsync/pkg/api"
)

// trackerFromAPI конвертирует серверный трекер в модель.
// Удаление, пришедшее с сервера, уже подтверждено авторитетом, поэтому это Purged.
func trackerFromAPI(a api.Tracker) (*models.Tracker, error) {
	kind, err := models.ParseTrackerKind(a.Type)
	if err != nil {
		return nil, err
	}
	t := &models.Tracker{
		ID:             a.ID,
		Name:           a.Name,
		Category:       a.Category,
		Kind:           kind,
		Frequency:      a.Frequency,
		Meta:           a.Meta,
		Version:        a.Version,
		BaseVersion:    a.Version,
		LastModifiedAt: a.LastModifiedAt,
		LastModifiedBy: a.LastModifiedBy,
		State:          models.StateActive,
	}
	if a.Deleted {
		t.State = models.StatePurged
	}
	return t, nil
}

// trackerToAPI конвертирует локальный трекер для отправки на сервер
func trackerToAPI(t *models.Tracker) api.Tracker {
	return api.Tracker{
		ID:             t.ID,
		Name:           t.Name,
		Category:       t.Category,
		Type:           string(t.Kind),
		Frequency:      t.Frequency,
		Meta:           t.Meta,
		Version:        t.Version,
		BaseVersion:    t.BaseVersion,
		LastModifiedAt: t.LastModifiedAt,
		LastModifiedBy: t.LastModifiedBy,
		Deleted:        t.State.Deleted(),
	}
}

// entryFromAPI конвертирует серверную отметку; базовый снимок равен серверным значениям
func entryFromAPI(key models.EntryKey, a api.Entry) *models.Entry {
	e := &models.Entry{
		Key:            key,
		Value:          a.Value,
		Completed:      a.Completed,
		LastModifiedAt: a.LastModifiedAt,
		LastModifiedBy: a.LastModifiedBy,
	}
	e.SetBase(a.Version)
	return e
}

// entryToAPI конвертирует локальную отметку для отправки на сервер
func entryToAPI(e *models.Entry) api.Entry {
	return api.Entry{
		Value:          e.Value,
		Completed:      e.Completed,
		Version:        e.Version,
		BaseVersion:    e.BaseVersion,
		LastModifiedAt: e.LastModifiedAt,
		LastModifiedBy: e.LastModifiedBy,
	}
}

// changeSetFromAPI собирает удалённые изменения; записи с ошибками формата пропускаются
func (e *Engine) changeSetFromAPI(config []api.Tracker, days api.Days, deleted []string) conflict.ChangeSet {
	var cs conflict.ChangeSet
	for _, a := range config {
		t, err := trackerFromAPI(a)
		if err != nil {
			e.logger.Warn("Skipping malformed remote tracker", "tracker_id", a.ID, "error", err)
			continue
		}
		cs.Trackers = append(cs.Trackers, t)
	}
	for date, trackers := range days {
		for trackerID, a := range trackers {
			key := models.EntryKey{Date: date, TrackerID: trackerID}
			if _, err := models.ParseEntryKey(key.String()); err != nil {
				e.logger.Warn("Skipping malformed remote entry", "key", key.String(), "error", err)
				continue
			}
			cs.Entries = append(cs.Entries, entryFromAPI(key, a))
		}
	}
	cs.DeletedTrackers = deleted
	return cs
}

// serverSnapshot разбирает serverData конфликта, сообщённого сервером
func serverSnapshot(info api.ConflictInfo) (*models.Tracker, *models.Entry, error) {
	switch info.EntityType {
	case api.EntityTracker:
		var a api.Tracker
		if err := json.Unmarshal(info.ServerData, &a); err != nil {
			return nil, nil, fmt.Errorf("invalid tracker server data: %w", err)
		}
		if a.ID == "" {
			a.ID = info.EntityID
		}
		if a.Version == 0 {
			a.Version = info.ServerVersion
		}
		t, err := trackerFromAPI(a)
		if err != nil {
			return nil, nil, err
		}
		return t, nil, nil
	case api.EntityEntry:
		key, err := models.ParseEntryKey(info.EntityID)
		if err != nil {
			return nil, nil, err
		}
		var a api.Entry
		if err := json.Unmarshal(info.ServerData, &a); err != nil {
			return nil, nil, fmt.Errorf("invalid entry server data: %w", err)
		}
		if a.Version == 0 {
			a.Version = info.ServerVersion
		}
		return nil, entryFromAPI(key, a), nil
	default:
		return nil, nil, fmt.Errorf("unknown entity type %q", info.EntityType)
	}
}
