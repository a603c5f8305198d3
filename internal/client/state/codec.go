package state

import (
	"encoding/json"
	"fmt"

	"github.com/iudanet/habitsync/internal/client/dirty"
	"github.com/iudanet/habitsync/internal/models"
)

// persistedMeta формат ключа sync_metadata
type persistedMeta struct {
	Dirty *dirty.Set `json:"dirty"`
	Metadata
}

// EncodeConfig сериализует трекеры
func (s *Store) EncodeConfig() ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return json.Marshal(sortedTrackers(s.trackers))
}

// EncodeDays сериализует отметки в виде {date: {trackerId: entry}}
func (s *Store) EncodeDays() ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	days := make(map[string]map[string]*models.Entry)
	for key, e := range s.entries {
		day, ok := days[key.Date]
		if !ok {
			day = make(map[string]*models.Entry)
			days[key.Date] = day
		}
		day[key.TrackerID] = e
	}
	return json.Marshal(days)
}

// EncodeMetadata сериализует метаданные вместе с dirty-набором
func (s *Store) EncodeMetadata() ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return json.Marshal(persistedMeta{Metadata: s.meta, Dirty: s.dirty})
}

// Load заменяет состояние сохранёнными данными. Пустой срез означает отсутствие ключа.
// Ожидающие конфликты не сохраняются и после загрузки отсутствуют.
func (s *Store) Load(config, days, meta []byte) error {
	trackers := make(map[string]*models.Tracker)
	if len(config) > 0 {
		var list []*models.Tracker
		if err := json.Unmarshal(config, &list); err != nil {
			return fmt.Errorf("failed to decode config: %w", err)
		}
		for _, t := range list {
			trackers[t.ID] = t
		}
	}

	entries := make(map[models.EntryKey]*models.Entry)
	if len(days) > 0 {
		var nested map[string]map[string]*models.Entry
		if err := json.Unmarshal(days, &nested); err != nil {
			return fmt.Errorf("failed to decode days: %w", err)
		}
		for date, day := range nested {
			for trackerID, e := range day {
				e.Key = models.EntryKey{Date: date, TrackerID: trackerID}
				entries[e.Key] = e
			}
		}
	}

	pm := persistedMeta{Dirty: dirty.New()}
	if len(meta) > 0 {
		if err := json.Unmarshal(meta, &pm); err != nil {
			return fmt.Errorf("failed to decode metadata: %w", err)
		}
		if pm.Dirty == nil {
			pm.Dirty = dirty.New()
		}
	}

	s.mu.Lock()
	s.trackers = trackers
	s.entries = entries
	s.dirty = pm.Dirty
	s.meta = pm.Metadata
	s.conflicts = make(map[models.ConflictKey]*models.Conflict)
	s.order = nil
	s.syncing = false
	s.lastError = ""
	s.mu.Unlock()
	return nil
}
