// Package dirty отслеживает записи с локальными изменениями, ещё не подтверждёнными сервером.
//
// Каждая пометка получает номер поколения. Снимок поколений берётся перед
// загрузкой на сервер, и ClearApplied снимает пометку только с тех принятых
// записей, которые не менялись после снимка: правка, сделанная во время
// загрузки, останется dirty до следующей синхронизации.
//
// Set не потокобезопасен; его владелец (state.Store) сериализует доступ.
package dirty

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/iudanet/habitsync/internal/models"
)

// Marks снимок поколений dirty-записей
type Marks struct {
	Trackers map[string]uint64
	Entries  map[models.EntryKey]uint64
}

// Set набор dirty-трекеров и dirty-отметок
type Set struct {
	trackers map[string]uint64
	entries  map[models.EntryKey]uint64
	gen      uint64
}

// New создает пустой набор
func New() *Set {
	return &Set{
		trackers: make(map[string]uint64),
		entries:  make(map[models.EntryKey]uint64),
	}
}

// MarkTracker помечает трекер как изменённый
func (s *Set) MarkTracker(id string) {
	s.gen++
	s.trackers[id] = s.gen
}

// MarkEntry помечает отметку как изменённую
func (s *Set) MarkEntry(key models.EntryKey) {
	s.gen++
	s.entries[key] = s.gen
}

// TrackerDirty сообщает, помечен ли трекер
func (s *Set) TrackerDirty(id string) bool {
	_, ok := s.trackers[id]
	return ok
}

// EntryDirty сообщает, помечена ли отметка
func (s *Set) EntryDirty(key models.EntryKey) bool {
	_, ok := s.entries[key]
	return ok
}

// Trackers возвращает отсортированный список dirty-трекеров
func (s *Set) Trackers() []string {
	ids := make([]string, 0, len(s.trackers))
	for id := range s.trackers {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Entries возвращает отсортированный список dirty-отметок
func (s *Set) Entries() []models.EntryKey {
	keys := make([]models.EntryKey, 0, len(s.entries))
	for key := range s.entries {
		keys = append(keys, key)
	}
	slices.SortFunc(keys, func(a, b models.EntryKey) int {
		return strings.Compare(a.String(), b.String())
	})
	return keys
}

// Counts возвращает количество dirty-трекеров и dirty-отметок
func (s *Set) Counts() (trackers, entries int) {
	return len(s.trackers), len(s.entries)
}

// Empty сообщает, что изменений нет
func (s *Set) Empty() bool {
	return len(s.trackers) == 0 && len(s.entries) == 0
}

// Snapshot возвращает текущие поколения всех пометок
func (s *Set) Snapshot() Marks {
	m := Marks{
		Trackers: make(map[string]uint64, len(s.trackers)),
		Entries:  make(map[models.EntryKey]uint64, len(s.entries)),
	}
	for id, g := range s.trackers {
		m.Trackers[id] = g
	}
	for key, g := range s.entries {
		m.Entries[key] = g
	}
	return m
}

// ClearApplied снимает пометки с записей, подтверждённых сервером.
// Записи, не вошедшие в списки (ошибка или не отправлялись), остаются dirty.
// Запись очищается, только если её поколение совпадает со снимком asOf.
// Возвращает количество снятых пометок.
func (s *Set) ClearApplied(trackers []string, entries []models.EntryKey, asOf Marks) int {
	cleared := 0
	for _, id := range trackers {
		if g, ok := s.trackers[id]; ok && g == asOf.Trackers[id] {
			delete(s.trackers, id)
			cleared++
		}
	}
	for _, key := range entries {
		if g, ok := s.entries[key]; ok && g == asOf.Entries[key] {
			delete(s.entries, key)
			cleared++
		}
	}
	return cleared
}

// ForgetTracker безусловно снимает пометку с трекера
func (s *Set) ForgetTracker(id string) {
	delete(s.trackers, id)
}

// ForgetEntry безусловно снимает пометку с отметки
func (s *Set) ForgetEntry(key models.EntryKey) {
	delete(s.entries, key)
}

// Clone создает независимую копию набора
func (s *Set) Clone() *Set {
	m := s.Snapshot()
	return &Set{trackers: m.Trackers, entries: m.Entries, gen: s.gen}
}

type wireSet struct {
	Trackers []string `json:"trackers"`
	Entries  []string `json:"entries"`
}

// MarshalJSON сохраняет только состав набора; поколения не переживают перезапуск
func (s *Set) MarshalJSON() ([]byte, error) {
	w := wireSet{Trackers: s.Trackers(), Entries: make([]string, 0, len(s.entries))}
	for _, key := range s.Entries() {
		w.Entries = append(w.Entries, key.String())
	}
	return json.Marshal(w)
}

// UnmarshalJSON восстанавливает набор
func (s *Set) UnmarshalJSON(data []byte) error {
	var w wireSet
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	restored := New()
	for _, id := range w.Trackers {
		restored.MarkTracker(id)
	}
	for _, raw := range w.Entries {
		key, err := models.ParseEntryKey(raw)
		if err != nil {
			return fmt.Errorf("invalid dirty entry: %w", err)
		}
		restored.MarkEntry(key)
	}

	*s = *restored
	return nil
}
