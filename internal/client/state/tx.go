package state

import (
	"slices"
	"strings"

	"github.com/iudanet/habitsync/internal/client/dirty"
	"github.com/iudanet/habitsync/internal/models"
)

// Tx пакет изменений внутри Store.Update.
// Tx реализует conflict.View, поэтому детектор видит состояние внутри того же пакета.
// Tx нельзя использовать после возврата из Update.
type Tx struct {
	s         *Store
	trackers  map[string]struct{}
	entries   map[models.EntryKey]struct{}
	dirty     bool
	conflicts bool
	meta      bool
}

// Tracker возвращает трекер; результат нельзя изменять, используйте PutTracker
func (tx *Tx) Tracker(id string) (*models.Tracker, bool) {
	t, ok := tx.s.trackers[id]
	return t, ok
}

// Entry возвращает отметку; результат нельзя изменять, используйте PutEntry
func (tx *Tx) Entry(key models.EntryKey) (*models.Entry, bool) {
	e, ok := tx.s.entries[key]
	return e, ok
}

// Trackers возвращает копии всех трекеров
func (tx *Tx) Trackers() []*models.Tracker {
	return sortedTrackers(tx.s.trackers)
}

// Entries возвращает копии всех отметок
func (tx *Tx) Entries() []*models.Entry {
	return sortedEntries(tx.s.entries)
}

// PutTracker сохраняет копию трекера
func (tx *Tx) PutTracker(t *models.Tracker) {
	tx.s.trackers[t.ID] = t.Clone()
	tx.trackers[t.ID] = struct{}{}
}

// RemoveTracker физически удаляет трекер из локального состояния
func (tx *Tx) RemoveTracker(id string) {
	if _, ok := tx.s.trackers[id]; !ok {
		return
	}
	delete(tx.s.trackers, id)
	tx.trackers[id] = struct{}{}
}

// PutEntry сохраняет копию отметки
func (tx *Tx) PutEntry(e *models.Entry) {
	tx.s.entries[e.Key] = e.Clone()
	tx.entries[e.Key] = struct{}{}
}

// RemoveEntry удаляет отметку из локального журнала
func (tx *Tx) RemoveEntry(key models.EntryKey) {
	if _, ok := tx.s.entries[key]; !ok {
		return
	}
	delete(tx.s.entries, key)
	tx.entries[key] = struct{}{}
}

// TrackerDirty сообщает, помечен ли трекер
func (tx *Tx) TrackerDirty(id string) bool {
	return tx.s.dirty.TrackerDirty(id)
}

// EntryDirty сообщает, помечена ли отметка
func (tx *Tx) EntryDirty(key models.EntryKey) bool {
	return tx.s.dirty.EntryDirty(key)
}

// MarkTrackerDirty помечает трекер изменённым
func (tx *Tx) MarkTrackerDirty(id string) {
	tx.s.dirty.MarkTracker(id)
	tx.dirty = true
}

// MarkEntryDirty помечает отметку изменённой
func (tx *Tx) MarkEntryDirty(key models.EntryKey) {
	tx.s.dirty.MarkEntry(key)
	tx.dirty = true
}

// DirtyTrackers возвращает dirty-трекеры
func (tx *Tx) DirtyTrackers() []string {
	return tx.s.dirty.Trackers()
}

// DirtyEntries возвращает dirty-отметки
func (tx *Tx) DirtyEntries() []models.EntryKey {
	return tx.s.dirty.Entries()
}

// DirtyMarks возвращает снимок поколений dirty-набора
func (tx *Tx) DirtyMarks() dirty.Marks {
	return tx.s.dirty.Snapshot()
}

// ClearApplied снимает пометки с принятых сервером записей
func (tx *Tx) ClearApplied(trackers []string, entries []models.EntryKey, asOf dirty.Marks) int {
	n := tx.s.dirty.ClearApplied(trackers, entries, asOf)
	if n > 0 {
		tx.dirty = true
	}
	return n
}

// ForgetTracker снимает пометку с трекера
func (tx *Tx) ForgetTracker(id string) {
	if tx.s.dirty.TrackerDirty(id) {
		tx.s.dirty.ForgetTracker(id)
		tx.dirty = true
	}
}

// ForgetEntry снимает пометку с отметки
func (tx *Tx) ForgetEntry(key models.EntryKey) {
	if tx.s.dirty.EntryDirty(key) {
		tx.s.dirty.ForgetEntry(key)
		tx.dirty = true
	}
}

// AddConflict добавляет ожидающий конфликт. Существующий конфликт той же записи
// заменяется новым снимком без изменения позиции. Возвращает true, если конфликт новый.
func (tx *Tx) AddConflict(c *models.Conflict) bool {
	key := c.Key()
	_, exists := tx.s.conflicts[key]
	tx.s.conflicts[key] = c
	if !exists {
		tx.s.order = append(tx.s.order, key)
	}
	tx.conflicts = true
	return !exists
}

// Conflict возвращает ожидающий конфликт по ключу
func (tx *Tx) Conflict(key models.ConflictKey) (*models.Conflict, bool) {
	c, ok := tx.s.conflicts[key]
	return c, ok
}

// RemoveConflict удаляет ожидающий конфликт
func (tx *Tx) RemoveConflict(key models.ConflictKey) {
	if _, ok := tx.s.conflicts[key]; !ok {
		return
	}
	delete(tx.s.conflicts, key)
	tx.s.order = slices.DeleteFunc(tx.s.order, func(k models.ConflictKey) bool { return k == key })
	tx.conflicts = true
}

// Conflicts возвращает ожидающие конфликты в порядке обнаружения
func (tx *Tx) Conflicts() []*models.Conflict {
	return tx.s.conflictsLocked()
}

// PendingConflicts возвращает количество ожидающих конфликтов
func (tx *Tx) PendingConflicts() int {
	return len(tx.s.conflicts)
}

// Metadata возвращает метаданные синхронизации
func (tx *Tx) Metadata() Metadata {
	return tx.s.meta
}

// SetMetadata заменяет метаданные синхронизации
func (tx *Tx) SetMetadata(m Metadata) {
	if m != tx.s.meta {
		tx.s.meta = m
		tx.meta = true
	}
}

// SetSyncing отмечает начало или конец попытки синхронизации
func (tx *Tx) SetSyncing(v bool) {
	tx.s.syncing = v
}

// SetLastError запоминает ошибку последней попытки; пустая строка сбрасывает её
func (tx *Tx) SetLastError(msg string) {
	tx.s.lastError = msg
}

func (tx *Tx) change() Change {
	c := Change{Dirty: tx.dirty, Conflicts: tx.conflicts, Meta: tx.meta}
	for id := range tx.trackers {
		c.Trackers = append(c.Trackers, id)
	}
	slices.Sort(c.Trackers)
	for key := range tx.entries {
		c.Entries = append(c.Entries, key)
	}
	slices.SortFunc(c.Entries, func(a, b models.EntryKey) int {
		return strings.Compare(a.String(), b.String())
	})
	return c
}
