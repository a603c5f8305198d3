// Package state хранит рабочее состояние клиента: трекеры, отметки, dirty-набор,
// ожидающие конфликты и метаданные синхронизации.
//
// Все изменения выполняются пакетом внутри Update под одной блокировкой;
// наблюдатели видят только согласованное состояние после фиксации пакета и
// получают описание того, что изменилось.
package state

import (
	"slices"
	"strings"
	"sync"

	"github.com/iudanet/habitsync/internal/client/dirty"
	"github.com/iudanet/habitsync/internal/models"
)

// Status наблюдаемый статус синхронизации
type Status string

const (
	StatusNoData       Status = "no-data"
	StatusDirty        Status = "dirty"
	StatusSyncing      Status = "syncing"
	StatusHasConflicts Status = "has-conflicts"
	StatusSynced       Status = "synced"
)

// Metadata метаданные синхронизации, принадлежащие одному движку
type Metadata struct {
	ClientID     string `json:"clientId"`
	ClientName   string `json:"clientName,omitempty"`
	LastSyncTime string `json:"lastSyncTime,omitempty"`
	Registered   bool   `json:"registered"`
}

// Change описывает зафиксированный пакет изменений
type Change struct {
	Trackers  []string
	Entries   []models.EntryKey
	Status    Status
	Dirty     bool
	Conflicts bool
	Meta      bool
}

// Empty сообщает, что пакет ничего не изменил
func (c Change) Empty() bool {
	return len(c.Trackers) == 0 && len(c.Entries) == 0 && !c.Dirty && !c.Conflicts && !c.Meta
}

// Store контейнер состояния клиента
type Store struct {
	trackers  map[string]*models.Tracker
	entries   map[models.EntryKey]*models.Entry
	conflicts map[models.ConflictKey]*models.Conflict
	subs      map[int]chan Change
	dirty     *dirty.Set
	meta      Metadata
	lastError string
	order     []models.ConflictKey
	nextSub   int
	mu        sync.RWMutex
	subMu     sync.RWMutex // защищает subs; отправка и закрытие каналов идут под ним
	syncing   bool
}

// New создает пустое состояние
func New() *Store {
	return &Store{
		trackers:  make(map[string]*models.Tracker),
		entries:   make(map[models.EntryKey]*models.Entry),
		conflicts: make(map[models.ConflictKey]*models.Conflict),
		subs:      make(map[int]chan Change),
		dirty:     dirty.New(),
	}
}

// Update выполняет fn как единый пакет изменений.
// Если fn вернула ошибку, состояние откатывается к виду до вызова.
func (s *Store) Update(fn func(tx *Tx) error) error {
	s.mu.Lock()

	backup := s.backup()
	before := s.statusLocked()
	tx := &Tx{s: s, trackers: map[string]struct{}{}, entries: map[models.EntryKey]struct{}{}}

	if err := fn(tx); err != nil {
		s.restore(backup)
		s.mu.Unlock()
		return err
	}

	change := tx.change()
	if after := s.statusLocked(); after != before {
		change.Status = after
	}
	s.mu.Unlock()

	if !change.Empty() || change.Status != "" {
		s.notify(change)
	}
	return nil
}

// Subscribe подписывает на изменения. Медленный подписчик пропускает события,
// которые не поместились в буфер. cancel отписывает и закрывает канал.
func (s *Store) Subscribe(buffer int) (<-chan Change, func()) {
	if buffer < 1 {
		buffer = 1
	}
	ch := make(chan Change, buffer)

	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch
	s.subMu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.subMu.Lock()
			defer s.subMu.Unlock()
			delete(s.subs, id)
			close(ch)
		})
	}
}

// Status возвращает текущий статус синхронизации
func (s *Store) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.statusLocked()
}

// LastError возвращает текст последней ошибки синхронизации
func (s *Store) LastError() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastError
}

// Metadata возвращает копию метаданных
func (s *Store) Metadata() Metadata {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.meta
}

// Tracker возвращает копию трекера
func (s *Store) Tracker(id string) (*models.Tracker, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.trackers[id]
	return t.Clone(), ok
}

// Trackers возвращает копии всех трекеров, отсортированные по id
func (s *Store) Trackers() []*models.Tracker {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedTrackers(s.trackers)
}

// Entry возвращает копию отметки
func (s *Store) Entry(key models.EntryKey) (*models.Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[key]
	return e.Clone(), ok
}

// Entries возвращает копии всех отметок, отсортированные по ключу
func (s *Store) Entries() []*models.Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedEntries(s.entries)
}

// Conflicts возвращает ожидающие конфликты в порядке обнаружения
func (s *Store) Conflicts() []*models.Conflict {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.conflictsLocked()
}

// DirtyCounts возвращает количество dirty-трекеров и dirty-отметок
func (s *Store) DirtyCounts() (trackers, entries int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dirty.Counts()
}

func (s *Store) statusLocked() Status {
	switch {
	case s.syncing:
		return StatusSyncing
	case len(s.conflicts) > 0:
		return StatusHasConflicts
	case !s.dirty.Empty():
		return StatusDirty
	case s.meta.LastSyncTime == "":
		return StatusNoData
	default:
		return StatusSynced
	}
}

func (s *Store) conflictsLocked() []*models.Conflict {
	out := make([]*models.Conflict, 0, len(s.order))
	for _, key := range s.order {
		c := *s.conflicts[key]
		out = append(out, &c)
	}
	return out
}

// notify рассылает изменение без блокировки. Отписка ждёт окончания рассылки,
// поэтому закрытый канал здесь не встречается.
func (s *Store) notify(change Change) {
	s.subMu.RLock()
	defer s.subMu.RUnlock()

	for _, ch := range s.subs {
		select {
		case ch <- change:
		default:
		}
	}
}

type snapshot struct {
	trackers  map[string]*models.Tracker
	entries   map[models.EntryKey]*models.Entry
	conflicts map[models.ConflictKey]*models.Conflict
	dirty     *dirty.Set
	meta      Metadata
	lastError string
	order     []models.ConflictKey
	syncing   bool
}

// Записи внутри карт не изменяются на месте, поэтому достаточно копии карт.
func (s *Store) backup() snapshot {
	b := snapshot{
		trackers:  make(map[string]*models.Tracker, len(s.trackers)),
		entries:   make(map[models.EntryKey]*models.Entry, len(s.entries)),
		conflicts: make(map[models.ConflictKey]*models.Conflict, len(s.conflicts)),
		dirty:     s.dirty.Clone(),
		meta:      s.meta,
		lastError: s.lastError,
		order:     slices.Clone(s.order),
		syncing:   s.syncing,
	}
	for k, v := range s.trackers {
		b.trackers[k] = v
	}
	for k, v := range s.entries {
		b.entries[k] = v
	}
	for k, v := range s.conflicts {
		b.conflicts[k] = v
	}
	return b
}

func (s *Store) restore(b snapshot) {
	s.trackers = b.trackers
	s.entries = b.entries
	s.conflicts = b.conflicts
	s.dirty = b.dirty
	s.meta = b.meta
	s.lastError = b.lastError
	s.order = b.order
	s.syncing = b.syncing
}

func sortedTrackers(m map[string]*models.Tracker) []*models.Tracker {
	out := make([]*models.Tracker, 0, len(m))
	for _, t := range m {
		out = append(out, t.Clone())
	}
	slices.SortFunc(out, func(a, b *models.Tracker) int {
		return strings.Compare(a.ID, b.ID)
	})
	return out
}

func sortedEntries(m map[models.EntryKey]*models.Entry) []*models.Entry {
	out := make([]*models.Entry, 0, len(m))
	for _, e := range m {
		out = append(out, e.Clone())
	}
	slices.SortFunc(out, func(a, b *models.Entry) int {
		return strings.Compare(a.Key.String(), b.Key.String())
	})
	return out
}
