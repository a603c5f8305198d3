// Package conflict классифицирует удалённые изменения относительно локального состояния.
//
// Конфликт существует только если запись локально помечена как изменённая (dirty)
// и удалённая версия больше базовой версии, которую видел клиент. Детектор
// ничего не изменяет: он возвращает отчёт, который применяет оркестратор.
package conflict

import (
	"time"

	"github.com/iudanet/habitsync/internal/merge"
	"github.com/iudanet/habitsync/internal/models"
)

// Verdict решение по одной удалённой записи
type Verdict int

const (
	// Adopt запись локально не изменялась, удалённое значение принимается
	Adopt Verdict = iota
	// Stale запись изменена локально, но удалённая версия не новее базовой
	Stale
	// Conflict запись изменена локально и на сервере есть более новая версия
	Conflict
)

func (v Verdict) String() string {
	switch v {
	case Adopt:
		return "adopt"
	case Stale:
		return "stale"
	case Conflict:
		return "conflict"
	default:
		return "unknown"
	}
}

// ChangeSet удалённые изменения, полученные полной или дельта-синхронизацией
type ChangeSet struct {
	Trackers        []*models.Tracker
	Entries         []*models.Entry
	DeletedTrackers []string
}

// Empty сообщает, что изменений нет
func (c ChangeSet) Empty() bool {
	return len(c.Trackers) == 0 && len(c.Entries) == 0 && len(c.DeletedTrackers) == 0
}

// View доступ только на чтение к локальному состоянию клиента
type View interface {
	Tracker(id string) (*models.Tracker, bool)
	Entry(key models.EntryKey) (*models.Entry, bool)
	TrackerDirty(id string) bool
	EntryDirty(key models.EntryKey) bool
}

// TrackerDecision решение по удалённому трекеру
type TrackerDecision struct {
	Remote  *models.Tracker
	Local   *models.Tracker
	Verdict Verdict
}

// EntryDecision решение по удалённой отметке
type EntryDecision struct {
	Remote  *models.Entry
	Local   *models.Entry
	Verdict Verdict
}

// DeletionDecision решение по трекеру, удалённому на сервере
type DeletionDecision struct {
	ID      string
	Verdict Verdict
}

// Report результат классификации
type Report struct {
	Trackers  []TrackerDecision
	Entries   []EntryDecision
	Deletions []DeletionDecision
	Conflicts []*models.Conflict
}

// AutoResolvable возвращает конфликты, которые можно слить автоматически
func (r *Report) AutoResolvable() []*models.Conflict {
	var out []*models.Conflict
	for _, c := range r.Conflicts {
		if c.AutoResolvable {
			out = append(out, c)
		}
	}
	return out
}

// NeedsUser возвращает конфликты, требующие решения пользователя
func (r *Report) NeedsUser() []*models.Conflict {
	var out []*models.Conflict
	for _, c := range r.Conflicts {
		if !c.AutoResolvable {
			out = append(out, c)
		}
	}
	return out
}

// Detector классифицирует удалённые изменения
type Detector struct {
	now func() time.Time
}

// NewDetector создает детектор; now используется для отметки времени конфликтов
func NewDetector(now func() time.Time) *Detector {
	if now == nil {
		now = time.Now
	}
	return &Detector{now: now}
}

// Detect сопоставляет удалённые изменения с локальным состоянием
func (d *Detector) Detect(remote ChangeSet, local View) *Report {
	report := &Report{}

	for _, rt := range remote.Trackers {
		lt, _ := local.Tracker(rt.ID)
		verdict := classify(local.TrackerDirty(rt.ID), lt != nil, rt.Version, baseOfTracker(lt))
		report.Trackers = append(report.Trackers, TrackerDecision{Remote: rt, Local: lt, Verdict: verdict})
		if verdict == Conflict {
			report.Conflicts = append(report.Conflicts, d.TrackerConflict(lt, rt, models.SourceDetected))
		}
	}

	for _, re := range remote.Entries {
		le, _ := local.Entry(re.Key)
		verdict := classify(local.EntryDirty(re.Key), le != nil, re.Version, baseOfEntry(le))
		report.Entries = append(report.Entries, EntryDecision{Remote: re, Local: le, Verdict: verdict})
		if verdict == Conflict {
			report.Conflicts = append(report.Conflicts, d.EntryConflict(le, re, models.SourceDetected))
		}
	}

	for _, id := range remote.DeletedTrackers {
		// Версия удаления в дельте не передаётся: при локальных правках оставляем
		// локальную копию, сервер отклонит её загрузку и вернёт конфликт со своим снимком.
		verdict := Adopt
		if local.TrackerDirty(id) {
			verdict = Stale
		}
		report.Deletions = append(report.Deletions, DeletionDecision{ID: id, Verdict: verdict})
	}

	return report
}

// TrackerConflict строит конфликт трекера. Трекеры никогда не сливаются автоматически.
func (d *Detector) TrackerConflict(local, server *models.Tracker, source models.ConflictSource) *models.Conflict {
	_, ok := merge.MergeTracker(local, server)
	return &models.Conflict{
		Type:           models.EntityTracker,
		ID:             server.ID,
		LocalTracker:   local.Clone(),
		ServerTracker:  server.Clone(),
		AutoResolvable: ok,
		Source:         source,
		DetectedAt:     d.now(),
	}
}

// EntryConflict строит конфликт отметки и прикладывает результат автослияния
func (d *Detector) EntryConflict(local, server *models.Entry, source models.ConflictSource) *models.Conflict {
	merged, ok := merge.MergeEntry(local, server)
	return &models.Conflict{
		Type:           models.EntityEntry,
		ID:             server.Key.String(),
		LocalEntry:     local.Clone(),
		ServerEntry:    server.Clone(),
		Merged:         merged,
		AutoResolvable: ok,
		Source:         source,
		DetectedAt:     d.now(),
	}
}

func classify(dirty, hasLocal bool, remoteVersion, baseVersion int64) Verdict {
	if !dirty || !hasLocal {
		return Adopt
	}
	if remoteVersion > baseVersion {
		return Conflict
	}
	return Stale
}

func baseOfTracker(t *models.Tracker) int64 {
	if t == nil {
		return 0
	}
	return t.BaseVersion
}

func baseOfEntry(e *models.Entry) int64 {
	if e == nil {
		return 0
	}
	return e.BaseVersion
}
