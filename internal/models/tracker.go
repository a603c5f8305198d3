package models

import (
	"fmt"
	"maps"
)

// TrackerKind тип трекера
type TrackerKind string

const (
	KindSimple       TrackerKind = "simple"       // отметка выполнено/не выполнено
	KindQuantifiable TrackerKind = "quantifiable" // числовое значение
	KindEvaluation   TrackerKind = "evaluation"   // оценка по шкале
)

// ParseTrackerKind разбирает тип трекера. Пустая строка означает simple.
func ParseTrackerKind(s string) (TrackerKind, error) {
	switch TrackerKind(s) {
	case "":
		return KindSimple, nil
	case KindSimple, KindQuantifiable, KindEvaluation:
		return TrackerKind(s), nil
	default:
		return "", fmt.Errorf("unknown tracker kind %q", s)
	}
}

// TrackerState стадия жизненного цикла трекера.
// Удаление двухфазное: Active -> PendingDelete (локально, ждёт подтверждения сервера)
// -> Purged (сервер подтвердил, запись можно физически удалить).
type TrackerState int

const (
	StateActive TrackerState = iota
	StatePendingDelete
	StatePurged
)

func (s TrackerState) String() string {
	switch s {
	case StateActive:
		return "active"
	case StatePendingDelete:
		return "pending-delete"
	case StatePurged:
		return "purged"
	default:
		return fmt.Sprintf("TrackerState(%d)", int(s))
	}
}

// IsLive сообщает, должен ли трекер быть виден пользователю
func (s TrackerState) IsLive() bool {
	return s == StateActive
}

// Deleted сообщает, помечен ли трекер как удалённый (на проводе это флаг _deleted)
func (s TrackerState) Deleted() bool {
	return s != StateActive
}

// Tracker описывает отслеживаемую привычку и метаданные её версии.
type Tracker struct {
	Meta           map[string]string `json:"meta,omitempty"`
	ID             string            `json:"id"`
	Name           string            `json:"name"`
	Category       string            `json:"category"`
	Kind           TrackerKind       `json:"type"`
	Frequency      string            `json:"frequency,omitempty"`
	LastModifiedAt string            `json:"lastModifiedAt,omitempty"`
	LastModifiedBy string            `json:"lastModifiedBy,omitempty"`
	Version        int64             `json:"version"`     // назначается только сервером; 0 = ещё не синхронизирован
	BaseVersion    int64             `json:"baseVersion"` // последняя версия, подтверждённая этому клиенту
	State          TrackerState      `json:"state"`
}

// Clone создает глубокую копию трекера
func (t *Tracker) Clone() *Tracker {
	if t == nil {
		return nil
	}
	c := *t
	c.Meta = maps.Clone(t.Meta)
	return &c
}

// SameFields сравнивает пользовательские поля трекера, игнорируя версии
func (t *Tracker) SameFields(other *Tracker) bool {
	if t == nil || other == nil {
		return t == other
	}
	return t.ID == other.ID &&
		t.Name == other.Name &&
		t.Category == other.Category &&
		t.Kind == other.Kind &&
		t.Frequency == other.Frequency &&
		t.State.Deleted() == other.State.Deleted() &&
		maps.Equal(t.Meta, other.Meta)
}
