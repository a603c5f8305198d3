package models

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout формат даты отметки
const DateLayout = "2006-01-02"

// EntryKey составной идентификатор отметки: одна отметка на трекер в день.
type EntryKey struct {
	Date      string
	TrackerID string
}

// String возвращает ключ в формате "date|trackerId"
func (k EntryKey) String() string {
	return k.Date + "|" + k.TrackerID
}

// ParseEntryKey разбирает ключ формата "date|trackerId"
func ParseEntryKey(s string) (EntryKey, error) {
	date, trackerID, ok := strings.Cut(s, "|")
	if !ok || date == "" || trackerID == "" {
		return EntryKey{}, fmt.Errorf("invalid entry key %q", s)
	}
	if _, err := time.Parse(DateLayout, date); err != nil {
		return EntryKey{}, fmt.Errorf("invalid entry date %q: %w", date, err)
	}
	return EntryKey{Date: date, TrackerID: trackerID}, nil
}

// MarshalText реализует encoding.TextMarshaler, чтобы ключ можно было использовать в JSON картах
func (k EntryKey) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText реализует encoding.TextUnmarshaler
func (k *EntryKey) UnmarshalText(b []byte) error {
	parsed, err := ParseEntryKey(string(b))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Entry отметка трекера за конкретный день.
// BaseValue/BaseCompleted хранят значения на момент BaseVersion для трёхстороннего слияния.
type Entry struct {
	Value          *float64 `json:"value"`
	Completed      *bool    `json:"completed"`
	BaseValue      *float64 `json:"baseValue,omitempty"`
	BaseCompleted  *bool    `json:"baseCompleted,omitempty"`
	LastModifiedAt string   `json:"lastModifiedAt,omitempty"`
	LastModifiedBy string   `json:"lastModifiedBy,omitempty"`
	Key            EntryKey `json:"key"`
	Version        int64    `json:"version"`
	BaseVersion    int64    `json:"baseVersion"`
	HasBase        bool     `json:"hasBase"` // BaseValue/BaseCompleted содержат снимок базы
}

// Clone создает глубокую копию отметки
func (e *Entry) Clone() *Entry {
	if e == nil {
		return nil
	}
	c := *e
	c.Value = cloneFloat(e.Value)
	c.Completed = cloneBool(e.Completed)
	c.BaseValue = cloneFloat(e.BaseValue)
	c.BaseCompleted = cloneBool(e.BaseCompleted)
	return &c
}

// SameFields сравнивает полезную нагрузку отметки (value и completed)
func (e *Entry) SameFields(other *Entry) bool {
	if e == nil || other == nil {
		return e == other
	}
	return FloatEqual(e.Value, other.Value) && BoolEqual(e.Completed, other.Completed)
}

// SetBase запоминает текущие значения как базовый снимок для версии version
func (e *Entry) SetBase(version int64) {
	e.Version = version
	e.BaseVersion = version
	e.BaseValue = cloneFloat(e.Value)
	e.BaseCompleted = cloneBool(e.Completed)
	e.HasBase = true
}

// Float возвращает указатель на копию v
func Float(v float64) *float64 { return &v }

// Bool возвращает указатель на копию v
func Bool(v bool) *bool { return &v }

// FloatEqual сравнивает nullable значения
func FloatEqual(a, b *float64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// BoolEqual сравнивает nullable флаги
func BoolEqual(a, b *bool) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func cloneFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func cloneBool(v *bool) *bool {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
