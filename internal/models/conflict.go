package models

import (
	"fmt"
	"strings"
	"time"
)

// EntityType тип записи, участвующей в конфликте
type EntityType string

const (
	EntityTracker EntityType = "tracker"
	EntityEntry   EntityType = "entry"
)

// ConflictSource откуда стало известно о конфликте
type ConflictSource string

const (
	SourceDetected ConflictSource = "detected" // найден при получении изменений
	SourceServer   ConflictSource = "server"   // сервер отклонил загрузку
)

// ConflictKey идентифицирует конфликт; на одну запись не более одного конфликта
type ConflictKey struct {
	Type EntityType
	ID   string
}

func (k ConflictKey) String() string {
	return string(k.Type) + ":" + k.ID
}

// ParseConflictKey разбирает ключ формата "tracker:<id>" или "entry:<date>|<trackerId>"
func ParseConflictKey(s string) (ConflictKey, error) {
	kind, id, ok := strings.Cut(s, ":")
	if !ok || id == "" {
		return ConflictKey{}, fmt.Errorf("invalid conflict key %q, expected tracker:<id> or entry:<date>|<id>", s)
	}

	switch EntityType(kind) {
	case EntityTracker:
		return ConflictKey{Type: EntityTracker, ID: id}, nil
	case EntityEntry:
		if _, err := ParseEntryKey(id); err != nil {
			return ConflictKey{}, err
		}
		return ConflictKey{Type: EntityEntry, ID: id}, nil
	default:
		return ConflictKey{}, fmt.Errorf("unknown conflict entity %q", kind)
	}
}

// Conflict эфемерная запись о расхождении локальной и серверной версий.
// Для трекера заполнены LocalTracker/ServerTracker, для отметки LocalEntry/ServerEntry.
type Conflict struct {
	DetectedAt     time.Time      `json:"detectedAt"`
	LocalTracker   *Tracker       `json:"localTracker,omitempty"`
	ServerTracker  *Tracker       `json:"serverTracker,omitempty"`
	LocalEntry     *Entry         `json:"localEntry,omitempty"`
	ServerEntry    *Entry         `json:"serverEntry,omitempty"`
	Merged         *Entry         `json:"merged,omitempty"`
	Type           EntityType     `json:"type"`
	ID             string         `json:"id"`
	Source         ConflictSource `json:"source"`
	AutoResolvable bool           `json:"autoResolvable"`
}

// Key возвращает ключ дедупликации конфликта
func (c *Conflict) Key() ConflictKey {
	return ConflictKey{Type: c.Type, ID: c.ID}
}

// ServerVersion возвращает версию серверного снимка
func (c *Conflict) ServerVersion() int64 {
	switch c.Type {
	case EntityTracker:
		if c.ServerTracker != nil {
			return c.ServerTracker.Version
		}
	case EntityEntry:
		if c.ServerEntry != nil {
			return c.ServerEntry.Version
		}
	}
	return 0
}

// Choice выбор пользователя при разрешении конфликта
type Choice string

const (
	UseLocal  Choice = "useLocal"
	UseRemote Choice = "useRemote"
)

// ParseChoice разбирает выбор пользователя ("local"/"remote" тоже допустимы)
func ParseChoice(s string) (Choice, bool) {
	switch s {
	case string(UseLocal), "local", "mine", "client":
		return UseLocal, true
	case string(UseRemote), "remote", "theirs", "server":
		return UseRemote, true
	default:
		return "", false
	}
}
