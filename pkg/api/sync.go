package api

import "encoding/json"

// Tracker представляет трекер в формате протокола синхронизации.
// Поля с префиксом "_" несут служебные метаданные версии записи.
type Tracker struct {
	Meta           map[string]string `json:"meta,omitempty"`
	ID             string            `json:"id" validate:"required,recordid"`
	Name           string            `json:"name" validate:"max=256"`
	Category       string            `json:"category" validate:"max=128"`
	Type           string            `json:"type" validate:"omitempty,oneof=simple quantifiable evaluation"`
	Frequency      string            `json:"frequency,omitempty" validate:"max=128"` // правило периодичности, например "daily"
	LastModifiedBy string            `json:"_lastModifiedBy,omitempty"`
	LastModifiedAt string            `json:"_lastModifiedAt,omitempty"`
	Version        int64             `json:"_version,omitempty" validate:"gte=0"`
	BaseVersion    int64             `json:"_baseVersion,omitempty" validate:"gte=0"`
	Deleted        bool              `json:"_deleted,omitempty"`
}

// Entry представляет отметку трекера за день в формате протокола.
type Entry struct {
	Value          *float64 `json:"value"`
	Completed      *bool    `json:"completed"`
	LastModifiedBy string   `json:"_lastModifiedBy,omitempty"`
	LastModifiedAt string   `json:"_lastModifiedAt,omitempty"`
	Version        int64    `json:"_version,omitempty" validate:"gte=0"`
	BaseVersion    int64    `json:"_baseVersion,omitempty" validate:"gte=0"`
}

// Days группирует отметки по дате (YYYY-MM-DD) и идентификатору трекера.
type Days map[string]map[string]Entry

// Put добавляет отметку, создавая вложенную карту при необходимости
func (d Days) Put(date, trackerID string, entry Entry) {
	if d[date] == nil {
		d[date] = make(map[string]Entry)
	}
	d[date][trackerID] = entry
}

// Len возвращает общее количество отметок
func (d Days) Len() int {
	n := 0
	for _, trackers := range d {
		n += len(trackers)
	}
	return n
}

// FullSyncResponse ответ GET /api/sync/full
type FullSyncResponse struct {
	Days       Days      `json:"days"`
	ServerTime string    `json:"serverTime"`
	Config     []Tracker `json:"config"`
}

// DeltaSyncResponse ответ GET /api/sync/delta
type DeltaSyncResponse struct {
	Days            Days      `json:"days"`
	ServerTime      string    `json:"serverTime"`
	Config          []Tracker `json:"config"`
	DeletedTrackers []string  `json:"deletedTrackers"`
}

// SyncRequest тело POST /api/sync/update
type SyncRequest struct {
	Days         Days      `json:"days" validate:"dive,keys,datetime=2006-01-02,endkeys"`
	ClientID     string    `json:"clientId" validate:"required,recordid"`
	LastSyncTime string    `json:"lastSyncTime,omitempty"`
	Config       []Tracker `json:"config" validate:"dive"`
}

// AppliedTracker подтверждение принятой записи трекера
type AppliedTracker struct {
	ID             string `json:"id"`
	LastModifiedBy string `json:"_lastModifiedBy,omitempty"`
	LastModifiedAt string `json:"_lastModifiedAt,omitempty"`
	Version        int64  `json:"_version"`
	Deleted        bool   `json:"_deleted,omitempty"`
}

// ConflictInfo описывает запись, отклонённую арбитром из-за устаревшей базовой версии
type ConflictInfo struct {
	EntityType        string          `json:"entityType"` // "tracker" или "entry"
	EntityID          string          `json:"entityId"`   // id трекера или "date|trackerId"
	ServerData        json.RawMessage `json:"serverData"` // текущее состояние записи на сервере
	ServerVersion     int64           `json:"serverVersion"`
	ClientBaseVersion int64           `json:"clientBaseVersion"`
}

// SyncResponse ответ POST /api/sync/update.
// Вердикты выносятся по каждой записи отдельно: часть пакета может быть принята,
// а часть отклонена.
type SyncResponse struct {
	AppliedDays   Days             `json:"appliedDays"`
	LastModified  string           `json:"lastModified,omitempty"`
	AppliedConfig []AppliedTracker `json:"appliedConfig"`
	Conflicts     []ConflictInfo   `json:"conflicts"`
	Failed        []FailedRecord   `json:"failed,omitempty"`
	Success       bool             `json:"success"`
}

// FailedRecord запись пакета, которую сервер не смог сохранить.
// Она не принята и не отклонена: клиент оставляет её dirty и повторит отправку.
type FailedRecord struct {
	EntityType string `json:"entityType"`
	EntityID   string `json:"entityId"`
	Error      string `json:"error"`
}

// Entity types used in conflicts and resolutions
const (
	EntityTracker = "tracker"
	EntityEntry   = "entry"
)

// Resolution values accepted by the force-resolve endpoint
const (
	ResolutionClient = "client"
	ResolutionServer = "server"
)

// ResolveConflictRequest тело POST /api/sync/resolve-conflict
type ResolveConflictRequest struct {
	EntityType string          `json:"entityType" validate:"required,oneof=tracker entry"`
	EntityID   string          `json:"entityId" validate:"required,max=256"`
	Resolution string          `json:"resolution" validate:"required,oneof=client server"`
	ClientID   string          `json:"clientId" validate:"required,recordid"`
	ClientData json.RawMessage `json:"clientData,omitempty"`
}

// ResolveConflictResponse ответ на принудительное разрешение конфликта
type ResolveConflictResponse struct {
	Status     string `json:"status"`
	Resolution string `json:"resolution"`
	EntityID   string `json:"entityId"`
	Version    int64  `json:"version"`
}

// ConflictRecord запись журнала конфликтов на сервере
type ConflictRecord struct {
	EntityType string          `json:"entityType"`
	EntityID   string          `json:"entityId"`
	CreatedAt  string          `json:"createdAt"`
	ClientData json.RawMessage `json:"clientData,omitempty"`
	ServerData json.RawMessage `json:"serverData,omitempty"`
	ID         int64           `json:"id"`
}

// ConflictsResponse ответ GET /api/sync/conflicts
type ConflictsResponse struct {
	Conflicts []ConflictRecord `json:"conflicts"`
}
