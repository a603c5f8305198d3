package storage

import "context"

// Tracker серверная запись трекера.
// Version назначается только сервером и растет на 1 при каждой принятой записи.
type Tracker struct {
	Meta           map[string]string
	ID             string
	Name           string
	Category       string
	Type           string
	Frequency      string
	LastModifiedBy string
	LastModifiedAt string
	Version        int64
	Deleted        bool
}

// Entry серверная запись отметки, ключ (Date, TrackerID)
type Entry struct {
	Value          *float64
	Completed      *bool
	Date           string
	TrackerID      string
	LastModifiedBy string
	LastModifiedAt string
	Version        int64
}

// Client зарегистрированный клиент синхронизации
type Client struct {
	ID           string
	Name         string
	RegisteredAt string
	LastSeenAt   string
}

// Conflict resolutions recorded in the audit log
const (
	ResolutionClient     = "client"     // принята версия клиента (force-resolve)
	ResolutionServer     = "server"     // клиент принял серверную версию
	ResolutionSuperseded = "superseded" // клиент позже успешно записал новую версию
)

// Conflict строка журнала конфликтов.
// Открытый конфликт имеет пустые Resolution и ResolvedAt.
type Conflict struct {
	ClientData        []byte
	ServerData        []byte
	EntityType        string
	EntityID          string
	ClientID          string
	Resolution        string
	ResolvedAt        string
	CreatedAt         string
	ID                int64
	ServerVersion     int64
	ClientBaseVersion int64
}

// RecordTx defines operations on versioned records within a single transaction.
// Arbiter opens one transaction per record, so check-and-increment is atomic.
type RecordTx interface {
	// GetTracker returns ErrTrackerNotFound if tracker doesn't exist (deleted trackers are returned)
	GetTracker(ctx context.Context, id string) (*Tracker, error)

	// PutTracker creates or overwrites tracker row
	PutTracker(ctx context.Context, t *Tracker) error

	// GetEntry returns ErrEntryNotFound if entry doesn't exist
	GetEntry(ctx context.Context, date, trackerID string) (*Entry, error)

	// PutEntry creates or overwrites entry row
	PutEntry(ctx context.Context, e *Entry) error

	// LogConflict appends unresolved (or already resolved) row to the audit log
	LogConflict(ctx context.Context, c *Conflict) (int64, error)

	// CloseConflicts marks open rows of the client for the record as resolved.
	// Returns number of closed rows.
	CloseConflicts(ctx context.Context, entityType, entityID, clientID, resolution, at string) (int64, error)

	// SetLastModified stores time of the last accepted write
	SetLastModified(ctx context.Context, ts string) error
}

// RecordStorage defines interface for trackers and entries persistence
type RecordStorage interface {
	// WithinTx runs fn in a transaction; error returned by fn rolls it back
	WithinTx(ctx context.Context, fn func(tx RecordTx) error) error

	// ListTrackers returns trackers ordered by id
	ListTrackers(ctx context.Context, includeDeleted bool) ([]*Tracker, error)

	// TrackersChangedSince returns trackers (including deleted) modified after since
	// by clients other than excludeClient
	TrackersChangedSince(ctx context.Context, since, excludeClient string) ([]*Tracker, error)

	// ListEntries returns entries with date >= fromDate
	ListEntries(ctx context.Context, fromDate string) ([]*Entry, error)

	// EntriesChangedSince returns entries with date >= fromDate modified after since
	// by clients other than excludeClient
	EntriesChangedSince(ctx context.Context, since, excludeClient, fromDate string) ([]*Entry, error)

	// LastModified returns time of the last accepted write, empty if nothing was written
	LastModified(ctx context.Context) (string, error)

	// LatestTimestamp returns the greatest timestamp stored in any table
	LatestTimestamp(ctx context.Context) (string, error)
}

// ClientStorage defines interface for client registrations
type ClientStorage interface {
	// RegisterClient creates client or updates its name, keeping registration time
	RegisterClient(ctx context.Context, c *Client) error

	// TouchClient updates last_seen_at, registering unknown client with default name
	TouchClient(ctx context.Context, id, defaultName, at string) error

	// GetClient returns ErrClientNotFound if client is not registered
	GetClient(ctx context.Context, id string) (*Client, error)
}

// ConflictStorage defines read access to the conflict audit log
type ConflictStorage interface {
	// ListOpenConflicts returns unresolved rows of the client, newest first
	ListOpenConflicts(ctx context.Context, clientID string) ([]*Conflict, error)

	// GetConflict returns ErrConflictNotFound if row doesn't exist
	GetConflict(ctx context.Context, id int64) (*Conflict, error)
}

// Storage объединяет все хранилища сервера
type Storage interface {
	RecordStorage
	ClientStorage
	ConflictStorage
}
