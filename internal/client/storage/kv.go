package storage

import "context"

//go:generate moq -out kv_mock.go . KV

// KV defines the durable key-value store the client engine persists into.
// Writes to different keys are not transactional: the engine must tolerate
// a crash between two Set calls.
type KV interface {
	// Get returns the value stored under key
	// Returns ErrKeyNotFound if key doesn't exist
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key, replacing any previous value
	Set(ctx context.Context, key string, value []byte) error
}

// Keys used by the sync engine
const (
	// KeyConfig хранит список трекеров
	KeyConfig = "config"
	// KeyDays хранит отметки по дням
	KeyDays = "days"
	// KeyMetadata хранит метаданные синхронизации (client id, время, dirty-наборы)
	KeyMetadata = "sync_metadata"
)
