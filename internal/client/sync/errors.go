package sync

import (
	"errors"
	"fmt"
)

var (
	// ErrOffline нет связи с сервером; попытка прервана без изменения состояния
	ErrOffline = errors.New("server is unreachable")
	// ErrSyncInProgress синхронизация уже выполняется
	ErrSyncInProgress = errors.New("sync already in progress")
	// ErrConflictNotFound конфликт не найден среди ожидающих
	ErrConflictNotFound = errors.New("conflict not found")
	// ErrTrackerNotFound трекер не найден
	ErrTrackerNotFound = errors.New("tracker not found")
	// ErrResolution сервер не принял принудительное разрешение конфликта
	ErrResolution = errors.New("conflict resolution failed")
	// ErrNotOpen движок не загружен из хранилища
	ErrNotOpen = errors.New("engine is not open")
)

// TransportError сетевая ошибка или ошибка сервера на одном из шагов синхронизации.
// Dirty-набор и ожидающие конфликты после неё остаются прежними.
type TransportError struct {
	Err error
	Op  string // register, fetch, upload
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("sync %s failed: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
