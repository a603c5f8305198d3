package sync

import (
	"context"

	"github.com/iudanet/habitsync/pkg/api"
)

//go:generate moq -out interfaces_mock.go . ClientAPI Connectivity Notifier

// ClientAPI транспорт к серверу синхронизации
type ClientAPI interface {
	Register(ctx context.Context, req api.RegisterRequest) (*api.RegisterResponse, error)
	FullSync(ctx context.Context) (*api.FullSyncResponse, error)
	DeltaSync(ctx context.Context, since, clientID string) (*api.DeltaSyncResponse, error)
	Submit(ctx context.Context, req api.SyncRequest) (*api.SyncResponse, error)
	ResolveConflict(ctx context.Context, req api.ResolveConflictRequest) (*api.ResolveConflictResponse, error)
	ListConflicts(ctx context.Context, clientID string) (*api.ConflictsResponse, error)
}

// Connectivity сообщает, доступен ли сервер
type Connectivity interface {
	Online(ctx context.Context) bool
}

// Notifier поток уведомлений сервера об изменениях других клиентов
type Notifier interface {
	Notifications(ctx context.Context, clientID string) (<-chan api.Notification, error)
}
