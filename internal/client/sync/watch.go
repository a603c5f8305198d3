package sync

import (
	"context"
	"errors"
	"time"

	"github.com/iudanet/habitsync/pkg/api"
)

// Watch синхронизирует периодически и по уведомлениям сервера об изменениях
// других клиентов. Ошибки отдельных попыток не прерывают цикл.
// Возвращает ctx.Err() после отмены контекста.
func (e *Engine) Watch(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	e.syncOnce(ctx, "startup")

	var notifications <-chan api.Notification
	e.connect(ctx, &notifications)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if notifications == nil {
				e.connect(ctx, &notifications)
			}
			e.syncOnce(ctx, "interval")
		case n, ok := <-notifications:
			if !ok {
				e.logger.Info("Notification stream closed, falling back to interval sync")
				notifications = nil
				continue
			}
			if n.Type != api.NotificationChanged || n.ClientID == e.ClientID() {
				continue
			}
			e.syncOnce(ctx, "notification")
		}
	}
}

func (e *Engine) connect(ctx context.Context, notifications *<-chan api.Notification) {
	if e.notifier == nil {
		return
	}
	ch, err := e.notifier.Notifications(ctx, e.ClientID())
	if err != nil {
		e.logger.Debug("Notification stream unavailable", "error", err)
		return
	}
	*notifications = ch
}

func (e *Engine) syncOnce(ctx context.Context, reason string) {
	_, err := e.TriggerSync(ctx)
	switch {
	case err == nil:
	case errors.Is(err, ErrOffline), errors.Is(err, ErrSyncInProgress):
		e.logger.Debug("Sync skipped", "reason", reason, "error", err)
	default:
		e.logger.Warn("Background sync failed", "reason", reason, "error", err)
	}
}
