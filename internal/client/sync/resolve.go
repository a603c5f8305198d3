package sync

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/iudanet/habitsync/internal/client/dirty"
	"github.com/iudanet/habitsync/internal/client/state"
	"github.com/iudanet/habitsync/internal/models"
	"github.com/iudanet/habitsync/pkg/api"
)

// Resolve разрешает ожидающий конфликт выбором пользователя.
//
// UseRemote применяет серверный снимок локально без обращения к сети.
// UseLocal принудительно записывает локальный снимок на сервер; при ошибке
// конфликт остаётся ожидающим, а состояние не меняется.
// Разрешение последнего конфликта запускает новую синхронизацию, чтобы
// отправить отложенные изменения.
func (e *Engine) Resolve(ctx context.Context, key models.ConflictKey, choice models.Choice) error {
	if !e.acquire() {
		return ErrSyncInProgress
	}
	defer e.release()

	if err := e.resolveOne(ctx, key, choice); err != nil {
		return err
	}
	e.resyncIfClear(ctx)
	return nil
}

// ResolveAll разрешает все ожидающие конфликты одним выбором.
// Возвращает количество разрешённых конфликтов; ошибки отдельных конфликтов объединяются.
func (e *Engine) ResolveAll(ctx context.Context, choice models.Choice) (int, error) {
	if !e.acquire() {
		return 0, ErrSyncInProgress
	}
	defer e.release()

	resolved := 0
	var errs []error
	for _, c := range e.store.Conflicts() {
		if err := e.resolveOne(ctx, c.Key(), choice); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", c.Key(), err))
			continue
		}
		resolved++
	}

	if resolved > 0 {
		e.resyncIfClear(ctx)
	}
	return resolved, errors.Join(errs...)
}

func (e *Engine) resolveOne(ctx context.Context, key models.ConflictKey, choice models.Choice) error {
	var c *models.Conflict
	for _, pending := range e.store.Conflicts() {
		if pending.Key() == key {
			c = pending
			break
		}
	}
	if c == nil {
		return fmt.Errorf("%w: %s", ErrConflictNotFound, key)
	}

	var err error
	switch choice {
	case models.UseRemote:
		err = e.useRemote(c)
	case models.UseLocal:
		err = e.useLocal(ctx, c)
	default:
		return fmt.Errorf("unknown resolution choice %q", choice)
	}
	if err != nil {
		return err
	}

	e.logger.Info("Conflict resolved", "type", c.Type, "id", c.ID, "choice", choice)
	return nil
}

// useRemote принимает серверный снимок записи
func (e *Engine) useRemote(c *models.Conflict) error {
	err := e.store.Update(func(tx *state.Tx) error {
		switch c.Type {
		case models.EntityTracker:
			if c.ServerTracker == nil {
				return fmt.Errorf("conflict %s has no server snapshot", c.Key())
			}
			tx.PutTracker(c.ServerTracker)
			tx.ForgetTracker(c.ID)
		case models.EntityEntry:
			if c.ServerEntry == nil {
				return fmt.Errorf("conflict %s has no server snapshot", c.Key())
			}
			tx.PutEntry(c.ServerEntry)
			tx.ForgetEntry(c.ServerEntry.Key)
		}
		tx.RemoveConflict(c.Key())
		return nil
	})
	if err != nil {
		return err
	}

	e.persistDataFirst()
	return nil
}

// useLocal принудительно записывает локальный снимок на сервер
func (e *Engine) useLocal(ctx context.Context, c *models.Conflict) error {
	marks := e.dirtyMarks()

	clientData, err := e.localSnapshot(c)
	if err != nil {
		return err
	}

	resp, err := e.api.ResolveConflict(ctx, api.ResolveConflictRequest{
		EntityType: string(c.Type),
		EntityID:   c.ID,
		Resolution: api.ResolutionClient,
		ClientID:   e.ClientID(),
		ClientData: clientData,
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrResolution, err)
	}

	err = e.store.Update(func(tx *state.Tx) error {
		switch c.Type {
		case models.EntityTracker:
			t, ok := tx.Tracker(c.ID)
			if !ok {
				t = c.LocalTracker
			}
			updated := t.Clone()
			updated.Version = resp.Version
			updated.BaseVersion = resp.Version
			if updated.State == models.StatePendingDelete {
				updated.State = models.StatePurged
			}
			tx.PutTracker(updated)
			tx.ClearApplied([]string{c.ID}, nil, marks)
		case models.EntityEntry:
			en, ok := tx.Entry(c.LocalEntry.Key)
			if !ok {
				en = c.LocalEntry
			}
			updated := en.Clone()
			updated.SetBase(resp.Version)
			tx.PutEntry(updated)
			tx.ClearApplied(nil, []models.EntryKey{updated.Key}, marks)
		}
		tx.RemoveConflict(c.Key())
		return nil
	})
	if err != nil {
		return err
	}

	e.persistDataFirst()
	return nil
}

// localSnapshot сериализует текущую локальную версию записи конфликта
func (e *Engine) localSnapshot(c *models.Conflict) (json.RawMessage, error) {
	switch c.Type {
	case models.EntityTracker:
		t, ok := e.store.Tracker(c.ID)
		if !ok {
			t = c.LocalTracker
		}
		if t == nil {
			return nil, fmt.Errorf("conflict %s has no local snapshot", c.Key())
		}
		return json.Marshal(trackerToAPI(t))
	case models.EntityEntry:
		if c.LocalEntry == nil {
			return nil, fmt.Errorf("conflict %s has no local snapshot", c.Key())
		}
		en, ok := e.store.Entry(c.LocalEntry.Key)
		if !ok {
			en = c.LocalEntry
		}
		return json.Marshal(entryToAPI(en))
	default:
		return nil, fmt.Errorf("unknown entity type %q", c.Type)
	}
}

func (e *Engine) dirtyMarks() dirty.Marks {
	var marks dirty.Marks
	_ = e.store.Update(func(tx *state.Tx) error {
		marks = tx.DirtyMarks()
		return nil
	})
	return marks
}

// resyncIfClear запускает синхронизацию, когда ожидающих конфликтов не осталось
func (e *Engine) resyncIfClear(ctx context.Context) {
	if len(e.store.Conflicts()) > 0 {
		return
	}
	if _, err := e.sync(ctx); err != nil {
		e.logger.Info("Follow-up sync after resolution did not complete", "error", err)
	}
}
