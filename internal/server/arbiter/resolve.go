package arbiter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/iudanet/habitsync/internal/models"
	"github.com/iudanet/habitsync/internal/server/storage"
	"github.com/iudanet/habitsync/internal/validation"
	"github.com/iudanet/habitsync/pkg/api"
)

// ForceResolve разрешает конфликт по выбору клиента.
// Resolution "client" перезаписывает серверную запись данными клиента без проверки версии
// и увеличивает версию; "server" только закрывает конфликт. Исход всегда попадает в журнал.
func (a *Arbiter) ForceResolve(ctx context.Context, req *api.ResolveConflictRequest) (*api.ResolveConflictResponse, error) {
	if err := validation.ValidateID("client", req.ClientID); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	if req.Resolution != api.ResolutionClient && req.Resolution != api.ResolutionServer {
		return nil, fmt.Errorf("%w: unknown resolution %q", ErrInvalidRequest, req.Resolution)
	}
	if req.Resolution == api.ResolutionClient && len(req.ClientData) == 0 {
		return nil, fmt.Errorf("%w: client resolution requires clientData", ErrInvalidRequest)
	}

	var (
		version int64
		err     error
	)
	switch req.EntityType {
	case api.EntityTracker:
		version, err = a.resolveTracker(ctx, req)
	case api.EntityEntry:
		version, err = a.resolveEntry(ctx, req)
	default:
		return nil, fmt.Errorf("%w: unknown entity type %q", ErrInvalidRequest, req.EntityType)
	}
	if err != nil {
		return nil, err
	}

	a.logger.Info("Conflict resolved",
		"client_id", req.ClientID,
		"entity_type", req.EntityType,
		"entity_id", req.EntityID,
		"resolution", req.Resolution,
		"version", version)

	return &api.ResolveConflictResponse{
		Status:     "ok",
		Resolution: req.Resolution,
		EntityID:   req.EntityID,
		Version:    version,
	}, nil
}

func (a *Arbiter) resolveTracker(ctx context.Context, req *api.ResolveConflictRequest) (int64, error) {
	if err := validation.ValidateID("tracker", req.EntityID); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}

	var data api.Tracker
	if req.Resolution == api.ResolutionClient {
		if err := json.Unmarshal(req.ClientData, &data); err != nil {
			return 0, fmt.Errorf("%w: invalid tracker data: %w", ErrInvalidRequest, err)
		}
		if data.ID == "" {
			data.ID = req.EntityID
		}
		if data.ID != req.EntityID {
			return 0, fmt.Errorf("%w: tracker data id %q does not match %q", ErrInvalidRequest, data.ID, req.EntityID)
		}
		if _, err := models.ParseTrackerKind(data.Type); err != nil {
			return 0, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
		}
	}

	unlock := a.locks.Lock(trackerKey(req.EntityID))
	defer unlock()

	stamp := a.marks.begin()
	defer a.marks.done(stamp)

	var version int64
	err := a.store.WithinTx(ctx, func(tx storage.RecordTx) error {
		current, err := tx.GetTracker(ctx, req.EntityID)
		if err != nil && !errors.Is(err, storage.ErrTrackerNotFound) {
			return err
		}

		var prior []byte
		if current != nil {
			version = current.Version
			if prior, err = json.Marshal(trackerToAPI(current)); err != nil {
				return fmt.Errorf("failed to encode server data: %w", err)
			}
		}

		if req.Resolution == api.ResolutionClient {
			version++
			if err := tx.PutTracker(ctx, trackerFromAPI(data, version, req.ClientID, stamp)); err != nil {
				return err
			}
			if err := tx.SetLastModified(ctx, stamp); err != nil {
				return err
			}
		}

		return a.recordResolution(ctx, tx, req, prior, version, stamp)
	})
	if err != nil {
		return 0, err
	}

	if req.Resolution == api.ResolutionClient {
		a.notify(req.ClientID, stamp)
	}

	return version, nil
}

func (a *Arbiter) resolveEntry(ctx context.Context, req *api.ResolveConflictRequest) (int64, error) {
	key, err := models.ParseEntryKey(req.EntityID)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	if err := validation.ValidateID("tracker", key.TrackerID); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}

	var data api.Entry
	if req.Resolution == api.ResolutionClient {
		if err := json.Unmarshal(req.ClientData, &data); err != nil {
			return 0, fmt.Errorf("%w: invalid entry data: %w", ErrInvalidRequest, err)
		}
	}

	unlock := a.locks.Lock(entryKey(key.Date, key.TrackerID))
	defer unlock()

	stamp := a.marks.begin()
	defer a.marks.done(stamp)

	var version int64
	err = a.store.WithinTx(ctx, func(tx storage.RecordTx) error {
		current, err := tx.GetEntry(ctx, key.Date, key.TrackerID)
		if err != nil && !errors.Is(err, storage.ErrEntryNotFound) {
			return err
		}

		var prior []byte
		if current != nil {
			version = current.Version
			if prior, err = json.Marshal(entryToAPI(current)); err != nil {
				return fmt.Errorf("failed to encode server data: %w", err)
			}
		}

		if req.Resolution == api.ResolutionClient {
			version++
			if err := tx.PutEntry(ctx, entryFromAPI(key, data, version, req.ClientID, stamp)); err != nil {
				return err
			}
			if err := tx.SetLastModified(ctx, stamp); err != nil {
				return err
			}
		}

		return a.recordResolution(ctx, tx, req, prior, version, stamp)
	})
	if err != nil {
		return 0, err
	}

	if req.Resolution == api.ResolutionClient {
		a.notify(req.ClientID, stamp)
	}

	return version, nil
}

// recordResolution закрывает открытые конфликты клиента по записи.
// Если открытых нет (конфликт найден клиентом при получении изменений),
// в журнал добавляется уже закрытая строка с исходом.
func (a *Arbiter) recordResolution(ctx context.Context, tx storage.RecordTx, req *api.ResolveConflictRequest, prior []byte, version int64, stamp string) error {
	closed, err := tx.CloseConflicts(ctx, req.EntityType, req.EntityID, req.ClientID, req.Resolution, stamp)
	if err != nil {
		return err
	}
	if closed > 0 {
		return nil
	}

	_, err = tx.LogConflict(ctx, &storage.Conflict{
		EntityType:    req.EntityType,
		EntityID:      req.EntityID,
		ClientID:      req.ClientID,
		ClientData:    req.ClientData,
		ServerData:    prior,
		ServerVersion: version,
		Resolution:    req.Resolution,
		ResolvedAt:    stamp,
		CreatedAt:     stamp,
	})
	return err
}
