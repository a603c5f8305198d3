package sync

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/iudanet/habitsync/internal/client/state"
	"github.com/iudanet/habitsync/internal/models"
	"github.com/iudanet/habitsync/internal/validation"
)

// TrackerInput пользовательские поля трекера
type TrackerInput struct {
	Meta      map[string]string
	ID        string // пустой id означает новый трекер
	Name      string
	Category  string
	Kind      models.TrackerKind
	Frequency string
}

// UpsertTracker создает или изменяет трекер, помечает его dirty и планирует запись.
// Версии существующего трекера сохраняются; сеть не используется.
func (e *Engine) UpsertTracker(in TrackerInput) (*models.Tracker, error) {
	if in.ID == "" {
		in.ID = uuid.NewString()
	}
	if err := validation.ValidateID("tracker", in.ID); err != nil {
		return nil, err
	}
	if err := validation.ValidateTrackerName(in.Name); err != nil {
		return nil, err
	}
	kind, err := models.ParseTrackerKind(string(in.Kind))
	if err != nil {
		return nil, err
	}

	var saved *models.Tracker
	err = e.store.Update(func(tx *state.Tx) error {
		t := &models.Tracker{ID: in.ID}
		if existing, ok := tx.Tracker(in.ID); ok {
			t = existing.Clone()
		}
		t.Name = in.Name
		t.Category = in.Category
		t.Kind = kind
		t.Frequency = in.Frequency
		t.Meta = in.Meta
		t.State = models.StateActive
		t.LastModifiedAt = e.timestamp()
		t.LastModifiedBy = tx.Metadata().ClientID

		tx.PutTracker(t)
		tx.MarkTrackerDirty(t.ID)
		saved = t.Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.persistMetaFirst()
	return saved, nil
}

// DeleteTracker помечает трекер удалённым. Трекер, ещё не известный серверу,
// удаляется сразу; остальные ждут подтверждения удаления сервером.
func (e *Engine) DeleteTracker(id string) error {
	err := e.store.Update(func(tx *state.Tx) error {
		existing, ok := tx.Tracker(id)
		if !ok || existing.State == models.StatePurged {
			return fmt.Errorf("%w: %s", ErrTrackerNotFound, id)
		}

		if existing.Version == 0 {
			tx.RemoveTracker(id)
			tx.ForgetTracker(id)
			// Отметки трекера серверу тоже неизвестны
			for _, en := range tx.Entries() {
				if en.Key.TrackerID == id {
					tx.RemoveEntry(en.Key)
					tx.ForgetEntry(en.Key)
				}
			}
			return nil
		}

		t := existing.Clone()
		t.State = models.StatePendingDelete
		t.LastModifiedAt = e.timestamp()
		t.LastModifiedBy = tx.Metadata().ClientID
		tx.PutTracker(t)
		tx.MarkTrackerDirty(id)
		return nil
	})
	if err != nil {
		return err
	}

	e.persistMetaFirst()
	return nil
}

// UpsertEntry записывает отметку трекера за день. nil-значение поля оставляет
// текущее значение без изменений.
func (e *Engine) UpsertEntry(key models.EntryKey, value *float64, completed *bool) (*models.Entry, error) {
	if err := validation.ValidateDate(key.Date); err != nil {
		return nil, err
	}

	var saved *models.Entry
	err := e.store.Update(func(tx *state.Tx) error {
		t, ok := tx.Tracker(key.TrackerID)
		if !ok || !t.State.IsLive() {
			return fmt.Errorf("%w: %s", ErrTrackerNotFound, key.TrackerID)
		}

		en := &models.Entry{Key: key}
		if existing, ok := tx.Entry(key); ok {
			en = existing.Clone()
		}
		if value != nil {
			en.Value = models.Float(*value)
		}
		if completed != nil {
			en.Completed = models.Bool(*completed)
		}
		en.LastModifiedAt = e.timestamp()
		en.LastModifiedBy = tx.Metadata().ClientID

		tx.PutEntry(en)
		tx.MarkEntryDirty(key)
		saved = en.Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.persistMetaFirst()
	return saved, nil
}
