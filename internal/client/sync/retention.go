package sync

import (
	"github.com/iudanet/habitsync/internal/client/state"
	"github.com/iudanet/habitsync/internal/models"
)

// retain применяет политику хранения после успешной синхронизации:
// отметки старше окна удаляются из локального журнала, трекеры с
// подтверждённым удалением удаляются физически. Dirty-записи не трогаются.
func (e *Engine) retain(result *Result) {
	cutoff := e.now().AddDate(0, 0, -e.window).Format(models.DateLayout)

	_ = e.store.Update(func(tx *state.Tx) error {
		for _, en := range tx.Entries() {
			if en.Key.Date < cutoff && !tx.EntryDirty(en.Key) {
				tx.RemoveEntry(en.Key)
				result.Purged++
			}
		}
		for _, t := range tx.Trackers() {
			if t.State == models.StatePurged && !tx.TrackerDirty(t.ID) {
				tx.RemoveTracker(t.ID)
				result.Purged++
			}
		}
		return nil
	})

	if result.Purged > 0 {
		e.logger.Debug("Retention applied", "purged", result.Purged, "cutoff", cutoff)
		e.persistDataFirst()
	}
}
