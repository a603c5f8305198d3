package arbiter

import (
	"github.com/iudanet/habitsync/internal/models"
	"github.com/iudanet/habitsync/internal/server/storage"
	"github.com/iudanet/habitsync/pkg/api"
)

func trackerToAPI(t *storage.Tracker) api.Tracker {
	return api.Tracker{
		ID:             t.ID,
		Name:           t.Name,
		Category:       t.Category,
		Type:           t.Type,
		Frequency:      t.Frequency,
		Meta:           t.Meta,
		Version:        t.Version,
		LastModifiedBy: t.LastModifiedBy,
		LastModifiedAt: t.LastModifiedAt,
		Deleted:        t.Deleted,
	}
}

// trackerFromAPI собирает серверную запись трекера из данных клиента
func trackerFromAPI(a api.Tracker, version int64, clientID, stamp string) *storage.Tracker {
	kind := a.Type
	if kind == "" {
		kind = string(models.KindSimple)
	}
	return &storage.Tracker{
		ID:             a.ID,
		Name:           a.Name,
		Category:       a.Category,
		Type:           kind,
		Frequency:      a.Frequency,
		Meta:           a.Meta,
		Version:        version,
		LastModifiedBy: clientID,
		LastModifiedAt: stamp,
		Deleted:        a.Deleted,
	}
}

func entryToAPI(e *storage.Entry) api.Entry {
	return api.Entry{
		Value:          e.Value,
		Completed:      e.Completed,
		Version:        e.Version,
		LastModifiedBy: e.LastModifiedBy,
		LastModifiedAt: e.LastModifiedAt,
	}
}

func entryFromAPI(key models.EntryKey, a api.Entry, version int64, clientID, stamp string) *storage.Entry {
	return &storage.Entry{
		Date:           key.Date,
		TrackerID:      key.TrackerID,
		Value:          a.Value,
		Completed:      a.Completed,
		Version:        version,
		LastModifiedBy: clientID,
		LastModifiedAt: stamp,
	}
}

func conflictToAPI(c *storage.Conflict) api.ConflictRecord {
	return api.ConflictRecord{
		ID:         c.ID,
		EntityType: c.EntityType,
		EntityID:   c.EntityID,
		ClientData: c.ClientData,
		ServerData: c.ServerData,
		CreatedAt:  c.CreatedAt,
	}
}
