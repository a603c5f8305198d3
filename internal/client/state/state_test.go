package state

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/habitsync/internal/models"
)

func testTracker(id string) *models.Tracker {
	return &models.Tracker{ID: id, Name: "Run " + id, Kind: models.KindSimple}
}

func testEntry(date, trackerID string, value float64) *models.Entry {
	return &models.Entry{
		Key:   models.EntryKey{Date: date, TrackerID: trackerID},
		Value: models.Float(value),
	}
}

func TestStore_StatusDerivation(t *testing.T) {
	s := New()
	assert.Equal(t, StatusNoData, s.Status())

	require.NoError(t, s.Update(func(tx *Tx) error {
		tx.PutTracker(testTracker("t1"))
		tx.MarkTrackerDirty("t1")
		return nil
	}))
	assert.Equal(t, StatusDirty, s.Status())

	require.NoError(t, s.Update(func(tx *Tx) error {
		tx.AddConflict(&models.Conflict{Type: models.EntityTracker, ID: "t1"})
		return nil
	}))
	assert.Equal(t, StatusHasConflicts, s.Status())

	require.NoError(t, s.Update(func(tx *Tx) error {
		tx.SetSyncing(true)
		return nil
	}))
	assert.Equal(t, StatusSyncing, s.Status())

	require.NoError(t, s.Update(func(tx *Tx) error {
		tx.SetSyncing(false)
		tx.RemoveConflict(models.ConflictKey{Type: models.EntityTracker, ID: "t1"})
		tx.ForgetTracker("t1")
		m := tx.Metadata()
		m.LastSyncTime = "2024-03-01T10:00:00.000000Z"
		tx.SetMetadata(m)
		return nil
	}))
	assert.Equal(t, StatusSynced, s.Status())
}

func TestStore_UpdateRollsBackOnError(t *testing.T) {
	s := New()
	require.NoError(t, s.Update(func(tx *Tx) error {
		tx.PutTracker(testTracker("t1"))
		return nil
	}))

	errBoom := errors.New("boom")
	err := s.Update(func(tx *Tx) error {
		tx.PutTracker(testTracker("t2"))
		tx.RemoveTracker("t1")
		tx.MarkEntryDirty(models.EntryKey{Date: "2024-03-01", TrackerID: "t1"})
		tx.AddConflict(&models.Conflict{Type: models.EntityTracker, ID: "t1"})
		return errBoom
	})
	require.ErrorIs(t, err, errBoom)

	_, ok := s.Tracker("t1")
	assert.True(t, ok)
	_, ok = s.Tracker("t2")
	assert.False(t, ok)
	trackers, entries := s.DirtyCounts()
	assert.Zero(t, trackers)
	assert.Zero(t, entries)
	assert.Empty(t, s.Conflicts())
}

func TestStore_ConflictsAreDeduplicated(t *testing.T) {
	s := New()
	require.NoError(t, s.Update(func(tx *Tx) error {
		assert.True(t, tx.AddConflict(&models.Conflict{Type: models.EntityEntry, ID: "2024-03-01|a"}))
		assert.True(t, tx.AddConflict(&models.Conflict{Type: models.EntityTracker, ID: "a"}))
		assert.False(t, tx.AddConflict(&models.Conflict{Type: models.EntityEntry, ID: "2024-03-01|a", Source: models.SourceServer}))
		return nil
	}))

	conflicts := s.Conflicts()
	require.Len(t, conflicts, 2)
	assert.Equal(t, "2024-03-01|a", conflicts[0].ID)
	assert.Equal(t, models.SourceServer, conflicts[0].Source)
	assert.Equal(t, "a", conflicts[1].ID)
}

func TestStore_ReadsReturnCopies(t *testing.T) {
	s := New()
	require.NoError(t, s.Update(func(tx *Tx) error {
		tx.PutTracker(testTracker("t1"))
		tx.PutEntry(testEntry("2024-03-01", "t1", 5))
		return nil
	}))

	tr, _ := s.Tracker("t1")
	tr.Name = "changed"
	e, _ := s.Entry(models.EntryKey{Date: "2024-03-01", TrackerID: "t1"})
	*e.Value = 99

	tr2, _ := s.Tracker("t1")
	e2, _ := s.Entry(models.EntryKey{Date: "2024-03-01", TrackerID: "t1"})
	assert.Equal(t, "Run t1", tr2.Name)
	assert.InDelta(t, 5.0, *e2.Value, 0)
}

func TestStore_SubscribeReceivesCommittedChange(t *testing.T) {
	s := New()
	ch, cancel := s.Subscribe(4)
	defer cancel()

	require.NoError(t, s.Update(func(tx *Tx) error {
		tx.PutTracker(testTracker("t1"))
		tx.PutEntry(testEntry("2024-03-01", "t1", 1))
		tx.MarkTrackerDirty("t1")
		return nil
	}))

	change := <-ch
	assert.Equal(t, []string{"t1"}, change.Trackers)
	assert.Equal(t, []models.EntryKey{{Date: "2024-03-01", TrackerID: "t1"}}, change.Entries)
	assert.True(t, change.Dirty)
	assert.Equal(t, StatusDirty, change.Status)

	// Неудачный пакет не уведомляет
	_ = s.Update(func(tx *Tx) error {
		tx.PutTracker(testTracker("t2"))
		return errors.New("fail")
	})
	select {
	case c := <-ch:
		t.Fatalf("unexpected change %+v", c)
	default:
	}
}

func TestStore_CancelClosesChannel(t *testing.T) {
	s := New()
	ch, cancel := s.Subscribe(1)
	cancel()
	cancel()

	_, ok := <-ch
	assert.False(t, ok)
	require.NoError(t, s.Update(func(tx *Tx) error {
		tx.PutTracker(testTracker("t1"))
		return nil
	}))
}

func TestStore_CancelDuringConcurrentUpdates(t *testing.T) {
	s := New()
	stop := make(chan struct{})
	done := make(chan struct{})

	go func() {
		defer close(done)
		for i := 0; ; i++ {
			select {
			case <-stop:
				return
			default:
			}
			_ = s.Update(func(tx *Tx) error {
				id := fmt.Sprintf("t%d", i%8)
				tx.PutTracker(testTracker(id))
				tx.MarkTrackerDirty(id)
				return nil
			})
		}
	}()

	for i := 0; i < 20000; i++ {
		_, cancel := s.Subscribe(1)
		cancel()
	}
	close(stop)
	<-done

	// После отписки уведомлять некого
	require.NoError(t, s.Update(func(tx *Tx) error {
		tx.PutTracker(testTracker("last"))
		return nil
	}))
}

func TestStore_EncodeLoadRoundTrip(t *testing.T) {
	s := New()
	require.NoError(t, s.Update(func(tx *Tx) error {
		tr := testTracker("t1")
		tr.Version = 3
		tr.BaseVersion = 3
		tx.PutTracker(tr)
		e := testEntry("2024-03-01", "t1", 7)
		e.SetBase(2)
		tx.PutEntry(e)
		tx.MarkEntryDirty(e.Key)
		tx.SetMetadata(Metadata{ClientID: "c-1", LastSyncTime: "2024-03-01T10:00:00.000000Z", Registered: true})
		tx.AddConflict(&models.Conflict{Type: models.EntityTracker, ID: "t1"})
		return nil
	}))

	config, err := s.EncodeConfig()
	require.NoError(t, err)
	days, err := s.EncodeDays()
	require.NoError(t, err)
	meta, err := s.EncodeMetadata()
	require.NoError(t, err)

	restored := New()
	require.NoError(t, restored.Load(config, days, meta))

	assert.Equal(t, s.Trackers(), restored.Trackers())
	assert.Equal(t, s.Entries(), restored.Entries())
	assert.Equal(t, s.Metadata(), restored.Metadata())
	_, entries := restored.DirtyCounts()
	assert.Equal(t, 1, entries)
	assert.Empty(t, restored.Conflicts())
}

func TestStore_LoadEmpty(t *testing.T) {
	s := New()
	require.NoError(t, s.Load(nil, nil, nil))
	assert.Equal(t, StatusNoData, s.Status())
	assert.Empty(t, s.Trackers())
}

func TestStore_LoadCorrupted(t *testing.T) {
	s := New()
	assert.Error(t, s.Load([]byte("{"), nil, nil))
	assert.Error(t, s.Load(nil, []byte("[1]"), nil))
	assert.Error(t, s.Load(nil, nil, []byte(`{"dirty":{"entries":["bad"]}}`)))
}
