package sync

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/habitsync/internal/client/state"
	"github.com/iudanet/habitsync/internal/client/storage"
	"github.com/iudanet/habitsync/internal/models"
	"github.com/iudanet/habitsync/pkg/api"
)

var testNow = time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

const (
	seedTime  = "2024-03-10T11:00:00.000000Z"
	deltaTime = "2024-03-10T11:30:00.000000Z"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func online() *ConnectivityMock {
	return &ConnectivityMock{OnlineFunc: func(ctx context.Context) bool { return true }}
}

func registerOK(ctx context.Context, req api.RegisterRequest) (*api.RegisterResponse, error) {
	return &api.RegisterResponse{Status: "registered", ClientID: req.ClientID}, nil
}

func emptyDelta(ctx context.Context, since, clientID string) (*api.DeltaSyncResponse, error) {
	return &api.DeltaSyncResponse{Config: []api.Tracker{}, Days: api.Days{}, ServerTime: deltaTime}, nil
}

func newTestEngine(t *testing.T, client *ClientAPIMock, kv storage.KV, opts Options) *Engine {
	t.Helper()
	if kv == nil {
		kv = storage.NewMemory()
	}
	opts.Now = func() time.Time { return testNow }
	e := NewEngine(client, online(), kv, testLogger(), opts)
	require.NoError(t, e.Open(context.Background()))
	t.Cleanup(func() {
		_ = e.Close(context.Background())
	})
	return e
}

// seedSnapshot трекер t1 (v1) и отметка за 2024-03-09 {10, false} (v1)
func seedSnapshot() *api.FullSyncResponse {
	return &api.FullSyncResponse{
		Config: []api.Tracker{
			{ID: "t1", Name: "Run", Category: "fitness", Type: "simple", Version: 1},
			{ID: "t2", Name: "Read", Category: "mind", Type: "quantifiable", Version: 1},
		},
		Days: api.Days{
			"2024-03-09": {"t1": {Value: models.Float(10), Completed: models.Bool(false), Version: 1}},
		},
		ServerTime: seedTime,
	}
}

// seed выполняет первую полную синхронизацию
func seed(t *testing.T, e *Engine, client *ClientAPIMock, full *api.FullSyncResponse) {
	t.Helper()
	client.RegisterFunc = registerOK
	client.FullSyncFunc = func(ctx context.Context) (*api.FullSyncResponse, error) { return full, nil }

	result, err := e.TriggerSync(context.Background())
	require.NoError(t, err)
	require.Equal(t, ModeFull, result.Mode)
	require.Equal(t, state.StatusSynced, e.Status())
}

var entryKey = models.EntryKey{Date: "2024-03-09", TrackerID: "t1"}

func TestEngine_OpenGeneratesAndKeepsClientID(t *testing.T) {
	kv := storage.NewMemory()
	e := NewEngine(&ClientAPIMock{}, online(), kv, testLogger(), Options{})
	require.NoError(t, e.Open(context.Background()))
	clientID := e.ClientID()
	require.NotEmpty(t, clientID)
	assert.Equal(t, state.StatusNoData, e.Status())
	require.NoError(t, e.Close(context.Background()))

	reopened := NewEngine(&ClientAPIMock{}, online(), kv, testLogger(), Options{})
	require.NoError(t, reopened.Open(context.Background()))
	defer func() {
		_ = reopened.Close(context.Background())
	}()
	assert.Equal(t, clientID, reopened.ClientID())
}

func TestEngine_OpenFailsOnStorageError(t *testing.T) {
	kv := &storage.KVMock{
		GetFunc: func(ctx context.Context, key string) ([]byte, error) {
			return nil, errors.New("disk failure")
		},
		SetFunc: func(ctx context.Context, key string, value []byte) error { return nil },
	}
	e := NewEngine(&ClientAPIMock{}, online(), kv, testLogger(), Options{})
	defer func() {
		_ = e.Close(context.Background())
	}()

	err := e.Open(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk failure")
}

func TestEngine_TriggerSync_NotOpen(t *testing.T) {
	e := NewEngine(&ClientAPIMock{}, online(), storage.NewMemory(), testLogger(), Options{})
	defer func() {
		_ = e.Close(context.Background())
	}()

	_, err := e.TriggerSync(context.Background())
	assert.ErrorIs(t, err, ErrNotOpen)
}

func TestEngine_TriggerSync_Offline(t *testing.T) {
	client := &ClientAPIMock{}
	kv := storage.NewMemory()
	e := NewEngine(client, &ConnectivityMock{OnlineFunc: func(ctx context.Context) bool { return false }},
		kv, testLogger(), Options{Now: func() time.Time { return testNow }})
	require.NoError(t, e.Open(context.Background()))
	defer func() {
		_ = e.Close(context.Background())
	}()

	_, err := e.UpsertTracker(TrackerInput{ID: "t1", Name: "Run"})
	require.NoError(t, err)

	result, err := e.TriggerSync(context.Background())

	require.ErrorIs(t, err, ErrOffline)
	assert.Nil(t, result)
	assert.Equal(t, state.StatusDirty, e.Status())
	assert.Empty(t, e.LastError())
	assert.Empty(t, client.RegisterCalls())
}

func TestEngine_FirstSyncIsFullThenDelta(t *testing.T) {
	client := &ClientAPIMock{}
	e := newTestEngine(t, client, nil, Options{ClientName: "laptop"})

	seed(t, e, client, seedSnapshot())

	require.Len(t, client.RegisterCalls(), 1)
	assert.Equal(t, e.ClientID(), client.RegisterCalls()[0].Req.ClientID)
	assert.Equal(t, "laptop", client.RegisterCalls()[0].Req.ClientName)
	assert.Equal(t, seedTime, e.LastSyncTime())

	tr, ok := e.Tracker("t1")
	require.True(t, ok)
	assert.Equal(t, int64(1), tr.Version)
	assert.Equal(t, int64(1), tr.BaseVersion)

	en, ok := e.Entry(entryKey)
	require.True(t, ok)
	assert.True(t, en.HasBase)
	assert.InDelta(t, 10.0, *en.BaseValue, 0)

	client.DeltaSyncFunc = emptyDelta
	result, err := e.TriggerSync(context.Background())
	require.NoError(t, err)

	assert.Equal(t, ModeDelta, result.Mode)
	require.Len(t, client.DeltaSyncCalls(), 1)
	assert.Equal(t, seedTime, client.DeltaSyncCalls()[0].Since)
	assert.Equal(t, e.ClientID(), client.DeltaSyncCalls()[0].ClientID)
	assert.Len(t, client.RegisterCalls(), 1, "registration happens once")
	assert.Empty(t, client.SubmitCalls(), "nothing to upload")
	assert.Equal(t, deltaTime, e.LastSyncTime())
}

func TestEngine_AdoptsCleanRemoteChanges(t *testing.T) {
	client := &ClientAPIMock{}
	e := newTestEngine(t, client, nil, Options{})
	seed(t, e, client, seedSnapshot())

	client.DeltaSyncFunc = func(ctx context.Context, since, clientID string) (*api.DeltaSyncResponse, error) {
		return &api.DeltaSyncResponse{
			Config: []api.Tracker{{ID: "t1", Name: "Run 5k", Category: "fitness", Type: "simple", Version: 2}},
			Days: api.Days{
				"2024-03-09": {"t1": {Value: models.Float(12), Completed: models.Bool(true), Version: 2}},
			},
			ServerTime: deltaTime,
		}, nil
	}

	result, err := e.TriggerSync(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, result.Adopted)
	tr, _ := e.Tracker("t1")
	assert.Equal(t, "Run 5k", tr.Name)
	assert.Equal(t, int64(2), tr.BaseVersion)
	en, _ := e.Entry(entryKey)
	assert.InDelta(t, 12.0, *en.Value, 0)
	assert.Equal(t, int64(2), en.BaseVersion)
	assert.Equal(t, state.StatusSynced, result.Status)
}

func TestEngine_DetectedConflictBlocksUpload(t *testing.T) {
	client := &ClientAPIMock{}
	e := newTestEngine(t, client, nil, Options{})
	seed(t, e, client, seedSnapshot())

	_, err := e.UpsertTracker(TrackerInput{ID: "t1", Name: "Run daily", Category: "fitness", Kind: models.KindSimple})
	require.NoError(t, err)
	_, err = e.UpsertEntry(models.EntryKey{Date: "2024-03-09", TrackerID: "t2"}, models.Float(30), nil)
	require.NoError(t, err)

	client.DeltaSyncFunc = func(ctx context.Context, since, clientID string) (*api.DeltaSyncResponse, error) {
		return &api.DeltaSyncResponse{
			Config: []api.Tracker{{ID: "t1", Name: "Run", Category: "health", Type: "simple", Version: 2}},
			Days: api.Days{
				// Не dirty, но не должна применяться, пока есть конфликт
				"2024-03-09": {"t1": {Value: models.Float(11), Completed: models.Bool(false), Version: 2}},
			},
			ServerTime: deltaTime,
		}, nil
	}

	result, err := e.TriggerSync(context.Background())
	require.NoError(t, err)

	assert.Equal(t, state.StatusHasConflicts, result.Status)
	assert.Equal(t, 1, result.Conflicts)
	assert.Empty(t, client.SubmitCalls(), "no upload while conflicts are pending")
	assert.Equal(t, seedTime, e.LastSyncTime(), "last sync time is not advanced")

	conflicts := e.PendingConflicts()
	require.Len(t, conflicts, 1)
	assert.Equal(t, models.EntityTracker, conflicts[0].Type)
	assert.Equal(t, "t1", conflicts[0].ID)
	assert.False(t, conflicts[0].AutoResolvable)
	assert.Equal(t, models.SourceDetected, conflicts[0].Source)
	assert.Equal(t, "health", conflicts[0].ServerTracker.Category)

	tr, _ := e.Tracker("t1")
	assert.Equal(t, "Run daily", tr.Name)
	en, _ := e.Entry(entryKey)
	assert.InDelta(t, 10.0, *en.Value, 0)

	// Повторная синхронизация не дублирует конфликт
	_, err = e.TriggerSync(context.Background())
	require.NoError(t, err)
	assert.Len(t, e.PendingConflicts(), 1)
	assert.Empty(t, client.SubmitCalls())
}

func TestEngine_StaleRemoteIsNotAConflict(t *testing.T) {
	client := &ClientAPIMock{}
	e := newTestEngine(t, client, nil, Options{})
	seed(t, e, client, seedSnapshot())

	_, err := e.UpsertTracker(TrackerInput{ID: "t1", Name: "Run daily", Kind: models.KindSimple})
	require.NoError(t, err)

	client.DeltaSyncFunc = func(ctx context.Context, since, clientID string) (*api.DeltaSyncResponse, error) {
		return &api.DeltaSyncResponse{
			Config:     []api.Tracker{{ID: "t1", Name: "Run", Type: "simple", Version: 1}},
			Days:       api.Days{},
			ServerTime: deltaTime,
		}, nil
	}
	client.SubmitFunc = func(ctx context.Context, req api.SyncRequest) (*api.SyncResponse, error) {
		require.Len(t, req.Config, 1)
		assert.Equal(t, "Run daily", req.Config[0].Name)
		assert.Equal(t, int64(1), req.Config[0].BaseVersion)
		return &api.SyncResponse{Success: true, AppliedConfig: []api.AppliedTracker{{ID: "t1", Version: 2}}}, nil
	}

	result, err := e.TriggerSync(context.Background())
	require.NoError(t, err)

	assert.Zero(t, result.Conflicts)
	assert.Equal(t, 1, result.Accepted)
	tr, _ := e.Tracker("t1")
	assert.Equal(t, "Run daily", tr.Name)
	assert.Equal(t, int64(2), tr.Version)
	assert.Equal(t, state.StatusSynced, e.Status())
}

func TestEngine_AutoMergeIsAppliedAndUploaded(t *testing.T) {
	client := &ClientAPIMock{}
	e := newTestEngine(t, client, nil, Options{})
	seed(t, e, client, seedSnapshot())

	// База {10, false}, локально меняем value
	_, err := e.UpsertEntry(entryKey, models.Float(20), nil)
	require.NoError(t, err)

	client.DeltaSyncFunc = func(ctx context.Context, since, clientID string) (*api.DeltaSyncResponse, error) {
		return &api.DeltaSyncResponse{
			Days: api.Days{
				"2024-03-09": {"t1": {Value: models.Float(10), Completed: models.Bool(true), Version: 2}},
			},
			ServerTime: deltaTime,
		}, nil
	}
	client.SubmitFunc = func(ctx context.Context, req api.SyncRequest) (*api.SyncResponse, error) {
		sent := req.Days["2024-03-09"]["t1"]
		assert.InDelta(t, 20.0, *sent.Value, 0)
		assert.True(t, *sent.Completed)
		assert.Equal(t, int64(2), sent.BaseVersion)

		applied := api.Days{}
		applied.Put("2024-03-09", "t1", api.Entry{Version: 3})
		return &api.SyncResponse{Success: true, AppliedDays: applied, LastModified: deltaTime}, nil
	}

	result, err := e.TriggerSync(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, result.AutoMerged)
	assert.Zero(t, result.Conflicts)
	assert.Empty(t, e.PendingConflicts())

	en, _ := e.Entry(entryKey)
	assert.InDelta(t, 20.0, *en.Value, 0)
	assert.True(t, *en.Completed)
	assert.Equal(t, int64(3), en.Version)
	assert.Equal(t, int64(3), en.BaseVersion)
	assert.InDelta(t, 20.0, *en.BaseValue, 0)
	assert.True(t, *en.BaseCompleted)

	trackers, entries := e.DirtyCounts()
	assert.Zero(t, trackers)
	assert.Zero(t, entries)
}

func TestEngine_SameFieldChangeEscalates(t *testing.T) {
	client := &ClientAPIMock{}
	e := newTestEngine(t, client, nil, Options{})
	seed(t, e, client, seedSnapshot())

	_, err := e.UpsertEntry(entryKey, models.Float(20), nil)
	require.NoError(t, err)

	client.DeltaSyncFunc = func(ctx context.Context, since, clientID string) (*api.DeltaSyncResponse, error) {
		return &api.DeltaSyncResponse{
			Days:       api.Days{"2024-03-09": {"t1": {Value: models.Float(15), Completed: models.Bool(false), Version: 2}}},
			ServerTime: deltaTime,
		}, nil
	}

	result, err := e.TriggerSync(context.Background())
	require.NoError(t, err)

	require.Equal(t, 1, result.Conflicts)
	c := e.PendingConflicts()[0]
	assert.Equal(t, models.EntityEntry, c.Type)
	assert.Equal(t, "2024-03-09|t1", c.ID)
	assert.Nil(t, c.Merged)
	assert.False(t, c.AutoResolvable)
}

func TestEngine_PartialSuccessKeepsRejectedDirty(t *testing.T) {
	client := &ClientAPIMock{}
	e := newTestEngine(t, client, nil, Options{})
	seed(t, e, client, seedSnapshot())

	var keys []models.EntryKey
	for _, date := range []string{"2024-03-04", "2024-03-05", "2024-03-06", "2024-03-07", "2024-03-08"} {
		for _, trackerID := range []string{"t1", "t2"} {
			key := models.EntryKey{Date: date, TrackerID: trackerID}
			_, err := e.UpsertEntry(key, models.Float(float64(len(keys))), nil)
			require.NoError(t, err)
			keys = append(keys, key)
		}
	}
	_, entries := e.DirtyCounts()
	require.Equal(t, 10, entries)

	accepted := keys[:7]
	client.DeltaSyncFunc = emptyDelta
	client.SubmitFunc = func(ctx context.Context, req api.SyncRequest) (*api.SyncResponse, error) {
		assert.Equal(t, 10, req.Days.Len())
		applied := api.Days{}
		for _, key := range accepted {
			applied.Put(key.Date, key.TrackerID, api.Entry{Version: 1})
		}
		return &api.SyncResponse{Success: true, AppliedDays: applied}, nil
	}

	result, err := e.TriggerSync(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 10, result.Uploaded)
	assert.Equal(t, 7, result.Accepted)
	_, entries = e.DirtyCounts()
	assert.Equal(t, 3, entries)

	for i, key := range keys {
		en, ok := e.Entry(key)
		require.True(t, ok)
		assert.InDelta(t, float64(i), *en.Value, 0, "content unchanged")
		if slices.Contains(accepted, key) {
			assert.Equal(t, int64(1), en.Version)
		} else {
			assert.Equal(t, int64(0), en.Version)
		}
	}
	assert.Equal(t, state.StatusDirty, e.Status())
}

func TestEngine_ServerStorageFailureKeepsRecordDirty(t *testing.T) {
	client := &ClientAPIMock{}
	e := newTestEngine(t, client, nil, Options{})
	seed(t, e, client, seedSnapshot())

	stored := models.EntryKey{Date: "2024-03-08", TrackerID: "t1"}
	failed := models.EntryKey{Date: "2024-03-08", TrackerID: "t2"}
	for _, key := range []models.EntryKey{stored, failed} {
		_, err := e.UpsertEntry(key, models.Float(4), nil)
		require.NoError(t, err)
	}

	client.DeltaSyncFunc = emptyDelta
	client.SubmitFunc = func(ctx context.Context, req api.SyncRequest) (*api.SyncResponse, error) {
		applied := api.Days{}
		applied.Put(stored.Date, stored.TrackerID, api.Entry{Version: 1})
		return &api.SyncResponse{
			AppliedDays: applied,
			Failed:      []api.FailedRecord{{EntityType: api.EntityEntry, EntityID: failed.String(), Error: "failed to store record"}},
		}, nil
	}

	result, err := e.TriggerSync(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Accepted)
	assert.Equal(t, 1, result.Failed)
	assert.Empty(t, e.PendingConflicts())

	_, entries := e.DirtyCounts()
	assert.Equal(t, 1, entries)
	en, ok := e.Entry(failed)
	require.True(t, ok)
	assert.Equal(t, int64(0), en.BaseVersion)
	assert.InDelta(t, 4.0, *en.Value, 0)
	assert.Equal(t, state.StatusDirty, e.Status())
}

func TestEngine_ServerRejectionBecomesConflict(t *testing.T) {
	client := &ClientAPIMock{}
	e := newTestEngine(t, client, nil, Options{})
	seed(t, e, client, seedSnapshot())

	_, err := e.UpsertTracker(TrackerInput{ID: "t1", Name: "Run daily", Kind: models.KindSimple})
	require.NoError(t, err)

	client.DeltaSyncFunc = emptyDelta
	client.SubmitFunc = func(ctx context.Context, req api.SyncRequest) (*api.SyncResponse, error) {
		serverData, _ := json.Marshal(api.Tracker{ID: "t1", Name: "Jog", Type: "simple", Version: 3})
		return &api.SyncResponse{
			Success: true,
			Conflicts: []api.ConflictInfo{{
				EntityType:        api.EntityTracker,
				EntityID:          "t1",
				ServerData:        serverData,
				ServerVersion:     3,
				ClientBaseVersion: 1,
			}},
		}, nil
	}

	result, err := e.TriggerSync(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, result.Rejected)
	assert.Equal(t, state.StatusHasConflicts, result.Status)
	conflicts := e.PendingConflicts()
	require.Len(t, conflicts, 1)
	assert.Equal(t, models.SourceServer, conflicts[0].Source)
	assert.Equal(t, int64(3), conflicts[0].ServerVersion())
	trackers, _ := e.DirtyCounts()
	assert.Equal(t, 1, trackers)
}

func TestEngine_ServerRejectedEntryAutoMerges(t *testing.T) {
	client := &ClientAPIMock{}
	e := newTestEngine(t, client, nil, Options{})
	seed(t, e, client, seedSnapshot())

	_, err := e.UpsertEntry(entryKey, models.Float(20), nil)
	require.NoError(t, err)

	client.DeltaSyncFunc = emptyDelta
	client.SubmitFunc = func(ctx context.Context, req api.SyncRequest) (*api.SyncResponse, error) {
		serverData, _ := json.Marshal(api.Entry{Value: models.Float(10), Completed: models.Bool(true), Version: 2})
		return &api.SyncResponse{
			Success: true,
			Conflicts: []api.ConflictInfo{{
				EntityType: api.EntityEntry, EntityID: "2024-03-09|t1",
				ServerData: serverData, ServerVersion: 2, ClientBaseVersion: 1,
			}},
		}, nil
	}

	result, err := e.TriggerSync(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, result.AutoMerged)
	assert.Empty(t, e.PendingConflicts())
	en, _ := e.Entry(entryKey)
	assert.InDelta(t, 20.0, *en.Value, 0)
	assert.True(t, *en.Completed)
	assert.Equal(t, int64(2), en.BaseVersion)
	_, entries := e.DirtyCounts()
	assert.Equal(t, 1, entries, "merged entry is uploaded on the next attempt")
}

func TestEngine_TransportFailureLeavesStateUntouched(t *testing.T) {
	tests := []struct {
		name   string
		op     string
		delta  func(ctx context.Context, since, clientID string) (*api.DeltaSyncResponse, error)
		submit func(ctx context.Context, req api.SyncRequest) (*api.SyncResponse, error)
	}{
		{
			name: "fetch fails",
			op:   "fetch",
			delta: func(ctx context.Context, since, clientID string) (*api.DeltaSyncResponse, error) {
				return nil, errors.New("connection reset")
			},
		},
		{
			name:  "upload fails",
			op:    "upload",
			delta: emptyDelta,
			submit: func(ctx context.Context, req api.SyncRequest) (*api.SyncResponse, error) {
				return nil, errors.New("server error (500)")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &ClientAPIMock{}
			e := newTestEngine(t, client, nil, Options{})
			seed(t, e, client, seedSnapshot())

			_, err := e.UpsertEntry(entryKey, models.Float(42), nil)
			require.NoError(t, err)
			before, _ := e.Entry(entryKey)

			client.DeltaSyncFunc = tt.delta
			client.SubmitFunc = tt.submit

			result, err := e.TriggerSync(context.Background())

			require.Error(t, err)
			assert.Nil(t, result)
			assert.True(t, IsTransport(err))
			var te *TransportError
			require.ErrorAs(t, err, &te)
			assert.Equal(t, tt.op, te.Op)

			after, _ := e.Entry(entryKey)
			assert.Equal(t, before, after)
			_, entries := e.DirtyCounts()
			assert.Equal(t, 1, entries)
			assert.Empty(t, e.PendingConflicts())
			assert.Equal(t, state.StatusDirty, e.Status())
			assert.NotEmpty(t, e.LastError())
		})
	}
}

func TestEngine_SingleFlight(t *testing.T) {
	client := &ClientAPIMock{}
	e := newTestEngine(t, client, nil, Options{})
	seed(t, e, client, seedSnapshot())

	started := make(chan struct{})
	release := make(chan struct{})
	client.DeltaSyncFunc = func(ctx context.Context, since, clientID string) (*api.DeltaSyncResponse, error) {
		close(started)
		<-release
		return emptyDelta(ctx, since, clientID)
	}

	done := make(chan error, 1)
	go func() {
		_, err := e.TriggerSync(context.Background())
		done <- err
	}()

	<-started
	assert.Equal(t, state.StatusSyncing, e.Status())

	_, err := e.TriggerSync(context.Background())
	assert.ErrorIs(t, err, ErrSyncInProgress)
	err = e.Resolve(context.Background(), models.ConflictKey{Type: models.EntityTracker, ID: "t1"}, models.UseRemote)
	assert.ErrorIs(t, err, ErrSyncInProgress)

	close(release)
	require.NoError(t, <-done)
	assert.Len(t, client.DeltaSyncCalls(), 1)
	assert.Equal(t, state.StatusSynced, e.Status())
}

// conflictingDelta сервер изменил и трекер t1, и отметку value, которые изменены локально
func conflictingDelta(ctx context.Context, since, clientID string) (*api.DeltaSyncResponse, error) {
	return &api.DeltaSyncResponse{
		Config: []api.Tracker{{ID: "t1", Name: "Run", Category: "health", Type: "simple", Version: 2}},
		Days: api.Days{
			"2024-03-09": {"t1": {Value: models.Float(15), Completed: models.Bool(false), Version: 2}},
		},
		ServerTime: deltaTime,
	}, nil
}

func TestEngine_ResolveAllUseRemoteConverges(t *testing.T) {
	client := &ClientAPIMock{}
	e := newTestEngine(t, client, nil, Options{})
	seed(t, e, client, seedSnapshot())

	_, err := e.UpsertTracker(TrackerInput{ID: "t1", Name: "Run daily", Category: "fitness", Kind: models.KindSimple})
	require.NoError(t, err)
	_, err = e.UpsertEntry(entryKey, models.Float(20), nil)
	require.NoError(t, err)

	client.DeltaSyncFunc = conflictingDelta
	_, err = e.TriggerSync(context.Background())
	require.NoError(t, err)
	require.Len(t, e.PendingConflicts(), 2)

	remote, _ := conflictingDelta(context.Background(), "", "")
	client.DeltaSyncFunc = emptyDelta

	resolved, err := e.ResolveAll(context.Background(), models.UseRemote)
	require.NoError(t, err)

	assert.Equal(t, 2, resolved)
	assert.Empty(t, e.PendingConflicts())
	trackers, entries := e.DirtyCounts()
	assert.Zero(t, trackers)
	assert.Zero(t, entries)
	assert.Empty(t, client.ResolveConflictCalls(), "useRemote is local only")
	assert.Empty(t, client.SubmitCalls())
	assert.Len(t, client.DeltaSyncCalls(), 2, "resolving the last conflict triggers a sync")

	wantTracker, err := trackerFromAPI(remote.Config[0])
	require.NoError(t, err)
	gotTracker, _ := e.Tracker("t1")
	assert.Equal(t, wantTracker, gotTracker)

	wantEntry := entryFromAPI(entryKey, remote.Days["2024-03-09"]["t1"])
	gotEntry, _ := e.Entry(entryKey)
	assert.Equal(t, wantEntry, gotEntry)
	assert.Equal(t, state.StatusSynced, e.Status())
}

func TestEngine_ResolveUseLocalForcePushes(t *testing.T) {
	client := &ClientAPIMock{}
	e := newTestEngine(t, client, nil, Options{})
	seed(t, e, client, seedSnapshot())

	_, err := e.UpsertTracker(TrackerInput{ID: "t1", Name: "Run daily", Category: "fitness", Kind: models.KindSimple})
	require.NoError(t, err)

	client.DeltaSyncFunc = func(ctx context.Context, since, clientID string) (*api.DeltaSyncResponse, error) {
		return &api.DeltaSyncResponse{
			Config:     []api.Tracker{{ID: "t1", Name: "Run", Category: "health", Type: "simple", Version: 2}},
			ServerTime: deltaTime,
		}, nil
	}
	_, err = e.TriggerSync(context.Background())
	require.NoError(t, err)
	require.Len(t, e.PendingConflicts(), 1)

	client.ResolveConflictFunc = func(ctx context.Context, req api.ResolveConflictRequest) (*api.ResolveConflictResponse, error) {
		return &api.ResolveConflictResponse{Status: "resolved", Resolution: req.Resolution, EntityID: req.EntityID, Version: 3}, nil
	}
	client.DeltaSyncFunc = emptyDelta

	err = e.Resolve(context.Background(), models.ConflictKey{Type: models.EntityTracker, ID: "t1"}, models.UseLocal)
	require.NoError(t, err)

	require.Len(t, client.ResolveConflictCalls(), 1)
	req := client.ResolveConflictCalls()[0].Req
	assert.Equal(t, api.EntityTracker, req.EntityType)
	assert.Equal(t, "t1", req.EntityID)
	assert.Equal(t, api.ResolutionClient, req.Resolution)
	assert.Equal(t, e.ClientID(), req.ClientID)

	var sent api.Tracker
	require.NoError(t, json.Unmarshal(req.ClientData, &sent))
	assert.Equal(t, "Run daily", sent.Name)
	// Слияния трекеров нет: категория возвращается к локальной копии
	assert.Equal(t, "fitness", sent.Category)

	tr, _ := e.Tracker("t1")
	assert.Equal(t, int64(3), tr.Version)
	assert.Equal(t, int64(3), tr.BaseVersion)
	assert.Equal(t, "fitness", tr.Category)
	assert.Empty(t, e.PendingConflicts())
	trackers, _ := e.DirtyCounts()
	assert.Zero(t, trackers)
	assert.Empty(t, client.SubmitCalls())
	assert.Len(t, client.DeltaSyncCalls(), 2)
}

func TestEngine_ResolveUseLocalFailureKeepsConflict(t *testing.T) {
	client := &ClientAPIMock{}
	e := newTestEngine(t, client, nil, Options{})
	seed(t, e, client, seedSnapshot())

	_, err := e.UpsertEntry(entryKey, models.Float(20), nil)
	require.NoError(t, err)
	client.DeltaSyncFunc = conflictingDelta
	_, err = e.TriggerSync(context.Background())
	require.NoError(t, err)

	// Трекер t1 не dirty, поэтому конфликт только по отметке
	require.Len(t, e.PendingConflicts(), 1)
	before, _ := e.Entry(entryKey)

	client.ResolveConflictFunc = func(ctx context.Context, req api.ResolveConflictRequest) (*api.ResolveConflictResponse, error) {
		return nil, errors.New("request failed: connection refused")
	}

	err = e.Resolve(context.Background(), models.ConflictKey{Type: models.EntityEntry, ID: "2024-03-09|t1"}, models.UseLocal)

	require.ErrorIs(t, err, ErrResolution)
	assert.Len(t, e.PendingConflicts(), 1)
	after, _ := e.Entry(entryKey)
	assert.Equal(t, before, after)
	_, entries := e.DirtyCounts()
	assert.Equal(t, 1, entries)
	assert.Len(t, client.DeltaSyncCalls(), 1, "no follow-up sync after failed resolution")
}

func TestEngine_ResolveUnknownConflict(t *testing.T) {
	client := &ClientAPIMock{}
	e := newTestEngine(t, client, nil, Options{})

	err := e.Resolve(context.Background(), models.ConflictKey{Type: models.EntityTracker, ID: "nope"}, models.UseRemote)
	assert.ErrorIs(t, err, ErrConflictNotFound)
}

func TestEngine_ResolveOneOfManyDoesNotResync(t *testing.T) {
	client := &ClientAPIMock{}
	e := newTestEngine(t, client, nil, Options{})
	seed(t, e, client, seedSnapshot())

	_, err := e.UpsertTracker(TrackerInput{ID: "t1", Name: "Run daily", Kind: models.KindSimple})
	require.NoError(t, err)
	_, err = e.UpsertEntry(entryKey, models.Float(20), nil)
	require.NoError(t, err)
	client.DeltaSyncFunc = conflictingDelta
	_, err = e.TriggerSync(context.Background())
	require.NoError(t, err)
	require.Len(t, e.PendingConflicts(), 2)

	err = e.Resolve(context.Background(), models.ConflictKey{Type: models.EntityTracker, ID: "t1"}, models.UseRemote)
	require.NoError(t, err)

	assert.Len(t, e.PendingConflicts(), 1)
	assert.Len(t, client.DeltaSyncCalls(), 1)
	assert.Equal(t, state.StatusHasConflicts, e.Status())
}

func TestEngine_DeleteTrackerLifecycle(t *testing.T) {
	client := &ClientAPIMock{}
	e := newTestEngine(t, client, nil, Options{})
	seed(t, e, client, seedSnapshot())

	// Трекер, не известный серверу, удаляется сразу
	_, err := e.UpsertTracker(TrackerInput{ID: "draft", Name: "Draft"})
	require.NoError(t, err)
	require.NoError(t, e.DeleteTracker("draft"))
	_, ok := e.Tracker("draft")
	assert.False(t, ok)
	trackers, _ := e.DirtyCounts()
	assert.Zero(t, trackers)

	require.NoError(t, e.DeleteTracker("t1"))
	tr, ok := e.Tracker("t1")
	require.True(t, ok)
	assert.Equal(t, models.StatePendingDelete, tr.State)
	for _, live := range e.Trackers() {
		assert.NotEqual(t, "t1", live.ID)
	}

	_, err = e.UpsertEntry(entryKey, models.Float(1), nil)
	assert.ErrorIs(t, err, ErrTrackerNotFound, "entries of deleted trackers are rejected")

	client.DeltaSyncFunc = emptyDelta
	client.SubmitFunc = func(ctx context.Context, req api.SyncRequest) (*api.SyncResponse, error) {
		require.Len(t, req.Config, 1)
		assert.True(t, req.Config[0].Deleted)
		return &api.SyncResponse{
			Success:       true,
			AppliedConfig: []api.AppliedTracker{{ID: "t1", Version: 2, Deleted: true}},
		}, nil
	}

	_, err = e.TriggerSync(context.Background())
	require.NoError(t, err)

	_, ok = e.Tracker("t1")
	assert.False(t, ok, "confirmed deletion is pruned")
	assert.ErrorIs(t, e.DeleteTracker("t1"), ErrTrackerNotFound)
}

func TestEngine_DeleteUnsyncedTrackerDropsItsEntries(t *testing.T) {
	client := &ClientAPIMock{}
	e := newTestEngine(t, client, nil, Options{})
	seed(t, e, client, seedSnapshot())

	_, err := e.UpsertTracker(TrackerInput{ID: "local", Name: "Local"})
	require.NoError(t, err)
	localKey := models.EntryKey{Date: "2024-03-09", TrackerID: "local"}
	_, err = e.UpsertEntry(localKey, nil, models.Bool(true))
	require.NoError(t, err)

	require.NoError(t, e.DeleteTracker("local"))
	_, ok := e.Entry(localKey)
	assert.False(t, ok)
	trackers, entries := e.DirtyCounts()
	assert.Zero(t, trackers)
	assert.Zero(t, entries)

	client.DeltaSyncFunc = emptyDelta
	client.SubmitFunc = func(ctx context.Context, req api.SyncRequest) (*api.SyncResponse, error) {
		t.Fatalf("nothing to upload, got %+v", req)
		return nil, nil
	}

	result, err := e.TriggerSync(context.Background())
	require.NoError(t, err)
	assert.Zero(t, result.Uploaded)
	assert.Empty(t, client.SubmitCalls())
}

func TestEngine_EntriesOfDeletedTrackerAreNotUploaded(t *testing.T) {
	client := &ClientAPIMock{}
	e := newTestEngine(t, client, nil, Options{})
	seed(t, e, client, seedSnapshot())

	_, err := e.UpsertEntry(entryKey, models.Float(11), nil)
	require.NoError(t, err)
	require.NoError(t, e.DeleteTracker("t1"))

	client.DeltaSyncFunc = emptyDelta
	client.SubmitFunc = func(ctx context.Context, req api.SyncRequest) (*api.SyncResponse, error) {
		require.Len(t, req.Config, 1)
		assert.Zero(t, req.Days.Len())
		return &api.SyncResponse{
			Success:       true,
			AppliedConfig: []api.AppliedTracker{{ID: "t1", Version: 2, Deleted: true}},
		}, nil
	}

	result, err := e.TriggerSync(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Uploaded)

	// Следующая попытка убирает отметку трекера, удаление которого подтверждено
	client.SubmitFunc = func(ctx context.Context, req api.SyncRequest) (*api.SyncResponse, error) {
		t.Fatalf("nothing to upload, got %+v", req)
		return nil, nil
	}
	_, err = e.TriggerSync(context.Background())
	require.NoError(t, err)

	_, ok := e.Entry(entryKey)
	assert.False(t, ok)
	trackers, entries := e.DirtyCounts()
	assert.Zero(t, trackers)
	assert.Zero(t, entries)
}

func TestEngine_RetentionPolicy(t *testing.T) {
	client := &ClientAPIMock{}
	e := newTestEngine(t, client, nil, Options{})

	full := seedSnapshot()
	full.Days.Put("2024-03-01", "t1", api.Entry{Completed: models.Bool(true), Version: 1})
	seed(t, e, client, full)

	_, ok := e.Entry(models.EntryKey{Date: "2024-03-01", TrackerID: "t1"})
	assert.False(t, ok, "entries older than the window are purged")
	_, ok = e.Entry(entryKey)
	assert.True(t, ok)

	// Старая dirty-отметка сохраняется до подтверждения сервером
	old := models.EntryKey{Date: "2024-02-20", TrackerID: "t2"}
	_, err := e.UpsertEntry(old, models.Float(3), nil)
	require.NoError(t, err)

	client.DeltaSyncFunc = func(ctx context.Context, since, clientID string) (*api.DeltaSyncResponse, error) {
		return &api.DeltaSyncResponse{DeletedTrackers: []string{"t1"}, ServerTime: deltaTime}, nil
	}
	client.SubmitFunc = func(ctx context.Context, req api.SyncRequest) (*api.SyncResponse, error) {
		return &api.SyncResponse{Success: true}, nil
	}

	result, err := e.TriggerSync(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, result.Purged)
	_, ok = e.Tracker("t1")
	assert.False(t, ok, "remote deletion is pruned")
	_, ok = e.Entry(old)
	assert.True(t, ok)
}

func TestEngine_MutationValidation(t *testing.T) {
	client := &ClientAPIMock{}
	e := newTestEngine(t, client, nil, Options{})

	_, err := e.UpsertTracker(TrackerInput{Name: ""})
	assert.Error(t, err)

	_, err = e.UpsertTracker(TrackerInput{ID: "bad id", Name: "Run"})
	assert.Error(t, err)

	_, err = e.UpsertTracker(TrackerInput{Name: "Run", Kind: "binary"})
	assert.Error(t, err)

	tr, err := e.UpsertTracker(TrackerInput{Name: "Run"})
	require.NoError(t, err)
	assert.NotEmpty(t, tr.ID)
	assert.Equal(t, models.KindSimple, tr.Kind)
	assert.Equal(t, e.ClientID(), tr.LastModifiedBy)

	_, err = e.UpsertEntry(models.EntryKey{Date: "2024-13-01", TrackerID: tr.ID}, models.Float(1), nil)
	assert.Error(t, err)

	_, err = e.UpsertEntry(models.EntryKey{Date: "2024-03-10", TrackerID: "missing"}, models.Float(1), nil)
	assert.ErrorIs(t, err, ErrTrackerNotFound)

	en, err := e.UpsertEntry(models.EntryKey{Date: "2024-03-10", TrackerID: tr.ID}, nil, models.Bool(true))
	require.NoError(t, err)
	assert.Nil(t, en.Value)
	assert.True(t, *en.Completed)
	assert.False(t, en.HasBase)

	assert.Empty(t, client.RegisterCalls(), "mutations never use the network")
}

func TestEngine_StatePersistsAcrossRestart(t *testing.T) {
	kv := storage.NewMemory()
	client := &ClientAPIMock{}
	e := NewEngine(client, online(), kv, testLogger(), Options{Now: func() time.Time { return testNow }})
	require.NoError(t, e.Open(context.Background()))

	_, err := e.UpsertTracker(TrackerInput{ID: "t1", Name: "Run"})
	require.NoError(t, err)
	_, err = e.UpsertEntry(models.EntryKey{Date: "2024-03-10", TrackerID: "t1"}, models.Float(5), nil)
	require.NoError(t, err)
	clientID := e.ClientID()
	require.NoError(t, e.Close(context.Background()))

	for _, key := range []string{storage.KeyConfig, storage.KeyDays, storage.KeyMetadata} {
		_, err := kv.Get(context.Background(), key)
		require.NoError(t, err, key)
	}

	reopened := newTestEngine(t, client, kv, Options{})
	assert.Equal(t, clientID, reopened.ClientID())
	trackers, entries := reopened.DirtyCounts()
	assert.Equal(t, 1, trackers)
	assert.Equal(t, 1, entries)
	assert.Equal(t, state.StatusDirty, reopened.Status())
}

func TestEngine_SubscribeSeesAtomicBatches(t *testing.T) {
	client := &ClientAPIMock{}
	e := newTestEngine(t, client, nil, Options{})

	changes, cancel := e.Subscribe(8)
	defer cancel()

	_, err := e.UpsertTracker(TrackerInput{ID: "t1", Name: "Run"})
	require.NoError(t, err)

	change := <-changes
	assert.Equal(t, []string{"t1"}, change.Trackers)
	assert.True(t, change.Dirty)
	assert.Equal(t, state.StatusDirty, change.Status)
}

func TestEngine_RemoteConflicts(t *testing.T) {
	client := &ClientAPIMock{
		ListConflictsFunc: func(ctx context.Context, clientID string) (*api.ConflictsResponse, error) {
			return &api.ConflictsResponse{Conflicts: []api.ConflictRecord{{ID: 1, EntityType: "tracker", EntityID: "t1"}}}, nil
		},
	}
	e := newTestEngine(t, client, nil, Options{})

	records, err := e.RemoteConflicts(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, e.ClientID(), client.ListConflictsCalls()[0].ClientID)
}

func TestEngine_WatchSyncsOnForeignNotifications(t *testing.T) {
	notifications := make(chan api.Notification, 4)
	notifier := &NotifierMock{
		NotificationsFunc: func(ctx context.Context, clientID string) (<-chan api.Notification, error) {
			return notifications, nil
		},
	}
	client := &ClientAPIMock{}
	e := newTestEngine(t, client, nil, Options{Notifier: notifier})
	seed(t, e, client, seedSnapshot())

	deltas := make(chan struct{}, 8)
	client.DeltaSyncFunc = func(ctx context.Context, since, clientID string) (*api.DeltaSyncResponse, error) {
		deltas <- struct{}{}
		return emptyDelta(ctx, since, clientID)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- e.Watch(ctx, time.Hour)
	}()

	waitDelta := func() {
		t.Helper()
		select {
		case <-deltas:
		case <-time.After(2 * time.Second):
			t.Fatal("sync was not triggered")
		}
	}

	waitDelta() // синхронизация при старте

	notifications <- api.Notification{Type: api.NotificationChanged, ClientID: e.ClientID()}
	notifications <- api.Notification{Type: api.NotificationChanged, ClientID: "other-client"}
	waitDelta()

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
	assert.Len(t, client.DeltaSyncCalls(), 2, "own notifications are ignored")
	require.Len(t, notifier.NotificationsCalls(), 1)
	assert.Equal(t, e.ClientID(), notifier.NotificationsCalls()[0].ClientID)
}
