package sync_test

import (
	"context"
	"log/slog"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	clientapi "github.com/iudanet/habitsync/internal/client/api"
	"github.com/iudanet/habitsync/internal/client/state"
	"github.com/iudanet/habitsync/internal/client/storage"
	clientsync "github.com/iudanet/habitsync/internal/client/sync"
	"github.com/iudanet/habitsync/internal/models"
	"github.com/iudanet/habitsync/internal/server/arbiter"
	"github.com/iudanet/habitsync/internal/server/handlers"
	"github.com/iudanet/habitsync/internal/server/notify"
	"github.com/iudanet/habitsync/internal/server/storage/sqlite"
)

func e2eLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

// startServer поднимает сервер синхронизации на sqlite в памяти
func startServer(t *testing.T) *httptest.Server {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	logger := e2eLogger()

	store, err := sqlite.New(ctx, ":memory:")
	require.NoError(t, err)

	hub := notify.NewHub(logger, notify.DefaultOptions())
	go hub.Run(ctx)

	arb, err := arbiter.New(ctx, store, logger, arbiter.Options{Notifier: hub})
	require.NoError(t, err)

	router := handlers.Router{
		Sync:   handlers.NewSyncHandler(logger, arb),
		Health: handlers.NewHealthHandler(logger, "test"),
		Notify: handlers.NewNotifyHandler(logger, hub),
	}
	srv := httptest.NewServer(router.Handler())

	t.Cleanup(func() {
		srv.Close()
		cancel()
		_ = store.Close()
	})
	return srv
}

// startClient открывает движок клиента, подключённый к srv
func startClient(t *testing.T, srv *httptest.Server, name string) (*clientsync.Engine, *clientapi.Client) {
	t.Helper()
	apiClient := clientapi.NewClient(srv.URL)
	e := clientsync.NewEngine(apiClient, clientapi.NewProbe(apiClient, time.Second), storage.NewMemory(), e2eLogger(),
		clientsync.Options{ClientName: name})
	require.NoError(t, e.Open(context.Background()))
	t.Cleanup(func() {
		_ = e.Close(context.Background())
	})
	return e, apiClient
}

func mustSync(t *testing.T, e *clientsync.Engine) *clientsync.Result {
	t.Helper()
	result, err := e.TriggerSync(context.Background())
	require.NoError(t, err)
	return result
}

func TestEndToEnd_TrackerConflictIsAllOrNothing(t *testing.T) {
	ctx := context.Background()
	srv := startServer(t)
	clientA, _ := startClient(t, srv, "phone")
	clientB, _ := startClient(t, srv, "laptop")

	// A создает трекер, сервер присваивает версию 1
	_, err := clientA.UpsertTracker(clientsync.TrackerInput{ID: "run", Name: "Run", Category: "fitness", Kind: models.KindSimple})
	require.NoError(t, err)
	tr, _ := clientA.Tracker("run")
	assert.Equal(t, int64(0), tr.Version)

	mustSync(t, clientA)
	tr, _ = clientA.Tracker("run")
	require.Equal(t, int64(1), tr.Version)

	mustSync(t, clientB)
	tr, ok := clientB.Tracker("run")
	require.True(t, ok)
	require.Equal(t, int64(1), tr.BaseVersion)

	// B офлайн меняет имя, A меняет категорию и синхронизируется первым
	_, err = clientB.UpsertTracker(clientsync.TrackerInput{ID: "run", Name: "Morning run", Category: "fitness", Kind: models.KindSimple})
	require.NoError(t, err)
	_, err = clientA.UpsertTracker(clientsync.TrackerInput{ID: "run", Name: "Run", Category: "health", Kind: models.KindSimple})
	require.NoError(t, err)

	mustSync(t, clientA)
	tr, _ = clientA.Tracker("run")
	require.Equal(t, int64(2), tr.Version)

	// B видит более новую версию при dirty записи: конфликт без автослияния
	result := mustSync(t, clientB)
	assert.Equal(t, state.StatusHasConflicts, result.Status)
	assert.Zero(t, result.Uploaded)

	pending := clientB.PendingConflicts()
	require.Len(t, pending, 1)
	assert.Equal(t, models.EntityTracker, pending[0].Type)
	assert.False(t, pending[0].AutoResolvable)
	assert.Nil(t, pending[0].Merged)

	require.NoError(t, clientB.Resolve(ctx, pending[0].Key(), models.UseLocal))
	assert.Empty(t, clientB.PendingConflicts())
	trackers, entries := clientB.DirtyCounts()
	assert.Zero(t, trackers+entries)

	tr, _ = clientB.Tracker("run")
	assert.Equal(t, int64(3), tr.Version)
	assert.Equal(t, int64(3), tr.BaseVersion)

	// Категория A потеряна: слияние трекеров не выполняется
	mustSync(t, clientA)
	tr, _ = clientA.Tracker("run")
	assert.Equal(t, int64(3), tr.Version)
	assert.Equal(t, "Morning run", tr.Name)
	assert.Equal(t, "fitness", tr.Category)
}

func TestEndToEnd_EntryAutoMerge(t *testing.T) {
	srv := startServer(t)
	clientA, _ := startClient(t, srv, "phone")
	clientB, _ := startClient(t, srv, "laptop")

	key := models.EntryKey{Date: time.Now().Format(models.DateLayout), TrackerID: "water"}

	_, err := clientA.UpsertTracker(clientsync.TrackerInput{ID: "water", Name: "Water", Kind: models.KindQuantifiable})
	require.NoError(t, err)
	_, err = clientA.UpsertEntry(key, models.Float(10), models.Bool(false))
	require.NoError(t, err)
	mustSync(t, clientA)
	mustSync(t, clientB)

	_, err = clientA.UpsertEntry(key, models.Float(10), models.Bool(true))
	require.NoError(t, err)
	_, err = clientB.UpsertEntry(key, models.Float(20), models.Bool(false))
	require.NoError(t, err)

	mustSync(t, clientA)

	result := mustSync(t, clientB)
	assert.Equal(t, 1, result.AutoMerged)
	assert.Equal(t, state.StatusSynced, result.Status)
	assert.Empty(t, clientB.PendingConflicts())

	en, ok := clientB.Entry(key)
	require.True(t, ok)
	assert.Equal(t, 20.0, *en.Value)
	assert.True(t, *en.Completed)
	assert.Equal(t, int64(3), en.Version)

	mustSync(t, clientA)
	en, ok = clientA.Entry(key)
	require.True(t, ok)
	assert.Equal(t, 20.0, *en.Value)
	assert.True(t, *en.Completed)
	assert.Equal(t, int64(3), en.Version)
}

func TestEndToEnd_RoundTripDeltaIsEmpty(t *testing.T) {
	ctx := context.Background()
	srv := startServer(t)
	clientA, apiA := startClient(t, srv, "phone")
	clientB, _ := startClient(t, srv, "laptop")

	_, err := clientB.UpsertTracker(clientsync.TrackerInput{ID: "read", Name: "Read", Kind: models.KindEvaluation})
	require.NoError(t, err)
	mustSync(t, clientB)

	result := mustSync(t, clientA)
	require.Equal(t, clientsync.ModeFull, result.Mode)
	require.NotEmpty(t, result.ServerTime)

	delta, err := apiA.DeltaSync(ctx, result.ServerTime, clientA.ClientID())
	require.NoError(t, err)
	assert.Empty(t, delta.Config)
	assert.Zero(t, delta.Days.Len())
	assert.Empty(t, delta.DeletedTrackers)

	again := mustSync(t, clientA)
	assert.Equal(t, clientsync.ModeDelta, again.Mode)
	assert.Zero(t, again.Pulled)
	assert.Zero(t, again.Conflicts)
	assert.Equal(t, state.StatusSynced, again.Status)
}

func TestEndToEnd_UseRemoteConverges(t *testing.T) {
	ctx := context.Background()
	srv := startServer(t)
	clientA, _ := startClient(t, srv, "phone")
	clientB, _ := startClient(t, srv, "laptop")

	_, err := clientA.UpsertTracker(clientsync.TrackerInput{ID: "yoga", Name: "Yoga", Category: "fitness", Kind: models.KindSimple})
	require.NoError(t, err)
	mustSync(t, clientA)
	mustSync(t, clientB)

	_, err = clientA.UpsertTracker(clientsync.TrackerInput{ID: "yoga", Name: "Yoga", Category: "mind", Kind: models.KindSimple})
	require.NoError(t, err)
	_, err = clientB.UpsertTracker(clientsync.TrackerInput{ID: "yoga", Name: "Stretching", Category: "fitness", Kind: models.KindSimple})
	require.NoError(t, err)
	mustSync(t, clientA)
	mustSync(t, clientB)
	require.Len(t, clientB.PendingConflicts(), 1)

	resolved, err := clientB.ResolveAll(ctx, models.UseRemote)
	require.NoError(t, err)
	assert.Equal(t, 1, resolved)
	assert.Empty(t, clientB.PendingConflicts())
	trackers, entries := clientB.DirtyCounts()
	assert.Zero(t, trackers+entries)

	a, _ := clientA.Tracker("yoga")
	b, _ := clientB.Tracker("yoga")
	assert.Equal(t, a.Version, b.Version)
	assert.Equal(t, a.Name, b.Name)
	assert.Equal(t, "mind", b.Category)
}
