package persist

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/habitsync/internal/client/storage"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestWriter_FlushWritesScheduledValues(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemory()
	w := New(kv, testLogger())
	defer w.Close(ctx)

	w.Schedule(storage.KeyConfig, []byte("config"))
	w.Schedule(storage.KeyMetadata, []byte("meta"))
	require.NoError(t, w.Flush(ctx))

	got, err := kv.Get(ctx, storage.KeyConfig)
	require.NoError(t, err)
	assert.Equal(t, []byte("config"), got)

	got, err = kv.Get(ctx, storage.KeyMetadata)
	require.NoError(t, err)
	assert.Equal(t, []byte("meta"), got)
	assert.Zero(t, w.Pending())
}

func TestWriter_CoalescesByKey(t *testing.T) {
	ctx := context.Background()

	var mu sync.Mutex
	var writes []string
	kv := &storage.KVMock{
		SetFunc: func(ctx context.Context, key string, value []byte) error {
			mu.Lock()
			defer mu.Unlock()
			writes = append(writes, key+"="+string(value))
			return nil
		},
	}

	w := New(kv, testLogger())
	defer w.Close(ctx)

	// Блокируем фоновую запись, пока планируем значения
	w.mu.Lock()
	w.pending["k"] = []byte("v1")
	w.order = append(w.order, "k")
	w.pending["k"] = []byte("v2")
	w.mu.Unlock()
	w.Schedule("k", []byte("v3"))

	require.NoError(t, w.Flush(ctx))

	mu.Lock()
	defer mu.Unlock()
	require.NotEmpty(t, writes)
	assert.Equal(t, "k=v3", writes[len(writes)-1])
	assert.NotContains(t, writes, "k=v1")
}

func TestWriter_FailedWriteIsRetriedOnNextFlush(t *testing.T) {
	ctx := context.Background()
	mem := storage.NewMemory()
	fail := true

	kv := &storage.KVMock{
		SetFunc: func(ctx context.Context, key string, value []byte) error {
			if fail {
				return errors.New("disk full")
			}
			return mem.Set(ctx, key, value)
		},
	}

	w := New(kv, testLogger())
	defer w.Close(ctx)

	w.mu.Lock()
	w.pending["k"] = []byte("v")
	w.order = []string{"k"}
	w.mu.Unlock()

	err := w.Flush(ctx)
	require.Error(t, err)
	assert.Equal(t, 1, w.Pending())

	fail = false
	require.NoError(t, w.Flush(ctx))

	got, err := mem.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)
}

func TestWriter_CloseFlushes(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemory()
	w := New(kv, testLogger())

	w.Schedule(storage.KeyDays, []byte("days"))
	require.NoError(t, w.Close(ctx))

	got, err := kv.Get(ctx, storage.KeyDays)
	require.NoError(t, err)
	assert.Equal(t, []byte("days"), got)

	// После закрытия операции не выполняются
	assert.ErrorIs(t, w.Flush(ctx), ErrClosed)
	w.Schedule(storage.KeyDays, []byte("late"))
	assert.NoError(t, w.Close(ctx))
}

func TestWriter_ScheduleRacingCloseLeavesNothingPending(t *testing.T) {
	ctx := context.Background()

	for round := 0; round < 200; round++ {
		w := New(storage.NewMemory(), testLogger())

		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				w.Schedule(storage.KeyDays, []byte{byte(i)})
			}
		}()

		require.NoError(t, w.Close(ctx))
		wg.Wait()

		// Всё, что принято до Close, записано; после Close значения отбрасываются
		assert.Zero(t, w.Pending(), "round %d", round)
	}
}
