// Package persist асинхронно записывает снимки состояния клиента в долговременное хранилище.
//
// Мутации состояния выполняются синхронно в памяти, а запись на диск
// откладывается: Schedule не блокируется, повторные записи одного ключа
// схлопываются до последнего значения. Flush дожидается записи всего,
// что было запланировано до его вызова.
package persist

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/iudanet/habitsync/internal/client/storage"
)

// ErrClosed возвращается при работе с закрытым writer
var ErrClosed = errors.New("persist: writer closed")

// Writer фоновый писатель с объединением записей по ключу
type Writer struct {
	kv      storage.KV
	logger  *slog.Logger
	pending map[string][]byte
	kick    chan struct{}
	flush   chan chan error
	stop    chan struct{}
	done    chan struct{}
	order   []string
	mu      sync.Mutex
	closed  bool
}

// New создает writer и запускает фоновую горутину записи
func New(kv storage.KV, logger *slog.Logger) *Writer {
	w := &Writer{
		kv:      kv,
		logger:  logger,
		pending: make(map[string][]byte),
		kick:    make(chan struct{}, 1),
		flush:   make(chan chan error),
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	go w.run()
	return w
}

// Schedule планирует запись value под ключом key.
// Ключи записываются в порядке первого планирования.
func (w *Writer) Schedule(key string, value []byte) {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		w.logger.Warn("Dropping write to closed persist writer", "key", key)
		return
	}
	if _, ok := w.pending[key]; !ok {
		w.order = append(w.order, key)
	}
	w.pending[key] = value
	w.mu.Unlock()

	select {
	case w.kick <- struct{}{}:
	default:
	}
}

// Pending возвращает количество ключей, ожидающих записи
func (w *Writer) Pending() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.pending)
}

// Flush дожидается записи всех запланированных значений
func (w *Writer) Flush(ctx context.Context) error {
	reply := make(chan error, 1)

	select {
	case w.flush <- reply:
	case <-w.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-reply:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close записывает оставшиеся значения и останавливает фоновую горутину.
// Schedule после начала Close отбрасывает значение.
func (w *Writer) Close(ctx context.Context) error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	w.mu.Unlock()

	err := w.Flush(ctx)

	close(w.stop)
	<-w.done
	return err
}

func (w *Writer) run() {
	defer close(w.done)

	for {
		select {
		case <-w.kick:
			if err := w.drain(); err != nil {
				w.logger.Error("Failed to persist client state", "error", err)
			}
		case reply := <-w.flush:
			reply <- w.drain()
		case <-w.stop:
			// Flush мог завершиться по ctx раньше записи
			if err := w.drain(); err != nil {
				w.logger.Error("Failed to persist client state on close", "error", err)
			}
			return
		}
	}
}

// drain записывает все ожидающие значения. Неудачные записи возвращаются
// в очередь, если за это время для ключа не запланировано более новое значение.
func (w *Writer) drain() error {
	w.mu.Lock()
	batch := w.pending
	order := w.order
	w.pending = make(map[string][]byte)
	w.order = nil
	w.mu.Unlock()

	var errs []error
	for _, key := range order {
		if err := w.kv.Set(context.Background(), key, batch[key]); err != nil {
			errs = append(errs, fmt.Errorf("failed to persist %q: %w", key, err))
			w.requeue(key, batch[key])
		}
	}

	return errors.Join(errs...)
}

func (w *Writer) requeue(key string, value []byte) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, newer := w.pending[key]; newer {
		return
	}
	w.pending[key] = value
	w.order = append(w.order, key)
}
