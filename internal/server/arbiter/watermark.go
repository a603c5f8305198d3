package arbiter

import (
	"sync"
	"time"

	"github.com/iudanet/habitsync/internal/server/clock"
)

// watermark выдает метки записей и отслеживает незакоммиченные.
// Время снимка (serverTime) всегда меньше метки любой еще не закоммиченной записи,
// поэтому запись, закоммиченная после снимка, обязательно попадет в следующую delta.
type watermark struct {
	clock   *clock.Clock
	pending map[string]int
	mu      sync.Mutex
}

func newWatermark(c *clock.Clock) *watermark {
	return &watermark{clock: c, pending: make(map[string]int)}
}

// begin выдает метку для записи и помечает ее незакоммиченной
func (w *watermark) begin() string {
	w.mu.Lock()
	defer w.mu.Unlock()

	ts := w.clock.Tick()
	w.pending[ts]++
	return ts
}

// done снимает отметку после коммита или отката
func (w *watermark) done(ts string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.pending[ts]--
	if w.pending[ts] <= 0 {
		delete(w.pending, ts)
	}
}

// safe возвращает время, до которого (включительно) все записи уже закоммичены
func (w *watermark) safe() string {
	w.mu.Lock()
	defer w.mu.Unlock()

	if len(w.pending) == 0 {
		return w.clock.Tick()
	}

	lowest := ""
	for ts := range w.pending {
		if lowest == "" || ts < lowest {
			lowest = ts
		}
	}

	t, err := clock.Parse(lowest)
	if err != nil {
		// метки выдаются самими часами и всегда разбираются
		return lowest
	}
	return t.Add(-time.Microsecond).Format(clock.Layout)
}
