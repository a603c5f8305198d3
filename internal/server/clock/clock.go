package clock

import (
	"fmt"
	"sync"
	"time"
)

// Layout формат серверных меток времени.
// Фиксированная ширина позволяет сравнивать метки как строки (в том числе в SQL).
const Layout = "2006-01-02T15:04:05.000000Z"

// Clock выдает строго возрастающие метки времени сервера.
// Если системное время не продвинулось (или откатилось назад), метка сдвигается
// на микросекунду вперед от предыдущей, поэтому две принятые записи никогда
// не получают одинаковое время, а delta по времени не теряет изменений.
type Clock struct {
	last time.Time        // последняя выданная метка
	now  func() time.Time // источник физического времени
	mu   sync.Mutex       // мьютекс для потокобезопасности
}

// New создает часы на системном времени
func New() *Clock {
	return NewWithSource(time.Now)
}

// NewWithSource создает часы с заданным источником времени.
// Используется для тестирования.
func NewWithSource(now func() time.Time) *Clock {
	return &Clock{now: now}
}

// Tick возвращает новую метку, строго большую всех ранее выданных
func (c *Clock) Tick() string {
	c.mu.Lock()
	defer c.mu.Unlock()

	t := c.now().UTC().Truncate(time.Microsecond)
	if !t.After(c.last) {
		t = c.last.Add(time.Microsecond)
	}
	c.last = t
	return t.Format(Layout)
}

// Observe продвигает часы до уже существующей метки.
// Используется при старте сервера, чтобы продолжить после меток, сохраненных в БД.
// Пустая метка игнорируется; часы никогда не идут назад.
func (c *Clock) Observe(ts string) error {
	if ts == "" {
		return nil
	}
	t, err := Parse(ts)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if t.After(c.last) {
		c.last = t
	}
	return nil
}

// Last возвращает последнюю выданную метку без продвижения часов
func (c *Clock) Last() string {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.last.IsZero() {
		return ""
	}
	return c.last.Format(Layout)
}

// Parse разбирает метку сервера; также принимает RFC3339 с любой точностью
func Parse(ts string) (time.Time, error) {
	if t, err := time.Parse(Layout, ts); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339Nano, ts)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q: %w", ts, err)
	}
	return t.UTC(), nil
}

// Normalize приводит метку к формату Layout, чтобы строковое сравнение было корректным
func Normalize(ts string) (string, error) {
	t, err := Parse(ts)
	if err != nil {
		return "", err
	}
	return t.UTC().Truncate(time.Microsecond).Format(Layout), nil
}
