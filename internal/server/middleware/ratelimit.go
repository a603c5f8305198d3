package middleware

import (
	"context"
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/iudanet/habitsync/pkg/api"
)

// RateLimiter ограничивает частоту запросов по ключу в фиксированном окне
type RateLimiter struct {
	windows map[string]*window
	now     func() time.Time
	logger  *slog.Logger
	limit   int
	period  time.Duration
	mu      sync.Mutex
}

// window счетчик запросов ключа в текущем окне
type window struct {
	start time.Time
	count int
}

// NewRateLimiter создает limiter на limit запросов за period.
// Неактивные ключи удаляются в фоне до отмены ctx.
func NewRateLimiter(ctx context.Context, limit int, period time.Duration, logger *slog.Logger) *RateLimiter {
	rl := newRateLimiter(limit, period, logger, time.Now)
	go rl.cleanupLoop(ctx)
	return rl
}

func newRateLimiter(limit int, period time.Duration, logger *slog.Logger, now func() time.Time) *RateLimiter {
	return &RateLimiter{
		windows: make(map[string]*window),
		now:     now,
		logger:  logger,
		limit:   limit,
		period:  period,
	}
}

// Allow учитывает запрос и сообщает, укладывается ли он в лимит.
// Второе значение: сколько ждать до открытия следующего окна.
func (rl *RateLimiter) Allow(key string) (bool, time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	w, ok := rl.windows[key]
	if !ok || now.Sub(w.start) >= rl.period {
		w = &window{start: now}
		rl.windows[key] = w
	}

	if w.count >= rl.limit {
		return false, w.start.Add(rl.period).Sub(now)
	}
	w.count++
	return true, 0
}

// Middleware возвращает HTTP middleware лимитера.
// Ключ: client_id из запроса, иначе IP клиента.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := limitKey(r)

		allowed, retry := rl.Allow(key)
		if !allowed {
			rl.logger.Warn("Rate limit exceeded",
				"key", key,
				"method", r.Method,
				"path", r.URL.Path,
			)

			seconds := int(retry.Round(time.Second) / time.Second)
			w.Header().Set("Retry-After", strconv.Itoa(max(seconds, 1)))
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			_ = json.NewEncoder(w).Encode(api.ErrorResponse{
				Error:   "rate limit exceeded",
				Message: "please try again later",
			})
			return
		}

		next.ServeHTTP(w, r)
	})
}

// size возвращает число отслеживаемых ключей
func (rl *RateLimiter) size() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.windows)
}

func (rl *RateLimiter) cleanupLoop(ctx context.Context) {
	ticker := time.NewTicker(rl.period * 2)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanup()
		case <-ctx.Done():
			return
		}
	}
}

// cleanup удаляет ключи, чьи окна давно закрылись
func (rl *RateLimiter) cleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	for key, w := range rl.windows {
		if now.Sub(w.start) >= rl.period*2 {
			delete(rl.windows, key)
		}
	}
}

// limitKey выбирает ключ лимита для запроса
func limitKey(r *http.Request) string {
	if clientID := r.URL.Query().Get("client_id"); clientID != "" {
		return "client:" + clientID
	}
	return "ip:" + clientIP(r)
}

// clientIP извлекает IP адрес клиента из запроса
// Проверяет заголовки X-Forwarded-For и X-Real-IP для прокси
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
