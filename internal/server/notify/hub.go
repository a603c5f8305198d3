// Package notify рассылает клиентам уведомления о принятых изменениях через websocket.
package notify

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/iudanet/habitsync/pkg/api"
)

// Options параметры соединений хаба
type Options struct {
	WriteWait  time.Duration // предельное время записи сообщения
	PongWait   time.Duration // сколько ждать pong от клиента
	PingPeriod time.Duration // период ping, должен быть меньше PongWait
	SendBuffer int           // размер очереди сообщений клиента
}

// DefaultOptions возвращает параметры по умолчанию
func DefaultOptions() Options {
	return Options{
		WriteWait:  10 * time.Second,
		PongWait:   60 * time.Second,
		PingPeriod: 54 * time.Second,
		SendBuffer: 16,
	}
}

// Hub хранит подключенных клиентов и рассылает им уведомления
type Hub struct {
	clients    map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	logger     *slog.Logger
	opts       Options
	mu         sync.RWMutex
}

// NewHub создает хаб; нулевые поля opts заменяются значениями по умолчанию
func NewHub(logger *slog.Logger, opts Options) *Hub {
	def := DefaultOptions()
	if opts.WriteWait <= 0 {
		opts.WriteWait = def.WriteWait
	}
	if opts.PongWait <= 0 {
		opts.PongWait = def.PongWait
	}
	if opts.PingPeriod <= 0 || opts.PingPeriod >= opts.PongWait {
		opts.PingPeriod = opts.PongWait * 9 / 10
	}
	if opts.SendBuffer <= 0 {
		opts.SendBuffer = def.SendBuffer
	}

	return &Hub{
		clients:    make(map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		logger:     logger,
		opts:       opts,
	}
}

// Run обслуживает регистрацию клиентов до отмены ctx.
// При остановке все соединения закрываются.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	for {
		select {
		case c := <-h.register:
			h.mu.Lock()
			h.clients[c] = struct{}{}
			h.mu.Unlock()
			h.logger.Debug("Notification client connected", "client_id", c.id)

		case c := <-h.unregister:
			h.drop(c)

		case <-ctx.Done():
			h.mu.Lock()
			for c := range h.clients {
				delete(h.clients, c)
				close(c.send)
			}
			h.mu.Unlock()
			return
		}
	}
}

// Attach подключает уже установленное websocket соединение клиента
func (h *Hub) Attach(conn *websocket.Conn, clientID string) {
	c := &Client{
		id:   clientID,
		conn: conn,
		hub:  h,
		send: make(chan []byte, h.opts.SendBuffer),
	}

	select {
	case h.register <- c:
	case <-h.done:
		_ = conn.Close()
		return
	}

	go c.writePump()
	go c.readPump()
}

// Broadcast отправляет уведомление всем клиентам, кроме автора изменений.
// Клиент с переполненной очередью отключается и догонит изменения обычной синхронизацией.
func (h *Hub) Broadcast(n api.Notification) {
	message, err := json.Marshal(n)
	if err != nil {
		h.logger.Error("Failed to encode notification", "error", err)
		return
	}

	var slow []*Client

	h.mu.RLock()
	for c := range h.clients {
		if c.id == n.ClientID {
			continue
		}
		select {
		case c.send <- message:
		default:
			slow = append(slow, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range slow {
		h.logger.Warn("Notification buffer full, disconnecting client", "client_id", c.id)
		h.leave(c)
	}
}

// Count возвращает число подключенных клиентов
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// leave запрашивает отключение клиента, не блокируясь после остановки хаба
func (h *Hub) leave(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

func (h *Hub) drop(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
		h.logger.Debug("Notification client disconnected", "client_id", c.id)
	}
}
