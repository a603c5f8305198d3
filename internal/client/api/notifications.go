package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/iudanet/habitsync/pkg/api"
)

const (
	// Время ожидания pong от сервера
	pongWait = 60 * time.Second
	// Время ожидания установления соединения
	handshakeTimeout = 10 * time.Second
)

// Notifications подключается к websocket сервера и возвращает канал уведомлений.
// Канал закрывается при разрыве соединения или отмене ctx.
// Сообщения нераспознанного формата обрывают поток так же, как разрыв соединения.
func (c *Client) Notifications(ctx context.Context, clientID string) (<-chan api.Notification, error) {
	wsURL, err := c.websocketURL(clientID)
	if err != nil {
		return nil, err
	}

	dialer := websocket.Dialer{HandshakeTimeout: handshakeTimeout}
	conn, resp, err := dialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		if resp != nil {
			return nil, &StatusError{Code: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		}
		return nil, fmt.Errorf("websocket dial failed: %w", err)
	}

	out := make(chan api.Notification, 16)

	// Закрываем соединение при отмене контекста, чтобы прервать ReadJSON
	stop := context.AfterFunc(ctx, func() {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
		_ = conn.Close()
	})

	go func() {
		defer close(out)
		defer stop()
		defer func() {
			_ = conn.Close()
		}()

		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPingHandler(func(data string) error {
			_ = conn.SetReadDeadline(time.Now().Add(pongWait))
			return conn.WriteControl(websocket.PongMessage, []byte(data), time.Now().Add(time.Second))
		})

		for {
			var n api.Notification
			if err := conn.ReadJSON(&n); err != nil {
				return
			}
			_ = conn.SetReadDeadline(time.Now().Add(pongWait))

			select {
			case out <- n:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, nil
}

func (c *Client) websocketURL(clientID string) (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid server url: %w", err)
	}
	switch strings.ToLower(u.Scheme) {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path = strings.TrimRight(u.Path, "/") + "/api/sync/ws"
	u.RawQuery = url.Values{"client_id": {clientID}}.Encode()
	return u.String(), nil
}
