package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/iudanet/habitsync/pkg/api"
)

// StatusError ответ сервера с кодом, отличным от 2xx
type StatusError struct {
	Message string
	Code    int
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("request failed with status %d", e.Code)
	}
	return fmt.Sprintf("server error (%d): %s", e.Code, e.Message)
}

// IsStatus сообщает, является ли err ответом сервера с кодом code
func IsStatus(err error, code int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Code == code
}

// Client представляет HTTP клиент для взаимодействия с сервером синхронизации
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient создает новый API клиент
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				// Ограничиваем количество редиректов
				if len(via) >= 10 {
					return fmt.Errorf("stopped after 10 redirects")
				}
				return nil
			},
		},
	}
}

// SetTimeout меняет ограничение времени одного HTTP запроса
func (c *Client) SetTimeout(timeout time.Duration) {
	if timeout > 0 {
		c.httpClient.Timeout = timeout
	}
}

// BaseURL возвращает адрес сервера
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Register регистрирует клиента на сервере
func (c *Client) Register(ctx context.Context, req api.RegisterRequest) (*api.RegisterResponse, error) {
	var resp api.RegisterResponse
	if err := c.doRequest(ctx, http.MethodPost, "/api/sync/register", req, &resp); err != nil {
		return nil, fmt.Errorf("register request failed: %w", err)
	}
	return &resp, nil
}

// FullSync получает полный снимок данных сервера
func (c *Client) FullSync(ctx context.Context) (*api.FullSyncResponse, error) {
	var resp api.FullSyncResponse
	if err := c.doRequest(ctx, http.MethodGet, "/api/sync/full", nil, &resp); err != nil {
		return nil, fmt.Errorf("full sync request failed: %w", err)
	}
	return &resp, nil
}

// DeltaSync получает изменения после since, сделанные другими клиентами
func (c *Client) DeltaSync(ctx context.Context, since, clientID string) (*api.DeltaSyncResponse, error) {
	q := url.Values{}
	q.Set("since", since)
	q.Set("client_id", clientID)

	var resp api.DeltaSyncResponse
	if err := c.doRequest(ctx, http.MethodGet, "/api/sync/delta?"+q.Encode(), nil, &resp); err != nil {
		return nil, fmt.Errorf("delta sync request failed: %w", err)
	}
	return &resp, nil
}

// Submit отправляет локальные изменения на сервер
func (c *Client) Submit(ctx context.Context, req api.SyncRequest) (*api.SyncResponse, error) {
	var resp api.SyncResponse
	if err := c.doRequest(ctx, http.MethodPost, "/api/sync/update", req, &resp); err != nil {
		return nil, fmt.Errorf("sync update request failed: %w", err)
	}
	return &resp, nil
}

// ResolveConflict принудительно разрешает конфликт на сервере
func (c *Client) ResolveConflict(ctx context.Context, req api.ResolveConflictRequest) (*api.ResolveConflictResponse, error) {
	var resp api.ResolveConflictResponse
	if err := c.doRequest(ctx, http.MethodPost, "/api/sync/resolve-conflict", req, &resp); err != nil {
		return nil, fmt.Errorf("resolve conflict request failed: %w", err)
	}
	return &resp, nil
}

// ListConflicts возвращает неразрешённые конфликты клиента из журнала сервера
func (c *Client) ListConflicts(ctx context.Context, clientID string) (*api.ConflictsResponse, error) {
	q := url.Values{}
	q.Set("client_id", clientID)

	var resp api.ConflictsResponse
	if err := c.doRequest(ctx, http.MethodGet, "/api/sync/conflicts?"+q.Encode(), nil, &resp); err != nil {
		return nil, fmt.Errorf("list conflicts request failed: %w", err)
	}
	return &resp, nil
}

// Status возвращает время последнего изменения на сервере
func (c *Client) Status(ctx context.Context) (*api.StatusResponse, error) {
	var resp api.StatusResponse
	if err := c.doRequest(ctx, http.MethodGet, "/api/sync/status", nil, &resp); err != nil {
		return nil, fmt.Errorf("status request failed: %w", err)
	}
	return &resp, nil
}

// Health проверяет доступность сервера
func (c *Client) Health(ctx context.Context) (*api.HealthResponse, error) {
	var resp api.HealthResponse
	if err := c.doRequest(ctx, http.MethodGet, "/api/health", nil, &resp); err != nil {
		return nil, fmt.Errorf("health request failed: %w", err)
	}
	return &resp, nil
}

// doRequest выполняет HTTP запрос
func (c *Client) doRequest(ctx context.Context, method, path string, body, result any) error {
	var bodyReader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	// Читаем тело ответа
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	// Проверяем статус код
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errResp api.ErrorResponse
		if err := json.Unmarshal(respBody, &errResp); err == nil {
			msg := errResp.Message
			if msg == "" {
				msg = errResp.Error
			}
			return &StatusError{Code: resp.StatusCode, Message: msg}
		}
		return &StatusError{Code: resp.StatusCode}
	}

	// Декодируем успешный ответ
	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}
