package api

import (
	"context"
	"time"
)

// Probe проверяет связь с сервером запросом /api/health
type Probe struct {
	client  *Client
	timeout time.Duration
}

// NewProbe создает проверку связи; timeout ограничивает один запрос
func NewProbe(client *Client, timeout time.Duration) *Probe {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &Probe{client: client, timeout: timeout}
}

// Online сообщает, отвечает ли сервер
func (p *Probe) Online(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	resp, err := p.client.Health(ctx)
	return err == nil && resp.Status == "ok"
}
