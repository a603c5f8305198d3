package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/iudanet/habitsync/internal/server/storage"
)

// RegisterClient creates client or updates its name and last_seen_at.
// registered_at сохраняется при повторной регистрации.
func (s *Storage) RegisterClient(ctx context.Context, c *storage.Client) error {
	query := `
		INSERT INTO clients (id, name, registered_at, last_seen_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			last_seen_at = excluded.last_seen_at
	`

	_, err := s.db.ExecContext(ctx, query,
		c.ID,
		c.Name,
		c.RegisteredAt,
		c.LastSeenAt,
	)
	if err != nil {
		return fmt.Errorf("failed to register client: %w", err)
	}

	return nil
}

// TouchClient updates last_seen_at of the client.
// Незарегистрированный клиент создается с именем defaultName.
func (s *Storage) TouchClient(ctx context.Context, id, defaultName, at string) error {
	query := `
		INSERT INTO clients (id, name, registered_at, last_seen_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET last_seen_at = excluded.last_seen_at
	`

	if _, err := s.db.ExecContext(ctx, query, id, defaultName, at, at); err != nil {
		return fmt.Errorf("failed to update client last seen: %w", err)
	}

	return nil
}

// GetClient retrieves client by ID
// Returns ErrClientNotFound if client is not registered
func (s *Storage) GetClient(ctx context.Context, id string) (*storage.Client, error) {
	query := `
		SELECT id, name, registered_at, last_seen_at
		FROM clients
		WHERE id = ?
	`

	c := &storage.Client{}
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&c.ID,
		&c.Name,
		&c.RegisteredAt,
		&c.LastSeenAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrClientNotFound
		}
		return nil, fmt.Errorf("failed to get client: %w", err)
	}

	return c, nil
}
