package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/iudanet/habitsync/internal/server/storage"
)

const conflictColumns = `id, entity_type, entity_id, client_id, client_data, server_data,
		       server_version, client_base_version, resolution, resolved_at, created_at`

// LogConflict appends row to the audit log and returns its ID.
// Строка с заполненным Resolution сразу считается закрытой.
func (t *recordTx) LogConflict(ctx context.Context, c *storage.Conflict) (int64, error) {
	query := `
		INSERT INTO sync_conflicts (
			entity_type, entity_id, client_id, client_data, server_data,
			server_version, client_base_version, resolution, resolved_at, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := t.q.ExecContext(ctx, query,
		c.EntityType,
		c.EntityID,
		c.ClientID,
		nullBytes(c.ClientData),
		nullBytes(c.ServerData),
		c.ServerVersion,
		c.ClientBaseVersion,
		nullString(c.Resolution),
		nullString(c.ResolvedAt),
		c.CreatedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to log conflict: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get conflict id: %w", err)
	}

	return id, nil
}

// CloseConflicts marks open rows of the client for the record as resolved
func (t *recordTx) CloseConflicts(ctx context.Context, entityType, entityID, clientID, resolution, at string) (int64, error) {
	query := `
		UPDATE sync_conflicts
		SET resolution = ?, resolved_at = ?
		WHERE entity_type = ? AND entity_id = ? AND client_id = ? AND resolved_at IS NULL
	`

	result, err := t.q.ExecContext(ctx, query, resolution, at, entityType, entityID, clientID)
	if err != nil {
		return 0, fmt.Errorf("failed to close conflicts: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rows, nil
}

// ListOpenConflicts returns unresolved rows of the client, newest first
func (s *Storage) ListOpenConflicts(ctx context.Context, clientID string) (conflicts []*storage.Conflict, err error) {
	query := `
		SELECT ` + conflictColumns + `
		FROM sync_conflicts
		WHERE client_id = ? AND resolved_at IS NULL
		ORDER BY created_at DESC, id DESC
	`

	rows, err := s.db.QueryContext(ctx, query, clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to query conflicts: %w", err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	for rows.Next() {
		c, err := scanConflict(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan conflict: %w", err)
		}
		conflicts = append(conflicts, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return conflicts, nil
}

// GetConflict retrieves audit row by ID
// Returns ErrConflictNotFound if row doesn't exist
func (s *Storage) GetConflict(ctx context.Context, id int64) (*storage.Conflict, error) {
	query := `SELECT ` + conflictColumns + ` FROM sync_conflicts WHERE id = ?`

	c, err := scanConflict(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrConflictNotFound
		}
		return nil, fmt.Errorf("failed to get conflict: %w", err)
	}

	return c, nil
}

func scanConflict(row scanner) (*storage.Conflict, error) {
	c := &storage.Conflict{}
	var clientData, serverData, resolution, resolvedAt sql.NullString

	err := row.Scan(
		&c.ID,
		&c.EntityType,
		&c.EntityID,
		&c.ClientID,
		&clientData,
		&serverData,
		&c.ServerVersion,
		&c.ClientBaseVersion,
		&resolution,
		&resolvedAt,
		&c.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if clientData.Valid {
		c.ClientData = []byte(clientData.String)
	}
	if serverData.Valid {
		c.ServerData = []byte(serverData.String)
	}
	c.Resolution = resolution.String
	c.ResolvedAt = resolvedAt.String

	return c, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullBytes(b []byte) sql.NullString {
	return sql.NullString{String: string(b), Valid: len(b) > 0}
}
