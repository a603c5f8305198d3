package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/iudanet/habitsync/internal/server/storage"
)

const (
	trackerColumns = `id, name, category, type, frequency, meta_json,
		       version, last_modified_by, last_modified_at, deleted`
	entryColumns = `date, tracker_id, value, completed,
		       version, last_modified_by, last_modified_at`
)

// metaLastModified ключ meta_sync со временем последней принятой записи
const metaLastModified = "last_server_sync_time"

// recordTx реализует storage.RecordTx поверх *sql.Tx
type recordTx struct {
	q querier
}

// GetTracker retrieves tracker by ID, including soft-deleted ones
// Returns ErrTrackerNotFound if tracker doesn't exist
func (t *recordTx) GetTracker(ctx context.Context, id string) (*storage.Tracker, error) {
	return getTracker(ctx, t.q, id)
}

// PutTracker creates or overwrites tracker row
func (t *recordTx) PutTracker(ctx context.Context, tr *storage.Tracker) error {
	metaJSON, err := encodeMeta(tr.Meta)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO trackers (` + trackerColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			category = excluded.category,
			type = excluded.type,
			frequency = excluded.frequency,
			meta_json = excluded.meta_json,
			version = excluded.version,
			last_modified_by = excluded.last_modified_by,
			last_modified_at = excluded.last_modified_at,
			deleted = excluded.deleted
	`

	_, err = t.q.ExecContext(ctx, query,
		tr.ID,
		tr.Name,
		tr.Category,
		tr.Type,
		tr.Frequency,
		metaJSON,
		tr.Version,
		tr.LastModifiedBy,
		tr.LastModifiedAt,
		boolToInt(tr.Deleted),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert tracker: %w", err)
	}

	return nil
}

// GetEntry retrieves entry by its composite key
// Returns ErrEntryNotFound if entry doesn't exist
func (t *recordTx) GetEntry(ctx context.Context, date, trackerID string) (*storage.Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM entries WHERE date = ? AND tracker_id = ?`

	e, err := scanEntry(t.q.QueryRowContext(ctx, query, date, trackerID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrEntryNotFound
		}
		return nil, fmt.Errorf("failed to get entry: %w", err)
	}

	return e, nil
}

// PutEntry creates or overwrites entry row
func (t *recordTx) PutEntry(ctx context.Context, e *storage.Entry) error {
	query := `
		INSERT INTO entries (` + entryColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(date, tracker_id) DO UPDATE SET
			value = excluded.value,
			completed = excluded.completed,
			version = excluded.version,
			last_modified_by = excluded.last_modified_by,
			last_modified_at = excluded.last_modified_at
	`

	_, err := t.q.ExecContext(ctx, query,
		e.Date,
		e.TrackerID,
		nullFloat(e.Value),
		nullBool(e.Completed),
		e.Version,
		e.LastModifiedBy,
		e.LastModifiedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert entry: %w", err)
	}

	return nil
}

// SetLastModified stores time of the last accepted write
func (t *recordTx) SetLastModified(ctx context.Context, ts string) error {
	query := `
		INSERT INTO meta_sync (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`

	if _, err := t.q.ExecContext(ctx, query, metaLastModified, ts); err != nil {
		return fmt.Errorf("failed to set last modified: %w", err)
	}

	return nil
}

// ListTrackers returns trackers ordered by id
func (s *Storage) ListTrackers(ctx context.Context, includeDeleted bool) ([]*storage.Tracker, error) {
	query := `SELECT ` + trackerColumns + ` FROM trackers`
	if !includeDeleted {
		query += ` WHERE deleted = 0`
	}
	query += ` ORDER BY id`

	return s.queryTrackers(ctx, query)
}

// TrackersChangedSince returns trackers (including deleted) modified after since
// by clients other than excludeClient
func (s *Storage) TrackersChangedSince(ctx context.Context, since, excludeClient string) ([]*storage.Tracker, error) {
	query := `
		SELECT ` + trackerColumns + `
		FROM trackers
		WHERE last_modified_at > ? AND last_modified_by != ?
		ORDER BY last_modified_at ASC, id ASC
	`

	return s.queryTrackers(ctx, query, since, excludeClient)
}

// ListEntries returns entries with date >= fromDate
func (s *Storage) ListEntries(ctx context.Context, fromDate string) ([]*storage.Entry, error) {
	query := `
		SELECT ` + entryColumns + `
		FROM entries
		WHERE date >= ?
		ORDER BY date ASC, tracker_id ASC
	`

	return s.queryEntries(ctx, query, fromDate)
}

// EntriesChangedSince returns entries with date >= fromDate modified after since
// by clients other than excludeClient
func (s *Storage) EntriesChangedSince(ctx context.Context, since, excludeClient, fromDate string) ([]*storage.Entry, error) {
	query := `
		SELECT ` + entryColumns + `
		FROM entries
		WHERE last_modified_at > ? AND last_modified_by != ? AND date >= ?
		ORDER BY last_modified_at ASC, date ASC, tracker_id ASC
	`

	return s.queryEntries(ctx, query, since, excludeClient, fromDate)
}

// LastModified returns time of the last accepted write, empty if nothing was written
func (s *Storage) LastModified(ctx context.Context) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM meta_sync WHERE key = ?`, metaLastModified).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("failed to get last modified: %w", err)
	}

	return value, nil
}

// LatestTimestamp returns the greatest timestamp stored in any table
func (s *Storage) LatestTimestamp(ctx context.Context) (string, error) {
	query := `
		SELECT COALESCE(MAX(ts), '') FROM (
			SELECT MAX(last_modified_at) AS ts FROM trackers
			UNION ALL SELECT MAX(last_modified_at) FROM entries
			UNION ALL SELECT MAX(created_at) FROM sync_conflicts
			UNION ALL SELECT MAX(resolved_at) FROM sync_conflicts
			UNION ALL SELECT MAX(last_seen_at) FROM clients
			UNION ALL SELECT value FROM meta_sync WHERE key = ?
		)
	`

	var ts string
	if err := s.db.QueryRowContext(ctx, query, metaLastModified).Scan(&ts); err != nil {
		return "", fmt.Errorf("failed to get latest timestamp: %w", err)
	}

	return ts, nil
}

func (s *Storage) queryTrackers(ctx context.Context, query string, args ...any) (trackers []*storage.Tracker, err error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query trackers: %w", err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	for rows.Next() {
		t, err := scanTracker(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan tracker: %w", err)
		}
		trackers = append(trackers, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return trackers, nil
}

func (s *Storage) queryEntries(ctx context.Context, query string, args ...any) (entries []*storage.Entry, err error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query entries: %w", err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan entry: %w", err)
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return entries, nil
}

func getTracker(ctx context.Context, q querier, id string) (*storage.Tracker, error) {
	query := `SELECT ` + trackerColumns + ` FROM trackers WHERE id = ?`

	t, err := scanTracker(q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrTrackerNotFound
		}
		return nil, fmt.Errorf("failed to get tracker: %w", err)
	}

	return t, nil
}

// scanner общий интерфейс *sql.Row и *sql.Rows
type scanner interface {
	Scan(dest ...any) error
}

func scanTracker(row scanner) (*storage.Tracker, error) {
	t := &storage.Tracker{}
	var metaJSON sql.NullString
	var deleted int

	err := row.Scan(
		&t.ID,
		&t.Name,
		&t.Category,
		&t.Type,
		&t.Frequency,
		&metaJSON,
		&t.Version,
		&t.LastModifiedBy,
		&t.LastModifiedAt,
		&deleted,
	)
	if err != nil {
		return nil, err
	}

	t.Deleted = intToBool(deleted)
	if metaJSON.Valid && metaJSON.String != "" {
		if err := json.Unmarshal([]byte(metaJSON.String), &t.Meta); err != nil {
			return nil, fmt.Errorf("invalid meta_json of tracker %s: %w", t.ID, err)
		}
	}

	return t, nil
}

func scanEntry(row scanner) (*storage.Entry, error) {
	e := &storage.Entry{}
	var value sql.NullFloat64
	var completed sql.NullInt64

	err := row.Scan(
		&e.Date,
		&e.TrackerID,
		&value,
		&completed,
		&e.Version,
		&e.LastModifiedBy,
		&e.LastModifiedAt,
	)
	if err != nil {
		return nil, err
	}

	if value.Valid {
		v := value.Float64
		e.Value = &v
	}
	if completed.Valid {
		c := intToBool(int(completed.Int64))
		e.Completed = &c
	}

	return e, nil
}

func encodeMeta(meta map[string]string) (sql.NullString, error) {
	if len(meta) == 0 {
		return sql.NullString{}, nil
	}
	data, err := json.Marshal(meta)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("failed to encode tracker meta: %w", err)
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func nullBool(v *bool) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(boolToInt(*v)), Valid: true}
}

// Helper functions for bool/int conversion
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func intToBool(i int) bool {
	return i != 0
}
