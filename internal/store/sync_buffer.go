package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/roach88/sitesync/internal/domain"
)

// BufferRecords stages inbound records. A record already buffered under the
// same (table, record id) is replaced and becomes pending again.
func (c *Connection) BufferRecords(ctx context.Context, records []domain.SyncBufferRow) error {
	for _, r := range records {
		_, err := c.q.ExecContext(ctx, `
			INSERT INTO sync_buffer (table_name, record_id, action, data, received_datetime)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT(table_name, record_id) DO UPDATE SET
				action = excluded.action,
				data = excluded.data,
				received_datetime = excluded.received_datetime,
				integration_datetime = NULL,
				integration_error = NULL
		`, r.TableName, r.RecordID, string(r.Action), r.Data, formatTime(r.ReceivedDatetime))
		if err != nil {
			return fmt.Errorf("buffer %s %s: %w", r.TableName, r.RecordID, err)
		}
	}
	return nil
}

// PendingBufferRecords returns records not yet integrated, oldest first.
func (c *Connection) PendingBufferRecords(ctx context.Context) ([]domain.SyncBufferRow, error) {
	return c.queryBuffer(ctx, `WHERE integration_datetime IS NULL ORDER BY received_datetime ASC, rowid ASC`)
}

// BufferRecord returns one buffered record, or nil when absent.
func (c *Connection) BufferRecord(ctx context.Context, tableName, recordID string) (*domain.SyncBufferRow, error) {
	rows, err := c.queryBuffer(ctx, `WHERE table_name = ? AND record_id = ?`, tableName, recordID)
	if err != nil || len(rows) == 0 {
		return nil, err
	}
	return &rows[0], nil
}

// MarkIntegrated records a successful integration. note is stored in the
// error column to explain records that were skipped rather than applied.
func (c *Connection) MarkIntegrated(ctx context.Context, tableName, recordID string, at time.Time, note *string) error {
	_, err := c.q.ExecContext(ctx, `
		UPDATE sync_buffer SET integration_datetime = ?, integration_error = ?
		WHERE table_name = ? AND record_id = ?
	`, formatTime(at), nullString(note), tableName, recordID)
	if err != nil {
		return fmt.Errorf("mark integrated %s %s: %w", tableName, recordID, err)
	}
	return nil
}

// MarkIntegrationError records a failed integration. The record stays pending.
func (c *Connection) MarkIntegrationError(ctx context.Context, tableName, recordID, message string) error {
	_, err := c.q.ExecContext(ctx, `
		UPDATE sync_buffer SET integration_error = ?
		WHERE table_name = ? AND record_id = ?
	`, message, tableName, recordID)
	if err != nil {
		return fmt.Errorf("mark integration error %s %s: %w", tableName, recordID, err)
	}
	return nil
}

func (c *Connection) queryBuffer(ctx context.Context, where string, args ...any) ([]domain.SyncBufferRow, error) {
	rows, err := c.q.QueryContext(ctx, `
		SELECT table_name, record_id, action, data, received_datetime, integration_datetime, integration_error
		FROM sync_buffer `+where, args...)
	if err != nil {
		return nil, fmt.Errorf("query sync buffer: %w", err)
	}
	defer rows.Close()

	var result []domain.SyncBufferRow
	for rows.Next() {
		var r domain.SyncBufferRow
		var received string
		var integrated, integrationErr sql.NullString
		if err := rows.Scan(&r.TableName, &r.RecordID, &r.Action, &r.Data, &received, &integrated, &integrationErr); err != nil {
			return nil, fmt.Errorf("scan sync buffer: %w", err)
		}
		if r.ReceivedDatetime, err = parseTime(received); err != nil {
			return nil, err
		}
		if r.IntegrationDatetime, err = parseNullTime(integrated); err != nil {
			return nil, err
		}
		r.IntegrationError = stringPtr(integrationErr)
		result = append(result, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sync buffer: %w", err)
	}
	return result, nil
}
