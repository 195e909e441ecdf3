package store

import (
	"context"
	"fmt"

	"github.com/roach88/sitesync/internal/domain"
)

// Changelogs returns up to limit pushable changelog entries with a cursor
// greater than after, in ascending cursor order.
//
// Only the latest entry per (table, record) is returned: a record written
// three times since the last push is pushed once. Entries whose latest write
// came from pull integration are excluded.
func (c *Connection) Changelogs(ctx context.Context, after int64, limit int) ([]domain.ChangelogRow, error) {
	rows, err := c.q.QueryContext(ctx, `
		SELECT cursor, table_name, record_id, row_action, is_sync_update
		FROM changelog
		WHERE cursor IN (
			SELECT MAX(cursor) FROM changelog GROUP BY table_name, record_id
		)
		AND cursor > ?
		AND is_sync_update = 0
		ORDER BY cursor ASC
		LIMIT ?
	`, after, limit)
	if err != nil {
		return nil, fmt.Errorf("query changelog: %w", err)
	}
	defer rows.Close()

	var entries []domain.ChangelogRow
	for rows.Next() {
		var e domain.ChangelogRow
		if err := rows.Scan(&e.Cursor, &e.TableName, &e.RecordID, &e.RowAction, &e.IsSyncUpdate); err != nil {
			return nil, fmt.Errorf("scan changelog: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate changelog: %w", err)
	}
	return entries, nil
}

// CountChangelogs counts pushable entries after the given cursor.
func (c *Connection) CountChangelogs(ctx context.Context, after int64) (int64, error) {
	var n int64
	err := c.q.QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM changelog
		WHERE cursor IN (
			SELECT MAX(cursor) FROM changelog GROUP BY table_name, record_id
		)
		AND cursor > ?
		AND is_sync_update = 0
	`, after).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count changelog: %w", err)
	}
	return n, nil
}

// LatestChangelogCursor returns the highest cursor assigned so far, or 0.
func (c *Connection) LatestChangelogCursor(ctx context.Context) (int64, error) {
	var cursor int64
	err := c.q.QueryRowContext(ctx, `SELECT COALESCE(MAX(cursor), 0) FROM changelog`).Scan(&cursor)
	if err != nil {
		return 0, fmt.Errorf("latest changelog cursor: %w", err)
	}
	return cursor, nil
}
