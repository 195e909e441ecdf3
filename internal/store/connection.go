package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/roach88/sitesync/internal/domain"
)

type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Connection issues statements either directly against the database or
// inside a transaction opened by Store.Transaction.
//
// The store keeps a single open connection, so result sets are always read
// to completion and closed before the next statement runs.
type Connection struct {
	q querier
}

// Upsert writes row, replacing any existing row with the same id.
// Writes to changelog tables append a local changelog entry.
func (c *Connection) Upsert(ctx context.Context, row domain.Row) error {
	return c.upsert(ctx, row, false)
}

// SyncUpsert is Upsert for rows produced by pull integration. Their changelog
// entries are marked as sync updates and are never pushed.
func (c *Connection) SyncUpsert(ctx context.Context, row domain.Row) error {
	return c.upsert(ctx, row, true)
}

// Delete removes the row with the given id. Deleting a missing row is not an
// error, but still records a changelog entry for changelog tables.
func (c *Connection) Delete(ctx context.Context, table domain.Table, id string) error {
	return c.delete(ctx, table, id, false)
}

// SyncDelete is Delete for pull integration.
func (c *Connection) SyncDelete(ctx context.Context, table domain.Table, id string) error {
	return c.delete(ctx, table, id, true)
}

func (c *Connection) upsert(ctx context.Context, row domain.Row, isSync bool) error {
	spec, err := specFor(row.RowTable())
	if err != nil {
		return fmt.Errorf("upsert: %w", err)
	}
	values, err := spec.values(row)
	if err != nil {
		return fmt.Errorf("upsert %s: %w", spec.table, err)
	}

	if _, err := c.q.ExecContext(ctx, spec.upsertSQL(), values...); err != nil {
		return fmt.Errorf("upsert %s %s: %w", spec.table, row.RowID(), err)
	}

	return c.recordChange(ctx, spec.table, row.RowID(), domain.RowActionUpsert, isSync)
}

func (c *Connection) delete(ctx context.Context, table domain.Table, id string, isSync bool) error {
	spec, err := specFor(table)
	if err != nil {
		return fmt.Errorf("delete: %w", err)
	}

	query := fmt.Sprintf(`DELETE FROM %s WHERE "id" = ?`, quote(string(spec.table)))
	if _, err := c.q.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete %s %s: %w", table, id, err)
	}

	return c.recordChange(ctx, table, id, domain.RowActionDelete, isSync)
}

func (c *Connection) recordChange(ctx context.Context, table domain.Table, id string, action domain.RowAction, isSync bool) error {
	if !table.IsChangelogTable() {
		return nil
	}
	_, err := c.q.ExecContext(ctx, `
		INSERT INTO changelog (table_name, record_id, row_action, is_sync_update)
		VALUES (?, ?, ?, ?)
	`, string(table), id, string(action), isSync)
	if err != nil {
		return fmt.Errorf("record changelog %s %s: %w", table, id, err)
	}
	return nil
}

// FindByID returns the row of type T with the given id, or nil when absent.
func FindByID[T domain.Row](ctx context.Context, c *Connection, id string) (*T, error) {
	rows, err := FindBy[T](ctx, c, "id", id)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

// FindBy returns every row of type T whose column equals value, ordered by id.
func FindBy[T domain.Row](ctx context.Context, c *Connection, column string, value any) ([]T, error) {
	var zero T
	spec, err := specFor(zero.RowTable())
	if err != nil {
		return nil, fmt.Errorf("find: %w", err)
	}
	if !spec.hasColumn(column) {
		return nil, fmt.Errorf("find %s: unknown column %q", spec.table, column)
	}

	query := fmt.Sprintf(`%s WHERE %s = ? ORDER BY "id" ASC`, spec.selectSQL(), quote(column))
	return queryRows[T](ctx, c, spec, query, value)
}

// All returns every row of type T ordered by id.
func All[T domain.Row](ctx context.Context, c *Connection) ([]T, error) {
	var zero T
	spec, err := specFor(zero.RowTable())
	if err != nil {
		return nil, fmt.Errorf("find all: %w", err)
	}
	return queryRows[T](ctx, c, spec, spec.selectSQL()+` ORDER BY "id" ASC`)
}

func queryRows[T domain.Row](ctx context.Context, c *Connection, spec tableSpec, query string, args ...any) ([]T, error) {
	rows, err := c.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", spec.table, err)
	}
	defer rows.Close()

	var result []T
	for rows.Next() {
		row, err := spec.scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", spec.table, err)
		}
		typed, ok := row.(T)
		if !ok {
			return nil, fmt.Errorf("scan %s: unexpected row type %T", spec.table, row)
		}
		result = append(result, typed)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", spec.table, err)
	}
	return result, nil
}

// FindNameTagByName resolves a name tag by its display name.
func (c *Connection) FindNameTagByName(ctx context.Context, name string) (*domain.NameTagRow, error) {
	tags, err := FindBy[domain.NameTagRow](ctx, c, "name", name)
	if err != nil || len(tags) == 0 {
		return nil, err
	}
	return &tags[0], nil
}

// FindPeriodScheduleByName resolves a period schedule by its display name.
func (c *Connection) FindPeriodScheduleByName(ctx context.Context, name string) (*domain.PeriodScheduleRow, error) {
	schedules, err := FindBy[domain.PeriodScheduleRow](ctx, c, "name", name)
	if err != nil || len(schedules) == 0 {
		return nil, err
	}
	return &schedules[0], nil
}

// DumpTable returns every row of a domain table as column/value maps ordered
// by id. Text columns are returned as strings.
func (c *Connection) DumpTable(ctx context.Context, table domain.Table) ([]map[string]any, error) {
	spec, err := specFor(table)
	if err != nil {
		return nil, fmt.Errorf("dump: %w", err)
	}

	rows, err := c.q.QueryContext(ctx, spec.selectSQL()+` ORDER BY "id" ASC`)
	if err != nil {
		return nil, fmt.Errorf("dump %s: %w", table, err)
	}
	defer rows.Close()

	var result []map[string]any
	for rows.Next() {
		values := make([]any, len(spec.columns))
		dest := make([]any, len(spec.columns))
		for i := range values {
			dest[i] = &values[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("dump %s: %w", table, err)
		}
		record := make(map[string]any, len(spec.columns))
		for i, col := range spec.columns {
			if b, ok := values[i].([]byte); ok {
				record[col] = string(b)
				continue
			}
			record[col] = values[i]
		}
		result = append(result, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("dump %s: %w", table, err)
	}
	return result, nil
}

// ErrUnknownTable is returned for tables the store has no schema for.
var ErrUnknownTable = errors.New("unknown table")

func quote(ident string) string {
	return `"` + strings.ReplaceAll(ident, `"`, `""`) + `"`
}
