package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/roach88/sitesync/internal/domain"
)

// DatetimeFilter matches a nullable timestamp column. Unset fields are ignored.
type DatetimeFilter struct {
	EqualTo         *time.Time
	AfterOrEqualTo  *time.Time
	BeforeOrEqualTo *time.Time
	IsNull          *bool
}

// SyncLogFilter selects sync log rows.
type SyncLogFilter struct {
	ID                         *string
	PrepareInitialDoneDatetime *DatetimeFilter
}

// SyncLogSortField is the column sync logs can be sorted by.
type SyncLogSortField string

const (
	SyncLogSortStarted SyncLogSortField = "started_datetime"
	SyncLogSortDone    SyncLogSortField = "done_datetime"
)

type SyncLogSort struct {
	Field SyncLogSortField
	Desc  bool
}

// Pagination limits a query. A zero Limit means no limit.
type Pagination struct {
	Limit  int
	Offset int
}

const syncLogColumns = `id, started_datetime, done_datetime,
	prepare_initial_started_datetime, prepare_initial_done_datetime,
	push_started_datetime, push_done_datetime,
	pull_started_datetime, pull_done_datetime,
	integration_started_datetime, integration_done_datetime,
	error_message, error_code`

// UpsertSyncLog inserts or replaces a sync log row.
func (c *Connection) UpsertSyncLog(ctx context.Context, r domain.SyncLogRow) error {
	_, err := c.q.ExecContext(ctx, `
		INSERT INTO sync_log (`+syncLogColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			started_datetime = excluded.started_datetime,
			done_datetime = excluded.done_datetime,
			prepare_initial_started_datetime = excluded.prepare_initial_started_datetime,
			prepare_initial_done_datetime = excluded.prepare_initial_done_datetime,
			push_started_datetime = excluded.push_started_datetime,
			push_done_datetime = excluded.push_done_datetime,
			pull_started_datetime = excluded.pull_started_datetime,
			pull_done_datetime = excluded.pull_done_datetime,
			integration_started_datetime = excluded.integration_started_datetime,
			integration_done_datetime = excluded.integration_done_datetime,
			error_message = excluded.error_message,
			error_code = excluded.error_code
	`,
		r.ID,
		formatTime(r.StartedDatetime),
		nullTime(r.DoneDatetime),
		nullTime(r.PrepareInitialStartedDatetime),
		nullTime(r.PrepareInitialDoneDatetime),
		nullTime(r.PushStartedDatetime),
		nullTime(r.PushDoneDatetime),
		nullTime(r.PullStartedDatetime),
		nullTime(r.PullDoneDatetime),
		nullTime(r.IntegrationStartedDatetime),
		nullTime(r.IntegrationDoneDatetime),
		nullString(r.ErrorMessage),
		nullString(r.ErrorCode),
	)
	if err != nil {
		return fmt.Errorf("upsert sync log %s: %w", r.ID, err)
	}
	return nil
}

// SyncLogs queries the sync log. Without a sort, rows are ordered by start
// time ascending.
func (c *Connection) SyncLogs(ctx context.Context, filter SyncLogFilter, sort *SyncLogSort, page Pagination) ([]domain.SyncLogRow, error) {
	var where []string
	var args []any

	if filter.ID != nil {
		where = append(where, "id = ?")
		args = append(args, *filter.ID)
	}
	if f := filter.PrepareInitialDoneDatetime; f != nil {
		const col = "prepare_initial_done_datetime"
		if f.EqualTo != nil {
			where = append(where, col+" = ?")
			args = append(args, formatTime(*f.EqualTo))
		}
		if f.AfterOrEqualTo != nil {
			where = append(where, col+" >= ?")
			args = append(args, formatTime(*f.AfterOrEqualTo))
		}
		if f.BeforeOrEqualTo != nil {
			where = append(where, col+" <= ?")
			args = append(args, formatTime(*f.BeforeOrEqualTo))
		}
		if f.IsNull != nil {
			if *f.IsNull {
				where = append(where, col+" IS NULL")
			} else {
				where = append(where, col+" IS NOT NULL")
			}
		}
	}

	query := "SELECT " + syncLogColumns + " FROM sync_log"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}

	order := "started_datetime ASC"
	if sort != nil {
		field := SyncLogSortStarted
		if sort.Field == SyncLogSortDone {
			field = SyncLogSortDone
		}
		dir := "ASC"
		if sort.Desc {
			dir = "DESC"
		}
		order = fmt.Sprintf("%s %s", field, dir)
	}
	query += " ORDER BY " + order + ", id ASC"

	limit := page.Limit
	if limit <= 0 {
		limit = -1
	}
	query += " LIMIT ? OFFSET ?"
	args = append(args, limit, page.Offset)

	rows, err := c.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query sync log: %w", err)
	}
	defer rows.Close()

	var result []domain.SyncLogRow
	for rows.Next() {
		r, err := scanSyncLog(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sync log: %w", err)
	}
	return result, nil
}

// LatestSyncLog returns the most recently started run, or nil.
func (c *Connection) LatestSyncLog(ctx context.Context) (*domain.SyncLogRow, error) {
	logs, err := c.SyncLogs(ctx, SyncLogFilter{}, &SyncLogSort{Field: SyncLogSortStarted, Desc: true}, Pagination{Limit: 1})
	if err != nil || len(logs) == 0 {
		return nil, err
	}
	return &logs[0], nil
}

// IsInitialised reports whether any run has completed the initial pull.
func (c *Connection) IsInitialised(ctx context.Context) (bool, error) {
	isNull := false
	logs, err := c.SyncLogs(ctx, SyncLogFilter{
		PrepareInitialDoneDatetime: &DatetimeFilter{IsNull: &isNull},
	}, nil, Pagination{Limit: 1})
	if err != nil {
		return false, err
	}
	return len(logs) > 0, nil
}

func scanSyncLog(s scanner) (domain.SyncLogRow, error) {
	var r domain.SyncLogRow
	var started string
	var optional [9]sql.NullString
	var errMessage, errCode sql.NullString

	dest := []any{&r.ID, &started}
	for i := range optional {
		dest = append(dest, &optional[i])
	}
	dest = append(dest, &errMessage, &errCode)
	if err := s.Scan(dest...); err != nil {
		return r, fmt.Errorf("scan sync log: %w", err)
	}

	var err error
	if r.StartedDatetime, err = parseTime(started); err != nil {
		return r, err
	}
	targets := []**time.Time{
		&r.DoneDatetime,
		&r.PrepareInitialStartedDatetime,
		&r.PrepareInitialDoneDatetime,
		&r.PushStartedDatetime,
		&r.PushDoneDatetime,
		&r.PullStartedDatetime,
		&r.PullDoneDatetime,
		&r.IntegrationStartedDatetime,
		&r.IntegrationDoneDatetime,
	}
	for i, target := range targets {
		if *target, err = parseNullTime(optional[i]); err != nil {
			return r, err
		}
	}
	r.ErrorMessage = stringPtr(errMessage)
	r.ErrorCode = stringPtr(errCode)
	return r, nil
}
