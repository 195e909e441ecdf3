package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/sitesync/internal/domain"
)

// GetInt returns an integer setting. ok is false when the key was never set.
func (c *Connection) GetInt(ctx context.Context, key domain.KeyValueType) (value int64, ok bool, err error) {
	var v sql.NullInt64
	err = c.q.QueryRowContext(ctx, `SELECT value_int FROM key_value_store WHERE id = ?`, string(key)).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("get %s: %w", key, err)
	}
	return v.Int64, v.Valid, nil
}

// SetInt stores an integer setting.
func (c *Connection) SetInt(ctx context.Context, key domain.KeyValueType, value int64) error {
	_, err := c.q.ExecContext(ctx, `
		INSERT INTO key_value_store (id, value_int) VALUES (?, ?)
		ON CONFLICT(id) DO UPDATE SET value_int = excluded.value_int
	`, string(key), value)
	if err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

// GetString returns a string setting. ok is false when the key was never set.
func (c *Connection) GetString(ctx context.Context, key domain.KeyValueType) (value string, ok bool, err error) {
	var v sql.NullString
	err = c.q.QueryRowContext(ctx, `SELECT value_string FROM key_value_store WHERE id = ?`, string(key)).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get %s: %w", key, err)
	}
	return v.String, v.Valid, nil
}

// SetString stores a string setting.
func (c *Connection) SetString(ctx context.Context, key domain.KeyValueType, value string) error {
	_, err := c.q.ExecContext(ctx, `
		INSERT INTO key_value_store (id, value_string) VALUES (?, ?)
		ON CONFLICT(id) DO UPDATE SET value_string = excluded.value_string
	`, string(key), value)
	if err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

// SiteID returns the locally configured site id.
func (c *Connection) SiteID(ctx context.Context) (int32, bool, error) {
	v, ok, err := c.GetInt(ctx, domain.SettingsSyncSiteID)
	return int32(v), ok, err
}
