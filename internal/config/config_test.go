package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg, err := Default()
	require.NoError(t, err)

	assert.Equal(t, "sitesync.db", cfg.Database)
	assert.Equal(t, "sync", cfg.Transport.Dir)
	assert.Equal(t, 5*time.Minute, cfg.Sync.Interval)
	assert.Equal(t, 500, cfg.Sync.BatchSize)
	assert.Equal(t, slog.LevelInfo, cfg.Log.SlogLevel())
}

func TestParse_OverridesDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
sync: {
	interval:   "30s"
	batch_size: 50
}
log: level: "debug"
`), "sitesync.cue")
	require.NoError(t, err)

	assert.Equal(t, 30*time.Second, cfg.Sync.Interval)
	assert.Equal(t, 50, cfg.Sync.BatchSize)
	assert.Equal(t, "sitesync.db", cfg.Database)
	assert.Equal(t, slog.LevelDebug, cfg.Log.SlogLevel())
}

func TestParse_AcceptsJSON(t *testing.T) {
	cfg, err := Parse([]byte(`{"database": "/var/lib/site.db", "transport": {"dir": "/srv/sync"}}`), "sitesync.json")
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/site.db", cfg.Database)
	assert.Equal(t, "/srv/sync", cfg.Transport.Dir)
}

func TestParse_Rejects(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"unknown field", `databse: "x.db"`},
		{"batch size zero", `sync: batch_size: 0`},
		{"batch size too large", `sync: batch_size: 20000`},
		{"bad log level", `log: level: "trace"`},
		{"empty database", `database: ""`},
		{"bad interval", `sync: interval: "soon"`},
		{"negative interval", `sync: interval: "-1m"`},
		{"syntax error", `sync: {`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.src), "bad.cue")
			require.Error(t, err)
			var ce *ConfigError
			assert.ErrorAs(t, err, &ce)
		})
	}
}

func TestLoad_ResolvesRelativePaths(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sitesync.cue")
	require.NoError(t, os.WriteFile(path, []byte(`database: "data/site.db"`+"\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "data/site.db"), cfg.Database)
	assert.Equal(t, filepath.Join(dir, "sync"), cfg.Transport.Dir)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.cue"))
	assert.Error(t, err)
}
