package filetransport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/roach88/sitesync/internal/domain"
	"github.com/roach88/sitesync/internal/synchroniser"
	"github.com/roach88/sitesync/internal/translations"
)

const (
	SiteInfoFile = "site_info.yaml"
	InboxDir     = "inbox"
	OutboxDir    = "outbox"

	outboxExt = ".jsonl"
)

// Transport is a synchroniser.RemoteSource and synchroniser.PushSink backed
// by a directory.
type Transport struct {
	root string
}

var (
	_ synchroniser.RemoteSource = (*Transport)(nil)
	_ synchroniser.PushSink     = (*Transport)(nil)
)

// New returns a Transport rooted at dir, creating the inbox and outbox
// directories when missing.
func New(dir string) (*Transport, error) {
	for _, sub := range []string{InboxDir, OutboxDir} {
		if err := os.MkdirAll(filepath.Join(dir, sub), 0o755); err != nil {
			return nil, fmt.Errorf("create %s: %w", sub, err)
		}
	}
	return &Transport{root: dir}, nil
}

// SiteInfoDoc is the content of site_info.yaml.
type SiteInfoDoc struct {
	SiteID   int32  `yaml:"site_id"`
	SiteUUID string `yaml:"site_uuid"`
}

// SiteInfo reads site_info.yaml.
func (t *Transport) SiteInfo(_ context.Context) (synchroniser.SiteInfo, error) {
	data, err := os.ReadFile(filepath.Join(t.root, SiteInfoFile))
	if err != nil {
		return synchroniser.SiteInfo{}, fmt.Errorf("read site info: %w", err)
	}
	var doc SiteInfoDoc
	if err := decodeYAML(data, &doc); err != nil {
		return synchroniser.SiteInfo{}, fmt.Errorf("parse site info: %w", err)
	}
	if doc.SiteID == 0 {
		return synchroniser.SiteInfo{}, errors.New("parse site info: site_id is required")
	}
	return synchroniser.SiteInfo{SiteID: doc.SiteID, SiteUUID: doc.SiteUUID}, nil
}

// WriteSiteInfo writes site_info.yaml.
func (t *Transport) WriteSiteInfo(info synchroniser.SiteInfo) error {
	data, err := yaml.Marshal(SiteInfoDoc{SiteID: info.SiteID, SiteUUID: info.SiteUUID})
	if err != nil {
		return fmt.Errorf("encode site info: %w", err)
	}
	return writeFileAtomic(filepath.Join(t.root, SiteInfoFile), data)
}

// Pull returns up to limit records starting at the record offset cursor.
func (t *Transport) Pull(_ context.Context, cursor int64, limit int) (synchroniser.PullBatch, error) {
	records, err := t.inbox()
	if err != nil {
		return synchroniser.PullBatch{}, err
	}
	total := int64(len(records))
	if cursor < 0 || cursor > total {
		return synchroniser.PullBatch{}, fmt.Errorf("pull cursor %d outside inbox of %d records", cursor, total)
	}
	end := total
	if limit > 0 && cursor+int64(limit) < total {
		end = cursor + int64(limit)
	}
	return synchroniser.PullBatch{
		Records:    records[cursor:end],
		NextCursor: end,
		More:       end < total,
	}, nil
}

// inbox loads every inbox record in file name order.
func (t *Transport) inbox() ([]synchroniser.RemoteRecord, error) {
	dir := filepath.Join(t.root, InboxDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read inbox: %w", err)
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() && isBatchFile(e.Name()) {
			names = append(names, e.Name())
		}
	}
	slices.Sort(names)

	var records []synchroniser.RemoteRecord
	for _, name := range names {
		batch, err := ReadBatchFile(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		records = append(records, batch...)
	}
	return records, nil
}

// Push writes records to one outbox file named after the cursor range it
// covers. Files hold one JSON record per line; record data is written byte
// for byte as produced by the translators.
func (t *Transport) Push(_ context.Context, records []translations.PushRecord) error {
	if len(records) == 0 {
		return nil
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	for _, r := range records {
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("encode push record %s: %w", r.RecordID, err)
		}
	}
	name := fmt.Sprintf("%020d-%020d%s", records[0].Cursor, records[len(records)-1].Cursor, outboxExt)
	return writeFileAtomic(filepath.Join(t.root, OutboxDir, name), buf.Bytes())
}

// Outbox reads every pushed record in file name order.
func (t *Transport) Outbox() ([]translations.PushRecord, error) {
	dir := filepath.Join(t.root, OutboxDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read outbox: %w", err)
	}
	var records []translations.PushRecord
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != outboxExt {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("read outbox file: %w", err)
		}
		dec := json.NewDecoder(bytes.NewReader(data))
		for dec.More() {
			var r translations.PushRecord
			if err := dec.Decode(&r); err != nil {
				return nil, fmt.Errorf("parse outbox file %s: %w", e.Name(), err)
			}
			records = append(records, r)
		}
	}
	return records, nil
}

func isBatchFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json", ".yaml", ".yml":
		return true
	}
	return false
}

func decodeYAML(data []byte, v any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	return dec.Decode(v)
}

// writeFileAtomic writes through a temp file in the target directory so
// readers never see a partial file.
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", filepath.Base(path), err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename %s: %w", filepath.Base(path), err)
	}
	return nil
}

// validAction rejects actions the synchroniser cannot dispatch.
func validAction(a domain.SyncAction) bool {
	return a == domain.SyncActionUpsert || a == domain.SyncActionDelete
}
