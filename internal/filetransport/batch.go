package filetransport

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/roach88/sitesync/internal/domain"
	"github.com/roach88/sitesync/internal/synchroniser"
)

// BatchFile is the content of an inbox file. In YAML files data is a
// mapping; it is converted to JSON before buffering.
type BatchFile struct {
	Records []BatchRecord `json:"records" yaml:"records"`
}

type BatchRecord struct {
	TableName string            `json:"table_name" yaml:"table_name"`
	RecordID  string            `json:"record_id" yaml:"record_id"`
	Action    domain.SyncAction `json:"action" yaml:"action"`
	Data      any               `json:"data,omitempty" yaml:"data,omitempty"`
}

// ReadBatchFile parses a .json, .yaml or .yml batch file.
func ReadBatchFile(path string) ([]synchroniser.RemoteRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read batch file: %w", err)
	}
	records, err := ParseBatch(data, strings.ToLower(filepath.Ext(path)) == ".json")
	if err != nil {
		return nil, fmt.Errorf("batch file %s: %w", filepath.Base(path), err)
	}
	return records, nil
}

// ParseBatch decodes a batch document. JSON payloads are kept as written;
// YAML payloads are re-encoded as JSON.
func ParseBatch(data []byte, isJSON bool) ([]synchroniser.RemoteRecord, error) {
	var raw []rawRecord
	if isJSON {
		var doc struct {
			Records []struct {
				TableName string            `json:"table_name"`
				RecordID  string            `json:"record_id"`
				Action    domain.SyncAction `json:"action"`
				Data      json.RawMessage   `json:"data"`
			} `json:"records"`
		}
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&doc); err != nil {
			return nil, fmt.Errorf("parse JSON: %w", err)
		}
		for _, r := range doc.Records {
			raw = append(raw, rawRecord{r.TableName, r.RecordID, r.Action, string(r.Data)})
		}
	} else {
		var doc BatchFile
		if err := decodeYAML(data, &doc); err != nil {
			return nil, fmt.Errorf("parse YAML: %w", err)
		}
		for _, r := range doc.Records {
			var payload string
			if r.Data != nil {
				b, err := json.Marshal(r.Data)
				if err != nil {
					return nil, fmt.Errorf("record %s: encode data: %w", r.RecordID, err)
				}
				payload = string(b)
			}
			raw = append(raw, rawRecord{r.TableName, r.RecordID, r.Action, payload})
		}
	}

	records := make([]synchroniser.RemoteRecord, 0, len(raw))
	for i, r := range raw {
		if r.tableName == "" || r.recordID == "" {
			return nil, fmt.Errorf("record %d: table_name and record_id are required", i)
		}
		if !validAction(r.action) {
			return nil, fmt.Errorf("record %s: unknown action %q", r.recordID, r.action)
		}
		if r.action == domain.SyncActionDelete {
			r.data = ""
		}
		records = append(records, synchroniser.RemoteRecord{
			TableName: r.tableName,
			RecordID:  r.recordID,
			Action:    r.action,
			Data:      r.data,
		})
	}
	return records, nil
}

type rawRecord struct {
	tableName string
	recordID  string
	action    domain.SyncAction
	data      string
}
