package translations

import (
	"context"
	"encoding/json"

	"github.com/roach88/sitesync/internal/domain"
	"github.com/roach88/sitesync/internal/store"
)

// SyncTranslation translates the records of one legacy table.
//
// Each method returns nil when the translator does not claim the input. A
// non-nil result, even an empty one, claims the record and stops dispatch.
type SyncTranslation interface {
	TryTranslatePullUpsert(ctx context.Context, conn *store.Connection, rec domain.SyncBufferRow) (*IntegrationRecords, error)
	TryTranslatePullDelete(ctx context.Context, conn *store.Connection, rec domain.SyncBufferRow) (*IntegrationRecords, error)
	TryTranslatePush(ctx context.Context, conn *store.Connection, entry domain.ChangelogRow) ([]PushRecord, error)
}

// noTranslation is embedded by translators for the operations they don't
// support.
type noTranslation struct{}

func (noTranslation) TryTranslatePullUpsert(context.Context, *store.Connection, domain.SyncBufferRow) (*IntegrationRecords, error) {
	return nil, nil
}

func (noTranslation) TryTranslatePullDelete(context.Context, *store.Connection, domain.SyncBufferRow) (*IntegrationRecords, error) {
	return nil, nil
}

func (noTranslation) TryTranslatePush(context.Context, *store.Connection, domain.ChangelogRow) ([]PushRecord, error) {
	return nil, nil
}

// PullDeleteRecord removes one domain row.
type PullDeleteRecord struct {
	ID    string
	Table domain.Table
}

// IntegrationRecords is the storage mutation produced from one buffered
// record. Translators derive ids from legacy ids, so applying the same batch
// twice leaves storage unchanged.
type IntegrationRecords struct {
	Upserts []domain.Row
	Deletes []PullDeleteRecord
}

func FromUpsert(row domain.Row) *IntegrationRecords {
	return &IntegrationRecords{Upserts: []domain.Row{row}}
}

func FromUpserts(rows []domain.Row) *IntegrationRecords {
	return &IntegrationRecords{Upserts: rows}
}

func FromDelete(id string, table domain.Table) *IntegrationRecords {
	return &IntegrationRecords{Deletes: []PullDeleteRecord{{ID: id, Table: table}}}
}

// Join appends other's upserts and deletes after r's.
func (r *IntegrationRecords) Join(other *IntegrationRecords) *IntegrationRecords {
	if other == nil {
		return r
	}
	if r == nil {
		return other
	}
	return &IntegrationRecords{
		Upserts: append(append([]domain.Row{}, r.Upserts...), other.Upserts...),
		Deletes: append(append([]PullDeleteRecord{}, r.Deletes...), other.Deletes...),
	}
}

func (r *IntegrationRecords) IsEmpty() bool {
	return r == nil || (len(r.Upserts) == 0 && len(r.Deletes) == 0)
}

// Integrate applies upserts in order, then deletes, as sync writes.
// Callers wrap it in store.Transaction so the batch is all or nothing.
func (r *IntegrationRecords) Integrate(ctx context.Context, conn *store.Connection) error {
	for _, row := range r.Upserts {
		if err := conn.SyncUpsert(ctx, row); err != nil {
			return err
		}
	}
	for _, d := range r.Deletes {
		if err := conn.SyncDelete(ctx, d.Table, d.ID); err != nil {
			return err
		}
	}
	return nil
}

// PushAction is the action of an outbound record.
type PushAction string

const (
	PushActionUpsert PushAction = "upsert"
	PushActionDelete PushAction = "delete"
)

// PushRecord is one outbound legacy record. Data is canonical JSON in the
// legacy field naming and is empty for deletes.
type PushRecord struct {
	Action    PushAction      `json:"action"`
	Cursor    int64           `json:"cursor"`
	TableName string          `json:"table_name"`
	RecordID  string          `json:"record_id"`
	Data      json.RawMessage `json:"data,omitempty"`
}
