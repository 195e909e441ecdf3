package synchroniser

import (
	"context"

	"github.com/roach88/sitesync/internal/domain"
	"github.com/roach88/sitesync/internal/translations"
)

// SiteInfo identifies this site to the central server.
type SiteInfo struct {
	SiteID   int32
	SiteUUID string
}

// RemoteRecord is one legacy record received from the central server. Data
// is the legacy JSON document and is empty for deletes.
type RemoteRecord struct {
	TableName string
	RecordID  string
	Action    domain.SyncAction
	Data      string
}

// PullBatch is one page of remote records.
type PullBatch struct {
	Records []RemoteRecord
	// NextCursor is persisted once Records are buffered and passed to the
	// next Pull.
	NextCursor int64
	// More is false on the last page.
	More bool
}

// RemoteSource supplies site info and inbound records.
type RemoteSource interface {
	SiteInfo(ctx context.Context) (SiteInfo, error)
	Pull(ctx context.Context, cursor int64, limit int) (PullBatch, error)
}

// PushSink receives outbound records. Push must not return before records
// are durable on the receiving side; the push cursor advances when it
// returns nil.
type PushSink interface {
	Push(ctx context.Context, records []translations.PushRecord) error
}
