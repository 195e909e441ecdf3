package synchroniser

import (
	"context"
	"fmt"
	"time"

	"github.com/roach88/sitesync/internal/domain"
	"github.com/roach88/sitesync/internal/store"
)

// runLog tracks the sync log row of the active run and persists it whenever
// a phase starts or ends.
type runLog struct {
	conn  *store.Connection
	now   func() time.Time
	row   domain.SyncLogRow
	phase Phase
}

func (r *runLog) save(ctx context.Context) error {
	return r.conn.UpsertSyncLog(ctx, r.row)
}

func (r *runLog) begin(ctx context.Context, p Phase) error {
	r.phase = p
	field, _, err := r.fields(p)
	if err != nil {
		return err
	}
	t := r.now()
	*field = &t
	return r.save(ctx)
}

func (r *runLog) end(ctx context.Context, p Phase) error {
	_, field, err := r.fields(p)
	if err != nil {
		return err
	}
	t := r.now()
	*field = &t
	return r.save(ctx)
}

func (r *runLog) fields(p Phase) (started, done **time.Time, err error) {
	switch p {
	case PhasePrepare:
		return &r.row.PrepareInitialStartedDatetime, &r.row.PrepareInitialDoneDatetime, nil
	case PhasePull:
		return &r.row.PullStartedDatetime, &r.row.PullDoneDatetime, nil
	case PhaseIntegration:
		return &r.row.IntegrationStartedDatetime, &r.row.IntegrationDoneDatetime, nil
	case PhasePush:
		return &r.row.PushStartedDatetime, &r.row.PushDoneDatetime, nil
	default:
		return nil, nil, fmt.Errorf("unknown sync phase %q", p)
	}
}
