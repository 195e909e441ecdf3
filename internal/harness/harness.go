package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/roach88/sitesync/internal/domain"
	"github.com/roach88/sitesync/internal/store"
	"github.com/roach88/sitesync/internal/synchroniser"
	"github.com/roach88/sitesync/internal/testutil"
	"github.com/roach88/sitesync/internal/translations"
)

// Harness is the test execution engine.
// It drives a real Synchroniser against a fake central server with a
// deterministic clock and run ids.
type Harness struct {
	store  *store.Store
	sync   *synchroniser.Synchroniser
	sink   *recordingSink
	clock  *testutil.DeterministicClock
	logger *slog.Logger
}

// Run executes a test scenario and returns the result.
//
// Each scenario runs in a fresh database in a temporary directory.
//
// Execution flow:
// 1. Create a fresh database, seeding mock data when requested
// 2. Sync once: records in Pull are fetched and integrated
// 3. Write Local records as local changes and sync again to push them
// 4. Capture snapshot tables and evaluate assertions
//
// The returned error reports harness failures. Sync failures and failed
// assertions are reported in the Result.
func Run(scenario *Scenario) (*Result, error) {
	ctx := context.Background()

	dir, err := os.MkdirTemp("", "sitesync-harness-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create scenario directory: %w", err)
	}
	defer os.RemoveAll(dir)

	st, err := store.Open(filepath.Join(dir, "scenario.db"))
	if err != nil {
		return nil, fmt.Errorf("failed to open scenario store: %w", err)
	}
	defer st.Close()

	if scenario.Mock {
		if err := testutil.InsertMockData(ctx, st.Connection()); err != nil {
			return nil, fmt.Errorf("failed to insert mock data: %w", err)
		}
	}

	source, err := newScenarioSource(scenario)
	if err != nil {
		return nil, err
	}

	h := &Harness{
		store:  st,
		sink:   &recordingSink{},
		clock:  testutil.NewDeterministicClock(time.Time{}, 0),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)), // Suppress logs in tests
	}
	h.sync = synchroniser.New(st, source, h.sink,
		synchroniser.WithClock(h.clock),
		synchroniser.WithIDGenerator(testutil.NewSequentialIDGenerator(scenario.Name)),
		synchroniser.WithLogger(h.logger),
	)

	result := NewResult()
	if h.runSync(ctx, result) && len(scenario.Local) > 0 {
		if err := h.writeLocal(ctx, scenario.Local); err != nil {
			result.AddError(err.Error())
		} else {
			h.runSync(ctx, result)
		}
	}
	result.Pushed = append(result.Pushed, h.sink.records...)

	for _, table := range scenario.Snapshot {
		rows, err := st.Connection().DumpTable(ctx, domain.Table(table))
		if err != nil {
			return nil, fmt.Errorf("snapshot %s: %w", table, err)
		}
		if rows == nil {
			rows = []map[string]any{}
		}
		result.State[table] = rows
	}

	for _, msg := range EvaluateAssertions(result, scenario.Assertions, &AssertionContext{Store: st, Ctx: ctx}) {
		result.AddError(msg)
	}
	if result.SyncError != nil && !expectsSyncError(scenario.Assertions) {
		result.AddError(fmt.Sprintf("unexpected sync failure: %s", result.SyncError.Message))
	}

	return result, nil
}

// runSync performs one run and reports whether it succeeded.
func (h *Harness) runSync(ctx context.Context, result *Result) bool {
	err := h.sync.Sync(ctx)
	if err == nil {
		return true
	}
	var se *synchroniser.SyncError
	if errors.As(err, &se) {
		result.SyncError = &RunError{Code: string(se.Code), Phase: string(se.Phase), Message: se.Message}
	} else {
		result.SyncError = &RunError{Message: err.Error()}
	}
	return false
}

// writeLocal translates records as if pulled and stores the rows as local
// changes, so they reach the changelog.
func (h *Harness) writeLocal(ctx context.Context, records []Record) error {
	translators := translations.AllTranslators()
	for i, r := range records {
		data, err := r.payload()
		if err != nil {
			return fmt.Errorf("local[%d]: %w", i, err)
		}
		rec := domain.SyncBufferRow{
			TableName:        r.TableName,
			RecordID:         r.RecordID,
			Action:           r.action(),
			Data:             data,
			ReceivedDatetime: h.clock.Now(),
		}

		err = h.store.Transaction(ctx, func(c *store.Connection) error {
			rows, err := translations.TranslatePull(ctx, c, translators, rec)
			if err != nil {
				return err
			}
			if rows == nil {
				return fmt.Errorf("no translator claimed %s %s", r.TableName, r.RecordID)
			}
			for _, row := range rows.Upserts {
				if err := c.Upsert(ctx, row); err != nil {
					return err
				}
			}
			for _, d := range rows.Deletes {
				if err := c.Delete(ctx, d.Table, d.ID); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return fmt.Errorf("local[%d]: %w", i, err)
		}
	}
	return nil
}

func expectsSyncError(assertions []Assertion) bool {
	for _, a := range assertions {
		if a.Type == AssertSyncError {
			return true
		}
	}
	return false
}

// scenarioSource serves the scenario's pull records. The cursor is a record
// offset.
type scenarioSource struct {
	info    synchroniser.SiteInfo
	records []synchroniser.RemoteRecord
}

func newScenarioSource(s *Scenario) (*scenarioSource, error) {
	src := &scenarioSource{
		info: synchroniser.SiteInfo{SiteID: s.SiteID, SiteUUID: fmt.Sprintf("site-%d", s.SiteID)},
	}
	for i, r := range s.Pull {
		data, err := r.payload()
		if err != nil {
			return nil, fmt.Errorf("pull[%d]: %w", i, err)
		}
		src.records = append(src.records, synchroniser.RemoteRecord{
			TableName: r.TableName,
			RecordID:  r.RecordID,
			Action:    r.action(),
			Data:      data,
		})
	}
	return src, nil
}

func (s *scenarioSource) SiteInfo(context.Context) (synchroniser.SiteInfo, error) {
	return s.info, nil
}

func (s *scenarioSource) Pull(_ context.Context, cursor int64, limit int) (synchroniser.PullBatch, error) {
	total := int64(len(s.records))
	if cursor < 0 || cursor > total {
		return synchroniser.PullBatch{}, fmt.Errorf("cursor %d out of range [0, %d]", cursor, total)
	}
	end := min(cursor+int64(limit), total)
	return synchroniser.PullBatch{
		Records:    s.records[cursor:end],
		NextCursor: end,
		More:       end < total,
	}, nil
}

// recordingSink keeps every pushed record.
type recordingSink struct {
	records []translations.PushRecord
}

func (s *recordingSink) Push(_ context.Context, records []translations.PushRecord) error {
	s.records = append(s.records, records...)
	return nil
}
