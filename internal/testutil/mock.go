package testutil

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/roach88/sitesync/internal/domain"
	"github.com/roach88/sitesync/internal/store"
)

// MockSiteID is the site id InsertMockData configures. store_a belongs to
// it, store_b belongs to another site.
const MockSiteID = 1

// Mock central rows. Translators resolve name tags and period schedules by
// name, so the names matter as much as the ids.
var (
	MockNameTag1 = domain.NameTagRow{ID: "name_tag_1", Name: "NewProgramTag1"}
	MockNameTag2 = domain.NameTagRow{ID: "name_tag_2", Name: "NewProgramTag2"}
	MockNameTag3 = domain.NameTagRow{ID: "name_tag_3", Name: "NewProgramTag3"}

	MockPeriodSchedule1 = domain.PeriodScheduleRow{ID: "period_schedule_1", Name: "Monthly"}
	MockPeriodSchedule2 = domain.PeriodScheduleRow{ID: "period_schedule_2", Name: "Weekly"}

	MockNameStoreA   = domain.NameRow{ID: "name_store_a", Name: "Store A", Code: "SA", Type: domain.NameTypeStore}
	MockNameStoreB   = domain.NameRow{ID: "name_store_b", Name: "Store B", Code: "SB", Type: domain.NameTypeStore}
	MockNameCustomer = domain.NameRow{ID: "name_customer", Name: "Clinic", Code: "CL", Type: domain.NameTypeFacility, IsCustomer: true}

	MockStoreA = domain.StoreRow{ID: "store_a", NameID: "name_store_a", Code: "SA", SiteID: MockSiteID}
	MockStoreB = domain.StoreRow{ID: "store_b", NameID: "name_store_b", Code: "SB", SiteID: 2}

	MockItemA = domain.ItemRow{ID: "item_a", Name: "Item A", Code: "item_a_code", Type: domain.ItemTypeStock}
	MockItemB = domain.ItemRow{ID: "item_b", Name: "Item B", Code: "item_b_code", Type: domain.ItemTypeStock}
)

// MockRows returns every mock central row.
func MockRows() []domain.Row {
	return []domain.Row{
		MockNameTag1, MockNameTag2, MockNameTag3,
		MockPeriodSchedule1, MockPeriodSchedule2,
		MockNameStoreA, MockNameStoreB, MockNameCustomer,
		MockStoreA, MockStoreB,
		MockItemA, MockItemB,
	}
}

// InsertMockData writes the mock rows and configures MockSiteID as the
// local site.
func InsertMockData(ctx context.Context, conn *store.Connection) error {
	for _, row := range MockRows() {
		if err := conn.Upsert(ctx, row); err != nil {
			return err
		}
	}
	return conn.SetInt(ctx, domain.SettingsSyncSiteID, MockSiteID)
}

// NewTestStore opens a store in a temp directory that is closed when the
// test ends.
func NewTestStore(t testing.TB) *store.Store {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// NewMockStore is NewTestStore with InsertMockData applied.
func NewMockStore(t testing.TB) *store.Store {
	t.Helper()
	s := NewTestStore(t)
	if err := InsertMockData(context.Background(), s.Connection()); err != nil {
		t.Fatalf("insert mock data: %v", err)
	}
	return s
}
