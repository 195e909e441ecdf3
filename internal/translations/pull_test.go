package translations

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/sitesync/internal/domain"
	"github.com/roach88/sitesync/internal/legacy"
	"github.com/roach88/sitesync/internal/store"
)

func TestTranslatePull_FirstClaimWins(t *testing.T) {
	conn := mockConn(t)
	first := &fakeTranslator{pullUpsert: func(domain.SyncBufferRow) (*IntegrationRecords, error) {
		return FromUpsert(domain.NameTagRow{ID: "from_first"}), nil
	}}
	second := &fakeTranslator{pullUpsert: func(domain.SyncBufferRow) (*IntegrationRecords, error) {
		return FromUpsert(domain.NameTagRow{ID: "from_second"}), nil
	}}

	got, err := TranslatePull(context.Background(), conn, []SyncTranslation{first, second},
		upsertRecord(legacy.TableNameTag, "t1", `{}`))
	require.NoError(t, err)
	assert.Equal(t, "from_first", got.Upserts[0].RowID())
	assert.Equal(t, 1, first.calls)
	assert.Equal(t, 0, second.calls)
}

func TestTranslatePull_EmptyResultStillClaims(t *testing.T) {
	conn := mockConn(t)
	empty := &fakeTranslator{pullUpsert: func(domain.SyncBufferRow) (*IntegrationRecords, error) {
		return &IntegrationRecords{}, nil
	}}
	later := &fakeTranslator{}

	got, err := TranslatePull(context.Background(), conn, []SyncTranslation{&fakeTranslator{}, empty, later},
		upsertRecord("anything", "r1", `{}`))
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.IsEmpty())
	assert.Equal(t, 0, later.calls)
}

func TestTranslatePull_Unclaimed(t *testing.T) {
	conn := mockConn(t)

	got, err := TranslatePull(context.Background(), conn, AllTranslators(),
		upsertRecord("unknown_table", "r1", `{"ID":"r1"}`))
	require.NoError(t, err)
	assert.Nil(t, got)

	for _, table := range []string{legacy.TableNameTag, legacy.TablePeriodSchedule, legacy.TableActivityLog} {
		got, err = TranslatePull(context.Background(), conn, AllTranslators(), deleteRecord(table, "x"))
		require.NoError(t, err, table)
		assert.Nil(t, got, "%s never claims deletes", table)
	}
}

func TestTranslatePull_CentralDeletes(t *testing.T) {
	conn := mockConn(t)
	ctx := context.Background()

	rows := []domain.Row{
		domain.UnitRow{ID: "u_gone", Name: "Box"},
		domain.ItemRow{ID: "i_gone", Name: "Gauze", Code: "GZ", Type: domain.ItemTypeStock},
		domain.StoreRow{ID: "s_gone", NameID: "name_store_a", Code: "OLD", SiteID: 9},
		domain.ReportRow{ID: "r_gone", Name: "Old slip", Template: "{}", Context: domain.ReportContextInvoice},
	}
	for _, r := range rows {
		require.NoError(t, conn.SyncUpsert(ctx, r))
	}

	tests := []struct {
		table string
		id    string
		want  domain.Table
	}{
		{legacy.TableUnit, "u_gone", domain.TableUnit},
		{legacy.TableItem, "i_gone", domain.TableItem},
		{legacy.TableStore, "s_gone", domain.TableStore},
		{legacy.TableReport, "r_gone", domain.TableReport},
	}
	for _, tt := range tests {
		got, err := TranslatePull(ctx, conn, AllTranslators(), deleteRecord(tt.table, tt.id))
		require.NoError(t, err, tt.table)
		require.NotNil(t, got, tt.table)
		assert.Equal(t, []PullDeleteRecord{{ID: tt.id, Table: tt.want}}, got.Deletes, tt.table)
		require.NoError(t, got.Integrate(ctx, conn), tt.table)
	}

	unit, err := store.FindByID[domain.UnitRow](ctx, conn, "u_gone")
	require.NoError(t, err)
	assert.Nil(t, unit)
	item, err := store.FindByID[domain.ItemRow](ctx, conn, "i_gone")
	require.NoError(t, err)
	assert.Nil(t, item)
	st, err := store.FindByID[domain.StoreRow](ctx, conn, "s_gone")
	require.NoError(t, err)
	assert.Nil(t, st)
	report, err := store.FindByID[domain.ReportRow](ctx, conn, "r_gone")
	require.NoError(t, err)
	assert.Nil(t, report)
}

func TestTranslatePull_Report(t *testing.T) {
	conn := mockConn(t)
	ctx := context.Background()

	got, err := TranslatePull(ctx, conn, AllTranslators(), upsertRecord(legacy.TableReport, "r1",
		`{"ID":"r1","report_name":"Picking slip","editor":"omsupply","template":"{\"index\":\"slip.html\"}","context":"Invoice","comment":""}`))
	require.NoError(t, err)
	assert.Equal(t, []domain.Row{domain.ReportRow{
		ID: "r1", Name: "Picking slip", Template: `{"index":"slip.html"}`, Context: domain.ReportContextInvoice,
	}}, got.Upserts)

	got, err = TranslatePull(ctx, conn, AllTranslators(), upsertRecord(legacy.TableReport, "r2",
		`{"ID":"r2","report_name":"Desktop form","editor":"cr","template":"","context":"Invoice"}`))
	require.NoError(t, err)
	require.NotNil(t, got, "reports for other editors are claimed")
	assert.True(t, got.IsEmpty())

	_, err = TranslatePull(ctx, conn, AllTranslators(), upsertRecord(legacy.TableReport, "r3",
		`{"ID":"r3","report_name":"Odd","editor":"omsupply","template":"","context":"Dispensary"}`))
	assert.True(t, IsMalformed(err))
}

func TestTranslatePull_TranslatorErrorStopsDispatch(t *testing.T) {
	conn := mockConn(t)
	boom := errors.New("boom")
	failing := &fakeTranslator{pullUpsert: func(domain.SyncBufferRow) (*IntegrationRecords, error) {
		return nil, boom
	}}
	later := &fakeTranslator{}

	got, err := TranslatePull(context.Background(), conn, []SyncTranslation{failing, later},
		upsertRecord(legacy.TableUnit, "u1", `{}`))
	assert.Nil(t, got)
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 0, later.calls)

	var te *SyncTranslationError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, legacy.TableUnit, te.TableName)
	assert.Equal(t, "u1", te.RecordID)
}

func TestTranslatePull_Malformed(t *testing.T) {
	tests := []struct {
		name string
		rec  domain.SyncBufferRow
	}{
		{"empty payload", upsertRecord(legacy.TableUnit, "u1", "")},
		{"invalid json", upsertRecord(legacy.TableUnit, "u1", `{"ID":`)},
		{"wrong field type", upsertRecord(legacy.TableUnit, "u1", `{"ID":"u1","order_number":"first"}`)},
		{"unknown enum code", upsertRecord(legacy.TableItem, "i1", `{"ID":"i1","type_of":"cross_reference"}`)},
		{"unknown status", upsertRecord(legacy.TableTransact, "inv1", `{"ID":"inv1","type":"ci","status":"zz","entry_date":"2024-05-01"}`)},
		{"absent entry date", upsertRecord(legacy.TableTransact, "inv1", `{"ID":"inv1","type":"ci","status":"nw","entry_date":"0000-00-00"}`)},
		{"bad number name", upsertRecord(legacy.TableNumber, "n1", `{"ID":"n1","name":"invoice_number","value":1}`)},
		{"unknown activity type", upsertRecord(legacy.TableActivityLog, "al1", `{"ID":"al1","type":"USER_WAVED","date":"2024-05-01","time":0}`)},
		{"activity without date", upsertRecord(legacy.TableActivityLog, "al1", `{"ID":"al1","type":"USER_LOGGED_IN","date":"0000-00-00","time":0}`)},
		{"unknown action", domain.SyncBufferRow{TableName: legacy.TableUnit, RecordID: "u1", Action: "merge"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conn := mockConn(t)
			got, err := TranslatePull(context.Background(), conn, AllTranslators(), tt.rec)
			assert.Nil(t, got)
			assert.True(t, IsMalformed(err), "got %v", err)
		})
	}
}

func TestTranslatePull_CentralRecords(t *testing.T) {
	conn := mockConn(t)
	ctx := context.Background()

	tests := []struct {
		rec  domain.SyncBufferRow
		want domain.Row
	}{
		{
			upsertRecord(legacy.TableName, "n1", `{"ID":"n1","name":"Depot","code":"DEP","type":"store","customer":true,"supplier":false}`),
			domain.NameRow{ID: "n1", Name: "Depot", Code: "DEP", Type: domain.NameTypeStore, IsCustomer: true},
		},
		{
			upsertRecord(legacy.TableName, "n2", `{"ID":"n2","name":"Someone","code":"","type":"bidder"}`),
			domain.NameRow{ID: "n2", Name: "Someone", Type: domain.NameTypeOthers},
		},
		{
			upsertRecord(legacy.TableNameTag, "nt", `{"ID":"nt","description":"District"}`),
			domain.NameTagRow{ID: "nt", Name: "District"},
		},
		{
			upsertRecord(legacy.TablePeriodSchedule, "ps", `{"ID":"ps","name":"Quarterly"}`),
			domain.PeriodScheduleRow{ID: "ps", Name: "Quarterly"},
		},
		{
			upsertRecord(legacy.TableUnit, "u1", `{"ID":"u1","units":"Tablet","comment":"","order_number":4}`),
			domain.UnitRow{ID: "u1", Name: "Tablet", Index: 4},
		},
		{
			upsertRecord(legacy.TableItem, "i1", `{"ID":"i1","item_name":"Amoxicillin","code":"AMX","unit_ID":"u1","type_of":"general"}`),
			domain.ItemRow{ID: "i1", Name: "Amoxicillin", Code: "AMX", UnitID: ptr("u1"), Type: domain.ItemTypeStock},
		},
		{
			upsertRecord(legacy.TableStore, "s1", `{"ID":"s1","name_ID":"n1","code":"DEP","sync_id":7}`),
			domain.StoreRow{ID: "s1", NameID: "n1", Code: "DEP", SiteID: 7},
		},
	}

	for _, tt := range tests {
		got, err := TranslatePull(ctx, conn, AllTranslators(), tt.rec)
		require.NoError(t, err, tt.rec.TableName)
		assert.Equal(t, []domain.Row{tt.want}, got.Upserts, tt.rec.TableName)
	}
}

func TestTranslatePull_RemoteRecords(t *testing.T) {
	conn := mockConn(t)
	ctx := context.Background()
	expiry := time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		rec  domain.SyncBufferRow
		want domain.Row
	}{
		{
			upsertRecord(legacy.TableNumber, "num1", `{"ID":"num1","name":"customer_invoice_for_store_store_a","value":42}`),
			domain.NumberRow{ID: "num1", Value: 42, StoreID: "store_a", Type: "customer_invoice"},
		},
		{
			upsertRecord(legacy.TableLocation, "loc1", `{"ID":"loc1","Description":"Cold room","code":"CR","hold":true,"store_ID":"store_a"}`),
			domain.LocationRow{ID: "loc1", Name: "Cold room", Code: "CR", OnHold: true, StoreID: "store_a"},
		},
		{
			upsertRecord(legacy.TableItemLine, "sl1", `{"ID":"sl1","item_ID":"item_a","store_ID":"store_a","location_ID":"","batch":"B1","expiry_date":"2025-03-31","pack_size":10,"cost_price":1.5,"sell_price":2,"available":3,"quantity":4,"hold":false,"note":""}`),
			domain.StockLineRow{
				ID: "sl1", ItemID: "item_a", StoreID: "store_a", Batch: ptr("B1"), ExpiryDate: &expiry,
				PackSize: 10, CostPricePerPack: 1.5, SellPricePerPack: 2, AvailableNumberOfPacks: 3, TotalNumberOfPacks: 4,
			},
		},
		{
			upsertRecord(legacy.TableTransact, "inv1", `{"ID":"inv1","name_ID":"name_customer","store_ID":"store_a","invoice_num":5,"type":"ci","status":"sg","hold":false,"comment":"urgent","their_ref":"","entry_date":"2024-05-01","entry_time":3661}`),
			domain.InvoiceRow{
				ID: "inv1", NameID: "name_customer", StoreID: "store_a", InvoiceNumber: 5,
				Type: domain.InvoiceTypeOutboundShipment, Status: domain.InvoiceStatusPicked, Comment: ptr("urgent"),
				CreatedDatetime: time.Date(2024, 5, 1, 1, 1, 1, 0, time.UTC),
			},
		},
		{
			upsertRecord(legacy.TableTransLine, "line1", `{"ID":"line1","transaction_ID":"inv1","item_ID":"item_a","item_name":"Item A","item_line_ID":"sl1","expiry_date":"0000-00-00","pack_size":1,"quantity":2,"type":"stock_out"}`),
			domain.InvoiceLineRow{
				ID: "line1", InvoiceID: "inv1", ItemID: "item_a", ItemName: "Item A", ItemCode: "item_a_code",
				StockLineID: ptr("sl1"), PackSize: 1, NumberOfPacks: 2, Type: domain.InvoiceLineTypeStockOut,
			},
		},
		{
			upsertRecord(legacy.TableActivityLog, "al1", `{"ID":"al1","type":"USER_LOGGED_IN","user_ID":"user_1","store_ID":"","record_ID":"","date":"2024-05-01","time":3600}`),
			domain.ActivityLogRow{
				ID: "al1", Type: domain.ActivityLogUserLoggedIn, UserID: ptr("user_1"),
				Datetime: time.Date(2024, 5, 1, 1, 0, 0, 0, time.UTC),
			},
		},
		{
			upsertRecord(legacy.TableStocktakeLine, "stl1", `{"ID":"stl1","stock_take_ID":"st1","snapshot_qty":5,"stock_take_qty":null,"item_ID":"item_b"}`),
			domain.StocktakeLineRow{ID: "stl1", StocktakeID: "st1", SnapshotNumberOfPacks: 5, ItemID: "item_b"},
		},
	}

	for _, tt := range tests {
		got, err := TranslatePull(ctx, conn, AllTranslators(), tt.rec)
		require.NoError(t, err, tt.rec.TableName)
		require.NotNil(t, got, tt.rec.TableName)
		assert.Equal(t, []domain.Row{tt.want}, got.Upserts, tt.rec.TableName)
	}
}

func TestTranslatePull_InvoiceLineMissingItem(t *testing.T) {
	conn := mockConn(t)

	_, err := TranslatePull(context.Background(), conn, AllTranslators(), upsertRecord(legacy.TableTransLine, "line1",
		`{"ID":"line1","transaction_ID":"inv1","item_ID":"no_such_item","type":"stock_in"}`))

	var md *MissingDependencyError
	require.ErrorAs(t, err, &md)
	assert.Equal(t, "item", md.Dependency)
	assert.Equal(t, "no_such_item", md.Key)
	assert.False(t, IsMalformed(err))
}

func TestTranslatePull_NameStoreJoinCopiesNameFlags(t *testing.T) {
	conn := mockConn(t)
	ctx := context.Background()

	got, err := TranslatePull(ctx, conn, AllTranslators(), upsertRecord(legacy.TableNameStoreJoin, "nsj1",
		`{"ID":"nsj1","name_ID":"name_customer","store_ID":"store_a","inactive":false}`))
	require.NoError(t, err)
	assert.Equal(t, []domain.Row{domain.NameStoreJoinRow{
		ID: "nsj1", NameID: "name_customer", StoreID: "store_a", NameIsCustomer: true,
	}}, got.Upserts)

	_, err = TranslatePull(ctx, conn, AllTranslators(), upsertRecord(legacy.TableNameStoreJoin, "nsj2",
		`{"ID":"nsj2","name_ID":"ghost","store_ID":"store_a"}`))
	assert.True(t, IsMissingDependency(err))
}

func TestTranslatePull_NameDeleteRemovesVisibility(t *testing.T) {
	conn := mockConn(t)
	ctx := context.Background()

	for _, j := range []domain.NameStoreJoinRow{
		{ID: "nsj1", NameID: "name_customer", StoreID: "store_a"},
		{ID: "nsj2", NameID: "name_customer", StoreID: "store_b"},
		{ID: "nsj3", NameID: "name_store_a", StoreID: "store_b"},
	} {
		require.NoError(t, conn.SyncUpsert(ctx, j))
	}

	got, err := TranslatePull(ctx, conn, AllTranslators(), deleteRecord(legacy.TableName, "name_customer"))
	require.NoError(t, err)
	assert.Empty(t, got.Upserts)
	assert.ElementsMatch(t, []PullDeleteRecord{
		{ID: "nsj1", Table: domain.TableNameStoreJoin},
		{ID: "nsj2", Table: domain.TableNameStoreJoin},
	}, got.Deletes)

	require.NoError(t, got.Integrate(ctx, conn))
	name, err := store.FindByID[domain.NameRow](ctx, conn, "name_customer")
	require.NoError(t, err)
	assert.NotNil(t, name, "the name itself is kept")
	remaining, err := store.All[domain.NameStoreJoinRow](ctx, conn)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, "nsj3", remaining[0].ID)

	// A name without joins is still claimed.
	got, err = TranslatePull(ctx, conn, AllTranslators(), deleteRecord(legacy.TableName, "name_customer"))
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.IsEmpty())
}

func TestIntegrationRecords_Join(t *testing.T) {
	var none *IntegrationRecords
	a := FromUpsert(domain.NameTagRow{ID: "a"})
	b := FromDelete("b", domain.TableLocation)

	assert.Same(t, a, none.Join(a))
	assert.Same(t, a, a.Join(nil))

	joined := a.Join(b)
	assert.Equal(t, []domain.Row{domain.NameTagRow{ID: "a"}}, joined.Upserts)
	assert.Equal(t, []PullDeleteRecord{{ID: "b", Table: domain.TableLocation}}, joined.Deletes)
	assert.Len(t, a.Deletes, 0, "join does not mutate its receiver")

	assert.True(t, none.IsEmpty())
	assert.False(t, joined.IsEmpty())
}

func ptr[T any](v T) *T { return &v }
