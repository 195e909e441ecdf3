package translations

import (
	"context"

	"github.com/roach88/sitesync/internal/domain"
	"github.com/roach88/sitesync/internal/legacy"
	"github.com/roach88/sitesync/internal/store"
)

type LegacyStocktakeRow struct {
	ID            string `json:"ID"`
	StoreID       string `json:"store_ID"`
	SerialNumber  int64  `json:"serial_number"`
	Comment       string `json:"comment"`
	Description   string `json:"Description"`
	Status        string `json:"status"`
	CreatedDate   string `json:"stock_take_created_date"`
	StocktakeDate string `json:"stock_take_date"`
}

type StocktakeTranslation struct{}

func (StocktakeTranslation) TryTranslatePullUpsert(_ context.Context, _ *store.Connection, rec domain.SyncBufferRow) (*IntegrationRecords, error) {
	if rec.TableName != legacy.TableStocktake {
		return nil, nil
	}
	var data LegacyStocktakeRow
	if err := parseLegacy(rec, &data); err != nil {
		return nil, err
	}
	status, err := stocktakeStatuses.pull(data.Status)
	if err != nil {
		return nil, err
	}
	created, err := legacy.ParseDateTime(data.CreatedDate, 0)
	if err != nil {
		return nil, malformed(err)
	}
	stocktakeDate, err := legacy.ParseDate(data.StocktakeDate)
	if err != nil {
		return nil, malformed(err)
	}
	return FromUpsert(domain.StocktakeRow{
		ID:              data.ID,
		StoreID:         data.StoreID,
		StocktakeNumber: data.SerialNumber,
		Comment:         legacy.OptionalString(data.Comment),
		Description:     legacy.OptionalString(data.Description),
		Status:          status,
		CreatedDatetime: created,
		StocktakeDate:   stocktakeDate,
	}), nil
}

func (StocktakeTranslation) TryTranslatePullDelete(_ context.Context, _ *store.Connection, rec domain.SyncBufferRow) (*IntegrationRecords, error) {
	if rec.TableName != legacy.TableStocktake {
		return nil, nil
	}
	return FromDelete(rec.RecordID, domain.TableStocktake), nil
}

func (StocktakeTranslation) TryTranslatePush(ctx context.Context, conn *store.Connection, entry domain.ChangelogRow) ([]PushRecord, error) {
	if entry.TableName != domain.TableStocktake {
		return nil, nil
	}
	row, err := store.FindByID[domain.StocktakeRow](ctx, conn, entry.RecordID)
	if err != nil || row == nil {
		return nil, err
	}
	status, err := stocktakeStatuses.push(row.Status)
	if err != nil {
		return nil, err
	}
	return pushUpsert(entry, legacy.TableStocktake, LegacyStocktakeRow{
		ID:            row.ID,
		StoreID:       row.StoreID,
		SerialNumber:  row.StocktakeNumber,
		Comment:       legacy.StringValue(row.Comment),
		Description:   legacy.StringValue(row.Description),
		Status:        status,
		CreatedDate:   legacy.FormatDate(&row.CreatedDatetime),
		StocktakeDate: legacy.FormatDate(row.StocktakeDate),
	})
}

type LegacyStocktakeLineRow struct {
	ID           string   `json:"ID"`
	StocktakeID  string   `json:"stock_take_ID"`
	ItemLineID   string   `json:"item_line_ID"`
	LocationID   string   `json:"location_id"`
	Comment      string   `json:"comment"`
	SnapshotQty  float64  `json:"snapshot_qty"`
	StocktakeQty *float64 `json:"stock_take_qty"`
	ItemID       string   `json:"item_ID"`
}

// StocktakeLineTranslation maps legacy Stock_take_lines records. Lines are
// only pushed while their stocktake belongs to this site.
type StocktakeLineTranslation struct{}

func (StocktakeLineTranslation) TryTranslatePullUpsert(_ context.Context, _ *store.Connection, rec domain.SyncBufferRow) (*IntegrationRecords, error) {
	if rec.TableName != legacy.TableStocktakeLine {
		return nil, nil
	}
	var data LegacyStocktakeLineRow
	if err := parseLegacy(rec, &data); err != nil {
		return nil, err
	}
	return FromUpsert(domain.StocktakeLineRow{
		ID:                    data.ID,
		StocktakeID:           data.StocktakeID,
		StockLineID:           legacy.OptionalString(data.ItemLineID),
		LocationID:            legacy.OptionalString(data.LocationID),
		Comment:               legacy.OptionalString(data.Comment),
		SnapshotNumberOfPacks: data.SnapshotQty,
		CountedNumberOfPacks:  data.StocktakeQty,
		ItemID:                data.ItemID,
	}), nil
}

func (StocktakeLineTranslation) TryTranslatePullDelete(_ context.Context, _ *store.Connection, rec domain.SyncBufferRow) (*IntegrationRecords, error) {
	if rec.TableName != legacy.TableStocktakeLine {
		return nil, nil
	}
	return FromDelete(rec.RecordID, domain.TableStocktakeLine), nil
}

func (StocktakeLineTranslation) TryTranslatePush(ctx context.Context, conn *store.Connection, entry domain.ChangelogRow) ([]PushRecord, error) {
	if entry.TableName != domain.TableStocktakeLine {
		return nil, nil
	}
	row, err := store.FindByID[domain.StocktakeLineRow](ctx, conn, entry.RecordID)
	if err != nil || row == nil {
		return nil, err
	}
	active, err := IsActiveRecordOnSite(ctx, conn, ActiveRecordCheck{Kind: ActiveRecordStocktakeLine, ParentID: row.StocktakeID})
	if err != nil || !active {
		return nil, err
	}
	return pushUpsert(entry, legacy.TableStocktakeLine, LegacyStocktakeLineRow{
		ID:           row.ID,
		StocktakeID:  row.StocktakeID,
		ItemLineID:   legacy.StringValue(row.StockLineID),
		LocationID:   legacy.StringValue(row.LocationID),
		Comment:      legacy.StringValue(row.Comment),
		SnapshotQty:  row.SnapshotNumberOfPacks,
		StocktakeQty: row.CountedNumberOfPacks,
		ItemID:       row.ItemID,
	})
}
