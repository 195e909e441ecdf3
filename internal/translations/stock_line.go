package translations

import (
	"context"

	"github.com/roach88/sitesync/internal/domain"
	"github.com/roach88/sitesync/internal/legacy"
	"github.com/roach88/sitesync/internal/store"
)

type LegacyItemLineRow struct {
	ID         string  `json:"ID"`
	ItemID     string  `json:"item_ID"`
	StoreID    string  `json:"store_ID"`
	LocationID string  `json:"location_ID"`
	Batch      string  `json:"batch"`
	ExpiryDate string  `json:"expiry_date"`
	PackSize   int32   `json:"pack_size"`
	CostPrice  float64 `json:"cost_price"`
	SellPrice  float64 `json:"sell_price"`
	Available  float64 `json:"available"`
	Quantity   float64 `json:"quantity"`
	Hold       bool    `json:"hold"`
	Note       string  `json:"note"`
}

// StockLineTranslation maps legacy item_line records to stock lines.
type StockLineTranslation struct{}

func (StockLineTranslation) TryTranslatePullUpsert(_ context.Context, _ *store.Connection, rec domain.SyncBufferRow) (*IntegrationRecords, error) {
	if rec.TableName != legacy.TableItemLine {
		return nil, nil
	}
	var data LegacyItemLineRow
	if err := parseLegacy(rec, &data); err != nil {
		return nil, err
	}
	expiry, err := legacy.ParseDate(data.ExpiryDate)
	if err != nil {
		return nil, malformed(err)
	}
	return FromUpsert(domain.StockLineRow{
		ID:                     data.ID,
		ItemID:                 data.ItemID,
		StoreID:                data.StoreID,
		LocationID:             legacy.OptionalString(data.LocationID),
		Batch:                  legacy.OptionalString(data.Batch),
		ExpiryDate:             expiry,
		PackSize:               data.PackSize,
		CostPricePerPack:       data.CostPrice,
		SellPricePerPack:       data.SellPrice,
		AvailableNumberOfPacks: data.Available,
		TotalNumberOfPacks:     data.Quantity,
		OnHold:                 data.Hold,
		Note:                   legacy.OptionalString(data.Note),
	}), nil
}

func (StockLineTranslation) TryTranslatePullDelete(_ context.Context, _ *store.Connection, rec domain.SyncBufferRow) (*IntegrationRecords, error) {
	if rec.TableName != legacy.TableItemLine {
		return nil, nil
	}
	return FromDelete(rec.RecordID, domain.TableStockLine), nil
}

func (StockLineTranslation) TryTranslatePush(ctx context.Context, conn *store.Connection, entry domain.ChangelogRow) ([]PushRecord, error) {
	if entry.TableName != domain.TableStockLine {
		return nil, nil
	}
	row, err := store.FindByID[domain.StockLineRow](ctx, conn, entry.RecordID)
	if err != nil || row == nil {
		return nil, err
	}
	return pushUpsert(entry, legacy.TableItemLine, LegacyItemLineRow{
		ID:         row.ID,
		ItemID:     row.ItemID,
		StoreID:    row.StoreID,
		LocationID: legacy.StringValue(row.LocationID),
		Batch:      legacy.StringValue(row.Batch),
		ExpiryDate: legacy.FormatDate(row.ExpiryDate),
		PackSize:   row.PackSize,
		CostPrice:  row.CostPricePerPack,
		SellPrice:  row.SellPricePerPack,
		Available:  row.AvailableNumberOfPacks,
		Quantity:   row.TotalNumberOfPacks,
		Hold:       row.OnHold,
		Note:       legacy.StringValue(row.Note),
	})
}
