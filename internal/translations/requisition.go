package translations

import (
	"context"

	"github.com/roach88/sitesync/internal/domain"
	"github.com/roach88/sitesync/internal/legacy"
	"github.com/roach88/sitesync/internal/store"
)

type LegacyRequisitionRow struct {
	ID           string  `json:"ID"`
	NameID       string  `json:"name_ID"`
	StoreID      string  `json:"store_ID"`
	SerialNumber int64   `json:"serial_number"`
	Type         string  `json:"type"`
	Status       string  `json:"status"`
	Comment      string  `json:"comment"`
	DateEntered  string  `json:"date_entered"`
	ThresholdMOS float64 `json:"thresholdMOS"`
	MaxMOS       float64 `json:"max_MOS"`
}

type RequisitionTranslation struct{}

func (RequisitionTranslation) TryTranslatePullUpsert(_ context.Context, _ *store.Connection, rec domain.SyncBufferRow) (*IntegrationRecords, error) {
	if rec.TableName != legacy.TableRequisition {
		return nil, nil
	}
	var data LegacyRequisitionRow
	if err := parseLegacy(rec, &data); err != nil {
		return nil, err
	}
	reqType, err := requisitionTypes.pull(data.Type)
	if err != nil {
		return nil, err
	}
	status, err := requisitionStatuses.pull(data.Status)
	if err != nil {
		return nil, err
	}
	created, err := legacy.ParseDateTime(data.DateEntered, 0)
	if err != nil {
		return nil, malformed(err)
	}
	return FromUpsert(domain.RequisitionRow{
		ID:                data.ID,
		NameID:            data.NameID,
		StoreID:           data.StoreID,
		RequisitionNumber: data.SerialNumber,
		Type:              reqType,
		Status:            status,
		Comment:           legacy.OptionalString(data.Comment),
		CreatedDatetime:   created,
		ThresholdMOS:      data.ThresholdMOS,
		MaxMOS:            data.MaxMOS,
	}), nil
}

func (RequisitionTranslation) TryTranslatePullDelete(_ context.Context, _ *store.Connection, rec domain.SyncBufferRow) (*IntegrationRecords, error) {
	if rec.TableName != legacy.TableRequisition {
		return nil, nil
	}
	return FromDelete(rec.RecordID, domain.TableRequisition), nil
}

func (RequisitionTranslation) TryTranslatePush(ctx context.Context, conn *store.Connection, entry domain.ChangelogRow) ([]PushRecord, error) {
	if entry.TableName != domain.TableRequisition {
		return nil, nil
	}
	row, err := store.FindByID[domain.RequisitionRow](ctx, conn, entry.RecordID)
	if err != nil || row == nil {
		return nil, err
	}
	reqType, err := requisitionTypes.push(row.Type)
	if err != nil {
		return nil, err
	}
	status, err := requisitionStatuses.push(row.Status)
	if err != nil {
		return nil, err
	}
	return pushUpsert(entry, legacy.TableRequisition, LegacyRequisitionRow{
		ID:           row.ID,
		NameID:       row.NameID,
		StoreID:      row.StoreID,
		SerialNumber: row.RequisitionNumber,
		Type:         reqType,
		Status:       status,
		Comment:      legacy.StringValue(row.Comment),
		DateEntered:  legacy.FormatDate(&row.CreatedDatetime),
		ThresholdMOS: row.ThresholdMOS,
		MaxMOS:       row.MaxMOS,
	})
}

type LegacyRequisitionLineRow struct {
	ID             string  `json:"ID"`
	RequisitionID  string  `json:"requisition_ID"`
	ItemID         string  `json:"item_ID"`
	CustStockOrder float64 `json:"Cust_stock_order"`
	ActualQuan     float64 `json:"actualQuan"`
	StockOnHand    float64 `json:"stock_on_hand"`
	DailyUsage     float64 `json:"daily_usage"`
	Comment        string  `json:"comment"`
}

// RequisitionLineTranslation maps legacy requisition_line records. Lines are
// only pushed while their requisition belongs to this site.
type RequisitionLineTranslation struct{}

func (RequisitionLineTranslation) TryTranslatePullUpsert(_ context.Context, _ *store.Connection, rec domain.SyncBufferRow) (*IntegrationRecords, error) {
	if rec.TableName != legacy.TableRequisitionLine {
		return nil, nil
	}
	var data LegacyRequisitionLineRow
	if err := parseLegacy(rec, &data); err != nil {
		return nil, err
	}
	return FromUpsert(domain.RequisitionLineRow{
		ID:                   data.ID,
		RequisitionID:        data.RequisitionID,
		ItemID:               data.ItemID,
		RequestedQuantity:    data.CustStockOrder,
		SupplyQuantity:       data.ActualQuan,
		AvailableStockOnHand: data.StockOnHand,
		DailyUsage:           data.DailyUsage,
		Comment:              legacy.OptionalString(data.Comment),
	}), nil
}

func (RequisitionLineTranslation) TryTranslatePullDelete(_ context.Context, _ *store.Connection, rec domain.SyncBufferRow) (*IntegrationRecords, error) {
	if rec.TableName != legacy.TableRequisitionLine {
		return nil, nil
	}
	return FromDelete(rec.RecordID, domain.TableRequisitionLine), nil
}

func (RequisitionLineTranslation) TryTranslatePush(ctx context.Context, conn *store.Connection, entry domain.ChangelogRow) ([]PushRecord, error) {
	if entry.TableName != domain.TableRequisitionLine {
		return nil, nil
	}
	row, err := store.FindByID[domain.RequisitionLineRow](ctx, conn, entry.RecordID)
	if err != nil || row == nil {
		return nil, err
	}
	active, err := IsActiveRecordOnSite(ctx, conn, ActiveRecordCheck{Kind: ActiveRecordRequisitionLine, ParentID: row.RequisitionID})
	if err != nil || !active {
		return nil, err
	}
	return pushUpsert(entry, legacy.TableRequisitionLine, LegacyRequisitionLineRow{
		ID:             row.ID,
		RequisitionID:  row.RequisitionID,
		ItemID:         row.ItemID,
		CustStockOrder: row.RequestedQuantity,
		ActualQuan:     row.SupplyQuantity,
		StockOnHand:    row.AvailableStockOnHand,
		DailyUsage:     row.DailyUsage,
		Comment:        legacy.StringValue(row.Comment),
	})
}
