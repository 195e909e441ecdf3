package translations

import (
	"context"

	"github.com/roach88/sitesync/internal/domain"
	"github.com/roach88/sitesync/internal/legacy"
	"github.com/roach88/sitesync/internal/store"
)

type LegacyTransactRow struct {
	ID         string `json:"ID"`
	NameID     string `json:"name_ID"`
	StoreID    string `json:"store_ID"`
	InvoiceNum int64  `json:"invoice_num"`
	Type       string `json:"type"`
	Status     string `json:"status"`
	Hold       bool   `json:"hold"`
	Comment    string `json:"comment"`
	TheirRef   string `json:"their_ref"`
	EntryDate  string `json:"entry_date"`
	EntryTime  int64  `json:"entry_time"`
}

// InvoiceTranslation maps legacy transact records to invoices.
type InvoiceTranslation struct{}

func (InvoiceTranslation) TryTranslatePullUpsert(_ context.Context, _ *store.Connection, rec domain.SyncBufferRow) (*IntegrationRecords, error) {
	if rec.TableName != legacy.TableTransact {
		return nil, nil
	}
	var data LegacyTransactRow
	if err := parseLegacy(rec, &data); err != nil {
		return nil, err
	}
	invoiceType, err := invoiceTypes.pull(data.Type)
	if err != nil {
		return nil, err
	}
	status, err := invoiceStatuses.pull(data.Status)
	if err != nil {
		return nil, err
	}
	created, err := legacy.ParseDateTime(data.EntryDate, data.EntryTime)
	if err != nil {
		return nil, malformed(err)
	}
	return FromUpsert(domain.InvoiceRow{
		ID:              data.ID,
		NameID:          data.NameID,
		StoreID:         data.StoreID,
		InvoiceNumber:   data.InvoiceNum,
		Type:            invoiceType,
		Status:          status,
		OnHold:          data.Hold,
		Comment:         legacy.OptionalString(data.Comment),
		TheirReference:  legacy.OptionalString(data.TheirRef),
		CreatedDatetime: created,
	}), nil
}

func (InvoiceTranslation) TryTranslatePullDelete(_ context.Context, _ *store.Connection, rec domain.SyncBufferRow) (*IntegrationRecords, error) {
	if rec.TableName != legacy.TableTransact {
		return nil, nil
	}
	return FromDelete(rec.RecordID, domain.TableInvoice), nil
}

func (InvoiceTranslation) TryTranslatePush(ctx context.Context, conn *store.Connection, entry domain.ChangelogRow) ([]PushRecord, error) {
	if entry.TableName != domain.TableInvoice {
		return nil, nil
	}
	row, err := store.FindByID[domain.InvoiceRow](ctx, conn, entry.RecordID)
	if err != nil || row == nil {
		return nil, err
	}
	invoiceType, err := invoiceTypes.push(row.Type)
	if err != nil {
		return nil, err
	}
	status, err := invoiceStatuses.push(row.Status)
	if err != nil {
		return nil, err
	}
	date, seconds := legacy.FormatDateTime(row.CreatedDatetime)
	return pushUpsert(entry, legacy.TableTransact, LegacyTransactRow{
		ID:         row.ID,
		NameID:     row.NameID,
		StoreID:    row.StoreID,
		InvoiceNum: row.InvoiceNumber,
		Type:       invoiceType,
		Status:     status,
		Hold:       row.OnHold,
		Comment:    legacy.StringValue(row.Comment),
		TheirRef:   legacy.StringValue(row.TheirReference),
		EntryDate:  date,
		EntryTime:  seconds,
	})
}

type LegacyTransLineRow struct {
	ID            string  `json:"ID"`
	TransactionID string  `json:"transaction_ID"`
	ItemID        string  `json:"item_ID"`
	ItemName      string  `json:"item_name"`
	ItemLineID    string  `json:"item_line_ID"`
	LocationID    string  `json:"location_ID"`
	Batch         string  `json:"batch"`
	ExpiryDate    string  `json:"expiry_date"`
	PackSize      int32   `json:"pack_size"`
	CostPrice     float64 `json:"cost_price"`
	SellPrice     float64 `json:"sell_price"`
	Quantity      float64 `json:"quantity"`
	Type          string  `json:"type"`
	Note          string  `json:"note"`
}

// InvoiceLineTranslation maps legacy trans_line records to invoice lines.
// Lines are only pushed while their invoice belongs to this site.
type InvoiceLineTranslation struct{}

func (InvoiceLineTranslation) TryTranslatePullUpsert(ctx context.Context, conn *store.Connection, rec domain.SyncBufferRow) (*IntegrationRecords, error) {
	if rec.TableName != legacy.TableTransLine {
		return nil, nil
	}
	var data LegacyTransLineRow
	if err := parseLegacy(rec, &data); err != nil {
		return nil, err
	}
	lineType, err := invoiceLineTypes.pull(data.Type)
	if err != nil {
		return nil, err
	}
	expiry, err := legacy.ParseDate(data.ExpiryDate)
	if err != nil {
		return nil, malformed(err)
	}
	item, err := store.FindByID[domain.ItemRow](ctx, conn, data.ItemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, &MissingDependencyError{Dependency: string(domain.TableItem), Key: data.ItemID}
	}
	return FromUpsert(domain.InvoiceLineRow{
		ID:               data.ID,
		InvoiceID:        data.TransactionID,
		ItemID:           data.ItemID,
		ItemName:         data.ItemName,
		ItemCode:         item.Code,
		StockLineID:      legacy.OptionalString(data.ItemLineID),
		LocationID:       legacy.OptionalString(data.LocationID),
		Batch:            legacy.OptionalString(data.Batch),
		ExpiryDate:       expiry,
		PackSize:         data.PackSize,
		CostPricePerPack: data.CostPrice,
		SellPricePerPack: data.SellPrice,
		NumberOfPacks:    data.Quantity,
		Type:             lineType,
		Note:             legacy.OptionalString(data.Note),
	}), nil
}

func (InvoiceLineTranslation) TryTranslatePullDelete(_ context.Context, _ *store.Connection, rec domain.SyncBufferRow) (*IntegrationRecords, error) {
	if rec.TableName != legacy.TableTransLine {
		return nil, nil
	}
	return FromDelete(rec.RecordID, domain.TableInvoiceLine), nil
}

func (InvoiceLineTranslation) TryTranslatePush(ctx context.Context, conn *store.Connection, entry domain.ChangelogRow) ([]PushRecord, error) {
	if entry.TableName != domain.TableInvoiceLine {
		return nil, nil
	}
	row, err := store.FindByID[domain.InvoiceLineRow](ctx, conn, entry.RecordID)
	if err != nil || row == nil {
		return nil, err
	}
	active, err := IsActiveRecordOnSite(ctx, conn, ActiveRecordCheck{Kind: ActiveRecordInvoiceLine, ParentID: row.InvoiceID})
	if err != nil || !active {
		return nil, err
	}
	lineType, err := invoiceLineTypes.push(row.Type)
	if err != nil {
		return nil, err
	}
	return pushUpsert(entry, legacy.TableTransLine, LegacyTransLineRow{
		ID:            row.ID,
		TransactionID: row.InvoiceID,
		ItemID:        row.ItemID,
		ItemName:      row.ItemName,
		ItemLineID:    legacy.StringValue(row.StockLineID),
		LocationID:    legacy.StringValue(row.LocationID),
		Batch:         legacy.StringValue(row.Batch),
		ExpiryDate:    legacy.FormatDate(row.ExpiryDate),
		PackSize:      row.PackSize,
		CostPrice:     row.CostPricePerPack,
		SellPrice:     row.SellPricePerPack,
		Quantity:      row.NumberOfPacks,
		Type:          lineType,
		Note:          legacy.StringValue(row.Note),
	})
}
