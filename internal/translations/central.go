package translations

import (
	"context"

	"github.com/roach88/sitesync/internal/domain"
	"github.com/roach88/sitesync/internal/legacy"
	"github.com/roach88/sitesync/internal/store"
)

type LegacyNameRow struct {
	ID       string `json:"ID"`
	Name     string `json:"name"`
	Code     string `json:"code"`
	Type     string `json:"type"`
	Customer bool   `json:"customer"`
	Supplier bool   `json:"supplier"`
}

// NameTranslation never claims deletes. A legacy name delete is handled by
// NameToNameStoreJoinTranslation.
type NameTranslation struct{ noTranslation }

func (NameTranslation) TryTranslatePullUpsert(_ context.Context, _ *store.Connection, rec domain.SyncBufferRow) (*IntegrationRecords, error) {
	if rec.TableName != legacy.TableName {
		return nil, nil
	}
	var data LegacyNameRow
	if err := parseLegacy(rec, &data); err != nil {
		return nil, err
	}
	return FromUpsert(domain.NameRow{
		ID:         data.ID,
		Name:       data.Name,
		Code:       data.Code,
		Type:       nameTypeFromLegacy(data.Type),
		IsCustomer: data.Customer,
		IsSupplier: data.Supplier,
	}), nil
}

type LegacyNameTagRow struct {
	ID          string `json:"ID"`
	Description string `json:"description"`
}

type NameTagTranslation struct{ noTranslation }

func (NameTagTranslation) TryTranslatePullUpsert(_ context.Context, _ *store.Connection, rec domain.SyncBufferRow) (*IntegrationRecords, error) {
	if rec.TableName != legacy.TableNameTag {
		return nil, nil
	}
	var data LegacyNameTagRow
	if err := parseLegacy(rec, &data); err != nil {
		return nil, err
	}
	return FromUpsert(domain.NameTagRow{ID: data.ID, Name: data.Description}), nil
}

type LegacyPeriodScheduleRow struct {
	ID   string `json:"ID"`
	Name string `json:"name"`
}

type PeriodScheduleTranslation struct{ noTranslation }

func (PeriodScheduleTranslation) TryTranslatePullUpsert(_ context.Context, _ *store.Connection, rec domain.SyncBufferRow) (*IntegrationRecords, error) {
	if rec.TableName != legacy.TablePeriodSchedule {
		return nil, nil
	}
	var data LegacyPeriodScheduleRow
	if err := parseLegacy(rec, &data); err != nil {
		return nil, err
	}
	return FromUpsert(domain.PeriodScheduleRow{ID: data.ID, Name: data.Name}), nil
}

type LegacyUnitRow struct {
	ID          string `json:"ID"`
	Units       string `json:"units"`
	Comment     string `json:"comment"`
	OrderNumber int32  `json:"order_number"`
}

type UnitTranslation struct{ noTranslation }

func (UnitTranslation) TryTranslatePullUpsert(_ context.Context, _ *store.Connection, rec domain.SyncBufferRow) (*IntegrationRecords, error) {
	if rec.TableName != legacy.TableUnit {
		return nil, nil
	}
	var data LegacyUnitRow
	if err := parseLegacy(rec, &data); err != nil {
		return nil, err
	}
	return FromUpsert(domain.UnitRow{
		ID:          data.ID,
		Name:        data.Units,
		Description: legacy.OptionalString(data.Comment),
		Index:       data.OrderNumber,
	}), nil
}

func (UnitTranslation) TryTranslatePullDelete(_ context.Context, _ *store.Connection, rec domain.SyncBufferRow) (*IntegrationRecords, error) {
	if rec.TableName != legacy.TableUnit {
		return nil, nil
	}
	return FromDelete(rec.RecordID, domain.TableUnit), nil
}

type LegacyItemRow struct {
	ID       string `json:"ID"`
	ItemName string `json:"item_name"`
	Code     string `json:"code"`
	UnitID   string `json:"unit_ID"`
	TypeOf   string `json:"type_of"`
}

type ItemTranslation struct{ noTranslation }

func (ItemTranslation) TryTranslatePullUpsert(_ context.Context, _ *store.Connection, rec domain.SyncBufferRow) (*IntegrationRecords, error) {
	if rec.TableName != legacy.TableItem {
		return nil, nil
	}
	var data LegacyItemRow
	if err := parseLegacy(rec, &data); err != nil {
		return nil, err
	}
	itemType, err := itemTypes.pull(data.TypeOf)
	if err != nil {
		return nil, err
	}
	return FromUpsert(domain.ItemRow{
		ID:     data.ID,
		Name:   data.ItemName,
		Code:   data.Code,
		UnitID: legacy.OptionalString(data.UnitID),
		Type:   itemType,
	}), nil
}

func (ItemTranslation) TryTranslatePullDelete(_ context.Context, _ *store.Connection, rec domain.SyncBufferRow) (*IntegrationRecords, error) {
	if rec.TableName != legacy.TableItem {
		return nil, nil
	}
	return FromDelete(rec.RecordID, domain.TableItem), nil
}

type LegacyStoreRow struct {
	ID     string `json:"ID"`
	NameID string `json:"name_ID"`
	Code   string `json:"code"`
	SyncID int32  `json:"sync_id"`
}

type StoreTranslation struct{ noTranslation }

func (StoreTranslation) TryTranslatePullUpsert(_ context.Context, _ *store.Connection, rec domain.SyncBufferRow) (*IntegrationRecords, error) {
	if rec.TableName != legacy.TableStore {
		return nil, nil
	}
	var data LegacyStoreRow
	if err := parseLegacy(rec, &data); err != nil {
		return nil, err
	}
	return FromUpsert(domain.StoreRow{
		ID:     data.ID,
		NameID: data.NameID,
		Code:   data.Code,
		SiteID: data.SyncID,
	}), nil
}

func (StoreTranslation) TryTranslatePullDelete(_ context.Context, _ *store.Connection, rec domain.SyncBufferRow) (*IntegrationRecords, error) {
	if rec.TableName != legacy.TableStore {
		return nil, nil
	}
	return FromDelete(rec.RecordID, domain.TableStore), nil
}
