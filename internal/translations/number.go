package translations

import (
	"context"
	"fmt"
	"strings"

	"github.com/roach88/sitesync/internal/domain"
	"github.com/roach88/sitesync/internal/legacy"
	"github.com/roach88/sitesync/internal/store"
)

const numberStoreSeparator = "_for_store_"

// LegacyNumberRow encodes the counter type and store in its name, as
// "<type>_for_store_<store id>".
type LegacyNumberRow struct {
	ID    string `json:"ID"`
	Name  string `json:"name"`
	Value int64  `json:"value"`
}

type NumberTranslation struct{}

func (NumberTranslation) TryTranslatePullUpsert(_ context.Context, _ *store.Connection, rec domain.SyncBufferRow) (*IntegrationRecords, error) {
	if rec.TableName != legacy.TableNumber {
		return nil, nil
	}
	var data LegacyNumberRow
	if err := parseLegacy(rec, &data); err != nil {
		return nil, err
	}
	numberType, storeID, ok := strings.Cut(data.Name, numberStoreSeparator)
	if !ok || numberType == "" || storeID == "" {
		return nil, malformed(fmt.Errorf("number name %q is not <type>%s<store>", data.Name, numberStoreSeparator))
	}
	return FromUpsert(domain.NumberRow{
		ID:      data.ID,
		Value:   data.Value,
		StoreID: storeID,
		Type:    numberType,
	}), nil
}

func (NumberTranslation) TryTranslatePullDelete(_ context.Context, _ *store.Connection, rec domain.SyncBufferRow) (*IntegrationRecords, error) {
	if rec.TableName != legacy.TableNumber {
		return nil, nil
	}
	return FromDelete(rec.RecordID, domain.TableNumber), nil
}

func (NumberTranslation) TryTranslatePush(ctx context.Context, conn *store.Connection, entry domain.ChangelogRow) ([]PushRecord, error) {
	if entry.TableName != domain.TableNumber {
		return nil, nil
	}
	row, err := store.FindByID[domain.NumberRow](ctx, conn, entry.RecordID)
	if err != nil || row == nil {
		return nil, err
	}
	return pushUpsert(entry, legacy.TableNumber, LegacyNumberRow{
		ID:    row.ID,
		Name:  row.Type + numberStoreSeparator + row.StoreID,
		Value: row.Value,
	})
}

type LegacyLocationRow struct {
	ID          string `json:"ID"`
	Description string `json:"Description"`
	Code        string `json:"code"`
	Hold        bool   `json:"hold"`
	StoreID     string `json:"store_ID"`
}

type LocationTranslation struct{}

func (LocationTranslation) TryTranslatePullUpsert(_ context.Context, _ *store.Connection, rec domain.SyncBufferRow) (*IntegrationRecords, error) {
	if rec.TableName != legacy.TableLocation {
		return nil, nil
	}
	var data LegacyLocationRow
	if err := parseLegacy(rec, &data); err != nil {
		return nil, err
	}
	return FromUpsert(domain.LocationRow{
		ID:      data.ID,
		Name:    data.Description,
		Code:    data.Code,
		OnHold:  data.Hold,
		StoreID: data.StoreID,
	}), nil
}

func (LocationTranslation) TryTranslatePullDelete(_ context.Context, _ *store.Connection, rec domain.SyncBufferRow) (*IntegrationRecords, error) {
	if rec.TableName != legacy.TableLocation {
		return nil, nil
	}
	return FromDelete(rec.RecordID, domain.TableLocation), nil
}

func (LocationTranslation) TryTranslatePush(ctx context.Context, conn *store.Connection, entry domain.ChangelogRow) ([]PushRecord, error) {
	if entry.TableName != domain.TableLocation {
		return nil, nil
	}
	row, err := store.FindByID[domain.LocationRow](ctx, conn, entry.RecordID)
	if err != nil || row == nil {
		return nil, err
	}
	return pushUpsert(entry, legacy.TableLocation, LegacyLocationRow{
		ID:          row.ID,
		Description: row.Name,
		Code:        row.Code,
		Hold:        row.OnHold,
		StoreID:     row.StoreID,
	})
}
