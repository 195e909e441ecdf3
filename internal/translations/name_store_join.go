package translations

import (
	"context"

	"github.com/roach88/sitesync/internal/domain"
	"github.com/roach88/sitesync/internal/legacy"
	"github.com/roach88/sitesync/internal/store"
)

type LegacyNameStoreJoinRow struct {
	ID       string `json:"ID"`
	NameID   string `json:"name_ID"`
	StoreID  string `json:"store_ID"`
	Inactive bool   `json:"inactive"`
}

// NameStoreJoinTranslation copies the customer and supplier flags of the
// joined name onto the join when pulling.
type NameStoreJoinTranslation struct{}

func (NameStoreJoinTranslation) TryTranslatePullUpsert(ctx context.Context, conn *store.Connection, rec domain.SyncBufferRow) (*IntegrationRecords, error) {
	if rec.TableName != legacy.TableNameStoreJoin {
		return nil, nil
	}
	var data LegacyNameStoreJoinRow
	if err := parseLegacy(rec, &data); err != nil {
		return nil, err
	}
	name, err := store.FindByID[domain.NameRow](ctx, conn, data.NameID)
	if err != nil {
		return nil, err
	}
	if name == nil {
		return nil, &MissingDependencyError{Dependency: string(domain.TableName), Key: data.NameID}
	}
	return FromUpsert(domain.NameStoreJoinRow{
		ID:             data.ID,
		NameID:         data.NameID,
		StoreID:        data.StoreID,
		NameIsCustomer: name.IsCustomer,
		NameIsSupplier: name.IsSupplier,
		Inactive:       data.Inactive,
	}), nil
}

func (NameStoreJoinTranslation) TryTranslatePullDelete(_ context.Context, _ *store.Connection, rec domain.SyncBufferRow) (*IntegrationRecords, error) {
	if rec.TableName != legacy.TableNameStoreJoin {
		return nil, nil
	}
	return FromDelete(rec.RecordID, domain.TableNameStoreJoin), nil
}

func (NameStoreJoinTranslation) TryTranslatePush(ctx context.Context, conn *store.Connection, entry domain.ChangelogRow) ([]PushRecord, error) {
	if entry.TableName != domain.TableNameStoreJoin {
		return nil, nil
	}
	row, err := store.FindByID[domain.NameStoreJoinRow](ctx, conn, entry.RecordID)
	if err != nil || row == nil {
		return nil, err
	}
	return pushUpsert(entry, legacy.TableNameStoreJoin, LegacyNameStoreJoinRow{
		ID:       row.ID,
		NameID:   row.NameID,
		StoreID:  row.StoreID,
		Inactive: row.Inactive,
	})
}

// NameToNameStoreJoinTranslation reinterprets a legacy name delete as the
// removal of that name's store visibility: the name row is kept, its
// name_store_join rows are deleted. It only sees name deletes because
// NameTranslation never claims them.
type NameToNameStoreJoinTranslation struct{ noTranslation }

func (NameToNameStoreJoinTranslation) TryTranslatePullDelete(ctx context.Context, conn *store.Connection, rec domain.SyncBufferRow) (*IntegrationRecords, error) {
	if rec.TableName != legacy.TableName {
		return nil, nil
	}
	joins, err := store.FindBy[domain.NameStoreJoinRow](ctx, conn, "name_id", rec.RecordID)
	if err != nil {
		return nil, err
	}
	result := &IntegrationRecords{}
	for _, j := range joins {
		result.Deletes = append(result.Deletes, PullDeleteRecord{ID: j.ID, Table: domain.TableNameStoreJoin})
	}
	return result, nil
}
