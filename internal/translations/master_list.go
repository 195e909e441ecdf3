package translations

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/roach88/sitesync/internal/domain"
	"github.com/roach88/sitesync/internal/legacy"
	"github.com/roach88/sitesync/internal/store"
)

type LegacyListMasterRow struct {
	ID          string `json:"ID"`
	Description string `json:"description"`
	Code        string `json:"code"`
	Note        string `json:"note"`
	IsProgram   bool   `json:"isProgram"`

	// ProgramSettings is only decoded for programs; other lists carry
	// arbitrary placeholders here.
	ProgramSettings json.RawMessage `json:"programSettings"`
}

type LegacyProgramSettings struct {
	// StoreTags is keyed by name tag name.
	StoreTags map[string]LegacyProgramStoreTag `json:"storeTags"`
}

type LegacyProgramStoreTag struct {
	OrderTypes         []LegacyProgramOrderType `json:"orderTypes"`
	PeriodScheduleName string                   `json:"periodScheduleName"`
}

type LegacyProgramOrderType struct {
	Name               string  `json:"name"`
	ThresholdMOS       float64 `json:"thresholdMOS"`
	MaxMOS             float64 `json:"maxMOS"`
	MaxOrdersPerPeriod int32   `json:"maxOrdersPerPeriod"`
}

// MasterListTranslation pulls list_master records. A list flagged as a
// program also expands into a program, one requisition settings row per
// store tag and one order type row per order type of each tag.
type MasterListTranslation struct{ noTranslation }

func (MasterListTranslation) TryTranslatePullUpsert(ctx context.Context, conn *store.Connection, rec domain.SyncBufferRow) (*IntegrationRecords, error) {
	if rec.TableName != legacy.TableListMaster {
		return nil, nil
	}
	var data LegacyListMasterRow
	if err := parseLegacy(rec, &data); err != nil {
		return nil, err
	}

	result := FromUpsert(domain.MasterListRow{
		ID:          data.ID,
		Name:        data.Description,
		Code:        data.Code,
		Description: data.Note,
	})
	if !data.IsProgram {
		return result, nil
	}

	program, err := generateProgram(ctx, conn, data)
	if err != nil {
		return nil, err
	}
	return result.Join(program), nil
}

func (MasterListTranslation) TryTranslatePullDelete(_ context.Context, _ *store.Connection, rec domain.SyncBufferRow) (*IntegrationRecords, error) {
	if rec.TableName != legacy.TableListMaster {
		return nil, nil
	}
	return FromDelete(rec.RecordID, domain.TableMasterList), nil
}

// generateProgram derives every program row from the list. Ids are built by
// concatenation so the same legacy record always yields the same rows:
// settings id is program id + name tag id, order type id is settings id +
// order type name. Tags are expanded in sorted key order.
func generateProgram(ctx context.Context, conn *store.Connection, data LegacyListMasterRow) (*IntegrationRecords, error) {
	if len(data.ProgramSettings) == 0 || string(data.ProgramSettings) == "null" {
		return nil, malformed(fmt.Errorf("program %s has no programSettings", data.ID))
	}
	var settings LegacyProgramSettings
	if err := json.Unmarshal(data.ProgramSettings, &settings); err != nil {
		return nil, malformed(fmt.Errorf("programSettings: %w", err))
	}

	rows := []domain.Row{domain.ProgramRow{
		ID:           data.ID,
		MasterListID: data.ID,
		Name:         data.Description,
	}}

	for _, tagName := range legacy.SortedKeys(settings.StoreTags) {
		tag := settings.StoreTags[tagName]

		nameTag, err := conn.FindNameTagByName(ctx, tagName)
		if err != nil {
			return nil, err
		}
		if nameTag == nil {
			return nil, &MissingDependencyError{Dependency: string(domain.TableNameTag), Key: tagName}
		}

		schedule, err := conn.FindPeriodScheduleByName(ctx, tag.PeriodScheduleName)
		if err != nil {
			return nil, err
		}
		if schedule == nil {
			return nil, &MissingDependencyError{Dependency: string(domain.TablePeriodSchedule), Key: tag.PeriodScheduleName}
		}

		settingsID := data.ID + nameTag.ID
		rows = append(rows, domain.ProgramRequisitionSettingsRow{
			ID:               settingsID,
			NameTagID:        nameTag.ID,
			ProgramID:        data.ID,
			PeriodScheduleID: schedule.ID,
		})

		for _, orderType := range tag.OrderTypes {
			rows = append(rows, domain.ProgramRequisitionOrderTypeRow{
				ID:                           settingsID + orderType.Name,
				ProgramRequisitionSettingsID: settingsID,
				Name:                         orderType.Name,
				ThresholdMOS:                 orderType.ThresholdMOS,
				MaxMOS:                       orderType.MaxMOS,
				MaxOrderPerPeriod:            orderType.MaxOrdersPerPeriod,
			})
		}
	}

	return FromUpserts(rows), nil
}

type LegacyListMasterLineRow struct {
	ID           string `json:"ID"`
	ItemID       string `json:"item_ID"`
	MasterListID string `json:"item_master_ID"`
}

type MasterListLineTranslation struct{ noTranslation }

func (MasterListLineTranslation) TryTranslatePullUpsert(_ context.Context, _ *store.Connection, rec domain.SyncBufferRow) (*IntegrationRecords, error) {
	if rec.TableName != legacy.TableListMasterLine {
		return nil, nil
	}
	var data LegacyListMasterLineRow
	if err := parseLegacy(rec, &data); err != nil {
		return nil, err
	}
	return FromUpsert(domain.MasterListLineRow{
		ID:           data.ID,
		ItemID:       data.ItemID,
		MasterListID: data.MasterListID,
	}), nil
}

func (MasterListLineTranslation) TryTranslatePullDelete(_ context.Context, _ *store.Connection, rec domain.SyncBufferRow) (*IntegrationRecords, error) {
	if rec.TableName != legacy.TableListMasterLine {
		return nil, nil
	}
	return FromDelete(rec.RecordID, domain.TableMasterListLine), nil
}

type LegacyListMasterNameJoinRow struct {
	ID           string `json:"ID"`
	NameID       string `json:"name_ID"`
	MasterListID string `json:"list_master_ID"`
}

type MasterListNameJoinTranslation struct{ noTranslation }

func (MasterListNameJoinTranslation) TryTranslatePullUpsert(_ context.Context, _ *store.Connection, rec domain.SyncBufferRow) (*IntegrationRecords, error) {
	if rec.TableName != legacy.TableListMasterNameJoin {
		return nil, nil
	}
	var data LegacyListMasterNameJoinRow
	if err := parseLegacy(rec, &data); err != nil {
		return nil, err
	}
	return FromUpsert(domain.MasterListNameJoinRow{
		ID:           data.ID,
		MasterListID: data.MasterListID,
		NameID:       data.NameID,
	}), nil
}

func (MasterListNameJoinTranslation) TryTranslatePullDelete(_ context.Context, _ *store.Connection, rec domain.SyncBufferRow) (*IntegrationRecords, error) {
	if rec.TableName != legacy.TableListMasterNameJoin {
		return nil, nil
	}
	return FromDelete(rec.RecordID, domain.TableMasterListNameJoin), nil
}
