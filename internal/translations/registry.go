package translations

import "github.com/roach88/sitesync/internal/legacy"

// AllTranslators returns every translator in dispatch order.
//
// ORDER MATTERS. Generic per-table translators come first and special
// translators last, so a special translator only sees records no generic
// translator claimed. Central tables are listed parents first, which is also
// the order buffered upserts are integrated in.
func AllTranslators() []SyncTranslation {
	return []SyncTranslation{
		// Central
		NameTranslation{},
		NameTagTranslation{},
		PeriodScheduleTranslation{},
		UnitTranslation{},
		ItemTranslation{},
		StoreTranslation{},
		MasterListTranslation{},
		MasterListLineTranslation{},
		MasterListNameJoinTranslation{},
		ReportTranslation{},
		// Remote
		NumberTranslation{},
		LocationTranslation{},
		StockLineTranslation{},
		InvoiceTranslation{},
		InvoiceLineTranslation{},
		StocktakeTranslation{},
		StocktakeLineTranslation{},
		RequisitionTranslation{},
		RequisitionLineTranslation{},
		ActivityLogTranslation{},
		// Remote-central
		NameStoreJoinTranslation{},
		// Special
		NameToNameStoreJoinTranslation{},
	}
}

// IntegrationOrder lists legacy tables in the order their buffered upserts
// are integrated. Deletes are integrated in reverse.
func IntegrationOrder() []string {
	return []string{
		legacy.TableName,
		legacy.TableNameTag,
		legacy.TablePeriodSchedule,
		legacy.TableUnit,
		legacy.TableItem,
		legacy.TableStore,
		legacy.TableListMaster,
		legacy.TableListMasterLine,
		legacy.TableListMasterNameJoin,
		legacy.TableReport,
		legacy.TableNumber,
		legacy.TableLocation,
		legacy.TableItemLine,
		legacy.TableTransact,
		legacy.TableTransLine,
		legacy.TableStocktake,
		legacy.TableStocktakeLine,
		legacy.TableRequisition,
		legacy.TableRequisitionLine,
		legacy.TableActivityLog,
		legacy.TableNameStoreJoin,
	}
}
