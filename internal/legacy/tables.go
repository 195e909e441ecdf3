package legacy

import "github.com/roach88/sitesync/internal/domain"

// Legacy table names as sent and expected by the central server.
const (
	TableName               = "name"
	TableNameTag            = "name_tag"
	TablePeriodSchedule     = "periodSchedule"
	TableUnit               = "unit"
	TableItem               = "item"
	TableStore              = "store"
	TableListMaster         = "list_master"
	TableListMasterLine     = "list_master_line"
	TableListMasterNameJoin = "list_master_name_join"
	TableReport             = "report"
	TableNumber             = "number"
	TableLocation           = "Location"
	TableItemLine           = "item_line"
	TableTransact           = "transact"
	TableTransLine          = "trans_line"
	TableStocktake          = "Stock_take"
	TableStocktakeLine      = "Stock_take_lines"
	TableRequisition        = "requisition"
	TableRequisitionLine    = "requisition_line"
	TableActivityLog        = "activity_log"
	TableNameStoreJoin      = "name_store_join"
)

var changelogTableNames = map[domain.Table]string{
	domain.TableNumber:          TableNumber,
	domain.TableLocation:        TableLocation,
	domain.TableStockLine:       TableItemLine,
	domain.TableInvoice:         TableTransact,
	domain.TableInvoiceLine:     TableTransLine,
	domain.TableStocktake:       TableStocktake,
	domain.TableStocktakeLine:   TableStocktakeLine,
	domain.TableRequisition:     TableRequisition,
	domain.TableRequisitionLine: TableRequisitionLine,
	domain.TableActivityLog:     TableActivityLog,
	domain.TableNameStoreJoin:   TableNameStoreJoin,
}

// TableNameFor maps a changelog table to the legacy table the central server
// knows it by. The mapping covers every domain.ChangelogTables entry.
func TableNameFor(table domain.Table) (string, bool) {
	name, ok := changelogTableNames[table]
	return name, ok
}
