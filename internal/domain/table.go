package domain

// Table tags a normalized domain table.
type Table string

// Central tables.
const (
	TableName                        Table = "name"
	TableNameTag                     Table = "name_tag"
	TablePeriodSchedule              Table = "period_schedule"
	TableUnit                        Table = "unit"
	TableItem                        Table = "item"
	TableStore                       Table = "store"
	TableMasterList                  Table = "master_list"
	TableMasterListLine              Table = "master_list_line"
	TableMasterListNameJoin          Table = "master_list_name_join"
	TableReport                      Table = "report"
	TableProgram                     Table = "program"
	TableProgramRequisitionSettings  Table = "program_requisition_settings"
	TableProgramRequisitionOrderType Table = "program_requisition_order_type"
)

// Remote tables.
const (
	TableNumber          Table = "number"
	TableLocation        Table = "location"
	TableStockLine       Table = "stock_line"
	TableInvoice         Table = "invoice"
	TableInvoiceLine     Table = "invoice_line"
	TableStocktake       Table = "stocktake"
	TableStocktakeLine   Table = "stocktake_line"
	TableRequisition     Table = "requisition"
	TableRequisitionLine Table = "requisition_line"
	TableActivityLog     Table = "activity_log"
)

// TableNameStoreJoin is the only remote-central table.
const TableNameStoreJoin Table = "name_store_join"

// ChangelogTables lists every table whose writes are recorded in the changelog.
func ChangelogTables() []Table {
	return []Table{
		TableNumber,
		TableLocation,
		TableStockLine,
		TableInvoice,
		TableInvoiceLine,
		TableStocktake,
		TableStocktakeLine,
		TableRequisition,
		TableRequisitionLine,
		TableActivityLog,
		TableNameStoreJoin,
	}
}

// IsChangelogTable reports whether writes to t produce changelog entries.
func (t Table) IsChangelogTable() bool {
	for _, c := range ChangelogTables() {
		if c == t {
			return true
		}
	}
	return false
}

// Row is implemented by every normalized domain row.
type Row interface {
	RowID() string
	RowTable() Table
}
