package domain

// NameType classifies a name record.
type NameType string

const (
	NameTypeFacility NameType = "facility"
	NameTypePatient  NameType = "patient"
	NameTypeBuild    NameType = "build"
	NameTypeInvad    NameType = "invad"
	NameTypeRepack   NameType = "repack"
	NameTypeStore    NameType = "store"
	NameTypeOthers   NameType = "others"
)

// ReportContext is the kind of record a report template renders.
type ReportContext string

const (
	ReportContextInvoice     ReportContext = "invoice"
	ReportContextRequisition ReportContext = "requisition"
	ReportContextStocktake   ReportContext = "stocktake"
	ReportContextResource    ReportContext = "resource"
)

// ItemType classifies an item.
type ItemType string

const (
	ItemTypeStock    ItemType = "stock"
	ItemTypeService  ItemType = "service"
	ItemTypeNonStock ItemType = "non_stock"
)

type NameRow struct {
	ID         string
	Name       string
	Code       string
	Type       NameType
	IsCustomer bool
	IsSupplier bool
}

func (r NameRow) RowID() string   { return r.ID }
func (r NameRow) RowTable() Table { return TableName }

type NameTagRow struct {
	ID   string
	Name string
}

func (r NameTagRow) RowID() string   { return r.ID }
func (r NameTagRow) RowTable() Table { return TableNameTag }

type PeriodScheduleRow struct {
	ID   string
	Name string
}

func (r PeriodScheduleRow) RowID() string   { return r.ID }
func (r PeriodScheduleRow) RowTable() Table { return TablePeriodSchedule }

type UnitRow struct {
	ID          string
	Name        string
	Description *string
	Index       int32
}

func (r UnitRow) RowID() string   { return r.ID }
func (r UnitRow) RowTable() Table { return TableUnit }

type ItemRow struct {
	ID     string
	Name   string
	Code   string
	UnitID *string
	Type   ItemType
}

func (r ItemRow) RowID() string   { return r.ID }
func (r ItemRow) RowTable() Table { return TableItem }

// StoreRow belongs to exactly one site; SiteID is compared against the local
// site id by the active-record filter.
type StoreRow struct {
	ID     string
	NameID string
	Code   string
	SiteID int32
}

func (r StoreRow) RowID() string   { return r.ID }
func (r StoreRow) RowTable() Table { return TableStore }

type MasterListRow struct {
	ID          string
	Name        string
	Code        string
	Description string
}

func (r MasterListRow) RowID() string   { return r.ID }
func (r MasterListRow) RowTable() Table { return TableMasterList }

type MasterListLineRow struct {
	ID           string
	ItemID       string
	MasterListID string
}

func (r MasterListLineRow) RowID() string   { return r.ID }
func (r MasterListLineRow) RowTable() Table { return TableMasterListLine }

type MasterListNameJoinRow struct {
	ID           string
	MasterListID string
	NameID       string
}

func (r MasterListNameJoinRow) RowID() string   { return r.ID }
func (r MasterListNameJoinRow) RowTable() Table { return TableMasterListNameJoin }

// ProgramRow shares its id with the master list it was expanded from.
type ProgramRow struct {
	ID           string
	MasterListID string
	Name         string
}

func (r ProgramRow) RowID() string   { return r.ID }
func (r ProgramRow) RowTable() Table { return TableProgram }

// ProgramRequisitionSettingsRow ids are program id + name tag id.
type ProgramRequisitionSettingsRow struct {
	ID               string
	NameTagID        string
	ProgramID        string
	PeriodScheduleID string
}

func (r ProgramRequisitionSettingsRow) RowID() string { return r.ID }
func (r ProgramRequisitionSettingsRow) RowTable() Table {
	return TableProgramRequisitionSettings
}

// ProgramRequisitionOrderTypeRow ids are settings id + order type name.
type ProgramRequisitionOrderTypeRow struct {
	ID                           string
	ProgramRequisitionSettingsID string
	Name                         string
	ThresholdMOS                 float64
	MaxMOS                       float64
	MaxOrderPerPeriod            int32
}

func (r ProgramRequisitionOrderTypeRow) RowID() string { return r.ID }
func (r ProgramRequisitionOrderTypeRow) RowTable() Table {
	return TableProgramRequisitionOrderType
}

// ReportRow is a print template authored centrally. Template is stored as
// received.
type ReportRow struct {
	ID       string
	Name     string
	Template string
	Context  ReportContext
	Comment  *string
}

func (r ReportRow) RowID() string   { return r.ID }
func (r ReportRow) RowTable() Table { return TableReport }
