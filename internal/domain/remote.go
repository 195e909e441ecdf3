package domain

import "time"

type InvoiceType string

const (
	InvoiceTypeOutboundShipment    InvoiceType = "outbound_shipment"
	InvoiceTypeInboundShipment     InvoiceType = "inbound_shipment"
	InvoiceTypeInventoryAdjustment InvoiceType = "inventory_adjustment"
)

type InvoiceStatus string

const (
	InvoiceStatusNew      InvoiceStatus = "new"
	InvoiceStatusPicked   InvoiceStatus = "picked"
	InvoiceStatusShipped  InvoiceStatus = "shipped"
	InvoiceStatusVerified InvoiceStatus = "verified"
)

type InvoiceLineType string

const (
	InvoiceLineTypeStockIn  InvoiceLineType = "stock_in"
	InvoiceLineTypeStockOut InvoiceLineType = "stock_out"
	InvoiceLineTypeService  InvoiceLineType = "service"
)

type StocktakeStatus string

const (
	StocktakeStatusNew       StocktakeStatus = "new"
	StocktakeStatusFinalised StocktakeStatus = "finalised"
)

type RequisitionType string

const (
	RequisitionTypeRequest  RequisitionType = "request"
	RequisitionTypeResponse RequisitionType = "response"
)

type RequisitionStatus string

const (
	RequisitionStatusDraft     RequisitionStatus = "draft"
	RequisitionStatusSent      RequisitionStatus = "sent"
	RequisitionStatusFinalised RequisitionStatus = "finalised"
)

// ActivityLogType is the event an activity log entry records.
type ActivityLogType string

const (
	ActivityLogUserLoggedIn               ActivityLogType = "user_logged_in"
	ActivityLogInvoiceCreated             ActivityLogType = "invoice_created"
	ActivityLogInvoiceDeleted             ActivityLogType = "invoice_deleted"
	ActivityLogInvoiceStatusPicked        ActivityLogType = "invoice_status_picked"
	ActivityLogInvoiceStatusShipped       ActivityLogType = "invoice_status_shipped"
	ActivityLogInvoiceStatusVerified      ActivityLogType = "invoice_status_verified"
	ActivityLogStocktakeCreated           ActivityLogType = "stocktake_created"
	ActivityLogStocktakeStatusFinalised   ActivityLogType = "stocktake_status_finalised"
	ActivityLogRequisitionCreated         ActivityLogType = "requisition_created"
	ActivityLogRequisitionStatusSent      ActivityLogType = "requisition_status_sent"
	ActivityLogRequisitionStatusFinalised ActivityLogType = "requisition_status_finalised"
)

// NumberRow is a per-store counter, e.g. the next outbound shipment number.
type NumberRow struct {
	ID      string
	Value   int64
	StoreID string
	Type    string
}

func (r NumberRow) RowID() string   { return r.ID }
func (r NumberRow) RowTable() Table { return TableNumber }

type LocationRow struct {
	ID      string
	Name    string
	Code    string
	OnHold  bool
	StoreID string
}

func (r LocationRow) RowID() string   { return r.ID }
func (r LocationRow) RowTable() Table { return TableLocation }

type StockLineRow struct {
	ID                     string
	ItemID                 string
	StoreID                string
	LocationID             *string
	Batch                  *string
	ExpiryDate             *time.Time
	PackSize               int32
	CostPricePerPack       float64
	SellPricePerPack       float64
	AvailableNumberOfPacks float64
	TotalNumberOfPacks     float64
	OnHold                 bool
	Note                   *string
}

func (r StockLineRow) RowID() string   { return r.ID }
func (r StockLineRow) RowTable() Table { return TableStockLine }

type InvoiceRow struct {
	ID              string
	NameID          string
	StoreID         string
	InvoiceNumber   int64
	Type            InvoiceType
	Status          InvoiceStatus
	OnHold          bool
	Comment         *string
	TheirReference  *string
	CreatedDatetime time.Time
}

func (r InvoiceRow) RowID() string   { return r.ID }
func (r InvoiceRow) RowTable() Table { return TableInvoice }

type InvoiceLineRow struct {
	ID               string
	InvoiceID        string
	ItemID           string
	ItemName         string
	ItemCode         string
	StockLineID      *string
	LocationID       *string
	Batch            *string
	ExpiryDate       *time.Time
	PackSize         int32
	CostPricePerPack float64
	SellPricePerPack float64
	NumberOfPacks    float64
	Type             InvoiceLineType
	Note             *string
}

func (r InvoiceLineRow) RowID() string   { return r.ID }
func (r InvoiceLineRow) RowTable() Table { return TableInvoiceLine }

type StocktakeRow struct {
	ID              string
	StoreID         string
	StocktakeNumber int64
	Comment         *string
	Description     *string
	Status          StocktakeStatus
	CreatedDatetime time.Time
	StocktakeDate   *time.Time
}

func (r StocktakeRow) RowID() string   { return r.ID }
func (r StocktakeRow) RowTable() Table { return TableStocktake }

type StocktakeLineRow struct {
	ID                    string
	StocktakeID           string
	StockLineID           *string
	LocationID            *string
	Comment               *string
	SnapshotNumberOfPacks float64
	CountedNumberOfPacks  *float64
	ItemID                string
}

func (r StocktakeLineRow) RowID() string   { return r.ID }
func (r StocktakeLineRow) RowTable() Table { return TableStocktakeLine }

type RequisitionRow struct {
	ID                string
	NameID            string
	StoreID           string
	RequisitionNumber int64
	Type              RequisitionType
	Status            RequisitionStatus
	Comment           *string
	CreatedDatetime   time.Time
	ThresholdMOS      float64
	MaxMOS            float64
}

func (r RequisitionRow) RowID() string   { return r.ID }
func (r RequisitionRow) RowTable() Table { return TableRequisition }

type RequisitionLineRow struct {
	ID                   string
	RequisitionID        string
	ItemID               string
	RequestedQuantity    float64
	SupplyQuantity       float64
	AvailableStockOnHand float64
	DailyUsage           float64
	Comment              *string
}

func (r RequisitionLineRow) RowID() string   { return r.ID }
func (r RequisitionLineRow) RowTable() Table { return TableRequisitionLine }

// ActivityLogRow is an audit entry written by the site. Entries are only
// ever created, so the central server never sends deletes for them.
type ActivityLogRow struct {
	ID       string
	Type     ActivityLogType
	UserID   *string
	StoreID  *string
	RecordID *string
	Datetime time.Time
}

func (r ActivityLogRow) RowID() string   { return r.ID }
func (r ActivityLogRow) RowTable() Table { return TableActivityLog }

// NameStoreJoinRow makes a name visible in a store. The customer and supplier
// flags are copied from the name when the join is pulled.
type NameStoreJoinRow struct {
	ID             string
	NameID         string
	StoreID        string
	NameIsCustomer bool
	NameIsSupplier bool
	Inactive       bool
}

func (r NameStoreJoinRow) RowID() string   { return r.ID }
func (r NameStoreJoinRow) RowTable() Table { return TableNameStoreJoin }
