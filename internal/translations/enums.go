package translations

import (
	"fmt"

	"github.com/roach88/sitesync/internal/domain"
)

// enumMapping is a bijection between legacy codes and a domain enum.
type enumMapping[T ~string] struct {
	name     string
	toDomain map[string]T
	toLegacy map[T]string
}

func newEnumMapping[T ~string](name string, pairs map[string]T) enumMapping[T] {
	m := enumMapping[T]{name: name, toDomain: pairs, toLegacy: make(map[T]string, len(pairs))}
	for code, v := range pairs {
		m.toLegacy[v] = code
	}
	return m
}

func (m enumMapping[T]) pull(code string) (T, error) {
	v, ok := m.toDomain[code]
	if !ok {
		return "", malformed(fmt.Errorf("unknown %s %q", m.name, code))
	}
	return v, nil
}

func (m enumMapping[T]) push(v T) (string, error) {
	code, ok := m.toLegacy[v]
	if !ok {
		return "", fmt.Errorf("%s %q has no legacy code", m.name, v)
	}
	return code, nil
}

var (
	itemTypes = newEnumMapping("item type", map[string]domain.ItemType{
		"general":   domain.ItemTypeStock,
		"service":   domain.ItemTypeService,
		"non_stock": domain.ItemTypeNonStock,
	})

	invoiceTypes = newEnumMapping("transact type", map[string]domain.InvoiceType{
		"ci": domain.InvoiceTypeOutboundShipment,
		"si": domain.InvoiceTypeInboundShipment,
		"sc": domain.InvoiceTypeInventoryAdjustment,
	})

	invoiceStatuses = newEnumMapping("transact status", map[string]domain.InvoiceStatus{
		"nw": domain.InvoiceStatusNew,
		"sg": domain.InvoiceStatusPicked,
		"cn": domain.InvoiceStatusShipped,
		"fn": domain.InvoiceStatusVerified,
	})

	invoiceLineTypes = newEnumMapping("trans_line type", map[string]domain.InvoiceLineType{
		"stock_in":  domain.InvoiceLineTypeStockIn,
		"stock_out": domain.InvoiceLineTypeStockOut,
		"service":   domain.InvoiceLineTypeService,
	})

	stocktakeStatuses = newEnumMapping("Stock_take status", map[string]domain.StocktakeStatus{
		"sg": domain.StocktakeStatusNew,
		"fn": domain.StocktakeStatusFinalised,
	})

	requisitionTypes = newEnumMapping("requisition type", map[string]domain.RequisitionType{
		"request":  domain.RequisitionTypeRequest,
		"response": domain.RequisitionTypeResponse,
	})

	requisitionStatuses = newEnumMapping("requisition status", map[string]domain.RequisitionStatus{
		"sg": domain.RequisitionStatusDraft,
		"cn": domain.RequisitionStatusSent,
		"fn": domain.RequisitionStatusFinalised,
	})

	reportContexts = newEnumMapping("report context", map[string]domain.ReportContext{
		"Invoice":     domain.ReportContextInvoice,
		"Requisition": domain.ReportContextRequisition,
		"Stocktake":   domain.ReportContextStocktake,
		"Resource":    domain.ReportContextResource,
	})

	activityLogTypes = newEnumMapping("activity log type", map[string]domain.ActivityLogType{
		"USER_LOGGED_IN":               domain.ActivityLogUserLoggedIn,
		"INVOICE_CREATED":              domain.ActivityLogInvoiceCreated,
		"INVOICE_DELETED":              domain.ActivityLogInvoiceDeleted,
		"INVOICE_STATUS_PICKED":        domain.ActivityLogInvoiceStatusPicked,
		"INVOICE_STATUS_SHIPPED":       domain.ActivityLogInvoiceStatusShipped,
		"INVOICE_STATUS_VERIFIED":      domain.ActivityLogInvoiceStatusVerified,
		"STOCKTAKE_CREATED":            domain.ActivityLogStocktakeCreated,
		"STOCKTAKE_STATUS_FINALISED":   domain.ActivityLogStocktakeStatusFinalised,
		"REQUISITION_CREATED":          domain.ActivityLogRequisitionCreated,
		"REQUISITION_STATUS_SENT":      domain.ActivityLogRequisitionStatusSent,
		"REQUISITION_STATUS_FINALISED": domain.ActivityLogRequisitionStatusFinalised,
	})
)

// nameTypeFromLegacy maps unknown name types to others; the central server
// adds name types without notice.
func nameTypeFromLegacy(code string) domain.NameType {
	switch t := domain.NameType(code); t {
	case domain.NameTypeFacility, domain.NameTypePatient, domain.NameTypeBuild,
		domain.NameTypeInvad, domain.NameTypeRepack, domain.NameTypeStore:
		return t
	default:
		return domain.NameTypeOthers
	}
}
