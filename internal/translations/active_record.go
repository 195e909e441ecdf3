package translations

import (
	"context"
	"errors"
	"fmt"

	"github.com/roach88/sitesync/internal/domain"
	"github.com/roach88/sitesync/internal/store"
)

var (
	// ErrSiteIDNotSet means the site has not been bootstrapped. Sync cannot
	// proceed without it.
	ErrSiteIDNotSet = errors.New("site id not set")

	// ErrParentRecordNotFound means a parent chain could not be resolved.
	// The record is skipped and the run continues.
	ErrParentRecordNotFound = errors.New("parent record not found")
)

// ActiveRecordKind selects the parent chain to follow.
type ActiveRecordKind string

const (
	// ActiveRecordInvoiceLine follows invoice -> store -> site.
	ActiveRecordInvoiceLine ActiveRecordKind = "invoice_line"
	// ActiveRecordRequisitionLine follows requisition -> store -> site.
	ActiveRecordRequisitionLine ActiveRecordKind = "requisition_line"
	// ActiveRecordStocktakeLine follows stocktake -> store -> site.
	ActiveRecordStocktakeLine ActiveRecordKind = "stocktake_line"
)

// ActiveRecordCheck asks whether the record whose parent is ParentID belongs
// to the local site.
type ActiveRecordCheck struct {
	Kind     ActiveRecordKind
	ParentID string
}

// IsActiveRecordOnSite resolves the owning store of check's parent and
// reports whether that store belongs to the local site.
func IsActiveRecordOnSite(ctx context.Context, conn *store.Connection, check ActiveRecordCheck) (bool, error) {
	siteID, ok, err := conn.SiteID(ctx)
	if err != nil {
		return false, fmt.Errorf("active record check: %w", err)
	}
	if !ok {
		return false, ErrSiteIDNotSet
	}

	storeID, err := parentStoreID(ctx, conn, check)
	if err != nil {
		return false, err
	}

	st, err := store.FindByID[domain.StoreRow](ctx, conn, storeID)
	if err != nil {
		return false, fmt.Errorf("active record check: %w", err)
	}
	if st == nil {
		return false, fmt.Errorf("%w: store %s", ErrParentRecordNotFound, storeID)
	}
	return st.SiteID == siteID, nil
}

func parentStoreID(ctx context.Context, conn *store.Connection, check ActiveRecordCheck) (string, error) {
	switch check.Kind {
	case ActiveRecordInvoiceLine:
		return lookupStoreID(ctx, conn, check.ParentID, func(r domain.InvoiceRow) string { return r.StoreID })
	case ActiveRecordRequisitionLine:
		return lookupStoreID(ctx, conn, check.ParentID, func(r domain.RequisitionRow) string { return r.StoreID })
	case ActiveRecordStocktakeLine:
		return lookupStoreID(ctx, conn, check.ParentID, func(r domain.StocktakeRow) string { return r.StoreID })
	default:
		return "", fmt.Errorf("active record check: unknown kind %q", check.Kind)
	}
}

func lookupStoreID[T domain.Row](ctx context.Context, conn *store.Connection, id string, storeID func(T) string) (string, error) {
	parent, err := store.FindByID[T](ctx, conn, id)
	if err != nil {
		return "", fmt.Errorf("active record check: %w", err)
	}
	if parent == nil {
		var zero T
		return "", fmt.Errorf("%w: %s %s", ErrParentRecordNotFound, zero.RowTable(), id)
	}
	return storeID(*parent), nil
}
