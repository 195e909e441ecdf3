package store

import (
	"database/sql"
	"errors"

	"github.com/roach88/sitesync/internal/domain"
)

func registerRemoteTables() {
	register(
		define(
			[]string{"id", "value", "store_id", "type"},
			func(r domain.NumberRow) []any { return []any{r.ID, r.Value, r.StoreID, r.Type} },
			func(s scanner) (domain.NumberRow, error) {
				var r domain.NumberRow
				err := s.Scan(&r.ID, &r.Value, &r.StoreID, &r.Type)
				return r, err
			},
		),
		define(
			[]string{"id", "name", "code", "on_hold", "store_id"},
			func(r domain.LocationRow) []any { return []any{r.ID, r.Name, r.Code, r.OnHold, r.StoreID} },
			func(s scanner) (domain.LocationRow, error) {
				var r domain.LocationRow
				err := s.Scan(&r.ID, &r.Name, &r.Code, &r.OnHold, &r.StoreID)
				return r, err
			},
		),
		define(
			[]string{
				"id", "item_id", "store_id", "location_id", "batch", "expiry_date", "pack_size",
				"cost_price_per_pack", "sell_price_per_pack", "available_number_of_packs",
				"total_number_of_packs", "on_hold", "note",
			},
			func(r domain.StockLineRow) []any {
				return []any{
					r.ID, r.ItemID, r.StoreID, nullString(r.LocationID), nullString(r.Batch),
					nullDate(r.ExpiryDate), r.PackSize, r.CostPricePerPack, r.SellPricePerPack,
					r.AvailableNumberOfPacks, r.TotalNumberOfPacks, r.OnHold, nullString(r.Note),
				}
			},
			func(s scanner) (domain.StockLineRow, error) {
				var r domain.StockLineRow
				var locationID, batch, expiry, note sql.NullString
				err := s.Scan(
					&r.ID, &r.ItemID, &r.StoreID, &locationID, &batch, &expiry, &r.PackSize,
					&r.CostPricePerPack, &r.SellPricePerPack, &r.AvailableNumberOfPacks,
					&r.TotalNumberOfPacks, &r.OnHold, &note,
				)
				if err != nil {
					return r, err
				}
				r.LocationID = stringPtr(locationID)
				r.Batch = stringPtr(batch)
				r.Note = stringPtr(note)
				r.ExpiryDate, err = parseNullDate(expiry)
				return r, err
			},
		),
		define(
			[]string{
				"id", "name_id", "store_id", "invoice_number", "type", "status", "on_hold",
				"comment", "their_reference", "created_datetime",
			},
			func(r domain.InvoiceRow) []any {
				return []any{
					r.ID, r.NameID, r.StoreID, r.InvoiceNumber, string(r.Type), string(r.Status), r.OnHold,
					nullString(r.Comment), nullString(r.TheirReference), formatTime(r.CreatedDatetime),
				}
			},
			func(s scanner) (domain.InvoiceRow, error) {
				var r domain.InvoiceRow
				var comment, theirRef sql.NullString
				var created string
				err := s.Scan(
					&r.ID, &r.NameID, &r.StoreID, &r.InvoiceNumber, &r.Type, &r.Status, &r.OnHold,
					&comment, &theirRef, &created,
				)
				if err != nil {
					return r, err
				}
				r.Comment = stringPtr(comment)
				r.TheirReference = stringPtr(theirRef)
				r.CreatedDatetime, err = parseTime(created)
				return r, err
			},
		),
		define(
			[]string{
				"id", "invoice_id", "item_id", "item_name", "item_code", "stock_line_id",
				"location_id", "batch", "expiry_date", "pack_size", "cost_price_per_pack",
				"sell_price_per_pack", "number_of_packs", "type", "note",
			},
			func(r domain.InvoiceLineRow) []any {
				return []any{
					r.ID, r.InvoiceID, r.ItemID, r.ItemName, r.ItemCode, nullString(r.StockLineID),
					nullString(r.LocationID), nullString(r.Batch), nullDate(r.ExpiryDate), r.PackSize,
					r.CostPricePerPack, r.SellPricePerPack, r.NumberOfPacks, string(r.Type), nullString(r.Note),
				}
			},
			func(s scanner) (domain.InvoiceLineRow, error) {
				var r domain.InvoiceLineRow
				var stockLineID, locationID, batch, expiry, note sql.NullString
				err := s.Scan(
					&r.ID, &r.InvoiceID, &r.ItemID, &r.ItemName, &r.ItemCode, &stockLineID,
					&locationID, &batch, &expiry, &r.PackSize, &r.CostPricePerPack,
					&r.SellPricePerPack, &r.NumberOfPacks, &r.Type, &note,
				)
				if err != nil {
					return r, err
				}
				r.StockLineID = stringPtr(stockLineID)
				r.LocationID = stringPtr(locationID)
				r.Batch = stringPtr(batch)
				r.Note = stringPtr(note)
				r.ExpiryDate, err = parseNullDate(expiry)
				return r, err
			},
		),
		define(
			[]string{
				"id", "store_id", "stocktake_number", "comment", "description", "status",
				"created_datetime", "stocktake_date",
			},
			func(r domain.StocktakeRow) []any {
				return []any{
					r.ID, r.StoreID, r.StocktakeNumber, nullString(r.Comment), nullString(r.Description),
					string(r.Status), formatTime(r.CreatedDatetime), nullDate(r.StocktakeDate),
				}
			},
			func(s scanner) (domain.StocktakeRow, error) {
				var r domain.StocktakeRow
				var comment, description, stocktakeDate sql.NullString
				var created string
				err := s.Scan(
					&r.ID, &r.StoreID, &r.StocktakeNumber, &comment, &description, &r.Status,
					&created, &stocktakeDate,
				)
				if err != nil {
					return r, err
				}
				r.Comment = stringPtr(comment)
				r.Description = stringPtr(description)
				createdAt, createdErr := parseTime(created)
				r.CreatedDatetime = createdAt
				date, dateErr := parseNullDate(stocktakeDate)
				r.StocktakeDate = date
				return r, errors.Join(createdErr, dateErr)
			},
		),
		define(
			[]string{
				"id", "stocktake_id", "stock_line_id", "location_id", "comment",
				"snapshot_number_of_packs", "counted_number_of_packs", "item_id",
			},
			func(r domain.StocktakeLineRow) []any {
				return []any{
					r.ID, r.StocktakeID, nullString(r.StockLineID), nullString(r.LocationID),
					nullString(r.Comment), r.SnapshotNumberOfPacks, nullFloat(r.CountedNumberOfPacks), r.ItemID,
				}
			},
			func(s scanner) (domain.StocktakeLineRow, error) {
				var r domain.StocktakeLineRow
				var stockLineID, locationID, comment sql.NullString
				var counted sql.NullFloat64
				err := s.Scan(
					&r.ID, &r.StocktakeID, &stockLineID, &locationID, &comment,
					&r.SnapshotNumberOfPacks, &counted, &r.ItemID,
				)
				r.StockLineID = stringPtr(stockLineID)
				r.LocationID = stringPtr(locationID)
				r.Comment = stringPtr(comment)
				r.CountedNumberOfPacks = floatPtr(counted)
				return r, err
			},
		),
		define(
			[]string{
				"id", "name_id", "store_id", "requisition_number", "type", "status", "comment",
				"created_datetime", "threshold_mos", "max_mos",
			},
			func(r domain.RequisitionRow) []any {
				return []any{
					r.ID, r.NameID, r.StoreID, r.RequisitionNumber, string(r.Type), string(r.Status),
					nullString(r.Comment), formatTime(r.CreatedDatetime), r.ThresholdMOS, r.MaxMOS,
				}
			},
			func(s scanner) (domain.RequisitionRow, error) {
				var r domain.RequisitionRow
				var comment sql.NullString
				var created string
				err := s.Scan(
					&r.ID, &r.NameID, &r.StoreID, &r.RequisitionNumber, &r.Type, &r.Status, &comment,
					&created, &r.ThresholdMOS, &r.MaxMOS,
				)
				if err != nil {
					return r, err
				}
				r.Comment = stringPtr(comment)
				r.CreatedDatetime, err = parseTime(created)
				return r, err
			},
		),
		define(
			[]string{
				"id", "requisition_id", "item_id", "requested_quantity", "supply_quantity",
				"available_stock_on_hand", "daily_usage", "comment",
			},
			func(r domain.RequisitionLineRow) []any {
				return []any{
					r.ID, r.RequisitionID, r.ItemID, r.RequestedQuantity, r.SupplyQuantity,
					r.AvailableStockOnHand, r.DailyUsage, nullString(r.Comment),
				}
			},
			func(s scanner) (domain.RequisitionLineRow, error) {
				var r domain.RequisitionLineRow
				var comment sql.NullString
				err := s.Scan(
					&r.ID, &r.RequisitionID, &r.ItemID, &r.RequestedQuantity, &r.SupplyQuantity,
					&r.AvailableStockOnHand, &r.DailyUsage, &comment,
				)
				r.Comment = stringPtr(comment)
				return r, err
			},
		),
		define(
			[]string{"id", "type", "user_id", "store_id", "record_id", "datetime"},
			func(r domain.ActivityLogRow) []any {
				return []any{
					r.ID, string(r.Type), nullString(r.UserID), nullString(r.StoreID),
					nullString(r.RecordID), formatTime(r.Datetime),
				}
			},
			func(s scanner) (domain.ActivityLogRow, error) {
				var r domain.ActivityLogRow
				var userID, storeID, recordID sql.NullString
				var datetime string
				err := s.Scan(&r.ID, &r.Type, &userID, &storeID, &recordID, &datetime)
				if err != nil {
					return r, err
				}
				r.UserID = stringPtr(userID)
				r.StoreID = stringPtr(storeID)
				r.RecordID = stringPtr(recordID)
				r.Datetime, err = parseTime(datetime)
				return r, err
			},
		),
		define(
			[]string{"id", "name_id", "store_id", "name_is_customer", "name_is_supplier", "inactive"},
			func(r domain.NameStoreJoinRow) []any {
				return []any{r.ID, r.NameID, r.StoreID, r.NameIsCustomer, r.NameIsSupplier, r.Inactive}
			},
			func(s scanner) (domain.NameStoreJoinRow, error) {
				var r domain.NameStoreJoinRow
				err := s.Scan(&r.ID, &r.NameID, &r.StoreID, &r.NameIsCustomer, &r.NameIsSupplier, &r.Inactive)
				return r, err
			},
		),
	)
}
