// Package translations converts between the central server's legacy flat
// records and normalized domain rows.
//
// Each legacy table has one translator. Translators are consulted in the
// fixed order returned by AllTranslators: generic per-table translators
// first, special translators that reinterpret a legacy concept last.
//
// # Pull
//
// TranslatePull offers a buffered record to each translator in turn. The
// first translator that claims it produces an IntegrationRecords batch,
// which is applied in one transaction. A record no translator claims is not
// an error.
//
// # Push
//
// TranslateChangelog turns one changelog entry into push records. Deletes
// never reach a translator: they map straight to a legacy delete through
// legacy.TableNameFor. Upserts go to the first translator that returns a
// non-empty result. Every push record carries the cursor of its entry so
// callers can persist the high-water mark once a batch is handed off.
//
// # Site filter
//
// Some records exist locally for more than one site. IsActiveRecordOnSite
// walks a record's parent chain to the owning store and compares its site
// with the local site id.
package translations
