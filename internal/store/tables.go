package store

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/roach88/sitesync/internal/domain"
)

type scanner interface {
	Scan(dest ...any) error
}

// tableSpec maps one domain row type to its table. columns[0] is always id.
type tableSpec struct {
	table   domain.Table
	columns []string
	values  func(domain.Row) ([]any, error)
	scan    func(scanner) (domain.Row, error)
}

func define[T domain.Row](columns []string, values func(T) []any, scan func(scanner) (T, error)) tableSpec {
	var zero T
	return tableSpec{
		table:   zero.RowTable(),
		columns: columns,
		values: func(r domain.Row) ([]any, error) {
			row, ok := r.(T)
			if !ok {
				return nil, fmt.Errorf("expected %T, got %T", zero, r)
			}
			return values(row), nil
		},
		scan: func(s scanner) (domain.Row, error) {
			return scan(s)
		},
	}
}

func (s tableSpec) quotedColumns() []string {
	cols := make([]string, len(s.columns))
	for i, c := range s.columns {
		cols[i] = quote(c)
	}
	return cols
}

func (s tableSpec) selectSQL() string {
	return fmt.Sprintf("SELECT %s FROM %s", strings.Join(s.quotedColumns(), ", "), quote(string(s.table)))
}

// upsertSQL replaces every non-id column on conflict, so re-applying a row is
// a no-op and applying a newer version overwrites the old one.
func (s tableSpec) upsertSQL() string {
	cols := s.quotedColumns()
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", ")
	updates := make([]string, 0, len(cols)-1)
	for _, c := range cols[1:] {
		updates = append(updates, fmt.Sprintf("%s = excluded.%s", c, c))
	}
	return fmt.Sprintf(
		`INSERT INTO %s (%s) VALUES (%s) ON CONFLICT("id") DO UPDATE SET %s`,
		quote(string(s.table)),
		strings.Join(cols, ", "),
		placeholders,
		strings.Join(updates, ", "),
	)
}

func (s tableSpec) hasColumn(column string) bool {
	for _, c := range s.columns {
		if c == column {
			return true
		}
	}
	return false
}

func specFor(table domain.Table) (tableSpec, error) {
	spec, ok := tableSpecs[table]
	if !ok {
		return tableSpec{}, fmt.Errorf("%w: %s", ErrUnknownTable, table)
	}
	return spec, nil
}

var tableSpecs = map[domain.Table]tableSpec{}

func register(specs ...tableSpec) {
	for _, s := range specs {
		tableSpecs[s.table] = s
	}
}

func init() {
	register(
		define(
			[]string{"id", "name", "code", "type", "is_customer", "is_supplier"},
			func(r domain.NameRow) []any {
				return []any{r.ID, r.Name, r.Code, string(r.Type), r.IsCustomer, r.IsSupplier}
			},
			func(s scanner) (domain.NameRow, error) {
				var r domain.NameRow
				err := s.Scan(&r.ID, &r.Name, &r.Code, &r.Type, &r.IsCustomer, &r.IsSupplier)
				return r, err
			},
		),
		define(
			[]string{"id", "name"},
			func(r domain.NameTagRow) []any { return []any{r.ID, r.Name} },
			func(s scanner) (domain.NameTagRow, error) {
				var r domain.NameTagRow
				err := s.Scan(&r.ID, &r.Name)
				return r, err
			},
		),
		define(
			[]string{"id", "name"},
			func(r domain.PeriodScheduleRow) []any { return []any{r.ID, r.Name} },
			func(s scanner) (domain.PeriodScheduleRow, error) {
				var r domain.PeriodScheduleRow
				err := s.Scan(&r.ID, &r.Name)
				return r, err
			},
		),
		define(
			[]string{"id", "name", "description", "index"},
			func(r domain.UnitRow) []any {
				return []any{r.ID, r.Name, nullString(r.Description), r.Index}
			},
			func(s scanner) (domain.UnitRow, error) {
				var r domain.UnitRow
				var description sql.NullString
				err := s.Scan(&r.ID, &r.Name, &description, &r.Index)
				r.Description = stringPtr(description)
				return r, err
			},
		),
		define(
			[]string{"id", "name", "code", "unit_id", "type"},
			func(r domain.ItemRow) []any {
				return []any{r.ID, r.Name, r.Code, nullString(r.UnitID), string(r.Type)}
			},
			func(s scanner) (domain.ItemRow, error) {
				var r domain.ItemRow
				var unitID sql.NullString
				err := s.Scan(&r.ID, &r.Name, &r.Code, &unitID, &r.Type)
				r.UnitID = stringPtr(unitID)
				return r, err
			},
		),
		define(
			[]string{"id", "name_id", "code", "site_id"},
			func(r domain.StoreRow) []any { return []any{r.ID, r.NameID, r.Code, r.SiteID} },
			func(s scanner) (domain.StoreRow, error) {
				var r domain.StoreRow
				err := s.Scan(&r.ID, &r.NameID, &r.Code, &r.SiteID)
				return r, err
			},
		),
		define(
			[]string{"id", "name", "code", "description"},
			func(r domain.MasterListRow) []any { return []any{r.ID, r.Name, r.Code, r.Description} },
			func(s scanner) (domain.MasterListRow, error) {
				var r domain.MasterListRow
				err := s.Scan(&r.ID, &r.Name, &r.Code, &r.Description)
				return r, err
			},
		),
		define(
			[]string{"id", "item_id", "master_list_id"},
			func(r domain.MasterListLineRow) []any { return []any{r.ID, r.ItemID, r.MasterListID} },
			func(s scanner) (domain.MasterListLineRow, error) {
				var r domain.MasterListLineRow
				err := s.Scan(&r.ID, &r.ItemID, &r.MasterListID)
				return r, err
			},
		),
		define(
			[]string{"id", "master_list_id", "name_id"},
			func(r domain.MasterListNameJoinRow) []any { return []any{r.ID, r.MasterListID, r.NameID} },
			func(s scanner) (domain.MasterListNameJoinRow, error) {
				var r domain.MasterListNameJoinRow
				err := s.Scan(&r.ID, &r.MasterListID, &r.NameID)
				return r, err
			},
		),
		define(
			[]string{"id", "master_list_id", "name"},
			func(r domain.ProgramRow) []any { return []any{r.ID, r.MasterListID, r.Name} },
			func(s scanner) (domain.ProgramRow, error) {
				var r domain.ProgramRow
				err := s.Scan(&r.ID, &r.MasterListID, &r.Name)
				return r, err
			},
		),
		define(
			[]string{"id", "name_tag_id", "program_id", "period_schedule_id"},
			func(r domain.ProgramRequisitionSettingsRow) []any {
				return []any{r.ID, r.NameTagID, r.ProgramID, r.PeriodScheduleID}
			},
			func(s scanner) (domain.ProgramRequisitionSettingsRow, error) {
				var r domain.ProgramRequisitionSettingsRow
				err := s.Scan(&r.ID, &r.NameTagID, &r.ProgramID, &r.PeriodScheduleID)
				return r, err
			},
		),
		define(
			[]string{"id", "program_requisition_settings_id", "name", "threshold_mos", "max_mos", "max_order_per_period"},
			func(r domain.ProgramRequisitionOrderTypeRow) []any {
				return []any{r.ID, r.ProgramRequisitionSettingsID, r.Name, r.ThresholdMOS, r.MaxMOS, r.MaxOrderPerPeriod}
			},
			func(s scanner) (domain.ProgramRequisitionOrderTypeRow, error) {
				var r domain.ProgramRequisitionOrderTypeRow
				err := s.Scan(&r.ID, &r.ProgramRequisitionSettingsID, &r.Name, &r.ThresholdMOS, &r.MaxMOS, &r.MaxOrderPerPeriod)
				return r, err
			},
		),
		define(
			[]string{"id", "name", "template", "context", "comment"},
			func(r domain.ReportRow) []any {
				return []any{r.ID, r.Name, r.Template, string(r.Context), nullString(r.Comment)}
			},
			func(s scanner) (domain.ReportRow, error) {
				var r domain.ReportRow
				var comment sql.NullString
				err := s.Scan(&r.ID, &r.Name, &r.Template, &r.Context, &comment)
				r.Comment = stringPtr(comment)
				return r, err
			},
		),
	)

	registerRemoteTables()
}
