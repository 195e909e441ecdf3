package translations

import (
	"context"

	"github.com/roach88/sitesync/internal/domain"
	"github.com/roach88/sitesync/internal/legacy"
	"github.com/roach88/sitesync/internal/store"
)

// reportEditorSite marks templates authored for this client. Reports made
// with any other editor are claimed and dropped.
const reportEditorSite = "omsupply"

type LegacyReportRow struct {
	ID         string `json:"ID"`
	ReportName string `json:"report_name"`
	Editor     string `json:"editor"`
	Template   string `json:"template"`
	Context    string `json:"context"`
	Comment    string `json:"comment"`
}

type ReportTranslation struct{ noTranslation }

func (ReportTranslation) TryTranslatePullUpsert(_ context.Context, _ *store.Connection, rec domain.SyncBufferRow) (*IntegrationRecords, error) {
	if rec.TableName != legacy.TableReport {
		return nil, nil
	}
	var data LegacyReportRow
	if err := parseLegacy(rec, &data); err != nil {
		return nil, err
	}
	if data.Editor != reportEditorSite {
		return &IntegrationRecords{}, nil
	}
	reportContext, err := reportContexts.pull(data.Context)
	if err != nil {
		return nil, err
	}
	return FromUpsert(domain.ReportRow{
		ID:       data.ID,
		Name:     data.ReportName,
		Template: data.Template,
		Context:  reportContext,
		Comment:  legacy.OptionalString(data.Comment),
	}), nil
}

func (ReportTranslation) TryTranslatePullDelete(_ context.Context, _ *store.Connection, rec domain.SyncBufferRow) (*IntegrationRecords, error) {
	if rec.TableName != legacy.TableReport {
		return nil, nil
	}
	return FromDelete(rec.RecordID, domain.TableReport), nil
}
