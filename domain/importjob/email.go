package importjob

import (
	"fmt"
	"html"
	"strings"

	"germplasm-accession-importer/domain/germplasm"
	"germplasm-accession-importer/utils"
	emailutils "germplasm-accession-importer/utils/email"
)

const importEmailHTMLTemplate = `
<h1>%s</h1>
<p>File: %s</p>
<p>Job: %s</p>
<p>Lines read: %d, data lines: %d, failed lines: %d</p>
<p>Accessions inserted: %d, reused: %d</p>
<p>Properties inserted: %d, synonyms inserted: %d, relationships inserted: %d</p>

<h2>Errors (%d)</h2>
<p>%s</p>

<h2>Notices (%d)</h2>
<p>%s</p>
`

func importEmailTitle(ret *ResultSchema) string {
	switch {
	case ret.Committed:
		return "Germplasm import committed"
	case ret.Error == "" && ret.Result != nil && ret.Result.DryRun:
		return "Germplasm dry run passed"
	default:
		return "Germplasm import rolled back"
	}
}

func splitEvents(events []germplasm.Event) (errs []string, notices []string) {
	for _, event := range events {
		text := html.EscapeString(event.Message)
		if event.Line > 0 {
			text = fmt.Sprintf("line %d: %s", event.Line, text)
		}

		if event.Level == germplasm.LevelError {
			errs = append(errs, text)
		} else {
			notices = append(notices, text)
		}
	}
	return errs, notices
}

func renderImportResultPage(ret *ResultSchema) string {
	errs, notices := splitEvents(ret.Events)
	stats := ret.Stats

	return fmt.Sprintf(importEmailHTMLTemplate,
		importEmailTitle(ret),
		html.EscapeString(ret.Location),
		ret.JobID,
		stats.LinesRead, stats.DataLines, stats.FailedLines,
		stats.StocksInserted, stats.StocksReused,
		stats.PropertiesInserted, stats.SynonymsInserted, stats.RelationshipsInserted,
		len(errs), strings.Join(errs, "<br/>"),
		len(notices), strings.Join(notices, "<br/>"))
}

func sendImportResultEmail(to string, ret *ResultSchema) error {
	err := emailutils.SendHtml(to, "[Germplasm Importer] "+importEmailTitle(ret), renderImportResultPage(ret))
	if err != nil {
		return utils.WrapErrorf(err, "send email to [%s] fail", to)
	}

	return nil
}
