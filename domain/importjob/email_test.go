package importjob

import (
	"fmt"
	"os"
	"testing"

	"germplasm-accession-importer/domain/germplasm"
	"germplasm-accession-importer/utils/email"
	"github.com/stretchr/testify/assert"
)

func testResult() *ResultSchema {
	events := make([]germplasm.Event, 0)
	for i := 0; i < 5; i++ {
		events = append(events, germplasm.Event{
			Level:   germplasm.LevelNotice,
			Line:    i + 1,
			Message: fmt.Sprintf("Inserting \"Test%d\".", i),
		})
	}
	events = append(events, germplasm.Event{
		Level:   germplasm.LevelError,
		Kind:    germplasm.KindAuthorityNotFound,
		Line:    6,
		Message: "Unable to find \"<PRETEND>\" in chado.db.",
	})

	return &ResultSchema{
		JobID:    "job-1",
		Location: "s3://germplasm/lines.tsv",
		Error:    germplasm.ErrUnresolvedErrors.Error(),
		Stats:    germplasm.ImportStats{LinesRead: 6, DataLines: 6, FailedLines: 1, StocksInserted: 5},
		Events:   events,
	}
}

func TestRenderImportResultPage(t *testing.T) {
	page := renderImportResultPage(testResult())

	assert.Contains(t, page, "<h1>Germplasm import rolled back</h1>")
	assert.Contains(t, page, "<h2>Errors (1)</h2>")
	assert.Contains(t, page, "<h2>Notices (5)</h2>")
	assert.Contains(t, page, "line 6: Unable to find &#34;&lt;PRETEND&gt;&#34; in chado.db.")
	assert.Contains(t, page, "Accessions inserted: 5, reused: 0")
}

func TestImportEmailTitle(t *testing.T) {
	ret := testResult()
	assert.Equal(t, "Germplasm import rolled back", importEmailTitle(ret))

	ret.Committed = true
	assert.Equal(t, "Germplasm import committed", importEmailTitle(ret))

	ret = &ResultSchema{Result: &germplasm.ImportResult{DryRun: true}}
	assert.Equal(t, "Germplasm dry run passed", importEmailTitle(ret))
}

func TestSendImportResultEmail(t *testing.T) {
	to := os.Getenv("GERMPLASM_SMTP_TEST")
	if to == "" {
		t.Skip("GERMPLASM_SMTP_TEST not set")
	}

	email.Init(email.GenerateTestConfig())
	assert.Nil(t, sendImportResultEmail(to, testResult()))
}
