package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"germplasm-accession-importer/domain/germplasm"
	"github.com/spf13/cobra"
)

type importOptions struct {
	file    string
	genus   string
	dryRun  bool
	jsonOut bool
	runID   string
}

func newImportCmd(root *rootOptions) *cobra.Command {
	var opts importOptions

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import a tab-separated germplasm accession file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd, root, &opts)
		},
	}

	cmd.Flags().StringVar(&opts.file, "file", "", "Input file, a local path or s3://bucket/key (required)")
	cmd.Flags().StringVar(&opts.genus, "genus", "", "Genus of every accession in the file (required)")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Validate the whole file and always roll back")
	cmd.Flags().BoolVar(&opts.jsonOut, "json", false, "Print the result as JSON")
	cmd.Flags().StringVar(&opts.runID, "run-id", "", "Run id used in logs (default: random uuid)")

	return cmd
}

func runImport(cmd *cobra.Command, root *rootOptions, opts *importOptions) error {
	if opts.file == "" {
		return withCode(exitUsage, fmt.Errorf("--file is required"))
	}
	if strings.TrimSpace(opts.genus) == "" {
		return withCode(exitUsage, fmt.Errorf("--genus is required"))
	}

	appConfig, err := loadConfig(root)
	if err != nil {
		return err
	}

	if err := initImporter(appConfig); err != nil {
		return err
	}

	result, err := germplasm.ImportFile(cmd.Context(), &germplasm.ImportConfig{
		Location: opts.file,
		Genus:    opts.genus,
		DryRun:   opts.dryRun,
		RunID:    opts.runID,
	})

	out := cmd.OutOrStdout()
	if result != nil {
		if opts.jsonOut {
			if err := printResultJSON(out, result); err != nil {
				return withCode(exitFailure, err)
			}
		} else {
			printSummary(out, result)
		}
	}

	return err
}

type resultOutput struct {
	*germplasm.ImportResult
	Errors []string `json:"errors"`
}

func printResultJSON(out io.Writer, result *germplasm.ImportResult) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(resultOutput{
		ImportResult: result,
		Errors:       result.ErrorMessages(),
	})
}

func printSummary(out io.Writer, result *germplasm.ImportResult) {
	stats := result.Stats

	_, _ = fmt.Fprintf(out, "run %s: %s\n", result.RunID, summaryState(result))
	_, _ = fmt.Fprintf(out, "lines read: %d, data: %d, skipped: %d, failed: %d\n",
		stats.LinesRead, stats.DataLines, stats.SkippedLines, stats.FailedLines)
	_, _ = fmt.Fprintf(out, "stocks inserted: %d, reused: %d\n", stats.StocksInserted, stats.StocksReused)
	_, _ = fmt.Fprintf(out, "dbxrefs inserted: %d, bound: %d\n", stats.DbxrefsInserted, stats.DbxrefsBound)
	_, _ = fmt.Fprintf(out, "properties inserted: %d\n", stats.PropertiesInserted)
	_, _ = fmt.Fprintf(out, "synonyms inserted: %d, links: %d, relationships: %d\n",
		stats.SynonymsInserted, stats.SynonymLinksInserted, stats.RelationshipsInserted)

	for _, msg := range result.ErrorMessages() {
		_, _ = fmt.Fprintf(out, "ERROR: %s\n", msg)
	}
}

func summaryState(result *germplasm.ImportResult) string {
	switch {
	case result.Committed:
		return "committed"
	case result.DryRun && !result.HasErrors():
		return "dry run, rolled back"
	case result.HasErrors():
		return germplasm.ErrUnresolvedErrors.Error()
	default:
		return string(result.State)
	}
}
