package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/sales-etl/internal/model"
	"github.com/sells-group/sales-etl/internal/pipeline"
	"github.com/sells-group/sales-etl/internal/store"
)

var (
	runSource      string
	runOutput      string
	runTable       string
	runDryRun      bool
	runNoDB        bool
	runSummaryJSON string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the ETL pipeline over one source extract",
	Long: `Reads the raw sales extract (XLSX or CSV), runs the transformation
pipeline, and writes the cleaned rows to the CSV output and the database table.

Examples:
  # Dry run — parse the source only, no transformation or sinks
  sales-etl run --source sales_raw_500.xlsx --dry-run

  # Full run, CSV output only
  sales-etl run --source sales_raw_500.xlsx --output sales_cleaned.csv --no-db

  # Full run into Postgres
  SALESETL_STORE_DRIVER=postgres SALESETL_STORE_DATABASE_URL=postgres://... \
    sales-etl run --source sales_raw_500.xlsx --table sales_data`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		// Flag overrides on top of config/env.
		if runSource != "" {
			cfg.Source.Path = runSource
		}
		if runOutput != "" {
			cfg.Output.Path = runOutput
		}
		if runTable != "" {
			cfg.Store.Table = runTable
		}

		// Dry run: parse the source and print the rows, skip the pipeline.
		if runDryRun {
			raw, err := pipeline.Load(cfg.Source.Path, cfg.Source.Sheet)
			if err != nil {
				return eris.Wrap(err, "run: parse source")
			}
			zap.L().Info("parsed source", zap.Int("rows", len(raw)))
			return printRawJSON(raw)
		}

		var st store.Store
		if !runNoDB {
			s, err := initStore(ctx)
			if err != nil {
				return eris.Wrap(err, "run: init store")
			}
			defer s.Close()
			if err := s.Migrate(ctx, cfg.Store.Table); err != nil {
				return eris.Wrap(err, "run: migrate store")
			}
			st = s
		}

		summary, err := pipeline.New(cfg, st).Run(ctx)
		if summary != nil {
			if werr := writeSummary(summary); werr != nil {
				zap.L().Error("run: write summary", zap.Error(werr))
			}
		}
		if err != nil {
			return eris.Wrap(err, "run")
		}
		return nil
	},
}

func init() {
	runCmd.Flags().StringVar(&runSource, "source", "", "path to source extract (.xlsx or .csv); default from config")
	runCmd.Flags().StringVar(&runOutput, "output", "", "path for the cleaned CSV output; default from config")
	runCmd.Flags().StringVar(&runTable, "table", "", "target database table; default from config")
	runCmd.Flags().BoolVar(&runDryRun, "dry-run", false, "parse the source and print rows, skip the pipeline")
	runCmd.Flags().BoolVar(&runNoDB, "no-db", false, "skip the database sink, write CSV only")
	runCmd.Flags().StringVar(&runSummaryJSON, "summary-json", "", "write the run summary JSON to file (default: stdout)")
	rootCmd.AddCommand(runCmd)
}

// printRawJSON prints parsed raw records as indented JSON.
func printRawJSON(records []model.RawRecord) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}

// writeSummary writes the run summary to the summary file or stdout.
func writeSummary(summary *model.Summary) error {
	var w *os.File
	if runSummaryJSON != "" {
		f, err := os.Create(runSummaryJSON)
		if err != nil {
			return eris.Wrap(err, "run: create summary file")
		}
		defer f.Close() //nolint:errcheck
		w = f
	} else {
		w = os.Stdout
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(summary)
}
