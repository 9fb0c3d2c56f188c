package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/sales-etl/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "sales-etl",
	Short: "Sales transactions ETL pipeline",
	Long:  "Ingests a fixed-schema sales extract, removes duplicates and invalid rows, computes profit/year/month, and writes the result to a CSV file and a relational table.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
