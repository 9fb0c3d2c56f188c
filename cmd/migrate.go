package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var migrateTable string

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the target database table",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		if migrateTable != "" {
			cfg.Store.Table = migrateTable
		}

		st, err := initStore(ctx)
		if err != nil {
			return eris.Wrap(err, "migrate: init store")
		}
		defer st.Close()

		if err := st.Migrate(ctx, cfg.Store.Table); err != nil {
			return eris.Wrap(err, "migrate")
		}

		zap.L().Info("migration complete",
			zap.String("driver", cfg.Store.Driver),
			zap.String("table", cfg.Store.Table),
		)
		return nil
	},
}

func init() {
	migrateCmd.Flags().StringVar(&migrateTable, "table", "", "target database table; default from config")
	rootCmd.AddCommand(migrateCmd)
}
