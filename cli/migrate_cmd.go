package cli

import (
	"fmt"

	"germplasm-accession-importer/repository/chado"
	"germplasm-accession-importer/utils"
	"github.com/spf13/cobra"
)

func newMigrateCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the Chado tables used by the importer",
		RunE: func(cmd *cobra.Command, args []string) error {
			appConfig, err := loadConfig(root)
			if err != nil {
				return err
			}

			databaseConfig := appConfig.Database
			databaseConfig.CheckMigration = false

			database, err := chado.CreateDatabase(&databaseConfig)
			if err != nil {
				return withCode(exitFailure, utils.WrapError(err, "connect database fail"))
			}

			if err := chado.Migrate(database); err != nil {
				return withCode(exitFailure, utils.WrapError(err, "migrate fail"))
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "migration done")
			return nil
		},
	}
}
