package commands

import (
	"townsquare/internal/database"

	"github.com/spf13/cobra"
)

func newMigrateCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		Long: `Run AutoMigrate for every model. Non-production servers migrate on
startup; production deployments run this command instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, db, err := connect(opts)
			if err != nil {
				return err
			}
			defer func() { _ = database.Close(db) }()

			if err := database.Migrate(db); err != nil {
				return err
			}
			return report(cmd.OutOrStdout(), opts, map[string]string{"status": "migrated"}, "Schema is up to date")
		},
	}
}
