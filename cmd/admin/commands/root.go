// Package commands implements the townsquare-admin CLI.
package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"townsquare/internal/config"
	"townsquare/internal/database"
	"townsquare/internal/observability"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

// Swapped out in tests.
var (
	loadConfig = config.LoadConfig
	openDB     = database.Connect
)

type globalOptions struct {
	envFile    string
	jsonOutput bool
}

// Execute runs the root command
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	cmd := &cobra.Command{
		Use:   "townsquare-admin",
		Short: "Townsquare administration",
		Long: `Maintenance commands for a Townsquare database.

Commands:
  migrate          - Create or update the schema
  seed             - Load YAML fixtures or generate fake data
  purge-sessions   - Delete expired login sessions
  revoke-sessions  - Log a user out everywhere
  delete-user      - Delete a user and everything they own`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "Environment file loaded before the config")
	cmd.PersistentFlags().BoolVar(&opts.jsonOutput, "json", false, "Output in JSON format")

	cmd.AddCommand(
		newMigrateCmd(opts),
		newSeedCmd(opts),
		newPurgeSessionsCmd(opts),
		newRevokeSessionsCmd(opts),
		newDeleteUserCmd(opts),
	)
	return cmd
}

// connect loads the configuration and opens the database.
func connect(opts *globalOptions) (*config.Config, *gorm.DB, error) {
	// The env file is optional.
	_ = godotenv.Load(opts.envFile)

	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	observability.InitLogger(cfg.Env, cfg.LogLevel)

	db, err := openDB(cfg)
	if err != nil {
		return nil, nil, err
	}
	return cfg, db, nil
}

// report prints v as JSON when --json is set, otherwise the formatted text.
func report(w io.Writer, opts *globalOptions, v any, format string, args ...any) error {
	if opts.jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	_, err := fmt.Fprintf(w, format+"\n", args...)
	return err
}
