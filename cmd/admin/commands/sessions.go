package commands

import (
	"townsquare/internal/config"
	"townsquare/internal/database"
	"townsquare/internal/repository"
	"townsquare/internal/service"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

func newAuthService(cfg *config.Config, db *gorm.DB) *service.AuthService {
	return service.NewAuthService(
		repository.NewUserRepository(db),
		repository.NewSessionRepository(db),
		cfg.SessionTTL(),
		cfg.BcryptCost,
	)
}

func newPurgeSessionsCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "purge-sessions",
		Short: "Delete expired login sessions",
		Long: `Expired sessions are removed lazily when presented. This command sweeps
the ones that never come back; run it from cron.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, db, err := connect(opts)
			if err != nil {
				return err
			}
			defer func() { _ = database.Close(db) }()

			n, err := newAuthService(cfg, db).PurgeExpiredSessions(cmd.Context())
			if err != nil {
				return err
			}
			return report(cmd.OutOrStdout(), opts, map[string]int64{"purged": n}, "Purged %d expired sessions", n)
		},
	}
}

func newRevokeSessionsCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "revoke-sessions <user-id>",
		Short: "Log a user out of every device",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := parseUserID(args[0])
			if err != nil {
				return err
			}

			cfg, db, err := connect(opts)
			if err != nil {
				return err
			}
			defer func() { _ = database.Close(db) }()

			n, err := newAuthService(cfg, db).DeleteUserSessions(cmd.Context(), userID)
			if err != nil {
				return err
			}
			return report(cmd.OutOrStdout(), opts,
				map[string]any{"user_id": userID, "revoked": n},
				"Revoked %d sessions of user %d", n, userID)
		},
	}
}
