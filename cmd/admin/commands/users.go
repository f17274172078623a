package commands

import (
	"fmt"
	"strconv"

	"townsquare/internal/database"

	"github.com/spf13/cobra"
)

func parseUserID(arg string) (uint, error) {
	id, err := strconv.ParseUint(arg, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid user id %q", arg)
	}
	return uint(id), nil
}

func newDeleteUserCmd(opts *globalOptions) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete-user <user-id>",
		Short: "Delete a user with their sessions, posts, comments and likes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := parseUserID(args[0])
			if err != nil {
				return err
			}
			if !yes {
				return fmt.Errorf("refusing to delete user %d without --yes", userID)
			}

			cfg, db, err := connect(opts)
			if err != nil {
				return err
			}
			defer func() { _ = database.Close(db) }()

			if err := newAuthService(cfg, db).DeleteUser(cmd.Context(), userID); err != nil {
				return err
			}
			return report(cmd.OutOrStdout(), opts, map[string]any{"deleted": userID}, "Deleted user %d", userID)
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "Confirm the deletion")
	return cmd
}
