package commands

import (
	"fmt"
	"os"

	"townsquare/internal/database"
	"townsquare/internal/seed"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
)

type seedOptions struct {
	file            string
	dump            string
	users           int
	postsPerUser    int
	commentsPerPost int
	likeRatio       float64
	seed            int64
	clean           bool
	fast            bool
}

func newSeedCmd(opts *globalOptions) *cobra.Command {
	so := &seedOptions{}

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load fixtures or generate fake data",
		Long: `Seed the database. With --file the YAML fixtures are applied as is;
otherwise a data set is generated with gofakeit.

Examples:
  townsquare-admin seed --file fixtures.yml
  townsquare-admin seed --users 50 --posts-per-user 5 --seed 42
  townsquare-admin seed --clean --fast
  townsquare-admin seed --users 5 --dump generated.yml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(cmd, opts, so)
		},
	}

	d := seed.DefaultOptions
	cmd.Flags().StringVar(&so.file, "file", "", "YAML fixture file")
	cmd.Flags().StringVar(&so.dump, "dump", "", "Also write the applied fixtures to this YAML file")
	cmd.Flags().IntVar(&so.users, "users", d.NumUsers, "Number of generated users")
	cmd.Flags().IntVar(&so.postsPerUser, "posts-per-user", d.PostsPerUser, "Posts per generated user")
	cmd.Flags().IntVar(&so.commentsPerPost, "comments-per-post", d.CommentsPerPost, "Comments per generated post")
	cmd.Flags().Float64Var(&so.likeRatio, "like-ratio", d.LikeRatio, "Chance that a user likes a post")
	cmd.Flags().Int64Var(&so.seed, "seed", 0, "Generator seed (0 for random)")
	cmd.Flags().BoolVar(&so.clean, "clean", false, "Delete all users, sessions, posts, comments and likes first")
	cmd.Flags().BoolVar(&so.fast, "fast", false, "Hash passwords with the minimum bcrypt cost")
	return cmd
}

func runSeed(cmd *cobra.Command, opts *globalOptions, so *seedOptions) error {
	cfg, db, err := connect(opts)
	if err != nil {
		return err
	}
	defer func() { _ = database.Close(db) }()

	var fx *seed.Fixtures
	if so.file != "" {
		if fx, err = seed.LoadFixtures(so.file); err != nil {
			return err
		}
	} else {
		fx = seed.NewFactory(so.seed).Generate(seed.Options{
			NumUsers:        so.users,
			PostsPerUser:    so.postsPerUser,
			CommentsPerPost: so.commentsPerPost,
			LikeRatio:       so.likeRatio,
		})
	}

	if so.dump != "" {
		data, err := fx.Marshal()
		if err != nil {
			return err
		}
		if err := os.WriteFile(so.dump, data, 0o600); err != nil {
			return fmt.Errorf("write %s: %w", so.dump, err)
		}
	}

	cost := cfg.BcryptCost
	if so.fast {
		cost = bcrypt.MinCost
	}
	seeder := seed.NewSeeder(db, cost)

	ctx := cmd.Context()
	if so.clean {
		if err := seeder.Clean(ctx); err != nil {
			return err
		}
	}

	res, err := seeder.Apply(ctx, fx)
	if err != nil {
		return err
	}
	return report(cmd.OutOrStdout(), opts, res,
		"Seeded %d users, %d posts, %d comments, %d likes", res.Users, res.Posts, res.Comments, res.Likes)
}
