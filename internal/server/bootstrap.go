package server

import (
	"context"
	"fmt"
	"log/slog"

	"townsquare/internal/config"
	"townsquare/internal/observability"
	"townsquare/internal/seed"

	"gorm.io/gorm"
)

// bootstrapFixtures applies cfg.DevSeedFixtures in development only. Users
// already present are reused, but posts are appended on every start, so the
// data set is only loaded into an empty database.
func bootstrapFixtures(ctx context.Context, cfg *config.Config, db *gorm.DB) error {
	if cfg.Env != "development" || cfg.DevSeedFixtures == "" {
		return nil
	}

	var posts int64
	if err := db.WithContext(ctx).Table("posts").Count(&posts).Error; err != nil {
		return fmt.Errorf("bootstrap fixtures: %w", err)
	}
	if posts > 0 {
		observability.Logger.Info("Database already has posts, skipping dev fixtures")
		return nil
	}

	fx, err := seed.LoadFixtures(cfg.DevSeedFixtures)
	if err != nil {
		return fmt.Errorf("bootstrap fixtures: %w", err)
	}
	res, err := seed.NewSeeder(db, cfg.BcryptCost).Apply(ctx, fx)
	if err != nil {
		return fmt.Errorf("bootstrap fixtures: %w", err)
	}

	observability.Logger.Info("Loaded dev fixtures",
		slog.String("file", cfg.DevSeedFixtures),
		slog.Int("users", res.Users),
		slog.Int("posts", res.Posts),
	)
	return nil
}
