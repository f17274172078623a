//go:build integration

package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"townsquare/internal/config"
	"townsquare/internal/database"
	"townsquare/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// setupPostgres starts a PostgreSQL container and returns a migrated connection.
func setupPostgres(t *testing.T) (*gorm.DB, *postgres.PostgresContainer) {
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("townsquare"),
		postgres.WithUsername("townsquare"),
		postgres.WithPassword("townsquare"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		t.Fatalf("Failed to start PostgreSQL container: %v", err)
	}
	t.Cleanup(func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("Failed to terminate container: %v", err)
		}
	})

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := database.Open(gormpostgres.Open(connStr), &config.Config{
		Env:                   "test",
		DBMaxOpenConns:        10,
		DBQueryTimeoutSeconds: 2,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })

	return db, pgContainer
}

func TestIntegration_LikeScenario(t *testing.T) {
	db, _ := setupPostgres(t)
	ctx := context.Background()
	users := NewUserRepository(db)
	sessions := NewSessionRepository(db)
	posts := NewPostRepository(db)

	alice := &models.User{Email: "alice@example.com", DisplayName: "Alice", PasswordHash: "hash"}
	require.NoError(t, users.Create(ctx, alice))
	requireCode(t, users.Create(ctx, &models.User{Email: "alice@example.com", DisplayName: "A2", PasswordHash: "hash"}), models.CodeDuplicateEmail)

	session, err := sessions.Create(ctx, alice.ID, time.Now().Add(time.Hour))
	require.NoError(t, err)
	identity, err := sessions.Resolve(ctx, session.ID, time.Now())
	require.NoError(t, err)
	require.NotNil(t, identity)
	assert.Equal(t, alice.ID, identity.ID)

	post := &models.Post{UserID: alice.ID, Body: "hello world"}
	require.NoError(t, posts.Create(ctx, post))

	view, err := posts.Like(ctx, alice.ID, post.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), view.LikesCount)
	assert.True(t, view.Liked)

	view, err = posts.Like(ctx, alice.ID, post.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), view.LikesCount)

	view, err = posts.Unlike(ctx, alice.ID, post.ID)
	require.NoError(t, err)
	assert.Zero(t, view.LikesCount)
	assert.False(t, view.Liked)
}

func TestIntegration_ConcurrentLikes(t *testing.T) {
	db, _ := setupPostgres(t)
	ctx := context.Background()
	users := NewUserRepository(db)
	posts := NewPostRepository(db)

	author := &models.User{Email: "author@example.com", DisplayName: "Author", PasswordHash: "hash"}
	require.NoError(t, users.Create(ctx, author))
	post := &models.Post{UserID: author.ID, Body: "race me"}
	require.NoError(t, posts.Create(ctx, post))

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := posts.Like(ctx, author.ID, post.ID)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	view, err := posts.GetByID(ctx, post.ID, &author.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), view.LikesCount)
	assert.True(t, view.Liked)
}

func TestIntegration_StoreUnavailable(t *testing.T) {
	db, pgContainer := setupPostgres(t)
	ctx := context.Background()

	require.NoError(t, pgContainer.Stop(ctx, nil))

	_, err := NewPostRepository(db).List(ctx, nil, 20, 0)
	requireCode(t, err, models.CodeStoreUnavailable)
}
