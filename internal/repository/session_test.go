package repository

import (
	"context"
	"regexp"
	"strings"
	"testing"
	"time"

	"townsquare/internal/models"
	"townsquare/internal/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionRepository_CreateAndResolve(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repo := NewSessionRepository(db)
	ctx := context.Background()
	alice := createUser(t, db, "alice")
	now := time.Now()

	session, err := repo.Create(ctx, alice.ID, now.Add(time.Hour))
	require.NoError(t, err)
	_, err = uuid.Parse(session.ID)
	require.NoError(t, err)

	other, err := repo.Create(ctx, alice.ID, now.Add(time.Hour))
	require.NoError(t, err)
	assert.NotEqual(t, session.ID, other.ID)

	tests := []struct {
		name    string
		token   string
		wantNil bool
	}{
		{"Valid", session.ID, false},
		{"Upper Case", strings.ToUpper(session.ID), false},
		{"Unknown", uuid.NewString(), true},
		{"Malformed", "not-a-token", true},
		{"Empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			identity, err := repo.Resolve(ctx, tt.token, now)
			require.NoError(t, err)
			if tt.wantNil {
				assert.Nil(t, identity)
				return
			}
			require.NotNil(t, identity)
			assert.Equal(t, alice.ID, identity.ID)
			assert.Equal(t, "alice@example.com", identity.Email)
			assert.Equal(t, "alice", identity.DisplayName)
		})
	}
}

func TestSessionRepository_Resolve_ExpiredIsRemoved(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repo := NewSessionRepository(db)
	ctx := context.Background()
	alice := createUser(t, db, "alice")
	now := time.Now()

	session, err := repo.Create(ctx, alice.ID, now.Add(time.Minute))
	require.NoError(t, err)

	identity, err := repo.Resolve(ctx, session.ID, now.Add(time.Minute))
	require.NoError(t, err)
	assert.Nil(t, identity)

	var count int64
	require.NoError(t, db.Model(&models.Session{}).Where("id = ?", session.ID).Count(&count).Error)
	assert.Zero(t, count)

	// Gone for good, even for a clock that has not reached the expiry.
	identity, err = repo.Resolve(ctx, session.ID, now)
	require.NoError(t, err)
	assert.Nil(t, identity)
}

func TestSessionRepository_Resolve_StoreUnavailable(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewSessionRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM "sessions" JOIN users`)).
		WillReturnError(connReset())

	identity, err := repo.Resolve(context.Background(), uuid.NewString(), time.Now())
	assert.Nil(t, identity)
	requireCode(t, err, models.CodeStoreUnavailable)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionRepository_Delete(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repo := NewSessionRepository(db)
	ctx := context.Background()
	alice := createUser(t, db, "alice")
	now := time.Now()

	session, err := repo.Create(ctx, alice.ID, now.Add(time.Hour))
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, session.ID))
	identity, err := repo.Resolve(ctx, session.ID, now)
	require.NoError(t, err)
	assert.Nil(t, identity)

	// Idempotent.
	require.NoError(t, repo.Delete(ctx, session.ID))
	require.NoError(t, repo.Delete(ctx, "garbage"))
}

func TestSessionRepository_DeleteByUser(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repo := NewSessionRepository(db)
	ctx := context.Background()
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	expires := time.Now().Add(time.Hour)

	for i := 0; i < 3; i++ {
		_, err := repo.Create(ctx, alice.ID, expires)
		require.NoError(t, err)
	}
	bobSession, err := repo.Create(ctx, bob.ID, expires)
	require.NoError(t, err)

	n, err := repo.DeleteByUser(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	identity, err := repo.Resolve(ctx, bobSession.ID, time.Now())
	require.NoError(t, err)
	require.NotNil(t, identity)
	assert.Equal(t, bob.ID, identity.ID)
}

func TestSessionRepository_PurgeExpired(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repo := NewSessionRepository(db)
	ctx := context.Background()
	alice := createUser(t, db, "alice")
	now := time.Now()

	_, err := repo.Create(ctx, alice.ID, now.Add(-time.Hour))
	require.NoError(t, err)
	_, err = repo.Create(ctx, alice.ID, now.Add(-time.Minute))
	require.NoError(t, err)
	live, err := repo.Create(ctx, alice.ID, now.Add(time.Hour))
	require.NoError(t, err)

	n, err := repo.PurgeExpired(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	identity, err := repo.Resolve(ctx, live.ID, now)
	require.NoError(t, err)
	assert.NotNil(t, identity)
}
