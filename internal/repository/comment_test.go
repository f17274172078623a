package repository

import (
	"context"
	"testing"

	"townsquare/internal/models"
	"townsquare/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommentRepository_ListByPost(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repo := NewCommentRepository(db)
	ctx := context.Background()

	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	post := createPost(t, db, alice, "discuss")
	quiet := createPost(t, db, alice, "nobody replies")

	require.NoError(t, repo.Create(ctx, &models.Comment{UserID: bob.ID, PostID: post.ID, Body: "first"}))
	require.NoError(t, repo.Create(ctx, &models.Comment{UserID: alice.ID, PostID: post.ID, Body: "second"}))
	deleted := &models.Comment{UserID: bob.ID, PostID: post.ID, Body: "oops"}
	require.NoError(t, repo.Create(ctx, deleted))
	require.NoError(t, db.Delete(deleted).Error)

	tests := []struct {
		name      string
		postID    uint
		wantBody  []string
		wantError string
	}{
		{"With Comments", post.ID, []string{"first", "second"}, ""},
		{"No Comments", quiet.ID, []string{}, ""},
		{"Unknown Post", 404, nil, models.CodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			comments, err := repo.ListByPost(ctx, tt.postID)
			if tt.wantError != "" {
				requireCode(t, err, tt.wantError)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, comments)
			bodies := make([]string, 0, len(comments))
			for _, c := range comments {
				bodies = append(bodies, c.Body)
				assert.Equal(t, tt.postID, c.PostID)
			}
			assert.Equal(t, tt.wantBody, bodies)
		})
	}

	comments, err := repo.ListByPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "bob", comments[0].AuthorName)
	assert.Equal(t, bob.ID, comments[0].AuthorID)
}
